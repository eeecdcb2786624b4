// Package main provides the goxtal binary: a command-line tool to
// validate, inspect and convert small-molecule CIF files using the
// goXtal library.
package main

import (
	"fmt"
	"math"
	"os"

	xtal "github.com/mfaundez/goxtal"
	"github.com/mfaundez/goxtal/cif"
	"github.com/mfaundez/goxtal/xtaljson"
	"github.com/mfaundez/goxtal/xtalplot"
	"github.com/spf13/cobra"
)

const (
	Version = "0.1.0"
	appName = "goxtal"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "goxtal",
		Short: "Small-molecule CIF toolbox",
		Long: `Goxtal reads deposited small-molecule CIF files and checks them for
internal consistency: syntax, referential integrity between tables,
and agreement between the published geometry and the one recomputed
from the cell, symmetry and coordinates.

Files compressed with gzip (.gz) or zstd (.zst) are handled
transparently.`,
		SilenceUsage: true,
	}
	cmd.AddCommand(validateCmd(), infoCmd(), geomCmd(), expandCmd(), jsonCmd(), plotCmd())
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s version %s\n", appName, Version)
		},
	})
	return cmd
}

//readStructure loads the first (or the named) data block of a file.
func readStructure(path, blockname string) (*xtal.Structure, error) {
	doc, err := cif.ReadFile(path)
	if err != nil {
		return nil, err
	}
	b := doc.First()
	if blockname != "" {
		if b = doc.Block(blockname); b == nil {
			return nil, fmt.Errorf("no data block %q in %s", blockname, path)
		}
	}
	return xtal.StructureFromBlock(b)
}

func validateCmd() *cobra.Command {
	var (
		block string
		dtol  float64
		atol  float64
	)
	cmd := &cobra.Command{
		Use:   "validate FILE",
		Short: "Parse a CIF file and check its internal consistency",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := readStructure(args[0], block)
			if err != nil {
				return err
			}
			if err := st.CheckReferences(); err != nil {
				return err
			}
			problems := 0
			if st.Cell.Volume.Known() {
				v := st.Cell.ComputedVolume()
				tol := 0.01
				if st.Cell.Volume.SU > 0 {
					tol = 2 * st.Cell.Volume.SU
				}
				if math.Abs(v-st.Cell.Volume.V) > tol {
					fmt.Printf("cell volume: deposited %s, computed %.4f\n", st.Cell.Volume, v)
					problems++
				}
			}
			reports, err := st.CheckBondTable()
			if err != nil {
				return err
			}
			for _, r := range reports {
				fmt.Println(r)
			}
			problems += len(reports)
			mm, err := st.VerifyGeometry(dtol, atol)
			if err != nil {
				return err
			}
			for _, m := range mm {
				fmt.Println(m)
			}
			problems += len(mm)
			if problems > 0 {
				return fmt.Errorf("%d consistency problems", problems)
			}
			fmt.Printf("%s: ok (%d sites, %d bonds, %d angles, %d torsions)\n",
				args[0], len(st.Sites), len(st.Bonds), len(st.Angles), len(st.Torsions))
			return nil
		},
	}
	cmd.Flags().StringVar(&block, "block", "", "Data block to check (default: first)")
	cmd.Flags().Float64Var(&dtol, "dtol", 0.002, "Allowed distance deviation, Angstrom")
	cmd.Flags().Float64Var(&atol, "atol", 0.05, "Allowed angle deviation, degrees")
	return cmd
}

func infoCmd() *cobra.Command {
	var block string
	cmd := &cobra.Command{
		Use:   "info FILE",
		Short: "Print a summary of a deposited structure",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := readStructure(args[0], block)
			if err != nil {
				return err
			}
			c := st.Cell
			fmt.Printf("data block    %s\n", st.Name)
			if st.Chemical.Name != "" {
				fmt.Printf("compound      %s\n", st.Chemical.Name)
			}
			if st.Chemical.FormulaSum != "" {
				fmt.Printf("formula       %s  (%s)\n", st.Chemical.FormulaSum, st.Chemical.Weight)
			}
			fmt.Printf("space group   %s (No. %d, %s)\n", st.SpaceGroup.NameHM, st.SpaceGroup.Number, st.SpaceGroup.Hall)
			fmt.Printf("cell          a=%s b=%s c=%s\n", c.A, c.B, c.C)
			fmt.Printf("              alpha=%s beta=%s gamma=%s\n", c.Alpha, c.Beta, c.Gamma)
			fmt.Printf("volume        %.2f A^3 (deposited %s)\n", c.ComputedVolume(), c.Volume)
			fmt.Printf("Z             %d (computed %d)\n", c.FormulaUnitsZ, st.ComputedZ())
			fmt.Printf("density       %.3f g/cm3\n", st.Density())
			fmt.Printf("sites         %d in the asymmetric unit, %d in the cell\n",
				len(st.Sites), len(st.Expand()))
			return nil
		},
	}
	cmd.Flags().StringVar(&block, "block", "", "Data block to read (default: first)")
	return cmd
}

func geomCmd() *cobra.Command {
	var (
		block  string
		derive bool
	)
	cmd := &cobra.Command{
		Use:   "geom FILE",
		Short: "Print the geometry tables, recomputed from the coordinates",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := readStructure(args[0], block)
			if err != nil {
				return err
			}
			bonds := st.Bonds
			if derive || len(bonds) == 0 {
				if bonds, err = xtal.AssignBonds(st); err != nil {
					return err
				}
			}
			for _, b := range bonds {
				d, err := st.BondLength(b)
				if err != nil {
					return err
				}
				fmt.Printf("bond    %-4s %-4s %-6s %8.4f\n", b.Label1, b.Label2, b.Sym2, d)
			}
			for _, a := range st.Angles {
				v, err := st.AngleValue(a)
				if err != nil {
					return err
				}
				fmt.Printf("angle   %-4s %-4s %-4s %8.3f\n", a.Label1, a.Label2, a.Label3, v)
			}
			for _, t := range st.Torsions {
				v, err := st.TorsionValue(t)
				if err != nil {
					return err
				}
				fmt.Printf("torsion %-4s %-4s %-4s %-4s %8.2f\n", t.Label1, t.Label2, t.Label3, t.Label4, v)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&block, "block", "", "Data block to read (default: first)")
	cmd.Flags().BoolVar(&derive, "derive", false, "Derive bonds from covalent radii instead of the published table")
	return cmd
}

func expandCmd() *cobra.Command {
	var block string
	cmd := &cobra.Command{
		Use:   "expand FILE",
		Short: "Print the full unit-cell contents in fractional coordinates",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := readStructure(args[0], block)
			if err != nil {
				return err
			}
			for _, cs := range st.Expand() {
				fmt.Printf("%-4s %-2s op%d  %9.5f %9.5f %9.5f\n",
					cs.Label, cs.Symbol, cs.Op, cs.Frac[0], cs.Frac[1], cs.Frac[2])
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&block, "block", "", "Data block to read (default: first)")
	return cmd
}

func jsonCmd() *cobra.Command {
	var block string
	cmd := &cobra.Command{
		Use:   "json FILE",
		Short: "Stream the structure as JSON lines to stdout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := readStructure(args[0], block)
			if err != nil {
				return err
			}
			if jerr := xtaljson.Send(st, os.Stdout); jerr != nil {
				return jerr
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&block, "block", "", "Data block to read (default: first)")
	return cmd
}

func plotCmd() *cobra.Command {
	var (
		block string
		plane string
		out   string
	)
	cmd := &cobra.Command{
		Use:   "plot FILE",
		Short: "Draw a cell projection of the structure",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := readStructure(args[0], block)
			if err != nil {
				return err
			}
			pl, err := xtalplot.PlaneFromString(plane)
			if err != nil {
				return err
			}
			if out == "" {
				out = st.Name + "_" + plane + ".png"
			}
			if err := xtalplot.Save(st, pl, out); err != nil {
				return err
			}
			fmt.Println("wrote", out)
			return nil
		},
	}
	cmd.Flags().StringVar(&block, "block", "", "Data block to read (default: first)")
	cmd.Flags().StringVar(&plane, "plane", "ab", "Projection plane: ab, ac or bc")
	cmd.Flags().StringVarP(&out, "output", "o", "", "Output file (extension picks the format)")
	return cmd
}

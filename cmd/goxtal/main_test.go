package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func runCommand(args ...string) error {
	cmd := rootCmd()
	cmd.SetArgs(args)
	return cmd.Execute()
}

func TestValidateCleanEntry(Te *testing.T) {
	if err := runCommand("validate", "../../test/bdte.cif"); err != nil {
		Te.Fatal(err)
	}
}

//doctor copies the reference entry with one value swapped, so validate
//can be run against a file that is wrong in a known way.
func doctor(Te *testing.T, old, subst string) string {
	raw, err := os.ReadFile("../../test/bdte.cif")
	if err != nil {
		Te.Fatal(err)
	}
	if !strings.Contains(string(raw), old) {
		Te.Fatalf("reference entry has no %q to replace", old)
	}
	path := filepath.Join(Te.TempDir(), "doctored.cif")
	if err := os.WriteFile(path, []byte(strings.Replace(string(raw), old, subst, 1)), 0644); err != nil {
		Te.Fatal(err)
	}
	return path
}

func TestValidateWrongVolume(Te *testing.T) {
	path := doctor(Te, "743.98(3)", "745.98(3)")
	if err := runCommand("validate", path); err == nil {
		Te.Error("validate accepted a volume that disagrees with the cell parameters")
	}
}

func TestValidateWrongBondDistance(Te *testing.T) {
	path := doctor(Te, "S1  C2   1.8151(2)", "S1  C2   1.9151(2)")
	if err := runCommand("validate", path); err == nil {
		Te.Error("validate accepted a bond table that disagrees with the coordinates")
	}
}

func TestValidateBadReference(Te *testing.T) {
	path := doctor(Te, "S1  C2   1.8151(2)", "S1  Q99  1.8151(2)")
	if err := runCommand("validate", path); err == nil {
		Te.Error("validate accepted a bond to an unknown atom label")
	}
}

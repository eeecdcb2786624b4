package xtalgraph

import (
	"sort"

	xtal "github.com/mfaundez/goxtal"
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/topo"
)

//Site wraps an asymmetric-unit site as a gonum graph node. The node
//ID is the site's position in the structure's site list.
type Site struct {
	*xtal.Site
	Index int
	Edges []*Bond
}

func (s *Site) ID() int64 {
	return int64(s.Index)
}

//Bond wraps a bond-table entry as a gonum graph edge. Bonds to
//symmetry images connect the two asymmetric-unit sites involved; the
//symmetry code stays available through the embedded bond.
type Bond struct {
	*xtal.Bond
	S1, S2     *Site
	Weightfunc func(*Bond) float64
}

func (b *Bond) From() graph.Node { return b.S1 }
func (b *Bond) To() graph.Node   { return b.S2 }

//bonds are not directional, so the ends are just switched in place
func (b *Bond) ReversedEdge() graph.Edge {
	b.S1, b.S2 = b.S2, b.S1
	return b
}

func (b *Bond) Weight() float64 {
	if b.Weightfunc == nil {
		return b.Dist.V
	}
	return b.Weightfunc(b)
}

//Sites implements gonum's graph.Nodes iterator.
type Sites struct {
	Sites []*Site
	curr  int
}

func (ss *Sites) Len() int { return len(ss.Sites) - ss.curr }
func (ss *Sites) Reset()   { ss.curr = 0 }
func (ss *Sites) Next() bool {
	if ss.curr >= len(ss.Sites) {
		return false
	}
	ss.curr++
	return true
}
func (ss *Sites) Node() graph.Node { return ss.Sites[ss.curr-1] }

//Graph is the bond graph of one asymmetric unit. It implements
//gonum's graph.Undirected and graph.Weighted interfaces.
type Graph struct {
	all   []*Site
	bonds []*Bond
}

//New builds the bond graph of a structure from its published bond
//table, or, when the table is empty, from the bonds AssignBonds
//derives. weightfunc may be nil, in which case edge weights are the
//bond distances.
func New(st *xtal.Structure, weightfunc func(*Bond) float64) (*Graph, error) {
	bonds := st.Bonds
	if len(bonds) == 0 {
		var err error
		bonds, err = xtal.AssignBonds(st)
		if err != nil {
			return nil, err
		}
	}
	g := &Graph{}
	index := make(map[string]*Site, len(st.Sites))
	for i, s := range st.Sites {
		gs := &Site{Site: s, Index: i}
		g.all = append(g.all, gs)
		index[s.Label] = gs
	}
	for _, b := range bonds {
		s1 := index[b.Label1]
		s2 := index[b.Label2]
		if s1 == nil || s2 == nil {
			return nil, &badBondError{b}
		}
		gb := &Bond{Bond: b, S1: s1, S2: s2, Weightfunc: weightfunc}
		g.bonds = append(g.bonds, gb)
		s1.Edges = append(s1.Edges, gb)
		if s2 != s1 {
			s2.Edges = append(s2.Edges, gb)
		}
	}
	return g, nil
}

type badBondError struct{ b *xtal.Bond }

func (e *badBondError) Error() string {
	return "xtalgraph: bond refers to a label outside the site list: " + e.b.String()
}

func (g *Graph) Node(id int64) graph.Node {
	if id < 0 || id >= int64(len(g.all)) {
		return nil
	}
	return g.all[id]
}

func (g *Graph) Nodes() graph.Nodes {
	return &Sites{Sites: g.all}
}

func (g *Graph) From(id int64) graph.Nodes {
	var ret []*Site
	for _, b := range g.bonds {
		switch {
		case b.S1.ID() == id && b.S2.ID() != id:
			ret = append(ret, b.S2)
		case b.S2.ID() == id && b.S1.ID() != id:
			ret = append(ret, b.S1)
		}
	}
	return &Sites{Sites: ret}
}

func (g *Graph) HasEdgeBetween(id1, id2 int64) bool {
	return g.Edge(id1, id2) != nil
}

func (g *Graph) Edge(id1, id2 int64) graph.Edge {
	for _, b := range g.bonds {
		//the graph is always undirected
		if (b.S1.ID() == id1 && b.S2.ID() == id2) || (b.S1.ID() == id2 && b.S2.ID() == id1) {
			return b
		}
	}
	return nil
}

func (g *Graph) EdgeBetween(id1, id2 int64) graph.Edge {
	return g.Edge(id1, id2)
}

func (g *Graph) WeightedEdge(id1, id2 int64) graph.WeightedEdge {
	if b := g.Edge(id1, id2); b != nil {
		return b.(*Bond)
	}
	return nil
}

func (g *Graph) Weight(id1, id2 int64) (w float64, ok bool) {
	if id1 == id2 {
		return 0.0, true
	}
	b := g.Edge(id1, id2)
	if b == nil {
		return -1, false
	}
	return b.(*Bond).Weight(), true
}

//Molecules returns the connected components of the bond graph, each
//as a label list sorted by site order. Bonds through symmetry codes
//still connect their two asymmetric-unit sites, so a molecule
//completed by symmetry (say, across an inversion center) comes back
//as a single component.
func (g *Graph) Molecules() [][]string {
	comps := topo.ConnectedComponents(g)
	out := make([][]string, 0, len(comps))
	for _, comp := range comps {
		sort.Slice(comp, func(i, j int) bool { return comp[i].ID() < comp[j].ID() })
		labels := make([]string, len(comp))
		for i, n := range comp {
			labels[i] = n.(*Site).Label
		}
		out = append(out, labels)
	}
	sort.Slice(out, func(i, j int) bool { return out[i][0] < out[j][0] })
	return out
}

package flamebearer

import (
	"slices"
	"sort"
	"strings"
)

// rootName labels the synthetic node spanning every sample.
const rootName = "total"

// Node is a single frame in a call tree.
type Node struct {
	Name     string
	Self     int64
	Total    int64
	Children []*Node
}

func (n *Node) child(name string) *Node {
	for _, c := range n.Children {
		if c.Name == name {
			return c
		}
	}
	c := &Node{Name: name}
	n.Children = append(n.Children, c)
	return c
}

// Tree accumulates stacks into a call tree.
type Tree struct {
	root    *Node
	sources map[string]Source
}

func NewTree() *Tree {
	return &Tree{root: &Node{Name: rootName}}
}

// Root returns the synthetic root node.
func (t *Tree) Root() *Node {
	return t.root
}

// Insert adds value to every frame of stack, which is ordered from the
// outermost caller to the leaf.
func (t *Tree) Insert(stack []string, value int64) {
	if value == 0 {
		return
	}
	node := t.root
	node.Total += value
	for _, name := range stack {
		node = node.child(name)
		node.Total += value
	}
	node.Self += value
}

// SetSource records where the function behind name is defined. The first
// location recorded for a name wins.
func (t *Tree) SetSource(name string, s Source) {
	if s.Filename == "" {
		return
	}
	if t.sources == nil {
		t.sources = make(map[string]Source)
	}
	if _, ok := t.sources[name]; !ok {
		t.sources[name] = s
	}
}

// Options control how a tree is laid out into a Profile.
type Options struct {
	// MaxNodes keeps only the heaviest nodes. Zero keeps everything.
	MaxNodes   int
	SampleRate int64
	SpyName    string
}

// Profile lays the tree out into the columnar encoding. Children are
// placed left to right in name order starting at their parent's offset,
// so each parent's self ticks end up at its right edge.
func (t *Tree) Profile(opts Options) *Profile {
	p := &Profile{
		Names:      []string{},
		Levels:     []Level{},
		NumTicks:   t.root.Total,
		SampleRate: opts.SampleRate,
		SpyName:    opts.SpyName,
	}
	if t.root.Total == 0 {
		return p
	}

	minTotal := t.minTotal(opts.MaxNodes)
	nameIndex := make(map[string]int)

	var visit func(n *Node, depth int, offset int64)
	visit = func(n *Node, depth int, offset int64) {
		k, ok := nameIndex[n.Name]
		if !ok {
			k = len(p.Names)
			nameIndex[n.Name] = k
			p.Names = append(p.Names, n.Name)
		}
		if depth == len(p.Levels) {
			p.Levels = append(p.Levels, Level{})
		}
		p.Levels[depth] = append(p.Levels[depth], Bar{
			Offset: offset,
			Width:  n.Total,
			Self:   n.Self,
			Name:   k,
		})
		if n.Self > p.MaxSelf {
			p.MaxSelf = n.Self
		}

		children := slices.Clone(n.Children)
		sort.Slice(children, func(i, j int) bool {
			return strings.Compare(children[i].Name, children[j].Name) < 0
		})
		for _, c := range children {
			if c.Total > minTotal {
				visit(c, depth+1, offset)
			}
			offset += c.Total
		}
	}
	visit(t.root, 0, 0)

	for _, name := range p.Names {
		s, ok := t.sources[name]
		if !ok {
			continue
		}
		if p.Sources == nil {
			p.Sources = make(map[string]Source)
		}
		p.Sources[name] = s
	}
	return p
}

// minTotal returns the threshold a node's total must exceed to be one of
// the maxNodes heaviest nodes.
func (t *Tree) minTotal(maxNodes int) int64 {
	if maxNodes <= 0 {
		return 0
	}
	var totals []int64
	var walk func(n *Node)
	walk = func(n *Node) {
		totals = append(totals, n.Total)
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(t.root)
	if len(totals) <= maxNodes {
		return 0
	}
	slices.Sort(totals)
	slices.Reverse(totals)
	return totals[maxNodes]
}

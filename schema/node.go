// Package schema derives a navigable schema tree, leaf-column enumeration,
// and per-leaf repetition/definition level bounds from a parsed parquet
// footer's flattened (pre-order) SchemaElement list.
//
// Grounded on the teacher's node.go and column_path.go (forEachLeafColumn,
// leafColumn), reworked to walk format.SchemaElement — the wire shape this
// module consumes — instead of the teacher's reflection-backed Node tree
// built from Go struct tags, since our schema always arrives pre-parsed
// from metadata rather than being derived from application types.
package schema

import (
	"fmt"
	"strings"

	"github.com/honeymaro/hyparquet-go/format"
)

// Node is one element of the schema tree: either a group (NumChildren > 0)
// or a leaf carrying a physical type.
type Node struct {
	Element  *format.SchemaElement
	Children []*Node
	Parent   *Node

	// Path is the dotted path from the root's children to this node.
	Path []string

	MaxRepetitionLevel int
	MaxDefinitionLevel int
}

func (n *Node) Name() string { return n.Element.Name }

func (n *Node) IsLeaf() bool { return len(n.Children) == 0 }

func (n *Node) Repetition() format.FieldRepetitionType {
	if n.Element.RepetitionType == nil {
		return format.Required
	}
	return *n.Element.RepetitionType
}

func (n *Node) Optional() bool { return n.Repetition() == format.Optional }
func (n *Node) Repeated() bool { return n.Repetition() == format.Repeated }

func (n *Node) PathString() string { return strings.Join(n.Path, ".") }

// Build constructs the schema tree from a parquet footer's flattened
// pre-order SchemaElement list. elements[0] is the root (a group with no
// repetition type); every subsequent element is consumed depth-first
// according to its own NumChildren.
func Build(elements []format.SchemaElement) (*Node, error) {
	if len(elements) == 0 {
		return nil, fmt.Errorf("schema: empty schema element list")
	}
	pos := 0
	root, err := buildNode(elements, &pos, nil, nil, 0, 0)
	if err != nil {
		return nil, err
	}
	if pos != len(elements) {
		return nil, fmt.Errorf("schema: %d trailing schema elements not consumed", len(elements)-pos)
	}
	return root, nil
}

func buildNode(elements []format.SchemaElement, pos *int, parent *Node, path []string, maxRep, maxDef int) (*Node, error) {
	if *pos >= len(elements) {
		return nil, fmt.Errorf("schema: truncated schema element list")
	}
	elem := &elements[*pos]
	*pos++

	n := &Node{Element: elem, Parent: parent, Path: path}

	if parent != nil {
		switch n.Repetition() {
		case format.Optional:
			maxDef++
		case format.Repeated:
			maxDef++
			maxRep++
		}
	}
	n.MaxDefinitionLevel = maxDef
	n.MaxRepetitionLevel = maxRep

	numChildren := 0
	if elem.NumChildren != nil {
		numChildren = int(*elem.NumChildren)
	}
	for i := 0; i < numChildren; i++ {
		var childPath []string
		if *pos < len(elements) {
			childPath = append(append([]string{}, path...), elements[*pos].Name)
		}
		child, err := buildNode(elements, pos, n, childPath, maxRep, maxDef)
		if err != nil {
			return nil, err
		}
		n.Children = append(n.Children, child)
	}

	return n, nil
}

// Leaf is one flattened leaf column: its node, dotted path, column index
// (the order leaves appear in, matching column chunk order within a row
// group), and max repetition/definition levels.
type Leaf struct {
	Node               *Node
	Path               []string
	ColumnIndex        int
	MaxRepetitionLevel int
	MaxDefinitionLevel int
}

func (l Leaf) PathString() string { return strings.Join(l.Path, ".") }

// Leaves enumerates every leaf column of the tree rooted at n, in column
// order.
func Leaves(root *Node) []Leaf {
	var leaves []Leaf
	var walk func(*Node)
	walk = func(node *Node) {
		if node.IsLeaf() {
			leaves = append(leaves, Leaf{
				Node:               node,
				Path:               node.Path,
				ColumnIndex:        len(leaves),
				MaxRepetitionLevel: node.MaxRepetitionLevel,
				MaxDefinitionLevel: node.MaxDefinitionLevel,
			})
			return
		}
		for _, c := range node.Children {
			walk(c)
		}
	}
	for _, c := range root.Children {
		walk(c)
	}
	return leaves
}

// Find locates the node at the given dotted path (children of root only;
// root itself is the unnamed schema wrapper and is never addressed
// directly).
func Find(root *Node, path string) *Node {
	if path == "" {
		return nil
	}
	parts := strings.Split(path, ".")
	node := root
	for _, part := range parts {
		next := (*Node)(nil)
		for _, c := range node.Children {
			if c.Element.Name == part {
				next = c
				break
			}
		}
		if next == nil {
			return nil
		}
		node = next
	}
	return node
}

package schema

import (
	"fmt"
	"slices"
	"strings"
)

// Node is one record or leaf met while walking a schema.
type Node struct {
	// Name is the field name within the parent; empty for the root.
	Name string
	// Path runs from the root to this node, inclusive.
	Path []*Node
	Type Type
	// Field is the declaration that produced the node; nil for the root.
	Field *Field
	// SubFields holds the fields of a record node.
	SubFields []Field
	IsArray   bool
	Overrides Overrides
}

// IsRecord reports whether the walker descends into the node.
func (n *Node) IsRecord() bool {
	return n.Type != nil && n.Type.Tag() == TagRecord
}

// Names returns the field names along the path. The anonymous root is left out.
func (n *Node) Names() []string {
	names := make([]string, 0, len(n.Path))
	for _, p := range n.Path {
		if p.Field == nil {
			continue
		}
		names = append(names, p.Name)
	}
	return names
}

// DottedPath joins Names with ".".
func (n *Node) DottedPath() string {
	return strings.Join(n.Names(), ".")
}

func (n *Node) String() string {
	return fmt.Sprintf("%s (%s, array=%t)", n.DottedPath(), n.Type.Name(), n.IsArray)
}

// Traverse walks root breadth first and returns its leaves in discovery
// order. Only record nodes are queued; leaves go straight to the output, so
// the fields of a record come out before those of records nested deeper.
func Traverse(root Type) ([]*Node, error) {
	if root == nil || root.Tag() != TagRecord {
		name := "<nil>"
		if root != nil {
			name = root.Name()
		}
		return nil, &SchemaError{Type: name, Reason: "root must be a record type"}
	}

	rootNode := &Node{Type: root}
	rootNode.Path = []*Node{rootNode}
	sub, err := root.Fields()
	if err != nil {
		return nil, fmt.Errorf("list fields of %s: %w", root.Name(), err)
	}
	rootNode.SubFields = sub

	var leaves []*Node
	queue := []*Node{rootNode}
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]

		for i := range node.SubFields {
			field := &node.SubFields[i]
			child := &Node{
				Name:      field.Name,
				Type:      field.Type,
				Field:     field,
				IsArray:   field.IsArray,
				Overrides: field.Overrides.Clone(),
			}
			child.Path = append(slices.Clone(node.Path), child)

			if field.Type == nil {
				return nil, &SchemaError{Path: child.DottedPath(), Reason: "field has no type"}
			}
			if !child.IsRecord() {
				leaves = append(leaves, child)
				continue
			}

			if onPath(node, field.Type) {
				return nil, &SchemaError{
					Path:   child.DottedPath(),
					Type:   field.Type.Name(),
					Reason: "record type contains itself",
				}
			}
			sub, err := field.Type.Fields()
			if err != nil {
				return nil, fmt.Errorf("list fields of %s: %w", child.DottedPath(), err)
			}
			child.SubFields = sub
			queue = append(queue, child)
		}
	}

	return leaves, nil
}

// onPath reports whether t is the type of node or one of its ancestors.
func onPath(node *Node, t Type) bool {
	for _, p := range node.Path {
		if p.Type.Name() == t.Name() {
			return true
		}
	}
	return false
}

// Package yml provides helpers for walking decoded YAML nodes with
// case-insensitive keys.
package yml

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type (
	Node yaml.Node
)

// Root returns the first content node of a document node, or n itself.
func (n *Node) Root() *Node {
	if n.Kind == yaml.DocumentNode && len(n.Content) > 0 {
		return (*Node)(n.Content[0])
	}
	return n
}

// Pairs iterates mapping entries with lower-cased keys.
func (n *Node) Pairs(callback func(key string, node *Node) error) error {
	if n.Kind != yaml.MappingNode {
		return fmt.Errorf("expected mapping node at line %d", n.Line)
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		key := strings.ToLower(n.Content[i].Value)
		if err := callback(key, (*Node)(n.Content[i+1])); err != nil {
			return err
		}
	}
	return nil
}

// Int returns the scalar as int.
func (n *Node) Int() (int, error) {
	if n.Kind != yaml.ScalarNode {
		return 0, fmt.Errorf("expected scalar at line %d", n.Line)
	}
	value, err := strconv.Atoi(n.Value)
	if err != nil {
		return 0, fmt.Errorf("invalid integer %q at line %d", n.Value, n.Line)
	}
	return value, nil
}

// String returns the scalar as string.
func (n *Node) String() (string, error) {
	if n.Kind != yaml.ScalarNode {
		return "", fmt.Errorf("expected scalar at line %d", n.Line)
	}
	return n.Value, nil
}

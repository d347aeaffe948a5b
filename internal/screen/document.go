package screen

import (
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Document is a parsed YAML file that keeps comments and key order on re-encoding
type Document struct {
	root yaml.Node
}

// ParseDocument parses YAML content. Empty content yields an empty document.
func ParseDocument(data []byte) (*Document, error) {
	d := &Document{}
	if err := yaml.Unmarshal(data, &d.root); err != nil {
		return nil, fmt.Errorf("parsing yaml: %w", err)
	}
	return d, nil
}

// Get returns the trimmed scalar value of the first key named key, searching
// the whole document in order
func (d *Document) Get(key string) (string, bool) {
	node := findScalar(&d.root, key)
	if node == nil {
		return "", false
	}
	return strings.TrimSpace(node.Value), true
}

// Set replaces the scalar value of the first key named key.
// tag is the YAML tag of the new value ("!!str", "!!int"); the quoting style of
// the old value is kept.
func (d *Document) Set(key, value, tag string) error {
	node := findScalar(&d.root, key)
	if node == nil {
		return fmt.Errorf("%w: %s", ErrFieldNotFound, key)
	}
	node.Value = value
	node.Tag = tag
	return nil
}

// Section returns the node stored under the first key named key, of any kind
func (d *Document) Section(key string) *Document {
	node := findValue(&d.root, key, false)
	if node == nil {
		return nil
	}
	return &Document{root: *node}
}

// Bytes encodes the document with a 2-space indent
func (d *Document) Bytes() ([]byte, error) {
	if d.root.Kind == 0 {
		return nil, nil
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&d.root); err != nil {
		return nil, fmt.Errorf("encoding yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func findScalar(node *yaml.Node, key string) *yaml.Node {
	return findValue(node, key, true)
}

// findValue walks the tree depth-first in document order
func findValue(node *yaml.Node, key string, scalarOnly bool) *yaml.Node {
	switch node.Kind {
	case yaml.DocumentNode, yaml.SequenceNode:
		for _, child := range node.Content {
			if found := findValue(child, key, scalarOnly); found != nil {
				return found
			}
		}
	case yaml.MappingNode:
		for i := 0; i+1 < len(node.Content); i += 2 {
			k, v := node.Content[i], node.Content[i+1]
			if k.Value == key && (!scalarOnly || v.Kind == yaml.ScalarNode) {
				return v
			}
			if found := findValue(v, key, scalarOnly); found != nil {
				return found
			}
		}
	}
	return nil
}

package schemacrawl

import (
	"sort"
	"strings"
)

// FieldType classifies how a field's value is read from the page.
type FieldType string

// Field types produced by the Normalizer.
const (
	// FieldText reads the whole text content of the matched element.
	FieldText FieldType = "text"

	// FieldList reads one value per matched element for multi-value
	// structural selectors (anchors, images, list items).
	FieldList FieldType = "list"

	// FieldAttribute reads a named DOM attribute from the matched element.
	FieldAttribute FieldType = "attribute"

	// FieldNested groups related fields under one name.
	FieldNested FieldType = "nested"
)

// Field is one node of an extraction field plan: either a leaf naming a
// concrete value location (selector + attribute) or a nested group.
// Consumers switch on Type rather than probing shape.
type Field struct {
	Name      string    `json:"name"`
	Selector  string    `json:"selector,omitempty"`
	Attribute string    `json:"attribute,omitempty"`
	Type      FieldType `json:"type"`
	Required  bool      `json:"required,omitempty"`
	Children  Plan      `json:"children,omitempty"`
}

// Plan is the normalized, ordered form of a schema's patterns, used to
// drive one extraction attempt. Plans are derived and never persisted.
type Plan []Field

// LeafPaths returns the dot-joined path of every leaf field in the plan.
// Paths are unique within one plan because pattern keys are unique per level.
func (p Plan) LeafPaths() []string {
	var paths []string
	p.walkLeaves("", func(path string, _ Field) {
		paths = append(paths, path)
	})
	return paths
}

func (p Plan) walkLeaves(prefix string, fn func(path string, f Field)) {
	for _, f := range p {
		path := f.Name
		if prefix != "" {
			path = prefix + "." + f.Name
		}
		if f.Type == FieldNested {
			f.Children.walkLeaves(path, fn)
			continue
		}
		fn(path, f)
	}
}

// DefaultListPatterns returns the recognized multi-value structural
// selectors. A leaf whose selector appears here classifies as FieldList
// unless its attribute is textual.
func DefaultListPatterns() map[string]string {
	return map[string]string{
		"a[href]":  "anchor links",
		"img[src]": "image sources",
		"li":       "list items",
		"ul":       "unordered lists",
	}
}

// textAttributes are the attribute hints that denote whole-text content.
var textAttributes = map[string]bool{
	"textContent": true,
	"innerText":   true,
	"text":        true,
}

// Normalizer converts a stored, loosely-typed patterns tree into a Plan.
type Normalizer struct {
	// ListPatterns maps multi-value structural selectors to a short
	// description of what they match. Defaults to DefaultListPatterns.
	ListPatterns map[string]string
}

// NewNormalizer creates a Normalizer with the default list-pattern table.
func NewNormalizer() *Normalizer {
	return &Normalizer{ListPatterns: DefaultListPatterns()}
}

// Normalize converts a patterns tree into a flat field plan via depth-first
// traversal. It is pure and total: malformed entries are coerced to
// empty-selector attribute leaves, never rejected. Sibling fields are
// emitted in lexical key order so the plan is deterministic.
func (n *Normalizer) Normalize(patterns map[string]any) Plan {
	keys := make([]string, 0, len(patterns))
	for k := range patterns {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	plan := make(Plan, 0, len(keys))
	for _, k := range keys {
		plan = append(plan, n.normalizeField(k, patterns[k]))
	}
	return plan
}

func (n *Normalizer) normalizeField(name string, def any) Field {
	m, ok := def.(map[string]any)
	if !ok {
		// Neither a leaf nor a group. Coerce to an empty-selector
		// attribute leaf so the plan shape stays total.
		return Field{Name: name, Type: FieldAttribute}
	}

	_, hasSelector := m["selector"]
	_, hasAttribute := m["attribute"]
	if !hasSelector && !hasAttribute {
		// Plain mapping: a group of sub-fields.
		return Field{
			Name:     name,
			Type:     FieldNested,
			Children: n.Normalize(m),
		}
	}

	selector, _ := m["selector"].(string)
	rawAttr, _ := m["attribute"].(string)
	required, _ := m["required"].(bool)

	// Composite attributes carry advisory hints after the first segment
	// ("textContent|datetime"). Only the first segment is load-bearing.
	attr, _, _ := strings.Cut(rawAttr, "|")

	f := Field{
		Name:     name,
		Selector: selector,
		Required: required,
	}

	switch {
	case textAttributes[attr]:
		f.Type = FieldText
	case n.ListPatterns[selector] != "":
		f.Type = FieldList
		f.Attribute = attr
	default:
		f.Type = FieldAttribute
		f.Attribute = attr
	}
	return f
}

// Normalize converts a patterns tree into a field plan using the default
// list-pattern table.
func Normalize(patterns map[string]any) Plan {
	return NewNormalizer().Normalize(patterns)
}

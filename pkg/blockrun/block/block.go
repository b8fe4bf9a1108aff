// Package block defines the document block model consumed by the execution
// engine: typed blocks, parsed modifier records, and the mutable state one
// executor owns.
package block

import "strings"

// Modifier is a single key/value attribute on a block. Order matters:
// later duplicates of formatting keys override earlier ones, while
// dependency keys accumulate.
type Modifier struct {
	Key   string
	Value string
}

// Block is one named or anonymous unit of a document: a type tag, an
// ordered modifier list, body content, and optional nested children.
//
// Content is mutable by design: after a successful execution the engine
// overwrites it with the block's result, so later readers see resolved
// output rather than the original template.
type Block struct {
	// Type is the raw tag, optionally "category:subtype" (e.g. "code:python").
	Type string

	// Name uniquely identifies the block within one document generation.
	// Empty for anonymous blocks.
	Name string

	// Modifiers is the ordered raw attribute list as parsed from the document.
	Modifiers []Modifier

	// Content is the block body. Overwritten with the execution result.
	Content string

	// Children holds nested blocks. The engine does not execute children
	// directly; registration recurses into them so named children are
	// reachable by name.
	Children []*Block

	// Kind and Mods are derived once at registration.
	Kind Kind
	Mods Modifiers
}

// New creates a block and derives its Kind and typed Modifiers immediately,
// so callers constructing blocks by hand get the same invariants as
// registration provides.
func New(blockType, name string, mods []Modifier, content string) *Block {
	b := &Block{
		Type:      blockType,
		Name:      name,
		Modifiers: mods,
		Content:   content,
	}
	b.Derive()
	return b
}

// Derive (re)computes the parsed Kind and Modifiers from the raw fields.
// Call after mutating Type or Modifiers directly.
func (b *Block) Derive() {
	b.Kind = KindOf(b.Type)
	b.Mods = ParseModifiers(b.Modifiers)
}

// Language returns the subtype of a "category:subtype" tag, e.g. "python"
// for "code:python". Empty when the tag has no subtype.
func (b *Block) Language() string {
	if _, sub, ok := strings.Cut(b.Type, ":"); ok {
		return sub
	}
	return ""
}

// Modifier returns the last value for key in the raw modifier list.
// Later duplicates override earlier ones.
func (b *Block) Modifier(key string) (string, bool) {
	for i := len(b.Modifiers) - 1; i >= 0; i-- {
		if b.Modifiers[i].Key == key {
			return b.Modifiers[i].Value, true
		}
	}
	return "", false
}

// Truthy reports whether a modifier value means "enabled".
// Recognized: true/yes/1/on, case-insensitive.
func Truthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "true", "yes", "1", "on":
		return true
	}
	return false
}

package block

import "strings"

// Kind is the closed set of block categories the engine dispatches on.
// It is resolved once from the raw type tag at registration; unrecognized
// tags map to KindUnknown, which the executor passes through unchanged.
type Kind int

const (
	// KindUnknown is the explicit pass-through variant for unrecognized tags.
	KindUnknown Kind = iota

	// KindData holds literal content. No runner; content is its own result.
	KindData

	// KindShell runs content through the OS shell.
	KindShell

	// KindCode runs content through an interpreter named by the subtype
	// (e.g. "code:python").
	KindCode

	// KindAPI issues an HTTP request described by the block's modifiers.
	KindAPI

	// KindConditional gates its content on another block's truthy output.
	KindConditional

	// KindQuestion sends content to the configured LLM client.
	KindQuestion

	// KindResults marks an output-carrier block (results, error-response).
	// No runner; content is its own result.
	KindResults
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindData:
		return "data"
	case KindShell:
		return "shell"
	case KindCode:
		return "code"
	case KindAPI:
		return "api"
	case KindConditional:
		return "conditional"
	case KindQuestion:
		return "question"
	case KindResults:
		return "results"
	default:
		return "unknown"
	}
}

// KindOf resolves a raw type tag to its Kind. The tag's category is the
// part before the first colon; matching is case-insensitive.
func KindOf(blockType string) Kind {
	category := blockType
	if before, _, ok := strings.Cut(blockType, ":"); ok {
		category = before
	}
	switch strings.ToLower(category) {
	case "data", "text", "variable":
		return KindData
	case "shell", "bash", "sh":
		return KindShell
	case "code":
		return KindCode
	case "api", "http":
		return KindAPI
	case "conditional", "if":
		return KindConditional
	case "question", "llm", "prompt":
		return KindQuestion
	case "results", "error-response", "response":
		return KindResults
	default:
		return KindUnknown
	}
}

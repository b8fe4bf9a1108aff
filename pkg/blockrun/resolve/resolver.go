package resolve

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/randalmurphal/blockrun/pkg/blockrun/block"
)

// maxPasses bounds the substitution fixed point. Five passes covers any
// realistic reference nesting while guaranteeing termination on
// self-referential data.
const maxPasses = 5

// Regular expressions for the reference grammar.
var (
	// inlinePattern matches ${target} and ${target:mod=val,mod=val}.
	// Targets may contain dots and dashes (derived output keys).
	inlinePattern = regexp.MustCompile(`\$\{([a-zA-Z_][a-zA-Z0-9_.-]*)(?::([^{}]*))?\}`)

	// tagPattern matches <ref .../> with quoted attributes, self-closing
	// or with an empty body.
	tagPattern = regexp.MustCompile(`<ref\s+([^<>]*?)\s*/>`)

	// attrPattern extracts key="value" pairs from a tag's attribute text.
	attrPattern = regexp.MustCompile(`([a-zA-Z_][a-zA-Z0-9_]*)\s*=\s*"([^"]*)"`)
)

// Resolver substitutes references in content using a state's outputs.
// The zero value is ready to use.
type Resolver struct{}

// New creates a Resolver.
func New() *Resolver {
	return &Resolver{}
}

// Resolve expands every reference in content against st's outputs,
// re-running until a fixed point or the pass bound is reached.
//
// Resolve never fails: unresolvable references degrade to their fallback
// literal or an explicit unresolved marker, and malformed references are
// left as-is.
func (r *Resolver) Resolve(content string, st *block.State) string {
	if content == "" || !HasReferences(content) {
		return content
	}

	for pass := 0; pass < maxPasses; pass++ {
		next := r.substituteOnce(content, st)
		if next == content {
			break
		}
		content = next
		if !HasReferences(content) {
			break
		}
	}
	return content
}

// HasReferences reports whether content contains any reference marker.
func HasReferences(content string) bool {
	return inlinePattern.MatchString(content) || tagPattern.MatchString(content)
}

// substituteOnce performs one full substitution pass over both forms.
func (r *Resolver) substituteOnce(content string, st *block.State) string {
	content = inlinePattern.ReplaceAllStringFunc(content, func(match string) string {
		sub := inlinePattern.FindStringSubmatch(match)
		target := sub[1]
		opts := parseInlineMods(sub[2])
		return r.substitute(target, opts, st)
	})

	content = tagPattern.ReplaceAllStringFunc(content, func(match string) string {
		sub := tagPattern.FindStringSubmatch(match)
		opts := parseTagAttrs(sub[1])
		target, ok := opts["target"]
		if !ok || target == "" {
			// Not a reference we can act on; leave the tag alone.
			return match
		}
		delete(opts, "target")
		return r.substitute(target, opts, st)
	})

	return content
}

// substitute resolves a single reference to its replacement text.
func (r *Resolver) substitute(target string, opts map[string]string, st *block.State) string {
	value, ok := st.Output(target)
	if !ok {
		if lit, has := opts["fallback"]; has {
			return lit
		}
		return Unresolved(target)
	}
	return applyModifiers(target, value, opts, st)
}

// Unresolved returns the explicit marker emitted for a reference whose
// target has no output and no fallback literal.
func Unresolved(target string) string {
	return fmt.Sprintf("[unresolved: %s]", target)
}

// parseInlineMods parses the "key=val,key=val" tail of an inline reference.
// Keys without '=' are treated as boolean flags set to "true". Commas inside
// parentheses do not split, so transform=substring(0,5) stays intact.
func parseInlineMods(s string) map[string]string {
	opts := make(map[string]string)
	if s == "" {
		return opts
	}
	for _, part := range splitTopLevel(s) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if key, val, ok := strings.Cut(part, "="); ok {
			opts[strings.TrimSpace(key)] = strings.TrimSpace(val)
		} else {
			opts[part] = "true"
		}
	}
	return opts
}

// splitTopLevel splits on commas that are not nested inside parentheses.
func splitTopLevel(s string) []string {
	var parts []string
	depth, start := 0, 0
	for i, r := range s {
		switch r {
		case '(':
			depth++
		case ')':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, s[start:])
}

// parseTagAttrs parses the quoted attributes of a tag-form reference.
func parseTagAttrs(s string) map[string]string {
	opts := make(map[string]string)
	for _, m := range attrPattern.FindAllStringSubmatch(s, -1) {
		opts[m[1]] = m[2]
	}
	return opts
}

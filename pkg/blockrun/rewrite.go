package blockrun

import (
	"strings"

	"github.com/randalmurphal/blockrun/pkg/blockrun/block"
)

// CDATA delimiters preserved when patching code/shell/api blocks.
const (
	cdataOpen  = "<![CDATA["
	cdataClose = "]]>"
)

// Rewrite patches a serialized document with current results: for every
// cacheable block whose output differs from its serialized content, the
// span between its opening and closing tag text is replaced with the
// result. Patching is textual and best-effort - blocks whose span cannot
// be located are left untouched, never an error. CDATA wrapping inside a
// block body is preserved.
func (e *Executor) Rewrite(original string) (string, error) {
	out := original
	policy := e.policy()

	for _, name := range e.state.Names() {
		b, ok := e.state.Block(name)
		if !ok || !policy.Cacheable(b) {
			continue
		}
		result, ok := e.state.Output(name)
		if !ok {
			continue
		}
		out = patchBlockSpan(out, b, name, result)
	}

	return out, nil
}

// patchBlockSpan replaces the inner content of the named block's
// serialized span in text. Returns text unchanged when the span cannot
// be located or the content already matches.
func patchBlockSpan(text string, b *block.Block, name, result string) string {
	_, openEnd, ok := findOpeningTag(text, b.Type, name)
	if !ok {
		return text
	}

	closeTag := "</" + b.Type + ">"
	closeIdx := strings.Index(text[openEnd:], closeTag)
	if closeIdx < 0 {
		return text
	}
	closeIdx += openEnd

	inner := text[openEnd:closeIdx]
	patched, changed := patchInner(inner, result)
	if !changed {
		return text
	}

	return text[:openEnd] + patched + text[closeIdx:]
}

// findOpeningTag locates "<type ... name="name" ...>" in text.
// Returns the tag start, the index just past '>', and whether it was found.
func findOpeningTag(text, blockType, name string) (int, int, bool) {
	marker := "<" + blockType
	nameAttr := `name="` + name + `"`

	for idx := 0; idx < len(text); {
		start := strings.Index(text[idx:], marker)
		if start < 0 {
			return 0, 0, false
		}
		start += idx

		// The tag name must end here, not be a prefix of a longer tag.
		after := start + len(marker)
		if after >= len(text) || (text[after] != ' ' && text[after] != '\t' && text[after] != '\n' && text[after] != '>') {
			idx = after
			continue
		}

		end := strings.IndexByte(text[start:], '>')
		if end < 0 {
			return 0, 0, false
		}
		end += start

		if strings.Contains(text[start:end], nameAttr) {
			return start, end + 1, true
		}
		idx = end + 1
	}
	return 0, 0, false
}

// patchInner replaces a span's inner content with result, preserving any
// CDATA wrapping and surrounding newline layout. Reports whether the text
// actually changed.
func patchInner(inner, result string) (string, bool) {
	if cdStart := strings.Index(inner, cdataOpen); cdStart >= 0 {
		cdEnd := strings.LastIndex(inner, cdataClose)
		if cdEnd > cdStart {
			current := inner[cdStart+len(cdataOpen) : cdEnd]
			if current == result {
				return inner, false
			}
			return inner[:cdStart] + cdataOpen + result + cdataClose + inner[cdEnd+len(cdataClose):], true
		}
	}

	prefix, suffix := "", ""
	if strings.HasPrefix(inner, "\n") {
		prefix = "\n"
	}
	if strings.HasSuffix(inner, "\n") && len(inner) > 1 {
		suffix = "\n"
	}

	patched := prefix + result + suffix
	if patched == inner {
		return inner, false
	}
	return patched, true
}

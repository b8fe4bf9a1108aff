package resolve

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"github.com/randalmurphal/blockrun/pkg/blockrun/block"
)

// truncationMarker is appended when limit cuts content.
const truncationMarker = "... (truncated)"

// sensitiveKey is the JSON subtree dropped by include_sensitive=false.
const sensitiveKey = "sensitive_info"

var substringPattern = regexp.MustCompile(`^substring\(\s*(\d+)\s*,\s*(\d+)\s*\)$`)

// applyModifiers runs a reference's formatting pipeline in fixed order:
// block-level trim/max_lines, then format, limit, transform, highlight,
// include_code/include_results, and finally sensitive redaction.
func applyModifiers(target, value string, opts map[string]string, st *block.State) string {
	var src *block.Block
	if b, ok := st.Block(target); ok {
		src = b
		// Block-level presentation hints apply only when the target
		// names a registered block, not a derived output key.
		if b.Mods.Trim {
			value = strings.TrimSpace(value)
		}
		if b.Mods.MaxLines > 0 {
			value = headLines(value, b.Mods.MaxLines, false)
		}
	}

	if format, ok := opts["format"]; ok {
		value = applyFormat(value, format, language(src))
	}

	if limit, ok := opts["limit"]; ok {
		if n, err := strconv.Atoi(strings.TrimSpace(limit)); err == nil && n > 0 {
			value = headLines(value, n, true)
		}
	}

	if transform, ok := opts["transform"]; ok {
		value = applyTransform(value, transform)
	}

	if block.Truthy(opts["highlight"]) {
		value = fence(value, language(src))
	}

	if block.Truthy(opts["include_code"]) && src != nil {
		value = fence(src.Content, language(src)) + "\n\n" + value
	}

	if block.Truthy(opts["include_results"]) {
		if results, ok := st.Output(target + "_results"); ok && results != value {
			value = value + "\n\n" + results
		}
	}

	if v, ok := opts["include_sensitive"]; ok && !block.Truthy(v) {
		value = redactSensitive(value)
	}

	return value
}

// language returns the source block's language when known.
func language(b *block.Block) string {
	if b == nil {
		return ""
	}
	return b.Language()
}

// applyFormat renders value per the format modifier. Unrecognized formats
// and plain pass through unchanged.
func applyFormat(value, format, lang string) string {
	switch format {
	case "json":
		var buf bytes.Buffer
		if err := json.Indent(&buf, []byte(value), "", "  "); err == nil {
			return buf.String()
		}
		return value
	case "code", "markdown":
		return fence(value, lang)
	default:
		return value
	}
}

// headLines keeps the first n lines of value. When marker is set, a
// truncation marker line is appended if anything was cut.
func headLines(value string, n int, marker bool) string {
	lines := strings.Split(value, "\n")
	if len(lines) <= n {
		return value
	}
	head := strings.Join(lines[:n], "\n")
	if marker {
		head += "\n" + truncationMarker
	}
	return head
}

// applyTransform applies uppercase, lowercase, or substring(a,b).
// Unknown transforms leave the value unchanged.
func applyTransform(value, transform string) string {
	transform = strings.TrimSpace(transform)
	switch strings.ToLower(transform) {
	case "uppercase":
		return strings.ToUpper(value)
	case "lowercase":
		return strings.ToLower(value)
	}
	if m := substringPattern.FindStringSubmatch(transform); m != nil {
		start, _ := strconv.Atoi(m[1])
		end, _ := strconv.Atoi(m[2])
		runes := []rune(value)
		if start > len(runes) {
			start = len(runes)
		}
		if end > len(runes) {
			end = len(runes)
		}
		if start >= end {
			return ""
		}
		return string(runes[start:end])
	}
	return value
}

// fence wraps value in a fenced code block, tagged with lang when known.
func fence(value, lang string) string {
	return "```" + lang + "\n" + value + "\n```"
}

// redactSensitive drops the sensitive_info subtree from JSON content.
// Non-JSON values pass through unchanged.
func redactSensitive(value string) string {
	var doc any
	if err := json.Unmarshal([]byte(value), &doc); err != nil {
		return value
	}
	doc = stripKey(doc)
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return value
	}
	return string(out)
}

// stripKey removes sensitiveKey recursively from maps and slices.
func stripKey(v any) any {
	switch val := v.(type) {
	case map[string]any:
		delete(val, sensitiveKey)
		for k, child := range val {
			val[k] = stripKey(child)
		}
		return val
	case []any:
		for i, child := range val {
			val[i] = stripKey(child)
		}
		return val
	default:
		return v
	}
}

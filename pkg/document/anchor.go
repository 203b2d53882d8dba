package document

import (
	"regexp"
	"strings"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// Resolve returns the text the anchor refers to, given the document's full
// text buffer. It never fails: a nil anchor, inverted or out-of-range
// segments, or an empty buffer all resolve to "".
//
// Resolution order: inline content first, then segment concatenation. Segment
// offsets are clamped to the buffer before slicing, so malformed offsets
// degrade to the valid portion of the span instead of being rejected.
func (a *TextAnchor) Resolve(fullText string) string {
	if a == nil {
		return ""
	}
	if a.Content != "" {
		return strings.TrimSpace(a.Content)
	}
	if len(a.Segments) == 0 {
		return ""
	}

	runes := []rune(fullText)
	total := int64(len(runes))

	var sb strings.Builder
	for _, seg := range a.Segments {
		start := seg.StartIndex
		end := seg.EndIndex
		if start < 0 {
			start = 0
		}
		if start > total {
			start = total
		}
		if end < start {
			end = start
		}
		if end > total {
			end = total
		}
		if start >= end {
			continue
		}
		sb.WriteString(string(runes[start:end]))
	}
	return cleanText(sb.String())
}

// AnchorText is the function form of Resolve for call sites that hold a
// possibly-nil anchor.
func AnchorText(a *TextAnchor, fullText string) string {
	return a.Resolve(fullText)
}

// Text resolves the entity's text: the anchored span when present, otherwise
// the mention text the processor attached directly.
func (e *Entity) Text(fullText string) string {
	if e == nil {
		return ""
	}
	if text := e.Anchor.Resolve(fullText); text != "" {
		return text
	}
	return strings.TrimSpace(e.MentionText)
}

// cleanText collapses whitespace runs to single spaces and strips the
// control characters OCR output tends to leak (0x00-0x1F, 0x7F-0x9F).
func cleanText(s string) string {
	s = whitespaceRun.ReplaceAllString(s, " ")
	s = strings.Map(func(r rune) rune {
		if r < 0x20 || (r >= 0x7F && r <= 0x9F) {
			return -1
		}
		return r
	}, s)
	return strings.TrimSpace(s)
}

// Package markup converts the lightly marked-up replies of the travel assistant
// into HTML fragments that the chat page injects as-is.
//
// The dialect is deliberately small: **bold**, *italic*, "#"/"##"/"###" headings,
// "-" or "•" bullets, "1." numbered items and line-based paragraphs.
package markup

import (
	"html"
	"strings"
)

// Fixed markup emitted by the formatter. The chat page stylesheet keys off these classes.
const (
	openStrong  = `<strong class="chat-strong">`
	closeStrong = `</strong>`
	openEm      = `<em class="chat-em">`
	closeEm     = `</em>`

	openH2 = `<h2 class="chat-h2">`
	openH3 = `<h3 class="chat-h3">`
	openH4 = `<h4 class="chat-h4">`

	openItemPlain    = `<li class="chat-li-plain">`
	openItemNumbered = `<li class="chat-li-numbered">`
	openItemNumber   = `<span class="chat-li-number">`
	closeItem        = `</li>`

	openUnordered  = `<ul class="chat-list">`
	closeUnordered = `</ul>`
	openOrdered    = `<ol class="chat-list">`
	closeOrdered   = `</ol>`

	openParagraph  = `<p class="chat-p">`
	closeParagraph = `</p>`
	emptyParagraph = `<p></p>`

	lineBreak = "<br>"
)

// Option configures a Formatter.
type Option func(*Formatter)

// WithLegacyListClose reproduces the output of the previous chat widget:
// a list run keeps the kind of its first item, bullets and numbers are never
// split into separate containers, and every list is closed with </ul>.
// Browsers repair the mismatched closer, so pages built around the old
// output keep rendering the same.
func WithLegacyListClose() Option {
	return func(f *Formatter) {
		f.legacyListClose = true
	}
}

// Formatter turns assistant text into HTML. A Formatter holds no mutable
// state and is safe for concurrent use.
type Formatter struct {
	legacyListClose bool
}

// New creates a Formatter.
func New(opts ...Option) *Formatter {
	f := &Formatter{}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

var defaultFormatter = New()

// Format converts text with the default rules.
func Format(text string) string {
	return defaultFormatter.Format(text)
}

// FormatValue formats an untyped value, typically one decoded from JSON.
// Anything that is not text (nil, numbers, objects) yields "".
func FormatValue(v any) string {
	switch t := v.(type) {
	case string:
		return Format(t)
	case *string:
		if t == nil {
			return ""
		}
		return Format(*t)
	case []byte:
		return Format(string(t))
	default:
		return ""
	}
}

// EscapeText renders user-authored text as plain text. No markup is interpreted.
func EscapeText(text string) string {
	return html.EscapeString(text)
}

// Format converts text into HTML. It never fails; unbalanced markers and
// stray angle brackets come out as best-effort markup.
func (f *Formatter) Format(text string) string {
	if text == "" {
		return ""
	}

	text = strings.ReplaceAll(text, "\r\n", "\n")
	lines := strings.Split(text, "\n")

	// Spans never cross a line, so inline substitution per line is the same
	// as substituting over the whole text.
	for i, line := range lines {
		line = replaceSpans(line, "**", openStrong, closeStrong)
		line = replaceSpans(line, "*", openEm, closeEm)
		lines[i] = rewriteLine(line)
	}

	blocks := f.reconstruct(lines)
	out := strings.ReplaceAll(strings.Join(blocks, "\n"), "\n", lineBreak)
	return cleanup(out)
}

// replaceSpans wraps every non-greedy marker...marker pair found left to right.
// An opening marker without a closing partner on the same line stays literal.
func replaceSpans(line, marker, open, close string) string {
	if !strings.Contains(line, marker) {
		return line
	}

	var b strings.Builder
	b.Grow(len(line) + 32)
	for i := 0; i < len(line); {
		if strings.HasPrefix(line[i:], marker) {
			start := i + len(marker)
			if j := strings.Index(line[start:], marker); j >= 0 {
				b.WriteString(open)
				b.WriteString(line[start : start+j])
				b.WriteString(close)
				i = start + j + len(marker)
				continue
			}
		}
		b.WriteByte(line[i])
		i++
	}
	return b.String()
}

// rewriteLine applies the heading rules, longest prefix first, then the list
// marker rules. Markers only count at the start of the raw line, and the rest
// of the line is kept as is. Lines that match nothing are returned unchanged.
func rewriteLine(line string) string {
	switch {
	case strings.HasPrefix(line, "### "):
		return openH4 + line[len("### "):] + "</h4>"
	case strings.HasPrefix(line, "## "):
		return openH3 + line[len("## "):] + "</h3>"
	case strings.HasPrefix(line, "# "):
		return openH2 + line[len("# "):] + "</h2>"
	}

	for _, bullet := range []string{"• ", "- "} {
		if strings.HasPrefix(line, bullet) {
			return openItemPlain + line[len(bullet):] + closeItem
		}
	}

	if digits, rest, ok := cutNumberedMarker(line); ok {
		return openItemNumbered + openItemNumber + digits + ".</span> " + rest + closeItem
	}

	return line
}

// cutNumberedMarker splits "12. rest" into "12" and "rest".
func cutNumberedMarker(s string) (digits, rest string, ok bool) {
	n := 0
	for n < len(s) && s[n] >= '0' && s[n] <= '9' {
		n++
	}
	if n == 0 || !strings.HasPrefix(s[n:], ". ") {
		return "", "", false
	}
	return s[:n], s[n+len(". "):], true
}

// cleanup makes a single pass over doubled breaks, so a run of three keeps two.
func cleanup(s string) string {
	s = strings.ReplaceAll(s, lineBreak+lineBreak, lineBreak)
	return strings.ReplaceAll(s, emptyParagraph, "")
}

package mailer

import (
	"fmt"
	"strings"
	texttemplate "text/template"
)

// markdownPunct is the set of ASCII punctuation CommonMark allows to be
// backslash-escaped.
const markdownPunct = "\\`*_{}[]()<>#+-.!|~&\"'=:;@$%^,/?"

// EscapeMarkdown makes s render as literal inline text. Inner newlines
// become hard line breaks; trailing ones are dropped since a break cannot
// end a paragraph.
func EscapeMarkdown(s string) string {
	s = strings.TrimRight(strings.ReplaceAll(s, "\r\n", "\n"), "\n")

	var b strings.Builder
	b.Grow(len(s) + len(s)/4)
	for _, r := range s {
		switch {
		case r == '\n':
			b.WriteString("\\\n")
		case r < 0x80 && strings.ContainsRune(markdownPunct, r):
			b.WriteByte('\\')
			b.WriteRune(r)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func htmlFuncs() texttemplate.FuncMap {
	return texttemplate.FuncMap{
		"md": func(v any) string { return EscapeMarkdown(toString(v)) },
		"bold": func(v any) string {
			return "**" + EscapeMarkdown(toString(v)) + "**"
		},
		"button": func(label, url string) string {
			return "[!button|" + label + "](" + url + ")"
		},
		"heading": func(label string) string {
			return "## " + EscapeMarkdown(label)
		},
	}
}

func textFuncs() texttemplate.FuncMap {
	return texttemplate.FuncMap{
		"md":   toString,
		"bold": toString,
		"button": func(label, url string) string {
			return label + ": " + url
		},
		"heading": strings.ToUpper,
	}
}

func toString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case fmt.Stringer:
		return s.String()
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

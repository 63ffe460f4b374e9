package links

import (
	"strings"
	"unicode/utf8"

	"github.com/GriffinCanCode/termfolio/backend/internal/shared/ansi"
)

// Scan finds whole-word, case-insensitive keyword matches in line. colored
// reports whether the character at a rune index carries a non-default
// foreground; may be nil.
func (r *Registry) Scan(row int, line string, colored func(index int) bool) []Link {
	clean := ansi.Strip(line)
	lower := strings.ToLower(clean)

	var found []Link
	for _, e := range r.entries {
		kw := strings.ToLower(e.Keyword)
		from := 0
		for {
			i := strings.Index(lower[from:], kw)
			if i < 0 {
				break
			}
			at := from + i
			from = at + len(kw)

			if !wholeWord(lower, at, at+len(kw)) {
				continue
			}

			start := ansi.Width(clean[:at])
			end := start + ansi.Width(clean[at:at+len(kw)])
			if e.Color != "" && colored != nil && colored(utf8.RuneCountInString(clean[:at])) {
				start += e.StartOffset
				end += e.EndOffset
			}
			if end <= start {
				continue
			}

			found = append(found, Link{
				Entry: e,
				Row:   row,
				Start: start,
				End:   end,
				Text:  clean[at : at+len(kw)],
			})
		}
	}
	return found
}

func wholeWord(s string, start, end int) bool {
	if start > 0 {
		r, _ := utf8.DecodeLastRuneInString(s[:start])
		if wordRune(r) {
			return false
		}
	}
	if end < len(s) {
		r, _ := utf8.DecodeRuneInString(s[end:])
		if wordRune(r) {
			return false
		}
	}
	return true
}

func wordRune(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

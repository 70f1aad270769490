package router

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/shahar-caura/aura/internal/intent"
)

// separator marks an implicit command boundary before a mid-sentence
// keyword. It cannot appear in spoken or typed text.
const separator = "\x1f"

// delimiters matches explicit conjunctions, punctuation and the separator.
// Matches are consumed.
var delimiters = regexp.MustCompile(`\s+(?:and|then|also)\s+|\s*[,.\x1f]\s*`)

// Segment splits one request into ordered, trimmed, non-empty fragments.
//
// A keyword standing as a whole word after whitespace starts a new fragment,
// so "open notepad type hello" is two commands while "opener" never splits.
func Segment(message string) []intent.Fragment {
	marked := markBoundaries(intent.NewFragment(message))

	var out []intent.Fragment
	start := 0
	for _, loc := range delimiters.FindAllStringIndex(marked.Text, -1) {
		out = appendFragment(out, marked.Slice(start, loc[0]))
		start = loc[1]
	}
	return appendFragment(out, marked.Slice(start, len(marked.Text)))
}

func appendFragment(out []intent.Fragment, f intent.Fragment) []intent.Fragment {
	f = f.TrimSpace()
	if f.Empty() {
		return out
	}
	return append(out, f)
}

// markBoundaries inserts separator before every keyword that is preceded by
// whitespace and followed by whitespace or the end of the text.
func markBoundaries(f intent.Fragment) intent.Fragment {
	var text, raw strings.Builder
	last := 0
	for i := 1; i < len(f.Text); i++ {
		prev, _ := utf8.DecodeLastRuneInString(f.Text[:i])
		if !unicode.IsSpace(prev) {
			continue
		}
		kw := keywordAt(f.Text[i:])
		if kw == "" {
			continue
		}
		text.WriteString(f.Text[last:i])
		text.WriteString(separator)
		raw.WriteString(f.Raw[last:i])
		raw.WriteString(separator)
		last = i
		i += len(kw) - 1
	}
	if last == 0 {
		return f
	}
	text.WriteString(f.Text[last:])
	raw.WriteString(f.Raw[last:])
	return intent.Fragment{Text: text.String(), Raw: raw.String()}
}

// keywordAt returns the keyword s starts with as a whole word, or "".
func keywordAt(s string) string {
	for _, kw := range intent.Keywords {
		if !strings.HasPrefix(s, kw) {
			continue
		}
		rest := s[len(kw):]
		if rest == "" {
			return kw
		}
		if next, _ := utf8.DecodeRuneInString(rest); unicode.IsSpace(next) {
			return kw
		}
	}
	return ""
}

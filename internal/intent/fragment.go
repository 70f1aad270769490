package intent

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Fragment is one atomic command candidate.
//
// Text is lower-cased and used for every keyword test. Raw holds the same
// bytes in the user's original casing so extracted payloads (names, messages,
// typed text) keep their case. Both strings always have identical length and
// byte offsets; when lower-casing would shift offsets, Raw falls back to Text.
type Fragment struct {
	Text string
	Raw  string
}

// NewFragment builds a fragment from original-case input.
func NewFragment(raw string) Fragment {
	lower := strings.ToLower(raw)
	if !aligned(raw, lower) {
		return Fragment{Text: lower, Raw: lower}
	}
	return Fragment{Text: lower, Raw: raw}
}

// aligned reports whether lower-casing raw keeps every rune at the same
// byte offset.
func aligned(raw, lower string) bool {
	if len(raw) != len(lower) {
		return false
	}
	for _, r := range raw {
		if utf8.RuneLen(unicode.ToLower(r)) != utf8.RuneLen(r) {
			return false
		}
	}
	return true
}

func (f Fragment) String() string { return f.Text }

// Empty reports whether the fragment holds no text.
func (f Fragment) Empty() bool { return f.Text == "" }

// Contains reports whether the lower-cased text contains sub.
func (f Fragment) Contains(sub string) bool { return strings.Contains(f.Text, sub) }

// ContainsAny reports whether any of words is a substring of the text.
func (f Fragment) ContainsAny(words ...string) bool {
	for _, w := range words {
		if strings.Contains(f.Text, w) {
			return true
		}
	}
	return false
}

// HasPrefix reports whether the lower-cased text starts with prefix.
func (f Fragment) HasPrefix(prefix string) bool { return strings.HasPrefix(f.Text, prefix) }

// FirstWord returns the first whitespace-delimited token.
func (f Fragment) FirstWord() string {
	fields := strings.Fields(f.Text)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// Slice returns the sub-fragment f[i:j].
func (f Fragment) Slice(i, j int) Fragment {
	return Fragment{Text: f.Text[i:j], Raw: f.Raw[i:j]}
}

// TrimSpace trims leading and trailing whitespace from both views.
func (f Fragment) TrimSpace() Fragment {
	start := len(f.Text) - len(strings.TrimLeftFunc(f.Text, unicode.IsSpace))
	end := len(strings.TrimRightFunc(f.Text, unicode.IsSpace))
	if start >= end {
		return Fragment{}
	}
	return f.Slice(start, end)
}

// Cut slices the fragment around the first instance of sep.
func (f Fragment) Cut(sep string) (before, after Fragment, found bool) {
	i := strings.Index(f.Text, sep)
	if i < 0 {
		return f, Fragment{}, false
	}
	return f.Slice(0, i), f.Slice(i+len(sep), len(f.Text)), true
}

// Split slices the fragment into all sub-fragments separated by sep.
func (f Fragment) Split(sep string) []Fragment {
	var parts []Fragment
	rest := f
	for {
		before, after, found := rest.Cut(sep)
		parts = append(parts, before)
		if !found {
			return parts
		}
		rest = after
	}
}

// Remove deletes every instance of word from both views.
func (f Fragment) Remove(word string) Fragment {
	parts := f.Split(word)
	var text, raw strings.Builder
	for _, p := range parts {
		text.WriteString(p.Text)
		raw.WriteString(p.Raw)
	}
	return Fragment{Text: text.String(), Raw: raw.String()}
}

// TrimPrefix removes prefix when the fragment starts with it.
func (f Fragment) TrimPrefix(prefix string) (Fragment, bool) {
	if !strings.HasPrefix(f.Text, prefix) {
		return f, false
	}
	return f.Slice(len(prefix), len(f.Text)), true
}

// Prepend returns a fragment with prefix (assumed lower-case) in front.
func (f Fragment) Prepend(prefix string) Fragment {
	return Fragment{Text: prefix + f.Text, Raw: prefix + f.Raw}
}

// Join concatenates fragments with sep between them.
func Join(parts []Fragment, sep string) Fragment {
	var text, raw strings.Builder
	for i, p := range parts {
		if i > 0 {
			text.WriteString(sep)
			raw.WriteString(sep)
		}
		text.WriteString(p.Text)
		raw.WriteString(p.Raw)
	}
	return Fragment{Text: text.String(), Raw: raw.String()}
}

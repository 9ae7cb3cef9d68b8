// Package emoji splits review text into emoji code points and the remaining
// text, and maps those code points to signed sentiment weights.
package emoji

import (
	"strings"
	"unicode"
)

// Ranges is the union of the emoji blocks recognised by the extractor:
// misc technical, misc symbols, dingbats, variation selectors, regional
// indicators and flags, symbols and pictographs, emoticons, transport,
// supplemental symbols and symbols extended-A.
//
// The regional indicator ranges 1F1E6-1F1FF and 1F1F2-1F1F4 are subsets of
// 1F1E0-1F1FF and need no entry of their own.
var Ranges = &unicode.RangeTable{
	R16: []unicode.Range16{
		{Lo: 0x2300, Hi: 0x23ff, Stride: 1},
		{Lo: 0x2600, Hi: 0x27bf, Stride: 1},
		{Lo: 0xfe00, Hi: 0xfe0f, Stride: 1},
	},
	R32: []unicode.Range32{
		{Lo: 0x1f1e0, Hi: 0x1f1ff, Stride: 1},
		{Lo: 0x1f300, Hi: 0x1f64f, Stride: 1},
		{Lo: 0x1f680, Hi: 0x1f6ff, Stride: 1},
		{Lo: 0x1f900, Hi: 0x1f9ff, Stride: 1},
		{Lo: 0x1fa70, Hi: 0x1faff, Stride: 1},
	},
}

// IsEmoji reports whether r falls in one of the emoji ranges.
func IsEmoji(r rune) bool {
	return unicode.Is(Ranges, r)
}

// Extract returns the emoji code points of text in order of occurrence and
// the text with those code points removed. Each code point is its own token:
// a flag made of two regional indicators yields two tokens, and a skin tone
// modifier is a token separate from the emoji it modifies.
func Extract(text string) ([]string, string) {
	var (
		emojis []string
		clean  strings.Builder
	)
	clean.Grow(len(text))

	for _, r := range text {
		if IsEmoji(r) {
			emojis = append(emojis, string(r))
			continue
		}
		clean.WriteRune(r)
	}

	if len(emojis) == 0 {
		return nil, text
	}
	return emojis, clean.String()
}

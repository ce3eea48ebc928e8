package jpegutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// EXIF ASCII fields only hold printable 7-bit characters. asciiFolder first
// decomposes accented letters and strips the combining marks, so e.g. "é"
// degrades to "e" instead of disappearing.
var asciiFolder = transform.Chain(
	norm.NFKD,
	runes.Remove(runes.In(unicode.Mn)),
	runes.Remove(runes.Predicate(func(r rune) bool {
		return r < 0x20 || r > 0x7e
	})),
)

// asciiClean reduces s to the printable ASCII subset EXIF allows.
func asciiClean(s string) string {
	cleaned, _, err := transform.String(asciiFolder, s)
	if err != nil {
		return printableString(s)
	}
	return strings.TrimSpace(cleaned)
}

func printableString(s string) string {
	ss := strings.Map(func(r rune) rune {
		if r >= 0x20 && r <= 0x7e {
			return r
		}
		return -1
	}, s)

	return strings.TrimSpace(ss)
}

package htmlutil

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
)

var innerWhitespace = regexp.MustCompile(`\s\s+`)

func removeNonPrintable(s string) string {
	newStr := strings.Builder{}
	for _, c := range s {
		if unicode.IsPrint(c) {
			newStr.WriteRune(c)
		}
	}
	return newStr.String()
}

// CleanText collapses the markup noise (&nbsp;, inner runs of
// whitespace, non-printable runes) that the portal likes to leave
// inside table cells.
func CleanText(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	s = removeNonPrintable(s)
	s = strings.Trim(s, " \t\n")
	return innerWhitespace.ReplaceAllString(s, " ")
}

// CellText returns the cleaned text of the nth cell (0-indexed) in a
// row selection, reporting whether the cell exists at all.
func CellText(row *goquery.Selection, n int) (string, bool) {
	cells := row.Find("td")
	if n >= cells.Length() {
		return "", false
	}
	return CleanText(cells.Eq(n).Text()), true
}

package table

import (
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
)

// FromHTML parses an HTML document and returns one Grid per <table>, in
// document order. Cells are the th and td elements of each tr, holding their
// text content with leading and trailing whitespace trimmed. Inner
// whitespace is kept as the page has it.
func FromHTML(r io.Reader) ([]Candidate, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	var out []Candidate
	doc.Find("table").Each(func(_ int, tbl *goquery.Selection) {
		var grid Grid
		tbl.Find("tr").Each(func(_ int, tr *goquery.Selection) {
			// Rows of nested tables belong to the nested table.
			if tr.Closest("table").Get(0) != tbl.Get(0) {
				return
			}
			var cells []string
			tr.ChildrenFiltered("th, td").Each(func(_ int, cell *goquery.Selection) {
				cells = append(cells, cellText(cell.Text()))
			})
			grid = append(grid, cells)
		})
		out = append(out, grid)
	})
	return out, nil
}

// cellText trims like String.prototype.trim, which also strips U+FEFF.
func cellText(s string) string {
	return strings.TrimFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || r == '\uFEFF'
	})
}

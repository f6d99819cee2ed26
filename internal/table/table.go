package table

// Candidate is a table found on the page.
type Candidate interface {
	RowCount() int
	// Row returns the text of every header or data cell in row i.
	Row(i int) []string
}

// Grid is a Candidate backed by literal cell text.
type Grid [][]string

// RowCount implements Candidate.
func (g Grid) RowCount() int { return len(g) }

// Row implements Candidate.
func (g Grid) Row(i int) []string {
	if i < 0 || i >= len(g) {
		return nil
	}
	return g[i]
}

// Row is one data row.
type Row []string

// Cell returns the text at index i, or "" when the row is shorter.
func (r Row) Cell(i int) string {
	if i < 0 || i >= len(r) {
		return ""
	}
	return r[i]
}

// Parsed is a table split into headers and data rows.
type Parsed struct {
	Headers []string
	Rows    []Row
}

// SelectDensest returns the candidate with the most rows.
// Ties go to the first one encountered. Returns false for an empty list.
func SelectDensest(candidates []Candidate) (Candidate, bool) {
	var best Candidate
	bestRows := -1
	for _, c := range candidates {
		if c == nil {
			continue
		}
		if n := c.RowCount(); n > bestRows {
			best, bestRows = c, n
		}
	}
	return best, best != nil
}

// Parse turns the first non-empty row into headers and the remaining
// non-empty rows into data. A row is empty when it has no cells at all;
// a row of blank cells is kept.
func Parse(c Candidate) Parsed {
	var p Parsed
	if c == nil {
		return p
	}

	headersSeen := false
	for i := 0; i < c.RowCount(); i++ {
		cells := c.Row(i)
		if len(cells) == 0 {
			continue
		}
		row := make(Row, len(cells))
		copy(row, cells)
		if !headersSeen {
			p.Headers = row
			headersSeen = true
			continue
		}
		p.Rows = append(p.Rows, row)
	}
	return p
}

// Column returns the index of the header named name, or -1.
func (p Parsed) Column(name string) int {
	for i, h := range p.Headers {
		if h == name {
			return i
		}
	}
	return -1
}

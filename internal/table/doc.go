// Package table extracts tabular data from a page and answers simple
// questions about it.
//
// A page may hold several tables. SelectDensest picks the one with the most
// rows, Parse splits it into headers and data rows, and Filter/MaxNumeric
// run the queries a scenario asserts on:
//
//	tables, _ := table.FromHTML(r)
//	best, ok := table.SelectDensest(tables)
//	parsed := table.Parse(best)
//	cheap := table.Filter(parsed.Rows, table.Between(2, 0, 25))
//
// Candidates come from the page's serialized DOM (FromHTML, via goquery).
package table

package fetcher

import (
	"io"
	"strings"

	"golang.org/x/net/html"
)

// ParseTables extracts every <table> in an HTML document as rows of cell
// text, in document order. A nested table is flattened into the parent
// cell that holds it, so only top-level rows and cells are split.
func ParseTables(body io.Reader) ([][][]string, error) {
	tokenizer := html.NewTokenizer(body)

	var (
		tables [][][]string
		rows   [][]string
		row    []string
		cell   strings.Builder
		depth  int
		inCell bool
		inSkip bool
	)

	for {
		tokenType := tokenizer.Next()

		switch tokenType {
		case html.ErrorToken:
			if tokenizer.Err() == io.EOF {
				return tables, nil
			}
			return nil, tokenizer.Err()

		case html.StartTagToken, html.SelfClosingTagToken:
			token := tokenizer.Token()
			switch token.Data {
			case "script", "style":
				inSkip = tokenType == html.StartTagToken
			case "table":
				if depth == 0 {
					rows = nil
				}
				depth++
			case "tr":
				if depth == 1 {
					row = nil
				}
			case "td", "th":
				if depth == 1 {
					inCell = true
					cell.Reset()
				}
			case "br":
				if inCell {
					cell.WriteString(" ")
				}
			}

		case html.EndTagToken:
			token := tokenizer.Token()
			switch token.Data {
			case "script", "style":
				inSkip = false
			case "td", "th":
				if depth == 1 && inCell {
					row = append(row, cleanText(cell.String()))
					inCell = false
				}
			case "tr":
				if depth == 1 && row != nil {
					rows = append(rows, row)
					row = nil
				}
			case "table":
				if depth > 0 {
					depth--
					if depth == 0 {
						tables = append(tables, rows)
					}
				}
			}

		case html.TextToken:
			if inCell && !inSkip {
				cell.Write(tokenizer.Text())
				cell.WriteString(" ")
			}
		}
	}
}

// cleanText removes excessive whitespace
func cleanText(input string) string {
	return strings.Join(strings.Fields(input), " ")
}

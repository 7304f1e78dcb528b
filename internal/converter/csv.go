package converter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// CSVConverter renders CSV files as a table. The first row is the header.
type CSVConverter struct{}

func (c *CSVConverter) Convert(r io.Reader) (string, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return "", fmt.Errorf("parse csv: %w", err)
	}
	if len(records) == 0 {
		return "", nil
	}

	var out strings.Builder
	out.WriteString("<table>\n<thead>\n")
	writeRow(&out, "th", records[0])
	out.WriteString("</thead>\n<tbody>\n")
	for _, row := range records[1:] {
		writeRow(&out, "td", row)
	}
	out.WriteString("</tbody>\n</table>\n")
	return out.String(), nil
}

func writeRow(out *strings.Builder, cell string, row []string) {
	out.WriteString("<tr>")
	for _, v := range row {
		fmt.Fprintf(out, "<%s>%s</%s>", cell, html.EscapeString(v), cell)
	}
	out.WriteString("</tr>\n")
}

package parser

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/docsite/internal/doctree"
)

// CSVParser handles CSV files.
type CSVParser struct{}

func (p *CSVParser) Parse(r io.Reader, filename string) (*doctree.Node, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}

	doc := doctree.NewDocument(filename)
	doc.Append(titleNode(baseName(filename, ".csv")))

	if len(records) == 0 {
		return doc, nil
	}

	// First row is headers.
	headers := records[0]

	// Group rows into batches of 20, one section each.
	const batchSize = 20
	dataRows := records[1:]

	for i := 0; i < len(dataRows); i += batchSize {
		end := i + batchSize
		if end > len(dataRows) {
			end = len(dataRows)
		}
		batch := dataRows[i:end]

		sec := doctree.New(doctree.KindSection,
			titleNode(fmt.Sprintf("Rows %d-%d", i+2, end+1)), // 1-indexed, skip header
		)
		sec.Attrs.IDs = []string{fmt.Sprintf("rows-%d-%d", i+2, end+1)}
		for _, row := range batch {
			var text strings.Builder
			for j, cell := range row {
				if j < len(headers) {
					text.WriteString(headers[j] + ": " + cell)
				} else {
					text.WriteString(cell)
				}
				if j < len(row)-1 {
					text.WriteString(", ")
				}
			}
			sec.Append(paragraph(text.String()))
		}
		doc.Append(sec)
	}

	return doc, nil
}

// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package table

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/docgrid/internal/grid"
)

// cellsPerRow is the width of a data row: x-coordinate, character, y-coordinate
const cellsPerRow = 3

// ErrNoTable is returned when the document has no <table> element
var ErrNoTable = errors.New("no table found in document")

// ExtractRows returns the trimmed cell text of every data row in the first table.
// The first row is treated as the header and skipped. Rows that do not have
// exactly three cells are dropped.
func ExtractRows(r io.Reader) ([][]string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	table := doc.Find("table").First()
	if table.Length() == 0 {
		return nil, ErrNoTable
	}

	var rows [][]string
	table.Find("tr").Each(func(i int, tr *goquery.Selection) {
		if i == 0 {
			return
		}

		cells := make([]string, 0, cellsPerRow)
		tr.Find("td").Each(func(_ int, td *goquery.Selection) {
			cells = append(cells, strings.TrimSpace(td.Text()))
		})

		if len(cells) == cellsPerRow {
			rows = append(rows, cells)
		}
	})

	return rows, nil
}

// ExtractPlacements parses the first table of an HTML document into placements
func ExtractPlacements(r io.Reader) ([]grid.Placement, error) {
	rows, err := ExtractRows(r)
	if err != nil {
		return nil, err
	}

	placements, err := grid.ParseRecords(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to parse table rows: %w", err)
	}
	return placements, nil
}

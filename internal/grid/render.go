// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package grid

import "strings"

// Blank fills every cell that no placement covers
const Blank = " "

// Dimensions returns the width and height of the grid the placements describe.
// Empty input has no dimensions.
func Dimensions(placements []Placement) (width, height int) {
	if len(placements) == 0 {
		return 0, 0
	}

	maxX, maxY := 0, 0
	for _, p := range placements {
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}
	return maxX + 1, maxY + 1
}

// Render places every symbol into a grid and returns its rows, top row first.
// The y-axis is flipped so y=0 is the last row returned. Later placements
// overwrite earlier ones at the same cell. Empty input yields no rows.
func Render(placements []Placement) ([]string, error) {
	if err := validate(placements); err != nil {
		return nil, err
	}

	width, height := Dimensions(placements)
	if height == 0 {
		return []string{}, nil
	}

	cells := make([][]string, height)
	for row := range cells {
		cells[row] = make([]string, width)
		for col := range cells[row] {
			cells[row][col] = Blank
		}
	}

	maxY := height - 1
	for _, p := range placements {
		symbol := p.Symbol
		if symbol == "" {
			// Keep the row width stable
			symbol = Blank
		}
		cells[maxY-p.Y][p.X] = symbol
	}

	rows := make([]string, height)
	for i, row := range cells {
		rows[i] = strings.Join(row, "")
	}
	return rows, nil
}

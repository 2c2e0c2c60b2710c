// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package grid

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// fieldsPerRecord is the number of fields in a well-formed record: x, symbol, y
const fieldsPerRecord = 3

// MaxCoordinate is the largest x or y accepted. Larger values are rejected
// before any grid is allocated.
const MaxCoordinate = 4095

// Placement is one character placed at (X, Y) with the origin at the bottom-left
type Placement struct {
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Symbol string `json:"symbol"`
}

// MalformedRecordError reports a record that cannot become a valid Placement
type MalformedRecordError struct {
	Row    int // zero-based index of the record, -1 when unknown
	Field  string
	Value  string
	Reason string
}

func (e *MalformedRecordError) Error() string {
	if e.Row < 0 {
		return fmt.Sprintf("malformed record: %s %q: %s", e.Field, e.Value, e.Reason)
	}
	return fmt.Sprintf("malformed record %d: %s %q: %s", e.Row, e.Field, e.Value, e.Reason)
}

// ParsePlacement builds a Placement from the raw text of one table row.
// Coordinates must be base-10 integers in [0, MaxCoordinate] and the symbol
// at most one character.
func ParsePlacement(xText, symbol, yText string) (Placement, error) {
	x, err := parseCoordinate("x", xText)
	if err != nil {
		return Placement{}, err
	}
	y, err := parseCoordinate("y", yText)
	if err != nil {
		return Placement{}, err
	}

	symbol = strings.TrimSpace(symbol)
	if err := checkSymbol(-1, symbol); err != nil {
		return Placement{}, err
	}

	return Placement{X: x, Y: y, Symbol: symbol}, nil
}

// ParseRecords converts (x, symbol, y) records into placements.
// The first malformed record aborts parsing and nothing is returned.
func ParseRecords(records [][]string) ([]Placement, error) {
	placements := make([]Placement, 0, len(records))
	for i, record := range records {
		if len(record) != fieldsPerRecord {
			return nil, &MalformedRecordError{
				Row:    i,
				Field:  "record",
				Value:  strings.Join(record, "|"),
				Reason: fmt.Sprintf("expected %d fields, got %d", fieldsPerRecord, len(record)),
			}
		}

		p, err := ParsePlacement(record[0], record[1], record[2])
		if err != nil {
			if mre, ok := err.(*MalformedRecordError); ok {
				mre.Row = i
			}
			return nil, err
		}
		placements = append(placements, p)
	}
	return placements, nil
}

func parseCoordinate(field, text string) (int, error) {
	trimmed := strings.TrimSpace(text)
	v, err := strconv.Atoi(trimmed)
	if errors.Is(err, strconv.ErrRange) {
		return 0, &MalformedRecordError{Row: -1, Field: field, Value: text, Reason: fmt.Sprintf("coordinate exceeds %d", MaxCoordinate)}
	}
	if err != nil {
		return 0, &MalformedRecordError{Row: -1, Field: field, Value: text, Reason: "not an integer"}
	}
	if v < 0 {
		return 0, &MalformedRecordError{Row: -1, Field: field, Value: text, Reason: "negative coordinate"}
	}
	if v > MaxCoordinate {
		return 0, &MalformedRecordError{Row: -1, Field: field, Value: text, Reason: fmt.Sprintf("coordinate exceeds %d", MaxCoordinate)}
	}
	return v, nil
}

// checkSymbol rejects symbols wider than one cell. An empty symbol renders as Blank.
func checkSymbol(row int, symbol string) error {
	if utf8.RuneCountInString(symbol) > 1 {
		return &MalformedRecordError{Row: row, Field: "symbol", Value: symbol, Reason: "more than one character"}
	}
	return nil
}

// validate rejects placements that could not have come from ParsePlacement
func validate(placements []Placement) error {
	for i, p := range placements {
		if err := checkCoordinate(i, "x", p.X); err != nil {
			return err
		}
		if err := checkCoordinate(i, "y", p.Y); err != nil {
			return err
		}
		if err := checkSymbol(i, p.Symbol); err != nil {
			return err
		}
	}
	return nil
}

func checkCoordinate(row int, field string, v int) error {
	switch {
	case v < 0:
		return &MalformedRecordError{Row: row, Field: field, Value: strconv.Itoa(v), Reason: "negative coordinate"}
	case v > MaxCoordinate:
		return &MalformedRecordError{Row: row, Field: field, Value: strconv.Itoa(v), Reason: fmt.Sprintf("coordinate exceeds %d", MaxCoordinate)}
	}
	return nil
}

// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package grid

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"sync"
	"testing"
)

func TestRender_SmallGrid(t *testing.T) {
	placements := []Placement{
		{X: 0, Y: 0, Symbol: "A"},
		{X: 1, Y: 0, Symbol: "B"},
		{X: 0, Y: 1, Symbol: "C"},
	}

	rows, err := Render(placements)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	want := []string{"C ", "AB"}
	if len(rows) != len(want) {
		t.Fatalf("Expected %d rows, got %d", len(want), len(rows))
	}
	for i := range want {
		if rows[i] != want[i] {
			t.Errorf("Row %d mismatch. Expected: %q, Got: %q", i, want[i], rows[i])
		}
	}
}

func TestRender_SinglePlacement(t *testing.T) {
	rows, err := Render([]Placement{{X: 3, Y: 3, Symbol: "X"}})
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	want := []string{"   X", "    ", "    ", "    "}
	if len(rows) != 4 {
		t.Fatalf("Expected 4 rows, got %d", len(rows))
	}
	for i := range want {
		if rows[i] != want[i] {
			t.Errorf("Row %d mismatch. Expected: %q, Got: %q", i, want[i], rows[i])
		}
	}
}

func TestRender_LastWriteWins(t *testing.T) {
	rows, err := Render([]Placement{
		{X: 1, Y: 1, Symbol: "Y"},
		{X: 1, Y: 1, Symbol: "Z"},
	})
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	if got := rows[0][1]; got != 'Z' {
		t.Errorf("Expected duplicate cell to show 'Z', got %q", got)
	}
}

func TestRender_Sizing(t *testing.T) {
	placements := []Placement{
		{X: 7, Y: 0, Symbol: "a"},
		{X: 2, Y: 4, Symbol: "b"},
		{X: 0, Y: 2, Symbol: "c"},
	}

	rows, err := Render(placements)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	if len(rows) != 5 {
		t.Errorf("Expected height 5, got %d", len(rows))
	}
	for i, row := range rows {
		if len(row) != 8 {
			t.Errorf("Row %d: expected width 8, got %d", i, len(row))
		}
	}

	width, height := Dimensions(placements)
	if width != 8 || height != 5 {
		t.Errorf("Dimensions mismatch. Expected 8x5, got %dx%d", width, height)
	}
}

func TestRender_OriginIsBottomLeft(t *testing.T) {
	rows, err := Render([]Placement{
		{X: 0, Y: 0, Symbol: "O"},
		{X: 2, Y: 2, Symbol: "T"},
	})
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	last := rows[len(rows)-1]
	if last[0] != 'O' {
		t.Errorf("Expected origin in bottom row column 0, got row %q", last)
	}
	if rows[0][2] != 'T' {
		t.Errorf("Expected highest y in top row, got row %q", rows[0])
	}
}

func TestRender_GapsAreBlank(t *testing.T) {
	rows, err := Render([]Placement{
		{X: 0, Y: 0, Symbol: "#"},
		{X: 2, Y: 1, Symbol: "#"},
	})
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	if rows[0] != "  #" || rows[1] != "#  " {
		t.Errorf("Unexpected rows: %q", rows)
	}
}

func TestRender_MultiByteSymbols(t *testing.T) {
	rows, err := Render([]Placement{
		{X: 0, Y: 0, Symbol: "█"},
		{X: 1, Y: 0, Symbol: "░"},
		{X: 1, Y: 1, Symbol: "█"},
	})
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	if rows[0] != " █" || rows[1] != "█░" {
		t.Errorf("Unexpected rows: %q", rows)
	}
}

func TestRender_EmptySymbolKeepsWidth(t *testing.T) {
	rows, err := Render([]Placement{
		{X: 0, Y: 0, Symbol: ""},
		{X: 1, Y: 0, Symbol: "B"},
	})
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	if rows[0] != " B" {
		t.Errorf("Expected %q, got %q", " B", rows[0])
	}
}

func TestRender_EmptyInput(t *testing.T) {
	for _, input := range [][]Placement{nil, {}} {
		rows, err := Render(input)
		if err != nil {
			t.Fatalf("Render failed on empty input: %v", err)
		}
		if len(rows) != 0 {
			t.Errorf("Expected no rows for empty input, got %d", len(rows))
		}
	}

	width, height := Dimensions(nil)
	if width != 0 || height != 0 {
		t.Errorf("Expected 0x0 for empty input, got %dx%d", width, height)
	}
}

func TestRender_NegativeCoordinate(t *testing.T) {
	rows, err := Render([]Placement{
		{X: 0, Y: 0, Symbol: "A"},
		{X: -1, Y: 0, Symbol: "N"},
	})
	if err == nil {
		t.Fatalf("Expected error for negative coordinate, got rows %q", rows)
	}
	if rows != nil {
		t.Errorf("Expected no partial grid, got %q", rows)
	}

	var mre *MalformedRecordError
	if !errors.As(err, &mre) {
		t.Fatalf("Expected MalformedRecordError, got %T", err)
	}
	if mre.Row != 1 || mre.Field != "x" {
		t.Errorf("Unexpected error details: row=%d field=%s", mre.Row, mre.Field)
	}
}

func TestRender_Idempotent(t *testing.T) {
	placements := []Placement{
		{X: 4, Y: 1, Symbol: "q"},
		{X: 0, Y: 3, Symbol: "w"},
		{X: 2, Y: 2, Symbol: "e"},
	}

	first, err := Render(placements)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	second, err := Render(placements)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	if strings.Join(first, "\n") != strings.Join(second, "\n") {
		t.Errorf("Render is not idempotent:\n%q\n%q", first, second)
	}
}

func TestRender_Concurrent(t *testing.T) {
	placements := []Placement{{X: 1, Y: 1, Symbol: "c"}, {X: 0, Y: 0, Symbol: "d"}}

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rows, err := Render(placements)
			if err != nil {
				t.Errorf("Render failed: %v", err)
				return
			}
			if rows[0] != " c" || rows[1] != "d " {
				t.Errorf("Unexpected rows: %q", rows)
			}
		}()
	}
	wg.Wait()
}

func TestParsePlacement(t *testing.T) {
	tests := []struct {
		name    string
		x, y    string
		symbol  string
		want    Placement
		wantErr string
	}{
		{name: "plain", x: "3", y: "5", symbol: "█", want: Placement{X: 3, Y: 5, Symbol: "█"}},
		{name: "whitespace", x: " 12 ", y: "\t0\n", symbol: "  ░ ", want: Placement{X: 12, Y: 0, Symbol: "░"}},
		{name: "non-numeric x", x: "abc", y: "0", symbol: "A", wantErr: "not an integer"},
		{name: "non-numeric y", x: "0", y: "1.5", symbol: "A", wantErr: "not an integer"},
		{name: "negative x", x: "-1", y: "0", symbol: "N", wantErr: "negative coordinate"},
		{name: "negative y", x: "0", y: "-4", symbol: "N", wantErr: "negative coordinate"},
		{name: "empty", x: "", y: "0", symbol: "A", wantErr: "not an integer"},
		{name: "max coordinate", x: strconv.Itoa(MaxCoordinate), y: "0", symbol: "A", want: Placement{X: MaxCoordinate, Y: 0, Symbol: "A"}},
		{name: "x too large", x: strconv.Itoa(MaxCoordinate + 1), y: "0", symbol: "A", wantErr: "coordinate exceeds"},
		{name: "x MaxInt", x: strconv.Itoa(math.MaxInt), y: "0", symbol: "X", wantErr: "coordinate exceeds"},
		{name: "y overflows int", x: "0", y: "99999999999999999999999", symbol: "X", wantErr: "coordinate exceeds"},
		{name: "two characters", x: "0", y: "0", symbol: "AB", wantErr: "more than one character"},
		{name: "empty symbol", x: "1", y: "2", symbol: " ", want: Placement{X: 1, Y: 2, Symbol: ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePlacement(tt.x, tt.symbol, tt.y)
			if tt.wantErr != "" {
				if err == nil {
					t.Fatalf("Expected error containing %q, got placement %+v", tt.wantErr, got)
				}
				var mre *MalformedRecordError
				if !errors.As(err, &mre) {
					t.Fatalf("Expected MalformedRecordError, got %T", err)
				}
				if !strings.Contains(err.Error(), tt.wantErr) {
					t.Errorf("Expected error containing %q, got %q", tt.wantErr, err.Error())
				}
				return
			}
			if err != nil {
				t.Fatalf("ParsePlacement failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("Expected %+v, got %+v", tt.want, got)
			}
		})
	}
}

func TestParseRecords(t *testing.T) {
	placements, err := ParseRecords([][]string{
		{"0", "A", "0"},
		{"1", "B", "0"},
		{"0", "C", "1"},
	})
	if err != nil {
		t.Fatalf("ParseRecords failed: %v", err)
	}
	if len(placements) != 3 {
		t.Fatalf("Expected 3 placements, got %d", len(placements))
	}
	if placements[2] != (Placement{X: 0, Y: 1, Symbol: "C"}) {
		t.Errorf("Unexpected third placement: %+v", placements[2])
	}
}

func TestParseRecords_Malformed(t *testing.T) {
	tests := []struct {
		name    string
		records [][]string
		row     int
	}{
		{name: "non-numeric", records: [][]string{{"0", "A", "0"}, {"abc", "B", "0"}}, row: 1},
		{name: "negative", records: [][]string{{"-1", "N", "0"}}, row: 0},
		{name: "short record", records: [][]string{{"0", "A", "0"}, {"0", "A", "0"}, {"1", "B"}}, row: 2},
		{name: "long record", records: [][]string{{"1", "B", "0", "extra"}}, row: 0},
		{name: "huge coordinate", records: [][]string{{"0", "A", "0"}, {strconv.Itoa(math.MaxInt), "X", "0"}}, row: 1},
		{name: "wide symbol", records: [][]string{{"0", "AB", "0"}, {"1", "C", "0"}}, row: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			placements, err := ParseRecords(tt.records)
			if err == nil {
				t.Fatalf("Expected error, got %+v", placements)
			}
			if placements != nil {
				t.Errorf("Expected no partial result, got %+v", placements)
			}
			var mre *MalformedRecordError
			if !errors.As(err, &mre) {
				t.Fatalf("Expected MalformedRecordError, got %T", err)
			}
			if mre.Row != tt.row {
				t.Errorf("Expected failing row %d, got %d", tt.row, mre.Row)
			}
		})
	}
}

func TestRender_RejectsOversizedCoordinate(t *testing.T) {
	tests := []struct {
		name       string
		placements []Placement
		field      string
	}{
		{name: "x MaxInt", placements: []Placement{{X: math.MaxInt, Y: 0, Symbol: "X"}}, field: "x"},
		{name: "y past limit", placements: []Placement{{X: 0, Y: 0, Symbol: "A"}, {X: 0, Y: MaxCoordinate + 1, Symbol: "B"}}, field: "y"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, err := Render(tt.placements)
			if err == nil {
				t.Fatalf("Expected error, got %d rows", len(rows))
			}
			if rows != nil {
				t.Errorf("Expected no partial grid, got %d rows", len(rows))
			}
			var mre *MalformedRecordError
			if !errors.As(err, &mre) {
				t.Fatalf("Expected MalformedRecordError, got %T", err)
			}
			if mre.Field != tt.field {
				t.Errorf("Expected field %s, got %s", tt.field, mre.Field)
			}
		})
	}
}

func TestRender_RejectsWideSymbol(t *testing.T) {
	rows, err := Render([]Placement{
		{X: 0, Y: 0, Symbol: "AB"},
		{X: 1, Y: 0, Symbol: "C"},
	})
	if err == nil {
		t.Fatalf("Expected error for two-character symbol, got rows %q", rows)
	}

	var mre *MalformedRecordError
	if !errors.As(err, &mre) {
		t.Fatalf("Expected MalformedRecordError, got %T", err)
	}
	if mre.Row != 0 || mre.Field != "symbol" || mre.Value != "AB" {
		t.Errorf("Unexpected error details: row=%d field=%s value=%q", mre.Row, mre.Field, mre.Value)
	}
}

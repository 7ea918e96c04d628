package core

import (
	"testing"

	"github.com/JonMunkholm/mobgen/internal/sheet"
)

func TestRowValidator_Resolve(t *testing.T) {
	idx := sheet.MakeHeaderIndex([]string{"id", "NameJP", "LV"})
	v := NewRowValidator(testSpecs, idx)

	tests := []struct {
		name      string
		cells     []string
		want      Values
		wantErrs  int
		wantFatal bool
	}{
		{
			name:  "all present",
			cells: []string{"goblin", "ゴブリン", "5"},
			want:  Values{"ID": "goblin", "Name": "ゴブリン", "Level": "5", "Area": "Global"},
		},
		{
			name:  "cells cleaned",
			cells: []string{" slime ", "=\"スライム\"", "1,000"},
			want:  Values{"ID": "slime", "Name": "スライム", "Level": "1,000", "Area": "Global"},
		},
		{
			name:  "empty uses defaults",
			cells: []string{"slime", "", ""},
			want:  Values{"ID": "slime", "Name": "", "Level": "1", "Area": "Global"},
		},
		{
			name:     "bad number warns and defaults",
			cells:    []string{"orc", "", "high"},
			want:     Values{"ID": "orc", "Name": "", "Level": "1", "Area": "Global"},
			wantErrs: 1,
		},
		{
			name:      "missing id is fatal",
			cells:     []string{"", "nobody", "3"},
			wantErrs:  1,
			wantFatal: true,
		},
		{
			name:  "short row",
			cells: []string{"bat"},
			want:  Values{"ID": "bat", "Name": "", "Level": "1", "Area": "Global"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values, errs := v.Resolve(sheet.Record{Line: 2, Cells: tt.cells})

			if len(errs) != tt.wantErrs {
				t.Fatalf("got %d errors (%v), want %d", len(errs), errs, tt.wantErrs)
			}
			if HasFatal(errs) != tt.wantFatal {
				t.Fatalf("HasFatal() = %v, want %v", HasFatal(errs), tt.wantFatal)
			}
			if tt.wantFatal {
				return
			}
			for k, want := range tt.want {
				if values[k] != want {
					t.Errorf("values[%s] = %q, want %q", k, values[k], want)
				}
			}
		})
	}
}

func TestValidationError_Error(t *testing.T) {
	e := ValidationError{Field: "Level", Message: "bad"}
	if got := e.Error(); got != "Level: bad" {
		t.Errorf("Error() = %q", got)
	}
	if got := (ValidationError{Message: "bad"}).Error(); got != "bad" {
		t.Errorf("Error() = %q", got)
	}
}

func TestValues_Accessors(t *testing.T) {
	v := Values{"Level": "1,000", "Speed": "0.5", "Bad": "x"}

	if got := v.Int("Level"); got != 1000 {
		t.Errorf("Int(Level) = %d", got)
	}
	if got := v.Float("Speed"); got != 0.5 {
		t.Errorf("Float(Speed) = %v", got)
	}
	if got := v.Int("Bad"); got != 0 {
		t.Errorf("Int(Bad) = %d, want 0", got)
	}
	if got := v.String("Missing"); got != "" {
		t.Errorf("String(Missing) = %q", got)
	}
}

func TestDefinition_RequiredColumns(t *testing.T) {
	cols := testDefinition("x").RequiredColumns()
	if len(cols) != 1 || cols[0].Name() != "ID" {
		t.Errorf("RequiredColumns() = %v", cols)
	}

	col := FieldSpec{Name: "Level", Aliases: []string{"Lv", "推定lev"}}.Column()
	if len(col) != 3 || col[0] != "Level" || col[2] != "推定lev" {
		t.Errorf("Column() = %v", col)
	}
}

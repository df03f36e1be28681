package compare

import (
	"strings"
	"testing"

	"github.com/johnrirwin/fpviraq/internal/models"
)

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in     interface{}
		want   float64
		wantOK bool
	}{
		{"45A", 45, true},
		{"27g", 27, true},
		{" 3.5mm", 3.5, true},
		{"+12V", 12, true},
		{"-3dB", -3, true},
		{".5", 0.5, true},
		{"1e3", 1000, true},
		{"2.5E-1mm", 0.25, true},
		{"1e", 1, true},
		{"Infinity", 0, false},
		{"1e400", 0, false},
		{float64(1700), 1700, true},
		{7, 7, true},
		{"BLHeli_32", 0, false},
		{"", 0, false},
		{true, 0, false},
		{nil, 0, false},
	}

	for _, tt := range tests {
		got, ok := ParseNumber(tt.in)
		if ok != tt.wantOK || got != tt.want {
			t.Errorf("ParseNumber(%v) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestBestFor_CurrentHigherWins(t *testing.T) {
	set := NewSet(part("a", "current", "45A"), part("b", "current", "60A"))

	best := set.BestFor("current")
	if !best.OK {
		t.Fatal("BestFor(current) not OK")
	}
	if strings.Join(best.IDs, ",") != "b" {
		t.Errorf("best ids = %v, want [b]", best.IDs)
	}
	if best.Value != 60 {
		t.Errorf("best value = %v, want 60", best.Value)
	}
}

func TestBestFor_WeightLowerWins(t *testing.T) {
	a := part("a", "weight", "31g")
	b := part("b", "weight", "27g")
	c := part("c", "weight", "29g")

	best := BestFor([]models.PartRecord{a, b, c}, "weight")
	if !best.IsBest(b) || best.IsBest(a) || best.IsBest(c) {
		t.Errorf("best ids = %v, want [b]", best.IDs)
	}
}

func TestBestFor_TiesAllFlagged(t *testing.T) {
	a := part("a", "kv", 1700)
	b := part("b", "kv", 2450)
	c := part("c", "kv", 2450)

	best := BestFor([]models.PartRecord{a, b, c}, "kv")
	if strings.Join(best.IDs, ",") != "b,c" {
		t.Errorf("best ids = %v, want [b c]", best.IDs)
	}
}

func TestBestFor_UnparsableExcluded(t *testing.T) {
	a := part("a", "current", "unknown")
	b := part("b", "current", "35A")

	best := BestFor([]models.PartRecord{a, b}, "current")
	if !best.IsBest(b) || best.IsBest(a) {
		t.Errorf("best ids = %v, want [b]", best.IDs)
	}

	none := BestFor([]models.PartRecord{a}, "current")
	if none.OK || none.IsBest(a) {
		t.Errorf("all-unparsable set produced a badge: %+v", none)
	}
}

func TestBestFor_IneligibleKey(t *testing.T) {
	a := part("a", "uart_count", 6)
	b := part("b", "uart_count", 4)

	if best := BestFor([]models.PartRecord{a, b}, "uart_count"); best.OK {
		t.Errorf("uart_count should not be eligible: %+v", best)
	}
}

func TestHighlights(t *testing.T) {
	a := part("a", "kv", 1700, "weight", "31g")
	b := part("b", "kv", 1950, "weight", "28g", "current", "45A")

	h := Highlights([]models.PartRecord{a, b})
	if len(h) != 3 {
		t.Fatalf("Highlights() has %d keys, want 3", len(h))
	}
	if !h["kv"].IsBest(b) || !h["weight"].IsBest(b) || !h["current"].IsBest(b) {
		t.Errorf("Highlights() = %+v", h)
	}
}

func TestTable(t *testing.T) {
	a := part("a", "kv", 1700, "size", "2207")
	b := part("b", "size", "2306", "kv", 1950, "shaft", "M5")

	rows := Table([]models.PartRecord{a, b})
	var keys []string
	for _, r := range rows {
		keys = append(keys, r.Key)
	}
	if strings.Join(keys, ",") != "kv,size,shaft" {
		t.Fatalf("row keys = %v", keys)
	}

	kv := rows[0]
	if kv.Cells[0].Value != "1700" || kv.Cells[0].Best {
		t.Errorf("kv cell a = %+v", kv.Cells[0])
	}
	if kv.Cells[1].Value != "1950" || !kv.Cells[1].Best {
		t.Errorf("kv cell b = %+v", kv.Cells[1])
	}
	if rows[2].Cells[0].Value != "-" {
		t.Errorf("missing shaft for a rendered as %q", rows[2].Cells[0].Value)
	}
}

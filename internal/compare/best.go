package compare

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/johnrirwin/fpviraq/internal/models"
)

// Direction says which end of a spec's range wins
type Direction int

const (
	LowerIsBetter Direction = iota
	HigherIsBetter
)

// Rule declares a spec key as eligible for best-of highlighting
type Rule struct {
	Key       string
	Direction Direction
}

// Rules are the only keys that get a best badge
var Rules = []Rule{
	{Key: "weight", Direction: LowerIsBetter},
	{Key: "current", Direction: HigherIsBetter},
	{Key: "kv", Direction: HigherIsBetter},
}

// RuleFor looks up the highlighting rule for key
func RuleFor(key string) (Rule, bool) {
	return lo.Find(Rules, func(r Rule) bool {
		return r.Key == key
	})
}

var leadingNumber = regexp.MustCompile(`^\s*[-+]?(\d+(\.\d*)?|\.\d+)([eE][-+]?\d+)?`)

// ParseNumber coerces a spec value to a number. Strings are read by their
// leading numeric prefix, so "45A" is 45 and "27g" is 27. An exponent is part
// of the prefix ("1e3" is 1000). Non-finite results, including "Infinity", are not numbers here.
func ParseNumber(v interface{}) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case int:
		f = float64(n)
	case string:
		m := leadingNumber.FindString(n)
		if m == "" {
			return 0, false
		}
		parsed, err := strconv.ParseFloat(strings.TrimSpace(m), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// Best is the extremum of one spec key across a comparison set
type Best struct {
	Key   string   `json:"key"`
	Value float64  `json:"value"`
	IDs   []string `json:"ids"`
	OK    bool     `json:"ok"`
}

// IsBest reports whether part holds the extremal value. Ties all count.
func (b Best) IsBest(part models.PartRecord) bool {
	return b.OK && lo.Contains(b.IDs, part.ID)
}

// BestFor finds which parts hold the best value for key. Keys without a rule
// and parts whose value cannot be parsed never produce a badge.
func BestFor(parts []models.PartRecord, key string) Best {
	best := Best{Key: key}

	rule, ok := RuleFor(key)
	if !ok {
		return best
	}

	type candidate struct {
		id    string
		value float64
	}
	var candidates []candidate
	for _, p := range parts {
		raw, ok := p.Specs.Get(key)
		if !ok {
			continue
		}
		if v, ok := ParseNumber(raw); ok {
			candidates = append(candidates, candidate{id: p.ID, value: v})
		}
	}
	if len(candidates) == 0 {
		return best
	}

	extremum := candidates[0].value
	for _, c := range candidates[1:] {
		if rule.Direction == LowerIsBetter && c.value < extremum {
			extremum = c.value
		}
		if rule.Direction == HigherIsBetter && c.value > extremum {
			extremum = c.value
		}
	}

	best.Value = extremum
	best.OK = true
	for _, c := range candidates {
		if c.value == extremum {
			best.IDs = append(best.IDs, c.id)
		}
	}
	return best
}

// Highlights computes BestFor for every rule that yields a result
func Highlights(parts []models.PartRecord) map[string]Best {
	out := make(map[string]Best)
	for _, r := range Rules {
		if b := BestFor(parts, r.Key); b.OK {
			out[r.Key] = b
		}
	}
	return out
}

// Cell is one part's value in a comparison row
type Cell struct {
	PartID string `json:"partId"`
	Value  string `json:"value"`
	Best   bool   `json:"best"`
}

// Row is one spec key across the compared parts
type Row struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Cells []Cell `json:"cells"`
}

// Table lays out the union of spec keys in first-seen order. Missing values render as "-".
func Table(parts []models.PartRecord) []Row {
	var keys []string
	for _, p := range parts {
		keys = append(keys, p.Specs.Keys()...)
	}
	keys = lo.Uniq(keys)

	highlights := Highlights(parts)
	rows := make([]Row, 0, len(keys))
	for _, key := range keys {
		row := Row{Key: key, Label: strings.ReplaceAll(key, "_", " ")}
		best := highlights[key]
		for _, p := range parts {
			cell := Cell{PartID: p.ID, Value: "-"}
			if v, ok := p.Specs.Get(key); ok {
				cell.Value = models.FormatSpecValue(v)
				cell.Best = best.IsBest(p)
			}
			row.Cells = append(row.Cells, cell)
		}
		rows = append(rows, row)
	}
	return rows
}

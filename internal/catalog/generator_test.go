package catalog

import (
	"sort"
	"strconv"
	"strings"
	"testing"

	"github.com/johnrirwin/fpviraq/internal/models"
)

func TestPartID(t *testing.T) {
	tests := []struct {
		segments []string
		want     string
	}{
		{[]string{"motor", "T-Motor", "2207", "1700"}, "motor_t_motor_2207_1700"},
		{[]string{"fc", "SpeedyBee", "F405"}, "fc_speedybee_f405"},
		{[]string{"esc", "RushFPV", "45"}, "esc_rushfpv_45"},
		{[]string{"vtx", "DJI O3"}, "vtx_dji_o3"},
		{[]string{"fc", "A  B"}, "fc_a__b"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := PartID(tt.segments...); got != tt.want {
				t.Errorf("PartID(%v) = %q, want %q", tt.segments, got, tt.want)
			}
		})
	}
}

func TestGenerate_Counts(t *testing.T) {
	parts := NewGenerator(1).Generate()

	counts := make(map[models.Category]int)
	for _, p := range parts {
		counts[p.Category]++
	}

	if got, want := counts[models.CategoryMotor], len(Brands)*len(MotorSizes)*len(MotorKVs); got != want {
		t.Errorf("motors = %d, want %d", got, want)
	}
	if got, want := counts[models.CategoryFlightController], len(fcBrands)*len(FCMCUs); got != want {
		t.Errorf("flight controllers = %d, want %d", got, want)
	}
	if got, want := counts[models.CategoryESC], len(escBrands)*len(ESCCurrents); got != want {
		t.Errorf("escs = %d, want %d", got, want)
	}
	if got := counts[models.CategoryVideoTransmitter]; got != 1 {
		t.Errorf("video transmitters = %d, want 1", got)
	}
	if len(parts) != 835 {
		t.Errorf("total = %d, want 835", len(parts))
	}
}

func TestGenerate_ManualOverridesFirst(t *testing.T) {
	parts := NewGenerator(1).Generate()
	if parts[0].ID != "vtx_dji_o3" {
		t.Fatalf("first record = %q, want vtx_dji_o3", parts[0].ID)
	}
	if parts[1].Category != models.CategoryMotor {
		t.Errorf("second record category = %q, want Motor", parts[1].Category)
	}
}

func TestGenerate_UniqueIDs(t *testing.T) {
	parts := NewGenerator(7).Generate()

	seen := make(map[string]bool, len(parts))
	for _, p := range parts {
		if seen[p.ID] {
			t.Fatalf("duplicate id %q", p.ID)
		}
		seen[p.ID] = true
	}
}

func TestGenerate_IDsIndependentOfSeed(t *testing.T) {
	sortedIDs := func(seed uint64) []string {
		parts := NewGenerator(seed).Generate()
		out := make([]string, len(parts))
		for i, p := range parts {
			out[i] = p.ID
		}
		sort.Strings(out)
		return out
	}

	a, b := sortedIDs(1), sortedIDs(99)
	if len(a) != len(b) {
		t.Fatalf("id counts differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("id sets differ at %d: %q vs %q", i, a[i], b[i])
		}
	}
}

func TestGenerate_MotorDerivedFields(t *testing.T) {
	for _, p := range NewGenerator(3).Generate() {
		if p.Category != models.CategoryMotor {
			continue
		}

		kvRaw, ok := p.Specs.Get("kv")
		if !ok {
			t.Fatalf("%s: missing kv", p.ID)
		}
		kv := kvRaw.(float64)

		wantVoltage := "4S"
		if kv < 2000 {
			wantVoltage = "6S"
		}
		if got := p.Specs.String("voltage"); got != wantVoltage {
			t.Errorf("%s: voltage = %q, want %q", p.ID, got, wantVoltage)
		}

		weight := p.Specs.String("weight")
		if !strings.HasSuffix(weight, "g") {
			t.Errorf("%s: weight %q has no unit", p.ID, weight)
		}
		grams, err := strconv.Atoi(strings.TrimSuffix(weight, "g"))
		if err != nil {
			t.Fatalf("%s: weight %q: %v", p.ID, weight, err)
		}
		if grams < 20 || grams > 34 {
			t.Errorf("%s: weight %dg outside 20..34", p.ID, grams)
		}

		keys := p.Specs.Keys()
		wantKeys := []string{"kv", "size", "voltage", "weight", "shaft"}
		for i, k := range wantKeys {
			if keys[i] != k {
				t.Errorf("%s: spec key %d = %q, want %q", p.ID, i, keys[i], k)
			}
		}
	}
}

func TestGenerate_BoardFields(t *testing.T) {
	for _, p := range NewGenerator(5).Generate() {
		switch p.Category {
		case models.CategoryFlightController:
			raw, _ := p.Specs.Get("uart_count")
			uarts := raw.(float64)
			if uarts < 4 || uarts > 6 {
				t.Errorf("%s: uart_count = %v, want 4..6", p.ID, uarts)
			}
			if p.Specs.String("gyro") != "BMI270" {
				t.Errorf("%s: gyro = %q", p.ID, p.Specs.String("gyro"))
			}
			if !fcBrands[p.Brand] {
				t.Errorf("%s: brand %q not in FC subset", p.ID, p.Brand)
			}
		case models.CategoryESC:
			current := amps(t, p.Specs.String("current"))
			burst := amps(t, p.Specs.String("burst"))
			if burst != current+10 {
				t.Errorf("%s: burst = %v, want current+10 = %v", p.ID, burst, current+10)
			}
			if p.Specs.String("firmware") != "BLHeli_32" {
				t.Errorf("%s: firmware = %q", p.ID, p.Specs.String("firmware"))
			}
			if p.Compatibility.String("mounting") != "30x30" {
				t.Errorf("%s: mounting = %q", p.ID, p.Compatibility.String("mounting"))
			}
		}
	}
}

func TestGenerate_AvailabilityAndTags(t *testing.T) {
	valid := map[models.Availability]bool{
		models.AvailabilityBaghdad:    true,
		models.AvailabilityErbil:      true,
		models.AvailabilityImportOnly: true,
	}

	for _, p := range NewGenerator(11).Generate() {
		if !valid[p.AvailabilityStatus] {
			t.Errorf("%s: availability %q", p.ID, p.AvailabilityStatus)
		}
		if len(p.Tags) != 3 {
			t.Errorf("%s: %d tags, want 3", p.ID, len(p.Tags))
			continue
		}
		last := p.Tags[2]
		if p.IraqAvailability && last != models.TagRealPhoto {
			t.Errorf("%s: local part should carry %q, got %q", p.ID, models.TagRealPhoto, last)
		}
		if !p.IraqAvailability && last != "" {
			t.Errorf("%s: non-local part should carry empty sentinel, got %q", p.ID, last)
		}
		if len(p.Gallery) != 2 || p.Gallery[0] != p.Image {
			t.Errorf("%s: gallery = %v", p.ID, p.Gallery)
		}
	}
}

func amps(t *testing.T, s string) int {
	t.Helper()
	n, err := strconv.Atoi(strings.TrimSuffix(s, "A"))
	if err != nil {
		t.Fatalf("bad current %q: %v", s, err)
	}
	return n
}

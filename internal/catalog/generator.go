package catalog

import (
	"fmt"

	"github.com/brianvoe/gofakeit/v7"

	"github.com/johnrirwin/fpviraq/internal/models"
)

// Attribute domains the catalog is generated from
var (
	Brands = []string{
		"T-Motor", "SpeedyBee", "DJI", "BetaFPV", "Foxeer", "RushFPV", "BrotherHobby",
		"iFlight", "Matek", "Lumenier", "Ethix", "TBS", "Gemfan", "HQProp",
	}
	MotorSizes  = []string{"2207", "2306", "2806", "2807", "2004", "1404", "1103"}
	MotorKVs    = []int{1700, 1750, 1800, 1950, 2450, 2550, 3500, 4500}
	FCMCUs      = []string{"F405", "F411", "F722", "H743"}
	ESCCurrents = []int{35, 45, 50, 55, 60, 65}

	fcBrands  = map[string]bool{"SpeedyBee": true, "T-Motor": true, "iFlight": true, "Matek": true, "BetaFPV": true}
	escBrands = map[string]bool{"SpeedyBee": true, "T-Motor": true, "iFlight": true, "RushFPV": true, "Foxeer": true}
)

const (
	motorLocalThreshold = 0.4
	boardLocalThreshold = 0.3
	// a motor rated below this KV is modeled as 6S capable
	highVoltageKVLimit = 2000
)

// Generator builds the catalog. Record structure and ids depend only on the
// attribute domains; weights, UART counts, availability and photo tags are
// cosmetic and drawn from a seeded faker.
type Generator struct {
	faker *gofakeit.Faker
}

// NewGenerator creates a generator. A zero seed draws a random one.
func NewGenerator(seed uint64) *Generator {
	return &Generator{faker: gofakeit.New(seed)}
}

// Generate returns the manual overrides followed by motors, flight controllers and ESCs
func (g *Generator) Generate() []models.PartRecord {
	parts := make([]models.PartRecord, 0, len(Brands)*len(MotorSizes)*len(MotorKVs)+64)
	parts = append(parts, ManualOverrides()...)
	parts = append(parts, g.motors()...)
	parts = append(parts, g.flightControllers()...)
	parts = append(parts, g.escs()...)
	return parts
}

// ManualOverrides are hand-authored records inserted ahead of the generated ones
func ManualOverrides() []models.PartRecord {
	return []models.PartRecord{
		{
			ID:       "vtx_dji_o3",
			Category: models.CategoryVideoTransmitter,
			Brand:    "DJI",
			Name:     "O3 Air Unit",
			Specs: models.SpecsOf(
				"resolution", "1080p/100fps",
				"latency", "30ms",
				"range", "10km+",
				"voltage", "7.4-26.4V",
			),
			Compatibility:      models.SpecsOf("goggles", "DJI Goggles 2", "mounting", "25.5x25.5"),
			IraqAvailability:   true,
			AvailabilityStatus: models.AvailabilityBaghdad,
			Tags:               []string{"HD", "4K Recording", models.TagRealPhoto},
			Image:              imageO3AirUnit,
			Gallery:            []string{imageO3AirUnit, categoryImages[models.CategoryVideoTransmitter]},
			Description:        "The market leader for HD FPV.",
		},
	}
}

func (g *Generator) motors() []models.PartRecord {
	var parts []models.PartRecord
	for _, brand := range Brands {
		for _, size := range MotorSizes {
			for _, kv := range MotorKVs {
				name := fmt.Sprintf("%s %s %dKV", brand, size, kv)
				local := g.draw() > motorLocalThreshold

				voltage := "4S"
				if kv < highVoltageKVLimit {
					voltage = "6S"
				}

				image := ResolveImage(models.CategoryMotor, brand, name)
				parts = append(parts, models.PartRecord{
					ID:       PartID("motor", brand, size, fmt.Sprint(kv)),
					Category: models.CategoryMotor,
					Brand:    brand,
					Name:     name,
					Specs: models.SpecsOf(
						"kv", kv,
						"size", size,
						"voltage", voltage,
						"weight", fmt.Sprintf("%dg", g.faker.IntRange(20, 34)),
						"shaft", "M5",
					),
					Compatibility:      models.SpecsOf("prop_mount", "M5", "esc_min_amp", 40),
					IraqAvailability:   local,
					AvailabilityStatus: g.availability(),
					Tags:               []string{"Freestyle", "Cinematic", photoTag(local)},
					Image:              image,
					Gallery:            []string{image, CategoryImage(models.CategoryMotor)},
					Description:        describe(brand, "Motor", fmt.Sprintf("%s %dKV", size, kv)),
				})
			}
		}
	}
	return parts
}

func (g *Generator) flightControllers() []models.PartRecord {
	var parts []models.PartRecord
	for _, brand := range Brands {
		if !fcBrands[brand] {
			continue
		}
		for _, mcu := range FCMCUs {
			name := fmt.Sprintf("%s %s Pro FC", brand, mcu)
			local := g.draw() > boardLocalThreshold
			image := ResolveImage(models.CategoryFlightController, brand, name)

			parts = append(parts, models.PartRecord{
				ID:       PartID("fc", brand, mcu),
				Category: models.CategoryFlightController,
				Brand:    brand,
				Name:     name,
				Specs: models.SpecsOf(
					"mcu", mcu,
					"gyro", "BMI270",
					"uart_count", g.faker.IntRange(4, 6),
					"input_voltage", "3-6S",
					"mounting", "30x30",
				),
				Compatibility:      models.SpecsOf("mounting", "30x30"),
				IraqAvailability:   local,
				AvailabilityStatus: g.availability(),
				Tags:               []string{"Analog", "HD Ready", photoTag(local)},
				Image:              image,
				Gallery:            []string{image, CategoryImage(models.CategoryFlightController)},
				Description:        describe(brand, "FC", mcu+" Pro"),
			})
		}
	}
	return parts
}

func (g *Generator) escs() []models.PartRecord {
	var parts []models.PartRecord
	for _, brand := range Brands {
		if !escBrands[brand] {
			continue
		}
		for _, amps := range ESCCurrents {
			name := fmt.Sprintf("%s %dA 4-in-1", brand, amps)
			local := g.draw() > boardLocalThreshold
			image := ResolveImage(models.CategoryESC, brand, name)

			parts = append(parts, models.PartRecord{
				ID:       PartID("esc", brand, fmt.Sprint(amps)),
				Category: models.CategoryESC,
				Brand:    brand,
				Name:     name,
				Specs: models.SpecsOf(
					"current", fmt.Sprintf("%dA", amps),
					"burst", fmt.Sprintf("%dA", amps+10),
					"input_voltage", "3-6S",
					"firmware", "BLHeli_32",
				),
				Compatibility:      models.SpecsOf("mounting", "30x30"),
				IraqAvailability:   local,
				AvailabilityStatus: g.availability(),
				Tags:               []string{"High Current", "Durable", photoTag(local)},
				Image:              image,
				Gallery:            []string{image, CategoryImage(models.CategoryESC)},
				Description:        describe(brand, "ESC", fmt.Sprintf("%dA 4-in-1", amps)),
			})
		}
	}
	return parts
}

// availability makes two independent draws: the first decides Baghdad, the
// second splits the remainder between Erbil and import.
func (g *Generator) availability() models.Availability {
	if g.draw() > 0.6 {
		return models.AvailabilityBaghdad
	}
	if g.draw() > 0.5 {
		return models.AvailabilityErbil
	}
	return models.AvailabilityImportOnly
}

func (g *Generator) draw() float64 {
	return g.faker.Float64Range(0, 1)
}

// photoTag keeps the tag list length fixed; the empty sentinel is hidden on display
func photoTag(local bool) string {
	if local {
		return models.TagRealPhoto
	}
	return ""
}

func describe(brand, category, name string) string {
	return fmt.Sprintf("The %s %s is a high-performance %s designed for professional pilots. Features premium components and reliable build quality.", brand, name, category)
}

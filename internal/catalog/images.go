package catalog

import (
	"strings"

	"github.com/johnrirwin/fpviraq/internal/models"
)

const (
	imageO3AirUnit   = "https://images.unsplash.com/photo-1601057476856-12166f284931?q=80&w=600&auto=format&fit=crop"
	imageF722        = "https://images.unsplash.com/photo-1620317377284-934c2ab1e488?q=80&w=600&auto=format&fit=crop"
	imageTMotor2207  = "https://images.unsplash.com/photo-1591485423049-7a1b4fe7e32d?q=80&w=600&auto=format&fit=crop"
	imageSpeedyStack = "https://images.unsplash.com/photo-1605218427335-3a4dd8845219?q=80&w=600&auto=format&fit=crop"

	// PlaceholderImage is the last link of the resolution chain
	PlaceholderImage = "https://placehold.co/600x400/1e293b/indigo?text=Drone+Part"

	// renderFallbackDefault replaces a broken image whose category has no substitute
	renderFallbackDefault = "https://images.unsplash.com/photo-1473968512647-3e447244af8f?q=80&w=600&auto=format&fit=crop"
)

var categoryImages = map[models.Category]string{
	models.CategoryMotor:            "https://images.unsplash.com/photo-1591485423049-7a1b4fe7e32d?q=80&w=600&auto=format&fit=crop",
	models.CategoryFlightController: "https://images.unsplash.com/photo-1605218427335-3a4dd8845219?q=80&w=600&auto=format&fit=crop",
	models.CategoryESC:              "https://images.unsplash.com/photo-1555664424-778a69fba372?q=80&w=600&auto=format&fit=crop",
	models.CategoryVideoTransmitter: "https://images.unsplash.com/photo-1581092160562-40aa08e78837?q=80&w=600&auto=format&fit=crop",
	models.CategoryCamera:           "https://images.unsplash.com/photo-1516035069371-29a1b244cc32?q=80&w=600&auto=format&fit=crop",
	models.CategoryFrame:            "https://images.unsplash.com/photo-1506947411487-a56738267384?q=80&w=600&auto=format&fit=crop",
	models.CategoryPropeller:        "https://images.unsplash.com/photo-1522566141315-01dfdc04d805?q=80&w=600&auto=format&fit=crop",
	models.CategoryReceiver:         "https://images.unsplash.com/photo-1563770095-39d468f9a51d?q=80&w=600&auto=format&fit=crop",
}

var brandImages = map[string]string{
	"DJI":       "https://images.unsplash.com/photo-1473968512647-3e447244af8f?q=80&w=600&auto=format&fit=crop",
	"T-Motor":   "https://images.unsplash.com/photo-1579829366248-204fe8413f31?q=80&w=600&auto=format&fit=crop",
	"SpeedyBee": "https://images.unsplash.com/photo-1550751827-4bd374c3f58b?q=80&w=600&auto=format&fit=crop",
	"BetaFPV":   "https://images.unsplash.com/photo-1535581652167-3d6b9324d627?q=80&w=600&auto=format&fit=crop",
	"iFlight":   "https://images.unsplash.com/photo-1508614589041-895b8c9d7ef5?q=80&w=600&auto=format&fit=crop",
}

// renderFallbacks covers only the categories the catalog grid has substitutes for
var renderFallbacks = map[models.Category]string{
	models.CategoryMotor:            categoryImages[models.CategoryMotor],
	models.CategoryFlightController: categoryImages[models.CategoryFlightController],
	models.CategoryESC:              categoryImages[models.CategoryESC],
	models.CategoryVideoTransmitter: categoryImages[models.CategoryVideoTransmitter],
	models.CategoryFrame:            categoryImages[models.CategoryFrame],
}

// ResolveImage picks the primary image for a record. The chain is evaluated in
// order and depends only on its arguments:
//  1. product overrides matched on the name (O3 Air Unit, F722, T-Motor 2207)
//  2. brand + category stack overrides (SpeedyBee FC/ESC)
//  3. brand image
//  4. category image
//  5. placeholder
func ResolveImage(category models.Category, brand, name string) string {
	switch {
	case strings.Contains(name, "O3 Air Unit"):
		return imageO3AirUnit
	case strings.Contains(name, "F722"):
		return imageF722
	case brand == "T-Motor" && strings.Contains(name, "2207"):
		return imageTMotor2207
	}

	if brand == "SpeedyBee" && (category == models.CategoryFlightController || category == models.CategoryESC) {
		return imageSpeedyStack
	}

	if img, ok := brandImages[brand]; ok {
		return img
	}
	if img, ok := categoryImages[category]; ok {
		return img
	}
	return PlaceholderImage
}

// CategoryImage returns the category-level default used to pad galleries
func CategoryImage(category models.Category) string {
	if img, ok := categoryImages[category]; ok {
		return img
	}
	return PlaceholderImage
}

// FallbackImage is substituted at render time when a record's image fails to load
func FallbackImage(category models.Category) string {
	if img, ok := renderFallbacks[category]; ok {
		return img
	}
	return renderFallbackDefault
}

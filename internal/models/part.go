package models

// Category is the fixed enumeration of catalog part categories
type Category string

const (
	CategoryMotor            Category = "Motor"
	CategoryFlightController Category = "Flight Controller"
	CategoryESC              Category = "ESC"
	CategoryVideoTransmitter Category = "Video Transmitter"
	CategoryCamera           Category = "Camera"
	CategoryFrame            Category = "Frame"
	CategoryPropeller        Category = "Propeller"
	CategoryReceiver         Category = "Receiver"
)

// AllCategories returns every valid category in display order
func AllCategories() []Category {
	return []Category{
		CategoryMotor,
		CategoryFlightController,
		CategoryESC,
		CategoryVideoTransmitter,
		CategoryCamera,
		CategoryFrame,
		CategoryPropeller,
		CategoryReceiver,
	}
}

// IsValid reports whether c is one of the known categories
func (c Category) IsValid() bool {
	for _, known := range AllCategories() {
		if c == known {
			return true
		}
	}
	return false
}

// Availability describes where a part can be bought
type Availability string

const (
	AvailabilityBaghdad    Availability = "In Baghdad"
	AvailabilityErbil      Availability = "In Erbil"
	AvailabilityImportOnly Availability = "Import Only"
)

// IsLocal is true for stock held in an Iraqi city
func (a Availability) IsLocal() bool {
	return a == AvailabilityBaghdad || a == AvailabilityErbil
}

// TagRealPhoto marks parts photographed from local stock
const TagRealPhoto = "Real Photo"

// PartRecord is one catalog entry describing a single component SKU.
// Records are generated offline and never mutated at runtime.
type PartRecord struct {
	ID                 string       `json:"id"`
	Category           Category     `json:"category"`
	Brand              string       `json:"brand"`
	Name               string       `json:"name"`
	Specs              Specs        `json:"specs"`
	Compatibility      Specs        `json:"compatibility"`
	IraqAvailability   bool         `json:"iraq_availability"`
	AvailabilityStatus Availability `json:"availability_status"`
	Tags               []string     `json:"tags"`
	Image              string       `json:"image"`
	Gallery            []string     `json:"gallery,omitempty"`
	Description        string       `json:"description"`
}

// PartListResponse is a page of filtered catalog records
type PartListResponse struct {
	Parts      []PartRecord `json:"parts"`
	TotalCount int          `json:"totalCount"`
	Filter     FilterState  `json:"filter"`
}

// CatalogFacets lists the selectable filter values, each prefixed with "All"
type CatalogFacets struct {
	Categories []string `json:"categories"`
	Brands     []string `json:"brands"`
}

// Package detail projects a single part into its spec table and gallery
package detail

import (
	"errors"
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/johnrirwin/fpviraq/internal/models"
)

var (
	ErrNoActivePart         = errors.New("no part is open")
	ErrImageIndexOutOfRange = errors.New("image index out of range")
)

// View tracks the open part and a zero-based cursor into its gallery
type View struct {
	active *models.PartRecord
	cursor int
}

// Open makes part the subject and resets the cursor to the primary image
func (v *View) Open(part models.PartRecord) {
	v.active = &part
	v.cursor = 0
}

func (v *View) Close() {
	v.active = nil
	v.cursor = 0
}

// Active returns the open part, if any
func (v *View) Active() (models.PartRecord, bool) {
	if v.active == nil {
		return models.PartRecord{}, false
	}
	return *v.active, true
}

func (v *View) Cursor() int {
	return v.cursor
}

// Gallery returns the image sequence of the open part
func (v *View) Gallery() []string {
	if v.active == nil {
		return nil
	}
	return Gallery(*v.active)
}

// Select moves the cursor to position i of Gallery()
func (v *View) Select(i int) error {
	if v.active == nil {
		return ErrNoActivePart
	}
	if n := len(Gallery(*v.active)); i < 0 || i >= n {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrImageIndexOutOfRange, i, n)
	}
	v.cursor = i
	return nil
}

// ActiveImage is the image under the cursor
func (v *View) ActiveImage() (string, error) {
	if v.active == nil {
		return "", ErrNoActivePart
	}
	return Gallery(*v.active)[v.cursor], nil
}

// Gallery is [image, ...gallery], or just [image] when gallery is empty
func Gallery(p models.PartRecord) []string {
	out := make([]string, 0, len(p.Gallery)+1)
	out = append(out, p.Image)
	return append(out, p.Gallery...)
}

// SpecRow is one line of the detail spec table
type SpecRow struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Value string `json:"value"`
}

// SpecRows lists specs in insertion order with underscores shown as spaces
func SpecRows(p models.PartRecord) []SpecRow {
	return lo.Map(p.Specs.Keys(), func(key string, _ int) SpecRow {
		v, _ := p.Specs.Get(key)
		return SpecRow{
			Key:   key,
			Label: strings.ReplaceAll(key, "_", " "),
			Value: models.FormatSpecValue(v),
		}
	})
}

// DisplayTags drops the empty sentinel and the photo marker, which renders as a badge
func DisplayTags(p models.PartRecord) []string {
	return lo.Filter(p.Tags, func(tag string, _ int) bool {
		return tag != "" && tag != models.TagRealPhoto
	})
}

func HasRealPhoto(p models.PartRecord) bool {
	return lo.Contains(p.Tags, models.TagRealPhoto)
}

// IsLocal reports stock held in Baghdad or Erbil
func IsLocal(p models.PartRecord) bool {
	return p.AvailabilityStatus.IsLocal()
}

package catalog

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// PartID derives a record id from its distinguishing segments.
// Segments are joined with "_", NFC-normalized and lowercased, then every rune
// outside [a-z0-9] is replaced by "_": ("motor", "T-Motor", "2207", "1700")
// becomes "motor_t_motor_2207_1700".
func PartID(segments ...string) string {
	raw := strings.ToLower(norm.NFC.String(strings.Join(segments, "_")))

	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			continue
		}
		b.WriteByte('_')
	}
	return b.String()
}

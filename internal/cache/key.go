package cache

import (
	"strings"
	"time"
)

// DiscriminatorAll marks a key that covers the whole entity collection.
const DiscriminatorAll = "all"

// Key builds a deterministic cache key of the form
// "<entityName>_<discriminators...>". Identical inputs always produce the
// same key. An empty discriminator list is normalized to "all" so that
// "products" and a filterless product listing share one entry.
func Key(entityName string, discriminators ...string) string {
	if len(discriminators) == 0 {
		return entityName + "_" + DiscriminatorAll
	}
	parts := make([]string, 0, len(discriminators)+1)
	parts = append(parts, entityName)
	for _, d := range discriminators {
		if d == "" {
			d = DiscriminatorAll
		}
		parts = append(parts, d)
	}
	return strings.Join(parts, "_")
}

// DateRangeToken serializes a date range into a stable key discriminator.
func DateRangeToken(from, to time.Time) string {
	return from.Format("20060102") + "-" + to.Format("20060102")
}

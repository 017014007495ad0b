package config

// DuplicateConfig holds settings for duplicate game detection during batch
// conversion.
type DuplicateConfig struct {
	// Suppress skips logs whose final position was seen before.
	Suppress bool

	// ExactMatch also requires the ply counts to match.
	ExactMatch bool

	// MaxCapacity bounds the number of remembered games; 0 is unlimited.
	MaxCapacity int
}

// NewDuplicateConfig creates a DuplicateConfig with default values.
func NewDuplicateConfig() *DuplicateConfig {
	return &DuplicateConfig{}
}

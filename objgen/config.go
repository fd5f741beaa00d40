package objgen

import (
	"math/rand"
)

// Config holds the tunable parameters of a generation session. Zero values
// are replaced by defaults in New; use Options to override.
type Config struct {
	// StringLengthMin and StringLengthMax bound generated string lengths
	// when a specification gives no minLength/maxLength.
	StringLengthMin int
	StringLengthMax int

	// StringChars is the alphabet generated strings draw from.
	StringChars string

	// NumberMin and NumberMax bound generated numbers and integers when
	// a specification gives no bounds.
	NumberMin float64
	NumberMax float64

	// ArrayLengthMin and ArrayLengthMax bound generated array lengths
	// when a specification gives no minItems/maxItems.
	ArrayLengthMin int
	ArrayLengthMax int

	// OptionalPropertyProbability is the chance an optional property or
	// optional property group is included.
	OptionalPropertyProbability float64

	// MinimizeRefProperties suppresses optional *_ref and *_refs
	// properties so generated objects do not dangle references to
	// objects that were never created.
	MinimizeRefProperties bool

	// Rand is the session's random source. When nil, New seeds one from
	// the current time.
	Rand *rand.Rand
}

func defaultConfig() Config {
	return Config{
		StringLengthMin:             5,
		StringLengthMax:             20,
		StringChars:                 "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ",
		NumberMin:                   -1000,
		NumberMax:                   1000,
		ArrayLengthMin:              1,
		ArrayLengthMax:              5,
		OptionalPropertyProbability: 0.5,
		MinimizeRefProperties:       true,
	}
}

// Option adjusts the generator configuration.
type Option func(*Config)

// WithSeed makes the session fully deterministic by deriving its random
// source from seed.
func WithSeed(seed int64) Option {
	return func(c *Config) { c.Rand = rand.New(rand.NewSource(seed)) }
}

// WithRand supplies the random source directly.
func WithRand(r *rand.Rand) Option {
	return func(c *Config) { c.Rand = r }
}

// WithOptionalPropertyProbability sets the inclusion chance for optional
// properties and groups. Values are clamped to [0, 1].
func WithOptionalPropertyProbability(p float64) Option {
	return func(c *Config) {
		if p < 0 {
			p = 0
		}
		if p > 1 {
			p = 1
		}
		c.OptionalPropertyProbability = p
	}
}

// WithMinimizeRefProperties toggles suppression of optional reference
// properties.
func WithMinimizeRefProperties(on bool) Option {
	return func(c *Config) { c.MinimizeRefProperties = on }
}

// WithStringLength sets the default string length bounds.
func WithStringLength(min, max int) Option {
	return func(c *Config) {
		c.StringLengthMin = min
		c.StringLengthMax = max
	}
}

// WithNumberBounds sets the default numeric bounds.
func WithNumberBounds(min, max float64) Option {
	return func(c *Config) {
		c.NumberMin = min
		c.NumberMax = max
	}
}

// WithArrayLength sets the default array length bounds.
func WithArrayLength(min, max int) Option {
	return func(c *Config) {
		c.ArrayLengthMin = min
		c.ArrayLengthMax = max
	}
}

package layout

import "github.com/sgratzl/org.caleydo.view.bicluster/pkg/errors"

// Default force parameters.
const (
	DefaultRepulsion         = 100000.0
	DefaultAttractionFactor  = 100.0
	DefaultBorderForceFactor = 200.0
	DefaultIterationFactor   = 500.0
	DefaultDamping           = 1.0
	DefaultForceCap          = 20.0
	DefaultMinDistance       = 0.01
	DefaultSeed              = uint64(42)
)

// Grid spacing of the initial layout.
const (
	gridOriginX = 200
	gridOriginY = 100
	gridCellW   = 250
	gridCellH   = 180

	// collisionShift displaces the non-privileged node of an overlapping pair.
	collisionShift = 200

	bodyScale    = 1.2
	toolbarScale = 1.5

	// maxExponent keeps the border force finite.
	maxExponent = 700
)

// Config holds the simulation parameters.
type Config struct {
	Repulsion         float64 `json:"repulsion" toml:"repulsion"`
	AttractionFactor  float64 `json:"attraction_factor" toml:"attractionFactor"`
	BorderForceFactor float64 `json:"border_force_factor" toml:"borderForceFactor"`
	IterationFactor   float64 `json:"iteration_factor" toml:"iterationFactor"`
	Damping           float64 `json:"damping" toml:"damping"`
	ForceCap          float64 `json:"force_cap" toml:"forceCap"`
	MinDistance       float64 `json:"min_distance" toml:"minDistance"`
	Seed              uint64  `json:"seed" toml:"seed"`
}

// DefaultConfig returns the standard parameters.
func DefaultConfig() Config {
	return Config{
		Repulsion:         DefaultRepulsion,
		AttractionFactor:  DefaultAttractionFactor,
		BorderForceFactor: DefaultBorderForceFactor,
		IterationFactor:   DefaultIterationFactor,
		Damping:           DefaultDamping,
		ForceCap:          DefaultForceCap,
		MinDistance:       DefaultMinDistance,
		Seed:              DefaultSeed,
	}
}

// SetDefaults fills zero-valued fields.
func (c *Config) SetDefaults() {
	d := DefaultConfig()
	if c.Repulsion == 0 {
		c.Repulsion = d.Repulsion
	}
	if c.AttractionFactor == 0 {
		c.AttractionFactor = d.AttractionFactor
	}
	if c.BorderForceFactor == 0 {
		c.BorderForceFactor = d.BorderForceFactor
	}
	if c.IterationFactor == 0 {
		c.IterationFactor = d.IterationFactor
	}
	if c.Damping == 0 {
		c.Damping = d.Damping
	}
	if c.ForceCap == 0 {
		c.ForceCap = d.ForceCap
	}
	if c.MinDistance == 0 {
		c.MinDistance = d.MinDistance
	}
	if c.Seed == 0 {
		c.Seed = d.Seed
	}
}

// Validate checks the parameters. Damping is limited to (0, 1] so that a
// single step never moves a node further than ForceCap.
func (c Config) Validate() error {
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"repulsion", c.Repulsion},
		{"iterationFactor", c.IterationFactor},
		{"forceCap", c.ForceCap},
		{"minDistance", c.MinDistance},
	} {
		if err := errors.ValidatePositive(f.name, f.v); err != nil {
			return err
		}
	}
	if err := errors.ValidateNonNegative("attractionFactor", c.AttractionFactor); err != nil {
		return err
	}
	if err := errors.ValidateNonNegative("borderForceFactor", c.BorderForceFactor); err != nil {
		return err
	}
	if c.Damping <= 0 || c.Damping > 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "damping must be in (0, 1], got %g", c.Damping)
	}
	return nil
}

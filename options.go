package pointctl

import (
	"fmt"
	"math"

	"github.com/gijs-s/pointctl/explain"
	"github.com/gijs-s/pointctl/index"
)

// NeighborSource selects the space whose spatial index supplies the
// neighborhood of each point. Attribute statistics always read the
// original-space values of the selected neighbor indices.
type NeighborSource int

const (
	// SourceReduced finds neighbors in the 2D/3D reduction (default; this is
	// what the viewer shows, so explanations follow the visible layout).
	SourceReduced NeighborSource = iota

	// SourceOriginal finds neighbors in the original high-dimensional space.
	SourceOriginal
)

func (s NeighborSource) String() string {
	switch s {
	case SourceReduced:
		return "reduced"
	case SourceOriginal:
		return "original"
	default:
		return fmt.Sprintf("Unknown(%d)", int(s))
	}
}

// DefaultMaxNeighbors is the default neighborhood cap M.
const DefaultMaxNeighbors = 250

// Options represents the configuration surface of the engine.
type Options struct {
	// Algorithm selects the spatial index variant.
	Algorithm index.Kind

	// Radius is the neighborhood radius as a fraction of the projection
	// width, in (0,1]. Exactly one of Radius and K must be set.
	Radius float32

	// K is the neighborhood size for k-NN mode. Exactly one of Radius and K
	// must be set. The HNSW variant supports only this mode.
	K int

	// MaxNeighbors caps every raw neighborhood to at most M samples.
	MaxNeighbors int

	// ConfidenceThreshold, when positive, blanks annotations below it.
	ConfidenceThreshold float32

	// Theta is the variance fraction the dimensionality mechanism must
	// cover, in (0,1].
	Theta float32

	// Workers is the worker pool size; 0 selects hardware parallelism.
	Workers int

	// Seed drives neighborhood sampling and the HNSW build. A fixed seed
	// with identical inputs reproduces identical annotations.
	Seed int64

	// Source selects the neighbor-finding space.
	Source NeighborSource

	// CacheDistances enables the run-scoped pairwise distance cache.
	CacheDistances bool

	// AttributeNames are the original-space column names, carried through
	// to the annotated output when known.
	AttributeNames []string

	// Logger receives structured progress and timing logs. Nil means no
	// logging.
	Logger *Logger
}

// DefaultOptions contains the default engine configuration.
var DefaultOptions = Options{
	Algorithm:    index.KindRTree,
	MaxNeighbors: DefaultMaxNeighbors,
	Theta:        explain.DefaultTheta,
	Source:       SourceReduced,
}

func (o *Options) validate() error {
	hasRadius := o.Radius != 0
	hasK := o.K != 0

	switch {
	case hasRadius == hasK:
		return fmt.Errorf("%w: exactly one of radius and k must be set", ErrInvalidConfig)
	case hasRadius && (math.IsNaN(float64(o.Radius)) || o.Radius < 0 || o.Radius > 1):
		return fmt.Errorf("%w: radius %v outside (0,1]", ErrInvalidConfig, o.Radius)
	case hasK && o.K < 0:
		return fmt.Errorf("%w: k must be positive, got %d", ErrInvalidConfig, o.K)
	}

	if o.Algorithm == index.KindHNSW && hasRadius {
		return fmt.Errorf("%w: hnsw supports only k-NN neighborhoods", ErrInvalidConfig)
	}

	if o.MaxNeighbors <= 0 {
		return fmt.Errorf("%w: max neighbors must be positive, got %d", ErrInvalidConfig, o.MaxNeighbors)
	}

	if t := o.ConfidenceThreshold; math.IsNaN(float64(t)) || t < 0 || t > 1 {
		return fmt.Errorf("%w: confidence threshold %v outside [0,1]", ErrInvalidConfig, o.ConfidenceThreshold)
	}

	if t := o.Theta; math.IsNaN(float64(t)) || t <= 0 || t > 1 {
		return fmt.Errorf("%w: theta %v outside (0,1]", ErrInvalidConfig, o.Theta)
	}

	switch o.Algorithm {
	case index.KindBruteForce, index.KindRTree, index.KindHNSW:
	default:
		return fmt.Errorf("%w: unknown algorithm %v", ErrInvalidConfig, o.Algorithm)
	}

	switch o.Source {
	case SourceReduced, SourceOriginal:
	default:
		return fmt.Errorf("%w: unknown neighbor source %v", ErrInvalidConfig, o.Source)
	}

	return nil
}

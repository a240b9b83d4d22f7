package pointctl

import (
	"context"
	"fmt"
	"time"

	"github.com/gijs-s/pointctl/cache"
	"github.com/gijs-s/pointctl/executor"
	"github.com/gijs-s/pointctl/explain"
	"github.com/gijs-s/pointctl/index"
	"github.com/gijs-s/pointctl/index/brute"
	"github.com/gijs-s/pointctl/index/hnsw"
	"github.com/gijs-s/pointctl/index/rtree"
	"github.com/gijs-s/pointctl/pointset"
)

// Engine annotates every point of a reduced dataset with an explanation of
// its local neighborhood. Construction validates the configuration and the
// two point sets and builds both spatial indexes; the engine is then
// read-only and a single Annotate call runs the full computation.
type Engine struct {
	original *pointset.PointSet
	reduced  *pointset.PointSet

	// sourceIdx answers neighborhood queries in the configured source
	// space; otherIdx covers the remaining space with the brute baseline.
	sourceIdx index.Index
	otherIdx  index.Index

	bounder   *index.Bounder
	attribute *explain.AttributeMechanism
	pool      *executor.Pool

	opts Options
	log  *Logger

	names []string
}

// New creates an engine over the two aligned point sets. All input
// validation errors, configuration errors and pool-construction failures
// surface here; Annotate can only fail on cancellation or an internal
// invariant violation.
func New(original, reduced *pointset.PointSet, optFns ...func(o *Options)) (*Engine, error) {
	opts := DefaultOptions
	for _, fn := range optFns {
		fn(&opts)
	}

	if err := opts.validate(); err != nil {
		return nil, err
	}

	if original == nil || original.Len() == 0 || reduced == nil || reduced.Len() == 0 {
		return nil, pointset.ErrEmpty
	}

	// Dimensionality is rejected before any index build.
	if d := reduced.Dim(); d != 2 && d != 3 {
		return nil, &ErrUnsupportedDim{Dim: d}
	}
	if original.Len() != reduced.Len() {
		return nil, &ErrPointCountMismatch{Original: original.Len(), Reduced: reduced.Len()}
	}

	pool, err := executor.New(opts.Workers)
	if err != nil {
		return nil, err
	}

	log := opts.Logger
	if log == nil {
		log = NoopLogger()
	}
	log = log.WithRun(original.Len(), original.Dim(), reduced.Dim())

	e := &Engine{
		original: original,
		reduced:  reduced,
		bounder:  index.NewBounder(opts.MaxNeighbors, opts.Seed),
		pool:     pool,
		opts:     opts,
		log:      log,
	}

	// The configured algorithm indexes the source space; the other space
	// keeps the brute baseline.
	sourcePS, otherPS := reduced, original
	if opts.Source == SourceOriginal {
		sourcePS, otherPS = original, reduced
	}

	start := time.Now()
	if e.sourceIdx, err = e.buildIndex(opts.Algorithm, sourcePS); err != nil {
		return nil, err
	}
	if e.otherIdx, err = e.buildIndex(index.KindBruteForce, otherPS); err != nil {
		return nil, err
	}
	log.Debug("indexes built",
		"algorithm", opts.Algorithm.String(),
		"source", opts.Source.String(),
		"duration", time.Since(start),
	)

	e.attribute = explain.NewAttributeMechanism(original)
	e.names = opts.AttributeNames

	return e, nil
}

func (e *Engine) buildIndex(kind index.Kind, ps *pointset.PointSet) (index.Index, error) {
	switch kind {
	case index.KindBruteForce:
		// Every index gets its own cache: the key is the unordered index
		// pair, so a cache shared across spaces would serve one space's
		// distance for the other.
		var distances *cache.Distances
		if e.opts.CacheDistances {
			var err error
			distances, err = cache.New(cache.DefaultSize)
			if err != nil {
				return nil, err
			}
		}
		return brute.New(ps, func(o *brute.Options) {
			o.Cache = distances
		})
	case index.KindRTree:
		return rtree.New(ps)
	case index.KindHNSW:
		return hnsw.New(ps, func(o *hnsw.Options) {
			o.Seed = e.opts.Seed
		})
	default:
		return nil, fmt.Errorf("%w: unknown algorithm %v", ErrInvalidConfig, kind)
	}
}

// Progress returns the number of annotated points and the run total, for
// external polling while Annotate blocks.
func (e *Engine) Progress() (done, total int64) {
	return e.pool.Progress()
}

// Annotate computes one annotation per point, in input order, regardless of
// worker count or completion order.
func (e *Engine) Annotate(ctx context.Context) (*explain.AnnotatedPointSet, error) {
	annotations := make([]explain.Annotation, e.reduced.Len())

	start := time.Now()
	err := e.pool.Run(ctx, e.reduced.Len(), func(i uint32) error {
		nh, err := e.Neighborhood(i)
		if err != nil {
			return err
		}
		annotations[i] = e.attribute.Explain(i, nh)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if t := e.opts.ConfidenceThreshold; t > 0 {
		aps := &explain.AnnotatedPointSet{Annotations: annotations}
		annotations = aps.Filter(t)
	}

	e.log.Info("annotation completed",
		"workers", e.pool.Workers(),
		"duration", time.Since(start),
	)

	return &explain.AnnotatedPointSet{
		Points:         e.reduced,
		Annotations:    annotations,
		AttributeNames: e.names,
	}, nil
}

// Orientations estimates a local orientation per point from the same
// bounded neighborhoods the attribute mechanism uses.
func (e *Engine) Orientations(ctx context.Context) ([]explain.Orientation, error) {
	mech := explain.NewOrientationMechanism(e.reduced)
	orientations := make([]explain.Orientation, e.reduced.Len())

	err := e.pool.Run(ctx, e.reduced.Len(), func(i uint32) error {
		nh, err := e.Neighborhood(i)
		if err != nil {
			return err
		}
		orientations[i] = mech.Explain(i, nh)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return orientations, nil
}

// Preservation scores, per point, how much of its source-space neighborhood
// survives in the other space: the fraction of its neighbors that also rank
// among the equally many nearest neighbors there. 1 means the neighborhood
// is fully preserved by the reduction, 0 that none of it is. Points with an
// empty neighborhood score 0.
func (e *Engine) Preservation(ctx context.Context) ([]float32, error) {
	scores := make([]float32, e.reduced.Len())

	err := e.pool.Run(ctx, e.reduced.Len(), func(i uint32) error {
		nh, err := e.Neighborhood(i)
		if err != nil {
			return err
		}
		if len(nh) == 0 {
			return nil
		}

		other, err := e.otherIdx.QueryKNN(i, len(nh))
		if err != nil {
			return err
		}

		seen := make(map[uint32]struct{}, len(other))
		for _, nb := range other {
			seen[nb.Index] = struct{}{}
		}

		hits := 0
		for _, nb := range nh {
			if _, ok := seen[nb.Index]; ok {
				hits++
			}
		}
		scores[i] = float32(hits) / float32(len(nh))
		return nil
	})
	if err != nil {
		return nil, err
	}

	return scores, nil
}

// Dimensionalities estimates the local intrinsic dimensionality per point
// from the original-space values of the same bounded neighborhoods the
// attribute mechanism uses.
func (e *Engine) Dimensionalities(ctx context.Context) ([]explain.Dimensionality, error) {
	mech := explain.NewDimensionalityMechanism(e.original, e.opts.Theta)
	dims := make([]explain.Dimensionality, e.reduced.Len())

	err := e.pool.Run(ctx, e.reduced.Len(), func(i uint32) error {
		nh, err := e.Neighborhood(i)
		if err != nil {
			return err
		}
		dims[i] = mech.Explain(i, nh)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return dims, nil
}

// Neighborhood returns the bounded neighborhood of point i in the
// configured source space.
func (e *Engine) Neighborhood(i uint32) (index.Neighborhood, error) {
	var (
		nh  index.Neighborhood
		err error
	)

	if e.opts.Radius > 0 {
		rq, ok := e.sourceIdx.(index.RadiusQuerier)
		if !ok {
			// Ruled out at validation; reaching it means a logic defect.
			return nil, &ErrInvalidState{Reason: fmt.Sprintf("%v index cannot answer radius queries", e.sourceIdx.Kind())}
		}
		r := e.opts.Radius * e.sourcePointSet().ProjectionWidth()
		nh, err = rq.QueryRadius(i, r)
	} else {
		nh, err = e.sourceIdx.QueryKNN(i, e.opts.K)
	}
	if err != nil {
		return nil, err
	}

	nh = e.bounder.Bound(i, nh)

	if len(nh) > e.opts.MaxNeighbors {
		return nil, &ErrInvalidState{Reason: fmt.Sprintf("neighborhood of point %d exceeds cap after bounding: %d > %d", i, len(nh), e.opts.MaxNeighbors)}
	}
	for _, nb := range nh {
		if int(nb.Index) >= e.original.Len() {
			return nil, &ErrInvalidState{Reason: fmt.Sprintf("index returned out-of-range neighbor %d", nb.Index)}
		}
	}

	return nh, nil
}

func (e *Engine) sourcePointSet() *pointset.PointSet {
	if e.opts.Source == SourceOriginal {
		return e.original
	}
	return e.reduced
}

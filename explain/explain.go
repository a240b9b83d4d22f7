// Package explain computes per-point explanations of a dimensionality
// reduction: which original attribute dominates a point's local
// neighborhood, and how confidently.
package explain

import (
	"strconv"

	"github.com/gijs-s/pointctl/pointset"
)

// CategoryNone marks points with no meaningful category: an empty or
// single-point neighborhood, or a tie between top contributions.
const CategoryNone int32 = -1

// Annotation is the explanation for one point: the attribute judged most
// responsible for its local distinctiveness and a confidence in [0,1].
type Annotation struct {
	Category   int32
	Confidence float32
}

// None reports whether the annotation carries no category.
func (a Annotation) None() bool { return a.Category == CategoryNone }

// CategoryName renders the category using the attribute names when known.
func (a Annotation) CategoryName(names []string) string {
	if a.None() {
		return "none"
	}
	if int(a.Category) < len(names) {
		return names[a.Category]
	}
	return strconv.Itoa(int(a.Category))
}

// AnnotatedPointSet pairs the reduced-space points with their annotations,
// index-aligned to the original input order.
type AnnotatedPointSet struct {
	Points      *pointset.PointSet
	Annotations []Annotation

	// AttributeNames are the original-space column names, when known.
	AttributeNames []string
}

// Filter returns a copy of the annotations with every entry below the
// confidence threshold replaced by a none annotation.
func (a *AnnotatedPointSet) Filter(threshold float32) []Annotation {
	out := make([]Annotation, len(a.Annotations))
	for i, ann := range a.Annotations {
		if ann.Confidence < threshold {
			out[i] = Annotation{Category: CategoryNone}
		} else {
			out[i] = ann
		}
	}
	return out
}

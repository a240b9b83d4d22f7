// Package pointctl is the explanation engine for dimensionality-reduced
// point clouds. Given the original high-dimensional points and their 2D/3D
// reduction, it annotates every point with the attribute most responsible
// for its local neighborhood and a confidence for that judgement.
//
// Basic usage:
//
//	original, _ := pointset.New(originalRows)
//	reduced, _ := pointset.New(reducedRows)
//
//	engine, err := pointctl.New(original, reduced, func(o *pointctl.Options) {
//		o.Algorithm = index.KindRTree
//		o.Radius = 0.1
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	annotated, err := engine.Annotate(context.Background())
//
// The engine builds one spatial index per space, fans per-point work across
// a worker pool and returns the annotations in input order.
package pointctl

package bvh

import (
	"context"

	"github.com/golang/geo/r3"

	"go.viam.com/bvh/spatialmath"
	"go.viam.com/bvh/utils"
)

// batchCheckInterval is how many queries a worker runs between context checks.
const batchCheckInterval = 256

// Hit is the result of one ray of a batch.
type Hit[T any] struct {
	Object   T
	Distance float64
	OK       bool
}

// IntersectAll runs Intersect for every ray, spreading the rays over parallel workers. The
// i-th hit belongs to the i-th ray.
func IntersectAll[T any](ctx context.Context, index Index[T], rays []spatialmath.Ray, tMin float64) ([]Hit[T], error) {
	hits := make([]Hit[T], len(rays))
	err := utils.ChunkParallel(ctx, len(rays), func(ctx context.Context, from, to int) error {
		for i := from; i < to; i++ {
			if i%batchCheckInterval == 0 && ctx.Err() != nil {
				return ctx.Err()
			}
			obj, t, ok := index.Intersect(rays[i], tMin)
			hits[i] = Hit[T]{Object: obj, Distance: t, OK: ok}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return hits, nil
}

// NearestAll runs NearestNeighbour for every point on parallel workers. The i-th neighbour
// belongs to the i-th point; ok[i] is false only for an empty index.
func NearestAll[T any](ctx context.Context, index Index[T], points []r3.Vector) ([]Neighbour[T], []bool, error) {
	found := make([]Neighbour[T], len(points))
	ok := make([]bool, len(points))
	err := utils.ChunkParallel(ctx, len(points), func(ctx context.Context, from, to int) error {
		for i := from; i < to; i++ {
			if i%batchCheckInterval == 0 && ctx.Err() != nil {
				return ctx.Err()
			}
			found[i], ok[i] = index.NearestNeighbour(points[i])
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return found, ok, nil
}

package services

import (
	"math"
	"sort"

	"fieldwork/internal/core/domain/model/job"
)

// RouteOrderer is a domain service that sorts a batch of jobs into an
// efficient visiting order. Downstream the order is materialized as sequence
// numbers 1..N, which the completion state machine then enforces.
//
// Algorithm:
//   - jobs are partitioned by coordinate presence;
//   - if no job has coordinates, the whole batch is sorted by zip code
//     (stable and deterministic);
//   - otherwise a greedy nearest-neighbor tour is built over the
//     coordinate-bearing jobs, starting from the first one, with ties broken
//     by input order (first match wins);
//   - jobs without coordinates are appended at the end, sorted by zip code.
//
// The tour construction is O(n²) in the coordinate-bearing count, which is
// fine for import batches of tens to low hundreds.
type RouteOrderer struct{}

// NewRouteOrderer creates a new RouteOrderer instance.
func NewRouteOrderer() RouteOrderer {
	return RouteOrderer{}
}

// Order returns the jobs in visiting order. The input slice is not modified.
// Jobs must be properly constructed; coordinate-bearing jobs must carry
// valid points.
func (o RouteOrderer) Order(jobs []*job.Job) ([]*job.Job, error) {
	withCoords := make([]*job.Job, 0, len(jobs))
	withoutCoords := make([]*job.Job, 0)

	for _, j := range jobs {
		if err := j.Validate(); err != nil {
			return nil, err
		}
		if j.Coordinates() != nil {
			withCoords = append(withCoords, j)
		} else {
			withoutCoords = append(withoutCoords, j)
		}
	}

	sortByZipCode(withoutCoords)

	if len(withCoords) == 0 {
		return withoutCoords, nil
	}

	tour, err := o.nearestNeighborTour(withCoords)
	if err != nil {
		return nil, err
	}

	return append(tour, withoutCoords...), nil
}

// nearestNeighborTour builds a greedy tour: starting from the first job,
// repeatedly append the closest unvisited job and make it the new current.
// A strictly-smaller comparison keeps the first match on equal distances,
// so the result depends only on input order, never on map iteration.
func (o RouteOrderer) nearestNeighborTour(jobs []*job.Job) ([]*job.Job, error) {
	tour := make([]*job.Job, 0, len(jobs))
	remaining := make([]*job.Job, len(jobs))
	copy(remaining, jobs)

	current := remaining[0]
	tour = append(tour, current)
	remaining = remaining[1:]

	for len(remaining) > 0 {
		bestIdx := -1
		bestDistance := math.MaxFloat64

		for i, candidate := range remaining {
			d, err := current.Coordinates().DistanceTo(*candidate.Coordinates())
			if err != nil {
				return nil, err
			}
			if d < bestDistance {
				bestDistance = d
				bestIdx = i
			}
		}

		current = remaining[bestIdx]
		tour = append(tour, current)
		remaining = append(remaining[:bestIdx], remaining[bestIdx+1:]...)
	}

	return tour, nil
}

func sortByZipCode(jobs []*job.Job) {
	sort.SliceStable(jobs, func(i, k int) bool {
		return jobs[i].Address().ZipCode() < jobs[k].Address().ZipCode()
	})
}

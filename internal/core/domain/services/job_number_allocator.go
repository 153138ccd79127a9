package services

import (
	"time"

	"fieldwork/internal/core/domain/model/job"
	"fieldwork/internal/pkg/errs"
)

// JobNumberAllocator is a domain service that hands out sequential job
// numbers. The caller fetches the current maximum from storage and passes it
// in; a nil maximum means the sequence starts from the beginning. A unique
// constraint on the stored number is the final arbiter under concurrency.
type JobNumberAllocator struct{}

// NewJobNumberAllocator creates a new JobNumberAllocator instance.
func NewJobNumberAllocator() JobNumberAllocator {
	return JobNumberAllocator{}
}

// Next returns the number following maximum, or the first number of the
// sequence when maximum is nil.
func (a JobNumberAllocator) Next(maximum *job.Number) (job.Number, error) {
	next := job.NumberMin
	if maximum != nil {
		if err := maximum.Validate(); err != nil {
			return job.Number{}, err
		}
		next = maximum.Int() + 1
	}

	return job.NewNumber(next)
}

// Batch returns count consecutive numbers following maximum. The caller
// persists them in one transaction so the block stays gapless.
func (a JobNumberAllocator) Batch(maximum *job.Number, count int) ([]job.Number, error) {
	if count <= 0 {
		return nil, errs.NewValueIsInvalidError("count")
	}

	first, err := a.Next(maximum)
	if err != nil {
		return nil, err
	}

	numbers := make([]job.Number, 0, count)
	for i := 0; i < count; i++ {
		number, err := job.NewNumber(first.Int() + i)
		if err != nil {
			return nil, err
		}
		numbers = append(numbers, number)
	}

	return numbers, nil
}

// Fallback derives a number from the clock for when storage cannot supply
// the current maximum. Collisions are possible and are caught by the unique
// constraint on insert.
func (a JobNumberAllocator) Fallback(now time.Time) (job.Number, error) {
	value := int(now.Unix() % (job.NumberMax + 1))
	if value < job.NumberMin {
		value = job.NumberMin
	}

	return job.NewNumber(value)
}

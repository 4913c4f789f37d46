package projection

import "time"

// Metadata captures persistence timestamps shared by projections.
type Metadata struct {
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Projection pairs an aggregate with its persistence metadata and the values
// derived from it at AsOf. Derived values depend on the clock, so they are
// computed once when the projection is built and not again by readers.
type Projection[T any, D any] struct {
	Entity   T
	Metadata Metadata
	Derived  D
	AsOf     time.Time
}

// New builds a projection, running derive against asOf.
func New[T any, D any](entity T, metadata Metadata, asOf time.Time, derive func(T, time.Time) D) *Projection[T, D] {
	p := &Projection[T, D]{Entity: entity, Metadata: metadata, AsOf: asOf}
	if derive != nil {
		p.Derived = derive(entity, asOf)
	}
	return p
}

package billing_config

import (
	"sort"

	"github.com/revloop/revloop/internal/utils"
)

type point[T any] struct {
	month utils.Month
	value T
}

// Timeline is a sparse sequence of explicit (month, value) points for one
// attribute track. Resolution finds the latest point at or before the target
// month; the sparse trail between points is what makes an override stick
// until a strictly later one replaces it.
type Timeline[T any] struct {
	points []point[T]
}

// Set adds or replaces the explicit value for a month.
func (t *Timeline[T]) Set(month utils.Month, value T) {
	idx := sort.Search(len(t.points), func(i int) bool {
		return !t.points[i].month.Before(month)
	})
	if idx < len(t.points) && t.points[idx].month == month {
		t.points[idx].value = value
		return
	}
	t.points = append(t.points, point[T]{})
	copy(t.points[idx+1:], t.points[idx:])
	t.points[idx] = point[T]{month: month, value: value}
}

// Resolve returns the effective value for the month: the explicit value when
// one exists for exactly that month, otherwise the value of the latest
// earlier point, otherwise the given default.
func (t *Timeline[T]) Resolve(month utils.Month, def T) Resolved[T] {
	// index of the first point strictly after month
	idx := sort.Search(len(t.points), func(i int) bool {
		return t.points[i].month.After(month)
	})
	if idx == 0 {
		return Resolved[T]{Value: def, Source: SourceDefault}
	}
	p := t.points[idx-1]
	source := SourceInherited
	if p.month == month {
		source = SourceExplicit
	}
	return Resolved[T]{Value: p.value, Source: source, SourceMonth: p.month}
}

// Len returns the number of explicit points.
func (t *Timeline[T]) Len() int {
	return len(t.points)
}

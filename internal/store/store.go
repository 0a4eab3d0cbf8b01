// Package store keeps the resource collections. A Store is an ordered,
// id-keyed collection of one record type with in-memory and gorm backends.
package store

import (
	"context"
	"errors"
	"strings"
	"time"
)

var (
	// ErrNotFound is returned when no record has the requested id.
	ErrNotFound = errors.New("record not found")
	// ErrConflict is returned when a write violates a uniqueness rule of the backend.
	ErrConflict = errors.New("record conflicts with an existing record")
	// ErrUnavailable wraps backend failures such as a lost database connection.
	ErrUnavailable = errors.New("store unavailable")
)

// Record is implemented by the pointer types kept in a Store.
type Record[T any] interface {
	GetID() string
	AssignID(id string)
	MarkCreated(at time.Time)
	MarkUpdated(at time.Time)
	// Attr returns the value of a named column, used for filtering and ordering.
	Attr(column string) string
	Clone() T
}

// Store is the contract shared by every backend.
type Store[T Record[T]] interface {
	// Insert assigns a fresh id, stamps creation time and appends rec.
	Insert(ctx context.Context, rec T) (string, error)
	Get(ctx context.Context, id string) (T, error)
	// List returns the records matching every filter, in insertion order unless
	// the query asks for an ordering.
	List(ctx context.Context, q Query) ([]T, error)
	// Update applies mutate to the record with id and commits it only when
	// mutate returns nil.
	Update(ctx context.Context, id string, mutate func(T) error) (T, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}

// Match selects how a filter compares values.
type Match int

const (
	// Contains is a case-insensitive substring match.
	Contains Match = iota
	// EqualFold is a case-insensitive equality match, used for enum columns.
	EqualFold
	// Exact is a case-sensitive equality match.
	Exact
)

// Filter restricts a listing to records whose column matches Value.
// A filter with an empty Value is ignored.
type Filter struct {
	Column string
	Value  string
	Match  Match
}

// Order sorts a listing by a column.
type Order struct {
	Column string
	Desc   bool
}

// Query combines filters and orderings.
type Query struct {
	Filters []Filter
	Order   []Order
}

// Where appends a filter and returns the query for chaining.
func (q Query) Where(column, value string, match Match) Query {
	q.Filters = append(q.Filters, Filter{Column: column, Value: value, Match: match})
	return q
}

// OrderBy appends an ordering and returns the query for chaining.
func (q Query) OrderBy(column string, desc bool) Query {
	q.Order = append(q.Order, Order{Column: column, Desc: desc})
	return q
}

func (f Filter) matches(actual string) bool {
	switch f.Match {
	case Contains:
		return strings.Contains(strings.ToLower(actual), strings.ToLower(f.Value))
	case EqualFold:
		return strings.EqualFold(actual, f.Value)
	default:
		return actual == f.Value
	}
}

// Option configures a backend.
type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock overrides the clock used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

func buildOptions(opts []Option) options {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

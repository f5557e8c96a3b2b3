package registry

import (
	"fmt"

	"github.com/AntonStoeckl/library-records/core"
)

// Entity is what a Registry can store: a value with an identity-based equality and a deep copy.
type Entity[T any] interface {
	Equal(other T) bool
	Clone() T
}

// StudentRegistry stores students, unique by email.
type StudentRegistry = Registry[core.Student]

// BookRegistry stores books, unique by title and author.
type BookRegistry = Registry[core.Book]

// Registry is a fixed-capacity ordered collection of unique entities.
type Registry[T Entity[T]] struct {
	kind    string
	entries []T
	size    int
}

// New creates an empty Registry with the given capacity.
// The kind is used as prefix in error messages, e.g. "student".
func New[T Entity[T]](kind string, capacity int) (*Registry[T], error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("%s registry: %w: capacity must be positive, got %d", kind, ErrInvalidArgument, capacity)
	}

	return &Registry[T]{
		kind:    kind,
		entries: make([]T, capacity),
	}, nil
}

// NewStudentRegistry creates an empty StudentRegistry.
func NewStudentRegistry(capacity int) (*StudentRegistry, error) {
	return New[core.Student]("student", capacity)
}

// NewBookRegistry creates an empty BookRegistry.
func NewBookRegistry(capacity int) (*BookRegistry, error) {
	return New[core.Book]("book", capacity)
}

// Insert stores a copy of entity at the end of the collection.
func (r *Registry[T]) Insert(entity *T) error {
	if entity == nil {
		return r.errorf(ErrInvalidArgument, "cannot insert nil")
	}

	if r.indexOf(*entity) >= 0 {
		return r.errorf(ErrDuplicateEntry, "%v", *entity)
	}

	if r.size == len(r.entries) {
		return r.errorf(ErrCapacityExceeded, "all %d slots are taken", len(r.entries))
	}

	r.entries[r.size] = (*entity).Clone()
	r.size++

	return nil
}

// Search returns a copy of the first stored entity equal to entity, or nil if there is none.
func (r *Registry[T]) Search(entity *T) (*T, error) {
	if entity == nil {
		return nil, r.errorf(ErrInvalidArgument, "cannot search nil")
	}

	i := r.indexOf(*entity)
	if i < 0 {
		return nil, nil //nolint:nilnil
	}

	found := r.entries[i].Clone()

	return &found, nil
}

// Delete removes the stored entity equal to entity and closes the gap.
func (r *Registry[T]) Delete(entity *T) error {
	if entity == nil {
		return r.errorf(ErrInvalidArgument, "cannot delete nil")
	}

	i := r.indexOf(*entity)
	if i < 0 {
		return r.errorf(ErrNotFound, "%v", *entity)
	}

	r.removeAt(i)

	return nil
}

// List returns copies of all stored entities in insertion order.
// The result is never nil.
func (r *Registry[T]) List() []T {
	return r.filter(func(T) bool { return true })
}

// Capacity returns the maximum number of entities the registry can hold.
func (r *Registry[T]) Capacity() int {
	return len(r.entries)
}

// Size returns the number of stored entities.
func (r *Registry[T]) Size() int {
	return r.size
}

func (r *Registry[T]) indexOf(entity T) int {
	for i := 0; i < r.size; i++ {
		if r.entries[i].Equal(entity) {
			return i
		}
	}

	return -1
}

func (r *Registry[T]) removeAt(i int) {
	copy(r.entries[i:r.size], r.entries[i+1:r.size])

	var zero T
	r.entries[r.size-1] = zero
	r.size--
}

// filter returns compact copies of the stored entities matching keep, in scan order.
func (r *Registry[T]) filter(keep func(T) bool) []T {
	result := make([]T, 0, r.size)

	for _, entry := range r.entries[:r.size] {
		if keep(entry) {
			result = append(result, entry.Clone())
		}
	}

	return result
}

func (r *Registry[T]) errorf(sentinel error, format string, args ...any) error {
	return fmt.Errorf("%s registry: %w: %s", r.kind, sentinel, fmt.Sprintf(format, args...))
}

package repository

import (
	"context"
	"errors"

	"github.com/ruslano69/cgm-backoffice/pkg/adapters"
	"github.com/ruslano69/cgm-backoffice/pkg/entities"
)

// Set holds one repository per registered entity, all sharing a Provider.
type Set struct {
	repos map[string]*Repository
	order []string
}

// NewSet builds the repositories of every registered entity.
func NewSet(p adapters.Provider, opts ...Option) *Set {
	s := &Set{repos: make(map[string]*Repository)}
	for _, e := range entities.All() {
		s.repos[e.Name] = New(p, e, opts...)
		s.order = append(s.order, e.Name)
	}
	return s
}

// Get returns the repository of the entity called name (case-insensitive).
func (s *Set) Get(name string) (*Repository, error) {
	e, err := entities.Lookup(name)
	if err != nil {
		return nil, err
	}
	r, ok := s.repos[e.Name]
	if !ok {
		return nil, entities.ErrUnknownEntity
	}
	return r, nil
}

// All returns the repositories sorted by entity name.
func (s *Set) All() []*Repository {
	out := make([]*Repository, len(s.order))
	for i, name := range s.order {
		out[i] = s.repos[name]
	}
	return out
}

// CreateTables creates every missing table. It keeps going after a failure.
func (s *Set) CreateTables(ctx context.Context) error {
	var errs []error
	for _, r := range s.All() {
		if err := r.CreateTable(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Package query is the structured search engine over the joined topic
// inventory.
package query

import (
	"github.com/kailas-cloud/topiclens/internal/domain"
	"github.com/kailas-cloud/topiclens/internal/domain/record"
)

// Service filters the joined dataset and serves the plain listing
// operations.
type Service struct {
	inventory Inventory
}

// New creates a query service.
func New(inventory Inventory) *Service {
	return &Service{inventory: inventory}
}

// Search returns the joined rows matching every set filter predicate. Rows
// without a consumer side are excluded: search answers "who consumes what",
// while the listing operations still expose unconsumed topics. Row order
// follows the underlying table.
func (s *Service) Search(filter record.Filter) ([]record.Joined, error) {
	if s.inventory == nil {
		return nil, domain.ErrNotConfigured
	}

	rows := s.inventory.Joined()
	matched := make([]record.Joined, 0, len(rows))
	for _, r := range rows {
		if r.ConsumerApp == "" {
			continue
		}
		if filter.Matches(r) {
			matched = append(matched, r)
		}
	}
	return matched, nil
}

// Owners lists the distinct topic owners.
func (s *Service) Owners() ([]string, error) {
	if s.inventory == nil {
		return nil, domain.ErrNotConfigured
	}
	return s.inventory.Owners(), nil
}

// Topics lists the topics produced by owner.
func (s *Service) Topics(owner string) ([]string, error) {
	if s.inventory == nil {
		return nil, domain.ErrNotConfigured
	}
	return s.inventory.Topics(owner), nil
}

// Consumers lists the distinct consumer apps.
func (s *Service) Consumers() ([]string, error) {
	if s.inventory == nil {
		return nil, domain.ErrNotConfigured
	}
	return s.inventory.Consumers(), nil
}

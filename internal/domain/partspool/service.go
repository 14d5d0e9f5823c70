package partspool

import (
	"context"
	"fmt"
)

// Service exposes pool configuration. Every call rebuilds the resolver from
// the repository so configuration edits are visible immediately.
type Service struct {
	repo Repository
}

// NewService creates a new parts pool service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Resolver loads the current group configuration.
func (s *Service) Resolver(ctx context.Context) (*Resolver, error) {
	groups, err := s.repo.ListGroups(ctx)
	if err != nil {
		return nil, fmt.Errorf("list parts pool groups: %w", err)
	}
	return NewResolver(ctx, groups)
}

// ListGroups returns all configured groups.
func (s *Service) ListGroups(ctx context.Context) ([]Group, error) {
	groups, err := s.repo.ListGroups(ctx)
	if err != nil {
		return nil, fmt.Errorf("list parts pool groups: %w", err)
	}
	return groups, nil
}

// ModelOrder returns the display sort order of every known model.
func (s *Service) ModelOrder(ctx context.Context) (map[string]int, error) {
	models, err := s.repo.ListModels(ctx)
	if err != nil {
		return nil, fmt.Errorf("list device models: %w", err)
	}
	order := make(map[string]int, len(models))
	for _, m := range models {
		order[m.Code] = m.SortOrder
	}
	return order, nil
}

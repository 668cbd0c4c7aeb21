package truth

import (
	"context"
	"fmt"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=truth
type Repository interface {
	Load(ctx context.Context) (*Store, error)
	Save(ctx context.Context, s *Store) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Current returns the persisted truth store.
func (s *Service) Current(ctx context.Context) (*Store, error) {
	return s.repo.Load(ctx)
}

// Preview merges updates into the persisted truth without saving.
func (s *Service) Preview(ctx context.Context, updates Records) (*Store, error) {
	current, err := s.repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load truth: %w", err)
	}

	merged, err := Merge(current, updates)
	if err != nil {
		return nil, fmt.Errorf("merge truth: %w", err)
	}

	return merged, nil
}

func (s *Service) Save(ctx context.Context, store *Store) error {
	return s.repo.Save(ctx, store)
}

// Update merges updates into the persisted truth and saves the result.
// Nothing is written when updates is empty.
func (s *Service) Update(ctx context.Context, updates Records) (*Store, error) {
	merged, err := s.Preview(ctx, updates)
	if err != nil {
		return nil, err
	}

	if len(updates) == 0 {
		return merged, nil
	}

	if err := s.repo.Save(ctx, merged); err != nil {
		return nil, fmt.Errorf("save truth: %w", err)
	}

	return merged, nil
}

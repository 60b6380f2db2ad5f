package seeder

import (
	"context"
	"fmt"

	"github.com/simaogato/wealthflow-ledger/internal/domain"
	"github.com/simaogato/wealthflow-ledger/internal/usecase/category"
)

// SystemSeeder provisions the system categories the ledger books into
type SystemSeeder struct {
	repo domain.CategoryRepository
}

// NewSystemSeeder creates a new SystemSeeder instance
func NewSystemSeeder(repo domain.CategoryRepository) *SystemSeeder {
	return &SystemSeeder{
		repo: repo,
	}
}

// Seed ensures every system category exists, parents before children.
// Categories are otherwise created lazily on first use, so seeding is an
// optimization and is safe to run on every start.
func (s *SystemSeeder) Seed(ctx context.Context) ([]*domain.Category, error) {
	seeded := make([]*domain.Category, 0, len(domain.SystemCategories))

	for _, spec := range domain.SystemCategories {
		c, err := category.EnsureSystem(ctx, s.repo, spec.Role)
		if err != nil {
			return nil, fmt.Errorf("failed to seed system category %s: %w", spec.Role, err)
		}
		seeded = append(seeded, c)
	}

	return seeded, nil
}

package category

import (
	"context"

	"github.com/google/uuid"
	"github.com/simaogato/wealthflow-ledger/internal/domain"
)

// EnsureSystem returns the system category for role, provisioning it and its
// parent on first use. Lookups go through the role key, so concurrent callers
// converge on the same rows.
func EnsureSystem(ctx context.Context, repo domain.CategoryRepository, role domain.SystemCategoryRole) (*domain.Category, error) {
	spec, ok := domain.SpecFor(role)
	if !ok {
		return nil, domain.NewInvalidArgument("unknown system category %q", role)
	}

	var parentID *uuid.UUID
	if spec.Parent != "" {
		parent, err := EnsureSystem(ctx, repo, spec.Parent)
		if err != nil {
			return nil, err
		}
		parentID = &parent.ID
	}

	return repo.GetOrCreateSystem(ctx, spec, parentID)
}

// CategoryService exposes the slice of the category registry the ledger owns
type CategoryService struct {
	CategoryRepo domain.CategoryRepository
}

// NewCategoryService creates a new CategoryService instance
func NewCategoryService(categoryRepo domain.CategoryRepository) *CategoryService {
	return &CategoryService{
		CategoryRepo: categoryRepo,
	}
}

// DeleteCategory removes a user category. System categories cannot be deleted.
func (s *CategoryService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	c, err := s.CategoryRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if c.IsSystem {
		return domain.NewForbidden("category %q is a system category and cannot be deleted", c.Name)
	}

	return s.CategoryRepo.Delete(ctx, id)
}

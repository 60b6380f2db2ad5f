package split

import (
	"context"

	"github.com/google/uuid"
	"github.com/simaogato/wealthflow-ledger/internal/domain"
	"github.com/simaogato/wealthflow-ledger/internal/usecase/ledger"
)

// SplitService decomposes operations into categorized children
type SplitService struct {
	Repos domain.Repositories
	UoW   domain.UnitOfWork
}

// NewSplitService creates a new SplitService instance
func NewSplitService(repos domain.Repositories, uow domain.UnitOfWork) *SplitService {
	return &SplitService{
		Repos: repos,
		UoW:   uow,
	}
}

// SplitOperation marks the parent as split and inserts one child per item.
// Children inherit asset, type and date from the parent and never count
// towards the asset balance, so the balance is unchanged by a split.
func (s *SplitService) SplitOperation(ctx context.Context, parentID uuid.UUID, items []domain.SplitItem) ([]*domain.Operation, error) {
	var children []*domain.Operation

	err := s.UoW.Do(ctx, func(ctx context.Context, repos domain.Repositories) error {
		parent, err := repos.Operations.GetForUpdate(ctx, parentID)
		if err != nil {
			return err
		}

		if err := domain.ValidateSplit(parent, items); err != nil {
			return err
		}

		if err := repos.Operations.SetSplit(ctx, parent.ID, true); err != nil {
			return err
		}

		children = make([]*domain.Operation, 0, len(items))
		for _, item := range items {
			child := domain.NewSplitChild(parent, item)
			// Children never touch the balance; no asset lock is needed
			if err := ledger.Record(ctx, repos, nil, child); err != nil {
				return err
			}
			children = append(children, child)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return children, nil
}

// UnsplitOperation deletes every child of the parent and clears its split flag
func (s *SplitService) UnsplitOperation(ctx context.Context, parentID uuid.UUID) (*domain.Operation, error) {
	var parent *domain.Operation

	err := s.UoW.Do(ctx, func(ctx context.Context, repos domain.Repositories) error {
		var err error
		parent, err = repos.Operations.GetForUpdate(ctx, parentID)
		if err != nil {
			return err
		}

		if !parent.IsSplit {
			return domain.NewInvalidState("operation %s is not split", parentID)
		}

		// Hashtag links of the children go with them
		if _, err := repos.Operations.DeleteChildren(ctx, parentID); err != nil {
			return err
		}

		if err := repos.Operations.SetSplit(ctx, parentID, false); err != nil {
			return err
		}

		parent.IsSplit = false
		return nil
	})
	if err != nil {
		return nil, err
	}

	return parent, nil
}

// GetOperationChildren lists the children of a split operation.
// An operation that is not split simply has no children.
func (s *SplitService) GetOperationChildren(ctx context.Context, parentID uuid.UUID) ([]*domain.Operation, error) {
	if _, err := s.Repos.Operations.GetByID(ctx, parentID); err != nil {
		return nil, err
	}

	return s.Repos.Operations.ListChildren(ctx, parentID)
}

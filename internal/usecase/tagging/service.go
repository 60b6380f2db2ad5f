package tagging

import (
	"context"

	"github.com/google/uuid"
	"github.com/simaogato/wealthflow-ledger/internal/domain"
)

// HashtagService manages the shared hashtag registry
type HashtagService struct {
	HashtagRepo domain.HashtagRepository
}

// NewHashtagService creates a new HashtagService instance
func NewHashtagService(hashtagRepo domain.HashtagRepository) *HashtagService {
	return &HashtagService{
		HashtagRepo: hashtagRepo,
	}
}

// ListHashtags returns every hashtag with its usage count
func (s *HashtagService) ListHashtags(ctx context.Context) ([]*domain.Hashtag, error) {
	return s.HashtagRepo.List(ctx)
}

// CreateHashtag registers a hashtag. Creating an existing name returns it.
func (s *HashtagService) CreateHashtag(ctx context.Context, name string) (*domain.Hashtag, error) {
	normalized, err := domain.NormalizeHashtag(name)
	if err != nil {
		return nil, err
	}
	return s.HashtagRepo.Upsert(ctx, normalized)
}

// DeleteHashtag removes a hashtag that no operation references
func (s *HashtagService) DeleteHashtag(ctx context.Context, id uuid.UUID) error {
	if _, err := s.HashtagRepo.GetByID(ctx, id); err != nil {
		return err
	}

	usage, err := s.HashtagRepo.Usage(ctx, id)
	if err != nil {
		return err
	}

	if usage > 0 {
		return domain.NewConflict("hashtag is used by %d operation(s)", usage)
	}

	return s.HashtagRepo.Delete(ctx, id)
}

// ExtractHashtags returns the hashtags embedded in text without storing them
func (s *HashtagService) ExtractHashtags(text string) []string {
	return domain.ExtractHashtags(text)
}

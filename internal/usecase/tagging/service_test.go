package tagging

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/simaogato/wealthflow-ledger/internal/domain"
	"github.com/simaogato/wealthflow-ledger/internal/domain/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCreateHashtag_Normalizes(t *testing.T) {
	ctx := context.Background()
	repo := new(mocks.MockHashtagRepository)
	service := NewHashtagService(repo)

	tag := &domain.Hashtag{ID: uuid.New(), Name: "vacation_2024"}
	repo.On("Upsert", ctx, "vacation_2024").Return(tag, nil)

	got, err := service.CreateHashtag(ctx, "#Vacation_2024")

	require.NoError(t, err)
	assert.Equal(t, tag, got)
	repo.AssertExpectations(t)
}

func TestCreateHashtag_Invalid(t *testing.T) {
	ctx := context.Background()

	for _, name := range []string{"", "#", "two words", "dash-ed", "#" + strings.Repeat("a", 51)} {
		repo := new(mocks.MockHashtagRepository)
		service := NewHashtagService(repo)

		_, err := service.CreateHashtag(ctx, name)

		assert.Equal(t, domain.KindInvalidArgument, domain.KindOf(err), "name %q", name)
		repo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
	}
}

func TestDeleteHashtag(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()

	tests := []struct {
		name  string
		usage int
		kind  domain.ErrorKind
	}{
		{name: "unused", usage: 0, kind: ""},
		{name: "still referenced", usage: 3, kind: domain.KindConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(mocks.MockHashtagRepository)
			service := NewHashtagService(repo)

			repo.On("GetByID", ctx, id).Return(&domain.Hashtag{ID: id, Name: "trip"}, nil)
			repo.On("Usage", ctx, id).Return(tt.usage, nil)
			repo.On("Delete", ctx, id).Return(nil).Maybe()

			err := service.DeleteHashtag(ctx, id)

			assert.Equal(t, tt.kind, domain.KindOf(err))
			if tt.kind == "" {
				repo.AssertCalled(t, "Delete", ctx, id)
			} else {
				repo.AssertNotCalled(t, "Delete", ctx, id)
			}
		})
	}
}

func TestDeleteHashtag_NotFound(t *testing.T) {
	ctx := context.Background()
	repo := new(mocks.MockHashtagRepository)
	service := NewHashtagService(repo)

	id := uuid.New()
	repo.On("GetByID", ctx, id).Return(nil, domain.NewNotFound("hashtag not found: %s", id))

	err := service.DeleteHashtag(ctx, id)

	assert.True(t, domain.IsNotFound(err))
	repo.AssertNotCalled(t, "Usage", mock.Anything, mock.Anything)
}

func TestExtractHashtags(t *testing.T) {
	service := NewHashtagService(nil)

	assert.Equal(t, []string{"zakupy", "dom"}, service.ExtractHashtags("Biedronka #Zakupy, #dom! #zakupy"))
	assert.Empty(t, service.ExtractHashtags("no tags here"))
}

package repositories

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openbook-app/backend/internal/errs"
	"github.com/openbook-app/backend/internal/models"
)

func TestRelikePageAfterUnlike(t *testing.T) {
	db := testDB(t, &models.PageLike{})
	repo := NewPostgresPageRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.CreatePageLike(ctx, &models.PageLike{UserID: 4, PageID: 9}))
	require.NoError(t, repo.DeletePageLike(ctx, 4, 9))

	require.NoError(t, repo.CreatePageLike(ctx, &models.PageLike{UserID: 4, PageID: 9}))
}

func TestDeletePageLikeNotFound(t *testing.T) {
	db := testDB(t, &models.PageLike{})
	repo := NewPostgresPageRepository(db)

	err := repo.DeletePageLike(context.Background(), 4, 9)
	assert.ErrorIs(t, err, errs.NotFound)
}

package data

import (
	"context"
	"testing"
	"time"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func timePtr(t time.Time) *time.Time { return &t }

func TestPostRepo_ListDue(t *testing.T) {
	d, _ := newTestData(t)
	repo := NewPostRepo(d, log.DefaultLogger)
	ctx := context.Background()

	now := time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)
	posts := []*Post{
		{ID: "p-late", UserID: "acc-1", Content: "c", Status: PostStatusScheduled, ScheduledAt: timePtr(now.Add(-2 * time.Minute))},
		{ID: "p-early", UserID: "acc-1", Content: "c", Status: PostStatusScheduled, ScheduledAt: timePtr(now.Add(-8 * time.Minute))},
		{ID: "p-too-old", UserID: "acc-1", Content: "c", Status: PostStatusScheduled, ScheduledAt: timePtr(now.Add(-time.Hour))},
		{ID: "p-future", UserID: "acc-1", Content: "c", Status: PostStatusScheduled, ScheduledAt: timePtr(now.Add(time.Minute))},
		{ID: "p-draft", UserID: "acc-1", Content: "c", Status: PostStatusDraft, ScheduledAt: timePtr(now.Add(-time.Minute))},
	}
	require.NoError(t, d.DB().Create(&posts).Error)

	due, err := repo.ListDue(ctx, now.Add(-10*time.Minute), now)
	require.NoError(t, err)
	require.Len(t, due, 2)
	assert.Equal(t, "p-early", due[0].ID)
	assert.Equal(t, "p-late", due[1].ID)
}

func TestPostRepo_MarkPublishedAndFailed(t *testing.T) {
	d, _ := newTestData(t)
	repo := NewPostRepo(d, log.DefaultLogger)
	ctx := context.Background()

	scheduled := time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)
	require.NoError(t, d.DB().Create(&[]*Post{
		{ID: "p-1", UserID: "acc-1", Content: "hello", Status: PostStatusScheduled, ScheduledAt: &scheduled},
		{ID: "p-2", UserID: "acc-1", Content: "world", Status: PostStatusScheduled, ScheduledAt: &scheduled},
	}).Error)

	publishedAt := scheduled.Add(time.Minute)
	require.NoError(t, repo.MarkPublished(ctx, "p-1", "urn:li:share:1", publishedAt))
	require.NoError(t, repo.MarkFailed(ctx, "p-2"))

	var p1, p2 Post
	require.NoError(t, d.DB().Take(&p1, "id = ?", "p-1").Error)
	require.NoError(t, d.DB().Take(&p2, "id = ?", "p-2").Error)

	assert.Equal(t, PostStatusPublished, p1.Status)
	assert.Equal(t, "urn:li:share:1", p1.LinkedInPostID)
	require.NotNil(t, p1.PublishedAt)
	assert.True(t, publishedAt.Equal(*p1.PublishedAt))
	assert.Equal(t, PostStatusFailed, p2.Status)

	assert.ErrorIs(t, repo.MarkFailed(ctx, "missing"), ErrNotFound)
}

package sqlite

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/primetime/pkg/types"
)

func TestEngagementStoreUpsert(t *testing.T) {
	t.Run("creates with a pending rating by default", func(t *testing.T) {
		b := setupBackend(t)

		err := b.Engagement().Upsert(&types.EngagementRecord{ContentItemID: "item-1"})

		require.NoError(t, err)
		rec, err := b.Engagement().Get("item-1")
		require.NoError(t, err)
		assert.Equal(t, types.RatingPending, rec.PerformanceRating)
	})

	t.Run("re-upserting overwrites instead of duplicating", func(t *testing.T) {
		b := setupBackend(t)
		published := time.Date(2026, 3, 9, 14, 0, 0, 0, time.UTC)

		require.NoError(t, b.Engagement().Upsert(&types.EngagementRecord{
			ContentItemID: "item-1",
			Views:         10,
			PublishedTime: &published,
		}))
		require.NoError(t, b.Engagement().Upsert(&types.EngagementRecord{
			ContentItemID:     "item-1",
			Views:             120,
			EngagementScore:   12,
			PerformanceRating: types.RatingPoor,
			PublishedTime:     &published,
		}))

		rec, err := b.Engagement().Get("item-1")
		require.NoError(t, err)
		assert.Equal(t, 120, rec.Views)
		assert.Equal(t, types.RatingPoor, rec.PerformanceRating)

		records, err := b.Engagement().ListPublishedSince(published.Add(-time.Hour))
		require.NoError(t, err)
		assert.Len(t, records, 1, "one logical row per item")
	})

	t.Run("rejects an empty item ID", func(t *testing.T) {
		b := setupBackend(t)

		err := b.Engagement().Upsert(&types.EngagementRecord{})

		assert.ErrorIs(t, err, types.ErrInvalidID)
	})

	t.Run("rejects an unknown rating", func(t *testing.T) {
		b := setupBackend(t)

		err := b.Engagement().Upsert(&types.EngagementRecord{
			ContentItemID:     "item-1",
			PerformanceRating: "great",
		})

		assert.ErrorIs(t, err, types.ErrInvalidRating)
	})
}

func TestEngagementStoreGet(t *testing.T) {
	b := setupBackend(t)

	_, err := b.Engagement().Get("missing")
	assert.ErrorIs(t, err, types.ErrRecordNotFound)

	_, err = b.Engagement().Get("")
	assert.ErrorIs(t, err, types.ErrInvalidID)
}

func TestListPublishedSince(t *testing.T) {
	b := setupBackend(t)
	boundary := time.Date(2026, 3, 9, 12, 0, 0, 0, time.UTC)

	seed := func(id string, published *time.Time) {
		require.NoError(t, b.Engagement().Upsert(&types.EngagementRecord{
			ContentItemID: id,
			PublishedTime: published,
		}))
	}
	before := boundary.Add(-time.Second)
	after := boundary.Add(time.Hour)
	seed("at-boundary", &boundary)
	seed("before", &before)
	seed("after", &after)
	seed("unpublished", nil)

	records, err := b.Engagement().ListPublishedSince(boundary)

	require.NoError(t, err)
	var ids []string
	for _, rec := range records {
		ids = append(ids, rec.ContentItemID)
	}
	assert.Equal(t, []string{"at-boundary", "after"}, ids, "oldest first, boundary inclusive")
}

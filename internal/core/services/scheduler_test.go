package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/lingua/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/lingua/internal/core/domain"
)

func TestSchedule(t *testing.T) {
	now := domain.TimestampOf(testNow)

	tests := []struct {
		name      string
		stage     int
		quality   int
		wantStage int
		wantDays  int
	}{
		{"new card pass", 0, 3, 1, 2},
		{"perfect recall", 0, 5, 1, 2},
		{"second pass", 1, 4, 2, 4},
		{"third pass", 2, 3, 3, 8},
		{"fail resets", 4, 2, 0, 0},
		{"blackout resets", 1, 0, 0, 0},
		{"negative quality fails", 3, -1, 0, 0},
		{"interval capped", 9, 5, 10, 365},
		{"stage capped", 16, 5, 16, 365},
		{"quality above range passes", 0, 9, 1, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := card("c1", "a1", domain.WordTypeVocabulary, "B2", "run", tt.stage, 0)

			out := Schedule(in, tt.quality, now, DefaultScheduleConfig())

			assert.Equal(t, tt.wantStage, out.Stage)
			assert.Equal(t, now.AddDays(tt.wantDays), out.NextReview)
			assert.Equal(t, in.WordAnalysis, out.WordAnalysis)
			assert.Equal(t, in.ID, out.ID)
			assert.Equal(t, in.CreatedAt, out.CreatedAt)
		})
	}
}

func TestSchedule_PassIsMonotonic(t *testing.T) {
	now := domain.TimestampOf(testNow)
	c := card("c1", "a1", domain.WordTypeVocabulary, "B2", "run", 0, now)

	prevStage, prevNext := c.Stage, c.NextReview
	for range 25 {
		c = Schedule(c, 4, now, DefaultScheduleConfig())
		assert.GreaterOrEqual(t, c.Stage, prevStage)
		assert.GreaterOrEqual(t, c.NextReview, prevNext)
		assert.GreaterOrEqual(t, c.NextReview, now)
		prevStage, prevNext = c.Stage, c.NextReview
	}
	assert.Equal(t, DefaultMaxStage, c.Stage)
}

func TestSchedule_InputNotModified(t *testing.T) {
	in := card("c1", "a1", domain.WordTypeVocabulary, "B2", "run", 2, 100)

	_ = Schedule(in, 5, 1000, DefaultScheduleConfig())

	assert.Equal(t, 2, in.Stage)
	assert.Equal(t, domain.Timestamp(100), in.NextReview)
}

func TestIntervalDays(t *testing.T) {
	cfg := ScheduleConfig{MaxStage: 64, MaxIntervalDays: 1000}

	assert.Equal(t, 0, IntervalDays(0, cfg))
	assert.Equal(t, 2, IntervalDays(1, cfg))
	assert.Equal(t, 512, IntervalDays(9, cfg))
	assert.Equal(t, 1000, IntervalDays(10, cfg))
	assert.Equal(t, 1000, IntervalDays(63, cfg))
	assert.Equal(t, 256, IntervalDays(8, ScheduleConfig{}))
}

func TestIntervalDays_DefaultCapDominates(t *testing.T) {
	cfg := DefaultScheduleConfig()

	assert.Equal(t, 256, IntervalDays(8, cfg))
	for stage := 9; stage <= DefaultMaxStage; stage++ {
		assert.Equal(t, DefaultMaxIntervalDays, IntervalDays(stage, cfg), "stage %d", stage)
	}

	c := card("c1", "a1", domain.WordTypeVocabulary, "B2", "run", DefaultMaxStage-1, 0)
	next := Schedule(c, PassingQuality, domain.TimestampOf(testNow), cfg)
	assert.Equal(t, DefaultMaxStage, next.Stage)
	next = Schedule(next, PassingQuality, domain.TimestampOf(testNow), cfg)
	assert.Equal(t, DefaultMaxStage, next.Stage)
}

func TestReviewService_Review(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, store.Flashcards().Put(ctx, card("c1", "a1", domain.WordTypeVocabulary, "B2", "run", 1, 0)))

	svc := NewReviewService(store, DefaultScheduleConfig())
	svc.SetClock(FixedClock(testNow))

	reviewed, err := svc.Review(ctx, "c1", 4)
	require.NoError(t, err)

	now := domain.TimestampOf(testNow)
	assert.Equal(t, 2, reviewed.Stage)
	assert.Equal(t, now.AddDays(4), reviewed.NextReview)

	stored, err := store.Flashcards().Get(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, *reviewed, *stored)
}

func TestReviewService_NotFound(t *testing.T) {
	svc := NewReviewService(memory.NewStore(), DefaultScheduleConfig())

	_, err := svc.Review(context.Background(), "missing", 5)

	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

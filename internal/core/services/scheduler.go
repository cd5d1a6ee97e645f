package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/lingua/internal/core/domain"
	"github.com/custodia-labs/lingua/internal/core/ports/driven"
	"github.com/custodia-labs/lingua/internal/core/ports/driving"
)

// Ensure ReviewService implements the interface.
var _ driving.ReviewService = (*ReviewService)(nil)

// PassingQuality is the lowest review quality that counts as a pass.
const PassingQuality = 3

// Scheduling defaults.
//
// The interval cap dominates the stage cap: 2^9 days already exceeds
// DefaultMaxIntervalDays, so every stage from 9 to DefaultMaxStage is
// scheduled DefaultMaxIntervalDays ahead. The stage itself keeps counting
// up to DefaultMaxStage.
const (
	DefaultMaxStage        = 16
	DefaultMaxIntervalDays = 365
)

// ScheduleConfig bounds the review schedule.
type ScheduleConfig struct {
	// MaxStage is the highest stage a card can reach.
	MaxStage int

	// MaxIntervalDays is the longest interval between reviews.
	MaxIntervalDays int
}

// DefaultScheduleConfig returns the default scheduling bounds.
func DefaultScheduleConfig() ScheduleConfig {
	return ScheduleConfig{
		MaxStage:        DefaultMaxStage,
		MaxIntervalDays: DefaultMaxIntervalDays,
	}
}

func (c ScheduleConfig) withDefaults() ScheduleConfig {
	if c.MaxStage <= 0 {
		c.MaxStage = DefaultMaxStage
	}
	if c.MaxIntervalDays <= 0 {
		c.MaxIntervalDays = DefaultMaxIntervalDays
	}
	return c
}

// Schedule returns the card after a review of the given quality at now.
//
// A pass (quality >= 3) advances the stage by one and schedules the next
// review 2^stage days later, capped at cfg.MaxIntervalDays. A failure resets
// the stage to 0 and makes the card due immediately. No other field changes.
func Schedule(card domain.Flashcard, quality int, now domain.Timestamp, cfg ScheduleConfig) domain.Flashcard {
	cfg = cfg.withDefaults()

	if quality < PassingQuality {
		card.Stage = 0
		card.NextReview = now
		return card
	}

	stage := min(max(card.Stage, 0)+1, cfg.MaxStage)
	card.Stage = stage
	card.NextReview = now.AddDays(IntervalDays(stage, cfg))
	return card
}

// IntervalDays returns the review interval for a card at the given stage.
func IntervalDays(stage int, cfg ScheduleConfig) int {
	cfg = cfg.withDefaults()
	if stage <= 0 {
		return 0
	}
	if stage >= 31 {
		return cfg.MaxIntervalDays
	}
	return min(1<<stage, cfg.MaxIntervalDays)
}

// ReviewService grades flashcards and stores their new schedule.
type ReviewService struct {
	store  driven.RecordStore
	config ScheduleConfig
	clock  Clock
}

// NewReviewService creates a new review service.
func NewReviewService(store driven.RecordStore, config ScheduleConfig) *ReviewService {
	return &ReviewService{
		store:  store,
		config: config.withDefaults(),
	}
}

// SetClock replaces the clock used for review times.
func (s *ReviewService) SetClock(c Clock) {
	s.clock = c
}

// Review loads the card, schedules it and stores it in one transaction.
func (s *ReviewService) Review(ctx context.Context, cardID string, quality int) (*domain.Flashcard, error) {
	now := s.clock.now()

	var reviewed domain.Flashcard
	err := s.store.RunInTx(ctx, driven.TxReadWrite, []domain.EntityKind{domain.KindFlashcards}, func(ctx context.Context) error {
		card, err := s.store.Flashcards().Get(ctx, cardID)
		if err != nil {
			return err
		}
		reviewed = Schedule(*card, quality, now, s.config)
		return s.store.Flashcards().Put(ctx, reviewed)
	})
	if err != nil {
		return nil, fmt.Errorf("review card %s: %w", cardID, err)
	}
	return &reviewed, nil
}

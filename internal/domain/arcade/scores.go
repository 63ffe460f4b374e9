package arcade

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/termfolio/backend/internal/infrastructure/logging"
	"github.com/GriffinCanCode/termfolio/backend/internal/providers/storage"
)

// HighScoreKey is the storage key of the best score.
const HighScoreKey = "arcade.high_score"

// Persister is the slice of storage.Store the score keeper needs.
type Persister interface {
	Get(ctx context.Context, namespace, key string, out any) error
	Set(ctx context.Context, namespace, key string, value any) error
}

// Scores tracks the persisted high score of one namespace.
type Scores struct {
	store     Persister
	namespace string
	logger    *logging.Logger
	best      int
}

// LoadScores reads the stored high score once. Missing or unreadable
// records start at zero.
func LoadScores(ctx context.Context, store Persister, namespace string, logger *logging.Logger) *Scores {
	s := &Scores{store: store, namespace: namespace, logger: logger}
	if store == nil {
		return s
	}
	if err := store.Get(ctx, namespace, HighScoreKey, &s.best); err != nil && !errors.Is(err, storage.ErrNotFound) {
		logger.Warn("high score unreadable, starting at zero", zap.Error(err))
		s.best = 0
	}
	return s
}

// Best is the highest score recorded so far.
func (s *Scores) Best() int { return s.best }

// Submit records score if it beats the best and reports whether it did.
func (s *Scores) Submit(score int) bool {
	if score <= s.best {
		return false
	}
	s.best = score
	if s.store != nil {
		if err := s.store.Set(context.Background(), s.namespace, HighScoreKey, score); err != nil {
			s.logger.Warn("failed to persist high score", zap.Int("score", score), zap.Error(err))
		}
	}
	return true
}

package repository

import (
	"context"
	"sync/atomic"
	"time"

	"salonbot/internal/domain"
	"salonbot/internal/models"

	"github.com/rs/zerolog"
)

// FailoverSessionRepository переключается на запасное хранилище при ошибках
// основного и раз в минуту пробует вернуться обратно.
type FailoverSessionRepository struct {
	primary   domain.SessionRepository
	fallback  domain.SessionRepository
	logger    *zerolog.Logger
	isDown    atomic.Bool
	lastCheck atomic.Int64
}

func NewFailoverSessionRepository(primary, fallback domain.SessionRepository, logger *zerolog.Logger) *FailoverSessionRepository {
	return &FailoverSessionRepository{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

const recoveryProbeInterval = time.Minute

func (r *FailoverSessionRepository) markDown(err error) {
	r.logger.Error().Err(err).Msg("Primary session repository failed, falling back to memory")
	r.isDown.Store(true)
	r.lastCheck.Store(time.Now().UnixNano())
}

func (r *FailoverSessionRepository) shouldProbe() bool {
	last := time.Unix(0, r.lastCheck.Load())
	return time.Since(last) > recoveryProbeInterval
}

func (r *FailoverSessionRepository) Get(ctx context.Context, chatID int64) (*models.Session, error) {
	if !r.isDown.Load() {
		session, err := r.primary.Get(ctx, chatID)
		if err == nil {
			return session, nil
		}
		r.markDown(err)
	}

	if r.isDown.Load() && r.shouldProbe() {
		session, err := r.primary.Get(ctx, chatID)
		if err == nil {
			r.isDown.Store(false)
			return session, nil
		}
		r.lastCheck.Store(time.Now().UnixNano())
	}

	return r.fallback.Get(ctx, chatID)
}

func (r *FailoverSessionRepository) Set(ctx context.Context, session *models.Session) error {
	if !r.isDown.Load() {
		err := r.primary.Set(ctx, session)
		if err == nil {
			return nil
		}
		r.markDown(err)
	}

	return r.fallback.Set(ctx, session)
}

func (r *FailoverSessionRepository) Clear(ctx context.Context, chatID int64) error {
	if !r.isDown.Load() {
		err := r.primary.Clear(ctx, chatID)
		if err == nil {
			return nil
		}
		r.markDown(err)
	}

	return r.fallback.Clear(ctx, chatID)
}

func (r *FailoverSessionRepository) CheckRateLimit(ctx context.Context, chatID int64, limit int, window time.Duration) (bool, error) {
	if !r.isDown.Load() {
		allowed, err := r.primary.CheckRateLimit(ctx, chatID, limit, window)
		if err == nil {
			return allowed, nil
		}
		r.markDown(err)
	}

	return r.fallback.CheckRateLimit(ctx, chatID, limit, window)
}

package service

import (
	"context"
	"time"

	"salonbot/internal/domain"
	"salonbot/internal/models"

	"github.com/rs/zerolog"
)

// SessionService — фасад над репозиторием сессий с логированием и
// операцией read-modify-write.
type SessionService struct {
	repo   domain.SessionRepository
	logger *zerolog.Logger
}

func NewSessionService(repo domain.SessionRepository, logger *zerolog.Logger) *SessionService {
	return &SessionService{
		repo:   repo,
		logger: logger,
	}
}

func (s *SessionService) Get(ctx context.Context, chatID int64) (*models.Session, error) {
	session, err := s.repo.Get(ctx, chatID)
	if err != nil {
		s.logger.Error().Err(err).Int64("chat_id", chatID).Msg("failed to get session")
		return nil, err
	}
	return session, nil
}

// Set полностью заменяет сессию чата.
func (s *SessionService) Set(ctx context.Context, session *models.Session) error {
	return s.repo.Set(ctx, session)
}

// Mutate читает сессию, применяет fn и сохраняет результат. Если сессии
// нет, fn получает пустую сессию с заполненным ChatID.
func (s *SessionService) Mutate(ctx context.Context, chatID int64, fn func(*models.Session)) error {
	session, err := s.repo.Get(ctx, chatID)
	if err != nil {
		return err
	}
	if session == nil {
		session = &models.Session{ChatID: chatID}
	}

	fn(session)

	return s.repo.Set(ctx, session)
}

func (s *SessionService) Clear(ctx context.Context, chatID int64) error {
	return s.repo.Clear(ctx, chatID)
}

func (s *SessionService) CheckRateLimit(ctx context.Context, chatID int64, limit int, window time.Duration) (bool, error) {
	return s.repo.CheckRateLimit(ctx, chatID, limit, window)
}

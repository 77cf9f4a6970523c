package repository

import (
	"context"
	"sync"
	"time"

	"salonbot/internal/models"
)

// MemorySessionRepository хранит сессии в памяти процесса. Используется как
// запасной вариант при недоступном Redis и в тестах. Брошенные сессии
// вычищаются по TTL, чтобы память не росла бесконечно.
type MemorySessionRepository struct {
	mu         sync.RWMutex
	sessions   map[int64]*models.Session
	rateLimits map[int64]*rateLimitEntry
	ttl        time.Duration
}

func NewMemorySessionRepository(ttl time.Duration) *MemorySessionRepository {
	return &MemorySessionRepository{
		sessions:   make(map[int64]*models.Session),
		rateLimits: make(map[int64]*rateLimitEntry),
		ttl:        ttl,
	}
}

func (r *MemorySessionRepository) Get(ctx context.Context, chatID int64) (*models.Session, error) {
	r.mu.RLock()
	session, ok := r.sessions[chatID]
	r.mu.RUnlock()
	if !ok {
		return nil, nil
	}

	if r.expired(session, time.Now()) {
		r.mu.Lock()
		delete(r.sessions, chatID)
		r.mu.Unlock()
		return nil, nil
	}
	return session, nil
}

func (r *MemorySessionRepository) Set(ctx context.Context, session *models.Session) error {
	session.UpdatedAt = time.Now()
	r.mu.Lock()
	r.sessions[session.ChatID] = session
	r.mu.Unlock()
	return nil
}

func (r *MemorySessionRepository) Clear(ctx context.Context, chatID int64) error {
	r.mu.Lock()
	delete(r.sessions, chatID)
	r.mu.Unlock()
	return nil
}

type rateLimitEntry struct {
	count     int
	expiresAt time.Time
}

func (r *MemorySessionRepository) CheckRateLimit(ctx context.Context, chatID int64, limit int, window time.Duration) (bool, error) {
	now := time.Now()

	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.rateLimits[chatID]
	if !ok || now.After(entry.expiresAt) {
		entry = &rateLimitEntry{count: 1, expiresAt: now.Add(window)}
		r.rateLimits[chatID] = entry
	} else {
		entry.count++
	}

	return entry.count <= limit, nil
}

// StartJanitor периодически удаляет протухшие сессии до отмены контекста.
func (r *MemorySessionRepository) StartJanitor(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				r.sweep(time.Now())
			}
		}
	}()
}

func (r *MemorySessionRepository) sweep(now time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for chatID, session := range r.sessions {
		if r.expired(session, now) {
			delete(r.sessions, chatID)
		}
	}
	for chatID, entry := range r.rateLimits {
		if now.After(entry.expiresAt) {
			delete(r.rateLimits, chatID)
		}
	}
}

func (r *MemorySessionRepository) expired(session *models.Session, now time.Time) bool {
	return r.ttl > 0 && !session.UpdatedAt.IsZero() && now.Sub(session.UpdatedAt) > r.ttl
}

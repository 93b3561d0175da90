package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"wordclash/models"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// SessionStore is the persistence collaborator for game sessions: load the
// whole session set, or upsert one session. There is no partial update and
// no locking; concurrent writers to the same id are last-write-wins.
type SessionStore interface {
	LoadAll(ctx context.Context) (map[string]*models.GameSession, error)
	Get(ctx context.Context, id string) (*models.GameSession, error)
	Upsert(ctx context.Context, session *models.GameSession) error
}

const sessionCacheTTL = 2 * time.Hour

// DBSessionStore persists sessions to Postgres (one row per session, nested
// structures JSON-encoded) and mirrors the full document into Redis for the
// read path.
type DBSessionStore struct {
	db    *gorm.DB
	redis *redis.Client
}

func NewDBSessionStore(db *gorm.DB, redisClient *redis.Client) *DBSessionStore {
	return &DBSessionStore{
		db:    db,
		redis: redisClient,
	}
}

func (s *DBSessionStore) LoadAll(ctx context.Context) (map[string]*models.GameSession, error) {
	var records []models.GameSessionRecord
	if err := s.db.WithContext(ctx).Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to load sessions: %w", err)
	}

	sessions := make(map[string]*models.GameSession, len(records))
	for i := range records {
		session, err := decodeSessionRecord(&records[i])
		if err != nil {
			log.Printf("Skipping undecodable session %s: %v", records[i].ID, err)
			continue
		}
		sessions[session.ID] = session
	}

	return sessions, nil
}

// Get returns one session, or (nil, nil) when the id is unknown. Redis is
// tried first; the database is authoritative.
func (s *DBSessionStore) Get(ctx context.Context, id string) (*models.GameSession, error) {
	if s.redis != nil {
		data, err := s.redis.Get(ctx, sessionCacheKey(id)).Result()
		if err == nil {
			var session models.GameSession
			if err := json.Unmarshal([]byte(data), &session); err == nil {
				return &session, nil
			}
			log.Printf("Failed to unmarshal cached session %s, falling back to database", id)
		} else if err != redis.Nil {
			log.Printf("Redis error getting session %s: %v", id, err)
		}
	}

	var record models.GameSessionRecord
	err := s.db.WithContext(ctx).First(&record, "id = ?", id).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session %s: %w", id, err)
	}

	return decodeSessionRecord(&record)
}

func (s *DBSessionStore) Upsert(ctx context.Context, session *models.GameSession) error {
	record, err := encodeSessionRecord(session)
	if err != nil {
		return fmt.Errorf("failed to encode session %s: %w", session.ID, err)
	}

	if err := s.db.WithContext(ctx).Save(record).Error; err != nil {
		return fmt.Errorf("failed to save session %s: %w", session.ID, err)
	}

	// Cache refresh failures are logged, not surfaced; Postgres holds the
	// durable copy.
	if s.redis != nil {
		data, err := json.Marshal(session)
		if err != nil {
			log.Printf("Failed to marshal session %s for cache: %v", session.ID, err)
			return nil
		}
		if err := s.redis.Set(ctx, sessionCacheKey(session.ID), data, sessionCacheTTL).Err(); err != nil {
			log.Printf("Failed to cache session %s: %v", session.ID, err)
		}
	}

	return nil
}

func sessionCacheKey(id string) string {
	return "session:" + id
}

func encodeSessionRecord(session *models.GameSession) (*models.GameSessionRecord, error) {
	record := &models.GameSessionRecord{
		ID:             session.ID,
		Status:         string(session.Status),
		Difficulty:     string(session.Difficulty),
		CurrentRound:   session.CurrentRound,
		MaxRounds:      session.MaxRounds,
		TimerStartTime: session.TimerStartTime,
		TimeLeft:       session.TimeLeft,
		Winner:         session.Winner,
		CreatedAt:      session.CreatedAt,
		UpdatedAt:      session.UpdatedAt,
	}

	fields := []struct {
		value any
		dest  *string
	}{
		{session.Players, &record.Players},
		{session.PlayerStates, &record.PlayerStates},
		{session.CurrentQuestion, &record.CurrentQuestion},
		{session.QuestionResults, &record.QuestionResults},
		{session.QuestionHistory, &record.QuestionHistory},
		{session.ChatMessages, &record.ChatMessages},
		{session.RevealedLetters, &record.RevealedLetters},
		{session.LastMove, &record.LastMove},
	}
	for _, f := range fields {
		data, err := json.Marshal(f.value)
		if err != nil {
			return nil, err
		}
		*f.dest = string(data)
	}

	return record, nil
}

func decodeSessionRecord(record *models.GameSessionRecord) (*models.GameSession, error) {
	session := &models.GameSession{
		ID:             record.ID,
		Status:         models.SessionStatus(record.Status),
		Difficulty:     models.Difficulty(record.Difficulty),
		CurrentRound:   record.CurrentRound,
		MaxRounds:      record.MaxRounds,
		TimerStartTime: record.TimerStartTime,
		TimeLeft:       record.TimeLeft,
		Winner:         record.Winner,
		CreatedAt:      record.CreatedAt,
		UpdatedAt:      record.UpdatedAt,
	}

	fields := []struct {
		raw  string
		dest any
	}{
		{record.Players, &session.Players},
		{record.PlayerStates, &session.PlayerStates},
		{record.CurrentQuestion, &session.CurrentQuestion},
		{record.QuestionResults, &session.QuestionResults},
		{record.QuestionHistory, &session.QuestionHistory},
		{record.ChatMessages, &session.ChatMessages},
		{record.RevealedLetters, &session.RevealedLetters},
		{record.LastMove, &session.LastMove},
	}
	for _, f := range fields {
		if f.raw == "" {
			continue
		}
		if err := json.Unmarshal([]byte(f.raw), f.dest); err != nil {
			return nil, err
		}
	}

	if session.PlayerStates == nil {
		session.PlayerStates = map[models.PlayerSlot]*models.PlayerState{}
	}
	if session.QuestionResults == nil {
		session.QuestionResults = map[models.PlayerSlot]*models.QuestionResult{}
	}

	return session, nil
}

// MemorySessionStore keeps sessions in a map. It backs tests and local runs
// without Postgres; documents still pass through the JSON boundary so the
// question envelope codec is exercised on every round trip.
type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string][]byte
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{
		sessions: make(map[string][]byte),
	}
}

func (s *MemorySessionStore) LoadAll(ctx context.Context) (map[string]*models.GameSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := make(map[string]*models.GameSession, len(s.sessions))
	for id, data := range s.sessions {
		var session models.GameSession
		if err := json.Unmarshal(data, &session); err != nil {
			return nil, err
		}
		sessions[id] = &session
	}
	return sessions, nil
}

func (s *MemorySessionStore) Get(ctx context.Context, id string) (*models.GameSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, exists := s.sessions[id]
	if !exists {
		return nil, nil
	}
	var session models.GameSession
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *MemorySessionStore) Upsert(ctx context.Context, session *models.GameSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = data
	return nil
}

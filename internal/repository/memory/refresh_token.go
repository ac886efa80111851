// Package memory provides process-local stores for tests and single-node runs.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/gophkeeper-sessions/internal/model"
)

var _ model.RefreshTokenStore = (*RefreshTokenStore)(nil)

type RefreshTokenStore struct {
	mu     sync.Mutex
	byID   map[uuid.UUID]*model.RefreshToken
	byHash map[string]uuid.UUID
	now    func() time.Time
}

func NewRefreshTokenStore() *RefreshTokenStore {
	return &RefreshTokenStore{
		byID:   make(map[uuid.UUID]*model.RefreshToken),
		byHash: make(map[string]uuid.UUID),
		now:    time.Now,
	}
}

func (s *RefreshTokenStore) Create(ctx context.Context, token model.RefreshToken) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insert(token)
}

func (s *RefreshTokenStore) insert(token model.RefreshToken) error {
	if token.ID == uuid.Nil {
		token.ID = uuid.New()
	}
	if _, ok := s.byHash[string(token.TokenHash)]; ok {
		return model.ErrAlreadyExists
	}
	if _, ok := s.byID[token.ID]; ok {
		return model.ErrAlreadyExists
	}
	token.TokenHash = append([]byte(nil), token.TokenHash...)
	s.byID[token.ID] = &token
	s.byHash[string(token.TokenHash)] = token.ID
	return nil
}

func (s *RefreshTokenStore) GetByTokenHash(ctx context.Context, hash []byte) (model.RefreshToken, error) {
	if err := ctx.Err(); err != nil {
		return model.RefreshToken{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.byHash[string(hash)]
	if !ok {
		return model.RefreshToken{}, model.ErrNotFound
	}
	return *s.byID[id], nil
}

func (s *RefreshTokenStore) Revoke(ctx context.Context, id uuid.UUID) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.revoke(id), nil
}

func (s *RefreshTokenStore) revoke(id uuid.UUID) bool {
	rt, ok := s.byID[id]
	if !ok || rt.Revoked {
		return false
	}
	at := s.now()
	rt.Revoked = true
	rt.RevokedAt = &at
	return true
}

func (s *RefreshTokenStore) Rotate(ctx context.Context, oldID uuid.UUID, next model.RefreshToken) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, dup := s.byHash[string(next.TokenHash)]; dup {
		return model.ErrAlreadyExists
	}
	if !s.revoke(oldID) {
		return model.ErrTokenAlreadyRevoked
	}
	return s.insert(next)
}

func (s *RefreshTokenStore) RevokeAllBySubject(ctx context.Context, subjectID string) ([][]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var hashes [][]byte
	for id, rt := range s.byID {
		if rt.SubjectID == subjectID && s.revoke(id) {
			hashes = append(hashes, rt.TokenHash)
		}
	}
	return hashes, nil
}

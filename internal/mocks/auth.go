package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/recetario/backend/internal/service"
)

// MockEmailSender is a mock implementation of the EmailSender interface
type MockEmailSender struct {
	mock.Mock
}

func (m *MockEmailSender) SendPasswordResetCode(to, code string) error {
	args := m.Called(to, code)
	return args.Error(0)
}

// MemoryResetCodeStore is an in-memory ResetCodeStore for tests.
type MemoryResetCodeStore struct {
	mu    sync.Mutex
	codes map[string]memoryResetCode
}

type memoryResetCode struct {
	userID    uuid.UUID
	expiresAt time.Time
}

func NewMemoryResetCodeStore() *MemoryResetCodeStore {
	return &MemoryResetCodeStore{codes: make(map[string]memoryResetCode)}
}

func (s *MemoryResetCodeStore) Set(ctx context.Context, code string, userID uuid.UUID, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.codes[code] = memoryResetCode{userID: userID, expiresAt: time.Now().Add(ttl)}
	return nil
}

func (s *MemoryResetCodeStore) Get(ctx context.Context, code string) (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.codes[code]
	if !ok || time.Now().After(entry.expiresAt) {
		return uuid.Nil, service.ErrInvalidResetCode
	}
	return entry.userID, nil
}

func (s *MemoryResetCodeStore) Delete(ctx context.Context, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.codes, code)
	return nil
}

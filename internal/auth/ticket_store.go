package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Opeso2580/eduplatform/internal/cache"
)

const ticketKeyPrefix = "verify_ticket:"

// TicketStoreInterface defines storage for verification tickets: explicit,
// short-lived server-side records standing in for a "pending identity".
// A ticket references a user who passed the password check (or just signed
// up) but has not confirmed the email code yet. The ticket value is opaque
// to clients and carries no session rights.
type TicketStoreInterface interface {
	CreateTicket(ctx context.Context, userID uint, ttl time.Duration) (string, error)
	GetTicket(ctx context.Context, ticketID string) (userID uint, err error)
	DeleteTicket(ctx context.Context, ticketID string) error
}

// TicketStore keeps verification tickets in Redis with their own TTL.
type TicketStore struct {
	cache *cache.Client
}

var _ TicketStoreInterface = (*TicketStore)(nil)

// NewTicketStore creates a new ticket store.
func NewTicketStore(cache *cache.Client) *TicketStore {
	return &TicketStore{cache: cache}
}

type ticketRecord struct {
	UserID uint `json:"user_id"`
}

// CreateTicket stores a new ticket for userID and returns its ID.
func (s *TicketStore) CreateTicket(ctx context.Context, userID uint, ttl time.Duration) (string, error) {
	ticketID := uuid.New().String()
	payload, err := json.Marshal(ticketRecord{UserID: userID})
	if err != nil {
		return "", fmt.Errorf("marshal ticket: %w", err)
	}
	if err := s.cache.Set(ctx, ticketKeyPrefix+ticketID, payload, ttl); err != nil {
		return "", fmt.Errorf("store ticket: %w", err)
	}
	return ticketID, nil
}

// GetTicket resolves a ticket to the pending user ID. Expired and unknown
// tickets are indistinguishable to the caller.
func (s *TicketStore) GetTicket(ctx context.Context, ticketID string) (uint, error) {
	data, err := s.cache.Get(ctx, ticketKeyPrefix+ticketID)
	if err != nil || data == nil {
		return 0, fmt.Errorf("ticket not found")
	}
	var rec ticketRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return 0, fmt.Errorf("unmarshal ticket: %w", err)
	}
	return rec.UserID, nil
}

// DeleteTicket removes a ticket once verification completes.
func (s *TicketStore) DeleteTicket(ctx context.Context, ticketID string) error {
	return s.cache.Delete(ctx, ticketKeyPrefix+ticketID)
}

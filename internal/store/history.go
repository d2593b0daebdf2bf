package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"

	"studyflow-backend/internal/models"
)

const (
	historyKeyPrefix = "studyflow:history:"
	activeKeyPrefix  = "studyflow:active:"
)

// HistoryStore keeps the newest-first list of generated records per identity
// (keyed by email). Every mutation is persisted synchronously and reports
// write failures to the caller. Reads tolerate missing or corrupt data by
// degrading to an empty history.
type HistoryStore struct {
	kv KV
}

func NewHistoryStore(kv KV) *HistoryStore {
	return &HistoryStore{kv: kv}
}

// Load returns the identity's history, newest first. A missing key or
// unparsable payload yields an empty list, never an error.
func (s *HistoryStore) Load(ctx context.Context, email string) []*models.ContentRecord {
	raw, err := s.kv.Get(ctx, historyKeyPrefix+email)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			log.Printf("history read failed for %s: %v", email, err)
		}
		return []*models.ContentRecord{}
	}

	var records []*models.ContentRecord
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		log.Printf("history for %s is corrupt, starting empty: %v", email, err)
		return []*models.ContentRecord{}
	}
	if records == nil {
		records = []*models.ContentRecord{}
	}
	return records
}

// Append prepends a record and persists the list.
func (s *HistoryStore) Append(ctx context.Context, email string, rec *models.ContentRecord) error {
	if err := rec.Validate(); err != nil {
		return err
	}

	records := s.Load(ctx, email)
	records = append([]*models.ContentRecord{rec}, records...)
	return s.save(ctx, email, records)
}

// Get returns the record with the given id, or a not-found error.
func (s *HistoryStore) Get(ctx context.Context, email string, id uuid.UUID) (*models.ContentRecord, error) {
	for _, rec := range s.Load(ctx, email) {
		if rec.ID == id {
			return rec, nil
		}
	}
	return nil, fmt.Errorf("record %s not found", id)
}

// Remove deletes the record with the given id. If it was the active record,
// the active reference is cleared as well. Returns false when no record
// matched.
func (s *HistoryStore) Remove(ctx context.Context, email string, id uuid.UUID) (bool, error) {
	records := s.Load(ctx, email)

	idx := -1
	for i, rec := range records {
		if rec.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false, nil
	}

	records = append(records[:idx], records[idx+1:]...)
	if err := s.save(ctx, email, records); err != nil {
		return false, err
	}

	if active, ok := s.Active(ctx, email); ok && active == id {
		if err := s.ClearActive(ctx, email); err != nil {
			return false, err
		}
	}
	return true, nil
}

// SetActive records the currently-viewed record for the identity.
func (s *HistoryStore) SetActive(ctx context.Context, email string, id uuid.UUID) error {
	return s.kv.Set(ctx, activeKeyPrefix+email, id.String())
}

// Active returns the currently-viewed record id, if any.
func (s *HistoryStore) Active(ctx context.Context, email string) (uuid.UUID, bool) {
	raw, err := s.kv.Get(ctx, activeKeyPrefix+email)
	if err != nil {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

func (s *HistoryStore) ClearActive(ctx context.Context, email string) error {
	return s.kv.Del(ctx, activeKeyPrefix+email)
}

func (s *HistoryStore) save(ctx context.Context, email string, records []*models.ContentRecord) error {
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("failed to serialize history: %w", err)
	}
	if err := s.kv.Set(ctx, historyKeyPrefix+email, string(data)); err != nil {
		return fmt.Errorf("failed to persist history: %w", err)
	}
	return nil
}

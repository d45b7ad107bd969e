// Package session persists the authenticated user between runs.
//
// The Store keeps exactly one record, the serialized models.User, under
// common.SessionUserKey in a metadata.Repository. Absence of the record is
// the normal anonymous state.
package session

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/cartsync/internal/client/models"
	"github.com/dmitrijs2005/cartsync/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/cartsync/internal/common"
	"github.com/dmitrijs2005/cartsync/internal/logging"
)

type Store struct {
	repo metadata.Repository
	log  logging.Logger
}

func NewStore(repo metadata.Repository, log logging.Logger) *Store {
	return &Store{repo: repo, log: log}
}

// Restore returns the persisted user, or nil when there is none.
// A malformed record is logged, removed, and reported as no session.
func (s *Store) Restore(ctx context.Context) (*models.User, error) {
	raw, err := s.repo.Get(ctx, common.SessionUserKey)
	if err != nil {
		return nil, fmt.Errorf("restore session: %w", err)
	}
	if raw == nil {
		return nil, nil
	}

	var u models.User
	if err := json.Unmarshal(raw, &u); err != nil || !u.Valid() {
		s.log.Warn(ctx, "discarding persisted session", "error", common.ErrMalformedPersistedState, "cause", err)
		if derr := s.repo.Delete(ctx, common.SessionUserKey); derr != nil {
			s.log.Warn(ctx, "failed to delete malformed session", "error", derr)
		}
		return nil, nil
	}
	return &u, nil
}

// Persist overwrites the stored user.
func (s *Store) Persist(ctx context.Context, u models.User) error {
	raw, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	prev, err := s.repo.Swap(ctx, common.SessionUserKey, raw)
	if err != nil {
		return fmt.Errorf("persist session: %w", err)
	}

	if prev != nil {
		var old models.User
		if json.Unmarshal(prev, &old) == nil && old.ID != u.ID {
			s.log.Info(ctx, "replacing persisted session", "prev_user_id", old.ID, "user_id", u.ID)
		}
	}
	return nil
}

// Clear removes the stored user. Clearing an empty store is not an error.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.repo.Delete(ctx, common.SessionUserKey); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// Reset wipes every record the repository holds, the session included, and
// reports how many there were.
func (s *Store) Reset(ctx context.Context) (int, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("reset local state: %w", err)
	}
	if err := s.repo.Clear(ctx); err != nil {
		return 0, fmt.Errorf("reset local state: %w", err)
	}
	s.log.Info(ctx, "local state wiped", "records", len(all))
	return len(all), nil
}

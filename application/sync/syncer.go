// Package sync keeps a user-local collection (cart or wishlist) usable
// instantly and offline while eventually converging with the authoritative
// remote copy. It talks to the resource endpoints, never to the cache.
package sync

import (
	"context"
	gosync "sync"
	"time"

	"go.uber.org/zap"

	"cozyberries-backend/domain/collections"
	apperrors "cozyberries-backend/pkg/errors"
	"cozyberries-backend/pkg/async"
)

// Remote is the resource endpoint for the collection's remote copy.
type Remote interface {
	Fetch(ctx context.Context) (collections.Collection, error)
	Push(ctx context.Context, items collections.Collection) error
}

// Syncer is one collection instance's sync state machine. Local mutations
// apply immediately and persist synchronously; remote pushes are debounced
// and deduplicated by snapshot fingerprint. Push failures are logged and
// retried by the next mutation's debounce cycle.
type Syncer struct {
	kind      collections.Kind
	local     LocalStore
	remote    Remote
	debouncer *async.Debouncer
	logger    *zap.Logger
	pushWait  time.Duration

	mu            gosync.Mutex
	items         collections.Collection
	authenticated bool
	lastPushed    string // fingerprint of the snapshot last handed to Push
}

// NewSyncer loads the local copy synchronously and returns a ready syncer.
// The caller decides when (if ever) the session authenticates.
func NewSyncer(kind collections.Kind, local LocalStore, remote Remote, debounce time.Duration, logger *zap.Logger) (*Syncer, error) {
	items, err := local.Load()
	if err != nil {
		return nil, err
	}

	if debounce <= 0 {
		debounce = time.Second
	}

	return &Syncer{
		kind:      kind,
		local:     local,
		remote:    remote,
		debouncer: async.NewDebouncer(debounce),
		logger:    logger,
		pushWait:  10 * time.Second,
		items:     items,
	}, nil
}

// Items returns the current collection snapshot.
func (s *Syncer) Items() collections.Collection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.items.Clone()
}

// SignIn reconciles the local collection against the newly available
// remote copy. The merged result becomes the canonical collection on both
// sides; if it differs from what the remote already holds, a push is
// scheduled.
func (s *Syncer) SignIn(ctx context.Context) error {
	remote, err := s.remote.Fetch(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	merged := collections.Merge(s.items, remote)
	s.items = merged
	s.authenticated = true
	saveErr := s.local.Save(merged)
	needsPush := !merged.Similar(remote)
	s.mu.Unlock()

	if saveErr != nil {
		return saveErr
	}
	if needsPush {
		s.schedulePush()
	}
	return nil
}

// SignOut drops the remote linkage. Local data stays; a pending push is
// cancelled because there is no longer a session to push under.
func (s *Syncer) SignOut() {
	s.mu.Lock()
	s.authenticated = false
	s.lastPushed = ""
	s.mu.Unlock()
	s.debouncer.Cancel()
}

// Add inserts an item or bumps its quantity.
func (s *Syncer) Add(item collections.LineItem) error {
	if item.ProductID == "" {
		return apperrors.NewValidationError("item missing product id")
	}
	if item.Quantity <= 0 {
		item.Quantity = 1
	}

	return s.mutate(func(items collections.Collection) collections.Collection {
		if i := items.IndexOf(item.ProductID); i >= 0 {
			items[i].Quantity += item.Quantity
			return items
		}
		return append(items, item)
	})
}

// Remove deletes an item.
func (s *Syncer) Remove(productID string) error {
	return s.mutate(func(items collections.Collection) collections.Collection {
		if i := items.IndexOf(productID); i >= 0 {
			return append(items[:i], items[i+1:]...)
		}
		return items
	})
}

// UpdateQuantity sets an item's quantity; zero removes it.
func (s *Syncer) UpdateQuantity(productID string, quantity int) error {
	if quantity <= 0 {
		return s.Remove(productID)
	}
	return s.mutate(func(items collections.Collection) collections.Collection {
		if i := items.IndexOf(productID); i >= 0 {
			items[i].Quantity = quantity
		}
		return items
	})
}

// Clear empties the collection on explicit user action.
func (s *Syncer) Clear() error {
	return s.mutate(func(collections.Collection) collections.Collection {
		return collections.Collection{}
	})
}

// mutate applies fn to the in-memory collection, persists locally, and
// schedules a debounced remote push when authenticated. A failed local
// save aborts the mutation: local persistence never fails into data loss.
func (s *Syncer) mutate(fn func(collections.Collection) collections.Collection) error {
	s.mu.Lock()
	previous := s.items
	next := fn(previous.Clone())
	if err := s.local.Save(next); err != nil {
		s.mu.Unlock()
		return err
	}
	s.items = next
	authenticated := s.authenticated
	s.mu.Unlock()

	if authenticated {
		s.schedulePush()
	}
	return nil
}

func (s *Syncer) schedulePush() {
	s.debouncer.Trigger(s.push)
}

// push sends the current snapshot to the remote endpoint. A snapshot whose
// fingerprint matches the one already handed to Push is skipped rather
// than duplicated.
func (s *Syncer) push() {
	s.mu.Lock()
	if !s.authenticated {
		s.mu.Unlock()
		return
	}
	snapshot := s.items.Clone()
	fingerprint := snapshot.Fingerprint()
	if fingerprint == s.lastPushed {
		s.mu.Unlock()
		s.logger.Debug("Skipping push, identical snapshot in flight",
			zap.String("collection", string(s.kind)),
		)
		return
	}
	s.lastPushed = fingerprint
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), s.pushWait)
	defer cancel()

	if err := s.remote.Push(ctx, snapshot); err != nil {
		// Retried by the next mutation's debounce cycle.
		s.logger.Warn("Remote push failed",
			zap.String("collection", string(s.kind)),
			zap.Error(err),
		)
		s.mu.Lock()
		if s.lastPushed == fingerprint {
			s.lastPushed = ""
		}
		s.mu.Unlock()
	}
}

// Flush pushes any pending snapshot immediately, for shutdown paths.
func (s *Syncer) Flush() {
	s.debouncer.Flush()
}

// Close cancels pending work; the local copy remains on disk.
func (s *Syncer) Close() {
	s.debouncer.Close()
}

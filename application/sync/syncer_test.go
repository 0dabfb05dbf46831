package sync

import (
	"context"
	"errors"
	gosync "sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"cozyberries-backend/domain/collections"
)

// fakeRemote records pushes and serves a scripted remote collection.
type fakeRemote struct {
	mu       gosync.Mutex
	items    collections.Collection
	pushes   []collections.Collection
	fetchErr error
	pushErr  error
}

func (f *fakeRemote) Fetch(ctx context.Context) (collections.Collection, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return f.items.Clone(), nil
}

func (f *fakeRemote) Push(ctx context.Context, items collections.Collection) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.pushErr != nil {
		return f.pushErr
	}
	f.pushes = append(f.pushes, items.Clone())
	f.items = items.Clone()
	return nil
}

func (f *fakeRemote) pushCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.pushes)
}

func (f *fakeRemote) lastPush() collections.Collection {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.pushes) == 0 {
		return nil
	}
	return f.pushes[len(f.pushes)-1]
}

func newTestSyncer(t *testing.T, remote *fakeRemote, debounce time.Duration) *Syncer {
	t.Helper()
	s, err := NewSyncer(collections.KindCart, NewMemoryStore(), remote, debounce, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return s
}

func TestDebounceCollapsesRapidMutations(t *testing.T) {
	remote := &fakeRemote{}
	s := newTestSyncer(t, remote, 100*time.Millisecond)
	require.NoError(t, s.SignIn(context.Background()))

	for i := 0; i < 5; i++ {
		require.NoError(t, s.Add(collections.LineItem{ProductID: "a", Quantity: 1}))
		time.Sleep(10 * time.Millisecond)
	}

	time.Sleep(300 * time.Millisecond)

	assert.Equal(t, 1, remote.pushCount(), "five rapid mutations collapse to one push")
	last := remote.lastPush()
	require.Len(t, last, 1)
	assert.Equal(t, 5, last[0].Quantity, "the push carries the final state")
}

func TestIdenticalSnapshotNotRepushed(t *testing.T) {
	remote := &fakeRemote{}
	s := newTestSyncer(t, remote, 20*time.Millisecond)
	require.NoError(t, s.SignIn(context.Background()))

	require.NoError(t, s.Add(collections.LineItem{ProductID: "a", Quantity: 2}))
	time.Sleep(80 * time.Millisecond)
	require.Equal(t, 1, remote.pushCount())

	// Add then remove leaves the same snapshot; the push is skipped.
	require.NoError(t, s.Add(collections.LineItem{ProductID: "b", Quantity: 1}))
	require.NoError(t, s.Remove("b"))
	time.Sleep(80 * time.Millisecond)

	assert.Equal(t, 1, remote.pushCount())
}

func TestSignInMergeRefreshDoesNotDouble(t *testing.T) {
	remote := &fakeRemote{items: collections.Collection{{ProductID: "a", Quantity: 2}}}
	s := newTestSyncer(t, remote, 20*time.Millisecond)

	require.NoError(t, s.Add(collections.LineItem{ProductID: "a", Quantity: 2}))
	require.NoError(t, s.SignIn(context.Background()))

	items := s.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)

	// Identical merge result means nothing to push.
	time.Sleep(80 * time.Millisecond)
	assert.Zero(t, remote.pushCount())
}

func TestSignInMergeDisjointKeepsBothAndPushes(t *testing.T) {
	remote := &fakeRemote{items: collections.Collection{{ProductID: "b", Quantity: 3}}}
	s := newTestSyncer(t, remote, 20*time.Millisecond)

	require.NoError(t, s.Add(collections.LineItem{ProductID: "a", Quantity: 1}))
	require.NoError(t, s.SignIn(context.Background()))

	items := s.Items()
	require.Len(t, items, 2)
	assert.Equal(t, 1, items[items.IndexOf("a")].Quantity)
	assert.Equal(t, 3, items[items.IndexOf("b")].Quantity)

	time.Sleep(80 * time.Millisecond)
	require.Equal(t, 1, remote.pushCount(), "merged result converges to remote")
	assert.Len(t, remote.lastPush(), 2)
}

func TestSignOutKeepsLocalAndStopsPushing(t *testing.T) {
	remote := &fakeRemote{}
	s := newTestSyncer(t, remote, 20*time.Millisecond)
	require.NoError(t, s.SignIn(context.Background()))

	require.NoError(t, s.Add(collections.LineItem{ProductID: "a", Quantity: 1}))
	s.SignOut()

	require.NoError(t, s.Add(collections.LineItem{ProductID: "b", Quantity: 1}))
	time.Sleep(80 * time.Millisecond)

	assert.Zero(t, remote.pushCount(), "no pushes after sign-out")
	assert.Len(t, s.Items(), 2, "local data survives sign-out")
}

func TestPushFailureRetriedOnNextMutation(t *testing.T) {
	remote := &fakeRemote{pushErr: errors.New("network down")}
	s := newTestSyncer(t, remote, 20*time.Millisecond)
	require.NoError(t, s.SignIn(context.Background()))

	require.NoError(t, s.Add(collections.LineItem{ProductID: "a", Quantity: 1}))
	time.Sleep(80 * time.Millisecond)
	require.Zero(t, remote.pushCount())

	remote.mu.Lock()
	remote.pushErr = nil
	remote.mu.Unlock()

	require.NoError(t, s.Add(collections.LineItem{ProductID: "a", Quantity: 1}))
	time.Sleep(80 * time.Millisecond)

	require.Equal(t, 1, remote.pushCount())
	assert.Equal(t, 2, remote.lastPush()[0].Quantity)
}

func TestLocalSaveFailureAbortsMutation(t *testing.T) {
	remote := &fakeRemote{}
	store := &failingStore{}
	s, err := NewSyncer(collections.KindCart, store, remote, 20*time.Millisecond, zap.NewNop())
	require.NoError(t, err)
	defer s.Close()

	err = s.Add(collections.LineItem{ProductID: "a", Quantity: 1})
	assert.Error(t, err, "local persistence failures surface, never silent loss")
	assert.Empty(t, s.Items())
}

// failingStore loads fine and fails every save.
type failingStore struct{}

func (f *failingStore) Load() (collections.Collection, error) {
	return collections.Collection{}, nil
}

func (f *failingStore) Save(collections.Collection) error {
	return errors.New("disk full")
}

package session

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/dmitrijs2005/dealerdash/internal/client/models"
	"github.com/dmitrijs2005/dealerdash/internal/client/repositories/localstore"
	"github.com/dmitrijs2005/dealerdash/internal/common"
)

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":  "u1",
		"exp": exp.Unix(),
	}).SignedString([]byte("server-secret"))
	require.NoError(t, err)
	return tok
}

func TestStore_StateTransitions(t *testing.T) {
	s := NewStore(newMem(), nil)
	ctx := context.Background()

	assert.Equal(t, Anonymous, s.State())
	assert.Empty(t, s.Token())

	require.NoError(t, s.Set(ctx, "opaque", models.User{ID: "u1", Username: "ann"}))
	assert.Equal(t, Authenticated, s.State())
	assert.True(t, s.IsAuthenticated())
	assert.False(t, s.IsAdmin())
	assert.Equal(t, "opaque", s.Token())

	require.NoError(t, s.UpdateUser(ctx, models.User{ID: "u1", Username: "ann", IsAdmin: true}))
	assert.Equal(t, AuthenticatedAdmin, s.State())

	require.NoError(t, s.Clear(ctx))
	assert.Equal(t, Anonymous, s.State())
	assert.Nil(t, s.Current())
}

func TestStore_SetRejectsEmptyToken(t *testing.T) {
	s := NewStore(newMem(), nil)
	err := s.Set(context.Background(), "", models.User{})
	require.ErrorIs(t, err, common.ErrInvalidToken)
	assert.Equal(t, Anonymous, s.State())
}

func TestStore_ExpiredJWTIsAnonymous(t *testing.T) {
	s := NewStore(newMem(), nil)
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	require.NoError(t, s.Set(context.Background(), signedToken(t, now.Add(time.Minute)), models.User{ID: "u1"}))
	assert.True(t, s.IsAuthenticated())

	now = now.Add(2 * time.Minute)
	assert.False(t, s.IsAuthenticated())
	assert.Empty(t, s.Token(), "expired tokens are not sent")
}

func TestStore_HydrateFromSQLite(t *testing.T) {
	ctx := context.Background()
	db, err := localstore.Open(ctx, filepath.Join(t.TempDir(), "dash.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	repo := localstore.NewSQLiteRepository(db)

	first := NewStore(repo, nil)
	tok := signedToken(t, time.Now().Add(time.Hour))
	require.NoError(t, first.Set(ctx, tok, models.User{ID: "u1", Username: "ann", IsAdmin: true}))

	second := NewStore(repo, nil)
	require.NoError(t, second.Hydrate(ctx))
	assert.Equal(t, AuthenticatedAdmin, second.State())
	assert.Equal(t, "ann", second.Current().User.Username)
	assert.WithinDuration(t, time.Now().Add(time.Hour), second.Current().ExpiresAt, 2*time.Second)
}

func TestStore_HydrateDropsExpired(t *testing.T) {
	mem := newMem()
	mem.data[common.AccessTokenKey] = []byte(signedToken(t, time.Now().Add(-time.Hour)))
	mem.data[common.CurrentUserKey] = []byte(`{"_id":"u1"}`)

	s := NewStore(mem, nil)
	require.NoError(t, s.Hydrate(context.Background()))

	assert.Equal(t, Anonymous, s.State())
	assert.Empty(t, mem.data)
}

func TestStore_HydrateEmptyAndCorruptUser(t *testing.T) {
	s := NewStore(newMem(), nil)
	require.NoError(t, s.Hydrate(context.Background()))
	assert.Equal(t, Anonymous, s.State())

	mem := newMem()
	mem.data[common.AccessTokenKey] = []byte("opaque")
	mem.data[common.CurrentUserKey] = []byte(`{not json`)
	s = NewStore(mem, nil)
	require.NoError(t, s.Hydrate(context.Background()))
	assert.Equal(t, Authenticated, s.State())
}

func TestStore_SubscribersNotifiedSynchronously(t *testing.T) {
	s := NewStore(newMem(), nil)
	ctx := context.Background()

	var events []State
	unsubscribe := s.Subscribe(func(ev Event) { events = append(events, ev.State) })

	require.NoError(t, s.Set(ctx, "t", models.User{ID: "u1", IsAdmin: true}))
	require.Equal(t, []State{AuthenticatedAdmin}, events, "listener ran before Set returned")

	require.NoError(t, s.Clear(ctx))
	require.Equal(t, []State{AuthenticatedAdmin, Anonymous}, events)

	unsubscribe()
	unsubscribe()
	require.NoError(t, s.Set(ctx, "t", models.User{ID: "u1"}))
	assert.Len(t, events, 2)
}

func TestStore_ClearPersistenceFailureStillClearsMemory(t *testing.T) {
	mem := newMem()
	s := NewStore(mem, nil)
	require.NoError(t, s.Set(context.Background(), "t", models.User{ID: "u1"}))

	mem.deleteErr = errors.New("disk I/O error")
	err := s.Clear(context.Background())

	require.Error(t, err)
	assert.Equal(t, Anonymous, s.State())
}

func TestStore_ClearDuringUpdateUserStaysSignedOut(t *testing.T) {
	mem := newMem()
	ctx := context.Background()
	s := NewStore(mem, nil)
	require.NoError(t, s.Set(ctx, "tok", models.User{ID: "u1"}))

	gated := &gatedPersistence{memPersistence: mem, entered: make(chan struct{}), release: make(chan struct{})}
	s.persist = gated

	updated := make(chan error, 1)
	go func() { updated <- s.UpdateUser(ctx, models.User{ID: "u1", Username: "neo"}) }()
	<-gated.entered

	cleared := make(chan error, 1)
	go func() { cleared <- s.Clear(ctx) }()
	time.Sleep(20 * time.Millisecond)
	close(gated.release)

	require.NoError(t, <-updated)
	require.NoError(t, <-cleared)
	assert.Nil(t, s.Current())
	assert.Equal(t, Anonymous, s.State())
	assert.Empty(t, mem.data[common.CurrentUserKey])
	assert.Empty(t, mem.data[common.AccessTokenKey])
}

func TestStore_UpdateUserAfterClearFails(t *testing.T) {
	ctx := context.Background()
	s := NewStore(newMem(), nil)
	require.NoError(t, s.Set(ctx, "tok", models.User{ID: "u1"}))
	require.NoError(t, s.Clear(ctx))

	require.ErrorIs(t, s.UpdateUser(ctx, models.User{ID: "u1"}), ErrNotSignedIn)
}

func TestTokenExpiry(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	assert.True(t, tokenExpiry(signedToken(t, exp)).Equal(exp))
	assert.True(t, tokenExpiry("not-a-jwt").IsZero())
}

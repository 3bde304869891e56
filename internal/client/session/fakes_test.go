package session

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/dmitrijs2005/dealerdash/internal/client/models"
)

type memPersistence struct {
	mu        sync.Mutex
	data      map[string][]byte
	deleteErr error
}

func newMem() *memPersistence { return &memPersistence{data: map[string][]byte{}} }

func (m *memPersistence) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data[key], nil
}

func (m *memPersistence) SetMany(_ context.Context, values map[string][]byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, v := range values {
		m.data[k] = v
	}
	return nil
}

func (m *memPersistence) DeleteMany(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.deleteErr != nil {
		return m.deleteErr
	}
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

type fakeAPI struct {
	token     string
	user      models.User
	signInErr error

	signOutErr   error
	signOutCalls int

	updateReply json.RawMessage
	updateErr   error
	updatedID   string
	changes     any

	deleteErr error
	deletedID string
}

func (f *fakeAPI) SignIn(context.Context, string, string) (string, models.User, error) {
	if f.signInErr != nil {
		return "", models.User{}, f.signInErr
	}
	return f.token, f.user, nil
}

func (f *fakeAPI) SignOut(context.Context) error {
	f.signOutCalls++
	return f.signOutErr
}

func (f *fakeAPI) UpdateUser(_ context.Context, id string, changes any) (json.RawMessage, error) {
	f.updatedID, f.changes = id, changes
	return f.updateReply, f.updateErr
}

func (f *fakeAPI) DeleteUser(_ context.Context, id string) error {
	f.deletedID = id
	return f.deleteErr
}

var errNetwork = errors.New("network down")

// gatedPersistence holds SetMany calls until release is closed.
type gatedPersistence struct {
	*memPersistence
	entered chan struct{}
	release chan struct{}
}

func (g *gatedPersistence) SetMany(ctx context.Context, values map[string][]byte) error {
	g.entered <- struct{}{}
	<-g.release
	return g.memPersistence.SetMany(ctx, values)
}

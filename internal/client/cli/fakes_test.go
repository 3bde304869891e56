package cli

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/dealerdash/internal/client/client"
	"github.com/dmitrijs2005/dealerdash/internal/client/config"
	"github.com/dmitrijs2005/dealerdash/internal/client/models"
	"github.com/dmitrijs2005/dealerdash/internal/client/services"
	"github.com/dmitrijs2005/dealerdash/internal/client/session"
	"github.com/dmitrijs2005/dealerdash/internal/client/storage"
	"github.com/dmitrijs2005/dealerdash/internal/logging"
)

// ------------ helpers ------------

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

type memPersistence struct {
	mu   sync.Mutex
	data map[string][]byte
}

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
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

func stubPassword(t *testing.T, pw string) {
	t.Helper()
	orig := getPassword
	getPassword = func(_ io.Writer) ([]byte, error) { return []byte(pw), nil }
	t.Cleanup(func() { getPassword = orig })
}

var (
	adminUser = models.User{ID: "u1", Username: "admin", Email: "admin@example.com", IsAdmin: true}
	staffUser = models.User{ID: "u2", Username: "staff", Email: "staff@example.com"}
)

type testApp struct {
	*App
	api  *fakeAPI
	auth *fakeAuth
	out  *syncBuffer
}

// newTestApp builds an App over fakes. user, when set, is signed in before
// the app starts; input feeds every prompt.
func newTestApp(t *testing.T, user *models.User, input ...string) *testApp {
	t.Helper()
	ctx := context.Background()

	store := session.NewStore(&memPersistence{data: map[string][]byte{}}, nil)
	if user != nil {
		require.NoError(t, store.Set(ctx, "tok", *user))
	}

	api := &fakeAPI{records: map[string]models.Record{}}
	auth := &fakeAuth{store: store}
	up := stubUploader{}
	out := &syncBuffer{}

	text := strings.Join(input, "\n")
	if len(input) > 0 {
		text += "\n"
	}

	a := &App{
		config: &config.Config{PageSize: 9, MaxConcurrentUploads: 2, MaxUploadSize: 1 << 20},
		store:  store,
		auth:   auth,
		guard:  session.NewGuard(store),
		catalog: services.NewCatalogService(api, up, services.CatalogOptions{
			PageSize: 9,
			UserID:   currentUserID(store),
		}),
		inquiries: services.NewInquiryService(api, 9, logging.Discard()),
		uploader:  up,
		log:       logging.Discard(),
		reader:    bufio.NewReader(strings.NewReader(text)),
		out:       out,
	}
	a.watchSession()
	return &testApp{App: a, api: api, auth: auth, out: out}
}

// ------------ fake API ------------

type apiCall struct {
	Op, Resource, ID string
	Start            int
	Body             any
}

type fakeAPI struct {
	mu      sync.Mutex
	calls   []apiCall
	records map[string]models.Record
	pages   [][]models.Record

	bookings [][]models.Booking
	dealers  []models.DealerApplication
	stats    models.Stats
	err      error
}

func (f *fakeAPI) record(c apiCall) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, c)
}

func (f *fakeAPI) Calls() []apiCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]apiCall(nil), f.calls...)
}

func (f *fakeAPI) ops() []string {
	var out []string
	for _, c := range f.Calls() {
		out = append(out, c.Op)
	}
	return out
}

func page[T any](pages [][]T, start int) []T {
	idx := start / 9
	if idx >= len(pages) {
		return nil
	}
	return pages[idx]
}

func (f *fakeAPI) List(_ context.Context, res client.Resource, start int) ([]models.Record, error) {
	f.record(apiCall{Op: "list", Resource: res.Name, Start: start})
	if f.err != nil {
		return nil, f.err
	}
	return page(f.pages, start), nil
}

func (f *fakeAPI) Get(_ context.Context, res client.Resource, id string) (models.Record, error) {
	f.record(apiCall{Op: "get", Resource: res.Name, ID: id})
	rec, ok := f.records[id]
	if !ok {
		return nil, client.ErrNotFound
	}
	return rec, nil
}

func (f *fakeAPI) Create(_ context.Context, res client.Resource, body any) (json.RawMessage, error) {
	f.record(apiCall{Op: "create", Resource: res.Name, Body: body})
	if f.err != nil {
		return nil, f.err
	}
	return json.RawMessage(`{"_id":"new"}`), nil
}

func (f *fakeAPI) Update(_ context.Context, res client.Resource, id, _ string, body any) (json.RawMessage, error) {
	f.record(apiCall{Op: "update", Resource: res.Name, ID: id, Body: body})
	if f.err != nil {
		return nil, f.err
	}
	return json.RawMessage(`{"_id":"` + id + `"}`), nil
}

func (f *fakeAPI) Delete(_ context.Context, res client.Resource, id, _ string) error {
	f.record(apiCall{Op: "delete", Resource: res.Name, ID: id})
	return f.err
}

func (f *fakeAPI) DeleteVehicleImages(_ context.Context, id string, urls []string) error {
	f.record(apiCall{Op: "delete-images", Resource: "vehicles", ID: id, Body: urls})
	return f.err
}

func (f *fakeAPI) Stats(context.Context) (models.Stats, error) {
	f.record(apiCall{Op: "stats"})
	return f.stats, f.err
}

func (f *fakeAPI) Bookings(_ context.Context, start int) ([]models.Booking, error) {
	f.record(apiCall{Op: "bookings", Start: start})
	if f.err != nil {
		return nil, f.err
	}
	return page(f.bookings, start), nil
}

func (f *fakeAPI) Dealers(context.Context) ([]models.DealerApplication, error) {
	f.record(apiCall{Op: "dealers"})
	return f.dealers, f.err
}

// ------------ fake auth ------------

var errBadCredentials = errors.New("invalid credentials")

type fakeAuth struct {
	store *session.Store

	mu           sync.Mutex
	signOutCalls int
	changes      map[string]any
}

func (f *fakeAuth) SignIn(ctx context.Context, email, password string) (*session.Session, error) {
	if password != "secret" {
		return nil, errBadCredentials
	}
	u := staffUser
	if strings.HasPrefix(email, "admin") {
		u = adminUser
	}
	if err := f.store.Set(ctx, "tok", u); err != nil {
		return nil, err
	}
	return f.store.Current(), nil
}

func (f *fakeAuth) SignOut(ctx context.Context) error {
	f.mu.Lock()
	f.signOutCalls++
	f.mu.Unlock()
	return f.store.Clear(ctx)
}

func (f *fakeAuth) DeleteAccount(ctx context.Context) error {
	return f.store.Clear(ctx)
}

func (f *fakeAuth) ProfileSubmitter() func(ctx context.Context, changes map[string]any) (json.RawMessage, error) {
	return func(ctx context.Context, changes map[string]any) (json.RawMessage, error) {
		f.mu.Lock()
		f.changes = changes
		f.mu.Unlock()

		u := f.store.Current().User
		if v, ok := changes["username"].(string); ok {
			u.Username = v
		}
		if v, ok := changes["profilePicture"].(string); ok {
			u.ProfilePicture = v
		}
		if err := f.store.UpdateUser(ctx, u); err != nil {
			return nil, err
		}
		return json.Marshal(u)
	}
}

// ------------ uploader ------------

type stubUploader struct{}

func (stubUploader) Upload(_ context.Context, blob storage.Blob, progress storage.ProgressFunc) (string, error) {
	if strings.HasPrefix(blob.Name, "bad") {
		return "", errors.New("rejected")
	}
	if progress != nil {
		progress(blob.Size, blob.Size)
	}
	return "https://cdn.example.com/" + blob.Name, nil
}

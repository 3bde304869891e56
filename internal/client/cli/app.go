package cli

import (
	"bufio"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/dealerdash/internal/client/client"
	"github.com/dmitrijs2005/dealerdash/internal/client/config"
	"github.com/dmitrijs2005/dealerdash/internal/client/models"
	"github.com/dmitrijs2005/dealerdash/internal/client/repositories/localstore"
	"github.com/dmitrijs2005/dealerdash/internal/client/services"
	"github.com/dmitrijs2005/dealerdash/internal/client/session"
	"github.com/dmitrijs2005/dealerdash/internal/client/storage"
	"github.com/dmitrijs2005/dealerdash/internal/logging"

	_ "modernc.org/sqlite"
)

// AuthService is the part of session.Service the pages use.
type AuthService interface {
	SignIn(ctx context.Context, email, password string) (*session.Session, error)
	SignOut(ctx context.Context) error
	DeleteAccount(ctx context.Context) error
	ProfileSubmitter() func(ctx context.Context, changes map[string]any) (json.RawMessage, error)
}

type App struct {
	config    *config.Config
	store     *session.Store
	auth      AuthService
	guard     *session.Guard
	catalog   services.CatalogService
	inquiries services.InquiryService
	uploader  storage.Uploader
	log       logging.Logger
	db        *sql.DB

	reader *bufio.Reader
	out    io.Writer

	// page is the route currently shown; more loads the next page of it.
	page string
	more func(ctx context.Context) error

	records     *services.Paginator[models.Record]
	recordsOf   string
	bookingList *services.Paginator[models.Booking]
}

// NewApp opens the local store, restores the saved session and wires the
// API client, uploader and services.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	db, err := localstore.Open(ctx, c.DatabasePath)
	if err != nil {
		log.Error(ctx, "error initializing database", "error", err)
		return nil, err
	}

	store := session.NewStore(localstore.NewSQLiteRepository(db), log)
	if err := store.Hydrate(ctx); err != nil {
		log.Warn(ctx, "could not restore session", "error", err)
	}

	api := client.NewHTTPClient(c.APIBaseURL, c.RequestTimeout, store, log)

	uploader, err := newUploader(ctx, c, api)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	catalog := services.NewCatalogService(api, uploader, services.CatalogOptions{
		PageSize:      c.PageSize,
		MaxConcurrent: c.MaxConcurrentUploads,
		MaxBlobSize:   c.MaxUploadSize,
		UserID:        currentUserID(store),
		Log:           log,
	})

	a := &App{
		config:    c,
		store:     store,
		auth:      session.NewService(api, store, log),
		guard:     session.NewGuard(store),
		catalog:   catalog,
		inquiries: services.NewInquiryService(api, c.PageSize, log),
		uploader:  uploader,
		log:       log,
		db:        db,
		reader:    bufio.NewReader(os.Stdin),
		out:       &lockedWriter{w: os.Stdout},
	}
	a.watchSession()
	return a, nil
}

func newUploader(ctx context.Context, c *config.Config, api *client.HTTPClient) (storage.Uploader, error) {
	switch c.StorageBackend {
	case config.StorageS3:
		return storage.NewS3Uploader(ctx, c.S3)
	case config.StorageRelay, "":
		return storage.NewRelayUploader(api), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", c.StorageBackend)
	}
}

func currentUserID(store *session.Store) func() string {
	return func() string {
		if cur := store.Current(); cur != nil {
			return cur.User.ID
		}
		return ""
	}
}

// watchSession sends the user back to sign-in whenever the session ends,
// whichever page ended it.
func (a *App) watchSession() func() {
	return a.store.Subscribe(func(e session.Event) {
		if e.State == session.Anonymous && a.page != session.RouteSignIn {
			a.navigate(session.RouteSignIn)
			fmt.Fprintln(a.out, "Signed out.")
		}
	})
}

func (a *App) Run(ctx context.Context) {
	defer a.Close()
	a.Root(ctx)
}

// Root prints the banner and runs the REPL until exit or end of input.
func (a *App) Root(ctx context.Context) {
	fmt.Fprintln(a.out, "dealerdash admin (type 'help' for commands)")
	if a.store.IsAuthenticated() {
		a.page = "stats"
	} else {
		a.page = session.RouteSignIn
	}
	runREPL(ctx, a, a.getStatus, a.reader)
}

func (a *App) Close() {
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.log.Warn(context.Background(), "close local store", "error", err)
		}
	}
}

func (a *App) getStatus() string {
	s := a.page
	if cur := a.store.Current(); cur != nil {
		who := displayName(cur)
		if s != "" {
			s = who + " " + s
		} else {
			s = who
		}
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

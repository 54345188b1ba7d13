// Package server initializes and runs the handshare API server. It wires
// configuration, the repository manager, blob storage and the HTTP
// endpoint, and handles graceful shutdown on OS signals.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"

	"github.com/connectinghands/handshare/internal/filex"
	"github.com/connectinghands/handshare/internal/logging"
	"github.com/connectinghands/handshare/internal/server/config"
	"github.com/connectinghands/handshare/internal/server/handmodels"
	"github.com/connectinghands/handshare/internal/server/httpapi"
	"github.com/connectinghands/handshare/internal/server/sessions"
	"github.com/connectinghands/handshare/internal/server/shared/db"
	"github.com/connectinghands/handshare/internal/server/storage"
	"github.com/connectinghands/handshare/internal/server/users"
)

type App struct {
	config           *config.Config
	logger           logging.Logger
	userService      *users.Service
	sessionService   *sessions.Service
	handModelService *handmodels.Service
	downloads        httpapi.Downloader
}

func newBlobStore(c *config.Config) (storage.BlobStore, httpapi.Downloader, error) {
	switch c.StorageBackend {
	case "s3":
		store := storage.NewS3Store(storage.S3Config{
			RootUser:     c.S3RootUser,
			RootPassword: c.S3RootPassword,
			Bucket:       c.S3Bucket,
			Region:       c.S3Region,
			BaseEndpoint: c.S3BaseEndpoint,
			URLTTL:       c.DownloadURLTTL,
		})
		return store, nil, nil
	case "local":
		dir := c.StorageDir
		if !filepath.IsAbs(dir) {
			d, err := filex.EnsureSubdDir(dir)
			if err != nil {
				return nil, nil, err
			}
			dir = d
		}
		store, err := storage.NewLocalStore(dir, []byte(c.SigningSecret), c.DownloadURLTTL, c.PublicBaseURL)
		if err != nil {
			return nil, nil, err
		}
		return store, store, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage backend: %s", c.StorageBackend)
	}
}

func NewApp(c *config.Config) (*App, error) {

	slogger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(slogger)

	rm, err := db.NewPostgresRepositoryManager(c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	blobs, downloads, err := newBlobStore(c)
	if err != nil {
		return nil, fmt.Errorf("storage init error: %w", err)
	}

	us := users.NewService(rm.Users())
	hs := handmodels.NewService(rm.HandModels(), rm.Sessions(), rm.Users(), blobs, c.MaxModelSizeBytes)
	ss := sessions.NewService(rm.Sessions(), rm.Users(), rm.HandModels(), blobs, c.ShareCodeLength)

	return &App{
		config:           c,
		logger:           logger,
		userService:      us,
		sessionService:   ss,
		handModelService: hs,
		downloads:        downloads,
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {

	s, err := httpapi.NewServer(app.config.EndpointAddr, app.logger,
		app.userService, app.sessionService, app.handModelService,
		app.downloads, app.config.MaxModelSizeBytes)

	if err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	} else {

		if err := s.Run(ctx); err != nil {
			app.logger.Error(ctx, err.Error())
			cancelFunc()
		}
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()
}

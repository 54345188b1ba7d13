package cli

import (
	"bufio"
	"context"
	"log"
	"os"

	"github.com/connectinghands/handshare/internal/client/api"
	"github.com/connectinghands/handshare/internal/client/config"
	"github.com/connectinghands/handshare/internal/client/models"
	"github.com/connectinghands/handshare/internal/client/poller"
	"github.com/connectinghands/handshare/internal/client/repositories/state"
	"github.com/connectinghands/handshare/internal/client/sharing"
	"github.com/connectinghands/handshare/internal/client/store"

	_ "modernc.org/sqlite"
)

// shareService is the slice of the sharing service the commands need.
// The real sharing.Service satisfies it; tests provide stubs.
type shareService interface {
	State() store.State
	Resume(ctx context.Context) error
	CreateUser(ctx context.Context, displayName string) (*models.User, error)
	CreateSession(ctx context.Context) (*models.Session, error)
	JoinSession(ctx context.Context, shareCode string) (*models.Session, error)
	SendModel(ctx context.Context, path string) (*models.HandModel, error)
	PollOnce(ctx context.Context) (store.State, error)
	Latest(ctx context.Context) (*models.HandModel, error)
	Confirm(ctx context.Context) (*models.HandModel, error)
}

type App struct {
	config  *config.Config
	service shareService
	watcher *poller.Poller
	reader  *bufio.Reader
}

func NewApp(c *config.Config) (*App, error) {

	ctx := context.Background()

	db, err := state.OpenDatabase(ctx, c.StateDBFile)
	if err != nil {
		log.Printf("error initializing state database: %s", err.Error())
		return nil, err
	}

	apiClient := api.NewClient(c.ServerBaseURL, c.RequestTimeout)
	svc := sharing.NewService(apiClient, store.New(), state.NewSQLiteRepository(db))

	app := &App{
		config:  c,
		service: svc,
		reader:  bufio.NewReader(os.Stdin),
	}
	app.watcher = poller.New(c.PollInterval, app.watchTick)

	return app, nil
}

// watchTick is one round of the watch loop. A freshly advanced cursor
// means a partner model arrived.
func (a *App) watchTick(ctx context.Context) {
	before := a.service.State().Cursor

	st, err := a.service.PollOnce(ctx)
	if err != nil {
		return
	}

	if st.Cursor != before && st.LatestModel != nil {
		printlnFn("New hand model received:", st.LatestModel.ID)
	}
}

func (a *App) hasUser() bool {
	return a.service.State().User != nil
}

func (a *App) Run(ctx context.Context) {

	log.Println("Welcome to handshare CLI (type 'help' for commands)")

	if err := a.service.Resume(ctx); err != nil {
		log.Printf("resume failed: %v", err)
	} else if st := a.service.State(); st.User != nil {
		log.Printf("Resumed as %s", st.User.DisplayName)
	}

	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.getStatus, scanner)

	a.watcher.Stop()
}

func (a *App) getStatus() string {
	st := a.service.State()

	s := ""
	if st.User != nil {
		s = st.User.DisplayName
	}
	if st.Session != nil {
		s += " " + st.Session.ShareCode
		if st.Session.Paired() {
			s += " paired"
		} else {
			s += " waiting"
		}
	}
	return s
}

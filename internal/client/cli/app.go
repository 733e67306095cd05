package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/studyhub/internal/client/client"
	"github.com/dmitrijs2005/studyhub/internal/client/config"
	"github.com/dmitrijs2005/studyhub/internal/client/drag"
	"github.com/dmitrijs2005/studyhub/internal/client/events"
	"github.com/dmitrijs2005/studyhub/internal/client/repositories/materials"
	"github.com/dmitrijs2005/studyhub/internal/client/services"
	"github.com/dmitrijs2005/studyhub/internal/logging"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"
)

type App struct {
	config   *config.Config
	client   client.Client
	log      logging.Logger
	registry prometheus.Gatherer

	authService     services.AuthService
	materialService services.MaterialService
	setService      services.SetService
	commentService  services.CommentService
	shareService    services.ShareService
	drag            *drag.Controller

	mu  sync.Mutex
	cwd *int64

	reader *bufio.Reader
	out    io.Writer
}

// NewApp wires the HTTP client, the stores and the services.
func NewApp(c *config.Config) (*App, error) {
	u, err := url.Parse(c.APIBaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("invalid API base URL %q", c.APIBaseURL)
	}

	log := logging.New(c.LogLevel, os.Stderr)
	reg := prometheus.NewRegistry()

	apiClient := client.NewHTTPClient(c.APIBaseURL,
		client.WithTimeout(c.RequestTimeout),
		client.WithRetries(c.MaxRetries, c.RetryBaseDelay),
		client.WithLogger(log),
		client.WithMetrics(client.NewMetrics(reg)),
	)

	return newApp(c, apiClient, log, reg, os.Stdin, os.Stdout), nil
}

func newApp(c *config.Config, apiClient client.Client, log logging.Logger, reg prometheus.Gatherer, in io.Reader, out io.Writer) *App {
	bus := events.NewBus()
	as := services.NewAuthService(apiClient, log)
	ms := services.NewMaterialService(apiClient, materials.NewMemoryRepository(), bus, log, c.RootName)
	ss := services.NewSetService(apiClient, ms, bus, log)

	a := &App{
		config:          c,
		client:          apiClient,
		log:             log,
		registry:        reg,
		authService:     as,
		materialService: ms,
		setService:      ss,
		commentService:  services.NewCommentService(apiClient, ss, as, log),
		shareService:    services.NewShareService(apiClient, ss, bus, log),
		drag:            drag.NewController(ms, log),
		reader:          bufio.NewReader(in),
		out:             out,
	}
	bus.Subscribe(events.MaterialsDeleted, a.onMaterialsDeleted)
	return a
}

// onMaterialsDeleted leaves a deleted folder and closes a deleted set.
func (a *App) onMaterialsDeleted(e events.Event) {
	gone := make(map[int64]bool, len(e.IDs))
	for _, id := range e.IDs {
		gone[id] = true
	}

	a.mu.Lock()
	if a.cwd != nil && gone[*a.cwd] {
		a.cwd = nil
	}
	a.mu.Unlock()

	if view, ok := a.setService.Current(); ok && gone[view.ID] {
		a.setService.Close()
	}
}

// Run drives the interactive session. SIGINT, SIGTERM and SIGQUIT cancel
// ctx, aborting any request in flight, and end the session.
func (a *App) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer a.client.Close()

	a.initSignalHandler(cancel)

	done := make(chan struct{})
	go func() {
		defer close(done)
		a.Root(ctx)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		fmt.Fprintln(a.out)
		a.log.Info(ctx, "session interrupted")
	}
}

func (a *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (a *App) isLoggedIn() bool {
	return a.authService.LoggedIn()
}

func (a *App) currentFolder() *int64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.cwd == nil {
		return nil
	}
	id := *a.cwd
	return &id
}

func (a *App) setCurrentFolder(id *int64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.cwd = id
}

// bootstrap loads the material tree and the share inbox in parallel.
func (a *App) bootstrap(ctx context.Context) error {
	var pending int

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return a.materialService.Load(gctx)
	})
	g.Go(func() error {
		list, err := a.shareService.Pending(gctx)
		pending = len(list)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	if pending > 0 {
		fmt.Fprintln(a.out, notice(fmt.Sprintf("%s waiting in your inbox (type 'inbox')", plural(pending, "shared item"))))
	}
	return nil
}

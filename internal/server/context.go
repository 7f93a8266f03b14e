package server

import (
	"context"
	"log/slog"
	"sync"

	"github.com/averyhq/avery/internal/availability"
	"github.com/averyhq/avery/internal/calendar"
	"github.com/averyhq/avery/internal/gmail"
	"github.com/averyhq/avery/internal/identity"
	"github.com/averyhq/avery/internal/instrumentation"
	"github.com/averyhq/avery/internal/logging"
	"github.com/averyhq/avery/internal/profile"
)

// ServerContext holds the shared state for the MCP server: the profile
// store, the identity resolver, the availability engine and cached Google
// clients keyed by account email.
type ServerContext struct {
	ctx    context.Context
	cancel context.CancelFunc

	store    *profile.Store
	resolver *identity.Resolver
	engine   *availability.Engine

	calendarClients map[string]calendar.Transport // keyed by account email
	gmailClients    map[string]*gmail.Client      // keyed by account email

	provider *instrumentation.Provider
	metrics  *instrumentation.Metrics
	audit    *instrumentation.AuditLogger
	logger   *slog.Logger

	mu       sync.RWMutex
	shutdown bool
}

// Options configures a ServerContext.
type Options struct {
	// ProfileDir is the directory holding user profile records.
	ProfileDir string

	// EngineConfig tunes the availability engine.
	EngineConfig availability.Config

	// Provider carries metrics and tracing. Nil disables instrumentation.
	Provider *instrumentation.Provider

	// Audit receives tool invocation audit events. Nil disables auditing.
	Audit *instrumentation.AuditLogger

	Logger *slog.Logger
}

// NewServerContext creates a new server context. Google clients are
// lazily created on first use per account email; a missing token surfaces
// as an error from the tool that needed it, not at startup.
func NewServerContext(ctx context.Context, opts Options) (*ServerContext, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	store, err := profile.NewStore(opts.ProfileDir, logger)
	if err != nil {
		return nil, err
	}
	resolver := identity.NewResolver(store, logger)

	shutdownCtx, cancel := context.WithCancel(ctx)

	sc := &ServerContext{
		ctx:             shutdownCtx,
		cancel:          cancel,
		store:           store,
		resolver:        resolver,
		calendarClients: make(map[string]calendar.Transport),
		gmailClients:    make(map[string]*gmail.Client),
		provider:        opts.Provider,
		audit:           opts.Audit,
		logger:          logger,
	}
	sc.engine = availability.NewEngine(store, resolver, sc.CalendarTransport, opts.EngineConfig, logger)

	return sc, nil
}

// Context returns the server context.
func (sc *ServerContext) Context() context.Context {
	return sc.ctx
}

// Store returns the profile store.
func (sc *ServerContext) Store() *profile.Store {
	return sc.store
}

// Resolver returns the identity resolver.
func (sc *ServerContext) Resolver() *identity.Resolver {
	return sc.resolver
}

// Engine returns the availability engine.
func (sc *ServerContext) Engine() *availability.Engine {
	return sc.engine
}

// Logger returns the structured logger.
func (sc *ServerContext) Logger() *slog.Logger {
	return sc.logger
}

// Metrics returns the metrics recorder, or nil when instrumentation is
// disabled.
func (sc *ServerContext) Metrics() *instrumentation.Metrics {
	if sc.metrics != nil {
		return sc.metrics
	}
	if sc.provider == nil {
		return nil
	}
	return sc.provider.Metrics()
}

// SetMetrics overrides the metrics recorder. Used by tests.
func (sc *ServerContext) SetMetrics(metrics *instrumentation.Metrics) {
	sc.metrics = metrics
}

// Audit returns the audit logger, or nil when auditing is disabled.
func (sc *ServerContext) Audit() *instrumentation.AuditLogger {
	return sc.audit
}

// CalendarTransport returns a calendar transport for the given account
// email, creating and caching one on first use. It satisfies
// calendar.TransportFactory.
func (sc *ServerContext) CalendarTransport(ctx context.Context, email string) (calendar.Transport, error) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if client, ok := sc.calendarClients[email]; ok {
		return client, nil
	}

	client, err := calendar.NewClient(sc.ctx, email)
	if err != nil {
		sc.logger.Warn("failed to create calendar client",
			logging.UserHash(email), logging.Err(err))
		return nil, err
	}

	sc.calendarClients[email] = client
	return client, nil
}

// GmailClientForEmail returns the Gmail client for the given account
// email, creating and caching one on first use.
func (sc *ServerContext) GmailClientForEmail(email string) (*gmail.Client, error) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if client, ok := sc.gmailClients[email]; ok {
		return client, nil
	}

	client, err := gmail.NewClient(sc.ctx, email)
	if err != nil {
		sc.logger.Warn("failed to create gmail client",
			logging.UserHash(email), logging.Err(err))
		return nil, err
	}

	sc.gmailClients[email] = client
	return client, nil
}

// SetCalendarTransport sets the calendar transport for an account email.
// Used by tests to inject fakes.
func (sc *ServerContext) SetCalendarTransport(email string, transport calendar.Transport) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.calendarClients[email] = transport
}

// IsShutdown returns whether the server has been shutdown.
func (sc *ServerContext) IsShutdown() bool {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.shutdown
}

// Shutdown shuts down the server context.
func (sc *ServerContext) Shutdown() error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.shutdown {
		return nil
	}

	sc.shutdown = true
	sc.cancel()
	return nil
}

package httpserver

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"
)

type config struct {
	addr            string
	readTimeout     time.Duration
	writeTimeout    time.Duration
	idleTimeout     time.Duration
	shutdownTimeout time.Duration
	logger          *slog.Logger
}

func defaultConfig() *config {
	return &config{
		addr:            ":8080",
		shutdownTimeout: 10 * time.Second,
	}
}

// Server wraps http.Server and splits its lifecycle into Listen, Serve and
// Shutdown, so bind failures can be told apart from serve failures and the
// drain can be driven from outside.
type Server struct {
	cfg *config

	mu      sync.Mutex
	srv     *http.Server
	ln      net.Listener
	serving bool

	shutdownOnce sync.Once
	shutdownErr  error
}

// New returns a configured Server.
func New(opts ...Option) *Server {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.New(slog.DiscardHandler)
	}
	return &Server{cfg: cfg}
}

// Listen binds the configured address. Errors wrap ErrStart.
func (s *Server) Listen() (net.Addr, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ln != nil {
		return nil, errors.Join(ErrStart, errors.New("server already listening"))
	}

	srv := &http.Server{
		Addr:         s.cfg.addr,
		ReadTimeout:  s.cfg.readTimeout,
		WriteTimeout: s.cfg.writeTimeout,
		IdleTimeout:  s.cfg.idleTimeout,
		ErrorLog:     slog.NewLogLogger(s.cfg.logger.Handler(), slog.LevelWarn),
	}

	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return nil, errors.Join(ErrStart, err)
	}
	s.srv = srv
	s.ln = ln
	return ln.Addr(), nil
}

// Addr returns the bound address, or nil before Listen.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln == nil {
		return nil
	}
	return s.ln.Addr()
}

// Serve handles connections on the bound listener until Shutdown. It returns
// nil after a shutdown and an error wrapping ErrServe otherwise.
func (s *Server) Serve(handler http.Handler) error {
	if handler == nil {
		handler = http.NotFoundHandler()
	}

	s.mu.Lock()
	if s.ln == nil {
		s.mu.Unlock()
		return errors.Join(ErrServe, ErrNotListening)
	}
	if s.serving {
		s.mu.Unlock()
		return errors.Join(ErrServe, errors.New("server already serving"))
	}
	s.serving = true
	srv, ln := s.srv, s.ln
	srv.Handler = handler
	s.mu.Unlock()

	s.cfg.logger.Debug("serving", slog.String("addr", ln.Addr().String()))

	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Join(ErrServe, err)
	}
	return nil
}

// Run binds, serves and shuts down when ctx is cancelled.
func (s *Server) Run(ctx context.Context, handler http.Handler) error {
	if _, err := s.Listen(); err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() { errCh <- s.Serve(handler) }()

	select {
	case <-ctx.Done():
		shutdownErr := s.Shutdown(context.Background())
		return errors.Join(<-errCh, shutdownErr)
	case err := <-errCh:
		return err
	}
}

// Shutdown stops accepting connections and waits for in-flight requests for
// at most the shutdown timeout. Connections still open after that are closed
// and ErrDrainTimeout is returned. Repeated calls return the first result.
func (s *Server) Shutdown(ctx context.Context) error {
	s.shutdownOnce.Do(func() {
		s.mu.Lock()
		srv, ln, serving := s.srv, s.ln, s.serving
		s.mu.Unlock()
		if srv == nil {
			return
		}

		ctx, cancel := context.WithTimeout(ctx, s.cfg.shutdownTimeout)
		defer cancel()

		err := srv.Shutdown(ctx)
		if !serving {
			_ = ln.Close()
		}
		switch {
		case err == nil, errors.Is(err, http.ErrServerClosed):
		case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
			s.cfg.logger.WarnContext(ctx, "drain deadline exceeded, closing remaining connections",
				slog.Duration("timeout", s.cfg.shutdownTimeout))
			s.shutdownErr = errors.Join(ErrDrainTimeout, srv.Close())
		default:
			s.shutdownErr = errors.Join(ErrShutdown, err)
		}
	})
	return s.shutdownErr
}

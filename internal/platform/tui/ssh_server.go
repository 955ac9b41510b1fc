package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"

	"github.com/vovakirdan/wayhome/internal/config"
	"github.com/vovakirdan/wayhome/internal/core"
	"github.com/vovakirdan/wayhome/internal/level"
	"github.com/vovakirdan/wayhome/internal/storage"
)

const shutdownGrace = 10 * time.Second

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	// Address is the host:port to listen on. Defaults to ":23234".
	Address string

	// HostKeyPath is the host key file, generated when missing.
	// Defaults to host_key next to the database.
	HostKeyPath string

	// DBPath is the shared scores database. Defaults to the game config's.
	DBPath string

	// IdleTimeout disconnects idle sessions. Zero keeps them forever.
	IdleTimeout time.Duration

	// Levels are offered in the session menu.
	Levels []level.Level

	// Game is the simulation configuration every session plays with.
	Game config.Config

	// Logger receives server events. Nil logs to stderr.
	Logger *log.Logger
}

// SSHServer hosts the level menu session over SSH. Every connection plays
// its own engine; scores go to one shared store.
type SSHServer struct {
	config SSHServerConfig
	server *ssh.Server
	store  *storage.Store
	logger *log.Logger
}

// NewSSHServer validates cfg, opens the score store and prepares the
// listener. Storage failures are logged and the server runs without scores.
func NewSSHServer(cfg SSHServerConfig) (*SSHServer, error) {
	if len(cfg.Levels) == 0 {
		return nil, errors.New("no levels to serve")
	}
	if cfg.Address == "" {
		cfg.Address = ":23234"
	}
	if cfg.DBPath == "" {
		cfg.DBPath = cfg.Game.Storage.DBPath
	}
	if cfg.Logger == nil {
		cfg.Logger = log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true, Prefix: "wayhome-ssh"})
	}

	hostKey, err := hostKeyPath(cfg)
	if err != nil {
		return nil, err
	}

	srv := &SSHServer{config: cfg, logger: cfg.Logger}
	if srv.store, err = storage.Open(cfg.DBPath); err != nil {
		srv.logger.Warn("scores disabled", "db", cfg.DBPath, "err", err)
		srv.store = nil
	}

	opts := []ssh.Option{
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKey),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.loggingMiddleware,
		),
	}
	if cfg.IdleTimeout > 0 {
		opts = append(opts, wish.WithIdleTimeout(cfg.IdleTimeout))
	}

	if srv.server, err = wish.NewServer(opts...); err != nil {
		srv.closeStore()
		return nil, fmt.Errorf("cannot create SSH server: %w", err)
	}
	return srv, nil
}

// hostKeyPath resolves the key location and makes sure its directory exists.
func hostKeyPath(cfg SSHServerConfig) (string, error) {
	path := cfg.HostKeyPath
	if path == "" {
		dir := filepath.Dir(cfg.DBPath)
		if len(dir) > 0 && dir[0] == '~' {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("cannot get home directory: %w", err)
			}
			dir = filepath.Join(home, dir[1:])
		}
		path = filepath.Join(dir, "host_key")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return "", fmt.Errorf("cannot create host key directory: %w", err)
	}
	return path, nil
}

// teaHandler starts a menu session sized to the client's terminal.
func (s *SSHServer) teaHandler(sess ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sess.Pty()
	if !ok {
		s.logger.Warn("no PTY requested", "user", sess.User())
		return nil, nil
	}

	rc := core.RuntimeConfig{
		ScreenW:  pty.Window.Width,
		ScreenH:  pty.Window.Height,
		TickRate: s.config.Game.Sim.TickRate,
	}
	// Save slots are global, so remote players only keep scores.
	model := NewSessionModel(SessionOptions{
		Levels: s.config.Levels,
		Game:   s.config.Game,
		Store:  s.store,
		Logger: s.logger.With("user", sess.User()),
		NoSave: true,
	}, rc)
	return model, []tea.ProgramOption{tea.WithAltScreen()}
}

func (s *SSHServer) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		start := time.Now()
		s.logger.Info("connected", "user", sess.User(), "remote", sess.RemoteAddr().String())
		next(sess)
		s.logger.Info("disconnected", "user", sess.User(), "after", time.Since(start).Round(time.Second))
	}
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *SSHServer) ListenAndServe(ctx context.Context) error {
	s.logger.Info("listening", "address", s.config.Address, "levels", len(s.config.Levels))

	errc := make(chan error, 1)
	go func() {
		errc <- s.server.ListenAndServe()
	}()

	select {
	case err := <-errc:
		s.closeStore()
		if errors.Is(err, ssh.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	return s.Shutdown()
}

// Shutdown stops accepting sessions and waits for open ones up to a grace
// period.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	defer s.closeStore()
	return s.server.Shutdown(ctx)
}

func (s *SSHServer) closeStore() {
	if s.store != nil {
		s.store.Close()
		s.store = nil
	}
}

// Addr returns the configured listen address.
func (s *SSHServer) Addr() string {
	return s.config.Address
}

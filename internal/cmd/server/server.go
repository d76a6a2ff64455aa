// Package server wires configuration and startup for the tasklist service.
package server

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/davrell/tasklist/internal/api"
	"github.com/davrell/tasklist/internal/platform/config"
	"github.com/davrell/tasklist/internal/platform/otel"
	"github.com/davrell/tasklist/internal/storage/sqlite"
	"github.com/davrell/tasklist/internal/token"
)

// Config holds server command configuration. It is constructed once at
// process start and passed to the pieces that need it; nothing reads
// ambient globals after startup.
type Config struct {
	Addr        string        `env:"TASKLIST_HTTP_ADDR" envDefault:"localhost:8080"`
	DBPath      string        `env:"TASKLIST_DB_PATH" envDefault:"data/tasklist.db"`
	TokenSecret string        `env:"TASKLIST_TOKEN_SECRET"`
	TokenTTL    time.Duration `env:"TASKLIST_TOKEN_TTL" envDefault:"1h"`
}

// ParseConfig layers flags over environment variables into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := config.ParseEnv(&cfg); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "The HTTP listen address")
	fs.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "The SQLite database path")
	fs.DurationVar(&cfg.TokenTTL, "token-ttl", cfg.TokenTTL, "Bearer token lifetime")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if strings.TrimSpace(cfg.TokenSecret) == "" {
		return Config{}, fmt.Errorf("TASKLIST_TOKEN_SECRET is required")
	}
	return cfg, nil
}

// Run starts the tasklist server and blocks until the context ends or the
// listener fails.
func Run(ctx context.Context, cfg Config) error {
	if ctx == nil {
		ctx = context.Background()
	}

	otelShutdown, err := otel.Setup(ctx, "tasklist")
	if err != nil {
		return fmt.Errorf("setup tracing: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = otelShutdown(shutdownCtx)
	}()

	store, err := openStore(cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Printf("close store: %v", err)
		}
	}()

	tokens, err := token.NewService([]byte(cfg.TokenSecret), cfg.TokenTTL, nil)
	if err != nil {
		return fmt.Errorf("build token service: %w", err)
	}

	apiServer := api.NewServer(store, store, tokens)

	listener, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", cfg.Addr, err)
	}
	httpServer := &http.Server{Handler: apiServer.Handler()}

	log.Printf("tasklist server listening at %v", listener.Addr())
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- httpServer.Serve(listener)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown HTTP: %w", err)
		}
		<-serveErr
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve HTTP: %w", err)
	}
}

func openStore(path string) (*sqlite.Store, error) {
	if dir := filepath.Dir(filepath.Clean(path)); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage dir: %w", err)
		}
	}
	store, err := sqlite.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite store: %w", err)
	}
	return store, nil
}

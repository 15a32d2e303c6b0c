// Package main is the entry point for the vbox-cpi MCP server.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"github.com/virtforge/vbox-cpi/internal/auth"
	"github.com/virtforge/vbox-cpi/internal/config"
	"github.com/virtforge/vbox-cpi/internal/cpi"
	"github.com/virtforge/vbox-cpi/internal/safety"
	"github.com/virtforge/vbox-cpi/internal/tools"
	"github.com/virtforge/vbox-cpi/internal/vbox"
)

const defaultConfigPath = "/config/vbox-cpi.yaml"

func main() {
	cfg := loadConfig()
	config.ApplyEnvOverrides(cfg)

	if cfg.Server.AuthToken == "" {
		log.Printf("warning: no auth token configured; running without authentication")
	}

	// Open audit log writer if enabled.
	var auditLogger *safety.AuditLogger
	if cfg.Audit.Enabled {
		f, err := os.OpenFile(cfg.Audit.LogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			log.Printf("warning: could not open audit log %q: %v; audit logging disabled", cfg.Audit.LogPath, err)
		} else {
			auditLogger = safety.NewAuditLogger(f)
			defer f.Close()
		}
	}

	workerFilter := safety.NewFilter(
		cfg.Safety.Workers.Allowlist,
		cfg.Safety.Workers.Denylist,
	)

	runner := vbox.NewCLIRunner(cfg.VBox.Binary)
	provider := cpi.New(runner, cfg.Defaults)

	mcpServer := server.NewMCPServer(
		"vbox-cpi",
		"1.0.0",
		server.WithToolCapabilities(false),
	)
	tools.RegisterAll(mcpServer, provider.Tools(workerFilter, auditLogger))

	// Build Streamable HTTP server and wrap with auth middleware.
	httpHandler := server.NewStreamableHTTPServer(mcpServer)
	authMiddleware := auth.NewAuthMiddleware(cfg.Server.AuthToken)
	wrappedHandler := authMiddleware(httpHandler)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           wrappedHandler,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("vbox-cpi listening on %s (provider %s, %d actions)",
			addr, provider.Name(), len(provider.ListActions()))
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server error: %v", err)
		}
	}()

	<-stop
	log.Println("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(ctx); err != nil {
		log.Printf("graceful shutdown error: %v", err)
	}
	log.Println("server stopped")
}

// loadConfig reads the config file named by VBOX_CPI_CONFIG_PATH or the
// default path, falling back to DefaultConfig when the file is unreadable.
func loadConfig() *config.Config {
	path := os.Getenv("VBOX_CPI_CONFIG_PATH")
	if path == "" {
		path = defaultConfigPath
	}

	cfg, err := config.LoadConfig(path)
	if err != nil {
		log.Printf("could not load config from %q (%v), using defaults", path, err)
		return config.DefaultConfig()
	}

	log.Printf("loaded config from %q", path)
	return cfg
}

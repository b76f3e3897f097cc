/*
main.go - Application entry point

PURPOSE:
  Wires configuration, persistence, the engine, and its observers, then
  runs either the interactive REPL or the HTTP server.

COMMANDS:
  calc repl            Interactive calculator (default)
  calc serve           HTTP API server

FLAGS:
  --config   Optional YAML config file (env CALCULATOR_* still wins)
  serve:
    --port   HTTP server port (default: 8080)
    --db     SQLite database path for history (default: CSV file from
             the configuration; use a .db path to switch backends)

GRACEFUL SHUTDOWN (serve):
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close the store

SEE ALSO:
  - repl/repl.go: Interactive loop
  - api/server.go: Router configuration
*/
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

	"github.com/spf13/cobra"

	"github.com/warp/calc-engine/api"
	"github.com/warp/calc-engine/calc"
	"github.com/warp/calc-engine/config"
	"github.com/warp/calc-engine/repl"
	csvstore "github.com/warp/calc-engine/store/csv"
	"github.com/warp/calc-engine/store/sqlite"
)

var configPath string

func main() {
	root := &cobra.Command{
		Use:   "calc",
		Short: "Interactive arithmetic calculator with history, undo/redo, and persistence",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRepl()
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "YAML config file")

	replCmd := &cobra.Command{
		Use:   "repl",
		Short: "Run the interactive calculator",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRepl()
		},
	}

	var port int
	var dbPath string
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(port, dbPath)
		},
	}
	serveCmd.Flags().IntVar(&port, "port", 8080, "HTTP server port")
	serveCmd.Flags().StringVar(&dbPath, "db", "", "SQLite database path (empty: CSV history file)")

	root.AddCommand(replCmd, serveCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// newEngine builds the engine with its standard observers: one log line
// per computation, plus auto-save when the configuration enables it.
func newEngine(cfg *config.Config, store calc.HistoryStore) (*calc.Calculator, error) {
	engine, err := calc.New(cfg, store)
	if err != nil {
		return nil, err
	}
	engine.AddObserver(calc.NewLoggingObserver(engine.Logger()))
	engine.AddObserver(calc.NewAutoSaveObserver(engine))
	return engine, nil
}

func runRepl() error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	engine, err := newEngine(cfg, csvstore.New(cfg.HistoryFile))
	if err != nil {
		return err
	}

	return repl.New(engine, os.Stdin, os.Stdout).Run()
}

func runServe(port int, dbPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	var store calc.HistoryStore
	if dbPath != "" {
		s, err := sqlite.New(dbPath)
		if err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		defer s.Close()
		store = s
	} else {
		store = csvstore.New(cfg.HistoryFile)
	}

	engine, err := newEngine(cfg, store)
	if err != nil {
		return err
	}

	router := api.NewRouter(api.NewHandler(engine))
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: router,
	}

	// Start server in goroutine for graceful shutdown
	go func() {
		log.Printf("Calculator API listening on http://localhost:%d", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Println("Server stopped")
	return nil
}

package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"productcatalog/internal/config"
	httpapi "productcatalog/internal/http"
	"productcatalog/internal/http/handlers"
	applog "productcatalog/internal/log"
	"productcatalog/internal/repos"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "productcatalog",
		Short:        "Product catalog service",
		SilenceUsage: true,
	}
	cmd.AddCommand(newServeCommand(), newMigrateCommand())
	return cmd
}

func newServeCommand() *cobra.Command {
	var port, dsn, store string
	var seed bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			// flags beat file and environment
			if cmd.Flags().Changed("port") {
				cfg.Port = port
			}
			if cmd.Flags().Changed("db") {
				cfg.DBDSN = dsn
			}
			if cmd.Flags().Changed("store") {
				cfg.Store = store
			}
			if cmd.Flags().Changed("seed") {
				cfg.SeedDemo = seed
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			closeLog := setupLogFile(cfg.LogFile)
			defer closeLog()

			deps, err := handlers.NewDeps(cfg)
			if err != nil {
				return err
			}
			defer deps.Close()

			app := httpapi.NewApp(cfg, deps)

			go func() {
				sig := make(chan os.Signal, 1)
				signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
				<-sig
				applog.Info(nil, "server.shutdown", nil)
				_ = app.Shutdown()
			}()

			applog.Info(nil, "server.start", map[string]any{"port": cfg.Port, "store": cfg.Store})
			return app.Listen(":" + cfg.Port)
		},
	}
	cmd.Flags().StringVar(&port, "port", "", "listen port (overrides PORT)")
	cmd.Flags().StringVar(&dsn, "db", "", "SQLite DSN (overrides DB_DSN)")
	cmd.Flags().StringVar(&store, "store", "", "store backend: sqlite|memory (overrides STORE)")
	cmd.Flags().BoolVar(&seed, "seed", false, "insert demo products into an empty store")
	return cmd
}

func newMigrateCommand() *cobra.Command {
	var seed bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create the SQLite schema, optionally seeding demo products",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cfg.Store != config.StoreSQLite {
				return fmt.Errorf("migrate needs the %s store, got %s", config.StoreSQLite, cfg.Store)
			}
			db, err := repos.OpenDB(cfg.DBDSN)
			if err != nil {
				return err
			}
			defer db.Close()
			if seed || cfg.SeedDemo {
				if err := repos.SeedDemo(db); err != nil {
					return err
				}
			}
			applog.Info(nil, "migrate.done", map[string]any{"db_dsn": cfg.DBDSN})
			return nil
		},
	}
	cmd.Flags().BoolVar(&seed, "seed", false, "insert demo products into an empty table")
	return cmd
}

// setupLogFile tees the standard logger into path when set. The returned
// func points the logger back at stdout before closing the file.
func setupLogFile(path string) func() {
	if path == "" {
		return func() {}
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		applog.Warn(nil, "log.file.open", err, map[string]any{"path": path})
		return func() {}
	}
	log.SetOutput(io.MultiWriter(os.Stdout, f))
	return func() {
		log.SetOutput(os.Stdout)
		_ = f.Close()
	}
}

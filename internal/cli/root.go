// Package cli implements the authctl command tree over the auth manager.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"graphauth/internal/auth"
	"graphauth/internal/config"
	"graphauth/internal/db"
)

// Execute runs the CLI.
func Execute() int {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	var dbPath string

	rootCmd := &cobra.Command{
		Use:           "authctl",
		Short:         "Graph authorization store CLI",
		Long:          "Command-line interface for managing users, groups, targets, grants and projects.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "path to the SQLite database (defaults to AUTH_DB_PATH)")

	app := &appContext{dbPath: &dbPath}
	rootCmd.AddCommand(
		newUserCmd(app),
		newGroupCmd(app),
		newTargetCmd(app),
		newBelongCmd(app),
		newAccessCmd(app),
		newProjectCmd(app),
		newResolveCmd(app),
		newLoginCmd(app),
	)
	return rootCmd
}

// appContext lazily opens the database and manager the first time a
// command needs them, so help and usage never touch the store.
type appContext struct {
	dbPath *string
	mgr    *auth.Manager
	cfg    *config.Config
}

func (a *appContext) manager() (*auth.Manager, error) {
	if a.mgr != nil {
		return a.mgr, nil
	}
	_ = config.LoadDotEnv(".env")
	cfg, err := config.LoadFromEnv()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if *a.dbPath != "" {
		cfg.DBPath = *a.dbPath
	}
	sqldb, err := db.OpenSQLite(cfg.DBPath, "write", 1)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	level := slog.LevelInfo
	if cfg.LogLevel == "debug" {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	mgr := auth.New(sqldb,
		auth.WithLogger(log),
		auth.WithGraphName(cfg.GraphName),
		auth.WithTargetURL(cfg.TargetURL),
		auth.WithCacheTTL(cfg.CacheTTL),
		auth.WithLoginRate(cfg.LoginRate, cfg.LoginBurst),
	)
	ctx := cmdContext()
	if err := mgr.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	if cfg.BootstrapAdmin != "" {
		if _, err := mgr.BootstrapAdmin(ctx, "admin", cfg.BootstrapAdmin); err != nil {
			return nil, fmt.Errorf("bootstrap admin: %w", err)
		}
	}
	a.mgr = mgr
	a.cfg = cfg
	return mgr, nil
}

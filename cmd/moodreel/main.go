package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/moodreel/backend/internal/api"
	"github.com/moodreel/backend/internal/config"
	"github.com/moodreel/backend/internal/engine"
	"github.com/moodreel/backend/internal/filter"
)

var (
	catalogSource string
	logLevel      string

	count  int
	genres []string
	seen   string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "moodreel",
		Short: "Mood-based movie recommendations",
		Long: `Moodreel indexes a movie catalog with TF-IDF and ranks it against a
free-text description of what you feel like watching.`,
		SilenceUsage: true,
		RunE:         runServe,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&catalogSource, "catalog", "", "catalog CSV path or http(s) URL (default is $CATALOG_SOURCE)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (default is $LOG_LEVEL)")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Serve recommendations over HTTP",
		RunE:  runServe,
	})

	recommendCmd := &cobra.Command{
		Use:   "recommend <prompt...>",
		Short: "Print recommendations for a prompt",
		RunE:  runRecommend,
	}
	recommendCmd.Flags().IntVarP(&count, "count", "n", 0, "number of movies to rank (default is $RECOMMEND_DEFAULT_N)")
	recommendCmd.Flags().StringArrayVar(&genres, "genre", nil, "only keep movies with this genre (repeatable)")
	recommendCmd.Flags().StringVar(&seen, "seen", "", "comma-separated titles to exclude")
	rootCmd.AddCommand(recommendCmd)

	rootCmd.AddCommand(&cobra.Command{
		Use:   "genres",
		Short: "List the genres of the catalog",
		Args:  cobra.NoArgs,
		RunE:  runGenres,
	})

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// setup loads configuration, applies flag overrides and builds the engine.
func setup(ctx context.Context) (*engine.Engine, *logrus.Entry, error) {
	cfg := config.Load()
	if catalogSource != "" {
		cfg.Catalog.Source = catalogSource
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}

	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	logger.SetOutput(os.Stderr)
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(level)
	} else {
		logger.Warnf("Unknown log level %q, using info", cfg.LogLevel)
	}
	entry := logger.WithField("service", "moodreel")

	eng, err := engine.Bootstrap(ctx, cfg, entry)
	if err != nil {
		return nil, entry, fmt.Errorf("failed to load catalog: %w", err)
	}
	return eng, entry, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	eng, logger, err := setup(ctx)
	if err != nil {
		return err
	}

	server := api.NewServer(eng, logger)
	logger.Infof("Moodreel API ready with %d movies", eng.Index.Len())
	return server.Start(ctx, eng.Config.Server.Addr)
}

func runRecommend(cmd *cobra.Command, args []string) error {
	eng, _, err := setup(cmd.Context())
	if err != nil {
		return err
	}

	n := eng.Config.Recommend.DefaultN
	if cmd.Flags().Changed("count") {
		n = count
	}

	result, err := eng.Suggest(cmd.Context(), engine.Request{
		Prompt: strings.Join(args, " "),
		N:      n,
		Genres: genres,
		Seen:   filter.ParseSeen(seen),
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if msg := result.Status.Message(); msg != "" {
		fmt.Fprintln(out, msg)
		return nil
	}
	for i, rec := range result.Recommendations {
		fmt.Fprintf(out, "%2d. %s  [%s]  %.3f\n", i+1, rec.Title, rec.Genres, rec.Score)
	}
	return nil
}

func runGenres(cmd *cobra.Command, args []string) error {
	eng, _, err := setup(cmd.Context())
	if err != nil {
		return err
	}
	for _, g := range eng.Genres() {
		fmt.Fprintln(cmd.OutOrStdout(), g)
	}
	return nil
}

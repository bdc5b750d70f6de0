package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/Ashbinbiju/SwingScanner/internal/api"
	"github.com/Ashbinbiju/SwingScanner/internal/config"
	"github.com/Ashbinbiju/SwingScanner/internal/devserver"
	"github.com/Ashbinbiju/SwingScanner/internal/render"
	"github.com/Ashbinbiju/SwingScanner/internal/run"
)

var version = "dev"

func main() {
	_ = godotenv.Load()

	var verbose bool
	root := &cobra.Command{
		Use:     "swingscan",
		Short:   "Run swing trading backtests and watch results stream in",
		Version: version,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			level := zerolog.InfoLevel
			if verbose {
				level = zerolog.DebugLevel
			}
			log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level)
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(runCmd())
	root.AddCommand(serveCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Launch a backtest for a trading date and stream its results",
		RunE: func(cmd *cobra.Command, _ []string) error {
			date, err := cmd.Flags().GetString("date")
			if err != nil {
				return fmt.Errorf("reading --date flag: %w", err)
			}
			baseURL, err := cmd.Flags().GetString("base-url")
			if err != nil {
				return fmt.Errorf("reading --base-url flag: %w", err)
			}
			logsDir, err := cmd.Flags().GetString("logs-dir")
			if err != nil {
				return fmt.Errorf("reading --logs-dir flag: %w", err)
			}
			return runBacktest(date, baseURL, logsDir)
		},
	}
	cmd.Flags().StringP("date", "d", "", "trading date (YYYY-MM-DD); prompted when omitted")
	cmd.Flags().String("base-url", "", "backend base URL (overrides config and env)")
	cmd.Flags().String("logs-dir", "", "directory for raw stream logs (overrides config)")
	return cmd
}

func runBacktest(date, baseURL, logsDir string) error {
	cfg, err := config.Load(".")
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if baseURL == "" {
		baseURL = cfg.BaseURL
	}
	if logsDir == "" {
		logsDir = cfg.LogsDir
	}

	if date == "" {
		date, err = promptDate(time.Now())
		if err != nil {
			return fmt.Errorf("choosing date: %w", err)
		}
	}
	if err := api.ValidateDate(date); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	render.Header(os.Stdout, date, baseURL)

	view := render.NewView(os.Stdout)
	runner := run.New(api.New(baseURL), view.Update)

	final, runErr := runner.Run(ctx, &run.Options{Date: date, LogsDir: logsDir})
	stop()

	render.Summary(os.Stdout, final)

	if ctx.Err() != nil {
		os.Exit(130)
	}
	return runErr
}

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run a local dev backend that streams synthetic or replayed runs",
		RunE: func(cmd *cobra.Command, _ []string) error {
			addr, err := cmd.Flags().GetString("addr")
			if err != nil {
				return fmt.Errorf("reading --addr flag: %w", err)
			}
			replay, err := cmd.Flags().GetString("replay")
			if err != nil {
				return fmt.Errorf("reading --replay flag: %w", err)
			}
			symbols, err := cmd.Flags().GetStringSlice("symbols")
			if err != nil {
				return fmt.Errorf("reading --symbols flag: %w", err)
			}
			interval, err := cmd.Flags().GetDuration("interval")
			if err != nil {
				return fmt.Errorf("reading --interval flag: %w", err)
			}
			return serve(addr, replay, symbols, interval)
		},
	}
	cmd.Flags().String("addr", ":8000", "listen address")
	cmd.Flags().String("replay", "", "stream a recorded .ndjson run instead of a synthetic one")
	cmd.Flags().StringSlice("symbols", nil, "watchlist for synthetic runs")
	cmd.Flags().Duration("interval", 300*time.Millisecond, "pause between streamed events")
	return cmd
}

func serve(addr, replay string, symbols []string, interval time.Duration) error {
	srv := &http.Server{
		Addr: addr,
		Handler: devserver.Handler(&devserver.Options{
			ReplayPath: replay,
			Symbols:    symbols,
			Interval:   interval,
		}),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info().Str("addr", addr).Msg("dev backend listening")
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serving: %w", err)
	}
	return nil
}

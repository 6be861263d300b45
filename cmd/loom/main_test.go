package main

import (
	"flag"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func TestSetupLogger(t *testing.T) {
	t.Run("valid levels", func(t *testing.T) {
		for _, level := range []string{"debug", "info", "warn", "error", "WARN"} {
			app := &cli.App{
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "log-level", Value: level},
				},
				Before: setupLogger,
				Action: func(*cli.Context) error { return nil },
			}
			assert.NoError(t, app.Run([]string{"loom"}), "level %q", level)
		}
	})

	t.Run("invalid level", func(t *testing.T) {
		app := &cli.App{
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "log-level", Value: "verbose"},
			},
			Before: setupLogger,
			Action: func(*cli.Context) error { return nil },
		}
		err := app.Run([]string{"loom"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid log level")
	})

	t.Cleanup(func() {
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))
	})
}

func newTestContext(t *testing.T, setup func(set *flag.FlagSet)) *cli.Context {
	t.Helper()
	set := flag.NewFlagSet("test", flag.ContinueOnError)
	setup(set)
	return cli.NewContext(cli.NewApp(), set, nil)
}

func TestBackfillConfigValidation(t *testing.T) {
	t.Run("valid config", func(t *testing.T) {
		c := newTestContext(t, func(set *flag.FlagSet) {
			set.Int("batch-size", 50, "")
			set.Int("report-interval", 10, "")
			set.Int("max-retries", 2, "")
			set.Duration("retry-delay", time.Second, "")
		})

		config, err := backfillConfig(c)
		require.NoError(t, err)
		assert.Equal(t, 50, config.BatchSize)
		assert.Equal(t, 10, config.ReportInterval)
		assert.Equal(t, 2, config.MaxRetries)
		assert.Equal(t, time.Second, config.RetryDelay)
	})

	t.Run("rejects non-positive batch size", func(t *testing.T) {
		c := newTestContext(t, func(set *flag.FlagSet) {
			set.Int("batch-size", 0, "")
			set.Int("report-interval", 10, "")
			set.Int("max-retries", 2, "")
			set.Duration("retry-delay", time.Second, "")
		})

		_, err := backfillConfig(c)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "batch-size")
	})

	t.Run("rejects non-positive max retries", func(t *testing.T) {
		c := newTestContext(t, func(set *flag.FlagSet) {
			set.Int("batch-size", 10, "")
			set.Int("report-interval", 10, "")
			set.Int("max-retries", 0, "")
			set.Duration("retry-delay", time.Second, "")
		})

		_, err := backfillConfig(c)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "max-retries")
	})
}

func TestIngestCommandRequiresFiles(t *testing.T) {
	c := newTestContext(t, func(set *flag.FlagSet) {
		set.String("db", t.TempDir(), "")
	})

	err := ingestCommand(c)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least one file")
}

func TestFingerprintCommand(t *testing.T) {
	t.Run("requires exactly one file", func(t *testing.T) {
		c := newTestContext(t, func(*flag.FlagSet) {})
		err := fingerprintCommand(c)
		require.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		set := flag.NewFlagSet("test", flag.ContinueOnError)
		require.NoError(t, set.Parse([]string{"/nonexistent/file.txt"}))
		c := cli.NewContext(cli.NewApp(), set, nil)

		err := fingerprintCommand(c)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read")
	})
}

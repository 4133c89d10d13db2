package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const (
	settingsPath    = "settings.yaml"
	credentialsPath = "credentials.json"
)

var errUsage = errors.New("usage")

// runnerFactory builds the job runner once settings and credentials are
// loaded. Tests swap it for one that never opens a browser.
type runnerFactory func(settings *Settings, credentials CredentialStore, log *zap.Logger) (RunFunc, error)

type appOptions struct {
	settingsPath    string
	credentialsPath string
	newRunner       runnerFactory
}

func defaultOptions() appOptions {
	return appOptions{
		settingsPath:    settingsPath,
		credentialsPath: credentialsPath,
		newRunner: func(settings *Settings, credentials CredentialStore, log *zap.Logger) (RunFunc, error) {
			w, err := NewWorker(settings, credentials, log)
			if err != nil {
				return nil, err
			}
			return w.Run, nil
		},
	}
}

func main() {
	os.Exit(execute(defaultOptions(), os.Args[1:], os.Stdout, os.Stderr))
}

func execute(opts appOptions, args []string, stdout, stderr io.Writer) int {
	root := newRootCmd(opts)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.ExecuteContext(context.Background()); err != nil {
		if errors.Is(err, errUsage) {
			if err != errUsage {
				fmt.Fprintln(stderr, "ERROR:", err)
			}
			return 2
		}
		fmt.Fprintln(stderr, "ERROR:", err)
		return 1
	}
	return 0
}

func newRootCmd(opts appOptions) *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:           "ps5buyer",
		Short:         "Watch storefronts for a console restock and check out",
		Args:          noArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if configPath == "" {
				_ = cmd.Help()
				return errUsage
			}
			return run(cmd, opts, configPath)
		},
	}

	rootCmd.Flags().StringVar(&configPath, "config", "", "Path to the purchase config (JSON)")
	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError(err)
	})

	return rootCmd
}

func usageError(err error) error {
	return fmt.Errorf("%w: %v", errUsage, err)
}

func noArgs(cmd *cobra.Command, args []string) error {
	if err := cobra.NoArgs(cmd, args); err != nil {
		return usageError(err)
	}
	return nil
}

func run(cmd *cobra.Command, opts appOptions, configPath string) error {
	if err := InitLocale(); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: locale initialization failed, using message keys: %v\n", err)
	}

	settings, err := LoadSettings(opts.settingsPath)
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	log, err := NewLogger(settings)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	jobs, err := LoadJobs(configPath)
	if err != nil {
		return err
	}

	credentials, err := LoadCredentials(opts.credentialsPath)
	if err != nil {
		return err
	}

	runJob, err := opts.newRunner(settings, credentials, log)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "╔═══════════════════════════════════════════════════════════╗")
	fmt.Fprintln(out, "║                 Console Restock Checkout                  ║")
	fmt.Fprintln(out, "╚═══════════════════════════════════════════════════════════╝")
	for _, job := range jobs {
		fmt.Fprintf(out, "  • %s\n", job)
	}
	if settings.DryRun {
		fmt.Fprintln(out, "DRY RUN - orders will not be placed")
	}
	fmt.Fprintln(out)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	results := NewLauncher(runJob, log).Run(ctx, jobs)

	if failed := failedResults(results); len(failed) > 0 {
		return fmt.Errorf("%d of %d jobs failed", len(failed), len(results))
	}
	fmt.Fprintln(out, "✓ All jobs completed")
	return nil
}

package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	apperrors "github.com/cloudprep/cloudprep/internal/errors"

	"github.com/cloudprep/cloudprep/internal/constants"
	"github.com/cloudprep/cloudprep/internal/logger"
	"github.com/cloudprep/cloudprep/internal/output"
)

var (
	debug         bool
	timeout       string
	timeoutCancel context.CancelFunc
	verbose       bool
)

var rootCmd = &cobra.Command{
	Use:   constants.ProjectName,
	Short: "Prepare a Google Cloud project for deployment",
	Long: fmt.Sprintf(`%s brings a Google Cloud project to a deployable state:
it enables required APIs, enforces organization policies, and grants the IAM
roles your deployer and build service accounts need. Every step is idempotent,
so re-running against an already-prepared project is safe.`, constants.ProjectName),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if verbose {
			output.Header(output.Bold(constants.ProjectName) + " " + *constants.GetVersion())
			output.Infof("verbose output enabled")
		}

		logLevel := slog.LevelInfo
		if debug {
			logLevel = slog.LevelDebug
		}
		logger.Initialize(constants.CLI, logLevel)

		if timeout == "0" {
			if verbose {
				output.Infof("timeout disabled")
			}

			return nil
		}

		// Parse timeout value and create context
		// This runs after flags are parsed but before the command runs
		timeoutDuration, err := parseTimeout(timeout)
		if err != nil {
			return fmt.Errorf("error parsing timeout: %w", err)
		}

		ctx, cancel := context.WithTimeout(context.Background(), timeoutDuration)
		timeoutCancel = cancel // Store for cleanup in Execute()
		cmd.SetContext(ctx)

		if verbose {
			output.Infof("timeout: %s", timeoutDuration)
		}
		return nil
	},
}

// Execute runs the root command and exits with the code carried by the
// error: 1 for enforcement failures, 2 for missing variables, 3 for
// missing dependencies.
func Execute() {
	err := rootCmd.Execute()
	if timeoutCancel != nil {
		timeoutCancel()
	}

	if err != nil {
		output.Errorf("%s", apperrors.GetErrorMessage(err))
		if hint := apperrors.GetHint(err); hint != "" {
			output.Hintf("%s", hint)
		}
		os.Exit(apperrors.GetExitCode(err))
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&timeout, "timeout", "15m", "Timeout for the whole run (e.g., 15m, 30s, 1h)")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Verbose output")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debugging logs")
}

// parseTimeout parses timeout string to time.Duration
// defaults to 15 minutes if empty
// Supports formats: "15m", "30s", "1h", "900" (number of seconds)
func parseTimeout(timeoutStr string) (time.Duration, error) {
	if timeoutStr == "" {
		timeoutStr = "15m"
	}

	// Try parsing as duration first (supports "15m", "30s", "1h", etc.)
	duration, err := time.ParseDuration(timeoutStr)
	if err == nil {
		return duration, nil
	}

	// If duration parsing fails, try parsing as seconds (integer)
	seconds, err := strconv.Atoi(timeoutStr)
	if err != nil {
		return 0, fmt.Errorf("invalid timeout format: %s (use duration like '15m' or '30s', or seconds like '900')", timeoutStr)
	}

	return time.Duration(seconds) * time.Second, nil
}

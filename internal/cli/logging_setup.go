package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rshade/bundlekit/internal/logging"
)

// setupLogging configures logging from the loaded config and CLI flags and
// stores the run-scoped logger and a fresh run ID in the command context.
func setupLogging(cmd *cobra.Command, rt *session) {
	loggingCfg := rt.cfg.Logging

	debug, _ := cmd.Flags().GetBool("debug")
	if debug {
		loggingCfg.Level = "debug"
		loggingCfg.Format = logging.FormatConsole
	}

	result, err := logging.NewLogger(loggingCfg.ToLoggingConfig(), cmd.ErrOrStderr())
	if err != nil {
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %v; logging to stderr only\n", err)
	}
	rt.logResult = result
	if result.UsingFile() {
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Logging to %s\n", result.FilePath)
	}

	ctx := cmd.Context()
	runID := logging.GetOrGenerateRunID(ctx)
	ctx = logging.ContextWithRunID(ctx, runID)

	// Commands derive their component loggers from the untagged base in ctx.
	base := result.Logger.With().Str("run_id", runID).Logger()
	ctx = base.WithContext(ctx)
	cmd.SetContext(ctx)
	rt.logger = logging.ComponentLogger(base, "cli")

	rt.logger.Debug().Ctx(ctx).Str("command", cmd.Name()).Msg("command started")
}

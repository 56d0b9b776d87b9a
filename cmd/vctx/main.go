// Command vctx extracts and classifies activity context from coding-agent
// conversation logs.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/suykerbuyk/vibe-context/internal/config"
	"github.com/suykerbuyk/vibe-context/internal/extract"
	"github.com/suykerbuyk/vibe-context/internal/help"
	"github.com/suykerbuyk/vibe-context/internal/logging"
	"github.com/suykerbuyk/vibe-context/internal/reader"
)

var (
	// Global flags
	debug    bool
	noHelper bool
	window   int

	cfg    config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:           help.Binary,
	Short:         help.TopLevel.Synopsis,
	Long:          help.TopLevel.Description,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var loadErr error
		cfg, loadErr = config.Load()

		var err error
		logger, err = logging.New(debug || cfg.Debug)
		if err != nil {
			return err
		}
		if loadErr != nil {
			logger.Warn("config ignored, using defaults", zap.Error(loadErr))
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

// newExtractor wires the reader and extractor from config and flags.
func newExtractor() *extract.Extractor {
	opts := []reader.Option{reader.WithLogger(logger)}
	if cfg.Helper.Enabled && !noHelper {
		h, err := reader.ProbeHelper(cfg.Helper.Command, cfg.HelperTimeout())
		if err != nil {
			logger.Debug("tail helper unavailable", zap.Error(err))
		} else {
			logger.Debug("tail helper", zap.String("path", h.Path))
			opts = append(opts, reader.WithHelper(h))
		}
	}

	size := cfg.Extract.WindowSize
	if window > 0 {
		size = window
	}
	return extract.New(extract.Options{
		WindowSize:    size,
		MaxCommandLen: cfg.Extract.MaxCommandLen,
		MaxTextLen:    cfg.Extract.MaxTextLen,
		Logger:        logger,
		Reader:        reader.New(opts...),
	})
}

// helpFor renders help from the command catalog; commands missing from
// the catalog fall back to cobra's own help.
func helpFor(defaultHelp func(*cobra.Command, []string)) func(*cobra.Command, []string) {
	catalog := make(map[string]help.Command)
	for _, c := range append(append([]help.Command{}, help.Subcommands...), help.HookSubcommands...) {
		catalog[c.Name] = c
	}
	return func(cmd *cobra.Command, args []string) {
		if cmd == rootCmd {
			fmt.Fprint(cmd.OutOrStdout(), help.FormatUsage(help.TopLevel, help.Subcommands))
			return
		}
		name := strings.TrimPrefix(cmd.CommandPath(), help.Binary+" ")
		if c, ok := catalog[name]; ok {
			fmt.Fprint(cmd.OutOrStdout(), help.FormatTerminal(c))
			return
		}
		defaultHelp(cmd, args)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")

	extractCmd.Flags().StringVar(&logPath, "log", "", "Log file to read instead of stdin")
	extractCmd.Flags().StringVar(&sessionID, "session", "", "Session ID to read from ~/.claude/projects or the archive")
	extractCmd.Flags().BoolVar(&latest, "latest", false, "Read the most recently modified session log")
	extractCmd.MarkFlagsMutuallyExclusive("log", "session", "latest")
	extractCmd.Flags().IntVar(&window, "window", 0, "Trailing records to inspect")
	extractCmd.Flags().StringVar(&projectName, "project", "", "Project name to report")
	extractCmd.Flags().StringVar(&outputFormat, "format", "json", "Output format (json, yaml)")
	extractCmd.Flags().BoolVar(&noHelper, "no-helper", false, "Always use the in-process tail reader")

	hookCmd.AddCommand(hookInstallCmd)
	hookCmd.AddCommand(hookUninstallCmd)
	configCmd.AddCommand(configInitCmd)

	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(hookCmd)
	rootCmd.AddCommand(archiveCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.SetHelpFunc(helpFor(rootCmd.HelpFunc()))
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", help.Binary, err)
		stop()
		os.Exit(1)
	}
}

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/suykerbuyk/vibe-context/internal/archive"
	"github.com/suykerbuyk/vibe-context/internal/check"
	"github.com/suykerbuyk/vibe-context/internal/config"
	"github.com/suykerbuyk/vibe-context/internal/discover"
	"github.com/suykerbuyk/vibe-context/internal/help"
	"github.com/suykerbuyk/vibe-context/internal/hook"
	"github.com/suykerbuyk/vibe-context/internal/project"
	"github.com/suykerbuyk/vibe-context/internal/render"
	"github.com/suykerbuyk/vibe-context/internal/sink"
)

var (
	logPath      string
	sessionID    string
	latest       bool
	projectName  string
	outputFormat string
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: help.CmdExtract.Synopsis,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := render.ParseFormat(outputFormat)
		if err != nil {
			return err
		}
		if window < 0 || window > config.MaxWindowSize {
			return fmt.Errorf("--window %d out of range 0..%d", window, config.MaxWindowSize)
		}
		ctx := cmd.Context()
		x := newExtractor()

		path, err := resolveLog()
		if err != nil {
			return err
		}

		name := projectName
		if path != "" {
			if name == "" {
				name = detectCWD(cmd)
			}
			c := x.FromLog(ctx, path)
			return render.Write(cmd.OutOrStdout(), x.Resolve(c, name), format)
		}

		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			logger.Warn("reading stdin", zap.Error(err))
		}
		if _, envelope := hook.ParseInput(data); !envelope && name == "" {
			name = detectCWD(cmd)
		}
		h := &hook.Handler{Extractor: x, Log: logger, Project: name}
		return render.Write(cmd.OutOrStdout(), h.Process(ctx, data), format)
	},
}

// resolveLog picks the log named by --log, --session or --latest. An empty
// path means stdin.
func resolveLog() (string, error) {
	switch {
	case logPath != "":
		return logPath, nil
	case sessionID == "" && !latest:
		return "", nil
	}

	projects, err := discover.ProjectsDir()
	if err != nil {
		return "", err
	}
	if sessionID != "" {
		path, err := discover.FindSession(projects, cfg.Archive.Dir, sessionID)
		if err != nil {
			return "", fmt.Errorf("session %s: %w", sessionID, err)
		}
		return path, nil
	}
	log, err := discover.Latest(projects)
	if err != nil {
		return "", fmt.Errorf("latest session: %w", err)
	}
	logger.Debug("latest session", zap.String("path", log.Path), zap.Time("modified", log.ModTime))
	return log.Path, nil
}

func detectCWD(cmd *cobra.Command) string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}
	return project.Detect(cmd.Context(), cwd)
}

var hookCmd = &cobra.Command{
	Use:   "hook",
	Short: help.CmdHook.Synopsis,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		data, err := hook.ReadInput(cmd.InOrStdin(), hook.StdinTimeout)
		if err != nil {
			logger.Warn("hook input", zap.Error(err))
		}

		h := &hook.Handler{Extractor: newExtractor(), Log: logger}
		result := h.Process(ctx, data)
		if err := render.Write(cmd.OutOrStdout(), result, render.JSON); err != nil {
			return err
		}

		sinks := sink.FromConfig(cfg.Sinks)
		n := sink.Dispatch(ctx, logger, sinks, result)
		logger.Debug("hook done",
			zap.String("event", string(result.EventType)),
			zap.Int("sinks", len(sinks)),
			zap.Int("delivered", n))
		return nil
	},
}

var hookInstallCmd = &cobra.Command{
	Use:   "install",
	Short: help.CmdHookInstall.Synopsis,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := hook.SettingsPath()
		if err != nil {
			return err
		}
		changed, err := hook.Install(path)
		if err != nil {
			return err
		}
		if changed {
			fmt.Fprintf(cmd.OutOrStdout(), "installed %q in %s\n", hook.Command, config.CompressHome(path))
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "%q already present in %s\n", hook.Command, config.CompressHome(path))
		}
		return nil
	},
}

var hookUninstallCmd = &cobra.Command{
	Use:   "uninstall",
	Short: help.CmdHookUninstall.Synopsis,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := hook.SettingsPath()
		if err != nil {
			return err
		}
		changed, err := hook.Uninstall(path)
		if err != nil {
			return err
		}
		if changed {
			fmt.Fprintf(cmd.OutOrStdout(), "removed %q from %s\n", hook.Command, config.CompressHome(path))
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "%q not present in %s\n", hook.Command, config.CompressHome(path))
		}
		return nil
	},
}

var archiveCmd = &cobra.Command{
	Use:   "archive <log.jsonl> [dest-dir]",
	Short: help.CmdArchive.Synopsis,
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		dest := cfg.Archive.Dir
		if len(args) == 2 {
			dest = args[1]
		}

		before, err := os.Stat(args[0])
		if err != nil {
			return err
		}
		out, err := archive.Compress(args[0], dest)
		if err != nil {
			return err
		}
		after, err := os.Stat(out)
		if err != nil {
			return err
		}

		logger.Debug("archived", zap.String("src", args[0]), zap.String("dest", out))
		fmt.Fprintf(cmd.OutOrStdout(), "%s (%d -> %d bytes)\n", config.CompressHome(out), before.Size(), after.Size())
		return nil
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "manage the config file",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: help.CmdConfigInit.Synopsis,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, created, err := config.WriteDefault("")
		if err != nil {
			return err
		}
		if created {
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", config.CompressHome(path))
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "%s already exists\n", config.CompressHome(path))
		}
		return nil
	},
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: help.CmdCheck.Synopsis,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		report := check.Run(cfg)
		fmt.Fprint(cmd.OutOrStdout(), report.Format())
		if report.HasFailures() {
			_ = logger.Sync()
			os.Exit(1)
		}
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: help.CmdVersion.Synopsis,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s (vibe-context)\n", help.Binary, help.Version)
	},
}

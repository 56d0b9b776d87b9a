package check

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/suykerbuyk/vibe-context/internal/config"
	"github.com/suykerbuyk/vibe-context/internal/hook"
	"github.com/suykerbuyk/vibe-context/internal/reader"
)

// Status represents the outcome of a single check.
type Status int

const (
	Pass Status = iota
	Warn
	Fail
)

func (s Status) String() string {
	switch s {
	case Pass:
		return "pass"
	case Warn:
		return "warn"
	case Fail:
		return "FAIL"
	default:
		return "unknown"
	}
}

// Result holds the outcome of a single check.
type Result struct {
	Name   string
	Status Status
	Detail string
}

// Report aggregates all check results.
type Report struct {
	Results []Result
}

// HasFailures returns true if any result has Fail status.
func (r Report) HasFailures() bool {
	for _, res := range r.Results {
		if res.Status == Fail {
			return true
		}
	}
	return false
}

// Format returns the human-readable report string.
func (r Report) Format() string {
	if len(r.Results) == 0 {
		return "vctx check\n\n  no checks ran\n"
	}

	maxName := 0
	for _, res := range r.Results {
		if len(res.Name) > maxName {
			maxName = len(res.Name)
		}
	}

	var b strings.Builder
	b.WriteString("vctx check\n\n")

	var passed, warnings, failures int
	for _, res := range r.Results {
		switch res.Status {
		case Pass:
			passed++
		case Warn:
			warnings++
		case Fail:
			failures++
		}
		fmt.Fprintf(&b, "  %-4s  %-*s  %s\n", res.Status, maxName, res.Name, res.Detail)
	}

	fmt.Fprintf(&b, "\n%d passed, %d warning, %d failure\n", passed, warnings, failures)
	return b.String()
}

// CheckConfig reports the resolved config path. Broken TOML is caught when
// the config is loaded, before any check runs.
func CheckConfig() Result {
	cfgPath := filepath.Join(config.ConfigDir(), "config.toml")
	if _, err := os.Stat(cfgPath); err != nil {
		return Result{Name: "config", Status: Pass, Detail: "defaults (" + config.CompressHome(cfgPath) + " not found)"}
	}
	return Result{Name: "config", Status: Pass, Detail: config.CompressHome(cfgPath)}
}

// CheckHelper reports whether the tail helper will be used. A missing
// helper only warns: the in-process reader always works.
func CheckHelper(h config.HelperConfig) Result {
	if !h.Enabled {
		return Result{Name: "helper", Status: Pass, Detail: "disabled (in-process reader)"}
	}
	found, err := reader.ProbeHelper(h.Command, 0)
	if err != nil {
		return Result{Name: "helper", Status: Warn, Detail: h.Command + " not found (in-process reader)"}
	}
	return Result{Name: "helper", Status: Pass, Detail: config.CompressHome(found.Path)}
}

// CheckArchiveDir checks whether the archive directory exists.
func CheckArchiveDir(dir string) Result {
	if info, err := os.Stat(dir); err == nil && info.IsDir() {
		return Result{Name: "archive", Status: Pass, Detail: config.CompressHome(dir)}
	}
	return Result{Name: "archive", Status: Warn, Detail: config.CompressHome(dir) + " not found (created on first archive)"}
}

// CheckSinks checks that each configured sink command resolves.
func CheckSinks(sinks []config.SinkConfig) []Result {
	if len(sinks) == 0 {
		return []Result{{Name: "sinks", Status: Pass, Detail: "none configured"}}
	}

	var results []Result
	for i, s := range sinks {
		name := "sink:" + s.Name
		if s.Name == "" {
			name = fmt.Sprintf("sink:%d", i+1)
		}
		switch {
		case len(s.Command) == 0:
			results = append(results, Result{Name: name, Status: Fail, Detail: "no command"})
		case s.Format != "" && s.Format != "result" && s.Format != "notification":
			results = append(results, Result{Name: name, Status: Fail, Detail: "unknown format " + s.Format})
		default:
			path, err := exec.LookPath(s.Command[0])
			if err != nil {
				results = append(results, Result{Name: name, Status: Fail, Detail: s.Command[0] + " not found"})
				continue
			}
			results = append(results, Result{Name: name, Status: Pass, Detail: config.CompressHome(path)})
		}
	}
	return results
}

// CheckHook checks whether the hook is registered in the settings file.
func CheckHook(settingsPath string) Result {
	n, err := hook.Installed(settingsPath)
	short := config.CompressHome(settingsPath)
	switch {
	case err != nil:
		return Result{Name: "hook", Status: Warn, Detail: err.Error()}
	case n == len(hook.Events):
		return Result{Name: "hook", Status: Pass, Detail: hook.Command + " found in " + short}
	case n > 0:
		return Result{Name: "hook", Status: Warn, Detail: fmt.Sprintf("%s on %d of %d events in %s", hook.Command, n, len(hook.Events), short)}
	}
	return Result{Name: "hook", Status: Warn, Detail: hook.Command + " not found in " + short}
}

// Run executes all checks against the given config and returns a report.
func Run(cfg config.Config) Report {
	var results []Result

	results = append(results, CheckConfig())
	results = append(results, CheckHelper(cfg.Helper))
	results = append(results, CheckArchiveDir(cfg.Archive.Dir))
	results = append(results, CheckSinks(cfg.Sinks)...)
	if path, err := hook.SettingsPath(); err == nil {
		results = append(results, CheckHook(path))
	} else {
		results = append(results, Result{Name: "hook", Status: Warn, Detail: "cannot determine home directory"})
	}

	return Report{Results: results}
}

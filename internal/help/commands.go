package help

import "strings"

// Version is the vctx release version, set at build time via -ldflags.
var Version = "dev"

// Binary is the installed command name.
const Binary = "vctx"

// Flag describes a command-line flag.
type Flag struct {
	Name string // e.g. "--log <path>"
	Desc string
}

// Arg describes a positional argument.
type Arg struct {
	Name     string
	Desc     string
	Optional bool
}

// Command describes a vctx subcommand (or the top-level binary when Name is "").
type Command struct {
	Name        string // "extract", "hook install"; "" for top-level
	Synopsis    string // one-line description, lowercase
	Brief       string // usage table entry, capitalized
	Usage       string
	TableUsage  string // shortened usage for the top-level table
	Args        []Arg
	Flags       []Flag
	Description string
	Examples    []string
	SeeAlso     []string
}

func (c Command) tableUsage() string {
	if c.TableUsage != "" {
		return c.TableUsage
	}
	return c.Usage
}

// ManName returns "vctx" for the top level and "vctx-<name>" otherwise,
// with spaces in Name turned into hyphens.
func (c Command) ManName() string {
	if c.Name == "" {
		return Binary
	}
	return Binary + "-" + strings.ReplaceAll(c.Name, " ", "-")
}

// TopLevel is the top-level vctx command.
var TopLevel = Command{
	Synopsis: "activity context extraction for coding-agent logs",
	Description: `Reads the tail of a coding-agent conversation log, extracts the
tools, files, commands, errors, test results and git operations the
agent touched, and classifies the turn into a primary activity and an
event type. The result is printed as JSON (or YAML) and can be handed
to configured sinks such as a text-to-speech notifier.`,
}

var CmdExtract = Command{
	Name:       "extract",
	Synopsis:   "extract and classify activity from a log or stdin",
	Brief:      "Extract activity context (log file or stdin)",
	Usage:      "vctx extract [--log <path> | --session <id> | --latest] [--window <n>] [--project <name>] [--format json|yaml] [--no-helper]",
	TableUsage: "vctx extract [--log PATH]",
	Flags: []Flag{
		{Name: "--log <path>", Desc: "Read this JSONL log (.jsonl or .jsonl.zst) instead of stdin"},
		{Name: "--session <id>", Desc: "Read the log for this session from ~/.claude/projects or the archive"},
		{Name: "--latest", Desc: "Read the most recently modified main-session log"},
		{Name: "--window <n>", Desc: "Number of trailing records to inspect (default from config, 20)"},
		{Name: "--project <name>", Desc: "Project name to report (default: detected from cwd)"},
		{Name: "--format <fmt>", Desc: "Output format: json or yaml (default: json)"},
		{Name: "--no-helper", Desc: "Always use the in-process tail reader"},
	},
	Description: `Without --log, stdin is accepted in any of these shapes:

  hook envelope  {"transcript_path": ..., "cwd": ...}
  prepared       a JSON object carrying a "summary" key
  JSONL records  one conversation record per line
  plain text     anything else, scanned with the same pattern tables

Extraction never fails the command: problems are reported inside the
result with success set to false, and the exit status stays 0.`,
	Examples: []string{
		"vctx extract --log session.jsonl",
		"vctx extract --log archive/abc.jsonl.zst --format yaml",
		"vctx extract --latest",
		"echo 'pytest: 3 passed' | vctx extract",
	},
	SeeAlso: []string{"vctx(1)", "vctx-hook(1)"},
}

var CmdHook = Command{
	Name:       "hook",
	Synopsis:   "Claude Code hook handler",
	Brief:      "Hook mode (reads stdin from Claude Code)",
	Usage:      "vctx hook [install | uninstall]",
	TableUsage: "vctx hook [install | ...]",
	Description: `Reads a hook payload from stdin, extracts activity from the
referenced transcript, prints the result, and delivers it to every
configured sink. Registered for the Stop and SubagentStop events.

Sink failures are logged and never change the exit status.

Subcommands:
  vctx hook install     Add the hook to ~/.claude/settings.json
  vctx hook uninstall   Remove the hook from ~/.claude/settings.json`,
	SeeAlso: []string{"vctx(1)", "vctx-extract(1)", "vctx-hook-install(1)", "vctx-hook-uninstall(1)"},
}

var CmdArchive = Command{
	Name:       "archive",
	Synopsis:   "compress a log with zstd",
	Brief:      "Compress a JSONL log into the archive",
	Usage:      "vctx archive <log.jsonl> [dest-dir]",
	TableUsage: "vctx archive <log> [dir]",
	Args: []Arg{
		{Name: "log.jsonl", Desc: "Log file to compress"},
		{Name: "dest-dir", Desc: "Output directory (default: archive.dir from config)", Optional: true},
	},
	Description: `Writes <name>.jsonl.zst into the destination directory. Archived
logs can be passed straight to vctx extract --log. The original file
is not deleted.`,
	SeeAlso: []string{"vctx(1)", "vctx-extract(1)"},
}

var CmdConfigInit = Command{
	Name:     "config init",
	Synopsis: "write a default config file",
	Brief:    "Write a default config.toml",
	Usage:    "vctx config init",
	Description: `Writes ~/.config/vibe-context/config.toml with the default extraction
limits, helper settings, archive directory and commented sink examples.
An existing file is left untouched.`,
	SeeAlso: []string{"vctx(1)", "vctx-check(1)"},
}

var CmdCheck = Command{
	Name:     "check",
	Synopsis: "validate config, helper, sinks and hook setup",
	Brief:    "Validate config, helper, sinks and hook setup",
	Usage:    "vctx check",
	Description: `Runs diagnostic checks and prints a pass/warn/FAIL report:
  - Config file location
  - Tail helper availability
  - Archive directory
  - Each configured sink command
  - Claude Code hook setup in ~/.claude/settings.json

Exit code 0 if all checks pass or warn, 1 if any check fails.`,
	SeeAlso: []string{"vctx(1)", "vctx-config-init(1)"},
}

var CmdVersion = Command{
	Name:     "version",
	Synopsis: "print version",
	Brief:    "Print version",
	Usage:    "vctx version",
	SeeAlso:  []string{"vctx(1)"},
}

var CmdHookInstall = Command{
	Name:     "hook install",
	Synopsis: "add the vctx hook to Claude Code settings",
	Brief:    "Add the hook to settings.json",
	Usage:    "vctx hook install",
	Description: `Adds Stop and SubagentStop entries running "vctx hook" to
~/.claude/settings.json. Other settings and hooks are preserved, and a
backup is saved to settings.json.vctx.bak before any modification.

Running it again when the hook is already present changes nothing.`,
	SeeAlso: []string{"vctx(1)", "vctx-hook(1)", "vctx-hook-uninstall(1)"},
}

var CmdHookUninstall = Command{
	Name:     "hook uninstall",
	Synopsis: "remove the vctx hook from Claude Code settings",
	Brief:    "Remove the hook from settings.json",
	Usage:    "vctx hook uninstall",
	Description: `Removes entries running "vctx hook" from ~/.claude/settings.json and
drops hook arrays left empty. A backup is saved to
settings.json.vctx.bak before any modification.`,
	SeeAlso: []string{"vctx(1)", "vctx-hook(1)", "vctx-hook-install(1)"},
}

// HookSubcommands is the ordered list of hook sub-subcommands.
var HookSubcommands = []Command{
	CmdHookInstall,
	CmdHookUninstall,
}

// Subcommands is the ordered list of top-level subcommands.
var Subcommands = []Command{
	CmdExtract,
	CmdHook,
	CmdArchive,
	CmdConfigInit,
	CmdCheck,
	CmdVersion,
}

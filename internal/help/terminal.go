package help

import (
	"fmt"
	"strings"
)

// FormatTerminal renders a subcommand's --help text.
func FormatTerminal(c Command) string {
	var sections []string

	sections = append(sections, fmt.Sprintf("%s %s - %s", Binary, c.Name, c.Synopsis))
	sections = append(sections, "Usage: "+c.Usage)

	// Args and flags share one description column.
	width := 0
	for _, a := range c.Args {
		width = max(width, len(a.Name))
	}
	for _, f := range c.Flags {
		width = max(width, len(f.Name))
	}
	col := width + 3

	if len(c.Args) > 0 {
		var s strings.Builder
		s.WriteString("Arguments:")
		for _, a := range c.Args {
			desc := a.Desc
			if a.Optional {
				desc += " (optional)"
			}
			fmt.Fprintf(&s, "\n  %-*s%s", col, a.Name, desc)
		}
		sections = append(sections, s.String())
	}

	if len(c.Flags) > 0 {
		var s strings.Builder
		s.WriteString("Flags:")
		for _, f := range c.Flags {
			fmt.Fprintf(&s, "\n  %-*s%s", col, f.Name, f.Desc)
		}
		sections = append(sections, s.String())
	}

	if c.Description != "" {
		sections = append(sections, c.Description)
	}

	if len(c.Examples) > 0 {
		sections = append(sections, "Examples:\n  "+strings.Join(c.Examples, "\n  "))
	}

	return strings.Join(sections, "\n\n") + "\n"
}

// FormatUsage renders the top-level usage text for vctx --help.
func FormatUsage(top Command, subs []Command) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s %s - %s\n", Binary, Version, top.Synopsis)
	b.WriteString("\nUsage:\n")

	type entry struct{ usage, brief string }
	entries := make([]entry, 0, len(subs)+1)
	for _, s := range subs {
		entries = append(entries, entry{s.tableUsage(), s.Brief})
	}
	entries = append(entries, entry{Binary + " help", "Show this help"})

	width := 0
	for _, e := range entries {
		width = max(width, len(e.usage))
	}
	for _, e := range entries {
		fmt.Fprintf(&b, "  %-*s%s\n", width+3, e.usage, e.brief)
	}

	b.WriteString(`
Hook integration (settings.json):
  {"type": "command", "command": "vctx hook"}

Configuration: ~/.config/vibe-context/config.toml
`)
	return b.String()
}

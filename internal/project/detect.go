// Package project names the project a session ran in.
package project

import (
	"context"
	"net/url"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// Unknown is returned when no name can be derived.
const Unknown = "_unknown"

// remoteTimeout bounds the git remote lookup.
const remoteTimeout = 1 * time.Second

// Detect extracts the project name from the working directory.
// Prefers the git remote origin name (stable across worktrees and renames),
// falling back to the directory basename.
func Detect(ctx context.Context, cwd string) string {
	if cwd == "" {
		return Unknown
	}
	cwd = filepath.Clean(cwd)

	if name := gitRemoteProject(ctx, cwd); name != "" {
		return name
	}

	name := filepath.Base(cwd)
	if name == "" || name == "." || name == "/" {
		return Unknown
	}
	return name
}

// gitRemoteProject runs `git remote get-url origin` and extracts the repo name.
// Returns "" on any failure (not a git repo, no remote, timeout, parse error).
func gitRemoteProject(ctx context.Context, cwd string) string {
	ctx, cancel := context.WithTimeout(ctx, remoteTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", "remote", "get-url", "origin")
	cmd.Dir = cwd
	out, err := cmd.Output()
	if err != nil {
		return ""
	}
	return RepoNameFromURL(strings.TrimSpace(string(out)))
}

// RepoNameFromURL extracts the repository name from a git remote URL.
// Handles SSH (SCP-style), HTTPS, file://, and bare path formats.
// Returns "" on any parse failure.
func RepoNameFromURL(rawURL string) string {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return ""
	}

	var path string
	if !strings.Contains(rawURL, "://") && strings.Contains(rawURL, ":") {
		// git@host:owner/repo.git
		path = rawURL[strings.Index(rawURL, ":")+1:]
	} else {
		u, err := url.Parse(rawURL)
		if err != nil {
			return ""
		}
		path = u.Path
	}

	if path == "" {
		return ""
	}

	name := strings.TrimSuffix(filepath.Base(path), ".git")
	if name == "" || name == "." || name == "/" {
		return ""
	}
	return name
}

package history

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/GOLDhjy/GCompare/internal/vcs/runner"
)

// field and record separators used in the custom git log format, chosen so
// summaries containing tabs or newlines cannot break parsing.
const (
	gitRecordMark = "\x01"
	gitFieldSep   = "\x1f"
)

// GitProvider reads history through the git binary.
type GitProvider struct {
	r runner.Runner
}

func NewGitProvider(bin string) *GitProvider {
	if strings.TrimSpace(bin) == "" {
		bin = "git"
	}
	return &GitProvider{r: runner.NewExecRunner(bin)}
}

func (g *GitProvider) Name() string { return "git" }

func (g *GitProvider) Detect(ctx context.Context, path string) (string, bool) {
	dir := path
	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		dir = filepath.Dir(path)
	}
	out, err := g.r.Run(ctx, dir, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", false
	}
	root := strings.TrimSpace(out)
	return root, root != ""
}

func (g *GitProvider) Log(ctx context.Context, path string) (*FileHistory, error) {
	root, ok := g.Detect(ctx, path)
	if !ok {
		return nil, fmt.Errorf("not a git repository: %s", path)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	rel, err := filepath.Rel(root, abs)
	if err != nil {
		return nil, fmt.Errorf("resolve repo-relative path: %w", err)
	}
	rel = filepath.ToSlash(rel)

	format := gitRecordMark + "%H" + gitFieldSep + "%an" + gitFieldSep + "%aI" + gitFieldSep + "%s"
	out, err := g.r.Run(ctx, root, "log", "--follow", "--name-status", "--format="+format, "--", rel)
	if err != nil {
		return nil, err
	}
	entries := parseGitLog(out, rel)
	return &FileHistory{Provider: g.Name(), RepoRoot: root, RelativePath: rel, Entries: entries}, nil
}

func (g *GitProvider) FileAt(ctx context.Context, repoRoot, revisionID, relPath string) (string, error) {
	out, err := g.r.Run(ctx, repoRoot, "show", revisionID+":"+relPath)
	if err != nil {
		return "", fmt.Errorf("file at revision %s: %w", revisionID, err)
	}
	return out, nil
}

// parseGitLog splits the custom-format log output into entries. Each record
// starts with gitRecordMark followed by header fields, then name-status lines
// ("M\tpath", "D\tpath", "R100\told\tnew").
func parseGitLog(out, fallbackPath string) []Entry {
	var entries []Entry
	for _, record := range strings.Split(out, gitRecordMark) {
		record = strings.TrimSpace(record)
		if record == "" {
			continue
		}
		lines := strings.Split(record, "\n")
		fields := strings.Split(lines[0], gitFieldSep)
		if len(fields) < 4 {
			continue
		}
		entry := Entry{
			ID:      fields[0],
			Author:  fields[1],
			Summary: fields[3],
			Path:    fallbackPath,
		}
		if t, err := time.Parse(time.RFC3339, fields[2]); err == nil {
			entry.Time = t
		}
		for _, line := range lines[1:] {
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			parts := strings.Split(line, "\t")
			if len(parts) < 2 {
				continue
			}
			status := parts[0]
			entry.Path = parts[len(parts)-1]
			entry.Deleted = strings.HasPrefix(status, "D")
			break
		}
		entries = append(entries, entry)
	}
	return entries
}

package history

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// GoGitProvider reads git history without the git binary. Registered after
// GitProvider so it only answers when the binary is unavailable.
type GoGitProvider struct{}

func NewGoGitProvider() *GoGitProvider { return &GoGitProvider{} }

func (g *GoGitProvider) Name() string { return "git" }

func (g *GoGitProvider) Detect(ctx context.Context, path string) (string, bool) {
	root, err := findGitRoot(path)
	if err != nil {
		return "", false
	}
	return root, true
}

// findGitRoot walks up from path until a .git entry is found.
func findGitRoot(path string) (string, error) {
	start, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	if info, err := os.Stat(start); err == nil && !info.IsDir() {
		start = filepath.Dir(start)
	}
	cur := start
	for {
		if _, err := os.Stat(filepath.Join(cur, ".git")); err == nil {
			return cur, nil
		}
		parent := filepath.Dir(cur)
		if parent == cur {
			break
		}
		cur = parent
	}
	return "", fmt.Errorf("not a git repository: %s", path)
}

func (g *GoGitProvider) Log(ctx context.Context, path string) (*FileHistory, error) {
	root, err := findGitRoot(path)
	if err != nil {
		return nil, err
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

	repo, err := git.PlainOpen(root)
	if err != nil {
		return nil, fmt.Errorf("open repo: %w", err)
	}
	iter, err := repo.Log(&git.LogOptions{FileName: &rel})
	if err != nil {
		return nil, fmt.Errorf("log %s: %w", rel, err)
	}
	defer iter.Close()

	var entries []Entry
	err = iter.ForEach(func(c *object.Commit) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		entry := Entry{
			ID:      c.Hash.String(),
			Author:  c.Author.Name,
			Time:    c.Author.When,
			Summary: firstLine(c.Message),
			Path:    rel,
		}
		if _, ferr := c.File(rel); errors.Is(ferr, object.ErrFileNotFound) {
			entry.Deleted = true
		}
		entries = append(entries, entry)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &FileHistory{Provider: g.Name(), RepoRoot: root, RelativePath: rel, Entries: entries}, nil
}

func (g *GoGitProvider) FileAt(ctx context.Context, repoRoot, revisionID, relPath string) (string, error) {
	repo, err := git.PlainOpen(repoRoot)
	if err != nil {
		return "", fmt.Errorf("open repo: %w", err)
	}
	hash, err := repo.ResolveRevision(plumbing.Revision(revisionID))
	if err != nil {
		return "", fmt.Errorf("resolve revision %s: %w", revisionID, err)
	}
	commit, err := repo.CommitObject(*hash)
	if err != nil {
		return "", fmt.Errorf("load commit: %w", err)
	}
	f, err := commit.File(relPath)
	if err != nil {
		return "", fmt.Errorf("file at revision %s: %w", revisionID, err)
	}
	return f.Contents()
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

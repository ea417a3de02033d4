package history

import (
	"context"
	"encoding/xml"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/GOLDhjy/GCompare/internal/vcs/runner"
)

// SvnProvider reads history from a Subversion working copy.
type SvnProvider struct {
	r runner.Runner
}

func NewSvnProvider(bin string) *SvnProvider {
	if strings.TrimSpace(bin) == "" {
		bin = "svn"
	}
	return &SvnProvider{r: runner.NewExecRunner(bin)}
}

func (s *SvnProvider) Name() string { return "svn" }

func (s *SvnProvider) Detect(ctx context.Context, path string) (string, bool) {
	out, err := s.r.Run(ctx, "", "info", "--show-item", "wc-root", path)
	if err != nil {
		return "", false
	}
	root := strings.TrimSpace(out)
	return root, root != ""
}

func (s *SvnProvider) Log(ctx context.Context, path string) (*FileHistory, error) {
	root, ok := s.Detect(ctx, path)
	if !ok {
		return nil, fmt.Errorf("not a subversion working copy: %s", path)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	rel, err := filepath.Rel(root, abs)
	if err != nil {
		return nil, fmt.Errorf("resolve working-copy path: %w", err)
	}
	rel = filepath.ToSlash(rel)

	out, err := s.r.Run(ctx, root, "log", "--xml", "--verbose", rel)
	if err != nil {
		return nil, err
	}
	entries, err := parseSvnLog(out, rel)
	if err != nil {
		return nil, err
	}
	return &FileHistory{Provider: s.Name(), RepoRoot: root, RelativePath: rel, Entries: entries}, nil
}

func (s *SvnProvider) FileAt(ctx context.Context, repoRoot, revisionID, relPath string) (string, error) {
	out, err := s.r.Run(ctx, repoRoot, "cat", "-r", revisionID, relPath+"@"+revisionID)
	if err != nil {
		return "", fmt.Errorf("file at revision %s: %w", revisionID, err)
	}
	return out, nil
}

type svnLogXML struct {
	Entries []svnLogEntry `xml:"logentry"`
}

type svnLogEntry struct {
	Revision string    `xml:"revision,attr"`
	Author   string    `xml:"author"`
	Date     string    `xml:"date"`
	Msg      string    `xml:"msg"`
	Paths    []svnPath `xml:"paths>path"`
}

type svnPath struct {
	Action string `xml:"action,attr"`
	Value  string `xml:",chardata"`
}

func parseSvnLog(out, rel string) ([]Entry, error) {
	var parsed svnLogXML
	if err := xml.Unmarshal([]byte(out), &parsed); err != nil {
		return nil, fmt.Errorf("parse svn log xml: %w", err)
	}
	entries := make([]Entry, 0, len(parsed.Entries))
	for _, le := range parsed.Entries {
		entry := Entry{
			ID:      le.Revision,
			Author:  le.Author,
			Summary: firstLine(le.Msg),
			Path:    rel,
		}
		if t, err := time.Parse(time.RFC3339, le.Date); err == nil {
			entry.Time = t
		}
		for _, p := range le.Paths {
			if strings.HasSuffix(p.Value, "/"+rel) || p.Value == rel {
				entry.Deleted = p.Action == "D"
				break
			}
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

package history

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/GOLDhjy/GCompare/internal/vcs/runner"
)

// P4Provider reads history from a Perforce client workspace.
type P4Provider struct {
	r runner.Runner
}

func NewP4Provider(bin string) *P4Provider {
	if strings.TrimSpace(bin) == "" {
		bin = "p4"
	}
	return &P4Provider{r: runner.NewExecRunner(bin)}
}

func (p *P4Provider) Name() string { return "p4" }

func (p *P4Provider) Detect(ctx context.Context, path string) (string, bool) {
	if _, err := p.r.Run(ctx, "", "where", path); err != nil {
		return "", false
	}
	out, err := p.r.Run(ctx, "", "info")
	if err != nil {
		return "", false
	}
	for _, line := range strings.Split(out, "\n") {
		if rest, ok := strings.CutPrefix(line, "Client root: "); ok {
			return strings.TrimSpace(rest), true
		}
	}
	return "", false
}

func (p *P4Provider) Log(ctx context.Context, path string) (*FileHistory, error) {
	root, ok := p.Detect(ctx, path)
	if !ok {
		return nil, fmt.Errorf("not in a perforce client: %s", path)
	}
	out, err := p.r.Run(ctx, root, "filelog", "-t", path)
	if err != nil {
		return nil, err
	}
	depotPath, entries := parseP4Filelog(out)
	return &FileHistory{Provider: p.Name(), RepoRoot: root, RelativePath: depotPath, Entries: entries}, nil
}

func (p *P4Provider) FileAt(ctx context.Context, repoRoot, revisionID, relPath string) (string, error) {
	// relPath is the depot path; revisionID is the changelist number.
	out, err := p.r.Run(ctx, repoRoot, "print", "-q", relPath+"@"+revisionID)
	if err != nil {
		return "", fmt.Errorf("file at change %s: %w", revisionID, err)
	}
	return out, nil
}

// p4RevLine matches the filelog revision line, e.g.
// ... #3 change 1421 edit on 2024/01/15 12:30:45 by alice@ws-alice (text) 'fix parser'
var p4RevLine = regexp.MustCompile(`^\.\.\. #\d+ change (\d+) (\S+) on (\S+(?: \S+)?) by ([^@]+)@\S+ \([^)]*\)(?: '(.*)')?$`)

func parseP4Filelog(out string) (string, []Entry) {
	var depotPath string
	var entries []Entry
	for _, line := range strings.Split(out, "\n") {
		trimmed := strings.TrimRight(line, "\r")
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, "//") {
			depotPath = strings.TrimSpace(trimmed)
			continue
		}
		m := p4RevLine.FindStringSubmatch(trimmed)
		if m == nil {
			continue
		}
		entry := Entry{
			ID:      m[1],
			Author:  strings.TrimSpace(m[4]),
			Summary: m[5],
			Path:    depotPath,
			Deleted: m[2] == "delete" || m[2] == "move/delete",
		}
		for _, layout := range []string{"2006/01/02 15:04:05", "2006/01/02"} {
			if t, err := time.Parse(layout, m[3]); err == nil {
				entry.Time = t
				break
			}
		}
		entries = append(entries, entry)
	}
	return depotPath, entries
}

package history

import (
	"context"
	"fmt"
	"time"
)

// Entry is one revision of a file as reported by a VCS provider. Immutable
// once fetched.
type Entry struct {
	ID      string    `json:"id"`
	Author  string    `json:"author"`
	Time    time.Time `json:"time" ts_type:"string"`
	Summary string    `json:"summary"`
	Path    string    `json:"path"`
	Deleted bool      `json:"deleted"`
}

// FileHistory is the full revision list for one file.
type FileHistory struct {
	Provider     string  `json:"provider"`
	RepoRoot     string  `json:"repoRoot"`
	RelativePath string  `json:"relativePath"`
	Entries      []Entry `json:"entries"`
}

// Provider produces history metadata and historical file content.
// Implementations shell out to a VCS binary or use a pure-Go library.
type Provider interface {
	Name() string
	// Detect reports whether path is managed by this provider and returns
	// the working-copy root.
	Detect(ctx context.Context, path string) (root string, ok bool)
	Log(ctx context.Context, path string) (*FileHistory, error)
	FileAt(ctx context.Context, repoRoot, revisionID, relPath string) (string, error)
}

// Label synthesizes the virtual-revision label carried by slot content that
// came from a historical snapshot instead of the live filesystem.
func Label(provider, revisionID, relPath string) string {
	if len(revisionID) > 12 {
		revisionID = revisionID[:12]
	}
	return fmt.Sprintf("%s:%s:%s", provider, revisionID, relPath)
}

// Registry tries providers in order and answers with the first that claims
// the path.
type Registry struct {
	providers []Provider
}

func NewRegistry(providers ...Provider) *Registry {
	return &Registry{providers: providers}
}

// Resolve finds the provider managing path.
func (r *Registry) Resolve(ctx context.Context, path string) (Provider, string, error) {
	for _, p := range r.providers {
		if root, ok := p.Detect(ctx, path); ok {
			return p, root, nil
		}
	}
	return nil, "", fmt.Errorf("no version control history for %s", path)
}

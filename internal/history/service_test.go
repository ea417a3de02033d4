package history

import (
	"context"
	"fmt"
	"testing"

	"github.com/GOLDhjy/GCompare/internal/compare"
)

type fakeProvider struct {
	name    string
	root    string
	hist    *FileHistory
	content map[string]string
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) Detect(_ context.Context, path string) (string, bool) {
	return f.root, f.root != ""
}

func (f *fakeProvider) Log(_ context.Context, path string) (*FileHistory, error) {
	if f.hist == nil {
		return nil, fmt.Errorf("no history")
	}
	return f.hist, nil
}

func (f *fakeProvider) FileAt(_ context.Context, _, revisionID, _ string) (string, error) {
	content, ok := f.content[revisionID]
	if !ok {
		return "", fmt.Errorf("revision %s not found", revisionID)
	}
	return content, nil
}

func loadedEngine(t *testing.T, path, content string) *compare.Engine {
	t.Helper()
	engine := compare.New(func(_ context.Context, p string) ([]byte, error) {
		if p != path {
			return nil, fmt.Errorf("unexpected path %s", p)
		}
		return []byte(content), nil
	})
	side := compare.SideA
	res := engine.ApplyBatch(context.Background(), []string{path}, compare.OriginOpen, &side)
	if res.Loaded != 1 {
		t.Fatalf("setup load failed: %+v", res)
	}
	return engine
}

func TestCompareAndRestore(t *testing.T) {
	engine := loadedEngine(t, "/repo/file.txt", "working text")
	provider := &fakeProvider{
		name: "fake",
		root: "/repo",
		hist: &FileHistory{
			Provider:     "fake",
			RepoRoot:     "/repo",
			RelativePath: "file.txt",
			Entries:      []Entry{{ID: "r2"}, {ID: "r1"}},
		},
		content: map[string]string{"r1": "old text\r\n"},
	}
	svc := NewService(NewRegistry(provider), engine, nil)

	h, err := svc.LoadForSide(context.Background(), compare.SideA)
	if err != nil {
		t.Fatalf("LoadForSide: %v", err)
	}
	if len(h.Entries) != 2 {
		t.Fatalf("history entries = %d", len(h.Entries))
	}

	if err := svc.Compare(context.Background(), "r1"); err != nil {
		t.Fatalf("Compare: %v", err)
	}
	a := engine.Slot(compare.SideA)
	if a.Source.Virtual != "fake:r1:file.txt" {
		t.Fatalf("virtual label = %q", a.Source.Virtual)
	}
	if a.Content != "old text\n" {
		t.Fatalf("revision content not normalized: %q", a.Content)
	}
	b := engine.Slot(compare.SideB)
	if b.Content != "working text" || b.Source.Path != "/repo/file.txt" {
		t.Fatalf("working copy not moved: %+v", b)
	}

	if err := svc.Restore(); err != nil {
		t.Fatalf("Restore: %v", err)
	}
	a = engine.Slot(compare.SideA)
	if a.Source.Path != "/repo/file.txt" || a.Content != "working text" {
		t.Fatalf("restore did not bring back the working copy: %+v", a)
	}
}

func TestCompareUnknownRevision(t *testing.T) {
	engine := loadedEngine(t, "/repo/file.txt", "working text")
	provider := &fakeProvider{
		name:    "fake",
		root:    "/repo",
		hist:    &FileHistory{Provider: "fake", RepoRoot: "/repo", RelativePath: "file.txt"},
		content: map[string]string{},
	}
	svc := NewService(NewRegistry(provider), engine, nil)
	if _, err := svc.LoadForSide(context.Background(), compare.SideA); err != nil {
		t.Fatalf("LoadForSide: %v", err)
	}

	if err := svc.Compare(context.Background(), "missing"); err == nil {
		t.Fatalf("Compare with unknown revision must fail")
	}
	if slot := engine.Slot(compare.SideA); slot.Source.Path != "/repo/file.txt" {
		t.Fatalf("failed compare touched the slot: %+v", slot)
	}
}

func TestLoadForSideRequiresRealFile(t *testing.T) {
	engine := compare.New(func(context.Context, string) ([]byte, error) {
		return nil, fmt.Errorf("unused")
	})
	svc := NewService(NewRegistry(), engine, nil)
	if _, err := svc.LoadForSide(context.Background(), compare.SideA); err == nil {
		t.Fatalf("untitled side must not supply history")
	}
}

func TestCompareWithoutHistory(t *testing.T) {
	engine := loadedEngine(t, "/repo/file.txt", "x")
	svc := NewService(NewRegistry(), engine, nil)
	if err := svc.Compare(context.Background(), "r1"); err == nil {
		t.Fatalf("Compare before LoadForSide must fail")
	}
}

func TestRegistryPicksFirstMatch(t *testing.T) {
	missing := &fakeProvider{name: "first"}
	matching := &fakeProvider{name: "second", root: "/repo"}
	reg := NewRegistry(missing, matching)

	p, root, err := reg.Resolve(context.Background(), "/repo/file.txt")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if p.Name() != "second" || root != "/repo" {
		t.Fatalf("Resolve = %s %s", p.Name(), root)
	}
}

func TestRegistryNoMatch(t *testing.T) {
	reg := NewRegistry(&fakeProvider{name: "none"})
	if _, _, err := reg.Resolve(context.Background(), "/tmp/file"); err == nil {
		t.Fatalf("Resolve with no providers matching must fail")
	}
}

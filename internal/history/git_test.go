package history

import (
	"testing"
	"time"
)

func TestParseGitLog(t *testing.T) {
	out := "\x01" + "a1b2c3d4e5f6a1b2c3d4e5f6a1b2c3d4e5f6a1b2" + "\x1f" + "Alice" + "\x1f" + "2024-03-01T10:00:00+08:00" + "\x1f" + "fix parser edge case" + "\n\n" +
		"M\tsrc/parser.go\n" +
		"\x01" + "0000111122223333444455556666777788889999" + "\x1f" + "Bob" + "\x1f" + "2024-02-01T09:30:00Z" + "\x1f" + "remove legacy codepath" + "\n\n" +
		"D\tsrc/legacy.go\n"

	entries := parseGitLog(out, "src/parser.go")
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}

	first := entries[0]
	if first.ID != "a1b2c3d4e5f6a1b2c3d4e5f6a1b2c3d4e5f6a1b2" {
		t.Fatalf("first ID = %q", first.ID)
	}
	if first.Author != "Alice" || first.Summary != "fix parser edge case" {
		t.Fatalf("first header = %+v", first)
	}
	if first.Path != "src/parser.go" || first.Deleted {
		t.Fatalf("first name-status = %+v", first)
	}
	want, _ := time.Parse(time.RFC3339, "2024-03-01T10:00:00+08:00")
	if !first.Time.Equal(want) {
		t.Fatalf("first time = %v, want %v", first.Time, want)
	}

	second := entries[1]
	if !second.Deleted {
		t.Fatalf("deleted revision not flagged: %+v", second)
	}
	if second.Path != "src/legacy.go" {
		t.Fatalf("second path = %q", second.Path)
	}
}

func TestParseGitLogRename(t *testing.T) {
	out := "\x01" + "abc" + "\x1f" + "Alice" + "\x1f" + "2024-01-01T00:00:00Z" + "\x1f" + "move file" + "\n" +
		"R100\told/name.go\tnew/name.go\n"

	entries := parseGitLog(out, "new/name.go")
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	if entries[0].Path != "new/name.go" {
		t.Fatalf("rename path = %q, want destination side", entries[0].Path)
	}
	if entries[0].Deleted {
		t.Fatalf("rename flagged as deletion")
	}
}

func TestParseGitLogEmptyOutput(t *testing.T) {
	if entries := parseGitLog("", "f.go"); len(entries) != 0 {
		t.Fatalf("empty output produced %d entries", len(entries))
	}
}

func TestLabel(t *testing.T) {
	cases := []struct {
		provider, rev, path, want string
	}{
		{"git", "a1b2c3d4e5f6a1b2c3d4", "src/a.go", "git:a1b2c3d4e5f6:src/a.go"},
		{"p4", "1421", "//depot/a.c", "p4:1421://depot/a.c"},
		{"svn", "58", "trunk/a.c", "svn:58:trunk/a.c"},
	}
	for _, tc := range cases {
		if got := Label(tc.provider, tc.rev, tc.path); got != tc.want {
			t.Fatalf("Label(%s, %s, %s) = %q, want %q", tc.provider, tc.rev, tc.path, got, tc.want)
		}
	}
}

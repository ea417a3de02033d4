// histdump prints the revision history GCompare would show for a file.
// Useful for debugging provider detection and log parsing without the GUI.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/GOLDhjy/GCompare/internal/history"
)

func main() {
	gitBin := flag.String("git", "git", "git binary")
	p4Bin := flag.String("p4", "p4", "p4 binary")
	svnBin := flag.String("svn", "svn", "svn binary")
	show := flag.String("show", "", "print the file content at this revision instead of the log")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: histdump [flags] <file>")
		os.Exit(2)
	}
	path := flag.Arg(0)

	registry := history.NewRegistry(
		history.NewGitProvider(*gitBin),
		history.NewGoGitProvider(),
		history.NewP4Provider(*p4Bin),
		history.NewSvnProvider(*svnBin),
	)
	ctx := context.Background()

	provider, _, err := registry.Resolve(ctx, path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	h, err := provider.Log(ctx, path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if *show != "" {
		content, err := provider.FileAt(ctx, h.RepoRoot, *show, h.RelativePath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		fmt.Print(content)
		return
	}

	fmt.Printf("%s %s (%s)\n", h.Provider, h.RelativePath, h.RepoRoot)
	for _, e := range h.Entries {
		mark := " "
		if e.Deleted {
			mark = "D"
		}
		fmt.Printf("%s %-14s %-20s %s %s\n", mark, e.ID, e.Author, e.Time.Format("2006-01-02 15:04"), e.Summary)
	}
}

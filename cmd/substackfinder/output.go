package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/codeGROOVE-dev/substackfinder/pkg/finder"
)

const rule = "============================================================"

const maxBioWidth = 80

func printBanner(w io.Writer, title string, keywords []string, maxProfiles int) {
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, title)
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "Keywords: %s\n", strings.Join(keywords, ", "))
	fmt.Fprintf(w, "Max profiles: %d\n", maxProfiles)
	fmt.Fprintln(w, rule)
}

// printReport renders matched profiles as a table followed by run totals.
func printReport(w io.Writer, rep *finder.Report) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "Results: Found %d matching profiles\n", len(rep.Matched))
	fmt.Fprintln(w, rule)

	if len(rep.Matched) == 0 {
		fmt.Fprintln(w, "\nNo matching profiles found.")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Handle", "Name", "Keywords", "Subscribers", "Bio"})
	for _, p := range rep.Matched {
		t.AppendRow(table.Row{
			"@" + p.Handle,
			p.Name,
			strings.Join(p.MatchedKeywords, ", "),
			p.Subscribers,
			truncate(p.Bio, maxBioWidth),
		})
	}
	t.AppendFooter(table.Row{
		"", "", "", "scanned", fmt.Sprintf("%d (skipped %d, failed %d) in %s", rep.Scanned, rep.Skipped, rep.Failed, elapsed(rep)),
	})
	t.Render()

	if rep.Truncated {
		fmt.Fprintf(w, "\nReached maximum of %d profiles; %d candidates not scanned.\n", len(rep.Matched), rep.Remaining)
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}

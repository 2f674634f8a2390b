/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package report

import (
	"io"

	"chainguard.dev/autoapprove/trust"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"
)

const shortSHALen = 7

var commitHeaders = []string{"Commit", "Author", "Trusted"}

// newCommitTable creates the per-commit markdown table. The trusted column
// is centered; the rest are left aligned and never wrapped.
func newCommitTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w,
		tablewriter.WithConfig(tablewriter.Config{
			Header: tw.CellConfig{
				Alignment:  tw.CellAlignment{Global: tw.AlignLeft, PerColumn: []tw.Align{tw.AlignLeft, tw.AlignLeft, tw.AlignCenter}},
				Formatting: tw.CellFormatting{AutoFormat: tw.Off},
			},
			Row: tw.CellConfig{
				Alignment: tw.CellAlignment{Global: tw.AlignLeft, PerColumn: []tw.Align{tw.AlignLeft, tw.AlignLeft, tw.AlignCenter}},
			},
		}),
		tablewriter.WithHeader(commitHeaders),
		tablewriter.WithRenderer(renderer.NewBlueprint()),
		tablewriter.WithRendition(tw.Rendition{
			Symbols: tw.NewSymbols(tw.StyleMarkdown),
			Borders: tw.Border{Left: tw.On, Right: tw.On, Top: tw.Off, Bottom: tw.Off},
		}),
		tablewriter.WithRowAutoWrap(tw.WrapNone),
	)
}

// commitRow renders one commit. offending marks the commit that withheld
// approval.
func commitRow(c trust.Commit, trusted trust.Set, offending bool) []string {
	mark := "yes"
	switch {
	case offending:
		mark = "❌ no"
	case !trusted.Contains(c.Author):
		mark = "no"
	}
	return []string{shortSHA(c.SHA), "`" + c.Author.String() + "`", mark}
}

func shortSHA(sha string) string {
	if len(sha) > shortSHALen {
		return sha[:shortSHALen]
	}
	return sha
}

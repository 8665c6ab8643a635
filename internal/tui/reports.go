package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/joe/file-inventory/internal/report"
	"github.com/joe/file-inventory/internal/tui/screens"
	"github.com/joe/file-inventory/internal/tui/shared"
)

// shareBars is how many extensions get a size-share bar in the summary.
const shareBars = 5

// showReport renders an inventory view into a pager. Prompted views replace
// their prompt so going back returns to the menu.
func (a AppModel) showReport(kind shared.ReportKind, arg string, replacePrompt bool) (tea.Model, tea.Cmd) {
	show := a.push
	if replacePrompt {
		show = a.replace
	}

	pager, err := a.buildReport(kind, arg)
	if err != nil {
		return show(screens.NewNoticeScreen("Cannot show results", nil, err))
	}

	return show(pager)
}

func (a AppModel) buildReport(kind shared.ReportKind, arg string) (screens.PagerScreen, error) {
	records := a.session.Records()
	pageSize := a.config.PageSize

	switch kind {
	case shared.ReportSummary:
		stats := report.ComputeStats(records)
		lines := append(report.StatsLines(stats, a.now()), a.shareLines(stats)...)

		return screens.NewPagerScreen("Inventory Summary", lines, pageSize), nil
	case shared.ReportSearch:
		matches := report.SearchByName(records, arg)

		return screens.NewPagerScreen(fmt.Sprintf("Files matching %q (%d)", arg, len(matches)), report.RecordLines(matches), pageSize), nil
	case shared.ReportExtension:
		ext := report.NormalizeExtension(arg)
		matches := report.FilterByExtension(records, ext)

		return screens.NewPagerScreen(fmt.Sprintf("Files with extension %s (%d)", ext, len(matches)), report.RecordLines(matches), pageSize), nil
	case shared.ReportLargest:
		n, err := parsePositive(arg)
		if err != nil {
			return screens.PagerScreen{}, err
		}

		largest := report.Largest(records, n)

		return screens.NewPagerScreen(fmt.Sprintf("Largest %d files", len(largest)), report.RecordLines(largest), pageSize), nil
	case shared.ReportByDirectory:
		groups := report.GroupByDirectory(records)

		return screens.NewPagerScreen(fmt.Sprintf("Files by directory (%d directories)", len(groups)), report.GroupLines(groups), pageSize), nil
	case shared.ReportByHostDrive:
		groups := report.GroupByHostDrive(records, a.session.Mounts())

		return screens.NewPagerScreen("Files by host and drive", report.HostGroupLines(groups), pageSize), nil
	case shared.ReportTree:
		var lines []string
		if len(records) > 0 {
			lines = report.TreeLines(report.BuildTree(records))
		}

		return screens.NewPagerScreen("Directory tree", lines, pageSize).WithActions(screens.PagerAction{
			Key: "m", Label: "export Markdown", Msg: shared.ExportTreeMsg{Path: DefaultMarkdownPath},
		}), nil
	case shared.ReportQuery:
		result, err := report.Query(records, arg)
		if err != nil {
			return screens.PagerScreen{}, err
		}

		return screens.NewPagerScreen(fmt.Sprintf("Query %s (%d matches)", arg, result.Len()), result.Lines(), pageSize), nil
	}

	return screens.PagerScreen{}, fmt.Errorf("unknown report %d", kind) //nolint:err113 // Programming error
}

// shareLines draws each top extension's share of the total size.
func (a AppModel) shareLines(stats report.Stats) []string {
	if stats.TotalBytes == 0 || len(stats.Extensions) == 0 {
		return nil
	}

	bar := shared.NewShareBar(shared.ShareBarWidth)
	lines := []string{"", "Share of total size:"}

	for i, count := range stats.Extensions {
		if i == shareBars {
			break
		}

		share := float64(count.Bytes) / float64(stats.TotalBytes)
		lines = append(lines, fmt.Sprintf("  %-10s %s", count.Key, shared.RenderShare(bar, share)))
	}

	return lines
}

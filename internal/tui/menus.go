package tui

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/joe/file-inventory/internal/report"
	"github.com/joe/file-inventory/internal/tui/screens"
	"github.com/joe/file-inventory/internal/tui/shared"
)

func (a AppModel) menu(id shared.MenuID) tea.Model {
	switch id {
	case shared.MenuMain:
		return screens.NewMenuScreen("Main Menu", []screens.MenuItem{
			{Key: "1", Label: "Scan for files", Msg: shared.OpenMenuMsg{Menu: shared.MenuScan}},
			{Key: "2", Label: "View inventory", Msg: shared.OpenMenuMsg{Menu: shared.MenuInventory}},
			{Key: "3", Label: "Manage inventory", Msg: shared.OpenMenuMsg{Menu: shared.MenuManage}},
		}).WithHeader(a.headerLines).WithRoot()
	case shared.MenuScan:
		return screens.NewMenuScreen("Scan", []screens.MenuItem{
			{Key: "1", Label: "Scan default folder (" + a.config.DefaultRoot + ")", Msg: shared.ScanRequestMsg{Root: a.config.DefaultRoot}},
			{Key: "2", Label: "Scan a drive", Msg: shared.OpenMenuMsg{Menu: shared.MenuDrives}},
			{Key: "3", Label: "Scan a custom path", Msg: shared.PromptMsg{
				Purpose:     shared.PromptScanPath,
				Title:       "Enter the full path to the folder you want to scan:",
				Placeholder: a.config.DefaultRoot,
			}},
		})
	case shared.MenuDrives:
		return a.drivesMenu()
	case shared.MenuInventory:
		return screens.NewMenuScreen("View Inventory", []screens.MenuItem{
			{Key: "1", Label: "Summary statistics", Msg: shared.ReportMsg{Kind: shared.ReportSummary}},
			{Key: "2", Label: "Search by name", Msg: shared.PromptMsg{
				Purpose: shared.PromptSearch, Title: "Enter the file name or partial name to search:", Placeholder: "*.pdf",
			}},
			{Key: "3", Label: "Filter by extension", Msg: shared.PromptMsg{
				Purpose: shared.PromptExtension, Title: "Enter the file extension to filter by (e.g., .txt):", Placeholder: ".txt",
			}},
			{Key: "4", Label: "Largest files", Msg: shared.PromptMsg{
				Purpose: shared.PromptLargest, Title: "Enter the number of largest files to display:", Placeholder: "10",
			}},
			{Key: "5", Label: "Group by directory", Msg: shared.ReportMsg{Kind: shared.ReportByDirectory}},
			{Key: "6", Label: "Group by host and drive", Msg: shared.ReportMsg{Kind: shared.ReportByHostDrive}},
			{Key: "7", Label: "Directory tree", Msg: shared.ReportMsg{Kind: shared.ReportTree}},
			{Key: "8", Label: "JSONPath query", Msg: shared.PromptMsg{
				Purpose: shared.PromptQuery, Title: "Enter a JSONPath expression:", Placeholder: "$[?(@.file_size_bytes > 1000000)]",
			}},
		}).WithHeader(a.headerLines)
	case shared.MenuManage:
		items := []screens.MenuItem{
			{Key: "1", Label: "Remove a host or drive", Msg: shared.OpenMenuMsg{Menu: shared.MenuRemove}},
			{Key: "2", Label: "Reload inventory from disk", Msg: shared.ReloadRequestMsg{}},
		}

		if a.session.SaveFailed() {
			items = append(items, screens.MenuItem{Key: "3", Label: "Retry saving the inventory", Msg: shared.RetrySaveMsg{}})
		}

		return screens.NewMenuScreen("Manage Inventory", items).WithHeader(a.headerLines)
	case shared.MenuRemove:
		return a.removeMenu()
	}

	return a.menu(shared.MenuMain)
}

// headerLines is the inventory banner shown above the main menus.
func (a AppModel) headerLines() []string {
	summary := a.session.Summary()

	lastScan := "never"
	if at, ok := a.session.LastScan(); ok {
		lastScan = fmt.Sprintf("%s (%s)", at.Format("2006-01-02 15:04:05"), report.RelativeTime(at, a.now()))
	}

	lines := []string{
		"File Inventory",
		fmt.Sprintf("Files: %d  Size: %s  Host: %s", summary.Count, shared.FormatBytes(summary.TotalBytes), a.session.Host()),
		"Last scan: " + lastScan,
	}

	if a.session.SaveFailed() {
		lines = append(lines, "Unsaved changes: the last save failed")
	}

	return lines
}

func (a AppModel) drivesMenu() tea.Model {
	drives := a.system.Drives()
	items := make([]screens.MenuItem, 0, len(drives))

	for i, drive := range drives {
		items = append(items, screens.MenuItem{
			Key:   strconv.Itoa(i + 1),
			Label: drive,
			Msg:   shared.ScanRequestMsg{Root: drive},
		})
	}

	return screens.NewMenuScreen("Select a drive to scan", items).WithEmptyText("No drives found.")
}

func (a AppModel) removeMenu() tea.Model {
	records := a.session.Records()
	mounts := a.session.Mounts()

	var items []screens.MenuItem

	for _, group := range report.GroupByHostDrive(records, mounts) {
		items = append(items, screens.MenuItem{
			Key:   strconv.Itoa(len(items) + 1),
			Label: fmt.Sprintf("Host  %-24s %6d files", group.Host, group.Files),
			Msg:   shared.RemoveRequestMsg{Host: group.Host},
		})
	}

	for _, drive := range report.Drives(records, mounts) {
		if strings.TrimSpace(drive) == "" {
			continue
		}

		items = append(items, screens.MenuItem{
			Key:   strconv.Itoa(len(items) + 1),
			Label: fmt.Sprintf("Drive %-24s %6d files", drive, countUnder(records, drive)),
			Msg:   shared.RemoveRequestMsg{Drive: drive},
		})
	}

	return screens.NewMenuScreen("Select the host or drive to remove", items).
		WithEmptyText("The inventory is empty.")
}

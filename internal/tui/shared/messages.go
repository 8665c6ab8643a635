package shared

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/joe/file-inventory/internal/session"
)

// MenuID names one of the menus.
type MenuID int

// Menus.
const (
	MenuMain MenuID = iota
	MenuScan
	MenuDrives
	MenuInventory
	MenuManage
	MenuRemove
)

// ReportKind names an inventory view.
type ReportKind int

// Inventory views.
const (
	ReportSummary ReportKind = iota
	ReportSearch
	ReportExtension
	ReportLargest
	ReportByDirectory
	ReportByHostDrive
	ReportTree
	ReportQuery
)

// PromptPurpose tells the app what a submitted prompt value is for.
type PromptPurpose int

// Prompt purposes.
const (
	PromptScanPath PromptPurpose = iota
	PromptSearch
	PromptExtension
	PromptLargest
	PromptQuery
)

// ============================================================================
// Navigation Messages
// These messages change the screen stack and are handled by AppModel
// ============================================================================

// OpenMenuMsg pushes a menu
type OpenMenuMsg struct {
	Menu MenuID
}

// BackMsg pops the current screen
type BackMsg struct{}

// HomeMsg returns to the main menu
type HomeMsg struct{}

// PromptMsg asks the user for a value
type PromptMsg struct {
	Purpose     PromptPurpose
	Title       string
	Placeholder string
}

// PromptSubmittedMsg carries the value typed into a prompt
type PromptSubmittedMsg struct {
	Purpose PromptPurpose
	Value   string
}

// ============================================================================
// Action Messages
// These messages ask the app to do something with the session
// ============================================================================

// ScanRequestMsg starts a scan of Root
type ScanRequestMsg struct {
	Root string
}

// ReportMsg shows an inventory view
type ReportMsg struct {
	Kind ReportKind
	Arg  string
}

// RemoveRequestMsg removes every record of Host, or under Drive
type RemoveRequestMsg struct {
	Host  string
	Drive string
}

// ReloadRequestMsg rereads the store from disk
type ReloadRequestMsg struct{}

// RetrySaveMsg saves the in-memory inventory again
type RetrySaveMsg struct{}

// ExportTreeMsg writes the folder tree as Markdown to Path
type ExportTreeMsg struct {
	Path string
}

// ============================================================================
// Result Messages
// ============================================================================

// ScanFinishedMsg is sent when a scan-merge-save cycle has ended
type ScanFinishedMsg struct {
	Outcome *session.ScanOutcome
	Err     error
}

// OperationDoneMsg reports the end of a remove, reload, save or export
type OperationDoneMsg struct {
	Title   string
	Message string
	Err     error

	// Replace shows the result in place of the current screen
	Replace bool
}

// StoreChangedMsg is sent when another process wrote the store file
type StoreChangedMsg struct{}

// RefreshedMsg reports the outcome of reloading after a change on disk
type RefreshedMsg struct {
	Reloaded bool
	Err      error
}

// Send returns a command that emits msg.
func Send(msg tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return msg
	}
}

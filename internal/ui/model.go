package ui

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/siteops/dailyup/internal/config"
	"github.com/siteops/dailyup/internal/domain"
	"github.com/siteops/dailyup/internal/logging"
	"github.com/siteops/dailyup/internal/services"
	"github.com/siteops/dailyup/internal/theme"
)

const (
	noticeClearDelay = 5 * time.Second
	tipRotateDelay   = 20 * time.Second
)

type uiState int

const (
	stateLogin uiState = iota
	stateBatch
	stateCommandPalette
	stateConfirmingUpload
	stateDetail
	stateHelp
	stateOpeningFile
	stateOutcome
)

// Options configures the TUI
type Options struct {
	DevMode         bool
	Endpoint        string
	ErrorClearDelay time.Duration
	InitialError    error
	InitialFile     string
	Keys            config.KeyBindingsConfig
	Overwrite       bool
	Username        string
}

type Model struct {
	activeSet      domain.RowSet
	batchOps       *BatchOperations
	batchService   *services.BatchService
	busy           string // label of the running background operation
	commandPalette *CommandPalette
	confirmUpload  *Dialog
	confirmed      *bool // confirmation answer (pointer to persist across updates)
	detailPanel    *Dialog
	devMode        bool
	endpoint       string
	errorManager   *ErrorManager
	fileForm       *Dialog
	height         int
	help           help.Model
	helpScreen     *Dialog
	keys           KeyMap
	lastFile       string
	loginForm      *Dialog
	notice         string
	noticeSeq      int
	outcome        domain.UploadOutcome
	overwrite      bool
	pendingFile    string // opened once the user is logged in
	sessionService *services.SessionService
	spinner        spinner.Model
	spinning       bool
	state          uiState
	tables         map[domain.RowSet]*ReportTable
	tipIndex       int
	username       string
	width          int
}

// NewModel creates the root model. The session service decides whether the
// program starts on the login screen or the upload screen.
func NewModel(opts Options, sessionService *services.SessionService, batchService *services.BatchService) *Model {
	errorManager := NewErrorManager(opts.ErrorClearDelay)
	if opts.InitialError != nil {
		errorManager.SetError(opts.InitialError)
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = theme.SpinnerStyle

	m := &Model{
		activeSet:      domain.RowSetPending,
		batchOps:       NewBatchOperations(sessionService, batchService),
		batchService:   batchService,
		devMode:        opts.DevMode,
		endpoint:       opts.Endpoint,
		errorManager:   errorManager,
		help:           help.New(),
		keys:           NewKeyMap(opts.Keys),
		overwrite:      opts.Overwrite,
		pendingFile:    opts.InitialFile,
		sessionService: sessionService,
		spinner:        s,
		tables: map[domain.RowSet]*ReportTable{
			domain.RowSetPending:  NewReportTable(domain.RowSetPending),
			domain.RowSetUploaded: NewReportTable(domain.RowSetUploaded),
		},
		username: opts.Username,
	}

	if sessionService.Screen() == domain.ScreenUpload {
		m.state = stateBatch
	} else {
		m.state = stateLogin
		m.loginForm = m.newLoginDialog()
	}
	return m
}

// Attach routes session notifications into p. Call before p.Run.
func (m *Model) Attach(p *tea.Program) {
	m.sessionService.SetListener(func(event services.SessionEvent) {
		p.Send(sessionEventMsg{event: event})
	})
}

func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.rotateTip()}
	if m.errorManager.HasError() {
		cmds = append(cmds, m.errorManager.ClearAfterDelay())
	}
	if m.state == stateLogin {
		cmds = append(cmds, m.loginForm.Init())
	} else {
		cmds = append(cmds, m.enterBatch())
	}
	return tea.Batch(cmds...)
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if handled, cmd := m.updateGlobal(msg); handled {
		return m, cmd
	}

	switch m.state {
	case stateLogin:
		return m.updateLogin(msg)
	case stateBatch:
		return m.updateBatch(msg)
	case stateCommandPalette:
		return m.updateCommandPalette(msg)
	case stateConfirmingUpload:
		return m.updateConfirmingUpload(msg)
	case stateDetail:
		return m.updateDetail(msg)
	case stateHelp:
		return m.updateHelp(msg)
	case stateOpeningFile:
		return m.updateOpeningFile(msg)
	case stateOutcome:
		return m.updateOutcome(msg)
	}
	return m, nil
}

// updateGlobal handles messages that do not depend on the current state
func (m *Model) updateGlobal(msg tea.Msg) (bool, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.resizeTables()
		return true, m.forwardToDialog(msg)

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Application.ForceQuit.Binding) && m.state != stateLogin && m.state != stateOpeningFile {
			return true, tea.Quit
		}
		return false, nil

	case spinner.TickMsg:
		if msg.ID != m.spinner.ID() {
			return false, nil
		}
		if m.busy == "" && !m.sessionService.Loading() && !m.batchService.Loading() {
			m.spinning = false
			return true, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return true, cmd

	case clearErrorMsg:
		m.errorManager.ClearError()
		return true, nil

	case clearNoticeMsg:
		if msg.seq == m.noticeSeq {
			m.notice = ""
		}
		return true, nil

	case rotateTipMsg:
		m.tipIndex++
		return true, m.rotateTip()

	case sessionEventMsg:
		return true, m.handleSessionEvent(msg.event)

	case projectDoneMsg:
		m.busy = ""
		if msg.err != nil {
			if errors.Is(msg.err, domain.ErrSessionEnded) {
				return true, nil
			}
			return true, m.showError(msg.err)
		}
		logging.Logger.Debug("Project shown in TUI", "project", msg.project.Name)
		return true, nil

	case parseDoneMsg:
		m.busy = ""
		if msg.err != nil {
			return true, m.showError(msg.err)
		}
		m.lastFile = msg.path
		m.activeSet = domain.RowSetPending
		m.refreshTables()
		return true, m.showNotice(fmt.Sprintf("Loaded %d reports from %s", msg.count, filepath.Base(msg.path)))

	case uploadDoneMsg:
		m.busy = ""
		m.refreshTables()
		if msg.err != nil {
			return true, m.showError(msg.err)
		}
		m.outcome = msg.outcome
		if m.state == stateBatch {
			m.state = stateOutcome
		}
		return true, nil

	case refreshDoneMsg:
		m.busy = ""
		if msg.err != nil {
			return true, m.showError(msg.err)
		}
		return true, m.showNotice("Session renewed")

	case logoutDoneMsg:
		m.busy = ""
		return true, nil
	}

	return false, nil
}

// handleSessionEvent keeps the visible screen in step with the session
func (m *Model) handleSessionEvent(event services.SessionEvent) tea.Cmd {
	logging.Logger.Debug("Session event", "kind", string(event.Kind), "screen", string(event.Screen))

	switch event.Kind {
	case services.EventLoggedIn:
		if m.state == stateLogin {
			m.loginForm = nil
			m.state = stateBatch
			return m.enterBatch()
		}

	case services.EventLoggedOut, services.EventSessionLost:
		m.state = stateLogin
		m.clearDialogs()
		m.loginForm = m.newLoginDialog()
		cmds := []tea.Cmd{m.loginForm.Init(), m.sizeDialog(m.loginForm)}
		if event.Err != nil {
			cmds = append(cmds, m.showError(event.Err))
		}
		return tea.Batch(cmds...)

	case services.EventRefreshed:
		return m.showNotice("Session renewed")
	}
	return nil
}

// enterBatch starts the work needed once a session exists
func (m *Model) enterBatch() tea.Cmd {
	m.refreshTables()
	var cmds []tea.Cmd
	if m.sessionService.Project() == nil {
		cmds = append(cmds, m.batchOps.FetchProject())
	}
	if m.pendingFile != "" {
		cmds = append(cmds, m.batchOps.Parse(m.pendingFile))
		m.pendingFile = ""
	}
	switch len(cmds) {
	case 0:
		return nil
	case 1:
		return m.startBusy("Loading", cmds[0])
	}
	// Parse after the project so the rows carry its name
	return m.startBusy("Loading project and reports", tea.Sequence(cmds...))
}

func (m *Model) updateLogin(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.loginForm == nil {
		return m, nil
	}
	updated, cmd := m.loginForm.Update(msg)
	m.loginForm = updated.(*Dialog)

	content, ok := m.loginForm.Content().(*LoginForm)
	if !ok || !content.Completed {
		return m, cmd
	}

	result := content.Result()
	if result.Cancelled {
		return m, tea.Quit
	}
	if result.Error != nil {
		logging.Logger.Warn("Login from TUI failed", "error", result.Error)
		m.endpoint = result.Endpoint
		m.username = result.Username
		m.loginForm = m.newLoginDialog()
		return m, tea.Batch(m.loginForm.Init(), m.sizeDialog(m.loginForm), m.showError(result.Error))
	}

	m.endpoint = result.Endpoint
	m.username = result.Username
	m.errorManager.ClearError()
	if m.state == stateLogin && m.sessionService.Screen() == domain.ScreenUpload {
		m.loginForm = nil
		m.state = stateBatch
		return m, m.enterBatch()
	}
	return m, nil
}

func (m *Model) updateBatch(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case QuitMsg:
		return m, tea.Quit

	case ShowHelpMsg:
		m.helpScreen = NewDialog("Help", NewHelpScreen(&m.keys), m.devMode)
		m.state = stateHelp
		return m, tea.Batch(m.helpScreen.Init(), m.sizeDialog(m.helpScreen))

	case ShowCommandPaletteMsg:
		context := ""
		if report, ok := m.table().Current(); ok {
			context = report.ReportDate
		}
		m.commandPalette = NewCommandPalette(context, m.keys)
		m.commandPalette.Update(tea.WindowSizeMsg{Width: m.width, Height: m.height})
		m.state = stateCommandPalette
		return m, m.commandPalette.Init()

	case OpenFileMsg:
		m.fileForm = NewDialog("Open Report Workbook", NewFileForm(m.lastFile), m.devMode)
		m.state = stateOpeningFile
		return m, tea.Batch(m.fileForm.Init(), m.sizeDialog(m.fileForm))

	case SwitchTableMsg:
		if m.activeSet == domain.RowSetPending {
			m.activeSet = domain.RowSetUploaded
		} else {
			m.activeSet = domain.RowSetPending
		}
		return m, nil

	case ToggleRowMsg:
		if msg.Set != domain.RowSetPending {
			return m, m.showNotice("Uploaded reports cannot be selected")
		}
		m.batchService.Toggle(msg.Index)
		return m, nil

	case SelectAllMsg:
		m.batchService.SelectAll()
		m.activeSet = domain.RowSetPending
		return m, nil

	case DeselectAllMsg:
		m.batchService.DeselectAll()
		return m, nil

	case ToggleOverwriteMsg:
		m.overwrite = !m.overwrite
		if m.overwrite {
			return m, m.showNotice("Existing reports will be overwritten")
		}
		return m, m.showNotice("Existing reports will be kept")

	case UploadMsg:
		return m, m.requestUpload()

	case ShowDetailMsg:
		report, err := m.batchService.RowAt(msg.Set, msg.Index)
		if err != nil {
			return m, m.showError(err)
		}
		m.detailPanel = NewDialog("Report Detail", NewDetailPanel(report, msg.Set, msg.Index), m.devMode)
		m.state = stateDetail
		return m, tea.Batch(m.detailPanel.Init(), m.sizeDialog(m.detailPanel))

	case ReloadProjectMsg:
		return m, m.startBusy("Loading project", m.batchOps.FetchProject())

	case RefreshTokenMsg:
		return m, m.startBusy("Renewing session", m.batchOps.Refresh())

	case LogoutMsg:
		return m, m.startBusy("Logging out", m.batchOps.Logout())

	case tea.KeyMsg:
		return m, m.handleKey(msg)
	}

	return m, nil
}

// handleKey turns a key press on the batch screen into an action message
func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	table := m.table()
	dispatcher := NewActionDispatcher(m.activeSet, table.Cursor())
	send := func(def string) tea.Cmd {
		d := GetKeyDefinition(def)
		if d == nil {
			return nil
		}
		action := dispatcher.Dispatch(*d)
		if action == nil {
			return nil
		}
		return func() tea.Msg { return action }
	}

	switch {
	case key.Matches(msg, m.keys.Navigation.Up.Binding):
		table.MoveUp()
	case key.Matches(msg, m.keys.Navigation.Down.Binding):
		table.MoveDown()
	case key.Matches(msg, m.keys.Navigation.SwitchTable.Binding):
		return send("switch_table")
	case key.Matches(msg, m.keys.Navigation.Detail.Binding):
		return send("detail")
	case key.Matches(msg, m.keys.Batch.Toggle.Binding):
		return send("toggle")
	case key.Matches(msg, m.keys.Batch.SelectAll.Binding):
		return send("select_all")
	case key.Matches(msg, m.keys.Batch.DeselectAll.Binding):
		return send("deselect_all")
	case key.Matches(msg, m.keys.Batch.Overwrite.Binding):
		return send("overwrite")
	case key.Matches(msg, m.keys.Batch.OpenFile.Binding):
		return send("open_file")
	case key.Matches(msg, m.keys.Batch.Upload.Binding):
		return send("upload")
	case key.Matches(msg, m.keys.Application.ReloadProject.Binding):
		return send("reload_project")
	case key.Matches(msg, m.keys.Application.RefreshToken.Binding):
		return send("refresh_token")
	case key.Matches(msg, m.keys.Application.Logout.Binding):
		return send("logout")
	case key.Matches(msg, m.keys.Application.CommandPalette.Binding):
		return func() tea.Msg { return ShowCommandPaletteMsg{} }
	case key.Matches(msg, m.keys.Application.Help.Binding):
		return send("help")
	case key.Matches(msg, m.keys.Application.Quit.Binding):
		return send("quit")
	}
	return nil
}

// requestUpload asks for confirmation before overwriting, otherwise uploads
func (m *Model) requestUpload() tea.Cmd {
	if m.busy != "" {
		return m.showError(domain.ErrUploadInProgress)
	}
	selected := len(m.batchService.Selection())
	if selected == 0 {
		return m.showError(domain.ErrEmptySelection)
	}
	if !m.overwrite {
		return m.startUpload()
	}

	confirmed := false
	m.confirmed = &confirmed
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Upload %d reports and overwrite existing ones?", selected)).
				Description("Reports the server already has for these dates will be replaced.").
				Value(m.confirmed).
				Affirmative("Overwrite").
				Negative("Cancel"),
		),
	)
	m.confirmUpload = NewDialog("Confirm Upload", form, m.devMode)
	m.state = stateConfirmingUpload
	return tea.Batch(m.confirmUpload.Init(), m.sizeDialog(m.confirmUpload))
}

func (m *Model) startUpload() tea.Cmd {
	count := len(m.batchService.Selection())
	logging.Logger.Info("Upload requested from TUI", "selected", count, "overwrite", m.overwrite)
	return m.startBusy(fmt.Sprintf("Uploading %d reports", count), m.batchOps.Upload(m.overwrite))
}

func (m *Model) updateConfirmingUpload(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = stateBatch
		m.confirmUpload = nil
		return m, nil
	}

	updated, cmd := m.confirmUpload.Update(msg)
	m.confirmUpload = updated.(*Dialog)

	if form, ok := m.confirmUpload.Content().(*huh.Form); ok && form.State == huh.StateCompleted {
		m.state = stateBatch
		m.confirmUpload = nil
		if *m.confirmed {
			return m, m.startUpload()
		}
		return m, nil
	}
	return m, cmd
}

func (m *Model) updateCommandPalette(msg tea.Msg) (tea.Model, tea.Cmd) {
	updated, cmd := m.commandPalette.Update(msg)
	m.commandPalette = updated.(*CommandPalette)

	if !m.commandPalette.Completed {
		return m, cmd
	}

	result := m.commandPalette.Result
	m.commandPalette = nil
	m.state = stateBatch
	if result.Cancelled || result.Action == nil {
		return m, nil
	}

	action := NewActionDispatcher(m.activeSet, m.table().Cursor()).Dispatch(*result.Action)
	if action == nil {
		return m, m.showNotice("Nothing to act on")
	}
	return m.updateBatch(action)
}

func (m *Model) updateOpeningFile(msg tea.Msg) (tea.Model, tea.Cmd) {
	updated, cmd := m.fileForm.Update(msg)
	m.fileForm = updated.(*Dialog)

	content, ok := m.fileForm.Content().(*FileForm)
	if !ok || !content.Completed {
		return m, cmd
	}

	result := content.Result()
	m.fileForm = nil
	m.state = stateBatch
	if result.Cancelled {
		return m, nil
	}
	return m, m.startBusy("Parsing "+filepath.Base(result.Path), m.batchOps.Parse(result.Path))
}

func (m *Model) updateDetail(msg tea.Msg) (tea.Model, tea.Cmd) {
	updated, cmd := m.detailPanel.Update(msg)
	m.detailPanel = updated.(*Dialog)

	if content, ok := m.detailPanel.Content().(*DetailPanel); ok && content.Completed {
		m.detailPanel = nil
		m.state = stateBatch
		return m, nil
	}
	return m, cmd
}

func (m *Model) updateHelp(msg tea.Msg) (tea.Model, tea.Cmd) {
	updated, cmd := m.helpScreen.Update(msg)
	m.helpScreen = updated.(*Dialog)

	if content, ok := m.helpScreen.Content().(*HelpScreen); ok && content.Completed {
		m.helpScreen = nil
		m.state = stateBatch
		return m, nil
	}
	return m, cmd
}

func (m *Model) updateOutcome(msg tea.Msg) (tea.Model, tea.Cmd) {
	if _, ok := msg.(tea.KeyMsg); ok {
		m.state = stateBatch
	}
	return m, nil
}

func (m *Model) newLoginDialog() *Dialog {
	return NewDialog("Log In", NewLoginForm(m.sessionService, m.endpoint, m.username), m.devMode)
}

func (m *Model) clearDialogs() {
	m.commandPalette = nil
	m.confirmUpload = nil
	m.detailPanel = nil
	m.fileForm = nil
	m.helpScreen = nil
}

// forwardToDialog passes msg to whichever dialog is open
func (m *Model) forwardToDialog(msg tea.Msg) tea.Cmd {
	var dialog *Dialog
	switch m.state {
	case stateLogin:
		dialog = m.loginForm
	case stateConfirmingUpload:
		dialog = m.confirmUpload
	case stateDetail:
		dialog = m.detailPanel
	case stateHelp:
		dialog = m.helpScreen
	case stateOpeningFile:
		dialog = m.fileForm
	case stateCommandPalette:
		m.commandPalette.Update(msg)
		return nil
	}
	if dialog == nil {
		return nil
	}
	_, cmd := dialog.Update(msg)
	return cmd
}

// sizeDialog sends the current window size to a freshly opened dialog
func (m *Model) sizeDialog(d *Dialog) tea.Cmd {
	if m.width == 0 {
		return nil
	}
	_, cmd := d.Update(tea.WindowSizeMsg{Width: m.width, Height: m.height})
	return cmd
}

func (m *Model) table() *ReportTable {
	return m.tables[m.activeSet]
}

func (m *Model) refreshTables() {
	m.tables[domain.RowSetPending].SetRows(m.batchService.Pending())
	m.tables[domain.RowSetUploaded].SetRows(m.batchService.Uploaded())
}

func (m *Model) resizeTables() {
	// header (3) + tabs (2) + status (2) + tip (1) + help (1)
	height := max(m.height-9, 2)
	for _, t := range m.tables {
		t.SetSize(m.width, height)
	}
}

// startBusy labels the status line and runs cmd with the spinner going
func (m *Model) startBusy(label string, cmd tea.Cmd) tea.Cmd {
	m.busy = label
	if m.spinning {
		return cmd
	}
	m.spinning = true
	return tea.Batch(cmd, m.spinner.Tick)
}

func (m *Model) showError(err error) tea.Cmd {
	m.errorManager.SetError(err)
	return m.errorManager.ClearAfterDelay()
}

func (m *Model) showNotice(text string) tea.Cmd {
	m.noticeSeq++
	m.notice = text
	seq := m.noticeSeq
	return tea.Tick(noticeClearDelay, func(time.Time) tea.Msg {
		return clearNoticeMsg{seq: seq}
	})
}

func (m *Model) rotateTip() tea.Cmd {
	return tea.Tick(tipRotateDelay, func(time.Time) tea.Msg {
		return rotateTipMsg{}
	})
}

package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/siteops/dailyup/internal/config"
	"github.com/siteops/dailyup/internal/logging"
	"github.com/siteops/dailyup/internal/services"
	"github.com/siteops/dailyup/internal/theme"
)

// LoginFormResult contains what the user submitted
type LoginFormResult struct {
	Cancelled bool
	Endpoint  string
	Error     error
	Password  string
	Username  string
}

// LoginForm collects credentials and logs in while showing a spinner
type LoginForm struct {
	Completed bool

	form           *huh.Form
	loggingIn      bool
	result         LoginFormResult
	sessionService *services.SessionService
	spinner        spinner.Model
}

// NewLoginForm creates a login form prefilled with the last server and username
func NewLoginForm(sessionService *services.SessionService, endpoint, username string) *LoginForm {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = theme.SpinnerStyle

	lf := &LoginForm{
		result: LoginFormResult{
			Endpoint: endpoint,
			Username: username,
		},
		sessionService: sessionService,
		spinner:        s,
	}

	lf.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Server").
				Value(&lf.result.Endpoint).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("server URL required")
					}
					return nil
				}),
			huh.NewInput().
				Title("Username").
				Description("Username or phone number").
				Value(&lf.result.Username).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("username required")
					}
					return nil
				}),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&lf.result.Password).
				Validate(func(s string) error {
					if s == "" {
						return errors.New("password required")
					}
					return nil
				}),
		),
	)
	return lf
}

func (lf *LoginForm) Init() tea.Cmd {
	return lf.form.Init()
}

func (lf *LoginForm) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(loginDoneMsg); ok {
		lf.loggingIn = false
		lf.Completed = true
		lf.result.Error = msg.err
		lf.result.Password = ""
		return lf, nil
	}

	if lf.loggingIn {
		var cmd tea.Cmd
		lf.spinner, cmd = lf.spinner.Update(msg)
		return lf, cmd
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc || keyMsg.Type == tea.KeyCtrlC {
			lf.Completed = true
			lf.result.Cancelled = true
			return lf, nil
		}
	}

	form, cmd := lf.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		lf.form = f
	}

	if lf.form.State == huh.StateCompleted && !lf.loggingIn {
		lf.loggingIn = true
		return lf, tea.Batch(lf.loginCmd(), lf.spinner.Tick)
	}

	return lf, cmd
}

func (lf *LoginForm) View() string {
	if lf.loggingIn {
		return fmt.Sprintf("\n%s Logging in as %s...\n", lf.spinner.View(), lf.result.Username)
	}
	return lf.form.View()
}

// Result returns the form result
func (lf *LoginForm) Result() LoginFormResult {
	return lf.result
}

func (lf *LoginForm) loginCmd() tea.Cmd {
	endpoint := strings.TrimSpace(lf.result.Endpoint)
	username := strings.TrimSpace(lf.result.Username)
	password := lf.result.Password
	return func() tea.Msg {
		session, err := lf.sessionService.Login(context.Background(), username, password, endpoint)
		if err != nil {
			return loginDoneMsg{err: err}
		}
		if err := config.RememberLogin(session.Endpoint, session.Identity.Username); err != nil {
			logging.Logger.Warn("Failed to remember login", "error", err)
		}
		return loginDoneMsg{}
	}
}

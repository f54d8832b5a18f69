package ui

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/siteops/dailyup/internal/domain"
	"github.com/siteops/dailyup/internal/theme"
)

func (m *Model) View() string {
	switch m.state {
	case stateLogin:
		if m.loginForm == nil {
			return ""
		}
		return m.loginForm.View() + "\n" + m.renderError()
	case stateHelp:
		return m.helpScreen.View()
	case stateDetail:
		return m.detailPanel.View()
	case stateOpeningFile:
		return m.fileForm.View() + "\n" + m.renderError()
	case stateConfirmingUpload:
		return m.confirmUpload.View()
	case stateCommandPalette:
		return bottomAnchoredOverlay(m.renderBatch(), m.commandPalette.View(), m.width, m.height)
	case stateOutcome:
		return compositeOverlay(m.renderBatch(), m.renderOutcome(), m.width, m.height)
	}
	return m.renderBatch()
}

func (m *Model) renderBatch() string {
	var b strings.Builder

	b.WriteString(m.renderSessionHeader())
	b.WriteString("\n")
	b.WriteString(m.renderTabs())
	b.WriteString("\n\n")

	selected := func(i int) bool { return m.batchService.IsSelected(i) }
	b.WriteString(m.table().View(selected))

	// Pad the table area so the footer stays at the bottom
	used := strings.Count(b.String(), "\n") + 1
	if pad := m.height - used - 4; pad > 0 {
		b.WriteString(strings.Repeat("\n", pad))
	}

	b.WriteString("\n")
	b.WriteString(m.renderStatus())
	b.WriteString("\n")
	b.WriteString(m.renderTip())
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m *Model) renderSessionHeader() string {
	line := theme.AppNameStyle.Render("dailyup")

	session := m.sessionService.Session()
	if session.Active() {
		line += theme.LabelStyle.Render("  user ") + session.Identity.Name()
		line += theme.LabelStyle.Render("  expires ") + humanize.Time(session.ExpiresAt)
	}

	projectLine := theme.LabelStyle.Render("project ")
	if project := m.sessionService.Project(); project != nil {
		projectLine += project.Name
		if project.StatusName != "" {
			projectLine += theme.LabelStyle.Render("  (" + project.StatusName + ")")
		}
	} else {
		projectLine += theme.DimmedStyle.Render("not loaded")
	}
	return line + "\n" + projectLine + "\n"
}

func (m *Model) renderTabs() string {
	pending := fmt.Sprintf("Pending (%d)", len(m.batchService.Pending()))
	uploaded := fmt.Sprintf("Uploaded (%d)", len(m.batchService.Uploaded()))

	var tabs string
	if m.activeSet == domain.RowSetPending {
		tabs = theme.TabActiveStyle.Render(pending) + " " + theme.TabInactiveStyle.Render(uploaded)
	} else {
		tabs = theme.TabInactiveStyle.Render(pending) + " " + theme.TabActiveStyle.Render(uploaded)
	}

	info := fmt.Sprintf("  %d selected", len(m.batchService.Selection()))
	if m.overwrite {
		info += "  overwrite on"
	}
	info += fmt.Sprintf("  policy %s", m.batchService.Policy())
	return tabs + theme.LabelStyle.Render(info)
}

// renderStatus shows, in order of precedence, the error, the running
// operation or the last notice. It always takes two lines.
func (m *Model) renderStatus() string {
	var status string
	switch {
	case m.errorManager.HasError():
		status = theme.ErrorStyle.Render(formatErrorForDisplay(m.errorManager.GetError(), m.width))
	case m.busy != "":
		status = m.spinner.View() + " " + m.busy + "..."
	case m.sessionService.Loading() || m.batchService.Loading():
		status = m.spinner.View() + " Working..."
	case m.notice != "":
		status = theme.SuccessStyle.Render(m.notice)
	}
	if !strings.Contains(status, "\n") {
		status += "\n"
	}
	return status
}

func (m *Model) renderError() string {
	if !m.errorManager.HasError() {
		return ""
	}
	return theme.ErrorStyle.Render(formatErrorForDisplay(m.errorManager.GetError(), m.width))
}

func (m *Model) renderTip() string {
	all := GetTips()
	if len(all) == 0 {
		return ""
	}
	return RenderTip(all[m.tipIndex%len(all)])
}

func (m *Model) renderOutcome() string {
	o := m.outcome

	var b strings.Builder
	b.WriteString(theme.SubtitleStyle.Render("Upload finished") + "\n\n")
	b.WriteString(fmt.Sprintf("%s %d of %d\n", theme.LabelStyle.Render("Uploaded "), o.Succeeded, o.Total))
	b.WriteString(fmt.Sprintf("%s %d\n", theme.LabelStyle.Render("Failed   "), o.Failed))
	b.WriteString(fmt.Sprintf("%s %d\n", theme.LabelStyle.Render("Skipped  "), o.Skipped))

	failed := 0
	for _, r := range o.Results {
		if r.Success {
			continue
		}
		if failed == 0 {
			b.WriteString("\n" + theme.LabelStyle.Render("Failed rows") + "\n")
		}
		failed++
		if failed > 5 {
			b.WriteString(theme.DimmedStyle.Render("  ...") + "\n")
			break
		}
		b.WriteString(fmt.Sprintf("  %s  %s\n", r.ReportDate, r.Message))
	}

	b.WriteString("\n" + theme.DimmedStyle.Render("press any key to continue"))
	return theme.PaletteBorderStyle.Render(b.String())
}

package ui

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/siteops/dailyup/internal/config"
)

var supportedExtensions = []string{".xlsx", ".xlsm", ".xls", ".json"}

// FileFormResult contains the chosen workbook path
type FileFormResult struct {
	Cancelled bool
	Path      string
}

// FileForm asks for the workbook to parse
type FileForm struct {
	Completed bool

	form   *huh.Form
	result FileFormResult
}

// NewFileForm creates the form, prefilled with the last opened path
func NewFileForm(lastPath string) *FileForm {
	ff := &FileForm{result: FileFormResult{Path: lastPath}}

	ff.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Report workbook").
				Description(".xlsx, .xls or a .json export").
				Value(&ff.result.Path).
				Validate(validateReportPath),
		),
	)
	return ff
}

func validateReportPath(path string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return errors.New("file path required")
	}
	info, err := os.Stat(config.ExpandPath(path))
	if err != nil {
		return fmt.Errorf("cannot open %s", path)
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", path)
	}
	ext := strings.ToLower(filepath.Ext(path))
	for _, supported := range supportedExtensions {
		if ext == supported {
			return nil
		}
	}
	return fmt.Errorf("unsupported file type %q", ext)
}

func (ff *FileForm) Init() tea.Cmd {
	return ff.form.Init()
}

func (ff *FileForm) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc || keyMsg.Type == tea.KeyCtrlC {
			ff.Completed = true
			ff.result.Cancelled = true
			return ff, nil
		}
	}

	form, cmd := ff.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		ff.form = f
	}
	if ff.form.State == huh.StateCompleted {
		ff.Completed = true
		ff.result.Path = config.ExpandPath(strings.TrimSpace(ff.result.Path))
		return ff, nil
	}
	return ff, cmd
}

func (ff *FileForm) View() string {
	return ff.form.View()
}

// Result returns the form result
func (ff *FileForm) Result() FileFormResult {
	return ff.result
}

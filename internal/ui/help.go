package ui

import (
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
	"github.com/noborus/ov/oviewer"
)

// pagerClosedMsg reports that the pager exited
type pagerClosedMsg struct {
	err error
}

// HelpRenderer renders the full key reference shown in the pager
type HelpRenderer struct{}

// NewHelpRenderer creates a new help renderer
func NewHelpRenderer() *HelpRenderer {
	return &HelpRenderer{}
}

// RenderHelpContent lists every enabled binding, grouped by section
func (r *HelpRenderer) RenderHelpContent(keys KeyMap) string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("99")).
		MarginBottom(1)

	sectionStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("39")).
		MarginTop(1)

	keyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("220")).
		Width(14)

	descStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("252"))

	sections := []struct {
		name     string
		bindings []key.Binding
	}{
		{"Navigation", []key.Binding{keys.Up, keys.Down, keys.Close}},
		{"Selection", []key.Binding{keys.Select, keys.Finish, keys.SelectAll, keys.ClearAll, keys.Remove}},
		{"Search", []key.Binding{keys.Refresh, keys.Preview}},
		{"Other", []key.Binding{keys.Help, keys.Quit}},
	}

	var help strings.Builder
	help.WriteString(titleStyle.Render("typeahead Help"))
	help.WriteString("\n")

	for _, section := range sections {
		var lines []string
		for _, b := range section.bindings {
			if !b.Enabled() {
				continue
			}
			h := b.Help()
			lines = append(lines, fmt.Sprintf("  %s %s", keyStyle.Render(h.Key), descStyle.Render(h.Desc)))
		}
		if len(lines) == 0 {
			continue
		}
		help.WriteString(sectionStyle.Render(section.name))
		help.WriteString("\n")
		help.WriteString(strings.Join(lines, "\n"))
		help.WriteString("\n")
	}

	help.WriteString("\n")
	help.WriteString(lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("241")).
		Render("  Any other key edits the query. Remote results appear after a short pause."))
	return help.String()
}

// pagerCommand shows content in ov. It runs through tea.Exec so bubbletea
// releases the terminal for the pager and restores it afterwards.
type pagerCommand struct {
	content string
}

func (c *pagerCommand) Run() error {
	root, err := oviewer.NewRoot(strings.NewReader(c.content))
	if err != nil {
		return err
	}

	// Configure ov to not write on exit (to avoid messing with our screen)
	config := oviewer.NewConfig()
	config.IsWriteOnExit = false
	config.IsWriteOriginal = false
	root.SetConfig(config)

	return root.Run()
}

// ov talks to the terminal itself
func (c *pagerCommand) SetStdin(io.Reader)  {}
func (c *pagerCommand) SetStdout(io.Writer) {}
func (c *pagerCommand) SetStderr(io.Writer) {}

// ShowInPager returns a command that pages content with ov
func ShowInPager(content string) tea.Cmd {
	return tea.Exec(&pagerCommand{content: content}, func(err error) tea.Msg {
		return pagerClosedMsg{err: err}
	})
}

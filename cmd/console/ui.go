package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/jwebster45206/burrow/pkg/randtext"
)

const (
	PlaceHolderText = "Type a template, e.g. <Squeak|Eek:3>! Mind the \\<hole\\>."

	// maxRenders bounds the scrollback kept in the output panel.
	maxRenders = 200
)

// Playground is the BubbleTea model for the template console.
// https://github.com/charmbracelet/bubbletea
type Playground struct {
	expander *randtext.Expander
	clip     func(string) error

	template string
	renders  []string
	issues   []randtext.Issue
	status   string
	isError  bool

	outputViewport viewport.Model
	metaViewport   viewport.Model
	input          textarea.Model
	ready          bool
	width          int
	height         int
}

var (
	outputPanelStyle = lipgloss.NewStyle().
				PaddingTop(2).
				PaddingBottom(1).
				PaddingLeft(3).
				PaddingRight(0)

	metaPanelStyle = lipgloss.NewStyle().
			PaddingTop(2).
			PaddingBottom(0).
			PaddingLeft(0).
			PaddingRight(2)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")). // pink
			Bold(true)

	renderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")) // green

	templateStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")) // teal

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")) // red

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")) // yellow

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	separatorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)

// NewPlayground creates the console model. clip writes a line to the
// system clipboard.
func NewPlayground(exp *randtext.Expander, clip func(string) error) Playground {
	ta := textarea.New()
	ta.Placeholder = PlaceHolderText
	ta.Focus()
	ta.Prompt = promptStyle.Render(":: ")
	ta.CharLimit = 2000
	ta.SetWidth(50)
	ta.SetHeight(3)
	ta.ShowLineNumbers = false

	outVp := viewport.New(50, 20)
	outVp.MouseWheelEnabled = true

	metaVp := viewport.New(24, 20)

	return Playground{
		expander:       exp,
		clip:           clip,
		input:          ta,
		outputViewport: outVp,
		metaViewport:   metaVp,
	}
}

func (m Playground) Init() tea.Cmd {
	return textarea.Blink
}

func (m Playground) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		outWidth := int(float64(m.width)*0.7) - 4
		metaWidth := m.width - outWidth - 6

		m.outputViewport.Width = outWidth - 2
		m.outputViewport.Height = m.height - 7
		m.metaViewport.Width = metaWidth - 2
		m.metaViewport.Height = m.height - 4
		m.input.SetWidth(outWidth - 4)
		m.ready = true
		m.refresh()

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit

		case tea.KeyEnter:
			template := strings.TrimRight(m.input.Value(), "\n")
			if template == "" {
				return m, nil
			}
			m.template = template
			m.issues = randtext.Lint(template)
			m.render()
			return m, nil

		case tea.KeyCtrlR:
			if m.template == "" {
				m.setStatus("Nothing to re-roll yet", true)
			} else {
				m.render()
			}
			return m, nil

		case tea.KeyCtrlY:
			if len(m.renders) == 0 {
				m.setStatus("Nothing to copy yet", true)
				return m, nil
			}
			if err := m.clip(m.renders[len(m.renders)-1]); err != nil {
				m.setStatus("Copy failed: "+err.Error(), true)
			} else {
				m.setStatus("Copied last line", false)
			}
			return m, nil
		}
	}

	m.input, tiCmd = m.input.Update(msg)
	m.outputViewport, vpCmd = m.outputViewport.Update(msg)

	return m, tea.Batch(tiCmd, vpCmd)
}

func (m *Playground) render() {
	m.renders = append(m.renders, m.expander.Expand(m.template))
	if len(m.renders) > maxRenders {
		m.renders = m.renders[len(m.renders)-maxRenders:]
	}
	m.status = ""
	m.refresh()
}

func (m *Playground) setStatus(status string, isError bool) {
	m.status = status
	m.isError = isError
	m.refresh()
}

// refresh rebuilds both panels for the current viewport widths.
func (m *Playground) refresh() {
	m.outputViewport.SetContent(m.writeOutput(m.outputViewport.Width - 6))
	m.outputViewport.GotoBottom()
	m.metaViewport.SetContent(m.writeMeta(m.metaViewport.Width))
}

func (m *Playground) writeOutput(width int) string {
	width = max(width, 10)

	var content strings.Builder
	content.WriteString(titleStyle.Render("BURROW TEMPLATE PLAYGROUND") + "\n\n")
	content.WriteString(separatorStyle.Render(strings.Repeat("─", width)) + "\n\n")

	if m.template != "" {
		content.WriteString(templateStyle.Render("Template: ") + wordwrap.String(m.template, width-10) + "\n\n")
	}

	for _, r := range m.renders {
		content.WriteString(renderStyle.Render("» ") + wordwrap.String(r, width-2) + "\n")
	}

	if m.status != "" {
		style := promptStyle
		if m.isError {
			style = errorStyle
		}
		content.WriteString("\n" + style.Render(m.status) + "\n")
	}

	return content.String()
}

func (m *Playground) writeMeta(width int) string {
	width = max(width, 10)

	var content strings.Builder
	content.WriteString(titleStyle.Render("TEMPLATE") + "\n\n")

	content.WriteString("Renders:\n")
	content.WriteString(fmt.Sprintf("%d\n\n", len(m.renders)))

	content.WriteString("Issues:\n")
	if m.template == "" {
		content.WriteString("-\n")
	} else if len(m.issues) == 0 {
		content.WriteString("None\n")
	} else {
		for _, issue := range m.issues {
			line := fmt.Sprintf("• @%d %s", issue.Pos, issue.Kind)
			content.WriteString(warningStyle.Render(wordwrap.String(line, width)) + "\n")
		}
	}

	content.WriteString("\n")
	content.WriteString("Keys:\n")
	content.WriteString("• Enter: Render\n")
	content.WriteString("• Ctrl+R: Re-roll\n")
	content.WriteString("• Ctrl+Y: Copy\n")
	content.WriteString("• Esc: Quit\n")

	return content.String()
}

func (m Playground) View() string {
	if !m.ready {
		return "\n  Initializing..."
	}

	outWidth := int(float64(m.width)*0.7) - 4
	metaWidth := m.width - outWidth - 6

	outputPanel := outputPanelStyle.Width(outWidth).Height(m.height - 3).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			m.outputViewport.View(),
			"",
			separatorStyle.Render(strings.Repeat("─", max(outWidth-4, 1))),
			m.input.View(),
		),
	)

	metaPanel := metaPanelStyle.Width(metaWidth).Height(m.height - 2).Render(
		m.metaViewport.View(),
	)

	return lipgloss.JoinHorizontal(lipgloss.Top, outputPanel, metaPanel)
}

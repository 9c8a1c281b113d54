// internal/tui/tui.go
// Package tui provides the interactive chat interface for the calculator
// assistant.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/abaxtools/abax/internal/appconfig"
	"github.com/abaxtools/abax/internal/chat"
	"github.com/abaxtools/abax/internal/util"
)

// asker is the slice of the chat engine the UI needs.
type asker interface {
	Ask(ctx context.Context, prompt string) (string, error)
}

// turn is one completed question/answer pair.
type turn struct {
	role    string
	content string
}

type model struct {
	ctx    context.Context
	cfg    *appconfig.Config
	engine asker

	textArea textarea.Model
	viewport viewport.Model
	spinner  spinner.Model

	history          []turn
	isLoading        bool
	err              error
	width, height    int
	requestStartTime time.Time
}

// answerMsg is sent when the engine finishes a turn.
type answerMsg string

// answerErr is sent when a turn fails.
type answerErr struct{ error }

// tickMsg drives the elapsed-time display while waiting.
type tickMsg time.Time

func initialModel(ctx context.Context, cfg *appconfig.Config, engine asker) *model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	ta := textarea.New()
	ta.Placeholder = "Ask an arithmetic question..."
	ta.Focus()
	ta.Prompt = "Ask: "
	ta.ShowLineNumbers = false
	ta.CharLimit = -1
	ta.SetHeight(1)
	ta.KeyMap.InsertNewline.SetEnabled(false)

	vp := viewport.New(100, 5)

	return &model{
		ctx:      ctx,
		cfg:      cfg,
		engine:   engine,
		spinner:  s,
		textArea: ta,
		viewport: vp,
	}
}

// askCmd runs one engine turn off the UI goroutine.
func askCmd(ctx context.Context, engine asker, prompt string) tea.Cmd {
	return func() tea.Msg {
		answer, err := engine.Ask(ctx, prompt)
		if err != nil {
			return answerErr{error: err}
		}
		return answerMsg(answer)
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Millisecond*100, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *model) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		cmd  tea.Cmd
		cmds []tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "enter":
			userInput := strings.TrimSpace(m.textArea.Value())
			if userInput != "" && !m.isLoading {
				m.history = append(m.history, turn{role: "user", content: userInput})
				m.textArea.Reset()
				m.isLoading = true
				m.err = nil
				m.requestStartTime = time.Now()
				return m, tea.Batch(m.spinner.Tick, askCmd(m.ctx, m.engine, userInput), tickCmd())
			}
		}

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.textArea.SetWidth(util.Max(msg.Width-3, 20))
		headerHeight := 2
		footerHeight := 3
		m.viewport.Width = msg.Width
		m.viewport.Height = util.Max(msg.Height-headerHeight-footerHeight, 3)

	case answerMsg:
		m.history = append(m.history, turn{role: "assistant", content: string(msg)})
		m.isLoading = false
		m.textArea.Focus()
		m.viewport.GotoBottom()
		return m, nil

	case answerErr:
		m.isLoading = false
		m.err = msg.error
		m.textArea.Focus()
		return m, nil

	case tickMsg:
		if m.isLoading {
			return m, tickCmd()
		}
		return m, nil
	}

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	m.textArea, cmd = m.textArea.Update(msg)
	cmds = append(cmds, cmd)

	if m.isLoading {
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m *model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	var builder strings.Builder

	headerStyle := lipgloss.NewStyle().Background(lipgloss.Color("62")).Foreground(lipgloss.Color("230")).Padding(0, 1)
	endpoint := m.cfg.LLMEndpoint
	if endpoint == "" {
		endpoint = "no LLM endpoint (direct tool mode)"
	}
	header := lipgloss.JoinHorizontal(lipgloss.Top,
		headerStyle.Render("Calculator Assistant"),
		headerStyle.MarginLeft(1).Render(endpoint),
	)
	help := lipgloss.NewStyle().Render(" (esc to quit)")
	builder.WriteString(header + help + "\n\n")

	userStyle := lipgloss.NewStyle().Bold(true)
	assistantStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("5"))

	var historyBuilder strings.Builder
	for _, t := range m.history {
		role := userStyle.Render("You: ")
		if t.role == "assistant" {
			role = assistantStyle.Render("Assistant: ")
		}
		wrapped := lipgloss.NewStyle().Width(m.width - lipgloss.Width(role) - 2).Render(t.content)
		historyBuilder.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, role, wrapped) + "\n")
	}
	m.viewport.SetContent(historyBuilder.String())
	builder.WriteString(m.viewport.View())

	if m.err != nil {
		errorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
		builder.WriteString("\n" + errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	}

	if m.isLoading {
		timer := fmt.Sprintf("%.1f", time.Since(m.requestStartTime).Seconds())
		builder.WriteString("\n" + m.spinner.View() + fmt.Sprintf(" Working... %ss", timer))
	} else {
		builder.WriteString("\n" + m.textArea.View())
	}

	return builder.String()
}

// Start runs the interactive chat program until the user quits.
func Start(ctx context.Context, cfg *appconfig.Config, engine *chat.Engine) error {
	m := initialModel(ctx, cfg, engine)
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

package main

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/jwebster45206/scene-engine/pkg/scene"
	"github.com/muesli/reflow/wordwrap"
)

const (
	PlaceHolderText = "Pick 1-3, or type your own action..."
	helpText        = "1-3: choose • Enter: act • Ctrl+G: illustrate • Ctrl+Y: copy image • Ctrl+R: restart • Esc: quit"
)

// ConsoleUI is the BubbleTea model that runs the UI.
// https://github.com/charmbracelet/bubbletea
type ConsoleUI struct {
	config       *ConsoleConfig
	client       *http.Client
	viewport     viewport.Model
	textarea     textarea.Model
	ready        bool
	width        int
	height       int
	err          error
	status       string
	loading      bool
	progressTick int

	// scenes[i+1] followed from actions[i]
	scenes   []scene.Record
	actions  []string
	imageURI string
}

type sceneMsg struct {
	record *scene.Record
	action string
	err    error
}

type imageMsg struct {
	dataURI string
	err     error
}

type progressTickMsg struct{}

var (
	storyPanelStyle = lipgloss.NewStyle().
			PaddingTop(1).
			PaddingLeft(3).
			PaddingRight(3)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")). // pink
			Bold(true)

	narratorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")) // green

	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")) // teal

	choiceStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")). // purple
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")) // red

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")) // yellow

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	separatorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey
)

func NewConsoleUI(cfg *ConsoleConfig, client *http.Client) ConsoleUI {
	ta := textarea.New()
	ta.Placeholder = PlaceHolderText
	ta.Focus()
	ta.Prompt = promptStyle.Render(":: ")
	ta.CharLimit = 300
	ta.SetWidth(50)
	ta.SetHeight(2)
	ta.ShowLineNumbers = false

	vp := viewport.New(50, 20)
	vp.MouseWheelEnabled = true

	return ConsoleUI{
		config:   cfg,
		client:   client,
		textarea: ta,
		viewport: vp,
		loading:  true,
	}
}

func (m ConsoleUI) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, m.requestStart(), progressTick())
}

func (m ConsoleUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.MouseMsg:
		m.viewport, vpCmd = m.viewport.Update(msg)
		return m, vpCmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = msg.Width - 6
		m.viewport.Height = msg.Height - 7
		m.textarea.SetWidth(msg.Width - 8)
		m.ready = true
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		}
		if m.loading {
			return m, nil
		}

		switch msg.String() {
		case "ctrl+r":
			m.scenes = nil
			m.actions = nil
			m.imageURI = ""
			return m.startLoading("Starting a new adventure...", m.requestStart())

		case "ctrl+g":
			current := m.current()
			if current == nil {
				return m, nil
			}
			return m.startLoading("Painting the scene...", m.requestImage(current.ImagePrompt))

		case "ctrl+y":
			if m.imageURI == "" {
				m.status = "No illustration yet. Press Ctrl+G first."
			} else if err := clipboard.WriteAll(m.imageURI); err != nil {
				m.err = fmt.Errorf("failed to copy to clipboard: %w", err)
			} else {
				m.status = "Image data URI copied to clipboard."
			}
			m.refresh()
			return m, nil

		case "1", "2", "3":
			if m.textarea.Value() == "" {
				if action, ok := m.choice(msg.String()); ok {
					return m.takeAction(action)
				}
				return m, nil
			}

		case "enter":
			action := strings.TrimSpace(m.textarea.Value())
			m.textarea.Reset()
			if action == "" {
				return m, nil
			}
			if picked, ok := m.choice(action); ok {
				action = picked
			}
			return m.takeAction(action)
		}

	case sceneMsg:
		m.loading = false
		m.status = ""
		if msg.err != nil {
			m.err = msg.err
		} else {
			m.err = nil
			if msg.action != "" {
				m.actions = append(m.actions, msg.action)
			}
			m.scenes = append(m.scenes, *msg.record)
			m.imageURI = ""
		}
		m.refresh()
		return m, nil

	case imageMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			m.status = ""
		} else {
			m.err = nil
			m.imageURI = msg.dataURI
			m.status = fmt.Sprintf("Illustration ready (%d KB). Press Ctrl+Y to copy its data URI.", len(msg.dataURI)/1024)
		}
		m.refresh()
		return m, nil

	case progressTickMsg:
		if !m.loading {
			return m, nil
		}
		m.progressTick++
		m.refresh()
		return m, progressTick()
	}

	m.textarea, tiCmd = m.textarea.Update(msg)
	m.viewport, vpCmd = m.viewport.Update(msg)
	return m, tea.Batch(tiCmd, vpCmd)
}

func (m ConsoleUI) View() string {
	if !m.ready {
		return "\n  Initializing..."
	}

	return storyPanelStyle.Width(m.width).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			m.viewport.View(),
			separatorStyle.Render(strings.Repeat("─", max(m.width-6, 1))),
			m.textarea.View(),
			promptStyle.Render(helpText),
		),
	)
}

// current returns the latest scene, or nil before the adventure starts.
func (m ConsoleUI) current() *scene.Record {
	if len(m.scenes) == 0 {
		return nil
	}
	return &m.scenes[len(m.scenes)-1]
}

// choice resolves "1".."3" to the matching choice of the current scene.
func (m ConsoleUI) choice(key string) (string, bool) {
	current := m.current()
	if current == nil || len(key) != 1 {
		return "", false
	}
	idx := int(key[0] - '1')
	if idx < 0 || idx >= len(current.Choices) {
		return "", false
	}
	return current.Choices[idx], true
}

// history lists every scene description so far, oldest first.
func (m ConsoleUI) history() []string {
	history := make([]string, 0, len(m.scenes))
	for _, s := range m.scenes {
		history = append(history, s.SceneDescription)
	}
	return history
}

func (m ConsoleUI) takeAction(action string) (tea.Model, tea.Cmd) {
	if m.current() == nil {
		return m, nil
	}
	return m.startLoading("", m.requestNext(m.history(), action))
}

func (m ConsoleUI) startLoading(status string, cmd tea.Cmd) (tea.Model, tea.Cmd) {
	m.loading = true
	m.err = nil
	m.status = status
	m.progressTick = 0
	m.refresh()
	return m, tea.Batch(cmd, progressTick())
}

// refresh re-renders the story for the current viewport width.
func (m *ConsoleUI) refresh() {
	m.viewport.SetContent(renderStory(m.scenes, m.actions, m.viewport.Width, m.err, m.status, m.progressBar()))
	m.viewport.GotoBottom()
}

func renderStory(scenes []scene.Record, actions []string, width int, err error, status, progress string) string {
	wrapWidth := width - 2
	if wrapWidth < 20 {
		wrapWidth = 20
	}

	var content strings.Builder
	content.WriteString(titleStyle.Render("SCENE ENGINE") + "\n\n")

	for i, s := range scenes {
		content.WriteString(narratorStyle.Render(wordwrap.String(s.SceneDescription, wrapWidth)) + "\n\n")
		if i < len(actions) {
			content.WriteString(userStyle.Render("You: ") + wordwrap.String(actions[i], wrapWidth-5) + "\n\n")
		}
	}

	if len(scenes) > 0 && len(actions) < len(scenes) {
		current := scenes[len(scenes)-1]
		for i, c := range current.Choices {
			content.WriteString(choiceStyle.Render(fmt.Sprintf("%d.", i+1)) + " " + wordwrap.String(c, wrapWidth-3) + "\n")
		}
		content.WriteString("\n")
	}

	if status != "" {
		content.WriteString(statusStyle.Render(status) + "\n")
	}
	if err != nil {
		content.WriteString(errorStyle.Render("Error: "+err.Error()) + "\n")
	}
	if progress != "" {
		content.WriteString(progress + "\n")
	}
	return content.String()
}

func (m ConsoleUI) requestStart() tea.Cmd {
	return func() tea.Msg {
		rec, err := startScene(m.client, m.config.APIBaseURL)
		return sceneMsg{record: rec, err: err}
	}
}

func (m ConsoleUI) requestNext(history []string, action string) tea.Cmd {
	return func() tea.Msg {
		rec, err := nextScene(m.client, m.config.APIBaseURL, history, action)
		return sceneMsg{record: rec, action: action, err: err}
	}
}

func (m ConsoleUI) requestImage(prompt string) tea.Cmd {
	return func() tea.Msg {
		uri, err := generateImage(m.client, m.config.APIBaseURL, prompt)
		return imageMsg{dataURI: uri, err: err}
	}
}

// progressBar creates an animated progress bar for loading states
func (m ConsoleUI) progressBar() string {
	if !m.loading {
		return ""
	}

	usable := m.viewport.Width - 6
	if usable > 80 {
		usable = 80
	} else if usable < 10 {
		usable = 10
	}

	const totalFrames = 40
	frame := m.progressTick % totalFrames
	filled := (frame * usable) / totalFrames

	var bar strings.Builder
	for i := 0; i < usable; i++ {
		switch {
		case i < filled:
			bar.WriteString("█")
		case i == filled && frame%4 < 2:
			bar.WriteString("▓")
		default:
			bar.WriteString("░")
		}
	}
	return separatorStyle.Render(bar.String())
}

// progressTick creates a command that sends a progress tick message
func progressTick() tea.Cmd {
	return tea.Tick(time.Millisecond*200, func(time.Time) tea.Msg {
		return progressTickMsg{}
	})
}

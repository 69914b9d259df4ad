package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/intervo/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/intervo/internal/core/domain"
)

// phase tracks which screen of the interview flow is active.
type phase int

const (
	// phasePicking shows the guide list.
	phasePicking phase = iota
	// phaseAsking shows the current question and the answer input.
	phaseAsking
	// phaseComplete shows the end-of-interview summary.
	phaseComplete
)

// App is the interview TUI following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	// styles holds the TUI styles.
	styles *styles.Styles

	// input is the answer text input.
	input textinput.Model

	// guides is the pickable guide list.
	guides []domain.Guide

	// selected is the cursor position in the guide list.
	selected int

	// session is the running interview session.
	session *domain.Session

	// question is the session's current question.
	question *domain.Question

	// followUps are the prompts generated for the previous answer.
	followUps []domain.FollowUpPrompt

	// rejection holds review feedback for a rejected answer.
	rejection string

	// answered counts accepted answers in this session.
	answered int

	// phase tracks which screen is active.
	phase phase

	// busy indicates a service call is in flight.
	busy bool

	// err holds the last error that occurred.
	err error

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates if the app has initialised.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new interview TUI with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	ti := textinput.New()
	ti.Placeholder = "Type your answer..."
	ti.CharLimit = 0
	ti.Width = 60

	return &App{
		ports:  ports,
		ctx:    context.Background(),
		styles: styles.DefaultStyles(),
		input:  ti,
		phase:  phasePicking,
	}, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// Init implements tea.Model.
// It runs initial commands when the program starts.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		tea.SetWindowTitle("intervo - Interview Runner"),
		textinput.Blink,
		a.loadGuides(),
	)
}

// Update implements tea.Model.
// It handles messages and updates the model state.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		return a, nil

	case tea.KeyMsg:
		return a.handleKeyMsg(msg)

	case guidesLoaded:
		a.err = msg.Err
		a.guides = msg.Guides
		a.selected = 0
		return a, nil

	case sessionStarted:
		a.busy = false
		if msg.Err != nil {
			a.err = msg.Err
			return a, nil
		}
		a.err = nil
		a.session = msg.Session
		a.question = msg.Question
		a.followUps = nil
		a.rejection = ""
		a.answered = 0
		a.phase = phaseAsking
		a.input.Reset()
		return a, a.input.Focus()

	case answerSubmitted:
		a.busy = false
		a.handleAnswerSubmitted(msg)
		return a, nil
	}

	return a, nil
}

// handleKeyMsg processes keyboard input for the active phase.
func (a *App) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Global quit with ctrl+c
	if msg.String() == "ctrl+c" {
		return a, tea.Quit
	}
	if a.busy {
		return a, nil
	}

	switch a.phase {
	case phasePicking:
		switch msg.String() {
		case "q", "esc":
			return a, tea.Quit
		case "up", "k":
			if a.selected > 0 {
				a.selected--
			}
		case "down", "j":
			if a.selected < len(a.guides)-1 {
				a.selected++
			}
		case "enter":
			if len(a.guides) == 0 {
				return a, nil
			}
			a.busy = true
			a.err = nil
			return a, a.startSession(a.guides[a.selected].ID)
		}
		return a, nil

	case phaseAsking:
		if msg.Type == tea.KeyEnter {
			answer := a.input.Value()
			if strings.TrimSpace(answer) == "" {
				return a, nil
			}
			a.busy = true
			return a, a.submitAnswer(answer)
		}
		var cmd tea.Cmd
		a.input, cmd = a.input.Update(msg)
		return a, cmd

	case phaseComplete:
		switch msg.String() {
		case "q", "esc", "enter":
			return a, tea.Quit
		}
		return a, nil
	}

	return a, nil
}

// handleAnswerSubmitted processes the outcome of a submission.
func (a *App) handleAnswerSubmitted(msg answerSubmitted) {
	if msg.Err != nil {
		if qe, ok := domain.IsQualityError(msg.Err); ok {
			// Rejected answers keep the input so the respondent can
			// rework it rather than retype it.
			a.rejection = qe.Reason
			return
		}
		a.err = msg.Err
		return
	}

	a.err = nil
	a.rejection = ""
	a.answered++
	a.followUps = msg.Result.FollowUps
	a.input.Reset()

	if msg.Result.IsComplete {
		a.question = nil
		a.phase = phaseComplete
		return
	}
	a.question = msg.Result.NextQuestion
}

// loadGuides fetches the guide list.
func (a *App) loadGuides() tea.Cmd {
	return func() tea.Msg {
		guides, err := a.ports.Guide.List(a.ctx)
		return guidesLoaded{Guides: guides, Err: err}
	}
}

// startSession starts an interview against the guide's active version.
func (a *App) startSession(guideID string) tea.Cmd {
	return func() tea.Msg {
		session, question, err := a.ports.Session.Start(a.ctx, guideID)
		return sessionStarted{Session: session, Question: question, Err: err}
	}
}

// submitAnswer submits the answer for the current question.
func (a *App) submitAnswer(answer string) tea.Cmd {
	sessionID := a.session.ID
	questionID := a.question.ID
	return func() tea.Msg {
		result, err := a.ports.Session.SubmitAnswer(a.ctx, sessionID, questionID, answer)
		return answerSubmitted{Result: result, Err: err}
	}
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	var b strings.Builder
	b.WriteString(a.styles.Title.Render("Intervo"))
	b.WriteString("\n\n")

	if a.err != nil {
		b.WriteString(a.styles.Error.Render("Error: " + a.err.Error()))
		b.WriteString("\n\n")
	}

	switch a.phase {
	case phasePicking:
		a.viewPicking(&b)
	case phaseAsking:
		a.viewAsking(&b)
	case phaseComplete:
		a.viewComplete(&b)
	}

	return b.String()
}

// viewPicking renders the guide list.
func (a *App) viewPicking(b *strings.Builder) {
	b.WriteString(a.styles.Subtitle.Render("Select a discussion guide"))
	b.WriteString("\n\n")

	if len(a.guides) == 0 {
		b.WriteString(a.styles.Muted.Render("No guides available."))
		b.WriteString("\n")
	}
	for i, g := range a.guides {
		line := fmt.Sprintf("%s (v%d)", g.Title, g.CurrentVersion)
		if i == a.selected {
			b.WriteString(a.styles.Selected.Render("> " + line))
		} else {
			b.WriteString(a.styles.Normal.Render("  " + line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if a.busy {
		b.WriteString(a.styles.Muted.Render("Starting session..."))
		b.WriteString("\n")
	}
	b.WriteString(a.styles.Help.Render("up/down: select  enter: start  q: quit"))
}

// viewAsking renders the current question and answer input.
func (a *App) viewAsking(b *strings.Builder) {
	if len(a.followUps) > 0 {
		b.WriteString(a.styles.Subtitle.Render("Follow-ups from your last answer"))
		b.WriteString("\n")
		for _, fu := range a.followUps {
			b.WriteString(a.styles.FollowUp.Render("  • " + fu.Prompt))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if a.question != nil {
		b.WriteString(a.styles.Question.Render(a.question.Text))
		b.WriteString("\n\n")
	}

	if a.rejection != "" {
		b.WriteString(a.styles.Warning.Render("Answer rejected: " + a.rejection))
		b.WriteString("\n\n")
	}

	b.WriteString(a.styles.InputField.Render(a.input.View()))
	b.WriteString("\n\n")
	if a.busy {
		b.WriteString(a.styles.Muted.Render("Submitting..."))
		b.WriteString("\n")
	}
	b.WriteString(a.styles.Help.Render("enter: submit  ctrl+c: quit"))
}

// viewComplete renders the end-of-interview summary.
func (a *App) viewComplete(b *strings.Builder) {
	b.WriteString(a.styles.Success.Render("Interview complete."))
	b.WriteString("\n\n")
	b.WriteString(a.styles.Normal.Render(fmt.Sprintf("Answered %d question(s).", a.answered)))
	b.WriteString("\n")

	if len(a.followUps) > 0 {
		b.WriteString("\n")
		b.WriteString(a.styles.Subtitle.Render("Follow-ups from your final answer"))
		b.WriteString("\n")
		for _, fu := range a.followUps {
			b.WriteString(a.styles.FollowUp.Render("  • " + fu.Prompt))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(a.styles.Help.Render("enter: exit"))
}

// CurrentPhase returns the active phase. Exposed for testing.
func (a *App) CurrentPhase() phase {
	return a.phase
}

// SetDimensions sets the terminal dimensions. Exposed for testing.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

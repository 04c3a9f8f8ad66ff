package tui

import (
	"context"
	"fmt"
	"strings"

	"signupform/models"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rohanthewiz/logger"
	"github.com/rohanthewiz/serr"
)

// Focus positions. The submit button is the last stop.
const (
	focusUsername = iota
	focusPassword
	focusSubmit
	focusCount
)

// submitDoneMsg carries the outcome of a submission back to Update.
type submitDoneMsg struct {
	res models.SubmissionResult
}

// Model is the bubbletea model for the create-user form.
type Model struct {
	ctx      context.Context
	form     *models.Form
	sub      models.Submitter
	inputs   []textinput.Model
	focus    int
	spinner  spinner.Model
	created  bool
	quitting bool
}

// NewModel builds the terminal form. onCreated is forwarded to the
// underlying Form and fires once the account exists.
func NewModel(ctx context.Context, sub models.Submitter, onCreated func(bool)) Model {
	m := Model{
		ctx:    ctx,
		sub:    sub,
		inputs: make([]textinput.Model, 2),
	}

	m.form = models.NewForm(onCreated)

	user := textinput.New()
	user.Placeholder = "username"
	user.Prompt = "> "
	user.CharLimit = 0
	user.Focus()
	m.inputs[focusUsername] = user

	pwd := textinput.New()
	pwd.Placeholder = "password"
	pwd.Prompt = "> "
	pwd.CharLimit = 0
	pwd.EchoMode = textinput.EchoPassword
	pwd.EchoCharacter = '•'
	m.inputs[focusPassword] = pwd

	m.spinner = spinner.New()
	m.spinner.Spinner = spinner.Dot
	m.spinner.Style = focusedLabelStyle

	return m
}

// Form exposes the underlying form state machine.
func (m Model) Form() *models.Form {
	return m.form
}

// Created reports whether the account was created.
func (m Model) Created() bool {
	return m.created
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case submitDoneMsg:
		m.form.FinishSubmit(msg.res)
		if m.form.Phase() == models.PhaseSuccess {
			m.created = true
			m.blurAll()
		}
		return m, nil

	case spinner.TickMsg:
		if m.form.Phase() != models.PhaseSubmitting {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m.updateInputs(msg)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		m.quitting = true
		return m, tea.Quit
	}

	if m.created {
		m.quitting = true
		return m, tea.Quit
	}

	// Inputs are frozen while a request is pending
	if m.form.Phase() == models.PhaseSubmitting {
		return m, nil
	}

	var cmd tea.Cmd
	switch msg.String() {
	case "tab", "down":
		cmd = m.setFocus((m.focus + 1) % focusCount)
		return m, cmd
	case "shift+tab", "up":
		cmd = m.setFocus((m.focus + focusCount - 1) % focusCount)
		return m, cmd
	case "enter":
		if m.focus == focusUsername {
			cmd = m.setFocus(focusPassword)
			return m, cmd
		}
		return m, m.submit()
	}

	return m.updateInputs(msg)
}

// updateInputs forwards msg to the focused input and syncs the form.
func (m Model) updateInputs(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.focus >= len(m.inputs) {
		return m, nil
	}

	var cmd tea.Cmd
	before := m.inputs[m.focus].Value()
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	after := m.inputs[m.focus].Value()

	if before != after {
		switch m.focus {
		case focusUsername:
			m.form.SetUsername(after)
		case focusPassword:
			m.form.SetPassword(after)
		}
	}
	return m, cmd
}

func (m *Model) setFocus(i int) tea.Cmd {
	m.focus = i
	m.blurAll()
	if i < len(m.inputs) {
		return m.inputs[i].Focus()
	}
	return nil
}

func (m *Model) blurAll() {
	for i := range m.inputs {
		m.inputs[i].Blur()
	}
}

// submit starts a submission when the form allows one.
func (m Model) submit() tea.Cmd {
	input, ok := m.form.BeginSubmit()
	if !ok {
		return nil
	}
	logger.Debug("Terminal form submitting", "username", input.Username)
	return tea.Batch(m.spinner.Tick, submitCmd(m.ctx, m.sub, input))
}

// submitCmd performs the request off the update loop.
func submitCmd(ctx context.Context, sub models.Submitter, input models.SignupInput) tea.Cmd {
	return func() (msg tea.Msg) {
		defer func() {
			if r := recover(); r != nil {
				err := serr.New(fmt.Sprintf("submitter panicked: %v", r))
				logger.LogErr(err, "terminal signup aborted", "username", input.Username)
				msg = submitDoneMsg{res: models.SubmissionResult{Kind: models.ResultGenericFailure, Err: err}}
			}
		}()
		return submitDoneMsg{res: sub.Submit(ctx, input)}
	}
}

func (m Model) View() string {
	if m.quitting && !m.created {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Create User"))
	b.WriteString("\n")

	if m.created {
		st := m.form.Snapshot()
		b.WriteString(successStyle.Render(fmt.Sprintf("User %s was created successfully.", st.Username)))
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("press any key to exit"))
		return frameStyle.Render(b.String()) + "\n"
	}

	st := m.form.Snapshot()

	b.WriteString(m.label("Username", focusUsername))
	b.WriteString("\n")
	b.WriteString(m.inputs[focusUsername].View())
	b.WriteString("\n\n")

	b.WriteString(m.label("Password", focusPassword))
	b.WriteString("\n")
	b.WriteString(m.inputs[focusPassword].View())
	b.WriteString("\n")

	// Live validation only after the user has typed something
	if st.Password != "" {
		for _, e := range st.ValidationErrors {
			b.WriteString(errorStyle.Render("• " + e))
			b.WriteString("\n")
		}
	}

	if st.APIError != "" {
		b.WriteString(apiErrorStyle.Render(st.APIError))
		b.WriteString("\n")
	}

	if st.IsSubmitting {
		b.WriteString(buttonStyle.Render(m.spinner.View() + " " + models.LabelSubmitting))
	} else if m.focus == focusSubmit {
		b.WriteString(buttonStyle.Render(models.LabelCreateUser))
	} else {
		b.WriteString(blurredButtonStyle.Render("[ " + models.LabelCreateUser + " ]"))
	}
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("tab: next field • enter: submit • esc: quit"))

	return frameStyle.Render(b.String()) + "\n"
}

func (m Model) label(text string, idx int) string {
	if m.focus == idx {
		return focusedLabelStyle.Render(text)
	}
	return labelStyle.Render(text)
}

// Run starts the terminal form and blocks until it exits. It reports
// whether an account was created.
func Run(ctx context.Context, sub models.Submitter, onCreated func(bool)) (bool, error) {
	p := tea.NewProgram(NewModel(ctx, sub, onCreated), tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil {
		return false, serr.Wrap(err, "terminal form failed")
	}
	m, ok := final.(Model)
	return ok && m.Created(), nil
}

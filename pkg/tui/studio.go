package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/mattn/go-runewidth"

	"github.com/testpilot-ai/testpilot/pkg/ai"
	"github.com/testpilot-ai/testpilot/pkg/report"
	"github.com/testpilot-ai/testpilot/pkg/schema"
	"github.com/testpilot-ai/testpilot/pkg/store"
	"github.com/testpilot-ai/testpilot/pkg/workflow"
)

// --- Tea messages ---

// casesMsg is sent after test-case generation completes.
type casesMsg struct {
	cases []schema.TestCase
	err   error
}

// simDoneMsg is sent after one case's simulation completes.
type simDoneMsg struct {
	index  int
	result *schema.SimulatedTestResult
	err    error
}

// tipsMsg returns the fetched automation tips to the dashboard.
type tipsMsg struct {
	tips []schema.AutomationTip
	err  error
}

// savedMsg is sent after the assembled report has been persisted.
type savedMsg struct {
	report schema.Report
	err    error
}

// Model is the top-level Bubble Tea model for the studio.
type Model struct {
	sess workflow.Session

	gateway *ai.Gateway
	reports store.Store

	spinner   spinner.Model
	urlInput  textinput.Model
	descInput textarea.Model
	nameInput textinput.Model

	focusDesc bool // input form focus: URL field vs description
	cursor    int  // review list selection
	editing   bool // inline name edit active
	editIndex int

	tips        []schema.AutomationTip
	tipsLoading bool
	tipsErr     string

	width  int
	height int
}

// Run launches the studio over the given gateway and report store.
func Run(gateway *ai.Gateway, reports store.Store) error {
	p := tea.NewProgram(NewModel(gateway, reports), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// NewModel builds the initial dashboard model.
func NewModel(gateway *ai.Gateway, reports store.Store) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = spinnerStyle

	url := textinput.New()
	url.Placeholder = "https://example.com"
	url.CharLimit = 2048
	url.Width = 60

	desc := textarea.New()
	desc.Placeholder = "What should the tests focus on? (optional)"
	desc.SetWidth(60)
	desc.SetHeight(4)

	name := textinput.New()
	name.CharLimit = 200
	name.Width = 60

	return Model{
		sess:      workflow.NewSession(),
		gateway:   gateway,
		reports:   reports,
		spinner:   sp,
		urlInput:  url,
		descInput: desc,
		nameInput: name,
	}
}

// Init starts the spinner tick.
func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// --- Commands ---

func (m Model) generateCases() tea.Cmd {
	url, desc := m.sess.TargetURL, m.sess.TargetDescription
	return func() tea.Msg {
		cases, err := m.gateway.GenerateTestCases(context.Background(), url, desc)
		return casesMsg{cases: cases, err: err}
	}
}

func (m Model) simulateCase(index int) tea.Cmd {
	url := m.sess.TargetURL
	tc := m.sess.Runs[index].TestCase
	return func() tea.Msg {
		result, err := m.gateway.SimulateTestExecution(context.Background(), url, tc)
		if err != nil {
			return simDoneMsg{index: index, err: err}
		}
		return simDoneMsg{index: index, result: &result}
	}
}

func (m Model) fetchTips() tea.Cmd {
	return func() tea.Msg {
		tips, err := m.gateway.GeneralAutomationTips(context.Background())
		return tipsMsg{tips: tips, err: err}
	}
}

func (m Model) saveReport() tea.Cmd {
	rep := report.NewUIReport(m.sess.TargetURL, m.sess.TargetDescription, m.sess.Runs)
	return func() tea.Msg {
		if _, err := m.reports.Save(rep); err != nil {
			return savedMsg{err: err}
		}
		return savedMsg{report: rep}
	}
}

// --- Update ---

// Update processes messages and returns the updated model and any commands.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		w := msg.Width - 8
		if w > 100 {
			w = 100
		}
		if w > 10 {
			m.urlInput.Width = w
			m.descInput.SetWidth(w)
			m.nameInput.Width = w
		}

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case casesMsg:
		if msg.err != nil {
			m.sess = workflow.Apply(m.sess, workflow.GenerationFailed{Err: msg.err.Error()})
			m.urlInput.Focus()
			m.focusDesc = false
		} else {
			m.sess = workflow.Apply(m.sess, workflow.CasesGenerated{Cases: msg.cases})
			m.cursor = 0
		}

	case simDoneMsg:
		details := ""
		if msg.err != nil {
			details = msg.err.Error()
		}
		m.sess = workflow.Apply(m.sess, workflow.CaseCompleted{
			Index:        msg.index,
			Result:       msg.result,
			ErrorDetails: details,
		})
		next := msg.index + 1
		if next < len(m.sess.Runs) {
			m.sess = workflow.Apply(m.sess, workflow.CaseStarted{Index: next})
			cmds = append(cmds, m.simulateCase(next))
		} else {
			cmds = append(cmds, m.saveReport())
		}

	case savedMsg:
		if msg.err != nil {
			m.sess = workflow.Apply(m.sess, workflow.Fail{
				Err:      fmt.Sprintf("save report: %s", msg.err),
				Fallback: workflow.ViewReport,
			})
			// The report view needs a report to show; fall back to an
			// unsaved in-memory assembly.
			rep := report.NewUIReport(m.sess.TargetURL, m.sess.TargetDescription, m.sess.Runs)
			m.sess.Report = &rep
		} else {
			m.sess = workflow.Apply(m.sess, workflow.RunCompleted{Report: msg.report})
		}

	case tipsMsg:
		m.tipsLoading = false
		if msg.err != nil {
			m.tipsErr = msg.err.Error()
		} else {
			m.tips = msg.tips
			m.tipsErr = ""
		}
	}

	return m, tea.Batch(cmds...)
}

// handleKey routes key presses by the current workflow view.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Text entry captures almost everything; only the form views get first
	// refusal on their inputs.
	switch m.sess.View {
	case workflow.ViewInputForm:
		return m.handleFormKey(msg)
	case workflow.ViewCasesReview:
		if m.editing {
			return m.handleEditKey(msg)
		}
	}

	if matchKey(msg, keys.Quit) {
		return m, tea.Quit
	}

	switch m.sess.View {
	case workflow.ViewDashboard:
		switch {
		case matchKey(msg, keys.New):
			m.sess = workflow.Apply(m.sess, workflow.StartProject{})
			m.urlInput.SetValue("")
			m.descInput.SetValue("")
			m.urlInput.Focus()
			m.focusDesc = false
			return m, textinput.Blink
		case matchKey(msg, keys.Tips):
			if !m.tipsLoading && m.gateway.Configured() {
				m.tipsLoading = true
				m.tipsErr = ""
				return m, m.fetchTips()
			}
		}

	case workflow.ViewCasesReview:
		switch {
		case matchKey(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case matchKey(msg, keys.Down):
			if m.cursor < len(m.sess.Cases)-1 {
				m.cursor++
			}
		case matchKey(msg, keys.Delete):
			m.sess = workflow.Apply(m.sess, workflow.CaseRemoved{Index: m.cursor})
			if m.cursor >= len(m.sess.Cases) && m.cursor > 0 {
				m.cursor--
			}
		case matchKey(msg, keys.Add):
			m.sess = workflow.Apply(m.sess, workflow.CaseAdded{Case: manualCase(len(m.sess.Cases) + 1)})
			m.cursor = len(m.sess.Cases) - 1
		case matchKey(msg, keys.Edit):
			if len(m.sess.Cases) > 0 {
				m.editing = true
				m.editIndex = m.cursor
				m.nameInput.SetValue(m.sess.Cases[m.cursor].Name)
				m.nameInput.Focus()
				return m, textinput.Blink
			}
		case matchKey(msg, keys.Run):
			if len(m.sess.Cases) > 0 {
				m.sess = workflow.Apply(m.sess, workflow.Finalized{Cases: m.sess.Cases})
				m.sess = workflow.Apply(m.sess, workflow.CaseStarted{Index: 0})
				return m, tea.Batch(m.spinner.Tick, m.simulateCase(0))
			}
		case matchKey(msg, keys.Back):
			m.sess = workflow.Apply(m.sess, workflow.Reset{})
		}

	case workflow.ViewReport:
		if matchKey(msg, keys.Reset) {
			m.sess = workflow.Apply(m.sess, workflow.Reset{})
		}
	}

	return m, nil
}

// handleFormKey drives the two-field input form.
func (m Model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyCtrlC:
		return m, tea.Quit

	case matchKey(msg, keys.Back):
		m.sess = workflow.Apply(m.sess, workflow.Reset{})
		return m, nil

	case matchKey(msg, keys.Focus):
		m.focusDesc = !m.focusDesc
		if m.focusDesc {
			m.urlInput.Blur()
			return m, m.descInput.Focus()
		}
		m.descInput.Blur()
		m.urlInput.Focus()
		return m, textinput.Blink

	case matchKey(msg, keys.Submit),
		msg.Type == tea.KeyEnter && !m.focusDesc:
		url := strings.TrimSpace(m.urlInput.Value())
		if url == "" {
			m.sess.Err = "a target URL is required"
			return m, nil
		}
		if !m.gateway.Configured() {
			m.sess.Err = "AI features are disabled: no API key configured"
			return m, nil
		}
		m.sess = workflow.Apply(m.sess, workflow.Submit{
			URL:         url,
			Description: strings.TrimSpace(m.descInput.Value()),
		})
		return m, tea.Batch(m.spinner.Tick, m.generateCases())
	}

	var cmd tea.Cmd
	if m.focusDesc {
		m.descInput, cmd = m.descInput.Update(msg)
	} else {
		m.urlInput, cmd = m.urlInput.Update(msg)
	}
	return m, cmd
}

// handleEditKey drives the inline case-name editor during review.
func (m Model) handleEditKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit
	case tea.KeyEsc:
		m.editing = false
		m.nameInput.Blur()
		return m, nil
	case tea.KeyEnter:
		name := strings.TrimSpace(m.nameInput.Value())
		if name != "" && m.editIndex < len(m.sess.Cases) {
			edited := m.sess.Cases[m.editIndex]
			edited.Name = name
			m.sess = workflow.Apply(m.sess, workflow.CaseEdited{Index: m.editIndex, Case: edited})
		}
		m.editing = false
		m.nameInput.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.nameInput, cmd = m.nameInput.Update(msg)
	return m, cmd
}

// manualCase is the template for a user-added case during review.
func manualCase(ordinal int) schema.TestCase {
	return schema.TestCase{
		ID:               "tc-ui-" + uuid.NewString(),
		Name:             fmt.Sprintf("Manual Test Case %d", ordinal),
		Description:      "Describe the scenario this case covers.",
		StepsToReproduce: []string{"Describe the first step."},
		ExpectedResult:   "Describe the expected outcome.",
	}
}

// --- View ---

// View renders the current workflow view.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.header())
	b.WriteString("\n\n")

	switch m.sess.View {
	case workflow.ViewDashboard:
		b.WriteString(m.viewDashboard())
	case workflow.ViewInputForm:
		b.WriteString(m.viewInputForm())
	case workflow.ViewGeneratingCases:
		b.WriteString(m.viewGenerating())
	case workflow.ViewCasesReview:
		b.WriteString(m.viewReview())
	case workflow.ViewRunningTests:
		b.WriteString(m.viewRunning())
	case workflow.ViewReport:
		b.WriteString(m.viewReport())
	}

	b.WriteString("\n")
	b.WriteString(m.keyBar())
	return b.String()
}

func (m Model) header() string {
	title := headerStyle.Render("TestPilot — UI Test Studio")
	if !m.gateway.Configured() {
		return lipgloss.JoinHorizontal(lipgloss.Top, title, " ",
			unconfiguredBadgeStyle.Render("AI DISABLED — set GEMINI_API_KEY"))
	}
	return title
}

func (m Model) viewDashboard() string {
	var b strings.Builder
	b.WriteString("  Design conceptual UI test cases for a target site, simulate a run,\n")
	b.WriteString("  and keep the results as a report.\n\n")

	if m.sess.Err != "" {
		b.WriteString("  " + errorStyle.Render(m.sess.Err) + "\n\n")
	}

	switch {
	case m.tipsLoading:
		b.WriteString("  " + m.spinner.View() + " fetching automation tips…\n")
	case m.tipsErr != "":
		b.WriteString("  " + errorStyle.Render("tips: "+m.tipsErr) + "\n")
	case len(m.tips) > 0:
		var md strings.Builder
		md.WriteString("### Automation tips\n\n")
		for _, tip := range m.tips {
			md.WriteString(fmt.Sprintf("- **%s** — %s\n", tip.Category, tip.Tip))
		}
		b.WriteString(renderMarkdown(md.String()) + "\n")
	}
	return b.String()
}

func (m Model) viewInputForm() string {
	var b strings.Builder
	b.WriteString("  " + labelStyle.Render("Target URL") + "\n")
	b.WriteString("  " + m.urlInput.View() + "\n\n")
	b.WriteString("  " + labelStyle.Render("Description") + dimStyle.Render(" (optional)") + "\n")
	b.WriteString("  " + m.descInput.View() + "\n")
	if m.sess.Err != "" {
		b.WriteString("\n  " + errorStyle.Render(m.sess.Err) + "\n")
	}
	return b.String()
}

func (m Model) viewGenerating() string {
	return fmt.Sprintf("  %s generating test cases for %s …\n",
		m.spinner.View(), m.sess.TargetURL)
}

func (m Model) viewReview() string {
	var b strings.Builder
	b.WriteString(panelTitle.Render(fmt.Sprintf("Review cases (%d)", len(m.sess.Cases))) + "\n\n")

	nameWidth := m.width - 12
	if nameWidth < 20 {
		nameWidth = 60
	}
	for i, tc := range m.sess.Cases {
		marker := "  "
		style := rowNormal
		if i == m.cursor {
			marker = GlyphRunning + " "
			style = rowSelected
		}
		b.WriteString("  " + marker + style.Render(runewidth.Truncate(tc.Name, nameWidth, "…")) + "\n")
		if i == m.cursor {
			b.WriteString("    " + dimStyle.Render(runewidth.Truncate(tc.Description, nameWidth, "…")) + "\n")
		}
	}

	if m.editing {
		b.WriteString("\n  " + labelStyle.Render("Case name") + "\n")
		b.WriteString("  " + m.nameInput.View() + "\n")
	}
	return b.String()
}

func (m Model) viewRunning() string {
	var b strings.Builder
	b.WriteString(panelTitle.Render("Running simulated tests") + "\n\n")
	b.WriteString(m.runTable())
	return b.String()
}

func (m Model) runTable() string {
	var b strings.Builder
	nameWidth := m.width - 20
	if nameWidth < 20 {
		nameWidth = 50
	}
	for _, run := range m.sess.Runs {
		glyph, style := GlyphPending, rowPending
		switch {
		case run.RunStatus == schema.RunRunning:
			glyph, style = m.spinner.View(), rowSelected
		case run.RunStatus == schema.RunCompleted && run.ErrorDetails != "":
			glyph, style = GlyphError, rowFailed
		case run.RunStatus == schema.RunCompleted && run.SimulatedResult != nil:
			if run.SimulatedResult.Status == schema.ResultPassed {
				glyph, style = GlyphPassed, rowPassed
			} else {
				glyph, style = GlyphFailed, rowFailed
			}
		}
		b.WriteString(fmt.Sprintf("  %s %s\n", glyph,
			style.Render(runewidth.Truncate(run.Name, nameWidth, "…"))))
	}
	return b.String()
}

func (m Model) viewReport() string {
	var b strings.Builder
	rep := m.sess.Report
	if rep == nil || rep.UI == nil {
		return "  " + errorStyle.Render("no report available") + "\n"
	}

	s := rep.UI.Summary
	summary := fmt.Sprintf("%d tests   %s   %s",
		s.TotalTests,
		summaryPassedStyle.Render(fmt.Sprintf("%d passed", s.Passed)),
		summaryFailedStyle.Render(fmt.Sprintf("%d failed", s.Failed)))
	b.WriteString(panelBorder.Render(panelTitle.Render("Report "+rep.ID) + "\n" + summary))
	b.WriteString("\n\n")

	if m.sess.Err != "" {
		b.WriteString("  " + errorStyle.Render(m.sess.Err) + "\n\n")
	}

	detailWidth := m.width - 8
	if detailWidth < 30 {
		detailWidth = 70
	}
	for _, run := range rep.UI.TestRuns {
		glyph, style := GlyphError, rowFailed
		detail := run.ErrorDetails
		if run.SimulatedResult != nil {
			detail = run.SimulatedResult.ActualResult
			if run.SimulatedResult.Status == schema.ResultPassed {
				glyph, style = GlyphPassed, rowPassed
			} else {
				glyph, style = GlyphFailed, rowFailed
			}
		}
		b.WriteString(fmt.Sprintf("  %s %s\n", glyph, style.Render(run.Name)))
		b.WriteString("    " + dimStyle.Render(runewidth.Truncate(detail, detailWidth, "…")) + "\n")
		if run.SimulatedResult != nil && run.SimulatedResult.HealingSuggestion != "" {
			b.WriteString("    " + dimStyle.Render("suggestion: "+
				runewidth.Truncate(run.SimulatedResult.HealingSuggestion, detailWidth, "…")) + "\n")
		}
	}
	return b.String()
}

func (m Model) keyBar() string {
	var pairs [][2]string
	switch m.sess.View {
	case workflow.ViewDashboard:
		pairs = [][2]string{{"n", "new project"}, {"t", "tips"}, {"q", "quit"}}
	case workflow.ViewInputForm:
		pairs = [][2]string{{"tab", "next field"}, {"enter/ctrl+s", "generate"}, {"esc", "back"}}
	case workflow.ViewGeneratingCases:
		pairs = [][2]string{{"q", "quit"}}
	case workflow.ViewCasesReview:
		if m.editing {
			pairs = [][2]string{{"enter", "save name"}, {"esc", "cancel"}}
		} else {
			pairs = [][2]string{{"↑/↓", "select"}, {"e", "edit"}, {"d", "delete"}, {"a", "add"}, {"enter", "run all"}, {"esc", "discard"}}
		}
	case workflow.ViewRunningTests:
		pairs = [][2]string{{"q", "quit"}}
	case workflow.ViewReport:
		pairs = [][2]string{{"r", "new session"}, {"q", "quit"}}
	}

	parts := make([]string, 0, len(pairs))
	for _, p := range pairs {
		parts = append(parts, keyStyle.Render(p[0])+" "+keyDescStyle.Render(p[1]))
	}
	return keyBarStyle.Render(strings.Join(parts, "  "))
}

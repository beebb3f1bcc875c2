package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sevigo/grepiku/internal/config"
	"github.com/sevigo/grepiku/internal/core"
)

const asciiLogo = `
  ▗▄▄▖▗▄▄▖▗▄▄▄▖▗▄▄▖▗▄▄▄▖▗▖ ▗▖▗▖ ▗▖
 ▐▌   ▐▌ ▐▌▐▌   ▐▌ ▐▌▐▌    ▐▌▗▞▘▐▌ ▐▌
 ▐▌▝▜▌▐▛▀▚▖▐▛▀▀▘▐▛▀▘ ▐▛▀▀▘ ▐▛▚▖ ▐▌ ▐▌
 ▝▚▄▞▘▐▌ ▐▌▐▙▄▄▖▐▌   ▐▙▄▄▖ ▐▌ ▐▌▝▚▄▞▘
               review run replay
`

type model struct {
	styles styles
	env    *config.Env
	app    *terminalApp

	viewport  viewport.Model
	textarea  textarea.Model
	spinner   spinner.Model
	isLoading bool

	history []string

	repos        []core.Repo
	selectedRepo *core.Repo
	pullRequests []core.PullRequest
	selectedPR   *core.PullRequest
	runs         []core.ReviewRun
	width        int
}

func initialModel(theme themeName, env *config.Env) *model {
	st := getTheme(theme)
	ta := textarea.New()
	ta.Placeholder = "Enter a command..."
	ta.Focus()
	ta.Prompt = st.prompt.Render("> ")
	ta.CharLimit = 200
	ta.SetWidth(60)
	ta.SetHeight(1)
	ta.ShowLineNumbers = false

	sp := spinner.New()
	sp.Spinner = spinner.Points
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("51"))

	return &model{
		styles:    st,
		env:       env,
		textarea:  ta,
		spinner:   sp,
		isLoading: true,
		width:     80,
		history:   []string{st.ascii.Render(asciiLogo), "", "connecting to storage..."},
	}
}

func (m *model) Init() tea.Cmd {
	return tea.Batch(initializeAppCmd(m.env), m.spinner.Tick)
}

func (m *model) println(lines ...string) {
	m.history = append(m.history, lines...)
	m.viewport.SetContent(strings.Join(m.history, "\n"))
	m.viewport.GotoBottom()
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var tiCmd, vpCmd, spCmd tea.Cmd
	m.textarea, tiCmd = m.textarea.Update(msg)
	m.viewport, vpCmd = m.viewport.Update(msg)
	m.spinner, spCmd = m.spinner.Update(msg)

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			input := strings.TrimSpace(m.textarea.Value())
			if input == "" {
				return m, nil
			}
			m.textarea.Reset()
			return m, m.processCommand(input)
		}

	case appInitializedMsg:
		m.isLoading = false
		if msg.err != nil {
			m.println("", m.styles.error.Render(msg.err.Error()))
			return m, nil
		}
		m.app = msg.app
		return m, loadReposCmd(m.app)

	case reposLoadedMsg:
		m.isLoading = false
		if msg.err != nil {
			m.println("", m.styles.error.Render("could not load repos: "+msg.err.Error()))
		} else {
			m.repos = msg.repos
			m.println("", m.styles.success.Render(fmt.Sprintf("%d repositories on record", len(m.repos))), "Type /help for commands.")
		}
		return m, nil

	case pullRequestsLoadedMsg:
		m.isLoading = false
		if msg.err != nil {
			m.println("", m.styles.error.Render(msg.err.Error()))
			return m, nil
		}
		m.pullRequests = msg.prs
		if len(m.pullRequests) == 0 {
			m.println("", m.styles.inactive.Render("no pull requests recorded for this repository"))
			return m, nil
		}
		var b strings.Builder
		b.WriteString(m.styles.success.Render("PULL REQUESTS:"))
		for _, pr := range m.pullRequests {
			fmt.Fprintf(&b, "\n  #%d %s [%s]", pr.Number, pr.Title, pr.State)
		}
		m.println("", b.String())
		return m, nil

	case runsLoadedMsg:
		m.isLoading = false
		if msg.err != nil {
			m.println("", m.styles.error.Render(msg.err.Error()))
			return m, nil
		}
		m.runs = msg.runs
		if len(m.runs) == 0 {
			m.println("", m.styles.inactive.Render("no runs recorded for this pull request"))
			return m, nil
		}
		var b strings.Builder
		b.WriteString(m.styles.success.Render("RUNS:"))
		for _, r := range m.runs {
			fmt.Fprintf(&b, "\n  run #%d  %s  %s  %s", r.ID, r.HeadSHA[:min(7, len(r.HeadSHA))], r.Status, r.StartedAt.Format("2006-01-02 15:04"))
		}
		b.WriteString("\n\n" + m.styles.inactive.Render("Use '/view [run-id]' to replay one."))
		m.println("", b.String())
		return m, nil

	case runRenderedMsg:
		m.isLoading = false
		if msg.err != nil {
			m.println("", m.styles.error.Render(msg.err.Error()))
			return m, nil
		}
		m.println("", msg.rendered)
		if len(msg.findings) > 0 {
			var b strings.Builder
			fmt.Fprintf(&b, "%s\n", m.styles.success.Render(fmt.Sprintf("OPEN FINDINGS (%d):", len(msg.findings))))
			for _, f := range msg.findings {
				fmt.Fprintf(&b, "  [%s] %s:%d %s\n", f.Severity, f.Path, f.Line, f.Title)
			}
			m.println(b.String())
		}
		return m, nil

	case errorMsg:
		m.isLoading = false
		m.println("", m.styles.error.Render(msg.Error()))
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.styles.header.Width(msg.Width - 4)
		m.viewport.Width = msg.Width - 4
		m.viewport.Height = msg.Height - 10
		m.textarea.SetWidth(msg.Width - 10)
		m.viewport.SetContent(strings.Join(m.history, "\n"))
	}

	return m, tea.Batch(tiCmd, vpCmd, spCmd)
}

func (m *model) View() string {
	if m.app == nil {
		return fmt.Sprintf("\n  %s booting...\n\n", m.spinner.View())
	}

	var statusParts []string
	if m.selectedRepo != nil {
		statusParts = append(statusParts, "repo: "+m.selectedRepo.FullName)
	} else {
		statusParts = append(statusParts, "repo: none selected")
	}
	if m.selectedPR != nil {
		statusParts = append(statusParts, fmt.Sprintf("pr: #%d", m.selectedPR.Number))
	}
	status := m.styles.inactive.Render(strings.Join(statusParts, " | "))

	var loading string
	if m.isLoading {
		loading = " " + m.spinner.View() + " " + m.styles.success.Render("working...")
	}

	return m.styles.app.Render(
		lipgloss.JoinVertical(lipgloss.Left,
			m.styles.viewport.Render(m.viewport.View()),
			"",
			m.styles.footer.Render(
				lipgloss.JoinHorizontal(lipgloss.Left, m.textarea.View(), loading),
			),
			status,
		),
	)
}

func (m *model) processCommand(input string) tea.Cmd {
	m.println(m.styles.prompt.Render("> ") + input)

	parts := strings.Fields(input)
	command, args := parts[0], parts[1:]

	switch command {
	case "/list", "/ls":
		if len(m.repos) == 0 {
			m.println(m.styles.inactive.Render("no repositories on record"))
			return nil
		}
		var b strings.Builder
		b.WriteString(m.styles.success.Render("REPOSITORIES:"))
		for _, r := range m.repos {
			fmt.Fprintf(&b, "\n  %s (default: %s)", r.FullName, r.DefaultBranch)
		}
		m.println(b.String())
		return nil

	case "/select":
		if len(args) != 1 {
			m.println(m.styles.error.Render("usage: /select owner/name"))
			return nil
		}
		for i := range m.repos {
			if m.repos[i].FullName == args[0] {
				m.selectedRepo = &m.repos[i]
				m.selectedPR = nil
				m.isLoading = true
				m.println(m.styles.success.Render("selected " + args[0]))
				return tea.Batch(m.spinner.Tick, loadPullRequestsCmd(m.app, m.selectedRepo.ID))
			}
		}
		m.println(m.styles.error.Render("repository not found: " + args[0]))
		return nil

	case "/prs":
		if m.selectedRepo == nil {
			m.println(m.styles.error.Render("select a repository first with /select"))
			return nil
		}
		m.isLoading = true
		return tea.Batch(m.spinner.Tick, loadPullRequestsCmd(m.app, m.selectedRepo.ID))

	case "/pr":
		if m.selectedRepo == nil {
			m.println(m.styles.error.Render("select a repository first with /select"))
			return nil
		}
		if len(args) != 1 {
			m.println(m.styles.error.Render("usage: /pr [number]"))
			return nil
		}
		number, err := strconv.Atoi(args[0])
		if err != nil {
			m.println(m.styles.error.Render("not a number: " + args[0]))
			return nil
		}
		for i := range m.pullRequests {
			if m.pullRequests[i].Number == number {
				m.selectedPR = &m.pullRequests[i]
				m.isLoading = true
				m.println(m.styles.success.Render(fmt.Sprintf("selected pr #%d", number)))
				return tea.Batch(m.spinner.Tick, loadRunsCmd(m.app, m.selectedPR.ID))
			}
		}
		m.println(m.styles.error.Render("pull request not found"))
		return nil

	case "/runs":
		if m.selectedPR == nil {
			m.println(m.styles.error.Render("select a pull request first with /pr"))
			return nil
		}
		m.isLoading = true
		return tea.Batch(m.spinner.Tick, loadRunsCmd(m.app, m.selectedPR.ID))

	case "/view":
		if len(args) != 1 {
			m.println(m.styles.error.Render("usage: /view [run-id]"))
			return nil
		}
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			m.println(m.styles.error.Render("not a number: " + args[0]))
			return nil
		}
		for _, r := range m.runs {
			if r.ID == id {
				m.isLoading = true
				width := m.width - 10
				if width < 40 {
					width = 80
				}
				return tea.Batch(m.spinner.Tick, renderRunCmd(m.app, r, width))
			}
		}
		m.println(m.styles.error.Render("run not found; use /runs to list"))
		return nil

	case "/help", "/h":
		help := m.styles.success.Render("COMMANDS:") + `

  /list, /ls            List every repository on record.
  /select [owner/name]   Select a repository and load its pull requests.
  /prs                   List pull requests for the selected repository.
  /pr [number]           Select a pull request and load its runs.
  /runs                  List runs recorded for the selected pull request.
  /view [run-id]         Replay one run's summary and open findings.
  /help                  Show this help message.
  /exit, /quit           Exit.`
		m.println("", help)
		return nil

	case "/exit", "/quit":
		return tea.Quit

	default:
		m.println(m.styles.error.Render("unknown command: " + command))
		return nil
	}
}

package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"aiinsights.blog/cli/internal/core/content"
	"aiinsights.blog/cli/internal/core/textutil"
)

// BrowseFlags holds command-line flags for the browse command
type BrowseFlags struct {
	Debounce   time.Duration
	MaxResults int
}

// NewBrowseCommand creates the browse command
func NewBrowseCommand(container *CLIContainer) *cobra.Command {
	flags := &BrowseFlags{}

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Interactive article search",
		Long: `Launch an interactive search over the blog's articles.

Results refresh as you type, once typing pauses for the debounce delay.

Controls:
  type       edit the query
  ↑/↓        move the selection
  enter      show or hide the selected article's summary
  esc        clear the query
  ctrl+c     quit`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBrowse(cmd.Context(), container, flags)
		},
	}

	cmd.Flags().DurationVar(&flags.Debounce, "debounce", 300*time.Millisecond, "Delay after the last keystroke before searching")
	cmd.Flags().IntVar(&flags.MaxResults, "max-results", 20, "Maximum number of results to display")

	return cmd
}

// runBrowse starts the search browser
func runBrowse(ctx context.Context, container *CLIContainer, flags *BrowseFlags) error {
	var program *tea.Program

	schedule, stop := textutil.Debounce(func(query string) {
		program.Send(queryReadyMsg{query: query})
	}, flags.Debounce)
	defer stop()

	model := newBrowseModel(ctx, container.ContentService, schedule, flags.MaxResults)
	program = tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	if _, err := program.Run(); err != nil {
		return fmt.Errorf("browse failed: %w", err)
	}

	return nil
}

// articleSearcher is the slice of the content service the browser needs
type articleSearcher interface {
	SearchArticles(ctx context.Context, query string) ([]content.Article, error)
}

// browseModel holds the state for the Bubble Tea search browser
type browseModel struct {
	ctx          context.Context
	searcher     articleSearcher
	schedule     func(string)
	maxResults   int
	query        string
	results      []content.Article
	searching    bool
	expanded     bool
	selectedRow  int
	windowHeight int
	err          error
}

func newBrowseModel(ctx context.Context, searcher articleSearcher, schedule func(string), maxResults int) browseModel {
	return browseModel{
		ctx:        ctx,
		searcher:   searcher,
		schedule:   schedule,
		maxResults: maxResults,
	}
}

// queryReadyMsg is delivered once typing has paused
type queryReadyMsg struct {
	query string
}

// searchResultsMsg carries the results for a query
type searchResultsMsg struct {
	query    string
	articles []content.Article
}

// errMsg is sent when a search fails
type errMsg struct {
	query string
	err   error
}

// Init implements the Bubble Tea init method
func (m browseModel) Init() tea.Cmd {
	return nil
}

// Update implements the Bubble Tea update method
func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.windowHeight = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case queryReadyMsg:
		if msg.query != m.query || strings.TrimSpace(msg.query) == "" {
			return m, nil
		}
		m.searching = true
		return m, m.searchCmd(msg.query)

	case searchResultsMsg:
		if msg.query != m.query {
			return m, nil
		}
		m.searching = false
		m.err = nil
		m.results = msg.articles
		if m.maxResults > 0 && len(m.results) > m.maxResults {
			m.results = m.results[:m.maxResults]
		}
		m.selectedRow = 0
		m.expanded = false
		return m, nil

	case errMsg:
		if msg.query != m.query {
			return m, nil
		}
		m.searching = false
		m.err = msg.err
		return m, nil
	}

	return m, nil
}

func (m browseModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit

	case tea.KeyUp:
		if m.selectedRow > 0 {
			m.selectedRow--
		}
		return m, nil

	case tea.KeyDown:
		if m.selectedRow < len(m.results)-1 {
			m.selectedRow++
		}
		return m, nil

	case tea.KeyEnter:
		if len(m.results) > 0 {
			m.expanded = !m.expanded
		}
		return m, nil

	case tea.KeyEsc:
		return m.setQuery(""), nil

	case tea.KeyBackspace:
		runes := []rune(m.query)
		if len(runes) == 0 {
			return m, nil
		}
		return m.setQuery(string(runes[:len(runes)-1])), nil

	case tea.KeySpace:
		return m.setQuery(m.query + " "), nil

	case tea.KeyRunes:
		return m.setQuery(m.query + string(msg.Runes)), nil
	}

	return m, nil
}

// setQuery replaces the query and schedules a debounced search
func (m browseModel) setQuery(query string) browseModel {
	if query == m.query {
		return m
	}
	m.query = query
	m.err = nil
	if strings.TrimSpace(query) == "" {
		m.results = nil
		m.searching = false
		m.selectedRow = 0
		m.expanded = false
		return m
	}
	if m.schedule != nil {
		m.schedule(query)
	}
	return m
}

func (m browseModel) searchCmd(query string) tea.Cmd {
	ctx, searcher := m.ctx, m.searcher
	return func() tea.Msg {
		articles, err := searcher.SearchArticles(ctx, query)
		if err != nil {
			return errMsg{query: query, err: err}
		}
		return searchResultsMsg{query: query, articles: articles}
	}
}

// View implements the Bubble Tea view method
func (m browseModel) View() string {
	return lipgloss.JoinVertical(lipgloss.Left, m.renderHeader(), m.renderResults(), m.renderFooter())
}

func (m browseModel) renderHeader() string {
	title := titleStyle.Render("AI Insights")

	status := mutedStyle.Render("type to search")
	switch {
	case m.searching:
		status = metaStyle.Render("searching...")
	case m.err != nil:
		status = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render("error")
	case m.query != "":
		status = metaStyle.Render(fmt.Sprintf("%d results", len(m.results)))
	}

	prompt := "Search: " + m.query + "█"

	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Left, title, "  ", status),
		prompt,
		"",
	)
}

func (m browseModel) renderResults() string {
	if m.err != nil {
		return fmt.Sprintf("Error: %v", m.err)
	}
	if len(m.results) == 0 {
		if m.query == "" || m.searching {
			return ""
		}
		return mutedStyle.Render(fmt.Sprintf("No articles match %q.", m.query))
	}

	visible := m.results
	if maxRows := m.windowHeight - 8; maxRows > 0 && len(visible) > maxRows {
		visible = visible[:maxRows]
	}

	rows := make([]string, 0, len(visible)+1)
	for i, article := range visible {
		line := fmt.Sprintf("  %s", textutil.TruncateText(article.Title, 70))
		if i == m.selectedRow {
			line = lipgloss.NewStyle().Background(lipgloss.Color("240")).Render("> " + textutil.TruncateText(article.Title, 70))
		}
		rows = append(rows, line)
	}

	if m.expanded && m.selectedRow < len(m.results) {
		selected := m.results[m.selectedRow]
		detail := []string{""}
		if meta := articleMeta(selected); meta != "" {
			detail = append(detail, metaStyle.Render(meta))
		}
		if summary := textutil.TruncateText(selected.Summary(), summaryLength*2); summary != "" {
			detail = append(detail, summary)
		}
		rows = append(rows, strings.Join(detail, "\n"))
	}

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m browseModel) renderFooter() string {
	return mutedStyle.Render("\n[↑↓] Navigate | [enter] Summary | [esc] Clear | [ctrl+c] Quit")
}

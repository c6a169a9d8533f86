package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/kintreehq/kintree/pkg/tree"
)

// List styles.
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// browseCommand creates the browse command: an interactive terminal view of
// the family tree, one row per person.
func (c *CLI) browseCommand() *cobra.Command {
	var input string

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse the family tree interactively",
		RunE: func(cmd *cobra.Command, args []string) error {
			pop, err := c.loadPopulation(cmd.Context(), input)
			if err != nil {
				return err
			}
			if pop.Len() == 0 {
				printInfo("No people yet")
				return nil
			}

			model := NewPersonListModel(pop)
			_, err = tea.NewProgram(model, tea.WithContext(cmd.Context())).Run()
			return err
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "population JSON file (default: configured store)")
	return cmd
}

// PersonListModel is the bubbletea model for browsing people. It shows a
// scrolling table and a detail pane for the person under the cursor.
type PersonListModel struct {
	pop    *tree.Population
	people []tree.Person
	gens   map[string]int

	Cursor int
	Height int
	Offset int
}

// NewPersonListModel creates a browse model over the population.
func NewPersonListModel(pop *tree.Population) PersonListModel {
	gens, err := tree.Generations(pop)
	if err != nil {
		gens = map[string]int{}
	}
	return PersonListModel{
		pop:    pop,
		people: pop.People(),
		gens:   gens,
		Height: 15,
	}
}

func (m PersonListModel) Init() tea.Cmd {
	return nil
}

func (m PersonListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.people)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "g":
			m.Cursor, m.Offset = 0, 0
		case "G":
			m.Cursor = len(m.people) - 1
			if m.Cursor >= m.Offset+m.Height {
				m.Offset = m.Cursor - m.Height + 1
			}
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 12
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m PersonListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Family Tree"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  g/G first/last  q quit"))
	b.WriteString("\n\n")

	end := m.Offset + m.Height
	if end > len(m.people) {
		end = len(m.people)
	}

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		p := m.people[i]

		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}

		years := p.Years()
		if years == "" {
			years = "—"
		}
		rows = append(rows, []string{
			cursor,
			p.Name,
			years,
			fmt.Sprintf("%d", m.gens[p.ID]),
			m.nameOf(p.Spouse),
			m.parentNames(p),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Name", "Years", "Gen", "Spouse", "Parents").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if m.Offset+row == m.Cursor {
				return listSelectedStyle
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})

	b.WriteString(t.Render())
	b.WriteString("\n")
	b.WriteString(m.detail())
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.people))))

	return b.String()
}

// detail renders the children line for the person under the cursor.
func (m PersonListModel) detail() string {
	p := m.people[m.Cursor]
	childIDs := tree.ParentedBy(m.pop, p.ID)
	if len(childIDs) == 0 {
		return listDimStyle.Render("  no children")
	}
	names := make([]string, len(childIDs))
	for i, id := range childIDs {
		names[i] = m.nameOf(id)
	}
	return listDimStyle.Render("  children: ") + StyleValue.Render(strings.Join(names, ", "))
}

func (m PersonListModel) nameOf(id string) string {
	if id == "" {
		return "—"
	}
	p, ok := m.pop.Get(id)
	if !ok {
		return id
	}
	return p.Name
}

func (m PersonListModel) parentNames(p tree.Person) string {
	if len(p.Parents) == 0 {
		return "—"
	}
	names := make([]string, len(p.Parents))
	for i, id := range p.Parents {
		names[i] = m.nameOf(id)
	}
	return strings.Join(names, ", ")
}

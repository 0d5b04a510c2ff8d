package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fatih/color"
	"github.com/trebuchet-org/scgen/internal/domain"
)

// chainItem is a selectable chain in the multi-select
type chainItem struct {
	chain    domain.ChainTarget
	selected bool
}

// multiSelectModel is the bubbletea model for multi-select
type multiSelectModel struct {
	items     []chainItem
	cursor    int
	title     string
	done      bool
	cancelled bool
}

func initialMultiSelectModel(chains []domain.ChainTarget, title string) multiSelectModel {
	items := make([]chainItem, len(chains))
	for i, chain := range chains {
		// everything starts selected, the common case is "all of them"
		items[i] = chainItem{chain: chain, selected: true}
	}
	return multiSelectModel{items: items, title: title}
}

// Init is the initial command for bubbletea
func (m multiSelectModel) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model
func (m multiSelectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "ctrl+c", "q", "esc":
		m.cancelled = true
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}
	case " ":
		m.items[m.cursor].selected = !m.items[m.cursor].selected
	case "a":
		all := !m.allSelected()
		for i := range m.items {
			m.items[i].selected = all
		}
	case "enter":
		if len(m.selectedChains()) > 0 {
			m.done = true
			return m, tea.Quit
		}
	}
	return m, nil
}

// View renders the UI
func (m multiSelectModel) View() string {
	if m.done || m.cancelled {
		return ""
	}

	var b strings.Builder
	b.WriteString(color.New(color.FgCyan, color.Bold).Sprintf("%s\n\n", m.title))

	for i, item := range m.items {
		cursor := " "
		if m.cursor == i {
			cursor = color.New(color.FgCyan).Sprint("▸")
		}

		checkbox := color.New(color.FgWhite).Sprint("○")
		if item.selected {
			checkbox = color.New(color.FgGreen).Sprint("✓")
		}

		name := color.New(color.FgWhite).Sprint(item.chain.DisplayName())
		id := color.New(color.FgYellow).Sprintf("(%s)", item.chain)

		b.WriteString(fmt.Sprintf("%s %s %s %s\n", cursor, checkbox, name, id))
	}

	b.WriteString("\n")
	b.WriteString(color.New(color.FgYellow).Sprint("↑/↓: move  Space: toggle  a: all  Enter: confirm  q: quit\n"))

	return b.String()
}

func (m multiSelectModel) allSelected() bool {
	for _, item := range m.items {
		if !item.selected {
			return false
		}
	}
	return true
}

func (m multiSelectModel) selectedChains() []domain.ChainTarget {
	var chains []domain.ChainTarget
	for _, item := range m.items {
		if item.selected {
			chains = append(chains, item.chain)
		}
	}
	return chains
}

// SelectChains shows a multi-select interface and returns the chosen chains
func SelectChains(chains []domain.ChainTarget, title string) ([]domain.ChainTarget, error) {
	if len(chains) == 0 {
		return nil, fmt.Errorf("no chains to select")
	}

	p := tea.NewProgram(initialMultiSelectModel(chains, title))
	finalModel, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("multi-select failed: %w", err)
	}

	m := finalModel.(multiSelectModel)
	if m.cancelled || !m.done {
		return nil, fmt.Errorf("selection cancelled")
	}
	return m.selectedChains(), nil
}

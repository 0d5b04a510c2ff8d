package interactive

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/manifoldco/promptui"
	"github.com/sahilm/fuzzy"
	"github.com/trebuchet-org/scgen/internal/config"
	"github.com/trebuchet-org/scgen/internal/domain"
	"github.com/trebuchet-org/scgen/internal/usecase"
)

// SelectorAdapter handles interactive selection
type SelectorAdapter struct {
	config *config.RuntimeConfig
}

// NewSelectorAdapter creates a new selector adapter
func NewSelectorAdapter(cfg *config.RuntimeConfig) *SelectorAdapter {
	return &SelectorAdapter{config: cfg}
}

// SelectChain prompts for one of the supported chains
func (s *SelectorAdapter) SelectChain(ctx context.Context, prompt string) (domain.ChainTarget, error) {
	if s.config.NonInteractive {
		return "", fmt.Errorf("--chain is required in non-interactive mode")
	}

	chains := domain.AllChains()
	options := formatChainOptions(chains)

	templates := &promptui.SelectTemplates{
		Label:    "{{ . }}",
		Active:   "▸ {{ . | cyan }}",
		Inactive: "  {{ . | faint }}",
		Selected: "✓ {{ . | green }}",
		Help:     color.New(color.FgYellow).Sprint("Use arrow keys to navigate, Enter to select"),
	}

	promptSelect := promptui.Select{
		Label:     prompt,
		Items:     options,
		Templates: templates,
		Size:      len(options),
		Searcher:  createFuzzySearchFunc(options),
	}

	index, _, err := promptSelect.Run()
	if err != nil {
		return "", fmt.Errorf("selection cancelled: %w", err)
	}

	return chains[index], nil
}

// formatChainOptions renders "evm  Ethereum / Solidity (ethereum, eth, solidity)"
func formatChainOptions(chains []domain.ChainTarget) []string {
	aliases := make(map[domain.ChainTarget][]string)
	for _, alias := range domain.ChainAliases() {
		chain, err := domain.ParseChain(alias)
		if err != nil || alias == string(chain) {
			continue
		}
		aliases[chain] = append(aliases[chain], alias)
	}

	options := make([]string, len(chains))
	for i, chain := range chains {
		name := color.New(color.FgWhite, color.Bold).Sprintf("%-6s", chain)
		options[i] = fmt.Sprintf("%s %s", name, chain.DisplayName())
		if len(aliases[chain]) > 0 {
			options[i] += color.New(color.FgBlue).Sprintf(" (%s)", strings.Join(aliases[chain], ", "))
		}
	}
	return options
}

// createFuzzySearchFunc creates a fuzzy search function for promptui
func createFuzzySearchFunc(items []string) func(input string, index int) bool {
	return func(input string, index int) bool {
		if input == "" {
			return true
		}

		input = strings.ToLower(input)
		item := strings.ToLower(items[index])

		if strings.Contains(item, input) {
			return true
		}

		return len(fuzzy.Find(input, []string{item})) > 0
	}
}

// SuggestChain returns the known chain names closest to input, best match first
func SuggestChain(input string) []string {
	input = strings.ToLower(strings.TrimSpace(input))
	if input == "" {
		return nil
	}

	candidates := domain.ChainAliases()
	matches := fuzzy.Find(input, candidates)
	sort.Stable(matches)

	seen := make(map[string]bool)
	var suggestions []string
	for _, m := range matches {
		if !seen[m.Str] {
			seen[m.Str] = true
			suggestions = append(suggestions, m.Str)
		}
	}

	// Fall back to reverse containment for inputs longer than any alias, e.g. "solidity-evm"
	if len(suggestions) == 0 {
		for _, c := range candidates {
			if strings.Contains(input, c) {
				suggestions = append(suggestions, c)
			}
		}
	}
	return suggestions
}

// SuggestChain returns close matches for an unrecognized chain name
func (s *SelectorAdapter) SuggestChain(input string) []string {
	return SuggestChain(input)
}

var _ usecase.ChainSelector = (*SelectorAdapter)(nil)

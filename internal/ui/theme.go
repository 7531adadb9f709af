package ui

import (
	"sort"

	"github.com/charmbracelet/lipgloss"
)

type palette struct {
	Text     lipgloss.Color
	Muted    lipgloss.Color
	Accent   lipgloss.Color
	Speaker  lipgloss.Color
	Border   lipgloss.Color
	Success  lipgloss.Color
	Warning  lipgloss.Color
	Terminal lipgloss.Color
}

var palettes = map[string]palette{
	"catppuccin": {
		Text:     lipgloss.Color("#cdd6f4"),
		Muted:    lipgloss.Color("#a6adc8"),
		Accent:   lipgloss.Color("#cba6f7"),
		Speaker:  lipgloss.Color("#89b4fa"),
		Border:   lipgloss.Color("#585b70"),
		Success:  lipgloss.Color("#94e2d5"),
		Warning:  lipgloss.Color("#f9e2af"),
		Terminal: lipgloss.Color("#f38ba8"),
	},
	"dracula": {
		Text:     lipgloss.Color("#f8f8f2"),
		Muted:    lipgloss.Color("#6272a4"),
		Accent:   lipgloss.Color("#ff79c6"),
		Speaker:  lipgloss.Color("#8be9fd"),
		Border:   lipgloss.Color("#44475a"),
		Success:  lipgloss.Color("#50fa7b"),
		Warning:  lipgloss.Color("#f1fa8c"),
		Terminal: lipgloss.Color("#bd93f9"),
	},
	"gruvbox": {
		Text:     lipgloss.Color("#ebdbb2"),
		Muted:    lipgloss.Color("#a89984"),
		Accent:   lipgloss.Color("#fabd2f"),
		Speaker:  lipgloss.Color("#83a598"),
		Border:   lipgloss.Color("#665c54"),
		Success:  lipgloss.Color("#b8bb26"),
		Warning:  lipgloss.Color("#fe8019"),
		Terminal: lipgloss.Color("#d3869b"),
	},
}

func paletteFor(name string) palette {
	if p, ok := palettes[name]; ok {
		return p
	}
	return palettes["catppuccin"]
}

func themeNames() []string {
	names := make([]string, 0, len(palettes))
	for k := range palettes {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

func nextThemeName(current string, step int) string {
	names := themeNames()
	if len(names) == 0 {
		return current
	}
	idx := 0
	for i, name := range names {
		if name == current {
			idx = i
			break
		}
	}
	idx = (idx + step) % len(names)
	if idx < 0 {
		idx += len(names)
	}
	return names[idx]
}

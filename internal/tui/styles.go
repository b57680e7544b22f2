package tui

import "github.com/charmbracelet/lipgloss"

// palette is one explicit color scheme. The theme key flips between the
// two; we do not rely on terminal background detection so the toggle is
// deterministic.
type palette struct {
	primary   lipgloss.Color
	secondary lipgloss.Color
	dim       lipgloss.Color
	accent    lipgloss.Color
	border    lipgloss.Color
	activeBdr lipgloss.Color
	statusBg  lipgloss.Color
	statusFg  lipgloss.Color
	green     lipgloss.Color
	errorFg   lipgloss.Color
}

var darkPalette = palette{
	primary:   lipgloss.Color("#7571F9"),
	secondary: lipgloss.Color("#ABABAB"),
	dim:       lipgloss.Color("#626262"),
	accent:    lipgloss.Color("#F25D94"),
	border:    lipgloss.Color("#383838"),
	activeBdr: lipgloss.Color("#7571F9"),
	statusBg:  lipgloss.Color("#16213E"),
	statusFg:  lipgloss.Color("#ABABAB"),
	green:     lipgloss.Color("#25D366"),
	errorFg:   lipgloss.Color("#FF5F5F"),
}

var lightPalette = palette{
	primary:   lipgloss.Color("#5A56E0"),
	secondary: lipgloss.Color("#3D3D3D"),
	dim:       lipgloss.Color("#9B9B9B"),
	accent:    lipgloss.Color("#F25D94"),
	border:    lipgloss.Color("#DBDBDB"),
	activeBdr: lipgloss.Color("#5A56E0"),
	statusBg:  lipgloss.Color("#E8E8E8"),
	statusFg:  lipgloss.Color("#3D3D3D"),
	green:     lipgloss.Color("#04B575"),
	errorFg:   lipgloss.Color("#D70000"),
}

type styles struct {
	header       lipgloss.Style
	headerBadge  lipgloss.Style
	inputPrompt  lipgloss.Style
	spinner      lipgloss.Style
	card         lipgloss.Style
	cardSelected lipgloss.Style
	cardTitle    lipgloss.Style
	cardSource   lipgloss.Style
	cardBody     lipgloss.Style
	cardMeta     lipgloss.Style
	cachedBadge  lipgloss.Style
	speakingNote lipgloss.Style
	panelTitle   lipgloss.Style
	panelItem    lipgloss.Style
	statusBar    lipgloss.Style
	errorBanner  lipgloss.Style
	help         lipgloss.Style
}

func newStyles(p palette) styles {
	return styles{
		header: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.primary).
			PaddingLeft(1),

		headerBadge: lipgloss.NewStyle().
			Foreground(p.dim),

		inputPrompt: lipgloss.NewStyle().
			Foreground(p.accent).
			Bold(true),

		spinner: lipgloss.NewStyle().
			Foreground(p.accent),

		card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.border).
			Padding(0, 1),

		cardSelected: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.activeBdr).
			Padding(0, 1),

		cardTitle: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.primary),

		cardSource: lipgloss.NewStyle().
			Foreground(p.green),

		cardBody: lipgloss.NewStyle().
			Foreground(p.secondary),

		cardMeta: lipgloss.NewStyle().
			Foreground(p.dim),

		cachedBadge: lipgloss.NewStyle().
			Foreground(p.green).
			Bold(true),

		speakingNote: lipgloss.NewStyle().
			Foreground(p.accent).
			Bold(true),

		panelTitle: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.primary).
			PaddingLeft(1),

		panelItem: lipgloss.NewStyle().
			Foreground(p.secondary).
			PaddingLeft(2),

		statusBar: lipgloss.NewStyle().
			Background(p.statusBg).
			Foreground(p.statusFg).
			PaddingLeft(1).
			PaddingRight(1),

		errorBanner: lipgloss.NewStyle().
			Foreground(p.errorFg).
			Bold(true).
			PaddingLeft(1),

		help: lipgloss.NewStyle().
			Foreground(p.dim).
			PaddingLeft(1),
	}
}

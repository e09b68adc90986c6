package tui

import "github.com/charmbracelet/lipgloss"

// Color palette.
var (
	colorRed       = lipgloss.Color("#ff5555")
	colorGreen     = lipgloss.Color("#50fa7b")
	colorYellow    = lipgloss.Color("#f1fa8c")
	colorBlue      = lipgloss.Color("#8be9fd")
	colorPurple    = lipgloss.Color("#bd93f9")
	colorDim       = lipgloss.Color("#6272a4")
	colorBgLight   = lipgloss.Color("#343746")
	colorFg        = lipgloss.Color("#f8f8f2")
	colorOrange    = lipgloss.Color("#ffb86c")
	colorBorder    = lipgloss.Color("#44475a")
	colorHighlight = lipgloss.Color("#44475a")
)

// Style definitions.
var (
	// Event feed styles
	feedStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1)

	feedItemStyle = lipgloss.NewStyle().
			Foreground(colorFg)

	feedItemSelectedStyle = lipgloss.NewStyle().
				Foreground(colorFg).
				Background(colorHighlight).
				Bold(true)

	kindCreatedStyle = lipgloss.NewStyle().
				Foreground(colorGreen)

	kindModifiedStyle = lipgloss.NewStyle().
				Foreground(colorYellow)

	kindDeletedStyle = lipgloss.NewStyle().
				Foreground(colorRed)

	kindMovedStyle = lipgloss.NewStyle().
			Foreground(colorBlue)

	// Origin and batch badges
	originAIStyle = lipgloss.NewStyle().
			Foreground(colorPurple).
			Bold(true)

	originHumanStyle = lipgloss.NewStyle().
				Foreground(colorBlue)

	originUnknownStyle = lipgloss.NewStyle().
				Foreground(colorDim)

	batchStyle = lipgloss.NewStyle().
			Foreground(colorOrange)

	// Confidence badges
	confidenceSafeStyle = lipgloss.NewStyle().
				Foreground(colorGreen)

	confidenceReviewStyle = lipgloss.NewStyle().
				Foreground(colorYellow)

	confidenceRiskyStyle = lipgloss.NewStyle().
				Foreground(colorRed).
				Bold(true)

	// Diff / review view styles
	reviewViewStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1)

	addedLineStyle = lipgloss.NewStyle().
			Foreground(colorGreen)

	deletedLineStyle = lipgloss.NewStyle().
				Foreground(colorRed)

	contextLineStyle = lipgloss.NewStyle().
				Foreground(colorFg)

	hunkHeaderStyle = lipgloss.NewStyle().
			Foreground(colorPurple).
			Bold(true)

	hunkSelectedStyle = lipgloss.NewStyle().
				Foreground(colorPurple).
				Background(colorHighlight).
				Bold(true)

	changeHeaderStyle = lipgloss.NewStyle().
				Foreground(colorBlue).
				Bold(true).
				Padding(0, 0, 1, 0)

	// Hunk decision markers
	actionAcceptStyle = lipgloss.NewStyle().
				Foreground(colorGreen).
				Bold(true)

	actionRejectStyle = lipgloss.NewStyle().
				Foreground(colorRed).
				Bold(true)

	actionSkipStyle = lipgloss.NewStyle().
			Foreground(colorYellow)

	actionPendingStyle = lipgloss.NewStyle().
				Foreground(colorDim)

	// Search styles
	searchBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorPurple).
			Padding(0, 1)

	searchResultStyle = lipgloss.NewStyle().
				Foreground(colorFg)

	searchResultSelectedStyle = lipgloss.NewStyle().
					Foreground(colorFg).
					Background(colorHighlight)

	// Status bar
	statusBarStyle = lipgloss.NewStyle().
			Foreground(colorFg).
			Background(colorBgLight).
			Padding(0, 1)

	// Help bar
	helpBarStyle = lipgloss.NewStyle().
			Foreground(colorDim)

	helpKeyStyle = lipgloss.NewStyle().
			Foreground(colorYellow)
)

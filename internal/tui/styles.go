package tui

import "github.com/charmbracelet/lipgloss"

// Styling
var (
	docStyle = lipgloss.NewStyle().Margin(1, 2)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#E23744")).
			Padding(0, 1)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#0a84ff")).
			Padding(0, 1)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#30d158")).
			Padding(0, 1)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#ff453a")).
			Padding(0, 1)

	botNameStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#E23744"))
	userNameStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#0a84ff"))
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	strikeStyle   = mutedStyle.Copy().Strikethrough(true)
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	paneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	focusedPaneStyle = paneStyle.Copy().BorderForeground(lipgloss.Color("#E23744"))

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color("#30d158")).
			Padding(1, 2)
)

package tui

import (
	"fmt"
	"strconv"
	"strings"

	"orderbot/internal/assistant"
	"orderbot/internal/i18n"
	"orderbot/internal/models"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

// menuEntry is a recommended dish in the list
type menuEntry struct {
	row        assistant.RecommendedItem
	bestseller string
	ratings    string
}

func newMenuEntry(row assistant.RecommendedItem, t func(string) string) menuEntry {
	return menuEntry{
		row:        row,
		bestseller: t(i18n.KeyBestseller),
		ratings:    t(i18n.KeyRatings),
	}
}

// FilterValue implements list.Item interface
func (e menuEntry) FilterValue() string { return e.row.Item.Title }

// Title implements list.Item interface
func (e menuEntry) Title() string {
	item := e.row.Item
	title := item.Title + "  " + models.FormatAmount(item.Price)
	if item.IsBestseller() {
		title += " " + strikeStyle.Render(models.FormatAmount(item.OriginalPrice()))
		title += " " + successStyle.Render(e.bestseller)
	}
	return title
}

// Description implements list.Item interface
func (e menuEntry) Description() string {
	item := e.row.Item
	return fmt.Sprintf("★ %.1f (%d %s)  [ - %d + ]  %s",
		item.Rating, item.RatingCount(), e.ratings, e.row.Quantity, item.Description)
}

func cartColumns(t func(string) string) []table.Column {
	return []table.Column{
		{Title: t(i18n.KeyYourOrder), Width: 24},
		{Title: "×", Width: 4},
		{Title: t(i18n.KeyTotal), Width: 12},
	}
}

func cartRows(lines []models.OrderLine) []table.Row {
	rows := make([]table.Row, len(lines))
	for i, line := range lines {
		rows[i] = table.Row{
			line.Item.Title,
			strconv.Itoa(line.Quantity),
			models.FormatAmount(line.Amount()),
		}
	}
	return rows
}

// View renders the UI
func (m Model) View() string {
	t := m.assistant.T

	header := titleStyle.Render(t(i18n.KeyWelcome)) + " " +
		infoStyle.Render(t(i18n.KeyLanguage)+": "+t(i18n.LanguageKey(m.assistant.Locale())))

	cartSnap := m.assistant.Cart()
	if cartSnap.SummaryOpen {
		return docStyle.Render(header + "\n\n" + m.summaryView(cartSnap))
	}

	chatPane := m.chatView()
	menuPane := m.menuView(cartSnap)
	if m.focus == focusChat {
		chatPane = focusedPaneStyle.Render(chatPane)
		menuPane = paneStyle.Render(menuPane)
	} else {
		chatPane = paneStyle.Render(chatPane)
		menuPane = focusedPaneStyle.Render(menuPane)
	}

	help := t(i18n.KeyHelpChat)
	if m.focus == focusMenu {
		help = t(i18n.KeyHelpMenu)
	}

	var b strings.Builder
	b.WriteString(header + "\n\n")
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, chatPane, menuPane))
	b.WriteString("\n" + helpStyle.Render(help))
	if m.status != "" {
		b.WriteString("\n" + errorStyle.Render(m.status))
	}
	return docStyle.Render(b.String())
}

func (m Model) chatView() string {
	turns := m.assistant.Transcript()

	limit := len(turns)
	if m.height > 0 {
		limit = m.height / 3
		if limit < 4 {
			limit = 4
		}
	}
	if len(turns) > limit {
		turns = turns[len(turns)-limit:]
	}

	var b strings.Builder
	for _, turn := range turns {
		name := botNameStyle.Render(turn.DisplayName)
		if turn.Sender == models.SenderUser {
			name = userNameStyle.Render(turn.DisplayName)
		}
		b.WriteString(name + ": " + turn.Text + "\n")
	}
	if m.pending != nil || m.loadingCatalog {
		b.WriteString(m.spinner.View() + " " + mutedStyle.Render(m.assistant.T(i18n.KeyLoading)) + "\n")
	}
	b.WriteString("\n" + m.input.View())
	return b.String()
}

func (m Model) menuView(cartSnap assistant.CartSnapshot) string {
	t := m.assistant.T

	var b strings.Builder
	if len(m.menu.Items()) == 0 {
		b.WriteString(titleStyle.Render(t(i18n.KeyRecommendedMenu)) + "\n\n")
		b.WriteString(mutedStyle.Render(t(i18n.KeyNoRecommendedItems)) + "\n")
	} else {
		b.WriteString(m.menu.View() + "\n")
	}

	if len(cartSnap.Lines) > 0 {
		b.WriteString("\n" + titleStyle.Render(t(i18n.KeyYourOrder)) + "\n")
		b.WriteString(m.cart.View() + "\n")
		b.WriteString(fmt.Sprintf("%s: %s  ", t(i18n.KeyTotal), models.FormatAmount(cartSnap.Total)))
		b.WriteString(successStyle.Render(t(i18n.KeyConfirmOrder)) + "\n")
	}
	return b.String()
}

func (m Model) summaryView(cartSnap assistant.CartSnapshot) string {
	t := m.assistant.T

	var b strings.Builder
	b.WriteString(titleStyle.Render(t(i18n.KeyConfirmYourOrder)) + "\n\n")
	for _, line := range cartSnap.Lines {
		b.WriteString(fmt.Sprintf("%s × %d  %s\n", line.Item.Title, line.Quantity, models.FormatAmount(line.Amount())))
	}
	b.WriteString(fmt.Sprintf("\n%s: %s\n\n", t(i18n.KeyTotal), models.FormatAmount(cartSnap.Total)))
	b.WriteString(successStyle.Render(t(i18n.KeyConfirmOrder)) + "  " + errorStyle.Render(t(i18n.KeyCancel)) + "\n")
	b.WriteString(helpStyle.Render(t(i18n.KeyHelpConfirm)))
	return modalStyle.Render(b.String())
}

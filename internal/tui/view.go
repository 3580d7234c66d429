package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/kingrea/toolbox/internal/nav"
	"github.com/kingrea/toolbox/internal/registry"
)

const (
	categoryPanelWidth = 24
	minActionWidth     = 30
	logTailLines       = 3
)

var (
	accentColor = lipgloss.Color("#E8C75F")
	dimColor    = lipgloss.Color("#B49648")
	panelColor  = lipgloss.Color("#1C1F26")
	altColor    = lipgloss.Color("#16181E")
	textColor   = lipgloss.Color("#E1E1DC")
	mutedColor  = lipgloss.Color("#9699A0")

	titleStyle  = lipgloss.NewStyle().Foreground(accentColor).Bold(true)
	statusStyle = lipgloss.NewStyle().Foreground(textColor)
	mutedStyle  = lipgloss.NewStyle().Foreground(mutedColor)
	headerStyle = lipgloss.NewStyle().Foreground(dimColor).Bold(true)
	activeStyle = lipgloss.NewStyle().Foreground(accentColor).Bold(true)
	rowStyle    = lipgloss.NewStyle().Foreground(textColor)

	panelStyle = lipgloss.NewStyle().
			Background(panelColor).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(dimColor).
			Padding(0, 1)
	focusedPanelStyle = panelStyle.
				BorderForeground(accentColor).
				Background(altColor)
	noticeStyle = lipgloss.NewStyle().
			Foreground(accentColor).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accentColor).
			Padding(1, 2)
)

// View renders the dashboard.
func (a *App) View() string {
	if a.tooSmall() {
		return a.renderTooSmall()
	}
	sections := []string{
		titleStyle.Render("Toolbox") + mutedStyle.Render("  "+a.clock.Format("15:04:05")),
		a.renderStatusLine(),
		a.renderPanels(),
		a.help.View(a.keys),
	}
	if tail := a.renderLogTail(); tail != "" {
		sections = append(sections, tail)
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (a *App) renderTooSmall() string {
	msg := fmt.Sprintf(
		"Terminal too small: %dx%d.\nResize to at least %dx%d, or set size_bypass = true.\nPress q to quit.",
		a.width, a.height, minWidth, minHeight,
	)
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, noticeStyle.Render(msg))
}

func (a *App) renderStatusLine() string {
	if a.searching {
		return a.search.View()
	}
	return statusStyle.Render(a.nav.Status())
}

func (a *App) renderPanels() string {
	width := a.width
	if width <= 0 {
		width = minWidth
	}
	actionWidth := max(minActionWidth, width/3)
	moduleWidth := max(20, width-categoryPanelWidth-actionWidth)
	height := a.height - 8 - logTailLines
	if height < 5 {
		height = 5
	}

	categories, categoryRow := a.categoryRows(innerWidth(categoryPanelWidth))
	modules, moduleRow := a.moduleRows(innerWidth(moduleWidth))
	actions, actionRow := a.actionRows(innerWidth(actionWidth))
	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		a.panel("Categories", categories, categoryRow, categoryPanelWidth, height, nav.FocusCategories),
		a.panel("Modules", modules, moduleRow, moduleWidth, height, nav.FocusModules),
		a.panel("Actions", actions, actionRow, actionWidth, height, nav.FocusActions),
	)
}

func innerWidth(width int) int {
	return max(1, width-panelStyle.GetHorizontalFrameSize())
}

// panel draws a bordered column. Rows must already fit the inner width;
// selected is the row kept on screen when the list has to scroll.
func (a *App) panel(title string, rows []string, selected, width, height int, focus nav.Focus) string {
	style := panelStyle
	if a.nav.Focus() == focus {
		style = focusedPanelStyle
	}
	rows = window(rows, selected, height-1)
	body := make([]string, 0, len(rows)+1)
	body = append(body, headerStyle.Render(title))
	body = append(body, rows...)
	return style.Width(width - style.GetHorizontalBorderSize()).Height(height).Render(strings.Join(body, "\n"))
}

// window returns at most size rows around selected, so the cursor never
// scrolls off screen.
func window(rows []string, selected, size int) []string {
	if size <= 0 {
		return nil
	}
	if len(rows) <= size {
		return rows
	}
	start := selected - size/2
	start = max(0, min(start, len(rows)-size))
	return rows[start : start+size]
}

func (a *App) categoryRows(width int) ([]string, int) {
	categories := a.nav.Categories()
	rows := make([]string, 0, len(categories))
	for i, name := range categories {
		marker := "[ ]"
		style := rowStyle
		if i == a.nav.CategoryIndex() {
			marker = "[*]"
			if a.nav.Focus() == nav.FocusCategories {
				marker = "[>]"
				style = activeStyle
			}
		}
		rows = append(rows, style.Render(truncate(marker+" "+name, width)))
	}
	return rows, a.nav.CategoryIndex()
}

func (a *App) moduleRows(width int) ([]string, int) {
	modules := a.nav.CurrentModules()
	if len(modules) == 0 {
		return []string{mutedStyle.Render("No modules in this category.")}, 0
	}
	selected := 0
	root := a.nav.Catalog().Root()
	rows := make([]string, 0, len(modules)*2)
	for i, mod := range modules {
		prefix := "  "
		style := rowStyle
		if i == a.nav.ModuleIndex() {
			prefix = "> "
			selected = len(rows)
			if a.nav.Focus() == nav.FocusModules {
				style = activeStyle
			}
		}
		rows = append(rows, style.Render(truncate(prefix+mod.Name, width)))
		detail := mod.Description
		if rel := mod.RelativeRoot(root); rel != "" && rel != "." {
			detail = strings.TrimSpace(rel + "  " + detail)
		}
		if detail != "" {
			rows = append(rows, mutedStyle.Render(truncate("    "+detail, width)))
		}
	}
	return rows, selected
}

func (a *App) actionRows(width int) ([]string, int) {
	actions := a.nav.CurrentActions()
	if len(actions) == 0 {
		return []string{mutedStyle.Render(nav.StatusNoActions)}, 0
	}
	selected := 0
	rows := make([]string, 0, len(actions)*2)
	for i, action := range actions {
		prefix := "  "
		style := rowStyle
		if i == a.nav.ActionIndex() {
			prefix = "> "
			selected = len(rows)
			if a.nav.Focus() == nav.FocusActions {
				style = activeStyle
			}
		}
		row := fmt.Sprintf("%s[%s] %s", prefix, shortTag(action), action.Name)
		rows = append(rows, style.Render(truncate(row, width)))
		rows = append(rows, mutedStyle.Render(truncate("      "+action.Command, width)))
	}
	return rows, selected
}

func (a *App) renderLogTail() string {
	lines, _ := a.logbook.Tail(logTailLines)
	if len(lines) == 0 {
		return ""
	}
	width := a.width
	if width <= 0 {
		width = minWidth
	}
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = mutedStyle.Render(truncate(line, width))
	}
	return strings.Join(out, "\n")
}

// shortTag builds a three-column tag from the first letter of each word in
// the action name, padded with spaces.
func shortTag(action registry.Action) string {
	tag := make([]rune, 0, 3)
	for _, word := range strings.Fields(action.Name) {
		first := []rune(word)[0]
		tag = append(tag, []rune(strings.ToUpper(string(first)))[0])
		if len(tag) == 3 {
			break
		}
	}
	for len(tag) < 3 {
		tag = append(tag, ' ')
	}
	return string(tag)
}

func truncate(s string, width int) string {
	if width <= 0 || lipgloss.Width(s) <= width {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 && lipgloss.Width(string(runes))+1 > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "…"
}

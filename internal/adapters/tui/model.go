// Package tui draws a session on the terminal and drives it with the mouse.
// A press on a deck card followed by motion starts a drag, hovering a zone
// arms it and releasing places the card.
package tui

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/randomtoy/tarot-spreads/internal/app"
	"github.com/randomtoy/tarot-spreads/internal/domain"
	"github.com/randomtoy/tarot-spreads/internal/interaction"
)

// CellSlop is the coarse-backend travel threshold in terminal cells.
const CellSlop = 1

const (
	defaultWidth  = 80
	maxDetailWrap = 72
)

// Options configures the board.
type Options struct {
	// GlamourStyle names a glamour standard style ("dark", "light", "notty").
	GlamourStyle string
	Logger       *slog.Logger
}

// Model is the bubbletea model of one table.
type Model struct {
	session *app.Session
	styles  Styles
	keys    keyMap
	help    help.Model
	logger  *slog.Logger

	glamourStyle string
	renderer     *glamour.TermRenderer

	width     int
	height    int
	status    string
	statusErr bool
}

// New builds a board for s.
func New(s *app.Session, opts Options) Model {
	if opts.GlamourStyle == "" {
		opts.GlamourStyle = "dark"
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	m := Model{
		session:      s,
		styles:       DefaultStyles(),
		keys:         defaultKeys(),
		help:         help.New(),
		logger:       opts.Logger,
		glamourStyle: opts.GlamourStyle,
		width:        defaultWidth,
		status:       "drag a card from the deck onto a position",
	}
	m.renderer = m.newRenderer()
	return m
}

func (m Model) newRenderer() *glamour.TermRenderer {
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(m.glamourStyle),
		glamour.WithWordWrap(min(max(m.width-4, 20), maxDetailWrap)),
	)
	if err != nil {
		m.logger.Warn("markdown renderer unavailable", "err", err)
		return nil
	}
	return r
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.renderer = m.newRenderer()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		m.handleMouse(msg)
		return m, nil
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(msg, m.keys.Close):
		m.session.CloseDetail()

	case key.Matches(msg, m.keys.Shuffle):
		m.session.Shuffle()
		m.setStatus("deck shuffled", false)

	case key.Matches(msg, m.keys.Clear):
		m.session.Clear()
		m.setStatus("table cleared", false)

	case key.Matches(msg, m.keys.Spread):
		spreads := m.session.View().Spreads
		idx := int(msg.String()[0] - '1')
		if idx < 0 || idx >= len(spreads) {
			return m, nil
		}
		m.session.SelectSpread(spreads[idx].ID)
		m.setStatus("spread: "+spreads[idx].Label, false)
	}
	return m, nil
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	var kind interaction.EventKind
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return
		}
		// Any click dismisses an open card.
		if m.session.View().Detail != nil {
			m.session.CloseDetail()
			return
		}
		kind = interaction.Press
	case tea.MouseActionMotion:
		kind = interaction.Move
	case tea.MouseActionRelease:
		kind = interaction.Release
	default:
		return
	}

	l := computeLayout(m.session.View(), m.width)
	res := m.session.HandleInput(interaction.InputEvent{
		Kind: kind,
		X:    float64(msg.X),
		Y:    float64(msg.Y),
		Hit:  l.hitTest(msg.X, msg.Y),
	})
	m.report(res)
}

func (m *Model) report(res interaction.Result) {
	if res.Err != nil {
		m.setStatus(res.Err.Error(), true)
		return
	}
	switch res.Outcome {
	case interaction.OutcomeStarted:
		m.setStatus(fmt.Sprintf("dragging card %d", res.CardID), false)
	case interaction.OutcomeArmed:
		m.setStatus("release to place on "+res.Position, false)
	case interaction.OutcomePlaced:
		m.setStatus(fmt.Sprintf("card %d placed on %s", res.CardID, res.Position), false)
	case interaction.OutcomeCancelled:
		m.setStatus("drop cancelled", false)
	case interaction.OutcomeStale:
		m.setStatus("drop ignored: card is no longer in the deck", false)
	}
}

func (m *Model) setStatus(s string, isErr bool) {
	m.status = s
	m.statusErr = isErr
}

func (m Model) View() string {
	v := m.session.View()
	l := computeLayout(v, m.width)

	rows := []string{
		m.styles.Title.Render(truncate("Tarot · "+v.Spread.Label, m.width)),
		m.renderTabs(v),
		m.renderStatus(),
		m.styles.Label.Render(fmt.Sprintf("Baralho (%d)", len(v.Deck))),
	}
	rows = append(rows, m.renderDeck(l)...)
	rows = append(rows, "")

	if v.Detail != nil {
		rows = append(rows, m.renderDetail(v.Detail))
	} else {
		rows = append(rows, m.renderZones(l))
	}
	rows = append(rows, "", m.help.View(m.keys))
	return strings.Join(rows, "\n")
}

func (m Model) renderTabs(v app.View) string {
	var plain, styled []string
	for i, s := range v.Spreads {
		label := fmt.Sprintf("%d %s", i+1, s.Label)
		plain = append(plain, label)
		styled = append(styled, m.tabStyle(s.Active).Render(label))
	}
	if lipgloss.Width(strings.Join(plain, "  ")) <= m.width {
		return strings.Join(styled, "  ")
	}
	styled = styled[:0]
	for i, s := range v.Spreads {
		styled = append(styled, m.tabStyle(s.Active).Render(fmt.Sprint(i+1)))
	}
	return strings.Join(styled, " ")
}

func (m Model) tabStyle(active bool) lipgloss.Style {
	if active {
		return m.styles.ActiveTab
	}
	return m.styles.Tab
}

func (m Model) renderStatus() string {
	s := truncate(m.status, m.width)
	if m.statusErr {
		return m.styles.Error.Render(s)
	}
	return m.styles.Status.Render(s)
}

func (m Model) renderDeck(l layout) []string {
	rows := make([]string, deckRows)
	for r := range rows {
		var b strings.Builder
		for _, d := range l.deck {
			switch {
			case d.row != r:
				b.WriteString(strings.Repeat(" ", cardGlyph))
			case d.card.Dragging:
				b.WriteString(m.styles.Dragging.Render("██"))
			default:
				b.WriteString(m.styles.CardBack.Render("▓▓"))
			}
			b.WriteString(strings.Repeat(" ", cardCell-cardGlyph))
		}
		rows[r] = b.String()
	}
	return rows
}

func (m Model) renderZones(l layout) string {
	if len(l.zones) == 0 {
		return ""
	}
	var grid, row []string
	for i, z := range l.zones {
		row = append(row, m.renderZone(z.pos))
		if len(row) == l.cols || i == len(l.zones)-1 {
			grid = append(grid, lipgloss.JoinHorizontal(lipgloss.Top, row...))
			row = nil
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, grid...)
}

func (m Model) renderZone(p app.PositionView) string {
	inner := zoneWidth - 2
	title := p.Name
	if len(p.Cards) > zoneLines-1 {
		title = fmt.Sprintf("%s (%d)", p.Name, len(p.Cards))
	}
	lines := []string{m.styles.ZoneTitle.Render(truncate(title, inner))}
	for _, c := range visibleStack(p.Cards) {
		if c.Orientation == domain.Reversed {
			lines = append(lines, m.styles.Reversed.Render(truncate("↓ "+c.Name, inner)))
			continue
		}
		lines = append(lines, m.styles.Placed.Render(truncate("↑ "+c.Name, inner)))
	}

	style := m.styles.Zone
	if p.Armed {
		style = m.styles.ArmedZone
	}
	return style.Render(strings.Join(lines, "\n"))
}

func (m Model) renderDetail(d *app.DetailView) string {
	md := detailMarkdown(d)
	if m.renderer == nil {
		return m.styles.DetailPane.Render(md)
	}
	out, err := m.renderer.Render(md)
	if err != nil {
		m.logger.Warn("render card detail", "card_id", d.ID, "err", err)
		return m.styles.DetailPane.Render(md)
	}
	return m.styles.DetailPane.Render(strings.TrimSpace(out))
}

func detailMarkdown(d *app.DetailView) string {
	orientation := "Normal"
	if d.Orientation == domain.Reversed {
		orientation = "Invertida"
	}
	return fmt.Sprintf("# %s\n\n**%s** · %s\n\n%s\n", d.Name, d.Position, orientation, d.Meaning)
}

func truncate(s string, width int) string {
	r := []rune(s)
	if width <= 0 || len(r) <= width {
		return s
	}
	if width == 1 {
		return "…"
	}
	return string(r[:width-1]) + "…"
}

package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/mvdwetering/noveltui/internal/novel"
)

func (m *model) pal() palette { return paletteFor(m.theme) }

func (m *model) renderStatusBar() string {
	p := m.pal()
	var busy []string
	if m.generatingStory {
		busy = append(busy, "story")
	}
	if m.generatingBg {
		busy = append(busy, "background")
	}
	if m.generatingDialogue {
		busy = append(busy, "dialogue")
	}
	left := m.status
	if m.inputActive {
		left = m.inputLabel + "> " + m.inputBuffer + "█"
	}
	right := ""
	if len(busy) > 0 {
		right = "generating: " + strings.Join(busy, ", ")
	}
	style := lipgloss.NewStyle().Foreground(p.Muted)
	if m.statusIsErr && !m.inputActive {
		style = lipgloss.NewStyle().Foreground(p.Warning)
	}
	w := m.width
	if w <= 0 {
		w = 100
	}
	gap := w - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return style.Render(left + strings.Repeat(" ", gap) + right)
}

func (m *model) renderMainMenu() string {
	p := m.pal()
	box := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(p.Border).Padding(1, 2).Width(52)
	title := lipgloss.NewStyle().Bold(true).Foreground(p.Accent).Render("NOVELTUI — " + m.doc.Title)
	content := title + "\n\n[1] Edit Story\n[2] Play Story\n[3] Generate Story from Theme\n[4] Help\n\nQ Save & Quit"
	return box.Render(content)
}

func (m *model) renderScenes() string {
	p := m.pal()
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(p.Accent)
	selStyle := lipgloss.NewStyle().Foreground(p.Accent)
	mutedStyle := lipgloss.NewStyle().Foreground(p.Muted)
	termStyle := lipgloss.NewStyle().Foreground(p.Terminal)

	var b strings.Builder
	b.WriteString(titleStyle.Render(m.doc.Title) + "\n")
	b.WriteString(mutedStyle.Render(fmt.Sprintf("%d scenes, %d characters", len(m.doc.Scenes), len(m.doc.Characters))) + "\n\n")
	for i, s := range m.doc.Scenes {
		marker := "  "
		if i == m.sceneIndex {
			marker = "> "
		}
		line := fmt.Sprintf("%s%s", marker, s.Name)
		var tags []string
		if s.ID == m.doc.StartSceneID {
			tags = append(tags, "start")
		}
		if len(s.Choices) == 0 {
			tags = append(tags, "ending")
		}
		if len(tags) > 0 {
			line += "  " + termStyle.Render("["+strings.Join(tags, ", ")+"]")
		}
		line += mutedStyle.Render(fmt.Sprintf("  %d lines, %d choices", len(s.Dialogue), len(s.Choices)))
		if i == m.sceneIndex {
			line = selStyle.Render(line)
		}
		b.WriteString(line + "\n")
	}
	b.WriteString("\n" + mutedStyle.Render("[enter] open  [n] new  [d] delete  [s] set start  [t] title  [c] characters  [p] play  [g] generate  [w] save  [R] reset  [?] help"))
	return b.String()
}

func (m *model) renderSceneDetail() string {
	s := m.doc.SceneByID(m.selectedSceneID)
	if s == nil {
		return "(scene not found)"
	}
	p := m.pal()
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(p.Accent)
	selStyle := lipgloss.NewStyle().Foreground(p.Accent)
	mutedStyle := lipgloss.NewStyle().Foreground(p.Muted)
	speakerStyle := lipgloss.NewStyle().Foreground(p.Speaker)

	rows := m.sceneRows()
	var b strings.Builder
	b.WriteString(titleStyle.Render("SCENE: "+s.Name) + "\n\n")
	section := ""
	for i, r := range rows {
		if name := sectionFor(r.kind); name != section {
			section = name
			if section != "" {
				b.WriteString("\n" + mutedStyle.Render(section) + "\n")
			}
		}
		marker := "  "
		if i == m.sceneCursor {
			marker = "> "
		}
		line := marker + m.rowLabel(s, r, speakerStyle)
		if i == m.sceneCursor {
			line = selStyle.Render(line)
		}
		b.WriteString(line + "\n")
	}
	b.WriteString("\n" + mutedStyle.Render("[enter] edit  [space] toggle cast  [s] speaker  [t] target  [a] +line  [o] +choice  [x] delete  [b] gen bg  [v] gen dialogue  [i] import bg  [esc] back"))
	return b.String()
}

func sectionFor(k rowKind) string {
	switch k {
	case rowDialogue:
		return "DIALOGUE"
	case rowChoice:
		return "CHOICES"
	case rowPresence:
		return "CAST"
	}
	return ""
}

func (m *model) rowLabel(s *novel.Scene, r sceneRow, speakerStyle lipgloss.Style) string {
	switch r.kind {
	case rowName:
		return "Name: " + s.Name
	case rowBackground:
		return "Background: " + truncate(s.BackgroundURL, 60)
	case rowPrompt:
		return "Prompt: " + truncate(s.Prompt, 60)
	case rowDialogue:
		d := s.Dialogue[r.index]
		speaker := "Narrator"
		if d.CharacterID != nil {
			speaker = m.characterName(*d.CharacterID)
		}
		return speakerStyle.Render(speaker) + ": " + truncate(d.Text, 70)
	case rowChoice:
		c := s.Choices[r.index]
		return fmt.Sprintf("%q -> %s", truncate(c.Text, 40), m.sceneName(c.NextSceneID))
	case rowPresence:
		mark := "[ ]"
		if s.Present(r.characterID) {
			mark = "[x]"
		}
		return mark + " " + m.characterName(r.characterID)
	}
	return ""
}

func (m *model) renderCharacters() string {
	p := m.pal()
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(p.Accent)
	selStyle := lipgloss.NewStyle().Foreground(p.Accent)
	mutedStyle := lipgloss.NewStyle().Foreground(p.Muted)

	var b strings.Builder
	b.WriteString(titleStyle.Render("CHARACTERS") + "\n\n")
	if len(m.doc.Characters) == 0 {
		b.WriteString(mutedStyle.Render("(none yet — press n)") + "\n")
	}
	for i, c := range m.doc.Characters {
		marker := "  "
		if i == m.charIndex {
			marker = "> "
		}
		portrait := "no portrait"
		if c.ImageURL != "" {
			portrait = describeImage(c.ImageURL)
		}
		line := fmt.Sprintf("%s%s  %s", marker, c.Name, mutedStyle.Render(portrait))
		if i == m.charIndex {
			line = selStyle.Render(line)
		}
		b.WriteString(line + "\n")
	}
	b.WriteString("\n" + mutedStyle.Render("[enter] rename  [n] new  [d] delete  [i] import portrait  [esc] back"))
	return b.String()
}

// renderPlayScene rebuilds the glamour-rendered transcript for the
// current scene up to the revealed line.
func (m *model) renderPlayScene() {
	v, ok := m.player.Current(&m.doc)
	if !ok {
		m.playRendered = "(scene missing — press r to restart)"
		return
	}
	if m.playLine >= len(v.Scene.Dialogue) {
		m.playLine = len(v.Scene.Dialogue) - 1
	}
	var b strings.Builder
	b.WriteString("## " + v.Scene.Name + "\n\n")
	if len(v.Cast) > 0 {
		names := make([]string, len(v.Cast))
		for i, c := range v.Cast {
			names[i] = c.Name
		}
		b.WriteString("*Present: " + strings.Join(names, ", ") + "*\n\n")
	}
	for i := 0; i <= m.playLine && i < len(v.Scene.Dialogue); i++ {
		d := v.Scene.Dialogue[i]
		if d.CharacterID != nil {
			b.WriteString("**" + m.characterName(*d.CharacterID) + ":** " + d.Text + "\n\n")
		} else {
			b.WriteString(d.Text + "\n\n")
		}
	}
	renderer, err := glamour.NewTermRenderer(glamour.WithAutoStyle())
	if err != nil {
		m.playRendered = b.String()
		return
	}
	rendered, err := renderer.Render(b.String())
	if err != nil {
		m.playRendered = b.String()
		return
	}
	m.playRendered = rendered
}

func (m *model) renderPlay() string {
	p := m.pal()
	mutedStyle := lipgloss.NewStyle().Foreground(p.Muted)
	termStyle := lipgloss.NewStyle().Bold(true).Foreground(p.Terminal)

	v, ok := m.player.Current(&m.doc)
	if !ok {
		return m.playRendered + "\n" + mutedStyle.Render("[r] restart  [esc] back")
	}
	var b strings.Builder
	b.WriteString(m.playRendered)
	allShown := m.playLine >= len(v.Scene.Dialogue)-1
	switch {
	case !allShown:
		b.WriteString(mutedStyle.Render("[space] next line") + "\n")
	case v.Terminal():
		b.WriteString(termStyle.Render("THE END") + "\n")
	default:
		for i, c := range v.Scene.Choices {
			b.WriteString(fmt.Sprintf("[%d] %s\n", i+1, c.Text))
		}
	}
	b.WriteString(mutedStyle.Render("[r] restart  [esc] back"))
	return b.String()
}

func (m *model) renderHelp() string {
	p := m.pal()
	box := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(p.Border).Padding(1, 2)
	return box.Render(`NOVELTUI HELP

Edit mode
  Scenes list: enter opens a scene, n adds, d deletes (with confirm),
  s marks the start scene, t edits the title.
  Scene detail: arrow keys move, enter edits the highlighted row,
  space toggles a character in or out of the cast, s cycles a line's
  speaker, t cycles a choice's target scene, x deletes a line or choice.

Generation (requires GEMINI_API_KEY)
  g  generate a whole story from a theme (replaces the document)
  b  generate the scene background from its prompt
  v  generate 3-5 dialogue lines from the prompt and cast

Play mode
  space reveals lines one at a time, number keys pick a choice,
  r restarts from the start scene.

w saves, R resets to the starter story, T cycles the color theme.`)
}

func (m *model) characterName(id string) string {
	if c := m.doc.CharacterByID(id); c != nil {
		return c.Name
	}
	return "?"
}

func (m *model) sceneName(id string) string {
	if s := m.doc.SceneByID(id); s != nil {
		return s.Name
	}
	return "?"
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 3 {
		return s[:n]
	}
	return s[:n-3] + "..."
}

// describeImage keeps data URLs readable in lists.
func describeImage(url string) string {
	if strings.HasPrefix(url, "data:") {
		mime := url[5:]
		if i := strings.IndexByte(mime, ';'); i > 0 {
			mime = mime[:i]
		}
		return "inline " + mime
	}
	return truncate(url, 40)
}

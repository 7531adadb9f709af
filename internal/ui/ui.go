package ui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mvdwetering/noveltui/internal/engine"
	"github.com/mvdwetering/noveltui/internal/genai"
	"github.com/mvdwetering/noveltui/internal/novel"
	"github.com/mvdwetering/noveltui/internal/store"
	"github.com/mvdwetering/noveltui/internal/util"
)

const (
	viewMainMenu   = "main_menu"
	viewScenes     = "scenes"
	viewScene      = "scene"
	viewCharacters = "characters"
	viewPlay       = "play"
	viewHelp       = "help"
)

// row kinds inside the scene detail view
type rowKind int

const (
	rowName rowKind = iota
	rowBackground
	rowPrompt
	rowDialogue
	rowChoice
	rowPresence
)

type sceneRow struct {
	kind        rowKind
	index       int    // dialogue/choice index
	characterID string // presence rows
}

// inputTarget says where a committed text input lands.
type inputTarget struct {
	kind    string // "theme", "scene-name", "scene-bg", "scene-prompt", "dialogue-text", "choice-text", "char-name", "char-image-path", "bg-image-path", "title"
	sceneID string
	charID  string
	index   int
}

type model struct {
	ctx      context.Context
	cfg      util.Config
	db       *store.DB
	repo     *store.NovelRepo
	settings *store.SettingsRepo
	gen      *genai.Generator
	theme    string

	doc    novel.Novel
	player engine.Player
	// playLine walks the current scene's dialogue before choices show
	playLine     int
	playRendered string

	view            string
	sceneIndex      int
	sceneCursor     int
	selectedSceneID string
	charIndex       int

	inputActive bool
	inputLabel  string
	inputBuffer string
	inputTarget inputTarget

	pendingConfirm string // "scene:<id>", "char:<id>", "reset"
	status         string
	statusIsErr    bool

	// one in-flight flag per generation kind; same-kind requests are
	// refused while one is outstanding, different kinds may overlap
	generatingStory    bool
	generatingBg       bool
	generatingDialogue bool

	width  int
	height int
}

// Generation result messages. Each carries the error so failures clear
// the in-flight flag and surface in the status line.
type storyGeneratedMsg struct {
	doc novel.Novel
	err error
}

type bgGeneratedMsg struct {
	sceneID string
	url     string
	err     error
}

type dialogueGeneratedMsg struct {
	sceneID string
	lines   []novel.DialogueLine
	err     error
}

func initialModel(ctx context.Context, db *store.DB, gen *genai.Generator, doc novel.Novel, cfg util.Config) model {
	m := model{
		ctx:             ctx,
		cfg:             cfg,
		db:              db,
		gen:             gen,
		doc:             doc,
		theme:           "catppuccin",
		view:            viewMainMenu,
		selectedSceneID: doc.StartSceneID,
	}
	if cfg.Theme != "" {
		m.theme = cfg.Theme
	}
	if db != nil {
		m.repo = store.NewNovelRepo(db)
		m.settings = store.NewSettingsRepo(db)
	}
	m.player = engine.NewPlayer(&m.doc)
	return m
}

func (m model) Init() tea.Cmd { return nil }

// replace swaps the document in after a successful engine operation and
// keeps the selection sane.
func (m *model) replace(doc novel.Novel) {
	m.doc = doc
	if m.doc.SceneByID(m.selectedSceneID) == nil {
		m.selectedSceneID = m.doc.StartSceneID
	}
	if m.sceneIndex >= len(m.doc.Scenes) {
		m.sceneIndex = len(m.doc.Scenes) - 1
	}
	if m.sceneIndex < 0 {
		m.sceneIndex = 0
	}
}

func (m *model) info(format string, args ...any) {
	m.status = fmt.Sprintf(format, args...)
	m.statusIsErr = false
}

func (m *model) fail(format string, args ...any) {
	m.status = fmt.Sprintf(format, args...)
	m.statusIsErr = true
}

// sceneRows flattens the selected scene into a cursor-addressable list.
func (m *model) sceneRows() []sceneRow {
	s := m.doc.SceneByID(m.selectedSceneID)
	if s == nil {
		return nil
	}
	rows := []sceneRow{{kind: rowName}, {kind: rowBackground}, {kind: rowPrompt}}
	for i := range s.Dialogue {
		rows = append(rows, sceneRow{kind: rowDialogue, index: i})
	}
	for i := range s.Choices {
		rows = append(rows, sceneRow{kind: rowChoice, index: i})
	}
	for _, c := range m.doc.Characters {
		rows = append(rows, sceneRow{kind: rowPresence, characterID: c.ID})
	}
	return rows
}

func (m *model) clampSceneCursor() {
	rows := m.sceneRows()
	if m.sceneCursor >= len(rows) {
		m.sceneCursor = len(rows) - 1
	}
	if m.sceneCursor < 0 {
		m.sceneCursor = 0
	}
}

// Commands -------------------------------------------------------------------

func (m *model) generateStoryCmd(theme string) tea.Cmd {
	gen, ctx := m.gen, m.ctx
	return func() tea.Msg {
		doc, err := gen.GenerateStory(ctx, theme)
		return storyGeneratedMsg{doc: doc, err: err}
	}
}

func (m *model) generateBgCmd(sceneID, prompt string) tea.Cmd {
	gen, ctx := m.gen, m.ctx
	return func() tea.Msg {
		url, err := gen.GenerateSceneBackground(ctx, prompt)
		return bgGeneratedMsg{sceneID: sceneID, url: url, err: err}
	}
}

func (m *model) generateDialogueCmd(sceneID, name, prompt string, cast []novel.Character) tea.Cmd {
	gen, ctx := m.gen, m.ctx
	return func() tea.Msg {
		lines, err := gen.GenerateSceneDialogue(ctx, name, prompt, cast)
		return dialogueGeneratedMsg{sceneID: sceneID, lines: lines, err: err}
	}
}

// save persists the document; failures only touch the status line.
func (m *model) save() {
	if m.repo == nil {
		m.fail("no database configured")
		return
	}
	if err := m.repo.Save(m.ctx, m.doc); err != nil {
		m.fail("save failed: %v", err)
		return
	}
	m.info("project saved")
}

// reset clears storage and re-seeds the template.
func (m *model) reset() {
	if m.repo != nil {
		if err := m.repo.Clear(m.ctx); err != nil {
			m.fail("reset failed: %v", err)
			return
		}
	}
	m.replace(novel.NewTemplate())
	m.selectedSceneID = m.doc.StartSceneID
	m.sceneIndex = 0
	m.player.Restart(&m.doc)
	m.playLine = 0
	m.view = viewScenes
	m.info("reset to the starter story")
}

func (m *model) enterPlay() {
	m.player.Restart(&m.doc)
	m.playLine = 0
	m.view = viewPlay
	m.renderPlayScene()
}

// Update ---------------------------------------------------------------------

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.view == viewPlay {
			m.renderPlayScene()
		}
		return m, nil

	case storyGeneratedMsg:
		m.generatingStory = false
		if msg.err != nil {
			m.fail("%v", msg.err)
			return m, nil
		}
		m.replace(msg.doc)
		m.selectedSceneID = m.doc.StartSceneID
		m.sceneIndex = 0
		m.player = engine.NewPlayer(&m.doc)
		m.playLine = 0
		m.info("story generated: %s", m.doc.Title)
		return m, nil

	case bgGeneratedMsg:
		m.generatingBg = false
		if msg.err != nil {
			m.fail("%v", msg.err)
			return m, nil
		}
		// scene may have been deleted while the request was in flight
		if m.doc.SceneByID(msg.sceneID) == nil {
			m.info("scene gone; generated background dropped")
			return m, nil
		}
		m.replace(engine.SetSceneBackground(m.doc, msg.sceneID, msg.url))
		m.info("background updated")
		return m, nil

	case dialogueGeneratedMsg:
		m.generatingDialogue = false
		if msg.err != nil {
			m.fail("%v", msg.err)
			return m, nil
		}
		if m.doc.SceneByID(msg.sceneID) == nil {
			m.info("scene gone; generated dialogue dropped")
			return m, nil
		}
		doc, err := engine.SetSceneDialogue(m.doc, msg.sceneID, msg.lines)
		if err != nil {
			m.fail("%v", err)
			return m, nil
		}
		m.replace(doc)
		m.clampSceneCursor()
		m.info("dialogue replaced (%d lines)", len(msg.lines))
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := msg.String()

	if m.inputActive {
		return m.handleInputKey(k)
	}

	if m.pendingConfirm != "" {
		m.resolveConfirm(k == "y")
		return m, nil
	}

	// global keys
	switch k {
	case "ctrl+c":
		return m, tea.Quit
	case "q":
		if m.view == viewMainMenu {
			m.save()
			return m, tea.Quit
		}
	case "?":
		if m.view == viewHelp {
			m.view = viewScenes
		} else {
			m.view = viewHelp
		}
		return m, nil
	case "T":
		m.theme = nextThemeName(m.theme, 1)
		if m.settings != nil {
			if err := m.settings.Set(m.ctx, "theme", m.theme); err != nil {
				m.fail("theme not saved: %v", err)
			}
		}
		return m, nil
	}

	switch m.view {
	case viewMainMenu:
		return m.handleMenuKey(k)
	case viewScenes:
		return m.handleScenesKey(k)
	case viewScene:
		return m.handleSceneKey(k)
	case viewCharacters:
		return m.handleCharactersKey(k)
	case viewPlay:
		return m.handlePlayKey(k)
	case viewHelp:
		if k == "esc" || k == "q" {
			m.view = viewScenes
		}
	}
	return m, nil
}

func (m model) handleMenuKey(k string) (tea.Model, tea.Cmd) {
	switch k {
	case "1", "e":
		m.view = viewScenes
	case "2", "p":
		m.enterPlay()
	case "3", "g":
		return m.beginStoryInput()
	case "4":
		m.view = viewHelp
	}
	return m, nil
}

func (m model) handleScenesKey(k string) (tea.Model, tea.Cmd) {
	switch k {
	case "up", "k":
		if m.sceneIndex > 0 {
			m.sceneIndex--
		}
	case "down", "j":
		if m.sceneIndex < len(m.doc.Scenes)-1 {
			m.sceneIndex++
		}
	case "enter":
		if m.sceneIndex < len(m.doc.Scenes) {
			m.selectedSceneID = m.doc.Scenes[m.sceneIndex].ID
			m.sceneCursor = 0
			m.view = viewScene
		}
	case "n":
		doc, id := engine.AddScene(m.doc)
		m.replace(doc)
		m.selectedSceneID = id
		m.sceneIndex = len(m.doc.Scenes) - 1
		m.info("scene added")
	case "d":
		if m.sceneIndex < len(m.doc.Scenes) {
			id := m.doc.Scenes[m.sceneIndex].ID
			if id == m.doc.StartSceneID {
				m.fail("%v", engine.ErrStartScene)
			} else {
				m.pendingConfirm = "scene:" + id
				m.info("delete scene %q? press y to confirm", m.doc.Scenes[m.sceneIndex].Name)
			}
		}
	case "s":
		if m.sceneIndex < len(m.doc.Scenes) {
			doc, err := engine.SetStartScene(m.doc, m.doc.Scenes[m.sceneIndex].ID)
			if err != nil {
				m.fail("%v", err)
			} else {
				m.replace(doc)
				m.info("start scene set")
			}
		}
	case "t":
		return m.beginInput("Title", inputTarget{kind: "title"}, m.doc.Title)
	case "c":
		m.view = viewCharacters
	case "p":
		m.enterPlay()
	case "g":
		return m.beginStoryInput()
	case "w":
		m.save()
	case "R":
		m.pendingConfirm = "reset"
		m.info("reset everything to the starter story? press y to confirm")
	case "esc", "m":
		m.view = viewMainMenu
	}
	return m, nil
}

func (m model) handleSceneKey(k string) (tea.Model, tea.Cmd) {
	s := m.doc.SceneByID(m.selectedSceneID)
	if s == nil {
		m.view = viewScenes
		return m, nil
	}
	rows := m.sceneRows()
	var cur sceneRow
	if m.sceneCursor < len(rows) {
		cur = rows[m.sceneCursor]
	}

	switch k {
	case "up", "k":
		if m.sceneCursor > 0 {
			m.sceneCursor--
		}
	case "down", "j":
		if m.sceneCursor < len(rows)-1 {
			m.sceneCursor++
		}
	case "enter":
		return m.editCurrentRow(s, cur)
	case " ":
		if cur.kind == rowPresence {
			present := s.Present(cur.characterID)
			m.replace(engine.SetCharacterPresence(m.doc, s.ID, cur.characterID, !present))
		}
	case "s":
		if cur.kind == rowDialogue {
			m.replace(m.cycleSpeaker(s, cur.index))
		}
	case "t":
		if cur.kind == rowChoice {
			doc, err := m.cycleChoiceTarget(s, cur.index)
			if err != nil {
				m.fail("%v", err)
			} else {
				m.replace(doc)
			}
		}
	case "a":
		m.replace(engine.AddDialogueLine(m.doc, s.ID))
	case "o":
		doc, err := engine.AddChoice(m.doc, s.ID)
		if err != nil {
			m.fail("%v", err)
		} else {
			m.replace(doc)
		}
	case "x":
		switch cur.kind {
		case rowDialogue:
			doc, err := engine.DeleteDialogueLine(m.doc, s.ID, cur.index)
			if err != nil {
				m.fail("%v", err)
			} else {
				m.replace(doc)
				m.clampSceneCursor()
			}
		case rowChoice:
			m.replace(engine.DeleteChoice(m.doc, s.ID, cur.index))
			m.clampSceneCursor()
		}
	case "b":
		return m.beginGenerateBg(s)
	case "v":
		return m.beginGenerateDialogue(s)
	case "i":
		return m.beginInput("Background image file", inputTarget{kind: "bg-image-path", sceneID: s.ID}, "")
	case "esc":
		m.view = viewScenes
	}
	return m, nil
}

func (m model) handleCharactersKey(k string) (tea.Model, tea.Cmd) {
	switch k {
	case "up", "k":
		if m.charIndex > 0 {
			m.charIndex--
		}
	case "down", "j":
		if m.charIndex < len(m.doc.Characters)-1 {
			m.charIndex++
		}
	case "n":
		doc, _ := engine.AddCharacter(m.doc)
		m.replace(doc)
		m.charIndex = len(m.doc.Characters) - 1
		m.info("character added")
	case "d":
		if m.charIndex < len(m.doc.Characters) {
			c := m.doc.Characters[m.charIndex]
			m.pendingConfirm = "char:" + c.ID
			m.info("delete character %q? press y to confirm", c.Name)
		}
	case "enter":
		if m.charIndex < len(m.doc.Characters) {
			c := m.doc.Characters[m.charIndex]
			return m.beginInput("Name", inputTarget{kind: "char-name", charID: c.ID}, c.Name)
		}
	case "i":
		if m.charIndex < len(m.doc.Characters) {
			c := m.doc.Characters[m.charIndex]
			return m.beginInput("Portrait image file", inputTarget{kind: "char-image-path", charID: c.ID}, "")
		}
	case "esc", "q":
		m.view = viewScenes
	}
	return m, nil
}

func (m model) handlePlayKey(k string) (tea.Model, tea.Cmd) {
	v, ok := m.player.Current(&m.doc)
	if !ok {
		m.player.Restart(&m.doc)
		m.playLine = 0
		m.renderPlayScene()
		return m, nil
	}
	switch k {
	case "enter", " ":
		if m.playLine < len(v.Scene.Dialogue)-1 {
			m.playLine++
			m.renderPlayScene()
		}
	case "r":
		m.player.Restart(&m.doc)
		m.playLine = 0
		m.renderPlayScene()
	case "esc", "q":
		m.view = viewScenes
	default:
		if len(k) == 1 && k[0] >= '1' && k[0] <= '9' && m.playLine >= len(v.Scene.Dialogue)-1 {
			idx := int(k[0] - '1')
			if idx < len(v.Scene.Choices) {
				m.player.Advance(&m.doc, idx)
				m.playLine = 0
				m.renderPlayScene()
			}
		}
	}
	return m, nil
}

// Confirmations --------------------------------------------------------------

func (m *model) resolveConfirm(yes bool) {
	pending := m.pendingConfirm
	m.pendingConfirm = ""
	if !yes {
		m.info("cancelled")
		return
	}
	switch {
	case pending == "reset":
		m.reset()
	case strings.HasPrefix(pending, "scene:"):
		doc, err := engine.DeleteScene(m.doc, strings.TrimPrefix(pending, "scene:"))
		if err != nil {
			m.fail("%v", err)
			return
		}
		m.replace(doc)
		m.info("scene deleted")
	case strings.HasPrefix(pending, "char:"):
		m.replace(engine.DeleteCharacter(m.doc, strings.TrimPrefix(pending, "char:")))
		if m.charIndex >= len(m.doc.Characters) {
			m.charIndex = len(m.doc.Characters) - 1
		}
		if m.charIndex < 0 {
			m.charIndex = 0
		}
		m.info("character deleted")
	}
}

// Generation entry points ----------------------------------------------------

func (m model) beginStoryInput() (tea.Model, tea.Cmd) {
	if m.gen == nil {
		m.fail("generation unavailable: no API key configured")
		return m, nil
	}
	if m.generatingStory {
		m.fail("a story generation is already running")
		return m, nil
	}
	return m.beginInput("Story theme", inputTarget{kind: "theme"}, "")
}

func (m model) beginGenerateBg(s *novel.Scene) (tea.Model, tea.Cmd) {
	if m.gen == nil {
		m.fail("generation unavailable: no API key configured")
		return m, nil
	}
	if m.generatingBg {
		m.fail("a background generation is already running")
		return m, nil
	}
	if strings.TrimSpace(s.Prompt) == "" {
		m.fail("set a scene prompt first")
		return m, nil
	}
	m.generatingBg = true
	m.info("generating background...")
	return m, m.generateBgCmd(s.ID, s.Prompt)
}

func (m model) beginGenerateDialogue(s *novel.Scene) (tea.Model, tea.Cmd) {
	if m.gen == nil {
		m.fail("generation unavailable: no API key configured")
		return m, nil
	}
	if m.generatingDialogue {
		m.fail("a dialogue generation is already running")
		return m, nil
	}
	if strings.TrimSpace(s.Prompt) == "" {
		m.fail("set a scene prompt first")
		return m, nil
	}
	cast := make([]novel.Character, 0, len(s.PresentCharacterIDs))
	for _, id := range s.PresentCharacterIDs {
		if c := m.doc.CharacterByID(id); c != nil {
			cast = append(cast, *c)
		}
	}
	m.generatingDialogue = true
	m.info("generating dialogue...")
	return m, m.generateDialogueCmd(s.ID, s.Name, s.Prompt, cast)
}

// Text input -----------------------------------------------------------------

func (m model) beginInput(label string, target inputTarget, initial string) (tea.Model, tea.Cmd) {
	m.inputActive = true
	m.inputLabel = label
	m.inputTarget = target
	m.inputBuffer = initial
	return m, nil
}

func (m model) handleInputKey(k string) (tea.Model, tea.Cmd) {
	switch k {
	case "esc":
		m.inputActive = false
		m.inputBuffer = ""
	case "enter":
		m.inputActive = false
		return m.commitInput()
	case "backspace":
		if len(m.inputBuffer) > 0 {
			m.inputBuffer = m.inputBuffer[:len(m.inputBuffer)-1]
		}
	case " ":
		m.inputBuffer += " "
	default:
		if len(k) == 1 {
			m.inputBuffer += k
		}
	}
	return m, nil
}

func (m model) commitInput() (tea.Model, tea.Cmd) {
	value := m.inputBuffer
	m.inputBuffer = ""
	t := m.inputTarget
	switch t.kind {
	case "title":
		doc := m.doc.Clone()
		doc.Title = value
		m.replace(doc)
	case "theme":
		if strings.TrimSpace(value) == "" {
			return m, nil
		}
		m.generatingStory = true
		m.info("generating story...")
		return m, m.generateStoryCmd(value)
	case "scene-name":
		m.replace(engine.RenameScene(m.doc, t.sceneID, value))
	case "scene-bg":
		m.replace(engine.SetSceneBackground(m.doc, t.sceneID, value))
	case "scene-prompt":
		m.replace(engine.SetScenePrompt(m.doc, t.sceneID, value))
	case "dialogue-text":
		m.replace(engine.SetDialogueText(m.doc, t.sceneID, t.index, value))
	case "choice-text":
		m.replace(engine.SetChoiceText(m.doc, t.sceneID, t.index, value))
	case "char-name":
		m.replace(engine.RenameCharacter(m.doc, t.charID, value))
	case "char-image-path":
		url, err := util.ImportImage(strings.TrimSpace(value))
		if err != nil {
			m.fail("import failed: %v", err)
			return m, nil
		}
		m.replace(engine.SetCharacterImage(m.doc, t.charID, url))
		m.info("portrait imported")
	case "bg-image-path":
		url, err := util.ImportImage(strings.TrimSpace(value))
		if err != nil {
			m.fail("import failed: %v", err)
			return m, nil
		}
		m.replace(engine.SetSceneBackground(m.doc, t.sceneID, url))
		m.info("background imported")
	}
	return m, nil
}

func (m model) editCurrentRow(s *novel.Scene, cur sceneRow) (tea.Model, tea.Cmd) {
	switch cur.kind {
	case rowName:
		return m.beginInput("Scene name", inputTarget{kind: "scene-name", sceneID: s.ID}, s.Name)
	case rowBackground:
		return m.beginInput("Background URL", inputTarget{kind: "scene-bg", sceneID: s.ID}, s.BackgroundURL)
	case rowPrompt:
		return m.beginInput("Scene prompt", inputTarget{kind: "scene-prompt", sceneID: s.ID}, s.Prompt)
	case rowDialogue:
		return m.beginInput("Line text", inputTarget{kind: "dialogue-text", sceneID: s.ID, index: cur.index}, s.Dialogue[cur.index].Text)
	case rowChoice:
		return m.beginInput("Choice text", inputTarget{kind: "choice-text", sceneID: s.ID, index: cur.index}, s.Choices[cur.index].Text)
	case rowPresence:
		present := s.Present(cur.characterID)
		m.replace(engine.SetCharacterPresence(m.doc, s.ID, cur.characterID, !present))
	}
	return m, nil
}

// cycleSpeaker steps a dialogue line through narrator and each present
// character of the scene.
func (m *model) cycleSpeaker(s *novel.Scene, index int) novel.Novel {
	order := append([]string{""}, s.PresentCharacterIDs...)
	cur := ""
	if s.Dialogue[index].CharacterID != nil {
		cur = *s.Dialogue[index].CharacterID
	}
	next := order[0]
	for i, id := range order {
		if id == cur {
			next = order[(i+1)%len(order)]
			break
		}
	}
	return engine.SetDialogueSpeaker(m.doc, s.ID, index, next)
}

// cycleChoiceTarget steps a choice through every other scene.
func (m *model) cycleChoiceTarget(s *novel.Scene, index int) (novel.Novel, error) {
	var others []string
	for _, sc := range m.doc.Scenes {
		if sc.ID != s.ID {
			others = append(others, sc.ID)
		}
	}
	if len(others) == 0 {
		return m.doc, engine.ErrNoLinkTarget
	}
	cur := s.Choices[index].NextSceneID
	next := others[0]
	for i, id := range others {
		if id == cur {
			next = others[(i+1)%len(others)]
			break
		}
	}
	return engine.SetChoiceTarget(m.doc, s.ID, index, next)
}

// View dispatch; the rendering lives in views.go.
func (m model) View() string {
	var body string
	switch m.view {
	case viewMainMenu:
		body = m.renderMainMenu()
	case viewScenes:
		body = m.renderScenes()
	case viewScene:
		body = m.renderSceneDetail()
	case viewCharacters:
		body = m.renderCharacters()
	case viewPlay:
		body = m.renderPlay()
	case viewHelp:
		body = m.renderHelp()
	default:
		body = ""
	}
	return lipgloss.JoinVertical(lipgloss.Left, body, m.renderStatusBar())
}

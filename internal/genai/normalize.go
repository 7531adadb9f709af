package genai

import (
	"encoding/json"
	"strings"

	"github.com/pkg/errors"

	"github.com/mvdwetering/noveltui/internal/novel"
)

// looseScene tolerates a producer that omits or mangles nested fields.
// Dialogue stays raw so a missing or non-array value can be coerced
// instead of failing the whole document.
type looseScene struct {
	ID                  string          `json:"id"`
	Name                string          `json:"name"`
	BackgroundURL       string          `json:"backgroundUrl"`
	PresentCharacterIDs []string        `json:"presentCharacterIds"`
	Dialogue            json.RawMessage `json:"dialogue"`
	Choices             []novel.Choice  `json:"choices"`
	Prompt              string          `json:"aiPrompt"`
}

type looseNovel struct {
	Title        string            `json:"title"`
	StartSceneID string            `json:"startSceneId"`
	Characters   []novel.Character `json:"characters"`
	Scenes       []looseScene      `json:"scenes"`
}

// stripCodeFence drops a markdown code fence wrapper if the producer
// added one despite being told not to.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	lines := strings.Split(s, "\n")
	if len(lines) > 0 {
		lines = lines[1:]
	}
	if len(lines) > 0 && strings.HasPrefix(strings.TrimSpace(lines[len(lines)-1]), "```") {
		lines = lines[:len(lines)-1]
	}
	return strings.Join(lines, "\n")
}

// parseStory decodes and normalizes an untrusted story response. The
// result either passes the full document validation or an error is
// returned with the first violations attached; the caller never merges
// a partially-valid document.
func parseStory(raw string) (novel.Novel, error) {
	var loose looseNovel
	if err := json.Unmarshal([]byte(stripCodeFence(raw)), &loose); err != nil {
		return novel.Novel{}, errors.Wrap(err, "story response is not valid JSON")
	}
	if loose.Title == "" || loose.StartSceneID == "" || len(loose.Characters) == 0 || len(loose.Scenes) == 0 {
		return novel.Novel{}, errors.New("story response is missing required fields")
	}

	doc := novel.Novel{
		Title:        loose.Title,
		StartSceneID: loose.StartSceneID,
		Characters:   loose.Characters,
	}
	for _, ls := range loose.Scenes {
		s := novel.Scene{
			ID:                  ls.ID,
			Name:                ls.Name,
			BackgroundURL:       ls.BackgroundURL,
			PresentCharacterIDs: ls.PresentCharacterIDs,
			Choices:             ls.Choices,
			Prompt:              ls.Prompt,
		}
		if s.PresentCharacterIDs == nil {
			s.PresentCharacterIDs = []string{}
		}
		if s.Choices == nil {
			s.Choices = []novel.Choice{}
		}
		s.Dialogue = coerceDialogue(ls.Dialogue)
		doc.Scenes = append(doc.Scenes, s)
	}

	if vs := doc.Validate(); len(vs) != 0 {
		return novel.Novel{}, errors.Errorf("story response violates the document schema: %s", vs[0])
	}
	return doc, nil
}

// coerceDialogue turns a raw dialogue value into a non-empty line
// sequence: missing or non-array input becomes a single narrator
// placeholder, and a missing characterId is already a narrator line
// under the pointer encoding.
func coerceDialogue(raw json.RawMessage) []novel.DialogueLine {
	placeholder := []novel.DialogueLine{novel.Narrator("...")}
	if len(raw) == 0 {
		return placeholder
	}
	var lines []novel.DialogueLine
	if err := json.Unmarshal(raw, &lines); err != nil || len(lines) == 0 {
		return placeholder
	}
	return lines
}

// parseDialogue decodes an untrusted dialogue response and clamps it to
// the present-character roster: unknown speakers become the narrator.
// At most five lines are kept.
func parseDialogue(raw string, cast []novel.Character) ([]novel.DialogueLine, error) {
	var lines []novel.DialogueLine
	if err := json.Unmarshal([]byte(stripCodeFence(raw)), &lines); err != nil {
		return nil, errors.Wrap(err, "dialogue response is not a valid JSON array")
	}
	if len(lines) == 0 {
		return nil, errors.New("dialogue response is empty")
	}
	known := make(map[string]bool, len(cast))
	for _, c := range cast {
		known[c.ID] = true
	}
	out := make([]novel.DialogueLine, 0, len(lines))
	for _, l := range lines {
		if l.CharacterID != nil && !known[*l.CharacterID] {
			l.CharacterID = nil
		}
		out = append(out, l)
	}
	if len(out) > 5 {
		out = out[:5]
	}
	return out, nil
}

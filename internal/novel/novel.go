package novel

import (
	"strings"

	"github.com/google/uuid"
)

// Character is owned by the Novel and referenced by id from scenes and
// dialogue lines. ImageURL may be a plain URL or a data URL; empty means
// no portrait yet.
type Character struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	ImageURL string `json:"imageUrl"`
}

// DialogueLine is one utterance. A nil CharacterID is a narrator line.
type DialogueLine struct {
	CharacterID *string `json:"characterId"`
	Text        string  `json:"text"`
}

// Choice is a labeled edge to another scene. NextSceneID must resolve
// while the choice exists; deleting the target removes the choice.
type Choice struct {
	Text        string `json:"text"`
	NextSceneID string `json:"nextSceneId"`
}

// Scene is a node in the story graph. A scene with no choices is an
// ending. Dialogue is never empty; every attributed line's character id
// is in PresentCharacterIDs.
type Scene struct {
	ID                  string         `json:"id"`
	Name                string         `json:"name"`
	BackgroundURL       string         `json:"backgroundUrl"`
	PresentCharacterIDs []string       `json:"presentCharacterIds"`
	Dialogue            []DialogueLine `json:"dialogue"`
	Choices             []Choice       `json:"choices"`
	Prompt              string         `json:"aiPrompt,omitempty"`
}

// Novel is the whole document: the unit of persistence and of
// wholesale replacement by generated content.
type Novel struct {
	Title        string      `json:"title"`
	StartSceneID string      `json:"startSceneId"`
	Characters   []Character `json:"characters"`
	Scenes       []Scene     `json:"scenes"`
}

// NewID returns a fresh collision-resistant id. Prefix keeps generated
// documents human-readable ("char_", "scene_").
func NewID(prefix string) string {
	return prefix + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}

// Narrator returns a narrator-attributed copy of the line text.
func Narrator(text string) DialogueLine {
	return DialogueLine{CharacterID: nil, Text: text}
}

// Attributed returns a line spoken by the given character.
func Attributed(characterID, text string) DialogueLine {
	id := characterID
	return DialogueLine{CharacterID: &id, Text: text}
}

// SceneByID returns a pointer into the novel's scene slice, or nil.
func (n *Novel) SceneByID(id string) *Scene {
	for i := range n.Scenes {
		if n.Scenes[i].ID == id {
			return &n.Scenes[i]
		}
	}
	return nil
}

// CharacterByID returns a pointer into the character slice, or nil.
func (n *Novel) CharacterByID(id string) *Character {
	for i := range n.Characters {
		if n.Characters[i].ID == id {
			return &n.Characters[i]
		}
	}
	return nil
}

// Present reports whether characterID is in the scene's presence set.
func (s *Scene) Present(characterID string) bool {
	for _, id := range s.PresentCharacterIDs {
		if id == characterID {
			return true
		}
	}
	return false
}

// Clone deep-copies the novel. Engine operations clone first and mutate
// the copy so a failed operation never aliases into the live document.
func (n Novel) Clone() Novel {
	out := Novel{
		Title:        n.Title,
		StartSceneID: n.StartSceneID,
		Characters:   make([]Character, len(n.Characters)),
		Scenes:       make([]Scene, len(n.Scenes)),
	}
	copy(out.Characters, n.Characters)
	for i, s := range n.Scenes {
		cs := s
		cs.PresentCharacterIDs = append([]string(nil), s.PresentCharacterIDs...)
		cs.Dialogue = make([]DialogueLine, len(s.Dialogue))
		for j, d := range s.Dialogue {
			if d.CharacterID != nil {
				id := *d.CharacterID
				d.CharacterID = &id
			}
			cs.Dialogue[j] = d
		}
		cs.Choices = append([]Choice(nil), s.Choices...)
		out.Scenes[i] = cs
	}
	return out
}

package engine

import (
	"errors"

	"github.com/mvdwetering/noveltui/internal/novel"
)

// Rejection sentinels. Each leaves the document untouched; the UI turns
// them into status-line messages.
var (
	ErrStartScene       = errors.New("the start scene cannot be deleted")
	ErrLastDialogueLine = errors.New("a scene must keep at least one dialogue line")
	ErrNoLinkTarget     = errors.New("create another scene before adding a choice")
	ErrUnknownScene     = errors.New("no such scene")
)

// Every operation below clones the document, mutates the clone and
// returns it, so callers replace their document wholesale on success and
// keep the previous one on rejection. Deletions cascade in the same
// step: the primary entity goes, then every dangling back-reference is
// repaired before the new document is returned.

// AddCharacter appends a placeholder character and returns its id.
func AddCharacter(doc novel.Novel) (novel.Novel, string) {
	out := doc.Clone()
	id := novel.NewID("char_")
	out.Characters = append(out.Characters, novel.Character{ID: id, Name: "New Character"})
	return out, id
}

// RenameCharacter updates the name; unknown id is a no-op.
func RenameCharacter(doc novel.Novel, id, name string) novel.Novel {
	out := doc.Clone()
	if c := out.CharacterByID(id); c != nil {
		c.Name = name
	}
	return out
}

// SetCharacterImage updates the portrait URL; unknown id is a no-op.
func SetCharacterImage(doc novel.Novel, id, url string) novel.Novel {
	out := doc.Clone()
	if c := out.CharacterByID(id); c != nil {
		c.ImageURL = url
	}
	return out
}

// DeleteCharacter removes the character, drops it from every presence
// set and reattributes its dialogue lines to the narrator.
func DeleteCharacter(doc novel.Novel, id string) novel.Novel {
	out := doc.Clone()
	kept := out.Characters[:0]
	for _, c := range out.Characters {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	out.Characters = kept
	for i := range out.Scenes {
		s := &out.Scenes[i]
		present := s.PresentCharacterIDs[:0]
		for _, cid := range s.PresentCharacterIDs {
			if cid != id {
				present = append(present, cid)
			}
		}
		s.PresentCharacterIDs = present
		for j := range s.Dialogue {
			if s.Dialogue[j].CharacterID != nil && *s.Dialogue[j].CharacterID == id {
				s.Dialogue[j].CharacterID = nil
			}
		}
	}
	return out
}

// AddScene appends a scene with one narrator placeholder line and
// returns its id so the editor can select it.
func AddScene(doc novel.Novel) (novel.Novel, string) {
	out := doc.Clone()
	id := novel.NewID("scene_")
	out.Scenes = append(out.Scenes, novel.Scene{
		ID:                  id,
		Name:                "New Scene",
		PresentCharacterIDs: []string{},
		Dialogue:            []novel.DialogueLine{novel.Narrator("New dialogue...")},
		Choices:             []novel.Choice{},
	})
	return out, id
}

// DeleteScene removes the scene and strips every choice that targeted
// it. Deleting the start scene is rejected.
func DeleteScene(doc novel.Novel, id string) (novel.Novel, error) {
	if id == doc.StartSceneID {
		return doc, ErrStartScene
	}
	out := doc.Clone()
	kept := out.Scenes[:0]
	for _, s := range out.Scenes {
		if s.ID != id {
			kept = append(kept, s)
		}
	}
	out.Scenes = kept
	for i := range out.Scenes {
		s := &out.Scenes[i]
		choices := s.Choices[:0]
		for _, c := range s.Choices {
			if c.NextSceneID != id {
				choices = append(choices, c)
			}
		}
		s.Choices = choices
	}
	return out, nil
}

// RenameScene updates the scene name; unknown id is a no-op.
func RenameScene(doc novel.Novel, id, name string) novel.Novel {
	out := doc.Clone()
	if s := out.SceneByID(id); s != nil {
		s.Name = name
	}
	return out
}

// SetSceneBackground updates the background URL; unknown id is a no-op.
func SetSceneBackground(doc novel.Novel, id, url string) novel.Novel {
	out := doc.Clone()
	if s := out.SceneByID(id); s != nil {
		s.BackgroundURL = url
	}
	return out
}

// SetScenePrompt updates the generation prompt; unknown id is a no-op.
func SetScenePrompt(doc novel.Novel, id, prompt string) novel.Novel {
	out := doc.Clone()
	if s := out.SceneByID(id); s != nil {
		s.Prompt = prompt
	}
	return out
}

// SetCharacterPresence adds or removes a character from a scene's cast.
// Removing also reattributes that character's lines in the scene to the
// narrator, keeping attribution inside the presence set.
func SetCharacterPresence(doc novel.Novel, sceneID, characterID string, present bool) novel.Novel {
	out := doc.Clone()
	s := out.SceneByID(sceneID)
	if s == nil {
		return out
	}
	if present {
		if !s.Present(characterID) {
			s.PresentCharacterIDs = append(s.PresentCharacterIDs, characterID)
		}
		return out
	}
	ids := s.PresentCharacterIDs[:0]
	for _, id := range s.PresentCharacterIDs {
		if id != characterID {
			ids = append(ids, id)
		}
	}
	s.PresentCharacterIDs = ids
	for i := range s.Dialogue {
		if s.Dialogue[i].CharacterID != nil && *s.Dialogue[i].CharacterID == characterID {
			s.Dialogue[i].CharacterID = nil
		}
	}
	return out
}

// AddDialogueLine appends an empty narrator line.
func AddDialogueLine(doc novel.Novel, sceneID string) novel.Novel {
	out := doc.Clone()
	if s := out.SceneByID(sceneID); s != nil {
		s.Dialogue = append(s.Dialogue, novel.Narrator(""))
	}
	return out
}

// SetDialogueSpeaker attributes the line at index to characterID, or to
// the narrator when characterID is empty. Out-of-range index is a no-op.
func SetDialogueSpeaker(doc novel.Novel, sceneID string, index int, characterID string) novel.Novel {
	out := doc.Clone()
	s := out.SceneByID(sceneID)
	if s == nil || index < 0 || index >= len(s.Dialogue) {
		return out
	}
	if characterID == "" {
		s.Dialogue[index].CharacterID = nil
	} else {
		id := characterID
		s.Dialogue[index].CharacterID = &id
	}
	return out
}

// SetDialogueText replaces the line text at index; out-of-range is a no-op.
func SetDialogueText(doc novel.Novel, sceneID string, index int, text string) novel.Novel {
	out := doc.Clone()
	s := out.SceneByID(sceneID)
	if s == nil || index < 0 || index >= len(s.Dialogue) {
		return out
	}
	s.Dialogue[index].Text = text
	return out
}

// DeleteDialogueLine removes the line at index. Removing a scene's last
// line is rejected.
func DeleteDialogueLine(doc novel.Novel, sceneID string, index int) (novel.Novel, error) {
	s := doc.SceneByID(sceneID)
	if s == nil || index < 0 || index >= len(s.Dialogue) {
		return doc, nil
	}
	if len(s.Dialogue) == 1 {
		return doc, ErrLastDialogueLine
	}
	out := doc.Clone()
	cs := out.SceneByID(sceneID)
	cs.Dialogue = append(cs.Dialogue[:index], cs.Dialogue[index+1:]...)
	return out, nil
}

// AddChoice appends a choice pointing at the first other scene. With no
// other scene to link to, the operation is rejected.
func AddChoice(doc novel.Novel, sceneID string) (novel.Novel, error) {
	var target string
	for _, s := range doc.Scenes {
		if s.ID != sceneID {
			target = s.ID
			break
		}
	}
	if target == "" {
		return doc, ErrNoLinkTarget
	}
	out := doc.Clone()
	if s := out.SceneByID(sceneID); s != nil {
		s.Choices = append(s.Choices, novel.Choice{Text: "New choice", NextSceneID: target})
	}
	return out, nil
}

// SetChoiceText replaces the label of the choice at index.
func SetChoiceText(doc novel.Novel, sceneID string, index int, text string) novel.Novel {
	out := doc.Clone()
	s := out.SceneByID(sceneID)
	if s == nil || index < 0 || index >= len(s.Choices) {
		return out
	}
	s.Choices[index].Text = text
	return out
}

// SetChoiceTarget repoints the choice at index to nextSceneID. Unknown
// targets are rejected rather than left dangling.
func SetChoiceTarget(doc novel.Novel, sceneID string, index int, nextSceneID string) (novel.Novel, error) {
	if doc.SceneByID(nextSceneID) == nil {
		return doc, ErrUnknownScene
	}
	out := doc.Clone()
	s := out.SceneByID(sceneID)
	if s == nil || index < 0 || index >= len(s.Choices) {
		return out, nil
	}
	s.Choices[index].NextSceneID = nextSceneID
	return out, nil
}

// DeleteChoice removes the choice at index; out-of-range is a no-op.
func DeleteChoice(doc novel.Novel, sceneID string, index int) novel.Novel {
	out := doc.Clone()
	s := out.SceneByID(sceneID)
	if s == nil || index < 0 || index >= len(s.Choices) {
		return out
	}
	s.Choices = append(s.Choices[:index], s.Choices[index+1:]...)
	return out
}

// SetStartScene moves the entry point; unknown scenes are rejected.
func SetStartScene(doc novel.Novel, sceneID string) (novel.Novel, error) {
	if doc.SceneByID(sceneID) == nil {
		return doc, ErrUnknownScene
	}
	out := doc.Clone()
	out.StartSceneID = sceneID
	return out, nil
}

// SetSceneDialogue replaces a scene's whole dialogue sequence, used when
// a generated sequence lands. Empty sequences are rejected to keep the
// one-line minimum.
func SetSceneDialogue(doc novel.Novel, sceneID string, lines []novel.DialogueLine) (novel.Novel, error) {
	if len(lines) == 0 {
		return doc, ErrLastDialogueLine
	}
	out := doc.Clone()
	s := out.SceneByID(sceneID)
	if s == nil {
		return doc, ErrUnknownScene
	}
	s.Dialogue = append([]novel.DialogueLine(nil), lines...)
	return out, nil
}

package engine

import "github.com/mvdwetering/noveltui/internal/novel"

// Player walks the story graph during play mode. Its only state is the
// current scene id; restarting returns to the document's start scene.
type Player struct {
	CurrentSceneID string
}

// NewPlayer starts at the document's entry scene.
func NewPlayer(doc *novel.Novel) Player {
	return Player{CurrentSceneID: doc.StartSceneID}
}

// SceneView is the current scene plus its resolved cast, ready to render.
type SceneView struct {
	Scene *novel.Scene
	Cast  []novel.Character
}

// Terminal reports whether the scene has no outgoing choices.
func (v SceneView) Terminal() bool { return len(v.Scene.Choices) == 0 }

// Current resolves the active scene and its present characters. A
// current scene that no longer exists (deleted while playing) yields ok
// false; callers restart from the start scene.
func (p *Player) Current(doc *novel.Novel) (SceneView, bool) {
	s := doc.SceneByID(p.CurrentSceneID)
	if s == nil {
		return SceneView{}, false
	}
	cast := make([]novel.Character, 0, len(s.PresentCharacterIDs))
	for _, id := range s.PresentCharacterIDs {
		if c := doc.CharacterByID(id); c != nil {
			cast = append(cast, *c)
		}
	}
	return SceneView{Scene: s, Cast: cast}, true
}

// Advance follows the current scene's choice at index. Out-of-range
// indices and terminal scenes are no-ops.
func (p *Player) Advance(doc *novel.Novel, choiceIndex int) {
	s := doc.SceneByID(p.CurrentSceneID)
	if s == nil || choiceIndex < 0 || choiceIndex >= len(s.Choices) {
		return
	}
	p.CurrentSceneID = s.Choices[choiceIndex].NextSceneID
}

// Restart resets to the document's start scene.
func (p *Player) Restart(doc *novel.Novel) {
	p.CurrentSceneID = doc.StartSceneID
}

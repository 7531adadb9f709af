package engine

import (
	"testing"

	"github.com/mvdwetering/noveltui/internal/novel"
)

// threeSceneDoc builds A (start, choices to B and C), B and C terminal.
func threeSceneDoc() novel.Novel {
	return novel.Novel{
		Title:        "t",
		StartSceneID: "A",
		Characters: []novel.Character{
			{ID: "c1", Name: "One"},
			{ID: "c2", Name: "Two"},
		},
		Scenes: []novel.Scene{
			{
				ID: "A", Name: "start",
				PresentCharacterIDs: []string{"c1", "c2"},
				Dialogue: []novel.DialogueLine{
					novel.Attributed("c1", "hello"),
					novel.Attributed("c2", "hi"),
					novel.Narrator("they talk"),
				},
				Choices: []novel.Choice{
					{Text: "to B", NextSceneID: "B"},
					{Text: "to C", NextSceneID: "C"},
				},
			},
			{
				ID: "B", Name: "ending one",
				PresentCharacterIDs: []string{"c1"},
				Dialogue:            []novel.DialogueLine{novel.Attributed("c1", "bye")},
				Choices:             []novel.Choice{},
			},
			{
				ID: "C", Name: "ending two",
				PresentCharacterIDs: []string{},
				Dialogue:            []novel.DialogueLine{novel.Narrator("the end")},
				Choices:             []novel.Choice{},
			},
		},
	}
}

func mustValid(t *testing.T, doc novel.Novel) {
	t.Helper()
	if vs := doc.Validate(); len(vs) != 0 {
		t.Fatalf("document invalid after operation: %v", vs)
	}
}

func TestDeleteSceneCascadesChoices(t *testing.T) {
	doc := threeSceneDoc()
	out, err := DeleteScene(doc, "B")
	if err != nil {
		t.Fatalf("DeleteScene(B): %v", err)
	}
	if out.SceneByID("B") != nil {
		t.Fatal("scene B still present")
	}
	a := out.SceneByID("A")
	if len(a.Choices) != 1 || a.Choices[0].NextSceneID != "C" {
		t.Fatalf("choices not stripped, got %+v", a.Choices)
	}
	mustValid(t, out)
}

func TestDeleteStartSceneRejected(t *testing.T) {
	doc := threeSceneDoc()
	out, err := DeleteScene(doc, "A")
	if err != ErrStartScene {
		t.Fatalf("expected ErrStartScene, got %v", err)
	}
	if out.SceneByID("A") == nil || len(out.Scenes) != 3 {
		t.Fatal("document changed on rejected delete")
	}
}

func TestDeleteCharacterCascades(t *testing.T) {
	doc := threeSceneDoc()
	out := DeleteCharacter(doc, "c1")
	if out.CharacterByID("c1") != nil {
		t.Fatal("character still present")
	}
	for _, s := range out.Scenes {
		for _, id := range s.PresentCharacterIDs {
			if id == "c1" {
				t.Fatalf("scene %s still lists c1", s.ID)
			}
		}
		for i, d := range s.Dialogue {
			if d.CharacterID != nil && *d.CharacterID == "c1" {
				t.Fatalf("scene %s line %d still attributed to c1", s.ID, i)
			}
		}
	}
	// c1's lines became narrator lines, not deleted
	if got := len(out.SceneByID("B").Dialogue); got != 1 {
		t.Fatalf("dialogue lines dropped: %d", got)
	}
	mustValid(t, out)
}

func TestPresenceToggleReattributesDialogue(t *testing.T) {
	doc := threeSceneDoc()
	out := SetCharacterPresence(doc, "A", "c1", false)
	a := out.SceneByID("A")
	if a.Present("c1") {
		t.Fatal("c1 still present in A")
	}
	if a.Dialogue[0].CharacterID != nil {
		t.Fatal("c1's line not reattributed to narrator")
	}
	if a.Dialogue[1].CharacterID == nil || *a.Dialogue[1].CharacterID != "c2" {
		t.Fatal("c2's line disturbed")
	}
	// character itself survives, and other scenes are untouched
	if out.CharacterByID("c1") == nil || !out.SceneByID("B").Present("c1") {
		t.Fatal("presence toggle leaked outside the scene")
	}
	mustValid(t, out)
}

func TestPresenceToggleAddIsIdempotent(t *testing.T) {
	doc := threeSceneDoc()
	out := SetCharacterPresence(doc, "C", "c2", true)
	out = SetCharacterPresence(out, "C", "c2", true)
	if got := len(out.SceneByID("C").PresentCharacterIDs); got != 1 {
		t.Fatalf("presence set not unique: %d entries", got)
	}
	mustValid(t, out)
}

func TestDeleteLastDialogueLineRejected(t *testing.T) {
	doc := threeSceneDoc()
	out, err := DeleteDialogueLine(doc, "C", 0)
	if err != ErrLastDialogueLine {
		t.Fatalf("expected ErrLastDialogueLine, got %v", err)
	}
	if len(out.SceneByID("C").Dialogue) != 1 {
		t.Fatal("last line removed despite rejection")
	}

	out, err = DeleteDialogueLine(doc, "A", 2)
	if err != nil {
		t.Fatalf("DeleteDialogueLine: %v", err)
	}
	if len(out.SceneByID("A").Dialogue) != 2 {
		t.Fatal("line not removed")
	}
	mustValid(t, out)
}

func TestAddChoiceNeedsAnotherScene(t *testing.T) {
	doc := novel.Novel{
		Title:        "solo",
		StartSceneID: "only",
		Scenes: []novel.Scene{{
			ID: "only", Name: "only",
			PresentCharacterIDs: []string{},
			Dialogue:            []novel.DialogueLine{novel.Narrator("alone")},
			Choices:             []novel.Choice{},
		}},
	}
	if _, err := AddChoice(doc, "only"); err != ErrNoLinkTarget {
		t.Fatalf("expected ErrNoLinkTarget, got %v", err)
	}

	multi := threeSceneDoc()
	out, err := AddChoice(multi, "B")
	if err != nil {
		t.Fatalf("AddChoice: %v", err)
	}
	b := out.SceneByID("B")
	if len(b.Choices) != 1 || b.Choices[0].NextSceneID != "A" {
		t.Fatalf("choice not defaulted to first other scene: %+v", b.Choices)
	}
	mustValid(t, out)
}

func TestSetChoiceTargetRejectsUnknownScene(t *testing.T) {
	doc := threeSceneDoc()
	out, err := SetChoiceTarget(doc, "A", 0, "nowhere")
	if err != ErrUnknownScene {
		t.Fatalf("expected ErrUnknownScene, got %v", err)
	}
	if out.SceneByID("A").Choices[0].NextSceneID != "B" {
		t.Fatal("choice repointed despite rejection")
	}
}

func TestSetStartScene(t *testing.T) {
	doc := threeSceneDoc()
	out, err := SetStartScene(doc, "B")
	if err != nil || out.StartSceneID != "B" {
		t.Fatalf("SetStartScene(B): %v, start=%s", err, out.StartSceneID)
	}
	if _, err := SetStartScene(doc, "missing"); err != ErrUnknownScene {
		t.Fatalf("expected ErrUnknownScene, got %v", err)
	}
}

func TestOperationsDoNotAliasSource(t *testing.T) {
	doc := threeSceneDoc()
	out := DeleteCharacter(doc, "c1")
	_ = out
	if doc.CharacterByID("c1") == nil {
		t.Fatal("source document mutated")
	}
	if doc.SceneByID("A").Dialogue[0].CharacterID == nil {
		t.Fatal("source dialogue mutated")
	}
}

func TestDialogueEditsOutOfRangeAreNoOps(t *testing.T) {
	doc := threeSceneDoc()
	out := SetDialogueText(doc, "A", 99, "x")
	if out.SceneByID("A").Dialogue[0].Text != "hello" {
		t.Fatal("out-of-range edit changed text")
	}
	out = SetDialogueSpeaker(doc, "A", -1, "c2")
	mustValid(t, out)
}

// Invariant preservation across a longer operation sequence.
func TestOperationSequenceKeepsInvariants(t *testing.T) {
	doc := threeSceneDoc()
	var id string
	doc, id = AddScene(doc)
	doc, _ = AddChoice(doc, id)
	doc, _ = AddCharacter(doc)
	newChar := doc.Characters[len(doc.Characters)-1].ID
	doc = SetCharacterPresence(doc, id, newChar, true)
	doc = AddDialogueLine(doc, id)
	doc = SetDialogueSpeaker(doc, id, 1, newChar)
	doc = SetDialogueText(doc, id, 1, "spoken")
	mustValid(t, doc)

	doc = DeleteCharacter(doc, newChar)
	mustValid(t, doc)
	doc, err := DeleteScene(doc, id)
	if err != nil {
		t.Fatalf("DeleteScene: %v", err)
	}
	mustValid(t, doc)
}

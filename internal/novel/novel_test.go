package novel

import "testing"

func TestTemplateIsValid(t *testing.T) {
	n := NewTemplate()
	if vs := n.Validate(); len(vs) != 0 {
		t.Fatalf("template invalid: %v", vs)
	}
}

func TestValidateCatchesDanglingReferences(t *testing.T) {
	n := NewTemplate()
	n.Scenes[0].Choices = append(n.Scenes[0].Choices, Choice{Text: "x", NextSceneID: "nope"})
	if vs := n.Validate(); len(vs) == 0 {
		t.Fatal("expected violation for dangling choice target")
	}

	n = NewTemplate()
	n.Scenes[0].PresentCharacterIDs = []string{"ghost"}
	if vs := n.Validate(); len(vs) == 0 {
		t.Fatal("expected violation for unknown present character")
	}

	n = NewTemplate()
	n.StartSceneID = "missing"
	if vs := n.Validate(); len(vs) == 0 {
		t.Fatal("expected violation for unresolved start scene")
	}
}

func TestValidateCatchesAbsentSpeaker(t *testing.T) {
	n := NewTemplate()
	// char_hero exists in the document but is not present in scene_3a
	n.Scenes[2].Dialogue = append(n.Scenes[2].Dialogue, Attributed("char_hero", "hello?"))
	if vs := n.Validate(); len(vs) == 0 {
		t.Fatal("expected violation for dialogue by absent character")
	}
}

func TestValidateCatchesEmptyDialogue(t *testing.T) {
	n := NewTemplate()
	n.Scenes[4].Dialogue = nil
	if vs := n.Validate(); len(vs) == 0 {
		t.Fatal("expected violation for scene without dialogue")
	}
}

func TestValidateCatchesDuplicateIDs(t *testing.T) {
	n := NewTemplate()
	n.Characters = append(n.Characters, Character{ID: "char_hero", Name: "Impostor"})
	if vs := n.Validate(); len(vs) == 0 {
		t.Fatal("expected violation for duplicate character id")
	}
}

func TestCloneIsDeep(t *testing.T) {
	a := NewTemplate()
	b := a.Clone()
	b.Scenes[1].Dialogue[0].Text = "changed"
	*b.Scenes[1].Dialogue[0].CharacterID = "other"
	b.Scenes[0].Choices[0].NextSceneID = "elsewhere"
	b.Scenes[1].PresentCharacterIDs[0] = "swapped"
	b.Characters[0].Name = "renamed"

	orig := NewTemplate()
	if a.Scenes[1].Dialogue[0].Text != orig.Scenes[1].Dialogue[0].Text {
		t.Fatal("clone shares dialogue slice")
	}
	if *a.Scenes[1].Dialogue[0].CharacterID != *orig.Scenes[1].Dialogue[0].CharacterID {
		t.Fatal("clone shares characterId pointer")
	}
	if a.Scenes[0].Choices[0].NextSceneID != orig.Scenes[0].Choices[0].NextSceneID {
		t.Fatal("clone shares choices slice")
	}
	if a.Scenes[1].PresentCharacterIDs[0] != orig.Scenes[1].PresentCharacterIDs[0] {
		t.Fatal("clone shares presence slice")
	}
	if a.Characters[0].Name != orig.Characters[0].Name {
		t.Fatal("clone shares characters slice")
	}
}

func TestNewIDUnique(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 1000; i++ {
		id := NewID("scene_")
		if seen[id] {
			t.Fatalf("duplicate id generated: %s", id)
		}
		seen[id] = true
	}
}

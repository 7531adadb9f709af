package genai

import (
	"testing"

	"github.com/mvdwetering/noveltui/internal/novel"
)

const goodStory = `{
  "title": "Echoes",
  "startSceneId": "s1",
  "characters": [
    {"id": "c1", "name": "Mira", "imageUrl": ""},
    {"id": "c2", "name": "Jun", "imageUrl": ""}
  ],
  "scenes": [
    {"id": "s1", "name": "Dock", "backgroundUrl": "", "presentCharacterIds": ["c1"],
     "dialogue": [{"characterId": "c1", "text": "hey"}],
     "choices": [{"text": "go", "nextSceneId": "s2"}]},
    {"id": "s2", "name": "Sea", "backgroundUrl": "", "presentCharacterIds": [],
     "dialogue": [{"characterId": null, "text": "waves"}],
     "choices": []}
  ]
}`

func TestParseStoryAcceptsValidDocument(t *testing.T) {
	doc, err := parseStory(goodStory)
	if err != nil {
		t.Fatalf("parseStory: %v", err)
	}
	if doc.Title != "Echoes" || len(doc.Scenes) != 2 {
		t.Fatalf("unexpected document: %+v", doc)
	}
	if vs := doc.Validate(); len(vs) != 0 {
		t.Fatalf("accepted document invalid: %v", vs)
	}
}

func TestParseStoryStripsCodeFence(t *testing.T) {
	if _, err := parseStory("```json\n" + goodStory + "\n```"); err != nil {
		t.Fatalf("fenced story rejected: %v", err)
	}
}

func TestParseStoryCoercesMissingFields(t *testing.T) {
	raw := `{
  "title": "t", "startSceneId": "s1",
  "characters": [{"id": "c1", "name": "n", "imageUrl": ""}],
  "scenes": [
    {"id": "s1", "name": "a", "backgroundUrl": "", "dialogue": "nonsense", "choices": []},
    {"id": "s2", "name": "b", "backgroundUrl": "", "presentCharacterIds": [], "choices": []}
  ]
}`
	doc, err := parseStory(raw)
	if err != nil {
		t.Fatalf("parseStory: %v", err)
	}
	for _, s := range doc.Scenes {
		if s.PresentCharacterIDs == nil {
			t.Fatalf("scene %s: presence not coerced to empty set", s.ID)
		}
		if len(s.Dialogue) != 1 || s.Dialogue[0].CharacterID != nil || s.Dialogue[0].Text != "..." {
			t.Fatalf("scene %s: dialogue not coerced to narrator placeholder: %+v", s.ID, s.Dialogue)
		}
	}
}

func TestParseStoryRejectsMalformedJSON(t *testing.T) {
	if _, err := parseStory("this is not json"); err == nil {
		t.Fatal("malformed response accepted")
	}
}

func TestParseStoryRejectsMissingRequiredFields(t *testing.T) {
	if _, err := parseStory(`{"title": "t", "scenes": []}`); err == nil {
		t.Fatal("incomplete response accepted")
	}
}

func TestParseStoryRejectsDanglingChoice(t *testing.T) {
	raw := `{
  "title": "t", "startSceneId": "s1",
  "characters": [{"id": "c1", "name": "n", "imageUrl": ""}],
  "scenes": [
    {"id": "s1", "name": "a", "backgroundUrl": "", "presentCharacterIds": [],
     "dialogue": [{"characterId": null, "text": "x"}],
     "choices": [{"text": "go", "nextSceneId": "ghost"}]}
  ]
}`
	if _, err := parseStory(raw); err == nil {
		t.Fatal("document with dangling choice accepted")
	}
}

func TestParseDialogueClampsToRoster(t *testing.T) {
	cast := []novel.Character{{ID: "c1", Name: "Mira"}}
	raw := `[
  {"characterId": "c1", "text": "a"},
  {"characterId": "intruder", "text": "b"},
  {"text": "c"}
]`
	lines, err := parseDialogue(raw, cast)
	if err != nil {
		t.Fatalf("parseDialogue: %v", err)
	}
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0].CharacterID == nil || *lines[0].CharacterID != "c1" {
		t.Fatal("known speaker lost")
	}
	if lines[1].CharacterID != nil {
		t.Fatal("unknown speaker not clamped to narrator")
	}
	if lines[2].CharacterID != nil {
		t.Fatal("missing characterId not treated as narrator")
	}
}

func TestParseDialogueTruncatesToFive(t *testing.T) {
	raw := `[{"text":"1"},{"text":"2"},{"text":"3"},{"text":"4"},{"text":"5"},{"text":"6"}]`
	lines, err := parseDialogue(raw, nil)
	if err != nil {
		t.Fatalf("parseDialogue: %v", err)
	}
	if len(lines) != 5 {
		t.Fatalf("expected truncation to 5, got %d", len(lines))
	}
}

func TestParseDialogueRejectsNonArray(t *testing.T) {
	if _, err := parseDialogue(`{"characterId": null, "text": "x"}`, nil); err == nil {
		t.Fatal("non-array dialogue accepted")
	}
	if _, err := parseDialogue(`[]`, nil); err == nil {
		t.Fatal("empty dialogue accepted")
	}
}

func TestStripCodeFenceVariants(t *testing.T) {
	cases := []struct{ in, want string }{
		{"```json\n{}\n```", "{}"},
		{"```\n{}\n```", "{}"},
		{"{}", "{}"},
		{"  {}  ", "{}"},
	}
	for _, c := range cases {
		if got := stripCodeFence(c.in); got != c.want {
			t.Fatalf("stripCodeFence(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

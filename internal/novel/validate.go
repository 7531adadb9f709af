package novel

import "fmt"

// Violation is one broken structural invariant, with enough context to
// point an author (or a test) at the offending entity.
type Violation struct {
	Rule   string
	Detail string
}

func (v Violation) String() string { return v.Rule + ": " + v.Detail }

func violate(list []Violation, rule, format string, args ...any) []Violation {
	return append(list, Violation{Rule: rule, Detail: fmt.Sprintf(format, args...)})
}

// Validate checks every structural invariant and returns the full list
// of violations. A valid document returns nil. Used after ingesting
// generated content, where the producer is untrusted, and by tests to
// assert invariant preservation across engine operations.
func (n *Novel) Validate() []Violation {
	var out []Violation

	chars := make(map[string]bool, len(n.Characters))
	for _, c := range n.Characters {
		if c.ID == "" {
			out = violate(out, "character-id", "character %q has empty id", c.Name)
			continue
		}
		if chars[c.ID] {
			out = violate(out, "character-id", "duplicate character id %q", c.ID)
		}
		chars[c.ID] = true
	}

	scenes := make(map[string]bool, len(n.Scenes))
	for _, s := range n.Scenes {
		if s.ID == "" {
			out = violate(out, "scene-id", "scene %q has empty id", s.Name)
			continue
		}
		if scenes[s.ID] {
			out = violate(out, "scene-id", "duplicate scene id %q", s.ID)
		}
		scenes[s.ID] = true
	}

	if len(n.Scenes) == 0 {
		out = violate(out, "start-scene", "document has no scenes")
	} else if !scenes[n.StartSceneID] {
		out = violate(out, "start-scene", "startSceneId %q does not resolve", n.StartSceneID)
	}

	for _, s := range n.Scenes {
		seen := make(map[string]bool, len(s.PresentCharacterIDs))
		for _, id := range s.PresentCharacterIDs {
			if !chars[id] {
				out = violate(out, "presence", "scene %q lists unknown character %q", s.ID, id)
			}
			if seen[id] {
				out = violate(out, "presence", "scene %q lists character %q twice", s.ID, id)
			}
			seen[id] = true
		}
		if len(s.Dialogue) == 0 {
			out = violate(out, "dialogue", "scene %q has no dialogue lines", s.ID)
		}
		for i, d := range s.Dialogue {
			if d.CharacterID == nil {
				continue
			}
			if !chars[*d.CharacterID] {
				out = violate(out, "dialogue", "scene %q line %d speaks as unknown character %q", s.ID, i, *d.CharacterID)
			} else if !seen[*d.CharacterID] {
				out = violate(out, "dialogue", "scene %q line %d speaks as absent character %q", s.ID, i, *d.CharacterID)
			}
		}
		for i, c := range s.Choices {
			if !scenes[c.NextSceneID] {
				out = violate(out, "choice", "scene %q choice %d targets unknown scene %q", s.ID, i, c.NextSceneID)
			}
		}
	}
	return out
}

// Valid is the boolean form of Validate.
func (n *Novel) Valid() bool { return len(n.Validate()) == 0 }

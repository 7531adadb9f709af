package genai

import (
	"fmt"
	"strings"

	"github.com/mvdwetering/noveltui/internal/novel"
)

const storyPromptTemplate = `Create a complete visual novel story based on the theme %q.
The story must be a self-contained mini game with a clear beginning, middle and end.
Include at least 2 characters and at least 4 scenes.
Scenes must connect to each other through choices. Make every scene reachable.
Multiple characters may appear in one scene and talk to each other.
Ending scenes must have no choices, to mark the end of the story.
Respond with a single valid JSON object strictly following this schema. Do not include markdown formatting such as fenced code blocks.

The JSON object must have this structure:
{
  "title": "A creative title based on the theme",
  "startSceneId": "id of the first scene, e.g. scene_1",
  "characters": [
    { "id": "char_1", "name": "Character name", "imageUrl": "a placeholder image URL from https://picsum.photos/400/600" }
  ],
  "scenes": [
    {
      "id": "scene_1",
      "name": "A short descriptive scene name, e.g. 'The Confrontation'",
      "backgroundUrl": "a placeholder image URL from https://picsum.photos/1280/720",
      "presentCharacterIds": ["char_1"],
      "dialogue": [
        { "characterId": "char_1", "text": "A line spoken by character 1." },
        { "characterId": null, "text": "A narrator line. Narrator lines have a null characterId." }
      ],
      "choices": [
        { "text": "Choice label", "nextSceneId": "scene_2" }
      ]
    }
  ]
}`

const backgroundPromptTemplate = `High quality visual novel background image. Scene description: %s. Style: vivid, anime, digital art, detailed.`

const dialoguePromptTemplate = `You are a dialogue writer for a visual novel.
The current scene is named %q.
The scene's theme is %q.
The characters present are:
%s

Write a short, engaging dialogue sequence for this scene, 3 to 5 lines long.
You may use the narrator for descriptive text; narrator lines must have a null "characterId".
For lines spoken by a character, use the provided "id".
Respond with a single valid JSON array strictly following this schema. Do not include markdown formatting such as fenced code blocks.

[
  { "characterId": "the_character_id or null", "text": "The line spoken by the character or narrator." }
]`

func storyPrompt(theme string) string {
	return fmt.Sprintf(storyPromptTemplate, theme)
}

func backgroundPrompt(scenePrompt string) string {
	return fmt.Sprintf(backgroundPromptTemplate, scenePrompt)
}

func dialoguePrompt(sceneName, scenePrompt string, cast []novel.Character) string {
	roster := "None. Use only the narrator."
	if len(cast) > 0 {
		var b strings.Builder
		for i, c := range cast {
			if i > 0 {
				b.WriteString("\n")
			}
			b.WriteString(fmt.Sprintf("- %s (id: %s)", c.Name, c.ID))
		}
		roster = b.String()
	}
	return fmt.Sprintf(dialoguePromptTemplate, sceneName, scenePrompt, roster)
}

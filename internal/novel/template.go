package novel

// NewTemplate returns the built-in starter story. It seeds a fresh
// install and is what an explicit reset restores.
func NewTemplate() Novel {
	return Novel{
		Title:        "A Dragon's Quest",
		StartSceneID: "scene_1",
		Characters: []Character{
			{ID: "char_hero", Name: "Brave Knight", ImageURL: "https://picsum.photos/seed/vn-hero/400/600"},
			{ID: "char_dragon", Name: "Sparky the Dragon", ImageURL: "https://picsum.photos/seed/vn-dragon/400/600"},
		},
		Scenes: []Scene{
			{
				ID:                  "scene_1",
				Name:                "Cave Entrance",
				BackgroundURL:       "https://picsum.photos/seed/vn-cave/1280/720",
				PresentCharacterIDs: []string{},
				Dialogue: []DialogueLine{
					Narrator("You stand before a dark, foreboding cave. A weathered sign reads 'BEWARE OF DRAGON!'. What do you do?"),
				},
				Choices: []Choice{
					{Text: "Bravely enter the cave.", NextSceneID: "scene_2"},
					{Text: "Decide this is a terrible idea and head home.", NextSceneID: "scene_4"},
				},
				Prompt: "A hero standing before the dark, ominous entrance of a dragon's cave, an old warning sign nearby.",
			},
			{
				ID:                  "scene_2",
				Name:                "Inside the Cave",
				BackgroundURL:       "https://picsum.photos/seed/vn-inside-cave/1280/720",
				PresentCharacterIDs: []string{"char_hero", "char_dragon"},
				Dialogue: []DialogueLine{
					Attributed("char_dragon", "A small, sparkly dragon peers up at you. 'Hi! I'm Sparky! Are you here to play?' it chirps."),
					Attributed("char_hero", "A dragon...? I am a brave knight. I have come to... test my might!"),
					Attributed("char_dragon", "Ooh, a game! What game shall we play?"),
				},
				Choices: []Choice{
					{Text: "Challenge it to a duel!", NextSceneID: "scene_3a"},
					{Text: "Ask if it has any board games.", NextSceneID: "scene_3b"},
				},
				Prompt: "Inside a treasure-filled cave, a brave knight faces a small, friendly, sparkly dragon named Sparky.",
			},
			{
				ID:                  "scene_3a",
				Name:                "The 'Duel'",
				BackgroundURL:       "https://picsum.photos/seed/vn-inside-cave/1280/720",
				PresentCharacterIDs: []string{"char_dragon"},
				Dialogue: []DialogueLine{
					Attributed("char_dragon", "Sparky giggles and puffs a single harmless bubble at you. 'You win!' it trills. You feel a little silly."),
				},
				Choices: []Choice{},
				Prompt:  "A tiny dragon playfully puffing a single harmless bubble at a knight inside a cave.",
			},
			{
				ID:                  "scene_3b",
				Name:                "Game Night",
				BackgroundURL:       "https://picsum.photos/seed/vn-games/1280/720",
				PresentCharacterIDs: []string{"char_hero", "char_dragon"},
				Dialogue: []DialogueLine{
					Narrator("You spend the afternoon playing 'Castles & Catapults' with Sparky."),
					Attributed("char_hero", "Best fun I've had all year."),
				},
				Choices: []Choice{},
				Prompt:  "A knight and a small dragon happily playing a board game together, surrounded by treasure.",
			},
			{
				ID:                  "scene_4",
				Name:                "The Safe Road Home",
				BackgroundURL:       "https://picsum.photos/seed/vn-home/1280/720",
				PresentCharacterIDs: []string{},
				Dialogue: []DialogueLine{
					Narrator("You arrive home safely. The world remains unexplored, but at least you are not dragon food."),
				},
				Choices: []Choice{},
				Prompt:  "A cozy, peaceful village road leading home at dusk.",
			},
		},
	}
}

package genai

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/pkg/errors"
	"golang.org/x/time/rate"

	"github.com/mvdwetering/noveltui/internal/novel"
)

// Generator turns themes and scene prompts into validated document
// fragments. The provider is untrusted: everything it returns goes
// through parse/normalize/validate before a caller sees it.
type Generator struct {
	provider Provider
	limiter  *rate.Limiter
	// backgrounds keyed by prompt; regenerating the same scene prompt
	// twice should not burn a second image call
	images *cache.Cache
}

// NewGenerator wraps a provider with rate limiting and an image cache.
func NewGenerator(p Provider) *Generator {
	return &Generator{
		provider: p,
		limiter:  rate.NewLimiter(rate.Every(2*time.Second), 3),
		images:   cache.New(30*time.Minute, 10*time.Minute),
	}
}

// GenerateStory produces a complete replacement document from a theme.
func (g *Generator) GenerateStory(ctx context.Context, theme string) (novel.Novel, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return novel.Novel{}, err
	}
	raw, err := g.provider.GenerateJSON(ctx, storyPrompt(theme))
	if err != nil {
		return novel.Novel{}, errors.Wrap(err, "story generation failed")
	}
	doc, err := parseStory(raw)
	if err != nil {
		return novel.Novel{}, errors.Wrap(err, "story generation failed")
	}
	return doc, nil
}

// GenerateSceneBackground produces a data URL for a scene background.
func (g *Generator) GenerateSceneBackground(ctx context.Context, scenePrompt string) (string, error) {
	if url, ok := g.images.Get(scenePrompt); ok {
		return url.(string), nil
	}
	if err := g.limiter.Wait(ctx); err != nil {
		return "", err
	}
	mime, data, err := g.provider.GenerateImage(ctx, backgroundPrompt(scenePrompt))
	if err != nil {
		return "", errors.Wrap(err, "background generation failed")
	}
	url := fmt.Sprintf("data:%s;base64,%s", mime, base64.StdEncoding.EncodeToString(data))
	g.images.SetDefault(scenePrompt, url)
	return url, nil
}

// GenerateSceneDialogue produces 3-5 lines attributed only to the given
// cast or to the narrator.
func (g *Generator) GenerateSceneDialogue(ctx context.Context, sceneName, scenePrompt string, cast []novel.Character) ([]novel.DialogueLine, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	raw, err := g.provider.GenerateJSON(ctx, dialoguePrompt(sceneName, scenePrompt, cast))
	if err != nil {
		return nil, errors.Wrap(err, "dialogue generation failed")
	}
	lines, err := parseDialogue(raw, cast)
	if err != nil {
		return nil, errors.Wrap(err, "dialogue generation failed")
	}
	return lines, nil
}

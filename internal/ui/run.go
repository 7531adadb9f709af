package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mvdwetering/noveltui/internal/genai"
	"github.com/mvdwetering/noveltui/internal/novel"
	"github.com/mvdwetering/noveltui/internal/store"
	"github.com/mvdwetering/noveltui/internal/util"
)

// Run boots the TUI program and blocks until it exits.
func Run(ctx context.Context, db *store.DB, gen *genai.Generator, doc novel.Novel, cfg util.Config) error {
	m := initialModel(ctx, db, gen, doc, cfg)
	program := tea.NewProgram(m, tea.WithContext(ctx))
	_, err := program.Run()
	return err
}

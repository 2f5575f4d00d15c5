package installer

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandevgo/shopdesk/internal/config"
	"github.com/sandevgo/shopdesk/internal/storage/sqlite"
	"github.com/sandevgo/shopdesk/internal/storage/sqlite/seed"
)

// SaveEnvStep writes the collected configuration to the runtime .env file.
type SaveEnvStep struct {
	err   error
	saved bool
}

func NewSaveEnvStep() Step {
	return &SaveEnvStep{}
}

func (s *SaveEnvStep) Init() tea.Cmd {
	return func() tea.Msg { return nextMsg{} }
}

func (s *SaveEnvStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	if s.saved {
		return nil, nil
	}

	path := config.GetRuntimePath()
	if err := os.MkdirAll(path, 0755); err != nil {
		s.err = fmt.Errorf("failed to create runtime directory: %w", err)
		return s, nil
	}

	envPath := config.GetEnvPath()
	if _, err := os.Stat(envPath); err == nil {
		s.err = fmt.Errorf(".env file already exists at %s", envPath)
		return s, nil
	}

	content, err := state.EnvContent()
	if err != nil {
		s.err = err
		return s, nil
	}

	if err := os.WriteFile(envPath, []byte(content), 0600); err != nil {
		s.err = err
		return s, nil
	}

	s.saved = true
	return nil, nil
}

func (s *SaveEnvStep) View(state *InstallState) string {
	if s.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v", s.err)) + "\n\n(press ctrl+c to quit)\n"
	}
	if s.saved {
		return "Configuration saved successfully!\n"
	}
	return "Saving configuration...\n"
}

// PrepareDatabaseStep creates the catalog database and loads the sample data.
type PrepareDatabaseStep struct {
	err    error
	done   bool
	seeded bool
}

func NewPrepareDatabaseStep() Step {
	return &PrepareDatabaseStep{}
}

func (s *PrepareDatabaseStep) Init() tea.Cmd {
	return func() tea.Msg { return nextMsg{} }
}

func (s *PrepareDatabaseStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	if s.done {
		return nil, nil
	}

	ctx := context.Background()
	dbPath := config.AppConfig{RuntimePath: config.GetRuntimePath()}.GetDatabasePath()

	db, err := sqlite.NewDB(ctx, state.App.DBDriver, dbPath)
	if err != nil {
		s.err = err
		return s, nil
	}
	defer db.Close()

	s.seeded, err = seed.SeedIfEmpty(ctx, db)
	if err != nil {
		s.err = err
		return s, nil
	}

	s.done = true
	return nil, nil
}

func (s *PrepareDatabaseStep) View(state *InstallState) string {
	if s.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v", s.err)) + "\n\n(press ctrl+c to quit)\n"
	}
	if s.done && s.seeded {
		return "Catalog database ready, sample data loaded!\n"
	}
	if s.done {
		return "Catalog database ready!\n"
	}
	return "Preparing catalog database...\n"
}

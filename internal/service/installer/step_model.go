package installer

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandevgo/shopdesk/internal/providers/llm"
)

// ModelStep lists the provider's models and stores the selection.
// If listing fails the user can retry or keep the current default.
type ModelStep struct {
	title    string
	current  func(state *InstallState) string
	set      func(state *InstallState, id string)
	list     list.Model
	loading  bool
	fetching bool
	err      error
}

func newModelStep(title string, current func(*InstallState) string, set func(*InstallState, string)) *ModelStep {
	l := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	l.Title = title
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = titleStyle

	return &ModelStep{
		title:   title,
		current: current,
		set:     set,
		list:    l,
		loading: true,
	}
}

func NewModelStep() Step {
	return newModelStep("Select the assistant model",
		func(st *InstallState) string { return st.Provider.Model },
		func(st *InstallState, id string) { st.Provider.Model = id })
}

func NewClassifierModelStep() Step {
	return newModelStep("Select a cheaper model for intent classification",
		func(st *InstallState) string { return st.Provider.ClassifierModel },
		func(st *InstallState, id string) { st.Provider.ClassifierModel = id })
}

func (s *ModelStep) Init() tea.Cmd {
	return nil
}

func (s *ModelStep) fetch(state *InstallState) tea.Cmd {
	cfg := state.Provider
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		p, err := llm.NewProvider(ctx, &cfg, cfg.Model)
		if err != nil {
			return errMsg(err)
		}
		models, err := p.Models(ctx)
		if err != nil {
			return errMsg(err)
		}

		items := make([]list.Item, 0, len(models))
		for _, mod := range models {
			desc := "ID: " + mod.ID
			if mod.ContextLength > 0 {
				desc = fmt.Sprintf("%s | Context: %d", desc, mod.ContextLength)
			}
			items = append(items, item{id: mod.ID, title: mod.Name, desc: desc})
		}
		return modelsMsg(items)
	}
}

func (s *ModelStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	if s.loading && !s.fetching {
		s.fetching = true
		return s, s.fetch(state)
	}

	s.list.SetSize(width, height-4)

	var cmd tea.Cmd
	switch msg := msg.(type) {
	case modelsMsg:
		s.list.SetItems(msg)
		s.loading = false
		s.fetching = false
		return s, nil

	case errMsg:
		s.loading = false
		s.fetching = false
		s.err = msg
		return s, nil

	case tea.KeyMsg:
		if s.err != nil {
			switch msg.String() {
			case "enter":
				s.err = nil
				s.loading = true
				s.fetching = false
			case "s":
				return nil, nil
			}
			return s, nil
		}

		if msg.String() == "enter" {
			wasFiltering := s.list.FilterState() == list.Filtering
			s.list, cmd = s.list.Update(msg)

			if wasFiltering || s.list.FilterState() == list.Filtering {
				return s, cmd
			}

			if i, ok := s.list.SelectedItem().(item); ok {
				s.set(state, i.id)
				return nil, nil
			}
			return s, cmd
		}
	}

	s.list, cmd = s.list.Update(msg)
	return s, cmd
}

func (s *ModelStep) View(state *InstallState) string {
	if s.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error fetching models: %v", s.err)) +
			fmt.Sprintf("\n\nCheck your API key and connection.\n\n(press enter to retry, s to keep %q, ctrl+c to quit)\n", s.current(state))
	}
	if s.loading {
		return fmt.Sprintf("Fetching models from %s...\n", state.Provider.Provider)
	}
	return s.list.View()
}

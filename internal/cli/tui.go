package cli

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/runoshun/three-daily-goals/internal/app"
	"github.com/runoshun/three-daily-goals/internal/compass"
	"github.com/runoshun/three-daily-goals/internal/domain"
	"github.com/runoshun/three-daily-goals/internal/tui"
)

// prefsWatchInterval is how often an open Compass Check polls the preferences file.
const prefsWatchInterval = 2 * time.Second

// launchCompassTUI runs the interactive Compass Check until the user leaves it.
func launchCompassTUI(cmd *cobra.Command, c *app.Container) error {
	if !c.StoreInitializer.IsInitialized() {
		return domain.ErrNotInitialized
	}

	steps, err := c.CompassSteps()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	env := c.CompassEnv()
	model := tui.New(ctx, compass.NewManager(env, steps), env)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	c.Prefs.OnChange(func(changed []string) {
		p.Send(tui.MsgPrefsChanged{Keys: changed})
	})
	go c.WatchPreferences(ctx, prefsWatchInterval)

	if _, err := p.Run(); err != nil {
		return err
	}
	return model.Err()
}

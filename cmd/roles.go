package cmd

import (
	"fmt"

	"github.com/frahmantamala/employee-dashboard/internal/core/events"
	"github.com/spf13/cobra"
)

var rolesCmd = &cobra.Command{
	Use:   "roles",
	Short: "Role management commands",
	Long:  `Inspect and repair the roles mirrored into issued tokens`,
}

var syncRolesCmd = &cobra.Command{
	Use:   "sync",
	Short: "Mirror every principal's role into the claim store",
	Long:  `Replay principal.created for every principal so the claim store matches the directory`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		app, err := newApplication(cfg, true)
		if err != nil {
			return err
		}
		defer app.Close()

		ctx := cmd.Context()
		principals, err := app.Users.List(ctx)
		if err != nil {
			return fmt.Errorf("failed to list principals: %w", err)
		}

		failed := 0
		for _, p := range principals {
			if err := app.Bus.PublishSync(ctx, events.NewPrincipalCreatedEvent(p.UID, p.Email)); err != nil {
				app.Logger.Error("role sync failed", "uid", p.UID, "error", err)
				failed++
			}
		}

		app.Logger.Info("role sync finished", "principals", len(principals), "failed", failed)
		if failed > 0 {
			return fmt.Errorf("%d of %d principals could not be synced", failed, len(principals))
		}
		return nil
	},
}

func init() {
	rolesCmd.AddCommand(syncRolesCmd)
}

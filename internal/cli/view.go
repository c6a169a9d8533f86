package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kintreehq/kintree/pkg/viewstate"
)

// viewCommand creates the view command for inspecting and resetting the
// persisted pan/zoom state.
func (c *CLI) viewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "view",
		Short: "Manage the saved diagram view state",
	}

	cmd.AddCommand(c.viewShowCommand())
	cmd.AddCommand(c.viewResetCommand())
	return cmd
}

func (c *CLI) viewShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the saved pan/zoom transform",
		RunE: func(cmd *cobra.Command, args []string) error {
			views, err := openViewStore()
			if err != nil {
				return err
			}
			t, err := views.Load(cmd.Context())
			if err != nil {
				return err
			}
			printKeyValue("x", fmt.Sprintf("%.1f", t.X))
			printKeyValue("y", fmt.Sprintf("%.1f", t.Y))
			printKeyValue("scale", fmt.Sprintf("%.2f", t.Scale))
			printDetail("File: %s", views.Path())
			return nil
		},
	}
}

func (c *CLI) viewResetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Reset the view to the identity transform",
		RunE: func(cmd *cobra.Command, args []string) error {
			views, err := openViewStore()
			if err != nil {
				return err
			}
			if err := views.Reset(cmd.Context()); err != nil {
				return err
			}
			printSuccess("View state reset")
			return nil
		},
	}
}

func openViewStore() (*viewstate.FileStore, error) {
	dir, err := viewStateDir()
	if err != nil {
		return nil, err
	}
	return viewstate.NewFileStore(dir)
}

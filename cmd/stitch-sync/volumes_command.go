package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"stitchsync/internal/volumes"
)

func newVolumesCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "volumes",
		Short: "List removable USB volumes",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := ctx.newLogger()
			if err != nil {
				return err
			}
			locator := volumes.NewLocator(logger)
			candidates := locator.Candidates(cmd.Context())
			if len(candidates) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No removable volumes found")
				return nil
			}
			rows := make([][]string, 0, len(candidates))
			for _, c := range candidates {
				rows = append(rows, []string{c.Name, c.Root})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Volume", "Mount Point"}, rows))
			return nil
		},
	}
}

func newEjectCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "eject [MOUNT]",
		Short: "Safely eject a removable USB volume",
		Long: "Eject the named removable volume, or the first one discovered when " +
			"no mount point is given.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := ctx.newLogger()
			if err != nil {
				return err
			}
			locator := volumes.NewLocator(logger)
			candidates := locator.Candidates(cmd.Context())
			if len(candidates) == 0 {
				return fmt.Errorf("no removable volumes found")
			}

			target := candidates[0]
			if len(args) == 1 {
				found := false
				for _, c := range candidates {
					if c.Root == args[0] || c.Name == args[0] {
						target = c
						found = true
						break
					}
				}
				if !found {
					return fmt.Errorf("no removable volume matches %q", args[0])
				}
			}

			if err := locator.Eject(cmd.Context(), target); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Ejected %s\n", target.Root)
			return nil
		},
	}
}

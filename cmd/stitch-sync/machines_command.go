package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"stitchsync/internal/catalog"
)

func newMachinesCommand(ctx *commandContext) *cobra.Command {
	var formatFlag string
	var verbose bool

	cmd := &cobra.Command{
		Use:   "machines",
		Short: "List known embroidery machines",
		RunE: func(cmd *cobra.Command, args []string) error {
			registry, err := ctx.ensureRegistry()
			if err != nil {
				return err
			}

			var machines []catalog.Machine
			if formatFlag != "" {
				if _, err := catalog.LookupFormat(formatFlag); err != nil {
					return err
				}
				machines = registry.MachinesSupporting(formatFlag)
			} else {
				machines = registry.Machines()
			}
			if len(machines) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No machines found")
				return nil
			}

			headers := []string{"Machine", "Formats", "USB Path"}
			if verbose {
				headers = append(headers, "Design Size", "Notes")
			}
			rows := make([][]string, 0, len(machines))
			for i := range machines {
				m := &machines[i]
				row := []string{m.Name, formatCodes(m.Formats), m.USBPath}
				if verbose {
					row = append(row, m.DesignSize, m.Notes)
				}
				rows = append(rows, row)
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(headers, rows))
			return nil
		},
	}

	cmd.Flags().StringVarP(&formatFlag, "format", "f", "", "Only machines that support this format")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Include design size and notes")
	return cmd
}

func newMachineCommand(ctx *commandContext) *cobra.Command {
	machineCmd := &cobra.Command{
		Use:   "machine",
		Short: "Machine profile utilities",
	}
	machineCmd.AddCommand(newMachineInfoCommand(ctx))
	return machineCmd
}

func newMachineInfoCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "info NAME",
		Short: "Show one machine profile in detail",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			registry, err := ctx.ensureRegistry()
			if err != nil {
				return err
			}
			machine, err := registry.Find(joinArgs(args))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Name:            %s\n", machine.Name)
			if len(machine.Synonyms) > 0 {
				fmt.Fprintf(out, "Also known as:   %s\n", joinComma(machine.Synonyms))
			}
			fmt.Fprintf(out, "Formats:         %s\n", formatCodes(machine.Formats))
			fmt.Fprintf(out, "Preferred:       %s\n", machine.Preferred().Code)
			if machine.USBPath != "" {
				fmt.Fprintf(out, "USB path:        %s\n", machine.USBPath)
			}
			if machine.DesignSize != "" {
				fmt.Fprintf(out, "Design size:     %s\n", machine.DesignSize)
			}
			fmt.Fprintf(out, "Sanitize names:  %s\n", yesNo(machine.SanitizeNames))
			if machine.Notes != "" {
				fmt.Fprintf(out, "Notes:           %s\n", machine.Notes)
			}
			return nil
		},
	}
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"stitchsync/internal/catalog"
)

func newFormatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "formats",
		Short:       "List supported embroidery file formats",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			formats := catalog.Formats()
			rows := make([][]string, 0, len(formats))
			for _, f := range formats {
				rows = append(rows, []string{f.Code, f.Name, f.Manufacturer, f.Notes})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Format", "Name", "Manufacturer", "Notes"}, rows))
			return nil
		},
	}
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

type verbRow struct {
	Key      string `json:"key" yaml:"key"`
	Mode     string `json:"mode" yaml:"mode"`
	Response int    `json:"response" yaml:"response"`
	Summary  string `json:"summary" yaml:"summary"`
}

func newVerbsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "verbs",
		Short: "List the command catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			keys := a.catalog.Keys()
			rows := make([]verbRow, 0, len(keys))
			for _, key := range keys {
				def, _ := a.catalog.Lookup(key)
				rows = append(rows, verbRow{Key: key, Mode: def.Mode.String(), Response: def.Response.Code, Summary: def.Summary})
			}
			fmt.Fprint(cmd.OutOrStdout(), a.formatter.Format(rows))
			return nil
		},
	}
}

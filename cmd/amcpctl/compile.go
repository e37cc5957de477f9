package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/danmuck/amcpctl/internal/protocol/command"
)

func newCompileCmd(a *app) *cobra.Command {
	var params []string
	cmd := &cobra.Command{
		Use:   "compile VERB [ADDRESS] [ARGS...]",
		Short: "Validate a command and print its wire text",
		Example: `  amcpctl compile PLAY 1-10 AMB LOOP
  amcpctl compile CG ADD 1-20 -p flashLayer=1 -p template="lower third" -p playOnLoad=true -p data='{"f0":"Name"}'
  amcpctl compile MIXER 1-10 OPACITY --server-version 2.1.8 -p opacity=0.5`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := a.offlineVersion()
			if err != nil {
				return err
			}
			key, cargs, err := resolveCommand(a.catalog, args, params)
			if err != nil {
				return err
			}
			c, err := a.catalog.Build(key, cargs, command.WithVersion(v))
			if err != nil {
				return err
			}
			if err := c.ValidateParams(); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if a.profile.Output == "table" {
				wire, err := c.WireText()
				if err != nil {
					return err
				}
				fmt.Fprintln(out, wire)
				return nil
			}
			fmt.Fprint(out, a.formatter.Format(c.Snapshot()))
			return nil
		},
	}
	cmd.Flags().StringArrayVarP(&params, "param", "p", nil, "named parameter key=value (repeatable)")
	return cmd
}

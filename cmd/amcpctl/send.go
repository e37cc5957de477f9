package main

import (
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

func newSendCmd(a *app) *cobra.Command {
	var params []string
	cmd := &cobra.Command{
		Use:   "send VERB [ADDRESS] [ARGS...]",
		Short: "Send one command and print the reply",
		Example: `  amcpctl send CLS
  amcpctl send -a 10.0.0.5:5250 PLAY 1-10 AMB LOOP
  amcpctl send INFO 1-10 -o json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, cargs, err := resolveCommand(a.catalog, args, params)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			client, err := a.connect(ctx)
			if err != nil {
				return err
			}
			defer client.Close()

			c, err := client.Build(key, cargs)
			if err != nil {
				return err
			}
			err = client.Do(ctx, c)
			a.printResult(cmd.OutOrStdout(), c)
			return err
		},
	}
	cmd.Flags().StringArrayVarP(&params, "param", "p", nil, "named parameter key=value (repeatable)")
	return cmd
}

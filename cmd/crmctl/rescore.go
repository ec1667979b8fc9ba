package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var rescoreCmd = &cobra.Command{
	Use:   "rescore",
	Short: "Recompute the score of every lead",
	Args:  cobra.NoArgs,
	RunE:  runRescore,
}

func runRescore(cmd *cobra.Command, args []string) error {
	rt, err := openRuntime(cmd.Context())
	if err != nil {
		return err
	}
	defer rt.close()

	result, err := rt.leads.Service().ScoreBatch(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), result.Message)
	return nil
}

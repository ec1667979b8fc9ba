package main

import (
	"fmt"
	"os"

	"salescrm_backend/internal/leads/seed"

	"github.com/spf13/cobra"
)

var (
	seedFile    string
	seedNoScore bool
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Import leads, contacts and activities from a YAML file",
	Long:  "Import leads with their contacts and activity history from a YAML seed file, then score every lead.",
	Args:  cobra.NoArgs,
	RunE:  runSeed,
}

func init() {
	seedCmd.Flags().StringVar(&seedFile, "file", "seed.yaml", "Path to the seed file")
	seedCmd.Flags().BoolVar(&seedNoScore, "no-score", false, "Skip the batch rescore after importing")
}

func loadSeedFile(path string) (seed.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return seed.File{}, fmt.Errorf("open seed file: %w", err)
	}
	defer f.Close()

	parsed, err := seed.Parse(f)
	if err != nil {
		return seed.File{}, fmt.Errorf("%s: %w", path, err)
	}
	return parsed, nil
}

func runSeed(cmd *cobra.Command, args []string) error {
	parsed, err := loadSeedFile(seedFile)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	rt, err := openRuntime(ctx)
	if err != nil {
		return err
	}
	defer rt.close()

	importer := seed.NewImporter(rt.leads.Repository(), rt.log, rt.cfg.GetLocation())
	summary, err := importer.Import(ctx, parsed)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Imported %d leads, %d contacts, %d activities (%d skipped)\n",
		summary.Leads, summary.Contacts, summary.Activities, summary.Skipped)

	if seedNoScore {
		return nil
	}

	result, err := rt.leads.Service().ScoreBatch(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, result.Message)
	return nil
}

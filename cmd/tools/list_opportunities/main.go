package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/david/salesforce-mock/internal/config"
	"github.com/david/salesforce-mock/internal/db"
	"github.com/david/salesforce-mock/internal/models"
	"github.com/david/salesforce-mock/internal/query"
	"github.com/david/salesforce-mock/internal/seed"
)

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		log.Fatal(err)
	}
}

func newRootCmd(out io.Writer) *cobra.Command {
	var (
		configPath string
		params     = query.ListParams{Page: query.DefaultPage, Limit: query.DefaultLimit}
	)

	root := &cobra.Command{
		Use:           "list_opportunities",
		Short:         "Print the seeded opportunities the mock service serves",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if params.Page < 1 {
				return fmt.Errorf("--page must be at least 1, got %d", params.Page)
			}
			if params.Limit < 1 || params.Limit > query.MaxLimit {
				return fmt.Errorf("--limit must be between 1 and %d, got %d", query.MaxLimit, params.Limit)
			}
			engine, err := loadEngine(configPath)
			if err != nil {
				return err
			}
			renderTable(out, engine.List(params))
			return nil
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath, "path to configuration file")
	root.Flags().IntVar(&params.Page, "page", query.DefaultPage, "page number, starting at 1")
	root.Flags().IntVar(&params.Limit, "limit", query.DefaultLimit, "records per page (1-100)")
	root.Flags().StringVar(&params.Status, "status", "", "only records with this status (any case)")
	root.Flags().StringVar(&params.Client, "client", "", "only records whose client name contains this text (any case)")

	root.AddCommand(&cobra.Command{
		Use:   "get <opportunity-number>",
		Short: "Print a single opportunity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := loadEngine(configPath)
			if err != nil {
				return err
			}
			res, err := engine.Lookup(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !res.Found {
				return fmt.Errorf("%s: %s", args[0], models.NotFoundMessage)
			}
			renderTable(out, []models.Opportunity{res.Opportunity})
			return nil
		},
	})

	return root
}

func loadEngine(configPath string) (*query.Engine, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	records, err := seed.Records(cfg.Seed)
	if err != nil {
		return nil, err
	}
	store, err := db.NewStore(records)
	if err != nil {
		return nil, err
	}
	return query.NewEngine(store, query.NoDelay), nil
}

func renderTable(out io.Writer, records []models.Opportunity) {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.AppendHeader(table.Row{"Number", "Proposal", "Client", "Value", "Status"})
	for _, rec := range records {
		t.AppendRow(table.Row{rec.OpportunityNumber, rec.ProposalName, rec.ClientName, rec.Value, rec.Status})
	}
	t.AppendFooter(table.Row{"", "", "", "Rows", len(records)})
	t.Render()
}

package commands

import (
	"fmt"
	"os"

	"royalehelper/lib/clashroyale"
	"royalehelper/lib/scrapers/statsroyale"
	"royalehelper/lib/serviceutil"
	"royalehelper/services/decks"

	"github.com/spf13/cobra"
)

var repopulateFile *string

func init() {
	repopulateFile = repopulateCmd.Flags().String("file", "", "Read the statsroyale page markup from a file instead of the network.")
	rootCmd.AddCommand(repopulateCmd)
}

var repopulateCmd = &cobra.Command{
	Use:   "repopulate [--file <path>]",
	Short: "Drops all stored decks, refreshes the catalog and imports the current popular decks.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := readConfig()
		store, database := openStore(cfg)
		defer database.Close()
		importer := decks.NewImporter(store)

		err := store.DeleteAll(cmd.Context())
		if err != nil {
			serviceutil.Fatal("failed to clear deck database", err)
		}

		client, err := clashroyale.NewClient(cfg.Api)
		if err != nil {
			serviceutil.Fatal("failed to create api client", err)
		}
		debugHttp(cfg, client.Http, "clashroyale")

		sync, err := importer.SyncCards(cmd.Context(), client)
		if err != nil {
			serviceutil.Fatal("failed to sync cards", err)
		}
		fmt.Printf("catalog synced: %d created, %d updated\n", sync.Created, sync.Updated)

		if *repopulateFile != "" {
			html, err := os.ReadFile(*repopulateFile)
			if err != nil {
				serviceutil.Fatal("failed to read page file", err)
			}
			report, err := importer.ImportStatsRoyale(cmd.Context(), string(html), "path-of-legends")
			if err != nil {
				serviceutil.Fatal("failed to import decks", err)
			}
			printReport(report)
			return
		}

		scraper, err := statsroyale.NewClient()
		if err != nil {
			serviceutil.Fatal("failed to create scraper client", err)
		}
		debugHttp(cfg, scraper.Http, "statsroyale")

		report, err := importer.Import(cmd.Context(), decks.StatsRoyaleSource{
			Client: scraper,
		}, "path-of-legends")
		if err != nil {
			serviceutil.Fatal("failed to import decks", err)
		}
		printReport(report)
	},
}

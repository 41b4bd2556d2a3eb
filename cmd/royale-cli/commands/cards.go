package commands

import (
	"fmt"

	"royalehelper/lib/clashroyale"
	"royalehelper/lib/serviceutil"
	"royalehelper/services/decks"

	"github.com/spf13/cobra"
)

func init() {
	cardsCmd.AddCommand(cardsSyncCmd)
	rootCmd.AddCommand(cardsCmd)
}

var cardsCmd = &cobra.Command{
	Use:   "cards",
	Short: "Manages the local card catalog.",
}

var cardsSyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Refreshes the card catalog from the official Clash Royale API.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := readConfig()

		client, err := clashroyale.NewClient(cfg.Api)
		if err != nil {
			serviceutil.Fatal("failed to create api client", err)
		}
		debugHttp(cfg, client.Http, "clashroyale")

		store, database := openStore(cfg)
		defer database.Close()

		report, err := decks.NewImporter(store).SyncCards(cmd.Context(), client)
		if err != nil {
			serviceutil.Fatal("failed to sync cards", err)
		}

		fmt.Printf("catalog synced: %d created, %d updated\n", report.Created, report.Updated)
	},
}

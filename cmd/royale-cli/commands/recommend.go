package commands

import (
	"fmt"

	"royalehelper/lib/clashroyale"
	"royalehelper/lib/recommend"
	"royalehelper/lib/serviceutil"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var recommendLimit *int

func init() {
	recommendLimit = recommendCmd.Flags().Int("limit", recommend.DefaultLimit, "Maximum number of decks to recommend.")
	rootCmd.AddCommand(recommendCmd)
}

var recommendCmd = &cobra.Command{
	Use:   "recommend <player tag> [--limit <n>]",
	Short: "Recommends stored decks the player owns the most leveled cards for.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := readConfig()

		client, err := clashroyale.NewClient(cfg.Api)
		if err != nil {
			serviceutil.Fatal("failed to create api client", err)
		}
		debugHttp(cfg, client.Http, "clashroyale")

		player, err := client.GetPlayer(cmd.Context(), args[0])
		if err != nil {
			serviceutil.Fatal("failed to fetch player", err)
		}

		store, database := openStore(cfg)
		defer database.Close()

		stored, err := store.ListDecks(cmd.Context())
		if err != nil {
			serviceutil.Fatal("failed to list decks", err)
		}

		recommended := recommend.Recommend(player, stored, recommend.Options{
			Limit: *recommendLimit,
		})
		if len(recommended) == 0 {
			fmt.Printf("no stored deck shares a card with %s, try importing more decks\n", player.Name)
			return
		}

		fmt.Printf("decks for %s (%s):\n", player.Name, player.Tag)
		for rank, deck := range recommended {
			fmt.Printf("\n#%d  deck %d (%s)  owned %d/8  total level %d\n",
				rank+1, deck.Deck.ID, deck.Deck.Mode, deck.OwnedCards, deck.TotalLevel)

			t := newTable()
			t.AppendHeader(table.Row{"Card", "Level", "Effective"})
			for _, card := range deck.Cards {
				t.AppendRow(table.Row{
					card.Card.Name,
					formatLevel(card.Level),
					formatLevel(card.EffectiveLevel),
				})
			}
			t.Render()
		}
	},
}

func formatLevel(level *int64) string {
	if level == nil {
		return "not owned"
	}
	return fmt.Sprintf("%d", *level)
}

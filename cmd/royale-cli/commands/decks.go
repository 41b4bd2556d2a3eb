package commands

import (
	"context"
	"fmt"
	"os"
	"strings"

	"royalehelper/lib/scrapers/royaleapi"
	"royalehelper/lib/scrapers/statsroyale"
	"royalehelper/lib/serviceutil"
	"royalehelper/services/decks"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var (
	royaleapiUrl  *string
	royaleapiFile *string
	royaleapiMode *string
	royaleapiFrom *string

	statsroyaleUrl  *string
	statsroyaleFile *string
	statsroyaleMode *string
)

func init() {
	royaleapiUrl = importRoyaleapiCmd.Flags().String("url", "", "Page URL to scrape, defaults to the popular ranked decks page.")
	royaleapiFile = importRoyaleapiCmd.Flags().String("file", "", "Read page markup from a file instead of the network.")
	royaleapiMode = importRoyaleapiCmd.Flags().String("mode", "ranked", "Game mode label stored with the imported decks.")
	royaleapiFrom = importRoyaleapiCmd.Flags().String("from", "auto", "Extraction strategy: auto, jsonld or text.")

	statsroyaleUrl = importStatsroyaleCmd.Flags().String("url", "", "Page URL to scrape, defaults to the popular decks page.")
	statsroyaleFile = importStatsroyaleCmd.Flags().String("file", "", "Read page markup from a file instead of the network.")
	statsroyaleMode = importStatsroyaleCmd.Flags().String("mode", "path-of-legends", "Game mode label stored with the imported decks.")

	decksCmd.AddCommand(importRoyaleapiCmd)
	decksCmd.AddCommand(importStatsroyaleCmd)
	decksCmd.AddCommand(listDecksCmd)
	rootCmd.AddCommand(decksCmd)
}

var decksCmd = &cobra.Command{
	Use:   "decks",
	Short: "Imports and inspects scraped decks.",
}

var importRoyaleapiCmd = &cobra.Command{
	Use:   "import-royaleapi [--url <url> | --file <path>] [--mode <mode>] [--from auto|jsonld|text]",
	Short: "Imports popular decks from royaleapi.com.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := readConfig()
		store, database := openStore(cfg)
		defer database.Close()
		importer := decks.NewImporter(store)

		if *royaleapiFile != "" {
			html, err := os.ReadFile(*royaleapiFile)
			if err != nil {
				serviceutil.Fatal("failed to read page file", err)
			}
			report, err := importRoyaleapiHtml(cmd.Context(), importer, string(html), *royaleapiMode, *royaleapiFrom)
			if err != nil {
				serviceutil.Fatal("failed to import decks", err)
			}
			printReport(report)
			return
		}

		client, err := royaleapi.NewClient()
		if err != nil {
			serviceutil.Fatal("failed to create scraper client", err)
		}
		debugHttp(cfg, client.Http, "royaleapi")

		if *royaleapiFrom == "auto" {
			report, err := importer.Import(cmd.Context(), decks.RoyaleAPISource{
				Client: client,
				URL:    *royaleapiUrl,
			}, *royaleapiMode)
			if err != nil {
				serviceutil.Fatal("failed to import decks", err)
			}
			printReport(report)
			return
		}

		html, err := client.FetchPopularDecks(cmd.Context(), *royaleapiUrl)
		if err != nil {
			serviceutil.Fatal("failed to fetch page", err)
		}
		report, err := importRoyaleapiHtml(cmd.Context(), importer, html, *royaleapiMode, *royaleapiFrom)
		if err != nil {
			serviceutil.Fatal("failed to import decks", err)
		}
		printReport(report)
	},
}

func importRoyaleapiHtml(ctx context.Context, importer decks.Importer, html, mode, from string) (decks.Report, error) {
	switch from {
	case "jsonld":
		return importer.ImportRoyaleAPIStructured(ctx, html, mode)
	case "text":
		return importer.ImportRoyaleAPIText(ctx, html, mode)
	case "auto":
		report, err := importer.ImportRoyaleAPIStructured(ctx, html, mode)
		if err != nil || report.Found > 0 {
			return report, err
		}
		return importer.ImportRoyaleAPIText(ctx, html, mode)
	}
	return decks.Report{}, fmt.Errorf("unknown extraction strategy %q, expected auto, jsonld or text", from)
}

var importStatsroyaleCmd = &cobra.Command{
	Use:   "import-statsroyale [--url <url> | --file <path>] [--mode <mode>]",
	Short: "Imports popular decks from statsroyale.com.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := readConfig()
		store, database := openStore(cfg)
		defer database.Close()
		importer := decks.NewImporter(store)

		if *statsroyaleFile != "" {
			html, err := os.ReadFile(*statsroyaleFile)
			if err != nil {
				serviceutil.Fatal("failed to read page file", err)
			}
			report, err := importer.ImportStatsRoyale(cmd.Context(), string(html), *statsroyaleMode)
			if err != nil {
				serviceutil.Fatal("failed to import decks", err)
			}
			printReport(report)
			return
		}

		client, err := statsroyale.NewClient()
		if err != nil {
			serviceutil.Fatal("failed to create scraper client", err)
		}
		debugHttp(cfg, client.Http, "statsroyale")

		report, err := importer.Import(cmd.Context(), decks.StatsRoyaleSource{
			Client: client,
			URL:    *statsroyaleUrl,
		}, *statsroyaleMode)
		if err != nil {
			serviceutil.Fatal("failed to import decks", err)
		}
		printReport(report)
	},
}

var listDecksCmd = &cobra.Command{
	Use:   "list",
	Short: "Prints the stored decks.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := readConfig()
		store, database := openStore(cfg)
		defer database.Close()

		stored, err := store.ListDecks(cmd.Context())
		if err != nil {
			serviceutil.Fatal("failed to list decks", err)
		}

		t := newTable()
		t.AppendHeader(table.Row{"Id", "Mode", "Avg Elixir", "Win Rate", "Avg Crowns", "Cards"})
		for _, deck := range stored {
			names := make([]string, len(deck.Cards))
			for i, card := range deck.Cards {
				names[i] = card.Name
			}
			t.AppendRow(table.Row{
				deck.ID,
				deck.Mode,
				formatStat(deck.AvgElixir),
				formatStat(deck.WinRate),
				formatStat(deck.AvgCrowns),
				strings.Join(names, ", "),
			})
		}
		t.Render()
	},
}

func formatStat(value *float64) string {
	if value == nil {
		return "-"
	}
	return fmt.Sprintf("%.1f", *value)
}

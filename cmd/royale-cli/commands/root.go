package commands

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"royalehelper/lib/clashroyale"
	"royalehelper/lib/configutil"
	"royalehelper/lib/deckstore"
	"royalehelper/lib/restyutil"
	"royalehelper/lib/serviceutil"
	"royalehelper/lib/telemetry"
	"royalehelper/services/decks"

	"github.com/go-resty/resty/v2"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

type Config struct {
	Api clashroyale.Config `json:"api"`
	// path of the sqlite deck database, "decks.db" when unset
	Database string `json:"database"`
	// when non-empty, raw http exchanges are dumped here while
	// running with --verbose
	HttpDebugDir string `json:"http_debug_dir"`
}

var verbose *bool

var rootCmd = &cobra.Command{
	Use:   "royale-cli",
	Short: "royale-cli scrapes popular Clash Royale decks and recommends the ones you can actually play.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		telemetry.InitSlog(*verbose)
	},
}

func init() {
	verbose = rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enables debug logging.")
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func readConfig() Config {
	cfg, err := configutil.ReadConfig[Config]("config.json5")
	if err != nil {
		serviceutil.Fatal("failed to read config", err)
	}
	if cfg.Database == "" {
		cfg.Database = "decks.db"
	}
	return cfg
}

func openStore(cfg Config) (deckstore.Store, *sql.DB) {
	database, err := deckstore.Open(cfg.Database)
	if err != nil {
		serviceutil.Fatal("failed to open deck database", err)
	}
	return deckstore.NewStore(database), database
}

// debugHttp attaches the raw message dump instrumentation when the
// config asks for it. Dumps are only written under --verbose.
func debugHttp(cfg Config, client *resty.Client, name string) {
	if cfg.HttpDebugDir == "" {
		return
	}
	out := restyutil.NewFilesystemOutput(fmt.Sprintf("%s/%s", cfg.HttpDebugDir, name))
	restyutil.InstrumentClient(client, out)
}

func newTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(os.Stdout)
	return t
}

func printReport(report decks.Report) {
	fmt.Printf("found %d decks: created %d, skipped %d\n",
		report.Found, report.Created, report.Skipped)
}

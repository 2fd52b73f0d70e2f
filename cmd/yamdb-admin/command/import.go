package command

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"yamdb/database"
	"yamdb/internal/ingestion/seed"
)

var (
	importDir       string
	importWorkers   int
	importBatchSize int
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import CSV fixtures from a directory",
	Long: `Import loads category.csv, genre.csv, users.csv, titles.csv, genre_title.csv,
review.csv and comments.csv from --dir. Missing files are skipped and rows that
already exist are left untouched, so the command can be re-run.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEnv()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		db, err := e.connect(ctx)
		if err != nil {
			return err
		}
		defer database.Close(db)

		loader := seed.NewLoader(db, seed.Config{Workers: importWorkers, BatchSize: importBatchSize}, e.logger)
		report, err := loader.Load(ctx, os.DirFS(importDir))
		if err != nil {
			return fmt.Errorf("import failed: %w", err)
		}

		tables := make([]string, 0, len(report.Inserted))
		for name := range report.Inserted {
			tables = append(tables, name)
		}
		sort.Strings(tables)

		fmt.Printf("Imported from %s in %s:\n", importDir, report.Duration.Round(time.Millisecond))
		for _, name := range tables {
			fmt.Printf("  %-13s %d\n", name, report.Inserted[name])
		}
		for _, file := range report.Missing {
			fmt.Printf("  skipped %s (not found)\n", file)
		}
		return nil
	},
}

func init() {
	importCmd.Flags().StringVar(&importDir, "dir", "static/data", "directory holding the CSV fixtures")
	importCmd.Flags().IntVar(&importWorkers, "workers", 4, "concurrent insert workers")
	importCmd.Flags().IntVar(&importBatchSize, "batch-size", 500, "rows per INSERT statement")
	rootCmd.AddCommand(importCmd)
}

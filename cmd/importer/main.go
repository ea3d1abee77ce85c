// Command importer loads a Goodreads-style CSV or XLSX dump straight
// into the catalog, using the same cleaning pipeline as the HTTP
// import endpoint.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"bookcatalog-backend/internal/config"
	"bookcatalog-backend/internal/domains/book/model"
	bookRepo "bookcatalog-backend/internal/domains/book/repository"
	bookService "bookcatalog-backend/internal/domains/book/service"
	catalogRepo "bookcatalog-backend/internal/domains/catalog/repository"
	infraCache "bookcatalog-backend/internal/infrastructure/cache"
	"bookcatalog-backend/internal/infrastructure/database"
	"bookcatalog-backend/pkg/logger"
)

var (
	batchSize      int
	limit          int
	skipDuplicates bool
)

var rootCmd = &cobra.Command{
	Use:   "importer <file>",
	Short: "Bulk import books from a CSV or XLSX dump",
	Long: `Importer reads a raw book dump, cleans each row (ISBN repair, price
and date normalization, list splitting) and commits the records along
with their authors, genres, characters and awards.

Examples:
  importer books.csv
  importer books.xlsx --limit 1000 --skip-duplicates
  importer books.csv --batch-size 500`,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runImport(args[0])
	},
}

func init() {
	rootCmd.Flags().IntVar(&batchSize, "batch-size", 100, "Progress reporting interval in created records")
	rootCmd.Flags().IntVar(&limit, "limit", 0, "Maximum data rows to read (0 = no limit)")
	rootCmd.Flags().BoolVar(&skipDuplicates, "skip-duplicates", false, "Skip rows whose ISBN is already stored")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runImport(filename string) error {
	if err := godotenv.Load(); err != nil {
		fmt.Fprintln(os.Stderr, "no .env file found, using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger.Init(cfg.App.Environment)

	file, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", filename, err)
	}
	source, err := bookService.OpenRecordSource(filename, file)
	if err != nil {
		file.Close()
		return fmt.Errorf("failed to read %s: %w", filename, err)
	}
	defer source.Close()

	dbConfig, err := config.LoadDatabaseConfig()
	if err != nil {
		return fmt.Errorf("failed to load database config: %w", err)
	}
	db := database.NewPostgresDB(dbConfig)
	connectCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := db.Connect(connectCtx); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// The cache is only touched once, to drop stale search results
	// after the run. A dead Redis just downgrades that to a warning.
	redisClient := infraCache.NewRedisClient(cfg.Redis.Host, cfg.Redis.Password, cfg.Redis.DB)
	if err := redisClient.Connect(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "redis unavailable, search cache will not be invalidated: %v\n", err)
	}
	defer redisClient.Close()

	svc := bookService.NewImportService(
		bookRepo.NewBookRepository(db.Pool),
		catalogRepo.NewResolver(db.Pool),
		infraCache.NewRedisCache(redisClient),
	)

	start := time.Now()
	report, err := svc.ImportBooks(context.Background(), source, model.ImportOptions{
		BatchSize:      batchSize,
		Limit:          limit,
		SkipDuplicates: skipDuplicates,
	})
	if err != nil {
		return err
	}

	printReport(report, time.Since(start))

	if report.Aborted {
		return fmt.Errorf("import aborted after %d errors", report.Errored)
	}
	return nil
}

func printReport(report *model.ImportReport, elapsed time.Duration) {
	fmt.Printf("Processed %d rows in %s\n", report.TotalRows, elapsed.Round(time.Millisecond))
	fmt.Printf("  created: %d\n", report.Created)
	fmt.Printf("  skipped: %d\n", report.Skipped)
	fmt.Printf("  errored: %d\n", report.Errored)

	if len(report.Errors) > 0 {
		fmt.Println("Row errors:")
		for _, rowErr := range report.Errors {
			if rowErr.Title != "" {
				fmt.Printf("  row %d (%s): %s\n", rowErr.Row, rowErr.Title, rowErr.Error)
				continue
			}
			fmt.Printf("  row %d: %s\n", rowErr.Row, rowErr.Error)
		}
	}
}

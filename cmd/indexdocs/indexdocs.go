package main

import (
	"context"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"

	"tutor/config"
	"tutor/db"
	"tutor/models"
	"tutor/services/retrieval"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"
)

type contentWriter interface {
	retrieval.ContentWriter
	Close() error
}

var (
	pattern     string
	subject     string
	level       string
	contentType string
	dryRun      bool
)

var rootCmd = &cobra.Command{
	Use:   "indexdocs [directory]",
	Short: "Index tutoring material for retrieval",
	Long: `Split every text or markdown file under a directory into chunks, embed them
and store them in the content store used by the tutor.

Difficulty is detected from each file's text when --level is "auto".`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context(), args[0])
	},
}

func init() {
	rootCmd.Flags().StringVarP(&pattern, "pattern", "p", "**/*.{txt,md}", "Glob of files to index, relative to the directory")
	rootCmd.Flags().StringVarP(&subject, "subject", "s", models.DefaultSubject, "Subject recorded on every chunk")
	rootCmd.Flags().StringVarP(&level, "level", "l", models.LevelAuto, "Difficulty level (beginner, intermediate, advanced or auto)")
	rootCmd.Flags().StringVarP(&contentType, "type", "t", models.DefaultContentType, "Content type recorded on every chunk")
	rootCmd.Flags().BoolVar(&dryRun, "dry-run", false, "List the files that would be indexed and exit")
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		log.Fatalf("[ERROR] %v", err)
	}
}

func run(ctx context.Context, dir string) error {
	log.Printf("[INFO] Starting document indexing process")

	files, err := findFiles(dir, pattern)
	if err != nil {
		return err
	}
	log.Printf("[INFO] Found %d files matching %s", len(files), pattern)

	if dryRun {
		for _, f := range files {
			fmt.Println(f)
		}
		return nil
	}

	cfg := config.Load()
	if cfg.OpenAIAPIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY environment variable is required")
	}

	writer, err := newWriter(ctx, cfg)
	if err != nil {
		return err
	}
	defer writer.Close()

	openAIEmbedder, err := retrieval.NewOpenAIEmbedder(cfg.OpenAIAPIKey, cfg.EmbeddingModel)
	if err != nil {
		return err
	}
	indexer := retrieval.NewIndexer(retrieval.NewRateLimitedEmbedder(openAIEmbedder, cfg.EmbeddingRateLimit), writer)

	total, failed := 0, 0
	for i, path := range files {
		log.Printf("[INFO] Processing file %d/%d: %s", i+1, len(files), path)

		content, err := os.ReadFile(path)
		if err != nil {
			log.Printf("[ERROR] Failed to read %s: %v", path, err)
			failed++
			continue
		}

		result, err := indexer.Index(ctx, models.Document{
			Content:     string(content),
			Subject:     subject,
			Level:       level,
			ContentType: contentType,
			Source:      filepath.Base(path),
		})
		if err != nil {
			log.Printf("[ERROR] Failed to index %s: %v", path, err)
			failed++
			continue
		}

		total += result.ChunksStored
		log.Printf("[INFO] Indexed %s: %d chunks at %s level", path, result.ChunksStored, result.Level)
	}

	log.Printf("[INFO] Indexing complete: %d chunks from %d files, %d files failed",
		total, len(files)-failed, failed)
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed to index", failed, len(files))
	}
	return nil
}

func findFiles(dir, pattern string) ([]string, error) {
	var matches []string

	err := doublestar.GlobWalk(os.DirFS(dir), pattern, func(path string, d fs.DirEntry) error {
		if !d.IsDir() && !strings.HasPrefix(d.Name(), ".") {
			matches = append(matches, filepath.Join(dir, path))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to find files in %s: %w", dir, err)
	}

	return matches, nil
}

func newWriter(ctx context.Context, cfg *config.Config) (contentWriter, error) {
	if cfg.PineconeAPIKey != "" {
		return retrieval.NewPineconeStore(ctx, cfg.PineconeAPIKey, cfg.PineconeIndexName, cfg.PineconeNamespace)
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("either PINECONE_API_KEY or DB_URL must be set")
	}
	return db.NewPostgresContentRepository(cfg.DatabaseURL)
}

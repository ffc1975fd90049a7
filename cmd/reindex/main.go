package main

import (
	"context"
	"flag"
	"log"
	"os"
	"strings"

	"evaluno/interview-api/internal/config"
	"evaluno/interview-api/internal/models"
	"evaluno/interview-api/internal/repositories"
	"evaluno/interview-api/internal/services"
)

// reindex rebuilds the question bank from stored results, for example after
// the vector store was unreachable while results were being saved.
func main() {
	batchSize := flag.Int("batch", 50, "results loaded per database round trip")
	flag.Parse()

	log.Println("🚀 Starting question bank reindex...")

	cfg := config.Load()
	if cfg.Qdrant.URL == "" {
		log.Fatal("❌ QDRANT_URL is required")
	}
	if cfg.LLM.GeminiAPIKey == "" {
		log.Fatal("❌ GEMINI_API_KEY is required for embeddings")
	}

	ctx := context.Background()

	db, err := config.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize database: %v", err)
	}

	gemini, err := services.NewGeminiService(ctx, cfg.LLM.GeminiAPIKey, cfg.LLM.EmbeddingModel)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Gemini: %v", err)
	}

	bank, err := services.NewQuestionBank(cfg.Qdrant.URL, cfg.Qdrant.APIKey, cfg.Qdrant.Collection, gemini)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Qdrant: %v", err)
	}
	if err := bank.InitCollection(ctx); err != nil {
		log.Fatalf("❌ Failed to initialize collection: %v", err)
	}

	successCount := 0
	failCount := 0
	questionCount := 0

	err = repositories.NewResultScanner(db).Scan(ctx, *batchSize, func(batch []models.StoredResult) error {
		for _, result := range batch {
			if err := bank.Index(ctx, result.ID.String(), result.AIResponse); err != nil {
				log.Printf("   ❌ Failed to index result %s: %v", result.ID, err)
				failCount++
				continue
			}
			successCount++
			questionCount += len(result.AIResponse)
		}
		log.Printf("   📊 Progress: %d results indexed", successCount)
		return nil
	})
	if err != nil {
		log.Fatalf("❌ Failed to read stored results: %v", err)
	}

	log.Println(strings.Repeat("=", 60))
	log.Printf("📊 Reindex Summary:")
	log.Printf("   ✅ Indexed: %d results (%d questions)", successCount, questionCount)
	log.Printf("   ❌ Failed: %d results", failCount)
	log.Println(strings.Repeat("=", 60))

	if failCount > 0 {
		log.Println("⚠️  Some results failed to index. Please check the logs above.")
		os.Exit(1)
	}

	log.Println("✅ Question bank is up to date!")
}

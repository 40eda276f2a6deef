// File: cmd/diagnostic/llm_diagnostic.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/iyunix/go-healchat/internal/analysis/mood"
	"github.com/iyunix/go-healchat/internal/services"
	"github.com/iyunix/go-healchat/internal/services/ai"
)

// Sends one message through the configured completion provider and prints
// the reply together with the local sentiment verdict.
func main() {
	envFile := flag.String("env", ".env", "dotenv file to load")
	text := flag.String("message", "I've been feeling a bit stressed lately.", "message to send")
	flag.Parse()

	if err := godotenv.Load(*envFile); err != nil {
		log.Printf("Warning: Could not load %s: %v", *envFile, err)
	}

	cfg := ai.DefaultConfig()
	cfg.APIKey = os.Getenv("AI_API_KEY")
	if v := os.Getenv("AI_BASE_URL"); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv("AI_MODEL"); v != "" {
		cfg.Model = v
	}

	provider, err := ai.NewOpenAIProvider(cfg)
	if err != nil {
		log.Fatalf("Provider setup failed: %v", err)
	}

	policy := mood.DefaultPolicy()
	polarity := policy.Scorer.Score(*text)
	fmt.Printf("Model: %s (%s)\n", provider.Model(), cfg.BaseURL)
	fmt.Printf("Polarity: %.2f alarming=%v\n", polarity, policy.IsAlarming(polarity))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	start := time.Now()
	resp, err := provider.Complete(ctx, ai.CompletionRequest{
		SystemPersona: services.DefaultPersona,
		Turns:         []ai.Turn{{Role: ai.RoleUser, Text: *text}},
	})
	if err != nil {
		log.Fatalf("Completion failed after %s: %v", time.Since(start).Round(time.Millisecond), err)
	}

	fmt.Printf("Latency: %s\n", time.Since(start).Round(time.Millisecond))
	fmt.Printf("Response: %s\n", resp.ReplyText)
}

// Command ragctl inspects a MemoryStore's RAG corpus directly against its
// sqlite file, for operators who want to see what a user's documents look
// like without going through the Gateway's auth and quota layers.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/fatih/color"

	"github.com/modernreader/orchestrator/pkg/embedding"
	"github.com/modernreader/orchestrator/pkg/memory"
)

func main() {
	dbPath := flag.String("db", "./data/orchestrator.db", "path to the MemoryStore sqlite file")
	userID := flag.String("user", "", "user_id to inspect (required)")
	query := flag.String("query", "", "if set, run a RAG query instead of listing")
	topK := flag.Int("top-k", 5, "result count when -query is set")
	flag.Parse()

	if *userID == "" {
		color.Red("error: -user is required")
		os.Exit(1)
	}

	mem, err := memory.New(*dbPath, embedding.NewGeminiProvider(""))
	if err != nil {
		color.Red("failed to open %s: %v", *dbPath, err)
		os.Exit(1)
	}
	defer mem.Close()

	ctx := context.Background()

	if *query != "" {
		color.Cyan("querying %q for user %s (top_k=%d)", *query, *userID, *topK)
		results, err := mem.RAG.Query(ctx, *userID, *query, *topK)
		if err != nil {
			color.Red("query failed: %v", err)
			os.Exit(1)
		}
		if len(results) == 0 {
			color.Yellow("no matches")
			return
		}
		for i, r := range results {
			color.Green("%d. %s (score %.4f)", i+1, r.Doc.DocID, r.Score)
			fmt.Printf("   %s\n", truncate(r.Doc.Text, 120))
		}
		return
	}

	color.Cyan("listing documents for user %s", *userID)
	docs, err := mem.RAG.List(ctx, *userID)
	if err != nil {
		color.Red("list failed: %v", err)
		os.Exit(1)
	}
	if len(docs) == 0 {
		color.Yellow("no documents")
		return
	}
	for _, d := range docs {
		color.Green("%s", d.DocID)
		fmt.Printf("   %s\n", truncate(d.Text, 120))
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/article-engine/internal/research"
	"github.com/pdiddy/article-engine/internal/secrets"
)

var researchCmd = &cobra.Command{
	Use:   "research",
	Short: "Run web research for a topic without generating an article",
	Long: `Research queries the search provider for a topic and prints the gathered
sources, insights, and keywords. Results are cached per topic and depth, so a
later generate run on the same topic skips the network.`,
	RunE: runResearch,
}

func init() {
	researchCmd.Flags().String("topic", "", "research topic (required)")
	researchCmd.Flags().Bool("deep", false, "advanced search depth with raw page content")
	researchCmd.Flags().String("cache-dir", ".cache", "research cache directory (empty disables caching)")
	researchCmd.Flags().Bool("clear-cache", false, "drop all cached research before querying")
	researchCmd.Flags().Bool("json", false, "output results as JSON")
	researchCmd.Flags().String("tavily-key", "", "Tavily API key (default: .secrets/ or TAVILY_API_KEY)")

	rootCmd.AddCommand(researchCmd)
}

func runResearch(cmd *cobra.Command, args []string) error {
	topic, _ := cmd.Flags().GetString("topic")
	if topic == "" {
		return fmt.Errorf("--topic is required")
	}
	deep, _ := cmd.Flags().GetBool("deep")
	cacheDir, _ := cmd.Flags().GetString("cache-dir")
	clearCache, _ := cmd.Flags().GetBool("clear-cache")
	asJSON, _ := cmd.Flags().GetBool("json")
	tavilyFlag, _ := cmd.Flags().GetString("tavily-key")

	tavilyKey := secretDefault(secrets.KeyTavily, tavilyFlag)
	if tavilyKey == "" {
		tavilyKey = secrets.Resolve(loadedSecrets, secrets.KeyTavily, "TAVILY_API_KEY")
	}
	if tavilyKey == "" {
		return fmt.Errorf("Tavily API key is missing: set --tavily-key, TAVILY_API_KEY, or .secrets/%s", secrets.KeyTavily)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	svc := &research.Service{
		Backend: &research.Client{APIKey: tavilyKey, UserAgent: defaultUserAgent},
		Logger:  logger,
	}
	if cacheDir != "" {
		store, err := research.OpenStore(cacheDir)
		if err != nil {
			return fmt.Errorf("opening research cache: %w", err)
		}
		defer store.Close()
		svc.Store = store
		if clearCache {
			if err := store.Clear(cmd.Context()); err != nil {
				return err
			}
		}
	}

	start := time.Now()
	data, err := svc.Research(cmd.Context(), topic, deep)
	if err != nil {
		return err
	}

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(data)
	}

	fmt.Printf("research for %q (%d source(s), %s)\n\n", topic, len(data.Sources), time.Since(start).Round(time.Millisecond))
	for i, src := range data.Sources {
		fmt.Printf("%2d. %s\n    %s\n", i+1, src.Title, src.URL)
	}
	if len(data.Insights) > 0 {
		fmt.Printf("\ninsights:\n")
		for _, in := range data.Insights {
			fmt.Printf("  - %s\n", in)
		}
	}
	if len(data.Keywords) > 0 {
		fmt.Printf("\nkeywords: %v\n", data.Keywords)
	}
	return nil
}

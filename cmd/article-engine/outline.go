// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/article-engine/internal/plan"
	"github.com/pdiddy/article-engine/pkg/types"
)

var outlineCmd = &cobra.Command{
	Use:   "outline",
	Short: "Derive or validate an article outline",
	Long: `Outline prints the section plan a generate run would use: either the
outline derived from the topic and word count, or a YAML outline file after
validation. The output is itself valid --outline input.`,
	RunE: runOutline,
}

func init() {
	outlineCmd.Flags().String("topic", "", "topic to derive an outline for")
	outlineCmd.Flags().Int("word-count", 1500, "target word count for the whole article")
	outlineCmd.Flags().String("file", "", "validate and print this outline file instead of deriving one")

	rootCmd.AddCommand(outlineCmd)
}

func runOutline(cmd *cobra.Command, args []string) error {
	topic, _ := cmd.Flags().GetString("topic")
	wordCount, _ := cmd.Flags().GetInt("word-count")
	file, _ := cmd.Flags().GetString("file")

	if topic == "" && file == "" {
		return fmt.Errorf("provide --topic or --file")
	}

	outline, err := resolveOutline(topic, wordCount, file)
	if err != nil {
		return err
	}

	enc := yaml.NewEncoder(os.Stdout)
	defer enc.Close()
	return enc.Encode(outline)
}

func resolveOutline(topic string, wordCount int, file string) (types.Outline, error) {
	if file != "" {
		return plan.LoadOutline(file)
	}
	return plan.BuildOutline(topic, wordCount), nil
}

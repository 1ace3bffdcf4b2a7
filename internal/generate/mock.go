// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package generate

import (
	"context"
	"fmt"
	"strings"
)

// MockService is an offline Service for local runs and tests. Generate
// produces deterministic filler sized roughly to the constraint; Paraphrase
// reverses the sentence order so output text differs without a model call.
type MockService struct{}

func (MockService) Generate(_ context.Context, prompt string, c Constraints) (string, error) {
	words := c.TargetWords
	if words <= 0 {
		words = 120
	}
	sentences := words / 12
	if sentences < 3 {
		sentences = 3
	}

	var b strings.Builder
	for i := 0; i < sentences; i++ {
		if i > 0 && i%4 == 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "Placeholder sentence %d drafted offline for this section. ", i+1)
	}
	return strings.TrimSpace(b.String()), nil
}

func (MockService) Paraphrase(_ context.Context, req ParaphraseRequest) (string, error) {
	parts := strings.Split(strings.TrimSpace(req.Text), ". ")
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, ". "), nil
}

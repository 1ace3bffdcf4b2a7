// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package polish

import "github.com/pdiddy/article-engine/pkg/types"

// applyTiers stamps every section with the style tier projected from its
// heading level, overriding any prior typography selection. The projection
// is a pure function of the level, so repeated application is a no-op.
func applyTiers(article *types.Article) {
	for _, sec := range article.Sections {
		sec.Tier = types.TierForLevel(sec.Level)
	}
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package research

import (
	"context"
	"io"
	"log/slog"

	"github.com/pdiddy/article-engine/pkg/types"
)

// Searcher is the outbound search boundary, satisfied by *Client and by
// test fakes.
type Searcher interface {
	Search(ctx context.Context, topic string, deep bool) (*types.ResearchData, error)
}

// Service answers research requests through a read-through cache: cache
// hits skip the network entirely, misses query the backend and persist the
// result. A nil Store disables caching.
type Service struct {
	Backend Searcher
	Store   *Store
	Logger  *slog.Logger
}

func (s *Service) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Research returns research data for the topic at the requested depth.
// A cache read failure is logged and treated as a miss; a cache write
// failure is logged and the fresh data still returned.
func (s *Service) Research(ctx context.Context, topic string, deep bool) (*types.ResearchData, error) {
	if s.Store != nil {
		data, ok, err := s.Store.Get(ctx, topic, deep)
		if err != nil {
			s.logger().Warn("research_cache_read_failed", slog.String("topic", topic), slog.String("error", err.Error()))
		} else if ok {
			s.logger().Debug("research_cache_hit", slog.String("topic", topic), slog.Bool("deep", deep))
			return data, nil
		}
	}

	data, err := s.Backend.Search(ctx, topic, deep)
	if err != nil {
		return nil, err
	}

	if s.Store != nil {
		if err := s.Store.Put(ctx, topic, deep, data); err != nil {
			s.logger().Warn("research_cache_write_failed", slog.String("topic", topic), slog.String("error", err.Error()))
		}
	}
	return data, nil
}

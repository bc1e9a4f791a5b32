package resource

import (
	"context"

	"github.com/nhle/maildesk/internal/api"
	"github.com/nhle/maildesk/internal/model"
)

// Stats is the statistics unit behind the header counters.
type Stats struct {
	client *api.Client
	q      query[model.Stats]
}

func NewStats(client *api.Client) *Stats {
	return &Stats{client: client}
}

func (s *Stats) Snapshot() State[model.Stats] {
	return s.q.snapshot()
}

// Load re-reads the aggregates.
func (s *Stats) Load(ctx context.Context) error {
	seq := s.q.begin()
	stats, err := s.client.Stats(ctx)

	var data model.Stats
	if stats != nil {
		data = *stats
	}
	if !s.q.finish(seq, data, err) {
		return nil
	}
	return err
}

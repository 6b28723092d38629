package job

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"
)

// ViewBucketPruner drops view buckets past the retention window.
type ViewBucketPruner interface {
	PruneViewBuckets(ctx context.Context) (int64, error)
}

// TrendingRefresher recomputes the cached trending lists.
type TrendingRefresher interface {
	RefreshTrending(ctx context.Context) error
}

// PruneViewBucketsHandler runs the daily view bucket cleanup.
type PruneViewBucketsHandler struct {
	pruner ViewBucketPruner
}

func NewPruneViewBucketsHandler(pruner ViewBucketPruner) *PruneViewBucketsHandler {
	return &PruneViewBucketsHandler{pruner: pruner}
}

func (h *PruneViewBucketsHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	deleted, err := h.pruner.PruneViewBuckets(ctx)
	if err != nil {
		return fmt.Errorf("prune view buckets: %w", err)
	}

	log.Info().Int64("deleted", deleted).Msg("Pruned expired view buckets")
	return nil
}

// WarmTrendingHandler keeps both trending windows cached.
type WarmTrendingHandler struct {
	refresher TrendingRefresher
}

func NewWarmTrendingHandler(refresher TrendingRefresher) *WarmTrendingHandler {
	return &WarmTrendingHandler{refresher: refresher}
}

func (h *WarmTrendingHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	if err := h.refresher.RefreshTrending(ctx); err != nil {
		return fmt.Errorf("warm trending cache: %w", err)
	}

	log.Debug().Msg("Trending cache warmed")
	return nil
}

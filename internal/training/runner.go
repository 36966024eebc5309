package training

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sekka-transit/sekka/internal/adapters/dataset"
	"github.com/sekka-transit/sekka/internal/domain/types"
	"github.com/sekka-transit/sekka/pkg/logger"
	"github.com/sekka-transit/sekka/pkg/metrics"
)

// defaultWorkers bounds concurrent route training when not configured.
const defaultWorkers = 4

// Runner trains every route of a dataset. Routes are independent: each
// worker reads one route's observations and writes one route's artifact
// pair, so no coordination beyond the job channel is needed.
type Runner struct {
	trainer *Trainer
	workers int
	log     logger.Logger
}

// NewRunner creates a batch runner over the given trainer.
func NewRunner(trainer *Trainer, workers int) *Runner {
	if workers <= 0 {
		workers = defaultWorkers
	}
	return &Runner{
		trainer: trainer,
		workers: workers,
		log:     logger.Named("runner"),
	}
}

// Run trains all routes and returns exactly one report row per distinct
// route id, in sorted route order. A route failure is recorded and the
// batch continues; only context cancellation stops the run early.
func (r *Runner) Run(ctx context.Context, byRoute map[string][]types.Observation) []types.ReportRow {
	runID := uuid.NewString()
	ids := dataset.RouteIDs(byRoute)

	r.log.Info(ctx, "training batch started",
		logger.String("run_id", runID),
		logger.Int("routes", len(ids)),
		logger.Int("workers", r.workers),
	)
	metrics.UpdateTrainerWorkers(r.workers)
	metrics.UpdateTrainingQueueSize(len(ids))

	jobs := make(chan string)
	results := make(map[string]types.ReportRow, len(ids))
	var mu sync.Mutex

	var wg sync.WaitGroup
	for w := 0; w < r.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for routeID := range jobs {
				row := r.trainRoute(ctx, runID, routeID, byRoute[routeID])
				mu.Lock()
				results[routeID] = row
				metrics.UpdateTrainingQueueSize(len(ids) - len(results))
				mu.Unlock()
			}
		}()
	}

feed:
	for _, id := range ids {
		select {
		case jobs <- id:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	rows := make([]types.ReportRow, 0, len(ids))
	for _, id := range ids {
		if row, ok := results[id]; ok {
			rows = append(rows, row)
			continue
		}
		errMsg := "training skipped"
		if cause := context.Cause(ctx); cause != nil {
			errMsg = cause.Error()
		}
		rows = append(rows, types.ReportRow{RouteID: id, Err: errMsg})
	}
	r.log.Info(ctx, "training batch finished", logger.String("run_id", runID), logger.Int("routes", len(rows)))
	return rows
}

func (r *Runner) trainRoute(ctx context.Context, runID, routeID string, obs []types.Observation) types.ReportRow {
	start := time.Now()
	r.log.Debug(ctx, "training route",
		logger.String("run_id", runID),
		logger.String("route_id", routeID),
		logger.Int("rows", len(obs)),
	)

	m, err := r.trainer.TrainAndEvaluate(ctx, routeID, obs)
	if err != nil {
		metrics.RecordRouteFailed()
		r.log.Warn(ctx, "route training failed",
			logger.String("run_id", runID),
			logger.String("route_id", routeID),
			logger.Error(err),
		)
		return types.ReportRow{RouteID: routeID, Err: err.Error()}
	}

	metrics.RecordRouteTrained(float64(time.Since(start).Milliseconds()))
	return types.ReportRow{
		RouteID:   routeID,
		MAE:       m.MAE,
		RMSE:      m.RMSE,
		TrainRows: m.TrainRows,
		TestRows:  m.TestRows,
	}
}

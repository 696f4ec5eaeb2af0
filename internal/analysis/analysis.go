// Package analysis holds the three passes run over parsed records:
// traffic ranking, brute-force detection and sensitive-endpoint detection.
// Each pass only reads its input.
package analysis

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/akave-ai/logaudit/internal/model"
)

// Options configures the detection passes.
type Options struct {
	BruteForce     BruteForceRule
	SensitivePaths []string
}

// Results holds the output of every pass.
type Results struct {
	Records    int
	Traffic    TrafficRanking
	BruteForce []model.BruteForceFinding
	Sensitive  []model.SourceHits
}

// Run executes the passes concurrently over the same records and waits for
// all of them. The result equals running them one after another.
func Run(ctx context.Context, records []model.LogRecord, opts Options) (Results, error) {
	res := Results{Records: len(records)}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		res.Traffic = RankTraffic(records)
		return nil
	})
	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		res.BruteForce = DetectBruteForce(records, opts.BruteForce)
		return nil
	})
	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		res.Sensitive = DetectSensitive(records, opts.SensitivePaths)
		return nil
	})

	if err := g.Wait(); err != nil {
		return Results{}, err
	}
	return res, nil
}

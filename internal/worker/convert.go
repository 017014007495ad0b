package worker

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/lgbarn/termchess/internal/hashing"
	"github.com/lgbarn/termchess/internal/notation"
	"github.com/lgbarn/termchess/internal/processing"
)

// ConvertFENLog returns a ConvertFunc that reads a FEN log from disk and
// rebuilds it as an analysed game.
func ConvertFENLog() ConvertFunc {
	return func(_ context.Context, job Job) Result {
		result := Result{Path: job.Path, Index: job.Index}

		f, err := os.Open(job.Path)
		if err != nil {
			result.Error = err
			return result
		}
		defer f.Close()

		game, err := notation.ReadFENLog(f)
		if err != nil {
			result.Error = fmt.Errorf("%s: %w", job.Path, err)
			return result
		}
		analysis, err := processing.AnalyzeGame(game)
		if err != nil {
			result.Error = fmt.Errorf("%s: %w", job.Path, err)
			return result
		}

		result.Game = game
		result.Analysis = analysis
		result.Final = analysis.Final
		return result
	}
}

// ProcessAll runs convert over paths with numWorkers workers and returns
// the results in input order. Paths not reached before ctx is cancelled
// carry the context error.
func ProcessAll(ctx context.Context, paths []string, numWorkers int, convert ConvertFunc) []Result {
	pool := NewPool(ctx, convert, Workers(numWorkers), QueueSize(len(paths)+1))
	pool.Start()

	go func() {
		for i, path := range paths {
			if !pool.Submit(Job{Path: path, Index: i}) {
				break
			}
		}
		pool.Close()
	}()

	results := make([]Result, 0, len(paths))
	for result := range pool.Results() {
		results = append(results, result)
	}
	sort.Slice(results, func(i, j int) bool {
		return results[i].Index < results[j].Index
	})
	for i := len(results); i < len(paths); i++ {
		results = append(results, Result{Path: paths[i], Index: i, Error: context.Cause(ctx)})
	}
	return results
}

// MarkDuplicates flags every successful result whose final position was
// seen in an earlier result. Results are visited in slice order so the
// first occurrence is always kept.
func MarkDuplicates(results []Result, dupes *hashing.SharedDetector) int {
	marked := 0
	for i := range results {
		if results[i].Error != nil || results[i].Game == nil {
			continue
		}
		if dupes.CheckAndAdd(results[i].Game, results[i].Final) {
			results[i].Duplicate = true
			marked++
		}
	}
	return marked
}

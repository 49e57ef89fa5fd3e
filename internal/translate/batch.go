package translate

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

const (
	DefaultBatchSize   = 50
	DefaultConcurrency = 3
)

type batchFunc func(
	ctx context.Context,
	items []TranslationItem,
) ([]TranslationResult, error)

// Items are split into batches of BatchSize. Each batch becomes one API
// request. Workers (up to Concurrency) pull batches from a shared queue and
// the first failure cancels the rest.
func translateInBatches(
	ctx context.Context,
	provider Provider,
	opts Options,
	items []TranslationItem,
	translateBatch batchFunc,
) ([]TranslationResult, error) {
	if len(items) == 0 {
		return []TranslationResult{}, nil
	}

	batchSize := opts.BatchSize
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	var batches [][]TranslationItem
	for i := 0; i < len(items); i += batchSize {
		end := i + batchSize
		if end > len(items) {
			end = len(items)
		}
		batches = append(batches, items[i:end])
	}

	run := func(ctx context.Context, batch []TranslationItem) ([]TranslationResult, error) {
		results, err := translateBatch(ctx, batch)
		if opts.OnBatch != nil {
			opts.OnBatch(provider, err)
		}
		return results, err
	}

	if len(batches) == 1 {
		return run(ctx, batches[0])
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	type batchResult struct {
		Index   int
		Results []TranslationResult
		Error   error
	}

	workChan := make(chan int)
	resultChan := make(chan batchResult, len(batches))

	var wg sync.WaitGroup
	for i := 0; i < concurrency && i < len(batches); i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for batchIdx := range workChan {
				if ctx.Err() != nil {
					return
				}
				results, err := run(ctx, batches[batchIdx])
				if err != nil {
					cancel()
				}
				resultChan <- batchResult{
					Index:   batchIdx,
					Results: results,
					Error:   err,
				}
			}
		}()
	}

	go func() {
		defer close(workChan)
		for i := range batches {
			select {
			case <-ctx.Done():
				return
			case workChan <- i:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(resultChan)
	}()

	var allResults []TranslationResult
	var firstErr error
	for result := range resultChan {
		if result.Error != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("batch %d failed: %w", result.Index, result.Error)
			}
			continue
		}
		allResults = append(allResults, result.Results...)
	}

	if firstErr != nil {
		return nil, firstErr
	}
	if err := ctx.Err(); err != nil && len(allResults) < len(items) {
		return nil, err
	}

	sort.Slice(allResults, func(i, j int) bool {
		return allResults[i].Index < allResults[j].Index
	})

	return allResults, nil
}

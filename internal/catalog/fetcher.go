package catalog

import (
	"context"
	"sync"
)

// Lister loads catalog entries for one category.
type Lister interface {
	ListByCategory(ctx context.Context, category string) ([]Entry, error)
}

// FetchResult is delivered to the fetcher's apply callback once a category
// load finishes and is still the newest request for that category.
type FetchResult struct {
	Category string
	Entries  []Entry
	Err      error
}

// Fetcher runs category loads concurrently while guaranteeing that only the
// latest request per category is ever applied. A request issued for a
// category supersedes any in-flight request for the same category; the
// superseded response is discarded when it arrives. After Close, no result
// is applied at all.
type Fetcher struct {
	lister Lister
	apply  func(FetchResult)

	mu     sync.Mutex
	seq    map[string]uint64
	closed bool
	wg     sync.WaitGroup
}

// NewFetcher builds a fetcher delivering results to apply. The callback is
// invoked from loader goroutines, one category at a time, never after Close
// returns the fetcher to an idle state.
func NewFetcher(lister Lister, apply func(FetchResult)) *Fetcher {
	return &Fetcher{
		lister: lister,
		apply:  apply,
		seq:    make(map[string]uint64),
	}
}

// Fetch starts an asynchronous load for the category, superseding any load
// still in flight for it.
func (f *Fetcher) Fetch(ctx context.Context, category string) {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return
	}
	f.seq[category]++
	token := f.seq[category]
	// Add while still holding the lock: once Close has set closed it must
	// be able to trust wg.Wait to see every in-flight load.
	f.wg.Add(1)
	f.mu.Unlock()

	go func() {
		defer f.wg.Done()

		entries, err := f.lister.ListByCategory(ctx, category)

		f.mu.Lock()
		defer f.mu.Unlock()
		if f.closed || f.seq[category] != token {
			// A newer request owns this category now, or the fetcher
			// shut down while we were loading. Drop the result.
			return
		}
		f.apply(FetchResult{Category: category, Entries: entries, Err: err})
	}()
}

// Close stops result delivery and waits for in-flight loads to drain.
// Results completing after Close are discarded, never applied.
func (f *Fetcher) Close() {
	f.mu.Lock()
	f.closed = true
	f.mu.Unlock()
	f.wg.Wait()
}

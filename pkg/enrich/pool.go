// Package enrich runs data sources against listing collections with a
// bounded worker pool. Each listing is enriched by exactly one task, which
// owns it exclusively for the duration: sources write attributes without
// any per-listing locking, and Run joins all tasks before the collection is
// exposed for querying again.
package enrich

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/forecourt/pkg/types"
)

// DefaultWorkers bounds the pool when the caller does not.
const DefaultWorkers = 5

// Source enriches one listing from an external collaborator (an API
// client, a scraper detail pass). Implementations receive primitive values
// already parsed from the wire and report them through the listing's
// attribute API. Errors mean this source contributed nothing to this
// listing; they never abort the batch.
type Source interface {
	// Name identifies the source; it becomes the provenance source name.
	Name() string

	// Enrich adds attributes to the listing. The listing is owned by the
	// calling task; no other goroutine touches it until Run returns.
	Enrich(ctx context.Context, l *types.Listing) error
}

// Pool fans a collection out to workers, one listing per task, running
// every source against each listing in order.
type Pool struct {
	sources []Source
	workers int
	log     *zap.Logger
}

// NewPool creates a pool over the given sources. Non-positive workers fall
// back to DefaultWorkers; a nil logger disables diagnostics.
func NewPool(sources []Source, workers int, log *zap.Logger) *Pool {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Pool{sources: sources, workers: workers, log: log}
}

// Run enriches every listing in the collection and returns when all tasks
// have finished or ctx is cancelled. Source failures are logged per
// listing and skipped. The collection itself is only read; listings are
// mutated by their owning task.
func (p *Pool) Run(ctx context.Context, c *types.Collection) {
	if c.Len() == 0 {
		p.log.Warn("no listings to enrich")
		return
	}
	p.log.Info("enriching listings",
		zap.Int("listings", c.Len()),
		zap.Int("workers", p.workers))

	sem := make(chan struct{}, p.workers)
	var wg sync.WaitGroup
	for _, l := range c.Listings {
		if ctx.Err() != nil {
			break
		}
		wg.Add(1)
		sem <- struct{}{}
		go func(l *types.Listing) {
			defer wg.Done()
			defer func() { <-sem }()
			p.enrichListing(ctx, l)
		}(l)
	}
	wg.Wait()

	p.log.Info("enrichment complete", zap.Int("listings", c.Len()))
}

// enrichListing runs each source against one listing.
func (p *Pool) enrichListing(ctx context.Context, l *types.Listing) {
	for _, src := range p.sources {
		if ctx.Err() != nil {
			return
		}
		if err := src.Enrich(ctx, l); err != nil {
			p.log.Error("source failed for listing",
				zap.String("source", src.Name()),
				zap.String("listing_id", l.ListingID),
				zap.Error(err))
		}
	}
}

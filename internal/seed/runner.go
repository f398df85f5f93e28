package seed

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"expertise-marketplace/internal/domain/expert"
	"expertise-marketplace/internal/usecase"

	"github.com/panjf2000/ants/v2"
)

const (
	defaultWorkers     = 4
	invalidateDeadline = 5 * time.Second
)

type Report struct {
	Upserted int
	Failed   int
}

// Runner upserts seed records through a bounded worker pool. A failed record
// is logged and counted; the rest are still written. When Cache is set, the
// cached expert listings are retired once anything was written.
type Runner struct {
	Workers int
	Logger  *log.Logger
	Now     func() time.Time
	Cache   usecase.ListingCache
}

func (r Runner) Run(ctx context.Context, repo expert.Repository, experts []expert.Expert) (Report, error) {
	if repo == nil {
		return Report{}, fmt.Errorf("nil repository")
	}
	logger := r.Logger
	if logger == nil {
		logger = log.Default()
	}
	now := r.Now
	if now == nil {
		now = time.Now
	}
	workers := r.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}

	pool, err := ants.NewPool(workers)
	if err != nil {
		return Report{}, fmt.Errorf("create seed pool: %w", err)
	}
	defer pool.Release()

	var (
		mu     sync.Mutex
		report Report
		wg     sync.WaitGroup
	)
	record := func(name string, err error) {
		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			report.Failed++
			logger.Printf("[Seed] failed | name=%s error=%v", name, err)
			return
		}
		report.Upserted++
		logger.Printf("[Seed] upserted | name=%s", name)
	}

	for _, e := range experts {
		e := prepare(e, now)
		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			record(e.Name, repo.Upsert(ctx, e))
		})
		if submitErr != nil {
			wg.Done()
			record(e.Name, submitErr)
		}
	}
	wg.Wait()

	if report.Upserted > 0 && r.Cache != nil {
		// The run deadline may already be spent; the writes landed regardless.
		ictx, cancel := context.WithTimeout(context.WithoutCancel(ctx), invalidateDeadline)
		defer cancel()
		if err := usecase.InvalidateListingCache(ictx, r.Cache); err != nil {
			logger.Printf("[Seed] listing cache invalidation failed | error=%v", err)
		} else {
			logger.Printf("[Seed] listing cache invalidated")
		}
	}

	return report, ctx.Err()
}

func prepare(e expert.Expert, now func() time.Time) expert.Expert {
	e.ID = strings.TrimSpace(e.ID)
	if e.CreatedAt.IsZero() {
		e.CreatedAt = now().UTC()
	}
	if e.Status == "" {
		e.Status = expert.StatusActive
	}
	if strings.TrimSpace(e.Bio) == "" {
		e.Bio = expert.DefaultBio(e.Name, e.Title, e.Department, e.Affiliate)
	}
	return e
}

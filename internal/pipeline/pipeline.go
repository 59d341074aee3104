package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/davidread/jobadscrape/internal/config"
	"github.com/davidread/jobadscrape/internal/errs"
	"github.com/davidread/jobadscrape/internal/listing"
	"github.com/davidread/jobadscrape/internal/repo"
	"github.com/davidread/jobadscrape/internal/scrape"
	"github.com/davidread/jobadscrape/internal/sheets"
	"github.com/davidread/jobadscrape/internal/stats"
)

// Fetcher is the job-site capability the pipeline consumes.
type Fetcher interface {
	NewSession(ctx context.Context) (*scrape.Session, error)
	Search(ctx context.Context, sess *scrape.Session, p scrape.SearchParams) ([]scrape.Result, error)
	Detail(ctx context.Context, r scrape.Result, now time.Time) (listing.Listing, error)
}

// Renderer turns one listing into PDF bytes.
type Renderer interface {
	Render(l listing.Listing) ([]byte, error)
}

// Pipeline runs one full scrape: session, searches, then per listing
// fetch -> parse -> render -> publish. Listings are processed in the
// order the site returns them.
type Pipeline struct {
	cfg      *config.Config
	fetcher  Fetcher
	renderer Renderer
	sheet    *sheets.Publisher
	files    *repo.Publisher
	now      func() time.Time
}

func New(cfg *config.Config, f Fetcher, r Renderer, sheet *sheets.Publisher, files *repo.Publisher) *Pipeline {
	return &Pipeline{
		cfg:      cfg,
		fetcher:  f,
		renderer: r,
		sheet:    sheet,
		files:    files,
		now:      time.Now,
	}
}

// Run executes every configured search. Per-listing failures are
// logged and counted, never fatal. Run fails only when the session
// cannot be established, every search fails, or a publish credential
// goes bad mid-run.
func (p *Pipeline) Run(ctx context.Context) (*stats.Run, error) {
	run := stats.NewRun()

	sess, err := p.fetcher.NewSession(ctx)
	if err != nil {
		return run, fmt.Errorf("establish session: %w", err)
	}

	failedSearches := 0
	for _, s := range p.cfg.Searches {
		results, err := p.fetcher.Search(ctx, sess, scrape.SearchParams{
			Department:   s.Department,
			RoleCategory: s.RoleCategory,
		})
		if err != nil {
			log.Printf("search %s failed: %v", s.OutputFolder, err)
			failedSearches++
			continue
		}
		log.Printf("search %s: found %d job listings", s.OutputFolder, len(results))

		for _, r := range results {
			if err := p.processListing(ctx, s, r, run); err != nil {
				return run, err
			}
		}
	}

	if failedSearches == len(p.cfg.Searches) {
		return run, fmt.Errorf("all %d searches failed", failedSearches)
	}
	return run, nil
}

// processListing handles one search result end to end. The sheet row
// is written after the PDF commit, so a row's presence implies the PDF
// landed and the whole listing can be skipped next run.
func (p *Pipeline) processListing(ctx context.Context, s config.Search, r scrape.Result, run *stats.Run) error {
	if r.URL == "" {
		log.Printf("skipping result with no link: %q", r.Title)
		run.Add(s.OutputFolder, stats.Failed)
		return nil
	}

	// Keyed on the vacancy reference, not the URL: the site mints a
	// fresh session token into every href, so yesterday's ad arrives
	// under a new URL today.
	if p.sheet.Has(r.Key()) {
		run.Add(s.OutputFolder, stats.Existing)
		return nil
	}

	l, err := p.fetcher.Detail(ctx, r, p.now())
	if err != nil {
		log.Printf("error processing job %s: %v", r.URL, err)
		run.Add(s.OutputFolder, stats.Failed)
		return nil
	}

	pdfBytes, err := p.renderer.Render(l)
	if err != nil {
		log.Printf("error rendering job %s: %v", l.URL, err)
		run.Add(s.OutputFolder, stats.Failed)
		return nil
	}

	path := l.PDFPath(s.OutputFolder)

	added, err := p.files.Publish(ctx, path, pdfBytes)
	if err != nil {
		if errors.Is(err, errs.ErrAuth) {
			return fmt.Errorf("publish %s: %w", path, err)
		}
		log.Printf("error uploading %s: %v", path, err)
		run.Add(s.OutputFolder, stats.Failed)
		return nil
	}

	rowAdded, err := p.sheet.Publish(ctx, l)
	if err != nil {
		if errors.Is(err, errs.ErrAuth) {
			return fmt.Errorf("append row for %s: %w", l.URL, err)
		}
		log.Printf("error appending row for %s: %v", l.URL, err)
		run.Add(s.OutputFolder, stats.Failed)
		return nil
	}

	if added || rowAdded {
		log.Printf("published %s", path)
		run.Add(s.OutputFolder, stats.New)
	} else {
		run.Add(s.OutputFolder, stats.Existing)
	}
	return nil
}

package scraper

import (
	"context"
	"log"
	"time"

	"github.com/Sarthak-Malla/gradsearch-demo/internal/browser"
	"github.com/Sarthak-Malla/gradsearch-demo/internal/model"
)

// searchPlan captures the per-board knobs of the shared search loop: where
// to navigate, which container signals results, how to reach the next page,
// and how to turn rendered markup into raw listings.
type searchPlan struct {
	source          model.Source
	searchURL       string
	resultsSelector string
	nextSelector    string
	settle          time.Duration
	parse           func(html string, scrapedAt time.Time) []model.RawListing
}

// runSearch executes the page loop for one board inside a single browser
// session. Failures after the session exists degrade to whatever listings
// were already collected; only a launch failure is reported as an error.
func runSearch(ctx context.Context, launcher browser.Launcher, plan searchPlan, pages int) ([]model.RawListing, error) {
	sess, err := launcher.Launch(ctx)
	if err != nil {
		return nil, err
	}
	defer sess.Close()

	log.Printf("[scraper] %s: navigating to %s", plan.source, plan.searchURL)
	listings := []model.RawListing{}

	if err := sess.Navigate(ctx, plan.searchURL); err != nil {
		log.Printf("[scraper] %s: navigation failed: %v", plan.source, err)
		return listings, nil
	}
	if err := sess.WaitVisible(ctx, plan.resultsSelector); err != nil {
		// Pages may legitimately render empty; proceed with whatever loaded.
		log.Printf("[scraper] %s: selector timeout, proceeding anyway", plan.source)
	}

	for page := 0; page < pages; page++ {
		html, err := sess.HTML(ctx)
		if err != nil {
			log.Printf("[scraper] %s: reading page %d failed: %v", plan.source, page+1, err)
			break
		}

		pageListings := plan.parse(html, time.Now().UTC())
		log.Printf("[scraper] %s: found %d jobs on page %d of %d", plan.source, len(pageListings), page+1, pages)
		listings = append(listings, pageListings...)

		if page == pages-1 {
			break
		}
		clicked, err := sess.ClickIfPresent(ctx, plan.nextSelector)
		if err != nil {
			log.Printf("[scraper] %s: next-page click failed: %v", plan.source, err)
			break
		}
		if !clicked {
			log.Printf("[scraper] %s: no more pages to scrape", plan.source)
			break
		}
		sleep(ctx, plan.settle)
		if err := sess.WaitVisible(ctx, plan.resultsSelector); err != nil {
			log.Printf("[scraper] %s: results selector timeout after paging, proceeding anyway", plan.source)
		}
	}

	log.Printf("[scraper] %s: search complete, %d jobs total", plan.source, len(listings))
	return listings, nil
}

// fetchDetailHTML navigates a fresh session to a listing page and returns
// the rendered markup. An empty string means the page could not be read.
func fetchDetailHTML(ctx context.Context, launcher browser.Launcher, source model.Source, url, readySelector string) string {
	sess, err := launcher.Launch(ctx)
	if err != nil {
		log.Printf("[scraper] %s: detail session launch failed: %v", source, err)
		return ""
	}
	defer sess.Close()

	if err := sess.Navigate(ctx, url); err != nil {
		log.Printf("[scraper] %s: detail navigation failed for %s: %v", source, url, err)
		return ""
	}
	if err := sess.WaitVisible(ctx, readySelector); err != nil {
		log.Printf("[scraper] %s: detail selector timeout for %s, proceeding anyway", source, url)
	}

	html, err := sess.HTML(ctx)
	if err != nil {
		log.Printf("[scraper] %s: reading detail page %s failed: %v", source, url, err)
		return ""
	}
	return html
}

package scraper

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/Sarthak-Malla/gradsearch-demo/internal/browser"
	"github.com/Sarthak-Malla/gradsearch-demo/internal/model"
)

const (
	indeedSearchBase      = "https://www.indeed.com/jobs"
	indeedViewJobBase     = "https://www.indeed.com/viewjob?jk="
	indeedResultsSelector = "#mosaic-jobResults"
	indeedNextSelector    = `[data-testid="pagination-page-next"]`
	indeedDetailSelector  = "#jobDescriptionText"
)

// Indeed extracts entry-level listings from Indeed's job search.
type Indeed struct {
	launcher    browser.Launcher
	settleDelay time.Duration
}

// NewIndeed constructs an Indeed extractor over the given launcher.
func NewIndeed(launcher browser.Launcher) *Indeed {
	return &Indeed{launcher: launcher, settleDelay: pageSettleDelay}
}

func (i *Indeed) Source() model.Source { return model.SourceIndeed }

// Search pages through Indeed search results for the given location.
func (i *Indeed) Search(ctx context.Context, location string, pages int) ([]model.RawListing, error) {
	return runSearch(ctx, i.launcher, searchPlan{
		source:          model.SourceIndeed,
		searchURL:       indeedSearchURL(location),
		resultsSelector: indeedResultsSelector,
		nextSelector:    indeedNextSelector,
		settle:          i.settleDelay,
		parse:           parseIndeedListings,
	}, pages)
}

func indeedSearchURL(location string) string {
	params := url.Values{}
	params.Set("q", searchQuery)
	params.Set("l", location)
	return indeedSearchBase + "?" + params.Encode()
}

// parseIndeedListings extracts raw listings from a rendered search page.
// The canonical URL is rebuilt from the card's job key; cards without one
// still yield a listing and deduplicate by the composite identity fallback.
func parseIndeedListings(html string, scrapedAt time.Time) []model.RawListing {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	var listings []model.RawListing
	doc.Find(".job_seen_beacon").Each(func(_ int, card *goquery.Selection) {
		title := strings.TrimSpace(card.Find(".jobTitle span").First().Text())
		company := strings.TrimSpace(card.Find(`[data-testid="company-name"]`).First().Text())
		if title == "" || company == "" {
			return
		}

		jobURL := ""
		if jobKey, ok := card.Find(".jcs-JobTitle").First().Attr("data-jk"); ok && jobKey != "" {
			jobURL = indeedViewJobBase + jobKey
		}

		location := strings.TrimSpace(card.Find(`[data-testid="text-location"]`).First().Text())
		if location == "" {
			location = "Remote/Unspecified"
		}

		listings = append(listings, model.RawListing{
			Title:           title,
			Company:         company,
			Location:        location,
			URL:             jobURL,
			Salary:          strings.TrimSpace(card.Find(".salary-snippet-container").First().Text()),
			Source:          model.SourceIndeed,
			ExperienceLevel: model.ExperienceEntry,
			PostedDate:      scrapedAt,
		})
	})

	return listings
}

// FetchDetails loads one Indeed listing page and extracts description,
// employment type and matched skills. Best-effort: trouble yields
// zero-valued details.
func (i *Indeed) FetchDetails(ctx context.Context, jobURL string) model.JobDetails {
	details := model.JobDetails{JobType: model.JobTypeOther}

	html := fetchDetailHTML(ctx, i.launcher, model.SourceIndeed, jobURL, indeedDetailSelector)
	if html == "" {
		return details
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return details
	}

	details.Description = strings.TrimSpace(doc.Find(indeedDetailSelector).First().Text())

	pageText := doc.Find("body").Text()
	details.JobType = DetectJobType(pageText)
	details.Skills = ExtractSkills(details.Description, pageText)

	return details
}

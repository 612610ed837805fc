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
	linkedInSearchBase      = "https://www.linkedin.com/jobs/search/"
	linkedInResultsSelector = ".jobs-search__results-list"
	linkedInNextSelector    = ".artdeco-pagination__button--next:not(.artdeco-button--disabled)"
	linkedInDetailSelector  = ".job-view-layout"
)

// LinkedIn extracts entry-level listings from LinkedIn's public job search.
type LinkedIn struct {
	launcher    browser.Launcher
	settleDelay time.Duration
}

// NewLinkedIn constructs a LinkedIn extractor over the given launcher.
func NewLinkedIn(launcher browser.Launcher) *LinkedIn {
	return &LinkedIn{launcher: launcher, settleDelay: pageSettleDelay}
}

func (l *LinkedIn) Source() model.Source { return model.SourceLinkedIn }

// Search pages through LinkedIn search results for the given location.
func (l *LinkedIn) Search(ctx context.Context, location string, pages int) ([]model.RawListing, error) {
	return runSearch(ctx, l.launcher, searchPlan{
		source:          model.SourceLinkedIn,
		searchURL:       linkedInSearchURL(location),
		resultsSelector: linkedInResultsSelector,
		nextSelector:    linkedInNextSelector,
		settle:          l.settleDelay,
		parse:           parseLinkedInListings,
	}, pages)
}

func linkedInSearchURL(location string) string {
	params := url.Values{}
	params.Set("keywords", searchQuery)
	params.Set("location", location)
	params.Set("f_E", "1,2") // internship + entry level
	params.Set("f_JT", "F")
	return linkedInSearchBase + "?" + params.Encode()
}

// parseLinkedInListings extracts raw listings from a rendered search page.
// Each card is parsed independently: a malformed card is skipped, not fatal.
func parseLinkedInListings(html string, scrapedAt time.Time) []model.RawListing {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	var listings []model.RawListing
	doc.Find(linkedInResultsSelector + " > li").Each(func(_ int, card *goquery.Selection) {
		title := strings.TrimSpace(card.Find(".base-search-card__title").First().Text())
		company := strings.TrimSpace(card.Find(".base-search-card__subtitle").First().Text())
		href, _ := card.Find("a").First().Attr("href")

		if title == "" || company == "" || href == "" {
			return
		}

		location := strings.TrimSpace(card.Find(".job-search-card__location").First().Text())
		if location == "" {
			location = "Remote/Unspecified"
		}

		listings = append(listings, model.RawListing{
			Title:           title,
			Company:         company,
			Location:        location,
			URL:             href,
			Source:          model.SourceLinkedIn,
			ExperienceLevel: model.ExperienceEntry,
			PostedDate:      scrapedAt,
		})
	})

	return listings
}

// FetchDetails loads one LinkedIn listing page and extracts description,
// employment type, salary and matched skills. Best-effort: trouble yields
// zero-valued details.
func (l *LinkedIn) FetchDetails(ctx context.Context, jobURL string) model.JobDetails {
	details := model.JobDetails{JobType: model.JobTypeOther}

	html := fetchDetailHTML(ctx, l.launcher, model.SourceLinkedIn, jobURL, linkedInDetailSelector)
	if html == "" {
		return details
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return details
	}

	details.Description = strings.TrimSpace(doc.Find(".description__text").First().Text())

	doc.Find(".description__job-criteria-item").Each(func(_ int, item *goquery.Selection) {
		label := strings.TrimSpace(item.Find(".description__job-criteria-subheader").Text())
		value := strings.TrimSpace(item.Find(".description__job-criteria-text").Text())
		if value == "" {
			return
		}
		if strings.Contains(label, "Salary") || strings.Contains(label, "Compensation") {
			details.Salary = value
		}
	})

	pageText := doc.Find("body").Text()
	details.JobType = DetectJobType(pageText)
	details.Skills = ExtractSkills(details.Description, pageText)

	return details
}

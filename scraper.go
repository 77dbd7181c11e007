package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

var ErrExtraction = errors.New("extraction failed")

const scraperUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// Live Nation venue page markup.
const (
	eventCardSelector = `div[role="group"][class^="css-"]`
	titleSelector     = "h2.css-1es4gst"
	fullDateSelector  = "span.css-52t1jy time[datetime]"
	shortDateSelector = "span.css-z4b87k time[datetime]"
)

// Scraper reads show listings off a venue's event page.
type Scraper struct {
	client *http.Client
}

func NewScraper(client *http.Client) *Scraper {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &Scraper{client: client}
}

// Scrape fetches url and returns the listings in page order. Any network
// or markup problem is reported as ErrExtraction.
func (s *Scraper) Scrape(ctx context.Context, url string) ([]RawShow, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExtraction, err)
	}
	req.Header.Set("User-Agent", scraperUserAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: fetching %s: %v", ErrExtraction, url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: fetching %s: HTTP %d", ErrExtraction, url, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: parsing %s: %v", ErrExtraction, url, err)
	}
	return extractShows(doc)
}

func extractShows(doc *goquery.Document) ([]RawShow, error) {
	cards := doc.Find(eventCardSelector)
	if cards.Length() == 0 {
		return nil, fmt.Errorf("%w: no event cards found, the page structure might have changed", ErrExtraction)
	}

	var shows []RawShow
	cards.Each(func(_ int, card *goquery.Selection) {
		titleEl := card.Find(titleSelector).First()
		if titleEl.Length() == 0 {
			return
		}
		title := collapseText(titleEl.Text())

		// prefer "Tue Jun 10, 2025 ▪︎ 7PM" over "Tue Jun 10"
		date := collapseText(card.Find(fullDateSelector).First().Text())
		if date == "" {
			date = collapseText(card.Find(shortDateSelector).First().Text())
		}
		if strings.Contains(date, showKeySeparator) {
			printVerbosely(1, "  ⚠️ Date text '%s' for '%s' contains %q, replacing it with a space.\n", date, title, showKeySeparator)
			date = collapseText(strings.ReplaceAll(date, showKeySeparator, " "))
		}
		if title == "" || date == "" {
			printVerbosely(2, "  ⚠️ Found title '%s' but no date information. Skipping.\n", title)
			return
		}
		shows = append(shows, RawShow{Title: title, DateTimeText: date})
	})

	if len(shows) == 0 {
		return nil, fmt.Errorf("%w: found %d event cards but could not extract details", ErrExtraction, cards.Length())
	}
	return shows, nil
}

// collapseText joins the words of an element's text with single spaces, so
// markup indentation and nested tags never leave newlines in a show key.
func collapseText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// FilterShows drops administrative listings whose trimmed title matches
// one of excluded, ignoring case.
func FilterShows(shows []RawShow, excluded []string) []RawShow {
	filtered := make([]RawShow, 0, len(shows))
	for _, show := range shows {
		if isExcluded(show.Title, excluded) {
			printVerbosely(5, "  🚫 Omitting '%s'\n", show.Title)
			continue
		}
		filtered = append(filtered, show)
	}
	return filtered
}

func isExcluded(title string, excluded []string) bool {
	title = strings.TrimSpace(title)
	for _, e := range excluded {
		if strings.EqualFold(title, strings.TrimSpace(e)) {
			return true
		}
	}
	return false
}

package scrape

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/davidread/jobadscrape/internal/errs"
	"github.com/davidread/jobadscrape/internal/listing"

	"github.com/PuerkitoBio/goquery"
)

// Detail fetches a listing's detail page and builds the full record.
// Fields the detail page states authoritatively (title, department,
// closing date) override the search-box values; the rest carry over.
func (c *Client) Detail(ctx context.Context, r Result, now time.Time) (listing.Listing, error) {
	l := listing.Listing{
		Title:       r.Title,
		Department:  r.Department,
		Location:    r.Location,
		URL:         r.URL,
		SalaryMin:   r.SalaryMin,
		SalaryMax:   r.SalaryMax,
		Reference:   r.Reference,
		ClosingDate: r.ClosingDate,
		ScrapedDate: now.Format("2006-01-02"),
	}

	body, err := c.get(ctx, r.URL)
	if err != nil {
		return listing.Listing{}, err
	}
	l.DetailHTML = string(body)

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return listing.Listing{}, fmt.Errorf("parse detail page %s: %w", r.URL, err)
	}

	if t := cleanText(doc.Find("h1#id_common_page_title_h1").First().Text()); t != "" {
		l.Title = t
	}
	if d := cleanText(doc.Find("p.csr-page-subtitle").First().Text()); d != "" {
		l.Department = d
	}
	if cd, err := parseClosingDate(doc.Find("p.vac_display_closing_date").First().Text()); err == nil {
		l.ClosingDate = cd
	}
	if l.Reference == "" {
		l.Reference = extractReference(doc.Find("div.search-results-job-box-refcode").First().Text())
	}

	if l.Title == "" {
		return listing.Listing{}, fmt.Errorf("%w: %s: no job title", errs.ErrParse, r.URL)
	}

	return l, nil
}

package scrape

import (
	"bytes"
	"context"
	"fmt"
	"net/url"

	"github.com/davidread/jobadscrape/internal/errs"
	"github.com/davidread/jobadscrape/internal/listing"

	"github.com/PuerkitoBio/goquery"
)

// Result is one box on the search results page. It carries enough to
// decide whether the listing is new before its detail page is fetched.
type Result struct {
	Title       string
	Department  string
	Location    string
	URL         string
	SalaryMin   string
	SalaryMax   string
	ClosingDate string
	Reference   string
}

// Key is the session-stable dedup identity for this result; see
// listing.Key for why the URL cannot be it.
func (r Result) Key() string {
	return listing.Key(r.Reference, r.ClosingDate, r.Title, r.Department)
}

// SearchParams are the site's own numeric filter codes.
type SearchParams struct {
	Department   string
	RoleCategory string
}

// Search posts a filtered search and returns the listing boxes in page
// order. Zero results on a well-formed results page is not an error; a
// page without the search form at all means the layout changed.
func (c *Client) Search(ctx context.Context, sess *Session, p SearchParams) ([]Result, error) {
	form := url.Values{
		"SID":    {sess.SID},
		"reqsig": {sess.Reqsig},
	}
	if p.Department != "" {
		form.Set("nghr_dept", p.Department)
	}
	if p.RoleCategory != "" {
		form.Set("nghr_job_category", p.RoleCategory)
	}

	body, err := c.postForm(ctx, c.base+"/csr/esearch.cgi", form)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse results page: %w", err)
	}

	boxes := doc.Find("li.search-results-job-box")
	if boxes.Length() == 0 && doc.Find(`input[name="reqsig"]`).Length() == 0 {
		return nil, fmt.Errorf("%w: results page has neither job boxes nor a search form", errs.ErrNotFound)
	}

	var results []Result
	boxes.Each(func(_ int, box *goquery.Selection) {
		results = append(results, parseResultBox(box))
	})
	return results, nil
}

func parseResultBox(box *goquery.Selection) Result {
	r := Result{
		Department: cleanText(box.Find("div.search-results-job-box-department").First().Text()),
		Location:   cleanText(box.Find("div.search-results-job-box-location").First().Text()),
	}

	titleTag := box.Find("h3.search-results-job-box-title").First()
	r.Title = cleanText(titleTag.Text())
	if href, ok := titleTag.Find("a").First().Attr("href"); ok {
		r.URL = href
	}

	r.SalaryMin, r.SalaryMax = extractSalaryRange(box.Find("div.search-results-job-box-salary").First().Text())
	r.Reference = extractReference(box.Find("div.search-results-job-box-refcode").First().Text())

	if d, err := parseClosingDate(box.Find("div.search-results-job-box-closingdate").First().Text()); err == nil {
		r.ClosingDate = d
	}

	return r
}

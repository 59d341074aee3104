package scrape

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/davidread/jobadscrape/internal/errs"

	"github.com/PuerkitoBio/goquery"
)

// Session holds the two tokens the site's search form requires. Both
// are minted per visit and expire quickly, so a fresh pair is fetched
// at the start of every run.
type Session struct {
	SID    string
	Reqsig string
}

// NewSession bootstraps a search session: the landing page yields the
// SID, the search page yields the request signature.
func (c *Client) NewSession(ctx context.Context) (*Session, error) {
	sid, err := c.fetchSID(ctx)
	if err != nil {
		return nil, err
	}
	reqsig, err := c.fetchReqsig(ctx, sid)
	if err != nil {
		return nil, err
	}
	return &Session{SID: sid, Reqsig: reqsig}, nil
}

func (c *Client) fetchSID(ctx context.Context) (string, error) {
	body, err := c.get(ctx, c.base+"/csr/index.cgi")
	if err != nil {
		return "", err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("parse landing page: %w", err)
	}

	// Usually a hidden form field
	if v, ok := doc.Find(`input[name="SID"]`).First().Attr("value"); ok && v != "" {
		return v, nil
	}

	// Fallback: the form action carries it in the query string
	if action, ok := doc.Find("form").First().Attr("action"); ok {
		if i := strings.Index(action, "SID="); i >= 0 {
			v := action[i+len("SID="):]
			if j := strings.IndexByte(v, '&'); j >= 0 {
				v = v[:j]
			}
			if v != "" {
				return v, nil
			}
		}
	}

	return "", fmt.Errorf("%w: no SID on landing page", errs.ErrNotFound)
}

func (c *Client) fetchReqsig(ctx context.Context, sid string) (string, error) {
	body, err := c.get(ctx, c.base+"/csr/esearch.cgi?SID="+sid)
	if err != nil {
		return "", err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("parse search page: %w", err)
	}

	if v, ok := doc.Find(`input[name="reqsig"]`).First().Attr("value"); ok && v != "" {
		return v, nil
	}
	return "", fmt.Errorf("%w: no reqsig on search page", errs.ErrNotFound)
}

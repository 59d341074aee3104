package pdf

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/davidread/jobadscrape/internal/errs"
	"github.com/davidread/jobadscrape/internal/listing"

	"github.com/playwright-community/playwright-go"
)

// The rendered document is the ad page itself with a small provenance
// header, so the PDF stays useful after the listing goes offline.
const docTemplate = `<!DOCTYPE html>
<html>
<head><meta charset="utf-8"></head>
<body>
<div style="font-family: sans-serif; border-bottom: 1px solid #999; padding-bottom: 8px; margin-bottom: 12px;">
  <strong>{{.Title}}</strong> — {{.Department}}<br>
  Closing date: {{if .ClosingDate}}{{.ClosingDate}}{{else}}unknown{{end}} · Scraped: {{.ScrapedDate}}<br>
  <a href="{{.URL}}">{{.URL}}</a>
</div>
{{.Body}}
</body>
</html>`

// Renderer converts listings into PDF bytes with a headless browser.
// One browser serves the whole run; call Close when done.
type Renderer struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	tmpl    *template.Template
}

func NewRenderer() (*Renderer, error) {
	tmpl, err := template.New("ad").Parse(docTemplate)
	if err != nil {
		return nil, fmt.Errorf("parse document template: %w", err)
	}

	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("could not start playwright: %w", err)
	}

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(true),
	})
	if err != nil {
		pw.Stop()
		return nil, fmt.Errorf("could not launch chromium browser: %w", err)
	}

	return &Renderer{pw: pw, browser: browser, tmpl: tmpl}, nil
}

func (r *Renderer) Close() {
	if r.browser != nil {
		r.browser.Close()
	}
	if r.pw != nil {
		r.pw.Stop()
	}
}

// Render produces the A4 PDF for one listing.
func (r *Renderer) Render(l listing.Listing) ([]byte, error) {
	if l.DetailHTML == "" {
		return nil, fmt.Errorf("%w: %s: empty detail page", errs.ErrRender, l.URL)
	}

	var buf bytes.Buffer
	err := r.tmpl.Execute(&buf, struct {
		listing.Listing
		Body template.HTML
	}{Listing: l, Body: template.HTML(l.DetailHTML)})
	if err != nil {
		return nil, fmt.Errorf("%w: %s: execute template: %v", errs.ErrRender, l.URL, err)
	}

	page, err := r.browser.NewPage()
	if err != nil {
		return nil, fmt.Errorf("%w: could not create page: %v", errs.ErrRender, err)
	}
	defer page.Close()

	if err := page.SetContent(buf.String(), playwright.PageSetContentOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
	}); err != nil {
		return nil, fmt.Errorf("%w: %s: set page content: %v", errs.ErrRender, l.URL, err)
	}

	pdfBytes, err := page.PDF(playwright.PagePdfOptions{
		Format:          playwright.String("A4"),
		PrintBackground: playwright.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s: generate PDF: %v", errs.ErrRender, l.URL, err)
	}
	if len(pdfBytes) == 0 {
		return nil, fmt.Errorf("%w: %s: empty PDF output", errs.ErrRender, l.URL)
	}

	return pdfBytes, nil
}

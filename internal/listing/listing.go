package listing

import (
	"path"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Listing is one scraped job ad. URL is the identity: the same URL is
// never published twice, to the sheet or to the repository.
type Listing struct {
	Title       string
	Department  string
	Location    string
	URL         string
	SalaryMin   string
	SalaryMax   string
	Reference   string
	ClosingDate string // ISO yyyy-mm-dd, may be empty
	ScrapedDate string // ISO yyyy-mm-dd
	DetailHTML  string // full detail page markup, input to the renderer
}

// Row is the spreadsheet row for this listing. Column order is fixed;
// existing sheets depend on it.
func (l Listing) Row() []string {
	return []string{
		l.Title,
		l.Department,
		l.Location,
		l.URL,
		l.ClosingDate,
		l.SalaryMin,
		l.SalaryMax,
		l.Reference,
		l.ScrapedDate,
	}
}

// Key returns a listing's identity for duplicate checks. The URL
// cannot serve: every href on the site embeds the per-visit session
// token, so the same ad carries a different URL each run. The vacancy
// reference is stable across visits; an ad without one falls back to
// the PDF filename base, which is built only from ad content.
func Key(reference, closingDate, title, department string) string {
	if reference != "" {
		return "ref:" + reference
	}
	return SanitizeFilename(closingDate + " " + title + " - " + department)
}

func (l Listing) Key() string {
	return Key(l.Reference, l.ClosingDate, l.Title, l.Department)
}

// PDFPath is the deterministic repository path for this listing's PDF,
// named by closing date (scrape date when the ad has none) and title.
func (l Listing) PDFPath(folder string) string {
	date := l.ClosingDate
	if date == "" {
		date = l.ScrapedDate
	}
	name := SanitizeFilename(date + " " + l.Title + " - " + l.Department)
	return path.Join(folder, name+".pdf")
}

// SanitizeFilename folds diacritics and drops everything except
// alphanumerics, spaces and ._-().
func SanitizeFilename(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err == nil {
		s = folded
	}

	var b strings.Builder
	for _, r := range s {
		if r > unicode.MaxASCII {
			continue
		}
		if unicode.IsLetter(r) || unicode.IsDigit(r) || strings.ContainsRune(" ._-()", r) {
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}

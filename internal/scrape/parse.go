package scrape

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var (
	poundsRegex = regexp.MustCompile(`£([\d,]+)`)
	digitsRegex = regexp.MustCompile(`\d+`)

	weekdays = map[string]bool{
		"Monday": true, "Tuesday": true, "Wednesday": true, "Thursday": true,
		"Friday": true, "Saturday": true, "Sunday": true,
	}
)

func cleanText(s string) string {
	s = strings.ReplaceAll(s, " ", " ")
	return strings.TrimSpace(strings.Join(strings.Fields(s), " "))
}

// extractSalaryRange pulls the pound amounts out of text like
// "Salary : £30,000 to £40,000" or "£30,000 - £40,000". A single
// figure is both min and max.
func extractSalaryRange(text string) (min, max string) {
	matches := poundsRegex.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return "", ""
	}
	min = strings.ReplaceAll(matches[0][1], ",", "")
	max = min
	if len(matches) > 1 {
		max = strings.ReplaceAll(matches[len(matches)-1][1], ",", "")
	}
	return min, max
}

// extractReference handles both "Reference : 381753" and a bare number.
func extractReference(text string) string {
	return digitsRegex.FindString(text)
}

// parseClosingDate turns the site's closing-date phrasings into an ISO
// date. Seen in the wild:
//
//	Closes : 11:55 pm on Wednesday 22nd January 2025
//	Closes : Midday on Monday 3rd February 2025
//	Apply before 11:55 pm on Friday 17th January 2025
func parseClosingDate(text string) (string, error) {
	text = cleanText(text)
	if text == "" {
		return "", fmt.Errorf("empty closing date")
	}

	// The date is whatever follows the last " on "
	if i := strings.LastIndex(text, " on "); i >= 0 {
		text = text[i+len(" on "):]
	}

	fields := strings.Fields(text)
	if len(fields) > 0 && weekdays[strings.Trim(fields[0], ",")] {
		fields = fields[1:]
	}
	if len(fields) < 3 {
		return "", fmt.Errorf("unrecognized closing date %q", text)
	}

	// Drop the ordinal suffix: 22nd -> 22
	day := digitsRegex.FindString(fields[0])
	if day == "" {
		return "", fmt.Errorf("no day number in closing date %q", text)
	}

	t, err := time.Parse("2 January 2006", day+" "+fields[1]+" "+fields[2])
	if err != nil {
		return "", fmt.Errorf("parse closing date %q: %w", text, err)
	}
	return t.Format("2006-01-02"), nil
}

// Error classification for the pipeline. Components wrap one of these
// sentinels with fmt.Errorf("...: %w", ...) and callers sort failures
// with errors.Is.

package errs

import "errors"

var (
	// ErrNetwork is a transient fetch failure (transport error or HTTP
	// error status from the job site).
	ErrNetwork = errors.New("network error")

	// ErrNotFound means a page no longer has the structure we expect,
	// e.g. the search form lost its SID field after a site redesign.
	ErrNotFound = errors.New("page structure not found")

	// ErrParse means a detail page is missing a required field.
	ErrParse = errors.New("parse error")

	// ErrRender means PDF generation failed for a listing.
	ErrRender = errors.New("render error")

	// ErrAuth means credentials are missing, invalid or expired.
	ErrAuth = errors.New("auth error")

	// ErrRemote is a publish-target API rejection (rate limit, conflict).
	ErrRemote = errors.New("remote error")
)

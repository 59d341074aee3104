package scrape

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/davidread/jobadscrape/internal/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Fixture modeled on a real search-results box.
const sampleJobBox = `
<li class="search-results-job-box" title="Head of Category / International Development Programmes ">
  <div>
    <h3 class="search-results-job-box-title">
      <a href="https://www.civilservicejobs.service.gov.uk/csr/index.cgi?SID=abc123"
         title="Head of Category / International Development Programmes ">
        Head of Category / International Development Programmes
      </a>
    </h3>
  </div>
  <div class="search-results-job-box-department">Government Commercial Function</div>
  <div class="search-results-job-box-location">Abercrombie House, East Kilbride, Glasgow Or King Charles Street, London</div>
  <div class="search-results-job-box-salary">Salary : £80,000 to £97,760</div>
  <div class="search-results-job-box-closingdate">Closes : 11:55 pm on Wednesday 22nd January 2025</div>
  <div class="search-results-job-box-refcode">Reference : 384891</div>
</li>`

func newTestServer(t *testing.T, searchBody string) (*httptest.Server, *Client) {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/csr/index.cgi", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><form action="/csr/esearch.cgi"><input name="SID" value="sid-1"></form></html>`))
	})
	mux.HandleFunc("/csr/esearch.cgi", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			w.Write([]byte(searchBody))
			return
		}
		w.Write([]byte(`<html><form><input name="reqsig" value="sig-1"></form></html>`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, NewClient(srv.URL, "test-agent", 100)
}

func TestNewSession(t *testing.T) {
	_, c := newTestServer(t, "")

	sess, err := c.NewSession(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "sid-1", sess.SID)
	assert.Equal(t, "sig-1", sess.Reqsig)
}

func TestNewSessionSIDFromFormAction(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/csr/index.cgi", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><form action="/csr/esearch.cgi?SID=from-action&x=1"></form></html>`))
	})
	mux.HandleFunc("/csr/esearch.cgi", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<input name="reqsig" value="sig-2">`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	sess, err := NewClient(srv.URL, "test-agent", 100).NewSession(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "from-action", sess.SID)
}

func TestNewSessionLayoutChanged(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body>We moved everything around</body></html>`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "test-agent", 100).NewSession(context.Background())
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestSearchParsesResultBoxes(t *testing.T) {
	body := `<html><ul>` + sampleJobBox + `</ul><input name="reqsig" value="sig-1"></html>`
	_, c := newTestServer(t, body)

	sess, err := c.NewSession(context.Background())
	require.NoError(t, err)

	results, err := c.Search(context.Background(), sess, SearchParams{Department: "256999"})
	require.NoError(t, err)
	require.Len(t, results, 1)

	r := results[0]
	assert.Equal(t, "Head of Category / International Development Programmes", r.Title)
	assert.Equal(t, "Government Commercial Function", r.Department)
	assert.Equal(t, "Abercrombie House, East Kilbride, Glasgow Or King Charles Street, London", r.Location)
	assert.Equal(t, "80000", r.SalaryMin)
	assert.Equal(t, "97760", r.SalaryMax)
	assert.Equal(t, "2025-01-22", r.ClosingDate)
	assert.Equal(t, "384891", r.Reference)
	assert.Contains(t, r.URL, "SID=")
}

func TestSearchZeroResultsIsNotAnError(t *testing.T) {
	// A well-formed results page with no boxes: valid empty run
	body := `<html><form><input name="reqsig" value="sig-1"></form><p>0 jobs found</p></html>`
	_, c := newTestServer(t, body)

	sess, err := c.NewSession(context.Background())
	require.NoError(t, err)

	results, err := c.Search(context.Background(), sess, SearchParams{Department: "256999"})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearchLayoutChanged(t *testing.T) {
	_, c := newTestServer(t, `<html><body>Totally new page</body></html>`)

	sess, err := c.NewSession(context.Background())
	require.NoError(t, err)

	_, err = c.Search(context.Background(), sess, SearchParams{Department: "256999"})
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestClientNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "test-agent", 100).NewSession(context.Background())
	assert.ErrorIs(t, err, errs.ErrNetwork)
}

func TestClientSendsUserAgent(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Write([]byte(`<input name="SID" value="s">`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "special-agent/1.0", 100)
	_, err := c.get(context.Background(), srv.URL+"/csr/index.cgi")
	require.NoError(t, err)
	assert.Equal(t, "special-agent/1.0", gotUA)
}

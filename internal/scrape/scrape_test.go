package scrape

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

const samplePage = `<!DOCTYPE html>
<html>
<head><title>Cal.com</title><script>analytics()</script></head>
<body>
  <nav>Home Pricing Docs</nav>
  <main>
    <h1>Scheduling infrastructure for everyone</h1>
    <p>Cal.com is the open source Calendly alternative.</p>
  </main>
  <footer>Copyright</footer>
</body>
</html>`

func TestExtractMainText_StripsNoise(t *testing.T) {
	text := ExtractMainText(samplePage)

	assert.Contains(t, text, "Scheduling infrastructure for everyone")
	assert.Contains(t, text, "open source Calendly alternative")
	assert.NotContains(t, text, "Home Pricing Docs")
	assert.NotContains(t, text, "Copyright")
	assert.NotContains(t, text, "analytics()")
}

func TestExtractMainText_FallsBackToBody(t *testing.T) {
	text := ExtractMainText(`<html><body><p>Just a body.</p></body></html>`)
	assert.Equal(t, "Just a body.", text)
}

func TestExtractMainText_InvalidHTML(t *testing.T) {
	// goquery tolerates malformed markup; this should never panic.
	text := ExtractMainText("<<<not html")
	assert.NotNil(t, text)
}

func TestHTTPScraper_Fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(samplePage))
	}))
	defer srv.Close()

	s := NewHTTPScraper()
	text := s.Fetch(context.Background(), srv.URL)

	assert.Contains(t, text, "Scheduling infrastructure")
}

func TestHTTPScraper_Fetch_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	s := NewHTTPScraper()
	assert.Empty(t, s.Fetch(context.Background(), srv.URL))
}

func TestHTTPScraper_Fetch_InvalidURL(t *testing.T) {
	s := NewHTTPScraper()
	assert.Empty(t, s.Fetch(context.Background(), "not-a-url"))
}

func TestFetch_TruncatesHugePages(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<html><body><p>" + strings.Repeat("word ", 10000) + "</p></body></html>"))
	}))
	defer srv.Close()

	s := NewHTTPScraper()
	text := s.Fetch(context.Background(), srv.URL)

	assert.LessOrEqual(t, len(text), maxTextLength)
	assert.NotEmpty(t, text)
}

func TestShouldUseBrowser(t *testing.T) {
	assert.True(t, shouldUseBrowser("thin shell"))
	assert.False(t, shouldUseBrowser(strings.Repeat("content ", 100)))
}

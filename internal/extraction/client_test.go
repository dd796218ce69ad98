package extraction

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nkhl07/cold-email-assistant/internal/types"
)

func TestNewHTTPClient_RequiresBaseURL(t *testing.T) {
	_, err := NewHTTPClient(Options{BaseURL: "  "})
	require.Error(t, err)

	c, err := NewHTTPClient(Options{BaseURL: "http://127.0.0.1:8000/"})
	require.NoError(t, err)
	assert.Equal(t, "http://127.0.0.1:8000", c.baseURL)
	assert.Equal(t, DefaultTimeout, c.client.Timeout)
}

func TestExtract_Scrape(t *testing.T) {
	var gotPath string
	var gotBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"combined_text":"Jane researches distributed storage systems."}`))
	}))
	defer server.Close()

	c, err := NewHTTPClient(Options{BaseURL: server.URL})
	require.NoError(t, err)

	result, err := c.Extract(context.Background(), Request{URLs: []string{"https://example.edu/staff/jane"}})
	require.NoError(t, err)

	assert.Equal(t, "/scrape", gotPath)
	assert.Equal(t, []any{"https://example.edu/staff/jane"}, gotBody["urls"])
	assert.Equal(t, "Jane researches distributed storage systems.", result.CombinedText)
	assert.Empty(t, result.StudentProfile)
}

func TestExtract_ScrapeSendsEmptyArrayNotNull(t *testing.T) {
	var raw string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		raw = string(b)
		_, _ = w.Write([]byte(`{"combined_text":""}`))
	}))
	defer server.Close()

	c, err := NewHTTPClient(Options{BaseURL: server.URL})
	require.NoError(t, err)

	result, err := c.Extract(context.Background(), Request{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"urls":[]}`, raw)
	assert.Equal(t, "", result.CombinedText)
}

func TestExtract_Process(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/process", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))

		file, header, err := r.FormFile("pdf")
		require.NoError(t, err)
		defer func() { _ = file.Close() }()
		data, _ := io.ReadAll(file)
		assert.Equal(t, "cv.pdf", header.Filename)
		assert.Equal(t, "application/pdf", header.Header.Get("Content-Type"))
		assert.Equal(t, "%PDF-1.4", string(data))
		assert.JSONEq(t, `["https://a.com","https://a.com"]`, r.FormValue("urls"))

		_, _ = w.Write([]byte(`{"combined_text":"target","student_profile":"student"}`))
	}))
	defer server.Close()

	c, err := NewHTTPClient(Options{BaseURL: server.URL})
	require.NoError(t, err)

	result, err := c.Extract(context.Background(), Request{
		URLs:     []string{"https://a.com", "https://a.com"},
		Document: &types.UploadedDocument{Filename: "cv.pdf", MediaType: "application/pdf", Data: []byte("%PDF-1.4")},
	})
	require.NoError(t, err)
	assert.Equal(t, "target", result.CombinedText)
	assert.Equal(t, "student", result.StudentProfile)
}

func TestExtract_ProcessEmptyURLs(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "[]", r.FormValue("urls"))
		_, _ = w.Write([]byte(`{"combined_text":"","student_profile":"s"}`))
	}))
	defer server.Close()

	c, err := NewHTTPClient(Options{BaseURL: server.URL})
	require.NoError(t, err)

	_, err = c.Extract(context.Background(), Request{Document: &types.UploadedDocument{Data: []byte("x")}})
	require.NoError(t, err)
}

func TestExtract_NonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"detail":"bad pdf"}`))
	}))
	defer server.Close()

	c, err := NewHTTPClient(Options{BaseURL: server.URL})
	require.NoError(t, err)

	_, err = c.Extract(context.Background(), Request{URLs: []string{"https://a.com"}})
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusUnprocessableEntity, statusErr.StatusCode)
	assert.Equal(t, "/scrape", statusErr.Endpoint)
	assert.Contains(t, err.Error(), "Scraper returned status 422")
	assert.Contains(t, err.Error(), "bad pdf")
}

func TestExtract_MalformedResponse(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "not json", body: "<html>oops</html>"},
		{name: "missing field", body: `{"text":"x"}`},
		{name: "wrong type", body: `{"combined_text":["x"]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			c, err := NewHTTPClient(Options{BaseURL: server.URL})
			require.NoError(t, err)

			_, err = c.Extract(context.Background(), Request{})
			var extractErr *Error
			require.ErrorAs(t, err, &extractErr)
			assert.Equal(t, "malformed response", extractErr.Message)
		})
	}
}

func TestExtract_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := server.URL
	server.Close()

	c, err := NewHTTPClient(Options{BaseURL: url})
	require.NoError(t, err)

	_, err = c.Extract(context.Background(), Request{})
	var extractErr *Error
	require.ErrorAs(t, err, &extractErr)
	assert.Equal(t, "HTTP request failed", extractErr.Message)
}

func TestExtract_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_, _ = w.Write([]byte(`{"combined_text":""}`))
	}))
	defer server.Close()

	c, err := NewHTTPClient(Options{BaseURL: server.URL, Timeout: 20 * time.Millisecond})
	require.NoError(t, err)

	_, err = c.Extract(context.Background(), Request{})
	require.Error(t, err)
}

func TestStatusError_TruncatesBody(t *testing.T) {
	err := &StatusError{StatusCode: 500, Body: strings.Repeat("x", 2000)}
	assert.Less(t, len(err.Error()), 600)
	assert.Equal(t, "Scraper returned status 502", (&StatusError{StatusCode: 502}).Error())
}

func TestStatusError_TruncatesByCharacter(t *testing.T) {
	err := &StatusError{StatusCode: 500, Body: strings.Repeat("é", 600)}
	msg := err.Error()
	assert.True(t, utf8.ValidString(msg))
	assert.Equal(t, "Scraper returned status 500: "+strings.Repeat("é", maxBodyInError)+"...", msg)
}

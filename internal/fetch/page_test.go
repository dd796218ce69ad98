package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPageText_HTTPOnly(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html><body><nav>Menu</nav><main><p>Jane builds compilers.</p></main></body></html>`))
	}))
	defer server.Close()

	text, err := PageText(context.Background(), server.URL, PageOptions{})
	require.NoError(t, err)
	assert.Equal(t, "Jane builds compilers.", text)
}

func TestPageText_BrowserFallbackForThinPage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html><body><div id="root"></div></body></html>`))
	}))
	defer server.Close()

	var rendered []string
	render := func(_ context.Context, url string) (string, error) {
		rendered = append(rendered, url)
		return `<html><body><main><p>Rendered profile text</p></main></body></html>`, nil
	}

	text, err := PageText(context.Background(), server.URL, PageOptions{Renderer: render, BrowserThreshold: 50})
	require.NoError(t, err)
	assert.Equal(t, "Rendered profile text", text)
	assert.Equal(t, []string{server.URL}, rendered)
}

func TestPageText_KeepsHTTPTextWhenLongEnough(t *testing.T) {
	body := strings.Repeat("word ", 40)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html><body><main>` + body + `</main></body></html>`))
	}))
	defer server.Close()

	called := false
	render := func(context.Context, string) (string, error) {
		called = true
		return "", nil
	}

	text, err := PageText(context.Background(), server.URL, PageOptions{Renderer: render, BrowserThreshold: 50})
	require.NoError(t, err)
	assert.False(t, called)
	assert.Equal(t, strings.TrimSpace(body), text)
}

func TestPageText_RendererFailureKeepsHTTPText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html><body><main>tiny</main></body></html>`))
	}))
	defer server.Close()

	render := func(context.Context, string) (string, error) {
		return "", errors.New("chrome not installed")
	}

	text, err := PageText(context.Background(), server.URL, PageOptions{Renderer: render, BrowserThreshold: 50})
	require.NoError(t, err)
	assert.Equal(t, "tiny", text)
}

func TestPageText_HTTPErrorWithoutRenderer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	_, err := PageText(context.Background(), server.URL, PageOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}

func TestPageText_InvalidURL(t *testing.T) {
	called := false
	render := func(context.Context, string) (string, error) {
		called = true
		return "", nil
	}
	_, err := PageText(context.Background(), "mailto:jane@example.edu", PageOptions{Renderer: render})
	require.Error(t, err)
	assert.False(t, called)
}

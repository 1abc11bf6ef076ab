package cmd

import (
	"encoding/csv"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	clibase "github.com/shouni/go-cli-base"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/genadygogunsky/scrapeNews/pkg/httpclient"
	"github.com/genadygogunsky/scrapeNews/pkg/types"
)

func execute(t *testing.T, args ...string) error {
	t.Helper()
	root := newRootCmd()
	root.SetArgs(args)
	return root.Execute()
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestRootCommand_ScrapesListing(t *testing.T) {
	var gotUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte(`<div class="news-item"><h2> Hello </h2><a href="/hello">x</a></div>`))
	}))
	defer server.Close()

	out := filepath.Join(t.TempDir(), "news.csv")
	require.NoError(t, execute(t, "--url", server.URL, "--output", out))

	rows := readCSV(t, out)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"title", "link", "date"}, rows[0])
	assert.Equal(t, "Hello", rows[1][0])
	assert.Equal(t, "/hello", rows[1][1])
	assert.Equal(t, httpclient.DefaultUserAgent, gotUA)
}

func TestRootCommand_ConfigFileSelectors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<article class="post"><h1>Configured</h1><a class="go" href="/c">x</a></article>`))
	}))
	defer server.Close()

	dir := t.TempDir()
	out := filepath.Join(dir, "configured.csv")
	cfgPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(
		"url: "+server.URL+"\n"+
			"output: "+out+"\n"+
			"selectors:\n  item: article.post\n  title: h1\n  link: a.go\n",
	), 0o644))

	root := newRootCmd()
	clibase.Flags.ConfigFile = cfgPath
	t.Cleanup(func() { clibase.Flags.ConfigFile = "" })
	root.SetArgs([]string{})
	require.NoError(t, root.Execute())

	rows := readCSV(t, out)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"Configured", "/c"}, rows[1][:2])
}

func TestRootCommand_HTTPFailureIsNotFatal(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	out := filepath.Join(t.TempDir(), "news.csv")
	require.NoError(t, execute(t, "--url", server.URL, "--output", out))

	_, err := os.Stat(out)
	assert.True(t, os.IsNotExist(err))
}

func TestRootCommand_MissingElementIsFatal(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<div class="news-item"><a href="/no-heading">x</a></div>`))
	}))
	defer server.Close()

	err := execute(t, "--url", server.URL, "--output", filepath.Join(t.TempDir(), "news.csv"))

	var missing *types.MissingElementError
	require.ErrorAs(t, err, &missing)
}

func TestRootCommand_InvalidScheme(t *testing.T) {
	err := execute(t, "--url", "ftp://example.com")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "URLスキームの処理エラー")
}

func TestFeedCommand(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(`<?xml version="1.0"?><rss version="2.0"><channel><title>F</title>
<item><title>Feed item</title><link>http://example.com/f1</link></item></channel></rss>`))
	}))
	defer server.Close()

	out := filepath.Join(t.TempDir(), "feed.csv")
	require.NoError(t, execute(t, "feed", "--url", server.URL, "--output", out))

	rows := readCSV(t, out)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"Feed item", "http://example.com/f1"}, rows[1][:2])
}

func TestFeedCommand_Windows1251Feed(t *testing.T) {
	// "Новости" in windows-1251, no charset in Content-Type
	title := []byte{0xCD, 0xEE, 0xE2, 0xEE, 0xF1, 0xF2, 0xE8}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(`<?xml version="1.0" encoding="windows-1251"?><rss version="2.0"><channel><title>F</title><item><title>`))
		_, _ = w.Write(title)
		_, _ = w.Write([]byte(`</title><link>http://example.com/n1</link></item></channel></rss>`))
	}))
	defer server.Close()

	out := filepath.Join(t.TempDir(), "feed.csv")
	require.NoError(t, execute(t, "feed", "--url", server.URL, "--output", out))

	rows := readCSV(t, out)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"Новости", "http://example.com/n1"}, rows[1][:2])
}

func TestFeedCommand_RequiresURL(t *testing.T) {
	err := execute(t, "feed")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--url")
}

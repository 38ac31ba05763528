package zotero

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *Config {
	return &Config{
		APIKey:      "test-key",
		UserID:      "12345",
		LibraryType: LibraryUser,
	}
}

func TestConfigValidate(t *testing.T) {
	t.Run("valid user library", func(t *testing.T) {
		assert.NoError(t, testConfig().Validate())
	})

	t.Run("missing api key", func(t *testing.T) {
		cfg := testConfig()
		cfg.APIKey = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("group library needs group id", func(t *testing.T) {
		cfg := &Config{APIKey: "k", LibraryType: LibraryGroup}
		assert.Error(t, cfg.Validate())
		cfg.GroupID = "99"
		assert.NoError(t, cfg.Validate())
	})

	t.Run("unknown library type", func(t *testing.T) {
		cfg := &Config{APIKey: "k", LibraryType: "shared"}
		assert.Error(t, cfg.Validate())
	})
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "zotero.yaml")
	data := "api_key: file-key\nuser_id: \"42\"\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	t.Run("from file", func(t *testing.T) {
		cfg, err := LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, "file-key", cfg.APIKey)
		assert.Equal(t, "42", cfg.UserID)
		assert.Equal(t, LibraryUser, cfg.LibraryType)
	})

	t.Run("env overrides file", func(t *testing.T) {
		t.Setenv("ZOTERO_API_KEY", "env-key")
		cfg, err := LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, "env-key", cfg.APIKey)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(dir, "nope.yaml"))
		assert.Error(t, err)
	})
}

func TestParseYear(t *testing.T) {
	cases := []struct {
		date string
		want int
	}{
		{"2021-03-15", 2021},
		{"March 2019", 2019},
		{"2023", 2023},
		{"", 0},
		{"n.d.", 0},
		{"15/06/1998", 1998},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, parseYear(tc.date), "date %q", tc.date)
	}
}

func TestExtractMeta(t *testing.T) {
	item := Item{
		Key: "ABCD1234",
		Data: ItemData{
			Title: "Trust in Automation",
			Creators: []Creator{
				{CreatorType: "author", FirstName: "Jane", LastName: "Lee"},
				{CreatorType: "author", FirstName: "Raj", LastName: "Patel"},
				{CreatorType: "editor", LastName: "Ignored"},
				{CreatorType: "author", Name: "OECD"},
			},
			Date:             "2020-01-01",
			PublicationTitle: "Human Factors",
			DOI:              "10.1000/xyz",
		},
	}

	meta := ExtractMeta(item, "Projects/Trust Review")
	assert.Equal(t, "ABCD1234", meta.DocID)
	assert.Equal(t, "Trust in Automation", meta.Title)
	assert.Equal(t, "Lee; Patel; OECD", meta.Authors)
	assert.Equal(t, 2020, meta.Year)
	assert.Equal(t, "Human Factors", meta.Journal)
	assert.Equal(t, "10.1000/xyz", meta.DOI)
	assert.Equal(t, "Projects/Trust Review", meta.Collection)
}

func TestCollectionPath(t *testing.T) {
	cols := []Collection{
		{Key: "P1", Data: CollectionData{Key: "P1", Name: "Projects"}},
		{Key: "C1", Data: CollectionData{Key: "C1", Name: "Trust Review", ParentCollection: "P1"}},
	}

	assert.Equal(t, "Projects/Trust Review", CollectionPath("C1", cols))
	assert.Equal(t, "Projects", CollectionPath("P1", cols))
	assert.Equal(t, "MISSING", CollectionPath("MISSING", cols))

	key, err := FindCollection("Projects/Trust Review", cols)
	require.NoError(t, err)
	assert.Equal(t, "C1", key)

	_, err = FindCollection("Nope", cols)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestClientItems(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("Zotero-API-Key"))
		switch r.URL.Path {
		case "/users/12345/collections/C1/items/top":
			w.Write([]byte(`[{"key":"IT1","data":{"key":"IT1","itemType":"journalArticle","title":"Paper One","date":"2022"}}]`))
		case "/users/12345/items/IT1/children":
			w.Write([]byte(`[
				{"key":"AT1","data":{"key":"AT1","itemType":"attachment","contentType":"application/pdf","filename":"paper.pdf"}},
				{"key":"NT1","data":{"key":"NT1","itemType":"note"}}
			]`))
		case "/users/12345/items/AT1/file":
			w.Write([]byte("%PDF-1.4 fake"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	client, err := NewClient(testConfig(), WithBaseURL(srv.URL))
	require.NoError(t, err)
	ctx := context.Background()

	items, err := client.Items(ctx, "C1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Paper One", items[0].Data.Title)

	pdfs, err := client.PDFAttachments(ctx, "IT1")
	require.NoError(t, err)
	require.Len(t, pdfs, 1)
	assert.Equal(t, "AT1", pdfs[0].Key)

	dir := t.TempDir()
	path, err := client.DownloadPDF(ctx, pdfs[0], dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "paper.pdf"), path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "%PDF")
}

func TestClientErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/users/12345/items/GONE/children":
			http.NotFound(w, r)
		default:
			w.WriteHeader(http.StatusForbidden)
		}
	}))
	defer srv.Close()

	client, err := NewClient(testConfig(), WithBaseURL(srv.URL))
	require.NoError(t, err)

	_, err = client.PDFAttachments(context.Background(), "GONE")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = client.Collections(context.Background())
	assert.ErrorIs(t, err, ErrUnauthorized)
}

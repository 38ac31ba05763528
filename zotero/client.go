// Copyright 2025 The Poiesic Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package zotero

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

const (
	defaultBaseURL = "https://api.zotero.org"
	pageSize       = 100
)

// Client talks to the Zotero web API for one library.
type Client struct {
	cfg     *Config
	baseURL string
	http    *http.Client
	logger  *slog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithBaseURL overrides the API endpoint. Used in tests.
func WithBaseURL(u string) ClientOption {
	return func(c *Client) { c.baseURL = u }
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(h *http.Client) ClientOption {
	return func(c *Client) { c.http = h }
}

// WithLogger sets the client logger.
func WithLogger(l *slog.Logger) ClientOption {
	return func(c *Client) { c.logger = l.With("component", "zotero") }
}

// NewClient creates a Zotero API client for the configured library.
func NewClient(cfg *Config, opts ...ClientOption) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c := &Client{
		cfg:     cfg,
		baseURL: defaultBaseURL,
		http:    &http.Client{Timeout: 60 * time.Second},
		logger:  slog.Default().With("component", "zotero"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values) (*http.Response, error) {
	u := c.baseURL + c.cfg.libraryPath() + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Zotero-API-Key", c.cfg.APIKey)
	req.Header.Set("Zotero-API-Version", "3")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("zotero request %s: %w", path, err)
	}
	switch resp.StatusCode {
	case http.StatusOK:
		return resp, nil
	case http.StatusNotFound:
		resp.Body.Close()
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	case http.StatusUnauthorized, http.StatusForbidden:
		resp.Body.Close()
		return nil, ErrUnauthorized
	default:
		status := resp.StatusCode
		resp.Body.Close()
		return nil, &APIError{Status: status, Path: path}
	}
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	resp, err := c.get(ctx, path, query)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode zotero response %s: %w", path, err)
	}
	return nil
}

// Collections fetches every collection in the library.
func (c *Client) Collections(ctx context.Context) ([]Collection, error) {
	var all []Collection
	for start := 0; ; start += pageSize {
		query := url.Values{
			"start": {strconv.Itoa(start)},
			"limit": {strconv.Itoa(pageSize)},
		}
		var page []Collection
		if err := c.getJSON(ctx, "/collections", query, &page); err != nil {
			return nil, err
		}
		all = append(all, page...)
		if len(page) < pageSize {
			return all, nil
		}
	}
}

// CollectionPath resolves the slash-joined path of a collection by walking
// parent links, e.g. "Projects/Trust Review". Unknown keys return the key
// itself so callers always get a usable label.
func CollectionPath(key string, collections []Collection) string {
	byKey := make(map[string]Collection, len(collections))
	for _, col := range collections {
		byKey[col.Key] = col
	}

	var parts []string
	for cur := key; cur != ""; {
		col, ok := byKey[cur]
		if !ok {
			if len(parts) == 0 {
				return key
			}
			break
		}
		parts = append([]string{col.Data.Name}, parts...)
		cur = col.Data.ParentCollection
	}
	path := ""
	for i, p := range parts {
		if i > 0 {
			path += "/"
		}
		path += p
	}
	return path
}

// FindCollection returns the key of the collection whose path matches the
// given slash-joined name, e.g. "Projects/Trust Review".
func FindCollection(path string, collections []Collection) (string, error) {
	for _, col := range collections {
		if CollectionPath(col.Key, collections) == path {
			return col.Key, nil
		}
	}
	return "", fmt.Errorf("%w: collection %q", ErrNotFound, path)
}

// Items fetches the top-level items in a collection.
func (c *Client) Items(ctx context.Context, collectionKey string) ([]Item, error) {
	var all []Item
	for start := 0; ; start += pageSize {
		query := url.Values{
			"start":    {strconv.Itoa(start)},
			"limit":    {strconv.Itoa(pageSize)},
			"itemType": {"-attachment"},
		}
		var page []Item
		path := "/collections/" + collectionKey + "/items/top"
		if err := c.getJSON(ctx, path, query, &page); err != nil {
			return nil, err
		}
		all = append(all, page...)
		if len(page) < pageSize {
			return all, nil
		}
	}
}

// PDFAttachments returns the stored PDF attachments of an item.
func (c *Client) PDFAttachments(ctx context.Context, parentKey string) ([]Item, error) {
	var children []Item
	if err := c.getJSON(ctx, "/items/"+parentKey+"/children", nil, &children); err != nil {
		return nil, err
	}
	var pdfs []Item
	for _, child := range children {
		if child.IsPDFAttachment() {
			pdfs = append(pdfs, child)
		}
	}
	return pdfs, nil
}

// DownloadPDF fetches an attachment's file into dir and returns the local
// path. The filename falls back to the attachment key when Zotero has none.
func (c *Client) DownloadPDF(ctx context.Context, attachment Item, dir string) (string, error) {
	resp, err := c.get(ctx, "/items/"+attachment.Key+"/file", nil)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	name := attachment.Data.Filename
	if name == "" {
		name = attachment.Key + ".pdf"
	}
	dest := filepath.Join(dir, name)

	f, err := os.Create(dest)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", dest, err)
	}
	defer f.Close()

	if _, err := io.Copy(f, resp.Body); err != nil {
		os.Remove(dest)
		return "", fmt.Errorf("download %s: %w", attachment.Key, err)
	}
	c.logger.Debug("downloaded attachment", "key", attachment.Key, "path", dest)
	return dest, nil
}

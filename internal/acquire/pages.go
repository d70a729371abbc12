// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package acquire

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
	"github.com/sirupsen/logrus"

	"github.com/pdiddy/quote-forge/internal/httputil"
	"github.com/pdiddy/quote-forge/pkg/types"
)

// maxPageBytes bounds how much of a page body is read.
const maxPageBytes = 8 << 20

// FetchPage downloads one page and extracts its main text. The first
// <table> wins when present, then the page's <p> elements, then a
// readability pass over the whole document.
// Throttled retries are logged to log.
func FetchPage(ctx context.Context, client *http.Client, pageURL string, cfg types.AcquisitionConfig, log logrus.FieldLogger) (types.RawDocument, error) {
	u, err := url.Parse(pageURL)
	if err != nil || u.Host == "" {
		return types.RawDocument{}, fmt.Errorf("invalid page URL %q", pageURL)
	}
	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return types.RawDocument{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", cfg.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := httputil.DoWithRetry(ctx, client, req, 2, log)
	if err != nil {
		return types.RawDocument{}, fmt.Errorf("HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return types.RawDocument{}, fmt.Errorf("HTTP %d from %s", resp.StatusCode, pageURL)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return types.RawDocument{}, fmt.Errorf("reading body: %w", err)
	}

	title, text, err := ExtractPageText(body, u)
	if err != nil {
		return types.RawDocument{}, err
	}
	return types.RawDocument{
		Source: pageURL,
		Kind:   types.SourcePage,
		Title:  title,
		Text:   text,
	}, nil
}

// ExtractPageText returns the title and main text of an HTML document.
func ExtractPageText(body []byte, pageURL *url.URL) (title, text string, err error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return "", "", fmt.Errorf("parsing HTML: %w", err)
	}

	title = squash(doc.Find("title").First().Text())
	if title == "" {
		title = path.Base(strings.TrimSuffix(pageURL.Path, "/"))
		if title == "." || title == "/" {
			title = pageURL.Host
		}
	}

	if table := doc.Find("table").First(); table.Length() > 0 {
		if text = strings.Join(textNodes(table, nil), " "); text != "" {
			return title, text, nil
		}
	}

	var paras []string
	doc.Find("p").Each(func(_ int, s *goquery.Selection) {
		if t := squash(s.Text()); t != "" {
			paras = append(paras, t)
		}
	})
	if len(paras) > 0 {
		return title, strings.Join(paras, " "), nil
	}

	article, err := readability.FromReader(bytes.NewReader(body), pageURL)
	if err != nil {
		return title, "", fmt.Errorf("readability: %w", err)
	}
	content, err := goquery.NewDocumentFromReader(strings.NewReader(article.Content))
	if err != nil {
		return title, "", fmt.Errorf("parsing article: %w", err)
	}
	return title, squash(content.Text()), nil
}

// textNodes appends the squashed text of every text node below sel, in
// document order. Each node is visited once, so nested tables are not
// repeated.
func textNodes(sel *goquery.Selection, out []string) []string {
	sel.Contents().Each(func(_ int, c *goquery.Selection) {
		switch goquery.NodeName(c) {
		case "#text":
			if t := squash(c.Text()); t != "" {
				out = append(out, t)
			}
		case "script", "style", "#comment":
		default:
			out = textNodes(c, out)
		}
	})
	return out
}

func squash(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

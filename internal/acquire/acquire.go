// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package acquire produces raw text from a local document or from a list of
// web pages.
package acquire

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/pdiddy/quote-forge/pkg/types"
)

// BatchResult holds the outcome of a page fetch run.
type BatchResult struct {
	Fetched   int
	Failed    int
	Documents []types.RawDocument

	// Errors maps each failed URL to its error.
	Errors map[string]error
}

// Total returns the number of URLs processed.
func (r BatchResult) Total() int {
	return r.Fetched + r.Failed
}

// HasFailures reports whether any page failed.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// sleep waits d or until ctx is done. Tests replace it.
var sleep = func(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// FetchPages fetches each URL in order, pausing cfg.PageDelay between
// requests. A failed page is logged, counted and skipped. Cancelling ctx
// stops the batch before the next page.
func FetchPages(ctx context.Context, client *http.Client, urls []string, cfg types.AcquisitionConfig, log logrus.FieldLogger) BatchResult {
	result := BatchResult{Errors: make(map[string]error)}
	var robots *RobotsGate
	if cfg.RespectRobots {
		robots = NewRobotsGate(client, cfg.UserAgent)
	}

	for i, u := range urls {
		if i > 0 {
			if err := sleep(ctx, cfg.PageDelay); err != nil {
				log.WithError(err).Warn("page fetch interrupted")
				break
			}
		} else if ctx.Err() != nil {
			break
		}
		entry := log.WithField("url", u)

		if robots != nil {
			if ok, err := robots.Allowed(ctx, u); !ok {
				if err == nil {
					err = fmt.Errorf("disallowed by robots.txt")
				}
				entry.WithError(err).Warn("skipping page")
				result.Failed++
				result.Errors[u] = err
				continue
			}
		}

		doc, err := FetchPage(ctx, client, u, cfg, entry)
		if err != nil {
			entry.WithError(err).Warn("page fetch failed")
			result.Failed++
			result.Errors[u] = err
			continue
		}
		entry.WithField("chars", len(doc.Text)).Info("page fetched")
		result.Fetched++
		result.Documents = append(result.Documents, doc)
	}

	log.WithFields(logrus.Fields{
		"fetched": result.Fetched,
		"failed":  result.Failed,
		"total":   result.Total(),
	}).Info("page batch complete")
	return result
}

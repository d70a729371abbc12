// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package acquire

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/temoto/robotstxt"
)

// RobotsGate answers robots.txt checks, fetching each host's file once.
type RobotsGate struct {
	client    *http.Client
	userAgent string
	groups    map[string]*robotstxt.Group
}

// NewRobotsGate returns a gate that tests paths for userAgent.
func NewRobotsGate(client *http.Client, userAgent string) *RobotsGate {
	return &RobotsGate{
		client:    client,
		userAgent: userAgent,
		groups:    make(map[string]*robotstxt.Group),
	}
}

// Allowed reports whether pageURL may be fetched. A host whose robots.txt
// cannot be fetched or parsed allows everything.
func (g *RobotsGate) Allowed(ctx context.Context, pageURL string) (bool, error) {
	u, err := url.Parse(pageURL)
	if err != nil || u.Host == "" {
		return false, fmt.Errorf("invalid page URL %q", pageURL)
	}
	key := u.Scheme + "://" + u.Host
	group, seen := g.groups[key]
	if !seen {
		group = g.load(ctx, key)
		g.groups[key] = group
	}
	if group == nil {
		return true, nil
	}
	p := u.EscapedPath()
	if p == "" {
		p = "/"
	}
	return group.Test(p), nil
}

func (g *RobotsGate) load(ctx context.Context, root string) *robotstxt.Group {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, root+"/robots.txt", nil)
	if err != nil {
		return nil
	}
	req.Header.Set("User-Agent", g.userAgent)
	resp, err := g.client.Do(req)
	if err != nil {
		return nil
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 500 {
		return nil
	}

	data, err := robotstxt.FromResponse(resp)
	if err != nil {
		return nil
	}
	return data.FindGroup(g.userAgent)
}

package controllers

import (
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mmcdole/gofeed"
	"go.uber.org/zap"
)

type feedItem struct {
	Title       string `json:"title"`
	Link        string `json:"link"`
	Published   string `json:"published,omitempty"`
	Description string `json:"description,omitempty"`
	Source      string `json:"source,omitempty"`

	publishedAt *time.Time
}

// RSS relays a feed. The default mode passes the upstream XML through
// untouched; format=json parses it into a stable shape, and multiple url
// params merge into one item stream. A single feed's failure is logged and
// excluded rather than failing the whole request.
func (p *ProxyController) RSS(c *gin.Context) {
	urls := c.QueryArray("url")
	if len(urls) == 0 || urls[0] == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Feed URL is required"})
		return
	}

	if c.Query("format") != "json" {
		body, ctype, err := p.fetch(c, urls[0])
		if err != nil {
			p.Log.Warn("rss proxy failed", zap.String("url", urls[0]), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch feed"})
			return
		}
		if ctype == "" {
			ctype = "application/rss+xml; charset=utf-8"
		}
		c.Header("Cache-Control", "public, max-age=300")
		c.Data(http.StatusOK, ctype, body)
		return
	}

	feeds := make([]*gofeed.Feed, len(urls))
	var wg sync.WaitGroup
	for i, u := range urls {
		wg.Add(1)
		go func(i int, u string) {
			defer wg.Done()
			fp := gofeed.NewParser()
			fp.Client = p.Client
			feed, err := fp.ParseURLWithContext(u, c.Request.Context())
			if err != nil {
				p.Log.Warn("rss feed skipped", zap.String("url", u), zap.Error(err))
				return
			}
			feeds[i] = feed
		}(i, u)
	}
	wg.Wait()

	var parsed []*gofeed.Feed
	for _, f := range feeds {
		if f != nil {
			parsed = append(parsed, f)
		}
	}
	if len(parsed) == 0 {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch feed"})
		return
	}

	var items []feedItem
	for _, f := range parsed {
		for _, it := range f.Items {
			items = append(items, feedItem{
				Title:       it.Title,
				Link:        it.Link,
				Published:   it.Published,
				Description: it.Description,
				Source:      f.Title,
				publishedAt: it.PublishedParsed,
			})
		}
	}
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i].publishedAt, items[j].publishedAt
		if a == nil || b == nil {
			return b == nil && a != nil
		}
		return a.After(*b)
	})
	if items == nil {
		items = []feedItem{}
	}

	resp := gin.H{"title": "", "description": "", "link": "", "items": items}
	if len(parsed) == 1 {
		resp["title"] = parsed[0].Title
		resp["description"] = parsed[0].Description
		resp["link"] = parsed[0].Link
	}

	c.Header("Cache-Control", "public, max-age=300")
	c.JSON(http.StatusOK, resp)
}

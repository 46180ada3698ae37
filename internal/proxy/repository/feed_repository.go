package repository

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang-stock-proxy/internal/entity"
	"golang-stock-proxy/pkg/logger"
	"golang-stock-proxy/pkg/metrics"
	"golang-stock-proxy/pkg/utils"

	"github.com/mmcdole/gofeed"
)

const sourceFeed = "feed"

type newsFeedRepository struct {
	urlTemplate string
	parser      *gofeed.Parser
	log         *logger.Logger
}

// NewNewsFeedRepository creates a feed reader. urlTemplate must contain a
// single %s which receives the query-escaped stock code.
func NewNewsFeedRepository(urlTemplate string, timeout time.Duration, log *logger.Logger) NewsFeedRepository {
	parser := gofeed.NewParser()
	parser.UserAgent = "Mozilla/5.0 (compatible; akshare-proxy)"
	if timeout > 0 {
		parser.Client = &http.Client{Timeout: timeout}
	}
	return &newsFeedRepository{
		urlTemplate: urlTemplate,
		parser:      parser,
		log:         log,
	}
}

func (r *newsFeedRepository) GetFeedNews(ctx context.Context, code string, limit int) ([]entity.NewsArticle, error) {
	feedURL := fmt.Sprintf(r.urlTemplate, url.QueryEscape(code))

	start := time.Now()
	feed, err := r.parser.ParseURLWithContext(feedURL, ctx)
	metrics.UpstreamLatency.WithLabelValues(sourceFeed).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.UpstreamRequests.WithLabelValues(sourceFeed, "error").Inc()
		r.log.ErrorContext(ctx, "Failed to parse news feed", logger.StringField("url", feedURL), logger.ErrorField(err))
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}
	metrics.UpstreamRequests.WithLabelValues(sourceFeed, "200").Inc()

	articles := make([]entity.NewsArticle, 0, len(feed.Items))
	for _, item := range feed.Items {
		if limit > 0 && len(articles) >= limit {
			break
		}

		publishedAt := ""
		if item.PublishedParsed != nil {
			publishedAt = item.PublishedParsed.In(utils.GetCSTTimeLocation()).Format(utils.DateTimeLayout)
		}

		source := feed.Title
		if item.Author != nil && item.Author.Name != "" {
			source = item.Author.Name
		}

		articles = append(articles, entity.NewsArticle{
			Title:       StripTags(item.Title),
			Content:     StripTags(item.Description),
			PublishedAt: publishedAt,
			Source:      strings.TrimSpace(source),
			URL:         item.Link,
		})
	}

	return articles, nil
}

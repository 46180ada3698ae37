package config

import (
	"time"

	"golang-stock-proxy/pkg/config"
)

// Provider holds the market data provider endpoints and limits.
type Provider struct {
	KlineBaseURL        string        `mapstructure:"kline_base_url"`
	QuoteListBaseURL    string        `mapstructure:"quote_list_base_url"`
	NewsSearchBaseURL   string        `mapstructure:"news_search_base_url"`
	FinanceBaseURL      string        `mapstructure:"finance_base_url"`
	Timeout             time.Duration `mapstructure:"timeout"`
	MaxRequestPerMinute int           `mapstructure:"max_request_per_minute"`
	SnapshotPageSize    int           `mapstructure:"snapshot_page_size"`
}

// News holds the news endpoint configuration.
type News struct {
	MaxItems        int      `mapstructure:"max_items"`
	PositiveWords   []string `mapstructure:"positive_words"`
	NegativeWords   []string `mapstructure:"negative_words"`
	FeedURLTemplate string   `mapstructure:"feed_url_template"`
}

// Config holds the full configuration for the proxy service.
type Config struct {
	App      config.App    `mapstructure:"app"`
	Logger   config.Logger `mapstructure:"logger"`
	Redis    config.Redis  `mapstructure:"redis"`
	API      config.API    `mapstructure:"api"`
	Cache    config.Cache  `mapstructure:"cache"`
	Provider Provider      `mapstructure:"provider"`
	News     News          `mapstructure:"news"`
}

// Defaults mirrors configs/config-proxy.yaml so the service also runs with no file at all.
var Defaults = map[string]interface{}{
	"app.name":                        "akshare-proxy",
	"app.env":                         "development",
	"logger.level":                    "info",
	"logger.encoding":                 "json",
	"redis.enabled":                   false,
	"redis.host":                      "localhost",
	"redis.port":                      6379,
	"redis.password":                  "",
	"redis.db":                        0,
	"redis.pool_size":                 10,
	"api.host":                        "0.0.0.0",
	"api.port":                        5000,
	"cache.enabled":                   true,
	"cache.default_ttl":               "5m",
	"cache.cleanup_interval":          "10m",
	"provider.kline_base_url":         "https://push2his.eastmoney.com",
	"provider.quote_list_base_url":    "https://82.push2.eastmoney.com",
	"provider.news_search_base_url":   "https://search-api-web.eastmoney.com",
	"provider.finance_base_url":       "https://money.finance.sina.com.cn",
	"provider.timeout":                "15s",
	"provider.max_request_per_minute": 120,
	"provider.snapshot_page_size":     6000,
	"news.max_items":                  30,
	"news.positive_words":             []string{"上涨", "增长", "利好", "买入", "增持", "推荐"},
	"news.negative_words":             []string{"下跌", "亏损", "利空", "卖出", "减持", "风险"},
	"news.feed_url_template":          "",
}

// Load loads the proxy configuration from the given path.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := config.Load(path, &cfg, Defaults); err != nil {
		return nil, err
	}
	return &cfg, nil
}

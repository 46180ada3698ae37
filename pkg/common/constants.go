package common

const (
	ServiceName = "akshare-proxy"

	// Cache keys
	CacheKeySpotSnapshot        = "akshare:spot"
	CacheKeyValuations          = "akshare:valuations"
	CacheKeyFinancialIndicators = "akshare:indicators:%s"

	NewsTypeCompany  = "company_news"
	SentimentNeutral = "中性"
	UnknownLabel     = "未知"
)

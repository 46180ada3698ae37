package dto

import "encoding/json"

// AnalysisRequest is the body of POST /api/analyze and /api/analyze/stream.
type AnalysisRequest struct {
	StockCode       string `json:"stock_code"`
	EnableAI        bool   `json:"enable_ai"`
	EnableStreaming *bool  `json:"enable_streaming,omitempty"`
}

// PriceInfo is the price block of an analysis report.
type PriceInfo struct {
	CurrentPrice float64  `json:"current_price"`
	PriceChange  float64  `json:"price_change"`
	VolumeRatio  *float64 `json:"volume_ratio,omitempty"`
	Volatility   *float64 `json:"volatility,omitempty"`
}

// Scores holds the 0-100 sub-scores and the comprehensive score.
type Scores struct {
	Technical     float64 `json:"technical"`
	Fundamental   float64 `json:"fundamental"`
	Sentiment     float64 `json:"sentiment"`
	Comprehensive float64 `json:"comprehensive"`
}

// StreamChunk is one element of streaming_analysis.
type StreamChunk struct {
	ChunkType string `json:"chunk_type"`
	Content   string `json:"content"`
}

// AnalysisResult is the analysis report produced by the external service.
// Technical, fundamental, sentiment and data quality blocks are kept opaque.
type AnalysisResult struct {
	StockCode         string          `json:"stock_code"`
	StockName         string          `json:"stock_name"`
	AnalysisDate      string          `json:"analysis_date"`
	PriceInfo         PriceInfo       `json:"price_info"`
	Technical         json.RawMessage `json:"technical,omitempty"`
	Fundamental       json.RawMessage `json:"fundamental,omitempty"`
	Sentiment         json.RawMessage `json:"sentiment,omitempty"`
	Scores            Scores          `json:"scores"`
	Recommendation    string          `json:"recommendation"`
	AIAnalysis        string          `json:"ai_analysis,omitempty"`
	StreamingAnalysis []StreamChunk   `json:"streaming_analysis,omitempty"`
	FallbackUsed      bool            `json:"fallback_used"`
	FallbackReason    string          `json:"fallback_reason,omitempty"`
	DataQuality       json.RawMessage `json:"data_quality,omitempty"`
}

// AIConfig is the payload of GET /api/config/ai.
type AIConfig struct {
	Provider           string   `json:"provider"`
	Model              string   `json:"model"`
	Enabled            bool     `json:"enabled"`
	TimeoutSeconds     int      `json:"timeout_seconds"`
	AnalysisDimensions []string `json:"analysis_dimensions,omitempty"`
}

// APIResponse is the envelope used by the analysis service.
type APIResponse[T any] struct {
	Success bool   `json:"success"`
	Data    *T     `json:"data"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

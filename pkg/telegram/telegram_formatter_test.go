package telegram

import (
	"strings"
	"testing"
	"unicode/utf8"

	"golang-stock-proxy/internal/probe/dto"

	"github.com/stretchr/testify/assert"
)

func TestFormatAnalysisForTelegram(t *testing.T) {
	result := &dto.AnalysisResult{
		StockCode:      "000001",
		StockName:      "平安银行",
		PriceInfo:      dto.PriceInfo{CurrentPrice: 10.5, PriceChange: -0.5},
		Scores:         dto.Scores{Technical: 81, Fundamental: 62, Sentiment: 30, Comprehensive: 58.2},
		Recommendation: "买入",
		FallbackUsed:   true,
	}

	out := FormatAnalysisForTelegram(result, func(float64) string { return "G" })

	assert.Contains(t, out, "*平安银行* `000001`")
	assert.Contains(t, out, "¥10.50 (-0.50%)")
	assert.Contains(t, out, "*Overall:* 58.2/100")
	assert.Contains(t, out, "• Technical: 81.0 (G)")
	assert.Contains(t, out, "🟢 *Recommendation:* 买入")
	assert.Contains(t, out, "*Fallback:* n/a")
}

func TestFormatAnalysisForTelegram_EscapesServiceText(t *testing.T) {
	result := &dto.AnalysisResult{
		StockCode:      "600519",
		StockName:      "*ST_茅台",
		Recommendation: "持有_观望",
		FallbackUsed:   true,
		FallbackReason: "ai_timeout [retry]",
	}

	out := FormatAnalysisForTelegram(result, func(float64) string { return "G" })

	assert.Contains(t, out, "*\\*ST\\_茅台* `600519`")
	assert.Contains(t, out, "*Recommendation:* 持有\\_观望")
	assert.Contains(t, out, "*Fallback:* ai\\_timeout \\[retry]")
}

func TestSplitMessage(t *testing.T) {
	assert.Equal(t, []string{"short"}, SplitMessage("short", 10))

	text := "aaaa\nbbbb\ncccc\n"
	assert.Equal(t, []string{"aaaa\nbbbb\n", "cccc\n"}, SplitMessage(text, 10))

	long := strings.Repeat("字", 10) // 30 bytes
	parts := SplitMessage(long, 8)
	assert.Equal(t, long, strings.Join(parts, ""))
	for _, p := range parts {
		assert.LessOrEqual(t, len(p), 8)
		assert.True(t, utf8.ValidString(p))
	}
}

package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"golang-stock-proxy/internal/probe/dto"
	"golang-stock-proxy/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScoreGrade(t *testing.T) {
	tests := []struct {
		score float64
		want  string
	}{
		{100, "优秀"},
		{80, "优秀"},
		{79.9, "良好"},
		{60, "良好"},
		{59.99, "一般"},
		{40, "一般"},
		{39.9, "较差"},
		{0, "较差"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ScoreGrade(tt.score), "score %v", tt.score)
	}
}

func sampleResult() *dto.AnalysisResult {
	return &dto.AnalysisResult{
		StockCode:    "000001",
		StockName:    "平安银行",
		AnalysisDate: "2024-03-01T02:30:00Z",
		PriceInfo:    dto.PriceInfo{CurrentPrice: 10.456, PriceChange: -1.234},
		Scores: dto.Scores{
			Technical:     80,
			Fundamental:   59.96,
			Sentiment:     40,
			Comprehensive: 63.45,
		},
		Recommendation: "持有",
		AIAnalysis:     "基本面稳健，短期震荡。",
	}
}

func TestRender(t *testing.T) {
	now := time.Date(2024, 3, 1, 11, 0, 0, 0, utils.GetCSTTimeLocation())

	out, err := Render(sampleResult(), now)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "# 📈 股票分析报告"))
	assert.Contains(t, out, "| **股票代码** | 000001 |")
	assert.Contains(t, out, "| **股票名称** | 平安银行 |")
	assert.Contains(t, out, "| **分析时间** | 2024/03/01 02:30:00 |")
	assert.Contains(t, out, "| **当前价格** | ¥10.46 |")
	assert.Contains(t, out, "| **价格变动** | -1.23% |")
	assert.Contains(t, out, "### 🎯 总体评分：63.5/100")
	assert.Contains(t, out, "| **技术分析** | 80.0/100 | 优秀 |")
	assert.Contains(t, out, "| **基本面分析** | 60.0/100 | 一般 |")
	assert.Contains(t, out, "| **情绪分析** | 40.0/100 | 一般 |")
	assert.Contains(t, out, "### 持有")
	assert.Contains(t, out, "基本面稳健，短期震荡。")
	assert.Contains(t, out, "*报告生成时间：2024/03/01 11:00:00*")
}

func TestRender_Defaults(t *testing.T) {
	out, err := Render(&dto.AnalysisResult{}, time.Now())
	require.NoError(t, err)

	assert.Contains(t, out, "| **股票代码** | 未知 |")
	assert.Contains(t, out, "| **股票名称** | 未知股票 |")
	assert.Contains(t, out, "| **分析时间** | 未知 |")
	assert.Contains(t, out, "### 观望")
	assert.Contains(t, out, "| **技术分析** | 0.0/100 | 较差 |")
}

func TestRender_AnalysisTimeKeepsOffset(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2024-03-01T02:30:00Z", "2024/03/01 02:30:00"},
		{"2024-03-01T10:30:00+08:00", "2024/03/01 10:30:00"},
		{"2024-03-01T10:30:00.123456", "2024/03/01 10:30:00"},
		{"yesterday", "yesterday"},
	}

	for _, tt := range tests {
		result := sampleResult()
		result.AnalysisDate = tt.in

		out, err := Render(result, time.Now())
		require.NoError(t, err)
		assert.Contains(t, out, "| **分析时间** | "+tt.want+" |", tt.in)
	}
}

func TestSave(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "reports")
	now := time.Date(2024, 3, 1, 9, 5, 7, 0, time.UTC)

	path, err := Save(dir, "600519", "# report", now)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "stock_analysis_600519_20240301T090507.md"), path)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "# report", string(content))
}

func TestPreview(t *testing.T) {
	assert.Equal(t, "短文本", Preview("短文本", 10))
	assert.Equal(t, "一二三...", Preview("一二三四五", 3))
	assert.Equal(t, 1003, len([]rune(Preview(strings.Repeat("字", 1500), PreviewLength))))
}

package report

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"
	"time"

	"golang-stock-proxy/internal/probe/dto"
	"golang-stock-proxy/pkg/utils"
)

const (
	// PreviewLength is the number of characters printed after a report is saved.
	PreviewLength = 1000

	displayTimeLayout = "2006/01/02 15:04:05"
	fileTimeLayout    = "20060102T150405"
)

var markdownTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"grade": ScoreGrade,
	"f1":    func(v float64) string { return fmt.Sprintf("%.1f", v) },
	"f2":    func(v float64) string { return fmt.Sprintf("%.2f", v) },
}).Parse(`# 📈 股票分析报告

## 🏢 基本信息
| 项目 | 值 |
|------|-----|
| **股票代码** | {{.Code}} |
| **股票名称** | {{.Name}} |
| **分析时间** | {{.AnalysisTime}} |
| **当前价格** | ¥{{f2 .Result.PriceInfo.CurrentPrice}} |
| **价格变动** | {{f2 .Result.PriceInfo.PriceChange}}% |

## 📊 综合评分

### 🎯 总体评分：{{f1 .Result.Scores.Comprehensive}}/100

| 维度 | 得分 | 评级 |
|------|------|------|
| **技术分析** | {{f1 .Result.Scores.Technical}}/100 | {{grade .Result.Scores.Technical}} |
| **基本面分析** | {{f1 .Result.Scores.Fundamental}}/100 | {{grade .Result.Scores.Fundamental}} |
| **情绪分析** | {{f1 .Result.Scores.Sentiment}}/100 | {{grade .Result.Scores.Sentiment}} |

## 🎯 投资建议

### {{.Recommendation}}

## 🤖 AI综合分析

{{.Result.AIAnalysis}}

---

*报告生成时间：{{.GeneratedAt}}*  
*分析器版本：股票分析系统 v2.0*  
*数据来源：多维度综合分析*
`))

type templateData struct {
	Result         *dto.AnalysisResult
	Code           string
	Name           string
	AnalysisTime   string
	Recommendation string
	GeneratedAt    string
}

// ScoreGrade maps a 0-100 score to its grade. Thresholds are inclusive.
func ScoreGrade(score float64) string {
	switch {
	case score >= 80:
		return "优秀"
	case score >= 60:
		return "良好"
	case score >= 40:
		return "一般"
	default:
		return "较差"
	}
}

// Render builds the Markdown report for result. now is the generation time.
func Render(result *dto.AnalysisResult, now time.Time) (string, error) {
	data := templateData{
		Result:         result,
		Code:           valueOr(result.StockCode, "未知"),
		Name:           valueOr(result.StockName, "未知股票"),
		AnalysisTime:   formatAnalysisTime(result.AnalysisDate),
		Recommendation: valueOr(result.Recommendation, "观望"),
		GeneratedAt:    now.Format(displayTimeLayout),
	}

	var buf bytes.Buffer
	if err := markdownTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render report: %w", err)
	}
	return buf.String(), nil
}

// FileName returns stock_analysis_{code}_{YYYYMMDDTHHMMSS}.md.
func FileName(code string, now time.Time) string {
	return fmt.Sprintf("stock_analysis_%s_%s.md", code, now.Format(fileTimeLayout))
}

// Save writes content into dir and returns the file path.
func Save(dir, code, content string, now time.Time) (string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create report directory: %w", err)
	}

	path := filepath.Join(dir, FileName(code, now))
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}
	return path, nil
}

// Preview returns the first n characters of content, with "..." appended when truncated.
func Preview(content string, n int) string {
	runes := []rune(content)
	if len(runes) <= n {
		return content
	}
	return string(runes[:n]) + "..."
}

// formatAnalysisTime renders an ISO-8601 timestamp in its own offset, or
// returns it unchanged when it cannot be parsed.
func formatAnalysisTime(s string) string {
	if strings.TrimSpace(s) == "" {
		return "未知"
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", utils.DateTimeLayout} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(displayTimeLayout)
		}
	}
	return s
}

func valueOr(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}

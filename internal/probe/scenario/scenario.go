package scenario

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"golang-stock-proxy/internal/probe/client"
	"golang-stock-proxy/internal/probe/dto"
	"golang-stock-proxy/internal/probe/report"
	"golang-stock-proxy/internal/probe/stream"
	"golang-stock-proxy/pkg/logger"
	"golang-stock-proxy/pkg/telegram"
	"golang-stock-proxy/pkg/utils"

	"github.com/tidwall/pretty"
)

const (
	separator     = "--------------------------------------------------"
	previewChunks = 3
)

// Result is the outcome of one scenario.
type Result struct {
	Name     string
	Passed   bool
	Err      error
	Duration time.Duration
}

// Runner executes probe scenarios against the analysis service and prints a
// human readable trace to out.
type Runner struct {
	client   client.AnalysisClient
	notifier telegram.Notifier
	out      io.Writer
	verbose  bool
	log      *logger.Logger
	now      func() time.Time
}

// NewRunner creates a Runner. notifier may be nil.
func NewRunner(c client.AnalysisClient, notifier telegram.Notifier, out io.Writer, verbose bool, log *logger.Logger) *Runner {
	return &Runner{
		client:   c,
		notifier: notifier,
		out:      out,
		verbose:  verbose,
		log:      log,
		now:      utils.TimeNowCST,
	}
}

func (r *Runner) run(name string, fn func() error) Result {
	start := time.Now()
	err := fn()
	res := Result{Name: name, Passed: err == nil, Err: err, Duration: time.Since(start)}
	if err != nil {
		r.printf("❌ %s: %v\n", name, err)
	} else {
		r.printf("✅ %s (%.2fs)\n", name, res.Duration.Seconds())
	}
	return res
}

// Health checks GET /health.
func (r *Runner) Health(ctx context.Context) Result {
	return r.run("health", func() error {
		return r.client.Health(ctx)
	})
}

// Config checks GET /api/config/ai.
func (r *Runner) Config(ctx context.Context) Result {
	return r.run("config", func() error {
		cfg, err := r.client.GetAIConfig(ctx)
		if err != nil {
			return err
		}

		r.printf("   提供者: %s\n", cfg.Provider)
		r.printf("   模型: %s\n", cfg.Model)
		r.printf("   启用状态: %t\n", cfg.Enabled)
		r.printf("   超时设置: %d秒\n", cfg.TimeoutSeconds)
		if len(cfg.AnalysisDimensions) > 0 {
			r.printf("   分析维度: %s\n", strings.Join(cfg.AnalysisDimensions, ", "))
		}
		return nil
	})
}

// Analyze runs one non-streaming analysis.
func (r *Runner) Analyze(ctx context.Context, code string, enableAI bool) Result {
	name := fmt.Sprintf("analyze %s (ai=%t)", code, enableAI)
	return r.run(name, func() error {
		streaming := true
		result, err := r.client.Analyze(ctx, dto.AnalysisRequest{StockCode: code, EnableAI: enableAI, EnableStreaming: &streaming})
		if err != nil {
			return err
		}
		r.printAnalysis(result)
		return nil
	})
}

// AnalyzeCases runs the AI-enabled and the fallback-only analysis.
func (r *Runner) AnalyzeCases(ctx context.Context, code string) []Result {
	return []Result{
		r.Analyze(ctx, code, true),
		r.Analyze(ctx, code, false),
	}
}

func (r *Runner) printAnalysis(result *dto.AnalysisResult) {
	r.printf("   股票代码: %s\n", result.StockCode)
	r.printf("   股票名称: %s\n", result.StockName)
	r.printf("   推荐建议: %s\n", result.Recommendation)
	r.printf("   综合评分: %.1f/100\n", result.Scores.Comprehensive)
	r.printf("   技术面: %.1f/100\n", result.Scores.Technical)
	r.printf("   基本面: %.1f/100\n", result.Scores.Fundamental)
	r.printf("   情绪面: %.1f/100\n", result.Scores.Sentiment)
	r.printf("   是否使用备用分析: %t\n", result.FallbackUsed)
	if result.FallbackReason != "" {
		r.printf("   备用原因: %s\n", result.FallbackReason)
	}

	if result.AIAnalysis != "" {
		r.printf("   AI分析长度: %d 字符\n", len([]rune(result.AIAnalysis)))
		r.printf("   AI分析预览: %s\n", report.Preview(result.AIAnalysis, 100))
	}

	if len(result.StreamingAnalysis) == 0 {
		r.printf("   流式分析: 未启用或未返回\n")
	} else {
		r.printf("   流式分析: 包含 %d 个数据块\n", len(result.StreamingAnalysis))
		for i, chunk := range result.StreamingAnalysis {
			if i >= previewChunks {
				break
			}
			chunkType := chunk.ChunkType
			if chunkType == "" {
				chunkType = "unknown"
			}
			r.printf("     块 %d: [%s] %s\n", i+1, chunkType, report.Preview(chunk.Content, 50))
		}
	}

	if r.verbose {
		if raw, err := json.Marshal(result); err == nil {
			r.printf("%s", pretty.Pretty(raw))
		}
	}
}

// Stream runs a streaming analysis and validates the event order.
func (r *Runner) Stream(ctx context.Context, code string, enableAI bool) Result {
	name := fmt.Sprintf("stream %s (ai=%t)", code, enableAI)
	return r.run(name, func() error {
		validator := stream.NewValidator()

		err := r.client.Stream(ctx, dto.AnalysisRequest{StockCode: code, EnableAI: enableAI},
			func(event dto.StreamEvent) error {
				validator.Observe(event)
				r.printEvent(event)
				return nil
			},
			func(err error) {
				validator.ObserveMalformed(err)
				r.log.WarnContext(ctx, "Skipping malformed stream frame", logger.ErrorField(err))
			},
		)

		s := validator.Summary()
		r.printf("\n📊 测试结果统计:\n")
		r.printf("   流式内容片段: %d (%d 字符)\n", s.Content, s.ContentChars)
		r.printf("   进度更新: %d\n", s.Progress)
		r.printf("   最终结果: %s\n", mark(s.Final == 1))
		if s.Keepalive > 0 || s.Unknown > 0 || s.Malformed > 0 {
			r.printf("   keepalive: %d, 未知: %d, 无法解析: %d\n", s.Keepalive, s.Unknown, s.Malformed)
		}

		if err != nil {
			return err
		}
		return validator.Validate()
	})
}

func (r *Runner) printEvent(event dto.StreamEvent) {
	switch event.Type {
	case dto.EventStarted:
		msg := event.Message
		if msg == "" {
			msg = "开始分析"
		}
		r.printf("🎯 %s\n", msg)
	case dto.EventProgress:
		if p, err := event.Progress(); err == nil {
			r.printf("📊 进度: %.1f%% - %s\n", p.Percentage, p.Status)
		}
	case dto.EventStreamingContent:
		r.printf("📝 流式内容: %d 字符\n", len([]rune(event.Content)))
	case dto.EventFinalResult:
		r.printf("🎉 分析完成!\n")
	}
}

// Report runs a non-streaming analysis, renders the Markdown report, saves
// it under outDir and optionally pushes it to Telegram.
func (r *Runner) Report(ctx context.Context, code string, enableAI bool, outDir string, sendTelegram bool) Result {
	name := fmt.Sprintf("report %s", code)
	return r.run(name, func() error {
		result, err := r.client.Analyze(ctx, dto.AnalysisRequest{StockCode: code, EnableAI: enableAI})
		if err != nil {
			return err
		}

		now := r.now()
		content, err := report.Render(result, now)
		if err != nil {
			return err
		}

		path, err := report.Save(outDir, code, content, now)
		if err != nil {
			return err
		}

		r.printf("✅ 分析报告已生成: %s\n", path)
		r.printf("📊 报告预览:\n%s\n%s\n", separator, report.Preview(content, report.PreviewLength))

		if sendTelegram {
			return r.deliver(ctx, result, path, content)
		}
		return nil
	})
}

func (r *Runner) deliver(ctx context.Context, result *dto.AnalysisResult, path, content string) error {
	if r.notifier == nil {
		return fmt.Errorf("telegram delivery requested but no bot token is configured")
	}

	for _, part := range telegram.SplitMessage(telegram.FormatAnalysisForTelegram(result, report.ScoreGrade), telegram.MaxMessageLength) {
		if err := r.notifier.SendMessage(part); err != nil {
			return fmt.Errorf("failed to send telegram message: %w", err)
		}
	}

	fileName := filepath.Base(path)
	if err := r.notifier.SendDocument(fileName, []byte(content), result.StockName); err != nil {
		return fmt.Errorf("failed to send telegram document: %w", err)
	}

	r.log.InfoContext(ctx, "Report delivered to telegram", logger.StringField("file", fileName))
	r.printf("📨 已推送到 Telegram\n")
	return nil
}

// All runs every scenario in order. A failed health check stops the run.
func (r *Runner) All(ctx context.Context, code string, outDir string) []Result {
	results := []Result{r.Health(ctx)}
	if !results[0].Passed {
		r.printf("❌ 服务未运行，请先启动应用\n")
		return results
	}

	results = append(results, r.Config(ctx))
	results = append(results, r.AnalyzeCases(ctx, code)...)
	results = append(results, r.Stream(ctx, code, true))
	results = append(results, r.Report(ctx, code, false, outDir, false))
	return results
}

// PrintSummary prints one line per scenario and reports whether all passed.
func PrintSummary(out io.Writer, results []Result) bool {
	passed := 0
	fmt.Fprintf(out, "\n%s\n", separator)
	for _, res := range results {
		if res.Passed {
			passed++
		}
		line := fmt.Sprintf("%s %-32s %6.2fs", mark(res.Passed), res.Name, res.Duration.Seconds())
		if res.Err != nil {
			line += "  " + res.Err.Error()
		}
		fmt.Fprintln(out, line)
	}
	fmt.Fprintf(out, "%s\n%d/%d passed\n", separator, passed, len(results))
	return passed == len(results)
}

func mark(ok bool) string {
	if ok {
		return "✅"
	}
	return "❌"
}

func (r *Runner) printf(format string, args ...interface{}) {
	fmt.Fprintf(r.out, format, args...)
}

package scenario

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"golang-stock-proxy/internal/probe/client"
	"golang-stock-proxy/internal/probe/dto"
	"golang-stock-proxy/internal/probe/stream"
	"golang-stock-proxy/pkg/logger"
	"golang-stock-proxy/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	healthErr error
	result    *dto.AnalysisResult
	events    []dto.StreamEvent
	requests  []dto.AnalysisRequest
}

func (f *fakeClient) Health(ctx context.Context) error { return f.healthErr }

func (f *fakeClient) GetAIConfig(ctx context.Context) (*dto.AIConfig, error) {
	return &dto.AIConfig{Provider: "openai", Model: "gpt-4o", Enabled: true, TimeoutSeconds: 30}, nil
}

func (f *fakeClient) Analyze(ctx context.Context, req dto.AnalysisRequest) (*dto.AnalysisResult, error) {
	f.requests = append(f.requests, req)
	if f.result == nil {
		return nil, client.ErrUnsuccessful
	}
	return f.result, nil
}

func (f *fakeClient) Stream(ctx context.Context, req dto.AnalysisRequest, onEvent func(dto.StreamEvent) error, onMalformed func(error)) error {
	for _, e := range f.events {
		if err := onEvent(e); err != nil {
			return err
		}
	}
	return nil
}

type fakeNotifier struct {
	messages  []string
	documents []string
}

func (n *fakeNotifier) SendMessage(text string) error {
	n.messages = append(n.messages, text)
	return nil
}

func (n *fakeNotifier) SendDocument(fileName string, content []byte, caption string) error {
	n.documents = append(n.documents, fileName)
	return nil
}

func sampleResult() *dto.AnalysisResult {
	return &dto.AnalysisResult{
		StockCode:         "000001",
		StockName:         "平安银行",
		Scores:            dto.Scores{Technical: 70, Fundamental: 65, Sentiment: 50, Comprehensive: 63.5},
		Recommendation:    "持有",
		AIAnalysis:        "基本面稳健",
		StreamingAnalysis: []dto.StreamChunk{{ChunkType: "technical", Content: "均线多头"}},
	}
}

func event(t *testing.T, typ string, data interface{}) dto.StreamEvent {
	t.Helper()
	e := dto.StreamEvent{Type: typ}
	if data != nil {
		raw, err := json.Marshal(data)
		require.NoError(t, err)
		e.Data = raw
	}
	return e
}

func newTestRunner(c client.AnalysisClient, n *fakeNotifier) (*Runner, *bytes.Buffer) {
	var out bytes.Buffer
	var r *Runner
	if n != nil {
		r = NewRunner(c, n, &out, false, logger.NewNop())
	} else {
		r = NewRunner(c, nil, &out, false, logger.NewNop())
	}
	r.now = func() time.Time { return time.Date(2024, 3, 1, 9, 5, 7, 0, utils.GetCSTTimeLocation()) }
	return r, &out
}

func TestAnalyzeCases(t *testing.T) {
	c := &fakeClient{result: sampleResult()}
	r, out := newTestRunner(c, nil)

	results := r.AnalyzeCases(context.Background(), "000001")
	require.Len(t, results, 2)
	assert.True(t, results[0].Passed)
	assert.True(t, results[1].Passed)

	require.Len(t, c.requests, 2)
	assert.True(t, c.requests[0].EnableAI)
	assert.False(t, c.requests[1].EnableAI)

	assert.Contains(t, out.String(), "综合评分: 63.5/100")
	assert.Contains(t, out.String(), "块 1: [technical] 均线多头")
}

func TestStream(t *testing.T) {
	tests := []struct {
		name    string
		events  func(t *testing.T) []dto.StreamEvent
		wantErr error
	}{
		{
			name: "valid",
			events: func(t *testing.T) []dto.StreamEvent {
				return []dto.StreamEvent{
					{Type: dto.EventStarted, Message: "开始分析股票: 000001"},
					event(t, dto.EventProgress, dto.ProgressData{Percentage: 50, Status: "分析中"}),
					{Type: dto.EventStreamingContent, Content: "技术面"},
					event(t, dto.EventFinalResult, sampleResult()),
				}
			},
		},
		{
			name: "no final result",
			events: func(t *testing.T) []dto.StreamEvent {
				return []dto.StreamEvent{{Type: dto.EventStarted}}
			},
			wantErr: stream.ErrNoFinalResult,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, out := newTestRunner(&fakeClient{events: tt.events(t)}, nil)

			res := r.Stream(context.Background(), "000001", true)
			if tt.wantErr != nil {
				assert.False(t, res.Passed)
				assert.ErrorIs(t, res.Err, tt.wantErr)
				return
			}
			assert.True(t, res.Passed)
			assert.Contains(t, out.String(), "进度: 50.0% - 分析中")
			assert.Contains(t, out.String(), "流式内容片段: 1")
		})
	}
}

func TestReport(t *testing.T) {
	dir := t.TempDir()
	n := &fakeNotifier{}
	r, out := newTestRunner(&fakeClient{result: sampleResult()}, n)

	res := r.Report(context.Background(), "000001", false, dir, true)
	require.True(t, res.Passed, "%v", res.Err)

	path := filepath.Join(dir, "stock_analysis_000001_20240301T090507.md")
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "| **股票名称** | 平安银行 |")
	assert.Contains(t, out.String(), "分析报告已生成")

	require.Len(t, n.messages, 1)
	assert.Contains(t, n.messages[0], "平安银行")
	assert.Equal(t, []string{"stock_analysis_000001_20240301T090507.md"}, n.documents)
}

func TestReport_TelegramNotConfigured(t *testing.T) {
	r, _ := newTestRunner(&fakeClient{result: sampleResult()}, nil)

	res := r.Report(context.Background(), "000001", false, t.TempDir(), true)
	assert.False(t, res.Passed)
}

func TestAll_StopsWhenUnhealthy(t *testing.T) {
	c := &fakeClient{healthErr: errors.New("connection refused"), result: sampleResult()}
	r, _ := newTestRunner(c, nil)

	results := r.All(context.Background(), "000001", t.TempDir())
	require.Len(t, results, 1)
	assert.False(t, results[0].Passed)
	assert.Empty(t, c.requests)
}

func TestAll(t *testing.T) {
	c := &fakeClient{
		result: sampleResult(),
		events: []dto.StreamEvent{
			{Type: dto.EventStarted},
			event(t, dto.EventFinalResult, sampleResult()),
		},
	}
	r, _ := newTestRunner(c, nil)

	results := r.All(context.Background(), "000001", t.TempDir())
	require.Len(t, results, 6)
	for _, res := range results {
		assert.True(t, res.Passed, "%s: %v", res.Name, res.Err)
	}

	var summary bytes.Buffer
	assert.True(t, PrintSummary(&summary, results))
	assert.True(t, strings.Contains(summary.String(), "6/6 passed"))
}

func TestPrintSummary_Failure(t *testing.T) {
	var out bytes.Buffer
	ok := PrintSummary(&out, []Result{
		{Name: "health", Passed: true},
		{Name: "stream", Passed: false, Err: stream.ErrFinalNotLast},
	})

	assert.False(t, ok)
	assert.Contains(t, out.String(), "1/2 passed")
	assert.Contains(t, out.String(), stream.ErrFinalNotLast.Error())
}

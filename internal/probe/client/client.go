package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang-stock-proxy/internal/probe/dto"
	"golang-stock-proxy/internal/probe/stream"
	"golang-stock-proxy/pkg/logger"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	// ErrUnexpectedStatus is returned for non-200 responses.
	ErrUnexpectedStatus = errors.New("unexpected status code")
	// ErrUnsuccessful is returned when the envelope reports success=false.
	ErrUnsuccessful = errors.New("service reported failure")
	// ErrMissingField is returned when a required field is absent from a payload.
	ErrMissingField = errors.New("missing required field")
)

// AnalysisClient talks to the external stock-analysis service.
type AnalysisClient interface {
	Health(ctx context.Context) error
	GetAIConfig(ctx context.Context) (*dto.AIConfig, error)
	Analyze(ctx context.Context, req dto.AnalysisRequest) (*dto.AnalysisResult, error)
	Stream(ctx context.Context, req dto.AnalysisRequest, onEvent func(dto.StreamEvent) error, onMalformed func(error)) error
}

type analysisClient struct {
	client       *resty.Client
	streamClient *resty.Client
	log          *logger.Logger
}

// NewAnalysisClient creates a client for baseURL. timeout bounds regular
// calls, streamTimeout bounds a whole streaming session.
func NewAnalysisClient(baseURL string, timeout, streamTimeout time.Duration, log *logger.Logger) AnalysisClient {
	baseURL = strings.TrimRight(baseURL, "/")
	newClient := func(t time.Duration) *resty.Client {
		return resty.New().
			SetBaseURL(baseURL).
			SetTimeout(t).
			SetHeader("Content-Type", "application/json").
			OnBeforeRequest(func(_ *resty.Client, r *resty.Request) error {
				if r.Header.Get("X-Request-ID") == "" {
					r.SetHeader("X-Request-ID", uuid.NewString())
				}
				return nil
			})
	}

	return &analysisClient{
		client:       newClient(timeout),
		streamClient: newClient(streamTimeout),
		log:          log,
	}
}

func (c *analysisClient) Health(ctx context.Context) error {
	resp, err := c.send(ctx, http.MethodGet, "/health", nil)
	if err != nil {
		return err
	}
	c.log.DebugContext(ctx, "Health check passed", logger.IntField("status_code", resp.StatusCode()))
	return nil
}

func (c *analysisClient) GetAIConfig(ctx context.Context) (*dto.AIConfig, error) {
	resp, err := c.send(ctx, http.MethodGet, "/api/config/ai", nil)
	if err != nil {
		return nil, err
	}

	// presence is checked on the raw payload so zero values still count
	var envelope dto.APIResponse[map[string]json.RawMessage]
	if err := json.Unmarshal(resp.Body(), &envelope); err != nil {
		return nil, fmt.Errorf("failed to decode ai config: %w", err)
	}
	if !envelope.Success {
		return nil, fmt.Errorf("%w: %s", ErrUnsuccessful, envelope.Error)
	}
	if envelope.Data == nil {
		return nil, fmt.Errorf("%w: data", ErrMissingField)
	}
	for _, field := range []string{"provider", "model", "enabled", "timeout_seconds"} {
		if _, ok := (*envelope.Data)[field]; !ok {
			return nil, fmt.Errorf("%w: data.%s", ErrMissingField, field)
		}
	}

	var typed dto.APIResponse[dto.AIConfig]
	if err := json.Unmarshal(resp.Body(), &typed); err != nil {
		return nil, fmt.Errorf("failed to decode ai config: %w", err)
	}
	return typed.Data, nil
}

func (c *analysisClient) Analyze(ctx context.Context, req dto.AnalysisRequest) (*dto.AnalysisResult, error) {
	resp, err := c.send(ctx, http.MethodPost, "/api/analyze", req)
	if err != nil {
		return nil, err
	}

	var envelope dto.APIResponse[dto.AnalysisResult]
	if err := json.Unmarshal(resp.Body(), &envelope); err != nil {
		return nil, fmt.Errorf("failed to decode analysis response: %w", err)
	}
	if !envelope.Success {
		return nil, fmt.Errorf("%w: %s", ErrUnsuccessful, envelope.Error)
	}
	if envelope.Data == nil {
		return nil, fmt.Errorf("%w: data", ErrMissingField)
	}
	return envelope.Data, nil
}

func (c *analysisClient) Stream(ctx context.Context, req dto.AnalysisRequest, onEvent func(dto.StreamEvent) error, onMalformed func(error)) error {
	fields := []zap.Field{
		logger.StringField("path", "/api/analyze/stream"),
		logger.StringField("stock_code", req.StockCode),
	}

	resp, err := c.streamClient.R().
		SetContext(ctx).
		SetHeader("Accept", "text/event-stream").
		SetBody(req).
		SetDoNotParseResponse(true).
		Post("/api/analyze/stream")
	if err != nil {
		c.log.ErrorContext(ctx, "Failed to open analysis stream", append(fields, logger.ErrorField(err))...)
		return fmt.Errorf("failed to open stream: %w", err)
	}

	body := resp.RawBody()
	defer body.Close()

	if resp.StatusCode() != http.StatusOK {
		c.log.ErrorContext(ctx, "Analysis stream rejected", append(fields, logger.IntField("status_code", resp.StatusCode()))...)
		return fmt.Errorf("stream returned %d: %w", resp.StatusCode(), ErrUnexpectedStatus)
	}

	if err := stream.Read(body, onEvent, onMalformed); err != nil {
		c.log.ErrorContext(ctx, "Analysis stream interrupted", append(fields, logger.ErrorField(err))...)
		return fmt.Errorf("failed to read stream: %w", err)
	}
	return nil
}

func (c *analysisClient) send(ctx context.Context, method, path string, body interface{}) (*resty.Response, error) {
	fields := []zap.Field{
		logger.StringField("method", method),
		logger.StringField("path", path),
	}

	req := c.client.R().SetContext(ctx)
	if body != nil {
		req.SetBody(body)
	}

	start := time.Now()
	resp, err := req.Execute(method, path)
	if err != nil {
		c.log.ErrorContext(ctx, "Failed to send request to analysis service", append(fields, logger.ErrorField(err))...)
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	fields = append(fields,
		logger.IntField("status_code", resp.StatusCode()),
		logger.DurationField("elapsed", time.Since(start)),
	)
	if resp.StatusCode() != http.StatusOK {
		c.log.ErrorContext(ctx, "Analysis service returned non-OK status", append(fields, logger.StringField("body", truncate(resp.String(), 500)))...)
		return nil, fmt.Errorf("%s %s returned %d: %w", method, path, resp.StatusCode(), ErrUnexpectedStatus)
	}

	c.log.DebugContext(ctx, "Analysis service responded", fields...)
	return resp, nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}

package gradebook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/felixgeelhaar/fortify/circuitbreaker"
	"github.com/felixgeelhaar/fortify/retry"
	"go.uber.org/zap"
)

type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("gradebook responded %d: %s", e.code, e.body)
}

func isRetryable(err error) bool {
	var se *statusError
	if errors.As(err, &se) {
		return se.code >= http.StatusInternalServerError || se.code == http.StatusTooManyRequests
	}
	// 网络错误重试，ctx 取消不重试
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}

// HTTPSink 以 JSON POST 调用 LMS 成绩册 web service
type HTTPSink struct {
	url     string
	token   string
	client  *http.Client
	log     *zap.Logger
	breaker circuitbreaker.CircuitBreaker[struct{}]
	retrier retry.Retry[struct{}]
}

type HTTPOption func(*httpOptions)

type httpOptions struct {
	attempts     int
	initialDelay time.Duration
	maxDelay     time.Duration
}

// WithRetry 覆盖默认的重试次数与退避
func WithRetry(attempts int, initialDelay, maxDelay time.Duration) HTTPOption {
	return func(o *httpOptions) {
		o.attempts = attempts
		o.initialDelay = initialDelay
		o.maxDelay = maxDelay
	}
}

func NewHTTPSink(url, token string, timeout time.Duration, log *zap.Logger, opts ...HTTPOption) *HTTPSink {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	o := httpOptions{attempts: 3, initialDelay: 500 * time.Millisecond, maxDelay: 10 * time.Second}
	for _, opt := range opts {
		opt(&o)
	}

	s := &HTTPSink{
		url:    url,
		token:  token,
		client: &http.Client{Timeout: timeout},
		log:    log,
	}
	s.breaker = circuitbreaker.New[struct{}](circuitbreaker.Config{
		MaxRequests: 1,
		Interval:    30 * time.Second,
		Timeout:     60 * time.Second,
		ReadyToTrip: func(counts circuitbreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(from, to circuitbreaker.State) {
			log.Warn("gradebook circuit breaker state change",
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})
	s.retrier = retry.New[struct{}](retry.Config{
		MaxAttempts:   o.attempts,
		InitialDelay:  o.initialDelay,
		MaxDelay:      o.maxDelay,
		Multiplier:    2.0,
		BackoffPolicy: retry.BackoffExponential,
		Jitter:        true,
		IsRetryable:   isRetryable,
	})
	return s
}

func (s *HTTPSink) UpdateGrades(ctx context.Context, update GradeUpdate) error {
	body, err := json.Marshal(update)
	if err != nil {
		return fmt.Errorf("failed to marshal grade update: %w", err)
	}

	_, err = s.breaker.Execute(ctx, func(ctx context.Context) (struct{}, error) {
		return s.retrier.Do(ctx, func(ctx context.Context) (struct{}, error) {
			return struct{}{}, s.post(ctx, body)
		})
	})
	if err != nil {
		return fmt.Errorf("gradebook push failed: %w", err)
	}
	return nil
}

func (s *HTTPSink) post(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &statusError{code: resp.StatusCode, body: string(msg)}
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

func (s *HTTPSink) Close() error {
	s.client.CloseIdleConnections()
	return nil
}

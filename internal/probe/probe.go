// Package probe performs single bounded-time HTTP checks and classifies the
// outcome into the status taxonomy. A probe never returns an error for
// ordinary network failures; every failure mode resolves to a Result.
package probe

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/servicehub/servicehub/internal/domain/status"
)

const DefaultTimeout = 10 * time.Second

// Result is the classification tuple for one probe.
type Result struct {
	Status       status.Status
	ResponseTime int64 // milliseconds, end-to-end; equals the budget on timeout
	StatusCode   *int
	ErrorMessage string
	TimedOut     bool
}

type Prober struct {
	client    *http.Client
	userAgent string
}

func New(cfg Config) *Prober {
	return &Prober{client: newHTTPClient(cfg), userAgent: cfg.UserAgent}
}

// Probe issues one GET against target with the given timeout budget.
func (p *Prober) Probe(ctx context.Context, target string, timeout time.Duration) Result {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	target = normalizeURL(target)

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return Result{
			Status:       status.Offline,
			ResponseTime: time.Since(start).Milliseconds(),
			ErrorMessage: err.Error(),
		}
	}
	if p.userAgent != "" {
		req.Header.Set("User-Agent", p.userAgent)
	}

	resp, err := p.client.Do(req)
	elapsed := time.Since(start)

	if err != nil {
		if isTimeout(err) {
			return Result{
				Status:       status.Offline,
				ResponseTime: timeout.Milliseconds(),
				ErrorMessage: fmt.Sprintf("Timeout after %ds", int(timeout.Seconds())),
				TimedOut:     true,
			}
		}
		return Result{
			Status:       status.Offline,
			ResponseTime: elapsed.Milliseconds(),
			ErrorMessage: rootMessage(err),
		}
	}
	defer resp.Body.Close()

	code := resp.StatusCode
	st, msg := classify(code)
	return Result{
		Status:       st,
		ResponseTime: elapsed.Milliseconds(),
		StatusCode:   &code,
		ErrorMessage: msg,
	}
}

// classify maps an HTTP status code to the status taxonomy. 405 and 401 mean
// the service is reachable and serving; 404 is reachable but likely a wrong
// endpoint; remaining 4xx are hard errors; 5xx and everything else degrade
// to a warning.
func classify(code int) (status.Status, string) {
	switch {
	case code == http.StatusMethodNotAllowed:
		return status.Online, "HTTP 405: Method Not Allowed (endpoint rejects GET but service is up)"
	case code == http.StatusUnauthorized:
		return status.Online, "HTTP 401: Unauthorized (service is up, authentication required)"
	case code >= 200 && code < 400:
		return status.Online, ""
	case code == http.StatusNotFound:
		return status.Warning, "HTTP 404: Endpoint Not Found"
	case code >= 400 && code < 500:
		return status.Error, fmt.Sprintf("HTTP %d: %s", code, http.StatusText(code))
	default:
		return status.Warning, fmt.Sprintf("HTTP %d: %s", code, http.StatusText(code))
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne interface{ Timeout() bool }
	return errors.As(err, &ne) && ne.Timeout()
}

// rootMessage strips the url.Error envelope so records carry the underlying
// failure (DNS, refused connection, TLS) rather than the full request line.
func rootMessage(err error) string {
	var ue *url.Error
	if errors.As(err, &ue) && ue.Err != nil {
		return ue.Err.Error()
	}
	return err.Error()
}

func normalizeURL(s string) string {
	t := strings.TrimSpace(s)
	if t == "" {
		return t
	}
	if strings.HasPrefix(t, "http://") || strings.HasPrefix(t, "https://") {
		return t
	}
	return "http://" + t
}

package links

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/prompt-eval/evaluator/internal/model"
)

const (
	maxRedirects = 10
	// Upper bound on how much of a page body is read when looking for a
	// <title> on the GET tier.
	maxTitleBytes = 256 * 1024

	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

var errTooManyRedirects = errors.New("redirect chain exceeded 10 hops")

// HTTPProber performs one validation attempt per call. All failure modes
// are folded into a classified LinkValidationResult; Probe never returns
// an error.
type HTTPProber struct {
	transport http.RoundTripper
	timeout   time.Duration
	log       *zap.Logger
}

// NewProber builds a prober around a shared transport. Certificate
// validation is disabled: the targets are arbitrary third-party sites and
// strict TLS would report failures unrelated to link health.
func NewProber(timeout time.Duration, log *zap.Logger) *HTTPProber {
	if log == nil {
		log = zap.NewNop()
	}
	transport := &http.Transport{
		TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		DialContext: (&net.Dialer{
			Timeout:   timeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2: true,
	}
	return &HTTPProber{transport: transport, timeout: timeout, log: log}
}

// Probe validates a single URL using the tiered method strategy: a HEAD
// request first, escalating to a streaming GET when the HEAD outcome is
// ambiguous (404 or 403). Network faults on one tier do not abort the
// other.
func (p *HTTPProber) Probe(ctx context.Context, rawURL string, attempt int) model.LinkValidationResult {
	start := time.Now()

	parsed, err := url.Parse(rawURL)
	if err != nil || (parsed.Scheme == "" && parsed.Host == "") {
		return model.LinkValidationResult{
			URL:            rawURL,
			Classification: model.ClassificationInvalid,
			Error:          "invalid URL format",
			FinalURL:       rawURL,
			Attempt:        attempt,
		}
	}

	var lastErr error
	for _, method := range []string{http.MethodHead, http.MethodGet} {
		res, escalate, err := p.attempt(ctx, rawURL, method, attempt, start)
		if err != nil {
			lastErr = err
			continue
		}
		if escalate {
			continue
		}
		return res
	}

	detail := "connection failed"
	if lastErr != nil {
		detail = fmt.Sprintf("connection failed: %v", lastErr)
	}
	return model.LinkValidationResult{
		URL:            rawURL,
		Classification: model.ClassificationInvalid,
		Error:          detail,
		LatencyMS:      time.Since(start).Milliseconds(),
		FinalURL:       rawURL,
		Attempt:        attempt,
	}
}

// attempt runs one method tier. The escalate flag asks the caller to try
// the next tier before settling on an ambiguous status.
func (p *HTTPProber) attempt(ctx context.Context, rawURL, method string, attempt int, start time.Time) (model.LinkValidationResult, bool, error) {
	var redirects int
	client := &http.Client{
		Transport: p.transport,
		Timeout:   p.timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return errTooManyRedirects
			}
			redirects = len(via)
			return nil
		},
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, nil)
	if err != nil {
		return model.LinkValidationResult{}, false, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	resp, err := client.Do(req)
	if err != nil {
		return model.LinkValidationResult{}, false, err
	}
	defer resp.Body.Close()

	if method == http.MethodHead && (resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusForbidden) {
		// A 404 or 403 on HEAD is not trusted: some servers reject HEAD
		// outright. Confirm with a full GET before classifying.
		return model.LinkValidationResult{}, true, nil
	}

	classification, detail := classify(resp.StatusCode)

	res := model.LinkValidationResult{
		URL:            rawURL,
		Classification: classification,
		StatusCode:     resp.StatusCode,
		Error:          detail,
		LatencyMS:      time.Since(start).Milliseconds(),
		FinalURL:       resp.Request.URL.String(),
		Redirects:      redirects,
		Method:         method,
		Attempt:        attempt,
	}
	if method == http.MethodGet && classification == model.ClassificationValid {
		res.PageTitle = pageTitle(resp)
	}

	p.log.Debug("probe attempt finished",
		zap.String("url", rawURL),
		zap.String("method", method),
		zap.Int("status", resp.StatusCode),
		zap.String("classification", string(classification)),
		zap.Int("redirects", redirects),
	)
	return res, false, nil
}

func classify(status int) (model.Classification, string) {
	switch {
	case status < 400:
		return model.ClassificationValid, ""
	case status == http.StatusNotFound:
		return model.ClassificationInvalid, "page not found (404)"
	case status == http.StatusForbidden:
		return model.ClassificationWarning, "access forbidden (403), possible automated-client blocking"
	case status == http.StatusTooManyRequests:
		return model.ClassificationWarning, "rate limited (429) by target"
	case status >= 500:
		return model.ClassificationWarning, fmt.Sprintf("server error (%d), likely transient", status)
	default:
		return model.ClassificationInvalid, fmt.Sprintf("HTTP error (%d)", status)
	}
}

// pageTitle pulls the document title from an HTML response body, reading
// at most maxTitleBytes. Best effort only.
func pageTitle(resp *http.Response) string {
	if !strings.Contains(resp.Header.Get("Content-Type"), "text/html") {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, maxTitleBytes))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(doc.Find("title").First().Text())
}

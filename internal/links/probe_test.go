package links

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prompt-eval/evaluator/internal/model"
)

func testProber(t *testing.T) *HTTPProber {
	t.Helper()
	return NewProber(5*time.Second, nil)
}

func TestProbeClassifiesByStatus(t *testing.T) {
	tests := []struct {
		status int
		want   model.Classification
	}{
		{http.StatusOK, model.ClassificationValid},
		{http.StatusNoContent, model.ClassificationValid},
		{http.StatusNotFound, model.ClassificationInvalid},
		{http.StatusForbidden, model.ClassificationWarning},
		{http.StatusTooManyRequests, model.ClassificationWarning},
		{http.StatusInternalServerError, model.ClassificationWarning},
		{http.StatusServiceUnavailable, model.ClassificationWarning},
		{http.StatusGone, model.ClassificationInvalid},
	}

	for _, tc := range tests {
		t.Run(fmt.Sprintf("status_%d", tc.status), func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
			}))
			defer srv.Close()

			res := testProber(t).Probe(context.Background(), srv.URL, 1)
			assert.Equal(t, tc.want, res.Classification)
			assert.Equal(t, tc.status, res.StatusCode)
			assert.Equal(t, 1, res.Attempt)
		})
	}
}

func TestProbeConfirmsNotFoundWithGET(t *testing.T) {
	var methods []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		methods = append(methods, r.Method)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	res := testProber(t).Probe(context.Background(), srv.URL, 1)

	require.Equal(t, []string{http.MethodHead, http.MethodGet}, methods)
	assert.Equal(t, model.ClassificationInvalid, res.Classification)
	assert.Equal(t, http.MethodGet, res.Method)
	assert.Contains(t, res.Error, "404")
}

func TestProbeEscalationRecoversHeadHostileServer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, "<html><head><title>  Docs Home  </title></head><body>hi</body></html>")
	}))
	defer srv.Close()

	res := testProber(t).Probe(context.Background(), srv.URL, 1)

	assert.Equal(t, model.ClassificationValid, res.Classification)
	assert.Equal(t, http.MethodGet, res.Method)
	assert.Equal(t, "Docs Home", res.PageTitle)
}

func TestProbeTrustsPassingHEAD(t *testing.T) {
	var methods []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		methods = append(methods, r.Method)
	}))
	defer srv.Close()

	res := testProber(t).Probe(context.Background(), srv.URL, 1)

	assert.Equal(t, []string{http.MethodHead}, methods)
	assert.Equal(t, model.ClassificationValid, res.Classification)
	assert.Equal(t, http.MethodHead, res.Method)
	assert.Empty(t, res.PageTitle)
}

func TestProbeFollowsRedirects(t *testing.T) {
	target := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer target.Close()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, target.URL+"/final", http.StatusMovedPermanently)
	}))
	defer srv.Close()

	res := testProber(t).Probe(context.Background(), srv.URL, 1)

	assert.Equal(t, model.ClassificationValid, res.Classification)
	assert.Equal(t, 1, res.Redirects)
	assert.Equal(t, target.URL+"/final", res.FinalURL)
}

func TestProbeRejectsRedirectLoop(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/loop", http.StatusFound)
	}))
	defer srv.Close()

	res := testProber(t).Probe(context.Background(), srv.URL, 1)

	assert.Equal(t, model.ClassificationInvalid, res.Classification)
	assert.Contains(t, res.Error, "connection failed")
}

func TestProbeMalformedURL(t *testing.T) {
	res := testProber(t).Probe(context.Background(), "not a url", 2)

	assert.Equal(t, model.ClassificationInvalid, res.Classification)
	assert.Equal(t, "invalid URL format", res.Error)
	assert.Equal(t, 2, res.Attempt)
}

func TestProbeConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	res := testProber(t).Probe(context.Background(), url, 1)

	assert.Equal(t, model.ClassificationInvalid, res.Classification)
	assert.Contains(t, res.Error, "connection failed")
	assert.Equal(t, url, res.FinalURL)
}

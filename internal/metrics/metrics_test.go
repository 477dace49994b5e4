package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
)

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	return rec.Body.String()
}

func TestMiddlewareLabelsByRoutePattern(t *testing.T) {
	m := New()
	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/api/products/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	for _, id := range []string{"a", "b", "c"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/products/"+id, nil))
	}

	body := scrape(t, m)
	assert.Contains(t, body, `rhp_http_requests_total{method="GET",route="/api/products/{id}",status="404"} 3`)
	assert.NotContains(t, body, `route="/api/products/a"`)
	assert.Contains(t, body, "rhp_http_requests_in_flight 0")
}

func TestObserveUpload(t *testing.T) {
	m := New()
	m.ObserveUpload("GitHub", UploadSuccess)
	m.ObserveUpload("GitHub", UploadRejected)
	m.ObserveUpload("GitHub", UploadRejected)

	body := scrape(t, m)
	assert.Contains(t, body, `rhp_images_uploads_total{outcome="success",store="GitHub"} 1`)
	assert.Contains(t, body, `rhp_images_uploads_total{outcome="rejected",store="GitHub"} 2`)

	var nilMetrics *Metrics
	assert.NotPanics(t, func() { nilMetrics.ObserveUpload("GitHub", UploadFailed) })
}

func TestRegistriesAreIndependent(t *testing.T) {
	a, b := New(), New()
	a.ObserveUpload("S3", UploadFailed)
	assert.NotContains(t, scrape(t, b), `store="S3"`)
}

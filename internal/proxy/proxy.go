// Package proxy пересылает нелокальные маршруты /api/* в продакшн-API.
//
// Пересылаются метод, путь с query-строкой, заголовок Authorization и JSON-тело
// для POST, PUT и PATCH. Статус и Content-Type ответа передаются клиенту как есть.
package proxy

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/magabrotheeeer/settlement-gateway/internal/lib/sl"
)

// FailureMessage — тело ответа 502 при недоступном апстриме.
const FailureMessage = "Failed to proxy request to production API"

const logBodyLimit = 200

// Metrics — счётчики проксированных запросов.
type Metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics регистрирует метрики прокси в reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gateway",
			Subsystem: "proxy",
			Name:      "requests_total",
			Help:      "Requests forwarded to the upstream API by method and response status.",
		}, []string{"method", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "gateway",
			Subsystem: "proxy",
			Name:      "request_duration_seconds",
			Help:      "Upstream round trip duration.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
	}
	reg.MustRegister(m.requests, m.duration)
	return m
}

func (m *Metrics) observe(method string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(method, strconv.Itoa(status)).Inc()
	m.duration.WithLabelValues(method).Observe(elapsed.Seconds())
}

// Proxy — http.Handler, пересылающий запросы в апстрим.
type Proxy struct {
	origin  string
	client  *http.Client
	log     *slog.Logger
	metrics *Metrics
}

// New создаёт Proxy для origin вида https://host[:port]. metrics может быть nil.
func New(origin string, timeout time.Duration, log *slog.Logger, metrics *Metrics) (*Proxy, error) {
	u, err := url.Parse(origin)
	if err != nil {
		return nil, fmt.Errorf("proxy.New: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("proxy.New: origin %q must be absolute", origin)
	}
	return &Proxy{
		origin:  strings.TrimRight(u.Scheme+"://"+u.Host+u.Path, "/"),
		client:  &http.Client{Timeout: timeout},
		log:     log,
		metrics: metrics,
	}, nil
}

func hasBody(method string) bool {
	return method == http.MethodPost || method == http.MethodPut || method == http.MethodPatch
}

func (p *Proxy) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "proxy.ServeHTTP"
	log := p.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
	)

	target := p.origin + r.URL.RequestURI()
	auth := r.Header.Get("Authorization")
	log.Info("proxying request", slog.String("target", target), sl.Token(auth))

	var body io.Reader = http.NoBody
	if hasBody(r.Method) && r.Body != nil {
		raw, err := io.ReadAll(r.Body)
		if err != nil {
			log.Error("failed to read request body", sl.Err(err))
			p.fail(w, r, time.Time{})
			return
		}
		if len(raw) > 0 {
			body = bytes.NewReader(raw)
		}
	}

	req, err := http.NewRequestWithContext(r.Context(), r.Method, target, body)
	if err != nil {
		log.Error("failed to build upstream request", sl.Err(err))
		p.fail(w, r, time.Time{})
		return
	}
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}

	start := time.Now()
	resp, err := p.client.Do(req)
	if err != nil {
		log.Error("upstream request failed", sl.Err(err))
		p.fail(w, r, start)
		return
	}
	defer resp.Body.Close()

	contentType := resp.Header.Get("Content-Type")
	if resp.StatusCode == http.StatusNoContent {
		if contentType != "" {
			w.Header().Set("Content-Type", contentType)
		}
		w.WriteHeader(http.StatusNoContent)
		p.metrics.observe(r.Method, resp.StatusCode, time.Since(start))
		log.Info("upstream responded", slog.Int("status", resp.StatusCode))
		return
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Error("failed to read upstream response", sl.Err(err))
		p.fail(w, r, start)
		return
	}
	p.metrics.observe(r.Method, resp.StatusCode, time.Since(start))
	log.Info("upstream responded", slog.Int("status", resp.StatusCode))
	log.Debug("upstream body", slog.String("body", truncate(data, logBodyLimit)))

	if contentType == "" {
		if json.Valid(data) {
			contentType = "application/json; charset=utf-8"
		} else {
			contentType = "text/plain; charset=utf-8"
		}
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(resp.StatusCode)
	if _, err := w.Write(data); err != nil {
		log.Warn("failed to write response", sl.Err(err))
	}
}

func (p *Proxy) fail(w http.ResponseWriter, r *http.Request, start time.Time) {
	if !start.IsZero() {
		p.metrics.observe(r.Method, http.StatusBadGateway, time.Since(start))
	}
	render.Status(r, http.StatusBadGateway)
	render.JSON(w, r, map[string]string{"error": FailureMessage})
}

func truncate(data []byte, limit int) string {
	if len(data) <= limit {
		return string(data)
	}
	return string(data[:limit]) + "..."
}

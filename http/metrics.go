package http

import (
	nethttp "net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// Upload results recorded by Metrics.
const (
	uploadOK       = "ok"
	uploadRejected = "rejected"
	uploadError    = "error"
)

// Metrics records download and upload activity.
//
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	downloads    *prometheus.CounterVec
	archiveBytes prometheus.Histogram
	uploads      *prometheus.CounterVec
}

// NewMetrics creates the storezip collectors and registers them with reg.
// It panics if a collector with the same name is already registered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		downloads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "storezip",
			Name:      "downloads_total",
			Help:      "Archive download requests by HTTP status code.",
		}, []string{"code"}),
		archiveBytes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "storezip",
			Name:      "archive_bytes",
			Help:      "Size of archives built for download or upload.",
			Buckets:   prometheus.ExponentialBuckets(1<<10, 4, 10),
		}),
		uploads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "storezip",
			Name:      "uploads_total",
			Help:      "Archive uploads by result.",
		}, []string{"result"}),
	}
	reg.MustRegister(m.downloads, m.archiveBytes, m.uploads)
	return m
}

func (m *Metrics) observeDownload(code int) {
	if m == nil {
		return
	}
	m.downloads.WithLabelValues(strconv.Itoa(code)).Inc()
}

func (m *Metrics) observeArchive(size int64) {
	if m == nil {
		return
	}
	m.archiveBytes.Observe(float64(size))
}

func (m *Metrics) observeUpload(result string) {
	if m == nil {
		return
	}
	m.uploads.WithLabelValues(result).Inc()
}

// statusRecorder captures the status code written through it.
type statusRecorder struct {
	nethttp.ResponseWriter
	code int
}

func (r *statusRecorder) WriteHeader(code int) {
	if r.code == 0 {
		r.code = code
	}
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(p []byte) (int, error) {
	if r.code == 0 {
		r.code = nethttp.StatusOK
	}
	return r.ResponseWriter.Write(p)
}

func (r *statusRecorder) status() int {
	if r.code == 0 {
		return nethttp.StatusOK
	}
	return r.code
}

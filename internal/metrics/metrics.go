package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	OutcomeSkipped            = "skipped"
	OutcomeUploaded           = "uploaded"
	OutcomeCloneFailed        = "clone_failed"
	OutcomeArchiveFailed      = "archive_failed"
	OutcomeCredentialsMissing = "credentials_missing"
	OutcomeUploadFailed       = "upload_failed"
)

const (
	StageList    = "list"
	StageArchive = "archive"
	StageUpload  = "upload"
)

// Recorder collects the metrics of one backup run on its own registry.
type Recorder struct {
	registry      *prometheus.Registry
	repositories  *prometheus.CounterVec
	stageDuration *prometheus.HistogramVec
	archiveBytes  prometheus.Counter
	lastRun       prometheus.Gauge
}

func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		repositories: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "orgbackup_repositories_total",
			Help: "Repositories handled in the last run, by outcome",
		}, []string{"outcome"}),
		stageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "orgbackup_stage_duration_seconds",
			Help:    "Time spent per pipeline stage",
			Buckets: prometheus.ExponentialBuckets(0.1, 4, 8),
		}, []string{"stage"}),
		archiveBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "orgbackup_archive_bytes_total",
			Help: "Bytes of archives written in the last run",
		}),
		lastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "orgbackup_last_run_timestamp_seconds",
			Help: "Unix time the last run finished",
		}),
	}
	r.registry.MustRegister(r.repositories, r.stageDuration, r.archiveBytes, r.lastRun)
	return r
}

func (r *Recorder) RepositoryOutcome(outcome string) {
	r.repositories.WithLabelValues(outcome).Inc()
}

func (r *Recorder) ObserveStage(stage string, elapsed time.Duration) {
	r.stageDuration.WithLabelValues(stage).Observe(elapsed.Seconds())
}

func (r *Recorder) ArchiveWritten(bytes int64) {
	r.archiveBytes.Add(float64(bytes))
}

func (r *Recorder) RunFinished(at time.Time) {
	r.lastRun.Set(float64(at.Unix()))
}

// WriteTextfile stores the metrics in text exposition format, for the node_exporter textfile collector.
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}

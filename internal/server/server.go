package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image/png"
	"log/slog"
	"net/http"
	"net/http/pprof"
	"strings"
	"time"

	"github.com/cwbudde/boostcascade/internal/cascade"
	"github.com/cwbudde/boostcascade/internal/detect"
	"github.com/cwbudde/boostcascade/internal/sample"
	"github.com/cwbudde/boostcascade/internal/store"
)

// Server is the HTTP front end for long-running cascade training jobs
// (spec §4.12): create/list/inspect jobs, stream their progress over
// SSE, resume a checkpointed job, and run detection with a finished
// cascade.
type Server struct {
	jobManager *JobManager
	store      store.Store
	addr       string
	server     *http.Server
	ctx        context.Context
	cancel     context.CancelFunc
}

// NewServer creates a new HTTP server with an optional checkpoint
// store. If store is nil, checkpointing and resume are disabled.
func NewServer(addr string, checkpointStore store.Store) *Server {
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		jobManager: NewJobManager(),
		store:      checkpointStore,
		addr:       addr,
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/v1/jobs", s.handleJobs)
	mux.HandleFunc("/api/v1/jobs/", s.handleJobsWithID)
	mux.HandleFunc("/api/v1/detect", s.handleDetect)

	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)

	handler := s.loggingMiddleware(s.corsMiddleware(mux))

	s.server = &http.Server{
		Addr:    s.addr,
		Handler: handler,
	}

	slog.Info("starting HTTP server", "addr", s.addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server, checkpointing any jobs
// still running first.
func (s *Server) Shutdown(ctx context.Context) error {
	slog.Info("shutting down HTTP server")

	s.cancel()

	if s.store != nil {
		s.checkpointRunningJobs(ctx)
	}

	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}

// checkpointRunningJobs saves the last reported cascade state for
// every job still running at shutdown time. s.cancel() does not
// interrupt a training call already in progress (runJob checks the
// context only before and after it), so this only persists whatever
// the job already reported through progress — it does not wait for a
// new stage to finish.
func (s *Server) checkpointRunningJobs(ctx context.Context) {
	running := s.jobManager.GetRunningJobs()
	if len(running) == 0 {
		slog.Info("no running jobs to checkpoint")
		return
	}

	slog.Info("checkpointing running jobs", "count", len(running))
	for _, job := range running {
		checkpoint := store.NewCheckpoint(job.ID, job.Stage, job.CumDetRate, job.CumFPRate, job.Config)
		if err := s.store.SaveCheckpoint(job.ID, checkpoint); err != nil {
			slog.Error("failed to checkpoint job on shutdown", "job_id", job.ID, "error", err)
			continue
		}
		slog.Info("job checkpointed on shutdown", "job_id", job.ID, "stage", job.Stage)
	}
}

// handleJobs handles /api/v1/jobs.
func (s *Server) handleJobs(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.handleCreateJob(w, r)
	case http.MethodGet:
		s.handleListJobs(w, r)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleJobsWithID handles /api/v1/jobs/:id/*.
func (s *Server) handleJobsWithID(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/v1/jobs/")
	parts := strings.Split(path, "/")
	if len(parts) == 0 || parts[0] == "" {
		http.Error(w, "job ID required", http.StatusBadRequest)
		return
	}

	jobID := parts[0]

	switch {
	case len(parts) == 1 || parts[1] == "status":
		s.handleGetJobStatus(w, r, jobID)
	case parts[1] == "cascade.bin":
		s.handleGetCascadeArtifact(w, r, jobID)
	case parts[1] == "stream":
		s.handleJobStream(w, r, jobID)
	case parts[1] == "resume":
		s.handleResumeJob(w, r, jobID)
	default:
		http.Error(w, "not found", http.StatusNotFound)
	}
}

// handleCreateJob handles POST /api/v1/jobs: a JSON-encoded JobConfig
// in, a Job (pending, about to start training) out.
func (s *Server) handleCreateJob(w http.ResponseWriter, r *http.Request) {
	var config JobConfig
	if err := json.NewDecoder(r.Body).Decode(&config); err != nil {
		http.Error(w, fmt.Sprintf("invalid JSON: %v", err), http.StatusBadRequest)
		return
	}

	if config.AnnotationPath == "" {
		http.Error(w, "annotationPath is required", http.StatusBadRequest)
		return
	}
	if config.ImageSize <= 0 {
		http.Error(w, "imageSize must be positive", http.StatusBadRequest)
		return
	}
	if config.PTarget <= 0 {
		config.PTarget = 1000
	}
	if config.NTarget <= 0 {
		config.NTarget = 2000
	}
	if config.PTrain <= 0 {
		config.PTrain = 0.7
	}
	if config.DStar <= 0 {
		config.DStar = 0.995
	}
	if config.FStar <= 0 {
		config.FStar = 0.5
	}
	if config.FTarget <= 0 {
		config.FTarget = 1e-5
	}
	if config.MaxStages <= 0 {
		config.MaxStages = 30
	}

	job := s.jobManager.CreateJob(config)
	go runJob(s.ctx, s.jobManager, s.store, job.ID)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(job)
}

// handleListJobs handles GET /api/v1/jobs.
func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	jobs := s.jobManager.ListJobs()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(jobs)
}

// handleGetJobStatus handles GET /api/v1/jobs/:id/status.
func (s *Server) handleGetJobStatus(w http.ResponseWriter, r *http.Request, jobID string) {
	job, exists := s.jobManager.GetJob(jobID)
	if !exists {
		http.Error(w, "job not found", http.StatusNotFound)
		return
	}

	var elapsed time.Duration
	if job.EndTime != nil {
		elapsed = job.EndTime.Sub(job.StartTime)
	} else {
		elapsed = time.Since(job.StartTime)
	}

	response := map[string]interface{}{
		"id":         job.ID,
		"state":      job.State,
		"config":     job.Config,
		"stage":      job.Stage,
		"cumDetRate": job.CumDetRate,
		"cumFpRate":  job.CumFPRate,
		"elapsed":    elapsed.Seconds(),
		"startTime":  job.StartTime,
		"endTime":    job.EndTime,
		"error":      job.Error,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// handleGetCascadeArtifact handles GET /api/v1/jobs/:id/cascade.bin,
// streaming the job's latest serialized cascade (spec §6.1).
func (s *Server) handleGetCascadeArtifact(w http.ResponseWriter, r *http.Request, jobID string) {
	if s.store == nil {
		http.Error(w, "checkpoint store not enabled", http.StatusServiceUnavailable)
		return
	}
	if _, exists := s.jobManager.GetJob(jobID); !exists {
		http.Error(w, "job not found", http.StatusNotFound)
		return
	}

	data, err := s.store.LoadCascadeArtifact(jobID)
	if err != nil {
		if _, ok := err.(*store.NotFoundError); ok {
			http.Error(w, "no cascade artifact saved yet for this job", http.StatusNotFound)
			return
		}
		http.Error(w, fmt.Sprintf("failed to load cascade artifact: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.cascade.bin"`, jobID))
	w.Write(data)
}

// handleResumeJob handles POST /api/v1/jobs/:id/resume: it creates a
// new job sharing the checkpointed job's configuration and restarts
// training from the persisted cascade artifact via
// internal/cascade.ResumeCascade. The new job gets a fresh ID; the
// checkpointed job's artifact is copied to that ID so worker.go picks
// it up.
func (s *Server) handleResumeJob(w http.ResponseWriter, r *http.Request, jobID string) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if s.store == nil {
		http.Error(w, "checkpoint feature not enabled", http.StatusServiceUnavailable)
		return
	}

	checkpoint, err := s.store.LoadCheckpoint(jobID)
	if err != nil {
		if _, ok := err.(*store.NotFoundError); ok {
			http.Error(w, fmt.Sprintf("checkpoint not found for job %s", jobID), http.StatusNotFound)
			return
		}
		http.Error(w, fmt.Sprintf("failed to load checkpoint: %v", err), http.StatusInternalServerError)
		return
	}
	if err := checkpoint.Validate(); err != nil {
		http.Error(w, fmt.Sprintf("invalid checkpoint: %v", err), http.StatusBadRequest)
		return
	}

	slog.Info("resuming job from checkpoint", "job_id", jobID, "stage", checkpoint.Stage, "cum_fp_rate", checkpoint.CumFPRate)

	newJob := s.jobManager.CreateJob(checkpoint.Config)
	s.jobManager.UpdateJob(newJob.ID, func(j *Job) {
		j.Stage = checkpoint.Stage
		j.CumDetRate = checkpoint.CumDetRate
		j.CumFPRate = checkpoint.CumFPRate
	})

	// worker.go resumes from whatever cascade artifact is saved under
	// the job ID it's given, so copy the checkpointed job's artifact
	// across to the new job's key before starting it.
	if data, err := s.store.LoadCascadeArtifact(jobID); err == nil {
		if err := s.store.SaveCascadeArtifact(newJob.ID, data); err != nil {
			slog.Warn("failed to copy cascade artifact to resumed job", "job_id", newJob.ID, "error", err)
		}
	}

	go runJob(s.ctx, s.jobManager, s.store, newJob.ID)

	response := map[string]interface{}{
		"jobId":       newJob.ID,
		"resumedFrom": jobID,
		"state":       string(newJob.State),
		"fromStage":   checkpoint.Stage,
		"message":     "job resumed successfully from checkpoint",
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(response)
}

// handleDetect handles POST /api/v1/detect?job=<jobID>[&overlay=1]: the
// request body is a PGM image (spec §6.2), scanned with the named
// job's latest cascade artifact. With overlay=1 the response is a PNG
// with detections outlined; otherwise it's a JSON detection list.
func (s *Server) handleDetect(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if s.store == nil {
		http.Error(w, "checkpoint store not enabled", http.StatusServiceUnavailable)
		return
	}

	jobID := r.URL.Query().Get("job")
	if jobID == "" {
		http.Error(w, "job query parameter required", http.StatusBadRequest)
		return
	}
	job, exists := s.jobManager.GetJob(jobID)
	if !exists {
		http.Error(w, "job not found", http.StatusNotFound)
		return
	}

	data, err := s.store.LoadCascadeArtifact(jobID)
	if err != nil {
		http.Error(w, fmt.Sprintf("failed to load cascade artifact: %v", err), http.StatusNotFound)
		return
	}
	cfg := cascadeConfigFromJob(job.Config)
	trained, err := cascade.ReadCascade(bytes.NewReader(data), cfg.Stage.Kind, cfg.Stage.Confidence)
	if err != nil {
		http.Error(w, fmt.Sprintf("failed to decode cascade artifact: %v", err), http.StatusInternalServerError)
		return
	}

	pixels, err := sample.LoadPGM(r.Body)
	if err != nil {
		http.Error(w, fmt.Sprintf("failed to decode PGM body: %v", err), http.StatusBadRequest)
		return
	}

	dets, err := detect.Detect(trained, pixels, detect.DefaultConfig())
	if err != nil {
		http.Error(w, fmt.Sprintf("detection failed: %v", err), http.StatusInternalServerError)
		return
	}

	if r.URL.Query().Get("overlay") == "1" {
		img := renderDetections(pixels, dets)
		w.Header().Set("Content-Type", "image/png")
		if err := png.Encode(w, img); err != nil {
			slog.Error("failed to encode detection overlay", "error", err)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(dets)
}

// corsMiddleware adds permissive CORS headers for browser-based
// clients of the job API.
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// loggingMiddleware logs HTTP requests at debug level.
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		slog.Debug("HTTP request", "method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
	})
}

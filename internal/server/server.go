// Package server exposes the pipeline to the thin web client over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"autotest.dev/pkg/autotest/internal/domain"
	m "autotest.dev/pkg/autotest/internal/model"
	"autotest.dev/pkg/autotest/internal/observability"
)

// Defaults applied when the client omits a form field.
const (
	DefaultThreshold     = 80
	DefaultMaxIterations = 5
)

const shutdownTimeout = 10 * time.Second

// Config holds the HTTP settings.
type Config struct {
	Addr           string
	MaxUploadBytes int64
}

// Server serves the analyze, health and metrics endpoints.
type Server struct {
	cfg       Config
	pipeline  domain.Pipeline
	intake    *domain.Intake
	observers []domain.RunObserver
	engine    *gin.Engine
}

// New builds the gin engine. gatherer may be nil, in which case /metrics is not mounted.
func New(cfg Config, pipeline domain.Pipeline, intake *domain.Intake, gatherer prometheus.Gatherer, observers ...domain.RunObserver) *Server {
	s := &Server{
		cfg:       cfg,
		pipeline:  pipeline,
		intake:    intake,
		observers: observers,
	}

	engine := gin.New()
	engine.Use(gin.Recovery(), requestLogger(), cors())
	engine.Use(otelgin.Middleware(observability.ServiceName))

	api := engine.Group("/api")
	api.GET("/health", s.health)
	api.POST("/analyze", s.analyze)

	if gatherer != nil {
		engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}

	s.engine = engine

	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// ListenAndServe serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)

	go func() {
		slog.Info("HTTP server listening", "addr", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}

		slog.Error("HTTP server failed", "error", err)

		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()

	slog.Info("HTTP server shutting down")

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown failed", "error", err)
		return fmt.Errorf("shutdown: %w", err)
	}

	return nil
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) analyze(c *gin.Context) {
	req, err := s.parseRunRequest(c)
	if err != nil {
		s.fail(c, err)
		return
	}

	sources, cfg, err := s.intake.Validate(req)
	if err != nil {
		s.fail(c, err)
		return
	}

	result, err := s.pipeline.Run(c.Request.Context(), sources, cfg, s.observers...)
	if err != nil {
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, result.Report)
}

// parseRunRequest reads the multipart form. Only transport-level problems are
// reported here; field semantics are left to the intake.
func (s *Server) parseRunRequest(c *gin.Context) (domain.RunRequest, error) {
	if s.cfg.MaxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.cfg.MaxUploadBytes)
	}

	form, err := c.MultipartForm()
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) || strings.Contains(err.Error(), "request body too large") {
			return domain.RunRequest{}, errUploadTooLarge
		}

		return domain.RunRequest{}, &domain.ValidationError{Field: "files", Reason: "expected a multipart/form-data body with files"}
	}

	threshold, err := intField(form, "threshold", DefaultThreshold)
	if err != nil {
		return domain.RunRequest{}, err
	}

	maxIterations, err := intField(form, "max_iterations", DefaultMaxIterations)
	if err != nil {
		return domain.RunRequest{}, err
	}

	headers := form.File["files"]
	files := make([]domain.UploadedFile, 0, len(headers))

	for _, header := range headers {
		content, err := readUpload(header)
		if err != nil {
			slog.Error("Failed to read uploaded file", "file", header.Filename, "error", err)
			return domain.RunRequest{}, fmt.Errorf("read upload %s: %w", header.Filename, err)
		}

		files = append(files, domain.UploadedFile{Name: header.Filename, Content: content})
	}

	return domain.RunRequest{Files: files, Threshold: threshold, MaxIterations: maxIterations}, nil
}

func intField(form *multipart.Form, name string, fallback int) (int, error) {
	values := form.Value[name]
	if len(values) == 0 || strings.TrimSpace(values[0]) == "" {
		return fallback, nil
	}

	raw := strings.TrimSpace(values[0])

	value, err := strconv.Atoi(raw)
	if err != nil {
		// Integral floats such as "80.0" are what HTML number inputs may send.
		f, ferr := strconv.ParseFloat(raw, 64)
		if ferr != nil || f != float64(int(f)) {
			return 0, &domain.ValidationError{Field: name, Reason: fmt.Sprintf("must be an integer, got %q", raw)}
		}

		value = int(f)
	}

	return value, nil
}

func readUpload(header *multipart.FileHeader) ([]byte, error) {
	file, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return io.ReadAll(file)
}

var errUploadTooLarge = errors.New("upload exceeds the configured size limit")

// fail maps the error taxonomy onto HTTP status codes. ErrPipelineFailed and
// anything unexpected become 500.
func (s *Server) fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, errUploadTooLarge):
		status = http.StatusRequestEntityTooLarge
	case errors.Is(err, domain.ErrValidation):
		status = http.StatusBadRequest
	}

	if status >= http.StatusInternalServerError {
		slog.Error("Analyze request failed", "error", err)
	} else {
		slog.Warn("Analyze request rejected", "status", status, "error", err)
	}

	c.AbortWithStatusJSON(status, m.ErrorResponse{Detail: err.Error()})
}

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/sirupsen/logrus"

	apptos "github.com/bryanwahyu/rdflg/internal/application/tos"
	domain "github.com/bryanwahyu/rdflg/internal/domain/tos"
	"github.com/bryanwahyu/rdflg/internal/middleware"
)

// maxBodyBytes bounds request bodies. Enterprise documents are truncated
// later, but pasted ToS text can still be large.
const maxBodyBytes = 4 << 20

// ToSService is the application surface the router exposes.
type ToSService interface {
	Prompt(ctx context.Context, text string) (string, error)
	Analyze(ctx context.Context, cmd apptos.AnalyzeCommand) (*apptos.AnalyzeResult, error)
	ProcessSubmission(ctx context.Context, cmd apptos.SubmissionCommand) (*domain.SubmissionMetadata, error)
	EnterpriseCompare(ctx context.Context, cmd apptos.CompareCommand) (*domain.EnterpriseComparison, error)
}

type Options struct {
	Log         *logrus.Logger
	Metrics     *middleware.Metrics // nil disables /metrics
	RateLimiter *middleware.RateLimiter
	CORSOrigins []string
	APIKeys     map[string]string
	Checkers    map[string]middleware.HealthChecker
}

type Router struct {
	svc ToSService
	log *logrus.Logger
}

var routes = []string{
	"POST /prompt",
	"POST /analyze-tos",
	"POST /process-submission",
	"POST /enterprise-compare",
}

func NewRouter(svc ToSService, opts Options) http.Handler {
	log := opts.Log
	if log == nil {
		log = logrus.StandardLogger()
	}
	r := &Router{svc: svc, log: log}
	mux := chi.NewRouter()

	mux.Use(chimw.Recoverer)
	if opts.Metrics != nil {
		mux.Use(opts.Metrics.Middleware)
	}
	mux.Use(middleware.Logging(log))
	if len(opts.CORSOrigins) > 0 {
		mux.Use(cors.Handler(cors.Options{
			AllowedOrigins: opts.CORSOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
			MaxAge:         300,
		}))
	}
	mux.Use(middleware.APIKeyAuth(opts.APIKeys))
	if opts.RateLimiter != nil {
		mux.Use(middleware.RateLimit(opts.RateLimiter))
	}

	mux.Get("/", r.handleIndex)
	mux.Get("/health", middleware.HealthHandler(opts.Checkers))
	mux.Get("/ready", middleware.ReadinessHandler)
	mux.Get("/live", middleware.LivenessHandler)
	if opts.Metrics != nil {
		mux.Method(http.MethodGet, "/metrics", opts.Metrics.Handler())
	}

	mux.Post("/prompt", r.wrap(r.handlePrompt))
	mux.Post("/analyze-tos", r.wrap(r.handleAnalyze))
	mux.Post("/process-submission", r.wrap(r.handleProcessSubmission))
	mux.Post("/enterprise-compare", r.wrap(r.handleEnterpriseCompare))

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if err := h(w, req); err != nil {
			status := statusFor(err)
			if status >= http.StatusInternalServerError {
				r.log.WithField("path", req.URL.Path).WithError(err).Error("request failed")
			}
			writeJSON(w, status, map[string]string{"error": err.Error()})
		}
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrCompletionTimeout):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// decode reads a JSON body into dst. An unreadable body is reported as the
// required field being missing.
func decode(w http.ResponseWriter, req *http.Request, required string, dst any) error {
	body := http.MaxBytesReader(w, req.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		return domain.MissingField(required)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// GET /
func (r *Router) handleIndex(w http.ResponseWriter, req *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"service": "rdflg",
		"status":  "ok",
		"routes":  routes,
	})
}

// POST /prompt
// Body: {"prompt": "..."}
func (r *Router) handlePrompt(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		Prompt string `json:"prompt"`
	}
	if err := decode(w, req, "prompt", &body); err != nil {
		return err
	}
	out, err := r.svc.Prompt(req.Context(), middleware.SanitizeString(body.Prompt))
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, map[string]string{"response": out})
	return nil
}

// POST /analyze-tos
// Body: {"tos_text": "...", "service_name": "..."}
func (r *Router) handleAnalyze(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		TosText     string `json:"tos_text"`
		ServiceName string `json:"service_name"`
	}
	if err := decode(w, req, "tos_text", &body); err != nil {
		return err
	}
	res, err := r.svc.Analyze(req.Context(), apptos.AnalyzeCommand{
		TosText:     middleware.SanitizeString(body.TosText),
		ServiceName: middleware.SanitizeString(body.ServiceName),
	})
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, res)
	return nil
}

// POST /process-submission
// Body: {"tos_text": "...", "source": "paste|url", "tos_url": "..."}
func (r *Router) handleProcessSubmission(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		TosText string `json:"tos_text"`
		Source  string `json:"source"`
		TosURL  string `json:"tos_url"`
	}
	if err := decode(w, req, "tos_text", &body); err != nil {
		return err
	}
	// tos_url only matters for url submissions; pasted ones never carry it
	source := domain.Source(body.Source)
	tosURL := ""
	if source == domain.SourceURL && body.TosURL != "" {
		if err := middleware.ValidateURL(body.TosURL); err != nil {
			return domain.InvalidField("tos_url", err.Error())
		}
		tosURL = body.TosURL
	}
	res, err := r.svc.ProcessSubmission(req.Context(), apptos.SubmissionCommand{
		TosText: middleware.SanitizeString(body.TosText),
		Source:  source,
		TosURL:  tosURL,
	})
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, res)
	return nil
}

// POST /enterprise-compare
// Body: {"tos_text": "...", "service_name": "..."}
func (r *Router) handleEnterpriseCompare(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		TosText     string `json:"tos_text"`
		ServiceName string `json:"service_name"`
	}
	if err := decode(w, req, "tos_text", &body); err != nil {
		return err
	}
	res, err := r.svc.EnterpriseCompare(req.Context(), apptos.CompareCommand{
		TosText:     middleware.SanitizeString(body.TosText),
		ServiceName: middleware.SanitizeString(body.ServiceName),
	})
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, res)
	return nil
}

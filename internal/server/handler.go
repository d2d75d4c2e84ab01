package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"lettersmith/internal/errors"
	"lettersmith/internal/observability"
	"lettersmith/internal/refine"
	"lettersmith/internal/types"

	"go.opentelemetry.io/otel/attribute"
)

// createGenerateHandler wraps the full generation flow with observability
func (s *Server) createGenerateHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("lettersmith.api")
		ctx, span := tracer.Start(ctx, "api.generate")
		defer span.End()

		var req GenerateRequest
		if err := parseJSONRequest(r, &req); err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}

		if strings.TrimSpace(req.JobURL) == "" && strings.TrimSpace(req.JobText) == "" {
			err := fmt.Errorf("missing job posting")
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Missing job posting", "either jobUrl or jobText is required", http.StatusBadRequest)
			return
		}
		if strings.TrimSpace(req.Profile.FullName) == "" {
			err := fmt.Errorf("missing applicant name")
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Missing applicant name", "profile.fullName field is required", http.StatusBadRequest)
			return
		}
		if s.MaxRequestSize > 0 && len(req.JobText) > int(s.MaxRequestSize/2) {
			err := fmt.Errorf("job text too large: %d chars", len(req.JobText))
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Job text too large", fmt.Sprintf("jobText exceeds recommended size limit of %d characters", s.MaxRequestSize/2), http.StatusBadRequest)
			return
		}

		span.SetAttributes(
			attribute.Bool("request.has_url", req.JobURL != ""),
			attribute.Int("request.job_text_length", len(req.JobText)),
			attribute.Bool("request.premium", req.UsePremium),
			attribute.String("operation", "generate"),
		)

		// Track the AI-backed operation with duration and error metrics
		metrics := om.GetMetrics()
		var result types.GenerateOutput
		err := metrics.TrackAIOperationWithTokens(ctx, "generate", func(ctx context.Context) *observability.AIOperationResult {
			output, genErr := s.Pipeline().Generate(ctx, types.GenerateInput{
				JobURL:     req.JobURL,
				JobText:    req.JobText,
				Profile:    req.Profile,
				UsePremium: req.UsePremium,
			})
			result = output
			return &observability.AIOperationResult{Error: genErr}
		}, om)
		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "generation"))
			writeErrorResponse(w, "Failed to generate cover letter", errors.UserMessageFor(err), http.StatusInternalServerError)
			return
		}

		span.SetAttributes(
			attribute.Bool("success", true),
			attribute.Bool("from_cache", result.FromCache),
			attribute.String("tone", string(result.Tone.DetectedTone)),
		)
		if result.Score != nil {
			span.SetAttributes(attribute.Int("ats.score", result.Score.Score))
		}

		writeJSONResponse(w, span, result)
	}
}

// createScoreHandler wraps the standalone scoring flow with observability
func (s *Server) createScoreHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("lettersmith.api")
		ctx, span := tracer.Start(ctx, "api.score")
		defer span.End()

		var req ScoreRequest
		if err := parseJSONRequest(r, &req); err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}

		if strings.TrimSpace(req.Resume) == "" {
			err := fmt.Errorf("missing resume")
			span.RecordError(err)
			writeErrorResponse(w, "Missing resume", "resume field is required", http.StatusBadRequest)
			return
		}
		if strings.TrimSpace(req.JobDescription) == "" {
			err := fmt.Errorf("missing job description")
			span.RecordError(err)
			writeErrorResponse(w, "Missing job description", "jobDescription field is required", http.StatusBadRequest)
			return
		}

		span.SetAttributes(
			attribute.Int("request.resume_length", len(req.Resume)),
			attribute.Int("request.job_length", len(req.JobDescription)),
			attribute.String("operation", "score"),
		)

		result := s.Pipeline().Score(ctx, types.ScoreInput{
			Resume:         req.Resume,
			JobDescription: req.JobDescription,
		}, req.UsePremium)

		span.SetAttributes(
			attribute.Bool("success", true),
			attribute.Int("ats.score", result.Score),
		)

		writeJSONResponse(w, span, result)
	}
}

// createSuggestHandler wraps the revision suggestion flow with observability
func (s *Server) createSuggestHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("lettersmith.api")
		ctx, span := tracer.Start(ctx, "api.suggest")
		defer span.End()

		var req SuggestRequest
		if err := parseJSONRequest(r, &req); err != nil {
			span.RecordError(err)
			writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}

		if strings.TrimSpace(req.Resume) == "" {
			err := fmt.Errorf("missing resume")
			span.RecordError(err)
			writeErrorResponse(w, "Missing resume", "resume field is required", http.StatusBadRequest)
			return
		}
		if strings.TrimSpace(req.JobDescription) == "" {
			err := fmt.Errorf("missing job description")
			span.RecordError(err)
			writeErrorResponse(w, "Missing job description", "jobDescription field is required", http.StatusBadRequest)
			return
		}

		span.SetAttributes(
			attribute.Int("request.resume_length", len(req.Resume)),
			attribute.String("operation", "suggest"),
		)

		result, err := s.Pipeline().Suggest(ctx, types.SuggestInput{
			Resume:         req.Resume,
			JobDescription: req.JobDescription,
		})
		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "generation"))
			writeErrorResponse(w, "Failed to analyze resume", errors.UserMessageFor(err), http.StatusInternalServerError)
			return
		}

		span.SetAttributes(
			attribute.Bool("success", true),
			attribute.Int("suggestions_count", len(result.Suggestions)),
		)

		writeJSONResponse(w, span, result)
	}
}

// createExtractHandler wraps standalone extraction with observability
func (s *Server) createExtractHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("lettersmith.api")
		ctx, span := tracer.Start(ctx, "api.extract")
		defer span.End()

		var req ExtractRequest
		if err := parseJSONRequest(r, &req); err != nil {
			span.RecordError(err)
			writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}

		if strings.TrimSpace(req.JobURL) == "" && strings.TrimSpace(req.JobText) == "" {
			err := fmt.Errorf("missing job posting")
			span.RecordError(err)
			writeErrorResponse(w, "Missing job posting", "either jobUrl or jobText is required", http.StatusBadRequest)
			return
		}

		span.SetAttributes(
			attribute.Bool("request.has_url", req.JobURL != ""),
			attribute.String("operation", "extract"),
		)

		// Extraction never errors; failures come back as Success:false
		result := s.Pipeline().Extract(ctx, req.JobURL, req.JobText)

		span.SetAttributes(attribute.Bool("success", result.Success))

		writeJSONResponse(w, span, result)
	}
}

// createRefineHandler wraps section/bullet refinement with observability
func (s *Server) createRefineHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("lettersmith.api")
		ctx, span := tracer.Start(ctx, "api.refine")
		defer span.End()

		var req RefineRequest
		if err := parseJSONRequest(r, &req); err != nil {
			span.RecordError(err)
			writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}

		if strings.TrimSpace(req.JobDescription) == "" {
			err := fmt.Errorf("missing job description")
			span.RecordError(err)
			writeErrorResponse(w, "Missing job description", "jobDescription field is required", http.StatusBadRequest)
			return
		}
		hasSection := strings.TrimSpace(req.Content) != ""
		hasBullets := len(req.Bullets) > 0
		if !hasSection && !hasBullets {
			err := fmt.Errorf("nothing to refine")
			span.RecordError(err)
			writeErrorResponse(w, "Nothing to refine", "either section content or bullets must be provided", http.StatusBadRequest)
			return
		}

		metrics := om.GetMetrics()

		if hasSection {
			span.SetAttributes(attribute.String("operation", "refine_section"))
			var result refine.RefinedSection
			err := metrics.TrackAIOperationWithTokens(ctx, "refine_section", func(ctx context.Context) *observability.AIOperationResult {
				output, refineErr := s.Refiner().Section(ctx, req.Section, req.Content, req.JobDescription, req.UsePremium)
				result = output
				return &observability.AIOperationResult{Error: refineErr}
			}, om)
			if err != nil {
				span.RecordError(err)
				writeErrorResponse(w, "Failed to refine section", errors.UserMessageFor(err), http.StatusInternalServerError)
				return
			}
			span.SetAttributes(attribute.Bool("success", true))
			writeJSONResponse(w, span, result)
			return
		}

		span.SetAttributes(attribute.String("operation", "refine_bullets"))
		var result refine.RefinedBullets
		err := metrics.TrackAIOperationWithTokens(ctx, "refine_bullets", func(ctx context.Context) *observability.AIOperationResult {
			output, refineErr := s.Refiner().Bullets(ctx, req.Bullets, req.JobDescription, req.UsePremium)
			result = output
			return &observability.AIOperationResult{Error: refineErr}
		}, om)
		if err != nil {
			span.RecordError(err)
			writeErrorResponse(w, "Failed to refine bullets", errors.UserMessageFor(err), http.StatusInternalServerError)
			return
		}
		span.SetAttributes(attribute.Bool("success", true))
		writeJSONResponse(w, span, result)
	}
}

// createRateLimitMiddleware adds observability to rate limiting
func (s *Server) createRateLimitMiddleware(om *observability.ObservabilityManager) func(http.HandlerFunc) http.HandlerFunc {
	originalMiddleware := s.rateLimitMiddleware()

	return func(next http.HandlerFunc) http.HandlerFunc {
		return originalMiddleware(func(w http.ResponseWriter, r *http.Request) {
			// Wrap the ResponseWriter to detect rate limit responses
			wrapper := &responseWrapper{ResponseWriter: w, statusCode: 200}

			next(wrapper, r)

			if wrapper.statusCode == http.StatusTooManyRequests {
				metrics := om.GetMetrics()
				metrics.RecordRateLimitHit(r.Context(), om,
					attribute.String("endpoint", r.URL.Path),
					attribute.String("method", r.Method))
			}
		})
	}
}

// responseWrapper wraps http.ResponseWriter to capture status code
type responseWrapper struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWrapper) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

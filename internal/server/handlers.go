package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/agbru/fourierbench/internal/config"
	apperrors "github.com/agbru/fourierbench/internal/errors"
	"github.com/agbru/fourierbench/internal/logging"
	"github.com/agbru/fourierbench/internal/service"
	"github.com/agbru/fourierbench/internal/transform"
	"github.com/agbru/fourierbench/pkg/models"
)

// handleHealth responds to health check requests.
// It returns a 200 OK status with a JSON payload indicating the service is healthy.
//
// Parameters:
//   - w: The HTTP response writer.
//   - r: The HTTP request.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	s.writeJSONResponse(w, http.StatusOK, HealthResponse{Status: "healthy", Timestamp: time.Now().Unix()})
}

// handleImplementations returns the sorted labels of every registered
// implementation.
func (s *Server) handleImplementations(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	s.writeJSONResponse(w, http.StatusOK, models.ImplementationList{Implementations: s.service.Implementations()})
}

// handleBenchmark runs one benchmark described by the query parameters and
// returns its report.
//
// Parameters:
//   - w: The HTTP response writer.
//   - r: The HTTP request.
func (s *Server) handleBenchmark(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	req, err := parseBenchmarkParams(r.URL.Query(), s.cfg)
	if err != nil {
		msg := err.Error()
		var vErr apperrors.ValidationError
		if errors.As(err, &vErr) {
			msg = vErr.Message
			s.logger.Debug("rejected benchmark request", logging.String("field", vErr.Field))
		}
		s.writeErrorResponse(w, http.StatusBadRequest, msg)
		return
	}
	if len(req.Sizes) > s.securityConfig.MaxSizes {
		s.writeErrorResponse(w, http.StatusBadRequest,
			fmt.Sprintf("Too many sizes: at most %d per request.", s.securityConfig.MaxSizes))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.timeouts.RequestTimeout)
	defer cancel()

	start := time.Now()
	report, err := s.service.Run(ctx, req)
	if err != nil {
		s.logger.Error("benchmark failed", err, logging.Duration("elapsed", time.Since(start)))
		s.writeErrorResponse(w, statusForError(err), s.messageForError(err))
		return
	}
	s.writeJSONResponse(w, http.StatusOK, report)
}

// parseBenchmarkParams extracts and validates the benchmark parameters from
// the query string. Omitted parameters fall back to the server configuration.
//
// Parameters:
//   - q: The query parameters.
//   - defaults: The configuration supplying the defaults.
//
// Returns:
//   - service.Request: The parsed request.
//   - error: An apperrors.ValidationError naming the malformed parameter.
func parseBenchmarkParams(q url.Values, defaults config.AppConfig) (service.Request, error) {
	badRequest := func(field, format string, a ...any) error {
		return apperrors.NewValidationError(field, fmt.Sprintf(format, a...), q.Get(field))
	}

	sizesStr := q.Get("sizes")
	if sizesStr == "" {
		return service.Request{}, badRequest("sizes", "Missing 'sizes' parameter")
	}
	sizes, err := config.ParseSizes(sizesStr)
	if err != nil {
		return service.Request{}, badRequest("sizes", "Invalid 'sizes' parameter: %v", err)
	}

	req := service.Request{
		Sizes:       sizes,
		Repetitions: 1,
		Mode:        config.ModeValidate,
		Reference:   defaults.Reference,
		Tolerance:   defaults.Tolerance,
	}

	if v := q.Get("reps"); v != "" {
		reps, err := strconv.Atoi(v)
		if err != nil || reps < 1 {
			return service.Request{}, badRequest("reps", "Invalid 'reps' parameter: must be a positive integer")
		}
		req.Repetitions = reps
	}
	if v := q.Get("mode"); v != "" {
		mode, err := config.NormalizeMode(v)
		if err != nil {
			return service.Request{}, badRequest("mode", "Invalid 'mode' parameter: %v", err)
		}
		req.Mode = mode
	}
	if v := q.Get("seed"); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return service.Request{}, badRequest("seed", "Invalid 'seed' parameter: must be an integer")
		}
		req.Seed = &seed
	}
	if v := q.Get("algo"); v != "" && v != "all" {
		for _, a := range strings.Split(v, ",") {
			if a = strings.ToLower(strings.TrimSpace(a)); a != "" {
				req.Algo = append(req.Algo, a)
			}
		}
	}
	if v := q.Get("reference"); v != "" {
		parts := strings.Split(v, ",")
		if len(parts) != 2 {
			return service.Request{}, badRequest("reference", "Invalid 'reference' parameter: expected two comma-separated labels")
		}
		req.Reference = [2]string{
			strings.ToLower(strings.TrimSpace(parts[0])),
			strings.ToLower(strings.TrimSpace(parts[1])),
		}
	}
	if v := q.Get("tolerance"); v != "" {
		tol, err := strconv.ParseFloat(v, 64)
		if err != nil || tol < 0 {
			return service.Request{}, badRequest("tolerance", "Invalid 'tolerance' parameter: must be a non-negative number")
		}
		req.Tolerance = tol
	}
	return req, nil
}

// statusForError maps a service error to an HTTP status.
func statusForError(err error) int {
	switch {
	case errors.Is(err, service.ErrMaxSizeExceeded),
		errors.Is(err, service.ErrMaxRepetitionsExceeded),
		errors.Is(err, apperrors.ErrInvalidConfiguration):
		return http.StatusBadRequest
	case errors.Is(err, transform.ErrUnknownImplementation):
		return http.StatusNotFound
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func (s *Server) messageForError(err error) string {
	switch {
	case errors.Is(err, service.ErrMaxSizeExceeded):
		return fmt.Sprintf("A size exceeds the maximum allowed (%d). This limit prevents resource exhaustion.", s.securityConfig.MaxSize)
	case errors.Is(err, service.ErrMaxRepetitionsExceeded):
		return fmt.Sprintf("Repetitions exceed the maximum allowed (%d).", s.securityConfig.MaxRepetitions)
	}
	return err.Error()
}

// writeJSONResponse helper function to write a JSON response with the correct content type.
//
// Parameters:
//   - w: The HTTP response writer.
//   - statusCode: The HTTP status code to write.
//   - data: The data to be encoded as JSON.
func (s *Server) writeJSONResponse(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Printf("Error encoding JSON response: %v", err)
	}
}

// writeErrorResponse helper function to write a standardized error response.
//
// Parameters:
//   - w: The HTTP response writer.
//   - statusCode: The HTTP status code to write.
//   - message: The error message to be included in the response body.
func (s *Server) writeErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	errResp := ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
	}
	s.writeJSONResponse(w, statusCode, errResp)
}

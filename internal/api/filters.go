// Package api exposes the orchestration, benchmark, and baseline
// services over HTTP using go-restful.
package api

import (
	"net/http"
	"time"

	"github.com/emicklei/go-restful/v3"
	"github.com/rs/zerolog"
)

// ErrorResponse is the JSON body returned for all error statuses.
type ErrorResponse struct {
	Error  string `json:"error"`
	Status int    `json:"status"`
}

// WriteError sends a JSON error body with the given status.
func WriteError(resp *restful.Response, status int, err error) {
	_ = resp.WriteHeaderAndEntity(status, ErrorResponse{
		Error:  err.Error(),
		Status: status,
	})
}

// AccessLog returns a filter that logs one line per request with
// method, path, status, and duration.
func AccessLog(logger zerolog.Logger) restful.FilterFunction {
	return func(req *restful.Request, resp *restful.Response, chain *restful.FilterChain) {
		start := time.Now()
		chain.ProcessFilter(req, resp)
		logger.Info().
			Str("method", req.Request.Method).
			Str("path", req.Request.URL.Path).
			Int("status", resp.StatusCode()).
			Dur("duration", time.Since(start)).
			Msg("request")
	}
}

// RecoverPanic returns a filter that converts handler panics into 500
// responses instead of crashing the server.
func RecoverPanic(logger zerolog.Logger) restful.FilterFunction {
	return func(req *restful.Request, resp *restful.Response, chain *restful.FilterChain) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error().
					Interface("panic", r).
					Str("path", req.Request.URL.Path).
					Msg("handler panic")
				_ = resp.WriteHeaderAndEntity(http.StatusInternalServerError, ErrorResponse{
					Error:  "internal server error",
					Status: http.StatusInternalServerError,
				})
			}
		}()
		chain.ProcessFilter(req, resp)
	}
}

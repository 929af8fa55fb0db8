// ABOUTME: Maps pipeline, loader and storage errors onto HTTP status codes
// ABOUTME: Handlers respond with {"error": "..."} bodies using these statuses
package httpapi

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/harper/finreport/internal/core"
	"github.com/harper/finreport/internal/loader"
	"github.com/harper/finreport/internal/render"
	"github.com/harper/finreport/internal/storage"
	"github.com/rs/zerolog/log"
)

var (
	errMissingUpload = errors.New("no file uploaded")
	errUploadTooBig  = errors.New("upload too large")
)

// statusFor returns the HTTP status for an error returned by the service
func statusFor(err error) int {
	var (
		embeddingErr  *core.EmbeddingError
		extractionErr *core.ExtractionError
		retrievalErr  *core.RetrievalError
		renderErr     *render.RenderError
	)

	switch {
	case errors.Is(err, errMissingUpload), errors.Is(err, errInvalidParam), errors.Is(err, storage.ErrInvalidName):
		return http.StatusBadRequest
	case errors.Is(err, errUploadTooBig):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, loader.ErrUnsupported):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, core.ErrEmptyDocument), errors.As(err, &retrievalErr):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.As(err, &embeddingErr), errors.As(err, &extractionErr):
		return http.StatusBadGateway
	case errors.As(err, &renderErr):
		return http.StatusInternalServerError
	}
	return http.StatusInternalServerError
}

// abortWithError logs server-side failures and writes the JSON error body
func abortWithError(c *gin.Context, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.FullPath()).Int("status", status).Msg("request failed")
	}
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}

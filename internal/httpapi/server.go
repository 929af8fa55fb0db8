// ABOUTME: Gin HTTP front end for report generation, summaries, digests and downloads
// ABOUTME: Accepts multipart uploads in the financial_file field and serves artifacts as attachments
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/harper/finreport/internal/models"
	"github.com/harper/finreport/internal/report"
	"github.com/rs/zerolog/log"
)

const (
	// UploadField is the multipart form field carrying the document
	UploadField = "financial_file"
	// MaxUploadBytes caps the accepted document size
	MaxUploadBytes = 32 << 20

	shutdownTimeout = 10 * time.Second
)

var errInvalidParam = errors.New("invalid parameter")

// Server exposes a report.Service over HTTP
type Server struct {
	svc    *report.Service
	engine *gin.Engine
}

// NewServer builds the router. The service must have artifact storage.
func NewServer(svc *report.Service) (*Server, error) {
	if svc == nil || svc.Storage() == nil {
		return nil, errors.New("http server requires a service with storage")
	}

	engine := gin.New()
	engine.Use(gin.Recovery(), RequestLogger())
	engine.MaxMultipartMemory = MaxUploadBytes

	s := &Server{svc: svc, engine: engine}

	engine.GET("/health", s.health)
	engine.POST("/generate", s.generate)
	engine.POST("/summarize", s.summarize)
	engine.POST("/digest", s.digest)
	engine.GET("/reports", s.listReports)
	engine.GET("/reports/:name", s.downloadReport)
	engine.DELETE("/reports/:name", s.deleteReport)
	engine.GET("/runs", s.listRuns)

	return s, nil
}

// Handler returns the http.Handler serving all routes
func (s *Server) Handler() http.Handler { return s.engine }

// Run serves on addr until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("http server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	log.Info().Msg("http server shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	return nil
}

func (s *Server) health(c *gin.Context) {
	cfg := s.svc.Pipeline().Config()
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "finreport",
		"mode":    cfg.Mode,
		"layout":  s.svc.Options().Layout.Style,
		"fields":  len(s.svc.Pipeline().Schema().Fields),
	})
}

// generate runs a full report for the upload and returns the PDF, or its
// metadata when ?response=json
func (s *Server) generate(c *gin.Context) {
	name, text, err := s.readDocument(c)
	if err != nil {
		abortWithError(c, err)
		return
	}

	res, err := s.svc.GenerateReport(c.Request.Context(), name, text)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.Header("X-Run-ID", res.RunID)
	if wantsJSON(c) {
		c.JSON(http.StatusOK, res)
		return
	}
	sendAttachment(c, res.Artifact, res.Data)
}

func (s *Server) summarize(c *gin.Context) {
	format, err := report.ParseFormat(c.PostForm("format"))
	if err != nil {
		abortWithError(c, fmt.Errorf("%w: %v", errInvalidParam, err))
		return
	}
	name, text, err := s.readDocument(c)
	if err != nil {
		abortWithError(c, err)
		return
	}

	res, err := s.svc.Summarize(c.Request.Context(), name, text, format)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.Header("X-Run-ID", res.RunID)
	if wantsJSON(c) {
		c.JSON(http.StatusOK, res)
		return
	}
	data, _, err := s.svc.Storage().ReadArtifact(res.Artifact.Name)
	if err != nil {
		abortWithError(c, err)
		return
	}
	sendAttachment(c, res.Artifact, data)
}

// digest returns the retrieval digest as plain text, or JSON when ?response=json
func (s *Server) digest(c *gin.Context) {
	k := 0
	if raw := c.PostForm("k"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			abortWithError(c, fmt.Errorf("%w: k must be a positive integer, got %q", errInvalidParam, raw))
			return
		}
		k = n
	}
	name, text, err := s.readDocument(c)
	if err != nil {
		abortWithError(c, err)
		return
	}

	res, err := s.svc.Digest(c.Request.Context(), name, text, c.PostForm("query"), k)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.Header("X-Run-ID", res.RunID)
	if wantsJSON(c) {
		c.JSON(http.StatusOK, res)
		return
	}
	c.String(http.StatusOK, res.Text)
}

func (s *Server) listReports(c *gin.Context) {
	artifacts, err := s.svc.Storage().ListArtifacts()
	if err != nil {
		abortWithError(c, err)
		return
	}
	if artifacts == nil {
		artifacts = []models.Artifact{}
	}
	c.JSON(http.StatusOK, gin.H{"artifacts": artifacts})
}

func (s *Server) downloadReport(c *gin.Context) {
	f, meta, err := s.svc.Storage().OpenArtifact(c.Param("name"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.DataFromReader(http.StatusOK, info.Size(), meta.ContentType, f, map[string]string{
		"Content-Disposition": attachmentHeader(meta.Name),
	})
}

func (s *Server) deleteReport(c *gin.Context) {
	if err := s.svc.Storage().DeleteArtifact(c.Param("name")); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) listRuns(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil {
		abortWithError(c, fmt.Errorf("%w: limit must be an integer", errInvalidParam))
		return
	}
	runs, err := s.svc.Storage().ListRuns(models.ArtifactKind(c.Query("kind")), limit)
	if err != nil {
		abortWithError(c, err)
		return
	}
	if runs == nil {
		runs = []models.Run{}
	}
	c.JSON(http.StatusOK, gin.H{"runs": runs})
}

// readDocument reads the uploaded file, stores it and returns its name and text
func (s *Server) readDocument(c *gin.Context) (string, string, error) {
	fh, err := c.FormFile(UploadField)
	if err != nil {
		return "", "", errMissingUpload
	}
	if fh.Size > MaxUploadBytes {
		return "", "", fmt.Errorf("%w: %d bytes", errUploadTooBig, fh.Size)
	}

	f, err := fh.Open()
	if err != nil {
		return "", "", fmt.Errorf("failed to open upload: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, MaxUploadBytes+1))
	if err != nil {
		return "", "", fmt.Errorf("failed to read upload: %w", err)
	}

	text, err := s.svc.LoadUpload(fh.Filename, data)
	if err != nil {
		return "", "", err
	}
	return fh.Filename, text, nil
}

func wantsJSON(c *gin.Context) bool {
	return c.Query("response") == "json"
}

func sendAttachment(c *gin.Context, a *models.Artifact, data []byte) {
	c.Header("Content-Disposition", attachmentHeader(a.Name))
	c.Data(http.StatusOK, a.ContentType, data)
}

func attachmentHeader(name string) string {
	return fmt.Sprintf("attachment; filename=%q", name)
}

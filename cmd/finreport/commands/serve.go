// ABOUTME: Serve command runs the HTTP upload front end
// ABOUTME: Serves /generate, /summarize, /digest and report downloads until interrupted
package commands

import (
	"github.com/gin-gonic/gin"
	"github.com/harper/finreport/internal/httpapi"
	"github.com/spf13/cobra"
)

var serveAddr string

// NewServeCmd creates the serve command
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Long: `Start the HTTP server.

Endpoints:
  POST /generate        multipart field financial_file, returns the PDF report
  POST /summarize       multipart field financial_file, returns the summary
  POST /digest          multipart field financial_file, optional query and k
  GET  /reports         list stored artifacts
  GET  /reports/:name   download an artifact
  GET  /runs            recent runs from the ledger
  GET  /health          liveness check

Add ?response=json to the POST endpoints for metadata instead of files.`,
		Example: `  finreport serve
  finreport serve --addr 127.0.0.1:9000
  curl -F financial_file=@q4_letter.txt http://localhost:8080/generate -o report.pdf`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}

	cmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default: FINREPORT_HTTP_ADDR)")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := newApp(overrides{}, true)
	if err != nil {
		return err
	}
	defer a.close()

	if !verbose {
		gin.SetMode(gin.ReleaseMode)
	}

	srv, err := httpapi.NewServer(a.svc)
	if err != nil {
		return err
	}

	addr := a.cfg.HTTPAddr
	if serveAddr != "" {
		addr = serveAddr
	}

	ctx, stop := signalContext(cmd.Context())
	defer stop()

	return srv.Run(ctx, addr)
}

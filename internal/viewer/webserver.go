// Package viewer serves a finished point cloud to a browser: a 3D scatter
// page, a duplicate histogram, a JSON summary and debug pages.
package viewer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"path/filepath"
	"time"

	"github.com/klauspost/compress/gzhttp"
	"golang.org/x/sync/errgroup"
	"tailscale.com/tsweb"

	"github.com/teschty/binviz/internal/cloud"
	"github.com/teschty/binviz/internal/config"
	"github.com/teschty/binviz/internal/httputil"
	"github.com/teschty/binviz/internal/monitoring"
	"github.com/teschty/binviz/internal/pointdb"
	"github.com/teschty/binviz/internal/version"
)

// WebServer renders one Cloud. The Cloud is shared read-only between
// requests and must not be modified after NewWebServer.
type WebServer struct {
	cloud   *cloud.Cloud
	summary cloud.Summary
	cfg     *config.ViewerConfig
	index   *pointdb.DB
	camera  Camera
	handler http.Handler
}

// WebServerConfig contains the collaborators of a WebServer.
type WebServerConfig struct {
	Cloud  *cloud.Cloud
	Config *config.ViewerConfig
	// Index is optional; without it the SQL debug pages are not mounted.
	Index *pointdb.DB
}

// NewWebServer builds the handler tree for cfg.Cloud.
func NewWebServer(cfg WebServerConfig) (*WebServer, error) {
	if cfg.Cloud == nil {
		return nil, errors.New("viewer: nil cloud")
	}
	if cfg.Config == nil {
		cfg.Config = config.EmptyViewerConfig()
	}

	ws := &WebServer{
		cloud:   cfg.Cloud,
		summary: cloud.Summarize(cfg.Cloud),
		cfg:     cfg.Config,
		index:   cfg.Index,
		camera:  DefaultCamera(),
	}

	mux, err := ws.setupRoutes()
	if err != nil {
		return nil, err
	}
	ws.handler = gzhttp.GzipHandler(mux)
	return ws, nil
}

// Handler returns the root handler, gzip-wrapped.
func (ws *WebServer) Handler() http.Handler {
	return ws.handler
}

func (ws *WebServer) setupRoutes() (*http.ServeMux, error) {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", ws.handleHealth)
	mux.HandleFunc("/histogram.png", ws.handleHistogram)
	mux.HandleFunc("/summary.json", ws.handleSummary)
	mux.HandleFunc("/", ws.handleScatter)

	debug := tsweb.Debugger(mux)
	debug.Handle("run", "Run metadata and build version (JSON)", http.HandlerFunc(ws.handleRunInfo))

	if ws.index != nil {
		if err := ws.index.AttachAdminRoutes(mux, ws.cloud.Source.RunID); err != nil {
			return nil, err
		}
	}
	return mux, nil
}

// Start serves on address until ctx is cancelled, then shuts down within the
// configured timeout.
func (ws *WebServer) Start(ctx context.Context, address string) error {
	ln, err := net.Listen("tcp", address)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", address, err)
	}
	return ws.Serve(ctx, ln)
}

// Serve is Start on an existing listener.
func (ws *WebServer) Serve(ctx context.Context, ln net.Listener) error {
	server := &http.Server{
		Handler:           ws.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		monitoring.Logf("viewer listening on http://%s/", ln.Addr())
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("viewer server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		monitoring.Logf("shutting down viewer...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), ws.cfg.GetShutdownTimeout())
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			monitoring.Logf("viewer shutdown error: %v", err)
			if err := server.Close(); err != nil {
				monitoring.Logf("viewer force close error: %v", err)
			}
		}
		return nil
	})
	return g.Wait()
}

func (ws *WebServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSONOK(w, map[string]any{"status": "ok", "points": len(ws.cloud.Points)})
}

func (ws *WebServer) handleSummary(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSONOK(w, ws.summary)
}

func (ws *WebServer) handleRunInfo(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSONOK(w, map[string]any{
		"version": version.String(),
		"source":  ws.cloud.Source.Path,
		"summary": ws.summary,
	})
}

// handleScatter renders the 3D page. Query params:
//   - yaw, pitch (degrees), zoom (factor), panx, pany: camera input applied
//     to the default camera
//   - max_points (optional) lowers the configured downsample cap
func (ws *WebServer) handleScatter(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		httputil.NotFound(w, "not found")
		return
	}
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		httputil.MethodNotAllowed(w)
		return
	}

	maxPoints := ws.cfg.GetMaxPoints()
	if mp := r.URL.Query().Get("max_points"); mp != "" {
		var v int
		if _, err := fmt.Sscanf(mp, "%d", &v); err == nil && v > 0 && v < maxPoints {
			maxPoints = v
		}
	}

	frame := scatterFrame{
		Title:     "binviz: " + filepath.Base(ws.cloud.Source.Path),
		Subtitle:  fmt.Sprintf("unique=%d duplicates=%d", len(ws.cloud.Points), ws.cloud.Duplicates),
		Width:     ws.cfg.GetChartWidth(),
		Height:    ws.cfg.GetChartHeight(),
		Theme:     ws.cfg.GetTheme(),
		Rotate:    ws.cfg.GetAutoRotate(),
		MaxPoints: maxPoints,
		Camera:    ws.camera.Update(ParseInput(r.URL.Query())),
	}

	var buf bytes.Buffer
	if _, err := renderScatter(&buf, ws.cloud, frame); err != nil {
		httputil.InternalServerError(w, err.Error())
		return
	}

	httputil.WriteBody(w, "text/html; charset=utf-8", buf.Bytes())
}

func (ws *WebServer) handleHistogram(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	err := renderHistogram(&buf, ws.cloud, ws.cfg.GetHistogramBins())
	if errors.Is(err, errNoPoints) {
		httputil.NotFound(w, err.Error())
		return
	}
	if err != nil {
		httputil.InternalServerError(w, err.Error())
		return
	}

	httputil.WriteBody(w, "image/png", buf.Bytes())
}

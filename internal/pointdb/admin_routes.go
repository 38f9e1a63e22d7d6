package pointdb

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/tailscale/tailsql/server/tailsql"
	"tailscale.com/tsweb"

	"github.com/teschty/binviz/internal/httputil"
)

// AttachAdminRoutes mounts the SQL console and a hotspot listing under the
// /debug/ pages of mux.
func (db *DB) AttachAdminRoutes(mux *http.ServeMux, runID string) error {
	debug := tsweb.Debugger(mux)

	tsql, err := tailsql.NewServer(tailsql.Options{
		RoutePrefix: "/debug/tailsql/",
	})
	if err != nil {
		return fmt.Errorf("failed to create tailsql server: %w", err)
	}
	tsql.SetDB("sqlite://binviz-"+db.name, db.DB, &tailsql.DBOptions{
		Label: "Point index",
	})

	debug.Handle("tailsql/", "SQL console over the point index", tsql.NewMux())

	debug.Handle("hotspots", "Most repeated triplets (JSON, ?limit=N)", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		limit := 20
		if s := r.URL.Query().Get("limit"); s != "" {
			if v, err := strconv.Atoi(s); err == nil && v > 0 && v <= 1000 {
				limit = v
			}
		}
		hs, err := db.TopHotspots(runID, limit)
		if err != nil {
			httputil.InternalServerError(w, fmt.Sprintf("failed to query hotspots: %v", err))
			return
		}
		if hs == nil {
			hs = []Hotspot{}
		}
		httputil.WriteJSONOK(w, hs)
	}))
	return nil
}

package app

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// statusHandler serves the live processor status for a polling UI.
func (a *App) statusHandler(w http.ResponseWriter, r *http.Request) {
	a.logger.Debug("Status endpoint hit.", "remote_addr", r.RemoteAddr, "path", r.URL.Path)
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(a.processor.Status()); err != nil {
		a.logger.Error("Failed to encode status response.", "error", err)
	}
}

// costsHandler serves the most recent batch's cost breakdown.
func (a *App) costsHandler(w http.ResponseWriter, r *http.Request) {
	a.logger.Debug("Costs endpoint hit.", "remote_addr", r.RemoteAddr, "path", r.URL.Path)
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(a.processor.CostBreakdown()); err != nil {
		a.logger.Error("Failed to encode costs response.", "error", err)
	}
}

// startStatusServer initializes and runs the progress/cost HTTP server.
func (a *App) startStatusServer(port int) {
	a.logger.Debug("Configuring status server.")
	mux := http.NewServeMux()
	mux.HandleFunc("/status", a.statusHandler)
	mux.HandleFunc("/costs", a.costsHandler)

	addr := fmt.Sprintf(":%d", port)

	go func() {
		a.logger.Info("📊 Status server starting", "address", fmt.Sprintf("http://localhost%s/status", addr))
		if err := http.ListenAndServe(addr, mux); err != nil {
			a.logger.Error("Status server failed", "error", err)
		}
	}()
}

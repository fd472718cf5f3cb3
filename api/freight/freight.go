package freight

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	frun "FreightRecon/internal/freight"
	"FreightRecon/internal/pipeline"
)

// StartFreightService serves the run-trigger and report endpoints. The
// gateway proxies /freight/* here.
func StartFreightService(port int, runner *frun.Runner) {
	router := mux.NewRouter()
	router.HandleFunc("/freight/health", healthHandler).Methods("GET")
	router.HandleFunc("/freight/runs", triggerRunHandler(runner)).Methods("POST")
	router.HandleFunc("/freight/runs/latest", latestRunHandler(runner)).Methods("GET")
	router.HandleFunc("/freight/runs/latest/table", latestTableHandler(runner)).Methods("GET")

	addr := fmt.Sprintf(":%d", port)
	log.Println("Freight Service started on", addr)
	if err := http.ListenAndServe(addr, router); err != nil {
		log.Fatalf("Freight Service failed: %v", err)
	}
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Freight Service is healthy"))
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func triggerRunHandler(runner *frun.Runner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Period string `json:"period"`
		}
		if r.Body != nil {
			// empty body means "previous month"
			_ = json.NewDecoder(r.Body).Decode(&req)
		}
		period := req.Period
		if period == "" {
			period = frun.PreviousPeriod(time.Now())
		}
		if _, err := time.Parse("2006-01", period); err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid period %q, want YYYY-MM", period))
			return
		}

		out, err := runner.RunPeriod(r.Context(), period)
		switch {
		case errors.Is(err, frun.ErrRunInProgress):
			writeError(w, http.StatusConflict, err.Error())
			return
		case errors.Is(err, pipeline.ErrOrderFeed):
			writeJSON(w, http.StatusBadGateway, map[string]interface{}{
				"error":  err.Error(),
				"report": out.Report,
			})
			return
		case err != nil:
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, out.Report)
	}
}

func latestRunHandler(runner *frun.Runner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		out := runner.Latest()
		if out == nil {
			writeError(w, http.StatusNotFound, "no runs yet")
			return
		}
		writeJSON(w, http.StatusOK, out.Report)
	}
}

func latestTableHandler(runner *frun.Runner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		out := runner.Latest()
		if out == nil || out.Table == nil {
			writeError(w, http.StatusNotFound, "no completed run")
			return
		}
		writeJSON(w, http.StatusOK, out.Table)
	}
}

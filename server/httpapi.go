package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"

	"github.com/hostmon/hostmon/host"
	"github.com/hostmon/hostmon/monitor"
)

// HttpApi exposes the registry status and the manual trigger paths over
// HTTP.  Manual triggers may race with a concurrently running scheduled
// cycle touching the same host; the registry's per-host atomicity is the
// safety net.
type HttpApi struct {
	HttpServer *http.Server
}

type hostStatus struct {
	Host        string     `json:"host"`
	Up          bool       `json:"up"`
	FailCount   int        `json:"fail_count"`
	LastAlertAt *time.Time `json:"last_alert_at,omitempty"`
}

func New(listenAddress string, mon *monitor.Monitor) *HttpApi {
	router := httprouter.New()

	router.GET("/status", func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		snapshot := mon.Registry.Snapshot()

		statuses := make([]hostStatus, 0, len(snapshot))
		for _, name := range mon.Registry.Hosts() {
			st := snapshot[name]
			hs := hostStatus{Host: name, Up: st.Up, FailCount: st.FailCount}
			if !st.LastAlertAt.IsZero() {
				t := st.LastAlertAt
				hs.LastAlertAt = &t
			}
			statuses = append(statuses, hs)
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(statuses)
	})

	router.POST("/check", func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		mon.CheckCycle(r.Context())
		w.WriteHeader(http.StatusAccepted)
	})

	router.POST("/report", func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		mon.ReportCycle(r.Context())
		w.WriteHeader(http.StatusAccepted)
	})

	router.POST("/simulate-down/:host", func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		err := mon.SimulateDown(r.Context(), p.ByName("host"))
		if errors.Is(err, host.ErrUnknownHost) {
			http.Error(w, "host not found", http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusAccepted)
	})

	return &HttpApi{
		HttpServer: &http.Server{
			Addr:    listenAddress,
			Handler: router,
		},
	}
}

func (h *HttpApi) Start() error {
	return h.HttpServer.ListenAndServe()
}

func (h *HttpApi) Shutdown(ctx context.Context) error {
	return h.HttpServer.Shutdown(ctx)
}

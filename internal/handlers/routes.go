package handlers

import (
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func RegisterRoutes(r *mux.Router, ph *PadStopHandler, ready ReadinessCheck) {
	r.Handle("/padStop", ph).Methods("POST")
	r.HandleFunc("/healthz", HandleHealthz).Methods("GET")
	r.HandleFunc("/readyz", HandleReadyz(ready)).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")
}

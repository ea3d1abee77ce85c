package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"bookcatalog-backend/pkg/container"
)

const healthAddr = ":9999"

// startHealthCheckServer exposes liveness and readiness probes for the
// worker process.
func startHealthCheckServer(c *container.Container) {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"UP","service":"bookcatalog-worker"}`))
	})
	mux.HandleFunc("/ready", readyCheckHandler(c))

	log.Printf("health check server listening on %s", healthAddr)
	if err := http.ListenAndServe(healthAddr, mux); err != nil {
		log.Printf("health check server failed: %v", err)
	}
}

// readyCheckHandler reports ready only when both backing stores answer.
func readyCheckHandler(c *container.Container) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		w.Header().Set("Content-Type", "application/json")
		if err := c.DB.HealthCheck(ctx); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			fmt.Fprintf(w, `{"status":"NOT_READY","error":%q}`, err.Error())
			return
		}
		if err := c.Cache.Ping(ctx); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			fmt.Fprintf(w, `{"status":"NOT_READY","error":%q}`, err.Error())
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"READY"}`))
	}
}

package handler

import (
	"net/http"

	"github.com/jobtally/job-tracker/internal/server"
)

func HealthCheckHandler(svr server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svr.Conn.Ping(); err != nil {
			svr.Log(err, "unable to ping database")
			svr.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unhealthy"})
			return
		}
		svr.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

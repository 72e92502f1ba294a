package main

import (
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/sessions"
	"github.com/joho/godotenv"

	"github.com/jobtally/job-tracker/internal/calendar"
	"github.com/jobtally/job-tracker/internal/config"
	"github.com/jobtally/job-tracker/internal/database"
	"github.com/jobtally/job-tracker/internal/email"
	"github.com/jobtally/job-tracker/internal/handler"
	"github.com/jobtally/job-tracker/internal/job"
	"github.com/jobtally/job-tracker/internal/middleware"
	"github.com/jobtally/job-tracker/internal/ratelimit"
	"github.com/jobtally/job-tracker/internal/server"
	"github.com/jobtally/job-tracker/internal/user"
)

func main() {
	godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("unable to load config: %+v", err)
	}
	conn, err := database.GetDbConn(
		cfg.DatabaseUser,
		cfg.DatabasePassword,
		cfg.DatabaseHost,
		cfg.DatabasePort,
		cfg.DatabaseName,
		cfg.DatabaseSSLMode,
	)
	if err != nil {
		log.Fatalf("unable to connect to postgres: %v", err)
	}
	defer database.CloseDbConn(conn)
	emailClient, err := email.NewClient(cfg.EmailAPIKey, cfg.SupportEmail, cfg.NoReplyEmail, cfg.SiteName)
	if err != nil {
		log.Fatalf("unable to initialise email client: %v", err)
	}
	sessionStore := sessions.NewCookieStore(cfg.SessionKey)

	svr := server.NewServer(
		cfg,
		conn,
		mux.NewRouter(),
		emailClient,
		sessionStore,
	)

	userRepo := user.NewRepository(conn)
	jobRepo := job.NewRepository(conn)
	calClient := calendar.NewClient(cfg.CalendarAPIBaseURL, cfg.CalendarAPIKey)
	actionGuard := ratelimit.NewActionGuard(time.Duration(cfg.ActionMinIntervalMsec) * time.Millisecond)
	verifyWindow := ratelimit.NewFixedWindow(cfg.AdminVerifyPerMinute, time.Minute)
	throttled := func(next http.HandlerFunc) http.HandlerFunc {
		return middleware.ThrottleMiddleware(sessionStore, cfg.JwtSigningKey, actionGuard, next)
	}

	svr.RegisterRoute("/health", handler.HealthCheckHandler(svr), []string{"GET"})

	//
	// auth routes
	//

	svr.RegisterRoute("/x/auth", handler.RequestTokenSignOn(svr, userRepo), []string{"POST"})
	svr.RegisterRoute("/x/auth/{token}", handler.VerifyTokenSignOn(svr, userRepo), []string{"GET"})
	svr.RegisterRoute("/x/signout", handler.SignOutHandler(svr), []string{"POST"})
	svr.RegisterRoute("/x/account", handler.DeleteAccountHandler(svr, userRepo, jobRepo), []string{"DELETE"})

	//
	// job entry routes
	//

	svr.RegisterRoute("/x/jobs", handler.ListJobEntriesHandler(svr, jobRepo), []string{"GET"})
	svr.RegisterRoute("/x/jobs", throttled(handler.CreateJobEntryHandler(svr, jobRepo, calClient)), []string{"POST"})
	svr.RegisterRoute("/x/jobs/status", throttled(handler.BulkUpdateJobStatusHandler(svr, jobRepo)), []string{"PUT"})
	svr.RegisterRoute("/x/jobs/{id}", throttled(handler.UpdateJobEntryHandler(svr, jobRepo, calClient)), []string{"PUT"})
	svr.RegisterRoute("/x/jobs/{id}/status", throttled(handler.UpdateJobEntryStatusHandler(svr, jobRepo)), []string{"PUT"})
	svr.RegisterRoute("/x/jobs/{id}", throttled(handler.DeleteJobEntryHandler(svr, jobRepo, calClient)), []string{"DELETE"})

	//
	// derived views
	//

	svr.RegisterRoute("/x/notifications", handler.NotificationsHandler(svr, jobRepo), []string{"GET"})
	svr.RegisterRoute("/x/stats", handler.StatsHandler(svr, jobRepo), []string{"GET"})

	//
	// admin routes
	//

	svr.RegisterRoute("/x/admin/verify", handler.VerifyAdminHandler(svr, userRepo, verifyWindow), []string{"POST"})
	svr.RegisterRoute("/x/admin/users", handler.ListUsersAsAdminHandler(svr, userRepo), []string{"GET"})
	svr.RegisterRoute("/x/task/cleanup-tokens", handler.TriggerTokenCleanupHandler(svr, userRepo), []string{"POST"})

	log.Fatal(svr.Run())
}

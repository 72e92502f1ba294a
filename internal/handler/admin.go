package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/jobtally/job-tracker/internal/middleware"
	"github.com/jobtally/job-tracker/internal/ratelimit"
	"github.com/jobtally/job-tracker/internal/server"
	"github.com/jobtally/job-tracker/internal/user"
)

type adminVerifyRq struct {
	Email  string `json:"email"`
	Action string `json:"action"`
}

type adminVerifyRes struct {
	IsAdmin   bool      `json:"isAdmin"`
	Timestamp time.Time `json:"timestamp"`
}

// VerifyAdminHandler answers whether an email holds admin rights, behind a
// fixed-window per-client limit
func VerifyAdminHandler(svr server.Server, userRepo *user.Repository, window *ratelimit.FixedWindow) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !window.Allow(clientKey(r), time.Now()) {
			svr.JSON(w, http.StatusTooManyRequests, map[string]string{"message": "too many verification requests, try again later"})
			return
		}
		rq := &adminVerifyRq{}
		if err := json.NewDecoder(r.Body).Decode(rq); err != nil {
			svr.JSON(w, http.StatusBadRequest, map[string]string{"message": "invalid request payload"})
			return
		}
		if !svr.IsEmail(rq.Email) {
			svr.JSON(w, http.StatusBadRequest, map[string]string{"message": "invalid email address"})
			return
		}
		isAdmin, err := resolveIsAdmin(svr, userRepo, rq.Email)
		if err != nil {
			svr.Log(err, fmt.Sprintf("unable to resolve admin status for %s", rq.Email))
			svr.JSON(w, http.StatusInternalServerError, map[string]string{"message": "unable to verify admin status"})
			return
		}
		svr.JSON(w, http.StatusOK, adminVerifyRes{IsAdmin: isAdmin, Timestamp: time.Now().UTC()})
	}
}

// ListUsersAsAdminHandler backs the admin panel user list
func ListUsersAsAdminHandler(svr server.Server, userRepo *user.Repository) http.HandlerFunc {
	return middleware.AdminAuthenticatedMiddleware(
		svr.SessionStore,
		svr.GetJWTSigningKey(),
		func(w http.ResponseWriter, r *http.Request) {
			users, err := userRepo.GetUsers()
			if err != nil {
				svr.Log(err, "unable to retrieve users")
				svr.JSON(w, http.StatusInternalServerError, map[string]string{"message": "unable to retrieve users"})
				return
			}
			svr.JSON(w, http.StatusOK, users)
		},
	)
}

// TriggerTokenCleanupHandler drops sign on tokens past their validity window
func TriggerTokenCleanupHandler(svr server.Server, userRepo *user.Repository) http.HandlerFunc {
	return middleware.AdminAuthenticatedMiddleware(
		svr.SessionStore,
		svr.GetJWTSigningKey(),
		func(w http.ResponseWriter, r *http.Request) {
			if err := userRepo.DeleteExpiredUserSignOnTokens(); err != nil {
				svr.Log(err, "unable to delete expired sign on tokens")
				svr.JSON(w, http.StatusInternalServerError, nil)
				return
			}
			svr.JSON(w, http.StatusOK, nil)
		},
	)
}

// resolveIsAdmin checks the static allow-list first and falls back to the
// dynamic role record. Results are cached for a few minutes to avoid
// repeated verification lookups.
func resolveIsAdmin(svr server.Server, userRepo *user.Repository, emailAddr string) (bool, error) {
	emailAddr = strings.ToLower(strings.TrimSpace(emailAddr))
	cacheKey := adminCacheKey(emailAddr)
	if cached, ok := svr.CacheGet(cacheKey); ok {
		return string(cached) == "1", nil
	}
	isAdmin := false
	for _, e := range svr.GetConfig().AdminEmails {
		if e == emailAddr {
			isAdmin = true
			break
		}
	}
	if !isAdmin {
		var err error
		isAdmin, err = userRepo.HasAdminRole(emailAddr)
		if err != nil {
			return false, err
		}
	}
	cached := "0"
	if isAdmin {
		cached = "1"
	}
	svr.CacheSet(cacheKey, []byte(cached))
	return isAdmin, nil
}

func adminCacheKey(emailAddr string) string {
	return "admin:" + strings.ToLower(strings.TrimSpace(emailAddr))
}

// clientKey identifies the caller for rate limiting purposes, the first
// forwarded address when behind a proxy
func clientKey(r *http.Request) string {
	if fwd := r.Header.Get("x-forwarded-for"); fwd != "" {
		return strings.TrimSpace(strings.Split(fwd, ",")[0])
	}
	return r.RemoteAddr
}

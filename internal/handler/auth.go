package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	jwt "github.com/dgrijalva/jwt-go"
	"github.com/gorilla/mux"
	"github.com/segmentio/ksuid"

	"github.com/jobtally/job-tracker/internal/email"
	"github.com/jobtally/job-tracker/internal/job"
	"github.com/jobtally/job-tracker/internal/middleware"
	"github.com/jobtally/job-tracker/internal/server"
	"github.com/jobtally/job-tracker/internal/user"
)

// RequestTokenSignOn emails a one-time sign on link to the given address
func RequestTokenSignOn(svr server.Server, userRepo *user.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := &struct {
			Email string `json:"email"`
		}{}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			svr.JSON(w, http.StatusBadRequest, nil)
			return
		}
		if !svr.IsEmail(req.Email) {
			svr.JSON(w, http.StatusBadRequest, map[string]string{"message": "invalid email address"})
			return
		}
		k, err := ksuid.NewRandom()
		if err != nil {
			svr.Log(err, "unable to generate sign on token")
			svr.JSON(w, http.StatusInternalServerError, nil)
			return
		}
		if err := userRepo.SaveTokenSignOn(req.Email, k.String()); err != nil {
			svr.Log(err, "unable to save sign on token")
			svr.JSON(w, http.StatusInternalServerError, nil)
			return
		}
		cfg := svr.GetConfig()
		err = svr.GetEmail().SendTextEmail(
			email.Address{Name: svr.GetEmail().DefaultSenderName(), Email: svr.GetEmail().NoReplySenderAddress()},
			email.Address{Email: req.Email},
			fmt.Sprintf("Sign On on %s", cfg.SiteName),
			fmt.Sprintf("Sign On on %s %s/x/auth/%s", cfg.SiteName, cfg.SiteURL, k.String()),
		)
		if err != nil {
			svr.Log(err, "unable to send sign on email")
			svr.JSON(w, http.StatusInternalServerError, nil)
			return
		}
		svr.JSON(w, http.StatusOK, nil)
	}
}

// VerifyTokenSignOn exchanges a sign on token for a session JWT
func VerifyTokenSignOn(svr server.Server, userRepo *user.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		token := vars["token"]
		u, _, err := userRepo.GetOrCreateUserFromToken(token)
		if err != nil {
			svr.Log(err, fmt.Sprintf("unable to validate signon token %s", token))
			svr.TEXT(w, http.StatusBadRequest, "Invalid or expired token")
			return
		}
		sess, err := svr.SessionStore.Get(r, middleware.SessionCookieName)
		if err != nil {
			svr.TEXT(w, http.StatusInternalServerError, "Invalid or expired token")
			return
		}
		isAdmin, err := resolveIsAdmin(svr, userRepo, u.Email)
		if err != nil {
			svr.Log(err, fmt.Sprintf("unable to resolve admin status for %s", u.Email))
		}
		stdClaims := &jwt.StandardClaims{
			ExpiresAt: time.Now().Add(30 * 24 * time.Hour).UTC().Unix(),
			IssuedAt:  time.Now().UTC().Unix(),
			Issuer:    svr.GetConfig().SiteURL,
		}
		claims := middleware.UserJWT{
			UserID:         u.ID,
			Email:          u.Email,
			IsAdmin:        isAdmin,
			CreatedAt:      u.CreatedAt,
			StandardClaims: *stdClaims,
		}
		tkn := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
		ss, err := tkn.SignedString(svr.GetJWTSigningKey())
		if err != nil {
			svr.Log(err, "unable to sign jwt")
			svr.JSON(w, http.StatusInternalServerError, nil)
			return
		}
		sess.Values["jwt"] = ss
		if err := sess.Save(r, w); err != nil {
			svr.Log(err, "unable to save jwt into session cookie")
			svr.JSON(w, http.StatusInternalServerError, nil)
			return
		}
		svr.Redirect(w, r, http.StatusMovedPermanently, "/")
	}
}

// DeleteAccountHandler removes the signed in user along with all their job entries
func DeleteAccountHandler(svr server.Server, userRepo *user.Repository, jobRepo *job.Repository) http.HandlerFunc {
	return middleware.UserAuthenticatedMiddleware(
		svr.SessionStore,
		svr.GetJWTSigningKey(),
		func(w http.ResponseWriter, r *http.Request) {
			profile, err := middleware.GetUserFromJWT(r, svr.SessionStore, svr.GetJWTSigningKey())
			if err != nil {
				svr.JSON(w, http.StatusUnauthorized, nil)
				return
			}
			u, err := userRepo.GetUser(profile.Email)
			if err != nil {
				svr.Log(err, fmt.Sprintf("unable to retrieve user %s", profile.Email))
				svr.JSON(w, http.StatusInternalServerError, nil)
				return
			}
			if err := jobRepo.DeleteEntriesForUser(u.ID); err != nil {
				svr.Log(err, fmt.Sprintf("unable to delete job entries for user %s", u.ID))
				svr.JSON(w, http.StatusInternalServerError, nil)
				return
			}
			if err := userRepo.DeleteUserByEmail(u.Email); err != nil {
				svr.Log(err, fmt.Sprintf("unable to delete user %s", u.Email))
				svr.JSON(w, http.StatusInternalServerError, nil)
				return
			}
			svr.CacheDelete(adminCacheKey(u.Email))
			sess, err := svr.SessionStore.Get(r, middleware.SessionCookieName)
			if err == nil {
				delete(sess.Values, "jwt")
				sess.Options.MaxAge = -1
				if err := sess.Save(r, w); err != nil {
					svr.Log(err, "unable to expire session cookie")
				}
			}
			svr.JSON(w, http.StatusOK, map[string]string{"message": "account deleted"})
		})
}

func SignOutHandler(svr server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := svr.SessionStore.Get(r, middleware.SessionCookieName)
		if err != nil {
			svr.JSON(w, http.StatusOK, nil)
			return
		}
		delete(sess.Values, "jwt")
		sess.Options.MaxAge = -1
		if err := sess.Save(r, w); err != nil {
			svr.Log(err, "unable to expire session cookie")
		}
		svr.JSON(w, http.StatusOK, nil)
	}
}

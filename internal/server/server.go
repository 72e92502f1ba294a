package server

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"regexp"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/sessions"

	"github.com/allegro/bigcache/v3"
	"github.com/getsentry/raven-go"

	"github.com/jobtally/job-tracker/internal/config"
	"github.com/jobtally/job-tracker/internal/email"
	"github.com/jobtally/job-tracker/internal/middleware"
)

// admin verification results are cached briefly to avoid hammering the
// role lookup on every request
const adminCacheTTL = 5 * time.Minute

type Server struct {
	cfg          config.Config
	Conn         *sql.DB
	router       *mux.Router
	emailClient  email.Client
	SessionStore *sessions.CookieStore
	bigCache     *bigcache.BigCache
	emailRe      *regexp.Regexp
}

func NewServer(
	cfg config.Config,
	conn *sql.DB,
	r *mux.Router,
	emailClient email.Client,
	sessionStore *sessions.CookieStore,
) Server {
	// todo: move somewhere else
	raven.SetDSN(cfg.SentryDSN)

	bigCache, err := bigcache.NewBigCache(bigcache.DefaultConfig(adminCacheTTL))
	svr := Server{
		cfg:          cfg,
		Conn:         conn,
		router:       r,
		emailClient:  emailClient,
		SessionStore: sessionStore,
		bigCache:     bigCache,
		emailRe:      regexp.MustCompile("^[a-zA-Z0-9.!#$%&'*+/=?^_`{|}~-]+@[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?(?:\\.[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)*$"),
	}
	if err != nil {
		svr.Log(err, "unable to initialise big cache")
	}

	return svr
}

func (s Server) RegisterRoute(path string, handler func(w http.ResponseWriter, r *http.Request), methods []string) {
	s.router.HandleFunc(path, handler).Methods(methods...)
}

func (s Server) GetConfig() config.Config {
	return s.cfg
}

func (s Server) GetEmail() email.Client {
	return s.emailClient
}

func (s Server) GetJWTSigningKey() []byte {
	return s.cfg.JwtSigningKey
}

func (s Server) IsEmail(val string) bool {
	return s.emailRe.MatchString(val)
}

func (s Server) JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

func (s Server) TEXT(w http.ResponseWriter, status int, text string) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(status)
	w.Write([]byte(text))
}

func (s Server) Redirect(w http.ResponseWriter, r *http.Request, status int, dst string) {
	http.Redirect(w, r, dst, status)
}

func (s Server) Log(err error, msg string) {
	raven.CaptureErrorAndWait(err, map[string]string{"ctx": msg})
	log.Printf("%s: %+v", msg, err)
}

// CacheGet retrieves a cached value, the bool reports a hit
func (s Server) CacheGet(key string) ([]byte, bool) {
	if s.bigCache == nil {
		return nil, false
	}
	out, err := s.bigCache.Get(key)
	if err != nil {
		return nil, false
	}
	return out, true
}

func (s Server) CacheSet(key string, val []byte) {
	if s.bigCache == nil {
		return
	}
	if err := s.bigCache.Set(key, val); err != nil {
		s.Log(err, fmt.Sprintf("unable to cache value for key %s", key))
	}
}

func (s Server) CacheDelete(key string) {
	if s.bigCache == nil {
		return
	}
	s.bigCache.Delete(key)
}

func (s Server) Run() error {
	return http.ListenAndServe(
		fmt.Sprintf(":%s", s.cfg.Port),
		middleware.HTTPSMiddleware(
			middleware.LoggingMiddleware(
				middleware.HeadersMiddleware(s.router, s.cfg.Env),
			),
			s.cfg.Env,
		),
	)
}

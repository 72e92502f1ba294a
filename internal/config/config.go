package config

import (
	"encoding/base64"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

type Config struct {
	Port                  string
	DatabaseUser          string
	DatabasePassword      string
	DatabaseHost          string
	DatabasePort          string
	DatabaseName          string
	DatabaseSSLMode       string
	Env                   string // either prod or dev, disables https redirect and few other bits
	SiteURL               string // base URL used in sign on emails
	SiteName              string
	SupportEmail          string // displayed as sender for support queries
	NoReplyEmail          string // used for transactional emails
	EmailAPIKey           string
	SessionKey            []byte
	JwtSigningKey         []byte
	AdminEmails           []string // static allow-list, admin role rows take over when empty
	CalendarAPIBaseURL    string   // empty disables calendar sync
	CalendarAPIKey        string
	SentryDSN             string
	AdminVerifyPerMinute  int // fixed window cap on the admin verify endpoint
	ActionMinIntervalMsec int // minimum gap between mutating actions per user
}

func LoadConfig() (Config, error) {
	port := os.Getenv("PORT")
	if port == "" {
		return Config{}, fmt.Errorf("PORT cannot be empty")
	}
	databaseUser := os.Getenv("DATABASE_USER")
	if databaseUser == "" {
		return Config{}, fmt.Errorf("DATABASE_USER cannot be empty")
	}
	databasePassword := os.Getenv("DATABASE_PASSWORD")
	if databasePassword == "" {
		return Config{}, fmt.Errorf("DATABASE_PASSWORD cannot be empty")
	}
	databaseHost := os.Getenv("DATABASE_HOST")
	if databaseHost == "" {
		return Config{}, fmt.Errorf("DATABASE_HOST cannot be empty")
	}
	databasePort := os.Getenv("DATABASE_PORT")
	if databasePort == "" {
		return Config{}, fmt.Errorf("DATABASE_PORT cannot be empty")
	}
	databaseName := os.Getenv("DATABASE_NAME")
	if databaseName == "" {
		return Config{}, fmt.Errorf("DATABASE_NAME cannot be empty")
	}
	databaseSSLMode := os.Getenv("DATABASE_SSL_MODE")
	if databaseSSLMode == "" {
		return Config{}, fmt.Errorf("DATABASE_SSL_MODE cannot be empty")
	}
	env := strings.ToLower(os.Getenv("ENV"))
	if env == "" {
		return Config{}, fmt.Errorf("ENV cannot be empty")
	}
	siteURL := os.Getenv("SITE_URL")
	if siteURL == "" {
		return Config{}, fmt.Errorf("SITE_URL cannot be empty")
	}
	siteName := os.Getenv("SITE_NAME")
	if siteName == "" {
		return Config{}, fmt.Errorf("SITE_NAME cannot be empty")
	}
	supportEmail := os.Getenv("SUPPORT_EMAIL")
	if supportEmail == "" {
		return Config{}, fmt.Errorf("SUPPORT_EMAIL cannot be empty")
	}
	noReplyEmail := os.Getenv("NO_REPLY_EMAIL")
	if noReplyEmail == "" {
		return Config{}, fmt.Errorf("NO_REPLY_EMAIL cannot be empty")
	}
	emailAPIKey := os.Getenv("EMAIL_API_KEY")
	if emailAPIKey == "" {
		return Config{}, fmt.Errorf("EMAIL_API_KEY cannot be empty")
	}
	sessionKeyString := os.Getenv("SESSION_KEY")
	if sessionKeyString == "" {
		return Config{}, fmt.Errorf("SESSION_KEY cannot be empty")
	}
	sessionKeyBytes, err := base64.StdEncoding.DecodeString(sessionKeyString)
	if err != nil {
		return Config{}, errors.Wrapf(err, "unable to decode session key to bytes")
	}
	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		return Config{}, fmt.Errorf("JWT_SIGNING_KEY cannot be empty")
	}
	jwtSigningKeyBytes, err := base64.StdEncoding.DecodeString(jwtSigningKey)
	if err != nil {
		return Config{}, errors.Wrapf(err, "unable to decode jwt signing key to bytes")
	}
	var adminEmails []string
	for _, e := range strings.Split(os.Getenv("ADMIN_EMAILS"), ",") {
		e = strings.TrimSpace(strings.ToLower(e))
		if e != "" {
			adminEmails = append(adminEmails, e)
		}
	}
	sentryDSN := os.Getenv("SENTRY_DSN")
	if sentryDSN == "" {
		return Config{}, fmt.Errorf("SENTRY_DSN cannot be empty")
	}
	// calendar sync is optional, an empty base URL leaves event maps empty
	calendarAPIBaseURL := os.Getenv("CALENDAR_API_BASE_URL")
	calendarAPIKey := os.Getenv("CALENDAR_API_KEY")
	if calendarAPIBaseURL != "" && calendarAPIKey == "" {
		return Config{}, fmt.Errorf("CALENDAR_API_KEY cannot be empty when CALENDAR_API_BASE_URL is set")
	}
	adminVerifyPerMinute := 10
	if v := os.Getenv("ADMIN_VERIFY_PER_MINUTE"); v != "" {
		adminVerifyPerMinute, err = strconv.Atoi(v)
		if err != nil {
			return Config{}, errors.Wrap(err, "unable to convert ADMIN_VERIFY_PER_MINUTE to int")
		}
	}
	actionMinIntervalMsec := 1000
	if v := os.Getenv("ACTION_MIN_INTERVAL_MSEC"); v != "" {
		actionMinIntervalMsec, err = strconv.Atoi(v)
		if err != nil {
			return Config{}, errors.Wrap(err, "unable to convert ACTION_MIN_INTERVAL_MSEC to int")
		}
	}

	return Config{
		Port:                  port,
		DatabaseUser:          databaseUser,
		DatabasePassword:      databasePassword,
		DatabaseHost:          databaseHost,
		DatabasePort:          databasePort,
		DatabaseName:          databaseName,
		DatabaseSSLMode:       databaseSSLMode,
		Env:                   env,
		SiteURL:               siteURL,
		SiteName:              siteName,
		SupportEmail:          supportEmail,
		NoReplyEmail:          noReplyEmail,
		EmailAPIKey:           emailAPIKey,
		SessionKey:            sessionKeyBytes,
		JwtSigningKey:         jwtSigningKeyBytes,
		AdminEmails:           adminEmails,
		CalendarAPIBaseURL:    calendarAPIBaseURL,
		CalendarAPIKey:        calendarAPIKey,
		SentryDSN:             sentryDSN,
		AdminVerifyPerMinute:  adminVerifyPerMinute,
		ActionMinIntervalMsec: actionMinIntervalMsec,
	}, nil
}

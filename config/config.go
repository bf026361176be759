package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	DatabasePath string
	Timezone     *time.Location
	ServerPort   string

	APIUsername string
	APIPassword string

	InvoicerBaseURL string
	InvoicerToken   string

	CalDAVURL          string
	CalDAVUsername     string
	CalDAVPassword     string
	CalDAVCalendarPath string

	AutosaveDebounce   time.Duration
	DraftRetentionDays int
	PurgeTime          string
}

func Load() (*Config, error) {
	dbPath := os.Getenv("DATABASE_PATH")
	if dbPath == "" {
		dbPath = "./data/reminderd.db"
	}

	tzName := os.Getenv("TIMEZONE")
	if tzName == "" {
		tzName = "UTC"
	}
	tz, err := time.LoadLocation(tzName)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE: %w", err)
	}

	serverPort := os.Getenv("SERVER_PORT")
	if serverPort == "" {
		serverPort = "8080"
	}

	debounce := 600 * time.Millisecond
	if ms := os.Getenv("AUTOSAVE_DEBOUNCE_MS"); ms != "" {
		v, err := strconv.Atoi(ms)
		if err != nil || v <= 0 {
			return nil, fmt.Errorf("AUTOSAVE_DEBOUNCE_MS must be a positive number")
		}
		debounce = time.Duration(v) * time.Millisecond
	}

	retention := 30
	if d := os.Getenv("DRAFT_RETENTION_DAYS"); d != "" {
		v, err := strconv.Atoi(d)
		if err != nil || v <= 0 {
			return nil, fmt.Errorf("DRAFT_RETENTION_DAYS must be a positive number")
		}
		retention = v
	}

	purgeTime := os.Getenv("PURGE_TIME")
	if purgeTime == "" {
		purgeTime = "03:30"
	}

	return &Config{
		DatabasePath: dbPath,
		Timezone:     tz,
		ServerPort:   serverPort,

		APIUsername: os.Getenv("API_USERNAME"),
		APIPassword: os.Getenv("API_PASSWORD"),

		InvoicerBaseURL: os.Getenv("INVOICER_API_URL"),
		InvoicerToken:   os.Getenv("INVOICER_API_TOKEN"),

		CalDAVURL:          os.Getenv("CALDAV_URL"),
		CalDAVUsername:     os.Getenv("CALDAV_USERNAME"),
		CalDAVPassword:     os.Getenv("CALDAV_PASSWORD"),
		CalDAVCalendarPath: os.Getenv("CALDAV_CALENDAR_PATH"),

		AutosaveDebounce:   debounce,
		DraftRetentionDays: retention,
		PurgeTime:          purgeTime,
	}, nil
}

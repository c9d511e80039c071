package utils

import (
	"log/slog"
	"os"
	"time"
)

type Config struct {
	port string

	discordGuildID  string
	discordAppToken string
	discordClientId string

	googleCalendarServiceFile string

	calendarPollInterval     time.Duration
	metricCollectionInterval time.Duration

	location *time.Location
}

func NewConfig() *Config {
	return &Config{
		port: func() string {
			port := os.Getenv("PORT")
			if port == "" {
				port = "8080"
			}
			slog.Debug("env", "PORT", port)
			return port
		}(),

		discordGuildID: func() string {
			discordGuildID := os.Getenv("DISCORD_GUILD_ID")
			if discordGuildID == "" {
				slog.Error("DISCORD_GUILD_ID is not set")
				os.Exit(1)
			}
			slog.Debug("env", "DISCORD_GUILD_ID", discordGuildID)
			return discordGuildID
		}(),
		discordAppToken: func() string {
			discordAppToken := os.Getenv("DISCORD_APP_TOKEN")
			if discordAppToken == "" {
				slog.Error("DISCORD_APP_TOKEN is not set")
				os.Exit(1)
			}
			slog.Debug("env", "DISCORD_APP_TOKEN", discordAppToken[0:3]+"...")
			return discordAppToken
		}(),
		discordClientId: func() string {
			discordClientId := os.Getenv("DISCORD_CLIENT_ID")
			if discordClientId == "" {
				slog.Error("DISCORD_CLIENT_ID is not set")
				os.Exit(1)
			}
			slog.Debug("env", "DISCORD_CLIENT_ID", discordClientId)
			return discordClientId
		}(),

		googleCalendarServiceFile: func() string {
			serviceFile := os.Getenv("GOOGLE_CALENDAR_SERVICE_FILE")
			if serviceFile == "" {
				slog.Error("GOOGLE_CALENDAR_SERVICE_FILE is not set")
				os.Exit(1)
			}
			if _, err := os.Stat(serviceFile); err != nil {
				slog.Error("can't stat GOOGLE_CALENDAR_SERVICE_FILE", "error", err)
				os.Exit(1)
			}
			slog.Debug("env", "GOOGLE_CALENDAR_SERVICE_FILE", serviceFile)
			return serviceFile
		}(),

		calendarPollInterval: func() time.Duration {
			pollInterval := os.Getenv("CALENDAR_POLL_INTERVAL")
			if pollInterval == "" {
				slog.Warn("CALENDAR_POLL_INTERVAL is not set")
				pollInterval = "10s"
			}
			duration, err := time.ParseDuration(pollInterval)
			if err != nil {
				slog.Error("invalid CALENDAR_POLL_INTERVAL", "error", err)
				os.Exit(1)
			}
			slog.Debug("env", "CALENDAR_POLL_INTERVAL", pollInterval, "duration", duration)
			return duration
		}(),
		metricCollectionInterval: func() time.Duration {
			metricInterval := os.Getenv("METRIC_COLLECTION_INTERVAL")
			if metricInterval == "" {
				metricInterval = "15s"
			}
			duration, err := time.ParseDuration(metricInterval)
			if err != nil {
				slog.Error("invalid METRIC_COLLECTION_INTERVAL", "error", err)
				os.Exit(1)
			}
			slog.Debug("env", "METRIC_COLLECTION_INTERVAL", metricInterval, "duration", duration)
			return duration
		}(),

		location: func() *time.Location {
			timezoneStr := os.Getenv("TIMEZONE")
			var loc *time.Location
			var err error
			switch timezoneStr {
			case "":
				slog.Warn("TIMEZONE is not set, using local timezone", "timezone", time.Local)
				loc = time.Local
			case "UTC":
				loc = time.UTC
			default:
				loc, err = time.LoadLocation(timezoneStr)
				if err != nil {
					slog.Error("invalid timezone", "timezone", timezoneStr, "error", err)
					os.Exit(1)
				}
			}
			slog.Debug("env", "TIMEZONE", timezoneStr)
			return loc
		}(),
	}
}

// Get PORT env, default to 8080
func (c *Config) GetPort() string {
	return c.port
}

// Get DISCORD_GUILD_ID env
func (c *Config) GetDiscordGuildID() string {
	return c.discordGuildID
}

// Get DISCORD_APP_TOKEN env
func (c *Config) GetDiscordAppToken() string {
	return c.discordAppToken
}

// Get DISCORD_CLIENT_ID env
func (c *Config) GetDiscordClientId() string {
	return c.discordClientId
}

// Get GOOGLE_CALENDAR_SERVICE_FILE env
func (c *Config) GetGoogleCalendarServiceFile() string {
	return c.googleCalendarServiceFile
}

// Get CALENDAR_POLL_INTERVAL env, default to 10s
func (c *Config) GetCalendarPollInterval() time.Duration {
	return c.calendarPollInterval
}

// Get METRIC_COLLECTION_INTERVAL env, default to 15s
func (c *Config) GetMetricCollectionInterval() time.Duration {
	return c.metricCollectionInterval
}

// Get TIMEZONE env
func (c *Config) GetLocation() *time.Location {
	return c.location
}

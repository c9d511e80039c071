package metric

import (
	"log/slog"
	"time"

	"github.com/yoyozbi/calendarbot/src-server/utils"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func databaseEmptyRead(as *utils.AppState, tickerInterval *time.Duration) {
	databaseEmptyRead := promauto.NewGauge(prometheus.GaugeOpts{
		Name: "calendarbot_database_empty_read_microsec",
		Help: "The latency of an empty database read in microseconds",
	})
	good := true
	if err := prometheus.Register(databaseEmptyRead); err != nil {
		if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
			slog.Error("can't register calendarbot_database_empty_read_microsec metric", "error", err)
			good = false
		}
	}
	if good {
		slog.Debug("calendarbot_database_empty_read_microsec metric registered")
		databaseEmptyRead.Set(0)
	}
	go func() {
		gracefulShutdownCh := as.CreateGracefulShutdownChan()
		ticker := time.NewTicker(*tickerInterval)
		defer ticker.Stop()
		for {
			select {
			case <-*gracefulShutdownCh:
				switch prometheus.Unregister(databaseEmptyRead) {
				case true:
					slog.Debug("calendarbot_database_empty_read_microsec metric unregistered")
				case false:
					slog.Warn("calendarbot_database_empty_read_microsec metric not registered")
				}
				return
			case <-ticker.C:
				latency, err := database(as)
				if err != nil {
					slog.Error("can't get database latency", "error", err)
					continue
				}
				databaseEmptyRead.Set(float64(latency.Microseconds()))
			}
		}
	}()
}

func calendarFetch(as *utils.AppState, clearTickerInterval *time.Duration) {
	calendarFetch := promauto.NewGauge(prometheus.GaugeOpts{
		Name: "calendarbot_calendar_fetch_microsec",
		Help: "The latency of one calendar events fetch in microseconds",
	})
	good := true
	if err := prometheus.Register(calendarFetch); err != nil {
		if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
			slog.Error("can't register calendarbot_calendar_fetch_microsec metric", "error", err)
			good = false
		}
	}
	if good {
		slog.Debug("calendarbot_calendar_fetch_microsec metric registered")
		calendarFetch.Set(0)
	}
	go func() {
		gracefulShutdownCh := as.CreateGracefulShutdownChan()
		clearTicker := time.NewTicker(*clearTickerInterval)
		defer clearTicker.Stop()
		for {
			select {
			case <-*gracefulShutdownCh:
				switch prometheus.Unregister(calendarFetch) {
				case true:
					slog.Debug("calendarbot_calendar_fetch_microsec metric unregistered")
				case false:
					slog.Warn("calendarbot_calendar_fetch_microsec metric not registered")
				}
				return
			case latency := <-as.MetricChans.CalendarFetch:
				calendarFetch.Set(latency)
				clearTicker.Reset(*clearTickerInterval)
			case <-clearTicker.C:
				calendarFetch.Set(0)
			}
		}
	}()
}

func discordSendMessage(as *utils.AppState, clearTickerInterval *time.Duration) {
	discordSendMessage := promauto.NewGauge(prometheus.GaugeOpts{
		Name: "calendarbot_discord_send_message_microsec",
		Help: "The latency of a discord message send in microseconds",
	})
	good := true
	if err := prometheus.Register(discordSendMessage); err != nil {
		if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
			slog.Error("can't register calendarbot_discord_send_message_microsec metric", "error", err)
			good = false
		}
	}
	if good {
		slog.Debug("calendarbot_discord_send_message_microsec metric registered")
		discordSendMessage.Set(0)
	}
	go func() {
		gracefulShutdownCh := as.CreateGracefulShutdownChan()
		clearTicker := time.NewTicker(*clearTickerInterval)
		defer clearTicker.Stop()
		for {
			select {
			case <-*gracefulShutdownCh:
				switch prometheus.Unregister(discordSendMessage) {
				case true:
					slog.Debug("calendarbot_discord_send_message_microsec metric unregistered")
				case false:
					slog.Warn("calendarbot_discord_send_message_microsec metric not registered")
				}
				return
			case latency := <-as.MetricChans.DiscordSendMessage:
				discordSendMessage.Set(latency)
				clearTicker.Reset(*clearTickerInterval)
			case <-clearTicker.C:
				discordSendMessage.Set(0)
			}
		}
	}()
}

func discordHeartbeatLatency(as *utils.AppState, tickerInterval *time.Duration) {
	discordHeartbeatLatency := promauto.NewGauge(prometheus.GaugeOpts{
		Name: "calendarbot_discord_heartbeat_latency_microsec",
		Help: "The latency of a discord heartbeat in microseconds",
	})
	good := true
	if err := prometheus.Register(discordHeartbeatLatency); err != nil {
		if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
			slog.Error("calendarbot_discord_heartbeat_latency_microsec metric can't register", "error", err)
			good = false
		}
	}
	if good {
		slog.Debug("calendarbot_discord_heartbeat_latency_microsec metric registered")
		discordHeartbeatLatency.Set(0)
	}
	go func() {
		ticker := time.NewTicker(*tickerInterval)
		defer ticker.Stop()
		gracefulShutdownCh := as.CreateGracefulShutdownChan()
		for {
			select {
			case <-*gracefulShutdownCh:
				switch prometheus.Unregister(discordHeartbeatLatency) {
				case true:
					slog.Debug("calendarbot_discord_heartbeat_latency_microsec metric unregistered")
				case false:
					slog.Warn("calendarbot_discord_heartbeat_latency_microsec metric not registered")
				}
				return
			case <-ticker.C:
				latency := as.DgSession.HeartbeatLatency().Microseconds()
				discordHeartbeatLatency.Set(float64(latency))
			}
		}
	}()
}

func Init(as *utils.AppState) {
	tickerInterval := as.Config.GetMetricCollectionInterval()
	clearTickerInterval := as.Config.GetMetricCollectionInterval() * 2

	databaseEmptyRead(as, &tickerInterval)
	calendarFetch(as, &clearTickerInterval)
	discordSendMessage(as, &clearTickerInterval)
	discordHeartbeatLatency(as, &tickerInterval)
}

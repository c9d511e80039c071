package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/yoyozbi/calendarbot/src-server/calendar"
	"github.com/yoyozbi/calendarbot/src-server/handler"
	"github.com/yoyozbi/calendarbot/src-server/metric"
	"github.com/yoyozbi/calendarbot/src-server/model"
	"github.com/yoyozbi/calendarbot/src-server/notify"
	"github.com/yoyozbi/calendarbot/src-server/scheduler"
	"github.com/yoyozbi/calendarbot/src-server/utils"

	"github.com/bwmarrin/discordgo"
	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func init() {
	if err := godotenv.Load(); err != nil {
		slog.Info(err.Error())
	}
	slog.SetDefault(slog.New(
		tint.NewHandler(os.Stderr, &tint.Options{
			Level:      slog.LevelDebug,
			TimeFormat: time.RFC1123Z,
		}),
	))
}

func main() {
	as := utils.NewAppState()

	if err := model.CreateSchema(as.BunDB); err != nil {
		slog.Error("can't create database schema", "error", err)
		os.Exit(1)
	}

	// injecting interaction handlers into appCmdInfo, appCmdHandler in AppState
	handler.Help(as)
	handler.Ping(as)
	handler.Uptime(as)
	handler.Profile(as)

	// tell discordgo how to handle interactions from Discord (w/ appCmdHandler)
	as.DgSession.AddHandler(func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		if i.Type != discordgo.InteractionApplicationCommand {
			slog.Error("unknown interaction type", "type", i.Type)
			return
		}
		cmdData := i.ApplicationCommandData()
		if cmdHandler, ok := as.GetAppCmdHandler(cmdData.Name); ok {
			if err := cmdHandler(s, i); err != nil {
				slog.Error("handler error", "command", cmdData.Name, "error", err.Error())
			}
			return
		}
		if i.Interaction == nil {
			return
		}
		if err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseChannelMessageWithSource,
			Data: &discordgo.InteractionResponseData{
				Flags:   discordgo.MessageFlagsEphemeral,
				Content: "Unknown command",
			},
		}); err != nil {
			slog.Warn("can't respond", "error", err.Error())
		}
	})

	// open a connection to Discord
	if err := as.DgSession.Open(); err != nil {
		fmt.Println("error opening connection,", err)
		return
	}
	defer as.DgSession.Close()

	// tell Discord what commands we have (w/ appCmdInfo)
	if _, err := as.DgSession.ApplicationCommandBulkOverwrite(
		as.Config.GetDiscordClientId(),
		as.Config.GetDiscordGuildID(),
		func() []*discordgo.ApplicationCommand {
			var cmds []*discordgo.ApplicationCommand
			as.IterateAppCmdInfo(func(k string, v *discordgo.ApplicationCommand) {
				cmds = append(cmds, v)
			})
			return cmds
		}()); err != nil {
		slog.Error("can't create slash commands", "error", err.Error())
	}

	// cleanup appCmdInfo from memory
	as.NukeAppCmdInfo()
	runtime.GC()

	go metric.Init(as)

	// http server
	go func() {
		muxer := http.NewServeMux()
		muxer.Handle("GET /metrics", promhttp.Handler())
		if err := http.ListenAndServe(":"+as.Config.GetPort(), muxer); err != nil {
			slog.Error("cannot start HTTP server", "error", err)
			as.AppCloseSignalChan <- syscall.SIGTERM
		}
	}()

	// notification pipeline: one poller producing, one consumer owning
	// all calendar state
	fetcher, err := calendar.NewGoogleFetcher(context.Background(), as.Config.GetGoogleCalendarServiceFile())
	if err != nil {
		slog.Error("can't create calendar fetcher", "error", err)
		os.Exit(1)
	}
	queue := make(chan notify.Update, notify.QueueSize)
	consumer := notify.NewConsumer(&notify.DiscordSink{
		Session:     as.DgSession,
		SendLatency: as.MetricChans.DiscordSendMessage,
	}, as.Config.GetLocation(), as.Config.GetCalendarPollInterval())
	go scheduler.CalendarPoll(as, fetcher, queue)
	go func() {
		err := consumer.Run(context.Background(), queue)
		switch {
		case errors.Is(err, notify.ErrQueueClosed):
			slog.Info("notification pipeline drained")
		case err != nil:
			slog.Error("notification consumer stopped", "error", err)
			as.AppCloseSignalChan <- syscall.SIGTERM
		}
	}()

	slog.Info("number of guilds", "guilds", len(as.DgSession.State.Guilds))
	slog.Info("app is now running, press Ctrl+C to exit")

	signal.Notify(as.AppCloseSignalChan, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-as.AppCloseSignalChan
	as.GracefulShutdown()

	slog.Info("Gracefully shutting down...")
}

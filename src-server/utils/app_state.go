package utils

import (
	"database/sql"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
	"github.com/uptrace/bun/extra/bundebug"
)

type AppState struct {
	Config    *Config
	RawDB     *sql.DB
	BunDB     *bun.DB
	DgSession *discordgo.Session

	// will be sent to Discord
	appCmdInfo map[string]*discordgo.ApplicationCommand
	// name → description, kept for the help command after appCmdInfo
	// is nuked
	appCmdDescription map[string]string
	// handling commands from Discord WSAPI
	appCmdHandler map[string]func(s *discordgo.Session, i *discordgo.InteractionCreate) error
	appCmdMutex   sync.RWMutex

	MetricChans *Metric

	AppCloseSignalChan chan os.Signal
	shutdownChans      []chan struct{}
	shutdownMutex      sync.Mutex

	startedAt time.Time
}

func NewAppState() *AppState {
	as := &AppState{
		appCmdInfo:         make(map[string]*discordgo.ApplicationCommand),
		appCmdDescription:  make(map[string]string),
		appCmdHandler:      make(map[string]func(s *discordgo.Session, i *discordgo.InteractionCreate) error),
		MetricChans:        NewMetric(),
		AppCloseSignalChan: make(chan os.Signal, 1),
		startedAt:          time.Now(),
	}

	// env
	as.Config = NewConfig()

	// database
	var err error
	as.RawDB, err = sql.Open(sqliteshim.ShimName, "./sqlite.db?mode=rwc")
	if err != nil {
		slog.Error("cannot open sqlite database", "error", err)
		os.Exit(1)
	}
	as.RawDB.SetMaxIdleConns(8)

	as.BunDB = bun.NewDB(as.RawDB, sqlitedialect.New())
	as.BunDB.AddQueryHook(bundebug.NewQueryHook(
		bundebug.FromEnv("BUNDEBUG"),
	))

	// discord
	as.DgSession, err = discordgo.New("Bot " + as.Config.GetDiscordAppToken())
	if err != nil {
		slog.Error("cannot create Discord session", "error", err)
		os.Exit(1)
	}

	return as
}

func (as *AppState) AddAppCmdInfo(id string, info *discordgo.ApplicationCommand) {
	as.appCmdMutex.Lock()
	defer as.appCmdMutex.Unlock()
	as.appCmdInfo[id] = info
	as.appCmdDescription[info.Name] = info.Description
}

func (as *AppState) AddAppCmdHandler(id string, handler func(s *discordgo.Session, i *discordgo.InteractionCreate) error) {
	as.appCmdMutex.Lock()
	defer as.appCmdMutex.Unlock()
	as.appCmdHandler[id] = handler
}

func (as *AppState) GetAppCmdHandler(id string) (func(s *discordgo.Session, i *discordgo.InteractionCreate) error, bool) {
	as.appCmdMutex.RLock()
	defer as.appCmdMutex.RUnlock()
	handler, ok := as.appCmdHandler[id]
	return handler, ok
}

func (as *AppState) IterateAppCmdInfo(fn func(k string, v *discordgo.ApplicationCommand)) {
	as.appCmdMutex.RLock()
	defer as.appCmdMutex.RUnlock()
	for k, v := range as.appCmdInfo {
		fn(k, v)
	}
}

// The info map is only needed for the initial bulk overwrite; drop it
// once Discord has acknowledged the commands. The description map
// stays, the help command reads it at runtime.
func (as *AppState) NukeAppCmdInfo() {
	as.appCmdMutex.Lock()
	defer as.appCmdMutex.Unlock()
	as.appCmdInfo = make(map[string]*discordgo.ApplicationCommand)
}

func (as *AppState) IterateAppCmdDescription(fn func(name, description string)) {
	as.appCmdMutex.RLock()
	defer as.appCmdMutex.RUnlock()
	for name, description := range as.appCmdDescription {
		fn(name, description)
	}
}

func (as *AppState) GetUptime() time.Duration {
	return time.Since(as.startedAt).Round(time.Second)
}

// Every long-running goroutine grabs one of these and returns when it
// closes.
func (as *AppState) CreateGracefulShutdownChan() *chan struct{} {
	as.shutdownMutex.Lock()
	defer as.shutdownMutex.Unlock()
	ch := make(chan struct{})
	as.shutdownChans = append(as.shutdownChans, ch)
	return &ch
}

func (as *AppState) GracefulShutdown() {
	as.shutdownMutex.Lock()
	defer as.shutdownMutex.Unlock()
	for _, ch := range as.shutdownChans {
		close(ch)
	}
	as.shutdownChans = nil
	if err := as.RawDB.Close(); err != nil {
		slog.Warn("can't close database", "error", err)
	}
}

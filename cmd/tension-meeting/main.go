package main

import (
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/khnpedu/tension-meeting/advice"
	"github.com/khnpedu/tension-meeting/config"
	"github.com/khnpedu/tension-meeting/globals"
	"github.com/khnpedu/tension-meeting/httpapi"
	"github.com/khnpedu/tension-meeting/room"
	"github.com/khnpedu/tension-meeting/store"
	"github.com/khnpedu/tension-meeting/ws"
	"github.com/robfig/cron/v3"
	"github.com/spf13/pflag"
)

var (
	configPath = pflag.StringP("config", "c", "", "path to config file or directory")
	addr       = pflag.String("addr", "localhost:8000", "service address (including port)")
	sslCert    = pflag.String("ssl-cert", "", "SSL cert (optional)")
	sslKey     = pflag.String("ssl-key", "", "SSL key (optional)")
)

func main() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)

	go func() {
		<-c
		log.Fatal("interrupted!")
	}()

	flagSet := config.GetFlagSet()
	pflag.CommandLine.AddFlagSet(flagSet)
	pflag.Parse()
	log.SetFlags(0)

	cfg, err := config.ReadConfiguration(*configPath, flagSet)
	if err != nil {
		panic(err)
	}

	if cfg.LogLevel != "" {
		globals.AppLogger.SetLevel(hclog.LevelFromString(cfg.LogLevel))
	}

	st, err := store.NewStore(cfg)
	if err != nil {
		panic(err)
	}
	defer st.Close()

	repo := room.NewRepository(st)

	var advisor advice.Advisor
	if cfg.AdviceConfig.Endpoint != "" {
		advisor = advice.NewHTTPAdvisor(cfg.AdviceConfig)
	}
	adviceSvc, err := advice.NewService(advisor, cfg.AdviceConfig.CacheSize)
	if err != nil {
		panic(err)
	}

	hub := ws.NewHub(repo, adviceSvc)
	go func() {
		if err := hub.Run(); err != nil {
			globals.AppLogger.Error("hub stopped", "error", err)
		}
	}()

	if cfg.SweeperConfig.CronSpec != "" && cfg.SweeperConfig.RoomTTLMinutes > 0 {
		ttl := time.Duration(cfg.SweeperConfig.RoomTTLMinutes) * time.Minute
		cr := cron.New()
		_, err := cr.AddFunc(cfg.SweeperConfig.CronSpec, func() {
			n, err := repo.DeleteExpired(ttl)
			if err != nil {
				globals.AppLogger.Error("room sweep failed", "error", err)
				return
			}
			if n > 0 {
				globals.AppLogger.Info("swept expired rooms", "count", n)
			}
		})
		if err != nil {
			panic(err)
		}
		cr.Start()
		defer cr.Stop()
	}

	server := httpapi.NewServer(repo)
	router := server.Router(cfg.AdminConfig.Secret, ws.Handler(hub))
	http.Handle("/", router)

	globals.AppLogger.Info("listening", "addr", *addr)
	if *sslCert != "" && *sslKey != "" {
		err = http.ListenAndServeTLS(*addr, *sslCert, *sslKey, nil)
	} else {
		err = http.ListenAndServe(*addr, nil)
	}
	globals.AppLogger.Error("stopped listening", "error", err)
}

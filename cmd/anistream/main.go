package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/rafaeldmz/anistream/internal/addon"
	"github.com/rafaeldmz/anistream/internal/config"
	"github.com/rafaeldmz/anistream/internal/fetch"
	"github.com/rafaeldmz/anistream/internal/idcache"
	"github.com/rafaeldmz/anistream/internal/scraper"
	"github.com/rafaeldmz/anistream/internal/tmdb"
	"github.com/rafaeldmz/anistream/internal/util"
)

func main() {
	portFlag := flag.Int("port", 0, "listen port (overrides config and PORT)")
	configFlag := flag.String("config", "", "path to TOML config file")
	debugFlag := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	util.SetDebugMode(*debugFlag)
	util.InitLogger()

	cfg, err := config.Load(*configFlag)
	if err != nil {
		util.Fatal("invalid configuration", "err", err)
	}
	if *portFlag != 0 {
		cfg.Port = *portFlag
	} else if p := os.Getenv("PORT"); p != "" {
		if n, err := strconv.Atoi(p); err == nil {
			cfg.Port = n
		}
	}

	fetcher := fetch.New(fetch.Options{
		MaxAttempts:   cfg.Fetch.MaxAttempts,
		RetryDelay:    cfg.Fetch.RetryDelay(),
		ChallengeWait: cfg.Fetch.ChallengeWait(),
	})
	scr := scraper.New(fetcher, idcache.NewMemory(), cfg.Catalog.PlaceholderEntry)
	a := addon.New(scr, tmdb.New(cfg.TMDBAPIKey), cfg.Catalog.Limit)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           a.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	util.Info("addon listening", "url", fmt.Sprintf("http://127.0.0.1:%d/manifest.json", cfg.Port))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		util.Fatal("server stopped", "err", err)
	}
}

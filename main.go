package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/mbolis/pie-reports/app"
	"github.com/mbolis/pie-reports/config"
	"github.com/mbolis/pie-reports/database"
	"github.com/mbolis/pie-reports/httpx"
	"github.com/mbolis/pie-reports/log"
	"github.com/mbolis/pie-reports/report"
	"github.com/mbolis/pie-reports/routes"
)

func main() {
	cfg, err := config.ParseFlags()
	if err != nil {
		log.Fatal("main.config:", err)
	}
	if cfg.Debug {
		log.SetLevel(log.DebugLevel)
	}

	settings, err := config.LoadSettings(cfg.SettingsPath)
	if err != nil {
		log.Fatal("main.settings:", err)
	}

	db, err := database.Open(cfg.DBUrl)
	if err != nil {
		log.Fatal("main.db.open:", err)
	}
	defer db.Close()

	store := database.NewStore(db)
	if cfg.AdminPassword != "" {
		err = store.SaveUser(context.Background(), cfg.AdminUser, cfg.AdminPassword)
		if err != nil {
			log.Fatal("main.db.save_admin:", err)
		}
		log.Infof("Admin user %q ready", cfg.AdminUser)
	}

	composer := &report.Composer{
		Organization: settings.Organization,
		Locale:       settings.Locale,
		Currency:     settings.Currency,
	}
	if len(settings.UnitPrices) > 0 {
		composer.Prices = report.PriceTable(settings.UnitPrices)
	}

	app := app.App{
		Store:        store,
		BearerServer: httpx.NewBearerServer(db, cfg.TokenSecret, cfg.TokenTTL),
		Config:       cfg,
		Reports:      report.NewService(store, composer, report.LogNotifier{}),
	}

	handler := routes.Wire(app)

	err = runServer(cfg, handler)
	if !errors.Is(err, http.ErrServerClosed) {
		log.Fatal("main.server:", err)
	}
}

func runServer(cfg config.Config, handler http.Handler) error {
	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	log.Info("Listening on " + cfg.Url())
	return srv.ListenAndServe()
}

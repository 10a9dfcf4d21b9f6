package app

import (
	"github.com/go-chi/oauth"

	"github.com/mbolis/pie-reports/config"
	"github.com/mbolis/pie-reports/database"
	"github.com/mbolis/pie-reports/report"
)

type App struct {
	*database.Store
	*oauth.BearerServer
	config.Config
	Reports *report.Service
}

package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/mbolis/pie-reports/app"
	"github.com/mbolis/pie-reports/routes/middlewares"
)

func Wire(app app.App) http.Handler {
	root := chi.NewRouter()
	root.Use(middleware.Logger, middleware.Recoverer)

	root.Mount("/api", apiRouter(app))

	return root
}

func apiRouter(app app.App) http.Handler {
	api := chi.NewRouter()

	api.Get("/instances", ListInstances(app))
	api.Get(`/instances/{id:^\d+$}`, GetInstanceById(app))
	api.Get(`/instances/{id:^\d+$}/progress`, GetInstanceProgress(app))
	api.Get(`/instances/{id:^\d+$}/reports/{variant}`, GetInstanceReport(app))
	api.Get(`/records/{kind}`, ListRecords(app))
	api.Get(`/records/{kind}/report`, GetRecordsReport(app))

	api.Group(func(r chi.Router) {
		r.Use(middlewares.Admin(app.TokenSecret))

		// instance hierarchy
		r.Post("/instances", CreateInstance(app))
		r.Put(`/instances/{id:^\d+$}`, UpdateInstance(app))
		r.Delete(`/instances/{id:^\d+$}`, DeleteInstance(app))
		r.Post(`/instances/{id:^\d+$}/sections`, AddSection(app))
		r.Delete(`/sections/{id:^\d+$}`, DeleteSection(app))
		r.Post(`/sections/{id:^\d+$}/points`, AddPoint(app))
		r.Delete(`/points/{id:^\d+$}`, DeletePoint(app))
		r.Put(`/points/{id:^\d+$}/response`, PutResponse(app))

		// flat records
		r.Post(`/records/{kind}`, CreateRecord(app))
		r.Delete(`/records/{kind}/{id:^\d+$}`, DeleteRecord(app))
	})

	api.Post("/login", Login(app))
	api.Post("/refresh", Refresh(app))

	return api
}

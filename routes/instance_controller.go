package routes

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/mbolis/pie-reports/app"
	"github.com/mbolis/pie-reports/httpx"
	"github.com/mbolis/pie-reports/log"
	"github.com/mbolis/pie-reports/model"
)

func idParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.get_url_param.id")
		return 0, false
	}
	return id, true
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	err := render.DecodeJSON(r.Body, v)
	if err != nil {
		httpx.LogStatusMsg(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body", "%s", err)
		return false
	}
	return true
}

func ListInstances(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		instances, err := app.ListInstances(r.Context())
		if err != nil {
			httpx.LogInternalError(w, "db.get_instances", err)
			return
		}

		render.JSON(w, r, map[string]any{
			"instances": instances,
		})
	}
}

func GetInstanceById(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(w, r)
		if !ok {
			return
		}

		inst, err := app.FetchInstance(r.Context(), id)
		if err != nil {
			httpx.LogError(w, "db.get_instance", err)
			return
		}

		render.JSON(w, r, inst)
	}
}

func CreateInstance(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		inst := model.Instance{}
		if !decode(w, r, &inst) {
			return
		}

		created, err := app.Store.CreateInstance(r.Context(), inst)
		if err != nil {
			httpx.LogError(w, "db.insert_instance", err)
			return
		}

		w.WriteHeader(http.StatusCreated)
		render.JSON(w, r, map[string]any{
			"id":   created.ID,
			"code": created.Code,
		})
	}
}

func UpdateInstance(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(w, r)
		if !ok {
			return
		}

		inst := model.Instance{}
		if !decode(w, r, &inst) {
			return
		}
		inst.ID = id

		updated, err := app.Store.UpdateInstance(r.Context(), inst)
		if err != nil {
			httpx.LogError(w, "db.update_instance", err)
			return
		}

		render.JSON(w, r, updated)
	}
}

func DeleteInstance(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(w, r)
		if !ok {
			return
		}

		err := app.Store.DeleteInstance(r.Context(), id)
		if err != nil {
			httpx.LogError(w, "db.delete_instance", err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func AddSection(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		instanceId, ok := idParam(w, r)
		if !ok {
			return
		}

		sec := model.Section{Active: true}
		if !decode(w, r, &sec) {
			return
		}

		created, err := app.Store.AddSection(r.Context(), instanceId, sec)
		if err != nil {
			httpx.LogError(w, "db.insert_section", err)
			return
		}

		w.WriteHeader(http.StatusCreated)
		render.JSON(w, r, created)
	}
}

func DeleteSection(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(w, r)
		if !ok {
			return
		}

		err := app.Store.DeleteSection(r.Context(), id)
		if err != nil {
			httpx.LogError(w, "db.delete_section", err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func AddPoint(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sectionId, ok := idParam(w, r)
		if !ok {
			return
		}

		p := model.Point{}
		if !decode(w, r, &p) {
			return
		}

		created, err := app.Store.AddPoint(r.Context(), sectionId, p)
		if err != nil {
			httpx.LogError(w, "db.insert_point", err)
			return
		}

		w.WriteHeader(http.StatusCreated)
		render.JSON(w, r, created)
	}
}

func DeletePoint(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(w, r)
		if !ok {
			return
		}

		err := app.Store.DeletePoint(r.Context(), id)
		if err != nil {
			httpx.LogError(w, "db.delete_point", err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// PutResponse records the answer of a point. Answering out of order is
// allowed; the progress indicators only flag it.
func PutResponse(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pointId, ok := idParam(w, r)
		if !ok {
			return
		}

		resp := model.Response{}
		if !decode(w, r, &resp) {
			return
		}

		saved, err := app.Store.UpsertResponse(r.Context(), pointId, resp)
		if err != nil {
			httpx.LogError(w, "db.upsert_response", err)
			return
		}

		render.JSON(w, r, saved)
	}
}

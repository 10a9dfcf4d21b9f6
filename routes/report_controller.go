package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/mbolis/pie-reports/app"
	"github.com/mbolis/pie-reports/httpx"
	"github.com/mbolis/pie-reports/model"
	"github.com/mbolis/pie-reports/report"
	"github.com/mbolis/pie-reports/stats"
)

type pointProgress struct {
	ID        int64           `json:"id"`
	Code      string          `json:"code"`
	Order     int             `json:"order"`
	Answered  bool            `json:"answered"`
	Indicator stats.Indicator `json:"indicator"`
}

type sectionProgress struct {
	stats.SectionSummary
	Points []pointProgress `json:"points"`
}

// GetInstanceProgress reports completion figures for the instance and each
// of its sections, with the advisory indicator of every point. The
// conformity percentage only weighs points with a conforming or
// non-conforming verdict.
func GetInstanceProgress(app app.App) http.HandlerFunc {
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

		summaries := stats.BySection(inst)
		sections := make([]sectionProgress, len(inst.Sections))
		for i, sec := range inst.Sections {
			indicators := stats.Indicators(sec)
			points := make([]pointProgress, len(sec.Points))
			for j, p := range sec.Points {
				points[j] = pointProgress{
					ID:        p.ID,
					Code:      p.Code,
					Order:     p.Order,
					Answered:  p.Answered(),
					Indicator: indicators[j],
				}
			}
			sections[i] = sectionProgress{SectionSummary: summaries[i], Points: points}
		}

		summary := stats.Instance(inst)
		render.JSON(w, r, map[string]any{
			"id":                 inst.ID,
			"code":               inst.Code,
			"summary":            summary,
			"conformity_percent": summary.ConformityPercent(),
			"sections":           sections,
		})
	}
}

func GetInstanceReport(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(w, r)
		if !ok {
			return
		}

		doc, err := app.Reports.InstanceReport(r.Context(), id, chi.URLParam(r, "variant"))
		if err != nil {
			httpx.LogError(w, "report.instance", err)
			return
		}

		sendDocument(w, doc)
	}
}

// GetRecordsReport renders the filtered report of a record kind. Every query
// parameter is a filter; empty ones are ignored.
func GetRecordsReport(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doc, err := app.Reports.RecordsReport(r.Context(), chi.URLParam(r, "kind"), queryFilters(r))
		if err != nil {
			httpx.LogError(w, "report.records", err)
			return
		}

		sendDocument(w, doc)
	}
}

func queryFilters(r *http.Request) model.Predicates {
	filters := model.Predicates{}
	for field, values := range r.URL.Query() {
		if len(values) > 0 {
			filters[field] = values[0]
		}
	}
	return filters
}

func sendDocument(w http.ResponseWriter, doc *report.Document) {
	err := httpx.Attachment(w, doc.Filename, "application/pdf", doc.Bytes())
	if err != nil {
		httpx.LogInternalError(w, "report.write", err)
	}
}

func ListRecords(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		kind, err := report.ParseKind(chi.URLParam(r, "kind"))
		if err != nil {
			httpx.LogError(w, "request.get_url_param.kind", err)
			return
		}

		records, err := app.FetchFilteredRecords(r.Context(), kind, queryFilters(r))
		if err != nil {
			httpx.LogInternalError(w, "db.get_records", err)
			return
		}

		render.JSON(w, r, map[string]any{
			"records": records,
		})
	}
}

func CreateRecord(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		kind, err := report.ParseKind(chi.URLParam(r, "kind"))
		if err != nil {
			httpx.LogError(w, "request.get_url_param.kind", err)
			return
		}

		rec := model.Record{}
		if !decode(w, r, &rec) {
			return
		}
		rec.Kind = kind

		created, err := app.CreateRecord(r.Context(), rec)
		if err != nil {
			httpx.LogError(w, "db.insert_record", err)
			return
		}

		w.WriteHeader(http.StatusCreated)
		render.JSON(w, r, created)
	}
}

func DeleteRecord(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		kind, err := report.ParseKind(chi.URLParam(r, "kind"))
		if err != nil {
			httpx.LogError(w, "request.get_url_param.kind", err)
			return
		}
		id, ok := idParam(w, r)
		if !ok {
			return
		}

		err = app.DeleteRecord(r.Context(), kind, id)
		if err != nil {
			httpx.LogError(w, "db.delete_record", err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

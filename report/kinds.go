package report

import (
	"github.com/mbolis/pie-reports/model"
	"github.com/mbolis/pie-reports/render"
)

// column binds a table column to the record field it displays.
type column struct {
	render.Column
	field string
	date  bool
}

type kindSpec struct {
	title   string
	columns []column
	// filter labels by predicate field name
	labels map[string]string
	priced bool
}

var kinds = map[model.RecordKind]kindSpec{
	model.KindMaterials: {
		title: "Relatório de Materiais",
		columns: []column{
			{Column: render.Column{Title: "Código", Width: 24}, field: "code"},
			{Column: render.Column{Title: "Descrição", Width: 50}, field: "title"},
			{Column: render.Column{Title: "Tipo", Width: 26}, field: "type"},
			{Column: render.Column{Title: "Qtd.", Width: 16, Align: "R"}, field: "quantity"},
			{Column: render.Column{Title: "Un.", Width: 12}, field: "unit"},
			{Column: render.Column{Title: "Recebimento", Width: 24}, field: "received", date: true},
			{Column: render.Column{Title: "Status", Width: 28, Chip: true}, field: "status"},
		},
		labels: map[string]string{
			"code":          "Código",
			"title":         "Descrição",
			"type":          "Tipo",
			"supplier":      "Fornecedor",
			"status":        "Status",
			"received_from": "Recebido a partir de",
			"received_to":   "Recebido até",
		},
		priced: true,
	},
	model.KindTests: {
		title: "Relatório de Ensaios",
		columns: []column{
			{Column: render.Column{Title: "Código", Width: 24}, field: "code"},
			{Column: render.Column{Title: "Ensaio", Width: 50}, field: "title"},
			{Column: render.Column{Title: "Material", Width: 34}, field: "material"},
			{Column: render.Column{Title: "Resultado", Width: 22, Align: "R"}, field: "result"},
			{Column: render.Column{Title: "Data", Width: 22}, field: "performed", date: true},
			{Column: render.Column{Title: "Status", Width: 28, Chip: true}, field: "status"},
		},
		labels: map[string]string{
			"code":           "Código",
			"title":          "Ensaio",
			"material":       "Material",
			"laboratory":     "Laboratório",
			"status":         "Status",
			"performed_from": "Realizado a partir de",
			"performed_to":   "Realizado até",
		},
	},
	model.KindNonConformities: {
		title: "Relatório de Não Conformidades",
		columns: []column{
			{Column: render.Column{Title: "Código", Width: 24}, field: "code"},
			{Column: render.Column{Title: "Descrição", Width: 52}, field: "title"},
			{Column: render.Column{Title: "Gravidade", Width: 22, Chip: true}, field: "severity"},
			{Column: render.Column{Title: "Responsável", Width: 30}, field: "responsible"},
			{Column: render.Column{Title: "Prazo", Width: 22}, field: "due", date: true},
			{Column: render.Column{Title: "Status", Width: 26, Chip: true}, field: "status"},
		},
		labels: map[string]string{
			"code":        "Código",
			"title":       "Descrição",
			"severity":    "Gravidade",
			"responsible": "Responsável",
			"status":      "Status",
			"due_from":    "Prazo a partir de",
			"due_to":      "Prazo até",
		},
	},
}

func (k kindSpec) label(field string) string {
	if l, ok := k.labels[field]; ok {
		return l
	}
	return field
}

func (k kindSpec) cell(nums numbers, col column, r model.Record) string {
	if col.date {
		d, ok := r.Dates[col.field]
		if !ok {
			return "-"
		}
		return formatDate(&d)
	}
	if n, ok := r.Numbers[col.field]; ok {
		return nums.number(n)
	}
	v, ok := r.Field(col.field)
	if !ok || v == "" {
		return "-"
	}
	return v
}

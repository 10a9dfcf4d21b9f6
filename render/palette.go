package render

import "github.com/mbolis/pie-reports/model"

var (
	White       = Color{255, 255, 255}
	Primary     = Color{30, 58, 95}
	Secondary   = Color{52, 152, 219}
	TextDark    = Color{44, 62, 80}
	TextMuted   = Color{127, 140, 141}
	Background  = Color{248, 249, 250}
	TableHeader = Color{30, 58, 95}
	TableAlt    = Color{241, 245, 249}
	GridLine    = Color{220, 220, 220}
	Neutral     = Color{149, 165, 166}

	green  = Color{46, 204, 113}
	yellow = Color{241, 196, 15}
	orange = Color{230, 126, 34}
	red    = Color{231, 76, 60}
	purple = Color{142, 68, 173}
	teal   = Color{22, 160, 133}
)

// statusColors is the one status→color table shared by chips, KPI cards,
// table cells and point markers.
var statusColors = map[model.StatusKey]Color{
	model.KeyDraft:         Neutral,
	model.KeyPending:       yellow,
	model.KeyWarning:       orange,
	model.KeyInProgress:    Secondary,
	model.KeyInReview:      purple,
	model.KeyApproved:      green,
	model.KeyCompleted:     teal,
	model.KeyConforming:    green,
	model.KeyRejected:      red,
	model.KeyNonConforming: red,
	model.KeyCritical:      red,
	model.KeyCancelled:     TextMuted,
	model.KeyOpen:          orange,
	model.KeyClosed:        teal,
	model.KeyNotApplicable: Neutral,
}

var statusLabels = map[model.StatusKey]string{
	model.KeyDraft:         "Rascunho",
	model.KeyPending:       "Pendente",
	model.KeyWarning:       "Atenção",
	model.KeyInProgress:    "Em andamento",
	model.KeyInReview:      "Em análise",
	model.KeyApproved:      "Aprovado",
	model.KeyCompleted:     "Concluído",
	model.KeyConforming:    "Conforme",
	model.KeyRejected:      "Reprovado",
	model.KeyNonConforming: "Não conforme",
	model.KeyCritical:      "Crítico",
	model.KeyCancelled:     "Cancelado",
	model.KeyOpen:          "Aberto",
	model.KeyClosed:        "Fechado",
	model.KeyNotApplicable: "N/A",
}

// ColorOf returns the color of a normalized status, gray when unmapped.
func ColorOf(key model.StatusKey) Color {
	if c, ok := statusColors[key]; ok {
		return c
	}
	return Neutral
}

// StatusLabel returns the display label of a status; unmapped statuses are
// shown as given.
func StatusLabel(status string) string {
	if l, ok := statusLabels[model.NormalizeStatus(status)]; ok {
		return l
	}
	if status == "" {
		return NotSpecified
	}
	return status
}

// NotSpecified stands in for any missing optional value.
const NotSpecified = "Não especificado"

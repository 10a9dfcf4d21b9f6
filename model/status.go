package model

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// StatusKey is the normalized status vocabulary shared by every entity kind.
// Colors and labels are keyed on it.
type StatusKey string

const (
	KeyUnknown       StatusKey = ""
	KeyDraft         StatusKey = "draft"
	KeyPending       StatusKey = "pending"
	KeyInProgress    StatusKey = "in_progress"
	KeyInReview      StatusKey = "in_review"
	KeyApproved      StatusKey = "approved"
	KeyRejected      StatusKey = "rejected"
	KeyCompleted     StatusKey = "completed"
	KeyCritical      StatusKey = "critical"
	KeyCancelled     StatusKey = "cancelled"
	KeyOpen          StatusKey = "open"
	KeyClosed        StatusKey = "closed"
	KeyWarning       StatusKey = "warning"
	KeyConforming    StatusKey = "conforming"
	KeyNonConforming StatusKey = "non_conforming"
	KeyNotApplicable StatusKey = "not_applicable"
)

var statusSynonyms = map[string]StatusKey{
	"draft":          KeyDraft,
	"rascunho":       KeyDraft,
	"pending":        KeyPending,
	"pendente":       KeyPending,
	"aguardando":     KeyPending,
	"in_progress":    KeyInProgress,
	"em_andamento":   KeyInProgress,
	"em_execucao":    KeyInProgress,
	"in_review":      KeyInReview,
	"em_analise":     KeyInReview,
	"em_revisao":     KeyInReview,
	"approved":       KeyApproved,
	"aprovado":       KeyApproved,
	"aprovada":       KeyApproved,
	"rejected":       KeyRejected,
	"reprovado":      KeyRejected,
	"reprovada":      KeyRejected,
	"rejeitado":      KeyRejected,
	"completed":      KeyCompleted,
	"concluido":      KeyCompleted,
	"concluida":      KeyCompleted,
	"finalizado":     KeyCompleted,
	"critical":       KeyCritical,
	"critico":        KeyCritical,
	"critica":        KeyCritical,
	"urgente":        KeyCritical,
	"cancelled":      KeyCancelled,
	"canceled":       KeyCancelled,
	"cancelado":      KeyCancelled,
	"cancelada":      KeyCancelled,
	"open":           KeyOpen,
	"aberto":         KeyOpen,
	"aberta":         KeyOpen,
	"closed":         KeyClosed,
	"fechado":        KeyClosed,
	"fechada":        KeyClosed,
	"encerrado":      KeyClosed,
	"warning":        KeyWarning,
	"alerta":         KeyWarning,
	"conforming":     KeyConforming,
	"conforme":       KeyConforming,
	"non_conforming": KeyNonConforming,
	"nao_conforme":   KeyNonConforming,
	"not_applicable": KeyNotApplicable,
	"nao_aplicavel":  KeyNotApplicable,
	"n_a":            KeyNotApplicable,
}

// NormalizeStatus maps a free-form status (any case, with or without
// accents, spaces or dashes) onto the shared vocabulary. Unmapped values
// yield KeyUnknown.
func NormalizeStatus(status string) StatusKey {
	s := foldAccents(strings.ToLower(strings.TrimSpace(status)))
	s = strings.NewReplacer(" ", "_", "-", "_", "/", "_").Replace(s)
	return statusSynonyms[s]
}

func foldAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

package httpx

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mbolis/pie-reports/database"
	"github.com/mbolis/pie-reports/model"
	"github.com/mbolis/pie-reports/report"
)

func TestLogError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"data shape", fmt.Errorf("compose: %w", &model.DataShapeError{Entity: "point", Code: "P-1", Reason: "bad"}), http.StatusUnprocessableEntity},
		{"variant", &report.UnsupportedVariantError{Requested: "weekly"}, http.StatusBadRequest},
		{"kind", &report.UnsupportedKindError{Requested: "invoices"}, http.StatusBadRequest},
		{"not found", fmt.Errorf("instance 3: %w", database.ErrNotFound), http.StatusNotFound},
		{"other", errors.New("disk full"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			LogError(w, "test", tt.err)
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestAttachment(t *testing.T) {
	w := httptest.NewRecorder()
	err := Attachment(w, "inspection-individual-PIE-2026-0001-2026-10-15.pdf", "application/pdf", []byte("%PDF"))
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("content-type"))
	assert.Equal(t, "4", w.Header().Get("content-length"))
	assert.Equal(t, `attachment; filename=inspection-individual-PIE-2026-0001-2026-10-15.pdf`, w.Header().Get("content-disposition"))
}

func TestResponseBuffer(t *testing.T) {
	buf := NewResponseBuffer()
	buf.Header().Set("x-test", "1")
	buf.WriteHeader(http.StatusCreated)
	buf.WriteHeader(http.StatusTeapot)
	_, _ = buf.Write([]byte("ok"))
	assert.Equal(t, http.StatusCreated, buf.Status())

	w := httptest.NewRecorder()
	assert.NoError(t, buf.Flush(w))
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "1", w.Header().Get("x-test"))
	assert.Equal(t, "ok", w.Body.String())

	empty := NewResponseBuffer()
	assert.Zero(t, empty.Status())
	assert.Empty(t, empty.Body())
}

package httpx

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/mbolis/pie-reports/database"
	"github.com/mbolis/pie-reports/log"
	"github.com/mbolis/pie-reports/model"
	"github.com/mbolis/pie-reports/report"
)

// Will log an error, and send an HTTP response with status 500 and default text
func LogInternalError(w http.ResponseWriter, code string, err error) {
	log.Errorf("%s: %s", code, err)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

// Will log a debug message, and send an HTTP response with status 404 and default text
func LogNotFound(w http.ResponseWriter, code string, id any) {
	log.Debugf("%s: not found (%v)", code, id)
	http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
}

// Will log an error code at the given level, and send
// an HTTP response with status and default text
func LogStatus(w http.ResponseWriter, status int, level log.Level, code string) {
	log.Log(level, code)
	http.Error(w, http.StatusText(status), status)
}

// Will log an error code and message at the given level,
// and send an HTTP response with the given status and formatted message
func LogStatusMsg(w http.ResponseWriter, status int, level log.Level, code string, msg string, args ...any) {
	errMsg := fmt.Sprintf(msg, args...)
	log.Log(level, code+":", errMsg)
	http.Error(w, errMsg, status)
}

// Will pick the response status from the kind of err: 422 for data that
// breaks the hierarchy invariants, 400 for unknown report variants or kinds,
// 404 for missing rows and 500 for everything else
func LogError(w http.ResponseWriter, code string, err error) {
	var shapeErr *model.DataShapeError
	var variantErr *report.UnsupportedVariantError
	var kindErr *report.UnsupportedKindError
	switch {
	case errors.As(err, &shapeErr):
		LogStatusMsg(w, http.StatusUnprocessableEntity, log.DebugLevel, code, "%s", shapeErr)
	case errors.As(err, &variantErr):
		LogStatusMsg(w, http.StatusBadRequest, log.DebugLevel, code, "%s", variantErr)
	case errors.As(err, &kindErr):
		LogStatusMsg(w, http.StatusBadRequest, log.DebugLevel, code, "%s", kindErr)
	case errors.Is(err, database.ErrNotFound):
		LogNotFound(w, code, err)
	default:
		LogInternalError(w, code, err)
	}
}

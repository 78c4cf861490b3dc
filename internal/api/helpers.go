package api

import (
	"embed"
	"errors"
	"html/template"
	"mime"
	"net/http"
	"strings"

	"supplychain/internal/actions"
	"supplychain/internal/models"
)

//go:embed templates/index.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

type pageData struct {
	Account    string
	Contract   string
	SetupError string
	Roles      []string
	Stages     []models.Stage
	Result     *models.ActionResult
	Error      *models.ErrorResponse
}

// StatusFor maps an action error kind to an HTTP status
func StatusFor(err error) int {
	switch actions.Kind(err) {
	case "":
		return http.StatusOK
	case actions.KindValidation:
		if errors.Is(err, actions.ErrUnknownAction) {
			return http.StatusNotFound
		}
		return http.StatusBadRequest
	case actions.KindNotFound:
		return http.StatusNotFound
	case actions.KindRemote:
		return http.StatusBadGateway
	case actions.KindEnvironment:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// errorResponse builds the user-facing error for an action failure
func errorResponse(err error) models.ErrorResponse {
	code := StatusFor(err)
	resp := models.ErrorResponse{
		Error:   http.StatusText(code),
		Kind:    actions.Kind(err),
		Message: err.Error(),
		Code:    code,
	}

	var validationErr *actions.ValidationError
	if errors.As(err, &validationErr) {
		resp.Field = validationErr.Field
	}
	return resp
}

// wantsJSON reports whether the client prefers a JSON response
func wantsJSON(r *http.Request) bool {
	for _, part := range strings.Split(r.Header.Get("Accept"), ",") {
		mediaType, _, err := mime.ParseMediaType(strings.TrimSpace(part))
		if err == nil && mediaType == "application/json" {
			return true
		}
	}
	return false
}

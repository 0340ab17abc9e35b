package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/evyataryagoni/locationsurvey/internal/logger"
	"github.com/evyataryagoni/locationsurvey/internal/models"
	"github.com/evyataryagoni/locationsurvey/internal/survey"
	"github.com/go-chi/chi/v5"
)

// maxFieldBodySize bounds a PUT field body; values are short strings
const maxFieldBodySize = 4 << 10

// ControllerFactory builds the controller of a new session from the
// request that created it
type ControllerFactory func(r *http.Request) *survey.Controller

// FormResponse is a form session snapshot
type FormResponse struct {
	ID     string                          `json:"id"`
	Fields map[string]survey.FieldSnapshot `json:"fields"`
}

// SetFieldRequest is the body of PUT /v1/forms/{id}/fields/{field}
type SetFieldRequest struct {
	Value *string `json:"value"`
}

// FormHandler exposes survey sessions over HTTP
type FormHandler struct {
	registry      *survey.Registry
	newController ControllerFactory
	logger        *logger.Logger
}

// NewFormHandler creates a new form session handler
func NewFormHandler(registry *survey.Registry, newController ControllerFactory, log *logger.Logger) *FormHandler {
	if log == nil {
		log = logger.NewDefault()
	}

	return &FormHandler{
		registry:      registry,
		newController: newController,
		logger:        log.WithComponent("FormHandler"),
	}
}

// Create handles POST /v1/forms
// @Summary      Start a form session
// @Description  Mounts a new form and waits for the country prefill (bounded by the request)
// @Tags         Forms
// @Produce      json
// @Success      201  {object}  handler.FormResponse
// @Failure      429  {object}  models.ErrorResponse  "Rate limit exceeded"
// @Router       /v1/forms [post]
func (h *FormHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctrl := h.newController(r)
	session := h.registry.Add(ctrl)

	// Detection outlives this request; Unmount cancels it
	done := ctrl.Mount(context.WithoutCancel(r.Context()))

	select {
	case <-done:
	case <-r.Context().Done():
		h.logger.Debug().Str("session_id", session.ID).Msg("Request ended before country prefill")
	}

	respondJSON(w, http.StatusCreated, snapshotResponse(session))
}

// Get handles GET /v1/forms/{id}
// @Summary      Get a form session
// @Tags         Forms
// @Produce      json
// @Param        id   path      string  true  "Session id"
// @Success      200  {object}  handler.FormResponse
// @Failure      404  {object}  models.ErrorResponse  "Unknown session"
// @Router       /v1/forms/{id} [get]
func (h *FormHandler) Get(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}

	respondJSON(w, http.StatusOK, snapshotResponse(session))
}

// SetField handles PUT /v1/forms/{id}/fields/{field}
// @Summary      Change a form field
// @Description  Applies the change and its cascade, then returns the whole form
// @Tags         Forms
// @Accept       json
// @Produce      json
// @Param        id     path      string                   true  "Session id"
// @Param        field  path      string                   true  "Field name"  Enums(countryCode, phoneNumber, state, city)
// @Param        body   body      handler.SetFieldRequest  true  "New value"
// @Success      200    {object}  handler.FormResponse
// @Failure      400    {object}  models.ErrorResponse  "Unknown field or invalid body"
// @Failure      404    {object}  models.ErrorResponse  "Unknown session"
// @Failure      422    {object}  models.ErrorResponse  "Value is not a valid choice"
// @Router       /v1/forms/{id}/fields/{field} [put]
func (h *FormHandler) SetField(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}

	var req SetFieldRequest
	body := http.MaxBytesReader(w, r.Body, maxFieldBodySize)
	if err := json.NewDecoder(body).Decode(&req); err != nil || req.Value == nil {
		respondError(w, http.StatusBadRequest, "Body must be {\"value\": \"...\"}")
		return
	}

	field := chi.URLParam(r, "field")
	if err := session.Controller.SetValue(r.Context(), field, *req.Value); err != nil {
		switch {
		case errors.Is(err, survey.ErrUnknownField), errors.Is(err, survey.ErrReadOnlyField):
			respondError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, survey.ErrInvalidChoice):
			respondError(w, http.StatusUnprocessableEntity, err.Error())
		default:
			respondError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	respondJSON(w, http.StatusOK, snapshotResponse(session))
}

// Submit handles POST /v1/forms/{id}/submit
// @Summary      Submit a form
// @Tags         Forms
// @Produce      json
// @Param        id   path      string  true  "Session id"
// @Success      200  {object}  survey.Submission
// @Failure      404  {object}  models.ErrorResponse            "Unknown session"
// @Failure      422  {object}  models.ValidationErrorResponse  "Validation failed"
// @Router       /v1/forms/{id}/submit [post]
func (h *FormHandler) Submit(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}

	submission, err := session.Controller.Submit()
	if err != nil {
		var verr *survey.ValidationError
		if errors.As(err, &verr) {
			respondJSON(w, http.StatusUnprocessableEntity, models.ValidationErrorResponse{
				Error:  "Validation failed",
				Fields: verr.Fields,
			})
			return
		}
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondJSON(w, http.StatusOK, submission)
}

// Delete handles DELETE /v1/forms/{id}
// @Summary      End a form session
// @Tags         Forms
// @Param        id   path  string  true  "Session id"
// @Success      204
// @Failure      404  {object}  models.ErrorResponse  "Unknown session"
// @Router       /v1/forms/{id} [delete]
func (h *FormHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.registry.Remove(chi.URLParam(r, "id")); err != nil {
		respondError(w, http.StatusNotFound, "Form session not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *FormHandler) session(w http.ResponseWriter, r *http.Request) (*survey.Session, bool) {
	session, err := h.registry.Get(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusNotFound, "Form session not found")
		return nil, false
	}
	return session, true
}

func snapshotResponse(s *survey.Session) FormResponse {
	return FormResponse{
		ID:     s.ID,
		Fields: s.Controller.Snapshot().Fields,
	}
}

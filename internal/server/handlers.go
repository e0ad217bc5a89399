package server

import (
	"encoding/json"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/interomap/interomap/pkg/canvas"
	"github.com/interomap/interomap/pkg/drawing"
	"github.com/interomap/interomap/pkg/errors"
	"github.com/interomap/interomap/pkg/notify"
	"github.com/interomap/interomap/pkg/render"
	"github.com/interomap/interomap/pkg/session"
)

type handler struct {
	manager  *session.Manager
	hub      *notify.Hub
	variable string
	logger   *log.Logger
}

// The widget is meant to be embedded, so the event socket accepts any origin.
var embedUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(*http.Request) bool { return true },
}

// surfacesRequest reports both canvases' layout at launch or persona choice.
type surfacesRequest struct {
	Front *canvas.Dimensions `json:"front"`
	Back  *canvas.Dimensions `json:"back"`
}

func (s surfacesRequest) complete() bool {
	return s.Front != nil && s.Back != nil
}

func (s surfacesRequest) dims() map[drawing.Side]canvas.Dimensions {
	dims := make(map[drawing.Side]canvas.Dimensions, 2)
	if s.Front != nil {
		dims[drawing.SideFront] = *s.Front
	}
	if s.Back != nil {
		dims[drawing.SideBack] = *s.Back
	}
	return dims
}

type createRequest struct {
	Persona  string          `json:"persona"`
	Variable string          `json:"variable"`
	Surfaces surfacesRequest `json:"surfaces"`
}

func (h *handler) create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	if _, ok := drawing.ParsePersona(req.Persona); ok && !req.Surfaces.complete() {
		h.writeError(w, errors.New(errors.ErrCodeInvalidInput, "persona launch requires front and back surface dimensions"))
		return
	}
	variable := req.Variable
	if variable == "" {
		variable = h.variable
	}
	st, err := h.manager.Create(r.Context(), req.Persona, variable, req.Surfaces.dims())
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, st)
}

func (h *handler) get(w http.ResponseWriter, r *http.Request) {
	view, err := h.manager.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, struct {
		*session.State
		Output string `json:"output"`
	}{view.State, view.Encoded})
}

func (h *handler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.manager.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type personaRequest struct {
	Persona  string          `json:"persona"`
	Surfaces surfacesRequest `json:"surfaces"`
}

func (h *handler) selectPersona(w http.ResponseWriter, r *http.Request) {
	var req personaRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	persona, ok := drawing.ParsePersona(req.Persona)
	if !ok {
		h.writeError(w, errors.New(errors.ErrCodeInvalidPersona, "unknown persona: %s", req.Persona))
		return
	}
	if !req.Surfaces.complete() {
		h.writeError(w, errors.New(errors.ErrCodeInvalidInput, "persona choice requires front and back surface dimensions"))
		return
	}
	st, err := h.manager.SelectPersona(r.Context(), chi.URLParam(r, "id"), persona, req.Surfaces.dims())
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, st)
}

type ratingsRequest struct {
	Intensity int `json:"intensity"`
	Valence   int `json:"valence"`
}

func (h *handler) setRatings(w http.ResponseWriter, r *http.Request) {
	var req ratingsRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	st, err := h.manager.SetRatings(r.Context(), chi.URLParam(r, "id"), req.Intensity, req.Valence)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, st)
}

type strokeRequest struct {
	Side      string         `json:"side"`
	Points    []canvas.Point `json:"points"`
	BrushSize float64        `json:"brushSize"`
}

func (h *handler) completeStroke(w http.ResponseWriter, r *http.Request) {
	var req strokeRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	side, err := drawing.ValidateSide(req.Side)
	if err != nil {
		h.writeError(w, err)
		return
	}
	outcome, err := h.manager.CompleteStroke(r.Context(), chi.URLParam(r, "id"), side, req.Points, req.BrushSize)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, outcome)
}

func (h *handler) undo(w http.ResponseWriter, r *http.Request) {
	undone, err := h.manager.Undo(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]bool{"undone": undone})
}

func (h *handler) updateSurface(w http.ResponseWriter, r *http.Request) {
	side, err := drawing.ValidateSide(chi.URLParam(r, "side"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	var dims canvas.Dimensions
	if err := decode(r, &dims); err != nil {
		h.writeError(w, err)
		return
	}
	st, err := h.manager.UpdateSurface(r.Context(), chi.URLParam(r, "id"), side, dims)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, st)
}

// getDrawing serves the composed output verbatim, exactly as the host
// variable would receive it.
func (h *handler) getDrawing(w http.ResponseWriter, r *http.Request) {
	view, err := h.manager.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(view.Encoded))
}

func (h *handler) getDrawingSVG(w http.ResponseWriter, r *http.Request) {
	view, err := h.manager.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	_, _ = w.Write(render.RenderSVG(view.Drawing, render.WithLabels()))
}

// events upgrades to a websocket and streams the session's notification
// messages until the client goes away.
func (h *handler) events(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := h.manager.Get(r.Context(), id); err != nil {
		h.writeError(w, err)
		return
	}
	conn, err := embedUpgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Debug("websocket upgrade failed", "session", id, "err", err)
		return
	}
	h.hub.Attach(id, conn)
	defer h.hub.Detach(id, conn)

	// Clients only listen; drain reads to detect the close handshake.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request body")
	}
	return nil
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Debug("write response", "err", err)
	}
}

type errorResponse struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

func (h *handler) writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	status := statusFor(code)
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed", "code", code, "err", err)
	}
	if code == "" {
		code = errors.ErrCodeInternal
	}
	h.writeJSON(w, status, errorResponse{Code: code, Message: errors.UserMessage(err)})
}

func statusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidPersona, errors.ErrCodeInvalidSide,
		errors.ErrCodeInvalidRating, errors.ErrCodeInvalidInput:
		return http.StatusBadRequest
	case errors.ErrCodeSessionNotFound:
		return http.StatusNotFound
	case errors.ErrCodeSessionExpired:
		return http.StatusGone
	case errors.ErrCodePersonaAlreadySet, errors.ErrCodePersonaNotSet:
		return http.StatusConflict
	case errors.ErrCodeOverBudget:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

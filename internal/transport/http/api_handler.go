package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"space-adventure-service/internal/app"
	"space-adventure-service/internal/domain"
	"space-adventure-service/internal/logger"
	"space-adventure-service/internal/studio"
)

const maxBodyBytes = 8 << 20

type APIHandler struct {
	gallery *app.Gallery
	studio  *studio.Studio
	log     *logger.Logger
}

func NewAPIHandler(gallery *app.Gallery, st *studio.Studio, log *logger.Logger) *APIHandler {
	return &APIHandler{gallery: gallery, studio: st, log: log.With("handler", "api")}
}

type characterRequest struct {
	Name        string               `json:"name"`
	Description string               `json:"description"`
	ImageURL    string               `json:"imageUrl"`
	Type        domain.CharacterType `json:"type"`
}

type workshopRequest struct {
	Kind studio.Kind `json:"kind"`
}

type inputRequest struct {
	Text string `json:"text"`
}

type selectRequest struct {
	CharacterID string `json:"characterId"`
}

func (h *APIHandler) Menu(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, app.Menu())
}

func (h *APIHandler) ListCharacters(w http.ResponseWriter, r *http.Request) {
	chars, err := h.gallery.List(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	if chars == nil {
		chars = []domain.Character{}
	}
	writeJSON(w, http.StatusOK, chars)
}

func (h *APIHandler) CreateCharacter(w http.ResponseWriter, r *http.Request) {
	var req characterRequest
	if !decode(w, r, &req) {
		return
	}
	switch req.Type {
	case "", domain.CharacterRobot, domain.CharacterAlien, domain.CharacterHero:
	default:
		writeJSON(w, http.StatusBadRequest, errorPayload{Message: "unknown character type"})
		return
	}
	c, err := h.gallery.Append(r.Context(), domain.Character{
		Name:        req.Name,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		Type:        req.Type,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (h *APIHandler) OpenWorkshop(w http.ResponseWriter, r *http.Request) {
	var req workshopRequest
	if !decode(w, r, &req) {
		return
	}
	ws, err := h.studio.Open(req.Kind)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, ws.View())
}

func (h *APIHandler) GetWorkshop(w http.ResponseWriter, r *http.Request) {
	ws, ok := h.workshop(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, ws.View())
}

func (h *APIHandler) CloseWorkshop(w http.ResponseWriter, r *http.Request) {
	if err := h.studio.Close(chi.URLParam(r, "id")); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *APIHandler) WorkshopInput(w http.ResponseWriter, r *http.Request) {
	ws, ok := h.workshop(w, r)
	if !ok {
		return
	}
	var req inputRequest
	if !decode(w, r, &req) {
		return
	}
	v, err := ws.Input(r.Context(), req.Text)
	h.writeView(w, v, err)
}

func (h *APIHandler) WorkshopSelect(w http.ResponseWriter, r *http.Request) {
	ws, ok := h.workshop(w, r)
	if !ok {
		return
	}
	var req selectRequest
	if !decode(w, r, &req) {
		return
	}
	v, err := ws.Select(r.Context(), req.CharacterID)
	h.writeView(w, v, err)
}

func (h *APIHandler) WorkshopSave(w http.ResponseWriter, r *http.Request) {
	ws, ok := h.workshop(w, r)
	if !ok {
		return
	}
	v, err := ws.Save(r.Context())
	h.writeView(w, v, err)
}

func (h *APIHandler) WorkshopRetry(w http.ResponseWriter, r *http.Request) {
	ws, ok := h.workshop(w, r)
	if !ok {
		return
	}
	v, err := ws.Retry()
	h.writeView(w, v, err)
}

func (h *APIHandler) WorkshopPaint(w http.ResponseWriter, r *http.Request) {
	ws, ok := h.workshop(w, r)
	if !ok {
		return
	}
	var req studio.Decoration
	if !decode(w, r, &req) {
		return
	}
	v, err := ws.Paint(req)
	h.writeView(w, v, err)
}

func (h *APIHandler) workshop(w http.ResponseWriter, r *http.Request) (*studio.Workshop, bool) {
	ws, err := h.studio.Get(chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return nil, false
	}
	return ws, true
}

// writeView answers with the view even when generation failed, so the client can show the message.
func (h *APIHandler) writeView(w http.ResponseWriter, v studio.View, err error) {
	if err != nil && errors.Is(err, domain.ErrGenerationFailed) && v.ID != "" {
		h.log.Warn("generation failed", "workshop", v.ID, "error", err)
		writeJSON(w, http.StatusBadGateway, struct {
			studio.View
			Error string `json:"error"`
		}{View: v, Error: err.Error()})
		return
	}
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (h *APIHandler) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		h.log.Error("request failed", "error", err)
	}
	writeJSON(w, status, errorPayload{Message: err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrWorkshopNotFound), errors.Is(err, domain.ErrCharacterNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrUnknownWorkshop), errors.Is(err, domain.ErrInvalidCharacter), errors.Is(err, studio.ErrUnknownColor):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrWorkshopBusy), errors.Is(err, domain.ErrWrongStage):
		return http.StatusConflict
	case errors.Is(err, domain.ErrGenerationFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, errorPayload{Message: "invalid request body"})
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

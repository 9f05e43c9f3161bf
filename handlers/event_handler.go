package handlers

import (
	"net/http"

	"github.com/Dosada05/pushbike-heats/services"
)

type EventHandler struct {
	batchService services.BatchService
}

func NewEventHandler(bs services.BatchService) *EventHandler {
	return &EventHandler{batchService: bs}
}

// GetBatches godoc
// @Summary Batches and gates of an event
// @Tags batches
// @Produce json
// @Param eventID path int true "Event ID"
// @Success 200 {object} map[string]interface{} "batches"
// @Failure 404 {object} map[string]string "Event not found"
// @Router /events/{eventID}/batches [get]
func (h *EventHandler) GetBatches(w http.ResponseWriter, r *http.Request) {
	eventID, err := getIDFromURL(r, "eventID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	batches, err := h.batchService.GetBatches(r.Context(), eventID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"batches": batches}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// AssignBatches godoc
// @Summary Split the roster into batches
// @Tags batches
// @Description Replaces the current assignment. Rejected once any result is recorded.
// @Produce json
// @Param eventID path int true "Event ID"
// @Success 201 {object} map[string]interface{} "batches"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Event not found"
// @Failure 409 {object} map[string]string "Results already recorded"
// @Failure 422 {object} map[string]string "Empty roster"
// @Security BearerAuth
// @Router /events/{eventID}/batches [post]
func (h *EventHandler) AssignBatches(w http.ResponseWriter, r *http.Request) {
	eventID, err := getIDFromURL(r, "eventID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	batches, err := h.batchService.AssignBatches(r.Context(), eventID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"batches": batches}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListCompetitors godoc
// @Summary Registered riders in roster order
// @Tags batches
// @Produce json
// @Param eventID path int true "Event ID"
// @Success 200 {object} map[string]interface{} "competitors"
// @Failure 404 {object} map[string]string "Event not found"
// @Router /events/{eventID}/competitors [get]
func (h *EventHandler) ListCompetitors(w http.ResponseWriter, r *http.Request) {
	eventID, err := getIDFromURL(r, "eventID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	competitors, err := h.batchService.ListCompetitors(r.Context(), eventID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"competitors": competitors}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

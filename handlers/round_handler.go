package handlers

import (
	"net/http"

	"github.com/Dosada05/pushbike-heats/services"
)

type RoundHandler struct {
	roundService services.RoundService
}

func NewRoundHandler(rs services.RoundService) *RoundHandler {
	return &RoundHandler{roundService: rs}
}

// FinalizeRound godoc
// @Summary Close a round's results
// @Tags rounds
// @Produce json
// @Param eventID path int true "Event ID"
// @Param round path int true "Round number"
// @Success 200 {object} map[string]interface{} "finalized"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 409 {object} map[string]string "Not the current round"
// @Failure 422 {object} map[string]string "Recorded placements conflict"
// @Security BearerAuth
// @Router /events/{eventID}/rounds/{round}/finalize [post]
func (h *RoundHandler) FinalizeRound(w http.ResponseWriter, r *http.Request) {
	eventID, err := getIDFromURL(r, "eventID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	round, err := getIDFromURL(r, "round")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	result, err := h.roundService.FinalizeRound(r.Context(), eventID, round)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"finalized": result}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetResults godoc
// @Summary Final results table
// @Tags rounds
// @Produce json
// @Param eventID path int true "Event ID"
// @Success 200 {object} map[string]interface{} "results"
// @Failure 404 {object} map[string]string "Event not found"
// @Failure 409 {object} map[string]string "Event not complete"
// @Router /events/{eventID}/results [get]
func (h *RoundHandler) GetResults(w http.ResponseWriter, r *http.Request) {
	eventID, err := getIDFromURL(r, "eventID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	results, err := h.roundService.GetFinalStandings(r.Context(), eventID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"results": results}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

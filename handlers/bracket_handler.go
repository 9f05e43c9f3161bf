package handlers

import (
	"net/http"

	"github.com/Dosada05/pushbike-heats/models"
	"github.com/Dosada05/pushbike-heats/services"
	"github.com/go-chi/chi/v5"
)

type BracketHandler struct {
	bracketService services.BracketService
}

func NewBracketHandler(bs services.BracketService) *BracketHandler {
	return &BracketHandler{bracketService: bs}
}

// GetRound godoc
// @Summary Both tiers of a round
// @Tags brackets
// @Produce json
// @Param eventID path int true "Event ID"
// @Param round path int true "Round number"
// @Success 200 {object} map[string]interface{} "round"
// @Failure 404 {object} map[string]string "Event or round not found"
// @Failure 409 {object} map[string]string "Round not seeded yet"
// @Router /events/{eventID}/rounds/{round} [get]
func (h *BracketHandler) GetRound(w http.ResponseWriter, r *http.Request) {
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

	view, err := h.bracketService.GetRound(r.Context(), eventID, round)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"round": view}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetBracket godoc
// @Summary Matches of one tier in a round
// @Tags brackets
// @Produce json
// @Param eventID path int true "Event ID"
// @Param round path int true "Round number"
// @Param tier path string true "primary or secondary"
// @Success 200 {object} map[string]interface{} "matches"
// @Failure 404 {object} map[string]string "Event, round or tier not found"
// @Failure 409 {object} map[string]string "Round not seeded yet"
// @Router /events/{eventID}/rounds/{round}/brackets/{tier} [get]
func (h *BracketHandler) GetBracket(w http.ResponseWriter, r *http.Request) {
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
	tier := models.Tier(chi.URLParam(r, "tier"))

	matches, err := h.bracketService.GetBracket(r.Context(), eventID, round, tier)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"round": round, "tier": tier, "matches": matches}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetStatus godoc
// @Summary Current round and phase
// @Tags brackets
// @Produce json
// @Param eventID path int true "Event ID"
// @Success 200 {object} map[string]interface{} "status"
// @Failure 404 {object} map[string]string "Event not found"
// @Failure 409 {object} map[string]string "Batches not assigned"
// @Router /events/{eventID}/status [get]
func (h *BracketHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	eventID, err := getIDFromURL(r, "eventID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	status, err := h.bracketService.GetStatus(r.Context(), eventID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"status": status}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

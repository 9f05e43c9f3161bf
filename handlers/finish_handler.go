package handlers

import (
	"errors"
	"net/http"

	"github.com/Dosada05/pushbike-heats/services"
)

const maxBulkEntries = 500

type FinishHandler struct {
	scoreService services.ScoreService
}

func NewFinishHandler(ss services.ScoreService) *FinishHandler {
	return &FinishHandler{scoreService: ss}
}

// RecordFinish godoc
// @Summary Record or amend a rider's result for a round
// @Tags results
// @Description Amending a finalized round reopens every later round.
// @Accept json
// @Produce json
// @Param eventID path int true "Event ID"
// @Param input body services.FinishInput true "Result"
// @Success 200 {object} map[string]interface{} "finish"
// @Failure 400 {object} map[string]string "Malformed body"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Rider not seated or round not open"
// @Failure 422 {object} map[string]string "Placement out of range or taken"
// @Security BearerAuth
// @Router /events/{eventID}/finishes [post]
func (h *FinishHandler) RecordFinish(w http.ResponseWriter, r *http.Request) {
	eventID, err := getIDFromURL(r, "eventID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.FinishInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	result, err := h.scoreService.RecordFinish(r.Context(), eventID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"finish": result}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// RecordFinishBulk godoc
// @Summary Record many results at once
// @Tags results
// @Description Each entry is applied on its own; the response reports every entry.
// @Accept json
// @Produce json
// @Param eventID path int true "Event ID"
// @Param input body []services.FinishInput true "Results"
// @Success 200 {object} map[string]interface{} "results, applied, failed"
// @Failure 400 {object} map[string]string "Malformed body"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /events/{eventID}/finishes/bulk [post]
func (h *FinishHandler) RecordFinishBulk(w http.ResponseWriter, r *http.Request) {
	eventID, err := getIDFromURL(r, "eventID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input []services.FinishInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if len(input) > maxBulkEntries {
		badRequestResponse(w, r, errors.New("too many entries in one upload"))
		return
	}

	results, err := h.scoreService.RecordFinishBulk(r.Context(), eventID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	failed := 0
	for _, res := range results {
		if res.Err() != nil {
			failed++
		}
	}

	env := jsonResponse{"results": results, "applied": len(results) - failed, "failed": failed}
	if err := writeJSON(w, http.StatusOK, env, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetStandings godoc
// @Summary Cumulative standings
// @Tags results
// @Produce json
// @Param eventID path int true "Event ID"
// @Success 200 {object} map[string]interface{} "standings"
// @Failure 404 {object} map[string]string "Event not found"
// @Router /events/{eventID}/standings [get]
func (h *FinishHandler) GetStandings(w http.ResponseWriter, r *http.Request) {
	eventID, err := getIDFromURL(r, "eventID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	standings, err := h.scoreService.GetStandings(r.Context(), eventID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"standings": standings}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

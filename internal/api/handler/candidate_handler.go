package handler

import (
	"net/http"

	"voting/internal/api/util"
	"voting/internal/core/model"
	"voting/internal/core/service"
)

type CandidateHandler struct {
	candidateService service.CandidateService
}

func NewCandidateHandler(candidateService service.CandidateService) *CandidateHandler {
	return &CandidateHandler{
		candidateService: candidateService,
	}
}

type candidateResponse struct {
	Message string           `json:"message"`
	Error   bool             `json:"error"`
	Data    *model.Candidate `json:"data"`
}

type tallyResponse struct {
	Message    string             `json:"message"`
	StatusCode int                `json:"statusCode"`
	Data       []model.TallyEntry `json:"data"`
}

type listResponse struct {
	Data []*model.CandidateSummary `json:"data"`
}

func (h *CandidateHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	var req service.CandidateInput
	if err := decodeJSON(r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}

	candidate, err := h.candidateService.Create(r.Context(), userID, req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	util.JSONResponse(w, http.StatusCreated, candidateResponse{
		Message: "candidate created successfully",
		Data:    candidate,
	})
}

func (h *CandidateHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	var patch model.CandidatePatch
	if err := decodeJSON(r, &patch); err != nil {
		writeDecodeError(w, err)
		return
	}

	candidate, err := h.candidateService.Update(r.Context(), userID, r.PathValue("id"), patch)
	if err != nil {
		writeError(w, r, err)
		return
	}

	util.JSONResponse(w, http.StatusOK, candidateResponse{
		Message: "candidate updated successfully",
		Data:    candidate,
	})
}

func (h *CandidateHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	candidate, err := h.candidateService.Delete(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	util.JSONResponse(w, http.StatusOK, candidateResponse{
		Message: "candidate deleted successfully",
		Data:    candidate,
	})
}

func (h *CandidateHandler) Vote(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	if err := h.candidateService.Vote(r.Context(), userID, r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}

	util.JSONResponse(w, http.StatusOK, messageResponse{Message: "Vote recorded successfully"})
}

func (h *CandidateHandler) VoteCount(w http.ResponseWriter, r *http.Request) {
	tally, err := h.candidateService.Tally(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	util.JSONResponse(w, http.StatusOK, tallyResponse{
		Message:    "success",
		StatusCode: http.StatusOK,
		Data:       tally,
	})
}

func (h *CandidateHandler) List(w http.ResponseWriter, r *http.Request) {
	candidates, err := h.candidateService.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	util.JSONResponse(w, http.StatusOK, listResponse{Data: candidates})
}

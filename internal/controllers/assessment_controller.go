package controllers

import (
	"net/http"
	"strconv"

	"calmd/internal/providers"
	"calmd/internal/services"
)

const maxHistoryLimit = 100

type AssessmentController struct {
	baseController
	service services.AssessmentServiceInterface
}

func NewAssessmentController(logger providers.Logger, identity providers.IdentityProviderInterface, cache providers.CacheProviderInterface, service services.AssessmentServiceInterface) *AssessmentController {
	return &AssessmentController{
		baseController: baseController{logger: logger, identity: identity, cache: cache},
		service:        service,
	}
}

type submitRequest struct {
	Answers map[string]int `json:"answers"`
}

func (ac *AssessmentController) Quiz(w http.ResponseWriter, r *http.Request) {
	ac.serveFromCacheOrCompute(w, r, "quiz", func() (any, error) {
		return ac.service.Quiz(), nil
	})
}

func (ac *AssessmentController) Submit(w http.ResponseWriter, r *http.Request) {
	userID, ok := ac.userID(w, r)
	if !ok {
		return
	}
	var payload submitRequest
	if !ac.decode(w, r, &payload) {
		return
	}
	result, err := ac.service.Submit(r.Context(), userID, payload.Answers)
	if err != nil {
		ac.fail(w, r, err)
		return
	}
	ac.writeJSON(w, http.StatusCreated, result)
}

func (ac *AssessmentController) History(w http.ResponseWriter, r *http.Request) {
	userID, ok := ac.userID(w, r)
	if !ok {
		return
	}
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			ac.fail(w, r, errBadRequest)
			return
		}
		limit = min(n, maxHistoryLimit)
	}
	results, err := ac.service.History(r.Context(), userID, limit)
	if err != nil {
		ac.fail(w, r, err)
		return
	}
	ac.writeJSON(w, http.StatusOK, results)
}

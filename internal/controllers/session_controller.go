package controllers

import (
	"net/http"

	"calmd/internal/models"
	"calmd/internal/providers"
	"calmd/internal/services"
)

type SessionController struct {
	baseController
	service services.SessionServiceInterface
}

func NewSessionController(logger providers.Logger, identity providers.IdentityProviderInterface, service services.SessionServiceInterface) *SessionController {
	return &SessionController{
		baseController: baseController{logger: logger, identity: identity},
		service:        service,
	}
}

type selectRequest struct {
	Pattern string `json:"pattern"`
}

func (sc *SessionController) State(w http.ResponseWriter, r *http.Request) {
	sc.run(w, r, sc.service.State)
}

func (sc *SessionController) Select(w http.ResponseWriter, r *http.Request) {
	userID, ok := sc.userID(w, r)
	if !ok {
		return
	}
	var payload selectRequest
	if !sc.decode(w, r, &payload) {
		return
	}
	if payload.Pattern == "" {
		sc.fail(w, r, errBadRequest)
		return
	}
	state, err := sc.service.Select(userID, payload.Pattern)
	if err != nil {
		sc.fail(w, r, err)
		return
	}
	sc.writeJSON(w, http.StatusOK, state)
}

func (sc *SessionController) Start(w http.ResponseWriter, r *http.Request) {
	sc.run(w, r, sc.service.Start)
}

func (sc *SessionController) Pause(w http.ResponseWriter, r *http.Request) {
	sc.run(w, r, sc.service.Pause)
}

func (sc *SessionController) Reset(w http.ResponseWriter, r *http.Request) {
	sc.run(w, r, sc.service.Reset)
}

func (sc *SessionController) run(w http.ResponseWriter, r *http.Request, command func(userID string) (models.SessionState, error)) {
	userID, ok := sc.userID(w, r)
	if !ok {
		return
	}
	state, err := command(userID)
	if err != nil {
		sc.fail(w, r, err)
		return
	}
	sc.writeJSON(w, http.StatusOK, state)
}

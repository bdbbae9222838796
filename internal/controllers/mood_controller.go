package controllers

import (
	"errors"
	"fmt"
	"net/http"

	"calmd/internal/models"
	"calmd/internal/providers"
	"calmd/internal/services"
)

// DefaultCalendarDays is the window served when /mood/calendar gets no range.
const DefaultCalendarDays = 30

type MoodController struct {
	baseController
	service services.MoodServiceInterface
	clock   providers.ClockInterface
}

func NewMoodController(logger providers.Logger, identity providers.IdentityProviderInterface, service services.MoodServiceInterface, clock providers.ClockInterface) *MoodController {
	return &MoodController{
		baseController: baseController{logger: logger, identity: identity},
		service:        service,
		clock:          clock,
	}
}

// moodConflictResponse tells the client the entry is stored even though the
// streak was not advanced, so it does not post the same mood again.
type moodConflictResponse struct {
	Error     string           `json:"error"`
	MoodSaved bool             `json:"mood_saved"`
	Event     models.MoodEvent `json:"event"`
}

func (mc *MoodController) Record(w http.ResponseWriter, r *http.Request) {
	userID, ok := mc.userID(w, r)
	if !ok {
		return
	}
	var payload services.MoodInput
	if !mc.decode(w, r, &payload) {
		return
	}

	result, err := mc.service.Record(r.Context(), userID, payload)
	var conflict *services.StreakConflictError
	if errors.As(err, &conflict) {
		mc.logger.Warnf(providers.TypePost, "%s", conflict)
		mc.writeJSON(w, http.StatusConflict, moodConflictResponse{
			Error:     conflict.Error(),
			MoodSaved: true,
			Event:     conflict.Event,
		})
		return
	}
	if err != nil {
		mc.fail(w, r, err)
		return
	}
	mc.writeJSON(w, http.StatusCreated, result)
}

// Streak is read from the store on every request and never cached.
func (mc *MoodController) Streak(w http.ResponseWriter, r *http.Request) {
	userID, ok := mc.userID(w, r)
	if !ok {
		return
	}
	view, err := mc.service.Streak(r.Context(), userID)
	if err != nil {
		mc.fail(w, r, err)
		return
	}
	mc.writeJSON(w, http.StatusOK, view)
}

type calendarResponse struct {
	From models.CalendarDay   `json:"from"`
	To   models.CalendarDay   `json:"to"`
	Days []models.CalendarDay `json:"days"`
}

// Calendar lists active days in [from, to]. Both default to a window ending today.
func (mc *MoodController) Calendar(w http.ResponseWriter, r *http.Request) {
	userID, ok := mc.userID(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	to := models.DayOf(mc.clock.Now())
	if raw := q.Get("to"); raw != "" {
		day, err := models.ParseDay(raw)
		if err != nil {
			mc.fail(w, r, fmt.Errorf("%w: to: %s", services.ErrInvalidRange, err))
			return
		}
		to = day
	}
	from := to.AddDays(1 - DefaultCalendarDays)
	if raw := q.Get("from"); raw != "" {
		day, err := models.ParseDay(raw)
		if err != nil {
			mc.fail(w, r, fmt.Errorf("%w: from: %s", services.ErrInvalidRange, err))
			return
		}
		from = day
	}

	days, err := mc.service.Calendar(r.Context(), userID, from, to)
	if err != nil {
		mc.fail(w, r, err)
		return
	}
	if days == nil {
		days = []models.CalendarDay{}
	}
	mc.writeJSON(w, http.StatusOK, calendarResponse{From: from, To: to, Days: days})
}

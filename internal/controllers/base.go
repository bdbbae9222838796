package controllers

import (
	"errors"
	"net/http"

	json "github.com/goccy/go-json"

	"calmd/internal/engagement"
	"calmd/internal/providers"
	"calmd/internal/services"
	"calmd/internal/storage"
)

const maxRequestBodySize = 64 << 10 // 64 KB

var errBadRequest = errors.New("malformed request")

type errorResponse struct {
	Error string `json:"error"`
}

// baseController carries what every user-facing handler needs: the caller's
// identity, the JSON codec and the response cache.
type baseController struct {
	logger   providers.Logger
	identity providers.IdentityProviderInterface
	cache    providers.CacheProviderInterface
}

func (bc *baseController) userID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id, err := bc.identity.UserID(r)
	if err != nil {
		bc.fail(w, r, err)
		return "", false
	}
	return id, true
}

func (bc *baseController) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		bc.fail(w, r, errBadRequest)
		return false
	}
	return true
}

func (bc *baseController) writeJSON(w http.ResponseWriter, status int, v any) {
	gson, err := json.Marshal(v)
	if err != nil {
		bc.logger.Errorf(providers.TypeApp, "Encode response: %s", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	writeRaw(w, status, gson)
}

func writeRaw(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func (bc *baseController) serveFromCacheOrCompute(w http.ResponseWriter, r *http.Request, cacheKey string, compute func() (any, error)) {
	if data, ok := bc.cache.Get(cacheKey); ok {
		writeRaw(w, http.StatusOK, data)
		return
	}

	result, err := compute()
	if err != nil {
		bc.fail(w, r, err)
		return
	}

	gson, err := json.Marshal(result)
	if err != nil {
		bc.fail(w, r, err)
		return
	}

	bc.cache.Set(cacheKey, gson)
	writeRaw(w, http.StatusOK, gson)
}

// fail maps a domain error onto its HTTP status. Anything unrecognised is a 500
// and gets logged on the request's channel.
func (bc *baseController) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		bc.logger.Errorf(providers.GetLogTypeByRequestType(r.Method), "%s %s: %s", r.Method, r.URL.Path, err)
		msg = http.StatusText(status)
	}
	bc.writeJSON(w, status, errorResponse{Error: msg})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, providers.ErrNoIdentity):
		return http.StatusUnauthorized
	case errors.Is(err, errBadRequest),
		errors.Is(err, services.ErrInvalidScore),
		errors.Is(err, services.ErrInvalidRange),
		errors.Is(err, engagement.ErrUnknownOption):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrUnknownPattern),
		errors.Is(err, services.ErrNoSession):
		return http.StatusNotFound
	case errors.Is(err, storage.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

package main

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"scorewatch-backend/lib/scorestore"
	"scorewatch-backend/lib/scrapers/jwc"
	"scorewatch-backend/services/scoresync"
)

type summary struct {
	Inserted int `json:"inserted"`
	Updated  int `json:"updated"`
}

type triggerResponse struct {
	Status  string  `json:"status"`
	Message string  `json:"message,omitempty"`
	Summary summary `json:"summary"`
}

type triggerHandler struct {
	config  Config
	secrets Secrets
	store   scorestore.Store
	notify  scoresync.Notifier

	// overlapping runs for the same credential would race on the
	// store keys, the trigger boundary serializes them
	runLock sync.Mutex
}

func writeJson(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func (h *triggerHandler) status(w http.ResponseWriter, r *http.Request) {
	writeJson(w, http.StatusOK, map[string]string{
		"status":  "online",
		"message": "scorewatch sync daemon is running",
	})
}

func (h *triggerHandler) fetchScores(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJson(w, http.StatusMethodNotAllowed, triggerResponse{
			Status:  "error",
			Message: "use POST",
		})
		return
	}

	secret := r.URL.Query().Get("secret")
	if subtle.ConstantTimeCompare([]byte(secret), []byte(h.secrets.TriggerToken)) != 1 {
		writeJson(w, http.StatusForbidden, triggerResponse{
			Status:  "error",
			Message: "invalid or missing secret",
		})
		return
	}

	if !h.runLock.TryLock() {
		writeJson(w, http.StatusConflict, triggerResponse{
			Status:  "error",
			Message: "a sync run is already in progress",
		})
		return
	}
	defer h.runLock.Unlock()

	ctx, cancel := context.WithTimeout(r.Context(), time.Minute*5)
	defer cancel()

	outcome, err := h.runSync(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "sync run failed", "err", err)
		writeJson(w, http.StatusInternalServerError, triggerResponse{
			Status:  "error",
			Message: runFailureMessage(err),
		})
		return
	}

	message := "score sync completed"
	if outcome.Note != "" {
		message = "score sync completed with a note: " + outcome.Note
	}
	writeJson(w, http.StatusOK, triggerResponse{
		Status:  "success",
		Message: message,
		Summary: summary{
			Inserted: outcome.Result.Inserted,
			Updated:  outcome.Result.Updated,
		},
	})
}

// a fresh portal client per run, a session is only valid for the
// lifetime of one sync
func (h *triggerHandler) runSync(ctx context.Context) (scoresync.RunOutcome, error) {
	client, err := jwc.NewClient(ctx, jwc.ClientOptions{
		BaseUrl: h.config.Portal.BaseUrl,
	})
	if err != nil {
		return scoresync.RunOutcome{}, err
	}

	service := scoresync.NewService(client, h.store, h.notify, scoresync.Options{
		Credentials: scoresync.Credentials{
			Username: h.secrets.Username,
			Password: h.secrets.Password,
		},
		Throttle: scoresync.Throttle{
			Base:   time.Duration(h.config.Throttle.BaseMs) * time.Millisecond,
			Jitter: time.Duration(h.config.Throttle.JitterMs) * time.Millisecond,
		},
	})
	return service.Sync(ctx)
}

func runFailureMessage(err error) string {
	switch {
	case errors.Is(err, scoresync.ErrAuth):
		return "login to the portal failed, check the configured credentials"
	case errors.Is(err, scoresync.ErrPersist):
		return "persisting scores failed, earlier writes of this run stand"
	default:
		return err.Error()
	}
}

// Package notifications exposes the notification dispatcher over HTTP:
// listing a user's notifications, sending ad-hoc ones, and retrying
// failures.
package notifications

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/shopkit-dev/shopkit/pkg/notification"
)

// Router mounts the notification endpoints on a fresh chi router. It is
// meant to be mounted under a /notifications prefix.
func Router(dispatcher *notification.Dispatcher) chi.Router {
	r := chi.NewRouter()

	r.Get("/users/{userID}", func(w http.ResponseWriter, req *http.Request) {
		userID, err := strconv.ParseInt(chi.URLParam(req, "userID"), 10, 64)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid user id")
			return
		}

		status := notification.Status(req.URL.Query().Get("status"))
		switch status {
		case "", notification.StatusPending, notification.StatusSent, notification.StatusFailed:
		default:
			respondError(w, http.StatusBadRequest, "invalid status filter")
			return
		}

		list, err := dispatcher.UserNotifications(req.Context(), userID, status)
		if err != nil {
			respondError(w, http.StatusInternalServerError, "internal error")
			return
		}
		respondStatus(w, http.StatusOK, list)
	})

	r.Get("/pending", func(w http.ResponseWriter, req *http.Request) {
		list, err := dispatcher.PendingNotifications(req.Context())
		if err != nil {
			respondError(w, http.StatusInternalServerError, "internal error")
			return
		}
		respondStatus(w, http.StatusOK, list)
	})

	r.Post("/send", func(w http.ResponseWriter, req *http.Request) {
		var body sendRequest
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			respondError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		if body.Channel == "" {
			body.Channel = notification.ChannelEmail
		}
		n := notification.New(body.UserID, body.Channel, body.Title, body.Message)
		var (
			delivered bool
			err       error
		)
		if body.Channels == nil {
			delivered, err = dispatcher.Send(req.Context(), n)
		} else {
			delivered, err = dispatcher.SendVia(req.Context(), n, body.Channels)
		}
		switch {
		case err == nil:
			respondStatus(w, http.StatusCreated, sendResponse{Delivered: delivered})
		case errors.Is(err, notification.ErrInvalidNotification):
			respondError(w, http.StatusBadRequest, err.Error())
		default:
			respondError(w, http.StatusInternalServerError, "internal error")
		}
	})

	r.Post("/retry", func(w http.ResponseWriter, req *http.Request) {
		recovered, err := dispatcher.RetryFailed(req.Context())
		if err != nil {
			respondError(w, http.StatusInternalServerError, "internal error")
			return
		}
		respondStatus(w, http.StatusOK, map[string]int{"recovered": recovered})
	})

	return r
}

type sendRequest struct {
	UserID  int64                `json:"user_id"`
	Channel notification.Channel `json:"channel"`
	Title   string               `json:"title"`
	Message string               `json:"message"`
	// Channels, when present, overrides the dispatcher's default channel
	// set. An explicit empty list persists without delivering.
	Channels []notification.Channel `json:"channels"`
}

type sendResponse struct {
	Delivered bool `json:"delivered"`
}

func respondStatus(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondStatus(w, status, map[string]string{"message": message})
}

package favorites

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// Router exposes the favorites service over HTTP. It expects to be mounted
// under a pattern carrying a userID parameter, e.g. /users/{userID}/favorites.
func Router(svc *Service) chi.Router {
	r := chi.NewRouter()

	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		userID, ok := userIDParam(w, req)
		if !ok {
			return
		}
		favs, err := svc.ListByUser(req.Context(), userID)
		if err != nil {
			respondError(w, http.StatusInternalServerError, "internal error")
			return
		}
		respondStatus(w, http.StatusOK, favs)
	})

	r.Post("/", func(w http.ResponseWriter, req *http.Request) {
		userID, ok := userIDParam(w, req)
		if !ok {
			return
		}
		var body struct {
			ProductID int64 `json:"product_id"`
		}
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			respondError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		fav, err := svc.Add(req.Context(), userID, body.ProductID)
		switch {
		case err == nil:
			respondStatus(w, http.StatusCreated, fav)
		case errors.Is(err, ErrInvalidFavorite):
			respondError(w, http.StatusBadRequest, err.Error())
		default:
			respondError(w, http.StatusInternalServerError, "internal error")
		}
	})

	r.Delete("/{productID}", func(w http.ResponseWriter, req *http.Request) {
		userID, ok := userIDParam(w, req)
		if !ok {
			return
		}
		productID, err := strconv.ParseInt(chi.URLParam(req, "productID"), 10, 64)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid product id")
			return
		}
		found, err := svc.Remove(req.Context(), userID, productID)
		if err != nil {
			respondError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if !found {
			respondError(w, http.StatusNotFound, "favorite not found")
			return
		}
		respondStatus(w, http.StatusOK, map[string]string{"message": "favorite removed"})
	})

	return r
}

func userIDParam(w http.ResponseWriter, req *http.Request) (int64, bool) {
	userID, err := strconv.ParseInt(chi.URLParam(req, "userID"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid user id")
		return 0, false
	}
	return userID, true
}

func respondStatus(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondStatus(w, status, map[string]string{"message": message})
}

package catalog

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// Router exposes the catalog over HTTP. Handlers are thin translation
// layers; all business rules live in the Service.
func Router(svc *Service) chi.Router {
	r := chi.NewRouter()

	r.Get("/products", func(w http.ResponseWriter, req *http.Request) {
		if category := req.URL.Query().Get("category"); category != "" {
			products, err := svc.ProductsByCategory(req.Context(), category)
			respond(w, products, err)
			return
		}
		products, err := svc.Products(req.Context())
		respond(w, products, err)
	})

	r.Get("/products/{id}", func(w http.ResponseWriter, req *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(req, "id"), 10, 64)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid product id")
			return
		}
		product, err := svc.ProductByID(req.Context(), id)
		respond(w, product, err)
	})

	r.Post("/products", func(w http.ResponseWriter, req *http.Request) {
		var p Product
		if err := json.NewDecoder(req.Body).Decode(&p); err != nil {
			respondError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		created, err := svc.CreateProduct(req.Context(), p)
		if err != nil {
			respond(w, nil, err)
			return
		}
		respondStatus(w, http.StatusCreated, created)
	})

	r.Put("/products/{id}/price", func(w http.ResponseWriter, req *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(req, "id"), 10, 64)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid product id")
			return
		}
		var body struct {
			Price        float64 `json:"price"`
			NotifyUserID int64   `json:"notify_user_id"`
		}
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			respondError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		product, err := svc.UpdatePrice(req.Context(), id, body.Price, body.NotifyUserID)
		respond(w, product, err)
	})

	r.Put("/products/{id}/restock", func(w http.ResponseWriter, req *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(req, "id"), 10, 64)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid product id")
			return
		}
		var body struct {
			Quantity     int64 `json:"quantity"`
			NotifyUserID int64 `json:"notify_user_id"`
		}
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			respondError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		product, err := svc.Restock(req.Context(), id, body.Quantity, body.NotifyUserID)
		respond(w, product, err)
	})

	r.Delete("/products/{id}", func(w http.ResponseWriter, req *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(req, "id"), 10, 64)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid product id")
			return
		}
		found, err := svc.DeleteProduct(req.Context(), id)
		if err != nil {
			respond(w, nil, err)
			return
		}
		if !found {
			respondError(w, http.StatusNotFound, "product not found")
			return
		}
		respondStatus(w, http.StatusOK, map[string]string{"message": "product deleted"})
	})

	r.Get("/categories", func(w http.ResponseWriter, req *http.Request) {
		categories, err := svc.Categories(req.Context())
		respond(w, categories, err)
	})

	r.Post("/categories", func(w http.ResponseWriter, req *http.Request) {
		var body struct {
			Name string `json:"name"`
		}
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			respondError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		created, err := svc.CreateCategory(req.Context(), body.Name)
		if err != nil {
			respond(w, nil, err)
			return
		}
		respondStatus(w, http.StatusCreated, created)
	})

	return r
}

func respond(w http.ResponseWriter, payload any, err error) {
	switch {
	case err == nil:
		respondStatus(w, http.StatusOK, payload)
	case errors.Is(err, ErrNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrInvalidProduct), errors.Is(err, ErrInvalidCategory), errors.Is(err, ErrDuplicateCategory):
		respondError(w, http.StatusBadRequest, err.Error())
	default:
		respondError(w, http.StatusInternalServerError, "internal error")
	}
}

func respondStatus(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondStatus(w, status, map[string]string{"message": message})
}

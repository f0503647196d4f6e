package auth

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/avelasquez/courseapi/internal/models"
	"github.com/avelasquez/courseapi/internal/store"
	"github.com/avelasquez/courseapi/internal/validate"
)

// UserStore defines the interface for user persistence.
type UserStore interface {
	CreateUser(ctx context.Context, u *models.User) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// Handler holds user-related HTTP handlers.
type Handler struct {
	users UserStore
}

func NewHandler(users UserStore) *Handler {
	return &Handler{users: users}
}

// Register creates a new user. On success the body is empty and Location
// points at the site root; constraint failures come back as an ordered
// message list under "errors".
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	// An empty body reads as an empty payload, so it reports the full
	// required-field message list rather than a generic decode error.
	var req models.UserPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid request body"})
		return
	}

	if errs := validate.NewUser(&req); errs != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"errors": errs})
		return
	}

	digest, err := HashPassword(*req.Password)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "internal error"})
		return
	}

	user := &models.User{
		FirstName:    *req.FirstName,
		LastName:     *req.LastName,
		EmailAddress: *req.EmailAddress,
		Password:     digest,
	}
	if _, err := h.users.CreateUser(r.Context(), user); err != nil {
		var verr *store.ValidationError
		if errors.As(err, &verr) {
			writeJSON(w, http.StatusBadRequest, map[string]any{"errors": verr.Messages})
			return
		}
		log.Printf("register: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "internal error"})
		return
	}

	w.Header().Set("Location", "/")
	w.WriteHeader(http.StatusCreated)
}

// Me returns the authenticated user's profile.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := IdentityFrom(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Access Denied"})
		return
	}
	writeJSON(w, http.StatusOK, models.Profile{
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		EmailAddress: user.EmailAddress,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

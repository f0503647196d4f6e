package middleware

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/avelasquez/courseapi/internal/auth"
	"github.com/avelasquez/courseapi/internal/store"
)

// RequireAuth validates HTTP Basic credentials (email:password) against the
// user store and injects the resolved user into the request context. Every
// failure mode answers with the same fixed 401 so a caller can't probe
// which half of the pair was wrong.
func RequireAuth(users auth.UserStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			email, password, ok := r.BasicAuth()
			if !ok {
				denied(w)
				return
			}

			user, err := users.GetUserByEmail(r.Context(), email)
			if err != nil {
				if errors.Is(err, store.ErrNotFound) {
					denied(w)
					return
				}
				log.Printf("auth lookup: %v", err)
				writeMessage(w, http.StatusInternalServerError, "internal error")
				return
			}

			if !auth.CheckPassword(password, user.Password) {
				denied(w)
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithIdentity(r.Context(), user)))
		})
	}
}

func denied(w http.ResponseWriter) {
	writeMessage(w, http.StatusUnauthorized, "Access Denied")
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"message": msg})
}

package handler

import (
	"encoding/json"
	"net/http"
	"regexp"

	"github.com/Milad704/socialmedia/internal/entity"
	"github.com/Milad704/socialmedia/internal/middleware"
)

var namePattern = regexp.MustCompile(`^[a-zA-Z0-9_.-]{3,32}$`)

func validateName(name string) bool {
	return namePattern.MatchString(name)
}

func decodeJSON(r *http.Request, dst any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(dst)
}

// requireAccount pulls the authenticated account off the context; the auth
// middleware guarantees it is there on protected routes.
func requireAccount(w http.ResponseWriter, r *http.Request) (entity.Account, bool) {
	account, ok := middleware.AccountFrom(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return entity.Account{}, false
	}
	return account, true
}

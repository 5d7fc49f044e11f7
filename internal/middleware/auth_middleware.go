package middleware

import (
	"context"
	"net/http"

	"github.com/Milad704/socialmedia/internal/entity"
	"github.com/gorilla/sessions"
)

type contextKey string

const AccountKey contextKey = "account"

// AuthMiddleware resolves the session cookie into the logged-in account and
// puts it on the request context. Requests without a valid session get a 401;
// the SPA redirects to its login view on that status.
func AuthMiddleware(store *sessions.CookieStore, next func(w http.ResponseWriter, r *http.Request)) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		session, err := store.Get(r, "auth-session")
		if err != nil {
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		accountUUID, ok1 := session.Values["account_uuid"].(string)
		name, ok2 := session.Values["name"].(string)

		if !(ok1 && ok2) {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		account := entity.Account{
			UUID: accountUUID,
			Name: name,
		}

		ctx := context.WithValue(r.Context(), AccountKey, account)
		r = r.WithContext(ctx)

		next(w, r)
	}
}

// AccountFrom pulls the authenticated account off the context.
func AccountFrom(ctx context.Context) (entity.Account, bool) {
	account, ok := ctx.Value(AccountKey).(entity.Account)
	return account, ok
}

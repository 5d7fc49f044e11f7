package handler

import (
	"net/http"

	"github.com/Milad704/socialmedia/internal/service"
	"github.com/Milad704/socialmedia/internal/view"
	"github.com/Milad704/socialmedia/pkg/apperr"
	"github.com/gorilla/sessions"
)

type credentialFields struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

type AuthHandler struct {
	authService service.AuthService
	cookieStore *sessions.CookieStore
	presenter   *view.Presenter
}

func NewAuthHandler(authService service.AuthService, cookieStore *sessions.CookieStore, presenter *view.Presenter) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		cookieStore: cookieStore,
		presenter:   presenter,
	}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var request credentialFields
	if err := decodeJSON(r, &request); err != nil {
		h.presenter.RenderError(w, apperr.InvalidArg("malformed request body"))
		return
	}
	if !validateName(request.Name) {
		h.presenter.RenderError(w, apperr.InvalidArg("name must be 3-32 chars of letters, digits, '_', '.' or '-'"))
		return
	}

	account, err := h.authService.Register(request.Name, request.Password)
	if err != nil {
		h.presenter.RenderError(w, err)
		return
	}
	h.presenter.RenderJSON(w, http.StatusCreated, view.Account(account))
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var request credentialFields
	if err := decodeJSON(r, &request); err != nil {
		h.presenter.RenderError(w, apperr.InvalidArg("malformed request body"))
		return
	}

	account, err := h.authService.Login(request.Name, request.Password)
	if err != nil {
		h.presenter.RenderError(w, err)
		return
	}

	session, _ := h.cookieStore.Get(r, "auth-session")
	session.Values["account_uuid"] = account.UUID
	session.Values["name"] = account.Name
	if err := sessions.Save(r, w); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	h.presenter.RenderJSON(w, http.StatusOK, view.Account(account))
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	session, _ := h.cookieStore.Get(r, "auth-session")
	session.Options.MaxAge = -1
	if err := sessions.Save(r, w); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	h.presenter.RenderJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

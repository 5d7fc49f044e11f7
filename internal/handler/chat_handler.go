package handler

import (
	"net/http"

	"github.com/Milad704/socialmedia/internal/chat"
	"github.com/Milad704/socialmedia/internal/view"
	"github.com/Milad704/socialmedia/pkg/apperr"
	"github.com/gorilla/mux"
)

type ChatHandler struct {
	api       *chat.API
	presenter *view.Presenter
}

func NewChatHandler(api *chat.API, presenter *view.Presenter) *ChatHandler {
	return &ChatHandler{
		api:       api,
		presenter: presenter,
	}
}

// OpenDirect binds (on first use) the 1:1 conversation with the named peer and
// returns its key, so the SPA can address messages and the live stream.
func (h *ChatHandler) OpenDirect(w http.ResponseWriter, r *http.Request) {
	account, ok := requireAccount(w, r)
	if !ok {
		return
	}
	peer := mux.Vars(r)["peer"]

	conversationID, err := h.api.EnsureDirect(account.UUID, peer)
	if err != nil {
		h.presenter.RenderError(w, err)
		return
	}
	h.presenter.RenderJSON(w, http.StatusOK, map[string]string{"conversation-id": conversationID})
}

func (h *ChatHandler) CreateGroup(w http.ResponseWriter, r *http.Request) {
	account, ok := requireAccount(w, r)
	if !ok {
		return
	}

	var request struct {
		Name    string   `json:"name"`
		Members []string `json:"members"`
	}
	if err := decodeJSON(r, &request); err != nil {
		h.presenter.RenderError(w, apperr.InvalidArg("malformed request body"))
		return
	}

	groupID, err := h.api.CreateGroup(account.UUID, request.Name, request.Members)
	if err != nil {
		h.presenter.RenderError(w, err)
		return
	}
	h.presenter.RenderJSON(w, http.StatusCreated, map[string]string{"group-id": groupID})
}

func (h *ChatHandler) ListGroups(w http.ResponseWriter, r *http.Request) {
	account, ok := requireAccount(w, r)
	if !ok {
		return
	}

	groups, err := h.api.GroupsFor(account.UUID)
	if err != nil {
		h.presenter.RenderError(w, err)
		return
	}
	h.presenter.RenderJSON(w, http.StatusOK, view.Conversations(groups))
}

// ListMessages is the finite snapshot read; the live stream lives on /ws.
func (h *ChatHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireAccount(w, r); !ok {
		return
	}
	conversationID := mux.Vars(r)["id"]

	messages, err := h.api.Messages(conversationID)
	if err != nil {
		h.presenter.RenderError(w, err)
		return
	}
	h.presenter.RenderJSON(w, http.StatusOK, view.Messages(messages))
}

func (h *ChatHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	account, ok := requireAccount(w, r)
	if !ok {
		return
	}
	conversationID := mux.Vars(r)["id"]

	var request struct {
		Body string `json:"body"`
	}
	if err := decodeJSON(r, &request); err != nil {
		h.presenter.RenderError(w, apperr.InvalidArg("malformed request body"))
		return
	}

	message, err := h.api.SendTo(conversationID, account.UUID, request.Body)
	if err != nil {
		h.presenter.RenderError(w, err)
		return
	}
	h.presenter.RenderJSON(w, http.StatusCreated, view.Message(message))
}

func (h *ChatHandler) DeleteMessage(w http.ResponseWriter, r *http.Request) {
	account, ok := requireAccount(w, r)
	if !ok {
		return
	}
	vars := mux.Vars(r)

	if err := h.api.DeleteIn(vars["id"], vars["messageId"], account.UUID); err != nil {
		h.presenter.RenderError(w, err)
		return
	}
	h.presenter.RenderJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *ChatHandler) LeaveGroup(w http.ResponseWriter, r *http.Request) {
	account, ok := requireAccount(w, r)
	if !ok {
		return
	}
	conversationID := mux.Vars(r)["id"]

	if err := h.api.Leave(conversationID, account.UUID); err != nil {
		h.presenter.RenderError(w, err)
		return
	}
	h.presenter.RenderJSON(w, http.StatusOK, map[string]string{"status": "left"})
}

package handler

import (
	"net/http"

	"github.com/Milad704/socialmedia/internal/service"
	"github.com/Milad704/socialmedia/internal/view"
	"github.com/Milad704/socialmedia/pkg/apperr"
	"github.com/gorilla/mux"
)

type FriendHandler struct {
	directory service.DirectoryService
	presenter *view.Presenter
}

func NewFriendHandler(directory service.DirectoryService, presenter *view.Presenter) *FriendHandler {
	return &FriendHandler{
		directory: directory,
		presenter: presenter,
	}
}

func (h *FriendHandler) ListFriends(w http.ResponseWriter, r *http.Request) {
	account, ok := requireAccount(w, r)
	if !ok {
		return
	}

	friends, err := h.directory.Friends(account.UUID)
	if err != nil {
		h.presenter.RenderError(w, err)
		return
	}
	h.presenter.RenderJSON(w, http.StatusOK, view.Accounts(friends))
}

func (h *FriendHandler) RemoveFriend(w http.ResponseWriter, r *http.Request) {
	account, ok := requireAccount(w, r)
	if !ok {
		return
	}
	friendUUID := mux.Vars(r)["uuid"]

	if err := h.directory.RemoveFriend(account.UUID, friendUUID); err != nil {
		h.presenter.RenderError(w, err)
		return
	}
	h.presenter.RenderJSON(w, http.StatusOK, map[string]string{"status": "removed"})
}

func (h *FriendHandler) SendRequest(w http.ResponseWriter, r *http.Request) {
	account, ok := requireAccount(w, r)
	if !ok {
		return
	}

	var request struct {
		To string `json:"to"`
	}
	if err := decodeJSON(r, &request); err != nil {
		h.presenter.RenderError(w, apperr.InvalidArg("malformed request body"))
		return
	}

	if err := h.directory.SendRequest(account.UUID, request.To); err != nil {
		h.presenter.RenderError(w, err)
		return
	}
	h.presenter.RenderJSON(w, http.StatusCreated, map[string]string{"status": "pending"})
}

// ListRequests returns both directions of the pending set, with sender names
// resolved so the UI does not have to chase uuids.
func (h *FriendHandler) ListRequests(w http.ResponseWriter, r *http.Request) {
	account, ok := requireAccount(w, r)
	if !ok {
		return
	}

	incoming, err := h.directory.PendingIncoming(account.UUID)
	if err != nil {
		h.presenter.RenderError(w, err)
		return
	}
	outgoing, err := h.directory.PendingOutgoing(account.UUID)
	if err != nil {
		h.presenter.RenderError(w, err)
		return
	}

	type requestView struct {
		UUID string `json:"uuid"`
		Name string `json:"name"`
	}
	present := func(uuids []string) []requestView {
		views := make([]requestView, 0, len(uuids))
		for _, uuid := range uuids {
			name := uuid
			if peer, err := h.directory.Get(uuid); err == nil {
				name = peer.Name
			}
			views = append(views, requestView{UUID: uuid, Name: name})
		}
		return views
	}

	in := make([]string, 0, len(incoming))
	for _, req := range incoming {
		in = append(in, req.FromUUID)
	}
	out := make([]string, 0, len(outgoing))
	for _, req := range outgoing {
		out = append(out, req.ToUUID)
	}

	h.presenter.RenderJSON(w, http.StatusOK, map[string]any{
		"incoming": present(in),
		"outgoing": present(out),
	})
}

func (h *FriendHandler) AcceptRequest(w http.ResponseWriter, r *http.Request) {
	account, ok := requireAccount(w, r)
	if !ok {
		return
	}
	fromUUID := mux.Vars(r)["uuid"]

	if err := h.directory.AcceptRequest(account.UUID, fromUUID); err != nil {
		h.presenter.RenderError(w, err)
		return
	}
	h.presenter.RenderJSON(w, http.StatusOK, map[string]string{"status": "accepted"})
}

func (h *FriendHandler) RejectRequest(w http.ResponseWriter, r *http.Request) {
	account, ok := requireAccount(w, r)
	if !ok {
		return
	}
	fromUUID := mux.Vars(r)["uuid"]

	if err := h.directory.RejectRequest(account.UUID, fromUUID); err != nil {
		h.presenter.RenderError(w, err)
		return
	}
	h.presenter.RenderJSON(w, http.StatusOK, map[string]string{"status": "rejected"})
}

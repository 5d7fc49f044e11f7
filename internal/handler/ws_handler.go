package handler

import (
	"net/http"

	"github.com/Milad704/socialmedia/internal/chat"
	"github.com/Milad704/socialmedia/internal/view"
	"github.com/Milad704/socialmedia/pkg/nlog"
	"github.com/gorilla/mux"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"
)

// WSHandler streams live conversation snapshots to the SPA. One websocket
// connection maps to exactly one open handle; the handle is closed on every
// exit path, so the subscription can never outlive the socket.
type WSHandler struct {
	api    *chat.API
	logger nlog.Logger
}

func NewWSHandler(api *chat.API, logger nlog.Logger) *WSHandler {
	return &WSHandler{
		api:    api,
		logger: logger,
	}
}

func (h *WSHandler) Logf(format string, v ...any) {
	h.logger.Logf(format, v...)
}

// StreamDirect serves /ws/direct/{peer}.
func (h *WSHandler) StreamDirect(w http.ResponseWriter, r *http.Request) {
	account, ok := requireAccount(w, r)
	if !ok {
		return
	}
	peer := mux.Vars(r)["peer"]

	handle, err := h.api.OpenDirect(account.UUID, peer)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	h.stream(w, r, handle)
}

// StreamGroup serves /ws/groups/{id}.
func (h *WSHandler) StreamGroup(w http.ResponseWriter, r *http.Request) {
	account, ok := requireAccount(w, r)
	if !ok {
		return
	}
	groupID := mux.Vars(r)["id"]

	handle, err := h.api.OpenGroup(account.UUID, groupID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	h.stream(w, r, handle)
}

type snapshotFrame struct {
	ConversationID string             `json:"conversation-id"`
	Kind           string             `json:"kind"`
	Title          string             `json:"title"`
	Members        []string           `json:"members"`
	Messages       []view.MessageView `json:"messages"`
}

func (h *WSHandler) stream(w http.ResponseWriter, r *http.Request, handle *chat.Handle) {
	defer h.api.Close(handle)

	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		h.Logf("Websocket accept failed on %s: %v", handle.ConversationID, err)
		return
	}
	defer conn.Close(websocket.StatusInternalError, "stream ended")

	// The client never writes; CloseRead hands us a context that dies when
	// the peer goes away.
	ctx := conn.CloseRead(r.Context())

	for {
		select {
		case <-ctx.Done():
			conn.Close(websocket.StatusNormalClosure, "bye")
			return
		case snapshot, open := <-handle.Updates():
			if !open {
				conn.Close(websocket.StatusNormalClosure, "subscription closed")
				return
			}
			frame := snapshotFrame{
				ConversationID: snapshot.ConversationID,
				Kind:           string(snapshot.Kind),
				Title:          snapshot.Title,
				Members:        snapshot.Members,
				Messages:       view.Messages(snapshot.Messages),
			}
			if err := wsjson.Write(ctx, conn, frame); err != nil {
				h.Logf("Websocket write failed on %s: %v", handle.ConversationID, err)
				return
			}
		}
	}
}

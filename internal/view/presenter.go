package view

import (
	"encoding/json"
	"net/http"

	"github.com/Milad704/socialmedia/internal/entity"
	"github.com/Milad704/socialmedia/pkg/apperr"
)

// Presenter shapes entities into the JSON payloads the SPA consumes and maps
// error codes onto HTTP statuses. All handler output funnels through here.
type Presenter struct{}

func NewPresenter() *Presenter {
	return &Presenter{}
}

type AccountView struct {
	UUID string `json:"uuid"`
	Name string `json:"name"`
}

type MessageView struct {
	ID        string `json:"id"`
	Sender    string `json:"sender"`
	Body      string `json:"body"`
	Seq       uint64 `json:"seq"`
	CreatedAt int64  `json:"created-at"`
	Deleted   bool   `json:"deleted"`
}

type ConversationView struct {
	ID      string   `json:"id"`
	Kind    string   `json:"kind"`
	Name    string   `json:"name"`
	Members []string `json:"members"`
}

func Account(a *entity.Account) AccountView {
	return AccountView{UUID: a.UUID, Name: a.Name}
}

func Accounts(accounts []*entity.Account) []AccountView {
	views := make([]AccountView, 0, len(accounts))
	for _, a := range accounts {
		views = append(views, Account(a))
	}
	return views
}

func Message(m *entity.Message) MessageView {
	return MessageView{
		ID:        m.ID,
		Sender:    m.Sender,
		Body:      m.Body,
		Seq:       m.Seq,
		CreatedAt: m.CreatedAt.UnixMilli(),
		Deleted:   m.Deleted,
	}
}

func Messages(messages []*entity.Message) []MessageView {
	views := make([]MessageView, 0, len(messages))
	for _, m := range messages {
		views = append(views, Message(m))
	}
	return views
}

func Conversation(c *entity.Conversation) ConversationView {
	members := make([]string, 0, len(c.Members))
	for _, m := range c.Members {
		members = append(members, m.AccountUUID)
	}
	return ConversationView{ID: c.ID, Kind: string(c.Kind), Name: c.Name, Members: members}
}

func Conversations(conversations []*entity.Conversation) []ConversationView {
	views := make([]ConversationView, 0, len(conversations))
	for _, c := range conversations {
		views = append(views, Conversation(c))
	}
	return views
}

func (p *Presenter) RenderJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// RenderError maps the typed taxonomy to a status and ships the code to the
// UI, which decides presentation.
func (p *Presenter) RenderError(w http.ResponseWriter, err error) {
	code := apperr.CodeOf(err)

	status := http.StatusInternalServerError
	switch code {
	case apperr.CodeInvalidArg:
		status = http.StatusBadRequest
	case apperr.CodeNotFound:
		status = http.StatusNotFound
	case apperr.CodeAlreadyExists:
		status = http.StatusConflict
	case apperr.CodeNotAMember, apperr.CodeNotSender:
		status = http.StatusForbidden
	case apperr.CodeUnauthorized:
		status = http.StatusUnauthorized
	case apperr.CodePrecondition:
		status = http.StatusConflict
	case apperr.CodeTransient:
		status = http.StatusServiceUnavailable
	}

	p.RenderJSON(w, status, map[string]string{
		"code":  string(code),
		"error": err.Error(),
	})
}

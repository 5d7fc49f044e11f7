package input

import (
	"context"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/Milad704/socialmedia/internal/chat"
	"github.com/Milad704/socialmedia/internal/handler"
	"github.com/Milad704/socialmedia/internal/middleware"
	"github.com/Milad704/socialmedia/internal/service"
	"github.com/Milad704/socialmedia/internal/view"
	"github.com/Milad704/socialmedia/pkg/nlog"
	"github.com/gorilla/mux"
	"github.com/gorilla/sessions"
)

type IptConfig struct {
	ServerPort   uint16
	ReadTimeout  int64
	WriteTimeout int64
	SecretKey    string
}

// InputManager owns the HTTP surface: router, sessions, middleware and the
// server lifecycle. It can be paused to shed traffic during maintenance
// without dropping the process.
type InputManager struct {
	running atomic.Bool
	paused  atomic.Bool

	logger nlog.Logger
	server *http.Server

	stopFromOutsideChan chan struct{}
	doneFromInsideChan  chan struct{}

	authService     service.AuthService
	directory       service.DirectoryService
	gallery         service.GalleryService
	conversationAPI *chat.API
}

func NewInputManager() *InputManager {
	return &InputManager{
		running:             atomic.Bool{},
		paused:              atomic.Bool{},
		stopFromOutsideChan: make(chan struct{}),
		doneFromInsideChan:  make(chan struct{}),
	}
}

func (i *InputManager) IsReady() bool {
	return i.logger != nil && i.authService != nil && i.directory != nil && i.conversationAPI != nil
}

func (i *InputManager) IsRunning() bool {
	return i.running.Load()
}

func (i *InputManager) SetLogger(l nlog.Logger) {
	i.logger = l
}

func (i *InputManager) SetAuthService(as service.AuthService) {
	i.authService = as
}

func (i *InputManager) SetDirectoryService(ds service.DirectoryService) {
	i.directory = ds
}

func (i *InputManager) SetGalleryService(gs service.GalleryService) {
	i.gallery = gs
}

func (i *InputManager) SetConversationAPI(api *chat.API) {
	i.conversationAPI = api
}

func (i *InputManager) Logf(format string, a ...any) {
	i.logger.Logf(format, a...)
}

func (i *InputManager) SetPause(paused bool) {
	i.paused.Store(paused)
}

func (i *InputManager) IsPaused() bool {
	return i.paused.Load()
}

// PauseMiddleware refuses every request with a 503 while the manager is
// paused.
func (i *InputManager) PauseMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if i.IsPaused() {
			http.Error(w, "Service is paused", http.StatusServiceUnavailable)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (i *InputManager) Run(ctx context.Context, cfg *IptConfig) error {
	if !i.IsReady() {
		return fmt.Errorf("The Input manager is not ready... Missing components")
	}
	i.Logf("Input service started...")

	cookieStore := sessions.NewCookieStore([]byte(cfg.SecretKey))
	cookieStore.Options = &sessions.Options{
		Path:     "/",
		HttpOnly: true,
		Secure:   false,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(7 * 24 * time.Hour.Seconds()),
	}

	presenter := view.NewPresenter()

	// Handlers
	authHandler := handler.NewAuthHandler(i.authService, cookieStore, presenter)
	friendHandler := handler.NewFriendHandler(i.directory, presenter)
	chatHandler := handler.NewChatHandler(i.conversationAPI, presenter)
	wsHandler := handler.NewWSHandler(i.conversationAPI, i.logger)
	galleryHandler := handler.NewGalleryHandler(i.gallery, presenter)

	auth := func(next func(http.ResponseWriter, *http.Request)) func(http.ResponseWriter, *http.Request) {
		return middleware.AuthMiddleware(cookieStore, next)
	}

	// Router
	r := mux.NewRouter()
	r.Use(i.PauseMiddleware)

	// Authentication routes
	r.HandleFunc("/register", authHandler.Register).Methods("POST")
	r.HandleFunc("/login", authHandler.Login).Methods("POST")
	r.HandleFunc("/logout", authHandler.Logout).Methods("POST")

	// Friend directory routes
	r.HandleFunc("/friends", auth(friendHandler.ListFriends)).Methods("GET")
	r.HandleFunc("/friends/{uuid}", auth(friendHandler.RemoveFriend)).Methods("DELETE")
	r.HandleFunc("/friends/requests", auth(friendHandler.ListRequests)).Methods("GET")
	r.HandleFunc("/friends/requests", auth(friendHandler.SendRequest)).Methods("POST")
	r.HandleFunc("/friends/requests/{uuid}/accept", auth(friendHandler.AcceptRequest)).Methods("POST")
	r.HandleFunc("/friends/requests/{uuid}/reject", auth(friendHandler.RejectRequest)).Methods("POST")

	// Conversation routes
	r.HandleFunc("/conversations/direct/{peer}", auth(chatHandler.OpenDirect)).Methods("POST")
	r.HandleFunc("/groups", auth(chatHandler.CreateGroup)).Methods("POST")
	r.HandleFunc("/groups", auth(chatHandler.ListGroups)).Methods("GET")
	r.HandleFunc("/conversations/{id}/messages", auth(chatHandler.ListMessages)).Methods("GET")
	r.HandleFunc("/conversations/{id}/messages", auth(chatHandler.SendMessage)).Methods("POST")
	r.HandleFunc("/conversations/{id}/messages/{messageId}", auth(chatHandler.DeleteMessage)).Methods("DELETE")
	r.HandleFunc("/conversations/{id}/leave", auth(chatHandler.LeaveGroup)).Methods("POST")

	// Live streams
	r.HandleFunc("/ws/direct/{peer}", auth(wsHandler.StreamDirect)).Methods("GET")
	r.HandleFunc("/ws/groups/{id}", auth(wsHandler.StreamGroup)).Methods("GET")

	// Gallery routes
	r.HandleFunc("/images", auth(galleryHandler.Upload)).Methods("POST")
	r.HandleFunc("/images", auth(galleryHandler.List)).Methods("GET")
	r.HandleFunc("/images/{id}", auth(galleryHandler.Delete)).Methods("DELETE")

	i.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
	}

	go func() {
		i.running.Store(true)
		if err := i.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			i.Logf("HTTP server error: %v", err)
		}
		i.running.Store(false)
		i.doneFromInsideChan <- struct{}{}
	}()

	select {
	case <-ctx.Done():
	case <-i.stopFromOutsideChan:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := i.server.Shutdown(shutdownCtx); err != nil {
		i.Logf("HTTP shutdown error: %v", err)
	}
	<-i.doneFromInsideChan
	i.Logf("Input service stopped")
	return nil
}

func (i *InputManager) Stop() {
	if i.running.Load() {
		i.stopFromOutsideChan <- struct{}{}
	}
}

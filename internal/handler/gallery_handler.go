package handler

import (
	"net/http"

	"github.com/Milad704/socialmedia/internal/service"
	"github.com/Milad704/socialmedia/internal/view"
	"github.com/Milad704/socialmedia/pkg/apperr"
	"github.com/gorilla/mux"
)

type GalleryHandler struct {
	gallery   service.GalleryService
	presenter *view.Presenter
}

func NewGalleryHandler(gallery service.GalleryService, presenter *view.Presenter) *GalleryHandler {
	return &GalleryHandler{
		gallery:   gallery,
		presenter: presenter,
	}
}

func (h *GalleryHandler) Upload(w http.ResponseWriter, r *http.Request) {
	account, ok := requireAccount(w, r)
	if !ok {
		return
	}

	var request struct {
		Data string `json:"data"`
	}
	if err := decodeJSON(r, &request); err != nil {
		h.presenter.RenderError(w, apperr.InvalidArg("malformed request body"))
		return
	}

	image, err := h.gallery.Save(account.UUID, request.Data)
	if err != nil {
		h.presenter.RenderError(w, err)
		return
	}
	h.presenter.RenderJSON(w, http.StatusCreated, image)
}

func (h *GalleryHandler) List(w http.ResponseWriter, r *http.Request) {
	account, ok := requireAccount(w, r)
	if !ok {
		return
	}

	images, err := h.gallery.List(account.UUID)
	if err != nil {
		h.presenter.RenderError(w, err)
		return
	}
	h.presenter.RenderJSON(w, http.StatusOK, images)
}

func (h *GalleryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	account, ok := requireAccount(w, r)
	if !ok {
		return
	}
	imageID := mux.Vars(r)["id"]

	if err := h.gallery.Delete(account.UUID, imageID); err != nil {
		h.presenter.RenderError(w, err)
		return
	}
	h.presenter.RenderJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

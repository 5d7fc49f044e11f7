package service

import (
	"strings"
	"time"

	"github.com/Milad704/socialmedia/internal/entity"
	"github.com/Milad704/socialmedia/internal/repository"
	"github.com/Milad704/socialmedia/pkg/apperr"
	"github.com/Milad704/socialmedia/pkg/nlog"
	"github.com/google/uuid"
)

// GalleryService stores camera captures under their owner.
type GalleryService interface {
	Save(ownerUUID, dataURL string) (*entity.Image, error)
	List(ownerUUID string) ([]*entity.Image, error)
	Delete(ownerUUID, imageID string) error
}

type localGalleryService struct {
	images repository.ImageRepository
	logger nlog.Logger
}

func NewGalleryService(images repository.ImageRepository, logger nlog.Logger) GalleryService {
	return &localGalleryService{
		images: images,
		logger: logger,
	}
}

func (g *localGalleryService) Logf(format string, v ...any) {
	g.logger.Logf(format, v...)
}

func (g *localGalleryService) Save(ownerUUID, dataURL string) (*entity.Image, error) {
	if !strings.HasPrefix(dataURL, "data:image/") {
		return nil, apperr.InvalidArg("payload is not an image data URL")
	}

	image := &entity.Image{
		ID:        uuid.New().String(),
		OwnerUUID: ownerUUID,
		Data:      dataURL,
		CreatedAt: time.Now(),
	}
	if err := g.images.Create(image); err != nil {
		return nil, err
	}

	g.Logf("Image %s saved for %s", image.ID, ownerUUID)
	return image, nil
}

func (g *localGalleryService) List(ownerUUID string) ([]*entity.Image, error) {
	return g.images.ForOwner(ownerUUID)
}

func (g *localGalleryService) Delete(ownerUUID, imageID string) error {
	image, err := g.images.GetByID(imageID)
	if err != nil {
		return err
	}
	if image.OwnerUUID != ownerUUID {
		return apperr.New(apperr.CodeNotSender, "only the owner can delete an image")
	}
	return g.images.Delete(imageID)
}

package repository

import (
	"github.com/Milad704/socialmedia/internal/entity"
	"github.com/Milad704/socialmedia/pkg/apperr"
	"gorm.io/gorm"
)

type ImageRepository interface {
	Create(image *entity.Image) error
	GetByID(id string) (*entity.Image, error)
	ForOwner(ownerUUID string) ([]*entity.Image, error)
	Delete(id string) error
}

type SQLiteImageRepository struct {
	db *gorm.DB
}

func NewSQLiteImageRepository(db *gorm.DB) ImageRepository {
	return &SQLiteImageRepository{db}
}

func (repo *SQLiteImageRepository) Create(image *entity.Image) error {
	if err := repo.db.Create(image).Error; err != nil {
		return apperr.Transient("image create failed", err)
	}
	return nil
}

func (repo *SQLiteImageRepository) GetByID(id string) (*entity.Image, error) {
	var image entity.Image
	if err := repo.db.Where("id = ?", id).First(&image).Error; err != nil {
		return nil, mapStoreError(err, apperr.NotFound("image not found"))
	}
	return &image, nil
}

func (repo *SQLiteImageRepository) ForOwner(ownerUUID string) ([]*entity.Image, error) {
	var images []*entity.Image
	err := repo.db.Where("owner_uuid = ?", ownerUUID).Order("created_at DESC").Find(&images).Error
	if err != nil {
		return nil, apperr.Transient("image list failed", err)
	}
	return images, nil
}

func (repo *SQLiteImageRepository) Delete(id string) error {
	if err := repo.db.Where("id = ?", id).Delete(&entity.Image{}).Error; err != nil {
		return apperr.Transient("image delete failed", err)
	}
	return nil
}

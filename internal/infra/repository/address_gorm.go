package repository

import (
	"context"
	"errors"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type AddressGormRepository struct {
	db *gorm.DB
}

// DI
func NewAddressGormRepository(db *gorm.DB) *AddressGormRepository {
	return &AddressGormRepository{db: db}
}

// 住所を新規作成してIDが埋まったものを返す
func (r *AddressGormRepository) Create(ctx context.Context, address model.Address) (model.Address, error) {
	if err := r.db.WithContext(ctx).Create(&address).Error; err != nil {
		return model.Address{}, err
	}
	return address, nil
}

// ユーザーの住所一覧（デフォルトを先頭に）
func (r *AddressGormRepository) ListByUserID(ctx context.Context, userID int64) ([]model.Address, error) {
	var list []model.Address

	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("is_default desc").
		Order("id desc").
		Find(&list).Error
	if err != nil {
		return []model.Address{}, err
	}

	return list, nil
}

// IDで住所を1件取得
func (r *AddressGormRepository) FindByID(ctx context.Context, addressID int64) (model.Address, error) {
	var a model.Address

	err := r.db.WithContext(ctx).
		Where("id = ?", addressID).
		First(&a).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Address{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Address{}, err
	}
	return a, nil
}

// 住所がそのユーザーのものか
func (r *AddressGormRepository) IsOwnedByUser(ctx context.Context, addressID, userID int64) (bool, error) {
	var count int64

	err := r.db.WithContext(ctx).
		Model(&model.Address{}).
		Where("id = ? AND user_id = ?", addressID, userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

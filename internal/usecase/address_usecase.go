package usecase

import (
	"context"
	"net/http"
	"strings"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

type AddressUsecase struct {
	addresses repo.AddressRepository
}

func NewAddressUsecase(addresses repo.AddressRepository) *AddressUsecase {
	return &AddressUsecase{addresses: addresses}
}

type AddressInput struct {
	FullName   string
	Line1      string
	Line2      string
	City       string
	State      string
	PostalCode string
	Country    string
	Phone      string
	IsDefault  bool
}

func (u *AddressUsecase) List(ctx context.Context, userID int64) ([]model.Address, error) {
	if userID <= 0 {
		return nil, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	list, err := u.addresses.ListByUserID(ctx, userID)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return list, nil
}

func (u *AddressUsecase) Create(ctx context.Context, userID int64, in AddressInput) (model.Address, error) {
	if userID <= 0 {
		return model.Address{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if strings.TrimSpace(in.FullName) == "" ||
		strings.TrimSpace(in.Line1) == "" ||
		strings.TrimSpace(in.City) == "" ||
		strings.TrimSpace(in.PostalCode) == "" {
		return model.Address{}, NewHTTPError(http.StatusBadRequest, "missing required address fields")
	}
	if len(in.Country) != 2 {
		return model.Address{}, NewHTTPError(http.StatusBadRequest, "country must be a 2-letter code")
	}

	created, err := u.addresses.Create(ctx, model.Address{
		UserID:     userID,
		FullName:   strings.TrimSpace(in.FullName),
		Line1:      strings.TrimSpace(in.Line1),
		Line2:      strings.TrimSpace(in.Line2),
		City:       strings.TrimSpace(in.City),
		State:      strings.TrimSpace(in.State),
		PostalCode: strings.TrimSpace(in.PostalCode),
		Country:    strings.ToUpper(in.Country),
		Phone:      strings.TrimSpace(in.Phone),
		IsDefault:  in.IsDefault,
	})
	if err != nil {
		return model.Address{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return created, nil
}

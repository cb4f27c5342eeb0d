package usecase

import (
	"context"
	"net/http"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

type ProductUsecase struct {
	productRepo repo.ProductRepository
}

// DI
func NewProductUsecase(productRepo repo.ProductRepository) *ProductUsecase {
	return &ProductUsecase{productRepo: productRepo}
}

// GET /productsの入力DTO
type ListProductsInput struct {
	Page       int
	Limit      int
	Q          string
	CategoryID *int64
	MinPrice   *int64
	MaxPrice   *int64
	Sort       string
}

type ProductOutput struct {
	ID          int64     `json:"id"`
	CategoryID  *int64    `json:"category_id,omitempty"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       int64     `json:"price"`
	Stock       int64     `json:"stock"`
	CreatedAt   time.Time `json:"created_at"`
}

type ProductListOutput struct {
	Items []ProductOutput `json:"items"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}

// 公開商品の一覧
func (u *ProductUsecase) ListPublic(ctx context.Context, in ListProductsInput) (ProductListOutput, error) {
	if in.Page < 1 {
		in.Page = 1
	}
	if in.Limit < 1 || in.Limit > 100 {
		in.Limit = 20
	}

	products, total, err := u.productRepo.ListPublic(ctx, repo.ProductListQuery{
		Page:       in.Page,
		Limit:      in.Limit,
		Q:          in.Q,
		CategoryID: in.CategoryID,
		MinPrice:   in.MinPrice,
		MaxPrice:   in.MaxPrice,
		Sort:       in.Sort,
	})
	if err != nil {
		return ProductListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	items := make([]ProductOutput, 0, len(products))
	for _, p := range products {
		items = append(items, toProductOutput(p))
	}

	return ProductListOutput{
		Items: items,
		Total: total,
		Page:  in.Page,
		Limit: in.Limit,
	}, nil
}

// 公開商品の詳細（非公開は404扱い）
func (u *ProductUsecase) GetPublic(ctx context.Context, id int64) (ProductOutput, error) {
	if id <= 0 {
		return ProductOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	p, err := u.productRepo.FindByID(ctx, id)
	if err == repo.ErrNotFound {
		return ProductOutput{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return ProductOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if !p.IsActive {
		return ProductOutput{}, NewHTTPError(http.StatusNotFound, "not found")
	}

	return toProductOutput(p), nil
}

func toProductOutput(p model.Product) ProductOutput {
	return ProductOutput{
		ID:          p.ID,
		CategoryID:  p.CategoryID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Stock:       p.Stock,
		CreatedAt:   p.CreatedAt,
	}
}

package service

import (
	"context"
	"errors"

	appErrors "github.com/aaravmahajanofficial/cart-service/internal/errors"
	"github.com/aaravmahajanofficial/cart-service/internal/models"
	repository "github.com/aaravmahajanofficial/cart-service/internal/repositories"
)

type CartService interface {
	GetCart(ctx context.Context, userID string) (*models.Cart, error)
	AddItem(ctx context.Context, userID string, req *models.AddItemRequest) (*models.Cart, error)
	RemoveItem(ctx context.Context, userID string, productID int) (*models.RemoveItemResult, error)
}

type cartService struct {
	repo repository.CartRepository
}

func NewCartService(repo repository.CartRepository) CartService {
	return &cartService{repo: repo}
}

func (s *cartService) GetCart(ctx context.Context, userID string) (*models.Cart, error) {

	cart, err := s.repo.GetCart(ctx, userID)
	if err != nil {
		return nil, appErrors.DatabaseError("Failed to fetch cart").WithError(err)
	}

	return cart, nil
}

func (s *cartService) AddItem(ctx context.Context, userID string, req *models.AddItemRequest) (*models.Cart, error) {

	item := &models.CartItem{
		ProductID: req.ProductID,
		Name:      req.Name,
		Price:     req.Price,
		Quantity:  req.Quantity,
		ImageURL:  req.ImageURL,
	}

	cart, err := s.repo.AddItem(ctx, userID, item)
	if err != nil {
		return nil, appErrors.DatabaseError("Failed to add item to cart").WithError(err)
	}

	return cart, nil
}

func (s *cartService) RemoveItem(ctx context.Context, userID string, productID int) (*models.RemoveItemResult, error) {

	result, err := s.repo.RemoveItem(ctx, userID, productID)
	if err != nil {
		if errors.Is(err, repository.ErrItemNotFound) {
			return nil, appErrors.NotFoundError("Item not found in cart").WithError(err)
		}
		return nil, appErrors.DatabaseError("Failed to remove item from cart").WithError(err)
	}

	return result, nil
}

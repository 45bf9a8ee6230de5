package mocks

import (
	"context"

	"github.com/aaravmahajanofficial/cart-service/internal/models"
	"github.com/stretchr/testify/mock"
)

// CartService is a testify mock of service.CartService.
type CartService struct {
	mock.Mock
}

func (m *CartService) GetCart(ctx context.Context, userID string) (*models.Cart, error) {
	args := m.Called(ctx, userID)

	if cart, ok := args.Get(0).(*models.Cart); ok {
		return cart, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *CartService) AddItem(ctx context.Context, userID string, req *models.AddItemRequest) (*models.Cart, error) {
	args := m.Called(ctx, userID, req)

	if cart, ok := args.Get(0).(*models.Cart); ok {
		return cart, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *CartService) RemoveItem(ctx context.Context, userID string, productID int) (*models.RemoveItemResult, error) {
	args := m.Called(ctx, userID, productID)

	if result, ok := args.Get(0).(*models.RemoveItemResult); ok {
		return result, args.Error(1)
	}

	return nil, args.Error(1)
}

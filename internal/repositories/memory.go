package repository

import (
	"context"
	"math"
	"sync"

	"github.com/aaravmahajanofficial/cart-service/internal/models"
)

// memoryStore is a mutex-guarded in-memory CartRepository used for local
// runs and tests. Semantics mirror the Postgres implementation: quantity
// merge on repeat adds, first-write-wins snapshots and a cart row that
// survives the removal of its last item.
type memoryStore struct {
	mu    sync.RWMutex
	carts map[string]*models.Cart
}

func NewMemoryStore() CartRepository {
	return &memoryStore{carts: make(map[string]*models.Cart)}
}

func (s *memoryStore) InitSchema(ctx context.Context) error {
	return nil
}

func (s *memoryStore) GetCart(ctx context.Context, userID string) (*models.Cart, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cart, ok := s.carts[userID]
	if !ok {
		return &models.Cart{UserID: userID, Items: []models.CartItem{}}, nil
	}

	return copyCart(cart), nil
}

func (s *memoryStore) AddItem(ctx context.Context, userID string, item *models.CartItem) (*models.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart, ok := s.carts[userID]
	if !ok {
		cart = &models.Cart{UserID: userID, Items: []models.CartItem{}}
		s.carts[userID] = cart
	}

	merged := false

	for i := range cart.Items {
		if cart.Items[i].ProductID == item.ProductID {
			cart.Items[i].Quantity += item.Quantity
			merged = true
			break
		}
	}

	if !merged {
		cart.Items = append(cart.Items, *item)
	}

	cart.TotalPrice = totalOf(cart.Items)

	return copyCart(cart), nil
}

func (s *memoryStore) RemoveItem(ctx context.Context, userID string, productID int) (*models.RemoveItemResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart, ok := s.carts[userID]
	if !ok {
		return nil, ErrItemNotFound
	}

	for i := range cart.Items {
		if cart.Items[i].ProductID != productID {
			continue
		}

		removed := cart.Items[i]
		cart.Items = append(cart.Items[:i], cart.Items[i+1:]...)
		cart.TotalPrice = totalOf(cart.Items)

		return &models.RemoveItemResult{
			Message:     "Item removed",
			RemovedItem: removed,
			Cart:        copyCart(cart),
		}, nil
	}

	return nil, ErrItemNotFound
}

func totalOf(items []models.CartItem) float64 {

	var total float64

	for _, item := range items {
		total += item.Price * float64(item.Quantity)
	}

	// mirrors DECIMAL(10,2)
	return math.Round(total*100) / 100
}

func copyCart(cart *models.Cart) *models.Cart {

	items := make([]models.CartItem, len(cart.Items))
	copy(items, cart.Items)

	return &models.Cart{
		UserID:     cart.UserID,
		Items:      items,
		TotalPrice: cart.TotalPrice,
	}
}

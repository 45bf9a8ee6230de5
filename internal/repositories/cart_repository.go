package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/aaravmahajanofficial/cart-service/internal/models"
	"github.com/aaravmahajanofficial/cart-service/internal/utils"
)

// ErrItemNotFound is the domain-level result for removing a product that is
// not in the cart, as opposed to an infrastructure failure.
var ErrItemNotFound = errors.New("item not found in cart")

type CartRepository interface {
	InitSchema(ctx context.Context) error
	GetCart(ctx context.Context, userID string) (*models.Cart, error)
	AddItem(ctx context.Context, userID string, item *models.CartItem) (*models.Cart, error)
	RemoveItem(ctx context.Context, userID string, productID int) (*models.RemoveItemResult, error)
}

type cartRepository struct {
	DB *sql.DB
}

func NewCartRepo(db *sql.DB) CartRepository {
	return &cartRepository{DB: db}
}

// InitSchema creates the carts and cart_items tables. Safe to call on every
// startup.
func (r *cartRepository) InitSchema(ctx context.Context) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	if _, err := r.DB.ExecContext(dbCtx, `
		CREATE TABLE IF NOT EXISTS carts (
			user_id VARCHAR(255) PRIMARY KEY,
			total_price DECIMAL(10,2) DEFAULT 0.00,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`); err != nil {
		return fmt.Errorf("failed to create carts table: %w", err)
	}

	if _, err := r.DB.ExecContext(dbCtx, `
		CREATE TABLE IF NOT EXISTS cart_items (
			id SERIAL PRIMARY KEY,
			user_id VARCHAR(255) REFERENCES carts(user_id),
			product_id INTEGER NOT NULL,
			name VARCHAR(255) NOT NULL,
			price DECIMAL(10,2) NOT NULL,
			quantity INTEGER NOT NULL DEFAULT 1,
			image_url TEXT,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`); err != nil {
		return fmt.Errorf("failed to create cart_items table: %w", err)
	}

	return nil
}

// GetCart returns the cart for userID. A user with no cart row gets a
// zero-value cart back; no row is created.
func (r *cartRepository) GetCart(ctx context.Context, userID string) (*models.Cart, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	cart := &models.Cart{UserID: userID, Items: []models.CartItem{}}

	query := `
		SELECT user_id, total_price
		FROM carts
		WHERE user_id = $1
	`

	err := r.DB.QueryRowContext(dbCtx, query, userID).Scan(&cart.UserID, &cart.TotalPrice)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return cart, nil
		}
		return nil, fmt.Errorf("querying cart: %w", err)
	}

	itemsQuery := `
		SELECT product_id, name, price, quantity, image_url
		FROM cart_items
		WHERE user_id = $1
	`

	rows, err := r.DB.QueryContext(dbCtx, itemsQuery, userID)
	if err != nil {
		return nil, fmt.Errorf("querying cart items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item models.CartItem
		if err := rows.Scan(&item.ProductID, &item.Name, &item.Price, &item.Quantity, &item.ImageURL); err != nil {
			return nil, fmt.Errorf("scanning cart item: %w", err)
		}
		cart.Items = append(cart.Items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating cart items: %w", err)
	}

	return cart, nil
}

// AddItem ensures a cart row exists, merges the quantity into an existing
// item row or inserts a new one, recomputes the stored total and returns the
// freshly fetched cart. A repeat add of the same product keeps the first
// call's price, name and image_url.
func (r *cartRepository) AddItem(ctx context.Context, userID string, item *models.CartItem) (*models.Cart, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	createCart := `
		INSERT INTO carts (user_id) VALUES ($1)
		ON CONFLICT (user_id) DO NOTHING
	`

	if _, err := r.DB.ExecContext(dbCtx, createCart, userID); err != nil {
		return nil, fmt.Errorf("creating cart: %w", err)
	}

	findItem := `
		SELECT quantity FROM cart_items WHERE user_id = $1 AND product_id = $2
	`

	var existingQuantity int

	err := r.DB.QueryRowContext(dbCtx, findItem, userID, item.ProductID).Scan(&existingQuantity)

	switch {
	case errors.Is(err, sql.ErrNoRows):
		insertItem := `
			INSERT INTO cart_items (user_id, product_id, name, price, quantity, image_url)
			VALUES ($1, $2, $3, $4, $5, $6)
		`
		if _, err := r.DB.ExecContext(dbCtx, insertItem, userID, item.ProductID, item.Name, item.Price, item.Quantity, item.ImageURL); err != nil {
			return nil, fmt.Errorf("inserting cart item: %w", err)
		}
	case err != nil:
		return nil, fmt.Errorf("finding cart item: %w", err)
	default:
		updateItem := `
			UPDATE cart_items SET quantity = quantity + $1
			WHERE user_id = $2 AND product_id = $3
		`
		if _, err := r.DB.ExecContext(dbCtx, updateItem, item.Quantity, userID, item.ProductID); err != nil {
			return nil, fmt.Errorf("updating cart item quantity: %w", err)
		}
	}

	if err := r.recomputeTotal(dbCtx, userID); err != nil {
		return nil, err
	}

	return r.GetCart(ctx, userID)
}

// RemoveItem deletes the item row and recomputes the total. The cart row is
// left in place even when the last item is removed.
func (r *cartRepository) RemoveItem(ctx context.Context, userID string, productID int) (*models.RemoveItemResult, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	findItem := `
		SELECT product_id, name, price, quantity, image_url
		FROM cart_items
		WHERE user_id = $1 AND product_id = $2
	`

	var removed models.CartItem

	err := r.DB.QueryRowContext(dbCtx, findItem, userID, productID).
		Scan(&removed.ProductID, &removed.Name, &removed.Price, &removed.Quantity, &removed.ImageURL)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("finding cart item: %w", err)
	}

	deleteItem := `
		DELETE FROM cart_items WHERE user_id = $1 AND product_id = $2
	`

	if _, err := r.DB.ExecContext(dbCtx, deleteItem, userID, productID); err != nil {
		return nil, fmt.Errorf("deleting cart item: %w", err)
	}

	if err := r.recomputeTotal(dbCtx, userID); err != nil {
		return nil, err
	}

	cart, err := r.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &models.RemoveItemResult{
		Message:     "Item removed",
		RemovedItem: removed,
		Cart:        cart,
	}, nil
}

func (r *cartRepository) recomputeTotal(ctx context.Context, userID string) error {

	query := `
		UPDATE carts SET total_price = (
			SELECT COALESCE(SUM(price * quantity), 0)
			FROM cart_items WHERE user_id = $1
		) WHERE user_id = $2
	`

	if _, err := r.DB.ExecContext(ctx, query, userID, userID); err != nil {
		return fmt.Errorf("recomputing cart total: %w", err)
	}

	return nil
}

package repository_test

import (
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/aaravmahajanofficial/cart-service/internal/models"
	repository "github.com/aaravmahajanofficial/cart-service/internal/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	selectCartSQL = regexp.QuoteMeta(`
		SELECT user_id, total_price
		FROM carts
		WHERE user_id = $1
	`)
	selectItemsSQL = regexp.QuoteMeta(`
		SELECT product_id, name, price, quantity, image_url
		FROM cart_items
		WHERE user_id = $1
	`)
	createCartSQL = regexp.QuoteMeta(`
		INSERT INTO carts (user_id) VALUES ($1)
		ON CONFLICT (user_id) DO NOTHING
	`)
	findQuantitySQL = regexp.QuoteMeta(`
		SELECT quantity FROM cart_items WHERE user_id = $1 AND product_id = $2
	`)
	insertItemSQL = regexp.QuoteMeta(`
		INSERT INTO cart_items (user_id, product_id, name, price, quantity, image_url)
		VALUES ($1, $2, $3, $4, $5, $6)
	`)
	updateQuantitySQL = regexp.QuoteMeta(`
		UPDATE cart_items SET quantity = quantity + $1
		WHERE user_id = $2 AND product_id = $3
	`)
	findItemSQL = regexp.QuoteMeta(`
		SELECT product_id, name, price, quantity, image_url
		FROM cart_items
		WHERE user_id = $1 AND product_id = $2
	`)
	deleteItemSQL = regexp.QuoteMeta(`
		DELETE FROM cart_items WHERE user_id = $1 AND product_id = $2
	`)
	recomputeTotalSQL = regexp.QuoteMeta(`
		UPDATE carts SET total_price = (
			SELECT COALESCE(SUM(price * quantity), 0)
			FROM cart_items WHERE user_id = $1
		) WHERE user_id = $2
	`)
)

func setupCartRepoTest(t *testing.T) (repository.CartRepository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err, "Failed to create sqlmock")

	t.Cleanup(func() {
		db.Close()
	})

	repo := repository.NewCartRepo(db)
	require.NotNil(t, repo, "NewCartRepo should return a non-nil repository")

	return repo, mock
}

// expectFetchCart arranges the two queries GetCart issues.
func expectFetchCart(mock sqlmock.Sqlmock, userID string, total float64, items []models.CartItem) {
	mock.ExpectQuery(selectCartSQL).
		WithArgs(userID).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "total_price"}).AddRow(userID, total))

	rows := sqlmock.NewRows([]string{"product_id", "name", "price", "quantity", "image_url"})
	for _, item := range items {
		rows.AddRow(item.ProductID, item.Name, item.Price, item.Quantity, item.ImageURL)
	}

	mock.ExpectQuery(selectItemsSQL).WithArgs(userID).WillReturnRows(rows)
}

func TestGetCart(t *testing.T) {
	t.Run("Success - Cart With Items", func(t *testing.T) {
		repo, mock := setupCartRepoTest(t)
		items := []models.CartItem{
			{ProductID: 101, Name: "Monstera", Price: 30.0, Quantity: 3, ImageURL: "https://img/monstera.jpg"},
		}
		expectFetchCart(mock, "alice", 90.0, items)

		cart, err := repo.GetCart(t.Context(), "alice")

		require.NoError(t, err)
		assert.Equal(t, "alice", cart.UserID)
		assert.Equal(t, 90.0, cart.TotalPrice)
		assert.Equal(t, items, cart.Items)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Success - No Cart Row Fabricates Zero Cart", func(t *testing.T) {
		repo, mock := setupCartRepoTest(t)
		mock.ExpectQuery(selectCartSQL).WithArgs("ghost").WillReturnError(sql.ErrNoRows)

		cart, err := repo.GetCart(t.Context(), "ghost")

		require.NoError(t, err)
		assert.Equal(t, "ghost", cart.UserID)
		assert.Equal(t, 0.0, cart.TotalPrice)
		assert.NotNil(t, cart.Items)
		assert.Empty(t, cart.Items)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Failure - Database Error", func(t *testing.T) {
		repo, mock := setupCartRepoTest(t)
		dbError := errors.New("connection refused")
		mock.ExpectQuery(selectCartSQL).WithArgs("alice").WillReturnError(dbError)

		cart, err := repo.GetCart(t.Context(), "alice")

		require.Error(t, err)
		assert.Nil(t, cart)
		assert.ErrorIs(t, err, dbError)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestAddItem(t *testing.T) {
	item := &models.CartItem{ProductID: 101, Name: "Monstera", Price: 30.0, Quantity: 1, ImageURL: "https://img/monstera.jpg"}

	t.Run("Success - New Item Inserted", func(t *testing.T) {
		repo, mock := setupCartRepoTest(t)

		mock.ExpectExec(createCartSQL).WithArgs("alice").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(findQuantitySQL).WithArgs("alice", 101).WillReturnError(sql.ErrNoRows)
		mock.ExpectExec(insertItemSQL).
			WithArgs("alice", 101, "Monstera", 30.0, 1, "https://img/monstera.jpg").
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectExec(recomputeTotalSQL).WithArgs("alice", "alice").WillReturnResult(sqlmock.NewResult(0, 1))
		expectFetchCart(mock, "alice", 30.0, []models.CartItem{*item})

		cart, err := repo.AddItem(t.Context(), "alice", item)

		require.NoError(t, err)
		require.Len(t, cart.Items, 1)
		assert.Equal(t, 30.0, cart.TotalPrice)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Success - Existing Item Quantity Merged", func(t *testing.T) {
		repo, mock := setupCartRepoTest(t)
		repeat := &models.CartItem{ProductID: 101, Name: "Monstera", Price: 25.0, Quantity: 2, ImageURL: "https://img/other.jpg"}

		mock.ExpectExec(createCartSQL).WithArgs("alice").WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(findQuantitySQL).WithArgs("alice", 101).
			WillReturnRows(sqlmock.NewRows([]string{"quantity"}).AddRow(1))
		// only the quantity moves, price/name/image keep the first call's values
		mock.ExpectExec(updateQuantitySQL).WithArgs(2, "alice", 101).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(recomputeTotalSQL).WithArgs("alice", "alice").WillReturnResult(sqlmock.NewResult(0, 1))
		expectFetchCart(mock, "alice", 90.0, []models.CartItem{
			{ProductID: 101, Name: "Monstera", Price: 30.0, Quantity: 3, ImageURL: "https://img/monstera.jpg"},
		})

		cart, err := repo.AddItem(t.Context(), "alice", repeat)

		require.NoError(t, err)
		require.Len(t, cart.Items, 1)
		assert.Equal(t, 3, cart.Items[0].Quantity)
		assert.Equal(t, 30.0, cart.Items[0].Price)
		assert.Equal(t, 90.0, cart.TotalPrice)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Failure - Cart Creation Error", func(t *testing.T) {
		repo, mock := setupCartRepoTest(t)
		dbError := errors.New("database unreachable")
		mock.ExpectExec(createCartSQL).WithArgs("alice").WillReturnError(dbError)

		cart, err := repo.AddItem(t.Context(), "alice", item)

		require.Error(t, err)
		assert.Nil(t, cart)
		assert.ErrorIs(t, err, dbError)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRemoveItem(t *testing.T) {
	t.Run("Success - Item Removed", func(t *testing.T) {
		repo, mock := setupCartRepoTest(t)

		mock.ExpectQuery(findItemSQL).WithArgs("alice", 101).
			WillReturnRows(sqlmock.NewRows([]string{"product_id", "name", "price", "quantity", "image_url"}).
				AddRow(101, "Monstera", 30.0, 3, "https://img/monstera.jpg"))
		mock.ExpectExec(deleteItemSQL).WithArgs("alice", 101).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(recomputeTotalSQL).WithArgs("alice", "alice").WillReturnResult(sqlmock.NewResult(0, 1))
		expectFetchCart(mock, "alice", 0.0, nil)

		result, err := repo.RemoveItem(t.Context(), "alice", 101)

		require.NoError(t, err)
		assert.Equal(t, "Item removed", result.Message)
		assert.Equal(t, 101, result.RemovedItem.ProductID)
		assert.Equal(t, 3, result.RemovedItem.Quantity)
		// the cart row survives the removal of its last item
		assert.Equal(t, 0.0, result.Cart.TotalPrice)
		assert.Empty(t, result.Cart.Items)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Failure - Item Not Found", func(t *testing.T) {
		repo, mock := setupCartRepoTest(t)
		mock.ExpectQuery(findItemSQL).WithArgs("alice", 999).WillReturnError(sql.ErrNoRows)

		result, err := repo.RemoveItem(t.Context(), "alice", 999)

		require.Error(t, err)
		assert.Nil(t, result)
		assert.ErrorIs(t, err, repository.ErrItemNotFound)
		// no delete or recompute statements after a miss
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Failure - Database Error", func(t *testing.T) {
		repo, mock := setupCartRepoTest(t)
		dbError := errors.New("connection reset")
		mock.ExpectQuery(findItemSQL).WithArgs("alice", 101).WillReturnError(dbError)

		result, err := repo.RemoveItem(t.Context(), "alice", 101)

		require.Error(t, err)
		assert.Nil(t, result)
		assert.NotErrorIs(t, err, repository.ErrItemNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestInitSchema(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		repo, mock := setupCartRepoTest(t)
		mock.ExpectExec("CREATE TABLE IF NOT EXISTS carts").WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec("CREATE TABLE IF NOT EXISTS cart_items").WillReturnResult(sqlmock.NewResult(0, 0))

		require.NoError(t, repo.InitSchema(t.Context()))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Failure", func(t *testing.T) {
		repo, mock := setupCartRepoTest(t)
		mock.ExpectExec("CREATE TABLE IF NOT EXISTS carts").WillReturnError(errors.New("permission denied"))

		err := repo.InitSchema(t.Context())

		require.Error(t, err)
		assert.ErrorContains(t, err, "failed to create carts table")
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

package models

type CartItem struct {
	ProductID int     `json:"product_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	ImageURL  string  `json:"image_url"`
}

type Cart struct {
	UserID     string     `json:"user_id"`
	Items      []CartItem `json:"items"`
	TotalPrice float64    `json:"total_price"`
}

// AddItemRequest is the add-item payload. Quantity defaults to 1 when the
// field is omitted; price, name and image_url are snapshots taken at add
// time and are never re-synced on repeat adds.
type AddItemRequest struct {
	ProductID int     `json:"product_id" validate:"required"`
	Name      string  `json:"name"       validate:"required"`
	Price     float64 `json:"price"      validate:"min=0"`
	Quantity  int     `json:"quantity"   validate:"min=1"`
	ImageURL  string  `json:"image_url"  validate:"required"`
}

type RemoveItemResult struct {
	Message     string   `json:"message"`
	RemovedItem CartItem `json:"removed_item"`
	Cart        *Cart    `json:"cart"`
}

package mongodb

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type OrderDocument struct {
	ID                primitive.ObjectID `bson:"_id,omitempty"`
	OrderID           string             `bson:"order_id"`
	UserID            string             `bson:"user_id"`
	Items             []ItemDocument     `bson:"items"`
	DeliveryAddress   AddressDocument    `bson:"delivery_address"`
	TotalAmount       Money              `bson:"total_amount"`
	Status            string             `bson:"status"`
	ProgressStatus    int                `bson:"progress_status"`
	CancelReason      string             `bson:"cancel_reason,omitempty"`
	CancelDescription string             `bson:"cancel_description,omitempty"`
	IdempotencyKey    string             `bson:"idempotency_key,omitempty"`
	OrderDate         time.Time          `bson:"order_date"`
	UpdatedAt         time.Time          `bson:"updated_at"`
}

type ItemDocument struct {
	ProductID string `bson:"product_id"`
	SellerID  string `bson:"seller_id"`
	Quantity  int    `bson:"quantity"`
	Price     Money  `bson:"price"`
}

type AddressDocument struct {
	Street  string `bson:"street"`
	City    string `bson:"city"`
	State   string `bson:"state"`
	ZipCode string `bson:"zip_code"`
	Country string `bson:"country"`
}

type ProductDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	ProductID   string             `bson:"product_id"`
	SellerID    string             `bson:"seller_id"`
	Name        string             `bson:"name"`
	Description string             `bson:"description"`
	Price       Money              `bson:"price"`
	Category    string             `bson:"category"`
	Subcategory string             `bson:"subcategory"`
	ImageURL    string             `bson:"image_url"`
	InStock     bool               `bson:"in_stock"`
	CreatedAt   time.Time          `bson:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at"`
}

type CartDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	UserID    string             `bson:"user_id"`
	Items     []CartItemDocument `bson:"items"`
	UpdatedAt time.Time          `bson:"updated_at"`
}

type CartItemDocument struct {
	ProductID string `bson:"product_id"`
	Quantity  int    `bson:"quantity"`
}

type WishlistDocument struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	UserID     string             `bson:"user_id"`
	ProductIDs []string           `bson:"product_ids"`
}

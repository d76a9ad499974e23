package transport

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/SaladDann/SIGECOB/internal/models"
)

type ErrorResponse struct {
	Status  string `json:"status"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
	Address  string `json:"address"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken string       `json:"accessToken"`
	ExpiresAt   time.Time    `json:"expiresAt"`
	User        *models.User `json:"user"`
}

type CreateProductRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	Category    string          `json:"category"`
	ImageURL    string          `json:"imageUrl"`
}

type PatchProductRequest struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Stock       *int             `json:"stock"`
	Category    *string          `json:"category"`
	ImageURL    *string          `json:"imageUrl"`
	Status      *string          `json:"status"`
}

type PageMeta struct {
	Page       int   `json:"page"`
	Size       int   `json:"size"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"total_pages"`
	HasPrev    bool  `json:"has_prev"`
	HasNext    bool  `json:"has_next"`
}

type ProductPage struct {
	Data []models.Product `json:"data"`
	Meta PageMeta         `json:"meta"`
}

type CreateUserRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
	Address  string `json:"address"`
	Role     string `json:"role"`
}

type UpdateUserRequest struct {
	Email    *string `json:"email"`
	FullName *string `json:"fullName"`
	Address  *string `json:"address"`
	Role     *string `json:"role"`
}

type UserPage struct {
	Data []models.User `json:"data"`
	Meta PageMeta      `json:"meta"`
}

type AddCartItemRequest struct {
	ProductID uint `json:"productId"`
	Quantity  int  `json:"quantity"`
}

type UpdateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

type CartResponse struct {
	ID     uint              `json:"id"`
	Items  []models.CartItem `json:"items"`
	Total  decimal.Decimal   `json:"total"`
	Amount int               `json:"itemCount"`
}

type CheckoutRequest struct {
	ShippingAddress string `json:"shippingAddress"`
	PaymentMethod   string `json:"paymentMethod"`
}

type CheckoutOrder struct {
	ID              uint            `json:"id"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	OrderStatus     string          `json:"orderStatus"`
	ShippingAddress string          `json:"shippingAddress"`
}

type CheckoutPayment struct {
	ID            uint   `json:"id"`
	PaymentStatus string `json:"paymentStatus"`
	TransactionID string `json:"transactionId"`
}

type CheckoutResponse struct {
	Order   CheckoutOrder   `json:"order"`
	Payment CheckoutPayment `json:"payment"`
}

type UpdateOrderStatusRequest struct {
	OrderStatus   string `json:"orderStatus"`
	PaymentStatus string `json:"paymentStatus"`
}

package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/SaladDann/SIGECOB/internal/domain"
)

const (
	MinCartQuantity = 1
	MaxCartQuantity = 10
)

type User struct {
	ID           uint        `gorm:"primaryKey"                          json:"id"`
	Email        string      `gorm:"size:191;uniqueIndex;not null"       json:"email"`
	PasswordHash string      `gorm:"not null"                            json:"-"`
	FullName     string      `gorm:"size:191"                            json:"fullName"`
	Address      string      `gorm:"type:text"                           json:"address,omitempty"`
	Role         domain.Role `gorm:"size:16;not null;default:User"       json:"role"`
	CreatedAt    time.Time   `                                           json:"createdAt"`
}

type Product struct {
	ID          uint                 `gorm:"primaryKey"                             json:"id"`
	Name        string               `gorm:"size:191;uniqueIndex;not null"          json:"name"`
	Description string               `gorm:"type:text"                              json:"description"`
	Price       decimal.Decimal      `gorm:"type:decimal(12,2);not null"            json:"price"`
	Stock       int                  `gorm:"not null;default:0;check:stock >= 0"    json:"stock"`
	Status      domain.ProductStatus `gorm:"size:16;not null;index"                 json:"status"`
	Category    string               `gorm:"size:64;index"                          json:"category"`
	ImageURL    string               `gorm:"size:512"                               json:"imageUrl,omitempty"`
	CreatedAt   time.Time            `                                              json:"createdAt"`
	UpdatedAt   time.Time            `                                              json:"updatedAt"`
}

type Cart struct {
	ID        uint       `gorm:"primaryKey"                json:"id"`
	UserID    uint       `gorm:"uniqueIndex;not null"      json:"userId"`
	Items     []CartItem `gorm:"foreignKey:CartID"         json:"items"`
	CreatedAt time.Time  `                                 json:"createdAt"`
	UpdatedAt time.Time  `                                 json:"updatedAt"`
}

type CartItem struct {
	ID        uint            `gorm:"primaryKey"                                            json:"id"`
	CartID    uint            `gorm:"uniqueIndex:idx_cart_product;not null"                 json:"cartId"`
	ProductID uint            `gorm:"uniqueIndex:idx_cart_product;not null"                 json:"productId"`
	Quantity  int             `gorm:"not null;check:quantity >= 1 AND quantity <= 10"       json:"quantity"`
	Price     decimal.Decimal `gorm:"type:decimal(12,2);not null"                           json:"price"`
	Product   *Product        `gorm:"foreignKey:ProductID"                                  json:"product,omitempty"`
	CreatedAt time.Time       `                                                             json:"createdAt"`
}

type Order struct {
	ID              uint               `gorm:"primaryKey"                   json:"id"`
	UserID          uint               `gorm:"index;not null"               json:"userId"`
	TotalAmount     decimal.Decimal    `gorm:"type:decimal(12,2);not null"  json:"totalAmount"`
	ShippingAddress string             `gorm:"type:text;not null"           json:"shippingAddress"`
	Status          domain.OrderStatus `gorm:"size:16;not null;index"       json:"orderStatus"`
	PaymentID       *uint              `                                    json:"paymentId"`
	Payment         *Payment           `gorm:"foreignKey:PaymentID"         json:"payment,omitempty"`
	Items           []OrderItem        `gorm:"foreignKey:OrderID"           json:"items,omitempty"`
	CreatedAt       time.Time          `gorm:"index"                        json:"createdAt"`
	UpdatedAt       time.Time          `                                    json:"updatedAt"`
}

// OrderItem is never updated after insert.
type OrderItem struct {
	ID        uint            `gorm:"primaryKey"                    json:"id"`
	OrderID   uint            `gorm:"index;not null"                json:"orderId"`
	ProductID uint            `gorm:"index;not null"                json:"productId"`
	Quantity  int             `gorm:"not null;check:quantity > 0"   json:"quantity"`
	Price     decimal.Decimal `gorm:"type:decimal(12,2);not null"   json:"price"`
	Product   *Product        `gorm:"foreignKey:ProductID"          json:"product,omitempty"`
}

type Payment struct {
	ID            uint                 `gorm:"primaryKey"                       json:"id"`
	OrderID       uint                 `gorm:"uniqueIndex;not null"             json:"orderId"`
	Amount        decimal.Decimal      `gorm:"type:decimal(12,2);not null"      json:"amount"`
	Method        string               `gorm:"size:32;not null"                 json:"paymentMethod"`
	TransactionID string               `gorm:"size:64;uniqueIndex;not null"     json:"transactionId"`
	Status        domain.PaymentStatus `gorm:"size:16;not null"                 json:"paymentStatus"`
	PaidAt        *time.Time           `                                        json:"paidAt,omitempty"`
	CreatedAt     time.Time            `                                        json:"createdAt"`
	UpdatedAt     time.Time            `                                        json:"updatedAt"`
}

// AuditLog is append-only.
type AuditLog struct {
	ID        uint      `gorm:"primaryKey"             json:"id"`
	Action    string    `gorm:"size:100;not null;index" json:"action"`
	UserID    *uint     `gorm:"index"                  json:"userId,omitempty"`
	Entity    *string   `gorm:"size:64"                json:"entity,omitempty"`
	EntityID  *string   `gorm:"size:64"                json:"entityId,omitempty"`
	Details   string    `gorm:"type:text"              json:"details,omitempty"`
	IPAddress *string   `gorm:"size:64"                json:"ipAddress,omitempty"`
	CreatedAt time.Time `gorm:"index"                  json:"createdAt"`
}

// All lists every table in migration order.
func All() []any {
	return []any{
		&User{},
		&Product{},
		&Cart{},
		&CartItem{},
		&Payment{},
		&Order{},
		&OrderItem{},
		&AuditLog{},
	}
}

package domain

import "fmt"

type OrderStatus string

const (
	OrderPending    OrderStatus = "Pending"
	OrderProcessing OrderStatus = "Processing"
	OrderShipped    OrderStatus = "Shipped"
	OrderDelivered  OrderStatus = "Delivered"
	OrderCancelled  OrderStatus = "Cancelled"
)

var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderPending:    {OrderProcessing},
	OrderProcessing: {OrderShipped, OrderCancelled},
	OrderShipped:    {OrderDelivered},
}

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderProcessing, OrderShipped, OrderDelivered, OrderCancelled:
		return true
	}
	return false
}

func (s OrderStatus) CanTransition(to OrderStatus) bool {
	return contains(orderTransitions[s], to)
}

func ParseOrderStatus(v string) (OrderStatus, error) {
	s := OrderStatus(v)
	if !s.Valid() {
		return "", fmt.Errorf("%w: unknown order status %q", ErrValidation, v)
	}
	return s, nil
}

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "Pending"
	PaymentConfirmed PaymentStatus = "Confirmed"
	PaymentCancelled PaymentStatus = "Cancelled"
	PaymentRefunded  PaymentStatus = "Refunded"
)

var paymentTransitions = map[PaymentStatus][]PaymentStatus{
	PaymentPending:   {PaymentConfirmed, PaymentCancelled},
	PaymentConfirmed: {PaymentRefunded},
}

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentConfirmed, PaymentCancelled, PaymentRefunded:
		return true
	}
	return false
}

func (s PaymentStatus) CanTransition(to PaymentStatus) bool {
	return contains(paymentTransitions[s], to)
}

func ParsePaymentStatus(v string) (PaymentStatus, error) {
	s := PaymentStatus(v)
	if !s.Valid() {
		return "", fmt.Errorf("%w: unknown payment status %q", ErrValidation, v)
	}
	return s, nil
}

type ProductStatus string

const (
	ProductAvailable    ProductStatus = "Available"
	ProductOutOfStock   ProductStatus = "Out_of_Stock"
	ProductDiscontinued ProductStatus = "Discontinued"
)

func (s ProductStatus) Valid() bool {
	switch s {
	case ProductAvailable, ProductOutOfStock, ProductDiscontinued:
		return true
	}
	return false
}

func ParseProductStatus(v string) (ProductStatus, error) {
	s := ProductStatus(v)
	if !s.Valid() {
		return "", fmt.Errorf("%w: unknown product status %q", ErrValidation, v)
	}
	return s, nil
}

type PaymentMethod string

const (
	MethodCreditCard     PaymentMethod = "CreditCard"
	MethodDebitCard      PaymentMethod = "DebitCard"
	MethodPayPal         PaymentMethod = "PayPal"
	MethodBankTransfer   PaymentMethod = "BankTransfer"
	MethodCashOnDelivery PaymentMethod = "CashOnDelivery"
)

func ParsePaymentMethod(v string) (PaymentMethod, error) {
	switch m := PaymentMethod(v); m {
	case MethodCreditCard, MethodDebitCard, MethodPayPal, MethodBankTransfer, MethodCashOnDelivery:
		return m, nil
	}
	return "", fmt.Errorf("%w: unsupported payment method %q", ErrValidation, v)
}

type Role string

const (
	RoleUser    Role = "User"
	RoleAdmin   Role = "Admin"
	RoleAuditor Role = "Auditor"
)

func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAdmin, RoleAuditor:
		return true
	}
	return false
}

func ParseRole(v string) (Role, error) {
	r := Role(v)
	if !r.Valid() {
		return "", fmt.Errorf("%w: unknown role %q", ErrValidation, v)
	}
	return r, nil
}

func contains[T comparable](set []T, v T) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

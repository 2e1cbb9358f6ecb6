package model

import "github.com/pkg/errors"

var (
	ErrUnknownRole   = errors.New("unknown user role")
	ErrUnknownStatus = errors.New("unknown order status")
)

// Role is a user's privilege level
type Role string

const (
	RoleAdmin  Role = "Admin"
	RoleEditor Role = "Editor"
	RoleViewer Role = "Viewer"
)

// DefaultRole is assigned to self-registered accounts.
const DefaultRole = RoleViewer

var roles = []Role{RoleAdmin, RoleEditor, RoleViewer}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	for _, known := range roles {
		if r == known {
			return true
		}
	}
	return false
}

func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", errors.Wrapf(ErrUnknownRole, "%q", s)
	}
	return r, nil
}

// OrderStatus is the server-side lifecycle state of an order
type OrderStatus string

const (
	StatusPending    OrderStatus = "Pending"
	StatusProcessing OrderStatus = "Processing"
	StatusShipped    OrderStatus = "Shipped"
	StatusDelivered  OrderStatus = "Delivered"
	StatusCancelled  OrderStatus = "Cancelled"
	StatusRefunded   OrderStatus = "Refunded"
)

var statuses = []OrderStatus{
	StatusPending, StatusProcessing, StatusShipped,
	StatusDelivered, StatusCancelled, StatusRefunded,
}

func (s OrderStatus) Valid() bool {
	for _, known := range statuses {
		if s == known {
			return true
		}
	}
	return false
}

// Terminal reports whether no further status change is expected.
func (s OrderStatus) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled || s == StatusRefunded
}

func ParseOrderStatus(s string) (OrderStatus, error) {
	st := OrderStatus(s)
	if !st.Valid() {
		return "", errors.Wrapf(ErrUnknownStatus, "%q", s)
	}
	return st, nil
}

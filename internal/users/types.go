package users

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/maisonessence/parfumerie-backend/internal/orders"
	"github.com/maisonessence/parfumerie-backend/pkg/db/models"
	"github.com/maisonessence/parfumerie-backend/pkg/enums"
)

// UserDTO is the public profile of an account.
type UserDTO struct {
	ID        uuid.UUID      `json:"id"`
	Name      string         `json:"name"`
	Email     string         `json:"email"`
	Phone     *string        `json:"phone,omitempty"`
	Role      enums.UserRole `json:"role"`
	CreatedAt time.Time      `json:"created_at"`
}

// AdminUserDTO adds order aggregates for the back office.
type AdminUserDTO struct {
	UserDTO
	OrderCount int             `json:"order_count"`
	TotalSpend decimal.Decimal `json:"total_spend"`
}

// AdminUserDetailDTO adds the most recent orders to the aggregates.
type AdminUserDetailDTO struct {
	AdminUserDTO
	RecentOrders []orders.OrderDTO `json:"recent_orders"`
}

// UpdatePhonePayload changes the contact number on an account.
type UpdatePhonePayload struct {
	Phone string `json:"phone" validate:"required,min=6,max=30"`
}

func toDTO(user *models.User) UserDTO {
	return UserDTO{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Phone:     user.Phone,
		Role:      user.Role,
		CreatedAt: user.CreatedAt,
	}
}

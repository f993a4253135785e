package users

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/maisonessence/parfumerie-backend/pkg/db/models"
)

// Repository encapsulates account persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a users repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new account.
func (r *Repository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// FindByEmail loads an account by its unique email.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "email = ?", email).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByID loads an account.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdatePhone changes the contact number on an account.
func (r *Repository) UpdatePhone(ctx context.Context, id uuid.UUID, phone string) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Update("phone", phone).
		Error
}

type userAggregateRecord struct {
	models.User
	OrderCount int             `gorm:"column:order_count"`
	TotalSpend decimal.Decimal `gorm:"column:total_spend"`
}

// ListWithAggregates returns every customer account with order counts
// and lifetime spend.
func (r *Repository) ListWithAggregates(ctx context.Context) ([]AdminUserDTO, error) {
	var records []userAggregateRecord
	err := r.db.WithContext(ctx).
		Table("users").
		Select(`users.*,
COUNT(orders.id) AS order_count,
COALESCE(SUM(orders.total), 0) AS total_spend`).
		Joins("LEFT JOIN orders ON orders.user_id = users.id").
		Group("users.id").
		Order("users.created_at DESC").
		Scan(&records).
		Error
	if err != nil {
		return nil, err
	}

	items := make([]AdminUserDTO, 0, len(records))
	for i := range records {
		items = append(items, AdminUserDTO{
			UserDTO:    toDTO(&records[i].User),
			OrderCount: records[i].OrderCount,
			TotalSpend: records[i].TotalSpend,
		})
	}
	return items, nil
}

// AggregatesFor returns order count and lifetime spend for one account.
func (r *Repository) AggregatesFor(ctx context.Context, id uuid.UUID) (int, decimal.Decimal, error) {
	var record struct {
		OrderCount int             `gorm:"column:order_count"`
		TotalSpend decimal.Decimal `gorm:"column:total_spend"`
	}
	err := r.db.WithContext(ctx).
		Table("orders").
		Select("COUNT(id) AS order_count, COALESCE(SUM(total), 0) AS total_spend").
		Where("user_id = ?", id).
		Scan(&record).
		Error
	if err != nil {
		return 0, decimal.Zero, err
	}
	return record.OrderCount, record.TotalSpend, nil
}

package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/maisonessence/parfumerie-backend/pkg/db/models"
)

// Repository encapsulates order persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs an orders repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the supplied transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// CreateOrder inserts the order header.
func (r *Repository) CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

// CreateLines inserts the denormalized snapshot lines.
func (r *Repository) CreateLines(ctx context.Context, lines []models.OrderLine) error {
	if len(lines) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&lines).Error
}

// ListByUser returns the user's orders, newest first, without lines.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).
		Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// FindByID loads one order with its lines.
func (r *Repository) FindByID(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Lines").
		First(&order, "id = ?", orderID).
		Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// FindByIDForUpdate loads one order under a row lock.
func (r *Repository) FindByIDForUpdate(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	var order models.Order
	q := r.db.WithContext(ctx)
	// SQLite (used in tests) locks at the database level already.
	if r.db.Dialector.Name() == "postgres" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	err := q.
		First(&order, "id = ?", orderID).
		Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// Delete removes the order; lines cascade at the database level.
func (r *Repository) Delete(ctx context.Context, orderID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ?", orderID).
		Delete(&models.Order{}).
		Error
}

// UpdateStatus moves the order to the supplied status.
func (r *Repository) UpdateStatus(ctx context.Context, orderID uuid.UUID, status string) error {
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", orderID).
		Update("status", status).
		Error
}

type adminOrderRecord struct {
	models.Order
	UserEmail string `gorm:"column:user_email"`
}

// ListFiltered returns orders for the back office with account identity.
func (r *Repository) ListFiltered(ctx context.Context, filter AdminListFilter) ([]AdminOrderDTO, error) {
	query := r.db.WithContext(ctx).
		Table("orders").
		Select("orders.*, users.email AS user_email").
		Joins("JOIN users ON users.id = orders.user_id")

	if filter.From != nil {
		query = query.Where("orders.created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("orders.created_at <= ?", *filter.To)
	}
	if filter.Status != nil {
		query = query.Where("orders.status = ?", *filter.Status)
	}

	var records []adminOrderRecord
	if err := query.Order("orders.created_at DESC").Scan(&records).Error; err != nil {
		return nil, err
	}

	items := make([]AdminOrderDTO, 0, len(records))
	for i := range records {
		items = append(items, AdminOrderDTO{
			OrderDTO:  NewOrderDTO(&records[i].Order, false),
			UserID:    records[i].UserID,
			UserEmail: records[i].UserEmail,
		})
	}
	return items, nil
}

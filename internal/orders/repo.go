package orders

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/angelmondragon/threadcart-backend/internal/catalog"
	"github.com/angelmondragon/threadcart-backend/pkg/db/models"
	"github.com/angelmondragon/threadcart-backend/pkg/pagination"
)

// Repository exposes order persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Create inserts the order with its line items in one shot.
func (r *Repository) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

// FindByID loads the order with line items.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		First(&order, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// ListByUser returns a cursor-paginated slice of one user's orders, newest first.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID, params pagination.Params) ([]models.Order, *string, error) {
	return r.list(ctx, params, func(q *gorm.DB) *gorm.DB {
		return q.Where("user_id = ?", userID)
	})
}

// List returns a cursor-paginated slice of all orders with optional filters.
func (r *Repository) List(ctx context.Context, input ListOrdersInput) ([]models.Order, *string, error) {
	return r.list(ctx, input.Pagination, func(q *gorm.DB) *gorm.DB {
		if input.PaidOnly {
			q = q.Where("is_paid = ?", true)
		}
		if input.UnpaidOnly {
			q = q.Where("is_paid = ?", false)
		}
		if input.DeliveredOnly {
			q = q.Where("is_delivered = ?", true)
		}
		return q
	})
}

func (r *Repository) list(ctx context.Context, params pagination.Params, scope func(*gorm.DB) *gorm.DB) ([]models.Order, *string, error) {
	limit := pagination.NormalizeLimit(params.Limit)

	query := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Preload("Items").
		Order("created_at DESC, id DESC").
		Limit(pagination.LimitWithBuffer(params.Limit))
	query = scope(query)

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, nil, err
	}
	if cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var rows []models.Order
	if err := query.Find(&rows).Error; err != nil {
		return nil, nil, err
	}

	var nextCursor *string
	if len(rows) > limit {
		rows = rows[:limit]
		last := rows[len(rows)-1]
		next := pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
		nextCursor = &next
	}
	return rows, nextCursor, nil
}

// ListAllWithUsers loads every order with its user, used by the dashboard aggregation.
func (r *Repository) ListAllWithUsers(ctx context.Context) ([]models.Order, error) {
	var rows []models.Order
	err := r.db.WithContext(ctx).
		Preload("User").
		Order("created_at ASC, id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// MarkPaid flips the paid flag and records the timestamp.
func (r *Repository) MarkPaid(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"is_paid": true,
			"paid_at": at,
		}).Error
}

// MarkDelivered flips the delivered flag and records the timestamp.
func (r *Repository) MarkDelivered(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"is_delivered": true,
			"delivered_at": at,
		}).Error
}

// Delete removes the order; line items cascade at the database level.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Order{}, "id = ?", id).Error
}

// DeleteUnpaidOlderThan expires stale unpaid orders one at a time, returning
// each line item's reserved quantity to product stock before the delete. A
// failing order is skipped so the rest of the batch still drains; the errors
// come back combined alongside the count of orders actually removed.
func (r *Repository) DeleteUnpaidOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	var stale []models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("is_paid = ? AND created_at < ?", false, cutoff).
		Find(&stale).Error
	if err != nil {
		return 0, err
	}

	var deleted int64
	var errs []error
	for i := range stale {
		if err := r.expireOrder(ctx, &stale[i]); err != nil {
			errs = append(errs, fmt.Errorf("expire order %s: %w", stale[i].ID, err))
			continue
		}
		deleted++
	}
	return deleted, multierr.Combine(errs...)
}

func (r *Repository) expireOrder(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		productRepo := catalog.NewRepository(tx)
		for i := range order.Items {
			item := &order.Items[i]
			if item.ProductID == nil {
				continue
			}
			if err := productRepo.IncrementStock(ctx, *item.ProductID, item.Qty); err != nil {
				return err
			}
		}
		return tx.Delete(&models.Order{}, "id = ?", order.ID).Error
	})
}

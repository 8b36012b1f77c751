package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/sameer7300/Oraagh/internal/domain"
)

const orderColumns = `id, user_id, order_number, status,
	billing_name, billing_email, billing_phone, billing_address, billing_city, billing_state, billing_zip, billing_country,
	shipping_name, shipping_address, shipping_city, shipping_state, shipping_zip, shipping_country,
	subtotal, tax, shipping_cost, total,
	payment_method, payment_status,
	tracking_number, courier_name, courier_contact, tracking_url,
	customer_notes, admin_notes, created_at, updated_at`

// CreateOrder writes the order header and its line items in one
// transaction, so a half-written order never becomes visible.
func (r *Repository) CreateOrder(ctx context.Context, order *domain.Order) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `INSERT INTO orders (id, user_id, order_number, status,
	            billing_name, billing_email, billing_phone, billing_address, billing_city, billing_state, billing_zip, billing_country,
	            shipping_name, shipping_address, shipping_city, shipping_state, shipping_zip, shipping_country,
	            subtotal, tax, shipping_cost, total, payment_method, customer_notes)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12,
	                  $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24)`
	_, insertErr := tx.ExecContext(ctx, query,
		order.ID,
		order.UserID,
		order.OrderNumber,
		order.Status,
		order.BillingName,
		order.BillingEmail,
		order.BillingPhone,
		order.BillingAddress,
		order.BillingCity,
		order.BillingState,
		order.BillingZip,
		order.BillingCountry,
		order.ShippingName,
		order.ShippingAddress,
		order.ShippingCity,
		order.ShippingState,
		order.ShippingZip,
		order.ShippingCountry,
		order.Subtotal,
		order.Tax,
		order.ShippingCost,
		order.Total,
		order.PaymentMethod,
		order.CustomerNotes,
	)
	if insertErr != nil {
		var pqErr *pq.Error
		if errors.As(insertErr, &pqErr) && pqErr.Code == "23505" {
			return ErrDuplicateOrder
		}
		return fmt.Errorf("insert order: %w", insertErr)
	}

	itemQuery := `INSERT INTO order_items (order_id, product_id, product_name, product_price, quantity, subtotal)
	              VALUES ($1, $2, $3, $4, $5, $6)`
	for i := range order.Items {
		item := &order.Items[i]
		if _, err := tx.ExecContext(ctx, itemQuery,
			order.ID,
			item.ProductID,
			item.ProductName,
			item.ProductPrice,
			item.Quantity,
			item.Subtotal,
		); err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit order: %w", err)
	}
	return nil
}

func (r *Repository) GetOrder(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	order, err := r.scanOrder(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query order by id: %w", err)
	}

	items, err := r.loadOrderItems(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	order.Items = items
	return order, nil
}

func (r *Repository) ListOrdersByUser(ctx context.Context, userID int64) ([]*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE user_id = $1 ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("query orders by user: %w", err)
	}
	defer rows.Close()

	var orders []*domain.Order
	for rows.Next() {
		order, err := r.scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order row: %w", err)
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	for _, order := range orders {
		items, err := r.loadOrderItems(ctx, order.ID)
		if err != nil {
			return nil, err
		}
		order.Items = items
	}

	return orders, nil
}

func (r *Repository) UpdateOrderStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE orders SET status = $1, updated_at = NOW() WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrOrderNotFound
	}
	return nil
}

func (r *Repository) UpdateTracking(ctx context.Context, id uuid.UUID, trackingNumber, courierName, courierContact, trackingURL string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE orders SET tracking_number = $1, courier_name = $2, courier_contact = $3, tracking_url = $4, updated_at = NOW()
		 WHERE id = $5`,
		trackingNumber, courierName, courierContact, trackingURL, id)
	if err != nil {
		return fmt.Errorf("update order tracking: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrOrderNotFound
	}
	return nil
}

func (r *Repository) scanOrder(row interface{ Scan(...any) error }) (*domain.Order, error) {
	var order domain.Order
	err := row.Scan(
		&order.ID,
		&order.UserID,
		&order.OrderNumber,
		&order.Status,
		&order.BillingName,
		&order.BillingEmail,
		&order.BillingPhone,
		&order.BillingAddress,
		&order.BillingCity,
		&order.BillingState,
		&order.BillingZip,
		&order.BillingCountry,
		&order.ShippingName,
		&order.ShippingAddress,
		&order.ShippingCity,
		&order.ShippingState,
		&order.ShippingZip,
		&order.ShippingCountry,
		&order.Subtotal,
		&order.Tax,
		&order.ShippingCost,
		&order.Total,
		&order.PaymentMethod,
		&order.PaymentStatus,
		&order.TrackingNumber,
		&order.CourierName,
		&order.CourierContact,
		&order.TrackingURL,
		&order.CustomerNotes,
		&order.AdminNotes,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *Repository) loadOrderItems(ctx context.Context, orderID uuid.UUID) ([]domain.OrderItem, error) {
	query := `SELECT id, product_id, product_name, product_price, quantity, subtotal
	          FROM order_items WHERE order_id = $1 ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("query order items: %w", err)
	}
	defer rows.Close()

	var items []domain.OrderItem
	for rows.Next() {
		var item domain.OrderItem
		var productID sql.NullInt64
		if err := rows.Scan(
			&item.ID,
			&productID,
			&item.ProductName,
			&item.ProductPrice,
			&item.Quantity,
			&item.Subtotal,
		); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		if productID.Valid {
			item.ProductID = &productID.Int64
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return items, nil
}

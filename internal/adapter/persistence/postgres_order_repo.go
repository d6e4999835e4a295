package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/farmdesk/farmdesk/internal/domain"
	"github.com/farmdesk/farmdesk/internal/ports"
)

// PostgresOrderRepository implements OrderRepository using PostgreSQL.
// Order items are stored as a JSONB column mirroring the API shape.
type PostgresOrderRepository struct {
	db *sql.DB
}

// NewPostgresOrderRepository creates a new PostgreSQL order repository
func NewPostgresOrderRepository(db *sql.DB) ports.OrderRepository {
	return &PostgresOrderRepository{db: db}
}

// Create saves a new order together with its items
func (r *PostgresOrderRepository) Create(ctx context.Context, order *domain.Order) error {
	query := `
		INSERT INTO orders (id, code, customer_id, status, items, total, ordered_at, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	itemsJSON, err := json.Marshal(order.Items)
	if err != nil {
		return fmt.Errorf("failed to marshal order items: %w", err)
	}

	_, err = r.db.ExecContext(ctx, query,
		order.ID,
		order.Code,
		order.CustomerID,
		string(order.Status),
		itemsJSON,
		order.Total,
		order.OrderedAt,
		order.CreatedBy,
		order.CreatedAt,
		order.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}

	return nil
}

// FindByID retrieves an order with its items
func (r *PostgresOrderRepository) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	query := `
		SELECT id, code, customer_id, status, items, total, ordered_at, created_by, created_at, updated_at
		FROM orders
		WHERE id = $1
	`

	order, err := scanOrder(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to find order: %w", err)
	}

	return order, nil
}

// Update updates an existing order
func (r *PostgresOrderRepository) Update(ctx context.Context, order *domain.Order) error {
	query := `
		UPDATE orders
		SET status = $2, items = $3, total = $4, updated_at = $5
		WHERE id = $1
	`

	itemsJSON, err := json.Marshal(order.Items)
	if err != nil {
		return fmt.Errorf("failed to marshal order items: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query,
		order.ID,
		string(order.Status),
		itemsJSON,
		order.Total,
		order.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to update order: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return domain.ErrOrderNotFound
	}

	return nil
}

// List retrieves orders based on filter criteria
func (r *PostgresOrderRepository) List(ctx context.Context, filter domain.OrderFilter) ([]*domain.Order, error) {
	query := `
		SELECT id, code, customer_id, status, items, total, ordered_at, created_by, created_at, updated_at
		FROM orders
		WHERE 1=1
	`

	var conditions []string
	var args []interface{}
	argIndex := 1

	if filter.CustomerID != nil {
		conditions = append(conditions, fmt.Sprintf("customer_id = $%d", argIndex))
		args = append(args, *filter.CustomerID)
		argIndex++
	}

	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argIndex))
		args = append(args, string(*filter.Status))
		argIndex++
	}

	if filter.From != nil {
		conditions = append(conditions, fmt.Sprintf("ordered_at >= $%d", argIndex))
		args = append(args, *filter.From)
		argIndex++
	}

	if filter.To != nil {
		conditions = append(conditions, fmt.Sprintf("ordered_at < $%d", argIndex))
		args = append(args, *filter.To)
		argIndex++
	}

	if len(conditions) > 0 {
		query += " AND " + strings.Join(conditions, " AND ")
	}

	query += " ORDER BY ordered_at DESC"

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argIndex)
		args = append(args, filter.Limit)
		argIndex++
	}

	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argIndex)
		args = append(args, filter.Offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var orders []*domain.Order

	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, order)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}

	return orders, nil
}

// SalesSummary aggregates delivered orders inside a date window
func (r *PostgresOrderRepository) SalesSummary(ctx context.Context, from, to time.Time) (*domain.SalesSummary, error) {
	summary := &domain.SalesSummary{
		From:       from,
		To:         to,
		ByCategory: make(map[string]float64),
	}

	totalsQuery := `
		SELECT COUNT(*), COALESCE(SUM(total), 0)
		FROM orders
		WHERE status = 'DELIVERED' AND ordered_at >= $1 AND ordered_at < $2
	`
	err := r.db.QueryRowContext(ctx, totalsQuery, from, to).Scan(&summary.OrderCount, &summary.TotalAmount)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate order totals: %w", err)
	}

	linesQuery := `
		SELECT p.id, p.name, p.category,
			SUM((item->>'qty')::numeric),
			SUM((item->>'qty')::numeric * (item->>'unit_price')::numeric)
		FROM orders o,
			jsonb_array_elements(o.items) AS item
		JOIN products p ON p.id = item->>'product_id'
		WHERE o.status = 'DELIVERED' AND o.ordered_at >= $1 AND o.ordered_at < $2
		GROUP BY p.id, p.name, p.category
		ORDER BY 5 DESC
		LIMIT 10
	`
	rows, err := r.db.QueryContext(ctx, linesQuery, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate product sales: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var row domain.ProductSalesTotals
		var category string
		if err := rows.Scan(&row.ProductID, &row.ProductName, &category, &row.Qty, &row.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan sales row: %w", err)
		}
		summary.TopProducts = append(summary.TopProducts, row)
		summary.ByCategory[category] += row.Amount
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sales rows: %w", err)
	}

	return summary, nil
}

func scanOrder(row rowScanner) (*domain.Order, error) {
	var order domain.Order
	var itemsJSON []byte

	err := row.Scan(
		&order.ID,
		&order.Code,
		&order.CustomerID,
		&order.Status,
		&itemsJSON,
		&order.Total,
		&order.OrderedAt,
		&order.CreatedBy,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(itemsJSON) > 0 {
		if err := json.Unmarshal(itemsJSON, &order.Items); err != nil {
			return nil, fmt.Errorf("failed to unmarshal order items: %w", err)
		}
	}

	return &order, nil
}

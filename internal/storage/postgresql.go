// Package storage реализует хранилище заказов и результатов проверки оплаты
// на основе PostgreSQL. Хранилище используется как журнал аудита: ответы
// клиенту от него не зависят.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	// Регистрация драйвера pgx для использования с database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/magabrotheeeer/license-checkout/internal/models"
)

// ErrOrderNotFound возвращается, если заказа нет в базе.
var ErrOrderNotFound = errors.New("order not found")

// Storage инкапсулирует соединение с базой данных PostgreSQL.
type Storage struct {
	DB *sql.DB
}

// New создаёт подключение к PostgreSQL и проверяет его.
func New(storageConnectionString string) (*Storage, error) {
	const op = "storage.New"

	db, err := sql.Open("pgx", storageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = db.PingContext(context.Background()); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{
		DB: db,
	}, nil
}

func (s *Storage) Close() error {
	return s.DB.Close()
}

// SaveOrder сохраняет созданный заказ. Повторное сохранение того же order_id игнорируется.
func (s *Storage) SaveOrder(ctx context.Context, order *models.OrderRecord) error {
	const op = "storage.SaveOrder"

	query := `INSERT INTO orders (order_id, receipt, plan_id, operator_id, amount, currency, status, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			  ON CONFLICT (order_id) DO NOTHING`
	_, err := s.DB.ExecContext(ctx, query,
		order.OrderID, order.Receipt, order.PlanID, order.OperatorID,
		order.Amount, order.Currency, order.Status, order.CreatedAt)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// GetOrder возвращает заказ по order_id.
func (s *Storage) GetOrder(ctx context.Context, orderID string) (*models.OrderRecord, error) {
	const op = "storage.GetOrder"

	query := `SELECT order_id, receipt, plan_id, operator_id, amount, currency, status, created_at
			  FROM orders WHERE order_id = $1`
	var o models.OrderRecord
	err := s.DB.QueryRowContext(ctx, query, orderID).Scan(
		&o.OrderID, &o.Receipt, &o.PlanID, &o.OperatorID, &o.Amount, &o.Currency, &o.Status, &o.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrOrderNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &o, nil
}

// UpdateOrderStatus обновляет статус заказа и возвращает количество изменённых строк.
// Статус paid конечный: оплаченный заказ не меняется, и результат будет 0.
func (s *Storage) UpdateOrderStatus(ctx context.Context, orderID, status string) (int, error) {
	const op = "storage.UpdateOrderStatus"

	query := `UPDATE orders SET status = $2, updated_at = NOW()
			  WHERE order_id = $1 AND status <> $3`
	result, err := s.DB.ExecContext(ctx, query, orderID, status, models.OrderStatusPaid)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// SaveVerification записывает результат проверки подписи оплаты.
func (s *Storage) SaveVerification(ctx context.Context, res *models.VerificationResult) error {
	const op = "storage.SaveVerification"

	query := `INSERT INTO payment_verifications (order_id, payment_id, verified, checked_at)
			  VALUES ($1, $2, $3, $4)`
	_, err := s.DB.ExecContext(ctx, query, res.OrderID, res.PaymentID, res.Verified, res.CheckedAt)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

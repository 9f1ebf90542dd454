package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	domainErrors "github.com/polkart/storefront/internal/domain/errors"
	"github.com/polkart/storefront/internal/domain/model"
	"github.com/polkart/storefront/internal/domain/repository"
)

// pgxPool is the subset of pgxpool.Pool the storage uses; tests substitute a
// pgxmock pool through it.
type pgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	BeginTx(ctx context.Context, opts pgx.TxOptions) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

var newPgxPool = func(ctx context.Context, cfg *pgxpool.Config) (pgxPool, error) {
	return pgxpool.NewWithConfig(ctx, cfg)
}

// Storage acts as repository facade backed by PostgreSQL.
type Storage struct {
	pool   pgxPool
	logger *slog.Logger
}

type userRepository struct {
	storage *Storage
}

type orderRepository struct {
	storage *Storage
}

type paymentRepository struct {
	storage *Storage
}

type cartRepository struct {
	storage *Storage
}

type itemRepository struct {
	storage *Storage
}

// New creates storage with schema initialization.
func New(ctx context.Context, dsn string, logger *slog.Logger) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	pool, err := newPgxPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	storage := &Storage{pool: pool, logger: logger}
	if err := storage.initSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return storage, nil
}

// Close releases database resources.
func (s *Storage) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Factory methods for domain repositories.
func (s *Storage) Users() repository.UserRepository {
	return &userRepository{storage: s}
}

func (s *Storage) Orders() repository.OrderRepository {
	return &orderRepository{storage: s}
}

func (s *Storage) Payments() repository.PaymentRepository {
	return &paymentRepository{storage: s}
}

func (s *Storage) Carts() repository.CartRepository {
	return &cartRepository{storage: s}
}

func (s *Storage) Items() repository.ItemRepository {
	return &itemRepository{storage: s}
}

func (s *Storage) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
            id SERIAL PRIMARY KEY,
            login TEXT UNIQUE NOT NULL,
            password_hash TEXT NOT NULL,
            address TEXT NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS items (
            id SERIAL PRIMARY KEY,
            name TEXT NOT NULL,
            price BIGINT NOT NULL,
            token_id TEXT NOT NULL DEFAULT ''
        )`,
		`CREATE TABLE IF NOT EXISTS orders (
            id SERIAL PRIMARY KEY,
            user_id BIGINT NOT NULL REFERENCES users(id),
            order_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS order_items (
            order_id BIGINT NOT NULL REFERENCES orders(id),
            item_id BIGINT NOT NULL REFERENCES items(id),
            PRIMARY KEY (order_id, item_id)
        )`,
		`CREATE TABLE IF NOT EXISTS cart_sessions (
            id SERIAL PRIMARY KEY,
            user_id BIGINT UNIQUE NOT NULL REFERENCES users(id),
            order_id BIGINT REFERENCES orders(id)
        )`,
		`CREATE TABLE IF NOT EXISTS cart_session_items (
            cart_session_id BIGINT NOT NULL REFERENCES cart_sessions(id) ON DELETE CASCADE,
            item_id BIGINT NOT NULL REFERENCES items(id),
            PRIMARY KEY (cart_session_id, item_id)
        )`,
		`CREATE TABLE IF NOT EXISTS payments (
            id SERIAL PRIMARY KEY,
            payment_id TEXT UNIQUE NOT NULL,
            status TEXT NOT NULL,
            order_id BIGINT NOT NULL REFERENCES orders(id),
            provider TEXT NOT NULL,
            expires_at TIMESTAMPTZ NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS user_items (
            user_id BIGINT NOT NULL REFERENCES users(id),
            item_id BIGINT NOT NULL REFERENCES items(id),
            PRIMARY KEY (user_id, item_id)
        )`,
		`CREATE INDEX IF NOT EXISTS idx_payments_order ON payments(order_id)`,
		`CREATE INDEX IF NOT EXISTS idx_payments_expiry ON payments(status, expires_at)`,
	}

	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}

	return nil
}

func terminalStatuses() []string {
	result := make([]string, 0, len(model.TerminalStatuses))
	for _, s := range model.TerminalStatuses {
		result = append(result, string(s))
	}
	return result
}

// cancelableStatuses lists states cancelOrder may transition out of.
func cancelableStatuses() []string {
	return []string{
		string(model.PaymentStatusCreated),
		string(model.PaymentStatusProcessing),
		string(model.PaymentStatusTimedOut),
	}
}

// --- UserRepository implementation ---

func (r *userRepository) Create(ctx context.Context, login, passwordHash, address string) (*model.User, error) {
	const query = `INSERT INTO users (login, password_hash, address) VALUES ($1, $2, $3) RETURNING id, created_at`
	var u model.User
	err := r.storage.pool.QueryRow(ctx, query, login, passwordHash, address).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domainErrors.ErrAlreadyExists
		}
		return nil, err
	}
	u.Login = login
	u.PasswordHash = passwordHash
	u.Address = address
	return &u, nil
}

func (r *userRepository) GetByLogin(ctx context.Context, login string) (*model.User, error) {
	const query = `SELECT id, login, password_hash, address, created_at FROM users WHERE login=$1`
	var u model.User
	err := r.storage.pool.QueryRow(ctx, query, login).Scan(&u.ID, &u.Login, &u.PasswordHash, &u.Address, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	const query = `SELECT id, login, password_hash, address, created_at FROM users WHERE id=$1`
	var u model.User
	err := r.storage.pool.QueryRow(ctx, query, id).Scan(&u.ID, &u.Login, &u.PasswordHash, &u.Address, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// --- OrderRepository implementation ---

func (r *orderRepository) PrepareFromCart(ctx context.Context, userID int64) (*model.PreparedOrder, error) {
	var prepared model.PreparedOrder
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		const sessionQuery = `SELECT id, order_id FROM cart_sessions WHERE user_id=$1 FOR UPDATE`
		var (
			sessionID    int64
			priorOrderID *int64
		)
		if err := tx.QueryRow(ctx, sessionQuery, userID).Scan(&sessionID, &priorOrderID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domainErrors.ErrNoActiveCart
			}
			return err
		}

		const amountQuery = `SELECT COALESCE(SUM(items.price), 0), COUNT(*)
                             FROM cart_session_items
                             JOIN items ON items.id = cart_session_items.item_id
                             WHERE cart_session_id=$1`
		var (
			amount    int64
			itemCount int64
		)
		if err := tx.QueryRow(ctx, amountQuery, sessionID).Scan(&amount, &itemCount); err != nil {
			return err
		}
		if itemCount == 0 {
			return domainErrors.ErrEmptyCart
		}

		// A reused cart may still point at an order with a pending payment;
		// cancel it first so only the new payment stays non-terminal.
		if priorOrderID != nil {
			const displaceQuery = `UPDATE payments SET status=$2
                                   WHERE order_id=$1 AND NOT status = ANY($3)
                                   RETURNING id, payment_id, order_id, provider, expires_at, created_at`
			var displaced model.Payment
			displaced.Status = model.PaymentStatusCanceled
			err := tx.QueryRow(ctx, displaceQuery, *priorOrderID, model.PaymentStatusCanceled, terminalStatuses()).
				Scan(&displaced.ID, &displaced.PaymentID, &displaced.OrderID, &displaced.Provider, &displaced.ExpiresAt, &displaced.CreatedAt)
			switch {
			case err == nil:
				prepared.Displaced = &displaced
			case errors.Is(err, pgx.ErrNoRows):
				// Prior order has no pending payment, nothing to displace.
			default:
				return err
			}
		}

		const orderQuery = `INSERT INTO orders (user_id) VALUES ($1) RETURNING id, order_at`
		var order model.Order
		if err := tx.QueryRow(ctx, orderQuery, userID).Scan(&order.ID, &order.OrderAt); err != nil {
			return err
		}
		order.UserID = userID

		const linkQuery = `INSERT INTO order_items (order_id, item_id)
                           SELECT $1, item_id FROM cart_session_items WHERE cart_session_id=$2`
		if _, err := tx.Exec(ctx, linkQuery, order.ID, sessionID); err != nil {
			return err
		}

		const backrefQuery = `UPDATE cart_sessions SET order_id=$1 WHERE id=$2`
		if _, err := tx.Exec(ctx, backrefQuery, order.ID, sessionID); err != nil {
			return err
		}

		prepared.Order = order
		prepared.AmountBaseUnit = amount
		prepared.CartSessionID = sessionID
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &prepared, nil
}

func (r *orderRepository) GetByID(ctx context.Context, orderID int64) (*model.Order, error) {
	const query = `SELECT id, user_id, order_at FROM orders WHERE id=$1`
	var order model.Order
	err := r.storage.pool.QueryRow(ctx, query, orderID).Scan(&order.ID, &order.UserID, &order.OrderAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) RecipientAddress(ctx context.Context, orderID int64) (string, error) {
	const query = `SELECT address FROM users JOIN orders ON orders.user_id = users.id WHERE orders.id=$1`
	var address string
	err := r.storage.pool.QueryRow(ctx, query, orderID).Scan(&address)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", domainErrors.ErrNotFound
		}
		return "", err
	}
	return address, nil
}

func (r *orderRepository) AssignItemsToBuyer(ctx context.Context, orderID int64) ([]int64, error) {
	// The insert is the idempotency gate: a second checkout of the same
	// order conflicts on the primary key and returns zero rows.
	const query = `INSERT INTO user_items (user_id, item_id)
                   SELECT orders.user_id, order_items.item_id
                   FROM order_items
                   JOIN orders ON orders.id = order_items.order_id
                   WHERE order_items.order_id=$1
                   ON CONFLICT DO NOTHING
                   RETURNING item_id`
	rows, err := r.storage.pool.Query(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}

// --- PaymentRepository implementation ---

func (r *paymentRepository) Register(ctx context.Context, provider model.PaymentProvider, paymentID string, orderID int64, expiresAt time.Time) (*model.Payment, error) {
	const query = `INSERT INTO payments (payment_id, status, order_id, provider, expires_at)
                   VALUES ($1, $2, $3, $4, $5)
                   RETURNING id, created_at`
	payment := model.Payment{
		PaymentID: paymentID,
		Status:    model.PaymentStatusCreated,
		OrderID:   orderID,
		Provider:  provider,
		ExpiresAt: expiresAt,
	}
	err := r.storage.pool.QueryRow(ctx, query, paymentID, model.PaymentStatusCreated, orderID, provider, expiresAt).
		Scan(&payment.ID, &payment.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domainErrors.ErrAlreadyExists
		}
		return nil, err
	}
	return &payment, nil
}

func (r *paymentRepository) ApplyStatus(ctx context.Context, paymentID string, status model.PaymentStatus) (*model.StatusTransition, error) {
	var transition model.StatusTransition
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		const prevQuery = `SELECT order_id, status FROM payments WHERE payment_id=$1 FOR UPDATE`
		if err := tx.QueryRow(ctx, prevQuery, paymentID).Scan(&transition.OrderID, &transition.Previous); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domainErrors.ErrNotFound
			}
			return err
		}

		// Terminal states never change; the guard makes duplicate and
		// out-of-order deliveries no-ops.
		const updateQuery = `UPDATE payments SET status=$1
                             WHERE payment_id=$2 AND NOT status = ANY($3)`
		tag, err := tx.Exec(ctx, updateQuery, status, paymentID, terminalStatuses())
		if err != nil {
			return err
		}
		transition.Applied = tag.RowsAffected() == 1
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &transition, nil
}

func (r *paymentRepository) CancelByOrderID(ctx context.Context, orderID int64, target model.PaymentStatus) (*model.Payment, error) {
	const query = `UPDATE payments SET status=$2
                   WHERE order_id=$1 AND status = ANY($3)
                   RETURNING id, payment_id, order_id, provider, expires_at, created_at`
	payment := model.Payment{Status: target}
	err := r.storage.pool.QueryRow(ctx, query, orderID, target, cancelableStatuses()).
		Scan(&payment.ID, &payment.PaymentID, &payment.OrderID, &payment.Provider, &payment.ExpiresAt, &payment.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotCancelable
		}
		return nil, err
	}
	return &payment, nil
}

const paymentColumns = `id, payment_id, status, order_id, provider, expires_at, created_at`

func scanPayment(row pgx.Row) (*model.Payment, error) {
	var p model.Payment
	err := row.Scan(&p.ID, &p.PaymentID, &p.Status, &p.OrderID, &p.Provider, &p.ExpiresAt, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *paymentRepository) ListExpired(ctx context.Context, limit int) ([]model.Payment, error) {
	const query = `SELECT ` + paymentColumns + `
                   FROM payments
                   WHERE expires_at < NOW() AND NOT status = ANY($1)
                   ORDER BY expires_at
                   LIMIT $2`
	rows, err := r.storage.pool.Query(ctx, query, terminalStatuses(), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectPayments(rows)
}

func (r *paymentRepository) ListPending(ctx context.Context, provider model.PaymentProvider, limit int) ([]model.Payment, error) {
	const query = `SELECT ` + paymentColumns + `
                   FROM payments
                   WHERE provider=$1 AND status=$2
                   ORDER BY created_at
                   LIMIT $3`
	rows, err := r.storage.pool.Query(ctx, query, provider, model.PaymentStatusCreated, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectPayments(rows)
}

func collectPayments(rows pgx.Rows) ([]model.Payment, error) {
	var result []model.Payment
	for rows.Next() {
		var p model.Payment
		if err := rows.Scan(&p.ID, &p.PaymentID, &p.Status, &p.OrderID, &p.Provider, &p.ExpiresAt, &p.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *paymentRepository) GetByPaymentID(ctx context.Context, paymentID string) (*model.Payment, error) {
	const query = `SELECT ` + paymentColumns + ` FROM payments WHERE payment_id=$1`
	payment, err := scanPayment(r.storage.pool.QueryRow(ctx, query, paymentID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return payment, nil
}

func (r *paymentRepository) GetByOrderID(ctx context.Context, orderID int64) (*model.Payment, error) {
	const query = `SELECT ` + paymentColumns + ` FROM payments WHERE order_id=$1 ORDER BY id DESC LIMIT 1`
	payment, err := scanPayment(r.storage.pool.QueryRow(ctx, query, orderID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return payment, nil
}

// --- CartRepository implementation ---

func (r *cartRepository) ActiveSession(ctx context.Context, userID int64) (int64, error) {
	const insertQuery = `INSERT INTO cart_sessions (user_id) VALUES ($1)
                         ON CONFLICT (user_id) DO NOTHING
                         RETURNING id`
	var sessionID int64
	err := r.storage.pool.QueryRow(ctx, insertQuery, userID).Scan(&sessionID)
	if err == nil {
		return sessionID, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, err
	}

	const selectQuery = `SELECT id FROM cart_sessions WHERE user_id=$1`
	if err := r.storage.pool.QueryRow(ctx, selectQuery, userID).Scan(&sessionID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domainErrors.ErrNoActiveCart
		}
		return 0, err
	}
	return sessionID, nil
}

func (r *cartRepository) Meta(ctx context.Context, sessionID int64) (*model.CartMeta, error) {
	const metaQuery = `SELECT id, user_id, order_id FROM cart_sessions WHERE id=$1`
	var meta model.CartMeta
	err := r.storage.pool.QueryRow(ctx, metaQuery, sessionID).Scan(&meta.ID, &meta.UserID, &meta.OrderID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}

	const itemsQuery = `SELECT item_id FROM cart_session_items WHERE cart_session_id=$1 ORDER BY item_id`
	rows, err := r.storage.pool.Query(ctx, itemsQuery, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		meta.ItemIDs = append(meta.ItemIDs, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &meta, nil
}

func (r *cartRepository) AddItem(ctx context.Context, sessionID, itemID int64) error {
	const query = `INSERT INTO cart_session_items (cart_session_id, item_id)
                   SELECT $1, id FROM items WHERE id=$2
                   ON CONFLICT DO NOTHING`
	tag, err := r.storage.pool.Exec(ctx, query, sessionID, itemID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		// Zero rows means either a repeated add or an unknown item.
		const existsQuery = `SELECT 1 FROM items WHERE id=$1`
		var one int
		if err := r.storage.pool.QueryRow(ctx, existsQuery, itemID).Scan(&one); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domainErrors.ErrNotFound
			}
			return err
		}
	}
	return nil
}

func (r *cartRepository) RemoveItem(ctx context.Context, sessionID, itemID int64) error {
	const query = `DELETE FROM cart_session_items WHERE cart_session_id=$1 AND item_id=$2`
	tag, err := r.storage.pool.Exec(ctx, query, sessionID, itemID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func (r *cartRepository) DeleteByOrderID(ctx context.Context, orderID int64) error {
	const query = `DELETE FROM cart_sessions WHERE order_id=$1`
	_, err := r.storage.pool.Exec(ctx, query, orderID)
	return err
}

// --- ItemRepository implementation ---

func (r *itemRepository) FindByIDs(ctx context.Context, ids []int64) ([]model.Item, error) {
	const query = `SELECT id, name, price, token_id FROM items WHERE id = ANY($1) ORDER BY id`
	rows, err := r.storage.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Item
	for rows.Next() {
		var item model.Item
		if err := rows.Scan(&item.ID, &item.Name, &item.Price, &item.TokenID); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// WithinTransaction executes function inside transaction boundary.
func (s *Storage) WithinTransaction(ctx context.Context, fn func(pgx.Tx) error) (err error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()

	err = fn(tx)
	return err
}

// HealthCheck verifies database connectivity.
func (s *Storage) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.pool.Ping(ctx)
}

// Logger returns storage logger.
func (s *Storage) Logger() *slog.Logger {
	return s.logger
}

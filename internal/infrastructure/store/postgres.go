package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"github.com/example/storefront/internal/model"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const uniqueViolation = "23505"

const schema = `
CREATE TABLE IF NOT EXISTS sf_categories (
	id          TEXT PRIMARY KEY,
	name        TEXT NOT NULL,
	slug        TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	image_url   TEXT NOT NULL DEFAULT '',
	position    SERIAL
);
CREATE TABLE IF NOT EXISTS sf_products (
	id              TEXT PRIMARY KEY,
	name            TEXT NOT NULL,
	description     TEXT NOT NULL DEFAULT '',
	price           NUMERIC(12,2) NOT NULL,
	image_url       TEXT NOT NULL DEFAULT '',
	category_id     TEXT NOT NULL DEFAULT '',
	available_sizes JSONB NOT NULL DEFAULT '[]',
	stock           INTEGER NOT NULL DEFAULT 0,
	sku             TEXT NOT NULL DEFAULT '',
	position        SERIAL
);
CREATE TABLE IF NOT EXISTS sf_faqs (
	id         TEXT PRIMARY KEY,
	question   TEXT NOT NULL,
	answer     TEXT NOT NULL,
	category   TEXT NOT NULL DEFAULT '',
	is_active  BOOLEAN NOT NULL DEFAULT TRUE,
	sort_order INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS sf_users (
	id            TEXT PRIMARY KEY,
	name          TEXT NOT NULL,
	email         TEXT NOT NULL,
	password_hash TEXT NOT NULL,
	role          TEXT NOT NULL,
	avatar_url    TEXT,
	last_login    TIMESTAMPTZ,
	created_at    TIMESTAMPTZ NOT NULL
);
CREATE UNIQUE INDEX IF NOT EXISTS sf_users_email_idx ON sf_users (LOWER(email));
CREATE TABLE IF NOT EXISTS sf_orders (
	id            TEXT PRIMARY KEY,
	customer_id   TEXT NOT NULL DEFAULT '',
	customer_info JSONB NOT NULL,
	items         JSONB NOT NULL,
	total_amount  NUMERIC(12,2) NOT NULL,
	status        TEXT NOT NULL,
	notes         TEXT NOT NULL DEFAULT '',
	order_date    TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS sf_orders_customer_idx ON sf_orders (customer_id, order_date DESC);
`

// ConnectPostgres opens and pings a PostgreSQL connection pool.
func ConnectPostgres(ctx context.Context, connStr string) (*sql.DB, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open postgres")
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "failed to ping postgres")
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	return db, nil
}

// PostgresRepository implements Repository on PostgreSQL. Order lines and
// customer info are stored as JSONB, passed as strings since lib/pq sends
// []byte as bytea.
type PostgresRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewPostgresRepository(db *sql.DB, logger *zap.Logger) *PostgresRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PostgresRepository{db: db, logger: logger.Named("postgres")}
}

// EnsureSchema creates the tables if they do not exist.
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return errors.Wrap(err, "failed to create schema")
	}
	return nil
}

func (r *PostgresRepository) ListProducts(ctx context.Context) ([]model.Product, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT p.id, p.name, p.description, p.price, p.image_url, p.category_id,
		       COALESCE(c.name, ''), p.available_sizes, p.stock, p.sku
		FROM sf_products p LEFT JOIN sf_categories c ON c.id = p.category_id
		ORDER BY p.position
	`)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list products")
	}
	defer rows.Close()

	products := []model.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, *p)
	}
	return products, errors.Wrap(rows.Err(), "failed to list products")
}

func (r *PostgresRepository) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT p.id, p.name, p.description, p.price, p.image_url, p.category_id,
		       COALESCE(c.name, ''), p.available_sizes, p.stock, p.sku
		FROM sf_products p LEFT JOIN sf_categories c ON c.id = p.category_id
		WHERE p.id = $1
	`, id)
	p, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return p, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProduct(s scanner) (*model.Product, error) {
	var p model.Product
	var sizes []byte
	if err := s.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.ImageURL, &p.CategoryID,
		&p.CategoryName, &sizes, &p.Stock, &p.SKU); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, errors.Wrap(err, "failed to scan product")
	}
	if err := json.Unmarshal(sizes, &p.AvailableSizes); err != nil {
		return nil, errors.Wrapf(err, "invalid sizes for product %s", p.ID)
	}
	return &p, nil
}

func (r *PostgresRepository) SaveProduct(ctx context.Context, p model.Product) error {
	sizes, err := json.Marshal(nonNil(p.AvailableSizes))
	if err != nil {
		return errors.Wrap(err, "failed to encode sizes")
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO sf_products (id, name, description, price, image_url, category_id, available_sizes, stock, sku)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			price = EXCLUDED.price,
			image_url = EXCLUDED.image_url,
			category_id = EXCLUDED.category_id,
			available_sizes = EXCLUDED.available_sizes,
			stock = EXCLUDED.stock,
			sku = EXCLUDED.sku
	`, p.ID, p.Name, p.Description, p.Price, p.ImageURL, p.CategoryID, string(sizes), p.Stock, p.SKU)
	return errors.Wrapf(err, "failed to save product %s", p.ID)
}

func (r *PostgresRepository) ListCategories(ctx context.Context) ([]model.Category, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, slug, description, image_url FROM sf_categories ORDER BY position
	`)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list categories")
	}
	defer rows.Close()

	categories := []model.Category{}
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.ImageURL); err != nil {
			return nil, errors.Wrap(err, "failed to scan category")
		}
		categories = append(categories, c)
	}
	return categories, errors.Wrap(rows.Err(), "failed to list categories")
}

func (r *PostgresRepository) GetCategory(ctx context.Context, id string) (*model.Category, error) {
	var c model.Category
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, slug, description, image_url FROM sf_categories WHERE id = $1
	`, id).Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.ImageURL)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to get category")
	}
	return &c, nil
}

func (r *PostgresRepository) SaveCategory(ctx context.Context, c model.Category) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO sf_categories (id, name, slug, description, image_url)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			slug = EXCLUDED.slug,
			description = EXCLUDED.description,
			image_url = EXCLUDED.image_url
	`, c.ID, c.Name, c.Slug, c.Description, c.ImageURL)
	return errors.Wrapf(err, "failed to save category %s", c.ID)
}

func (r *PostgresRepository) ListFAQs(ctx context.Context) ([]model.FAQ, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, question, answer, category, is_active, sort_order FROM sf_faqs ORDER BY sort_order, id
	`)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list faqs")
	}
	defer rows.Close()

	faqs := []model.FAQ{}
	for rows.Next() {
		var f model.FAQ
		if err := rows.Scan(&f.ID, &f.Question, &f.Answer, &f.Category, &f.IsActive, &f.Order); err != nil {
			return nil, errors.Wrap(err, "failed to scan faq")
		}
		faqs = append(faqs, f)
	}
	return faqs, errors.Wrap(rows.Err(), "failed to list faqs")
}

func (r *PostgresRepository) SaveFAQ(ctx context.Context, f model.FAQ) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO sf_faqs (id, question, answer, category, is_active, sort_order)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			question = EXCLUDED.question,
			answer = EXCLUDED.answer,
			category = EXCLUDED.category,
			is_active = EXCLUDED.is_active,
			sort_order = EXCLUDED.sort_order
	`, f.ID, f.Question, f.Answer, f.Category, f.IsActive, f.Order)
	return errors.Wrapf(err, "failed to save faq %s", f.ID)
}

func (r *PostgresRepository) CreateUser(ctx context.Context, u UserRecord) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO sf_users (id, name, email, password_hash, role, avatar_url, last_login, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, u.ID, u.Name, u.Email, u.PasswordHash, string(u.Role), u.AvatarURL, u.LastLogin, u.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return ErrEmailTaken
		}
		return errors.Wrap(err, "failed to create user")
	}
	return nil
}

func (r *PostgresRepository) GetUser(ctx context.Context, id string) (*UserRecord, error) {
	return r.getUser(ctx, `WHERE id = $1`, id)
}

func (r *PostgresRepository) GetUserByEmail(ctx context.Context, email string) (*UserRecord, error) {
	return r.getUser(ctx, `WHERE LOWER(email) = $1`, strings.ToLower(email))
}

func (r *PostgresRepository) getUser(ctx context.Context, where string, arg string) (*UserRecord, error) {
	var u UserRecord
	var role string
	var avatar sql.NullString
	var lastLogin sql.NullTime
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, email, password_hash, role, avatar_url, last_login, created_at
		FROM sf_users `+where, arg).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &role, &avatar, &lastLogin, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to get user")
	}

	u.Role = model.Role(role)
	if avatar.Valid {
		u.AvatarURL = &avatar.String
	}
	if lastLogin.Valid {
		u.LastLogin = &lastLogin.Time
	}
	return &u, nil
}

func (r *PostgresRepository) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	res, err := r.db.ExecContext(ctx, `UPDATE sf_users SET last_login = $2 WHERE id = $1`, id, at)
	if err != nil {
		return errors.Wrap(err, "failed to update last login")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) CreateOrder(ctx context.Context, o model.Order) error {
	info, err := json.Marshal(o.CustomerInfo)
	if err != nil {
		return errors.Wrap(err, "failed to encode customer info")
	}
	items, err := json.Marshal(o.Items)
	if err != nil {
		return errors.Wrap(err, "failed to encode order items")
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO sf_orders (id, customer_id, customer_info, items, total_amount, status, notes, order_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, o.ID, o.CustomerID, string(info), string(items), o.TotalAmount, string(o.Status), o.Notes, o.OrderDate)
	return errors.Wrapf(err, "failed to create order %s", o.ID)
}

func (r *PostgresRepository) ListOrders(ctx context.Context, customerID string) ([]model.Order, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, customer_id, customer_info, items, total_amount, status, notes, order_date
		FROM sf_orders
		WHERE $1 = '' OR customer_id = $1
		ORDER BY order_date DESC
	`, customerID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list orders")
	}
	defer rows.Close()

	orders := []model.Order{}
	for rows.Next() {
		var o model.Order
		var info, items []byte
		var status string
		if err := rows.Scan(&o.ID, &o.CustomerID, &info, &items, &o.TotalAmount, &status, &o.Notes, &o.OrderDate); err != nil {
			return nil, errors.Wrap(err, "failed to scan order")
		}
		o.Status = model.OrderStatus(status)
		if err := json.Unmarshal(info, &o.CustomerInfo); err != nil {
			r.logger.Warn("order has invalid customer info", zap.String("order_id", o.ID), zap.Error(err))
		}
		if err := json.Unmarshal(items, &o.Items); err != nil {
			r.logger.Warn("order has invalid items", zap.String("order_id", o.ID), zap.Error(err))
		}
		orders = append(orders, o)
	}
	return orders, errors.Wrap(rows.Err(), "failed to list orders")
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

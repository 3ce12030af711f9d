package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/terra-clan/techdesk/internal/models"
)

const uniqueViolation = "23505"

// PostgresRepository implements Repository using PostgreSQL
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// PostgresConfig holds PostgreSQL connection configuration
type PostgresConfig struct {
	DSN          string
	MaxOpenConns int32
	MaxIdleConns int32
	MaxLifetime  time.Duration
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(ctx context.Context, cfg PostgresConfig) (*PostgresRepository, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to parse DSN: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		poolConfig.MaxConns = cfg.MaxOpenConns
	} else {
		poolConfig.MaxConns = 25
	}

	if cfg.MaxIdleConns > 0 {
		poolConfig.MinConns = cfg.MaxIdleConns
	} else {
		poolConfig.MinConns = 2
	}

	if cfg.MaxLifetime > 0 {
		poolConfig.MaxConnLifetime = cfg.MaxLifetime
	} else {
		poolConfig.MaxConnLifetime = 30 * time.Minute
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresRepository{pool: pool}, nil
}

// Ping checks database connectivity
func (r *PostgresRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

// Close closes the database connection pool
func (r *PostgresRepository) Close() error {
	r.pool.Close()
	return nil
}

// --- Clients ---

const clientColumns = `id, name, dni, email, phone, status, registered_at`

// CreateClient inserts a client and fills in its ID
func (r *PostgresRepository) CreateClient(ctx context.Context, c *models.Client) error {
	query := `
		INSERT INTO clients (name, dni, email, phone, status, registered_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	err := r.pool.QueryRow(ctx, query,
		c.Name,
		c.DNI,
		c.Email,
		nullString(c.Phone),
		string(c.Status),
		c.RegisteredAt,
	).Scan(&c.ID)

	if err != nil {
		return wrapWriteError("failed to create client", err)
	}

	return nil
}

// GetClient retrieves a client by ID
func (r *PostgresRepository) GetClient(ctx context.Context, id int64) (*models.Client, error) {
	return r.getClient(ctx, "id", id)
}

// GetClientByDNI retrieves a client by national ID
func (r *PostgresRepository) GetClientByDNI(ctx context.Context, dni string) (*models.Client, error) {
	return r.getClient(ctx, "dni", dni)
}

// GetClientByEmail retrieves a client by email
func (r *PostgresRepository) GetClientByEmail(ctx context.Context, email string) (*models.Client, error) {
	return r.getClient(ctx, "email", email)
}

func (r *PostgresRepository) getClient(ctx context.Context, field string, value interface{}) (*models.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE ` + field + ` = $1`

	c, err := scanClient(r.pool.QueryRow(ctx, query, value))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("failed to get client: %w", err)
	}

	return c, nil
}

// UpdateClient updates an existing client. registered_at is immutable.
func (r *PostgresRepository) UpdateClient(ctx context.Context, c *models.Client) error {
	query := `
		UPDATE clients
		SET name = $2, dni = $3, email = $4, phone = $5, status = $6
		WHERE id = $1
	`

	result, err := r.pool.Exec(ctx, query,
		c.ID,
		c.Name,
		c.DNI,
		c.Email,
		nullString(c.Phone),
		string(c.Status),
	)
	if err != nil {
		return wrapWriteError("failed to update client", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("client %d: %w", c.ID, ErrNotFound)
	}

	return nil
}

// DeleteClient deletes a client by ID
func (r *PostgresRepository) DeleteClient(ctx context.Context, id int64) error {
	return r.deleteByID(ctx, "clients", "client", id)
}

// ListClients returns all clients
func (r *PostgresRepository) ListClients(ctx context.Context) ([]*models.Client, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+clientColumns+` FROM clients ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	defer rows.Close()

	var clients []*models.Client
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan client: %w", err)
		}
		clients = append(clients, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating clients: %w", err)
	}

	return clients, nil
}

func scanClient(row pgx.Row) (*models.Client, error) {
	var c models.Client
	var status string
	var phone sql.NullString

	if err := row.Scan(&c.ID, &c.Name, &c.DNI, &c.Email, &phone, &status, &c.RegisteredAt); err != nil {
		return nil, err
	}

	c.Phone = phone.String
	c.Status = models.ClientStatus(status)
	return &c, nil
}

// --- Orders ---

const orderColumns = `id, order_number, client_id, summary, status, created_at`

// CreateOrder inserts an order and fills in its ID
func (r *PostgresRepository) CreateOrder(ctx context.Context, o *models.Order) error {
	query := `
		INSERT INTO orders (order_number, client_id, summary, status, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	err := r.pool.QueryRow(ctx, query,
		o.OrderNumber,
		nullInt64(o.ClientID),
		nullString(o.Summary),
		string(o.Status),
		o.CreatedAt,
	).Scan(&o.ID)

	if err != nil {
		return wrapWriteError("failed to create order", err)
	}

	return nil
}

// GetOrder retrieves an order by ID
func (r *PostgresRepository) GetOrder(ctx context.Context, id int64) (*models.Order, error) {
	return r.getOrder(ctx, "id", id)
}

// GetOrderByNumber retrieves an order by its order number
func (r *PostgresRepository) GetOrderByNumber(ctx context.Context, number string) (*models.Order, error) {
	return r.getOrder(ctx, "order_number", number)
}

func (r *PostgresRepository) getOrder(ctx context.Context, field string, value interface{}) (*models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE ` + field + ` = $1`

	o, err := scanOrder(r.pool.QueryRow(ctx, query, value))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	return o, nil
}

// UpdateOrder updates an existing order. created_at is never written.
func (r *PostgresRepository) UpdateOrder(ctx context.Context, o *models.Order) error {
	query := `
		UPDATE orders
		SET order_number = $2, client_id = $3, summary = $4, status = $5
		WHERE id = $1
	`

	result, err := r.pool.Exec(ctx, query,
		o.ID,
		o.OrderNumber,
		nullInt64(o.ClientID),
		nullString(o.Summary),
		string(o.Status),
	)
	if err != nil {
		return wrapWriteError("failed to update order", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("order %d: %w", o.ID, ErrNotFound)
	}

	return nil
}

// DeleteOrder deletes an order by ID
func (r *PostgresRepository) DeleteOrder(ctx context.Context, id int64) error {
	return r.deleteByID(ctx, "orders", "order", id)
}

// ListOrders returns orders matching filters, oldest first
func (r *PostgresRepository) ListOrders(ctx context.Context, filters models.OrderFilters) ([]*models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE 1=1`
	args := make([]interface{}, 0)
	argNum := 1

	if filters.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", argNum)
		args = append(args, string(filters.Status))
		argNum++
	}

	if filters.ClientID != nil {
		query += fmt.Sprintf(" AND client_id = $%d", argNum)
		args = append(args, *filters.ClientID)
	}

	query += " ORDER BY created_at ASC, id ASC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	var orders []*models.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}

	return orders, nil
}

func scanOrder(row pgx.Row) (*models.Order, error) {
	var o models.Order
	var status string
	var clientID sql.NullInt64
	var summary sql.NullString

	if err := row.Scan(&o.ID, &o.OrderNumber, &clientID, &summary, &status, &o.CreatedAt); err != nil {
		return nil, err
	}

	if clientID.Valid {
		id := clientID.Int64
		o.ClientID = &id
	}
	o.Summary = summary.String
	o.Status = models.OrderStatus(status)
	return &o, nil
}

// --- Services ---

const serviceColumns = `id, service_group, name, description, price::float8, status`

// CreateService inserts a catalog entry and fills in its ID
func (r *PostgresRepository) CreateService(ctx context.Context, s *models.Service) error {
	query := `
		INSERT INTO services (service_group, name, description, price, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	err := r.pool.QueryRow(ctx, query,
		s.Group,
		s.Name,
		nullString(s.Description),
		s.Price,
		string(s.Status),
	).Scan(&s.ID)

	if err != nil {
		return wrapWriteError("failed to create service", err)
	}

	return nil
}

// GetService retrieves a catalog entry by ID
func (r *PostgresRepository) GetService(ctx context.Context, id int64) (*models.Service, error) {
	query := `SELECT ` + serviceColumns + ` FROM services WHERE id = $1`

	s, err := scanService(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("failed to get service: %w", err)
	}

	return s, nil
}

// UpdateService updates an existing catalog entry
func (r *PostgresRepository) UpdateService(ctx context.Context, s *models.Service) error {
	query := `
		UPDATE services
		SET service_group = $2, name = $3, description = $4, price = $5, status = $6
		WHERE id = $1
	`

	result, err := r.pool.Exec(ctx, query,
		s.ID,
		s.Group,
		s.Name,
		nullString(s.Description),
		s.Price,
		string(s.Status),
	)
	if err != nil {
		return wrapWriteError("failed to update service", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("service %d: %w", s.ID, ErrNotFound)
	}

	return nil
}

// DeleteService deletes a catalog entry by ID
func (r *PostgresRepository) DeleteService(ctx context.Context, id int64) error {
	return r.deleteByID(ctx, "services", "service", id)
}

// ListServices returns the whole catalog
func (r *PostgresRepository) ListServices(ctx context.Context) ([]*models.Service, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+serviceColumns+` FROM services ORDER BY service_group, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list services: %w", err)
	}
	defer rows.Close()

	var services []*models.Service
	for rows.Next() {
		s, err := scanService(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan service: %w", err)
		}
		services = append(services, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating services: %w", err)
	}

	return services, nil
}

func scanService(row pgx.Row) (*models.Service, error) {
	var s models.Service
	var status string
	var description sql.NullString
	var price sql.NullFloat64

	if err := row.Scan(&s.ID, &s.Group, &s.Name, &description, &price, &status); err != nil {
		return nil, err
	}

	s.Description = description.String
	s.Price = price.Float64
	s.Status = models.ServiceStatus(status)
	return &s, nil
}

// --- Inventory ---

const inventoryColumns = `id, component, COALESCE(quantity, 0), condition`

// CreateInventoryItem inserts a stock item and fills in its ID
func (r *PostgresRepository) CreateInventoryItem(ctx context.Context, item *models.InventoryItem) error {
	query := `
		INSERT INTO inventory (component, quantity, condition)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	err := r.pool.QueryRow(ctx, query, item.Component, item.Quantity, string(item.Condition)).Scan(&item.ID)
	if err != nil {
		return wrapWriteError("failed to create inventory item", err)
	}

	return nil
}

// GetInventoryItem retrieves a stock item by ID
func (r *PostgresRepository) GetInventoryItem(ctx context.Context, id int64) (*models.InventoryItem, error) {
	query := `SELECT ` + inventoryColumns + ` FROM inventory WHERE id = $1`

	item, err := scanInventoryItem(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("failed to get inventory item: %w", err)
	}

	return item, nil
}

// UpdateInventoryItem updates an existing stock item
func (r *PostgresRepository) UpdateInventoryItem(ctx context.Context, item *models.InventoryItem) error {
	query := `UPDATE inventory SET component = $2, quantity = $3, condition = $4 WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, item.ID, item.Component, item.Quantity, string(item.Condition))
	if err != nil {
		return wrapWriteError("failed to update inventory item", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("inventory item %d: %w", item.ID, ErrNotFound)
	}

	return nil
}

// DeleteInventoryItem deletes a stock item by ID
func (r *PostgresRepository) DeleteInventoryItem(ctx context.Context, id int64) error {
	return r.deleteByID(ctx, "inventory", "inventory item", id)
}

// ListInventory returns every stock item
func (r *PostgresRepository) ListInventory(ctx context.Context) ([]*models.InventoryItem, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+inventoryColumns+` FROM inventory ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list inventory: %w", err)
	}
	defer rows.Close()

	var items []*models.InventoryItem
	for rows.Next() {
		item, err := scanInventoryItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan inventory item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating inventory: %w", err)
	}

	return items, nil
}

func scanInventoryItem(row pgx.Row) (*models.InventoryItem, error) {
	var item models.InventoryItem
	var condition string

	if err := row.Scan(&item.ID, &item.Component, &item.Quantity, &condition); err != nil {
		return nil, err
	}

	item.Condition = models.ItemCondition(condition)
	return &item, nil
}

// --- API Clients ---

// CreateApiClient registers an API key
func (r *PostgresRepository) CreateApiClient(ctx context.Context, c *models.ApiClient) error {
	permissionsJSON, err := json.Marshal(c.Permissions)
	if err != nil {
		return fmt.Errorf("failed to marshal permissions: %w", err)
	}

	metadataJSON, err := json.Marshal(c.Metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}

	query := `
		INSERT INTO api_clients (name, api_key, is_active, permissions, metadata)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err = r.pool.QueryRow(ctx, query, c.Name, c.ApiKey, c.IsActive, permissionsJSON, metadataJSON).
		Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		return wrapWriteError("failed to create api client", err)
	}

	return nil
}

// GetClientByApiKey retrieves an API client by its key
func (r *PostgresRepository) GetClientByApiKey(ctx context.Context, apiKey string) (*models.ApiClient, error) {
	query := `
		SELECT id, name, api_key, is_active, created_at, last_used_at, permissions, metadata
		FROM api_clients
		WHERE api_key = $1
	`

	var client models.ApiClient
	var lastUsedAt sql.NullTime
	var permissionsJSON, metadataJSON []byte

	err := r.pool.QueryRow(ctx, query, apiKey).Scan(
		&client.ID,
		&client.Name,
		&client.ApiKey,
		&client.IsActive,
		&client.CreatedAt,
		&lastUsedAt,
		&permissionsJSON,
		&metadataJSON,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("failed to get api client: %w", err)
	}

	if lastUsedAt.Valid {
		client.LastUsedAt = &lastUsedAt.Time
	}

	if permissionsJSON != nil {
		if err := json.Unmarshal(permissionsJSON, &client.Permissions); err != nil {
			return nil, fmt.Errorf("failed to unmarshal permissions: %w", err)
		}
	}

	if metadataJSON != nil {
		if err := json.Unmarshal(metadataJSON, &client.Metadata); err != nil {
			return nil, fmt.Errorf("failed to unmarshal metadata: %w", err)
		}
	}

	return &client, nil
}

// UpdateClientLastUsed updates the last_used_at timestamp for a client
func (r *PostgresRepository) UpdateClientLastUsed(ctx context.Context, apiKey string) error {
	query := `UPDATE api_clients SET last_used_at = NOW() WHERE api_key = $1`

	if _, err := r.pool.Exec(ctx, query, apiKey); err != nil {
		return fmt.Errorf("failed to update client last_used_at: %w", err)
	}

	return nil
}

// Helper functions

func (r *PostgresRepository) deleteByID(ctx context.Context, table, entity string, id int64) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM `+table+` WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", entity, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("%s %d: %w", entity, id, ErrNotFound)
	}

	return nil
}

// wrapWriteError maps unique violations to ErrDuplicate
func wrapWriteError(msg string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%s: %w: %s", msg, ErrDuplicate, pgErr.ConstraintName)
	}
	return fmt.Errorf("%s: %w", msg, err)
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullInt64(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}

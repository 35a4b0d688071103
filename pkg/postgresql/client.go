package postgresql

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Config is the PostgreSQL client configuration.
type Config struct {
	Host     string `env:"HOST" envDefault:"localhost"`
	Port     int    `env:"PORT" envDefault:"5432"`
	Database string `env:"DATABASE" envDefault:"token_exchange"`
	Username string `env:"USERNAME" envDefault:"postgres"`
	Password string `env:"PASSWORD" envDefault:""`

	SSLMode     string `env:"SSL_MODE" envDefault:"prefer"`
	SSLCert     string `env:"SSL_CERT"`
	SSLKey      string `env:"SSL_KEY"`
	SSLRootCert string `env:"SSL_ROOT_CERT"`

	// The engine persists from a single writer, so a small pool is enough.
	MaxConns        int32         `env:"MAX_CONNS" envDefault:"10"`
	MinConns        int32         `env:"MIN_CONNS" envDefault:"2"`
	MaxConnLifetime time.Duration `env:"MAX_CONN_LIFETIME" envDefault:"2h"`
	MaxConnIdleTime time.Duration `env:"MAX_CONN_IDLE_TIME" envDefault:"15m"`

	ConnectTimeout time.Duration `env:"CONNECT_TIMEOUT" envDefault:"5s"`
	// QueryTimeout becomes the server side statement_timeout. Zero disables it.
	QueryTimeout time.Duration `env:"QUERY_TIMEOUT" envDefault:"30s"`

	StatementCacheCapacity int    `env:"STATEMENT_CACHE_CAPACITY" envDefault:"512"`
	ApplicationName        string `env:"APPLICATION_NAME" envDefault:"token-exchange"`
	SearchPath             string `env:"SEARCH_PATH" envDefault:"public"`
}

// querier is what a pool and a transaction have in common.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// Client is a pgx pool. Statements run inside the transaction carried by ctx
// when there is one.
type Client struct {
	pool     *pgxpool.Pool
	database string
}

var _ PostgreSQLClient = (*Client)(nil)

// NewClient connects a pool and pings it.
func NewClient(ctx context.Context, config Config) (PostgreSQLClient, error) {
	poolConfig, err := parsePoolConfig(config)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create postgresql pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping postgresql: %w", err)
	}

	return &Client{pool: pool, database: config.Database}, nil
}

func parsePoolConfig(config Config) (*pgxpool.Config, error) {
	poolConfig, err := pgxpool.ParseConfig(connectionURL(config))
	if err != nil {
		return nil, fmt.Errorf("failed to parse postgresql config: %w", err)
	}

	poolConfig.MaxConns = config.MaxConns
	poolConfig.MinConns = config.MinConns
	poolConfig.MaxConnLifetime = config.MaxConnLifetime
	poolConfig.MaxConnIdleTime = config.MaxConnIdleTime

	conn := poolConfig.ConnConfig
	conn.ConnectTimeout = config.ConnectTimeout
	conn.DefaultQueryExecMode = pgx.QueryExecModeExec
	conn.StatementCacheCapacity = config.StatementCacheCapacity
	if config.ApplicationName != "" {
		conn.RuntimeParams["application_name"] = config.ApplicationName
	}
	if config.SearchPath != "" {
		conn.RuntimeParams["search_path"] = config.SearchPath
	}
	if config.QueryTimeout > 0 {
		conn.RuntimeParams["statement_timeout"] = strconv.FormatInt(config.QueryTimeout.Milliseconds(), 10)
	}
	return poolConfig, nil
}

// connectionURL escapes credentials, so passwords may hold any character.
func connectionURL(config Config) string {
	q := url.Values{}
	q.Set("sslmode", config.SSLMode)
	for key, value := range map[string]string{
		"sslcert":     config.SSLCert,
		"sslkey":      config.SSLKey,
		"sslrootcert": config.SSLRootCert,
	} {
		if value != "" {
			q.Set(key, value)
		}
	}

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(config.Username, config.Password),
		Host:     fmt.Sprintf("%s:%d", config.Host, config.Port),
		Path:     "/" + config.Database,
		RawQuery: q.Encode(),
	}
	return u.String()
}

func (c *Client) conn(ctx context.Context) querier {
	if tx, ok := GetTx(ctx); ok {
		return tx
	}
	return c.pool
}

// Exec runs a statement that returns no rows.
func (c *Client) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return c.conn(ctx).Exec(ctx, sql, args...)
}

// Query runs a statement that returns rows.
func (c *Client) Query(ctx context.Context, sql string, args ...any) (RowsInterface, error) {
	rows, err := c.conn(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// QueryRow runs a statement that returns at most one row.
func (c *Client) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return c.conn(ctx).QueryRow(ctx, sql, args...)
}

// SendBatch queues every statement of b in one round trip.
func (c *Client) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults {
	return c.conn(ctx).SendBatch(ctx, b)
}

// BeginTx starts a transaction on the pool.
func (c *Client) BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error) {
	return c.pool.BeginTx(ctx, txOptions)
}

// Ping checks one pooled connection.
func (c *Client) Ping(ctx context.Context) error {
	return c.pool.Ping(ctx)
}

// Close closes the pool.
func (c *Client) Close() {
	if c.pool != nil {
		c.pool.Close()
	}
}

// DatabaseName returns the configured database.
func (c *Client) DatabaseName() string {
	return c.database
}

package location

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Config is one row of the location-routing table: which boards to hit for
// inputs matching its keywords.
type Config struct {
	ID       string   `json:"id,omitempty"`
	Region   string   `json:"region"`
	Country  string   `json:"country"`
	Keywords []string `json:"keywords"`
	Sources  []string `json:"sources"`
	Domain   string   `json:"domain,omitempty"`
	Priority int      `json:"priority"`
	Active   bool     `json:"active"`
}

// Store is the postgres-backed location configuration table. The scraping
// core only reads it; the admin write paths exist so that every write can
// invalidate the selector cache through the registered hooks.
type Store struct {
	db      *pgxpool.Pool
	onWrite []func()
}

func ConnectStore(ctx context.Context, connString string) (*Store, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("unable to parse database url: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnLifetime = time.Hour

	// Connection poolers in transaction mode choke on prepared statements,
	// so force plain exec mode.
	config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeExec

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("database unreachable: %w", err)
	}

	return &Store{db: pool}, nil
}

func (s *Store) Close() {
	if s.db != nil {
		s.db.Close()
	}
}

// OnWrite registers a hook fired after every admin write. The selector hangs
// its cache invalidation here.
func (s *Store) OnWrite(fn func()) {
	s.onWrite = append(s.onWrite, fn)
}

func (s *Store) notifyWrite() {
	for _, fn := range s.onWrite {
		fn()
	}
}

// ActiveConfigs returns every active location config, highest priority first.
func (s *Store) ActiveConfigs(ctx context.Context) ([]Config, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, region, country, keywords, sources, index_domain, priority
		 FROM location_configs
		 WHERE is_active = true
		 ORDER BY priority DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("query location_configs: %w", err)
	}
	defer rows.Close()

	var configs []Config
	for rows.Next() {
		var c Config
		if err := rows.Scan(&c.ID, &c.Region, &c.Country, &c.Keywords, &c.Sources, &c.Domain, &c.Priority); err != nil {
			return nil, fmt.Errorf("scan location config: %w", err)
		}
		c.Active = true
		configs = append(configs, c)
	}

	return configs, rows.Err()
}

// ---------------- ADMIN OPERATIONS ----------------

// AddConfig inserts a new location config and invalidates dependent caches.
func (s *Store) AddConfig(ctx context.Context, c Config) (*Config, error) {
	query := `
		INSERT INTO location_configs (region, country, keywords, sources, index_domain, priority, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, true)
		RETURNING id`

	if err := s.db.QueryRow(ctx, query, c.Region, c.Country, c.Keywords, c.Sources, c.Domain, c.Priority).Scan(&c.ID); err != nil {
		return nil, fmt.Errorf("failed to insert location config: %w", err)
	}
	c.Active = true

	s.notifyWrite()
	return &c, nil
}

// UpdateConfig rewrites an existing config and invalidates dependent caches.
func (s *Store) UpdateConfig(ctx context.Context, c Config) error {
	_, err := s.db.Exec(ctx,
		`UPDATE location_configs
		 SET region = $1, country = $2, keywords = $3, sources = $4, index_domain = $5, priority = $6
		 WHERE id = $7`,
		c.Region, c.Country, c.Keywords, c.Sources, c.Domain, c.Priority, c.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update location config: %w", err)
	}

	s.notifyWrite()
	return nil
}

// DeactivateConfig soft-deletes a config and invalidates dependent caches.
func (s *Store) DeactivateConfig(ctx context.Context, id string) error {
	_, err := s.db.Exec(ctx, "UPDATE location_configs SET is_active = false WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to deactivate location config: %w", err)
	}

	s.notifyWrite()
	return nil
}

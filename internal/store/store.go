package store

import (
	"context"
	"fmt"
	"time"

	"basket-service/internal/models"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

type Store struct {
	db *sqlx.DB
}

// NewStore creates a new database store
func NewStore(databaseURL string) (*Store, error) {
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks the database connection
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// GetProducts retrieves all products
func (s *Store) GetProducts(ctx context.Context) ([]models.Product, error) {
	products := []models.Product{}
	err := s.db.SelectContext(ctx, &products, "SELECT id, name, price, created_at FROM products ORDER BY id")
	return products, err
}

// UpsertProduct creates or updates a product
func (s *Store) UpsertProduct(ctx context.Context, product *models.Product) error {
	query := `
		INSERT INTO products (id, name, price)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, price = EXCLUDED.price
		RETURNING created_at`

	return s.db.GetContext(ctx, &product.CreatedAt, query, product.ID, product.Name, product.Price)
}

// LoadCatalogue reads all products and active offers
func (s *Store) LoadCatalogue(ctx context.Context) (*models.Catalogue, error) {
	products, err := s.GetProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}

	offers, err := s.GetActiveOffers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load offers: %w", err)
	}

	return &models.Catalogue{Products: products, Offers: offers}, nil
}

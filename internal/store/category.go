package store

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Category is one drawable word. Position fixes its index in the
// classifier's output vector.
type Category struct {
	ID        string
	Label     string
	Position  int
	CreatedAt time.Time
}

// CategoryRepository provides CRUD operations for categories.
type CategoryRepository struct {
	db *sql.DB
}

// Categories returns the category repository for this store.
func (s *Store) Categories() *CategoryRepository {
	return &CategoryRepository{db: s.db}
}

// Seed inserts the given labels in order if the table is empty.
func (r *CategoryRepository) Seed(labels []string) error {
	var count int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM categories`).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	for i, label := range labels {
		c := &Category{
			ID:       uuid.New().String(),
			Label:    label,
			Position: i,
		}
		if err := r.Create(c); err != nil {
			return err
		}
	}
	return nil
}

// Create inserts a new category.
func (r *CategoryRepository) Create(c *Category) error {
	c.CreatedAt = time.Now()
	_, err := r.db.Exec(
		`INSERT INTO categories (id, label, position, created_at)
		 VALUES (?, ?, ?, ?)`,
		c.ID, c.Label, c.Position, c.CreatedAt,
	)
	return err
}

// GetByID retrieves a category by its ID.
func (r *CategoryRepository) GetByID(id string) (*Category, error) {
	c := &Category{}
	err := r.db.QueryRow(
		`SELECT id, label, position, created_at FROM categories WHERE id = ?`,
		id,
	).Scan(&c.ID, &c.Label, &c.Position, &c.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

// List retrieves all categories in position order.
func (r *CategoryRepository) List() ([]*Category, error) {
	rows, err := r.db.Query(
		`SELECT id, label, position, created_at FROM categories ORDER BY position`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []*Category
	for rows.Next() {
		c := &Category{}
		if err := rows.Scan(&c.ID, &c.Label, &c.Position, &c.CreatedAt); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return categories, nil
}

// Labels returns just the label strings in position order.
func (r *CategoryRepository) Labels() ([]string, error) {
	categories, err := r.List()
	if err != nil {
		return nil, err
	}
	labels := make([]string, len(categories))
	for i, c := range categories {
		labels[i] = c.Label
	}
	return labels, nil
}

// Delete removes a category by its ID.
func (r *CategoryRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

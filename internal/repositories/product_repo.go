package repositories

import (
	"context"
	"fmt"

	"brewtrack/internal/models"

	"github.com/google/uuid"
)

type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListAvailable(ctx context.Context, limit, offset int) ([]*models.Product, error)
	ListByCategoryName(ctx context.Context, categoryName string, limit, offset int) ([]*models.Product, error)
	Search(ctx context.Context, filter *models.ProductSearchFilter) ([]*models.Product, error)
}

type productRepo struct {
	db Database
}

func NewProductRepo(db Database) ProductRepository {
	return &productRepo{db: db}
}

const productColumns = `p.id, p.name, p.description, p.price, p.category_id, c.name, p.image_path, p.available, p.featured, p.created_at, p.updated_at`

func (r *productRepo) Create(ctx context.Context, product *models.Product) error {
	query := `
		INSERT INTO products (id, name, description, price, category_id, image_path, available, featured, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, product.ID, product.Name, product.Description, product.Price, product.CategoryID, product.ImagePath, product.Available, product.Featured)
	return err
}

func (r *productRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products p
		LEFT JOIN categories c ON p.category_id = c.id
		WHERE p.id = $1
	`
	product := &models.Product{}
	err := r.db.QueryRow(ctx, query, id).Scan(&product.ID, &product.Name, &product.Description, &product.Price, &product.CategoryID, &product.CategoryName, &product.ImagePath, &product.Available, &product.Featured, &product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return product, nil
}

func (r *productRepo) Update(ctx context.Context, product *models.Product) error {
	query := `
		UPDATE products
		SET name = $1, description = $2, price = $3, category_id = $4, image_path = $5, available = $6, featured = $7, updated_at = NOW()
		WHERE id = $8
	`
	tag, err := r.db.Exec(ctx, query, product.Name, product.Description, product.Price, product.CategoryID, product.ImagePath, product.Available, product.Featured, product.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNoRows
	}
	return nil
}

func (r *productRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNoRows
	}
	return nil
}

func (r *productRepo) ListAvailable(ctx context.Context, limit, offset int) ([]*models.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products p
		LEFT JOIN categories c ON p.category_id = c.id
		WHERE p.available = TRUE
		ORDER BY p.featured DESC, p.name ASC
		LIMIT $1 OFFSET $2
	`
	return r.queryProducts(ctx, query, limit, offset)
}

func (r *productRepo) ListByCategoryName(ctx context.Context, categoryName string, limit, offset int) ([]*models.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products p
		JOIN categories c ON p.category_id = c.id
		WHERE c.name = $1 AND p.available = TRUE
		ORDER BY p.featured DESC, p.name ASC
		LIMIT $2 OFFSET $3
	`
	return r.queryProducts(ctx, query, categoryName, limit, offset)
}

// Search builds the filtered catalog query. Conditions are appended with
// numbered placeholders; user input never reaches the SQL text itself.
func (r *productRepo) Search(ctx context.Context, filter *models.ProductSearchFilter) ([]*models.Product, error) {
	if filter.Limit == 0 {
		filter.Limit = 50
	}

	query := `
		SELECT ` + productColumns + `
		FROM products p
		LEFT JOIN categories c ON p.category_id = c.id
		WHERE p.available = TRUE
	`
	args := []any{}
	argCount := 0

	if filter.Query != "" {
		argCount++
		query += fmt.Sprintf(" AND (p.name ILIKE $%d OR COALESCE(p.description, '') ILIKE $%d)", argCount, argCount)
		args = append(args, "%"+filter.Query+"%")
	}
	if filter.CategoryID != nil {
		argCount++
		query += fmt.Sprintf(" AND p.category_id = $%d", argCount)
		args = append(args, *filter.CategoryID)
	}
	if filter.MinPrice != nil {
		argCount++
		query += fmt.Sprintf(" AND p.price >= $%d", argCount)
		args = append(args, *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		argCount++
		query += fmt.Sprintf(" AND p.price <= $%d", argCount)
		args = append(args, *filter.MaxPrice)
	}
	if filter.Featured {
		query += " AND p.featured = TRUE"
	}

	query += fmt.Sprintf(" ORDER BY p.featured DESC, p.name ASC LIMIT $%d OFFSET $%d", argCount+1, argCount+2)
	args = append(args, filter.Limit, filter.Offset)

	return r.queryProducts(ctx, query, args...)
}

func (r *productRepo) queryProducts(ctx context.Context, query string, args ...any) ([]*models.Product, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []*models.Product
	for rows.Next() {
		product := &models.Product{}
		if err := rows.Scan(&product.ID, &product.Name, &product.Description, &product.Price, &product.CategoryID, &product.CategoryName, &product.ImagePath, &product.Available, &product.Featured, &product.CreatedAt, &product.UpdatedAt); err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	return products, rows.Err()
}

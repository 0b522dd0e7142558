package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"brewtrack/internal/caching"
	"brewtrack/internal/common"
	"brewtrack/internal/models"
	"brewtrack/internal/repositories"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const (
	productCacheTTL = 10 * time.Minute
	imageBucket     = "brewtrack-products"
	imageURLExpiry  = 1 * time.Hour
)

// ProductServiceInterface is the catalog: product reads for the storefront,
// admin CRUD, and product image storage.
type ProductServiceInterface interface {
	CreateProduct(ctx context.Context, product *models.Product) error
	GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)
	UpdateProduct(ctx context.Context, product *models.Product) error
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	ListAvailable(ctx context.Context, limit, offset int) ([]*models.Product, error)
	ListByCategory(ctx context.Context, categoryName string, limit, offset int) ([]*models.Product, error)
	Search(ctx context.Context, filter *models.ProductSearchFilter) ([]*models.Product, error)
	ListCategories(ctx context.Context) ([]*models.Category, error)
	CreateCategory(ctx context.Context, name string) (*models.Category, error)
	UploadImage(ctx context.Context, productID uuid.UUID, reader io.Reader, size int64, contentType string) error
}

type productService struct {
	productRepo  repositories.ProductRepository
	categoryRepo repositories.CategoryRepository
	minioSvc     MinioService
	cacheSvc     caching.CacheService
}

// NewProductService creates a new product service instance
func NewProductService(productRepo repositories.ProductRepository, categoryRepo repositories.CategoryRepository, minioSvc MinioService, cacheSvc caching.CacheService) ProductServiceInterface {
	return &productService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		minioSvc:     minioSvc,
		cacheSvc:     cacheSvc,
	}
}

func (s *productService) CreateProduct(ctx context.Context, product *models.Product) error {
	if strings.TrimSpace(product.Name) == "" {
		return &common.ValidationError{Violations: []string{"product name is required"}}
	}
	if !product.Price.IsPositive() {
		return &common.ValidationError{Violations: []string{"product price must be greater than zero"}}
	}
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	if err := s.productRepo.Create(ctx, product); err != nil {
		return &common.PersistenceError{Op: "create product", Err: err}
	}
	return nil
}

// GetProduct serves reads from the cache when it can; misses fall through to
// the database and repopulate the cache.
func (s *productService) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if s.cacheSvc != nil {
		cached, err := s.cacheSvc.GetProduct(ctx, id)
		if err != nil {
			log.Printf("WARN: product cache read failed: %v", err)
		}
		if cached != nil {
			s.attachImageURL(cached)
			return cached, nil
		}
	}

	product, err := s.productRepo.GetByID(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, &common.NotFoundError{Resource: "product"}
	}
	if err != nil {
		return nil, &common.PersistenceError{Op: "get product", Err: err}
	}

	if s.cacheSvc != nil {
		if err := s.cacheSvc.SetProduct(ctx, product, productCacheTTL); err != nil {
			log.Printf("WARN: product cache write failed: %v", err)
		}
	}
	s.attachImageURL(product)
	return product, nil
}

func (s *productService) UpdateProduct(ctx context.Context, product *models.Product) error {
	if !product.Price.IsPositive() {
		return &common.ValidationError{Violations: []string{"product price must be greater than zero"}}
	}
	err := s.productRepo.Update(ctx, product)
	if errors.Is(err, pgx.ErrNoRows) {
		return &common.NotFoundError{Resource: "product"}
	}
	if err != nil {
		return &common.PersistenceError{Op: "update product", Err: err}
	}
	s.invalidate(ctx, product.ID)
	return nil
}

func (s *productService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	err := s.productRepo.Delete(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return &common.NotFoundError{Resource: "product"}
	}
	if err != nil {
		return &common.PersistenceError{Op: "delete product", Err: err}
	}
	s.invalidate(ctx, id)
	return nil
}

func (s *productService) ListAvailable(ctx context.Context, limit, offset int) ([]*models.Product, error) {
	if limit <= 0 {
		limit = 50
	}
	products, err := s.productRepo.ListAvailable(ctx, limit, offset)
	if err != nil {
		return nil, &common.PersistenceError{Op: "list products", Err: err}
	}
	for _, product := range products {
		s.attachImageURL(product)
	}
	return products, nil
}

func (s *productService) ListByCategory(ctx context.Context, categoryName string, limit, offset int) ([]*models.Product, error) {
	if limit <= 0 {
		limit = 50
	}
	products, err := s.productRepo.ListByCategoryName(ctx, categoryName, limit, offset)
	if err != nil {
		return nil, &common.PersistenceError{Op: "list products by category", Err: err}
	}
	for _, product := range products {
		s.attachImageURL(product)
	}
	return products, nil
}

func (s *productService) Search(ctx context.Context, filter *models.ProductSearchFilter) ([]*models.Product, error) {
	products, err := s.productRepo.Search(ctx, filter)
	if err != nil {
		return nil, &common.PersistenceError{Op: "search products", Err: err}
	}
	for _, product := range products {
		s.attachImageURL(product)
	}
	return products, nil
}

func (s *productService) ListCategories(ctx context.Context) ([]*models.Category, error) {
	categories, err := s.categoryRepo.ListActive(ctx)
	if err != nil {
		return nil, &common.PersistenceError{Op: "list categories", Err: err}
	}
	return categories, nil
}

func (s *productService) CreateCategory(ctx context.Context, name string) (*models.Category, error) {
	if strings.TrimSpace(name) == "" {
		return nil, &common.ValidationError{Violations: []string{"category name is required"}}
	}
	category := &models.Category{ID: uuid.New(), Name: strings.TrimSpace(name), Active: true}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, &common.PersistenceError{Op: "create category", Err: err}
	}
	return category, nil
}

// UploadImage stores the image object and records its path on the product.
func (s *productService) UploadImage(ctx context.Context, productID uuid.UUID, reader io.Reader, size int64, contentType string) error {
	product, err := s.productRepo.GetByID(ctx, productID)
	if errors.Is(err, pgx.ErrNoRows) {
		return &common.NotFoundError{Resource: "product"}
	}
	if err != nil {
		return &common.PersistenceError{Op: "get product", Err: err}
	}

	objectName := fmt.Sprintf("%s/%s", productID, uuid.New())
	if err := s.minioSvc.UploadImage(ctx, imageBucket, objectName, reader, size, contentType); err != nil {
		return fmt.Errorf("upload product image: %w", err)
	}

	product.ImagePath = &objectName
	if err := s.productRepo.Update(ctx, product); err != nil {
		return &common.PersistenceError{Op: "record product image", Err: err}
	}
	s.invalidate(ctx, productID)
	return nil
}

func (s *productService) attachImageURL(product *models.Product) {
	if product.ImagePath == nil || s.minioSvc == nil {
		return
	}
	url, err := s.minioSvc.GetPresignedURL(imageBucket, *product.ImagePath, imageURLExpiry)
	if err != nil {
		log.Printf("WARN: presign image for product %s failed: %v", product.ID, err)
		return
	}
	product.ImageURL = url
}

func (s *productService) invalidate(ctx context.Context, id uuid.UUID) {
	if s.cacheSvc == nil {
		return
	}
	if err := s.cacheSvc.DeleteProduct(ctx, id); err != nil {
		log.Printf("WARN: product cache invalidation failed: %v", err)
	}
}

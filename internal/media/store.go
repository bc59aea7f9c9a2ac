package media

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/3dcreationshub/creationshub/internal/domain"
)

// Store is the persistence surface the manager drives. The production
// implementation wraps GORM; tests use an in-memory fake.
type Store interface {
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
	// CountFeatured counts featured products, excluding excludeID when it
	// is non-zero.
	CountFeatured(ctx context.Context, excludeID int64) (int64, error)
	// CreateProduct inserts the product and its media rows in one
	// transaction.
	CreateProduct(ctx context.Context, p *domain.Product) error
	// UpdateProduct overwrites the product row and replaces its media rows
	// in one transaction.
	UpdateProduct(ctx context.Context, p *domain.Product) error
	// DeleteProduct removes the product and its media rows in one
	// transaction.
	DeleteProduct(ctx context.Context, id int64) error

	GetCategory(ctx context.Context, id int64) (*domain.ProductCategory, error)
	// FindCategoryByName matches case-insensitively on the trimmed name.
	FindCategoryByName(ctx context.Context, name string) (*domain.ProductCategory, error)
	CreateCategory(ctx context.Context, c *domain.ProductCategory) error
	CountProductsInCategory(ctx context.Context, categoryID int64) (int64, error)
	DeleteCategory(ctx context.Context, id int64) error
}

type gormStore struct {
	db *gorm.DB
}

// NewStore wraps a GORM handle in the Store interface.
func NewStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	var p domain.Product
	err := s.db.WithContext(ctx).
		Preload("Media", func(db *gorm.DB) *gorm.DB { return db.Order("position asc") }).
		First(&p, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (s *gormStore) CountFeatured(ctx context.Context, excludeID int64) (int64, error) {
	var count int64
	query := s.db.WithContext(ctx).Model(&domain.Product{}).Where("featured = ?", true)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	// the cap is small, so the count is capped too
	err := query.Limit(domain.FeaturedLimit + 1).Count(&count).Error
	return count, err
}

func (s *gormStore) CreateProduct(ctx context.Context, p *domain.Product) error {
	return s.db.WithContext(ctx).Create(p).Error
}

func (s *gormStore) UpdateProduct(ctx context.Context, p *domain.Product) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", p.ID).Delete(&domain.ProductMedia{}).Error; err != nil {
			return err
		}
		return tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(p).Error
	})
}

func (s *gormStore) DeleteProduct(ctx context.Context, id int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", id).Delete(&domain.ProductMedia{}).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.Product{}, id).Error
	})
}

func (s *gormStore) GetCategory(ctx context.Context, id int64) (*domain.ProductCategory, error) {
	var c domain.ProductCategory
	err := s.db.WithContext(ctx).First(&c, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (s *gormStore) FindCategoryByName(ctx context.Context, name string) (*domain.ProductCategory, error) {
	var c domain.ProductCategory
	err := s.db.WithContext(ctx).
		Where("lower(name) = ?", strings.ToLower(strings.TrimSpace(name))).
		First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (s *gormStore) CreateCategory(ctx context.Context, c *domain.ProductCategory) error {
	return s.db.WithContext(ctx).Create(c).Error
}

func (s *gormStore) CountProductsInCategory(ctx context.Context, categoryID int64) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&domain.Product{}).
		Where("category_id = ?", categoryID).Count(&count).Error
	return count, err
}

func (s *gormStore) DeleteCategory(ctx context.Context, id int64) error {
	return s.db.WithContext(ctx).Delete(&domain.ProductCategory{}, id).Error
}

package services

import (
	"context"
	"fmt"
	"time"

	"productcatalog/internal/domain"
	"productcatalog/internal/mapper"
	"productcatalog/internal/validate"
)

// ProductStore is the persistence the catalog needs. Save inserts when the
// id is 0 and upserts otherwise, which is why Update and Delete check
// existence first.
type ProductStore interface {
	Save(ctx context.Context, p domain.Product) (domain.Product, error)
	FindByID(ctx context.Context, id int64) (domain.Product, bool, error)
	FindAll(ctx context.Context) ([]domain.Product, error)
	ExistsByID(ctx context.Context, id int64) (bool, error)
	DeleteByID(ctx context.Context, id int64) error
}

// CatalogService implements the product use cases. It holds no mutable
// state, so one instance serves concurrent requests.
type CatalogService struct {
	store ProductStore
	now   func() time.Time
}

func NewCatalogService(store ProductStore, now func() time.Time) *CatalogService {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &CatalogService{store: store, now: now}
}

// Create ignores any id in dto; the store assigns one.
func (s *CatalogService) Create(ctx context.Context, dto domain.ProductDTO) (domain.ProductDTO, error) {
	dto.ID = ""
	p, err := mapper.ToEntity(dto)
	if err != nil {
		return domain.ProductDTO{}, err
	}
	if p, err = checked(p); err != nil {
		return domain.ProductDTO{}, err
	}

	p.CreatedAt = s.now()
	p.UpdatedAt = nil

	saved, err := s.store.Save(ctx, p)
	if err != nil {
		return domain.ProductDTO{}, fmt.Errorf("create product: %w", err)
	}
	return mapper.ToDTO(saved), nil
}

// List returns every product. An empty catalog is an empty slice.
func (s *CatalogService) List(ctx context.Context) ([]domain.ProductDTO, error) {
	ps, err := s.store.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return mapper.ToDTOs(ps), nil
}

func (s *CatalogService) Get(ctx context.Context, id int64) (domain.ProductDTO, error) {
	p, ok, err := s.store.FindByID(ctx, id)
	if err != nil {
		return domain.ProductDTO{}, fmt.Errorf("get product %d: %w", id, err)
	}
	if !ok {
		return domain.ProductDTO{}, notFound(id)
	}
	return mapper.ToDTO(p), nil
}

// Update replaces name and price of an existing product. The record is
// rebuilt from dto, so CreatedAt is carried over from the stored row and
// UpdatedAt is stamped here.
func (s *CatalogService) Update(ctx context.Context, id int64, dto domain.ProductDTO) (domain.ProductDTO, error) {
	current, ok, err := s.store.FindByID(ctx, id)
	if err != nil {
		return domain.ProductDTO{}, fmt.Errorf("update product %d: %w", id, err)
	}
	if !ok {
		return domain.ProductDTO{}, notFound(id)
	}

	dto.ID = mapper.FormatID(id)
	p, err := mapper.ToEntity(dto)
	if err != nil {
		return domain.ProductDTO{}, err
	}
	if p, err = checked(p); err != nil {
		return domain.ProductDTO{}, err
	}

	p.CreatedAt = current.CreatedAt
	now := s.now()
	prev := current.CreatedAt
	if current.UpdatedAt != nil {
		prev = *current.UpdatedAt
	}
	// UpdatedAt must move forward even if the clock did not.
	if !now.After(prev) {
		now = prev.Add(time.Nanosecond)
	}
	p.UpdatedAt = &now

	saved, err := s.store.Save(ctx, p)
	if err != nil {
		return domain.ProductDTO{}, fmt.Errorf("update product %d: %w", id, err)
	}
	return mapper.ToDTO(saved), nil
}

// Delete returns the id it removed.
func (s *CatalogService) Delete(ctx context.Context, id int64) (int64, error) {
	ok, err := s.store.ExistsByID(ctx, id)
	if err != nil {
		return 0, fmt.Errorf("delete product %d: %w", id, err)
	}
	if !ok {
		return 0, notFound(id)
	}
	if err := s.store.DeleteByID(ctx, id); err != nil {
		return 0, fmt.Errorf("delete product %d: %w", id, err)
	}
	return id, nil
}

func checked(p domain.Product) (domain.Product, error) {
	name, ok := validate.Name(p.Name)
	if !ok {
		return p, &ValidationError{Field: "name", Reason: fmt.Sprintf("required, at most %d characters", validate.MaxNameLen)}
	}
	p.Name = name
	if !validate.Price(p.Price) {
		return p, &ValidationError{Field: "price", Reason: "must not be negative"}
	}
	return p, nil
}

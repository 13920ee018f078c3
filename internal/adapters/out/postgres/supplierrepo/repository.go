package supplierrepo

import (
	"context"
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/supplier"
	"fulfillment/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormSupplierRepository implements SupplierRepository using GORM.
type GormSupplierRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormSupplierRepository creates a new GORM supplier repository.
func NewGormSupplierRepository(db *gorm.DB, tracker aggregateTracker) *GormSupplierRepository {
	return &GormSupplierRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new supplier with its catalog to the database.
func (r *GormSupplierRepository) Add(ctx context.Context, aggregate *supplier.Supplier) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update saves an existing supplier. The catalog is replaced wholesale since
// it is a small value collection owned by the aggregate.
func (r *GormSupplierRepository) Update(ctx context.Context, aggregate *supplier.Supplier) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	skus := dto.SKUs
	dto.SKUs = nil

	err := r.db.WithContext(ctx).Save(&dto).Error
	if err != nil {
		return err
	}

	err = r.db.WithContext(ctx).
		Where("supplier_id = ?", dto.ID).
		Delete(&SupplierSKUDTO{}).Error
	if err != nil {
		return err
	}

	if len(skus) > 0 {
		if err := r.db.WithContext(ctx).Create(&skus).Error; err != nil {
			return err
		}
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves a supplier with its catalog by ID.
func (r *GormSupplierRepository) Get(ctx context.Context, id kernel.UUID) (*supplier.Supplier, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto SupplierDTO
	err := r.db.WithContext(ctx).Preload("SKUs").First(&dto, "id = ?", id.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("supplier", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetAllActive retrieves every supplier currently accepting orders.
func (r *GormSupplierRepository) GetAllActive(ctx context.Context) ([]*supplier.Supplier, error) {
	var dtos []SupplierDTO
	err := r.db.WithContext(ctx).Preload("SKUs").
		Find(&dtos, "active = ?", true).Error
	if err != nil {
		return nil, err
	}

	suppliers := make([]*supplier.Supplier, 0, len(dtos))
	for _, dto := range dtos {
		aggregate, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		suppliers = append(suppliers, aggregate)
	}
	return suppliers, nil
}

// Package supplierrepo provides data transfer objects and mapping functions
// for supplier persistence.
package supplierrepo

import (
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/supplier"

	"github.com/google/uuid"
)

// SupplierDTO represents the database structure for persisting supplier
// aggregates. Indexed on the active flag since routing only ever reads
// active suppliers.
type SupplierDTO struct {
	ID                 uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name               string
	Rating             float64
	Region             string
	Active             bool `gorm:"index"`
	AvgProcessingHours float64
	Endpoint           string
	APIKey             string
	Language           string
	Country            string
	Phone              string
	SKUs               []SupplierSKUDTO `gorm:"foreignKey:SupplierID;references:ID;constraint:OnDelete:CASCADE"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// TableName specifies the database table name for supplier entities.
func (SupplierDTO) TableName() string {
	return "suppliers"
}

// SupplierSKUDTO is one catalog entry. A supplier with no entries carries
// everything.
type SupplierSKUDTO struct {
	ID         uint      `gorm:"primaryKey;autoIncrement"`
	SupplierID uuid.UUID `gorm:"type:uuid;index"`
	SKU        string
}

// TableName specifies the database table name for supplier catalog entries.
func (SupplierSKUDTO) TableName() string {
	return "supplier_skus"
}

// fromDomain converts a supplier domain aggregate to its database representation.
func fromDomain(aggregate *supplier.Supplier) SupplierDTO {
	catalog := aggregate.Catalog()
	skus := make([]SupplierSKUDTO, 0, len(catalog))
	for _, sku := range catalog {
		skus = append(skus, SupplierSKUDTO{
			SupplierID: aggregate.ID().Bytes(),
			SKU:        sku,
		})
	}

	return SupplierDTO{
		ID:                 aggregate.ID().Bytes(),
		Name:               aggregate.Name(),
		Rating:             aggregate.Rating(),
		Region:             aggregate.Region(),
		Active:             aggregate.IsActive(),
		AvgProcessingHours: aggregate.AvgProcessingHours(),
		Endpoint:           aggregate.Endpoint(),
		APIKey:             aggregate.APIKey(),
		Language:           aggregate.Language().Tag(),
		Country:            aggregate.Country(),
		Phone:              aggregate.Phone(),
		SKUs:               skus,
	}
}

// toDomain converts a database DTO to a supplier domain aggregate.
func toDomain(dto SupplierDTO) (*supplier.Supplier, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	aggregate, err := supplier.NewSupplier(
		id,
		dto.Name,
		dto.Rating,
		dto.Region,
		dto.Active,
		dto.AvgProcessingHours,
		dto.Endpoint,
		dto.APIKey,
	)
	if err != nil {
		return nil, err
	}

	aggregate.SetLocale(kernel.LanguageFromTag(dto.Language), dto.Country, dto.Phone)

	if len(dto.SKUs) > 0 {
		skus := make([]string, 0, len(dto.SKUs))
		for _, entry := range dto.SKUs {
			skus = append(skus, entry.SKU)
		}
		aggregate.SetCatalog(skus)
	}

	return aggregate, nil
}

// Package orderrepo provides data transfer objects and mapping functions for order persistence.
// This package implements the repository pattern for the order domain aggregate, handling
// the conversion between domain entities and database representations.
package orderrepo

import (
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// OrderDTO represents the database structure for persisting order aggregates.
// Maps order domain entities to relational database tables with proper indexing
// for efficient querying by status and supplier assignment.
type OrderDTO struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey"`
	ExternalOrderID string     `gorm:"uniqueIndex"`
	CustomerID      uuid.UUID  `gorm:"type:uuid;index"`
	SupplierID      *uuid.UUID `gorm:"type:uuid;index"`
	Status          string     `gorm:"index"`
	TotalCents      int64
	Currency        string
	TrackingCode    string
	Carrier         string
	ContactLanguage string
	ContactPhone    string
	ContactCountry  string
	Version         int
	Items           []ItemDTO `gorm:"foreignKey:OrderID;references:ID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time
	UpdatedAt       time.Time `gorm:"index"`
}

// TableName specifies the database table name for order entities.
// Overrides GORM's default naming convention to use "orders".
func (OrderDTO) TableName() string {
	return "orders"
}

// ItemDTO represents one order line item. Items are written once with the
// order; only the supplier reference changes afterwards.
type ItemDTO struct {
	ID             uint      `gorm:"primaryKey;autoIncrement"`
	OrderID        uuid.UUID `gorm:"type:uuid;index"`
	SKU            string
	Quantity       int
	UnitPriceCents int64
	Currency       string
	SupplierID     *uuid.UUID `gorm:"type:uuid"`
}

// TableName specifies the database table name for order items.
func (ItemDTO) TableName() string {
	return "order_items"
}

// fromDomain converts an order domain aggregate to its database representation.
// Line items ride along so a single Create persists the whole aggregate.
func fromDomain(aggregate *order.Order) OrderDTO {
	var supplierID *uuid.UUID
	if id := aggregate.Supplier(); id != nil {
		raw := id.Bytes()
		supplierID = &raw
	}

	items := aggregate.Items()
	itemDTOs := make([]ItemDTO, 0, len(items))
	for _, item := range items {
		var itemSupplierID *uuid.UUID
		if id := item.Supplier(); id != nil {
			raw := id.Bytes()
			itemSupplierID = &raw
		}
		itemDTOs = append(itemDTOs, ItemDTO{
			OrderID:        aggregate.ID().Bytes(),
			SKU:            item.SKU(),
			Quantity:       item.Quantity(),
			UnitPriceCents: item.UnitPrice().AmountCents(),
			Currency:       item.UnitPrice().Currency(),
			SupplierID:     itemSupplierID,
		})
	}

	contact := aggregate.Contact()
	return OrderDTO{
		ID:              aggregate.ID().Bytes(),
		ExternalOrderID: aggregate.ExternalOrderID(),
		CustomerID:      aggregate.CustomerID().Bytes(),
		SupplierID:      supplierID,
		Status:          aggregate.Status().String(),
		TotalCents:      aggregate.Total().AmountCents(),
		Currency:        aggregate.Total().Currency(),
		TrackingCode:    aggregate.TrackingCode(),
		Carrier:         aggregate.Carrier(),
		ContactLanguage: contact.Language.Tag(),
		ContactPhone:    contact.Phone,
		ContactCountry:  contact.Country,
		Version:         aggregate.Version(),
		Items:           itemDTOs,
	}
}

// toDomain converts a database DTO to an order domain aggregate.
// Reconstructs the complete aggregate including items, status, and supplier
// assignment using RestoreOrder.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	customerID, err := kernel.UUIDFromBytes(dto.CustomerID[:])
	if err != nil {
		return nil, err
	}

	var supplierID *kernel.UUID
	if dto.SupplierID != nil {
		sID, supplierErr := kernel.UUIDFromBytes(dto.SupplierID[:])
		if supplierErr != nil {
			return nil, supplierErr
		}
		supplierID = &sID
	}

	items := make([]order.Item, 0, len(dto.Items))
	for _, itemDTO := range dto.Items {
		item, itemErr := itemToDomain(itemDTO)
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, item)
	}

	total, err := kernel.NewMoney(dto.TotalCents, dto.Currency)
	if err != nil {
		return nil, err
	}

	status := order.StatusFromString(dto.Status)
	if err = status.Validate(); err != nil {
		return nil, err
	}

	contact := order.Contact{
		Language: kernel.LanguageFromTag(dto.ContactLanguage),
		Phone:    dto.ContactPhone,
		Country:  dto.ContactCountry,
	}

	return order.RestoreOrder(
		id,
		dto.ExternalOrderID,
		customerID,
		items,
		total,
		contact,
		status,
		supplierID,
		dto.TrackingCode,
		dto.Carrier,
		dto.Version,
	)
}

func itemToDomain(dto ItemDTO) (order.Item, error) {
	unitPrice, err := kernel.NewMoney(dto.UnitPriceCents, dto.Currency)
	if err != nil {
		return order.Item{}, err
	}

	var supplierID *kernel.UUID
	if dto.SupplierID != nil {
		sID, supplierErr := kernel.UUIDFromBytes(dto.SupplierID[:])
		if supplierErr != nil {
			return order.Item{}, supplierErr
		}
		supplierID = &sID
	}

	return order.RestoreItem(dto.SKU, dto.Quantity, unitPrice, supplierID)
}

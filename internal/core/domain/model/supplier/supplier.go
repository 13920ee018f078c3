package supplier

import (
	"errors"
	"fmt"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

// ErrSupplierIsNotConstructed is returned when a Supplier instance was not
// created through the NewSupplier factory.
var ErrSupplierIsNotConstructed = errors.New("Supplier must be created via NewSupplier constructor")

// Supplier represents an external fulfillment partner the router can assign
// orders to. The pipeline treats suppliers as read-only: ratings, regions, and
// endpoints are mutated only by administrative operations outside this module.
//
// Invariants:
//   - Rating is within [0, 5]
//   - Average processing time is non-negative
//   - An active supplier has an API endpoint and credentials
type Supplier struct {
	id            kernel.UUID
	name          string
	rating        float64
	region        string
	active        bool
	avgProcessing float64 // hours
	endpoint      string
	apiKey        string
	language      kernel.Language
	country       string
	phone         string
	skus          map[string]struct{}

	isConstructed bool
}

// NewSupplier creates a validated Supplier.
//
// Parameters:
//   - id: unique supplier identifier
//   - name: display name
//   - rating: quality rating in [0, 5]
//   - region: the supplier's shipping region, matched against order regions by the router
//   - active: whether the router may assign orders to this supplier
//   - avgProcessingHours: historical average hours from send to ship
//   - endpoint: base URL of the supplier's order API
//   - apiKey: bearer credential for the endpoint
func NewSupplier(
	id kernel.UUID,
	name string,
	rating float64,
	region string,
	active bool,
	avgProcessingHours float64,
	endpoint string,
	apiKey string,
) (*Supplier, error) {
	s := &Supplier{
		name:          name,
		region:        region,
		active:        active,
		endpoint:      endpoint,
		apiKey:        apiKey,
		skus:          make(map[string]struct{}),
		isConstructed: true,
	}

	if err := errors.Join(
		s.setID(id),
		s.setRating(rating),
		s.setAvgProcessing(avgProcessingHours),
		s.validateEndpoint(),
	); err != nil {
		return nil, err
	}

	return s, nil
}

// Validate ensures the Supplier was created through NewSupplier.
func (s *Supplier) Validate() error {
	if s == nil || !s.isConstructed {
		return ErrSupplierIsNotConstructed
	}
	return nil
}

// ID returns the supplier's unique identifier.
func (s *Supplier) ID() kernel.UUID {
	return s.id
}

// Name returns the supplier's display name.
func (s *Supplier) Name() string {
	return s.name
}

// Rating returns the quality rating in [0, 5].
func (s *Supplier) Rating() float64 {
	return s.rating
}

// Region returns the supplier's shipping region.
func (s *Supplier) Region() string {
	return s.region
}

// IsActive reports whether the router may assign orders to this supplier.
func (s *Supplier) IsActive() bool {
	return s.active
}

// AvgProcessingHours returns the historical average hours from send to ship.
func (s *Supplier) AvgProcessingHours() float64 {
	return s.avgProcessing
}

// Endpoint returns the base URL of the supplier's order API.
func (s *Supplier) Endpoint() string {
	return s.endpoint
}

// APIKey returns the bearer credential for the supplier's API.
func (s *Supplier) APIKey() string {
	return s.apiKey
}

// Language returns the supplier's preferred language, LanguageUnknown when unset.
func (s *Supplier) Language() kernel.Language {
	return s.language
}

// Country returns the supplier's ISO country code, empty when unset.
func (s *Supplier) Country() string {
	return s.country
}

// Phone returns the supplier's contact phone in international format.
func (s *Supplier) Phone() string {
	return s.phone
}

// SetLocale records the supplier's localization hints. Used when restoring
// from persistence; the pipeline itself never mutates suppliers.
func (s *Supplier) SetLocale(language kernel.Language, country, phone string) {
	s.language = language
	s.country = country
	s.phone = phone
}

// SetCatalog records the SKUs this supplier can fulfill.
func (s *Supplier) SetCatalog(skus []string) {
	s.skus = make(map[string]struct{}, len(skus))
	for _, sku := range skus {
		s.skus[sku] = struct{}{}
	}
}

// CanFulfill reports whether the supplier carries the given SKU. A supplier
// without a recorded catalog is assumed to carry everything.
func (s *Supplier) CanFulfill(sku string) bool {
	if len(s.skus) == 0 {
		return true
	}
	_, ok := s.skus[sku]
	return ok
}

// Catalog returns the recorded SKUs, empty when the supplier carries everything.
func (s *Supplier) Catalog() []string {
	skus := make([]string, 0, len(s.skus))
	for sku := range s.skus {
		skus = append(skus, sku)
	}
	return skus
}

func (s *Supplier) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	s.id = id
	return nil
}

func (s *Supplier) setRating(rating float64) error {
	if rating < 0 || rating > 5 {
		return errs.NewValueIsOutOfRangeError("rating", rating, 0, 5)
	}
	s.rating = rating
	return nil
}

func (s *Supplier) setAvgProcessing(hours float64) error {
	if hours < 0 {
		return errs.NewValueIsInvalidErrorWithCause("avgProcessingHours",
			fmt.Errorf("%f is negative", hours))
	}
	s.avgProcessing = hours
	return nil
}

func (s *Supplier) validateEndpoint() error {
	if s.active && (s.endpoint == "" || s.apiKey == "") {
		return errs.NewValueIsRequiredError("endpoint and apiKey for active supplier")
	}
	return nil
}

package services

import (
	"errors"
	"strings"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/supplier"
)

// ErrNoActiveSupplier is returned when no active supplier is available to take
// an order. The order stays Pending; the scheduled reprocessing pass retries
// the assignment later.
var ErrNoActiveSupplier = errors.New("no active supplier available")

// OrderRouter is a domain service that scores active suppliers against an
// order and selects the best match.
//
// Scoring formula:
//
//	score = 10·rating
//	      + 30·(matchedItems/totalItems)
//	      + 20·[sameRegion]
//	      + max(0, 20 − avgProcessingHours/24)
//	      + 10·[active]
//
// The supplier with the maximum score wins. Ties break on lower average
// processing time, then on lexicographically smaller supplier ID, making the
// selection a deterministic total order.
//
// Example:
//
//	router := services.NewOrderRouter()
//	best, err := router.Route(ord, suppliers)
//	if errors.Is(err, services.ErrNoActiveSupplier) {
//	    // leave the order Pending for the reprocessing pass
//	    return
//	}
type OrderRouter struct{}

// NewOrderRouter creates a new OrderRouter instance.
func NewOrderRouter() OrderRouter {
	return OrderRouter{}
}

// Route validates the order, scores every active supplier, and assigns the
// winner to the order. Inactive suppliers are never considered.
//
// Returns ErrNoActiveSupplier when the candidate set is empty after filtering.
func (r OrderRouter) Route(o *order.Order, suppliers []*supplier.Supplier) (*supplier.Supplier, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}

	best, err := r.findBestSupplier(o, suppliers)
	if err != nil {
		return nil, err
	}

	if err = o.AssignSupplier(best.ID()); err != nil {
		return nil, err
	}

	return best, nil
}

// Score computes the routing score of a single supplier for an order.
// Exposed so operational tooling can explain routing decisions.
func (r OrderRouter) Score(o *order.Order, s *supplier.Supplier) float64 {
	score := 10 * s.Rating()

	items := o.Items()
	if len(items) > 0 {
		matched := 0
		for _, item := range items {
			if s.CanFulfill(item.SKU()) {
				matched++
			}
		}
		score += 30 * float64(matched) / float64(len(items))
	}

	if sameRegion(o, s) {
		score += 20
	}

	if speed := 20 - s.AvgProcessingHours()/24; speed > 0 {
		score += speed
	}

	if s.IsActive() {
		score += 10
	}

	return score
}

func (r OrderRouter) findBestSupplier(o *order.Order, suppliers []*supplier.Supplier) (*supplier.Supplier, error) {
	var (
		best      *supplier.Supplier
		bestScore float64
	)

	for _, s := range suppliers {
		if err := s.Validate(); err != nil {
			return nil, err
		}
		if !s.IsActive() {
			continue
		}

		score := r.Score(o, s)
		if best == nil || score > bestScore || (score == bestScore && wins(s, best)) {
			best = s
			bestScore = score
		}
	}

	if best == nil {
		return nil, ErrNoActiveSupplier
	}

	return best, nil
}

// wins is the deterministic tie-break: lower average processing time first,
// then smaller supplier ID.
func wins(candidate, current *supplier.Supplier) bool {
	if candidate.AvgProcessingHours() != current.AvgProcessingHours() {
		return candidate.AvgProcessingHours() < current.AvgProcessingHours()
	}
	return candidate.ID().String() < current.ID().String()
}

// sameRegion matches the supplier's shipping region against the order's
// destination, taken as the customer's country code.
func sameRegion(o *order.Order, s *supplier.Supplier) bool {
	region := s.Region()
	return region != "" && strings.EqualFold(region, o.Contact().Country)
}

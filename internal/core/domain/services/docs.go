// Package services provides stateless domain services for the fulfillment
// pipeline. OrderRouter implements the supplier-scoring assignment policy.
package services

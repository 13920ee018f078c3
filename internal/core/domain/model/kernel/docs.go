// Package kernel provides core domain primitives used throughout the
// fulfillment domain model.
//
// The package includes:
//   - UUID: A value object for unique identifiers with validation and comparison capabilities
//   - Money: A value object for monetary amounts with an ISO currency code
//   - Language: A finite enum of the languages the pipeline localizes into
//
// These primitives enforce domain invariants and validation rules, ensuring that
// domain objects are always in a valid state. They are designed to be immutable
// and thread-safe, making them suitable for concurrent use.
package kernel

// Package supplier contains the Supplier entity: an external fulfillment
// partner with a rating, a shipping region, an API endpoint, and localization
// hints. Suppliers are read-only from the pipeline's perspective; only
// administrative operations outside this module mutate them.
package supplier

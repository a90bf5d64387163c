// Package types defines the ledger entities, durable descriptors, settings,
// and standard errors for the ledgerbook storage engine.
package types

// Package models defines the core domain entities for Tillpoint.
//
// # Entities
//
//   - Product: a sellable catalog entry (name + unit price)
//   - BillLine: one line of the in-progress bill
//   - Transaction: an immutable, finalized sale record
//   - Settings: store identity and receipt formatting
//   - TrialInfo: trial window start and premium flag
//
// # Design Principles
//
// 1. **Money is decimal**: all monetary fields use shopspring/decimal;
// float arithmetic never touches a price or total.
//
// 2. **Snapshots, not references**: a BillLine copies the product price at
// add time, and a Transaction deep-copies its lines at commit time. Later
// catalog or bill edits never reach history.
//
// 3. **Repair on load**: records deserialized from the store are validated
// and repaired (recomputed totals, defaulted settings) rather than trusted.
package models

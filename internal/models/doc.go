// Package models defines the core domain models for duesbook.
//
// # Models
//
//   - Player: a roster entry with a default monthly fee
//   - Period: one billing month with cached totals
//   - MonthlyRecord: a player's snapshot and payment state inside a period
//   - CasualRecord: an ad-hoc participant's charge inside a period
//   - Expense: money spent during a period
//   - User: an account; every account is its own tenant
//
// # Design Principles
//
// 1. **Tenant on every row**: each entity carries TenantID and is never shared
// 2. **Factories validate**: NewX functions return a *FieldError instead of a half-built value
// 3. **IDs, not pointers**: relationships are ID strings, the store resolves them
// 4. **Cached totals are derived**: Period totals are only written by the aggregation routine
//
// Money is carried as decimal.Decimal. Timestamps are Unix seconds; calendar days
// (join date, play date, expense date) are time.Time values truncated to UTC midnight.
package models

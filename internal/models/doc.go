// Package models defines the core domain records of the Hisab ledger.
//
//   - User: a registered member, identified by the external identity provider
//   - Group: a named set of members sharing expenses
//   - Expense / ExpenseSplit: who paid what, and each participant's share
//   - Settlement: a real-world payment recorded against outstanding debt
//
// All monetary fields are money.Paise (integer minor units); floating point
// never enters the ledger. Relationships use ID strings, not pointers, to
// avoid circular references. Expenses and settlements are soft-deleted via
// IsActive so history is never destroyed.
package models

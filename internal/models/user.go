package models

// User represents a registered member.
//
// Identity (the ID and its authentication) is owned by the external
// identity provider; this record only carries profile data the ledger
// needs for display and payment links.
type User struct {
	// ID is the unique identifier for the user (UUID format), issued by
	// the identity provider.
	ID string

	// Name is the display name of the user.
	Name string

	// Email is the user's email address (unique).
	Email string

	// UPIID is the user's UPI payment handle, e.g. "name@okbank".
	// Optional; used only to build payment deep links.
	UPIID string

	// CreatedAt is the Unix timestamp when the profile was first seen.
	CreatedAt int64
}

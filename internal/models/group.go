package models

// Group represents a set of members sharing expenses.
//
// Membership lives in a separate relation (group_members), not embedded
// in the stored row; MemberIDs is populated on reads.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string

	// Name is the display name, e.g. "Badminton Squad", "Flat 402".
	Name string

	// Description is an optional free-text note.
	Description string

	// Category classifies the group: trip, home, couple, sports, party, other.
	Category string

	// CreatedBy is the user ID of the creator. The creator is always a member.
	CreatedBy string

	// MemberIDs is the current membership, ordered by user ID.
	MemberIDs []string

	// IsActive is false once the group is soft-deleted.
	IsActive bool

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64
}

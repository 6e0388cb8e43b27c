package domain

import "context"

type ListingRepository interface {
	Create(ctx context.Context, listing *Listing) error
	Update(ctx context.Context, listing *Listing) error
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*Listing, error)
	// FindAll returns every listing, newest created first, ties broken
	// by id ascending.
	FindAll(ctx context.Context) ([]*Listing, error)
	FindByInterestedUser(ctx context.Context, userID string) ([]*Listing, error)

	// AddInterest and RemoveInterest must be atomic set operations on
	// the stored document, never read-then-overwrite, so concurrent
	// callers cannot lose each other's updates.
	AddInterest(ctx context.Context, listingID, userID string) error
	RemoveInterest(ctx context.Context, listingID, userID string) error

	AppendImage(ctx context.Context, listingID, path string) error
}

type UserRepository interface {
	Create(ctx context.Context, user *User) error
	Update(ctx context.Context, user *User) error
	FindByID(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	SetEmailVerified(ctx context.Context, id string) error
}

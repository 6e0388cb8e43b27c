package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/staco-app/directory-service/internal/directory/domain"
	"github.com/staco-app/directory-service/internal/platform/logger"
)

// SubjectListingInterest is the event subject interest notifications
// are published on.
const SubjectListingInterest = "listing.interest"

// EventPublisher is the fire-and-forget notification collaborator.
type EventPublisher interface {
	Publish(ctx context.Context, subject string, event interface{}) error
}

// InterestEvent is the payload delivered to the notification
// collaborator when a user first expresses interest in a listing.
type InterestEvent struct {
	ID                  string    `json:"id"`
	Type                string    `json:"type"`
	ListingID           string    `json:"listing_id"`
	Address             string    `json:"address"`
	OwnerID             string    `json:"owner_id"`
	InterestedUserID    string    `json:"interested_user_id"`
	InterestedUserName  string    `json:"interested_user_name"`
	InterestedUserEmail string    `json:"interested_user_email"`
	Timestamp           time.Time `json:"timestamp"`
}

type InterestUsecase struct {
	listings  domain.ListingRepository
	users     domain.UserRepository
	publisher EventPublisher
	mailer    Mailer
	cache     ListingCache
	logger    *logger.Logger
}

func NewInterestUsecase(listings domain.ListingRepository, users domain.UserRepository, publisher EventPublisher, mailer Mailer, cache ListingCache, log *logger.Logger) *InterestUsecase {
	return &InterestUsecase{
		listings:  listings,
		users:     users,
		publisher: publisher,
		mailer:    mailer,
		cache:     cache,
		logger:    log,
	}
}

// Mark records userID's interest in the listing. Owners cannot mark
// their own listings. Marking twice leaves the set as marking once did;
// the mutation is an atomic add on the stored document, so concurrent
// callers cannot clobber each other. Notification delivery is
// at-least-once: two concurrent first marks can each pass the
// membership pre-check and both notify.
func (uc *InterestUsecase) Mark(ctx context.Context, listingID, userID string) error {
	l, err := uc.listings.FindByID(ctx, listingID)
	if err != nil {
		return err
	}
	if l.OwnerID == userID {
		uc.logger.Warn("Mark: owner cannot mark own listing", "listing_id", listingID, "user_id", userID)
		return domain.ErrForbidden
	}
	if l.Interested(userID) {
		return nil
	}

	interested, err := uc.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := uc.listings.AddInterest(ctx, listingID, userID); err != nil {
		uc.logger.Error("Mark: add interest failed", "listing_id", listingID, "user_id", userID, "error", err.Error())
		return err
	}
	uc.invalidate(ctx, listingID)

	event := InterestEvent{
		ID:                  uuid.NewString(),
		Type:                "interest",
		ListingID:           l.ID,
		Address:             l.Address,
		OwnerID:             l.OwnerID,
		InterestedUserID:    interested.ID,
		InterestedUserName:  interested.FullName(),
		InterestedUserEmail: interested.Email,
		Timestamp:           time.Now().UTC(),
	}
	if err := uc.publisher.Publish(ctx, SubjectListingInterest, event); err != nil {
		uc.logger.Warn("Mark: interest event publish failed", "listing_id", listingID, "error", err.Error())
	}
	if uc.mailer != nil {
		if err := uc.mailer.SendInterestEmail(l.OwnerEmail, l.Address, interested.FullName()); err != nil {
			uc.logger.Warn("Mark: owner notification email failed", "listing_id", listingID, "error", err.Error())
		}
	}

	uc.logger.Info("interest marked", "listing_id", listingID, "user_id", userID)
	return nil
}

// Remove withdraws userID's interest. Removing an absent entry is a
// no-op; the set mutation is an atomic remove on the stored document.
func (uc *InterestUsecase) Remove(ctx context.Context, listingID, userID string) error {
	if _, err := uc.listings.FindByID(ctx, listingID); err != nil {
		return err
	}
	if err := uc.listings.RemoveInterest(ctx, listingID, userID); err != nil {
		uc.logger.Error("Remove: remove interest failed", "listing_id", listingID, "user_id", userID, "error", err.Error())
		return err
	}
	uc.invalidate(ctx, listingID)
	uc.logger.Info("interest removed", "listing_id", listingID, "user_id", userID)
	return nil
}

func (uc *InterestUsecase) invalidate(ctx context.Context, id string) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.Delete(ctx, id); err != nil {
		uc.logger.Warn("cache invalidation failed", "listing_id", id, "error", err.Error())
	}
}

// ListingsFor returns every listing whose interest set contains userID.
func (uc *InterestUsecase) ListingsFor(ctx context.Context, userID string) ([]*domain.Listing, error) {
	listings, err := uc.listings.FindByInterestedUser(ctx, userID)
	if err != nil {
		uc.logger.Error("ListingsFor: query failed", "user_id", userID, "error", err.Error())
		return nil, err
	}
	return listings, nil
}

package usecase

import (
	"context"
	"fmt"

	"github.com/staco-app/directory-service/internal/directory/domain"
	"github.com/staco-app/directory-service/internal/directory/filter"
	"github.com/staco-app/directory-service/internal/directory/validation"
	"github.com/staco-app/directory-service/internal/platform/logger"
)

// PhotoStorage is the blob-storage collaborator: Upload returns the
// reference stored on the listing, Delete removes it again.
type PhotoStorage interface {
	Upload(ctx context.Context, fileName string, data []byte) (string, error)
	Delete(ctx context.Context, ref string) error
}

// ListingCache is the read-through cache in front of the listing store.
// A miss is (nil, nil); cache failures never fail the request.
type ListingCache interface {
	Get(ctx context.Context, id string) (*domain.Listing, error)
	Set(ctx context.Context, listing *domain.Listing) error
	Delete(ctx context.Context, id string) error
}

type ListingUsecase struct {
	repo    domain.ListingRepository
	users   domain.UserRepository
	storage PhotoStorage
	cache   ListingCache
	logger  *logger.Logger
}

func NewListingUsecase(repo domain.ListingRepository, users domain.UserRepository, storage PhotoStorage, cache ListingCache, log *logger.Logger) *ListingUsecase {
	return &ListingUsecase{
		repo:    repo,
		users:   users,
		storage: storage,
		cache:   cache,
		logger:  log,
	}
}

// CreateListing validates the candidate, stamps the owner's identity
// from their stored profile and persists it. The repository assigns the
// id and creation timestamp.
func (uc *ListingUsecase) CreateListing(ctx context.Context, ownerID string, l *domain.Listing) (*domain.Listing, error) {
	owner, err := uc.users.FindByID(ctx, ownerID)
	if err != nil {
		uc.logger.Error("CreateListing: owner lookup failed", "owner_id", ownerID, "error", err.Error())
		return nil, err
	}

	l.OwnerID = owner.ID
	l.OwnerName = owner.FullName()
	l.OwnerEmail = owner.Email
	l.InterestedUsers = nil

	if err := validation.Listing(l).Err(); err != nil {
		return nil, err
	}

	if err := uc.repo.Create(ctx, l); err != nil {
		uc.logger.Error("CreateListing: persist failed", "owner_id", ownerID, "error", err.Error())
		return nil, err
	}
	uc.logger.Info("listing created", "listing_id", l.ID, "owner_id", l.OwnerID)
	return l, nil
}

func (uc *ListingUsecase) GetListing(ctx context.Context, id string) (*domain.Listing, error) {
	if uc.cache != nil {
		if cached, err := uc.cache.Get(ctx, id); err != nil {
			uc.logger.Warn("GetListing: cache read failed", "listing_id", id, "error", err.Error())
		} else if cached != nil {
			return cached, nil
		}
	}

	l, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if uc.cache != nil {
		if err := uc.cache.Set(ctx, l); err != nil {
			uc.logger.Warn("GetListing: cache write failed", "listing_id", id, "error", err.Error())
		}
	}
	return l, nil
}

// UpdateListing replaces the listing's mutable fields. Identity, owner
// stamp, creation time and the interest set survive the replace; only
// the owner may call it.
func (uc *ListingUsecase) UpdateListing(ctx context.Context, id, callerID string, updated *domain.Listing) (*domain.Listing, error) {
	current, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.OwnerID != callerID {
		uc.logger.Warn("UpdateListing: forbidden", "listing_id", id, "owner_id", current.OwnerID, "caller_id", callerID)
		return nil, domain.ErrForbidden
	}

	updated.ID = current.ID
	updated.OwnerID = current.OwnerID
	updated.OwnerName = current.OwnerName
	updated.OwnerEmail = current.OwnerEmail
	updated.InterestedUsers = current.InterestedUsers
	updated.CreatedAt = current.CreatedAt

	if err := validation.Listing(updated).Err(); err != nil {
		return nil, err
	}

	if err := uc.repo.Update(ctx, updated); err != nil {
		uc.logger.Error("UpdateListing: persist failed", "listing_id", id, "error", err.Error())
		return nil, err
	}
	uc.invalidate(ctx, id)
	return updated, nil
}

// DeleteListing removes the listing and, first, every photo blob it
// references. Blob deletion is best effort: a storage failure is logged
// and does not keep the record alive.
func (uc *ListingUsecase) DeleteListing(ctx context.Context, id, callerID string) error {
	current, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if current.OwnerID != callerID {
		uc.logger.Warn("DeleteListing: forbidden", "listing_id", id, "owner_id", current.OwnerID, "caller_id", callerID)
		return domain.ErrForbidden
	}

	for _, ref := range current.ImagePaths {
		if err := uc.storage.Delete(ctx, ref); err != nil {
			uc.logger.Warn("DeleteListing: photo blob delete failed", "listing_id", id, "ref", ref, "error", err.Error())
		}
	}

	if err := uc.repo.Delete(ctx, id); err != nil {
		uc.logger.Error("DeleteListing: persist failed", "listing_id", id, "error", err.Error())
		return err
	}
	uc.invalidate(ctx, id)
	uc.logger.Info("listing deleted", "listing_id", id, "owner_id", callerID)
	return nil
}

// ListListings fetches the full snapshot (newest first) and applies the
// filter spec in memory. Queries need no authentication and no locking.
func (uc *ListingUsecase) ListListings(ctx context.Context, spec domain.FilterSpec) ([]*domain.Listing, error) {
	listings, err := uc.repo.FindAll(ctx)
	if err != nil {
		uc.logger.Error("ListListings: scan failed", "error", err.Error())
		return nil, err
	}
	return filter.Apply(listings, spec), nil
}

// AttachPhoto uploads the image bytes and appends the returned
// reference to the listing, owner-only, capped at MaxListingImages.
func (uc *ListingUsecase) AttachPhoto(ctx context.Context, listingID, callerID, fileName string, data []byte) (string, error) {
	current, err := uc.repo.FindByID(ctx, listingID)
	if err != nil {
		return "", err
	}
	if current.OwnerID != callerID {
		return "", domain.ErrForbidden
	}
	if len(current.ImagePaths) >= domain.MaxListingImages {
		return "", validation.Violations{
			"imagePaths": fmt.Sprintf("at most %d images allowed", domain.MaxListingImages),
		}
	}

	ref, err := uc.storage.Upload(ctx, fileName, data)
	if err != nil {
		uc.logger.Error("AttachPhoto: upload failed", "listing_id", listingID, "error", err.Error())
		return "", err
	}

	if err := uc.repo.AppendImage(ctx, listingID, ref); err != nil {
		uc.logger.Error("AttachPhoto: append failed", "listing_id", listingID, "ref", ref, "error", err.Error())
		return "", err
	}
	uc.invalidate(ctx, listingID)
	return ref, nil
}

func (uc *ListingUsecase) invalidate(ctx context.Context, id string) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.Delete(ctx, id); err != nil {
		uc.logger.Warn("cache invalidation failed", "listing_id", id, "error", err.Error())
	}
}

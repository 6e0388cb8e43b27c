package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/staco-app/directory-service/internal/directory/domain"
	"github.com/staco-app/directory-service/internal/platform/logger"
)

// listingSort orders scans newest-creation-first with id ascending as
// the deterministic tie-break.
var listingSort = bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}}

type ListingRepository struct {
	collection *mongo.Collection
	logger     *logger.Logger
}

func NewListingRepository(db *mongo.Database, log *logger.Logger) *ListingRepository {
	repo := &ListingRepository{
		collection: db.Collection("listings"),
		logger:     log,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "interested_users", Value: 1}}},
	}
	if _, err := repo.collection.Indexes().CreateMany(ctx, indexes); err != nil {
		log.Warn("failed to ensure listing indexes", "error", err.Error())
	}

	return repo
}

func wrapPersistence(op string, err error) error {
	return fmt.Errorf("%s: %w: %s", op, domain.ErrPersistence, err)
}

func (r *ListingRepository) Create(ctx context.Context, listing *domain.Listing) error {
	listing.CreatedAt = time.Now().UTC()
	doc, err := toListingDocument(listing)
	if err != nil {
		return wrapPersistence("listings.create", err)
	}
	doc.ID = primitive.NewObjectID()
	if doc.ImagePaths == nil {
		doc.ImagePaths = []string{}
	}
	if doc.InterestedUsers == nil {
		doc.InterestedUsers = []string{}
	}

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return wrapPersistence("listings.create", err)
	}
	listing.ID = doc.ID.Hex()
	return nil
}

func (r *ListingRepository) FindByID(ctx context.Context, id string) (*domain.Listing, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrListingNotFound
	}

	var doc listingDocument
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrListingNotFound
	}
	if err != nil {
		return nil, wrapPersistence("listings.find", err)
	}
	return toDomainListing(&doc), nil
}

func (r *ListingRepository) Update(ctx context.Context, listing *domain.Listing) error {
	oid, err := primitive.ObjectIDFromHex(listing.ID)
	if err != nil {
		return domain.ErrListingNotFound
	}
	doc, err := toListingDocument(listing)
	if err != nil {
		return wrapPersistence("listings.update", err)
	}

	res, err := r.collection.ReplaceOne(ctx, bson.M{"_id": oid}, doc)
	if err != nil {
		return wrapPersistence("listings.update", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrListingNotFound
	}
	return nil
}

func (r *ListingRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrListingNotFound
	}
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return wrapPersistence("listings.delete", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrListingNotFound
	}
	return nil
}

func (r *ListingRepository) FindAll(ctx context.Context) ([]*domain.Listing, error) {
	cursor, err := r.collection.Find(ctx, bson.M{}, options.Find().SetSort(listingSort))
	if err != nil {
		return nil, wrapPersistence("listings.scan", err)
	}
	defer cursor.Close(ctx)

	var docs []*listingDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, wrapPersistence("listings.scan", err)
	}
	return toDomainListings(docs), nil
}

func (r *ListingRepository) FindByInterestedUser(ctx context.Context, userID string) ([]*domain.Listing, error) {
	cursor, err := r.collection.Find(ctx,
		bson.M{"interested_users": userID},
		options.Find().SetSort(listingSort),
	)
	if err != nil {
		return nil, wrapPersistence("listings.interests", err)
	}
	defer cursor.Close(ctx)

	var docs []*listingDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, wrapPersistence("listings.interests", err)
	}
	return toDomainListings(docs), nil
}

// AddInterest uses $addToSet so two users acting on the same listing at
// once cannot lose each other's entry, and a repeated call is a no-op.
func (r *ListingRepository) AddInterest(ctx context.Context, listingID, userID string) error {
	return r.updateSet(ctx, listingID, bson.M{"$addToSet": bson.M{"interested_users": userID}}, "listings.add_interest")
}

// RemoveInterest uses $pull; removing an absent entry is a no-op.
func (r *ListingRepository) RemoveInterest(ctx context.Context, listingID, userID string) error {
	return r.updateSet(ctx, listingID, bson.M{"$pull": bson.M{"interested_users": userID}}, "listings.remove_interest")
}

func (r *ListingRepository) AppendImage(ctx context.Context, listingID, path string) error {
	return r.updateSet(ctx, listingID, bson.M{"$push": bson.M{"image_paths": path}}, "listings.append_image")
}

func (r *ListingRepository) updateSet(ctx context.Context, listingID string, update bson.M, op string) error {
	oid, err := primitive.ObjectIDFromHex(listingID)
	if err != nil {
		return domain.ErrListingNotFound
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return wrapPersistence(op, err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrListingNotFound
	}
	return nil
}

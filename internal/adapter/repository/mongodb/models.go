package mongodb

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/staco-app/directory-service/internal/directory/domain"
)

type houseDetailsDocument struct {
	Bedrooms  int `bson:"bedrooms"`
	Bathrooms int `bson:"bathrooms"`
}

type listingDocument struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	OwnerID    string             `bson:"owner_id"`
	OwnerName  string             `bson:"owner_name"`
	OwnerEmail string             `bson:"owner_email"`

	Address                string               `bson:"address"`
	HouseDetails           houseDetailsDocument `bson:"house_details"`
	AvailableFrom          time.Time            `bson:"available_from"`
	AvailableTo            time.Time            `bson:"available_to"`
	Gender                 string               `bson:"gender"`
	RoomType               string               `bson:"room_type"`
	RentAmount             float64              `bson:"rent_amount"`
	RentType               string               `bson:"rent_type"`
	DistanceFromUniversity float64              `bson:"distance_from_university"`

	Amenities           string   `bson:"amenities,omitempty"`
	LocationConvenience string   `bson:"location_convenience,omitempty"`
	ImagePaths          []string `bson:"image_paths"`
	Latitude            *float64 `bson:"latitude,omitempty"`
	Longitude           *float64 `bson:"longitude,omitempty"`

	InterestedUsers []string  `bson:"interested_users"`
	CreatedAt       time.Time `bson:"created_at"`
}

type userDocument struct {
	ID              primitive.ObjectID `bson:"_id,omitempty"`
	FirstName       string             `bson:"first_name"`
	LastName        string             `bson:"last_name"`
	PhoneNumber     string             `bson:"phone_number"`
	University      string             `bson:"university"`
	Email           string             `bson:"email"`
	PasswordHash    string             `bson:"password_hash"`
	IsEmailVerified bool               `bson:"is_email_verified"`
	CreatedAt       time.Time          `bson:"created_at"`
}

func objectIDFromDomain(id string) (primitive.ObjectID, error) {
	if id == "" {
		return primitive.NilObjectID, nil
	}
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("invalid id %q: %w", id, err)
	}
	return oid, nil
}

func toListingDocument(l *domain.Listing) (*listingDocument, error) {
	oid, err := objectIDFromDomain(l.ID)
	if err != nil {
		return nil, err
	}
	return &listingDocument{
		ID:         oid,
		OwnerID:    l.OwnerID,
		OwnerName:  l.OwnerName,
		OwnerEmail: l.OwnerEmail,

		Address: l.Address,
		HouseDetails: houseDetailsDocument{
			Bedrooms:  l.HouseDetails.Bedrooms,
			Bathrooms: l.HouseDetails.Bathrooms,
		},
		AvailableFrom:          l.AvailableFrom,
		AvailableTo:            l.AvailableTo,
		Gender:                 string(l.Gender),
		RoomType:               string(l.RoomType),
		RentAmount:             l.RentAmount,
		RentType:               string(l.RentType),
		DistanceFromUniversity: l.DistanceFromUniversity,

		Amenities:           l.Amenities,
		LocationConvenience: l.LocationConvenience,
		ImagePaths:          l.ImagePaths,
		Latitude:            l.Latitude,
		Longitude:           l.Longitude,

		InterestedUsers: l.InterestedUsers,
		CreatedAt:       l.CreatedAt,
	}, nil
}

func toDomainListing(d *listingDocument) *domain.Listing {
	if d == nil {
		return nil
	}
	return &domain.Listing{
		ID:         d.ID.Hex(),
		OwnerID:    d.OwnerID,
		OwnerName:  d.OwnerName,
		OwnerEmail: d.OwnerEmail,

		Address: d.Address,
		HouseDetails: domain.HouseDetails{
			Bedrooms:  d.HouseDetails.Bedrooms,
			Bathrooms: d.HouseDetails.Bathrooms,
		},
		AvailableFrom:          d.AvailableFrom,
		AvailableTo:            d.AvailableTo,
		Gender:                 domain.Gender(d.Gender),
		RoomType:               domain.RoomType(d.RoomType),
		RentAmount:             d.RentAmount,
		RentType:               domain.RentType(d.RentType),
		DistanceFromUniversity: d.DistanceFromUniversity,

		Amenities:           d.Amenities,
		LocationConvenience: d.LocationConvenience,
		ImagePaths:          d.ImagePaths,
		Latitude:            d.Latitude,
		Longitude:           d.Longitude,

		InterestedUsers: d.InterestedUsers,
		CreatedAt:       d.CreatedAt,
	}
}

func toDomainListings(docs []*listingDocument) []*domain.Listing {
	out := make([]*domain.Listing, 0, len(docs))
	for _, doc := range docs {
		out = append(out, toDomainListing(doc))
	}
	return out
}

func toUserDocument(u *domain.User) (*userDocument, error) {
	oid, err := objectIDFromDomain(u.ID)
	if err != nil {
		return nil, err
	}
	return &userDocument{
		ID:              oid,
		FirstName:       u.FirstName,
		LastName:        u.LastName,
		PhoneNumber:     u.PhoneNumber,
		University:      u.University,
		Email:           u.Email,
		PasswordHash:    u.PasswordHash,
		IsEmailVerified: u.IsEmailVerified,
		CreatedAt:       u.CreatedAt,
	}, nil
}

func toDomainUser(d *userDocument) *domain.User {
	if d == nil {
		return nil
	}
	return &domain.User{
		ID:              d.ID.Hex(),
		FirstName:       d.FirstName,
		LastName:        d.LastName,
		PhoneNumber:     d.PhoneNumber,
		University:      d.University,
		Email:           d.Email,
		PasswordHash:    d.PasswordHash,
		IsEmailVerified: d.IsEmailVerified,
		CreatedAt:       d.CreatedAt,
	}
}

package domain

import "time"

// Gender is the gender preference attached to a listing.
type Gender string

const (
	GenderAllFemale Gender = "all_female"
	GenderAllMale   Gender = "all_male"
	GenderMixed     Gender = "mixed"
)

func (g Gender) Valid() bool {
	switch g {
	case GenderAllFemale, GenderAllMale, GenderMixed:
		return true
	}
	return false
}

type RoomType string

const (
	RoomShared  RoomType = "shared"
	RoomPrivate RoomType = "private"
)

func (r RoomType) Valid() bool {
	return r == RoomShared || r == RoomPrivate
}

type RentType string

const (
	RentWithUtilities    RentType = "with_utilities"
	RentWithoutUtilities RentType = "without_utilities"
)

func (r RentType) Valid() bool {
	return r == RentWithUtilities || r == RentWithoutUtilities
}

type HouseDetails struct {
	Bedrooms  int
	Bathrooms int
}

// MaxListingImages caps the image references a single listing may carry.
const MaxListingImages = 8

type Listing struct {
	ID         string
	OwnerID    string
	OwnerName  string
	OwnerEmail string

	Address                string
	HouseDetails           HouseDetails
	AvailableFrom          time.Time
	AvailableTo            time.Time
	Gender                 Gender
	RoomType               RoomType
	RentAmount             float64
	RentType               RentType
	DistanceFromUniversity float64

	Amenities           string
	LocationConvenience string
	ImagePaths          []string
	Latitude            *float64
	Longitude           *float64

	// InterestedUsers is mutated only through the interest ledger,
	// via the repository's atomic set operations.
	InterestedUsers []string
	CreatedAt       time.Time
}

// Interested reports whether userID is already in the listing's interest set.
func (l *Listing) Interested(userID string) bool {
	for _, id := range l.InterestedUsers {
		if id == userID {
			return true
		}
	}
	return false
}

type User struct {
	ID              string
	FirstName       string
	LastName        string
	PhoneNumber     string
	University      string
	Email           string
	PasswordHash    string
	IsEmailVerified bool
	CreatedAt       time.Time
}

func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// FilterSpec constrains a listing query. A nil field means the field
// places no constraint; all present constraints must hold.
type FilterSpec struct {
	HouseDetails  *HouseDetails
	Gender        *Gender
	RoomType      *RoomType
	MinRent       *float64
	MaxRent       *float64
	MaxDistance   *float64
	AvailableFrom *time.Time
	AvailableTo   *time.Time
}

func (f FilterSpec) Empty() bool {
	return f.HouseDetails == nil && f.Gender == nil && f.RoomType == nil &&
		f.MinRent == nil && f.MaxRent == nil && f.MaxDistance == nil &&
		f.AvailableFrom == nil && f.AvailableTo == nil
}

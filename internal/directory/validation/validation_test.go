package validation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/staco-app/directory-service/internal/directory/domain"
)

func TestValidEmail(t *testing.T) {
	assert.True(t, ValidEmail("bob@mit.edu"))
	assert.True(t, ValidEmail("bob@gmail.com"))
	assert.False(t, ValidEmail("not-an-email"))
	assert.False(t, ValidEmail("bob@"))
	assert.False(t, ValidEmail("@mit.edu"))
}

func TestStudentEmail(t *testing.T) {
	domains := DefaultStudentDomains

	assert.True(t, StudentEmail("bob@mit.edu", domains))
	assert.True(t, StudentEmail("alice@cs.ox.ac.uk", domains))
	assert.True(t, StudentEmail("Bob@MIT.EDU", domains))
	assert.False(t, StudentEmail("bob@gmail.com", domains))
	assert.False(t, StudentEmail("not-an-email", domains))
	// The suffix must be on the domain, not anywhere in the address.
	assert.False(t, StudentEmail("bob.edu@gmail.com", domains))
}

func TestValidPassword(t *testing.T) {
	assert.True(t, ValidPassword("Secretpw1"))
	assert.False(t, ValidPassword("Short1"))
	assert.False(t, ValidPassword("alllowercase1"))
	assert.False(t, ValidPassword("ALLUPPERCASE1"))
	assert.False(t, ValidPassword("NoDigitsHere"))
}

func TestValidPhone(t *testing.T) {
	assert.True(t, ValidPhone("5551234567"))
	assert.True(t, ValidPhone("(555) 123-4567"))
	assert.True(t, ValidPhone("+44 20 7946 0958"))
	assert.False(t, ValidPhone("12345"))
	assert.False(t, ValidPhone("1234567890123456"))
}

func validListing() *domain.Listing {
	from := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	return &domain.Listing{
		Address:                "12 College Ave",
		HouseDetails:           domain.HouseDetails{Bedrooms: 2, Bathrooms: 1},
		AvailableFrom:          from,
		AvailableTo:            from.AddDate(0, 6, 0),
		Gender:                 domain.GenderMixed,
		RoomType:               domain.RoomPrivate,
		RentAmount:             750,
		RentType:               domain.RentWithUtilities,
		DistanceFromUniversity: 1.5,
	}
}

func TestListingValid(t *testing.T) {
	assert.NoError(t, Listing(validListing()).Err())
}

func TestListingViolations(t *testing.T) {
	l := validListing()
	l.Address = "  "
	l.HouseDetails.Bedrooms = 0
	l.RentAmount = -1
	l.DistanceFromUniversity = -0.5

	v := Listing(l)
	assert.Contains(t, v, "address")
	assert.Contains(t, v, "houseDetails.bedrooms")
	assert.Contains(t, v, "rentAmount")
	assert.Contains(t, v, "distanceFromUniversity")
	assert.Error(t, v.Err())
}

func TestListingDateOrder(t *testing.T) {
	l := validListing()
	l.AvailableTo = l.AvailableFrom
	assert.Contains(t, Listing(l), "availableFrom")

	l.AvailableTo = l.AvailableFrom.AddDate(0, 0, -1)
	assert.Contains(t, Listing(l), "availableFrom")
}

func TestListingImageCap(t *testing.T) {
	l := validListing()
	for i := 0; i <= domain.MaxListingImages; i++ {
		l.ImagePaths = append(l.ImagePaths, "photos/x.jpg")
	}
	assert.Contains(t, Listing(l), "imagePaths")

	l.ImagePaths = l.ImagePaths[:domain.MaxListingImages]
	assert.NotContains(t, Listing(l), "imagePaths")
}

func TestRegistration(t *testing.T) {
	user := &domain.User{
		FirstName:   "Bob",
		LastName:    "Smith",
		PhoneNumber: "5551234567",
		University:  "MIT",
		Email:       "bob@mit.edu",
	}
	assert.NoError(t, Registration(user, "Secretpw1", DefaultStudentDomains).Err())

	user.Email = "bob@gmail.com"
	v := Registration(user, "Secretpw1", DefaultStudentDomains)
	assert.Equal(t, "a university email address is required", v["email"])

	user.Email = "not-an-email"
	v = Registration(user, "short", DefaultStudentDomains)
	assert.Equal(t, "invalid email address", v["email"])
	assert.Contains(t, v, "password")
}

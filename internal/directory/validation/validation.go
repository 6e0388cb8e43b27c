package validation

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/staco-app/directory-service/internal/directory/domain"
)

// Violations maps a field name to the reason it was rejected. It is
// returned instead of raised: malformed-but-well-typed input is an
// expected condition, not a panic.
type Violations map[string]string

func (v Violations) Error() string {
	fields := make([]string, 0, len(v))
	for f := range v {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f, v[f]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Err returns v as an error, or nil when there are no violations.
func (v Violations) Err() error {
	if len(v) == 0 {
		return nil
	}
	return v
}

var (
	emailRe     = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
	nonDigitRe  = regexp.MustCompile(`[^0-9]`)
	upperRe     = regexp.MustCompile(`[A-Z]`)
	lowerRe     = regexp.MustCompile(`[a-z]`)
	digitRe     = regexp.MustCompile(`[0-9]`)
)

// DefaultStudentDomains is the educational-suffix set accepted at
// registration when none is configured.
var DefaultStudentDomains = []string{".edu", ".ac.uk", ".edu.au", ".ac.nz"}

func ValidEmail(email string) bool {
	return emailRe.MatchString(email)
}

// StudentEmail reports whether the address's domain ends with one of
// the given educational suffixes.
func StudentEmail(email string, suffixes []string) bool {
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return false
	}
	dom := strings.ToLower(email[at+1:])
	for _, s := range suffixes {
		if strings.HasSuffix(dom, strings.ToLower(s)) {
			return true
		}
	}
	return false
}

// ValidPhone normalizes the number to digits and requires 10-15 of them.
func ValidPhone(phone string) bool {
	digits := nonDigitRe.ReplaceAllString(phone, "")
	return len(digits) >= 10 && len(digits) <= 15
}

// ValidPassword requires at least 8 characters with one uppercase
// letter, one lowercase letter and one digit.
func ValidPassword(password string) bool {
	return len(password) >= 8 &&
		upperRe.MatchString(password) &&
		lowerRe.MatchString(password) &&
		digitRe.MatchString(password)
}

// Listing checks field-level and cross-field constraints on a candidate
// listing. It never mutates its argument.
func Listing(l *domain.Listing) Violations {
	v := Violations{}
	if strings.TrimSpace(l.Address) == "" {
		v["address"] = "address is required"
	}
	if l.HouseDetails.Bedrooms <= 0 {
		v["houseDetails.bedrooms"] = "bedroom count must be positive"
	}
	if l.HouseDetails.Bathrooms <= 0 {
		v["houseDetails.bathrooms"] = "bathroom count must be positive"
	}
	if !l.AvailableFrom.Before(l.AvailableTo) {
		v["availableFrom"] = "availability start must precede end"
	}
	if !l.Gender.Valid() {
		v["gender"] = "unknown gender preference"
	}
	if !l.RoomType.Valid() {
		v["roomType"] = "unknown room type"
	}
	if !l.RentType.Valid() {
		v["rentType"] = "unknown rent type"
	}
	if l.RentAmount < 0 {
		v["rentAmount"] = "rent amount must be non-negative"
	}
	if l.DistanceFromUniversity < 0 {
		v["distanceFromUniversity"] = "distance must be non-negative"
	}
	if len(l.ImagePaths) > domain.MaxListingImages {
		v["imagePaths"] = fmt.Sprintf("at most %d images allowed", domain.MaxListingImages)
	}
	return v
}

// Registration checks a candidate user profile and its password against
// the configured student-domain suffixes.
func Registration(u *domain.User, password string, studentDomains []string) Violations {
	v := Violations{}
	if strings.TrimSpace(u.FirstName) == "" {
		v["firstName"] = "first name is required"
	}
	if strings.TrimSpace(u.LastName) == "" {
		v["lastName"] = "last name is required"
	}
	if strings.TrimSpace(u.University) == "" {
		v["university"] = "university is required"
	}
	if !ValidPhone(u.PhoneNumber) {
		v["phoneNumber"] = "phone number must contain 10 to 15 digits"
	}
	switch {
	case !ValidEmail(u.Email):
		v["email"] = "invalid email address"
	case !StudentEmail(u.Email, studentDomains):
		v["email"] = "a university email address is required"
	}
	if !ValidPassword(password) {
		v["password"] = "password needs 8+ characters with an uppercase letter, a lowercase letter and a digit"
	}
	return v
}

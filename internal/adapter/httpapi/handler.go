package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/staco-app/directory-service/internal/adapter/httpapi/middleware"
	"github.com/staco-app/directory-service/internal/directory/domain"
	"github.com/staco-app/directory-service/internal/directory/usecase"
	"github.com/staco-app/directory-service/internal/directory/validation"
	"github.com/staco-app/directory-service/internal/platform/logger"
)

var tracer = otel.Tracer("directory-service/httpapi")

const maxPhotoBytes = 10 << 20

type Handler struct {
	listings  *usecase.ListingUsecase
	interests *usecase.InterestUsecase
	users     *usecase.UserUsecase
	logger    *logger.Logger
}

func NewHandler(listings *usecase.ListingUsecase, interests *usecase.InterestUsecase, users *usecase.UserUsecase, log *logger.Logger) *Handler {
	return &Handler{
		listings:  listings,
		interests: interests,
		users:     users,
		logger:    log,
	}
}

// ---- payloads ----

type houseDetailsPayload struct {
	Bedrooms  int `json:"bedrooms"`
	Bathrooms int `json:"bathrooms"`
}

type listingPayload struct {
	Address                string              `json:"address"`
	HouseDetails           houseDetailsPayload `json:"houseDetails"`
	AvailableFrom          time.Time           `json:"availableFrom"`
	AvailableTo            time.Time           `json:"availableTo"`
	Gender                 string              `json:"gender"`
	RoomType               string              `json:"roomType"`
	RentAmount             float64             `json:"rentAmount"`
	RentType               string              `json:"rentType"`
	DistanceFromUniversity float64             `json:"distanceFromUniversity"`
	Amenities              string              `json:"amenities,omitempty"`
	LocationConvenience    string              `json:"locationConvenience,omitempty"`
	Latitude               *float64            `json:"latitude,omitempty"`
	Longitude              *float64            `json:"longitude,omitempty"`
}

func (p *listingPayload) toDomain() *domain.Listing {
	return &domain.Listing{
		Address: p.Address,
		HouseDetails: domain.HouseDetails{
			Bedrooms:  p.HouseDetails.Bedrooms,
			Bathrooms: p.HouseDetails.Bathrooms,
		},
		AvailableFrom:          p.AvailableFrom,
		AvailableTo:            p.AvailableTo,
		Gender:                 domain.Gender(p.Gender),
		RoomType:               domain.RoomType(p.RoomType),
		RentAmount:             p.RentAmount,
		RentType:               domain.RentType(p.RentType),
		DistanceFromUniversity: p.DistanceFromUniversity,
		Amenities:              p.Amenities,
		LocationConvenience:    p.LocationConvenience,
		Latitude:               p.Latitude,
		Longitude:              p.Longitude,
	}
}

type listingResponse struct {
	ID                     string              `json:"id"`
	OwnerID                string              `json:"ownerId"`
	OwnerName              string              `json:"ownerName"`
	OwnerEmail             string              `json:"ownerEmail"`
	Address                string              `json:"address"`
	HouseDetails           houseDetailsPayload `json:"houseDetails"`
	AvailableFrom          time.Time           `json:"availableFrom"`
	AvailableTo            time.Time           `json:"availableTo"`
	Gender                 string              `json:"gender"`
	RoomType               string              `json:"roomType"`
	RentAmount             float64             `json:"rentAmount"`
	RentType               string              `json:"rentType"`
	DistanceFromUniversity float64             `json:"distanceFromUniversity"`
	Amenities              string              `json:"amenities,omitempty"`
	LocationConvenience    string              `json:"locationConvenience,omitempty"`
	ImagePaths             []string            `json:"imagePaths"`
	Latitude               *float64            `json:"latitude,omitempty"`
	Longitude              *float64            `json:"longitude,omitempty"`
	InterestedUsers        []string            `json:"interestedUsers"`
	CreatedAt              time.Time           `json:"createdAt"`
}

func toListingResponse(l *domain.Listing) listingResponse {
	return listingResponse{
		ID:         l.ID,
		OwnerID:    l.OwnerID,
		OwnerName:  l.OwnerName,
		OwnerEmail: l.OwnerEmail,
		Address:    l.Address,
		HouseDetails: houseDetailsPayload{
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
		Amenities:              l.Amenities,
		LocationConvenience:    l.LocationConvenience,
		ImagePaths:             l.ImagePaths,
		Latitude:               l.Latitude,
		Longitude:              l.Longitude,
		InterestedUsers:        l.InterestedUsers,
		CreatedAt:              l.CreatedAt,
	}
}

func toListingResponses(listings []*domain.Listing) []listingResponse {
	out := make([]listingResponse, 0, len(listings))
	for _, l := range listings {
		out = append(out, toListingResponse(l))
	}
	return out
}

type userResponse struct {
	ID              string    `json:"id"`
	FirstName       string    `json:"firstName"`
	LastName        string    `json:"lastName"`
	PhoneNumber     string    `json:"phoneNumber"`
	University      string    `json:"university"`
	Email           string    `json:"email"`
	IsEmailVerified bool      `json:"isEmailVerified"`
	CreatedAt       time.Time `json:"createdAt"`
}

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:              u.ID,
		FirstName:       u.FirstName,
		LastName:        u.LastName,
		PhoneNumber:     u.PhoneNumber,
		University:      u.University,
		Email:           u.Email,
		IsEmailVerified: u.IsEmailVerified,
		CreatedAt:       u.CreatedAt,
	}
}

// ---- users ----

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FirstName   string `json:"firstName"`
		LastName    string `json:"lastName"`
		PhoneNumber string `json:"phoneNumber"`
		University  string `json:"university"`
		Email       string `json:"email"`
		Password    string `json:"password"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.users.Register(r.Context(), usecase.RegisterInput{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		PhoneNumber: req.PhoneNumber,
		University:  req.University,
		Email:       req.Email,
		Password:    req.Password,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toUserResponse(user))
}

func (h *Handler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token string `json:"token"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.users.VerifyEmail(r.Context(), req.Token); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ResendVerification(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.users.ResendVerification(r.Context(), req.Email); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	token, user, err := h.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"token": token,
		"user":  toUserResponse(user),
	})
}

func (h *Handler) GetMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.writeError(w, r, domain.ErrUnauthenticated)
		return
	}
	user, err := h.users.GetProfile(r.Context(), userID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(user))
}

func (h *Handler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.writeError(w, r, domain.ErrUnauthenticated)
		return
	}
	var req struct {
		FirstName   string `json:"firstName"`
		LastName    string `json:"lastName"`
		PhoneNumber string `json:"phoneNumber"`
		University  string `json:"university"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	user, err := h.users.UpdateProfile(r.Context(), userID, usecase.ProfileUpdate{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		PhoneNumber: req.PhoneNumber,
		University:  req.University,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(user))
}

// ---- listings ----

func (h *Handler) CreateListing(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.writeError(w, r, domain.ErrUnauthenticated)
		return
	}

	ctx, span := tracer.Start(r.Context(), "Handler.CreateListing")
	defer span.End()
	span.SetAttributes(attribute.String("user_id", userID))

	var req listingPayload
	if !decodeJSON(w, r, &req) {
		return
	}

	created, err := h.listings.CreateListing(ctx, userID, req.toDomain())
	if err != nil {
		span.RecordError(err)
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toListingResponse(created))
}

func (h *Handler) ListListings(w http.ResponseWriter, r *http.Request) {
	spec, violations := parseFilterSpec(r)
	if err := violations.Err(); err != nil {
		h.writeError(w, r, err)
		return
	}

	listings, err := h.listings.ListListings(r.Context(), spec)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toListingResponses(listings))
}

func (h *Handler) GetListing(w http.ResponseWriter, r *http.Request) {
	listing, err := h.listings.GetListing(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toListingResponse(listing))
}

func (h *Handler) UpdateListing(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.writeError(w, r, domain.ErrUnauthenticated)
		return
	}
	var req listingPayload
	if !decodeJSON(w, r, &req) {
		return
	}

	updated, err := h.listings.UpdateListing(r.Context(), chi.URLParam(r, "id"), userID, req.toDomain())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toListingResponse(updated))
}

func (h *Handler) DeleteListing(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.writeError(w, r, domain.ErrUnauthenticated)
		return
	}
	if err := h.listings.DeleteListing(r.Context(), chi.URLParam(r, "id"), userID); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.writeError(w, r, domain.ErrUnauthenticated)
		return
	}

	if err := r.ParseMultipartForm(maxPhotoBytes); err != nil {
		h.writeError(w, r, validation.Violations{"photo": "multipart form with a photo file is required"})
		return
	}
	file, header, err := r.FormFile("photo")
	if err != nil {
		h.writeError(w, r, validation.Violations{"photo": "photo file is required"})
		return
	}
	defer file.Close()

	// Read one byte past the cap so an oversized file is rejected
	// instead of stored truncated.
	data, err := io.ReadAll(io.LimitReader(file, maxPhotoBytes+1))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if len(data) > maxPhotoBytes {
		h.writeError(w, r, validation.Violations{"photo": "photo must be 10 MiB or smaller"})
		return
	}

	ref, err := h.listings.AttachPhoto(r.Context(), chi.URLParam(r, "id"), userID, header.Filename, data)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"path": ref})
}

// ---- interest ----

func (h *Handler) MarkInterest(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.writeError(w, r, domain.ErrUnauthenticated)
		return
	}

	ctx, span := tracer.Start(r.Context(), "Handler.MarkInterest")
	defer span.End()
	span.SetAttributes(
		attribute.String("listing_id", chi.URLParam(r, "id")),
		attribute.String("user_id", userID),
	)

	if err := h.interests.Mark(ctx, chi.URLParam(r, "id"), userID); err != nil {
		span.RecordError(err)
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) RemoveInterest(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.writeError(w, r, domain.ErrUnauthenticated)
		return
	}
	if err := h.interests.Remove(r.Context(), chi.URLParam(r, "id"), userID); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) MyInterests(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.writeError(w, r, domain.ErrUnauthenticated)
		return
	}
	listings, err := h.interests.ListingsFor(r.Context(), userID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toListingResponses(listings))
}

// ---- helpers ----

// parseFilterSpec builds a FilterSpec from query parameters. Bedrooms
// and bathrooms must arrive together: house-details matching is defined
// as equality on both.
func parseFilterSpec(r *http.Request) (domain.FilterSpec, validation.Violations) {
	q := r.URL.Query()
	spec := domain.FilterSpec{}
	v := validation.Violations{}

	bedrooms, hasBedrooms := parseIntParam(q.Get("bedrooms"), "bedrooms", v)
	bathrooms, hasBathrooms := parseIntParam(q.Get("bathrooms"), "bathrooms", v)
	switch {
	case hasBedrooms != hasBathrooms:
		v["houseDetails"] = "bedrooms and bathrooms must be given together"
	case hasBedrooms:
		spec.HouseDetails = &domain.HouseDetails{Bedrooms: bedrooms, Bathrooms: bathrooms}
	}

	if s := q.Get("gender"); s != "" {
		g := domain.Gender(s)
		if !g.Valid() {
			v["gender"] = "unknown gender preference"
		} else {
			spec.Gender = &g
		}
	}
	if s := q.Get("roomType"); s != "" {
		rt := domain.RoomType(s)
		if !rt.Valid() {
			v["roomType"] = "unknown room type"
		} else {
			spec.RoomType = &rt
		}
	}

	spec.MinRent = parseFloatParam(q.Get("minRent"), "minRent", v)
	spec.MaxRent = parseFloatParam(q.Get("maxRent"), "maxRent", v)
	spec.MaxDistance = parseFloatParam(q.Get("maxDistance"), "maxDistance", v)
	spec.AvailableFrom = parseTimeParam(q.Get("availableFrom"), "availableFrom", v)
	spec.AvailableTo = parseTimeParam(q.Get("availableTo"), "availableTo", v)

	return spec, v
}

func parseIntParam(s, field string, v validation.Violations) (int, bool) {
	if s == "" {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		v[field] = "must be an integer"
		return 0, false
	}
	return n, true
}

func parseFloatParam(s, field string, v validation.Violations) *float64 {
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		v[field] = "must be a number"
		return nil
	}
	return &f
}

func parseTimeParam(s, field string, v validation.Violations) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		v[field] = "must be an RFC 3339 timestamp"
		return nil
	}
	return &t
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "malformed JSON body"})
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeError maps internal error kinds to HTTP statuses. Backend
// detail never reaches the caller.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var violations validation.Violations
	switch {
	case errors.As(err, &violations):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
			"error":      "validation failed",
			"violations": violations,
		})
	case errors.Is(err, domain.ErrListingNotFound), errors.Is(err, domain.ErrUserNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.Is(err, domain.ErrForbidden):
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "action forbidden"})
	case errors.Is(err, domain.ErrUnauthenticated),
		errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, domain.ErrEmailNotVerified):
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": err.Error()})
	case errors.Is(err, domain.ErrEmailTaken):
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
	case errors.Is(err, domain.ErrPersistence):
		h.logger.Error("backend failure", "path", r.URL.Path, "error", err.Error())
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "backend unavailable, retry later"})
	default:
		h.logger.Error("unhandled error", "path", r.URL.Path, "error", err.Error())
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

package request

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/trailbound/trailbound-go/internal/domain/entity"
)

// LocationRequest is a GeoJSON point in a tour body.
type LocationRequest struct {
	Type        string    `json:"type" binding:"omitempty,oneof=Point"`
	Coordinates []float64 `json:"coordinates" binding:"required,len=2"`
	Address     string    `json:"address"`
	Description string    `json:"description"`
	Day         int       `json:"day"`
}

// CreateTourRequest creates a tour. The rating fields are absent on
// purpose; they are derived from reviews and never client-writable.
type CreateTourRequest struct {
	Name          string            `json:"name" binding:"required,min=10,max=40"`
	Duration      int               `json:"duration" binding:"required,min=1"`
	MaxGroupSize  int               `json:"maxGroupSize" binding:"required,min=1"`
	Difficulty    string            `json:"difficulty" binding:"required,oneof=easy medium difficult"`
	Price         float64           `json:"price" binding:"required,gt=0"`
	PriceDiscount float64           `json:"priceDiscount" binding:"omitempty,gt=0,ltfield=Price"`
	Summary       string            `json:"summary" binding:"required"`
	Description   string            `json:"description"`
	ImageCover    string            `json:"imageCover"`
	Images        []string          `json:"images"`
	StartDates    []time.Time       `json:"startDates"`
	SecretTour    bool              `json:"secretTour"`
	StartLocation *LocationRequest  `json:"startLocation"`
	Locations     []LocationRequest `json:"locations"`
	Guides        []string          `json:"guides" binding:"omitempty,dive,hexadecimal,len=24"`
}

// ToEntity converts the request into a tour ready for insertion.
func (r *CreateTourRequest) ToEntity() (*entity.Tour, error) {
	guides, err := toObjectIDs(r.Guides)
	if err != nil {
		return nil, err
	}
	tour := &entity.Tour{
		Name:          r.Name,
		Duration:      r.Duration,
		MaxGroupSize:  r.MaxGroupSize,
		Difficulty:    entity.Difficulty(r.Difficulty),
		Price:         r.Price,
		PriceDiscount: r.PriceDiscount,
		Summary:       r.Summary,
		Description:   r.Description,
		ImageCover:    r.ImageCover,
		Images:        r.Images,
		StartDates:    r.StartDates,
		SecretTour:    r.SecretTour,
		StartLocation: toLocation(r.StartLocation),
		Locations:     toLocations(r.Locations),
		Guides:        guides,
	}
	tour.Slugify()
	return tour, nil
}

// UpdateTourRequest patches a tour. Every field is optional; only the
// fields present in the body reach the database.
type UpdateTourRequest struct {
	Name          *string           `json:"name" binding:"omitempty,min=10,max=40"`
	Duration      *int              `json:"duration" binding:"omitempty,min=1"`
	MaxGroupSize  *int              `json:"maxGroupSize" binding:"omitempty,min=1"`
	Difficulty    *string           `json:"difficulty" binding:"omitempty,oneof=easy medium difficult"`
	Price         *float64          `json:"price" binding:"omitempty,gt=0"`
	PriceDiscount *float64          `json:"priceDiscount" binding:"omitempty,gt=0"`
	Summary       *string           `json:"summary"`
	Description   *string           `json:"description"`
	ImageCover    *string           `json:"imageCover"`
	Images        []string          `json:"images"`
	StartDates    []time.Time       `json:"startDates"`
	SecretTour    *bool             `json:"secretTour"`
	StartLocation *LocationRequest  `json:"startLocation"`
	Locations     []LocationRequest `json:"locations"`
	Guides        []string          `json:"guides" binding:"omitempty,dive,hexadecimal,len=24"`
}

// Patch builds the $set document from the present fields. A name change
// refreshes the slug alongside it.
func (r *UpdateTourRequest) Patch() (bson.M, error) {
	patch := bson.M{}
	if r.Name != nil {
		patch["name"] = *r.Name
		patch["slug"] = entity.Slugify(*r.Name)
	}
	if r.Duration != nil {
		patch["duration"] = *r.Duration
	}
	if r.MaxGroupSize != nil {
		patch["maxGroupSize"] = *r.MaxGroupSize
	}
	if r.Difficulty != nil {
		patch["difficulty"] = *r.Difficulty
	}
	if r.Price != nil {
		patch["price"] = *r.Price
	}
	if r.PriceDiscount != nil {
		patch["priceDiscount"] = *r.PriceDiscount
	}
	if r.Summary != nil {
		patch["summary"] = *r.Summary
	}
	if r.Description != nil {
		patch["description"] = *r.Description
	}
	if r.ImageCover != nil {
		patch["imageCover"] = *r.ImageCover
	}
	if r.Images != nil {
		patch["images"] = r.Images
	}
	if r.StartDates != nil {
		patch["startDates"] = r.StartDates
	}
	if r.SecretTour != nil {
		patch["secretTour"] = *r.SecretTour
	}
	if r.StartLocation != nil {
		patch["startLocation"] = toLocation(r.StartLocation)
	}
	if r.Locations != nil {
		patch["locations"] = toLocations(r.Locations)
	}
	if r.Guides != nil {
		guides, err := toObjectIDs(r.Guides)
		if err != nil {
			return nil, err
		}
		patch["guides"] = guides
	}
	return patch, nil
}

func toLocation(l *LocationRequest) *entity.Location {
	if l == nil {
		return nil
	}
	return &entity.Location{
		Type:        "Point",
		Coordinates: l.Coordinates,
		Address:     l.Address,
		Description: l.Description,
		Day:         l.Day,
	}
}

func toLocations(ls []LocationRequest) []entity.Location {
	if ls == nil {
		return nil
	}
	out := make([]entity.Location, 0, len(ls))
	for i := range ls {
		out = append(out, *toLocation(&ls[i]))
	}
	return out
}

func toObjectIDs(hexes []string) ([]primitive.ObjectID, error) {
	if hexes == nil {
		return nil, nil
	}
	ids := make([]primitive.ObjectID, 0, len(hexes))
	for _, h := range hexes {
		id, err := primitive.ObjectIDFromHex(h)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

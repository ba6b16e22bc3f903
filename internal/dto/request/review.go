package request

import "go.mongodb.org/mongo-driver/bson"

// CreateReviewRequest creates a review. Tour and User are optional in the
// body; on the nested tour route the service fills them from the URL and
// the authenticated user.
type CreateReviewRequest struct {
	Review string  `json:"review" binding:"required"`
	Rating float64 `json:"rating" binding:"required,min=1,max=5"`
	Tour   string  `json:"tour" binding:"omitempty,hexadecimal,len=24"`
	User   string  `json:"user" binding:"omitempty,hexadecimal,len=24"`
}

// UpdateReviewRequest patches a review's text or rating. Tour and user
// bindings are immutable after creation.
type UpdateReviewRequest struct {
	Review *string  `json:"review"`
	Rating *float64 `json:"rating" binding:"omitempty,min=1,max=5"`
}

// Patch builds the $set document from the present fields.
func (r *UpdateReviewRequest) Patch() bson.M {
	patch := bson.M{}
	if r.Review != nil {
		patch["review"] = *r.Review
	}
	if r.Rating != nil {
		patch["rating"] = *r.Rating
	}
	return patch
}

package entity

import "time"

const MaxListingImages = 3

type Listing struct {
	ID          string `json:"id" firestore:"id"`
	OwnerID     string `json:"owner_id" firestore:"userId"`
	Title       string `json:"title" firestore:"name"`
	Year        string `json:"year" firestore:"year"`     // "1st".."4th"
	Branch      string `json:"branch" firestore:"branch"` // "cs", "it", "mechanical", "chemical"
	Condition   string `json:"condition" firestore:"condition"`
	Price       int64  `json:"price" firestore:"price"`
	Description string `json:"description" firestore:"description"`

	// ImageURLs and ImagePublicIDs are parallel lists: ImagePublicIDs[i] is
	// the deletion handle for the asset served at ImageURLs[i].
	ImageURLs      []string `json:"image_urls" firestore:"imageUrls"`
	ImagePublicIDs []string `json:"image_public_ids" firestore:"imagePublicIds"`

	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updatedAt"`
}

package domain

import "time"

// Item is a catalog entry offered on the storefront.
type Item struct {
	ID          string    `json:"id" bson:"-"`
	Title       string    `json:"title" bson:"title"`
	Price       float64   `json:"price" bson:"price"`
	Currency    string    `json:"currency" bson:"currency"`
	Category    string    `json:"category,omitempty" bson:"category,omitempty"`
	Description string    `json:"description,omitempty" bson:"description,omitempty"`
	PhotoURLs   []string  `json:"photo_urls" bson:"photo_urls"`
	InStock     bool      `json:"in_stock" bson:"in_stock"`
	AuthorUID   string    `json:"author_uid" bson:"author_uid"`
	AuthorName  string    `json:"author_name,omitempty" bson:"author_name,omitempty"`
	AuthorPhoto string    `json:"author_photo,omitempty" bson:"author_photo,omitempty"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
}

// Stats summarises the store for the admin dashboard.
type Stats struct {
	TotalUsers       int64 `json:"total_users"`
	TotalProducts    int64 `json:"total_products"`
	TotalSubscribers int64 `json:"total_subscribers"`
}

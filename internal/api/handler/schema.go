package handler

import "time"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

type statusResponse struct {
	Status string `json:"status"`
}

// --- Session ---

// establishSessionRequest is the identity assertion sent after the client
// signed in with the external identity provider. There is no role field: a
// role in the body is ignored.
type establishSessionRequest struct {
	UID   string `json:"uid"   validate:"required"`
	Name  string `json:"name"`
	Email string `json:"email" validate:"omitempty,email"`
	Photo string `json:"photo"`
}

type sessionResponse struct {
	Status string `json:"status"`
	UID    string `json:"uid"`
	Name   string `json:"name,omitempty"`
	Role   string `json:"role"`
	Token  string `json:"token"`
}

// --- Subscriptions ---

type subscribeResponse struct {
	Status       string `json:"status"`
	SubscriberID string `json:"subscriber_id"`
}

// --- Catalog ---

type itemRequest struct {
	Title       string   `json:"title"       validate:"required"`
	Price       float64  `json:"price"       validate:"gte=0"`
	Currency    string   `json:"currency"    validate:"omitempty,max=8"`
	Category    string   `json:"category"`
	Description string   `json:"description" validate:"max=5000"`
	PhotoURLs   []string `json:"photo_urls"  validate:"required,min=1,dive,required"`
	InStock     *bool    `json:"in_stock"`
}

type itemResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Price       float64   `json:"price"`
	Currency    string    `json:"currency"`
	Category    string    `json:"category,omitempty"`
	Description string    `json:"description,omitempty"`
	PhotoURLs   []string  `json:"photo_urls"`
	InStock     bool      `json:"in_stock"`
	Author      author    `json:"author"`
	CreatedAt   time.Time `json:"created_at"`
	Links       itemLinks `json:"_links"`
}

type author struct {
	UID   string `json:"uid"`
	Name  string `json:"name,omitempty"`
	Photo string `json:"photo,omitempty"`
}

type itemLinks struct {
	Self string `json:"self"`
}

type listItemsResponse struct {
	Data  []itemResponse `json:"data"`
	Count int            `json:"count"`
}

type batchPublishResponse struct {
	Count int      `json:"count"`
	IDs   []string `json:"ids"`
}

// --- Profiles and admin ---

type profileResponse struct {
	UID       string    `json:"uid"`
	Name      string    `json:"name"`
	Photo     string    `json:"photo,omitempty"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	LastLogin time.Time `json:"last_login"`
}

// meResponse adds the private fields only the owner sees.
type meResponse struct {
	profileResponse
	Email string `json:"email,omitempty"`
}

type statsResponse struct {
	TotalUsers       int64 `json:"total_users"`
	TotalProducts    int64 `json:"total_products"`
	TotalSubscribers int64 `json:"total_subscribers"`
}

type announcementResponse struct {
	Title  string    `json:"title"`
	Body   string    `json:"body"`
	URL    string    `json:"url"`
	SentAt time.Time `json:"sent_at"`
}

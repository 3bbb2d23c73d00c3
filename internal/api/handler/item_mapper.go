package handler

import (
	"github.com/offranel/storefront/internal/core/domain"
	"github.com/offranel/storefront/internal/core/ports"
)

// --- Request → Service input ---

func toItemInput(req itemRequest) ports.ItemInput {
	inStock := true
	if req.InStock != nil {
		inStock = *req.InStock
	}
	return ports.ItemInput{
		Title:       req.Title,
		Price:       req.Price,
		Currency:    req.Currency,
		Category:    req.Category,
		Description: req.Description,
		PhotoURLs:   req.PhotoURLs,
		InStock:     inStock,
	}
}

// --- Service result → HTTP response ---

func toItemResponse(it *domain.Item) itemResponse {
	photos := it.PhotoURLs
	if photos == nil {
		photos = []string{}
	}
	return itemResponse{
		ID:          it.ID,
		Title:       it.Title,
		Price:       it.Price,
		Currency:    it.Currency,
		Category:    it.Category,
		Description: it.Description,
		PhotoURLs:   photos,
		InStock:     it.InStock,
		Author: author{
			UID:   it.AuthorUID,
			Name:  it.AuthorName,
			Photo: it.AuthorPhoto,
		},
		CreatedAt: it.CreatedAt.UTC(),
		Links:     itemLinks{Self: "/catalog/items/" + it.ID},
	}
}

func toListResponse(items []*domain.Item) listItemsResponse {
	data := make([]itemResponse, len(items))
	for i, it := range items {
		data[i] = toItemResponse(it)
	}
	return listItemsResponse{Data: data, Count: len(data)}
}

func toProfileResponse(u *domain.User) profileResponse {
	role := u.Role
	if role == "" {
		role = domain.RoleUser
	}
	return profileResponse{
		UID:       u.UID,
		Name:      u.Name,
		Photo:     u.Photo,
		Role:      role,
		CreatedAt: u.CreatedAt.UTC(),
		LastLogin: u.LastLogin.UTC(),
	}
}

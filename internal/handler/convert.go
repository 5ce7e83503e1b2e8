package handler

import (
	"github.com/raditya/storefront-api/internal/dto"
	"github.com/raditya/storefront-api/internal/model"
)

func productResponse(p *model.ProductWithCategory) dto.ProductResponse {
	resp := dto.ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Slug:        p.Slug,
		Description: p.Description,
		ImageURL:    p.ImageURL,
		Price:       p.Price,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if p.Category != nil {
		resp.Category = &dto.CategoryResponse{
			ID:        p.Category.ID,
			Name:      p.Category.Name,
			Slug:      p.Category.Slug,
			CreatedAt: p.Category.CreatedAt,
			UpdatedAt: p.Category.UpdatedAt,
		}
	}
	return resp
}

func cartLineResponse(line *model.CartLineWithProduct) dto.CartLineResponse {
	return dto.CartLineResponse{
		ID:        line.ID,
		ProductID: line.ProductID,
		Quantity:  line.Quantity,
		Product:   productResponse(&line.Product),
		CreatedAt: line.CreatedAt,
		UpdatedAt: line.UpdatedAt,
	}
}

func cartLineResponses(lines []model.CartLineWithProduct) []dto.CartLineResponse {
	items := make([]dto.CartLineResponse, 0, len(lines))
	for i := range lines {
		items = append(items, cartLineResponse(&lines[i]))
	}
	return items
}

func orderResponse(o *model.Order) dto.OrderResponse {
	details := make([]dto.OrderDetailResponse, 0, len(o.Details))
	for _, d := range o.Details {
		details = append(details, dto.OrderDetailResponse{
			ID:        d.ID,
			ProductID: d.ProductID,
			Quantity:  d.Quantity,
			Price:     d.Price,
		})
	}
	return dto.OrderResponse{
		ID:                o.ID,
		UserID:            o.UserID,
		ShippingAddressID: o.ShippingAddressID,
		TotalPrice:        o.TotalPrice,
		PaymentProof:      o.PaymentProof,
		Status:            o.Status,
		Details:           details,
		CreatedAt:         o.CreatedAt,
		UpdatedAt:         o.UpdatedAt,
	}
}

func orderDetailLineResponses(details []model.OrderDetail) []dto.OrderDetailLineResponse {
	items := make([]dto.OrderDetailLineResponse, 0, len(details))
	for _, d := range details {
		items = append(items, dto.OrderDetailLineResponse{
			ID:        d.ID,
			OrderID:   d.OrderID,
			ProductID: d.ProductID,
			Quantity:  d.Quantity,
			Price:     d.Price,
			CreatedAt: d.CreatedAt,
		})
	}
	return items
}

func orderResponses(orders []model.Order) []dto.OrderResponse {
	items := make([]dto.OrderResponse, 0, len(orders))
	for i := range orders {
		items = append(items, orderResponse(&orders[i]))
	}
	return items
}

func addressResponse(a *model.UserAddress) dto.AddressResponse {
	return dto.AddressResponse{
		ID:            a.ID,
		UserID:        a.UserID,
		Label:         a.Label,
		RecipientName: a.RecipientName,
		Phone:         a.Phone,
		AddressLine1:  a.AddressLine1,
		AddressLine2:  a.AddressLine2,
		City:          a.City,
		State:         a.State,
		PostalCode:    a.PostalCode,
		Country:       a.Country,
		IsDefault:     a.IsDefault,
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
}

func addressResponses(addresses []model.UserAddress) []dto.AddressResponse {
	items := make([]dto.AddressResponse, 0, len(addresses))
	for i := range addresses {
		items = append(items, addressResponse(&addresses[i]))
	}
	return items
}

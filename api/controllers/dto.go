package controllers

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fenstra/offers-backend/pkg/db/models"
	"github.com/fenstra/offers-backend/pkg/types"
)

// UserDTO is the public shape of an account. The password hash never
// leaves the service layer.
type UserDTO struct {
	ID          uuid.UUID  `json:"id"`
	Email       string     `json:"email"`
	FullName    string     `json:"full_name"`
	Role        string     `json:"role"`
	IsActive    bool       `json:"is_active"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

func toUserDTO(user *models.User) UserDTO {
	return UserDTO{
		ID:          user.ID,
		Email:       user.Email,
		FullName:    user.FullName,
		Role:        user.Role.String(),
		IsActive:    user.IsActive,
		LastLoginAt: user.LastLoginAt,
		CreatedAt:   user.CreatedAt,
	}
}

func toUserDTOs(users []models.User) []UserDTO {
	out := make([]UserDTO, 0, len(users))
	for i := range users {
		out = append(out, toUserDTO(&users[i]))
	}
	return out
}

// OfferItemDTO mirrors a stored offer line.
type OfferItemDTO struct {
	Position     int             `json:"position"`
	TypeID       string          `json:"type_id"`
	WidthMm      int             `json:"width_mm"`
	HeightMm     int             `json:"height_mm"`
	Selections   types.StringMap `json:"selections"`
	UnitNetPrice decimal.Decimal `json:"unit_net_price"`
	Quantity     *int            `json:"quantity,omitempty"`
}

// OfferDTO is the public shape of a persisted offer.
type OfferDTO struct {
	ID           uuid.UUID       `json:"id"`
	Number       string          `json:"number"`
	OfferDate    time.Time       `json:"offer_date"`
	CustomerName string          `json:"customer_name"`
	Notes        string          `json:"notes,omitempty"`
	NetTotal     decimal.Decimal `json:"net_total"`
	VATTotal     decimal.Decimal `json:"vat_total"`
	GrossTotal   decimal.Decimal `json:"gross_total"`
	Items        []OfferItemDTO  `json:"items,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

func toOfferDTO(offer *models.Offer) OfferDTO {
	dto := OfferDTO{
		ID:           offer.ID,
		Number:       offer.Number,
		OfferDate:    offer.OfferDate,
		CustomerName: offer.CustomerName,
		NetTotal:     offer.NetTotal,
		VATTotal:     offer.VATTotal,
		GrossTotal:   offer.GrossTotal,
		CreatedAt:    offer.CreatedAt,
		UpdatedAt:    offer.UpdatedAt,
	}
	if offer.Notes != nil {
		dto.Notes = *offer.Notes
	}
	for _, item := range offer.Items {
		dto.Items = append(dto.Items, OfferItemDTO{
			Position:     item.Position,
			TypeID:       item.TypeID,
			WidthMm:      item.WidthMm,
			HeightMm:     item.HeightMm,
			Selections:   item.Selections,
			UnitNetPrice: item.UnitNetPrice,
			Quantity:     item.Quantity,
		})
	}
	return dto
}

func toOfferDTOs(offers []models.Offer) []OfferDTO {
	out := make([]OfferDTO, 0, len(offers))
	for i := range offers {
		out = append(out, toOfferDTO(&offers[i]))
	}
	return out
}

// InvoiceItemDTO mirrors a stored invoice line.
type InvoiceItemDTO struct {
	TypeID      string          `json:"type_id"`
	WidthMm     int             `json:"width_mm"`
	HeightMm    int             `json:"height_mm"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	OptionNames types.StringMap `json:"option_names"`
	NetAmount   decimal.Decimal `json:"net_amount"`
	GrossAmount decimal.Decimal `json:"gross_amount"`
}

// InvoiceDTO is the public shape of an issued invoice.
type InvoiceDTO struct {
	ID            uuid.UUID        `json:"id"`
	OfferID       uuid.UUID        `json:"offer_id"`
	Number        string           `json:"number"`
	IssueDate     time.Time        `json:"issue_date"`
	DueDate       time.Time        `json:"due_date"`
	PaymentMethod string           `json:"payment_method"`
	ClientInfo    types.StringMap  `json:"client_info"`
	Notes         string           `json:"notes,omitempty"`
	Currency      string           `json:"currency"`
	NetTotal      decimal.Decimal  `json:"net_total"`
	VATAmount     decimal.Decimal  `json:"vat_amount"`
	GrossTotal    decimal.Decimal  `json:"gross_total"`
	Items         []InvoiceItemDTO `json:"items,omitempty"`
}

func toInvoiceDTO(invoice *models.Invoice) InvoiceDTO {
	dto := InvoiceDTO{
		ID:            invoice.ID,
		OfferID:       invoice.OfferID,
		Number:        invoice.Number,
		IssueDate:     invoice.IssueDate,
		DueDate:       invoice.DueDate,
		PaymentMethod: invoice.PaymentMethod,
		ClientInfo:    invoice.ClientInfo,
		Currency:      invoice.Currency,
		NetTotal:      invoice.NetTotal,
		VATAmount:     invoice.VATAmount,
		GrossTotal:    invoice.GrossTotal,
	}
	if invoice.Notes != nil {
		dto.Notes = *invoice.Notes
	}
	for _, item := range invoice.Items {
		dto.Items = append(dto.Items, InvoiceItemDTO{
			TypeID:      item.TypeID,
			WidthMm:     item.WidthMm,
			HeightMm:    item.HeightMm,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			OptionNames: item.OptionNames,
			NetAmount:   item.NetAmount,
			GrossAmount: item.GrossAmount,
		})
	}
	return dto
}

func toInvoiceDTOs(invoices []models.Invoice) []InvoiceDTO {
	out := make([]InvoiceDTO, 0, len(invoices))
	for i := range invoices {
		out = append(out, toInvoiceDTO(&invoices[i]))
	}
	return out
}

// Package requests holds the JSON payloads accepted by the email endpoints.
package requests

import (
	"github.com/happydeel/mailroom/pkg/validator"
)

// MaxTrackingNumberLen bounds the tracking number field.
const MaxTrackingNumberLen = 22

// Validation messages shared by the forms.
const (
	MsgInvalidAmount   = "Invalid refund amount"
	MsgTrackingTooLong = "Tracking number must be 22 characters or less"
)

// ShippingRequest is the payload of the shipping notice endpoints.
type ShippingRequest struct {
	CustomerEmail   string `json:"customerEmail"`
	CustomerAddress string `json:"customerAddress"`
	ProductName     string `json:"productName"`
	TrackingNumber  string `json:"trackingNumber"`
}

// Validate checks required fields, the email shape and the tracking number
// length. Values are never modified.
func (r ShippingRequest) Validate() error {
	return validator.Apply(
		validator.Required("customerEmail", r.CustomerEmail),
		validator.Required("customerAddress", r.CustomerAddress),
		validator.Required("productName", r.ProductName),
		validator.Required("trackingNumber", r.TrackingNumber),
		validator.Email("customerEmail", r.CustomerEmail),
		validator.MaxLen("trackingNumber", r.TrackingNumber, MaxTrackingNumberLen, MsgTrackingTooLong),
	)
}

// ConfirmationRequest is the payload of the order confirmation endpoints.
type ConfirmationRequest struct {
	CustomerEmail   string `json:"customerEmail"`
	CustomerAddress string `json:"customerAddress"`
	ProductName     string `json:"productName"`
}

func (r ConfirmationRequest) Validate() error {
	return validator.Apply(
		validator.Required("customerEmail", r.CustomerEmail),
		validator.Required("customerAddress", r.CustomerAddress),
		validator.Required("productName", r.ProductName),
		validator.Email("customerEmail", r.CustomerEmail),
	)
}

// RefundRequest is the payload of the refund endpoints.
type RefundRequest struct {
	CustomerEmail string `json:"customerEmail"`
	CustomerName  string `json:"customerName"`
	ProductName   string `json:"productName"`
	RefundAmount  Amount `json:"refundAmount"`
}

func (r RefundRequest) Validate() error {
	return validator.Apply(
		validator.Required("customerEmail", r.CustomerEmail),
		validator.Required("customerName", r.CustomerName),
		validator.Required("productName", r.ProductName),
		validator.Required("refundAmount", string(r.RefundAmount)),
		validator.Email("customerEmail", r.CustomerEmail),
		validator.PositiveDecimal("refundAmount", string(r.RefundAmount), MsgInvalidAmount),
	)
}

package emails

import "github.com/happydeel/mailroom/requests"

// Samples is the built-in preview data, one request per kind.
type Samples struct {
	Shipping     requests.ShippingRequest     `json:"shipping"`
	Confirmation requests.ConfirmationRequest `json:"confirmation"`
	Refund       requests.RefundRequest       `json:"refund"`
}

// SampleData returns the fixtures offered by the preview tab.
func SampleData() Samples {
	return Samples{
		Shipping: requests.ShippingRequest{
			CustomerEmail:   "john.doe@example.com",
			CustomerAddress: "123 Main Street\nAnytown, ST 12345\nUnited States",
			ProductName:     "Premium Wireless Headphones",
			TrackingNumber:  "HD123456789US",
		},
		Confirmation: requests.ConfirmationRequest{
			CustomerEmail:   "jane.smith@example.com",
			CustomerAddress: "456 Oak Avenue\nSpringfield, IL 62701\nUnited States",
			ProductName:     "Smart Fitness Watch",
		},
		Refund: requests.RefundRequest{
			CustomerEmail: "customer@example.com",
			CustomerName:  "John Smith",
			ProductName:   "Canon PowerShot G7X Mark II",
			RefundAmount:  "299.99",
		},
	}
}

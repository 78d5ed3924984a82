// Package emails defines the three transactional messages the console sends
// and composes them from embedded templates.
package emails

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"net/url"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/happydeel/mailroom/pkg/mailer"
	"github.com/happydeel/mailroom/requests"
)

//go:embed templates
var templatesFS embed.FS

// ErrNoFromAddress is returned by NewComposer without a sender address.
var ErrNoFromAddress = errors.New("emails: from address is required")

// Kind identifies a transactional message.
type Kind string

const (
	KindShipping     Kind = "shipping"
	KindConfirmation Kind = "order_confirmation"
	KindRefund       Kind = "refund"
)

// FedExTrackingURL is the tracking page prefix; the number is appended
// query-escaped.
const FedExTrackingURL = "https://www.fedex.com/fedextrack/?trknbr="

// Config holds sender identities and store details, parsed from EMAIL_*
// variables.
type Config struct {
	FromAddress      string `env:"FROM_ADDRESS" envDefault:"orders@happydeel.com"`
	ReplyTo          string `env:"REPLY_TO"`
	StoreName        string `env:"STORE_NAME" envDefault:"Happydeel"`
	StoreTagline     string `env:"STORE_TAGLINE" envDefault:"The smart way to buy premium tech, cameras, and bikes for less."`
	RefundSenderName string `env:"REFUND_SENDER_NAME" envDefault:"Customer Service"`
	SupportEmail     string `env:"SUPPORT_EMAIL" envDefault:"support@happydeel.com"`
	SupportPhone     string `env:"SUPPORT_PHONE" envDefault:"+17176484487"`
}

// Store carries the store details every template can use.
type Store struct {
	Name         string
	Tagline      string
	SupportEmail string
	SupportPhone string
}

// ShippingData is the template data of the shipping notice.
type ShippingData struct {
	Store           Store
	CustomerEmail   string
	CustomerAddress string
	ProductName     string
	TrackingNumber  string
	TrackingURL     string
}

// ConfirmationData is the template data of the order confirmation.
type ConfirmationData struct {
	Store           Store
	CustomerEmail   string
	CustomerAddress string
	ProductName     string
}

// RefundData is the template data of the refund confirmation.
type RefundData struct {
	Store         Store
	CustomerEmail string
	CustomerName  string
	ProductName   string
	RefundAmount  string // Formatted, e.g. "$1,299.99"
}

// Message is a composed email plus the values it was built from, as
// shown in previews.
type Message struct {
	Email  *mailer.Email
	Fields map[string]string
	Kind   Kind
}

// Composer renders the transactional messages and hands them to a Sender.
type Composer struct {
	mailer *mailer.Mailer
	cfg    Config
}

// NewComposer creates a Composer over the embedded templates. sender may
// be nil when only previews are needed.
func NewComposer(cfg Config, sender mailer.Sender) (*Composer, error) {
	if cfg.FromAddress == "" {
		return nil, ErrNoFromAddress
	}
	sub, err := fs.Sub(templatesFS, "templates")
	if err != nil {
		return nil, err
	}

	m := mailer.New(sender, mailer.NewRenderer(sub), mailer.Config{
		DefaultLayout:   "base.html",
		FallbackSubject: cfg.StoreName,
		DefaultFrom:     mailer.Address(cfg.StoreName, cfg.FromAddress),
		ReplyTo:         cfg.ReplyTo,
	})
	return &Composer{mailer: m, cfg: cfg}, nil
}

func (c *Composer) store() Store {
	return Store{
		Name:         c.cfg.StoreName,
		Tagline:      c.cfg.StoreTagline,
		SupportEmail: c.cfg.SupportEmail,
		SupportPhone: c.cfg.SupportPhone,
	}
}

// Shipping composes the shipping notice.
func (c *Composer) Shipping(req requests.ShippingRequest) (*Message, error) {
	data := ShippingData{
		Store:           c.store(),
		CustomerEmail:   req.CustomerEmail,
		CustomerAddress: req.CustomerAddress,
		ProductName:     req.ProductName,
		TrackingNumber:  req.TrackingNumber,
		TrackingURL:     TrackingURL(req.TrackingNumber),
	}
	return c.compose(KindShipping, "shipping.md", req.CustomerEmail, "", data, map[string]string{
		"customerEmail":   data.CustomerEmail,
		"customerAddress": data.CustomerAddress,
		"productName":     data.ProductName,
		"trackingNumber":  data.TrackingNumber,
		"trackingUrl":     data.TrackingURL,
	})
}

// Confirmation composes the order confirmation.
func (c *Composer) Confirmation(req requests.ConfirmationRequest) (*Message, error) {
	data := ConfirmationData{
		Store:           c.store(),
		CustomerEmail:   req.CustomerEmail,
		CustomerAddress: req.CustomerAddress,
		ProductName:     req.ProductName,
	}
	return c.compose(KindConfirmation, "order_confirmation.md", req.CustomerEmail, "", data, map[string]string{
		"customerEmail":   data.CustomerEmail,
		"customerAddress": data.CustomerAddress,
		"productName":     data.ProductName,
	})
}

// Refund composes the refund confirmation. The amount must already be
// validated.
func (c *Composer) Refund(req requests.RefundRequest) (*Message, error) {
	amount, ok := req.RefundAmount.Value()
	if !ok {
		return nil, fmt.Errorf("emails: invalid refund amount %q", req.RefundAmount)
	}
	data := RefundData{
		Store:         c.store(),
		CustomerEmail: req.CustomerEmail,
		CustomerName:  req.CustomerName,
		ProductName:   req.ProductName,
		RefundAmount:  FormatAmount(amount),
	}
	from := mailer.Address(c.cfg.RefundSenderName, c.cfg.FromAddress)
	return c.compose(KindRefund, "refund.md", req.CustomerEmail, from, data, map[string]string{
		"customerEmail": data.CustomerEmail,
		"customerName":  data.CustomerName,
		"productName":   data.ProductName,
		"refundAmount":  data.RefundAmount,
	})
}

func (c *Composer) compose(kind Kind, template, to, from string, data any, fields map[string]string) (*Message, error) {
	email, err := c.mailer.Compose(mailer.Params{
		To:       to,
		From:     from,
		Template: template,
		Data:     data,
		Tag:      string(kind),
	})
	if err != nil {
		return nil, err
	}
	email.Headers = map[string]string{"X-Mailroom-Kind": string(kind)}
	return &Message{Kind: kind, Email: email, Fields: fields}, nil
}

// Send delivers a composed message and returns the provider's message ID.
func (c *Composer) Send(ctx context.Context, msg *Message) (string, error) {
	return c.mailer.SendRaw(ctx, msg.Email)
}

// TrackingURL returns the FedEx tracking page for a tracking number.
func TrackingURL(trackingNumber string) string {
	return FedExTrackingURL + url.QueryEscape(trackingNumber)
}

// FormatAmount renders a dollar amount with two decimals and thousands
// grouping, e.g. 1299.9 becomes "$1,299.90".
func FormatAmount(v float64) string {
	return message.NewPrinter(language.AmericanEnglish).Sprintf("$%.2f", v)
}

package handlers

import (
	"net/http"
	"time"

	"github.com/happydeel/mailroom/emails"
	"github.com/happydeel/mailroom/internal"
	"github.com/happydeel/mailroom/middlewares"
	"github.com/happydeel/mailroom/pkg/logger"
	"github.com/happydeel/mailroom/pkg/mailer"
	"github.com/happydeel/mailroom/pkg/validator"
	"github.com/happydeel/mailroom/requests"
)

// Response texts of the email endpoints.
const (
	MsgInvalidBody    = "Invalid request body"
	MsgRenderFailed   = "Failed to render email"
	MsgPreviewFailed  = "Failed to generate email preview"
	MsgShippingSent   = "Shipping confirmation email sent successfully!"
	MsgOrderSent      = "Order confirmation email sent successfully!"
	MsgRefundSent     = "Refund confirmation email sent successfully"
	MsgSendAuth       = "Email authentication failed. Please check the mail provider credentials."
	MsgSendConnection = "Failed to connect to the mail server. Please check your internet connection."
	MsgSendOther      = "Failed to send email. Please try again later."
)

// DefaultSendTimeout bounds a single send or preview request.
const DefaultSendTimeout = 45 * time.Second

// EmailHandler serves the send and preview endpoints of the three kinds.
// Preview and send compose through the same Composer, so a preview shows
// exactly what would be sent.
type EmailHandler struct {
	composer *emails.Composer
	now      func() time.Time
	timeout  time.Duration
}

// EmailOption configures an EmailHandler.
type EmailOption func(*EmailHandler)

// WithSendTimeout overrides DefaultSendTimeout.
func WithSendTimeout(d time.Duration) EmailOption {
	return func(h *EmailHandler) {
		if d > 0 {
			h.timeout = d
		}
	}
}

// WithClock replaces time.Now for response timestamps.
func WithClock(now func() time.Time) EmailOption {
	return func(h *EmailHandler) {
		if now != nil {
			h.now = now
		}
	}
}

// NewEmailHandler creates the handler. The composer must have a sender.
func NewEmailHandler(composer *emails.Composer, opts ...EmailOption) *EmailHandler {
	h := &EmailHandler{
		composer: composer,
		now:      time.Now,
		timeout:  DefaultSendTimeout,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Routes implements internal.Handler.
func (h *EmailHandler) Routes(r internal.Router) {
	r.Group(func(r internal.Router) {
		r.Use(middlewares.RequireSession(), middlewares.Timeout(h.timeout))

		r.POST("/api/send-shipping-email", h.sendShipping)
		r.POST("/api/send-order-confirmation", h.sendConfirmation)
		r.POST("/api/send-refund-email", h.sendRefund)

		r.POST("/api/preview-shipping-email", h.previewShipping)
		r.POST("/api/preview-order-confirmation", h.previewConfirmation)
		r.POST("/api/preview-refund-email", h.previewRefund)

		r.GET("/api/preview-samples", h.samples)
	})
}

type sendResponse struct {
	Message   string `json:"message"`
	MessageID string `json:"messageId"`
	Success   bool   `json:"success"`
}

type refundData struct {
	CustomerEmail string `json:"customerEmail"`
	ProductName   string `json:"productName"`
	RefundAmount  string `json:"refundAmount"`
	MessageID     string `json:"messageId"`
	Timestamp     string `json:"timestamp"`
}

type refundResponse struct {
	Message string     `json:"message"`
	Data    refundData `json:"data"`
	Success bool       `json:"success"`
}

type previewResponse struct {
	PreviewData map[string]string `json:"previewData"`
	Subject     string            `json:"subject"`
	HTMLContent string            `json:"htmlContent"`
	TextContent string            `json:"textContent"`
	Success     bool              `json:"success"`
}

func (h *EmailHandler) sendShipping(c internal.Context) error {
	req, err := bind[requests.ShippingRequest](c)
	if err != nil {
		return err
	}
	msg, err := h.composer.Shipping(req)
	if err != nil {
		return internal.ErrInternal(MsgRenderFailed, internal.WithError(err))
	}
	id, err := h.dispatch(c, msg)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sendResponse{Success: true, Message: MsgShippingSent, MessageID: id})
}

func (h *EmailHandler) sendConfirmation(c internal.Context) error {
	req, err := bind[requests.ConfirmationRequest](c)
	if err != nil {
		return err
	}
	msg, err := h.composer.Confirmation(req)
	if err != nil {
		return internal.ErrInternal(MsgRenderFailed, internal.WithError(err))
	}
	id, err := h.dispatch(c, msg)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sendResponse{Success: true, Message: MsgOrderSent, MessageID: id})
}

func (h *EmailHandler) sendRefund(c internal.Context) error {
	req, err := bind[requests.RefundRequest](c)
	if err != nil {
		return err
	}
	msg, err := h.composer.Refund(req)
	if err != nil {
		return internal.ErrInternal(MsgRenderFailed, internal.WithError(err))
	}
	id, err := h.dispatch(c, msg)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, refundResponse{
		Success: true,
		Message: MsgRefundSent,
		Data: refundData{
			CustomerEmail: req.CustomerEmail,
			ProductName:   req.ProductName,
			RefundAmount:  msg.Fields["refundAmount"],
			MessageID:     id,
			Timestamp:     h.now().UTC().Format(time.RFC3339),
		},
	})
}

func (h *EmailHandler) previewShipping(c internal.Context) error {
	req, err := bind[requests.ShippingRequest](c)
	if err != nil {
		return err
	}
	return preview(c, func() (*emails.Message, error) { return h.composer.Shipping(req) })
}

func (h *EmailHandler) previewConfirmation(c internal.Context) error {
	req, err := bind[requests.ConfirmationRequest](c)
	if err != nil {
		return err
	}
	return preview(c, func() (*emails.Message, error) { return h.composer.Confirmation(req) })
}

func (h *EmailHandler) previewRefund(c internal.Context) error {
	req, err := bind[requests.RefundRequest](c)
	if err != nil {
		return err
	}
	return preview(c, func() (*emails.Message, error) { return h.composer.Refund(req) })
}

func (h *EmailHandler) samples(c internal.Context) error {
	return c.JSON(http.StatusOK, emails.SampleData())
}

// dispatch sends msg and maps a failure to its category message.
func (h *EmailHandler) dispatch(c internal.Context, msg *emails.Message) (string, error) {
	to := logger.RedactEmail(msg.Email.To[0])

	id, err := h.composer.Send(c, msg)
	if err != nil {
		cat := mailer.Categorize(err)
		c.LogError("email send failed",
			"kind", string(msg.Kind),
			"to", to,
			"category", string(cat),
			"error", err,
		)
		return "", internal.ErrInternal(categoryMessage(cat),
			internal.WithDetail(err.Error()),
			internal.WithErrorCode("send_"+string(cat)),
			internal.WithError(err),
		)
	}

	c.LogInfo("email sent", "kind", string(msg.Kind), "to", to, "message_id", id)
	return id, nil
}

func categoryMessage(cat mailer.Category) string {
	switch cat {
	case mailer.CategoryAuth:
		return MsgSendAuth
	case mailer.CategoryConnection:
		return MsgSendConnection
	default:
		return MsgSendOther
	}
}

func preview(c internal.Context, compose func() (*emails.Message, error)) error {
	msg, err := compose()
	if err != nil {
		return internal.ErrInternal(MsgPreviewFailed, internal.WithError(err))
	}
	return c.JSON(http.StatusOK, previewResponse{
		Success:     true,
		Subject:     msg.Email.Subject,
		HTMLContent: msg.Email.HTML,
		TextContent: msg.Email.Text,
		PreviewData: msg.Fields,
	})
}

// validatable is implemented by the request payloads.
type validatable interface {
	Validate() error
}

// bind decodes and validates a payload. Validation failures report the
// first message as the error and every field in Fields.
func bind[T validatable](c internal.Context) (T, error) {
	var req T
	if err := c.BindJSON(&req); err != nil {
		return req, internal.ErrBadRequest(MsgInvalidBody, internal.WithError(err))
	}

	if err := req.Validate(); err != nil {
		verrs := validator.Extract(err)
		first, ok := verrs.First()
		if !ok {
			return req, internal.ErrBadRequest(MsgInvalidBody, internal.WithError(err))
		}
		return req, internal.ErrBadRequest(first.Message,
			internal.WithFields(verrs.Map()),
			internal.WithErrorCode("validation_failed"),
			internal.WithError(err),
		)
	}
	return req, nil
}

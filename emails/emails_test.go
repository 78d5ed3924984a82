package emails_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/happydeel/mailroom/emails"
	"github.com/happydeel/mailroom/pkg/mailer"
)

func testConfig() emails.Config {
	return emails.Config{
		FromAddress:      "orders@happydeel.com",
		StoreName:        "Happydeel",
		StoreTagline:     "Buy smart.",
		RefundSenderName: "Customer Service",
		SupportEmail:     "support@happydeel.com",
		SupportPhone:     "+17176484487",
	}
}

func newComposer(t *testing.T, sender mailer.Sender) *emails.Composer {
	t.Helper()
	c, err := emails.NewComposer(testConfig(), sender)
	require.NoError(t, err)
	return c
}

func TestNewComposerRequiresFrom(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.FromAddress = ""
	_, err := emails.NewComposer(cfg, nil)
	assert.ErrorIs(t, err, emails.ErrNoFromAddress)
}

func TestShipping(t *testing.T) {
	t.Parallel()

	msg, err := newComposer(t, nil).Shipping(emails.SampleData().Shipping)
	require.NoError(t, err)

	e := msg.Email
	assert.Equal(t, emails.KindShipping, msg.Kind)
	assert.Equal(t, []string{"john.doe@example.com"}, e.To)
	assert.Equal(t, `"Happydeel" <orders@happydeel.com>`, e.From)
	assert.Equal(t, "Your Order Has Shipped! 📦 - Premium Wireless Headphones", e.Subject)
	assert.Equal(t, "shipping", e.Tag)

	const url = "https://www.fedex.com/fedextrack/?trknbr=HD123456789US"
	assert.Contains(t, e.HTML, "HD123456789US")
	assert.Contains(t, e.HTML, `href="`+url+`"`)
	assert.Contains(t, e.HTML, "In Transit (3-7 Business Days)")
	assert.Contains(t, e.HTML, "This email was sent to john.doe@example.com")
	assert.Contains(t, e.Text, "Track Your Package: "+url)
	assert.Contains(t, e.Text, "123 Main Street\nAnytown, ST 12345\nUnited States")

	assert.Equal(t, url, msg.Fields["trackingUrl"])
	assert.Equal(t, "HD123456789US", msg.Fields["trackingNumber"])
}

func TestConfirmation(t *testing.T) {
	t.Parallel()

	msg, err := newComposer(t, nil).Confirmation(emails.SampleData().Confirmation)
	require.NoError(t, err)

	e := msg.Email
	assert.Equal(t, "Order Confirmation - Smart Fitness Watch 🎉", e.Subject)
	assert.Equal(t, `"Happydeel" <orders@happydeel.com>`, e.From)
	assert.Contains(t, e.HTML, "<strong>Smart Fitness Watch</strong>")
	assert.Contains(t, e.HTML, "support@happydeel.com")
	assert.Contains(t, e.HTML, "+17176484487")
	assert.Contains(t, e.Text, "WHAT HAPPENS NEXT?")
	assert.Contains(t, e.Text, "Shipping to: 456 Oak Avenue")
}

func TestRefund(t *testing.T) {
	t.Parallel()

	req := emails.SampleData().Refund
	req.RefundAmount = "1299.9"

	msg, err := newComposer(t, nil).Refund(req)
	require.NoError(t, err)

	e := msg.Email
	assert.Equal(t, "Your Refund Has Been Processed", e.Subject)
	assert.Equal(t, `"Customer Service" <orders@happydeel.com>`, e.From)
	assert.Contains(t, e.HTML, "Dear John Smith,")
	assert.Contains(t, e.HTML, "$1,299.90")
	assert.Contains(t, e.Text, "Full Refund Amount: $1,299.90")
	assert.Equal(t, "$1,299.90", msg.Fields["refundAmount"])
}

func TestRefundRejectsInvalidAmount(t *testing.T) {
	t.Parallel()

	req := emails.SampleData().Refund
	req.RefundAmount = "abc"
	_, err := newComposer(t, nil).Refund(req)
	assert.Error(t, err)
}

func TestUserInputIsEscaped(t *testing.T) {
	t.Parallel()

	req := emails.SampleData().Shipping
	req.ProductName = `<script>alert("x")</script> **Bold** & Co`

	msg, err := newComposer(t, nil).Shipping(req)
	require.NoError(t, err)

	assert.NotContains(t, msg.Email.HTML, "<script>")
	assert.Contains(t, msg.Email.HTML, "&lt;script&gt;")
	assert.NotContains(t, msg.Email.HTML, "<strong>Bold</strong>")
	assert.Contains(t, msg.Email.HTML, "**Bold** &amp; Co")
	assert.Contains(t, msg.Email.Text, req.ProductName, "text part carries the value verbatim")
}

func TestComposeIsDeterministic(t *testing.T) {
	t.Parallel()

	c := newComposer(t, nil)
	req := emails.SampleData().Shipping

	first, err := c.Shipping(req)
	require.NoError(t, err)
	second, err := c.Shipping(req)
	require.NoError(t, err)
	assert.Equal(t, first.Email, second.Email)
}

func TestSend(t *testing.T) {
	t.Parallel()

	var sent []*mailer.Email
	n := 0
	c := newComposer(t, mailer.SenderFunc(func(_ context.Context, e *mailer.Email) (string, error) {
		sent = append(sent, e)
		n++
		return strings.Repeat("x", n), nil
	}))

	msg, err := c.Confirmation(emails.SampleData().Confirmation)
	require.NoError(t, err)

	id1, err := c.Send(context.Background(), msg)
	require.NoError(t, err)
	id2, err := c.Send(context.Background(), msg)
	require.NoError(t, err)

	assert.NotEqual(t, id1, id2)
	require.Len(t, sent, 2)
	assert.Equal(t, msg.Email.HTML, sent[0].HTML)
}

func TestTrackingURL(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "https://www.fedex.com/fedextrack/?trknbr=HD123456789US", emails.TrackingURL("HD123456789US"))
	assert.Equal(t, "https://www.fedex.com/fedextrack/?trknbr=A%26B+C%29", emails.TrackingURL("A&B C)"))
}

func TestFormatAmount(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "$299.99", emails.FormatAmount(299.99))
	assert.Equal(t, "$1,299.99", emails.FormatAmount(1299.99))
	assert.Equal(t, "$0.50", emails.FormatAmount(0.5))
}

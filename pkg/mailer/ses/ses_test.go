package ses

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/happydeel/mailroom/pkg/mailer"
)

type mockAPI struct {
	mock.Mock
}

func (m *mockAPI) SendEmail(ctx context.Context, in *sesv2.SendEmailInput, _ ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*sesv2.SendEmailOutput)
	return out, args.Error(1)
}

type mockAPIError struct {
	code string
}

func (e *mockAPIError) ErrorCode() string             { return e.code }
func (e *mockAPIError) ErrorMessage() string          { return "message" }
func (e *mockAPIError) ErrorFault() smithy.ErrorFault { return smithy.FaultClient }
func (e *mockAPIError) Error() string                 { return fmt.Sprintf("%s: message", e.code) }

func testEmail() *mailer.Email {
	return &mailer.Email{
		From:    "shipping@happydeel.com",
		To:      []string{"john.doe@example.com"},
		ReplyTo: "support@happydeel.com",
		Subject: "Your Order Has Shipped!",
		HTML:    "<p>x</p>",
		Text:    "x",
		Tag:     "shipping",
	}
}

func TestSend(t *testing.T) {
	t.Parallel()

	client := &mockAPI{}
	client.On("SendEmail", mock.Anything, mock.MatchedBy(func(in *sesv2.SendEmailInput) bool {
		return aws.ToString(in.FromEmailAddress) == "shipping@happydeel.com" &&
			in.Destination.ToAddresses[0] == "john.doe@example.com" &&
			aws.ToString(in.Content.Simple.Subject.Data) == "Your Order Has Shipped!" &&
			aws.ToString(in.Content.Simple.Body.Html.Data) == "<p>x</p>" &&
			aws.ToString(in.Content.Simple.Body.Text.Data) == "x" &&
			in.ReplyToAddresses[0] == "support@happydeel.com" &&
			aws.ToString(in.ConfigurationSetName) == "transactional"
	})).Return(&sesv2.SendEmailOutput{MessageId: aws.String("0100018c-ses")}, nil)

	s := &Sender{client: client, cfg: Config{ConfigurationSet: "transactional"}}
	id, err := s.Send(context.Background(), testEmail())
	require.NoError(t, err)
	assert.Equal(t, "0100018c-ses", id)
	client.AssertExpectations(t)
}

func TestSendNoText(t *testing.T) {
	t.Parallel()

	e := testEmail()
	e.Text, e.ReplyTo, e.Tag = "", "", ""
	in := (&Sender{}).toInput(e)
	assert.Nil(t, in.Content.Simple.Body.Text)
	assert.Empty(t, in.ReplyToAddresses)
	assert.Empty(t, in.EmailTags)
	assert.Nil(t, in.ConfigurationSetName)
}

func TestSendFailures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want mailer.Category
	}{
		{"bad key", &mockAPIError{code: "InvalidClientTokenId"}, mailer.CategoryAuth},
		{"bad signature", &mockAPIError{code: "SignatureDoesNotMatch"}, mailer.CategoryAuth},
		{"throttled", &mockAPIError{code: "TooManyRequestsException"}, mailer.CategoryConnection},
		{"rejected", &mockAPIError{code: "MessageRejected"}, mailer.CategoryOther},
		{"network", &net.OpError{Op: "dial", Err: errors.New("refused")}, mailer.CategoryConnection},
		{"unknown", errors.New("boom"), mailer.CategoryOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			client := &mockAPI{}
			client.On("SendEmail", mock.Anything, mock.Anything).Return(nil, tt.err)

			_, err := (&Sender{client: client}).Send(context.Background(), testEmail())
			require.Error(t, err)
			assert.Equal(t, tt.want, mailer.Categorize(err))
		})
	}
}

func TestSendEmptyMessageID(t *testing.T) {
	t.Parallel()

	client := &mockAPI{}
	client.On("SendEmail", mock.Anything, mock.Anything).Return(&sesv2.SendEmailOutput{}, nil)

	_, err := (&Sender{client: client}).Send(context.Background(), testEmail())
	assert.Error(t, err)
}

func TestNew(t *testing.T) {
	t.Parallel()

	s, err := New(context.Background(), Config{Region: "us-east-1", AccessKeyID: "AKIA", SecretAccessKey: "secret"})
	require.NoError(t, err)
	assert.NotNil(t, s.client)
}

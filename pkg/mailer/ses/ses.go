// Package ses delivers mail through Amazon SES (API v2).
package ses

import (
	"context"
	"errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
	"github.com/aws/smithy-go"

	"github.com/happydeel/mailroom/pkg/mailer"
)

const provider = "ses"

// ErrInvalidConfig is returned by New when the AWS config cannot be loaded.
var ErrInvalidConfig = errors.New("ses: invalid configuration")

// Config holds SES settings, parsed from SES_* variables. Empty keys fall
// back to the default AWS credential chain.
type Config struct {
	Region           string `env:"REGION" envDefault:"us-east-1"`
	AccessKeyID      string `env:"ACCESS_KEY_ID"`
	SecretAccessKey  string `env:"SECRET_ACCESS_KEY"`
	ConfigurationSet string `env:"CONFIGURATION_SET"`
}

type api interface {
	SendEmail(ctx context.Context, in *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// Sender implements mailer.Sender using SES.
type Sender struct {
	client api
	cfg    Config
}

// New loads the AWS configuration and creates an SES client.
func New(ctx context.Context, cfg Config) (*Sender, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, errors.Join(ErrInvalidConfig, err)
	}
	return &Sender{client: sesv2.NewFromConfig(awsCfg), cfg: cfg}, nil
}

// Send implements mailer.Sender.
func (s *Sender) Send(ctx context.Context, email *mailer.Email) (string, error) {
	if err := email.Validate(); err != nil {
		return "", err
	}

	out, err := s.client.SendEmail(ctx, s.toInput(email))
	if err != nil {
		return "", mailer.NewSendError(provider, categorize(err), err)
	}
	if out.MessageId == nil {
		return "", mailer.NewSendError(provider, mailer.CategoryOther, errors.New("empty message id"))
	}
	return *out.MessageId, nil
}

func (s *Sender) toInput(email *mailer.Email) *sesv2.SendEmailInput {
	utf8 := aws.String("UTF-8")
	in := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(email.From),
		Destination:      &types.Destination{ToAddresses: email.To},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(email.Subject), Charset: utf8},
				Body: &types.Body{
					Html: &types.Content{Data: aws.String(email.HTML), Charset: utf8},
				},
			},
		},
	}
	if email.Text != "" {
		in.Content.Simple.Body.Text = &types.Content{Data: aws.String(email.Text), Charset: utf8}
	}
	if email.ReplyTo != "" {
		in.ReplyToAddresses = []string{email.ReplyTo}
	}
	if email.Tag != "" {
		in.EmailTags = []types.MessageTag{{Name: aws.String("kind"), Value: aws.String(email.Tag)}}
	}
	if s.cfg.ConfigurationSet != "" {
		in.ConfigurationSetName = aws.String(s.cfg.ConfigurationSet)
	}
	return in
}

func categorize(err error) mailer.Category {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "InvalidClientTokenId", "SignatureDoesNotMatch", "UnrecognizedClientException",
			"AccessDeniedException", "ExpiredToken", "MissingAuthenticationToken":
			return mailer.CategoryAuth
		case "ThrottlingException", "TooManyRequestsException":
			return mailer.CategoryConnection
		}
		return mailer.CategoryOther
	}
	return mailer.Categorize(err)
}

package devsender_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/happydeel/mailroom/pkg/mailer"
	"github.com/happydeel/mailroom/pkg/mailer/devsender"
)

func TestSend(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "mail")
	s, err := devsender.New(devsender.Config{Dir: dir})
	require.NoError(t, err)

	email := &mailer.Email{
		From:    "refunds@happydeel.com",
		To:      []string{"customer@example.com"},
		Subject: "Your Refund Has Been Processed",
		HTML:    "<p>refund</p>",
		Text:    "refund",
		Tag:     "refund",
	}

	id, err := s.Send(context.Background(), email)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	html, err := os.ReadFile(filepath.Join(dir, id+".html"))
	require.NoError(t, err)
	assert.Equal(t, "<p>refund</p>", string(html))

	text, err := os.ReadFile(filepath.Join(dir, id+".txt"))
	require.NoError(t, err)
	assert.Equal(t, "refund", string(text))

	raw, err := os.ReadFile(filepath.Join(dir, id+".json"))
	require.NoError(t, err)
	var meta map[string]any
	require.NoError(t, json.Unmarshal(raw, &meta))
	assert.Equal(t, id, meta["id"])
	assert.Equal(t, "Your Refund Has Been Processed", meta["subject"])

	second, err := s.Send(context.Background(), email)
	require.NoError(t, err)
	assert.NotEqual(t, id, second)
}

func TestSendInvalid(t *testing.T) {
	t.Parallel()

	s, err := devsender.New(devsender.Config{Dir: t.TempDir()})
	require.NoError(t, err)

	_, err = s.Send(context.Background(), &mailer.Email{})
	assert.ErrorIs(t, err, mailer.ErrNoRecipient)
}

func TestSendCancelled(t *testing.T) {
	t.Parallel()

	s, err := devsender.New(devsender.Config{Dir: t.TempDir()})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = s.Send(ctx, &mailer.Email{From: "a@x.com", To: []string{"b@y.com"}, Subject: "s", HTML: "h"})
	require.Error(t, err)
	assert.Equal(t, mailer.CategoryConnection, mailer.Categorize(err))
}

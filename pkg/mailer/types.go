package mailer

import "net/mail"

// Address formats a display name and email as an RFC 5322 address.
// Returns just the email when name is empty.
func Address(name, email string) string {
	if name == "" {
		return email
	}
	return (&mail.Address{Name: name, Address: email}).String()
}

// Email is a fully-prepared message ready for a Sender.
type Email struct {
	Headers map[string]string // Custom headers
	Tag     string            // Provider tag or category, when supported
	Subject string
	HTML    string
	Text    string // Plain text alternative
	From    string // RFC 5322 sender address
	ReplyTo string
	To      []string // At least one
}

// Validate checks the fields every provider requires.
func (e *Email) Validate() error {
	switch {
	case e == nil || len(e.To) == 0:
		return ErrNoRecipient
	case e.From == "":
		return ErrNoSender
	case e.Subject == "":
		return ErrNoSubject
	case e.HTML == "":
		return ErrNoContent
	}
	return nil
}

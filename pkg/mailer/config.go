package mailer

// Config holds mailer defaults, parsed from MAILER_* variables.
type Config struct {
	FallbackSubject string `env:"MAILER_FALLBACK_SUBJECT" envDefault:"Notification"`
	DefaultLayout   string `env:"MAILER_DEFAULT_LAYOUT" envDefault:"base.html"`
	DefaultFrom     string `env:"MAILER_FROM"`
	ReplyTo         string `env:"MAILER_REPLY_TO"`
}

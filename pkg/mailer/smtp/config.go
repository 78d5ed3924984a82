package smtp

import (
	"net"
	"strconv"
	"time"
)

// Config holds SMTP settings, parsed from SMTP_* variables.
type Config struct {
	Host            string        `env:"HOST" envDefault:"smtp.gmail.com"`
	Username        string        `env:"USERNAME"`
	Password        string        `env:"PASSWORD"`
	MessageIDDomain string        `env:"MESSAGE_ID_DOMAIN"`
	Port            int           `env:"PORT" envDefault:"587"`
	Connections     int           `env:"POOL_CONNECTIONS" envDefault:"5"`
	MaxMessages     int           `env:"POOL_MAX_MESSAGES" envDefault:"100"`
	Timeout         time.Duration `env:"SEND_TIMEOUT" envDefault:"30s"`
}

// Addr returns host:port.
func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

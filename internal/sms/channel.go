package sms

import (
	"context"
	"net/http"

	"github.com/rs/zerolog"

	"unisms/internal/config"
)

// Channel delivers one text message to one phone number.
type Channel interface {
	Send(ctx context.Context, to string, text string) error
}

// NewChannel returns the Infobip client when an API key is configured and a
// dry-run log channel otherwise.
func NewChannel(cfg config.SMSConfig, log zerolog.Logger) Channel {
	if cfg.APIKey == "" {
		log.Warn().Msg("sms api key not configured, using log channel")
		return NewLogChannel(log)
	}
	return NewInfobipClient(cfg, &http.Client{Timeout: cfg.Timeout})
}

type LogChannel struct {
	log zerolog.Logger
}

func NewLogChannel(log zerolog.Logger) *LogChannel {
	return &LogChannel{log: log}
}

func (c *LogChannel) Send(ctx context.Context, to string, text string) error {
	c.log.Info().
		Str("to", to).
		Int("length", len(text)).
		Msg("sms dry-run send")
	return nil
}

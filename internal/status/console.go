package status

import "github.com/rs/zerolog"

// ConsoleEmitter renders events as console log lines.
type ConsoleEmitter struct {
	log zerolog.Logger
}

func NewConsoleEmitter(log zerolog.Logger) *ConsoleEmitter {
	return &ConsoleEmitter{log: log}
}

func (c *ConsoleEmitter) Emit(ev Event) error {
	switch ev.Kind {
	case KindConfigured:
		c.log.Info().Str("port", ev.Port).Msg("serial port configured")
	case KindSending:
		c.log.Info().
			Str("port", ev.Port).
			Int("magnitude", ev.Magnitude).
			Int("rate_hz", ev.RateHz).
			Int64("period_ms", ev.PeriodMs).
			Msg("sending pulses")
	case KindProgress:
		c.log.Info().Uint64("messages_sent", ev.MessagesSent).Msg("messages sent")
	case KindShuttingDown:
		c.log.Info().Uint64("messages_sent", ev.MessagesSent).Msg("stop requested, shutting down")
	case KindTransmitFailed:
		c.log.Error().
			Uint64("messages_sent", ev.MessagesSent).
			Str("error", ev.Description).
			Msg("transmit failed")
	default:
		c.log.Info().Str("kind", string(ev.Kind)).Msg("event")
	}
	return nil
}

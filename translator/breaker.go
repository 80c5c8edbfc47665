package translator

import (
	"errors"
	"time"

	"github.com/rudderlabs/rudder-go-kit/logger"
	"github.com/sony/gobreaker"
)

// breaker guards provider calls. Once open, calls are not attempted and
// values fall back until the timeout lets a probe request through.
type breaker struct {
	cb *gobreaker.CircuitBreaker
}

func newBreaker(name string, consecutiveFailures int, timeout time.Duration, log logger.Logger) *breaker {
	if consecutiveFailures <= 0 {
		consecutiveFailures = 1
	}
	return &breaker{
		cb: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        name,
			MaxRequests: 1,
			Interval:    0,
			Timeout:     timeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= uint32(consecutiveFailures)
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				log.Warnn("translation breaker state changed",
					logger.NewStringField("name", name),
					logger.NewStringField("from", from.String()),
					logger.NewStringField("to", to.String()),
				)
			},
		}),
	}
}

// call runs fn through the breaker.
func (b *breaker) call(fn func() (string, error)) (string, error) {
	out, err := b.cb.Execute(func() (interface{}, error) {
		s, err := fn()
		return s, err
	})
	if err != nil {
		return "", err
	}
	return out.(string), nil
}

func (b *breaker) isOpen() bool {
	return b.cb.State() == gobreaker.StateOpen
}

// isRejected reports whether err came from the breaker refusing a call
// rather than from the provider.
func isRejected(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}

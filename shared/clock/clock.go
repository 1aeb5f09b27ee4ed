package clock

//go:generate go run go.uber.org/mock/mockgen -source=./clock.go -destination=./mocks/clock_mock.go -package=mocks

import (
	"time"

	"atrium/shared/timezone"
)

// Clock is the injected time source. Booking validation and the completion
// sweep never read the wall clock directly, so tests can pin time.
type Clock interface {
	Now() time.Time
}

type clockImpl struct{}

func New() Clock {
	return &clockImpl{}
}

func (c *clockImpl) Now() time.Time {
	return timezone.Now()
}

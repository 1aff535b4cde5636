package services

import (
	"context"
	"time"

	"ncic-pledge/internal/core/domain"
)

// Actor is the authenticated caller of a service operation
type Actor struct {
	ID   uint
	Role domain.Role
}

// Clock returns the current time; tests pin it
type Clock func() time.Time

// Mailer delivers account notification emails
type Mailer interface {
	SendAccountCreated(ctx context.Context, msg AccountCreatedMail) error
}

// AccountCreatedMail is the payload of the welcome email
type AccountCreatedMail struct {
	To         string
	FirstName  string
	MiddleName string
	Role       domain.Role
	Password   string
}

// ReportCache stores serialized report results.
// Implementations must treat a disabled backend as a permanent miss.
type ReportCache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}) error
	Invalidate(ctx context.Context) error
}

// noopCache is used when no cache is wired
type noopCache struct{}

func (noopCache) Get(context.Context, string, interface{}) (bool, error) { return false, nil }
func (noopCache) Set(context.Context, string, interface{}) error         { return nil }
func (noopCache) Invalidate(context.Context) error                       { return nil }

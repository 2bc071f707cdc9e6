// Package system provides the wall clock and ID generator used outside tests.
package system

import (
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/jobtrack/internal/core/ports/driven"
)

var (
	_ driven.Clock       = Clock{}
	_ driven.IDGenerator = UUIDGenerator{}
)

// Clock reads the system time.
type Clock struct{}

// NowEpochMs returns the current time in milliseconds since the Unix epoch.
func (Clock) NowEpochMs() int64 {
	return time.Now().UnixMilli()
}

// UUIDGenerator issues random (version 4) UUID strings.
type UUIDGenerator struct{}

// NewID returns a new UUID.
func (UUIDGenerator) NewID() string {
	return uuid.NewString()
}

package driven

// Clock supplies wall-clock time.
type Clock interface {
	NowEpochMs() int64
}

// IDGenerator supplies globally unique record identifiers.
type IDGenerator interface {
	NewID() string
}

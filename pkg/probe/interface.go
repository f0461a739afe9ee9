package probe

// Device defines the interface for the smoker controller link (real or mocked).
type Device interface {
	Connect() error
	Close() error
	Readings() <-chan RawReading
	IsConnected() bool
}

// Ensure Serial implements Device.
var _ Device = (*Serial)(nil)

// Ensure Mock implements Device.
var _ Device = (*Mock)(nil)

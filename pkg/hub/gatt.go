package hub

import "context"

// advert is a single BLE advertisement seen during discovery.
type advert struct {
	Name    string
	Address string
}

// gattLink is the minimal GATT surface the controller drives. The real
// implementation wraps tinygo.org/x/bluetooth; tests substitute a fake.
type gattLink interface {
	Enable() error
	// Scan reports adverts until the context is done. It blocks for the
	// duration of the scan.
	Scan(ctx context.Context, found func(advert)) error
	Connect(address string) (gattConn, error)
}

// gattConn is an open link to a device.
type gattConn interface {
	Services() ([]gattService, error)
	Disconnect() error
}

type gattService interface {
	Characteristics() ([]gattCharacteristic, error)
}

type gattCharacteristic interface {
	UUID() string
	Write(p []byte) error
	// EnableNotifications registers for characteristic-changed events.
	// Returns an error when the characteristic does not support them.
	EnableNotifications(fn func(p []byte)) error
}

package hub

import (
	"context"
	"fmt"
	"sync"

	"tinygo.org/x/bluetooth"
)

// bleLink adapts the system BLE adapter to the gattLink surface. It
// remembers the native address of every advertised device so Connect
// can be driven with the string form handed out during discovery.
type bleLink struct {
	adapter *bluetooth.Adapter

	mu    sync.Mutex
	addrs map[string]bluetooth.Address
}

func newBLELink() *bleLink {
	return &bleLink{
		adapter: bluetooth.DefaultAdapter,
		addrs:   make(map[string]bluetooth.Address),
	}
}

func (l *bleLink) Enable() error {
	return l.adapter.Enable()
}

func (l *bleLink) Scan(ctx context.Context, found func(advert)) error {
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			l.adapter.StopScan()
		case <-done:
		}
	}()

	return l.adapter.Scan(func(_ *bluetooth.Adapter, result bluetooth.ScanResult) {
		addr := result.Address.String()
		l.mu.Lock()
		l.addrs[addr] = result.Address
		l.mu.Unlock()
		found(advert{Name: result.LocalName(), Address: addr})
	})
}

func (l *bleLink) Connect(address string) (gattConn, error) {
	l.mu.Lock()
	addr, ok := l.addrs[address]
	l.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("unknown device address %s", address)
	}

	dev, err := l.adapter.Connect(addr, bluetooth.ConnectionParams{})
	if err != nil {
		return nil, err
	}
	return &bleConn{dev: dev}, nil
}

type bleConn struct {
	dev bluetooth.Device
}

func (c *bleConn) Services() ([]gattService, error) {
	svcs, err := c.dev.DiscoverServices(nil)
	if err != nil {
		return nil, err
	}
	out := make([]gattService, len(svcs))
	for i := range svcs {
		out[i] = &bleService{svc: svcs[i]}
	}
	return out, nil
}

func (c *bleConn) Disconnect() error {
	return c.dev.Disconnect()
}

type bleService struct {
	svc bluetooth.DeviceService
}

func (s *bleService) Characteristics() ([]gattCharacteristic, error) {
	chars, err := s.svc.DiscoverCharacteristics(nil)
	if err != nil {
		return nil, err
	}
	out := make([]gattCharacteristic, len(chars))
	for i := range chars {
		out[i] = &bleCharacteristic{ch: chars[i]}
	}
	return out, nil
}

type bleCharacteristic struct {
	ch bluetooth.DeviceCharacteristic
}

func (c *bleCharacteristic) UUID() string {
	return c.ch.UUID().String()
}

func (c *bleCharacteristic) Write(p []byte) error {
	_, err := c.ch.WriteWithoutResponse(p)
	return err
}

func (c *bleCharacteristic) EnableNotifications(fn func(p []byte)) error {
	return c.ch.EnableNotifications(fn)
}

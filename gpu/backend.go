package gpu

import (
	"fmt"
	"sync"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/core"

	matcha "github.com/helgev-traP/matcha"
)

// Backend owns the wgpu instance, adapter, device and queue shared by
// every window, atlas and pipeline in the process.
//
// The backend is shared-owned by the application; widgets reach it
// through weak handles in the resource context and upgrade on use.
type Backend struct {
	mu sync.RWMutex

	instance *core.Instance
	adapter  core.AdapterID
	device   core.DeviceID
	queue    core.QueueID

	initialized bool
}

// NewBackend creates an uninitialized backend. Call Init before use.
func NewBackend() *Backend {
	return &Backend{}
}

// Init creates the GPU resources: instance, adapter (honoring the
// power preference), device and queue.
func (b *Backend) Init(power matcha.PowerPreference) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.initialized {
		return nil
	}

	b.instance = core.NewInstance(&gputypes.InstanceDescriptor{
		Backends: gputypes.BackendsPrimary,
	})

	pref := gputypes.PowerPreferenceLowPower
	if power == matcha.PowerHigh {
		pref = gputypes.PowerPreferenceHighPerformance
	}
	adapterID, err := b.instance.RequestAdapter(&gputypes.RequestAdapterOptions{
		PowerPreference: pref,
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrNoGPU, err)
	}
	b.adapter = adapterID

	deviceID, err := core.RequestDevice(adapterID, &gputypes.DeviceDescriptor{
		Label:          "matcha-device",
		RequiredLimits: gputypes.DefaultLimits(),
	})
	if err != nil {
		return fmt.Errorf("gpu: device creation failed: %w", err)
	}
	b.device = deviceID

	queueID, err := core.GetDeviceQueue(deviceID)
	if err != nil {
		_ = core.DeviceDrop(deviceID)
		return fmt.Errorf("gpu: queue retrieval failed: %w", err)
	}
	b.queue = queueID

	b.initialized = true
	matcha.Logger().Info("gpu: backend initialized")
	return nil
}

// IsInitialized reports whether Init has completed.
func (b *Backend) IsInitialized() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.initialized
}

// Device returns the wgpu device ID.
func (b *Backend) Device() core.DeviceID {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.device
}

// Queue returns the wgpu queue ID.
func (b *Backend) Queue() core.QueueID {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.queue
}

// Close releases the device. The backend must not be used afterwards.
func (b *Backend) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.initialized {
		return
	}
	if err := core.DeviceDrop(b.device); err != nil {
		matcha.Logger().Warn("gpu: device release failed", "error", err)
	}
	b.device = core.DeviceID{}
	b.queue = core.QueueID{}
	b.initialized = false
}

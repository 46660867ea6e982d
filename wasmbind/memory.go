package wasmbind

import (
	"github.com/tetratelabs/wazero/api"

	"github.com/wippyai/bstr/errors"
)

// Memory adapts a wazero api.Memory to the bstr.Memory interface.
type Memory struct {
	mem api.Memory
}

// WrapMemory wraps a guest linear memory.
func WrapMemory(mem api.Memory) *Memory {
	return &Memory{mem: mem}
}

// Read returns a view of guest memory. The view aliases the guest's live
// memory and is only stable until the guest runs again; callers copy before
// retaining.
func (m *Memory) Read(offset, length uint32) ([]byte, error) {
	data, ok := m.mem.Read(offset, length)
	if !ok {
		return nil, errors.OutOfBounds(errors.PhaseBoundary, int(offset), int(length))
	}
	return data, nil
}

// Write copies data into guest memory.
func (m *Memory) Write(offset uint32, data []byte) error {
	if !m.mem.Write(offset, data) {
		return errors.OutOfBounds(errors.PhaseBoundary, int(offset), len(data))
	}
	return nil
}

// Size returns the current guest memory size in bytes.
func (m *Memory) Size() uint32 {
	return m.mem.Size()
}

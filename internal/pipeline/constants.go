package pipeline

import (
	"errors"
	"fmt"
)

// ConstantSlots is the number of shader-addressable constant buffer slots.
const ConstantSlots = 32

var (
	ErrSlotRange = errors.New("pipeline: constant slot out of range")
	ErrSlotUnset = errors.New("pipeline: constant slot not set")
	ErrSlotType  = errors.New("pipeline: constant slot type mismatch")
)

// ConstantBuffer is a fixed array of opaque per-draw values (matrices,
// vectors, textures). Values persist across draws until overwritten.
type ConstantBuffer struct {
	slots [ConstantSlots]any
}

// Set stores v in slot. A nil v clears the slot.
func (cb *ConstantBuffer) Set(slot int, v any) error {
	if slot < 0 || slot >= ConstantSlots {
		return fmt.Errorf("%w: %d", ErrSlotRange, slot)
	}
	cb.slots[slot] = v
	return nil
}

// Get returns the raw value in slot and whether it is set.
func (cb *ConstantBuffer) Get(slot int) (any, bool) {
	if slot < 0 || slot >= ConstantSlots {
		return nil, false
	}
	v := cb.slots[slot]
	return v, v != nil
}

// Clear empties one slot.
func (cb *ConstantBuffer) Clear(slot int) {
	if slot >= 0 && slot < ConstantSlots {
		cb.slots[slot] = nil
	}
}

// Reset clears every slot.
func (cb *ConstantBuffer) Reset() {
	cb.slots = [ConstantSlots]any{}
}

// Slot reads a typed value out of cb. Reading an unset slot or a slot that
// holds a different type is a contract violation between producer and
// shader; the caller is expected to abort the draw.
func Slot[T any](cb *ConstantBuffer, slot int) (T, error) {
	var zero T
	if slot < 0 || slot >= ConstantSlots {
		return zero, fmt.Errorf("%w: %d", ErrSlotRange, slot)
	}
	raw := cb.slots[slot]
	if raw == nil {
		return zero, fmt.Errorf("%w: slot %d wants %T", ErrSlotUnset, slot, zero)
	}
	v, ok := raw.(T)
	if !ok {
		return zero, fmt.Errorf("%w: slot %d holds %T, want %T", ErrSlotType, slot, raw, zero)
	}
	return v, nil
}

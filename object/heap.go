package object

import (
	"github.com/chrisvm/chris/bytecode"
	"github.com/chrisvm/chris/errz"
)

// Approximate per-object overheads used for heap accounting.
const (
	valueBytes        = 32
	stringHeaderBytes = 16
	codeHeaderBytes   = 96
)

// HeapStats summarizes the allocations of one arena.
type HeapStats struct {
	Objects int   `json:"objects"`
	Bytes   int64 `json:"bytes"`
	Limit   int64 `json:"limit"`
}

// Heap is a per-run allocation arena. Every object allocated through it is
// recorded until Release is called. A Heap is not safe for concurrent use.
type Heap struct {
	objects  []Object
	used     int64
	limit    int64
	released bool
}

// NewHeap returns an arena that fails allocations once more than limit bytes
// are in use. A limit of zero or less means unlimited.
func NewHeap(limit int64) *Heap {
	if limit < 0 {
		limit = 0
	}
	return &Heap{limit: limit}
}

// NewString allocates a String object in the arena.
func (h *Heap) NewString(s string) (Value, error) {
	obj := &String{value: s}
	if err := h.track(obj, obj.size()); err != nil {
		return Value{}, err
	}
	return Value{kind: ObjectKind, obj: obj}, nil
}

// NewCode allocates a Code object in the arena.
func (h *Heap) NewCode(code *bytecode.Code) (Value, error) {
	obj := &Code{code: code}
	if err := h.track(obj, obj.size()); err != nil {
		return Value{}, err
	}
	return Value{kind: ObjectKind, obj: obj}, nil
}

func (h *Heap) track(obj Object, n int64) error {
	if h.released {
		return errz.RuntimeErrorf("allocation after heap release")
	}
	if h.limit > 0 && h.used+n > h.limit {
		return errz.NewStructuredErrorf(errz.ErrMemory, errz.ErrMemoryLimit,
			"max memory exceeded (%d bytes)", h.limit)
	}
	h.used += n
	h.objects = append(h.objects, obj)
	return nil
}

// Count returns the number of live objects in the arena.
func (h *Heap) Count() int {
	return len(h.objects)
}

// Bytes returns the approximate number of bytes in use.
func (h *Heap) Bytes() int64 {
	return h.used
}

// Limit returns the byte budget, or zero when unlimited.
func (h *Heap) Limit() int64 {
	return h.limit
}

// Release drops every tracked object and returns the final statistics.
// Values that still reference released objects remain valid Go values, but
// the arena no longer accounts for them.
func (h *Heap) Release() HeapStats {
	stats := HeapStats{Objects: len(h.objects), Bytes: h.used, Limit: h.limit}
	for i := range h.objects {
		h.objects[i] = nil
	}
	h.objects = nil
	h.used = 0
	h.released = true
	return stats
}

package vm

import (
	"github.com/chrisvm/chris/object"
	"github.com/chrisvm/chris/op"
)

// StepMode controls when OnStep callbacks are triggered.
type StepMode uint8

const (
	// StepAll calls OnStep for every instruction.
	StepAll StepMode = iota

	// StepNone never calls OnStep.
	StepNone

	// StepSampled calls OnStep every N instructions.
	StepSampled
)

// ObserverConfig specifies what events an observer wants to receive.
type ObserverConfig struct {
	// StepMode controls OnStep callback frequency.
	StepMode StepMode

	// SampleInterval is the number of instructions between OnStep calls
	// when StepMode is StepSampled. Values <= 0 are treated as 1.
	SampleInterval int
}

// NormalizeConfig validates and clamps config values.
func NormalizeConfig(cfg ObserverConfig) ObserverConfig {
	if cfg.StepMode == StepSampled && cfg.SampleInterval <= 0 {
		cfg.SampleInterval = 1
	}
	return cfg
}

// Observer is an interface for observing VM execution events. It can be used
// for tracing, profiling or step limits without modifying the VM.
//
// Observer methods are called synchronously on the goroutine running the
// program. An Observer shared by concurrent runs must be safe for concurrent
// use.
type Observer interface {
	// Config returns the observer's configuration.
	// Called once at the start of every run.
	Config() ObserverConfig

	// OnStep is called before an instruction executes, based on the StepMode.
	// Returns false to halt execution immediately.
	OnStep(event StepEvent) bool

	// OnHalt is called when a run completes successfully.
	OnHalt(event HaltEvent)
}

// StepEvent contains information about a single instruction step.
type StepEvent struct {
	// ExecutionID identifies the run.
	ExecutionID string

	// IP is the instruction pointer (index into the instruction array).
	IP int

	// Opcode is the operation being executed.
	Opcode op.Code

	// OpcodeName is the human-readable name of the opcode.
	OpcodeName string

	// StackDepth is the current depth of the operand stack.
	StackDepth int
}

// HaltEvent describes a completed run.
type HaltEvent struct {
	ExecutionID string
	Result      object.Value
	Steps       int64
	Heap        object.HeapStats
}

// NoOpObserver is an Observer implementation that does nothing.
// Embed this in your observer to provide default implementations
// for methods you don't need.
type NoOpObserver struct{}

func (NoOpObserver) Config() ObserverConfig {
	return ObserverConfig{StepMode: StepAll}
}

func (NoOpObserver) OnStep(StepEvent) bool { return true }
func (NoOpObserver) OnHalt(HaltEvent)      {}

// Ensure NoOpObserver implements Observer.
var _ Observer = NoOpObserver{}

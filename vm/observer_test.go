package vm

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/chrisvm/chris/errz"
	"github.com/chrisvm/chris/op"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingObserver struct {
	mu     sync.Mutex
	config ObserverConfig
	steps  []StepEvent
	halts  []HaltEvent
	limit  int
}

func (o *recordingObserver) Config() ObserverConfig { return o.config }

func (o *recordingObserver) OnStep(event StepEvent) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.steps = append(o.steps, event)
	return o.limit == 0 || len(o.steps) < o.limit
}

func (o *recordingObserver) OnHalt(event HaltEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.halts = append(o.halts, event)
}

func TestObserverSteps(t *testing.T) {
	obs := &recordingObserver{config: ObserverConfig{StepMode: StepAll}}
	result, err := New(WithObserver(obs)).Exec(context.Background(), "(+ 1 2)")
	require.NoError(t, err)

	require.Len(t, obs.steps, 4)
	names := make([]string, len(obs.steps))
	for i, step := range obs.steps {
		names[i] = step.OpcodeName
	}
	assert.Equal(t, []string{"CONST", "CONST", "ADD", "HALT"}, names)
	assert.Equal(t, []int{0, 2, 4, 5}, []int{obs.steps[0].IP, obs.steps[1].IP, obs.steps[2].IP, obs.steps[3].IP})
	assert.Equal(t, []int{0, 1, 2, 1}, []int{
		obs.steps[0].StackDepth, obs.steps[1].StackDepth, obs.steps[2].StackDepth, obs.steps[3].StackDepth,
	})
	assert.Equal(t, op.Add, obs.steps[2].Opcode)

	require.Len(t, obs.halts, 1)
	halt := obs.halts[0]
	assert.True(t, halt.Result.Equals(result))
	assert.Equal(t, int64(4), halt.Steps)
	assert.Equal(t, obs.steps[0].ExecutionID, halt.ExecutionID)
	assert.NotEmpty(t, halt.ExecutionID)
	assert.Equal(t, 1, halt.Heap.Objects) // the code object
}

func TestObserverHeapStats(t *testing.T) {
	obs := &recordingObserver{config: ObserverConfig{StepMode: StepNone}}
	_, err := New(WithObserver(obs)).Exec(context.Background(), `(+ "a" "b")`)
	require.NoError(t, err)
	assert.Empty(t, obs.steps)
	require.Len(t, obs.halts, 1)
	// Two constants, the code object and the concatenation.
	assert.Equal(t, 4, obs.halts[0].Heap.Objects)
	assert.Greater(t, obs.halts[0].Heap.Bytes, int64(0))
}

func TestObserverHalts(t *testing.T) {
	obs := &recordingObserver{config: ObserverConfig{StepMode: StepAll}, limit: 2}
	_, err := New(WithObserver(obs)).Exec(context.Background(), "(+ 1 2)")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "execution halted by observer")
	kind, _ := errz.KindOf(err)
	assert.Equal(t, errz.ErrRuntime, kind)
	assert.Empty(t, obs.halts)
	assert.False(t, errors.Is(err, errz.ErrStackOverflow))
}

func TestObserverSampled(t *testing.T) {
	obs := &recordingObserver{config: ObserverConfig{StepMode: StepSampled, SampleInterval: 2}}
	_, err := New(WithObserver(obs)).Exec(context.Background(), "(+ (+ 1 2) (+ 3 4))")
	require.NoError(t, err)
	// 8 instructions executed, every second one observed.
	assert.Len(t, obs.steps, 4)
}

func TestNormalizeConfig(t *testing.T) {
	cfg := NormalizeConfig(ObserverConfig{StepMode: StepSampled})
	assert.Equal(t, 1, cfg.SampleInterval)
	cfg = NormalizeConfig(ObserverConfig{StepMode: StepAll})
	assert.Equal(t, 0, cfg.SampleInterval)
}

func TestObserverConcurrentRuns(t *testing.T) {
	obs := &recordingObserver{config: ObserverConfig{StepMode: StepNone}}
	machine := New(WithObserver(obs))
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = machine.Exec(context.Background(), "(* 6 7)")
		}()
	}
	wg.Wait()
	require.Len(t, obs.halts, 10)
	ids := map[string]bool{}
	for _, h := range obs.halts {
		ids[h.ExecutionID] = true
	}
	assert.Len(t, ids, 10)
}

package framework

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type testMsg struct {
	value int
}

func (m *testMsg) NewMessage() Message { return &testMsg{} }

func TestLoopPriorityOrder(t *testing.T) {
	var order []int
	record := func(n int) Controller {
		return ControlFunc(func(cc ControlContext) error {
			order = append(order, n)
			return nil
		})
	}
	l := NewPollingLoop(NewManualTicks(0))
	l.AddController(PrLvIdle, record(4))
	l.AddController(PrLvTop, record(1))
	l.AddController(PrLvNormal, record(3))
	l.AddController(PrLvHigh, record(2))
	l.Step(context.Background())
	require.Equal(t, []int{1, 2, 3, 4}, order)
}

func TestLoopTickSampledOnce(t *testing.T) {
	clock := NewManualTicks(100)
	l := NewPollingLoop(clock)
	var ticks, nows []uint32
	l.AddController(PrLvTop, ControlFunc(func(cc ControlContext) error {
		ticks = append(ticks, cc.Tick())
		clock.Advance(5)
		nows = append(nows, cc.Now())
		return nil
	}))
	l.AddController(PrLvLow, ControlFunc(func(cc ControlContext) error {
		ticks = append(ticks, cc.Tick())
		nows = append(nows, cc.Now())
		return nil
	}))
	l.Step(context.Background())
	require.Equal(t, []uint32{100, 100}, ticks)
	require.Equal(t, []uint32{105, 105}, nows)
}

func TestLoopMessages(t *testing.T) {
	l := NewPollingLoop(NewManualTicks(0))
	var seen []int
	l.AddController(PrLvControl, ControlFunc(func(cc ControlContext) error {
		cc.Messages().ProcessMessages(ProcessMessageFunc(func(mc MessageProcessingContext) {
			if m, ok := mc.CurrentMessage().(*testMsg); ok && m.value%2 == 0 {
				mc.MessageTaken()
				seen = append(seen, m.value)
			}
		}))
		return nil
	}))
	var left []int
	l.AddController(PrLvIdle, ControlFunc(func(cc ControlContext) error {
		cc.Messages().ProcessMessages(ProcessMessageFunc(func(mc MessageProcessingContext) {
			mc.MessageTaken()
			left = append(left, mc.CurrentMessage().(*testMsg).value)
		}))
		return nil
	}))
	for i := 1; i <= 4; i++ {
		l.PostMessage(&testMsg{value: i})
	}
	l.Step(context.Background())
	require.Equal(t, []int{2, 4}, seen)
	require.Equal(t, []int{1, 3}, left)
}

func TestLoopPostRunHooks(t *testing.T) {
	l := NewPollingLoop(NewManualTicks(0))
	var calls []string
	l.AddController(PrLvNormal, ControlFunc(func(cc ControlContext) error {
		calls = append(calls, "ctl")
		if len(calls) == 1 {
			cc.PostRun(ControlFunc(func(ControlContext) error {
				calls = append(calls, "hook")
				return nil
			}))
		}
		return nil
	}))
	l.Step(context.Background())
	l.Step(context.Background())
	require.Equal(t, []string{"ctl", "hook", "ctl"}, calls)
}

func TestLoopStop(t *testing.T) {
	l := NewPollingLoop(NewManualTicks(0))
	var iterations int
	l.AddController(PrLvNormal, ControlFunc(func(cc ControlContext) error {
		iterations++
		if iterations == 3 {
			cc.Stop()
		}
		return errors.New("ignored")
	}))
	done := make(chan error, 1)
	go func() { done <- l.Run(context.Background()) }()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("loop not stopped")
	}
	require.Equal(t, 3, iterations)
	require.True(t, l.Stopped())
}

func TestLoopCanceled(t *testing.T) {
	l := NewLoop()
	l.Interval = time.Millisecond
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.Equal(t, context.Canceled, l.Run(ctx))
}

func TestElapsedTicksWraps(t *testing.T) {
	require.Equal(t, uint32(20), ElapsedTicks(0xfffffff6, 10))
	require.Equal(t, uint32(10), ElapsedTicks(10, 20))
	require.Equal(t, uint32(250), TicksToMicros(250))
	require.Equal(t, uint32(1500), DurationToTicks(1500*time.Microsecond))
}

func TestAggregatedError(t *testing.T) {
	var errs AggregatedError
	require.NoError(t, errs.Aggregate())
	errs.Add(nil, errors.New("a"), nil, errors.New("b"))
	require.Len(t, errs.Errors, 2)
	require.Equal(t, "Multiple errors:\na\nb", errs.Aggregate().Error())

	eof := &RunnerError{Name: "train-bus", Err: io.EOF}
	single := (&AggregatedError{}).Add(eof).Aggregate()
	require.Equal(t, eof, single)
	require.True(t, errors.Is(errs.Add(eof).Aggregate(), io.EOF))
	require.Equal(t, "train-bus: EOF", eof.Error())
}

type failingRunnable struct {
	err error
}

func (r *failingRunnable) Run(ctx context.Context) error {
	if r.err != nil {
		return r.err
	}
	<-ctx.Done()
	return ctx.Err()
}

func TestLoopStopsOnRunnableFailure(t *testing.T) {
	l := NewPollingLoop(NewManualTicks(0))
	l.AddRunnable(&failingRunnable{}, NamedRun("port", &failingRunnable{err: io.ErrUnexpectedEOF}))
	done := make(chan error, 1)
	go func() { done <- l.Run(context.Background()) }()
	select {
	case err := <-done:
		require.Error(t, err)
		require.True(t, errors.Is(err, io.ErrUnexpectedEOF))
		require.Contains(t, err.Error(), "port: ")
	case <-time.After(time.Second):
		t.Fatal("loop not stopped")
	}
}

func TestRunnerIgnoresCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	r := NewRunnerWith(ctx).Go(&failingRunnable{}, &failingRunnable{})
	cancel()
	require.NoError(t, r.Wait())
}

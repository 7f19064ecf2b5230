package see

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	fx "github.com/robotalks/trainctl/pkg/framework"
	"github.com/robotalks/trainctl/pkg/l0/trainbus"
	"github.com/robotalks/trainctl/pkg/sim"
)

func decodeLines(t *testing.T, out *bytes.Buffer) [][]Message {
	var batches [][]Message
	for _, line := range strings.Split(strings.TrimSpace(out.String()), "\n") {
		if line == "" {
			continue
		}
		var msgs []Message
		require.NoError(t, json.Unmarshal([]byte(line), &msgs))
		batches = append(batches, msgs)
	}
	out.Reset()
	return batches
}

func TestAdapterReportsTrains(t *testing.T) {
	conf := sim.NewConfig()
	conf.SensorsPerGroup = 1
	layout, err := conf.NewLayout()
	require.NoError(t, err)

	var out bytes.Buffer
	vis := NewConfig().NewAdapter(&out).Subscribe(layout)
	clock := fx.NewManualTicks(0)
	loop := fx.NewPollingLoop(clock).Add(layout, vis)
	ctx := context.Background()

	loop.Step(ctx)
	batches := decodeLines(t, &out)
	require.Len(t, batches, 1)
	require.Len(t, batches[0], 7)
	assert.Equal(t, ActionReset, batches[0][0].Action)
	assert.Equal(t, "track", batches[0][1].Object[PropID])
	assert.Equal(t, "sensor.A1", batches[0][2].Object[PropID])
	assert.Equal(t, "A1", batches[0][2].Object[PropLabel])

	layout.TrySend(trainbus.Encode(trainbus.SetSpeed{Train: 7, Speed: 3}))
	clock.Advance(100000)
	loop.Step(ctx)
	batches = decodeLines(t, &out)
	require.Len(t, batches, 1)
	require.Len(t, batches[0], 1)
	obj := batches[0][0].Object
	assert.Equal(t, "train.7", obj[PropID])
	assert.Equal(t, "train", obj[PropType])
	assert.Equal(t, "7 F03", obj[PropLabel])

	clock.Advance(100000)
	loop.Step(ctx)
	require.Len(t, decodeLines(t, &out), 1)
}

type failingWriter struct {
	writes int
}

func (w *failingWriter) Write(p []byte) (int, error) {
	w.writes++
	return 0, assert.AnError
}

func TestAdapterDisablesOnWriteError(t *testing.T) {
	w := &failingWriter{}
	vis := NewConfig().NewAdapter(w)
	loop := fx.NewPollingLoop(fx.NewManualTicks(0)).Add(vis)
	loop.Step(context.Background())
	loop.Step(context.Background())
	assert.Equal(t, 1, w.writes)
}

package settings

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntry_NotifiesOnlyOnChange(t *testing.T) {
	reg := NewRegistry()
	extentX := reg.Group("Scan").Int("ExtentX", 10)

	var seen []int
	extentX.Subscribe(func(v int) { seen = append(seen, v) })

	extentX.Set(10)
	extentX.Set(3)
	extentX.Set(3)
	extentX.Set(4)

	assert.Equal(t, []int{3, 4}, seen)
	assert.Equal(t, 4, extentX.Value())
}

func TestEntry_SubscribersRunInOrderAndCanUnsubscribe(t *testing.T) {
	g := NewRegistry().Group("Scan")
	name := g.String("Initializer", "Snake")

	var calls []string
	unsubA := name.Subscribe(func(v string) { calls = append(calls, "a:"+v) })
	name.Subscribe(func(v string) { calls = append(calls, "b:"+v) })

	name.Set("Raster")
	unsubA()
	name.Set("Spiral")

	assert.Equal(t, []string{"a:Raster", "b:Raster", "b:Spiral"}, calls)
}

func TestEntry_UnsubscribeDuringNotify(t *testing.T) {
	g := NewRegistry().Group("Scan")
	e := g.Int("ExtentY", 1)

	count := 0
	var unsub func()
	unsub = e.Subscribe(func(int) {
		count++
		unsub()
	})
	e.Set(2)
	e.Set(3)
	assert.Equal(t, 1, count)
}

func TestGroup_SubscribeReceivesEntryNames(t *testing.T) {
	g := NewRegistry().Group("Scan")
	x := g.Int("ExtentX", 10)
	step := g.Decimal("StepSizeXInMeters", decimal.RequireFromString("1e-6"))

	var changed []string
	g.Subscribe(func(entry string) { changed = append(changed, entry) })

	x.Set(5)
	step.Set(decimal.RequireFromString("0.000001")) // same value, different text
	step.Set(decimal.RequireFromString("2e-6"))

	assert.Equal(t, []string{"ExtentX", "StepSizeXInMeters"}, changed)
}

func TestGroup_SetCoercesStrings(t *testing.T) {
	g := NewRegistry().Group("Training")
	size := g.Int("MaximumTrainingDatasetSize", 100000)
	amp := g.Bool("PredictAmplitude", true)
	rate := g.Decimal("LearningRate", decimal.RequireFromString("0.001"))
	out := g.Path("OutputPath", "")

	require.NoError(t, g.Set("maximumtrainingdatasetsize", "250"))
	require.NoError(t, g.Set("PredictAmplitude", "false"))
	require.NoError(t, g.Set("LearningRate", "5e-4"))
	require.NoError(t, g.Set("OutputPath", "runs/../out/"))

	assert.Equal(t, 250, size.Value())
	assert.False(t, amp.Value())
	assert.True(t, rate.Value().Equal(decimal.RequireFromString("0.0005")))
	assert.Equal(t, "out", out.Value())

	assert.Error(t, g.Set("MaximumTrainingDatasetSize", "lots"))
	assert.Error(t, g.Set("NoSuchEntry", "1"))
	assert.Equal(t, 250, size.Value(), "failed coercion leaves the value unchanged")
}

func TestGroup_DecimalCoercion(t *testing.T) {
	g := NewRegistry().Group("Scan")
	step := g.Decimal("StepSizeYInMeters", decimal.Zero)

	require.NoError(t, g.Set("StepSizeYInMeters", 0.5))
	assert.Equal(t, "0.5", step.Value().String())

	require.NoError(t, g.Set("StepSizeYInMeters", 3))
	assert.Equal(t, "3", step.Value().String())

	require.NoError(t, g.Set("StepSizeYInMeters", decimal.New(25, -2)))
	assert.Equal(t, "0.25", step.Value().String())
}

func TestRegistry_SetByQualifiedKey(t *testing.T) {
	reg := NewRegistry()
	scanGroup := reg.Group("Scan")
	x := scanGroup.Int("ExtentX", 10)
	reg.Group("Training").Int("TrainingEpochs", 50)

	require.NoError(t, reg.Set("scan.ExtentX", "7"))
	assert.Equal(t, 7, x.Value())

	assert.Error(t, reg.Set("ExtentX", "7"))
	assert.Error(t, reg.Set("Probe.Size", "7"))
	assert.Same(t, scanGroup, reg.Group("SCAN"))

	if diff := cmp.Diff([]string{"Scan", "Training"}, reg.GroupNames()); diff != "" {
		t.Errorf("GroupNames mismatch (-want +got):\n%s", diff)
	}
}

func TestGroup_ValuesAndNames(t *testing.T) {
	g := NewRegistry().Group("Scan")
	g.String("Initializer", "Snake")
	g.Int("ExtentX", 10)

	assert.Equal(t, []string{"Initializer", "ExtentX"}, g.EntryNames())
	assert.Equal(t, map[string]any{"Initializer": "Snake", "ExtentX": 10}, g.Values())
}

func TestObservers_ZeroValue(t *testing.T) {
	var obs Observers[string]
	var got []string

	unsub := obs.Subscribe(func(v string) { got = append(got, v) })
	obs.Notify("first")
	assert.Equal(t, 1, obs.Len())

	unsub()
	unsub()
	obs.Notify("second")

	assert.Equal(t, []string{"first"}, got)
	assert.Equal(t, 0, obs.Len())
}

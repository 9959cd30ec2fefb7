package engine

import (
	"context"
	"runtime"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"mapcover/internal/mapping"
	"mapcover/internal/outcome"
	"mapcover/internal/schema"
	"mapcover/internal/testutil"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const fruitSchema = `{
	"type": "object",
	"properties": {
		"Fruit": {"type": "string", "enum": ["Apple", "Banana"]},
		"Crisp": {"type": "boolean"}
	},
	"required": ["Fruit"]
}`

// fruitMapping labels crisp fruit "FR.<fruit>.C" and the rest "FR.<fruit>".
// Assets without a Crisp flag are rejected.
func fruitMapping(asset mapping.Asset) (*mapping.Assignment, error) {
	gi := asset.GeneralInformation

	fruit, err := gi.String("Fruit")
	if err != nil {
		return nil, err
	}
	crisp, err := gi.Bool("Crisp")
	if err != nil {
		return nil, err
	}

	label := "FR." + fruit
	if crisp {
		label += ".C"
	}
	comp := mapping.NewComponentTable()
	comp.Add(label, mapping.Component{Units: "ea", Location: 1, Direction: 1, Theta0: 1, Family: "N/A"})
	return &mapping.Assignment{GeneralInfo: gi, Components: comp}, nil
}

func newTestEngine(fn mapping.Func, opts ...EngineOption) *Engine {
	base := []EngineOption{
		WithMappingName("fruit"),
		WithRunIDGenerator(testutil.NewFixedRunIDGenerator("")),
	}
	return New(fn, append(base, opts...)...)
}

func TestEngine_Run_SerialPartition(t *testing.T) {
	e := newTestEngine(fruitMapping)

	report, err := e.Run(context.Background(), []byte(fruitSchema))
	require.NoError(t, err)

	assert.Equal(t, "test-run-default", report.RunID)
	assert.Equal(t, "fruit", report.Mapping)
	assert.False(t, report.Parallel)
	assert.Equal(t, 1, report.Workers)
	assert.Equal(t, 6, report.Total())
	assert.Equal(t, schema.SchemaDigest([]byte(fruitSchema)), report.SchemaSHA)
	assert.False(t, report.Finished.Before(report.Started))

	wantValid := []outcome.Valid{
		{Combination: schema.Combination{"Fruit": schema.String("Apple"), "Crisp": schema.Bool(true)}, ModelIDs: []string{"FR.Apple.C"}},
		{Combination: schema.Combination{"Fruit": schema.String("Apple"), "Crisp": schema.Bool(false)}, ModelIDs: []string{"FR.Apple"}},
		{Combination: schema.Combination{"Fruit": schema.String("Banana"), "Crisp": schema.Bool(true)}, ModelIDs: []string{"FR.Banana.C"}},
		{Combination: schema.Combination{"Fruit": schema.String("Banana"), "Crisp": schema.Bool(false)}, ModelIDs: []string{"FR.Banana"}},
	}
	assert.Equal(t, wantValid, report.Results.Valid)

	require.Len(t, report.Results.Invalid, 2)
	assert.Equal(t, schema.Combination{"Fruit": schema.String("Apple")}, report.Results.Invalid[0].Combination)
	assert.Equal(t, schema.Combination{"Fruit": schema.String("Banana")}, report.Results.Invalid[1].Combination)
	for i, iv := range report.Results.Invalid {
		assert.Contains(t, iv.Error, `missing "Crisp"`, "invalid %d", i)
		assert.NotEmpty(t, iv.Trace, "invalid %d", i)
	}
}

func TestEngine_Run_ParallelMatchesSerial(t *testing.T) {
	serialReport, err := newTestEngine(fruitMapping).Run(context.Background(), []byte(fruitSchema))
	require.NoError(t, err)

	parallel := newTestEngine(fruitMapping, WithParallel(true), WithWorkers(4))
	parallelReport, err := parallel.Run(context.Background(), []byte(fruitSchema))
	require.NoError(t, err)

	assert.True(t, parallelReport.Parallel)
	assert.Equal(t, 4, parallelReport.Workers)
	assert.Equal(t, serialReport.Results, parallelReport.Results)
}

func TestEngine_Run_WorkersDefaultToCPUCount(t *testing.T) {
	e := newTestEngine(fruitMapping, WithParallel(true))

	report, err := e.Run(context.Background(), []byte(fruitSchema))
	require.NoError(t, err)

	assert.Equal(t, runtime.NumCPU(), report.Workers)
}

func TestEngine_Run_MappingFaultIsolation(t *testing.T) {
	fn := testutil.FailOn("Fruit", "Banana", fruitMapping)

	for _, tc := range []struct {
		name     string
		parallel bool
	}{
		{"serial", false},
		{"parallel", true},
	} {
		t.Run(tc.name, func(t *testing.T) {
			e := newTestEngine(fn, WithParallel(tc.parallel), WithWorkers(2))

			report, err := e.Run(context.Background(), []byte(fruitSchema))
			require.NoError(t, err)

			assert.Len(t, report.Results.Valid, 2)
			require.Len(t, report.Results.Invalid, 4)

			var scripted int
			for _, iv := range report.Results.Invalid {
				if strings.Contains(iv.Error, "scripted failure") {
					scripted++
				}
			}
			assert.Equal(t, 3, scripted)
		})
	}
}

func TestEngine_Run_PanicContainment(t *testing.T) {
	fn := testutil.PanicOn("Fruit", "Apple", fruitMapping)

	for _, tc := range []struct {
		name     string
		parallel bool
	}{
		{"serial", false},
		{"parallel", true},
	} {
		t.Run(tc.name, func(t *testing.T) {
			e := newTestEngine(fn, WithParallel(tc.parallel), WithWorkers(2))

			report, err := e.Run(context.Background(), []byte(fruitSchema))
			require.NoError(t, err)

			assert.Len(t, report.Results.Valid, 2)
			require.Len(t, report.Results.Invalid, 4)

			first := report.Results.Invalid[0]
			assert.Equal(t, schema.Combination{"Fruit": schema.String("Apple"), "Crisp": schema.Bool(true)}, first.Combination)
			assert.Contains(t, first.Error, "mapping function panicked")
			assert.Contains(t, first.Trace, "panic: scripted panic for Fruit=Apple")
			assert.Contains(t, first.Trace, "goroutine")
		})
	}
}

func TestEngine_Run_SchemaViolationBucket(t *testing.T) {
	const intSchema = `{
		"type": "object",
		"properties": {
			"Fruit": {"type": "string", "enum": ["Apple"]},
			"Count": {"type": "integer"}
		},
		"required": ["Fruit"]
	}`

	e := newTestEngine(testutil.StaticMapping("X.1"))

	report, err := e.Run(context.Background(), []byte(intSchema))
	require.NoError(t, err)

	require.Len(t, report.Results.Valid, 1)
	require.Len(t, report.Results.Invalid, 1)

	// The synthetic placeholder for the unconstrained integer property
	// conforms to nothing, so that combination must land in the invalid
	// bucket with the fixed message.
	iv := report.Results.Invalid[0]
	assert.Equal(t, SchemaViolationMessage, iv.Error)
	assert.Contains(t, iv.Trace, "Count")
	assert.Equal(t, schema.Combination{
		"Fruit": schema.String("Apple"),
		"Count": schema.String("default_integer"),
	}, iv.Combination)

	assert.Equal(t, schema.Combination{"Fruit": schema.String("Apple")}, report.Results.Valid[0].Combination)
	assert.Equal(t, []string{"X.1"}, report.Results.Valid[0].ModelIDs)
}

func TestEngine_Run_EmptySchema(t *testing.T) {
	e := newTestEngine(testutil.StaticMapping("X.1"))

	report, err := e.Run(context.Background(), []byte(`{"type": "object"}`))
	require.NoError(t, err)

	assert.Equal(t, 1, report.Total())
	require.Len(t, report.Results.Valid, 1)
	assert.Equal(t, schema.Combination{}, report.Results.Valid[0].Combination)
}

func TestEngine_Run_ShapeErrorPassThrough(t *testing.T) {
	e := newTestEngine(fruitMapping)

	report, err := e.Run(context.Background(), []byte(`{"type": "object", "properties": 3}`))
	require.Error(t, err)
	assert.Nil(t, report)
	assert.True(t, schema.IsShapeError(err))
}

func TestEngine_Run_ResourceErrorAbortsRun(t *testing.T) {
	// Passes domain extraction (unrecognized keywords are skipped there)
	// but fails schema compilation inside the validator.
	const badConstraint = `{
		"type": "object",
		"properties": {"Fruit": {"type": "string", "enum": ["Apple"]}},
		"required": ["Fruit"],
		"additionalProperties": 3
	}`

	for _, tc := range []struct {
		name     string
		parallel bool
	}{
		{"serial", false},
		{"parallel", true},
	} {
		t.Run(tc.name, func(t *testing.T) {
			e := newTestEngine(fruitMapping, WithParallel(tc.parallel), WithWorkers(2))

			report, err := e.Run(context.Background(), []byte(badConstraint))
			require.Error(t, err)
			assert.Nil(t, report)
			assert.True(t, IsResourceError(err))
		})
	}
}

func TestEngine_Run_Cancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for _, tc := range []struct {
		name     string
		parallel bool
	}{
		{"serial", false},
		{"parallel", true},
	} {
		t.Run(tc.name, func(t *testing.T) {
			e := newTestEngine(fruitMapping, WithParallel(tc.parallel), WithWorkers(2))

			report, err := e.Run(ctx, []byte(fruitSchema))
			require.Error(t, err)
			assert.Nil(t, report)
			assert.ErrorIs(t, err, context.Canceled)
		})
	}
}

func TestEngine_Run_NilMappingFunction(t *testing.T) {
	e := New(nil)

	report, err := e.Run(context.Background(), []byte(fruitSchema))
	require.Error(t, err)
	assert.Nil(t, report)
	assert.True(t, IsResourceError(err))
}

func TestEngine_Run_Deterministic(t *testing.T) {
	e := newTestEngine(fruitMapping, WithParallel(true), WithWorkers(3))

	first, err := e.Run(context.Background(), []byte(fruitSchema))
	require.NoError(t, err)
	second, err := e.Run(context.Background(), []byte(fruitSchema))
	require.NoError(t, err)

	assert.Equal(t, first.Results, second.Results)
}

func TestEngine_Run_DefaultRunIDsAreUUIDv7(t *testing.T) {
	e := New(fruitMapping)

	report, err := e.Run(context.Background(), []byte(fruitSchema))
	require.NoError(t, err)

	id, err := uuid.Parse(report.RunID)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), id.Version())
}

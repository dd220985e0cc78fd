package storage

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/boxdim/internal/analysis"
	"github.com/san-kum/boxdim/internal/boxcount"
	"github.com/san-kum/boxdim/internal/dynamo"
	"github.com/san-kum/boxdim/internal/integrators"
	"github.com/san-kum/boxdim/internal/physics"
)

func testRun(t *testing.T) (RunMetadata, *dynamo.Trajectory) {
	t.Helper()
	x0 := dynamo.State{0, 1, 1.05}
	p := physics.LorenzClassic()
	traj, err := integrators.RK4(physics.Lorenz, x0, 0, 1, 1000, p)
	require.NoError(t, err)

	meta := RunMetadata{
		System:    "lorenz",
		Params:    p,
		InitState: x0,
		MaxTime:   1,
		Region:    boxcount.Cuboid(50),
		Scales:    []analysis.ScalePoint{{Side: 10, Count: 3, Total: 1000}},
	}
	return meta, traj
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	require.NoError(t, st.Init())

	meta, traj := testRun(t)
	runID, err := st.Save(meta, traj)
	require.NoError(t, err)
	assert.NotEmpty(t, runID)

	loaded, err := st.Load(runID)
	require.NoError(t, err)
	assert.Equal(t, runID, loaded.ID)
	assert.Equal(t, "lorenz", loaded.System)
	assert.Equal(t, meta.Params, loaded.Params)
	assert.Equal(t, 1000, loaded.Steps)
	assert.Equal(t, meta.Scales, loaded.Scales)
	assert.Equal(t, meta.Region, loaded.Region)
	assert.Nil(t, loaded.Dimension)

	back, err := st.LoadTrajectory(runID)
	require.NoError(t, err)
	assert.Equal(t, traj.States, back.States, "states must round-trip exactly")
	assert.Equal(t, traj.Derivatives, back.Derivatives)
	assert.Equal(t, traj.Step, back.Step)
}

func TestStoreReloadCountsSameCubes(t *testing.T) {
	st := New(t.TempDir())
	meta, traj := testRun(t)
	runID, err := st.Save(meta, traj)
	require.NoError(t, err)

	back, err := st.LoadTrajectory(runID)
	require.NoError(t, err)

	g, err := boxcount.Build(boxcount.Cuboid(50), 10)
	require.NoError(t, err)
	assert.Equal(t, g.CountOccupied(traj.States), g.CountOccupied(back.States))
}

func TestStoreNonFinite(t *testing.T) {
	st := New(t.TempDir())
	traj := &dynamo.Trajectory{
		States:      []dynamo.State{{math.Inf(1), math.NaN(), 1}},
		Derivatives: []dynamo.State{{0, 0, math.Inf(-1)}},
		Step:        0.5,
	}
	runID, err := st.Save(RunMetadata{System: "lorenz"}, traj)
	require.NoError(t, err)

	back, err := st.LoadTrajectory(runID)
	require.NoError(t, err)
	require.Len(t, back.States, 1)
	assert.True(t, math.IsInf(back.States[0][0], 1))
	assert.True(t, math.IsNaN(back.States[0][1]))
	assert.True(t, math.IsInf(back.Derivatives[0][2], -1))
}

func TestStoreSave_FlatFit(t *testing.T) {
	st := New(t.TempDir())
	traj, err := integrators.RK4(physics.Lorenz, dynamo.State{}, 0, 1, 100, physics.LorenzClassic())
	require.NoError(t, err)

	region := boxcount.Cuboid(10)
	est, err := analysis.BoxDimension(context.Background(), traj.States, region, []float64{10, 5, 2.5})
	require.NoError(t, err)

	runID, err := st.Save(RunMetadata{System: "lorenz", Region: region, Scales: est.Points, Dimension: est}, traj)
	require.NoError(t, err)

	back, err := st.Load(runID)
	require.NoError(t, err)
	require.NotNil(t, back.Dimension)
	assert.Equal(t, 1.0, back.Dimension.RSquared)
}

func TestStoreSave_FailureLeavesNoDirectory(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)
	meta, traj := testRun(t)
	meta.Dimension = &analysis.DimensionEstimate{RSquared: math.NaN()}

	_, err := st.Save(meta, traj)
	require.Error(t, err)

	entries, err := os.ReadDir(tmpDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestStoreList(t *testing.T) {
	st := New(filepath.Join(t.TempDir(), "runs"))

	runs, err := st.List()
	require.NoError(t, err)
	assert.Empty(t, runs, "missing directory lists as empty")

	require.NoError(t, st.Init())
	meta, traj := testRun(t)
	_, err = st.Save(meta, traj)
	require.NoError(t, err)
	_, err = st.Save(meta, traj)
	require.NoError(t, err)

	require.NoError(t, os.MkdirAll(filepath.Join(st.baseDir, "junk"), 0755))

	runs, err = st.List()
	require.NoError(t, err)
	assert.Len(t, runs, 2)
}

func TestStoreFileStructure(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	meta, traj := testRun(t)
	runID, err := st.Save(meta, traj)
	require.NoError(t, err)

	runDir := filepath.Join(tmpDir, runID)
	assert.FileExists(t, filepath.Join(runDir, "metadata.json"))
	assert.FileExists(t, filepath.Join(runDir, "trajectory.csv"))
}

func TestStoreLoad_NotFound(t *testing.T) {
	st := New(t.TempDir())

	for _, id := range []string{"nope", "", "..", "../etc", `a\b`} {
		_, err := st.Load(id)
		assert.ErrorIs(t, err, ErrRunNotFound, "id %q", id)
	}
}

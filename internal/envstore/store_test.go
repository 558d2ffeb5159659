package envstore_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hbjs97/denv/internal/envstore"
	"github.com/hbjs97/denv/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_NotFound(t *testing.T) {
	store := testutil.TempStore(t)

	_, err := store.Open("foo_a1b2c3d4")

	assert.ErrorIs(t, err, envstore.ErrNotFound)
	// 조회가 부수 효과로 디렉토리를 만들면 안 된다.
	_, statErr := os.Stat(filepath.Join(store.EnvsDir, "foo_a1b2c3d4"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestBeginBuild_CreatesSkeleton(t *testing.T) {
	store := testutil.TempStore(t)

	rec, err := store.BeginBuild("foo_a1b2c3d4")

	require.NoError(t, err)
	for _, dir := range []string{rec.BinDir(), rec.SbinDir(), rec.LibDir(), rec.PkgsDir()} {
		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}
	assert.False(t, rec.Ready, "BeginBuild 직후에는 ready가 아니어야 한다")
}

func TestBeginBuild_Idempotent(t *testing.T) {
	store := testutil.TempStore(t)

	_, err := store.BeginBuild("foo_a1b2c3d4")
	require.NoError(t, err)

	rec, err := store.BeginBuild("foo_a1b2c3d4")
	require.NoError(t, err)
	assert.Equal(t, "foo_a1b2c3d4", rec.ID)
}

func TestBeginBuild_DoesNotClobberExistingFiles(t *testing.T) {
	store := testutil.TempStore(t)
	rec, err := store.BeginBuild("foo_a1b2c3d4")
	require.NoError(t, err)
	testutil.WriteExecutable(t, rec.BinDir(), "node", "#!/bin/sh\n")

	_, err = store.BeginBuild("foo_a1b2c3d4")
	require.NoError(t, err)

	_, statErr := os.Stat(filepath.Join(rec.BinDir(), "node"))
	assert.NoError(t, statErr)
}

func TestMarkReady_RoundTrip(t *testing.T) {
	store := testutil.TempStore(t)
	_, err := store.BeginBuild("foo_a1b2c3d4")
	require.NoError(t, err)

	assert.False(t, store.IsReady("foo_a1b2c3d4"))
	require.NoError(t, store.MarkReady("foo_a1b2c3d4"))
	assert.True(t, store.IsReady("foo_a1b2c3d4"))

	rec, err := store.Open("foo_a1b2c3d4")
	require.NoError(t, err)
	assert.True(t, rec.Ready)
}

func TestMarkReady_UnknownRecord(t *testing.T) {
	store := testutil.TempStore(t)

	err := store.MarkReady("ghost_00000000")

	assert.ErrorIs(t, err, envstore.ErrNotFound)
}

func TestClearReady(t *testing.T) {
	store := testutil.TempStore(t)
	_, err := store.BeginBuild("foo_a1b2c3d4")
	require.NoError(t, err)
	require.NoError(t, store.MarkReady("foo_a1b2c3d4"))

	require.NoError(t, store.ClearReady("foo_a1b2c3d4"))
	assert.False(t, store.IsReady("foo_a1b2c3d4"))

	// 이미 없는 sentinel 제거는 에러가 아니다.
	require.NoError(t, store.ClearReady("foo_a1b2c3d4"))
}

func TestPostSetupMarker(t *testing.T) {
	store := testutil.TempStore(t)
	_, err := store.BeginBuild("foo_a1b2c3d4")
	require.NoError(t, err)

	assert.False(t, store.PostSetupDone("foo_a1b2c3d4"))
	require.NoError(t, store.MarkPostSetupDone("foo_a1b2c3d4"))
	assert.True(t, store.PostSetupDone("foo_a1b2c3d4"))
}

func TestList_EmptyStore(t *testing.T) {
	store := testutil.TempStore(t)

	records, err := store.List()

	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestList_SortedByID(t *testing.T) {
	store := testutil.TempStore(t)
	for _, id := range []string{"zeta_00000001", "alpha_00000002", "mid_00000003"} {
		_, err := store.BeginBuild(id)
		require.NoError(t, err)
	}

	records, err := store.List()

	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "alpha_00000002", records[0].ID)
	assert.Equal(t, "mid_00000003", records[1].ID)
	assert.Equal(t, "zeta_00000001", records[2].ID)
}

func TestPackageMeta_RoundTrip(t *testing.T) {
	store := testutil.TempStore(t)
	rec, err := store.BeginBuild("foo_a1b2c3d4")
	require.NoError(t, err)

	meta := envstore.PackageMeta{
		Name:        "node",
		Version:     "20.11.0",
		InstalledAt: "2026-08-26T00:00:00Z",
		Binaries:    []string{"node", "npm"},
	}
	require.NoError(t, store.WritePackageMeta("foo_a1b2c3d4", meta))

	metas := rec.Packages()
	require.Len(t, metas, 1)
	assert.Equal(t, "node", metas[0].Name)
	assert.Equal(t, "20.11.0", metas[0].Version)
	assert.Equal(t, []string{"node", "npm"}, metas[0].Binaries)

	// 레이아웃: pkgs/<name>/v<version>/metadata.json
	_, statErr := os.Stat(filepath.Join(rec.PkgsDir(), "node", "v20.11.0", "metadata.json"))
	assert.NoError(t, statErr)
}

func TestPackages_SkipsCorruptMetadata(t *testing.T) {
	store := testutil.TempStore(t)
	rec, err := store.BeginBuild("foo_a1b2c3d4")
	require.NoError(t, err)
	require.NoError(t, store.WritePackageMeta("foo_a1b2c3d4", envstore.PackageMeta{Name: "node", Version: "20"}))

	broken := filepath.Join(rec.PkgsDir(), "bad", "v1")
	require.NoError(t, os.MkdirAll(broken, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(broken, "metadata.json"), []byte("{not json"), 0644))

	metas := rec.Packages()
	require.Len(t, metas, 1)
	assert.Equal(t, "node", metas[0].Name)
}

func TestBinaries(t *testing.T) {
	store := testutil.TempStore(t)
	rec, err := store.BeginBuild("foo_a1b2c3d4")
	require.NoError(t, err)

	testutil.WriteExecutable(t, rec.BinDir(), "node", "#!/bin/sh\n")
	testutil.WriteExecutable(t, rec.SbinDir(), "pg_ctl", "#!/bin/sh\n")
	// 실행 비트 없는 파일은 바이너리로 세지 않는다.
	require.NoError(t, os.WriteFile(filepath.Join(rec.BinDir(), "README"), []byte("docs"), 0644))

	assert.Equal(t, []string{"node", "pg_ctl"}, rec.Binaries())
}

func TestHealthy(t *testing.T) {
	store := testutil.TempStore(t)
	rec, err := store.BeginBuild("foo_a1b2c3d4")
	require.NoError(t, err)

	// 패키지 없음 — healthy.
	assert.True(t, rec.Healthy())

	// 패키지는 있는데 바이너리가 없음 — unhealthy (진단 신호).
	require.NoError(t, store.WritePackageMeta("foo_a1b2c3d4", envstore.PackageMeta{Name: "node", Version: "20"}))
	assert.False(t, rec.Healthy())

	// 바이너리가 생기면 다시 healthy.
	testutil.WriteExecutable(t, rec.BinDir(), "node", "#!/bin/sh\n")
	assert.True(t, rec.Healthy())
}

func TestSizeAndEmpty(t *testing.T) {
	store := testutil.TempStore(t)
	rec, err := store.BeginBuild("foo_a1b2c3d4")
	require.NoError(t, err)

	assert.True(t, rec.Empty())
	assert.Equal(t, int64(0), rec.Size())

	testutil.WriteExecutable(t, rec.BinDir(), "node", "#!/bin/sh\nexit 0\n")
	assert.False(t, rec.Empty())
	assert.Greater(t, rec.Size(), int64(0))
}

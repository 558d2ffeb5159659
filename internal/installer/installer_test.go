package installer_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/hbjs97/denv/internal/installer"
	"github.com/hbjs97/denv/internal/manifest"
	"github.com/hbjs97/denv/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandInstaller_InvokesFetchCommand(t *testing.T) {
	fake := testutil.NewFakeCommander()
	fake.Register("fetchtool node 20.11.0", "ok", nil)
	inst := &installer.CommandInstaller{
		Commander:    fake,
		FetchCommand: "fetchtool",
		Env:          map[string]string{"MIRROR": "https://mirror.example.com"},
	}

	err := inst.Install(context.Background(), manifest.Package{Name: "node", Version: "20.11.0"}, "/tmp/dest")

	require.NoError(t, err)
	assert.True(t, fake.Called("fetchtool node 20.11.0 /tmp/dest"))
	// manifest env가 fetch 명령에 전달된다.
	require.Len(t, fake.EnvCalls, 1)
	assert.Equal(t, "https://mirror.example.com", fake.EnvCalls[0]["MIRROR"])
}

// interactive 모드에서는 stdio를 연결한 실행 경로를 탄다 — 프롬프트를
// 띄우는 fetch 도구는 출력 캡처 모드에서는 멈춰 버린다.
func TestCommandInstaller_InteractiveMode(t *testing.T) {
	fake := testutil.NewFakeCommander()
	fake.DefaultResponse = &testutil.Response{}
	inst := &installer.CommandInstaller{
		Commander:    fake,
		FetchCommand: "fetchtool",
		Interactive:  true,
	}

	err := inst.Install(context.Background(), manifest.Package{Name: "node", Version: "20"}, "/tmp/dest")

	require.NoError(t, err)
	require.Len(t, fake.InteractiveCalls, 1)
	assert.Equal(t, "fetchtool node 20 /tmp/dest", fake.InteractiveCalls[0])
}

func TestCommandInstaller_InteractiveFailureWrapsErrInstall(t *testing.T) {
	fake := testutil.NewFakeCommander()
	fake.Register("fetchtool node", "", errors.New("declined"))
	inst := &installer.CommandInstaller{Commander: fake, FetchCommand: "fetchtool", Interactive: true}

	err := inst.Install(context.Background(), manifest.Package{Name: "node"}, "/tmp/dest")

	assert.ErrorIs(t, err, installer.ErrInstall)
}

func TestCommandInstaller_FailureWrapsErrInstall(t *testing.T) {
	fake := testutil.NewFakeCommander()
	fake.Register("fetchtool node", "download failed", errors.New("exit 1"))
	inst := &installer.CommandInstaller{Commander: fake, FetchCommand: "fetchtool"}

	err := inst.Install(context.Background(), manifest.Package{Name: "node"}, "/tmp/dest")

	assert.ErrorIs(t, err, installer.ErrInstall)
	assert.Contains(t, err.Error(), "node")
}

func TestCommandInstaller_MissingFetchCommand(t *testing.T) {
	inst := &installer.CommandInstaller{Commander: testutil.NewFakeCommander()}

	err := inst.Install(context.Background(), manifest.Package{Name: "node"}, "/tmp/dest")

	assert.ErrorIs(t, err, installer.ErrInstall)
}

func TestCommandInstaller_DefaultVersionIsLatest(t *testing.T) {
	fake := testutil.NewFakeCommander()
	fake.DefaultResponse = &testutil.Response{}
	inst := &installer.CommandInstaller{Commander: fake, FetchCommand: "fetchtool"}

	require.NoError(t, inst.Install(context.Background(), manifest.Package{Name: "node"}, "/d"))

	assert.True(t, fake.Called("fetchtool node latest"))
}

func TestTestInstaller_CreatesDummyBinary(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "pkgs", "node", "v20")

	err := (&installer.TestInstaller{}).Install(context.Background(), manifest.Package{Name: "node", Version: "20"}, dest)

	require.NoError(t, err)
	info, statErr := os.Stat(filepath.Join(dest, "bin", "node"))
	require.NoError(t, statErr)
	assert.NotZero(t, info.Mode()&0111)
}

package resolver_test

import (
	"testing"

	"github.com/hbjs97/denv/internal/identity"
	"github.com/hbjs97/denv/internal/resolver"
	"github.com/hbjs97/denv/internal/shell"
	"github.com/hbjs97/denv/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func emptySession() *shell.Session {
	return shell.LoadSession(func(string) (string, bool) { return "", false })
}

func activeSession(id string) *shell.Session {
	s := emptySession()
	s.EnvID = id
	return s
}

func TestResolve_ReadyRecord(t *testing.T) {
	store := testutil.TempStore(t)
	dir := testutil.TempProject(t, "[[packages]]\nname = \"node\"\n")
	id := testutil.BuildReadyEnv(t, store, dir, "node")

	d := resolver.New(store).Resolve(dir, emptySession())

	assert.Equal(t, resolver.ActionActivate, d.Action)
	assert.Equal(t, id, d.ID)
	assert.Equal(t, "ready", d.Reason)
	require.NotEmpty(t, d.EnvRoot)
}

func TestResolve_SameIdentityIsNoop(t *testing.T) {
	store := testutil.TempStore(t)
	dir := testutil.TempProject(t, "[[packages]]\nname = \"node\"\n")
	id := testutil.BuildReadyEnv(t, store, dir, "node")

	d := resolver.New(store).Resolve(dir, activeSession(id))

	assert.Equal(t, resolver.ActionNone, d.Action)
	assert.Equal(t, "active_noop", d.Reason)
}

func TestResolve_ManifestButNotBuilt(t *testing.T) {
	store := testutil.TempStore(t)
	dir := testutil.TempProject(t, "[[packages]]\nname = \"node\"\n")

	d := resolver.New(store).Resolve(dir, emptySession())

	// 수동적 hook 경로는 설치를 촉발하지 않고 조용히 Inactive로 남는다.
	assert.Equal(t, resolver.ActionNone, d.Action)
	assert.Equal(t, "not_built", d.Reason)
}

func TestResolve_UnreadyBuildIsNotActivated(t *testing.T) {
	store := testutil.TempStore(t)
	dir := testutil.TempProject(t, "[[packages]]\nname = \"node\"\n")

	// skeleton은 있지만 sentinel이 없다 — crash 후 부분 빌드 상황.
	id := identity.Resolve(dir).ID()
	_, err := store.BeginBuild(id)
	require.NoError(t, err)

	d := resolver.New(store).Resolve(dir, emptySession())

	assert.NotEqual(t, resolver.ActionActivate, d.Action, "sentinel 없는 환경은 fast path 부적격")
	assert.Equal(t, "not_built", d.Reason)
}

func TestResolve_EnteringUnbuiltProjectDeactivatesPrevious(t *testing.T) {
	store := testutil.TempStore(t)
	dir := testutil.TempProject(t, "[[packages]]\nname = \"node\"\n")

	d := resolver.New(store).Resolve(dir, activeSession("other_11111111"))

	assert.Equal(t, resolver.ActionDeactivate, d.Action)
	assert.Equal(t, "not_built", d.Reason)
}

func TestResolve_LeavingProjectDeactivates(t *testing.T) {
	store := testutil.TempStore(t)
	plain := t.TempDir()

	d := resolver.New(store).Resolve(plain, activeSession("foo_a1b2c3d4"))

	assert.Equal(t, resolver.ActionDeactivate, d.Action)
	assert.Equal(t, "left_project", d.Reason)
}

func TestResolve_PlainDirInactive(t *testing.T) {
	store := testutil.TempStore(t)

	d := resolver.New(store).Resolve(t.TempDir(), emptySession())

	assert.Equal(t, resolver.ActionNone, d.Action)
	assert.Equal(t, "no_project", d.Reason)
}

func TestResolve_SwitchBetweenReadyProjects(t *testing.T) {
	store := testutil.TempStore(t)
	dirA := testutil.TempProject(t, "[[packages]]\nname = \"tool\"\n")
	dirB := testutil.TempProject(t, "[[packages]]\nname = \"tool\"\n")
	idA := testutil.BuildReadyEnv(t, store, dirA, "tool")
	idB := testutil.BuildReadyEnv(t, store, dirB, "tool")
	require.NotEqual(t, idA, idB)

	d := resolver.New(store).Resolve(dirB, activeSession(idA))

	assert.Equal(t, resolver.ActionActivate, d.Action)
	assert.Equal(t, idB, d.ID)
}

package shell_test

import (
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"testing"

	"github.com/hbjs97/denv/internal/shell"
	"github.com/hbjs97/denv/internal/stub"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mapLookup(env map[string]string) shell.LookupFunc {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

// applyPosix는 생성된 posix 구문(export K="V" / unset K)을 환경 map에
// 적용한다. 이 패키지가 생성하는 형태만 처리하면 된다.
func applyPosix(t *testing.T, env map[string]string, script string) {
	t.Helper()
	for _, line := range strings.Split(script, "\n") {
		switch {
		case strings.HasPrefix(line, "export "):
			kv := strings.SplitN(strings.TrimPrefix(line, "export "), "=", 2)
			require.Len(t, kv, 2, "잘못된 export 구문: %s", line)
			val, err := strconv.Unquote(kv[1])
			require.NoError(t, err, "잘못된 값 quoting: %s", line)
			env[kv[0]] = val
		case strings.HasPrefix(line, "unset "):
			delete(env, strings.TrimPrefix(line, "unset "))
		case line == "":
		default:
			t.Fatalf("예상 밖의 구문: %s", line)
		}
	}
}

func libVar() string {
	// PATH 다음의 플랫폼별 링커 변수 하나.
	return stub.IsolatedVars()[1]
}

func TestActivate_PrependsEnvDirs(t *testing.T) {
	env := map[string]string{"PATH": "/usr/bin:/bin"}
	sess := shell.LoadSession(mapLookup(env))

	out := shell.Activate(sess, "foo_a1b2c3d4", "/base/envs/foo_a1b2c3d4", "bash", mapLookup(env))
	applyPosix(t, env, out)

	assert.Equal(t, "/base/envs/foo_a1b2c3d4/bin:/base/envs/foo_a1b2c3d4/sbin:/usr/bin:/bin", env["PATH"])
	assert.Equal(t, "foo_a1b2c3d4", env[shell.EnvIDVar])
	assert.Equal(t, "/base/envs/foo_a1b2c3d4/bin", env[shell.EnvBinVar])
	// shadow에 원래 값이 보존된다.
	assert.Equal(t, "/usr/bin:/bin", env[shell.ShadowPrefix+"PATH"])
	assert.Equal(t, "1", env[shell.ShadowPrefix+"PATH_SET"])
}

func TestActivate_UnsetVarShadowedAsUnset(t *testing.T) {
	env := map[string]string{"PATH": "/usr/bin"}
	// 링커 변수는 의도적으로 unset 상태다.
	sess := shell.LoadSession(mapLookup(env))

	out := shell.Activate(sess, "foo_a1b2c3d4", "/e", "bash", mapLookup(env))
	applyPosix(t, env, out)

	assert.Equal(t, "0", env[shell.ShadowPrefix+libVar()+"_SET"])
	// 밑바탕 값이 없으면 overlay 디렉토리만으로 구성되고 콜론이 붙지 않는다.
	assert.Equal(t, "/e/lib", env[libVar()])
}

func TestActivate_Idempotent(t *testing.T) {
	env := map[string]string{"PATH": "/usr/bin:/bin"}
	sess := shell.LoadSession(mapLookup(env))
	applyPosix(t, env, shell.Activate(sess, "foo_a1b2c3d4", "/e", "bash", mapLookup(env)))

	before := fmt.Sprintf("%v", env)
	sess2 := shell.LoadSession(mapLookup(env))
	out := shell.Activate(sess2, "foo_a1b2c3d4", "/e", "bash", mapLookup(env))

	// 같은 id가 이미 활성 — 출력이 없어야 하고 상태도 그대로여야 한다.
	assert.Empty(t, out)
	applyPosix(t, env, out)
	assert.Equal(t, before, fmt.Sprintf("%v", env))
}

func TestDeactivate_RoundTripRestoration(t *testing.T) {
	original := map[string]string{"PATH": "/usr/bin:/bin", "HOME": "/home/u"}
	env := map[string]string{"PATH": "/usr/bin:/bin", "HOME": "/home/u"}

	sess := shell.LoadSession(mapLookup(env))
	applyPosix(t, env, shell.Activate(sess, "foo_a1b2c3d4", "/e", "bash", mapLookup(env)))
	require.NotEqual(t, original["PATH"], env["PATH"])

	sess2 := shell.LoadSession(mapLookup(env))
	applyPosix(t, env, shell.Deactivate(sess2, "bash"))

	// 모든 격리 변수가 활성화 이전 값으로 정확히 복원되어야 한다.
	// "unset이었다"는 빈 문자열이 아니라 unset으로 복원된다.
	assert.Equal(t, original, env)
}

func TestDeactivate_InactiveIsNoop(t *testing.T) {
	env := map[string]string{"PATH": "/usr/bin"}
	sess := shell.LoadSession(mapLookup(env))

	assert.Empty(t, shell.Deactivate(sess, "bash"))
}

// 스펙 §8 시나리오: /tmp/a 활성화 후 /tmp/b 활성화 — PATH는 b의 복사본만
// 가리켜야 하고, 비활성화하면 세션 원본 PATH가 온전히 복원돼야 한다.
func TestActivate_SwitchBetweenProjects(t *testing.T) {
	env := map[string]string{"PATH": "/usr/bin:/bin"}

	sess := shell.LoadSession(mapLookup(env))
	applyPosix(t, env, shell.Activate(sess, "a_11111111", "/base/envs/a_11111111", "bash", mapLookup(env)))
	require.True(t, strings.HasPrefix(env["PATH"], "/base/envs/a_11111111/bin:"))

	sess = shell.LoadSession(mapLookup(env))
	applyPosix(t, env, shell.Activate(sess, "b_22222222", "/base/envs/b_22222222", "bash", mapLookup(env)))

	assert.True(t, strings.HasPrefix(env["PATH"], "/base/envs/b_22222222/bin:"))
	assert.NotContains(t, env["PATH"], "a_11111111", "이전 환경의 overlay가 남으면 안 된다")
	assert.Equal(t, "b_22222222", env[shell.EnvIDVar])

	sess = shell.LoadSession(mapLookup(env))
	applyPosix(t, env, shell.Deactivate(sess, "bash"))
	assert.Equal(t, "/usr/bin:/bin", env["PATH"])
	_, hasID := env[shell.EnvIDVar]
	assert.False(t, hasID)
}

// 생성된 posix 구문을 실제 sh로 평가해 문법을 검증한다.
func TestActivate_OutputIsValidSh(t *testing.T) {
	env := map[string]string{"PATH": "/usr/bin:/bin"}
	sess := shell.LoadSession(mapLookup(env))
	out := shell.Activate(sess, "foo_a1b2c3d4", "/base/envs/foo_a1b2c3d4", "bash", mapLookup(env))

	script := out + "\nprintf '%s' \"$PATH\"\n"
	got, err := exec.Command("sh", "-c", script).Output()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(got), "/base/envs/foo_a1b2c3d4/bin:"))
}

func TestActivate_FishSyntax(t *testing.T) {
	env := map[string]string{"PATH": "/usr/bin"}
	sess := shell.LoadSession(mapLookup(env))

	out := shell.Activate(sess, "foo_a1b2c3d4", "/e", "fish", mapLookup(env))

	assert.Contains(t, out, `set -gx DENV_ENV_ID "foo_a1b2c3d4"`)
	assert.NotContains(t, out, "export ")
}

func TestDeactivate_FishSyntax(t *testing.T) {
	env := map[string]string{
		"PATH":                          "/e/bin:/usr/bin",
		shell.EnvIDVar:                  "foo_a1b2c3d4",
		shell.EnvBinVar:                 "/e/bin",
		shell.ShadowPrefix + "PATH":     "/usr/bin",
		shell.ShadowPrefix + "PATH_SET": "1",
	}
	sess := shell.LoadSession(mapLookup(env))

	out := shell.Deactivate(sess, "fish")

	assert.Contains(t, out, `set -gx PATH "/usr/bin"`)
	assert.Contains(t, out, "set -e DENV_ENV_ID")
}

func TestLoadSession(t *testing.T) {
	env := map[string]string{
		shell.EnvIDVar:                  "foo_a1b2c3d4",
		shell.EnvBinVar:                 "/e/bin",
		shell.ShadowPrefix + "PATH":     "/usr/bin",
		shell.ShadowPrefix + "PATH_SET": "1",
	}

	sess := shell.LoadSession(mapLookup(env))

	assert.True(t, sess.Active())
	assert.Equal(t, "foo_a1b2c3d4", sess.EnvID)
	assert.Equal(t, shell.Shadow{Value: "/usr/bin", WasSet: true}, sess.Shadows["PATH"])
	assert.False(t, sess.Shadows[libVar()].WasSet)
}

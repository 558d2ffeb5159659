// Package stub generates POSIX shell stub scripts that route bare command
// names to binaries inside managed environments.
package stub

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// VarOverlay는 stub/activation이 격리하는 search-path 변수 하나와,
// 그 앞에 끼워 넣을 환경 디렉토리 목록이다.
type VarOverlay struct {
	Name string
	Dirs []string
}

// Overlays는 envRoot 기준의 격리 변수 목록을 반환한다.
// PATH는 항상 포함되고, 동적 링커 변수는 플랫폼에 따라 달라진다.
func Overlays(envRoot string) []VarOverlay {
	binDirs := []string{
		filepath.Join(envRoot, "bin"),
		filepath.Join(envRoot, "sbin"),
	}
	libDirs := []string{filepath.Join(envRoot, "lib")}

	overlays := []VarOverlay{{Name: "PATH", Dirs: binDirs}}
	switch runtime.GOOS {
	case "darwin":
		overlays = append(overlays,
			VarOverlay{Name: "DYLD_LIBRARY_PATH", Dirs: libDirs},
			VarOverlay{Name: "DYLD_FALLBACK_LIBRARY_PATH", Dirs: libDirs},
		)
	default:
		overlays = append(overlays, VarOverlay{Name: "LD_LIBRARY_PATH", Dirs: libDirs})
	}
	return overlays
}

// IsolatedVars는 격리 대상 변수 이름 목록만 반환한다.
func IsolatedVars() []string {
	overlays := Overlays("")
	names := make([]string, len(overlays))
	for i, o := range overlays {
		names[i] = o.Name
	}
	return names
}

// isolationBlock은 각 격리 변수의 기존 값을 shadow 변수에 보존한 뒤
// 환경 디렉토리를 앞에 붙여 export하는 셸 코드 조각을 만든다.
// 감싸진 바이너리가 호출자의 원래 PATH에 있던 협력 도구를 계속 찾을 수
// 있으면서도 환경 자체 복사본이 우선하게 된다.
// shadow가 비어 있으면 `:$shadow`를 붙이지 않는다 — PATH의 빈 원소는
// POSIX에서 현재 디렉토리로 해석된다.
func isolationBlock(envRoot string) string {
	var b strings.Builder
	for _, o := range Overlays(envRoot) {
		shadow := "DENV_STUB_OLD_" + o.Name
		fmt.Fprintf(&b, "%s=\"${%s:-}\"\n", shadow, o.Name)
		fmt.Fprintf(&b, "export %s=\"%s${%s:+:$%s}\"\n", o.Name, strings.Join(o.Dirs, ":"), shadow, shadow)
	}
	return b.String()
}

// LocalScript는 프로젝트 전용 stub 스크립트 본문을 생성한다.
// 환경 디렉토리 안의 완전한 경로를 무조건 exec한다 — 서브셸이 아니라
// exec이므로 시그널이 그대로 전달되고 wrapper 프로세스가 남지 않는다.
func LocalScript(envRoot, envID, name, target string) string {
	return fmt.Sprintf(`#!/bin/sh
# denv local stub: %s (env %s)
%sexec %q "$@"
`, name, envID, isolationBlock(envRoot), target)
}

// WriteLocal은 local stub을 <envRoot>/bin/<name>에 기록한다.
func WriteLocal(envRoot, envID, name, target string) (string, error) {
	path := filepath.Join(envRoot, "bin", name)
	if err := os.WriteFile(path, []byte(LocalScript(envRoot, envID, name, target)), 0755); err != nil {
		return "", fmt.Errorf("stub.WriteLocal: %w", err)
	}
	return path, nil
}

// GlobalScript는 전역 stub 스크립트 본문을 생성한다. 해석 체인:
//  1. 전역 환경의 기대 경로에 실행 파일이 있으면 그대로 사용
//  2. 전역 bin/과 sbin/ 탐색
//  3. denv가 PATH에 있으면 best-effort 재설치 후 1을 한 번 재시도
//     (비정상 종료는 다음 단계로 fall through — 절대 멈춰 있지 않는다)
//  4. 시스템 PATH에서 같은 이름을 탐색하되 stub 자기 자신은 제외
//  5. 전부 실패하면 stderr 진단 + exit 127
//
// 전역 stub은 어떤 프로젝트별 경로도 참조하지 않는다 — 어느 프로젝트의
// 셸에서 호출되어도 동일하게 동작해야 한다.
func GlobalScript(globalRoot, stubDir, name string) string {
	return fmt.Sprintf(`#!/bin/sh
# denv global stub: %[1]s
target=""
if [ -x %[2]q/bin/%[1]s ]; then
  target="%[2]s/bin/%[1]s"
fi
if [ -z "$target" ]; then
  for d in %[2]q/bin %[2]q/sbin; do
    if [ -x "$d/%[1]s" ]; then
      target="$d/%[1]s"
      break
    fi
  done
fi
if [ -z "$target" ] && [ "${DENV_TEST_MODE:-0}" != "1" ] && command -v denv >/dev/null 2>&1; then
  denv install --global >/dev/null 2>&1 || true
  if [ -x %[2]q/bin/%[1]s ]; then
    target="%[2]s/bin/%[1]s"
  fi
fi
if [ -z "$target" ]; then
  # search the system PATH, skipping this stub itself
  self="%[3]s/%[1]s"
  oldifs="${IFS}"
  IFS=:
  for d in $PATH; do
    [ -n "$d" ] || continue
    cand="$d/%[1]s"
    [ -x "$cand" ] || continue
    [ "$cand" = "$self" ] && continue
    target="$cand"
    break
  done
  IFS="${oldifs}"
fi
if [ -z "$target" ]; then
  echo "denv: %[1]s: not found in the denv global environment or on PATH" >&2
  exit 127
fi
%[4]sexec "$target" "$@"
`, name, globalRoot, stubDir, isolationBlock(globalRoot))
}

// WriteGlobal은 전역 stub을 stubDir/<name>에 기록한다.
func WriteGlobal(globalRoot, stubDir, name string) (string, error) {
	if err := os.MkdirAll(stubDir, 0755); err != nil {
		return "", fmt.Errorf("stub.WriteGlobal: %w", err)
	}
	path := filepath.Join(stubDir, name)
	if err := os.WriteFile(path, []byte(GlobalScript(globalRoot, stubDir, name)), 0755); err != nil {
		return "", fmt.Errorf("stub.WriteGlobal: %w", err)
	}
	return path, nil
}

// DefaultGlobalBinDirs는 전역 stub 설치 후보 디렉토리의 우선순위 목록이다.
func DefaultGlobalBinDirs() []string {
	var dirs []string
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, ".local", "bin"))
	}
	return append(dirs, "/usr/local/bin")
}

// PickGlobalBinDir는 후보 중 처음으로 쓰기 가능한 디렉토리를 반환한다.
// 첫 후보는 없으면 생성을 시도한다.
func PickGlobalBinDir(candidates []string) (string, error) {
	for i, dir := range candidates {
		if i == 0 {
			_ = os.MkdirAll(dir, 0755)
		}
		if writable(dir) {
			return dir, nil
		}
	}
	return "", fmt.Errorf("stub.PickGlobalBinDir: 쓰기 가능한 전역 bin 디렉토리 없음: %v", candidates)
}

func writable(dir string) bool {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return false
	}
	f, err := os.CreateTemp(dir, ".denv-probe-*")
	if err != nil {
		return false
	}
	name := f.Name()
	_ = f.Close()
	_ = os.Remove(name)
	return true
}

package doctor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hbjs97/denv/internal/cmdexec"
	"github.com/hbjs97/denv/internal/envstore"
	"github.com/hbjs97/denv/internal/stub"
)

// Status는 진단 결과 상태다.
type Status string

const (
	// StatusOK는 정상 상태다.
	StatusOK Status = "OK"
	// StatusWarn는 경고 상태다.
	StatusWarn Status = "WARN"
	// StatusFail는 실패 상태다.
	StatusFail Status = "FAIL"
)

// DiagResult는 하나의 진단 결과다.
type DiagResult struct {
	Name    string
	Status  Status
	Message string
	Fix     string
}

// CheckPosixShell은 stub과 hook이 의존하는 /bin/sh 실행 가능 여부를 확인한다.
func CheckPosixShell(ctx context.Context, cmd cmdexec.Commander) DiagResult {
	if _, err := cmd.Run(ctx, "sh", "-c", "true"); err != nil {
		return DiagResult{
			Name:    "sh",
			Status:  StatusFail,
			Message: "POSIX sh 실행 불가",
			Fix:     "/bin/sh가 있는지 확인하세요",
		}
	}
	return DiagResult{Name: "sh", Status: StatusOK, Message: "POSIX sh 사용 가능"}
}

// CheckBaseDir는 환경 저장소 루트의 존재/쓰기 가능 여부를 확인한다.
// 아직 없는 것은 실패가 아니다 — 첫 install이 생성한다.
func CheckBaseDir(baseDir string) DiagResult {
	info, err := os.Stat(baseDir)
	if os.IsNotExist(err) {
		return DiagResult{
			Name:    "base_dir",
			Status:  StatusWarn,
			Message: fmt.Sprintf("%s 없음 (첫 denv install이 생성)", baseDir),
		}
	}
	if err != nil || !info.IsDir() {
		return DiagResult{
			Name:    "base_dir",
			Status:  StatusFail,
			Message: fmt.Sprintf("%s 접근 불가", baseDir),
			Fix:     "권한과 경로를 확인하세요",
		}
	}
	probe, err := os.CreateTemp(baseDir, ".denv-probe-*")
	if err != nil {
		return DiagResult{
			Name:    "base_dir",
			Status:  StatusFail,
			Message: fmt.Sprintf("%s 쓰기 불가", baseDir),
			Fix:     fmt.Sprintf("chmod u+w %s", baseDir),
		}
	}
	name := probe.Name()
	_ = probe.Close()
	_ = os.Remove(name)
	return DiagResult{Name: "base_dir", Status: StatusOK, Message: fmt.Sprintf("%s 쓰기 가능", baseDir)}
}

// CheckGlobalBinDir는 전역 stub 설치 디렉토리가 확보 가능한지, PATH에
// 올라 있는지 확인한다.
func CheckGlobalBinDir(candidates []string, pathVar string) DiagResult {
	dir, err := stub.PickGlobalBinDir(candidates)
	if err != nil {
		return DiagResult{
			Name:    "global_bin",
			Status:  StatusFail,
			Message: "쓰기 가능한 전역 bin 디렉토리 없음",
			Fix:     fmt.Sprintf("후보 중 하나를 생성하세요: %s", strings.Join(candidates, ", ")),
		}
	}
	for _, p := range filepath.SplitList(pathVar) {
		if p == dir {
			return DiagResult{Name: "global_bin", Status: StatusOK, Message: fmt.Sprintf("%s (PATH 포함)", dir)}
		}
	}
	return DiagResult{
		Name:    "global_bin",
		Status:  StatusWarn,
		Message: fmt.Sprintf("%s가 PATH에 없음 — 전역 stub이 보이지 않는다", dir),
		Fix:     fmt.Sprintf("PATH에 %s를 추가하세요", dir),
	}
}

// CheckShellHook은 RC 파일에 denv hook이 설치돼 있는지 확인한다.
func CheckShellHook(rcPath string) DiagResult {
	data, err := os.ReadFile(rcPath)
	if err != nil || !strings.Contains(string(data), "denv shell integration") {
		return DiagResult{
			Name:    "shell_hook",
			Status:  StatusWarn,
			Message: fmt.Sprintf("%s에 denv hook 없음", rcPath),
			Fix:     "denv setup 실행",
		}
	}
	return DiagResult{Name: "shell_hook", Status: StatusOK, Message: fmt.Sprintf("%s에 hook 설치됨", rcPath)}
}

// CheckStaleBuilds는 sentinel 없이 남아 있는 부분 빌드를 찾는다.
// fast path 부적격 상태가 계속되면 재빌드가 답이다.
func CheckStaleBuilds(store *envstore.Store) DiagResult {
	records, err := store.List()
	if err != nil {
		return DiagResult{
			Name:    "stale_builds",
			Status:  StatusFail,
			Message: fmt.Sprintf("환경 목록 조회 실패: %v", err),
		}
	}
	var stale []string
	for _, rec := range records {
		if !rec.Ready {
			stale = append(stale, rec.ID)
		}
	}
	if len(stale) > 0 {
		return DiagResult{
			Name:    "stale_builds",
			Status:  StatusWarn,
			Message: fmt.Sprintf("미완료 빌드 %d개: %s", len(stale), strings.Join(stale, ", ")),
			Fix:     "해당 프로젝트에서 denv install 재실행 또는 denv remove",
		}
	}
	return DiagResult{Name: "stale_builds", Status: StatusOK, Message: "미완료 빌드 없음"}
}

// CheckUnhealthy는 패키지는 있는데 바이너리가 없는 레코드를 찾는다.
// 진단 신호일 뿐 에러가 아니다.
func CheckUnhealthy(store *envstore.Store) DiagResult {
	records, err := store.List()
	if err != nil {
		return DiagResult{
			Name:    "env_health",
			Status:  StatusFail,
			Message: fmt.Sprintf("환경 목록 조회 실패: %v", err),
		}
	}
	var unhealthy []string
	for _, rec := range records {
		if !rec.Healthy() {
			unhealthy = append(unhealthy, rec.ID)
		}
	}
	if len(unhealthy) > 0 {
		return DiagResult{
			Name:    "env_health",
			Status:  StatusWarn,
			Message: fmt.Sprintf("바이너리 없는 환경 %d개: %s", len(unhealthy), strings.Join(unhealthy, ", ")),
			Fix:     "denv install로 재빌드하세요",
		}
	}
	return DiagResult{Name: "env_health", Status: StatusOK, Message: "모든 환경 정상"}
}

// RunAll은 모든 진단을 실행한다.
func RunAll(ctx context.Context, cmd cmdexec.Commander, store *envstore.Store, baseDir, rcPath string) []DiagResult {
	return []DiagResult{
		CheckPosixShell(ctx, cmd),
		CheckBaseDir(baseDir),
		CheckGlobalBinDir(stub.DefaultGlobalBinDirs(), os.Getenv("PATH")),
		CheckShellHook(rcPath),
		CheckStaleBuilds(store),
		CheckUnhealthy(store),
	}
}

package setup

import (
	"context"
	"fmt"
	"os"

	"github.com/hbjs97/denv/internal/cmdexec"
	"github.com/hbjs97/denv/internal/doctor"
	"github.com/hbjs97/denv/internal/envstore"
)

// Runner는 interactive setup의 진입점이다.
type Runner struct {
	Commander  cmdexec.Commander
	FormRunner FormRunner
	Store      *envstore.Store
	BaseDir    string
	RCPath     string // 테스트용. 비어있으면 셸별 기본 경로.
}

// Run은 setup 플로우를 실행한다: 셸 선택 → hook 설치 → 진단.
func (r *Runner) Run(ctx context.Context) error {
	detected := DetectShell()
	shellType, err := r.FormRunner.RunShellSelect(detected, SupportedShells())
	if err != nil {
		return fmt.Errorf("setup.Run: %w", err)
	}

	rcPath := r.RCPath
	if rcPath == "" {
		rcPath = ShellRCPath(shellType)
	}
	if rcPath == "" {
		return fmt.Errorf("setup.Run: 지원하지 않는 셸: %s", shellType)
	}

	if HookInstalled(rcPath) {
		fmt.Fprintf(os.Stderr, "hook이 이미 설치되어 있습니다: %s\n", rcPath)
	} else {
		confirmed, err := r.FormRunner.RunConfirm(
			fmt.Sprintf("%s에 denv hook을 설치할까요?", rcPath))
		if err != nil {
			return fmt.Errorf("setup.Run: %w", err)
		}
		if !confirmed {
			fmt.Fprintln(os.Stderr, "설치가 취소되었습니다.")
			return nil
		}
		if err := InstallShellHook(shellType, rcPath); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "셸 hook이 설치되었습니다: %s\n", rcPath)
		fmt.Fprintln(os.Stderr, "새 셸을 열거나 RC 파일을 다시 source하세요.")
	}

	r.runDoctor(ctx, rcPath)
	return nil
}

// runDoctor는 설정 완료 후 환경 진단을 실행한다.
func (r *Runner) runDoctor(ctx context.Context, rcPath string) {
	fmt.Fprintln(os.Stderr, "\n환경 진단 실행 중...")
	results := doctor.RunAll(ctx, r.Commander, r.Store, r.BaseDir, rcPath)
	for _, res := range results {
		icon := "✓"
		if res.Status == doctor.StatusFail {
			icon = "✗"
		} else if res.Status == doctor.StatusWarn {
			icon = "!"
		}
		fmt.Fprintf(os.Stderr, "  [%s] %s: %s\n", icon, res.Name, res.Message)
		if res.Fix != "" {
			fmt.Fprintf(os.Stderr, "      Fix: %s\n", res.Fix)
		}
	}
}

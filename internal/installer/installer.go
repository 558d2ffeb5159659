// Package installer defines the fetcher/installer collaborator contract and
// the slow-path build pipeline that materializes an environment record.
package installer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hbjs97/denv/internal/cmdexec"
	"github.com/hbjs97/denv/internal/manifest"
)

// ErrInstall은 패키지 설치 실패를 나타내는 sentinel error다.
var ErrInstall = errors.New("패키지 설치 실패")

// Installer는 패키지 하나를 대상 디렉토리에 설치하는 collaborator 계약이다.
// slow path에서만 호출된다 — 수동적 hook 경로는 이 interface를 모른다.
type Installer interface {
	Install(ctx context.Context, pkg manifest.Package, destDir string) error
}

// CommandInstaller는 설정된 외부 fetch 명령으로 설치하는 구현이다.
// 명령 규약: <fetch_command> <name> <version> <destDir>.
type CommandInstaller struct {
	Commander    cmdexec.Commander
	FetchCommand string
	// Env는 manifest의 env map이다. fetch 명령 위에 merge된다.
	Env map[string]string
	// Interactive가 true면 stdio를 연결한 채 실행한다. 라이선스 동의
	// 프롬프트를 띄우는 fetch 도구는 출력 캡처 모드에서는 멈춰 버린다.
	Interactive bool
}

var _ Installer = (*CommandInstaller)(nil)

// Install은 fetch 명령을 실행한다. 비정상 종료는 해당 패키지의 실패이며
// 전체 빌드 중단 여부는 호출자가 결정한다.
func (c *CommandInstaller) Install(ctx context.Context, pkg manifest.Package, destDir string) error {
	if c.FetchCommand == "" {
		return fmt.Errorf("installer.Install: %w: fetch_command 미설정", ErrInstall)
	}
	if c.Interactive {
		if err := c.Commander.RunInteractiveWithEnv(ctx, c.Env, c.FetchCommand, pkg.Name, versionOf(pkg), destDir); err != nil {
			return fmt.Errorf("installer.Install: %w: %s: %v", ErrInstall, pkg.Name, err)
		}
		return nil
	}
	out, err := c.Commander.RunWithEnv(ctx, c.Env, c.FetchCommand, pkg.Name, versionOf(pkg), destDir)
	if err != nil {
		return fmt.Errorf("installer.Install: %w: %s: %v (%s)", ErrInstall, pkg.Name, err, out)
	}
	return nil
}

// TestInstaller는 DENV_TEST_MODE에서 쓰이는 구현이다. 네트워크를 전혀
// 건드리지 않고 dummy 실행 파일 하나를 만들어 파이프라인을 검증 가능하게
// 한다.
type TestInstaller struct{}

var _ Installer = (*TestInstaller)(nil)

// Install은 destDir/bin/<name>에 dummy 실행 파일을 만든다.
func (t *TestInstaller) Install(_ context.Context, pkg manifest.Package, destDir string) error {
	binDir := filepath.Join(destDir, "bin")
	if err := os.MkdirAll(binDir, 0755); err != nil {
		return fmt.Errorf("installer.Install: %w", err)
	}
	script := fmt.Sprintf("#!/bin/sh\necho %q\n", pkg.Name+" "+versionOf(pkg)+" (denv test mode)")
	if err := os.WriteFile(filepath.Join(binDir, pkg.Name), []byte(script), 0755); err != nil {
		return fmt.Errorf("installer.Install: %w", err)
	}
	return nil
}

func versionOf(pkg manifest.Package) string {
	if pkg.Version == "" {
		return "latest"
	}
	return pkg.Version
}

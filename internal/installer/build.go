package installer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/hbjs97/denv/internal/cmdexec"
	"github.com/hbjs97/denv/internal/envstore"
	"github.com/hbjs97/denv/internal/manifest"
	"github.com/hbjs97/denv/internal/stub"
)

// Pipeline은 환경 하나를 빌드하는 slow path orchestration이다.
type Pipeline struct {
	Store     *envstore.Store
	Installer Installer
	Commander cmdexec.Commander
	// GlobalRoot는 전역 패키지가 설치되는 루트다 (<base>/global).
	GlobalRoot string
	// GlobalBinDirs는 전역 stub 설치 후보 목록이다. 비어 있으면 전역
	// 패키지가 없는 빌드로 취급해도 된다.
	GlobalBinDirs []string
}

// PackageResult는 패키지 하나의 설치 결과다.
type PackageResult struct {
	Package manifest.Package
	Global  bool
	Err     error
}

// BuildResult는 빌드 전체의 요약이다.
type BuildResult struct {
	ID       string
	Packages []PackageResult
	Binaries []string
}

// Failed는 하나라도 실패한 패키지가 있는지 여부다.
func (r *BuildResult) Failed() bool {
	for _, p := range r.Packages {
		if p.Err != nil {
			return true
		}
	}
	return false
}

// BuildLocal은 프로젝트 환경 레코드를 빌드한다. 순서가 계약이다:
// skeleton → 패키지 설치 + metadata → stub 재생성 → 1회성 setup →
// readiness sentinel. sentinel 기록은 성공 빌드의 마지막 연산이므로
// 중간에 crash해도 거짓 ready 상태가 남지 않는다.
func (p *Pipeline) BuildLocal(ctx context.Context, id string, m *manifest.Manifest) (*BuildResult, error) {
	// 재빌드라면 기존 sentinel부터 지운다 — 빌드 중에는 fast path 부적격.
	if err := p.Store.ClearReady(id); err != nil {
		return nil, fmt.Errorf("installer.BuildLocal: %w", err)
	}
	rec, err := p.Store.BeginBuild(id)
	if err != nil {
		return nil, fmt.Errorf("installer.BuildLocal: %w", err)
	}

	result := &BuildResult{ID: id}
	for _, pkg := range m.LocalPackages() {
		destDir := filepath.Join(rec.PkgsDir(), pkg.Name, "v"+versionOf(pkg))
		installErr := p.Installer.Install(ctx, pkg, destDir)
		result.Packages = append(result.Packages, PackageResult{Package: pkg, Err: installErr})
		if installErr != nil {
			continue
		}

		binaries := executablesIn(filepath.Join(destDir, "bin"))
		meta := envstore.PackageMeta{
			Name:        pkg.Name,
			Version:     versionOf(pkg),
			InstalledAt: time.Now().UTC().Format(time.RFC3339),
			Binaries:    binaries,
		}
		if err := p.Store.WritePackageMeta(id, meta); err != nil {
			return result, fmt.Errorf("installer.BuildLocal: %w", err)
		}

		for _, bin := range binaries {
			target := filepath.Join(destDir, "bin", bin)
			if _, err := stub.WriteLocal(rec.Root, id, bin, target); err != nil {
				return result, fmt.Errorf("installer.BuildLocal: %w", err)
			}
			result.Binaries = append(result.Binaries, bin)
		}
	}

	if result.Failed() {
		// 부분 실패한 빌드는 ready로 표시하지 않는다. 다음 설치 시도가
		// 같은 skeleton 위에서 재개된다.
		return result, fmt.Errorf("installer.BuildLocal: %w: %d개 패키지 실패", ErrInstall, failedCount(result))
	}

	if len(m.Setup) > 0 {
		if err := p.runPostSetup(ctx, id, rec, m); err != nil {
			return result, err
		}
	}

	if err := p.Store.MarkReady(id); err != nil {
		return result, fmt.Errorf("installer.BuildLocal: %w", err)
	}
	return result, nil
}

// BuildGlobal은 manifest의 전역 패키지를 전역 환경에 설치하고 전역 stub을
// 기록한다. 전역 환경은 프로젝트 레코드와 독립적으로 유지된다.
func (p *Pipeline) BuildGlobal(ctx context.Context, m *manifest.Manifest) (*BuildResult, error) {
	globals := m.GlobalPackages()
	result := &BuildResult{}
	if len(globals) == 0 {
		return result, nil
	}

	stubDir, err := stub.PickGlobalBinDir(p.GlobalBinDirs)
	if err != nil {
		return nil, fmt.Errorf("installer.BuildGlobal: %w", err)
	}

	for _, pkg := range globals {
		destDir := filepath.Join(p.GlobalRoot, "pkgs", pkg.Name, "v"+versionOf(pkg))
		installErr := p.Installer.Install(ctx, pkg, destDir)
		result.Packages = append(result.Packages, PackageResult{Package: pkg, Global: true, Err: installErr})
		if installErr != nil {
			continue
		}

		for _, bin := range executablesIn(filepath.Join(destDir, "bin")) {
			// 전역 환경의 기대 경로(bin/<name>)로 실제 바이너리를 노출한다.
			if err := linkOrCopy(filepath.Join(destDir, "bin", bin), filepath.Join(p.GlobalRoot, "bin", bin)); err != nil {
				return result, fmt.Errorf("installer.BuildGlobal: %w", err)
			}
			if _, err := stub.WriteGlobal(p.GlobalRoot, stubDir, bin); err != nil {
				return result, fmt.Errorf("installer.BuildGlobal: %w", err)
			}
			result.Binaries = append(result.Binaries, bin)
		}
	}

	if result.Failed() {
		return result, fmt.Errorf("installer.BuildGlobal: %w: %d개 패키지 실패", ErrInstall, failedCount(result))
	}
	return result, nil
}

// runPostSetup은 manifest의 1회성 setup 명령을 실행한다.
// .post_setup_done marker로 멱등성을 보장한다.
func (p *Pipeline) runPostSetup(ctx context.Context, id string, rec *envstore.Record, m *manifest.Manifest) error {
	if p.Store.PostSetupDone(id) {
		return nil
	}
	env := make(map[string]string, len(m.Env)+1)
	for k, v := range m.Env {
		env[k] = v
	}
	// setup 명령은 방금 설치된 바이너리를 찾을 수 있어야 한다.
	env["PATH"] = rec.BinDir() + ":" + rec.SbinDir() + ":" + os.Getenv("PATH")

	for _, command := range m.Setup {
		if out, err := p.Commander.RunWithEnv(ctx, env, "sh", "-c", command); err != nil {
			return fmt.Errorf("installer.runPostSetup: %q: %v (%s)", command, err, out)
		}
	}
	if err := p.Store.MarkPostSetupDone(id); err != nil {
		return fmt.Errorf("installer.runPostSetup: %w", err)
	}
	return nil
}

func failedCount(r *BuildResult) int {
	n := 0
	for _, p := range r.Packages {
		if p.Err != nil {
			n++
		}
	}
	return n
}

func executablesIn(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if info, err := e.Info(); err == nil && info.Mode()&0111 != 0 {
			names = append(names, e.Name())
		}
	}
	return names
}

// linkOrCopy는 hardlink를 시도하고 실패하면 복사한다.
func linkOrCopy(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}
	_ = os.Remove(dst)
	if err := os.Link(src, dst); err == nil {
		return nil
	}
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return os.WriteFile(dst, data, 0755)
}

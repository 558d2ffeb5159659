package cli

import (
	"fmt"
	"os"

	"github.com/hbjs97/denv/internal/config"
	"github.com/hbjs97/denv/internal/identity"
	"github.com/hbjs97/denv/internal/installer"
	"github.com/hbjs97/denv/internal/manifest"
	"github.com/hbjs97/denv/internal/stub"
	"github.com/spf13/cobra"
)

// newInstallCmd는 slow path 진입점인 install 명령을 생성한다.
// 설치는 오직 이 명령으로만 일어난다 — hook 경로는 절대 설치하지 않는다.
func (a *App) newInstallCmd() *cobra.Command {
	var globalOnly bool

	cmd := &cobra.Command{
		Use:   "install",
		Short: "현재 프로젝트의 manifest대로 환경을 빌드한다",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runInstall(cmd, globalOnly)
		},
	}

	cmd.Flags().BoolVar(&globalOnly, "global", false, "전역 패키지만 설치")
	return cmd
}

func (a *App) runInstall(cmd *cobra.Command, globalOnly bool) error {
	out := cmd.OutOrStdout()

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("cli.install: %w", err)
	}
	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}

	sniffer := &manifest.TOMLSniffer{}
	m, err := sniffer.Sniff(cwd)
	if err != nil {
		return err
	}

	id := identity.Resolve(cwd).ID()
	pipeline := &installer.Pipeline{
		Store:         a.store(cfg),
		Installer:     a.installerFor(cfg, m),
		Commander:     a.Commander,
		GlobalRoot:    cfg.GlobalDir(),
		GlobalBinDirs: stub.DefaultGlobalBinDirs(),
	}

	ctx := cmd.Context()
	if !globalOnly {
		result, err := pipeline.BuildLocal(ctx, id, m)
		if result != nil {
			printBuildResult(cmd, result)
		}
		if err != nil {
			return err
		}
		if len(m.LocalPackages()) > 0 {
			fmt.Fprintf(out, "환경 준비 완료: %s\n", id)
			fmt.Fprintln(out, "디렉토리에 다시 진입하면 자동으로 활성화됩니다 (cd .)")
		}
	}

	gresult, err := pipeline.BuildGlobal(ctx, m)
	if gresult != nil {
		printBuildResult(cmd, gresult)
	}
	return err
}

// installerFor는 설정에 맞는 Installer 구현을 고른다. 테스트 모드에서는
// 네트워크를 전혀 건드리지 않는다.
func (a *App) installerFor(cfg *config.Config, m *manifest.Manifest) installer.Installer {
	if cfg.TestMode() {
		return &installer.TestInstaller{}
	}
	return &installer.CommandInstaller{
		Commander:    a.Commander,
		FetchCommand: cfg.FetchCommand,
		Env:          m.Env,
		Interactive:  cfg.InteractiveFetch(),
	}
}

func printBuildResult(cmd *cobra.Command, result *installer.BuildResult) {
	out := cmd.OutOrStdout()
	for _, p := range result.Packages {
		scope := "local"
		if p.Global {
			scope = "global"
		}
		if p.Err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "  ✗ %s (%s): %v\n", p.Package.Name, scope, p.Err)
			continue
		}
		fmt.Fprintf(out, "  ✓ %s (%s)\n", p.Package.Name, scope)
	}
}

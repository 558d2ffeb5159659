package cli

import (
	"strings"

	"github.com/hbjs97/denv/internal/cmdexec"
	"github.com/hbjs97/denv/internal/config"
	"github.com/hbjs97/denv/internal/envstore"
	"github.com/hbjs97/denv/internal/setup"
	"github.com/spf13/cobra"
)

// App은 CLI 명령들이 공유하는 의존성 묶음이다.
// 테스트에서는 Commander/FormRunner를 fake로 교체한다.
type App struct {
	CfgPath    string
	Commander  cmdexec.Commander
	FormRunner setup.FormRunner
}

// NewRootCmd는 denv CLI의 루트 명령을 생성한다.
func NewRootCmd() *cobra.Command {
	app := &App{
		Commander:  &cmdexec.RealCommander{},
		FormRunner: &setup.HuhFormRunner{},
	}
	return app.NewRootCmd()
}

// NewRootCmd는 App의 의존성으로 루트 명령을 조립한다.
func (a *App) NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "denv",
		Short:        "프로젝트별 개발 환경 매니저",
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&a.CfgPath, "config", config.DefaultPath(), "설정 파일 경로")

	cmd.AddCommand(
		a.newActivateCmd(),
		a.newInstallCmd(),
		a.newStatusCmd(),
		a.newListCmd(),
		a.newInspectCmd(),
		a.newCleanCmd(),
		a.newRemoveCmd(),
		a.newDoctorCmd(),
		a.newSetupCmd(),
	)
	return cmd
}

// loadConfig는 설정을 로드한다.
func (a *App) loadConfig() (*config.Config, error) {
	return config.Load(a.CfgPath)
}

// store는 설정 기준의 환경 저장소를 연다.
func (a *App) store(cfg *config.Config) *envstore.Store {
	return envstore.New(cfg.EnvsDir())
}

// baseFromID는 "<basename>_<digest>" 식별자에서 basename을 복원한다.
func baseFromID(id string) string {
	if idx := strings.LastIndex(id, "_"); idx > 0 {
		return id[:idx]
	}
	return id
}

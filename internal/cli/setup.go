package cli

import (
	"github.com/hbjs97/denv/internal/setup"
	"github.com/spf13/cobra"
)

// newSetupCmd는 interactive 초기 설정 명령을 생성한다.
func (a *App) newSetupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "setup",
		Short: "셸 hook을 설치하고 환경을 진단한다",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			runner := &setup.Runner{
				Commander:  a.Commander,
				FormRunner: a.FormRunner,
				Store:      a.store(cfg),
				BaseDir:    cfg.BaseDir(),
			}
			return runner.Run(cmd.Context())
		},
	}
}

package cli

import (
	"fmt"

	"github.com/hbjs97/denv/internal/doctor"
	"github.com/hbjs97/denv/internal/setup"
	"github.com/spf13/cobra"
)

// newDoctorCmd는 환경 진단 명령을 생성한다.
func (a *App) newDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "denv 동작에 필요한 환경을 진단한다",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}

			rcPath := setup.ShellRCPath(setup.DetectShell())
			results := doctor.RunAll(cmd.Context(), a.Commander, a.store(cfg), cfg.BaseDir(), rcPath)

			out := cmd.OutOrStdout()
			failed := false
			for _, res := range results {
				icon := "✓"
				switch res.Status {
				case doctor.StatusFail:
					icon = "✗"
					failed = true
				case doctor.StatusWarn:
					icon = "!"
				}
				fmt.Fprintf(out, "[%s] %s: %s\n", icon, res.Name, res.Message)
				if res.Fix != "" {
					fmt.Fprintf(out, "    Fix: %s\n", res.Fix)
				}
			}
			if failed {
				return fmt.Errorf("cli.doctor: 진단 실패 항목이 있습니다")
			}
			return nil
		},
	}
}

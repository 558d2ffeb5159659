package cli

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/hbjs97/denv/internal/envstore"
	"github.com/spf13/cobra"
)

// newCleanCmd는 기준에 맞는 환경을 일괄 정리하는 명령을 생성한다.
// --force 없이는 어떤 파일도 지우지 않고 대상만 보고한다.
func (a *App) newCleanCmd() *cobra.Command {
	var opts envstore.CleanOptions

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "오래되거나 빈 환경을 일괄 삭제한다",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			report, err := a.store(cfg).Clean(opts)
			if err != nil {
				return err
			}
			printReport(cmd, report)
			return nil
		},
	}

	cmd.Flags().IntVar(&opts.OlderThanDays, "older-than", 0, "N일보다 오래된 환경만 대상")
	cmd.Flags().BoolVar(&opts.EmptyOnly, "empty", false, "빈 환경만 대상")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "삭제하지 않고 대상만 출력")
	cmd.Flags().BoolVar(&opts.Force, "force", false, "실제로 삭제한다")
	return cmd
}

func printReport(cmd *cobra.Command, report *envstore.Report) {
	out := cmd.OutOrStdout()

	if len(report.Candidates) == 0 {
		fmt.Fprintln(out, "대상 환경이 없습니다.")
		return
	}
	for _, id := range report.Candidates {
		fmt.Fprintf(out, "  %s\n", id)
	}
	if report.DryRun {
		fmt.Fprintf(out, "%d개 환경, %s — 실제 삭제하려면 --force를 지정하세요.\n",
			len(report.Candidates), humanize.Bytes(uint64(report.FreedBytes)))
		return
	}
	fmt.Fprintf(out, "%d개 환경 삭제, %s 확보.\n",
		report.Removed, humanize.Bytes(uint64(report.FreedBytes)))
	for _, f := range report.Failures {
		fmt.Fprintf(cmd.ErrOrStderr(), "  ✗ %s: %v\n", f.ID, f.Err)
	}
}

package cli

import (
	"fmt"
	"strings"

	"github.com/hbjs97/denv/internal/identity"
	"github.com/spf13/cobra"
)

// newRemoveCmd는 환경 레코드를 삭제하는 명령을 생성한다.
// clean과 같은 규율이다: --force 없이는 보고만 한다.
func (a *App) newRemoveCmd() *cobra.Command {
	var all, dryRun, force bool

	cmd := &cobra.Command{
		Use:     "remove [id|path]",
		Aliases: []string{"rm"},
		Short:   "환경 레코드를 삭제한다",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			store := a.store(cfg)

			if all {
				report, err := store.RemoveAll(dryRun, force)
				if err != nil {
					return err
				}
				printReport(cmd, report)
				return nil
			}
			if len(args) == 0 {
				return fmt.Errorf("cli.remove: id나 경로를 지정하거나 --all을 사용하세요")
			}

			id := args[0]
			if strings.ContainsRune(id, '/') || id == "." || id == ".." {
				id = identity.Resolve(id).ID()
			}
			report, err := store.Remove(id, dryRun, force)
			if err != nil {
				return err
			}
			printReport(cmd, report)
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "모든 환경 레코드 삭제 (전역 환경 제외)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "삭제하지 않고 대상만 출력")
	cmd.Flags().BoolVar(&force, "force", false, "실제로 삭제한다")
	return cmd
}

package cli

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

// newListCmd는 저장소의 모든 환경 레코드를 나열하는 명령을 생성한다.
func (a *App) newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "설치된 환경 목록을 출력한다",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runList(cmd)
		},
	}
}

func (a *App) runList(cmd *cobra.Command) error {
	out := cmd.OutOrStdout()

	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}
	records, err := a.store(cfg).List()
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Fprintln(out, "설치된 환경이 없습니다.")
		return nil
	}

	for _, rec := range records {
		state := "ready"
		if !rec.Ready {
			state = "incomplete"
		}
		fmt.Fprintf(out, "%-40s  %-10s  %8s  %s\n",
			rec.ID, state,
			humanize.Bytes(uint64(rec.Size())),
			humanize.Time(rec.ModTime))
	}
	return nil
}

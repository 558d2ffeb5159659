package cli

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/hbjs97/denv/internal/identity"
	"github.com/spf13/cobra"
)

// newInspectCmd는 환경 레코드 하나의 내용을 보여주는 명령을 생성한다.
// 인자는 환경 id 또는 프로젝트 경로다. 기본 출력은 요약이고, 패키지와
// 바이너리 목록은 --verbose에서만 나온다.
func (a *App) newInspectCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "inspect <id|path>",
		Short: "환경 레코드의 상태를 출력한다",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runInspect(cmd, args[0], verbose)
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "패키지/바이너리 목록과 marker 상태까지 출력")
	return cmd
}

func (a *App) runInspect(cmd *cobra.Command, target string, verbose bool) error {
	out := cmd.OutOrStdout()

	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}
	store := a.store(cfg)

	// 경로처럼 보이면 identity로 변환한다. id는 경로 구분자를 포함하지 않는다.
	id := target
	if strings.ContainsRune(target, '/') || target == "." || target == ".." {
		id = identity.Resolve(target).ID()
	}

	rec, err := store.Open(id)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "환경 ID:  %s\n", rec.ID)
	fmt.Fprintf(out, "경로:     %s\n", rec.Root)
	state := "incomplete"
	if rec.Ready {
		state = "ready"
	}
	fmt.Fprintf(out, "상태:     %s\n", state)
	fmt.Fprintf(out, "크기:     %s\n", humanize.Bytes(uint64(rec.Size())))

	pkgs := rec.Packages()
	bins := rec.Binaries()
	fmt.Fprintf(out, "패키지:   %d개\n", len(pkgs))
	if verbose {
		for _, p := range pkgs {
			scope := "local"
			if p.Global {
				scope = "global"
			}
			fmt.Fprintf(out, "  %s@%s (%s)\n", p.Name, p.Version, scope)
		}
	}
	fmt.Fprintf(out, "바이너리: %d개\n", len(bins))
	if verbose {
		for _, b := range bins {
			fmt.Fprintf(out, "  %s\n", b)
		}
		setupState := "없음"
		if store.PostSetupDone(rec.ID) {
			setupState = "완료"
		}
		fmt.Fprintf(out, "setup:    %s\n", setupState)
	}
	return nil
}

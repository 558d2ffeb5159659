package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/hbjs97/denv/internal/envstore"
	"github.com/hbjs97/denv/internal/identity"
	"github.com/hbjs97/denv/internal/manifest"
	"github.com/hbjs97/denv/internal/shell"
	"github.com/spf13/cobra"
)

// newStatusCmd는 현재 디렉토리의 환경 상태를 보여주는 명령을 생성한다.
func (a *App) newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "현재 디렉토리의 환경 상태를 출력한다",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runStatus(cmd)
		},
	}
}

func (a *App) runStatus(cmd *cobra.Command) error {
	out := cmd.OutOrStdout()

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("cli.status: %w", err)
	}
	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}

	ident := identity.Resolve(cwd)
	id := ident.ID()
	fmt.Fprintf(out, "프로젝트:  %s\n", ident.AbsPath)
	fmt.Fprintf(out, "환경 ID:   %s\n", id)

	if !manifest.Exists(cwd) {
		fmt.Fprintln(out, "manifest:  없음 (devpkg.toml)")
	} else if m, err := manifest.Load(filepath.Join(cwd, manifest.FileName)); err != nil {
		fmt.Fprintf(out, "manifest:  파싱 실패: %v\n", err)
	} else {
		fmt.Fprintf(out, "manifest:  패키지 %d개 (local %d, global %d)\n",
			len(m.Packages), len(m.LocalPackages()), len(m.GlobalPackages()))
	}

	rec, err := a.store(cfg).Open(id)
	if errors.Is(err, envstore.ErrNotFound) {
		fmt.Fprintln(out, "환경:      미설치 — denv install로 빌드하세요")
		return nil
	}
	if err != nil {
		return err
	}

	state := "빌드 중단됨 (denv install로 재개)"
	if rec.Ready {
		state = "ready"
	}
	fmt.Fprintf(out, "환경:      %s\n", state)
	fmt.Fprintf(out, "바이너리:  %d개\n", len(rec.Binaries()))
	fmt.Fprintf(out, "크기:      %s\n", humanize.Bytes(uint64(rec.Size())))

	if activeID := os.Getenv(shell.EnvIDVar); activeID == id {
		fmt.Fprintln(out, "세션:      이 셸에서 활성화됨")
	}
	return nil
}

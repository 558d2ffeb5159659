package cli

import (
	"fmt"
	"os"

	"github.com/hbjs97/denv/internal/resolver"
	"github.com/hbjs97/denv/internal/shell"
	"github.com/spf13/cobra"
)

// newActivateCmd는 셸 hook이 호출하는 activation 프로토콜 명령을 생성한다.
//
// stdout은 호출한 셸이 eval하는 채널이므로 셸 구문 외에는 아무것도 쓰지
// 않는다. 오류가 나면 빈 출력으로 조용히 끝낸다 — hook 경로에서 에러
// 메시지가 eval되면 사용자의 셸이 깨진다.
func (a *App) newActivateCmd() *cobra.Command {
	var shellType string
	var hookOnly bool

	cmd := &cobra.Command{
		Use:   "activate",
		Short: "현재 디렉토리 기준 환경 전환 구문을 출력한다 (hook 전용)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if hookOnly {
				snippet := shell.HookSnippet(shellType)
				if snippet == "" {
					return fmt.Errorf("cli.activate: 지원하지 않는 셸: %s", shellType)
				}
				fmt.Fprint(cmd.OutOrStdout(), snippet)
				return nil
			}
			return a.runActivate(cmd, shellType)
		},
	}

	cmd.Flags().StringVar(&shellType, "shell", "bash", "구문을 생성할 셸 (bash|zsh|fish)")
	cmd.Flags().BoolVar(&hookOnly, "hook", false, "RC 파일용 hook 스니펫만 출력")
	return cmd
}

func (a *App) runActivate(cmd *cobra.Command, shellType string) error {
	out := cmd.OutOrStdout()
	errw := cmd.ErrOrStderr()

	cwd, err := os.Getwd()
	if err != nil {
		return nil
	}
	cfg, err := a.loadConfig()
	if err != nil {
		// 설정이 깨져도 hook은 침묵해야 한다. 진단은 stderr로만.
		fmt.Fprintf(errw, "denv: %v\n", err)
		return nil
	}

	sess := shell.LoadSession(os.LookupEnv)
	d := resolver.New(a.store(cfg)).Resolve(cwd, sess)
	if cfg.IsVerbose() {
		fmt.Fprintf(errw, "denv: %s → %s\n", d.ID, d.Reason)
	}

	switch d.Action {
	case resolver.ActionActivate:
		fmt.Fprint(out, shell.Activate(sess, d.ID, d.EnvRoot, shellType, os.LookupEnv))
		if cfg.ShowMessages() {
			fmt.Fprintln(errw, shell.Expand(cfg.MsgActivate, d.Basename))
		}
	case resolver.ActionDeactivate:
		fmt.Fprint(out, shell.Deactivate(sess, shellType))
		if cfg.ShowMessages() {
			fmt.Fprintln(errw, shell.Expand(cfg.MsgDeactivate, baseFromID(sess.EnvID)))
		}
	}
	return nil
}

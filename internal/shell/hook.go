package shell

// HookSnippet은 셸 RC 파일에 설치되는 디렉토리 변경 hook을 반환한다.
// hook 본문은 재진입 가드(DENV_IN_HOOK)로 시작한다 — 일부 셸은 hook
// 본문의 부수 효과로 hook을 다시 발화시킬 수 있다. overlay 적용(eval)
// 구간은 별도의 DENV_PROCESSING 가드로 감싸 두 호출이 변수 변경을
// 교차시키지 못하게 한다. 두 가드 모두 모든 종료 경로에서 해제된다.
func HookSnippet(shellType string) string {
	switch shellType {
	case "zsh":
		return `# denv shell integration (zsh)
_denv_hook() {
  if [ -n "${DENV_IN_HOOK:-}" ]; then
    return 0
  fi
  DENV_IN_HOOK=1
  _denv_out="$(denv activate --shell zsh 2>/dev/null)" || _denv_out=""
  if [ -n "$_denv_out" ] && [ -z "${DENV_PROCESSING:-}" ]; then
    DENV_PROCESSING=1
    eval "$_denv_out"
    unset DENV_PROCESSING
  fi
  unset _denv_out
  unset DENV_IN_HOOK
}
chpwd_functions+=(_denv_hook)
_denv_hook
`
	case "bash":
		return `# denv shell integration (bash)
_denv_hook() {
  if [ -n "${DENV_IN_HOOK:-}" ]; then
    return 0
  fi
  DENV_IN_HOOK=1
  _denv_out="$(denv activate --shell bash 2>/dev/null)" || _denv_out=""
  if [ -n "$_denv_out" ] && [ -z "${DENV_PROCESSING:-}" ]; then
    DENV_PROCESSING=1
    eval "$_denv_out"
    unset DENV_PROCESSING
  fi
  unset _denv_out
  unset DENV_IN_HOOK
}
PROMPT_COMMAND="_denv_hook;${PROMPT_COMMAND}"
`
	case "fish":
		return `# denv shell integration (fish)
function _denv_hook --on-variable PWD
  if set -q DENV_IN_HOOK
    return 0
  end
  set -g DENV_IN_HOOK 1
  set -l _denv_out (denv activate --shell fish 2>/dev/null | string collect)
  if test -n "$_denv_out"; and not set -q DENV_PROCESSING
    set -g DENV_PROCESSING 1
    eval "$_denv_out"
    set -e DENV_PROCESSING
  end
  set -e DENV_IN_HOOK
end
_denv_hook
`
	default:
		return ""
	}
}

// Package shell generates the shell-side half of the activation protocol:
// hook snippets that fire on directory change (chpwd for Zsh, PROMPT_COMMAND
// for Bash, --on-variable PWD for Fish) and the variable-overlay scripts the
// hooks eval. Session state lives only in the calling shell's environment
// variables; only code emitted by this package writes them.
package shell

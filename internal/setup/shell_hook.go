package setup

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hbjs97/denv/internal/shell"
)

const (
	hookStartMarker = "# denv-hook-start"
	hookEndMarker   = "# denv-hook-end"
)

// InstallShellHook은 셸 RC 파일에 denv hook 블록을 추가한다.
// 이미 설치되어 있으면 건너뛴다 (멱등).
func InstallShellHook(shellType, rcPath string) error {
	snippet := shell.HookSnippet(shellType)
	if snippet == "" {
		return fmt.Errorf("setup.InstallShellHook: 지원하지 않는 셸: %s", shellType)
	}

	existing, _ := os.ReadFile(rcPath) // 파일이 없으면 빈 바이트
	if strings.Contains(string(existing), hookStartMarker) {
		return nil // 이미 설치됨
	}

	if err := os.MkdirAll(filepath.Dir(rcPath), 0755); err != nil {
		return fmt.Errorf("setup.InstallShellHook: %w", err)
	}
	f, err := os.OpenFile(rcPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("setup.InstallShellHook: %w", err)
	}
	defer f.Close()

	block := fmt.Sprintf("\n%s\n%s%s\n", hookStartMarker, snippet, hookEndMarker)
	if _, err := f.WriteString(block); err != nil {
		return fmt.Errorf("setup.InstallShellHook: %w", err)
	}

	return nil
}

// UninstallShellHook은 RC 파일에서 denv hook 블록만 제거한다.
// 블록 밖의 사용자 내용은 그대로 남는다.
func UninstallShellHook(rcPath string) error {
	data, err := os.ReadFile(rcPath)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("setup.UninstallShellHook: %w", err)
	}

	content := string(data)
	startIdx := strings.Index(content, hookStartMarker)
	endIdx := strings.Index(content, hookEndMarker)
	if startIdx == -1 || endIdx == -1 {
		return nil
	}

	before := strings.TrimRight(content[:startIdx], "\n")
	after := content[endIdx+len(hookEndMarker):]
	cleaned := strings.TrimSpace(before + after)

	if cleaned == "" {
		return os.Remove(rcPath)
	}
	return os.WriteFile(rcPath, []byte(cleaned+"\n"), 0600)
}

// HookInstalled는 RC 파일에 hook 블록이 있는지 여부를 반환한다.
func HookInstalled(rcPath string) bool {
	data, err := os.ReadFile(rcPath)
	return err == nil && strings.Contains(string(data), hookStartMarker)
}

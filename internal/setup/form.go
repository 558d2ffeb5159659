package setup

import (
	"fmt"

	"github.com/charmbracelet/huh"
)

// HuhFormRunner는 charmbracelet/huh 기반의 FormRunner 구현이다.
type HuhFormRunner struct{}

var _ FormRunner = (*HuhFormRunner)(nil)

// RunShellSelect는 셸 선택 폼을 실행한다.
func (h *HuhFormRunner) RunShellSelect(detected string, options []string) (string, error) {
	selected := detected
	opts := make([]huh.Option[string], 0, len(options))
	for _, o := range options {
		opts = append(opts, huh.NewOption(o, o))
	}

	form := huh.NewForm(huh.NewGroup(
		huh.NewSelect[string]().
			Title("hook을 설치할 셸").
			Options(opts...).
			Value(&selected),
	))
	if err := form.Run(); err != nil {
		return "", fmt.Errorf("setup.RunShellSelect: %w", err)
	}
	return selected, nil
}

// RunConfirm은 확인 프롬프트를 실행한다.
func (h *HuhFormRunner) RunConfirm(message string) (bool, error) {
	confirmed := true
	form := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().Title(message).Value(&confirmed),
	))
	if err := form.Run(); err != nil {
		return false, fmt.Errorf("setup.RunConfirm: %w", err)
	}
	return confirmed, nil
}

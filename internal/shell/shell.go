package shell

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/hbjs97/denv/internal/stub"
)

// 셸 세션에 기록되는 bookkeeping 변수 이름.
const (
	// EnvIDVar는 활성 프로젝트 식별자다.
	EnvIDVar = "DENV_ENV_ID"
	// EnvBinVar는 활성 환경의 bin 디렉토리다.
	EnvBinVar = "DENV_ENV_BIN"
	// ShadowPrefix 아래에 격리 변수의 활성화 이전 값이 보존된다.
	ShadowPrefix = "DENV_SHADOW_"
)

// Shadow는 격리 변수 하나의 활성화 이전 값이다.
// "설정돼 있지 않았음"은 빈 문자열과 구분되는 복원 가능한 상태다.
type Shadow struct {
	Value  string
	WasSet bool
}

// Session은 호출한 셸의 환경변수에서 읽어 들인 세션 상태다.
// denv는 셸의 자식 프로세스로 실행되므로 os.LookupEnv가 곧 셸의 상태다.
type Session struct {
	EnvID   string
	EnvBin  string
	Shadows map[string]Shadow
}

// LookupFunc는 환경변수 조회 함수다. 테스트에서는 map 기반으로 주입한다.
type LookupFunc func(key string) (string, bool)

// LoadSession은 환경변수에서 세션 상태를 읽는다.
func LoadSession(lookup LookupFunc) *Session {
	s := &Session{Shadows: make(map[string]Shadow)}
	s.EnvID, _ = lookup(EnvIDVar)
	s.EnvBin, _ = lookup(EnvBinVar)
	for _, name := range stub.IsolatedVars() {
		val, _ := lookup(ShadowPrefix + name)
		flag, _ := lookup(ShadowPrefix + name + "_SET")
		s.Shadows[name] = Shadow{Value: val, WasSet: flag == "1"}
	}
	return s
}

// Active는 세션에 활성화된 프로젝트 환경이 있는지 여부다.
func (s *Session) Active() bool {
	return s.EnvID != ""
}

// exportLine은 셸 유형에 맞는 export 구문을 생성한다.
func exportLine(shellType, name, value string) string {
	if shellType == "fish" {
		return fmt.Sprintf("set -gx %s %q\n", name, value)
	}
	return fmt.Sprintf("export %s=%q\n", name, value)
}

// unsetLine은 셸 유형에 맞는 unset 구문을 생성한다.
func unsetLine(shellType, name string) string {
	if shellType == "fish" {
		return fmt.Sprintf("set -e %s\n", name)
	}
	return fmt.Sprintf("unset %s\n", name)
}

// restoreLines는 이전 overlay를 정확히 되돌리는 구문을 기록한다.
// shadow가 "unset이었다"고 말하면 복원도 unset이다.
func restoreLines(b *strings.Builder, s *Session, shellType string) {
	for _, name := range stub.IsolatedVars() {
		sh := s.Shadows[name]
		if sh.WasSet {
			b.WriteString(exportLine(shellType, name, sh.Value))
		} else {
			b.WriteString(unsetLine(shellType, name))
		}
	}
}

// clearBookkeepingLines는 세션 bookkeeping 변수를 모두 제거한다.
func clearBookkeepingLines(b *strings.Builder, shellType string) {
	for _, name := range stub.IsolatedVars() {
		b.WriteString(unsetLine(shellType, ShadowPrefix+name))
		b.WriteString(unsetLine(shellType, ShadowPrefix+name+"_SET"))
	}
	b.WriteString(unsetLine(shellType, EnvIDVar))
	b.WriteString(unsetLine(shellType, EnvBinVar))
}

// Activate는 envRoot 환경을 활성화하는 셸 구문을 생성한다.
// 같은 id가 이미 활성화돼 있으면 빈 문자열을 반환한다 — 디렉토리 변경
// 이벤트는 한 번의 cd에 여러 번 발화할 수 있으므로 멱등성이 필수다.
// 다른 환경이 활성화돼 있었다면 먼저 그 overlay를 되돌린 뒤 새 overlay를
// 적용한다.
func Activate(s *Session, id, envRoot, shellType string, lookup LookupFunc) string {
	if s.EnvID == id {
		return ""
	}

	var b strings.Builder
	if s.Active() {
		restoreLines(&b, s, shellType)
	}

	for _, o := range stub.Overlays(envRoot) {
		// 새 overlay의 밑바탕 값: 이전 환경이 활성 상태였다면 그 shadow
		// (= 복원된 값), 아니면 셸의 현재 값이다.
		var base Shadow
		if s.Active() {
			base = s.Shadows[o.Name]
		} else {
			val, ok := lookup(o.Name)
			base = Shadow{Value: val, WasSet: ok}
		}

		b.WriteString(exportLine(shellType, ShadowPrefix+o.Name, base.Value))
		flag := "0"
		if base.WasSet {
			flag = "1"
		}
		b.WriteString(exportLine(shellType, ShadowPrefix+o.Name+"_SET", flag))

		newVal := strings.Join(o.Dirs, ":")
		if base.WasSet && base.Value != "" {
			newVal = newVal + ":" + base.Value
		}
		b.WriteString(exportLine(shellType, o.Name, newVal))
	}

	b.WriteString(exportLine(shellType, EnvIDVar, id))
	b.WriteString(exportLine(shellType, EnvBinVar, filepath.Join(envRoot, "bin")))
	return b.String()
}

// Deactivate는 활성 환경의 overlay를 되돌리고 bookkeeping 변수를 제거하는
// 셸 구문을 생성한다. 활성 환경이 없으면 빈 문자열이다.
func Deactivate(s *Session, shellType string) string {
	if !s.Active() {
		return ""
	}
	var b strings.Builder
	restoreLines(&b, s, shellType)
	clearBookkeepingLines(&b, shellType)
	return b.String()
}

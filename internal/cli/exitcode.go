package cli

import (
	"errors"
)

// ExitCode는 denv의 종료 코드다.
type ExitCode int

const (
	// ExitSuccess는 정상 종료다.
	ExitSuccess ExitCode = 0
	// ExitGeneral는 일반 에러다.
	ExitGeneral ExitCode = 1
	// ExitNotFound는 환경 레코드 없음이다.
	ExitNotFound ExitCode = 2
	// ExitNoManifest는 manifest 없음이다.
	ExitNoManifest ExitCode = 3
	// ExitInstallFail는 패키지 설치 실패다.
	ExitInstallFail ExitCode = 4
	// ExitConfigError는 설정 파일 오류다.
	ExitConfigError ExitCode = 5
)

// MapExitCode는 sentinel error를 기반으로 적절한 종료 코드를 반환한다.
func MapExitCode(err error) ExitCode {
	if err == nil {
		return ExitSuccess
	}
	switch {
	case errors.Is(err, ErrNotFound):
		return ExitNotFound
	case errors.Is(err, ErrNoManifest):
		return ExitNoManifest
	case errors.Is(err, ErrInstall):
		return ExitInstallFail
	case errors.Is(err, ErrConfig):
		return ExitConfigError
	default:
		return ExitGeneral
	}
}

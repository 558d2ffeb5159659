package cli

import (
	"github.com/hbjs97/denv/internal/config"
	"github.com/hbjs97/denv/internal/envstore"
	"github.com/hbjs97/denv/internal/installer"
	"github.com/hbjs97/denv/internal/manifest"
)

// 각 도메인 패키지의 sentinel error를 CLI 레이어에서 편의상 re-export한다.
var (
	// ErrNotFound는 요청한 환경 레코드가 없을 때의 sentinel error다.
	ErrNotFound = envstore.ErrNotFound
	// ErrNoManifest는 디렉토리에 manifest가 없을 때의 sentinel error다.
	ErrNoManifest = manifest.ErrNoManifest
	// ErrInstall은 패키지 설치 실패를 나타내는 sentinel error다.
	ErrInstall = installer.ErrInstall
	// ErrConfig는 설정 파일 오류를 나타내는 sentinel error다.
	ErrConfig = config.ErrConfig
)

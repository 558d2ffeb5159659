// Package identity derives stable environment identifiers from project paths.
package identity

import (
	"crypto/md5"
	"fmt"
	"path/filepath"
)

// Identity는 하나의 프로젝트 디렉토리에서 유도된 환경 식별 정보다.
type Identity struct {
	// AbsPath는 심볼릭 링크를 해석한 절대 경로다.
	AbsPath string
	// Basename은 프로젝트 디렉토리 이름이다.
	Basename string
	// Digest는 AbsPath의 MD5 해시 앞 8자리(hex)다.
	Digest string
}

// ID는 외부에 노출되는 식별자 "<basename>_<digest>"를 반환한다.
func (i Identity) ID() string {
	return fmt.Sprintf("%s_%s", i.Basename, i.Digest)
}

// Resolve는 프로젝트 경로를 Identity로 변환한다.
// 경로가 존재하면 심볼릭 링크를 canonical 경로로 해석한 뒤 해싱하므로
// 같은 실제 디렉토리를 가리키는 서로 다른 링크는 동일한 Identity가 된다.
// 경로가 존재하지 않으면 주어진 경로 그대로 해싱한다 (total function —
// 삭제된 디렉토리를 참조하는 stale 셸 상태에서도 조회는 실패하지 않는다).
func Resolve(path string) Identity {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = filepath.Clean(path)
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		abs = resolved
	}

	sum := md5.Sum([]byte(abs))
	return Identity{
		AbsPath:  abs,
		Basename: filepath.Base(abs),
		Digest:   fmt.Sprintf("%x", sum)[:8],
	}
}

// Package manifest parses project dependency manifests (devpkg.toml).
package manifest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// FileName은 프로젝트 루트에서 찾는 manifest 파일 이름이다.
const FileName = "devpkg.toml"

// ErrNoManifest는 디렉토리에 manifest가 없을 때 반환된다.
var ErrNoManifest = errors.New("manifest 없음")

// Package는 manifest에 선언된 하나의 패키지다.
type Package struct {
	Name    string `toml:"name"`
	Version string `toml:"version"`
	// Global이 nil이면 프로젝트 기본값을 상속한다.
	Global *bool `toml:"global"`
}

// Manifest는 하나의 프로젝트가 선언한 의존성 집합이다.
type Manifest struct {
	// Global은 프로젝트 수준의 global 기본값이다. nil이면 local.
	Global   *bool             `toml:"global"`
	Env      map[string]string `toml:"env"`
	Packages []Package         `toml:"packages"`
	// Setup은 설치 완료 후 1회만 실행되는 셸 명령 목록이다.
	Setup []string `toml:"setup"`
}

// Sniffer는 디렉토리에서 의존성 manifest를 추출하는 collaborator 계약이다.
// 이 패키지의 TOML 구현 외에 다른 manifest 포맷 파서를 꽂을 수 있다.
type Sniffer interface {
	Sniff(dir string) (*Manifest, error)
}

// TOMLSniffer는 devpkg.toml 기반 Sniffer 구현이다.
type TOMLSniffer struct{}

var _ Sniffer = (*TOMLSniffer)(nil)

// Sniff는 dir의 devpkg.toml을 파싱한다. 파일이 없으면 ErrNoManifest.
func (s *TOMLSniffer) Sniff(dir string) (*Manifest, error) {
	return Load(filepath.Join(dir, FileName))
}

// Exists는 dir에 manifest 파일이 있는지 여부만 확인한다.
// activation fast path에서 파싱 비용 없이 호출된다.
func Exists(dir string) bool {
	info, err := os.Stat(filepath.Join(dir, FileName))
	return err == nil && !info.IsDir()
}

// Load는 manifest 파일을 파싱한다.
func Load(path string) (*Manifest, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("manifest.Load: %w: %s", ErrNoManifest, path)
	}
	var m Manifest
	if _, err := toml.DecodeFile(path, &m); err != nil {
		return nil, fmt.Errorf("manifest.Load: %w", err)
	}
	if err := m.validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// IsGlobal은 패키지의 global 여부를 판정한다.
// 패키지 수준 명시값이 항상 우선하고, 없으면 프로젝트 기본값을 상속하며,
// 둘 다 없으면 local이다.
func (m *Manifest) IsGlobal(p Package) bool {
	if p.Global != nil {
		return *p.Global
	}
	if m.Global != nil {
		return *m.Global
	}
	return false
}

// LocalPackages는 local로 설치될 패키지 목록을 반환한다.
func (m *Manifest) LocalPackages() []Package {
	var out []Package
	for _, p := range m.Packages {
		if !m.IsGlobal(p) {
			out = append(out, p)
		}
	}
	return out
}

// GlobalPackages는 global로 설치될 패키지 목록을 반환한다.
func (m *Manifest) GlobalPackages() []Package {
	var out []Package
	for _, p := range m.Packages {
		if m.IsGlobal(p) {
			out = append(out, p)
		}
	}
	return out
}

func (m *Manifest) validate() error {
	seen := make(map[string]bool, len(m.Packages))
	for i, p := range m.Packages {
		if p.Name == "" {
			return fmt.Errorf("manifest.Load: packages[%d].name 필수", i)
		}
		if seen[p.Name] {
			return fmt.Errorf("manifest.Load: 중복 패키지: %s", p.Name)
		}
		seen[p.Name] = true
	}
	return nil
}

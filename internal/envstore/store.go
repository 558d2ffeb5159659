// Package envstore owns the on-disk layout of materialized project
// environments under <base>/envs/<id>.
package envstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// ErrNotFound는 요청한 환경 레코드가 없을 때 반환된다.
var ErrNotFound = errors.New("환경 레코드 없음")

// 환경 디렉토리 안의 marker 파일 이름.
const (
	// ReadyMarker는 빌드 완료 sentinel이다. 이 파일의 존재가 fast path
	// 적격성의 유일한 판단 기준이다.
	ReadyMarker = ".ready"
	// PostSetupMarker는 1회성 setup 명령 완료 marker다.
	PostSetupMarker = ".post_setup_done"
)

// 레코드 skeleton의 하위 디렉토리.
var skeletonDirs = []string{"bin", "sbin", "lib", "pkgs"}

// Store는 per-user 환경 저장소다. 모든 경로 연산의 루트는 EnvsDir이다.
type Store struct {
	EnvsDir string
}

// New는 envsDir를 루트로 하는 Store를 생성한다.
func New(envsDir string) *Store {
	return &Store{EnvsDir: envsDir}
}

// Record는 디스크에 실재하는 하나의 환경 레코드다.
type Record struct {
	ID      string
	Root    string
	Ready   bool
	ModTime time.Time
}

// PackageMeta는 pkgs/<name>/v<version>/metadata.json의 내용이다.
type PackageMeta struct {
	Name        string   `json:"name"`
	Version     string   `json:"version"`
	Global      bool     `json:"global"`
	InstalledAt string   `json:"installed_at"`
	Binaries    []string `json:"binaries,omitempty"`
}

// BinDir는 레코드의 bin 디렉토리 경로를 반환한다.
func (r *Record) BinDir() string { return filepath.Join(r.Root, "bin") }

// SbinDir는 레코드의 sbin 디렉토리 경로를 반환한다.
func (r *Record) SbinDir() string { return filepath.Join(r.Root, "sbin") }

// LibDir는 레코드의 lib 디렉토리 경로를 반환한다.
func (r *Record) LibDir() string { return filepath.Join(r.Root, "lib") }

// PkgsDir는 레코드의 pkgs 디렉토리 경로를 반환한다.
func (r *Record) PkgsDir() string { return filepath.Join(r.Root, "pkgs") }

// Open은 기존 레코드를 읽기 전용으로 조회한다.
// 부수 효과로 디렉토리를 생성하지 않으며, 없으면 ErrNotFound를 반환한다.
func (s *Store) Open(id string) (*Record, error) {
	root := filepath.Join(s.EnvsDir, id)
	info, err := os.Stat(root)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("envstore.Open: %w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("envstore.Open: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("envstore.Open: %w: %s (디렉토리 아님)", ErrNotFound, id)
	}
	return &Record{
		ID:      id,
		Root:    root,
		Ready:   s.IsReady(id),
		ModTime: info.ModTime(),
	}, nil
}

// BeginBuild는 레코드의 디렉토리 skeleton을 생성한다.
// os.MkdirAll 기반이라 멱등적이고, 동일 id에 대한 동시 호출도 안전하다
// (check-then-create가 아니라 원자적 디렉토리 생성에 의존한다).
func (s *Store) BeginBuild(id string) (*Record, error) {
	root := filepath.Join(s.EnvsDir, id)
	for _, sub := range skeletonDirs {
		if err := os.MkdirAll(filepath.Join(root, sub), 0755); err != nil {
			return nil, fmt.Errorf("envstore.BeginBuild: %w", err)
		}
	}
	return s.Open(id)
}

// MarkReady는 readiness sentinel을 기록한다.
// 성공한 빌드의 마지막 파일시스템 연산이어야 한다 — 빌드 도중 crash가
// 발생해도 거짓 ready 상태가 남지 않는다.
func (s *Store) MarkReady(id string) error {
	if _, err := s.Open(id); err != nil {
		return fmt.Errorf("envstore.MarkReady: %w", err)
	}
	path := filepath.Join(s.EnvsDir, id, ReadyMarker)
	if err := os.WriteFile(path, []byte(time.Now().UTC().Format(time.RFC3339)+"\n"), 0644); err != nil {
		return fmt.Errorf("envstore.MarkReady: %w", err)
	}
	return nil
}

// IsReady는 readiness sentinel의 존재 여부를 반환한다.
func (s *Store) IsReady(id string) bool {
	_, err := os.Stat(filepath.Join(s.EnvsDir, id, ReadyMarker))
	return err == nil
}

// ClearReady는 sentinel을 제거한다. manifest 변경으로 재빌드가 필요할 때
// 빌드 시작 전에 호출된다.
func (s *Store) ClearReady(id string) error {
	err := os.Remove(filepath.Join(s.EnvsDir, id, ReadyMarker))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("envstore.ClearReady: %w", err)
	}
	return nil
}

// MarkPostSetupDone은 1회성 setup 완료 marker를 기록한다.
func (s *Store) MarkPostSetupDone(id string) error {
	path := filepath.Join(s.EnvsDir, id, PostSetupMarker)
	if err := os.WriteFile(path, []byte(time.Now().UTC().Format(time.RFC3339)+"\n"), 0644); err != nil {
		return fmt.Errorf("envstore.MarkPostSetupDone: %w", err)
	}
	return nil
}

// PostSetupDone은 setup 완료 marker의 존재 여부를 반환한다.
func (s *Store) PostSetupDone(id string) bool {
	_, err := os.Stat(filepath.Join(s.EnvsDir, id, PostSetupMarker))
	return err == nil
}

// List는 저장소의 모든 레코드를 id 순으로 반환한다.
// envs/ 디렉토리 자체가 없으면 빈 목록을 반환한다 (graceful).
func (s *Store) List() ([]*Record, error) {
	entries, err := os.ReadDir(s.EnvsDir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("envstore.List: %w", err)
	}

	var records []*Record
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		rec, err := s.Open(e.Name())
		if err != nil {
			continue
		}
		records = append(records, rec)
	}
	sort.Slice(records, func(i, j int) bool { return records[i].ID < records[j].ID })
	return records, nil
}

// WritePackageMeta는 패키지 metadata.json을 기록한다.
func (s *Store) WritePackageMeta(id string, meta PackageMeta) error {
	dir := filepath.Join(s.EnvsDir, id, "pkgs", meta.Name, "v"+meta.Version)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("envstore.WritePackageMeta: %w", err)
	}
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("envstore.WritePackageMeta: %w", err)
	}
	return os.WriteFile(filepath.Join(dir, "metadata.json"), data, 0644)
}

// Packages는 레코드에 설치된 패키지 metadata 목록을 반환한다.
// 파싱할 수 없는 metadata는 건너뛴다 — 진단 경로에서 하나의 손상 파일이
// 전체 조회를 막아서는 안 된다.
func (r *Record) Packages() []PackageMeta {
	var metas []PackageMeta
	_ = filepath.WalkDir(r.PkgsDir(), func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || d.Name() != "metadata.json" {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		var meta PackageMeta
		if json.Unmarshal(data, &meta) == nil {
			metas = append(metas, meta)
		}
		return nil
	})
	sort.Slice(metas, func(i, j int) bool { return metas[i].Name < metas[j].Name })
	return metas
}

// Binaries는 bin/과 sbin/의 실행 파일 이름 목록을 반환한다.
func (r *Record) Binaries() []string {
	seen := make(map[string]bool)
	var names []string
	for _, dir := range []string{r.BinDir(), r.SbinDir()} {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, e := range entries {
			if e.IsDir() || seen[e.Name()] {
				continue
			}
			info, err := e.Info()
			if err != nil || info.Mode()&0111 == 0 {
				continue
			}
			seen[e.Name()] = true
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names
}

// Size는 레코드 디렉토리 전체 바이트 크기를 반환한다.
func (r *Record) Size() int64 {
	var total int64
	_ = filepath.WalkDir(r.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		if info, err := d.Info(); err == nil {
			total += info.Size()
		}
		return nil
	})
	return total
}

// Empty는 패키지도 바이너리도 없는 레코드인지 여부를 반환한다.
func (r *Record) Empty() bool {
	return len(r.Packages()) == 0 && len(r.Binaries()) == 0
}

// Healthy는 레코드의 건강 상태를 반환한다. 패키지는 있는데 바이너리가
// 하나도 없으면 unhealthy — 에러가 아니라 진단 신호다.
func (r *Record) Healthy() bool {
	if len(r.Packages()) == 0 {
		return true
	}
	return len(r.Binaries()) > 0
}

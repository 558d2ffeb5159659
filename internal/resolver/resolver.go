// Package resolver decides what the activation protocol should do for a
// directory: activate a ready environment, deactivate, or nothing.
package resolver

import (
	"path/filepath"

	"github.com/hbjs97/denv/internal/envstore"
	"github.com/hbjs97/denv/internal/identity"
	"github.com/hbjs97/denv/internal/manifest"
	"github.com/hbjs97/denv/internal/shell"
)

// Action은 판정 결과로 셸에 적용할 전이다.
type Action int

const (
	// ActionNone은 아무것도 하지 않는다.
	ActionNone Action = iota
	// ActionActivate는 새 환경의 overlay를 적용한다.
	ActionActivate
	// ActionDeactivate는 기존 overlay만 되돌린다.
	ActionDeactivate
)

// Decision은 하나의 디렉토리에 대한 판정 결과다.
type Decision struct {
	Action   Action
	ID       string
	Basename string
	EnvRoot  string
	// Reason: "active_noop", "ready", "not_built", "left_project", "no_project"
	Reason string
}

// Resolver는 디렉토리 → 전이 판정 파이프라인이다.
// fast path에서만 쓰이므로 manifest는 존재 여부만 확인하고 파싱하지 않는다.
type Resolver struct {
	store *envstore.Store
}

// New는 새 Resolver를 생성한다.
func New(store *envstore.Store) *Resolver {
	return &Resolver{store: store}
}

// Resolve는 단계별 파이프라인으로 전이를 판정한다.
//
//	1. 이미 같은 identity가 활성 → no-op (멱등)
//	2. ready 레코드 존재 → activate (sniffer/fetcher 호출 없음)
//	3. manifest는 있지만 ready 아님 → 설치는 절대 암묵 실행하지 않는다.
//	   이전 환경이 활성이면 그것만 되돌린다.
//	4. manifest 없음 → 이전 환경이 활성이면 deactivate, 아니면 no-op
func (r *Resolver) Resolve(dir string, sess *shell.Session) *Decision {
	ident := identity.Resolve(dir)
	id := ident.ID()
	envRoot := filepath.Join(r.store.EnvsDir, id)

	// Step 1: 멱등 no-op. 디렉토리 변경 이벤트는 한 번의 cd에 여러 번
	// 발화할 수 있다.
	if sess.EnvID == id && r.store.IsReady(id) {
		return &Decision{Action: ActionNone, ID: id, Basename: ident.Basename, EnvRoot: envRoot, Reason: "active_noop"}
	}

	// Step 2: ready 레코드 — fast path.
	if r.store.IsReady(id) {
		return &Decision{Action: ActionActivate, ID: id, Basename: ident.Basename, EnvRoot: envRoot, Reason: "ready"}
	}

	// Step 3: manifest는 있으나 빌드되지 않음.
	if manifest.Exists(dir) {
		if sess.Active() {
			return &Decision{Action: ActionDeactivate, ID: id, Basename: ident.Basename, EnvRoot: envRoot, Reason: "not_built"}
		}
		return &Decision{Action: ActionNone, ID: id, Basename: ident.Basename, EnvRoot: envRoot, Reason: "not_built"}
	}

	// Step 4: 프로젝트 아님.
	if sess.Active() {
		return &Decision{Action: ActionDeactivate, ID: id, Basename: ident.Basename, EnvRoot: envRoot, Reason: "left_project"}
	}
	return &Decision{Action: ActionNone, ID: id, Basename: ident.Basename, EnvRoot: envRoot, Reason: "no_project"}
}

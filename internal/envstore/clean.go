package envstore

import (
	"fmt"
	"os"
	"time"
)

// CleanOptions는 clean 동작의 선택 기준이다.
type CleanOptions struct {
	// OlderThanDays가 0보다 크면 해당 일수보다 오래된 레코드만 대상이 된다.
	OlderThanDays int
	// EmptyOnly가 true면 패키지/바이너리가 없는 레코드만 대상이 된다.
	EmptyOnly bool
	// DryRun이 true면 보고만 하고 삭제하지 않는다.
	DryRun bool
	// Force가 false면 DryRun과 동일하게 동작한다. 실제 삭제는
	// Force && !DryRun 조합에서만 일어난다.
	Force bool
}

// Failure는 삭제에 실패한 레코드 하나의 보고다.
type Failure struct {
	ID  string
	Err error
}

// Report는 clean/remove의 부분 실패를 포함한 결과 요약이다.
type Report struct {
	// Candidates는 삭제 대상(또는 대상이었을) 레코드 id 목록이다.
	Candidates []string
	// Removed는 실제 삭제된 레코드 수다.
	Removed int
	// Failures는 레코드별 삭제 실패 목록이다. 하나의 실패가 나머지
	// 레코드의 삭제를 중단시키지 않는다.
	Failures []Failure
	// FreedBytes는 삭제(또는 dry-run이면 삭제 예정)된 총 바이트 수다.
	FreedBytes int64
	// DryRun은 이번 실행이 보고 전용이었는지 여부다.
	DryRun bool
}

// Clean은 기준에 맞는 레코드들을 일괄 삭제한다.
// force 없이 호출되면 파일시스템을 전혀 변경하지 않고 대상만 보고한다.
func (s *Store) Clean(opts CleanOptions) (*Report, error) {
	records, err := s.List()
	if err != nil {
		return nil, fmt.Errorf("envstore.Clean: %w", err)
	}

	cutoff := time.Now().AddDate(0, 0, -opts.OlderThanDays)
	var targets []*Record
	for _, rec := range records {
		if opts.OlderThanDays > 0 && !rec.ModTime.Before(cutoff) {
			continue
		}
		if opts.EmptyOnly && !rec.Empty() {
			continue
		}
		targets = append(targets, rec)
	}

	return s.removeRecords(targets, opts.DryRun || !opts.Force), nil
}

// Remove는 하나의 레코드를 삭제한다. 없는 id는 ErrNotFound다.
func (s *Store) Remove(id string, dryRun, force bool) (*Report, error) {
	rec, err := s.Open(id)
	if err != nil {
		return nil, fmt.Errorf("envstore.Remove: %w", err)
	}
	return s.removeRecords([]*Record{rec}, dryRun || !force), nil
}

// RemoveAll은 저장소의 모든 레코드를 삭제한다.
// 전역 환경은 envs/ 바깥(<base>/global)에 있으므로 대상에 포함되지 않는다.
func (s *Store) RemoveAll(dryRun, force bool) (*Report, error) {
	records, err := s.List()
	if err != nil {
		return nil, fmt.Errorf("envstore.RemoveAll: %w", err)
	}
	return s.removeRecords(records, dryRun || !force), nil
}

func (s *Store) removeRecords(targets []*Record, dryRun bool) *Report {
	report := &Report{DryRun: dryRun}
	for _, rec := range targets {
		report.Candidates = append(report.Candidates, rec.ID)
		size := rec.Size()
		if dryRun {
			report.FreedBytes += size
			continue
		}
		if err := os.RemoveAll(rec.Root); err != nil {
			report.Failures = append(report.Failures, Failure{ID: rec.ID, Err: err})
			continue
		}
		report.Removed++
		report.FreedBytes += size
	}
	return report
}

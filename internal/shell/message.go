package shell

import "strings"

// Expand는 메시지 템플릿의 {path} 자리에 프로젝트 디렉토리 이름을 치환한다.
// 지원하는 placeholder는 {path} 하나뿐이다. 출력 여부의 판단은 호출자
// 몫이다 — 템플릿 치환과 출력 게이트는 별개의 관심사다.
func Expand(template, basename string) string {
	return strings.ReplaceAll(template, "{path}", basename)
}

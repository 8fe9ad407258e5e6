package cronx

import (
	"fmt"
	"strings"
)

// Validate Cron 표현식의 유효성을 검사합니다.
//
// StandardParser()와 동일한 6필드 확장 형식(초 단위 포함)을 기준으로 검증하므로,
// 이 함수를 통과한 표현식은 스케줄 등록 시에도 항상 파싱에 성공합니다.
func Validate(spec string) error {
	if _, err := StandardParser().Parse(strings.TrimSpace(spec)); err != nil {
		return fmt.Errorf("Cron 표현식 파싱 실패(spec=%q): %w", spec, err)
	}
	return nil
}

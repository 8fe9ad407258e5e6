package contract

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// TestTimeRange_Contains는 평가 구간의 일치 판정 규칙을 검증합니다.
//
// 검증 항목:
//   - Empty는 어떤 시각과도 일치하지 않음
//   - Open은 상한(배타) 미만의 모든 시각과 일치
//   - Closed는 하한(포함) 이상, 상한(배타) 미만의 시각과 일치
//   - 경계값의 strict-less-than 의미론
func TestTimeRange_Contains(t *testing.T) {
	t.Parallel()

	base := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		r     TimeRange
		t     time.Time
		wantS bool
	}{
		{name: "Empty는 어떤 시각과도 일치하지 않음", r: EmptyTimeRange(), t: base, wantS: false},
		{name: "Empty는 제로 시각과도 일치하지 않음", r: EmptyTimeRange(), t: time.Time{}, wantS: false},

		{name: "Open - 상한보다 이른 시각", r: OpenTimeRange(base), t: base.Add(-time.Second), wantS: true},
		{name: "Open - 상한과 같은 시각 (배타적)", r: OpenTimeRange(base), t: base, wantS: false},
		{name: "Open - 상한보다 늦은 시각", r: OpenTimeRange(base), t: base.Add(time.Second), wantS: false},
		{name: "Open - 아주 먼 과거도 일치 (하한 없음)", r: OpenTimeRange(base), t: base.AddDate(-10, 0, 0), wantS: true},

		{name: "Closed - 하한과 같은 시각 (포함)", r: ClosedTimeRange(base, base.Add(time.Hour)), t: base, wantS: true},
		{name: "Closed - 구간 내부", r: ClosedTimeRange(base, base.Add(time.Hour)), t: base.Add(30 * time.Minute), wantS: true},
		{name: "Closed - 상한과 같은 시각 (배타적)", r: ClosedTimeRange(base, base.Add(time.Hour)), t: base.Add(time.Hour), wantS: false},
		{name: "Closed - 하한보다 이른 시각", r: ClosedTimeRange(base, base.Add(time.Hour)), t: base.Add(-time.Second), wantS: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.wantS, tt.r.Contains(tt.t))
		})
	}
}

// TestTimeRange_Kind는 생성자가 올바른 판별자를 부여하는지 검증합니다.
func TestTimeRange_Kind(t *testing.T) {
	t.Parallel()

	now := time.Now()

	assert.Equal(t, TimeRangeEmpty, EmptyTimeRange().Kind())
	assert.Equal(t, TimeRangeOpen, OpenTimeRange(now).Kind())
	assert.Equal(t, TimeRangeClosed, ClosedTimeRange(now, now.Add(time.Hour)).Kind())
}

// TestTimeRange_String은 로그 출력용 문자열 표현을 검증합니다.
func TestTimeRange_String(t *testing.T) {
	t.Parallel()

	base := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, "Empty", EmptyTimeRange().String())
	assert.Contains(t, OpenTimeRange(base).String(), "Open(")
	assert.Contains(t, ClosedTimeRange(base, base.Add(time.Hour)).String(), "Closed(")
}

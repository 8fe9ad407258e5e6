package log

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestWithComponent는 component 필드가 로그 Entry에 일관되게 추가되는지 검증합니다.
func TestWithComponent(t *testing.T) {
	entry := WithComponent("dispatcher.service")
	require.NotNil(t, entry)
	assert.Equal(t, "dispatcher.service", entry.Data["component"])
}

// TestWithComponentAndFields는 component 필드와 추가 필드의 병합을 검증합니다.
func TestWithComponentAndFields(t *testing.T) {
	entry := WithComponentAndFields("dispatcher.service", Fields{
		"ocid":  "ocds-t1s2t3-MD-1",
		"phase": "awardPeriodEnd",
	})
	require.NotNil(t, entry)
	assert.Equal(t, "dispatcher.service", entry.Data["component"])
	assert.Equal(t, "ocds-t1s2t3-MD-1", entry.Data["ocid"])
	assert.Equal(t, "awardPeriodEnd", entry.Data["phase"])

	// 원본 Fields를 오염시키지 않아야 합니다.
	fields := Fields{"key": "value"}
	_ = WithComponentAndFields("test", fields)
	_, exists := fields["component"]
	assert.False(t, exists, "원본 Fields에 component 필드가 추가되면 안 됩니다")
}

// TestSetDebugMode는 Debug 모드에 따른 로그 레벨 전환을 검증합니다.
func TestSetDebugMode(t *testing.T) {
	original := logrus.GetLevel()
	defer logrus.SetLevel(original)

	SetDebugMode(true)
	assert.Equal(t, logrus.TraceLevel, logrus.GetLevel())

	SetDebugMode(false)
	assert.Equal(t, logrus.InfoLevel, logrus.GetLevel())
}

// TestOptionsValidate는 로그 옵션 유효성 검증을 확인합니다.
func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		wantErr bool
	}{
		{
			name: "정상 옵션",
			opts: Options{Name: "e-chronograph"},
		},
		{
			name:    "Name 누락",
			opts:    Options{},
			wantErr: true,
		},
		{
			name:    "음수 MaxAge",
			opts:    Options{Name: "e-chronograph", MaxAge: -1},
			wantErr: true,
		},
		{
			name:    "음수 MaxSizeMB",
			opts:    Options{Name: "e-chronograph", MaxSizeMB: -1},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

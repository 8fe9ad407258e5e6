// Package config 애플리케이션 설정의 로드와 검증을 담당합니다.
//
// 설정은 기본값 → JSON 설정 파일 → 환경 변수 순서로 병합되며,
// 로드 직후 전체 설정의 정합성 검증을 통과해야 합니다.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	apperrors "github.com/MTenderSourceCode/e-chronograph/internal/pkg/errors"
	"github.com/MTenderSourceCode/e-chronograph/pkg/cronx"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	// AppName 애플리케이션의 전역 고유 식별자입니다.
	AppName string = "e-chronograph"

	// DefaultFilename 애플리케이션 초기화 시 참조하는 기본 설정 파일명입니다.
	// 실행 인자를 통해 명시적인 경로가 제공되지 않을 경우, 시스템은 이 파일을 탐색하여 구성을 로드합니다.
	DefaultFilename = AppName + ".json"

	// ------------------------------------------------------------------------------------------------
	// 기본값
	// ------------------------------------------------------------------------------------------------

	// DefaultStoragePath 작업 저장소 데이터베이스 파일의 기본 경로
	DefaultStoragePath = "data/" + AppName + ".db"

	// DefaultCommandQueueSize Dispatcher 명령 수신 채널의 기본 버퍼 크기
	DefaultCommandQueueSize = 10

	// DefaultCacheBufferSize 기동 작업 전달 채널의 기본 버퍼 크기
	DefaultCacheBufferSize = 100

	// DefaultErrorBufferSize 에러 응답 전달 채널의 기본 버퍼 크기
	DefaultErrorBufferSize = 100

	// DefaultTickerTimeSpec 적재 틱의 기본 Cron 표현식 (매 분 0초)
	DefaultTickerTimeSpec = "0 * * * * *"

	// DefaultTickerAdvance 적재 선행 시간 기본값
	DefaultTickerAdvance = "90s"

	// DefaultMaxRetries 웹훅 전달 실패 시 최대 재시도 횟수 기본값
	DefaultMaxRetries = 3

	// DefaultRetryDelay 재시도 사이의 대기 시간 기본값
	DefaultRetryDelay = "2s"
)

// AppConfig 애플리케이션의 모든 설정을 관장하는 최상위 루트 구조체
type AppConfig struct {
	Debug      bool             `json:"debug"`
	Storage    StorageConfig    `json:"storage"`
	Dispatcher DispatcherConfig `json:"dispatcher"`
	Ticker     TickerConfig     `json:"ticker"`
	Consumer   ConsumerConfig   `json:"consumer"`
	HTTPRetry  HTTPRetryConfig  `json:"http_retry"`
	API        APIConfig        `json:"api"`
}

// validate 설정 파일 로드 직후, 각 설정 항목의 정합성과 필수 값의 유효성을 검증합니다.
func (c *AppConfig) validate() error {
	if err := c.Storage.validate(); err != nil {
		return err
	}
	if err := c.Dispatcher.validate(); err != nil {
		return err
	}
	if err := c.Ticker.validate(); err != nil {
		return err
	}
	if err := c.Consumer.validate(); err != nil {
		return err
	}
	if err := c.HTTPRetry.validate(); err != nil {
		return err
	}
	if err := c.API.validate(); err != nil {
		return err
	}
	return nil
}

// VerifyRecommendations 서비스 운영의 안정성과 보안을 위해 권장되는 설정 준수 여부를 진단합니다.
// 강제적인 에러를 발생시키지는 않으나, 잠재적 위험 요소(예: Well-known Port 사용)에 대한 경고 메시지를 반환합니다.
func (c *AppConfig) VerifyRecommendations() []string {
	return c.API.VerifyRecommendations()
}

// StorageConfig 작업 저장소의 데이터베이스 파일 위치를 정의하는 설정 구조체
type StorageConfig struct {
	Path string `json:"path" validate:"required"`
}

func (c *StorageConfig) validate() error {
	return checkStruct(validate, c, "저장소(storage)")
}

// DispatcherConfig Dispatcher의 채널 버퍼 크기를 정의하는 설정 구조체
type DispatcherConfig struct {
	CommandQueueSize int `json:"command_queue_size" validate:"min=1"`
	CacheBufferSize  int `json:"cache_buffer_size" validate:"min=0"`
	ErrorBufferSize  int `json:"error_buffer_size" validate:"min=0"`
}

func (c *DispatcherConfig) validate() error {
	return checkStruct(validate, c, "Dispatcher(dispatcher)")
}

// TickerConfig 적재 틱의 주기와 선행 시간을 정의하는 설정 구조체
type TickerConfig struct {
	TimeSpec string `json:"time_spec" validate:"required"`
	Advance  string `json:"advance" validate:"required"`
}

func (c *TickerConfig) validate() error {
	if err := checkStruct(validate, c, "Ticker(ticker)"); err != nil {
		return err
	}

	if err := cronx.Validate(c.TimeSpec); err != nil {
		return apperrors.Wrap(err, apperrors.InvalidInput, fmt.Sprintf("적재 틱 주기(time_spec) 설정이 유효한 Cron 표현식이 아닙니다: '%s'", c.TimeSpec))
	}

	advance, err := time.ParseDuration(c.Advance)
	if err != nil {
		return apperrors.Wrap(err, apperrors.InvalidInput, fmt.Sprintf("적재 선행 시간(advance) 설정이 올바르지 않습니다: '%s' (예: 90s, 2m)", c.Advance))
	}
	if advance <= 0 {
		return apperrors.New(apperrors.InvalidInput, fmt.Sprintf("적재 선행 시간(advance)은 0보다 커야 합니다: '%s'", c.Advance))
	}

	return nil
}

// AdvanceDuration 적재 선행 시간을 time.Duration으로 반환합니다.
// validate()를 통과한 설정에서만 호출해야 합니다.
func (c *TickerConfig) AdvanceDuration() time.Duration {
	advance, _ := time.ParseDuration(c.Advance)
	return advance
}

// ConsumerConfig 하류 소비자의 웹훅 엔드포인트를 정의하는 설정 구조체
type ConsumerConfig struct {
	TaskEndpoint  string `json:"task_endpoint" validate:"required,url"`
	ErrorEndpoint string `json:"error_endpoint" validate:"required,url"`
}

func (c *ConsumerConfig) validate() error {
	return checkStruct(validate, c, "소비자(consumer)")
}

// HTTPRetryConfig 웹훅 전달 실패 시 재시도 횟수와 대기 시간을 정의하는 설정 구조체
type HTTPRetryConfig struct {
	MaxRetries int    `json:"max_retries" validate:"min=0"`
	RetryDelay string `json:"retry_delay" validate:"required"`
}

func (c *HTTPRetryConfig) validate() error {
	if err := checkStruct(validate, c, "HTTP 재시도(http_retry)"); err != nil {
		return err
	}

	delay, err := time.ParseDuration(c.RetryDelay)
	if err != nil {
		return apperrors.Wrap(err, apperrors.InvalidInput, fmt.Sprintf("HTTP 재시도 대기 시간(retry_delay) 설정이 올바르지 않습니다: '%s' (예: 1s, 500ms)", c.RetryDelay))
	}
	if delay <= 0 {
		return apperrors.New(apperrors.InvalidInput, fmt.Sprintf("HTTP 재시도 대기 시간(retry_delay)은 0보다 커야 합니다: '%s'", c.RetryDelay))
	}

	return nil
}

// RetryDelayDuration 재시도 대기 시간을 time.Duration으로 반환합니다.
// validate()를 통과한 설정에서만 호출해야 합니다.
func (c *HTTPRetryConfig) RetryDelayDuration() time.Duration {
	delay, _ := time.ParseDuration(c.RetryDelay)
	return delay
}

// APIConfig 명령 접수용 REST API 서버의 포트, 인증, 요청 제한을 정의하는 설정 구조체
type APIConfig struct {
	ListenPort int `json:"listen_port" validate:"min=1,max=65535"`

	// AppKey API 요청 인증에 사용되는 비밀 키입니다. X-APP-KEY 헤더로 전달받습니다.
	AppKey string `json:"app_key" validate:"required"`

	// RateLimit 클라이언트당 초당 허용 요청 수입니다. 0이면 제한하지 않습니다.
	RateLimit float64 `json:"rate_limit" validate:"min=0"`

	TLSServer   bool   `json:"tls_server"`
	TLSCertFile string `json:"tls_cert_file" validate:"required_if=TLSServer true,omitempty,file"`
	TLSKeyFile  string `json:"tls_key_file" validate:"required_if=TLSServer true,omitempty,file"`
}

func (c *APIConfig) validate() error {
	return checkStruct(validate, c, "API 서버(api)")
}

func (c *APIConfig) VerifyRecommendations() []string {
	var warnings []string

	// 시스템 예약 포트(1024 미만) 사용 경고
	if c.ListenPort < 1024 {
		warnings = append(warnings, fmt.Sprintf("시스템 예약 포트(1-1023)를 사용하도록 설정되었습니다(port: %d). 이 경우 서버 구동 시 관리자 권한이 필요할 수 있습니다", c.ListenPort))
	}

	return warnings
}

// Load 기본 설정 파일을 읽어 애플리케이션 설정을 로드합니다.
func Load() (*AppConfig, error) {
	return LoadWithFile(DefaultFilename)
}

// LoadWithFile 지정된 경로의 설정 파일을 읽어 AppConfig 객체를 생성합니다.
func LoadWithFile(filename string) (*AppConfig, error) {
	k := koanf.New(".")

	// 1. 기본값 로드 (가장 낮은 우선순위)
	err := k.Load(confmap.Provider(map[string]interface{}{
		"storage.path":                  DefaultStoragePath,
		"dispatcher.command_queue_size": DefaultCommandQueueSize,
		"dispatcher.cache_buffer_size":  DefaultCacheBufferSize,
		"dispatcher.error_buffer_size":  DefaultErrorBufferSize,
		"ticker.time_spec":              DefaultTickerTimeSpec,
		"ticker.advance":                DefaultTickerAdvance,
		"http_retry.max_retries":        DefaultMaxRetries,
		"http_retry.retry_delay":        DefaultRetryDelay,
	}, "."), nil)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.System, "애플리케이션 기본 설정 로드에 실패했습니다")
	}

	// 2. JSON 설정 파일 로드 (기본값 덮어쓰기)
	if err := k.Load(file.Provider(filename), json.Parser()); err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.Wrap(err, apperrors.System, fmt.Sprintf("설정 파일을 찾을 수 없습니다: '%s'", filename))
		}
		return nil, apperrors.Wrap(err, apperrors.InvalidInput, fmt.Sprintf("설정 파일 로드 중 오류가 발생했습니다: '%s'", filename))
	}

	// 3. 환경 변수 로드 (최우선 순위, JSON 설정 덮어쓰기)
	// 접두사: CHRONO_
	// 구분자: 이중 언더스코어(__)를 점(.)으로 변환 (계층 구조 표현)
	// 예: CHRONO_TICKER__TIME_SPEC -> ticker.time_spec
	if err := k.Load(env.Provider("CHRONO_", ".", func(s string) string {
		s = strings.TrimPrefix(s, "CHRONO_")
		s = strings.ToLower(s)
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, apperrors.Wrap(err, apperrors.System, "환경 변수 로드에 실패했습니다")
	}

	// 4. 구조체 언마샬링 (Strict Validation 적용)
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "json",
		DecoderConfig: &mapstructure.DecoderConfig{
			ErrorUnused:      true, // 파일에 존재하지만 구조체에 없는 필드가 있을 경우 에러를 발생시킴
			WeaklyTypedInput: true,
		},
	}
	var appConfig AppConfig
	if err := k.UnmarshalWithConf("", &appConfig, unmarshalConf); err != nil {
		return nil, apperrors.Wrap(err, apperrors.System, "설정 데이터를 애플리케이션 구조체로 변환하는데 실패했습니다")
	}

	// 5. 유효성 검사 수행 (정합성 체크)
	if err := appConfig.validate(); err != nil {
		return nil, apperrors.Wrap(err, apperrors.InvalidInput, fmt.Sprintf("설정 파일('%s')의 유효성 검증에 실패했습니다", filename))
	}

	return &appConfig, nil
}

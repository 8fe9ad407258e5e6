package config

import (
	"fmt"
	"reflect"
	"strings"

	apperrors "github.com/MTenderSourceCode/e-chronograph/internal/pkg/errors"
	"github.com/go-playground/validator/v10"
)

// validate 패키지 전역 Validator 인스턴스입니다. 설정 로드 시에만 사용됩니다.
var validate = newValidator()

// newValidator 새로운 Validator 인스턴스를 생성합니다.
func newValidator() *validator.Validate {
	v := validator.New()

	// 검증 에러가 났을 때, 에러 메시지에 Go 구조체 필드명(예: ListenPort) 대신 JSON 이름(예: listen_port)을 보여주도록 설정합니다.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return v
}

// checkStruct 구조체 인스턴스의 유효성을 태그 규칙에 따라 검증하고, 발생한 오류를 사용자 친화적인 도메인 에러로 변환합니다.
func checkStruct(v *validator.Validate, s interface{}, contextName string) error {
	if err := v.Struct(s); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			// 첫 번째 에러만 상세히 보고
			firstErr := validationErrors[0]

			// 필드별(Field) 커스텀 에러 처리
			switch firstErr.StructField() {
			case "Path":
				return apperrors.New(apperrors.InvalidInput, "저장소 데이터베이스 파일 경로(path)는 필수입니다")
			case "CommandQueueSize":
				return apperrors.New(apperrors.InvalidInput, fmt.Sprintf("명령 큐 크기(command_queue_size)는 1 이상이어야 합니다: '%v'", firstErr.Value()))
			case "CacheBufferSize":
				return apperrors.New(apperrors.InvalidInput, fmt.Sprintf("캐시 채널 버퍼 크기(cache_buffer_size)는 0 이상이어야 합니다: '%v'", firstErr.Value()))
			case "ErrorBufferSize":
				return apperrors.New(apperrors.InvalidInput, fmt.Sprintf("에러 채널 버퍼 크기(error_buffer_size)는 0 이상이어야 합니다: '%v'", firstErr.Value()))
			case "TaskEndpoint":
				return apperrors.New(apperrors.InvalidInput, fmt.Sprintf("기동 작업 전달용 웹훅 주소(task_endpoint)가 올바른 URL이 아닙니다: '%v'", firstErr.Value()))
			case "ErrorEndpoint":
				return apperrors.New(apperrors.InvalidInput, fmt.Sprintf("에러 응답 전달용 웹훅 주소(error_endpoint)가 올바른 URL이 아닙니다: '%v'", firstErr.Value()))
			case "MaxRetries":
				return apperrors.New(apperrors.InvalidInput, fmt.Sprintf("웹훅 최대 재시도 횟수(max_retries)는 0 이상이어야 합니다: '%v'", firstErr.Value()))
			case "ListenPort":
				return apperrors.New(apperrors.InvalidInput, "API 서버 포트(listen_port)는 1에서 65535 사이의 값이어야 합니다")
			case "AppKey":
				return apperrors.New(apperrors.InvalidInput, "API 인증 키(app_key)는 필수입니다")
			case "RateLimit":
				return apperrors.New(apperrors.InvalidInput, fmt.Sprintf("요청 제한(rate_limit)은 0 이상이어야 합니다: '%v'", firstErr.Value()))
			case "TLSCertFile":
				switch firstErr.Tag() {
				case "required_if":
					return apperrors.New(apperrors.InvalidInput, "TLS 서버 활성화 시 TLS 인증서 파일 경로(tls_cert_file)는 필수입니다")
				case "file":
					return apperrors.New(apperrors.InvalidInput, fmt.Sprintf("지정된 TLS 인증서 파일(tls_cert_file)을 찾을 수 없습니다: '%v'", firstErr.Value()))
				default:
					return apperrors.New(apperrors.InvalidInput, "TLS 인증서 파일 경로(tls_cert_file) 설정이 올바르지 않습니다")
				}
			case "TLSKeyFile":
				switch firstErr.Tag() {
				case "required_if":
					return apperrors.New(apperrors.InvalidInput, "TLS 서버 활성화 시 TLS 키 파일 경로(tls_key_file)는 필수입니다")
				case "file":
					return apperrors.New(apperrors.InvalidInput, fmt.Sprintf("지정된 TLS 키 파일(tls_key_file)을 찾을 수 없습니다: '%v'", firstErr.Value()))
				default:
					return apperrors.New(apperrors.InvalidInput, "TLS 키 파일 경로(tls_key_file) 설정이 올바르지 않습니다")
				}
			}

			return apperrors.New(apperrors.InvalidInput, fmt.Sprintf("%s의 설정이 올바르지 않습니다: %s (조건: %s)", contextName, firstErr.Field(), firstErr.Tag()))
		}
		return apperrors.Wrap(err, apperrors.InvalidInput, fmt.Sprintf("%s 유효성 검증에 실패했습니다", contextName))
	}
	return nil
}

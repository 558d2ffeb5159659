package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// ErrConfig는 설정 파일 오류를 나타내는 sentinel error다.
var ErrConfig = errors.New("설정 파일 오류")

// 기본 메시지 템플릿. {path} 자리에 프로젝트 디렉토리 이름이 치환된다.
const (
	DefaultMsgActivate   = "denv: {path} 환경 활성화"
	DefaultMsgDeactivate = "denv: {path} 환경 비활성화"
)

// Config는 denv 설정 파일의 최상위 구조체다.
// 모든 항목은 환경변수(DENV_*)로 개별 override할 수 있다 — activation 경로는
// 설정 파일 없이도 동작해야 하기 때문이다.
type Config struct {
	Version       int    `toml:"version"`
	Prefix        string `toml:"prefix"`
	Verbose       *bool  `toml:"verbose"`
	Messages      *bool  `toml:"messages"`
	MsgActivate   string `toml:"msg_activate"`
	MsgDeactivate string `toml:"msg_deactivate"`
	FetchCommand  string `toml:"fetch_command"`
	// FetchInteractive가 true면 fetch 명령을 stdio 연결 상태로 실행한다.
	// 라이선스 동의 등 프롬프트를 띄우는 fetch 도구용이다.
	FetchInteractive *bool `toml:"fetch_interactive"`
}

// Load는 config.toml을 파싱하여 Config를 반환한다.
// 파일이 없으면 기본값 Config를 반환한다 (graceful) — 셸 hook은 설정 파일이
// 없는 환경에서도 매 디렉토리 이동마다 호출되기 때문이다.
func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg.applyDefaults()
		cfg.applyEnvOverrides()
		if err := cfg.validate(); err != nil {
			return nil, err
		}
		return &cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("config.Load: %w: %v", ErrConfig, err)
	}
	cfg.applyDefaults()
	cfg.applyEnvOverrides()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// DefaultPath는 기본 설정 파일 경로를 반환한다.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".config", "denv", "config.toml")
}

// BaseDir는 환경 저장소의 루트 디렉토리를 반환한다.
func (c *Config) BaseDir() string {
	return c.Prefix
}

// EnvsDir는 프로젝트별 환경 레코드가 놓이는 디렉토리를 반환한다.
func (c *Config) EnvsDir() string {
	return filepath.Join(c.Prefix, "envs")
}

// GlobalDir는 프로젝트와 무관한 전역 환경 디렉토리를 반환한다.
// envs/ 바깥에 두어 bulk clean/remove가 건드릴 수 없게 한다.
func (c *Config) GlobalDir() string {
	return filepath.Join(c.Prefix, "global")
}

// IsVerbose는 진단용 상세 출력 여부를 반환한다.
func (c *Config) IsVerbose() bool {
	if c.Verbose == nil {
		return false
	}
	return *c.Verbose
}

// ShowMessages는 활성화/비활성화 메시지 출력 여부를 반환한다.
func (c *Config) ShowMessages() bool {
	if c.Messages == nil {
		return true
	}
	return *c.Messages
}

// InteractiveFetch는 fetch 명령을 interactive로 실행할지 여부를 반환한다.
func (c *Config) InteractiveFetch() bool {
	if c.FetchInteractive == nil {
		return false
	}
	return *c.FetchInteractive
}

// TestMode는 실제 설치를 생략하는 테스트 모드 여부를 반환한다.
// 환경변수로만 제어한다 — 설정 파일에 남을 성격의 값이 아니다.
func (c *Config) TestMode() bool {
	return boolEnv("DENV_TEST_MODE")
}

func (c *Config) applyDefaults() {
	if c.Version == 0 {
		c.Version = 1
	}
	if c.Prefix == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		c.Prefix = filepath.Join(home, ".denv")
	}
	if c.MsgActivate == "" {
		c.MsgActivate = DefaultMsgActivate
	}
	if c.MsgDeactivate == "" {
		c.MsgDeactivate = DefaultMsgDeactivate
	}
}

func (c *Config) applyEnvOverrides() {
	if v, ok := os.LookupEnv("DENV_PREFIX"); ok && v != "" {
		c.Prefix = v
	}
	if v, ok := os.LookupEnv("DENV_VERBOSE"); ok {
		b := parseBool(v)
		c.Verbose = &b
	}
	if v, ok := os.LookupEnv("DENV_MESSAGES"); ok {
		b := parseBool(v)
		c.Messages = &b
	}
	if v, ok := os.LookupEnv("DENV_MSG_ACTIVATE"); ok && v != "" {
		c.MsgActivate = v
	}
	if v, ok := os.LookupEnv("DENV_MSG_DEACTIVATE"); ok && v != "" {
		c.MsgDeactivate = v
	}
	if v, ok := os.LookupEnv("DENV_FETCH_INTERACTIVE"); ok {
		b := parseBool(v)
		c.FetchInteractive = &b
	}
}

func (c *Config) validate() error {
	if !filepath.IsAbs(c.Prefix) {
		return fmt.Errorf("config.Load: %w: prefix는 절대 경로여야 합니다: %s", ErrConfig, c.Prefix)
	}
	return nil
}

func boolEnv(key string) bool {
	v, ok := os.LookupEnv(key)
	return ok && parseBool(v)
}

func parseBool(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}

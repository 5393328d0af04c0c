package config

import (
	"fmt"
	"os"
)

// WriteDefault writes the documented default configuration file to path.
func WriteDefault(path string) error {
	if err := os.WriteFile(path, []byte(defaultFile), 0o644); err != nil {
		return fmt.Errorf("config: write default %s: %w", path, err)
	}
	return nil
}

const defaultFile = `# 번역기 설정 파일 / Translator Configuration File

# 번역 엔진 선택 (google, papago, deepl)
# Translation engine selection (google, papago, deepl)
# google: 무료, API 키 불필요 / Free, no API key required
# papago: 네이버 클라우드 API 키 필요 / Naver Cloud API key required
# deepl: DeepL API 키 필요 / DeepL API key required
# 키가 없으면 google로 대체됩니다 / Falls back to google when keys are missing
TRANSLATION_ENGINE=google

# 번역 언어 설정 / Translation language settings
# 예 / e.g. ja, en, ko, zh-CN
SOURCE_LANG=ja
TARGET_LANG=ko

# === Papago API ===
# https://www.ncloud.com/ > AI·NAVER API > Papago NMT
PAPAGO_CLIENT_ID=
PAPAGO_CLIENT_SECRET=

# === DeepL API ===
# https://www.deepl.com/pro-api
# 언어 코드는 자동으로 대문자로 변환됩니다 / Language codes are upper-cased automatically
DEEPL_API_KEY=

# === UI 설정 / UI Settings ===
# CHARACTER_SPACING, ENABLE_AUTO_SIZING, CUSTOM_FONT_PATH는 리치 텍스트에만 적용
# CHARACTER_SPACING, ENABLE_AUTO_SIZING and CUSTOM_FONT_PATH only apply to rich text

# 글자 간격 (0~10, 기본 2) / Character spacing (0~10, default 2)
CHARACTER_SPACING=2

# 줄 간격 (-10~10, 기본 0), 모든 텍스트에 적용 / Line spacing (-10~10, default 0), applies to all text
LINE_SPACING=0

# 자동 크기 조절 (true/false) / Auto sizing (true/false)
ENABLE_AUTO_SIZING=false

# 커스텀 폰트 경로 (선택) / Custom font path (optional)
# 비워두면 notosanscjkjp_bold 사용 / Leave blank to use notosanscjkjp_bold
CUSTOM_FONT_PATH=

# === 캐시 / Cache ===
# file, sqlite, postgres
CACHE_BACKEND=file
# 비워두면 데이터 폴더에 저장 / Leave blank to store in the data folder
CACHE_PATH=
# postgres 전용 / postgres only, e.g. postgres://localhost:5432/overlay?sslmode=disable
DATABASE_URL=

# === 실행 / Runtime ===
# 번역 요청 제한 시간 / Provider request timeout
PROVIDER_TIMEOUT=10s
# 한 사이클에 처리할 리치 텍스트 수 / Rich nodes processed per cycle
BATCH_SIZE=150
# 자동 번역 / Auto-translate
AUTO_TRANSLATE=false
AUTO_INTERVAL=500ms
# 메시지 언어 (en, ko) / Message language (en, ko)
MESSAGE_LOCALE=en
# 제어 API 주소 / Control API address
CONTROL_ADDR=127.0.0.1:8787
`

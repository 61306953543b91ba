package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// ProviderTelegram はTelegramログインウィジェットのプロバイダー名。
const ProviderTelegram = "telegram"

// hashField はペイロード内の署名フィールド名。チェック文字列からは除外される。
const hashField = "hash"

// LoginPayload はIdPのログインウィジェットから送られるペイロードを表す。
// id, auth_date等の数値フィールドも文字列に正規化済みの状態で保持する。
// 永続化はされない一時データ。
type LoginPayload map[string]string

// ID はプロバイダー側ユーザーIDを返す。
func (p LoginPayload) ID() string { return p["id"] }

// FirstName はユーザーの名を返す。
func (p LoginPayload) FirstName() string { return p["first_name"] }

// LastName はユーザーの姓を返す。任意項目。
func (p LoginPayload) LastName() string { return p["last_name"] }

// Username はユーザー名を返す。任意項目。
func (p LoginPayload) Username() string { return p["username"] }

// ParseLoginPayload はJSONデコード済みのマップをLoginPayloadに正規化する。
// 数値フィールド（id, auth_date）はjson.Numberを経由して元の表記のまま
// 文字列化する。float64経由の変換は指数表記になりチェック文字列が
// IdP側の署名対象と一致しなくなるため使用しない。
func ParseLoginPayload(raw map[string]any) (LoginPayload, error) {
	payload := make(LoginPayload, len(raw))
	for key, value := range raw {
		switch v := value.(type) {
		case string:
			payload[key] = v
		case json.Number:
			payload[key] = v.String()
		case bool:
			if v {
				payload[key] = "true"
			} else {
				payload[key] = "false"
			}
		default:
			return nil, fmt.Errorf("unsupported payload field type for %q", key)
		}
	}
	return payload, nil
}

// TelegramVerifier はTelegramログインウィジェットの署名検証を行う。
// 共有シークレット（ボットトークン）のSHA-256ダイジェストをHMAC鍵として使用する。
type TelegramVerifier struct {
	secret     []byte
	configured bool
}

// NewTelegramVerifier はTelegramVerifierを生成する。
// botTokenが空の場合は未設定状態となり、Verifyは常にfalseを返す
// （フェイルクローズ。検証境界から先にエラーを漏らさない）。
func NewTelegramVerifier(botToken string) *TelegramVerifier {
	if botToken == "" {
		return &TelegramVerifier{}
	}
	sum := sha256.Sum256([]byte(botToken))
	return &TelegramVerifier{secret: sum[:], configured: true}
}

// Configured はボットトークンが設定済みかを返す。起動時の警告ログ用。
func (v *TelegramVerifier) Configured() bool {
	return v.configured
}

// Verify はペイロードがIdPによって署名されたものかを検証する。
// チェック文字列はhash以外の全フィールドをキーの辞書順に "key=value" 形式で
// 並べ、改行1つで連結したもの（末尾改行なし）。そのHMAC-SHA256の16進表現が
// hashフィールドと一致すれば真正とみなす。
// 比較はタイミングセーフな等価判定で行う。
func (v *TelegramVerifier) Verify(payload LoginPayload) bool {
	if !v.configured {
		return false
	}

	expected := payload[hashField]
	if expected == "" {
		return false
	}

	keys := make([]string, 0, len(payload))
	for key := range payload {
		if key == hashField {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)

	lines := make([]string, 0, len(keys))
	for _, key := range keys {
		lines = append(lines, key+"="+payload[key])
	}
	checkString := strings.Join(lines, "\n")

	mac := hmac.New(sha256.New, v.secret)
	mac.Write([]byte(checkString))
	digest := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(digest), []byte(expected))
}

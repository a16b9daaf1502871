package payment

import (
	"crypto"
	"crypto/hmac"
	"crypto/md5"
	"crypto/rsa"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/wechatpay-apiv3/wechatpay-go/utils"
)

// Canonical 按 key 排序拼接 k=v&k=v，跳过空值和签名字段
func Canonical(params map[string]string, exclude ...string) string {
	skip := make(map[string]struct{}, len(exclude))
	for _, k := range exclude {
		skip[k] = struct{}{}
	}

	keys := make([]string, 0, len(params))
	for k, v := range params {
		if v == "" {
			continue
		}
		if _, ok := skip[k]; ok {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for i, k := range keys {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(k)
		sb.WriteByte('=')
		sb.WriteString(params[k])
	}
	return sb.String()
}

const (
	SignTypeMD5        = "MD5"
	SignTypeHMACSHA256 = "HMAC-SHA256"
)

// keyedSign 微信 v2 签名，结果为大写十六进制
func keyedSign(canonical, key, signType string) string {
	source := canonical + "&key=" + key
	if signType == SignTypeHMACSHA256 {
		mac := hmac.New(sha256.New, []byte(key))
		mac.Write([]byte(source))
		return strings.ToUpper(hex.EncodeToString(mac.Sum(nil)))
	}
	sum := md5.Sum([]byte(source))
	return strings.ToUpper(hex.EncodeToString(sum[:]))
}

func rsaSign(key *rsa.PrivateKey, canonical string) (string, error) {
	return utils.SignSHA256WithRSA(canonical, key)
}

func rsaVerify(key *rsa.PublicKey, canonical, signature string) error {
	sig, err := base64.StdEncoding.DecodeString(signature)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	digest := sha256.Sum256([]byte(canonical))
	if err := rsa.VerifyPKCS1v15(key, crypto.SHA256, digest[:], sig); err != nil {
		return ErrInvalidSignature
	}
	return nil
}

// 支付宝后台导出的密钥通常不带 PEM 头
func pemWrap(key, block string) string {
	key = strings.TrimSpace(key)
	if strings.HasPrefix(key, "-----BEGIN") {
		return key
	}
	return fmt.Sprintf("-----BEGIN %s-----\n%s\n-----END %s-----", block, key, block)
}

func loadPrivateKey(inline, path string) (*rsa.PrivateKey, error) {
	if inline == "" && path != "" {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		inline = string(content)
	}
	if inline == "" {
		return nil, fmt.Errorf("private key not configured")
	}
	return utils.LoadPrivateKey(pemWrap(inline, "PRIVATE KEY"))
}

func loadPublicKey(inline, path string) (*rsa.PublicKey, error) {
	if inline == "" && path != "" {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		inline = string(content)
	}
	if inline == "" {
		return nil, fmt.Errorf("public key not configured")
	}
	return utils.LoadPublicKey(pemWrap(inline, "PUBLIC KEY"))
}

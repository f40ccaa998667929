package middleware

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"petshop_redirect_v1_202608/pkg/utils"
)

// ==================== 动作 Nonce ====================
//
// 对标 WP 的 wp_create_nonce / wp_verify_nonce：
// 每个写操作用途一个 purpose，绑定商品的再拼上商品 ID。
// 和会话 Token 不同，nonce 一次性消费，验证成功即作废。

// Nonce 用途
const (
	NoncePurposeUpdateRedirect = "pr_update_redirect" // 列表页内联下拉
	NoncePurposeMetaboxSave    = "pr_meta_box"        // 编辑页 metabox 保存
	NoncePurposeSaveSettings   = "pr_save_settings"   // 设置表单
)

// nonce 有效期，够完成一次表单操作
const nonceTTL = 10 * time.Minute

// Nonce 校验错误
var (
	ErrNonceInvalid  = errors.New("nonce 无效或已过期")
	ErrNonceMismatch = errors.New("nonce 与目标不匹配")
	ErrNonceReplayed = errors.New("nonce 已被使用")
)

// NonceClaims 动作声明
type NonceClaims struct {
	Purpose   string `json:"purpose"`
	ProductID int64  `json:"product_id,omitempty"` // 0 = 不绑定商品
	jwt.RegisteredClaims
}

// ==================== 生成 ====================

// GenerateNonce 生成动作 nonce
// productID 传 0 表示该用途不绑定具体商品（如设置表单）
func GenerateNonce(purpose string, productID int64) (string, error) {
	now := time.Now()
	claims := &NonceClaims{
		Purpose:   purpose,
		ProductID: productID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    jwtConfig.Issuer,
			Subject:   "nonce",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(nonceTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(jwtConfig.SecretKey))
}

// ==================== 校验 ====================

// VerifyNonce 校验并消费 nonce
// 校验顺序: 签名/过期 -> 用途 -> 商品绑定 -> 重放。
// 全部通过才标记已用，失败的请求不消耗 nonce。
func VerifyNonce(tokenString, purpose string, productID int64) error {
	token, err := jwt.ParseWithClaims(tokenString, &NonceClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(jwtConfig.SecretKey), nil
	})
	if err != nil {
		return ErrNonceInvalid
	}

	claims, ok := token.Claims.(*NonceClaims)
	if !ok || !token.Valid || claims.Subject != "nonce" {
		return ErrNonceInvalid
	}

	if claims.Purpose != purpose {
		return fmt.Errorf("%w: 用途 %q", ErrNonceMismatch, claims.Purpose)
	}

	// 为商品 A 签发的 nonce 不能用于商品 B
	if claims.ProductID != productID {
		return fmt.Errorf("%w: 商品 %d", ErrNonceMismatch, claims.ProductID)
	}

	if utils.NonceUsed(claims.ID) {
		return ErrNonceReplayed
	}

	utils.MarkNonceUsed(claims.ID, nonceTTL)
	return nil
}

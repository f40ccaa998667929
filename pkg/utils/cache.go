package utils

import (
	"sync"
	"time"
)

// 使用 sync.Map 保证并发安全
var (
	usedNonceCache sync.Map
)

// usedNonceItem 内部结构，只记录过期时间
type usedNonceItem struct {
	expiration int64
}

// MarkNonceUsed 标记 nonce (jti) 已被消费
// ttl 传 nonce 自身的有效期即可，过期后的重放会先被签名校验挡掉
func MarkNonceUsed(jti string, ttl time.Duration) {
	usedNonceCache.Store(jti, usedNonceItem{
		expiration: time.Now().Add(ttl).Unix(),
	})
}

// NonceUsed 查询 nonce 是否已被消费
func NonceUsed(jti string) bool {
	val, ok := usedNonceCache.Load(jti)
	if !ok {
		return false
	}

	item := val.(usedNonceItem)

	// 过期即可遗忘 (懒删除)
	if time.Now().Unix() > item.expiration {
		usedNonceCache.Delete(jti)
		return false
	}

	return true
}

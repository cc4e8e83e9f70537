package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// JWTClaims はJWTトークンのクレーム（ペイロード）を表す。
// 認証済みユーザーのメールアドレスをハンドラに伝播するために使用する。
type JWTClaims struct {
	jwt.RegisteredClaims
	// Email はユーザーのメールアドレス。リソースの所有判定に使用する。
	Email string `json:"email"`
}

// TokenCookieName は識別トークンを保持するCookie名。
const TokenCookieName = "token"

// TokenLifetime はトークンの有効期間。発行時刻から1時間。
const TokenLifetime = time.Hour

// unauthorizedMessage は認証失敗時の応答メッセージ。
// どの検証で失敗したかを漏らさないよう、全ての失敗経路で同一の文言を返す。
const unauthorizedMessage = "認証されていないアクセスです"

// GenerateJWT はメールアドレスから識別用JWTトークンを生成する。
// ログインAPIがCookieに設定するトークンを発行するために呼び出す。
func GenerateJWT(secret, email string) (string, error) {
	claims := JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(TokenLifetime)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "jobbe-api",
		},
		Email: email,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("JWTトークンの署名に失敗: %w", err)
	}
	return signed, nil
}

// JWTAuth はCookieのJWTトークンを検証するGinミドルウェアを返す。
// Cookieが無い、署名が不正、または期限切れの場合は401を返して打ち切る。
// 検証に成功した場合、コンテキストに "email" を設定する。
func JWTAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := c.Cookie(TokenCookieName)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": unauthorizedMessage,
			})
			return
		}

		claims := &JWTClaims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("予期しない署名方式です: %v", t.Header["alg"])
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": unauthorizedMessage,
			})
			return
		}

		c.Set("email", claims.Email)
		c.Next()
	}
}

// GetEmail はGinコンテキストから認証済みユーザーのメールアドレスを取得する。
// JWTAuthミドルウェアが事前に適用されている必要がある。
func GetEmail(c *gin.Context) string {
	email, _ := c.Get("email")
	if e, ok := email.(string); ok {
		return e
	}
	return ""
}

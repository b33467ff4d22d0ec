package authfunc

import (
	"context"
	"strconv"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/hertz-contrib/jwt"
	"github.com/pkg/errors"

	"VideoHub.com/cmd/api/handlers"
	"VideoHub.com/pkg/errno"
	"VideoHub.com/pkg/principal"
	"VideoHub.com/pkg/utils"
)

// Identity 解析 access token. 签发 token 属于认证服务, 这里只负责校验
var Identity *jwt.HertzJWTMiddleware

func Init(secret, identityKey string, timeout time.Duration) error {
	mw, err := NewIdentity(secret, identityKey, timeout)
	if err != nil {
		return err
	}
	Identity = mw
	return nil
}

func NewIdentity(secret, identityKey string, timeout time.Duration) (*jwt.HertzJWTMiddleware, error) {
	return jwt.New(&jwt.HertzJWTMiddleware{
		Realm:         "videohub",
		Key:           []byte(secret),
		Timeout:       timeout,
		IdentityKey:   identityKey,
		TokenLookup:   "header: Authorization",
		TokenHeadName: "Bearer",
		TimeFunc:      time.Now,
		// 雪花 id 超出 float64 的精度, 以字符串写入 claims
		PayloadFunc: func(data interface{}) jwt.MapClaims {
			if uid, ok := data.(int64); ok {
				return jwt.MapClaims{identityKey: strconv.FormatInt(uid, 10)}
			}
			return jwt.MapClaims{}
		},
	})
}

// GenerateToken 供认证服务与测试使用
func GenerateToken(uid int64) (string, time.Time, error) {
	return Identity.TokenGenerator(uid)
}

// Identify 有合法 token 时把用户写入 ctx, 否则按匿名继续
func Identify() app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		claims, err := Identity.GetClaimsFromJWT(ctx, c)
		if err != nil {
			if !errors.Is(err, jwt.ErrEmptyAuthHeader) {
				hlog.CtxWarnf(ctx, "ignore invalid token: %v", err)
			}
			c.Next(ctx)
			return
		}
		if uid := utils.Transfer(claims[Identity.IdentityKey]); uid > 0 {
			ctx = principal.WithUser(ctx, uid)
		}
		c.Next(ctx)
	}
}

// Auth 必须登录的路由
func Auth() []app.HandlerFunc {
	return append(make([]app.HandlerFunc, 0),
		RequireUser(),
	)
}

func RequireUser() app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		if _, ok := principal.FromContext(ctx); !ok {
			handlers.SendResponse(c, errno.UnauthenticatedErr, nil)
			c.Abort()
			return
		}
		c.Next(ctx)
	}
}

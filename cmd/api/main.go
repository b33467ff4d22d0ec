package main

import (
	"context"
	"fmt"
	"io"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/middlewares/server/recovery"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/hertz-contrib/cors"
	"github.com/sirupsen/logrus"

	"VideoHub.com/cmd/api/handlers"
	"VideoHub.com/cmd/api/router"
	"VideoHub.com/cmd/api/router/authfunc"
	"VideoHub.com/cmd/interaction/dal"
	"VideoHub.com/cmd/interaction/infras/redis"
	"VideoHub.com/cmd/interaction/infras/search"
	"VideoHub.com/cmd/interaction/service"
	"VideoHub.com/config"
	"VideoHub.com/config/jaeger"
	"VideoHub.com/config/pprof"
	"VideoHub.com/pkg/errno"
	"VideoHub.com/pkg/mq"
	"VideoHub.com/pkg/oss"
	"VideoHub.com/pkg/utils"
)

func Init(ctx context.Context) (*service.Core, io.Closer) {
	config.Init()
	if err := utils.InitSnowflake(config.ConfigInfo.Snowflake.WorkerID, config.ConfigInfo.Snowflake.DatacenterID); err != nil {
		logrus.Fatalf("init snowflake: %v", err)
	}
	if err := authfunc.Init(config.ConfigInfo.Jwt.Secret, config.ConfigInfo.Jwt.IdentityKey, config.JwtTimeout()); err != nil {
		logrus.Fatalf("init jwt: %v", err)
	}

	// gorm 插件创建时读取全局 tracer, 必须先于数据库初始化
	closer := jaeger.Init(config.ConfigInfo.Jaeger.ServiceName)
	store := dal.Init()
	core := &service.Core{
		Store:     store,
		Cache:     redis.Load(ctx),
		Publisher: mq.NewPublisher(ctx),
		Searcher:  search.New(ctx, store),
	}
	// 对象存储不可用时仍然提供读服务, 上传返回 OssErr
	if media, err := oss.InitMinio(ctx); err != nil {
		hlog.CtxErrorf(ctx, "media store unavailable: %v", err)
	} else {
		core.Media = media
	}
	handlers.Init(core)
	return core, closer
}

func main() {
	ctx := context.Background()
	core, closer := Init(ctx)
	defer closer.Close()
	defer core.Publisher.Close()

	pprof.Load(config.ConfigInfo.Server.PprofAddr)

	r := server.New(
		server.WithHostPorts(config.ConfigInfo.Server.Addr),
		server.WithHandleMethodNotAllowed(true),
		server.WithMaxRequestBodySize(config.ConfigInfo.Server.MaxBodySize),
	)

	// 配置 CORS
	r.Use(cors.New(cors.Config{
		AllowOrigins:     config.ConfigInfo.Server.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,      // 是否允许发送凭证
		MaxAge:           12 * 3600, // 预检请求的缓存时间
	}))

	// 错误处理
	r.Use(recovery.Recovery(recovery.WithRecoveryHandler(
		func(ctx context.Context, c *app.RequestContext, err interface{}, stack []byte) {
			hlog.SystemLogger().CtxErrorf(ctx, "[Recovery] err=%v\nstack=%s", err, stack)
			handlers.SendResponse(c, errno.ServiceErr.WithMessage(fmt.Sprintf("[Recovery] err=%v", err)), nil)
		})))

	// 注册路由
	router.Register(r)

	r.Spin()
}

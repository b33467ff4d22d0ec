package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"VideoHub.com/cmd/interaction/consumer"
	"VideoHub.com/cmd/interaction/dal"
	"VideoHub.com/cmd/interaction/infras/search"
	"VideoHub.com/config"
	"VideoHub.com/config/pprof"
)

// 互动事件消费者: 维护搜索索引并统计事件
func main() {
	config.Init()
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.ConfigInfo.RabbitMq
	if !cfg.Enabled {
		hlog.CtxWarnf(ctx, "rabbitmq disabled, nothing to consume")
		return
	}

	store := dal.Init()
	indexer := consumer.NewIndexer(store, search.New(ctx, store))
	url := fmt.Sprintf("amqp://%s:%s@%s/", cfg.Username, cfg.Password, cfg.Addr)
	c, err := consumer.NewConsumer(url, cfg.Exchange, cfg.Prefetch, indexer)
	if err != nil {
		logrus.Fatalf("init consumer: %v", err)
	}
	defer c.Close()

	// 指标与 pprof 共用端口
	http.Handle("/metrics", promhttp.Handler())
	pprof.Load(config.ConfigInfo.Server.PprofAddr)

	if err = c.Run(ctx); err != nil {
		hlog.CtxErrorf(ctx, "consumer stopped: %v", err)
	}
	hlog.CtxInfof(ctx, "event consumer stopped")
}

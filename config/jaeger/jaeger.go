package jaeger

import (
	"io"

	"github.com/opentracing/opentracing-go"
	"github.com/sirupsen/logrus"
	"github.com/uber/jaeger-client-go"
	jaegercfg "github.com/uber/jaeger-client-go/config"

	"VideoHub.com/config"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Init 设置全局 tracer; 未开启 jaeger 时使用 NoopTracer
func Init(serviceName string) io.Closer {
	cfg := config.ConfigInfo.Jaeger
	if !cfg.Enabled {
		opentracing.SetGlobalTracer(opentracing.NoopTracer{})
		return nopCloser{}
	}
	if serviceName == "" {
		serviceName = cfg.ServiceName
	}
	jcfg := jaegercfg.Configuration{
		ServiceName: serviceName,
		Sampler: &jaegercfg.SamplerConfig{
			Type:  jaeger.SamplerTypeConst,
			Param: 1,
		},
		Reporter: &jaegercfg.ReporterConfig{
			LocalAgentHostPort: cfg.AgentAddr,
		},
	}
	tracer, closer, err := jcfg.NewTracer(jaegercfg.Logger(jaeger.StdLogger))
	if err != nil {
		logrus.Errorf("init jaeger tracer failed, tracing disabled: %v", err)
		opentracing.SetGlobalTracer(opentracing.NoopTracer{})
		return nopCloser{}
	}
	opentracing.SetGlobalTracer(tracer)
	logrus.Infof("jaeger tracer reporting to %s as %s", cfg.AgentAddr, serviceName)
	return closer
}

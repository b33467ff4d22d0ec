package handlers

import (
	"context"
	"runtime"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/shirou/gopsutil/cpu"
	"github.com/shirou/gopsutil/mem"

	"VideoHub.com/pkg/errno"
)

type Health struct {
	Status        string  `json:"status"`
	Goroutines    int     `json:"goroutines"`
	CpuPercent    float64 `json:"cpu_percent"`
	MemoryPercent float64 `json:"memory_percent"`
}

// Ping 健康检查, 主机指标读取失败时只返回进程信息
func Ping(ctx context.Context, c *app.RequestContext) {
	h := Health{Status: "ok", Goroutines: runtime.NumGoroutine()}
	if percents, err := cpu.PercentWithContext(ctx, 0, false); err == nil && len(percents) > 0 {
		h.CpuPercent = percents[0]
	} else if err != nil {
		hlog.CtxWarnf(ctx, "read cpu usage failed: %v", err)
	}
	if vm, err := mem.VirtualMemoryWithContext(ctx); err == nil {
		h.MemoryPercent = vm.UsedPercent
	} else {
		hlog.CtxWarnf(ctx, "read memory usage failed: %v", err)
	}
	SendResponse(c, errno.Success, h)
}

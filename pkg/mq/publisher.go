package mq

import (
	"context"
	"sync"
)

// Publisher 投递互动事件. 调用方只做尽力投递, 失败不影响主流程.
type Publisher interface {
	Publish(ctx context.Context, ev *EngagementEvent) error
	Close() error
}

// NopPublisher 未启用消息队列时使用
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, *EngagementEvent) error { return nil }

func (NopPublisher) Close() error { return nil }

// MemoryPublisher 把事件留在内存里, 供单进程部署和测试观察
type MemoryPublisher struct {
	mu     sync.Mutex
	events []*EngagementEvent
}

func (p *MemoryPublisher) Publish(_ context.Context, ev *EngagementEvent) error {
	p.mu.Lock()
	p.events = append(p.events, ev)
	p.mu.Unlock()
	return nil
}

func (p *MemoryPublisher) Close() error { return nil }

func (p *MemoryPublisher) Events() []*EngagementEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]*EngagementEvent, len(p.events))
	copy(out, p.events)
	return out
}

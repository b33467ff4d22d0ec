package consumer

import (
	"context"
	"fmt"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/goccy/go-json"
	"github.com/pkg/errors"
	"github.com/rabbitmq/amqp091-go"

	"VideoHub.com/cmd/interaction/dal/db"
	"VideoHub.com/cmd/interaction/infras/search"
	"VideoHub.com/pkg/constants"
	"VideoHub.com/pkg/errno"
	"VideoHub.com/pkg/metrics"
	"VideoHub.com/pkg/mq"
)

const consumerTag = "videohub-indexer"

// Handler 处理一条互动事件, 返回错误时消息会被重新投递一次
type Handler interface {
	Handle(ctx context.Context, ev *mq.EngagementEvent) error
}

// Indexer 按视频当前的发布状态修正搜索索引, 请求链路上的索引失败由这里补齐
type Indexer struct {
	store    *db.Store
	searcher search.Searcher
}

func NewIndexer(store *db.Store, searcher search.Searcher) *Indexer {
	return &Indexer{store: store, searcher: searcher}
}

func (h *Indexer) Handle(ctx context.Context, ev *mq.EngagementEvent) error {
	if ev.Type != constants.EventVideoPublished {
		return nil
	}
	v, err := h.store.Videos.Get(ctx, ev.TargetID)
	if errors.Is(err, errno.NotFoundErr) {
		hlog.CtxWarnf(ctx, "video %d gone before indexing", ev.TargetID)
		return h.searcher.Remove(ctx, ev.TargetID)
	}
	if err != nil {
		return err
	}
	// 事件可能晚于再次下架到达, 以数据库为准
	if !v.IsPublished {
		return h.searcher.Remove(ctx, v.VideoId)
	}
	return h.searcher.Index(ctx, v)
}

// Consumer 从互动事件队列中拉取消息, 手动 ack
type Consumer struct {
	conn    *amqp091.Connection
	channel *amqp091.Channel
	handler Handler
}

func NewConsumer(rabbitmqURL, exchange string, prefetch int, handler Handler) (*Consumer, error) {
	conn, err := amqp091.Dial(rabbitmqURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open a channel: %w", err)
	}
	c := &Consumer{conn: conn, channel: ch, handler: handler}
	if err = ch.Qos(prefetch, 0, false); err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to set qos: %w", err)
	}
	// 与生产者相同的拓扑, 先启动消费者时队列也已绑定到 exchange
	if err = mq.DeclareTopology(ch, exchange); err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to setup topology: %w", err)
	}
	return c, nil
}

// Run 阻塞直到 ctx 取消或连接断开
func (c *Consumer) Run(ctx context.Context) error {
	deliveries, err := c.channel.Consume(mq.EngagementQueue, consumerTag, false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to consume %s: %w", mq.EngagementQueue, err)
	}
	hlog.CtxInfof(ctx, "consuming %s", mq.EngagementQueue)
	for {
		select {
		case <-ctx.Done():
			return c.channel.Cancel(consumerTag, false)
		case d, ok := <-deliveries:
			if !ok {
				return errors.New("delivery channel closed")
			}
			Dispatch(ctx, c.handler, d)
		}
	}
}

// Dispatch 解析并处理一条消息. 无法解析的消息直接丢弃, 处理失败只重试一次
func Dispatch(ctx context.Context, handler Handler, d amqp091.Delivery) {
	var ev mq.EngagementEvent
	if err := json.Unmarshal(d.Body, &ev); err != nil {
		hlog.CtxErrorf(ctx, "drop malformed event %s: %v", d.MessageId, err)
		metrics.RecordConsumed(d.RoutingKey, "malformed")
		if err = d.Nack(false, false); err != nil {
			hlog.CtxErrorf(ctx, "nack %s: %v", d.MessageId, err)
		}
		return
	}
	if err := handler.Handle(ctx, &ev); err != nil {
		requeue := !d.Redelivered
		hlog.CtxWarnf(ctx, "handle %s %s failed, requeue=%v: %v", ev.Type, ev.EventID, requeue, err)
		metrics.RecordConsumed(ev.Type, "error")
		if err = d.Nack(false, requeue); err != nil {
			hlog.CtxErrorf(ctx, "nack %s: %v", ev.EventID, err)
		}
		return
	}
	metrics.RecordConsumed(ev.Type, "ok")
	if err := d.Ack(false); err != nil {
		hlog.CtxErrorf(ctx, "ack %s: %v", ev.EventID, err)
	}
}

func (c *Consumer) Close() error {
	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

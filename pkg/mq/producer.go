package mq

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/goccy/go-json"
	"github.com/rabbitmq/amqp091-go"

	"VideoHub.com/config"
)

const (
	EngagementQueue = "engagement_event_queue"
	publishTimeout  = 3 * time.Second
)

// Producer 基于 rabbitmq topic exchange 的事件投递
type Producer struct {
	mu       sync.Mutex
	conn     *amqp091.Connection
	channel  *amqp091.Channel
	exchange string
}

func NewProducer(rabbitmqURL, exchange string) (*Producer, error) {
	conn, err := amqp091.Dial(rabbitmqURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open a channel: %w", err)
	}

	producer := &Producer{
		conn:     conn,
		channel:  ch,
		exchange: exchange,
	}
	if err := DeclareTopology(ch, exchange); err != nil {
		producer.Close()
		return nil, fmt.Errorf("failed to setup topology: %w", err)
	}
	return producer, nil
}

// Declarer 声明拓扑所需的 channel 方法, *amqp091.Channel 满足
type Declarer interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp091.Table) error
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp091.Table) (amqp091.Queue, error)
	QueueBind(name, key, exchange string, noWait bool, args amqp091.Table) error
}

// DeclareTopology 声明 topic exchange 与互动事件队列并绑定.
// 生产者和消费者都调用, 谁先启动都不会丢消息
func DeclareTopology(ch Declarer, exchange string) error {
	err := ch.ExchangeDeclare(
		exchange,
		"topic",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return fmt.Errorf("failed to declare exchange %s: %w", exchange, err)
	}

	_, err = ch.QueueDeclare(
		EngagementQueue,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return fmt.Errorf("failed to declare engagement queue: %w", err)
	}

	// 所有互动事件都进入同一个队列, 下游按 routing key 区分
	if err = ch.QueueBind(EngagementQueue, "#", exchange, false, nil); err != nil {
		return fmt.Errorf("failed to bind engagement queue: %w", err)
	}
	return nil
}

func (p *Producer) Publish(ctx context.Context, ev *EngagementEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	p.mu.Lock()
	defer p.mu.Unlock()
	err = p.channel.PublishWithContext(ctx,
		p.exchange,
		ev.Type,
		false, // mandatory
		false, // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			MessageId:    ev.EventID,
			Timestamp:    time.Unix(ev.Timestamp, 0),
			Body:         body,
		})
	if err != nil {
		return fmt.Errorf("failed to publish %s: %w", ev.Type, err)
	}
	return nil
}

func (p *Producer) Close() error {
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}

// NewPublisher 按配置创建事件投递器, 未启用或连接失败时返回 NopPublisher
func NewPublisher(ctx context.Context) Publisher {
	cfg := config.ConfigInfo.RabbitMq
	if !cfg.Enabled {
		return NopPublisher{}
	}
	url := fmt.Sprintf("amqp://%s:%s@%s/", cfg.Username, cfg.Password, cfg.Addr)
	p, err := NewProducer(url, cfg.Exchange)
	if err != nil {
		hlog.CtxErrorf(ctx, "engagement events disabled: %v", err)
		return NopPublisher{}
	}
	hlog.CtxInfof(ctx, "engagement events go to exchange %s", cfg.Exchange)
	return p
}

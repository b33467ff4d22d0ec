package utils

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
)

// id 布局: 41 位毫秒时间戳 | 5 位数据中心 | 5 位节点 | 12 位序列号
const (
	idEpoch       = int64(1577836800000) // 2020-01-01
	nodeBits      = 5
	sequenceBits  = 12
	maxNode       = int64(1)<<nodeBits - 1
	sequenceMask  = int64(1)<<sequenceBits - 1
	workerShift   = sequenceBits
	centerShift   = sequenceBits + nodeBits
	timestampShft = sequenceBits + 2*nodeBits
)

// Snowflake 单调递增的 id 生成器. 列表按 created_at 排序时以 id 作为次序, 因此时钟回拨时不回退
type Snowflake struct {
	mu     sync.Mutex
	prefix int64 // 数据中心与节点位
	last   int64 // 上一个 id 使用的毫秒
	seq    int64
}

func NewSnowflake(workerID, datacenterID int64) (*Snowflake, error) {
	if workerID < 0 || workerID > maxNode {
		return nil, errors.Errorf("worker id %d out of [0, %d]", workerID, maxNode)
	}
	if datacenterID < 0 || datacenterID > maxNode {
		return nil, errors.Errorf("datacenter id %d out of [0, %d]", datacenterID, maxNode)
	}
	return &Snowflake{prefix: datacenterID<<centerShift | workerID<<workerShift}, nil
}

func (s *Snowflake) GenerateID() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UnixMilli()
	if now <= s.last {
		// 同一毫秒或时钟回拨: 沿用上次的毫秒继续递增序列号, 用完后借用下一毫秒
		now = s.last
		s.seq = (s.seq + 1) & sequenceMask
		if s.seq == 0 {
			now++
		}
	} else {
		s.seq = 0
	}
	s.last = now
	return (now-idEpoch)<<timestampShft | s.prefix | s.seq
}

// ParseID 拆出毫秒时间戳, 数据中心, 节点与序列号
func (s *Snowflake) ParseID(id int64) (timestamp, datacenterID, workerID, sequence int64) {
	return id>>timestampShft + idEpoch,
		id >> centerShift & maxNode,
		id >> workerShift & maxNode,
		id & sequenceMask
}

var defaultNode atomic.Pointer[Snowflake]

// InitSnowflake 按配置替换全局生成器, 启动时调用
func InitSnowflake(workerID, datacenterID int64) error {
	sf, err := NewSnowflake(workerID, datacenterID)
	if err != nil {
		return err
	}
	defaultNode.Store(sf)
	return nil
}

// NextID 为所有实体生成主键, 未初始化时使用节点 (1, 1)
func NextID() int64 {
	sf := defaultNode.Load()
	if sf == nil {
		fallback, _ := NewSnowflake(1, 1)
		if !defaultNode.CompareAndSwap(nil, fallback) {
			sf = defaultNode.Load()
		} else {
			sf = fallback
		}
	}
	return sf.GenerateID()
}

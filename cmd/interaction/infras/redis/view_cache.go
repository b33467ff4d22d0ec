package redis

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/goccy/go-json"
	"github.com/pkg/errors"

	"VideoHub.com/pkg/cache"
	"VideoHub.com/pkg/constants"
	"VideoHub.com/pkg/errno"
	"VideoHub.com/pkg/metrics"
)

// ViewCache 视频读视图缓存.
// key 形如 {prefix}{namespace}:{part}...:{principal}, 详情页的第一段是视频 id,
// 因此 {prefix}video:entity:{id}:* 可以清掉所有调用者的该视频缓存.
// 每个命名空间另有一个失效代数 {prefix}gen:{namespace}, 清除前先递增,
// 加载开始后代数变化的结果不回填.
type ViewCache struct {
	store  cache.Store
	prefix string
	ttl    time.Duration
}

func NewViewCache(store cache.Store, prefix string, ttl time.Duration) *ViewCache {
	return &ViewCache{store: store, prefix: prefix, ttl: ttl}
}

func (vc *ViewCache) Store() cache.Store {
	return vc.store
}

// Key 组装缓存 key, 各段做转义, 避免查询词里的 ':' 或通配符影响模式匹配
func (vc *ViewCache) Key(namespace, scope string, parts ...interface{}) string {
	var b strings.Builder
	b.WriteString(vc.prefix)
	b.WriteString(namespace)
	for _, p := range parts {
		b.WriteByte(':')
		b.WriteString(escapePart(fmt.Sprint(p)))
	}
	b.WriteByte(':')
	b.WriteString(scope)
	return b.String()
}

func (vc *ViewCache) genKey(namespace string) string {
	return vc.prefix + "gen:" + namespace
}

func escapePart(s string) string {
	s = url.QueryEscape(s)
	return strings.NewReplacer("*", "%2A", "?", "%3F", "[", "%5B", "]", "%5D").Replace(s)
}

// GetOrLoad 先读缓存, 未命中时调用 load 并回填.
// 缓存读写失败只记日志, 不影响本次请求.
func GetOrLoad[T any](ctx context.Context, vc *ViewCache, namespace, key string, load func(context.Context) (T, error)) (T, error) {
	raw, ok, err := vc.store.Get(ctx, key)
	switch {
	case err != nil:
		metrics.RecordCacheLookup(namespace, "error")
		hlog.CtxWarnf(ctx, "view cache get %s failed: %v", key, err)
	case ok:
		var out T
		if err := json.Unmarshal(raw, &out); err == nil {
			metrics.RecordCacheLookup(namespace, "hit")
			return out, nil
		}
		hlog.CtxWarnf(ctx, "view cache entry %s is corrupt, reloading", key)
		metrics.RecordCacheLookup(namespace, "miss")
	default:
		metrics.RecordCacheLookup(namespace, "miss")
	}

	// 代数必须在读库之前取得
	genKey := vc.genKey(namespace)
	gen, genErr := vc.store.Generation(ctx, genKey)
	out, err := load(ctx)
	if err != nil {
		return out, err
	}
	if genErr != nil {
		hlog.CtxWarnf(ctx, "view cache generation %s failed, skip fill: %v", genKey, genErr)
		return out, nil
	}
	data, err := json.Marshal(out)
	if err != nil {
		hlog.CtxWarnf(ctx, "view cache encode %s failed: %v", key, err)
		return out, nil
	}
	stored, err := vc.store.SetIfGeneration(ctx, key, data, vc.ttl, genKey, gen)
	if err != nil {
		hlog.CtxWarnf(ctx, "view cache set %s failed: %v", key, err)
	} else if !stored {
		metrics.RecordCacheLookup(namespace, "stale_fill")
		hlog.CtxInfof(ctx, "view cache %s evicted during load, not filled", key)
	}
	return out, nil
}

// EvictNamespace 同步清空整个命名空间, 失败时返回 StoreUnavailable
func (vc *ViewCache) EvictNamespace(ctx context.Context, namespaces ...string) error {
	for _, ns := range namespaces {
		if err := vc.store.Bump(ctx, vc.genKey(ns)); err != nil {
			return errors.WithMessagef(errno.StoreUnavailableErr.WithMessage(err.Error()), "bump %s", ns)
		}
		n, err := vc.store.EvictAll(ctx, vc.prefix+ns)
		if err != nil {
			return errors.WithMessagef(errno.StoreUnavailableErr.WithMessage(err.Error()), "evict %s", ns)
		}
		metrics.RecordEviction(ns, n)
	}
	return nil
}

// EvictVideo 清除某个视频对所有调用者的详情缓存.
// 代数按命名空间计, 同时在加载的其他视频详情这一次也不回填
func (vc *ViewCache) EvictVideo(ctx context.Context, videoId int64) error {
	if err := vc.store.Bump(ctx, vc.genKey(constants.VideoEntityCache)); err != nil {
		return errors.WithMessagef(errno.StoreUnavailableErr.WithMessage(err.Error()), "bump video %d", videoId)
	}
	pattern := vc.prefix + constants.VideoEntityCache + ":" + strconv.FormatInt(videoId, 10) + ":*"
	n, err := vc.store.Evict(ctx, pattern)
	if err != nil {
		return errors.WithMessagef(errno.StoreUnavailableErr.WithMessage(err.Error()), "evict video %d", videoId)
	}
	metrics.RecordEviction(constants.VideoEntityCache, n)
	return nil
}

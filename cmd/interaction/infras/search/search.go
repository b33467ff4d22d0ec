// Package search finds published videos by title and description.
package search

import (
	"context"
	"strconv"
	"time"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/olivere/elastic/v7"
	"github.com/pkg/errors"

	"VideoHub.com/cmd/interaction/dal/db"
	"VideoHub.com/cmd/model"
	"VideoHub.com/config"
	"VideoHub.com/pkg/errno"
)

type Searcher interface {
	Search(ctx context.Context, query string, offset, limit int) (*db.Page[model.Video], error)
	// Index 写入或覆盖视频文档, 发布状态变化时也要调用
	Index(ctx context.Context, v *model.Video) error
	Remove(ctx context.Context, videoId int64) error
}

// DBSearcher 直接在关系库上做 LIKE 匹配, 索引操作为空
type DBSearcher struct {
	store *db.Store
}

func NewDBSearcher(store *db.Store) *DBSearcher {
	return &DBSearcher{store: store}
}

func (s *DBSearcher) Search(ctx context.Context, query string, offset, limit int) (*db.Page[model.Video], error) {
	return s.store.SearchVideos(ctx, query, offset, limit)
}

func (s *DBSearcher) Index(context.Context, *model.Video) error { return nil }

func (s *DBSearcher) Remove(context.Context, int64) error { return nil }

type videoDoc struct {
	VideoId     int64     `json:"video_id"`
	UserId      int64     `json:"user_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	IsPublished bool      `json:"is_published"`
	IsShort     bool      `json:"is_short"`
	CreatedAt   time.Time `json:"created_at"`
}

// ElasticSearcher 在 es 中检索 id, 再回关系库取完整数据
type ElasticSearcher struct {
	client *elastic.Client
	index  string
	store  *db.Store
}

func NewElasticSearcher(client *elastic.Client, index string, store *db.Store) *ElasticSearcher {
	return &ElasticSearcher{client: client, index: index, store: store}
}

func (s *ElasticSearcher) Search(ctx context.Context, query string, offset, limit int) (*db.Page[model.Video], error) {
	q := elastic.NewBoolQuery().
		Must(elastic.NewMultiMatchQuery(query, "title", "description")).
		Filter(elastic.NewTermQuery("is_published", true))
	res, err := s.client.Search().Index(s.index).
		Query(q).
		Sort("created_at", false).
		From(offset).Size(limit).
		Do(ctx)
	if err != nil {
		return nil, errors.WithMessage(errno.StoreUnavailableErr.WithMessage(err.Error()), "search videos")
	}

	ids := make([]int64, 0, len(res.Hits.Hits))
	for _, hit := range res.Hits.Hits {
		id, err := strconv.ParseInt(hit.Id, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	videos, err := s.store.Videos.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byId := make(map[int64]*model.Video, len(videos))
	for _, v := range videos {
		byId[v.VideoId] = v
	}
	page := &db.Page[model.Video]{Items: make([]*model.Video, 0, len(ids)), Total: res.TotalHits()}
	for _, id := range ids {
		// 索引可能比库里多出已删除的视频
		if v, ok := byId[id]; ok && v.IsPublished {
			page.Items = append(page.Items, v)
		}
	}
	return page, nil
}

func (s *ElasticSearcher) Index(ctx context.Context, v *model.Video) error {
	_, err := s.client.Index().Index(s.index).
		Id(strconv.FormatInt(v.VideoId, 10)).
		BodyJson(videoDoc{
			VideoId:     v.VideoId,
			UserId:      v.UserId,
			Title:       v.Title,
			Description: v.Description,
			IsPublished: v.IsPublished,
			IsShort:     v.IsShort,
			CreatedAt:   v.CreatedAt,
		}).
		Do(ctx)
	if err != nil {
		return errors.WithMessagef(err, "index video %d", v.VideoId)
	}
	return nil
}

func (s *ElasticSearcher) Remove(ctx context.Context, videoId int64) error {
	_, err := s.client.Delete().Index(s.index).Id(strconv.FormatInt(videoId, 10)).Do(ctx)
	if err != nil && !elastic.IsNotFound(err) {
		return errors.WithMessagef(err, "remove video %d", videoId)
	}
	return nil
}

// New es 开启且可连通时使用 es, 否则退回数据库检索
func New(ctx context.Context, store *db.Store) Searcher {
	if !config.ConfigInfo.Elastic.Enabled {
		return NewDBSearcher(store)
	}
	client, err := elastic.NewClient(
		elastic.SetURL(config.ConfigInfo.Elastic.URL),
		elastic.SetSniff(false),
	)
	if err != nil {
		hlog.CtxErrorf(ctx, "elastic unavailable, search falls back to database: %v", err)
		return NewDBSearcher(store)
	}
	exists, err := client.IndexExists(config.ConfigInfo.Elastic.Index).Do(ctx)
	if err == nil && !exists {
		_, err = client.CreateIndex(config.ConfigInfo.Elastic.Index).BodyString(videoMapping).Do(ctx)
	}
	if err != nil {
		hlog.CtxErrorf(ctx, "prepare elastic index failed, search falls back to database: %v", err)
		return NewDBSearcher(store)
	}
	return NewElasticSearcher(client, config.ConfigInfo.Elastic.Index, store)
}

const videoMapping = `{
  "mappings": {
    "properties": {
      "video_id":     {"type": "long"},
      "user_id":      {"type": "long"},
      "title":        {"type": "text"},
      "description":  {"type": "text"},
      "is_published": {"type": "boolean"},
      "is_short":     {"type": "boolean"},
      "created_at":   {"type": "date"}
    }
  }
}`

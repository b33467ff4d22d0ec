package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/cloudwego/hertz/pkg/common/hlog"

	"VideoHub.com/cmd/interaction/dal/db"
	"VideoHub.com/cmd/model"
	"VideoHub.com/pkg/constants"
	"VideoHub.com/pkg/errno"
	"VideoHub.com/pkg/mq"
	"VideoHub.com/pkg/principal"
	"VideoHub.com/pkg/utils"
)

var (
	// 顶层评论新的在前, 回复按时间正序
	topLevelOrder = []db.Sort{{Column: "created_at", Desc: true}, {Column: "comment_id", Desc: true}}
	replyOrder    = []db.Sort{{Column: "created_at"}, {Column: "comment_id"}}
)

type CommentService struct {
	ctx  context.Context
	core *Core
}

func NewCommentService(ctx context.Context, core *Core) *CommentService {
	return &CommentService{ctx: ctx, core: core}
}

func validateContent(content string) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", errno.RequestErr.WithMessage("Content is required")
	}
	if utf8.RuneCountInString(content) > constants.MaxContentLength {
		return "", errno.RequestErr.WithMessage("Content is too long")
	}
	return content, nil
}

// AddComment 在视频下发表顶层评论
func (s *CommentService) AddComment(ctx context.Context, videoId int64, content string, userId int64) (*CommentView, error) {
	if userId <= 0 {
		return nil, errno.UnauthenticatedErr
	}
	content, err := validateContent(content)
	if err != nil {
		return nil, err
	}
	if _, err := s.core.Store.Videos.Get(ctx, videoId); err != nil {
		return nil, err
	}
	return s.create(ctx, &model.Comment{
		CommentId: utils.NextID(),
		UserId:    userId,
		VideoId:   videoId,
		Content:   content,
	})
}

// AddReply 回复沿用父评论所属的视频, 不限制嵌套层数
func (s *CommentService) AddReply(ctx context.Context, parentId int64, content string, userId int64) (*CommentView, error) {
	if userId <= 0 {
		return nil, errno.UnauthenticatedErr
	}
	content, err := validateContent(content)
	if err != nil {
		return nil, err
	}
	parent, err := s.core.Store.Comments.Get(ctx, parentId)
	if err != nil {
		return nil, err
	}
	pid := parent.CommentId
	return s.create(ctx, &model.Comment{
		CommentId: utils.NextID(),
		UserId:    userId,
		VideoId:   parent.VideoId,
		ParentId:  &pid,
		Content:   content,
	})
}

func (s *CommentService) create(ctx context.Context, c *model.Comment) (*CommentView, error) {
	if err := s.core.Store.Comments.Insert(ctx, c); err != nil {
		return nil, err
	}
	hlog.CtxInfof(ctx, "comment %d created on video %d by user %d", c.CommentId, c.VideoId, c.UserId)
	s.core.publish(ctx, mq.NewEngagementEvent(constants.EventCommentCreated, "video", c.VideoId, c.UserId))
	return s.core.projector().Comment(principal.WithUser(ctx, c.UserId), c)
}

// owned 取评论并校验归属
func (s *CommentService) owned(ctx context.Context, commentId, userId int64) (*model.Comment, error) {
	if userId <= 0 {
		return nil, errno.UnauthenticatedErr
	}
	c, err := s.core.Store.Comments.Get(ctx, commentId)
	if err != nil {
		return nil, err
	}
	if c.UserId != userId {
		return nil, errno.ForbiddenErr.WithMessage("You can only modify your own comments")
	}
	return c, nil
}

func (s *CommentService) UpdateComment(ctx context.Context, commentId int64, content string, userId int64) (*CommentView, error) {
	content, err := validateContent(content)
	if err != nil {
		return nil, err
	}
	c, err := s.owned(ctx, commentId, userId)
	if err != nil {
		return nil, err
	}
	c.Content = content
	if err := s.core.Store.Comments.Update(ctx, c.CommentId, c); err != nil {
		return nil, err
	}
	return s.core.projector().Comment(principal.WithUser(ctx, userId), c)
}

// DeleteComment 只删除评论本身, 回复保留并指向已不存在的父评论
func (s *CommentService) DeleteComment(ctx context.Context, commentId, userId int64) error {
	c, err := s.owned(ctx, commentId, userId)
	if err != nil {
		return err
	}
	if _, err := s.core.Store.Comments.DeleteByID(ctx, c.CommentId); err != nil {
		return err
	}
	if _, err := s.core.Store.Likes.DeleteWhere(ctx, db.Filter{"comment_id": c.CommentId}); err != nil {
		hlog.CtxWarnf(ctx, "clean likes of comment %d failed: %v", c.CommentId, err)
	}
	return nil
}

// GetVideoComments 视频下的顶层评论
func (s *CommentService) GetVideoComments(ctx context.Context, videoId int64, page, size int) (*PageView[*CommentView], error) {
	return s.list(ctx, db.Filter{"video_id": videoId, "parent_id": nil}, topLevelOrder, page, size)
}

// GetCommentReplies 某条评论的直接回复
func (s *CommentService) GetCommentReplies(ctx context.Context, parentId int64, page, size int) (*PageView[*CommentView], error) {
	return s.list(ctx, db.Filter{"parent_id": parentId}, replyOrder, page, size)
}

func (s *CommentService) list(ctx context.Context, filter db.Filter, order []db.Sort, page, size int) (*PageView[*CommentView], error) {
	page, size = normalizePage(page, size)
	res, err := s.core.Store.Comments.FindPage(ctx, filter, order, page*size, size)
	if err != nil {
		return nil, err
	}
	items, err := s.core.projector().Comments(ctx, res.Items)
	if err != nil {
		return nil, err
	}
	return &PageView[*CommentView]{Items: items, Total: res.Total, Page: page, Size: size}, nil
}

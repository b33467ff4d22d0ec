package oss

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/pkg/errors"

	"VideoHub.com/pkg/errno"
	"VideoHub.com/pkg/utils"
)

// Asset 上传后的媒体: 可直接访问的地址与时长
type Asset struct {
	URL      string
	Duration time.Duration
}

// MediaStore 保存视频与封面的外部对象存储
type MediaStore interface {
	PutVideo(ctx context.Context, ownerId, videoId int64, r io.Reader, size int64, contentType string) (*Asset, error)
	PutThumbnail(ctx context.Context, ownerId, videoId int64, r io.Reader, size int64, contentType string) (string, error)
}

type MinioStore struct {
	client  *minio.Client
	bucket  string
	baseURL string
	tempDir string

	// 测试时可替换
	durationOf func(path string) (time.Duration, error)
}

func NewMinioStore(client *minio.Client, bucket, baseURL, tempDir string) *MinioStore {
	return &MinioStore{
		client:     client,
		bucket:     bucket,
		baseURL:    strings.TrimRight(baseURL, "/"),
		tempDir:    tempDir,
		durationOf: utils.MediaDuration,
	}
}

// PutVideo 先落盘交给 ffmpeg 读取时长, 再上传到 minio
func (s *MinioStore) PutVideo(ctx context.Context, ownerId, videoId int64, r io.Reader, size int64, contentType string) (*Asset, error) {
	if err := os.MkdirAll(s.tempDir, os.ModePerm); err != nil {
		return nil, errors.WithMessage(err, "Failed to create folders")
	}
	tmp, err := os.CreateTemp(s.tempDir, fmt.Sprintf("upload-%d-*.mp4", videoId))
	if err != nil {
		return nil, errors.WithMessage(err, "Failed to create temp file")
	}
	defer os.Remove(tmp.Name())

	if _, err = io.Copy(tmp, r); err != nil {
		tmp.Close()
		return nil, errors.WithMessage(err, "Failed to buffer upload")
	}
	if err = tmp.Close(); err != nil {
		return nil, err
	}

	duration, err := s.durationOf(tmp.Name())
	if err != nil {
		return nil, errno.RequestErr.WithMessage("Unreadable video file: " + err.Error())
	}

	objectName := VideoObjectName(ownerId, videoId)
	_, err = s.client.FPutObject(ctx, s.bucket, objectName, tmp.Name(), minio.PutObjectOptions{ContentType: contentTypeOr(contentType, "video/mp4")})
	if err != nil {
		return nil, errors.WithMessage(errno.OssErr.WithMessage(err.Error()), "upload video")
	}
	return &Asset{URL: s.ObjectURL(objectName), Duration: duration}, nil
}

func (s *MinioStore) PutThumbnail(ctx context.Context, ownerId, videoId int64, r io.Reader, size int64, contentType string) (string, error) {
	objectName := ThumbnailObjectName(ownerId, videoId, contentType)
	_, err := s.client.PutObject(ctx, s.bucket, objectName, r, size, minio.PutObjectOptions{ContentType: contentTypeOr(contentType, "image/jpeg")})
	if err != nil {
		return "", errors.WithMessage(errno.OssErr.WithMessage(err.Error()), "upload thumbnail")
	}
	return s.ObjectURL(objectName), nil
}

func (s *MinioStore) ObjectURL(objectName string) string {
	return s.baseURL + "/" + path.Join(s.bucket, objectName)
}

func VideoObjectName(ownerId, videoId int64) string {
	return fmt.Sprintf("video/%d/%d/video.mp4", ownerId, videoId)
}

func ThumbnailObjectName(ownerId, videoId int64, contentType string) string {
	suffix := ".jpg"
	if contentType == "image/png" {
		suffix = ".png"
	}
	return fmt.Sprintf("video/%d/%d/cover%s", ownerId, videoId, suffix)
}

func contentTypeOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

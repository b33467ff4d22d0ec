package oss

import (
	"context"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"VideoHub.com/config"
)

// location MinIO默认区域
const location = "us-east-1"

// InitMinio 创建 minio 客户端并确保存储桶存在
func InitMinio(ctx context.Context) (*MinioStore, error) {
	cfg := config.ConfigInfo.Minio
	hlog.CtxInfof(ctx, "Initializing MinIO client with endpoint: %s, accessKey: %s", cfg.Endpoint, cfg.AccessKey)

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		hlog.CtxErrorf(ctx, "Failed to create MinIO client: %v", err)
		return nil, err
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, err
	}
	if !exists {
		if err = client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{Region: location}); err != nil {
			return nil, err
		}
	}

	hlog.CtxInfof(ctx, "Connect Minio Success")
	return NewMinioStore(client, cfg.Bucket, publicBase(cfg.PublicURL, cfg.Endpoint, cfg.UseSSL), config.ConfigInfo.Server.UploadTempDir), nil
}

func publicBase(publicURL, endpoint string, useSSL bool) string {
	if publicURL != "" {
		return publicURL
	}
	if useSSL {
		return "https://" + endpoint
	}
	return "http://" + endpoint
}

package services

import (
	"context"
	"fmt"
	"io"
	"log"
	"sync"

	"threadchat/configs"
	"threadchat/internal/enums"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// AttachmentService stores message attachments in object storage and hands
// back public URLs for embedding in message content.
type AttachmentService struct {
	minioClient *minio.Client
	config      *configs.Config
}

var (
	attachmentService *AttachmentService
	attachmentOnce    sync.Once
)

func NewAttachmentService(config *configs.Config) *AttachmentService {
	attachmentOnce.Do(func() {
		endpoint := config.Viper.GetString("minio.endpoint")
		accessKeyID := config.Viper.GetString("minio.access_key_id")
		secretAccessKey := config.Viper.GetString("minio.secret_access_key")
		useSSL := config.Viper.GetBool("minio.use_ssl")

		minioClient, err := minio.New(endpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(accessKeyID, secretAccessKey, ""),
			Secure: useSSL,
		})
		if err != nil {
			log.Fatalln(err)
		}

		bucketName := enums.FILE_BUCKET_ATTACHMENTS
		err = minioClient.MakeBucket(context.Background(), bucketName, minio.MakeBucketOptions{})
		if err != nil {
			exists, errBucketExists := minioClient.BucketExists(context.Background(), bucketName)
			if errBucketExists != nil || !exists {
				log.Fatalln(err)
			}
		}

		attachmentService = &AttachmentService{
			minioClient: minioClient,
			config:      config,
		}
	})
	return attachmentService
}

func (as *AttachmentService) UploadAttachment(fileName string, file io.Reader, fileSize int64, contentType string) (string, error) {
	info, err := as.minioClient.PutObject(
		context.Background(),
		enums.FILE_BUCKET_ATTACHMENTS,
		fileName,
		file,
		fileSize,
		minio.PutObjectOptions{ContentType: contentType},
	)
	if err != nil {
		log.Println(err)
		return "", err
	}
	return as.publicURL(info.Key), nil
}

func (as *AttachmentService) publicURL(fileKey string) string {
	externalEndpoint := as.config.Viper.GetString("minio.external_endpoint")
	return fmt.Sprintf("http://%s/%s/%s", externalEndpoint, enums.FILE_BUCKET_ATTACHMENTS, fileKey)
}

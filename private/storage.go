package private

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/filswan/go-mcs-sdk/mcs/api/bucket"
	"github.com/filswan/go-mcs-sdk/mcs/api/common/logs"
	"github.com/filswan/go-mcs-sdk/mcs/api/user"
)

// Uploader publishes an artifact and returns the uri it can be downloaded from.
type Uploader interface {
	Upload(ctx context.Context, objectName string, data []byte) (string, error)
}

// McsUploader stores artifacts in a multichain.storage bucket.
type McsUploader struct {
	McsApiKey      string
	McsAccessToken string
	NetWork        string
	BucketName     string
	GatewayUrl     string
}

func (s *McsUploader) Upload(ctx context.Context, objectName string, data []byte) (string, error) {
	if s.BucketName == "" || s.GatewayUrl == "" {
		return "", fmt.Errorf("bucket name and gateway url are required")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	tmp, err := os.CreateTemp("", "swan-private-*")
	if err != nil {
		return "", err
	}
	defer os.Remove(tmp.Name())
	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		return "", err
	}
	if err = tmp.Close(); err != nil {
		return "", err
	}

	ossFile, err := s.uploadFileToBucket(objectName, tmp.Name())
	if err != nil {
		return "", err
	}
	return strings.TrimSuffix(s.GatewayUrl, "/") + "/ipfs/" + ossFile.PayloadCid, nil
}

func (s *McsUploader) uploadFileToBucket(objectName, filePath string) (*bucket.OssFile, error) {
	logs.GetLogger().Infof("uploading file to bucket, objectName: %s", objectName)
	mcsClient, err := user.LoginByApikey(s.McsApiKey, s.McsAccessToken, s.NetWork)
	if err != nil {
		logs.GetLogger().Errorf("Failed creating mcsClient, error: %v", err)
		return nil, err
	}
	buketClient := bucket.GetBucketClient(*mcsClient)

	file, err := buketClient.GetFile(s.BucketName, objectName)
	if err != nil && !strings.Contains(err.Error(), "record not found") {
		logs.GetLogger().Errorf("Failed get file form bucket, error: %v", err)
		return nil, err
	}
	if file != nil {
		if err = buketClient.DeleteFile(s.BucketName, objectName); err != nil {
			logs.GetLogger().Errorf("Failed delete file form bucket, error: %v", err)
			return nil, err
		}
	}

	if err = buketClient.UploadFile(s.BucketName, objectName, filePath, true); err != nil {
		logs.GetLogger().Errorf("Failed upload file to bucket, error: %v", err)
		return nil, err
	}

	ossFile, err := buketClient.GetFile(s.BucketName, objectName)
	if err != nil {
		logs.GetLogger().Errorf("Failed get file form bucket, error: %v", err)
		return nil, err
	}
	return ossFile, nil
}

// minio.go
//
// A Go data service backing the atelier portfolio site and admin console
// Copyright (c) 2026 Atelier Studio <dev@atelier-studio.com>
//
// This file is part of portfoliodb.
// portfoliodb is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// portfoliodb is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with portfoliodb.
// If not, see <https://www.gnu.org/licenses/>.

// Package storage puts artwork image files in an S3-compatible object store
// and hands back the public URLs the site serves them from.
package storage

import (
	"context"
	"fmt"
	"io"
	"mime"
	"path"
	"strings"

	"github.com/atelier-studio/portfoliodb/internal/config"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ImageStore wraps a minio client scoped to the artwork image bucket.
type ImageStore struct {
	Client    *minio.Client
	Bucket    string
	publicURL string
}

// NewImageStore connects to the object store named in cfg and ensures the
// image bucket exists.
func NewImageStore(cfg *config.Config) (*ImageStore, error) {
	client, err := minio.New(cfg.StorageEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.StorageAccessKey, cfg.StorageSecretKey, ""),
		Secure: cfg.StorageSecure,
	})
	if err != nil {
		return nil, err
	}

	ctx := context.Background()
	exists, err := client.BucketExists(ctx, cfg.StorageBucket)
	if err != nil {
		return nil, err
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.StorageBucket, minio.MakeBucketOptions{}); err != nil {
			return nil, err
		}
	}

	publicURL := strings.TrimRight(cfg.StoragePublicURL, "/")
	if publicURL == "" {
		scheme := "http"
		if cfg.StorageSecure {
			scheme = "https"
		}
		publicURL = fmt.Sprintf("%s://%s", scheme, cfg.StorageEndpoint)
	}

	return &ImageStore{Client: client, Bucket: cfg.StorageBucket, publicURL: publicURL}, nil
}

// PutImage streams one image into the bucket under objectPath.
func (s *ImageStore) PutImage(ctx context.Context, objectPath string, r io.Reader, size int64, contentType string) error {
	_, err := s.Client.PutObject(ctx, s.Bucket, objectPath, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	return err
}

// PublicURL returns the address the site serves objectPath from.
func (s *ImageStore) PublicURL(objectPath string) string {
	return fmt.Sprintf("%s/%s/%s", s.publicURL, s.Bucket, objectPath)
}

// GuessContentType maps a filename extension to a MIME type, falling back to
// the client-supplied type, then to octet-stream.
func GuessContentType(filename string, fallback string) string {
	if ext := path.Ext(filename); ext != "" {
		if ct := mime.TypeByExtension(ext); ct != "" {
			return ct
		}
	}
	if strings.TrimSpace(fallback) != "" {
		return fallback
	}
	return "application/octet-stream"
}

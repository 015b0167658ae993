package config

import (
	"os"
	"strconv"
)

// MinioConfig addresses a MinIO bucket for the result archive.
type MinioConfig struct {
	AccessKey  string `yaml:"access_key"`
	SecretKey  string `yaml:"secret_key"`
	Endpoint   string `yaml:"endpoint"`
	UseSSL     bool   `yaml:"use_ssl"`
	Region     string `yaml:"region"`
	BucketName string `yaml:"bucket"`
}

func (c *MinioConfig) applyEnv() {
	setString(&c.AccessKey, "MINIO_ACCESS_KEY")
	setString(&c.SecretKey, "MINIO_SECRET_KEY")
	setString(&c.Endpoint, "MINIO_ENDPOINT")
	setString(&c.Region, "MINIO_REGION")
	setString(&c.BucketName, "MINIO_BUCKET_NAME")
	if v, ok := os.LookupEnv("MINIO_USE_SSL"); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			c.UseSSL = b
		}
	}
}

func (c *MinioConfig) validate() []string {
	var problems []string
	if c.Endpoint == "" {
		problems = append(problems, "archive.minio.endpoint is required")
	}
	if c.BucketName == "" {
		problems = append(problems, "archive.minio.bucket is required")
	}
	return problems
}

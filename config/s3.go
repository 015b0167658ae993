package config

import (
	"os"
)

// S3Config addresses an AWS S3 (or S3-compatible) bucket for the result archive.
type S3Config struct {
	BucketName string `yaml:"bucket"`
	Region     string `yaml:"region"`
	Endpoint   string `yaml:"endpoint"`
	AccessKey  string `yaml:"access_key"`
	SecretKey  string `yaml:"secret_key"`
}

func (c *S3Config) applyEnv() {
	setString(&c.BucketName, "AWS_S3_BUCKET_NAME")
	setString(&c.Region, "AWS_REGION")
	setString(&c.Endpoint, "AWS_ENDPOINT")
	setString(&c.AccessKey, "AWS_ACCESS_KEY")
	setString(&c.SecretKey, "AWS_SECRET_KEY")
}

func (c *S3Config) validate() []string {
	var problems []string
	if c.BucketName == "" {
		problems = append(problems, "archive.s3.bucket is required")
	}
	if c.Region == "" {
		problems = append(problems, "archive.s3.region is required")
	}
	return problems
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

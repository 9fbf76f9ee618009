package upload

import (
	"context"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"github.com/juju/errors"

	"orgbackup/internal/color"
	logger "orgbackup/internal/log"
)

const (
	// CredentialsMissing marks uploads that never reached the store because
	// no usable credentials could be resolved from the environment.
	CredentialsMissing = errors.ConstError("credentials missing")

	// UploadFailed marks every other upload error: network, permissions, missing bucket.
	UploadFailed = errors.ConstError("upload failed")
)

const archiveContentType = "application/zip"

// Uploader transfers a local file to a bucket under key. Uploading the same key again overwrites it.
type Uploader interface {
	Upload(ctx context.Context, localPath, bucket, key string) error
}

// PutObjectAPI is the part of the S3 client the uploader needs.
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type Options struct {
	Region string
	// Endpoint overrides the S3 endpoint, for S3-compatible stores.
	Endpoint     string
	UsePathStyle bool
}

type S3Uploader struct {
	client      PutObjectAPI
	credentials aws.CredentialsProvider
}

// NewS3Uploader resolves region and credentials the standard AWS way
// (environment, shared config files, instance roles). Nothing is passed in explicitly.
func NewS3Uploader(ctx context.Context, opts Options) (*S3Uploader, error) {
	var loadOptions []func(*config.LoadOptions) error
	if opts.Region != "" {
		loadOptions = append(loadOptions, config.WithRegion(opts.Region))
	}
	cfg, err := config.LoadDefaultConfig(ctx, loadOptions...)
	if err != nil {
		return nil, errors.Annotate(err, "loading AWS configuration")
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
		}
		o.UsePathStyle = opts.UsePathStyle
	})
	return NewS3UploaderWithClient(client, cfg.Credentials), nil
}

func NewS3UploaderWithClient(client PutObjectAPI, credentials aws.CredentialsProvider) *S3Uploader {
	return &S3Uploader{client: client, credentials: credentials}
}

func (u *S3Uploader) Upload(ctx context.Context, localPath, bucket, key string) error {
	if err := u.checkCredentials(ctx); err != nil {
		return err
	}

	file, err := os.Open(localPath)
	if err != nil {
		return errors.WithType(errors.Annotatef(err, "opening %s", localPath), UploadFailed)
	}
	defer file.Close()

	logger.Log.Debugf("PutObject s3://%s/%s", color.FgCyan(bucket), color.FgCyan(key))
	_, err = u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        file,
		ContentType: aws.String(archiveContentType),
	})
	if err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) {
			return errors.WithType(errors.Annotatef(err, "uploading s3://%s/%s (%s)", bucket, key, apiErr.ErrorCode()), UploadFailed)
		}
		return errors.WithType(errors.Annotatef(err, "uploading s3://%s/%s", bucket, key), UploadFailed)
	}
	return nil
}

// checkCredentials fails when credentials are absent or only partially configured.
func (u *S3Uploader) checkCredentials(ctx context.Context) error {
	if u.credentials == nil {
		return errors.WithType(errors.New("no AWS credential provider configured"), CredentialsMissing)
	}
	creds, err := u.credentials.Retrieve(ctx)
	if err != nil {
		return errors.WithType(errors.Annotate(err, "retrieving AWS credentials"), CredentialsMissing)
	}
	if !creds.HasKeys() {
		return errors.WithType(errors.Errorf("incomplete AWS credentials from %q: access key id and secret access key are both required", creds.Source), CredentialsMissing)
	}
	return nil
}

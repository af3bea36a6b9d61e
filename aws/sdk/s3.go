package sdk

import (
	"context"
	"errors"
	"fmt"

	"github.com/BishopFox/cloudcensus/internal"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3Types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

type AWSS3ClientInterface interface {
	ListBuckets(ctx context.Context, params *s3.ListBucketsInput, optFns ...func(*s3.Options)) (*s3.ListBucketsOutput, error)
	GetBucketLocation(ctx context.Context, params *s3.GetBucketLocationInput, optFns ...func(*s3.Options)) (*s3.GetBucketLocationOutput, error)
	HeadBucket(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
	ListObjectVersions(ctx context.Context, params *s3.ListObjectVersionsInput, optFns ...func(*s3.Options)) (*s3.ListObjectVersionsOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// NewListBucketsPager lists every bucket the account owns, whatever its
// home region. region only picks the endpoint.
func NewListBucketsPager(client AWSS3ClientInterface, region string) *TokenPager[s3Types.Bucket] {
	return NewTokenPager(func(ctx context.Context, token *string) ([]s3Types.Bucket, *string, error) {
		ListBuckets, err := client.ListBuckets(
			ctx,
			&s3.ListBucketsInput{
				ContinuationToken: token,
			},
			func(o *s3.Options) {
				o.Region = region
			},
		)
		if err != nil {
			return nil, nil, err
		}
		return ListBuckets.Buckets, ListBuckets.ContinuationToken, nil
	})
}

// CachedGetBucketLocation returns the bucket's region. An empty location
// constraint means us-east-1.
func CachedGetBucketLocation(ctx context.Context, S3Client AWSS3ClientInterface, accountID string, bucketName string) (string, error) {
	cacheKey := fmt.Sprintf("%s-s3-GetBucketLocation-%s", accountID, bucketName)
	return internal.Cached(cacheKey, func() (string, error) {
		GetBucketRegion, err := S3Client.GetBucketLocation(
			ctx,
			&s3.GetBucketLocationInput{
				Bucket: &bucketName,
			},
		)
		if err != nil {
			return "", err
		}
		location := string(GetBucketRegion.LocationConstraint)
		if location == "" {
			location = "us-east-1"
		}
		return location, nil
	})
}

// HeadBucket confirms the bucket exists and is reachable from region.
func HeadBucket(ctx context.Context, S3Client AWSS3ClientInterface, bucketName string, region string) error {
	_, err := S3Client.HeadBucket(
		ctx,
		&s3.HeadBucketInput{
			Bucket: &bucketName,
		},
		func(o *s3.Options) {
			o.Region = region
		},
	)
	return err
}

// IsBucketNotFound tells a missing bucket apart from other failures.
func IsBucketNotFound(err error) bool {
	if err == nil {
		return false
	}
	var noSuchBucket *s3Types.NoSuchBucket
	if errors.As(err, &noSuchBucket) {
		return true
	}
	var notFound *s3Types.NotFound
	if errors.As(err, &notFound) {
		return true
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchBucket", "NotFound":
			return true
		}
	}
	return false
}

// ErrorCode returns the service error code, or "" for non-API errors.
func ErrorCode(err error) string {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode()
	}
	return ""
}

type ObjectVersionsPage struct {
	Versions      []s3Types.ObjectVersion
	DeleteMarkers []s3Types.DeleteMarkerEntry
}

// ObjectVersionsPager walks ListObjectVersions using the key and version
// id markers.
type ObjectVersionsPager struct {
	client          AWSS3ClientInterface
	bucket          string
	prefix          string
	region          string
	keyMarker       *string
	versionIdMarker *string
	done            bool
}

func NewObjectVersionsPager(client AWSS3ClientInterface, bucket string, prefix string, region string) *ObjectVersionsPager {
	return &ObjectVersionsPager{
		client: client,
		bucket: bucket,
		prefix: prefix,
		region: region,
	}
}

func (p *ObjectVersionsPager) HasMorePages() bool {
	return !p.done
}

func (p *ObjectVersionsPager) NextPage(ctx context.Context) (ObjectVersionsPage, error) {
	input := &s3.ListObjectVersionsInput{
		Bucket:          aws.String(p.bucket),
		KeyMarker:       p.keyMarker,
		VersionIdMarker: p.versionIdMarker,
	}
	if p.prefix != "" {
		input.Prefix = aws.String(p.prefix)
	}
	ListObjectVersions, err := p.client.ListObjectVersions(
		ctx,
		input,
		func(o *s3.Options) {
			o.Region = p.region
		},
	)
	if err != nil {
		p.done = true
		return ObjectVersionsPage{}, err
	}

	page := ObjectVersionsPage{
		Versions:      ListObjectVersions.Versions,
		DeleteMarkers: ListObjectVersions.DeleteMarkers,
	}
	if !aws.ToBool(ListObjectVersions.IsTruncated) ||
		(ListObjectVersions.NextKeyMarker == nil && ListObjectVersions.NextVersionIdMarker == nil) {
		p.done = true
		return page, nil
	}
	if aws.ToString(ListObjectVersions.NextKeyMarker) == aws.ToString(p.keyMarker) &&
		aws.ToString(ListObjectVersions.NextVersionIdMarker) == aws.ToString(p.versionIdMarker) {
		sharedLogger.Warnf("ListObjectVersions on %s returned the same markers twice, stopping", p.bucket)
		p.done = true
		return page, nil
	}
	p.keyMarker = ListObjectVersions.NextKeyMarker
	p.versionIdMarker = ListObjectVersions.NextVersionIdMarker
	return page, nil
}

func DeleteObjectVersion(ctx context.Context, S3Client AWSS3ClientInterface, bucket string, key string, versionID string, region string) error {
	input := &s3.DeleteObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}
	if versionID != "" {
		input.VersionId = aws.String(versionID)
	}
	_, err := S3Client.DeleteObject(
		ctx,
		input,
		func(o *s3.Options) {
			o.Region = region
		},
	)
	return err
}

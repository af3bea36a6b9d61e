package sdk

import (
	"context"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3Types "github.com/aws/aws-sdk-go-v2/service/s3/types"
)

type MockedS3Client struct {
	// BucketPages holds the account-wide ListBuckets pages.
	BucketPages [][]s3Types.Bucket
	ListErr     error
	// Locations maps bucket name to its location constraint.
	Locations map[string]string
	// Missing buckets answer NoSuchBucket / NotFound.
	Missing map[string]bool
	// VersionPages holds ListObjectVersions pages keyed by bucket.
	VersionPages map[string][]ObjectVersionsPage
	VersionsErr  map[string]error
	// DeleteErr fails DeleteObject for the given object key.
	DeleteErr map[string]error

	mu      sync.Mutex
	Deleted []string
}

func (m *MockedS3Client) ListBuckets(ctx context.Context, input *s3.ListBucketsInput, options ...func(*s3.Options)) (*s3.ListBucketsOutput, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	if m.BucketPages == nil {
		return &s3.ListBucketsOutput{
			Buckets: []s3Types.Bucket{
				{
					Name: aws.String("bucket1"),
				},
				{
					Name: aws.String("bucket2"),
				},
			},
		}, nil
	}
	i := mockPageIndex(input.ContinuationToken)
	out := &s3.ListBucketsOutput{ContinuationToken: mockNextToken(i, len(m.BucketPages))}
	if i < len(m.BucketPages) {
		out.Buckets = m.BucketPages[i]
	}
	return out, nil
}

func (m *MockedS3Client) GetBucketLocation(ctx context.Context, input *s3.GetBucketLocationInput, options ...func(*s3.Options)) (*s3.GetBucketLocationOutput, error) {
	bucket := aws.ToString(input.Bucket)
	if m.Missing[bucket] {
		return nil, &s3Types.NoSuchBucket{Message: aws.String("The specified bucket does not exist")}
	}
	if location, ok := m.Locations[bucket]; ok {
		return &s3.GetBucketLocationOutput{
			LocationConstraint: s3Types.BucketLocationConstraint(location),
		}, nil
	}
	return &s3.GetBucketLocationOutput{
		LocationConstraint: s3Types.BucketLocationConstraintUsWest1,
	}, nil
}

func (m *MockedS3Client) HeadBucket(ctx context.Context, input *s3.HeadBucketInput, options ...func(*s3.Options)) (*s3.HeadBucketOutput, error) {
	if m.Missing[aws.ToString(input.Bucket)] {
		return nil, &s3Types.NotFound{}
	}
	return &s3.HeadBucketOutput{}, nil
}

func (m *MockedS3Client) ListObjectVersions(ctx context.Context, input *s3.ListObjectVersionsInput, options ...func(*s3.Options)) (*s3.ListObjectVersionsOutput, error) {
	bucket := aws.ToString(input.Bucket)
	if err, ok := m.VersionsErr[bucket]; ok {
		return nil, err
	}
	pages := m.VersionPages[bucket]
	i := mockPageIndex(input.KeyMarker)
	out := &s3.ListObjectVersionsOutput{}
	if i < len(pages) {
		out.Versions = pages[i].Versions
		out.DeleteMarkers = pages[i].DeleteMarkers
	}
	if next := mockNextToken(i, len(pages)); next != nil {
		out.IsTruncated = aws.Bool(true)
		out.NextKeyMarker = next
		out.NextVersionIdMarker = aws.String("v" + *next)
	} else {
		out.IsTruncated = aws.Bool(false)
	}
	return out, nil
}

func (m *MockedS3Client) DeleteObject(ctx context.Context, input *s3.DeleteObjectInput, options ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	key := aws.ToString(input.Key)
	if err, ok := m.DeleteErr[key]; ok {
		return nil, err
	}
	m.mu.Lock()
	m.Deleted = append(m.Deleted, aws.ToString(input.Bucket)+"/"+key+"@"+aws.ToString(input.VersionId))
	m.mu.Unlock()
	return &s3.DeleteObjectOutput{}, nil
}

func (m *MockedS3Client) DeletedCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Deleted)
}

package aws

import (
	"context"
	"slices"
	"time"

	"github.com/BishopFox/cloudcensus/aws/sdk"
	"github.com/BishopFox/cloudcensus/globals"
	"github.com/BishopFox/cloudcensus/internal"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/sirupsen/logrus"
)

type BucketsModule struct {
	S3Client func(aws.Config) sdk.AWSS3ClientInterface
	// HomeRegions, when set, keeps only buckets homed in these regions.
	HomeRegions []string
}

func (m *BucketsModule) Kind() string {
	return globals.BUCKETS_MODULE_NAME
}

func (m *BucketsModule) Service() string {
	return "s3"
}

// Open lists every bucket in the account through the cell's endpoint. Run
// it on one cell per context. Each record carries the bucket's home region,
// taken from the listing or from GetBucketLocation when the listing omits it.
func (m *BucketsModule) Open(ctx context.Context, cell internal.Cell, accountID string) (internal.Pager, error) {
	client := m.S3Client(cell.Context.Config)
	pager := sdk.NewListBucketsPager(client, cell.Region)
	modLog := internal.TxtLog.WithFields(logrus.Fields{
		"module":  m.Kind(),
		"profile": cell.Context.Profile,
		"region":  cell.Region,
	})

	return internal.NewPager(pager.HasMorePages, pager.NextPage, func(buckets []types.Bucket) []*internal.Record {
		records := make([]*internal.Record, 0, len(buckets))
		for _, bucket := range buckets {
			name := aws.ToString(bucket.Name)
			region := aws.ToString(bucket.BucketRegion)
			if region == "" {
				location, err := sdk.CachedGetBucketLocation(ctx, client, accountID, name)
				if err != nil {
					modLog.WithField("code", sdk.ErrorCode(err)).Errorf("Could not get location of bucket %s: %s", name, err)
					region = internal.NotApplicable
				} else {
					region = location
				}
			}
			if len(m.HomeRegions) > 0 && !slices.Contains(m.HomeRegions, region) {
				continue
			}
			records = append(records, loadBucketRecord(bucket, accountID, region))
		}
		return records
	}), nil
}

func loadBucketRecord(bucket types.Bucket, accountID string, region string) *internal.Record {
	name := aws.ToString(bucket.Name)
	created := internal.NotApplicable
	if bucket.CreationDate != nil {
		created = bucket.CreationDate.UTC().Format(time.RFC3339)
	}
	record := internal.NewRecord(internal.NewKey(name, accountID, region))
	record.Set("bucket_name", name).
		Set("account_id", accountID).
		Set("region", region).
		Set("created", created)
	return record
}

func (m *BucketsModule) Layout() internal.Layout {
	return internal.Layout{
		Noun:       "buckets",
		FilePrefix: "bucket_list",
		CSVColumns: []internal.Column{
			{Header: "BucketName", Field: "bucket_name"},
			{Header: "AccountId", Field: "account_id"},
			{Header: "Region", Field: "region"},
		},
		TableColumns: []internal.Column{
			{Header: "Bucket Name", Field: "bucket_name", Fraction: 0.5},
			{Header: "Account ID", Field: "account_id", Fraction: 0.3},
			{Header: "Region", Field: "region", Fraction: 0.2},
		},
		TableStyle: "plain",
		Compare:    internal.CompareFields("account_id", "region", "bucket_name"),
	}
}

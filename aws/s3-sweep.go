package aws

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/BishopFox/cloudcensus/aws/sdk"
	"github.com/BishopFox/cloudcensus/globals"
	"github.com/BishopFox/cloudcensus/internal"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/jedib0t/go-pretty/text"
	"github.com/kyokomi/emoji"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

// SweepTarget is one bucket, optionally narrowed to a key prefix.
type SweepTarget struct {
	Bucket string
	Prefix string
}

func (t SweepTarget) String() string {
	if t.Prefix == "" {
		return t.Bucket
	}
	return t.Bucket + "/" + t.Prefix
}

// ParseSweepTarget reads "bucket" or "bucket/prefix".
func ParseSweepTarget(s string) (SweepTarget, error) {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "s3://"))
	bucket, prefix, _ := strings.Cut(s, "/")
	if bucket == "" {
		return SweepTarget{}, fmt.Errorf("invalid sweep target %q: missing bucket name", s)
	}
	return SweepTarget{Bucket: bucket, Prefix: prefix}, nil
}

// ReadSweepTargets reads one target per line. Blank lines and lines
// starting with # are ignored.
func ReadSweepTargets(fs afero.Fs, path string) ([]SweepTarget, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open targets file %s: %w", path, err)
	}
	defer f.Close()

	var targets []SweepTarget
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		t, err := ParseSweepTarget(line)
		if err != nil {
			return nil, err
		}
		targets = append(targets, t)
	}
	return targets, scanner.Err()
}

// SweepCounters only ever count deletions the service confirmed.
type SweepCounters struct {
	Objects int
	Markers int
}

func (c *SweepCounters) Add(o SweepCounters) {
	c.Objects += o.Objects
	c.Markers += o.Markers
}

type SweepStatus string

const (
	SweepSwept   SweepStatus = "swept"
	SweepEmpty   SweepStatus = "empty"
	SweepMissing SweepStatus = "missing"
	SweepFailed  SweepStatus = "failed"
)

// SweepUnitResult is the outcome of one (profile, target) unit.
type SweepUnitResult struct {
	Profile  string
	Target   SweepTarget
	Region   string
	Status   SweepStatus
	Listed   int
	Counters SweepCounters
	Err      error
}

type SweepConfig struct {
	Profiles []string
	Targets  []SweepTarget
	// DryRun is read once when the module is built from this config.
	DryRun   bool
	Resolver internal.Resolver
	Grid     internal.GridOptions
}

type S3SweepModule struct {
	S3Client func(aws.Config) sdk.AWSS3ClientInterface

	dryRun bool
	modLog *logrus.Entry
}

func NewS3SweepModule() *S3SweepModule {
	return &S3SweepModule{S3Client: InitS3Client}
}

type sweepUnit struct {
	context internal.Context
	target  SweepTarget
}

// Sweep removes every object version and delete marker under each target,
// for every resolved profile. Under dry-run it only logs what it would do.
func (m *S3SweepModule) Sweep(ctx context.Context, cfg SweepConfig) (SweepCounters, []SweepUnitResult) {
	m.dryRun = cfg.DryRun
	m.modLog = internal.TxtLog.WithFields(logrus.Fields{"module": globals.S3_SWEEP_MODULE_NAME})

	var total SweepCounters
	contexts := cfg.Resolver.Resolve(ctx, cfg.Profiles)
	if len(contexts) == 0 {
		m.modLog.Warn("No usable profiles were resolved.")
		return total, nil
	}

	var units []sweepUnit
	for _, c := range contexts {
		for _, t := range cfg.Targets {
			units = append(units, sweepUnit{context: c, target: t})
		}
	}

	results := internal.ForEach(ctx, globals.S3_SWEEP_MODULE_NAME, units, cfg.Grid,
		m.sweepUnit,
		func(u sweepUnit, err error) SweepUnitResult {
			return SweepUnitResult{Profile: u.context.Profile, Target: u.target, Status: SweepFailed, Err: err}
		},
		func(r SweepUnitResult) bool { return r.Status == SweepFailed },
	)

	for _, r := range results {
		total.Add(r.Counters)
	}
	if m.dryRun {
		m.modLog.Infof("DRY_RUN: nothing was deleted.")
	}
	m.modLog.Infof("Deleted %d objects and removed %d delete markers.", total.Objects, total.Markers)
	return total, results
}

func (m *S3SweepModule) sweepUnit(ctx context.Context, u sweepUnit) SweepUnitResult {
	result := SweepUnitResult{Profile: u.context.Profile, Target: u.target}
	unitLog := m.modLog.WithFields(logrus.Fields{"profile": u.context.Profile, "target": u.target.String()})

	accountID, err := u.context.AccountID(ctx)
	if err != nil {
		unitLog.Errorf("Could not resolve account id, skipping: %s", err)
		result.Status, result.Err = SweepFailed, err
		return result
	}

	client := m.S3Client(u.context.Config)
	bucket := u.target.Bucket

	region, err := sdk.CachedGetBucketLocation(ctx, client, accountID, bucket)
	if err == nil {
		err = sdk.HeadBucket(ctx, client, bucket, region)
	}
	if err != nil {
		if sdk.IsBucketNotFound(err) {
			unitLog.Warnf("Bucket %s does not exist", bucket)
			result.Status = SweepMissing
		} else {
			unitLog.WithField("code", sdk.ErrorCode(err)).Errorf("Could not access bucket %s: %s", bucket, err)
			result.Status, result.Err = SweepFailed, err
		}
		return result
	}
	result.Region = region

	pager := sdk.NewObjectVersionsPager(client, bucket, u.target.Prefix, region)
	for pager.HasMorePages() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			unitLog.WithField("code", sdk.ErrorCode(err)).Errorf("Listing object versions failed: %s", err)
			result.Status, result.Err = SweepFailed, err
			return result
		}

		for _, version := range page.Versions {
			key, versionID := aws.ToString(version.Key), aws.ToString(version.VersionId)
			result.Listed++
			if m.dryRun {
				unitLog.Infof("DRY_RUN: Would have deleted %s: %s: %s", bucket, key, versionID)
				continue
			}
			if err := sdk.DeleteObjectVersion(ctx, client, bucket, key, versionID, region); err != nil {
				unitLog.Errorf("Failed to delete %s: %s: %s: %s", bucket, key, versionID, err)
				continue
			}
			unitLog.Debugf("Deleted %s: %s: %s", bucket, key, versionID)
			result.Counters.Objects++
		}

		for _, marker := range page.DeleteMarkers {
			key, versionID := aws.ToString(marker.Key), aws.ToString(marker.VersionId)
			result.Listed++
			if m.dryRun {
				unitLog.Infof("DRY_RUN: Would have removed delete marker %s: %s: %s", bucket, key, versionID)
				continue
			}
			if err := sdk.DeleteObjectVersion(ctx, client, bucket, key, versionID, region); err != nil {
				unitLog.Errorf("Failed to remove delete marker %s: %s: %s: %s", bucket, key, versionID, err)
				continue
			}
			unitLog.Debugf("Removed delete marker %s: %s: %s", bucket, key, versionID)
			result.Counters.Markers++
		}
	}

	if result.Listed == 0 {
		unitLog.Infof("No deletable objects found in %s", u.target)
		result.Status = SweepEmpty
		return result
	}
	result.Status = SweepSwept
	return result
}

// ConfirmDestruction asks for the exact answer "yes" before a real sweep.
// Under dry-run it does nothing and returns true.
func ConfirmDestruction(in io.Reader, out io.Writer, targets []SweepTarget, profiles []string, dryRun bool) bool {
	if dryRun {
		return true
	}

	fmt.Fprintf(out, "[%s] The following targets will be swept:\n\n", cyan(globals.S3_SWEEP_MODULE_NAME))
	for _, t := range targets {
		fmt.Fprintf(out, "\t* s3://%s\n", t)
	}
	if len(profiles) == 0 {
		fmt.Fprintf(out, "\nin every locally configured profile.\n")
	} else {
		fmt.Fprintf(out, "\nin profile(s): %s\n", strings.Join(profiles, ", "))
	}
	fmt.Fprintf(out, "\n%s every object version and delete marker under these targets will be permanently deleted. This is %s.\n",
		emoji.Sprint(":warning:"), text.Colors{text.Bold, text.FgRed}.Sprint("IRREVERSIBLE"))
	fmt.Fprintf(out, "Type %q to continue: ", globals.CONFIRMATION_ANSWER)

	answer, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && answer == "" {
		return false
	}
	if strings.TrimSpace(answer) != globals.CONFIRMATION_ANSWER {
		fmt.Fprintf(out, "%s\n", red("Aborted, nothing was deleted."))
		return false
	}
	return true
}

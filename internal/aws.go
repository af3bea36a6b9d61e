package internal

import (
	"bufio"
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/BishopFox/cloudcensus/globals"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/retry"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/spf13/afero"
)

var UtilsFs = afero.NewOsFs()

// AccountLookup resolves the account a context operates in.
type AccountLookup func(ctx context.Context) (string, error)

// Context is one usable credential set. The account id is looked up on
// demand and the lookup may fail even though the config loaded fine.
type Context struct {
	Profile string
	Config  aws.Config
	lookup  AccountLookup
}

func NewContext(profile string, cfg aws.Config, lookup AccountLookup) Context {
	return Context{Profile: profile, Config: cfg, lookup: lookup}
}

func (c Context) AccountID(ctx context.Context) (string, error) {
	if c.lookup == nil {
		return "", fmt.Errorf("no account lookup configured for profile %s", c.Profile)
	}
	return c.lookup(ctx)
}

// Resolver turns profile names into usable contexts. An empty name list
// means every locally configured profile; that choice belongs to the
// resolver, not its callers.
type Resolver interface {
	Resolve(ctx context.Context, names []string) []Context
}

func AWSConfigFileLoader(ctx context.Context, AWSProfile string) (aws.Config, error) {
	// Some calls fail without a default region, so always provide one.
	cfg, err := config.LoadDefaultConfig(ctx, config.WithSharedConfigProfile(AWSProfile), config.WithDefaultRegion("us-east-1"), config.WithAppID(globals.CLOUDCENSUS_USER_AGENT), config.WithRetryer(
		func() aws.Retryer {
			return retry.AddWithMaxAttempts(retry.NewStandard(), 3)
		}))
	if err != nil {
		return cfg, fmt.Errorf("loading profile %s: %w", AWSProfile, err)
	}

	if cfg.Credentials == nil {
		return cfg, fmt.Errorf("profile %s has no credentials", AWSProfile)
	}
	if _, err = cfg.Credentials.Retrieve(ctx); err != nil {
		return cfg, fmt.Errorf("retrieving credentials for profile %s: %w", AWSProfile, err)
	}
	return cfg, nil
}

// GetAllAWSProfiles lists profile names from the shared credentials and
// config files, credentials first, without duplicates.
func GetAllAWSProfiles() []string {
	var AWSProfiles []string

	files := []struct {
		path   string
		prefix string
	}{
		{config.DefaultSharedCredentialsFilename(), "["},
		{config.DefaultSharedConfigFilename(), "[profile "},
	}

	for _, f := range files {
		file, err := UtilsFs.Open(f.path)
		if err != nil {
			TxtLog.Debugf("could not open %s: %s", f.path, err)
			continue
		}
		scanner := bufio.NewScanner(file)
		for scanner.Scan() {
			text := strings.TrimSpace(scanner.Text())
			if !strings.HasPrefix(text, "[") || !strings.HasSuffix(text, "]") {
				continue
			}
			if strings.HasPrefix(text, "[sso-session ") || strings.HasPrefix(text, "[services ") {
				continue
			}
			text = strings.TrimPrefix(text, f.prefix)
			text = strings.TrimPrefix(text, "[")
			text = strings.TrimSpace(strings.TrimSuffix(text, "]"))
			if text != "" && !slices.Contains(AWSProfiles, text) {
				AWSProfiles = append(AWSProfiles, text)
			}
		}
		file.Close()
	}
	return AWSProfiles
}

// GetSelectedAWSProfiles reads one profile name per line from a file.
func GetSelectedAWSProfiles(AWSProfilesListPath string) ([]string, error) {
	AWSProfilesListFile, err := UtilsFs.Open(AWSProfilesListPath)
	if err != nil {
		return nil, fmt.Errorf("could not open profiles list %s: %w", AWSProfilesListPath, err)
	}
	defer AWSProfilesListFile.Close()

	var AWSProfiles []string
	scanner := bufio.NewScanner(AWSProfilesListFile)
	for scanner.Scan() {
		profile := strings.TrimSpace(scanner.Text())
		if len(profile) != 0 {
			AWSProfiles = append(AWSProfiles, profile)
		}
	}
	return AWSProfiles, scanner.Err()
}

package aws

import (
	"context"

	"github.com/BishopFox/cloudcensus/aws/sdk"
	"github.com/BishopFox/cloudcensus/internal"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/sirupsen/logrus"
)

// ProfileResolver builds contexts from named profiles in the local AWS
// config. Each dependency is a field so tests can stub it.
type ProfileResolver struct {
	LoadConfig   func(ctx context.Context, profile string) (aws.Config, error)
	STSClient    func(aws.Config) sdk.STSClientInterface
	ListProfiles func() []string
}

func NewProfileResolver() *ProfileResolver {
	return &ProfileResolver{
		LoadConfig:   internal.AWSConfigFileLoader,
		STSClient:    InitSTSClient,
		ListProfiles: internal.GetAllAWSProfiles,
	}
}

// Resolve loads every named profile, or every local profile when names is
// empty. A profile that fails to load is logged and left out.
func (r *ProfileResolver) Resolve(ctx context.Context, names []string) []internal.Context {
	modLog := internal.TxtLog.WithFields(logrus.Fields{"module": "profiles"})

	if len(names) == 0 {
		names = r.ListProfiles()
		modLog.Infof("No profile given, using all %d locally configured profile(s)", len(names))
	}

	var contexts []internal.Context
	for _, name := range names {
		cfg, err := r.LoadConfig(ctx, name)
		if err != nil {
			modLog.WithField("profile", name).Errorf("Skipping profile: %s", err)
			continue
		}
		client := r.STSClient(cfg)
		profile := name
		contexts = append(contexts, internal.NewContext(profile, cfg, func(ctx context.Context) (string, error) {
			return sdk.CachedGetCallerIdentity(ctx, client, profile)
		}))
	}
	return contexts
}

package aws

import (
	"context"

	"github.com/BishopFox/cloudcensus/aws/sdk"
	"github.com/BishopFox/cloudcensus/globals"
	"github.com/BishopFox/cloudcensus/internal"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/sirupsen/logrus"
)

// SSMPublicSharingModule disables public sharing of SSM documents in every
// (profile, region) cell.
type SSMPublicSharingModule struct {
	SSMClient func(aws.Config) sdk.SSMClientInterface
}

func NewSSMPublicSharingModule() *SSMPublicSharingModule {
	return &SSMPublicSharingModule{SSMClient: InitSSMClient}
}

type SSMPublicSharingConfig struct {
	Profiles      []string
	Regions       []string
	DryRun        bool
	Resolver      internal.Resolver
	RegionSupport internal.RegionSupport
	Grid          internal.GridOptions
}

func (m *SSMPublicSharingModule) Run(ctx context.Context, cfg SSMPublicSharingConfig) []internal.CellOutcome {
	modLog := internal.TxtLog.WithFields(logrus.Fields{"module": globals.SSM_PUBLIC_SHARING_MODULE_NAME})

	contexts := cfg.Resolver.Resolve(ctx, cfg.Profiles)
	if len(contexts) == 0 {
		modLog.Warn("No usable profiles were resolved.")
		return nil
	}

	cells := internal.Grid(contexts, cfg.Regions)
	outcomes := internal.ForEachCell(ctx, globals.SSM_PUBLIC_SHARING_MODULE_NAME, cells, cfg.Grid, func(ctx context.Context, cell internal.Cell) internal.CellOutcome {
		outcome := internal.CellOutcome{Profile: cell.Context.Profile, Region: cell.Region}
		cellLog := modLog.WithFields(logrus.Fields{"profile": cell.Context.Profile, "region": cell.Region})

		if cfg.RegionSupport != nil {
			if supported, err := cfg.RegionSupport.IsServiceInRegion("ssm", cell.Region); err == nil && !supported {
				outcome.Status, outcome.Stage = internal.OutcomeSkipped, internal.StageRegion
				return outcome
			}
		}

		if cfg.DryRun {
			cellLog.Infof("DRY_RUN: Would have set %s to %s", globals.SSM_PUBLIC_SHARING_SETTING_ID, globals.SSM_PUBLIC_SHARING_DISABLED)
			outcome.Status = internal.OutcomeSucceeded
			return outcome
		}

		if err := sdk.DisablePublicDocumentSharing(ctx, m.SSMClient(cell.Context.Config), cell.Region); err != nil {
			cellLog.Errorf("Could not disable public document sharing: %s", err)
			outcome.Status, outcome.Stage, outcome.Err = internal.OutcomeFailed, internal.StageClient, err
			return outcome
		}
		cellLog.Info("Public document sharing disabled")
		outcome.Status = internal.OutcomeSucceeded
		outcome.Records = 1
		return outcome
	})

	counter := internal.Summarize(outcomes)
	modLog.Infof("Finished %d cell(s): %d updated, %d failed, %d skipped", counter.Total, counter.Complete, counter.Error, counter.Skipped)
	return outcomes
}

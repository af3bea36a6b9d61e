package sdk

import (
	"context"

	"github.com/BishopFox/cloudcensus/globals"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
)

type SSMClientInterface interface {
	UpdateServiceSetting(context.Context, *ssm.UpdateServiceSettingInput, ...func(*ssm.Options)) (*ssm.UpdateServiceSettingOutput, error)
}

// DisablePublicDocumentSharing turns off public sharing of SSM documents
// for the account in region.
func DisablePublicDocumentSharing(ctx context.Context, client SSMClientInterface, region string) error {
	_, err := client.UpdateServiceSetting(
		ctx,
		&ssm.UpdateServiceSettingInput{
			SettingId:    aws.String(globals.SSM_PUBLIC_SHARING_SETTING_ID),
			SettingValue: aws.String(globals.SSM_PUBLIC_SHARING_DISABLED),
		},
		func(o *ssm.Options) {
			o.Region = region
		},
	)
	return err
}

package sdk

import (
	"context"
	"fmt"

	"github.com/BishopFox/cloudcensus/internal"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sts"
)

type STSClientInterface interface {
	GetCallerIdentity(context.Context, *sts.GetCallerIdentityInput, ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error)
}

// CachedGetCallerIdentity returns the account id behind profile. Successful
// lookups are remembered for the rest of the process.
func CachedGetCallerIdentity(ctx context.Context, client STSClientInterface, profile string) (string, error) {
	cacheKey := fmt.Sprintf("%s-sts-GetCallerIdentity", profile)
	return internal.Cached(cacheKey, func() (string, error) {
		CallerIdentity, err := client.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
		if err != nil {
			return "", err
		}
		account := aws.ToString(CallerIdentity.Account)
		if account == "" {
			return "", fmt.Errorf("caller identity for %s has no account", profile)
		}
		return account, nil
	})
}

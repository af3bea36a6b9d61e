package internal

import (
	"fmt"
	"strings"

	"github.com/bishopfox/awsservicemap"
)

// InvalidRegions returns the requested regions missing from allowList, in
// request order.
func InvalidRegions(requested []string, allowList []string) []string {
	allowed := make(map[string]struct{}, len(allowList))
	for _, r := range allowList {
		allowed[r] = struct{}{}
	}
	var invalid []string
	for _, r := range requested {
		if _, ok := allowed[r]; !ok {
			invalid = append(invalid, r)
		}
	}
	return invalid
}

func ValidateRegions(requested []string, allowList []string) error {
	if len(requested) == 0 {
		return fmt.Errorf("no regions specified")
	}
	invalid := InvalidRegions(requested, allowList)
	if len(invalid) > 0 {
		return fmt.Errorf("Invalid region(s) specified: %s", strings.Join(invalid, ", "))
	}
	return nil
}

// RegionSupport reports whether a service endpoint exists in a region.
// *awsservicemap.AwsServiceMap satisfies it.
type RegionSupport interface {
	IsServiceInRegion(service string, region string) (bool, error)
}

func NewServiceMap() RegionSupport {
	return &awsservicemap.AwsServiceMap{
		JsonFileSource: "EMBEDDED_IN_PACKAGE",
	}
}

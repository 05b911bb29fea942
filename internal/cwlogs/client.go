package cwlogs

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	"github.com/patrickmn/go-cache"

	"logagrip/internal/domain"
	"logagrip/internal/logging"
)

// Client is the part of the CloudWatch Logs API the group cursor needs
type Client interface {
	DescribeLogGroups(ctx context.Context, params *cloudwatchlogs.DescribeLogGroupsInput, optFns ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.DescribeLogGroupsOutput, error)
}

// ClientFactory builds a client for a profile
type ClientFactory interface {
	Client(ctx context.Context, profile domain.ProfileName) (Client, error)
}

// AWSClientFactory loads shared-config credentials per profile and caches the
// resulting clients
type AWSClientFactory struct {
	region     string
	configFile string
	clients    *cache.Cache
}

// NewAWSClientFactory creates a factory. An empty region falls back to the
// profile's region; ttl bounds how long a client is reused.
func NewAWSClientFactory(region, configFile string, ttl time.Duration) *AWSClientFactory {
	return &AWSClientFactory{
		region:     region,
		configFile: configFile,
		clients:    cache.New(ttl, 2*ttl),
	}
}

// Client returns a cached client for profile or builds a new one
func (f *AWSClientFactory) Client(ctx context.Context, profile domain.ProfileName) (Client, error) {
	key := fmt.Sprintf("%s@%s", profile, f.region)
	if cached, found := f.clients.Get(key); found {
		return cached.(Client), nil
	}

	opts := []func(*config.LoadOptions) error{
		config.WithSharedConfigProfile(string(profile)),
	}
	if f.region != "" {
		opts = append(opts, config.WithRegion(f.region))
	}
	if f.configFile != "" {
		opts = append(opts, config.WithSharedConfigFiles([]string{f.configFile}))
	}

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, &domain.RemoteTransportError{Op: fmt.Sprintf("load credentials for profile %s", profile), Err: err}
	}

	logging.Debug("cwlogs", "created client", "profile", profile, "region", cfg.Region)
	client := cloudwatchlogs.NewFromConfig(cfg)
	f.clients.Set(key, client, cache.DefaultExpiration)
	return client, nil
}

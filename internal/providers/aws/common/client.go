package common

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
)

// DefaultRegion is the home region used when the profile configures none.
// It is also the anchor for account-wide calls (S3 bucket listing, region
// discovery, IAM).
const DefaultRegion = "us-east-1"

// ProfileConfig is a resolved AWS profile with its SDK configuration and
// initialised service clients. It is the unit passed between provider
// functions and into the engine.
type ProfileConfig struct {
	// ProfileName is the name from ~/.aws/credentials or "default".
	ProfileName string

	// AccountID is the AWS account ID for this profile. It is empty until
	// ResolveAccountID succeeds.
	AccountID string

	// Region is the home region for this profile configuration.
	Region string

	// Config is the fully loaded AWS SDK v2 configuration.
	Config aws.Config

	// Clients holds service clients scoped to this profile's home region.
	// Per-region collectors build their own clients from ConfigForRegion.
	Clients *ClientSet
}

// AWSClientProvider loads AWS configuration for the ambient credential
// chain. It is the sole entry point for credential and region management.
//
// Implementations must use the AWS SDK v2 only. Never call the aws CLI.
type AWSClientProvider interface {
	// LoadProfile returns a ProfileConfig for the named profile.
	// Pass an empty string to load the default profile. It makes no network
	// calls, so missing credentials are not detected here.
	LoadProfile(ctx context.Context, profile string) (*ProfileConfig, error)

	// ResolveAccountID calls STS to fill cfg.AccountID.
	ResolveAccountID(ctx context.Context, cfg *ProfileConfig) (string, error)

	// ConfigForRegion clones cfg with the target region set.
	ConfigForRegion(cfg *ProfileConfig, region string) aws.Config
}

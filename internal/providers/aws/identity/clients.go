package identity

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	iamsvc "github.com/aws/aws-sdk-go-v2/service/iam"
	"github.com/aws/aws-sdk-go-v2/service/sts"
)

// stsAPIClient covers GetCallerIdentity.
type stsAPIClient interface {
	GetCallerIdentity(ctx context.Context, params *sts.GetCallerIdentityInput, optFns ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error)
}

// iamAPIClient is the narrow IAM interface used by the auditor. It embeds
// the SDK's paginator interfaces so every listing can be drained with the
// SDK paginators directly.
type iamAPIClient interface {
	iamsvc.ListAttachedUserPoliciesAPIClient
	iamsvc.ListGroupsForUserAPIClient
	iamsvc.ListAttachedGroupPoliciesAPIClient
	iamsvc.ListAttachedRolePoliciesAPIClient
	GetPolicy(ctx context.Context, params *iamsvc.GetPolicyInput, optFns ...func(*iamsvc.Options)) (*iamsvc.GetPolicyOutput, error)
	GetPolicyVersion(ctx context.Context, params *iamsvc.GetPolicyVersionInput, optFns ...func(*iamsvc.Options)) (*iamsvc.GetPolicyVersionOutput, error)
}

// Clients bundles the service clients used by the auditor.
type Clients struct {
	STS stsAPIClient
	IAM iamAPIClient
}

// ClientFactory creates Clients from an AWS config.
// Injection point: tests replace this with a function returning fake clients.
type ClientFactory func(cfg aws.Config) *Clients

// NewClients is the production ClientFactory.
func NewClients(cfg aws.Config) *Clients {
	return &Clients{
		STS: sts.NewFromConfig(cfg),
		IAM: iamsvc.NewFromConfig(cfg),
	}
}

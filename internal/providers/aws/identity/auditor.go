// Package identity inspects the credentials a run executes under: who the
// caller is, which managed policies are attached to it, and which actions a
// managed policy grants.
package identity

import (
	"context"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	iamsvc "github.com/aws/aws-sdk-go-v2/service/iam"
	iamtypes "github.com/aws/aws-sdk-go-v2/service/iam/types"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/rs/zerolog"

	"github.com/pankaj-dahiya-devops/cloud-inventory/internal/models"
)

// Options configures an Auditor.
type Options struct {
	// Factory builds the STS and IAM clients. Defaults to NewClients.
	Factory ClientFactory

	// Logger receives per-lookup failures. Defaults to a no-op logger.
	Logger *zerolog.Logger
}

// Auditor answers identity and permission questions for one AWS config.
type Auditor struct {
	clients *Clients
	log     zerolog.Logger
}

// NewAuditor builds an Auditor over cfg. IAM and STS are global services,
// so the config's region only selects the endpoint partition.
func NewAuditor(cfg aws.Config, opts Options) *Auditor {
	factory := opts.Factory
	if factory == nil {
		factory = NewClients
	}
	a := &Auditor{clients: factory(cfg), log: zerolog.Nop()}
	if opts.Logger != nil {
		a.log = *opts.Logger
	}
	return a
}

// CallerIdentity returns the STS view of the current credentials.
func (a *Auditor) CallerIdentity(ctx context.Context) (models.CallerIdentity, error) {
	out, err := a.clients.STS.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return models.CallerIdentity{}, models.NewProviderQueryError(models.ServiceSTS, "GetCallerIdentity", models.GlobalScope(), err)
	}
	return models.CallerIdentity{
		Account: aws.ToString(out.Account),
		ARN:     aws.ToString(out.Arn),
		UserID:  aws.ToString(out.UserId),
	}, nil
}

// ---------------------------------------------------------------------------
// Principal classification
// ---------------------------------------------------------------------------

// ClassifyARN reports what kind of principal arn names, and its name.
//
//	arn:aws:iam::123:user/path/alice          → user, alice
//	arn:aws:iam::123:role/path/deploy         → role, deploy
//	arn:aws:sts::123:assumed-role/deploy/sess → role, deploy
//	anything else                             → unknown, ""
func ClassifyARN(arn string) (models.PrincipalKind, string) {
	switch {
	case strings.Contains(arn, ":user/"):
		return models.PrincipalUser, lastSegment(arn)
	case strings.Contains(arn, ":role/"):
		return models.PrincipalRole, lastSegment(arn)
	case strings.Contains(arn, ":assumed-role/"):
		parts := strings.Split(arn[strings.Index(arn, ":assumed-role/")+len(":assumed-role/"):], "/")
		if parts[0] == "" {
			return models.PrincipalUnknown, ""
		}
		return models.PrincipalRole, parts[0]
	default:
		return models.PrincipalUnknown, ""
	}
}

func lastSegment(arn string) string {
	return arn[strings.LastIndex(arn, "/")+1:]
}

// Principal lists the managed policies attached to the principal behind
// identity.ARN. Users get their own policies plus each group's policies;
// roles get their attached policies; other principals get no lookups.
//
// IAM failures are recorded on the report instead of being returned: the
// report keeps everything gathered before the failure.
func (a *Auditor) Principal(ctx context.Context, identity models.CallerIdentity) models.PrincipalReport {
	kind, name := ClassifyARN(identity.ARN)
	report := models.PrincipalReport{Identity: identity, Kind: kind, Name: name}

	var err error
	switch kind {
	case models.PrincipalUser:
		err = a.fillUser(ctx, &report)
	case models.PrincipalRole:
		report.Policies, err = a.rolePolicies(ctx, name)
	default:
		a.log.Debug().Str("arn", identity.ARN).Msg("principal is neither a user nor a role; skipping IAM lookups")
	}
	if err != nil {
		a.log.Warn().Err(err).Str("principal", name).Msg("IAM lookup failed")
		report.Error = err.Error()
	}
	return report
}

func (a *Auditor) fillUser(ctx context.Context, report *models.PrincipalReport) error {
	userPolicies := iamsvc.NewListAttachedUserPoliciesPaginator(a.clients.IAM, &iamsvc.ListAttachedUserPoliciesInput{
		UserName: aws.String(report.Name),
	})
	for userPolicies.HasMorePages() {
		page, err := userPolicies.NextPage(ctx)
		if err != nil {
			return iamError("ListAttachedUserPolicies", err)
		}
		report.Policies = append(report.Policies, toAttached(page.AttachedPolicies)...)
	}

	groups := iamsvc.NewListGroupsForUserPaginator(a.clients.IAM, &iamsvc.ListGroupsForUserInput{
		UserName: aws.String(report.Name),
	})
	for groups.HasMorePages() {
		page, err := groups.NextPage(ctx)
		if err != nil {
			return iamError("ListGroupsForUser", err)
		}
		for _, g := range page.Groups {
			groupName := aws.ToString(g.GroupName)
			gp := models.GroupPolicies{GroupName: groupName}
			// Keep the group even when its policy listing fails part-way.
			policies, err := a.groupPolicies(ctx, groupName)
			gp.Policies = policies
			report.Groups = append(report.Groups, gp)
			if err != nil {
				return err
			}
		}
	}
	return nil
}

func (a *Auditor) groupPolicies(ctx context.Context, group string) ([]models.AttachedPolicy, error) {
	paginator := iamsvc.NewListAttachedGroupPoliciesPaginator(a.clients.IAM, &iamsvc.ListAttachedGroupPoliciesInput{
		GroupName: aws.String(group),
	})
	var out []models.AttachedPolicy
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return out, iamError("ListAttachedGroupPolicies", err)
		}
		out = append(out, toAttached(page.AttachedPolicies)...)
	}
	return out, nil
}

func (a *Auditor) rolePolicies(ctx context.Context, role string) ([]models.AttachedPolicy, error) {
	paginator := iamsvc.NewListAttachedRolePoliciesPaginator(a.clients.IAM, &iamsvc.ListAttachedRolePoliciesInput{
		RoleName: aws.String(role),
	})
	var out []models.AttachedPolicy
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return out, iamError("ListAttachedRolePolicies", err)
		}
		out = append(out, toAttached(page.AttachedPolicies)...)
	}
	return out, nil
}

func toAttached(in []iamtypes.AttachedPolicy) []models.AttachedPolicy {
	out := make([]models.AttachedPolicy, 0, len(in))
	for _, p := range in {
		out = append(out, models.AttachedPolicy{
			Name: aws.ToString(p.PolicyName),
			ARN:  aws.ToString(p.PolicyArn),
		})
	}
	return out
}

func iamError(op string, err error) error {
	return models.NewProviderQueryError(models.ServiceIAM, op, models.GlobalScope(), err)
}

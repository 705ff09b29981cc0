package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	iamsvc "github.com/aws/aws-sdk-go-v2/service/iam"

	"github.com/pankaj-dahiya-devops/cloud-inventory/internal/models"
)

// DefaultAuditPolicies returns the AWS managed policies a read-only
// inventory role is normally built from, in display order.
func DefaultAuditPolicies() []models.AttachedPolicy {
	return []models.AttachedPolicy{
		{Name: "SecurityAudit", ARN: "arn:aws:iam::aws:policy/SecurityAudit"},
		{Name: "ViewOnlyAccess", ARN: "arn:aws:iam::aws:policy/job-function/ViewOnlyAccess"},
	}
}

// PolicyActions returns the sorted, de-duplicated Action entries of the
// default version of the managed policy at arn. NotAction entries are not
// included.
func (a *Auditor) PolicyActions(ctx context.Context, arn string) (models.PolicyActions, error) {
	result := models.PolicyActions{ARN: arn}

	pol, err := a.clients.IAM.GetPolicy(ctx, &iamsvc.GetPolicyInput{PolicyArn: aws.String(arn)})
	if err != nil {
		return result, iamError("GetPolicy", err)
	}
	if pol.Policy == nil || pol.Policy.DefaultVersionId == nil {
		return result, fmt.Errorf("policy %s has no default version", arn)
	}
	result.Name = aws.ToString(pol.Policy.PolicyName)
	result.VersionID = aws.ToString(pol.Policy.DefaultVersionId)

	ver, err := a.clients.IAM.GetPolicyVersion(ctx, &iamsvc.GetPolicyVersionInput{
		PolicyArn: aws.String(arn),
		VersionId: pol.Policy.DefaultVersionId,
	})
	if err != nil {
		return result, iamError("GetPolicyVersion", err)
	}
	if ver.PolicyVersion == nil {
		return result, fmt.Errorf("policy %s version %s has no document", arn, result.VersionID)
	}

	actions, err := DocumentActions(aws.ToString(ver.PolicyVersion.Document))
	if err != nil {
		return result, fmt.Errorf("policy %s version %s: %w", arn, result.VersionID, err)
	}
	result.Actions = actions
	return result, nil
}

// AuditPolicies resolves the actions of every policy in order. A policy that
// cannot be read keeps its name and ARN and carries the failure in Error; the
// remaining policies are still resolved.
func (a *Auditor) AuditPolicies(ctx context.Context, policies []models.AttachedPolicy) []models.PolicyActions {
	out := make([]models.PolicyActions, 0, len(policies))
	for _, p := range policies {
		pa, err := a.PolicyActions(ctx, p.ARN)
		if p.Name != "" {
			pa.Name = p.Name
		}
		if err != nil {
			a.log.Warn().Err(err).Str("policy", p.ARN).Msg("policy lookup failed")
			pa.Error = err.Error()
		}
		out = append(out, pa)
	}
	return out
}

// ---------------------------------------------------------------------------
// Policy document decoding
// ---------------------------------------------------------------------------

// policyDocument is the subset of an IAM policy document that carries actions.
// Statement may be a single object or a list; Action may be a string or a list.
type policyDocument struct {
	Statement oneOrMany[policyStatement] `json:"Statement"`
}

type policyStatement struct {
	Action oneOrMany[string] `json:"Action"`
}

// oneOrMany decodes either a JSON value of T or a JSON array of T.
type oneOrMany[T any] []T

func (o *oneOrMany[T]) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '[' {
		var many []T
		if err := json.Unmarshal(data, &many); err != nil {
			return err
		}
		*o = many
		return nil
	}
	if string(data) == "null" {
		*o = nil
		return nil
	}
	var one T
	if err := json.Unmarshal(data, &one); err != nil {
		return err
	}
	*o = oneOrMany[T]{one}
	return nil
}

// DocumentActions extracts the sorted set of Action entries from a policy
// document. IAM returns documents URL-encoded; plain JSON is accepted too.
func DocumentActions(document string) ([]string, error) {
	decoded := document
	if unescaped, err := url.PathUnescape(document); err == nil {
		decoded = unescaped
	}

	var doc policyDocument
	if err := json.Unmarshal([]byte(decoded), &doc); err != nil {
		return nil, fmt.Errorf("decode policy document: %w", err)
	}

	set := make(map[string]struct{})
	for _, st := range doc.Statement {
		for _, action := range st.Action {
			set[action] = struct{}{}
		}
	}
	actions := make([]string, 0, len(set))
	for action := range set {
		actions = append(actions, action)
	}
	sort.Strings(actions)
	return actions, nil
}

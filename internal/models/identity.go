package models

// ---------------------------------------------------------------------------
// Caller identity and attached-permission models (audit commands)
// ---------------------------------------------------------------------------

// CallerIdentity is the STS view of the credentials in use.
type CallerIdentity struct {
	Account string `json:"account" yaml:"account"`
	ARN     string `json:"arn"     yaml:"arn"`
	UserID  string `json:"user_id" yaml:"user_id"`
}

// PrincipalKind classifies the principal behind a caller ARN.
type PrincipalKind string

const (
	PrincipalUser    PrincipalKind = "user"
	PrincipalRole    PrincipalKind = "role"
	PrincipalUnknown PrincipalKind = "unknown"
)

// AttachedPolicy is a managed policy attached to a user, group, or role.
type AttachedPolicy struct {
	Name string `json:"name" yaml:"name"`
	ARN  string `json:"arn"  yaml:"arn"`
}

// GroupPolicies lists the managed policies attached to one IAM group.
type GroupPolicies struct {
	GroupName string           `json:"group_name" yaml:"group_name"`
	Policies  []AttachedPolicy `json:"policies"   yaml:"policies"`
}

// PrincipalReport describes the permissions attached to the caller.
//
// Error is set when an IAM lookup failed part-way; everything gathered
// before the failure is kept.
type PrincipalReport struct {
	Identity CallerIdentity   `json:"identity"           yaml:"identity"`
	Kind     PrincipalKind    `json:"kind"               yaml:"kind"`
	Name     string           `json:"name,omitempty"     yaml:"name,omitempty"`
	Policies []AttachedPolicy `json:"policies,omitempty" yaml:"policies,omitempty"`
	Groups   []GroupPolicies  `json:"groups,omitempty"   yaml:"groups,omitempty"`
	Error    string           `json:"error,omitempty"    yaml:"error,omitempty"`
}

// PolicyActions is the flattened action list of one managed policy's
// default version.
type PolicyActions struct {
	Name      string   `json:"name"       yaml:"name"`
	ARN       string   `json:"arn"        yaml:"arn"`
	VersionID string   `json:"version_id" yaml:"version_id"`
	Actions   []string `json:"actions"    yaml:"actions"`
	Error     string   `json:"error,omitempty" yaml:"error,omitempty"`
}

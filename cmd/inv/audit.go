package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/pankaj-dahiya-devops/cloud-inventory/internal/models"
	"github.com/pankaj-dahiya-devops/cloud-inventory/internal/providers/aws/identity"
)

// Output formats shared by the audit and doctor commands.
const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

func newAuditCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Inspect the identity and permissions an inventory runs under",
	}
	cmd.PersistentFlags().String("format", formatTable, `Output format: "table", "json" or "yaml"`)
	cmd.AddCommand(newAuditIdentityCmd(a))
	cmd.AddCommand(newAuditPolicyCmd(a))
	return cmd
}

func newAuditIdentityCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "identity",
		Short: "Show the caller identity and the managed policies attached to it",
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("format")
			auditor, err := a.auditor(cmd)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			caller, err := auditor.CallerIdentity(ctx)
			if err != nil {
				return err
			}
			report := auditor.Principal(ctx, caller)
			if report.Error != "" {
				a.log.Warn().Str("principal", report.Name).Str("error", report.Error).Msg("attached policies are incomplete")
			}
			return render(cmd.OutOrStdout(), format, report, func(w io.Writer) {
				renderPrincipal(w, report)
			})
		},
	}
}

func newAuditPolicyCmd(a *app) *cobra.Command {
	var specs []string

	cmd := &cobra.Command{
		Use:   "policy",
		Short: "List the actions granted by managed policies",
		Long: `Reads the default version of each managed policy and prints its
sorted, de-duplicated actions. Without --policy, the AWS managed
SecurityAudit and ViewOnlyAccess policies are read.`,
		Example: `  inv audit policy
  inv audit policy --policy ReadOnly=arn:aws:iam::aws:policy/ReadOnlyAccess`,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("format")
			policies, err := parsePolicySpecs(specs)
			if err != nil {
				return err
			}
			auditor, err := a.auditor(cmd)
			if err != nil {
				return err
			}

			results := auditor.AuditPolicies(cmd.Context(), policies)
			if err := render(cmd.OutOrStdout(), format, results, func(w io.Writer) {
				renderPolicyActions(w, results)
			}); err != nil {
				return err
			}

			failed := 0
			for _, r := range results {
				if r.Error != "" {
					failed++
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d policies could not be read", failed, len(results))
			}
			return nil
		},
	}
	cmd.Flags().StringArrayVar(&specs, "policy", nil, "Policy to read as name=arn (repeatable)")
	return cmd
}

// auditor builds an identity.Auditor over the configured profile.
func (a *app) auditor(cmd *cobra.Command) (*identity.Auditor, error) {
	profile, err := a.provider.LoadProfile(cmd.Context(), a.cfg.AWS.Profile)
	if err != nil {
		return nil, err
	}
	return identity.NewAuditor(profile.Config, identity.Options{
		Factory: a.identityClients,
		Logger:  &a.log,
	}), nil
}

// parsePolicySpecs turns name=arn pairs into policies. No specs selects
// identity.DefaultAuditPolicies. A bare ARN is named after its last segment.
func parsePolicySpecs(specs []string) ([]models.AttachedPolicy, error) {
	if len(specs) == 0 {
		return identity.DefaultAuditPolicies(), nil
	}
	policies := make([]models.AttachedPolicy, 0, len(specs))
	for _, spec := range specs {
		name, arn, ok := strings.Cut(spec, "=")
		if !ok {
			arn = spec
			name = arn[strings.LastIndex(arn, "/")+1:]
		}
		name, arn = strings.TrimSpace(name), strings.TrimSpace(arn)
		if !strings.HasPrefix(arn, "arn:") {
			return nil, fmt.Errorf("--policy %q: want name=arn", spec)
		}
		if name == "" {
			return nil, fmt.Errorf("--policy %q: empty name", spec)
		}
		policies = append(policies, models.AttachedPolicy{Name: name, ARN: arn})
	}
	return policies, nil
}

// render writes v as JSON or YAML, or calls table for the default format.
func render(w io.Writer, format string, v any, table func(io.Writer)) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	case formatTable, "":
		table(w)
		return nil
	default:
		return fmt.Errorf("unknown format %q (want table, json or yaml)", format)
	}
}

func renderPrincipal(w io.Writer, r models.PrincipalReport) {
	fmt.Fprintf(w, "Account:  %s\n", r.Identity.Account)
	fmt.Fprintf(w, "ARN:      %s\n", r.Identity.ARN)
	fmt.Fprintf(w, "User ID:  %s\n", r.Identity.UserID)
	if r.Name != "" {
		fmt.Fprintf(w, "Kind:     %s (%s)\n", r.Kind, r.Name)
	} else {
		fmt.Fprintf(w, "Kind:     %s\n", r.Kind)
	}

	if r.Kind == models.PrincipalUnknown {
		return
	}

	fmt.Fprintf(w, "\nAttached policies (%d):\n", len(r.Policies))
	for _, p := range r.Policies {
		fmt.Fprintf(w, "  %-40s  %s\n", p.Name, p.ARN)
	}
	if r.Kind == models.PrincipalUser {
		fmt.Fprintf(w, "\nGroups (%d):\n", len(r.Groups))
		for _, g := range r.Groups {
			fmt.Fprintf(w, "  %s\n", g.GroupName)
			for _, p := range g.Policies {
				fmt.Fprintf(w, "    %-38s  %s\n", p.Name, p.ARN)
			}
		}
	}
	if r.Error != "" {
		fmt.Fprintf(w, "\nIncomplete: %s\n", r.Error)
	}
}

func renderPolicyActions(w io.Writer, results []models.PolicyActions) {
	for i, r := range results {
		if i > 0 {
			fmt.Fprintln(w)
		}
		if r.Error != "" {
			fmt.Fprintf(w, "%s (%s): ERROR %s\n", r.Name, r.ARN, r.Error)
			continue
		}
		fmt.Fprintf(w, "%s (%s) version %s, %d actions\n", r.Name, r.ARN, r.VersionID, len(r.Actions))
		for _, action := range r.Actions {
			fmt.Fprintf(w, "  %s\n", action)
		}
	}
}

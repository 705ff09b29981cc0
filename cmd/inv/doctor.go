package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/pankaj-dahiya-devops/cloud-inventory/internal/providers/aws/regions"
)

// DoctorResult is the structured output of inv doctor. It can be serialised
// to JSON via --format=json or rendered as a human-readable table (default).
type DoctorResult struct {
	AWS struct {
		Profile     string `json:"profile,omitempty"`
		Credentials bool   `json:"credentials_ok"`
		IdentityOK  bool   `json:"identity_ok"`
		AccountID   string `json:"account_id,omitempty"`
		RegionsOK   bool   `json:"regions_ok"`
		Regions     int    `json:"regions,omitempty"`
		Error       string `json:"error,omitempty"`
	} `json:"aws"`

	Config struct {
		Path    string `json:"path,omitempty"`
		Present bool   `json:"present"`
	} `json:"config"`

	OverallHealthy bool `json:"overall_healthy"`
}

func newDoctorCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check credentials, identity, and region discovery",
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("format")
			result, err := a.runDoctor(cmd.Context(), cmd.OutOrStdout(), format)
			if err != nil {
				// Rendering failure.
				return err
			}
			if !result.OverallHealthy {
				return errSilentFailure
			}
			return nil
		},
	}
	cmd.Flags().String("format", formatTable, `Output format: "table" or "json"`)
	return cmd
}

// runDoctor collects all diagnostic results, renders them to w in the
// requested format, and returns the result.
// The returned error covers only rendering failures. Callers inspect
// result.OverallHealthy to decide the exit status.
func (a *app) runDoctor(ctx context.Context, w io.Writer, format string) (DoctorResult, error) {
	result := a.collectDoctorResult(ctx)

	switch format {
	case formatJSON:
		if err := json.NewEncoder(w).Encode(result); err != nil {
			return result, fmt.Errorf("encode doctor result: %w", err)
		}
	case formatTable, "":
		renderDoctorTable(result, w)
	default:
		return result, fmt.Errorf("unknown format %q (want table or json)", format)
	}

	return result, nil
}

// collectDoctorResult runs every check and populates a DoctorResult. It
// performs no rendering.
func (a *app) collectDoctorResult(ctx context.Context) DoctorResult {
	var result DoctorResult

	// Credentials → STS account ID → region discovery.
	result.AWS.Profile = a.cfg.AWS.Profile
	profileCfg, err := a.provider.LoadProfile(ctx, a.cfg.AWS.Profile)
	if err != nil {
		result.AWS.Error = err.Error()
	} else {
		result.AWS.Credentials = true
		if _, err := a.provider.ResolveAccountID(ctx, profileCfg); err != nil {
			result.AWS.Error = err.Error()
		} else {
			result.AWS.IdentityOK = true
			result.AWS.AccountID = profileCfg.AccountID

			set := a.regionClients(a.provider.ConfigForRegion(profileCfg, regions.AnchorRegion))
			list, err := regions.NewDynamic(set.EC2).ListRegions(ctx)
			if err != nil {
				result.AWS.Error = err.Error()
			} else {
				result.AWS.RegionsOK = true
				result.AWS.Regions = len(list)
			}
		}
	}

	// Config file: optional, already loaded and validated by this point.
	result.Config.Path = a.configFile
	result.Config.Present = a.configFile != ""

	result.OverallHealthy = result.AWS.Credentials &&
		result.AWS.IdentityOK &&
		result.AWS.RegionsOK

	return result
}

// renderDoctorTable writes the human-readable diagnostic output from result to w.
func renderDoctorTable(result DoctorResult, w io.Writer) {
	fmt.Fprintln(w, "Environment Diagnostics")

	if result.AWS.Profile != "" {
		fmt.Fprintf(w, "\nAWS (profile: %s):\n", result.AWS.Profile)
	} else {
		fmt.Fprintln(w, "\nAWS:")
	}
	switch {
	case !result.AWS.Credentials:
		doctorPrint(w, "Credentials", "FAIL", result.AWS.Error)
		doctorPrint(w, "STS Identity", "FAIL", "skipped")
		doctorPrint(w, "Regions API", "FAIL", "skipped")
	case !result.AWS.IdentityOK:
		doctorPrint(w, "Credentials", "OK", "")
		doctorPrint(w, "STS Identity", "FAIL", result.AWS.Error)
		doctorPrint(w, "Regions API", "FAIL", "skipped")
	default:
		doctorPrint(w, "Credentials", "OK", "")
		doctorPrint(w, "STS Identity", "OK", "Account: "+result.AWS.AccountID)
		if result.AWS.RegionsOK {
			doctorPrint(w, "Regions API", "OK", fmt.Sprintf("%d regions enabled", result.AWS.Regions))
		} else {
			doctorPrint(w, "Regions API", "FAIL", result.AWS.Error)
		}
	}

	fmt.Fprintln(w, "\nConfig:")
	if result.Config.Present {
		doctorPrint(w, "File", "OK", result.Config.Path)
	} else {
		doctorPrint(w, "File", "OK", "none, using defaults")
	}

	fmt.Fprintln(w)
	if result.OverallHealthy {
		fmt.Fprintln(w, "Overall Status: HEALTHY")
	} else {
		fmt.Fprintln(w, "Overall Status: UNHEALTHY")
	}
}

// doctorPrint writes a single diagnostic line: "  label: status [detail]".
func doctorPrint(w io.Writer, label, status, detail string) {
	if detail != "" {
		fmt.Fprintf(w, "  %s: %s (%s)\n", label, status, detail)
	} else {
		fmt.Fprintf(w, "  %s: %s\n", label, status)
	}
}

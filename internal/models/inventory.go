package models

import "time"

// Service identifies which collector produced a ResourceRecord.
type Service string

const (
	ServiceEC2        Service = "EC2"
	ServiceRDS        Service = "RDS"
	ServiceS3         Service = "S3"
	ServiceELB        Service = "ELB"
	ServiceCloudWatch Service = "CLOUDWATCH"
	ServiceTagging    Service = "TAGGING"

	// Identity lookups. These never appear in an inventory.
	ServiceSTS Service = "STS"
	ServiceIAM Service = "IAM"
)

const (
	// GlobalRegion is the Region value of records that belong to no partition.
	GlobalRegion = "global"

	// UnknownRegion is recorded when a resource's home region could not be
	// looked up at all.
	UnknownRegion = "unknown"
)

// ---------------------------------------------------------------------------
// Scope
// ---------------------------------------------------------------------------

// Scope is the unit a collector is invoked for: one region, or the account
// as a whole for global-scope resources.
type Scope struct {
	Region string
	Global bool
}

// GlobalScope returns the scope used for account-wide collectors.
func GlobalScope() Scope {
	return Scope{Global: true}
}

// RegionScope returns the scope for a single region.
func RegionScope(region string) Scope {
	return Scope{Region: region}
}

// String renders the scope for log lines and error messages.
func (s Scope) String() string {
	if s.Global {
		return GlobalRegion
	}
	return s.Region
}

// ---------------------------------------------------------------------------
// Records and results
// ---------------------------------------------------------------------------

// ResourceRecord is one inventoried resource. It is the unit of output.
//
// ResourceID is provider-native and only unique within a Service+Region
// pair. Details is free-form and its shape depends on Service.
type ResourceRecord struct {
	Region     string  `json:"region"     yaml:"region"`
	Service    Service `json:"service"    yaml:"service"`
	ResourceID string  `json:"resource_id" yaml:"resource_id"`
	Details    string  `json:"details"    yaml:"details"`
}

// ScanFailure records a (scope, service) pair whose collection failed.
// Failures are informational: the records of every other pair are kept.
type ScanFailure struct {
	Scope   string  `json:"scope"`
	Service Service `json:"service,omitempty"`
	Op      string  `json:"op,omitempty"`
	Code    string  `json:"code,omitempty"`
	Message string  `json:"message"`
}

// ScanResult is the ordered output of one inventory run. Records grow by
// append only and are never reordered: global records first, then each
// region in catalog order, collectors in declared order within a region.
type ScanResult struct {
	Profile    string           `json:"profile"`
	AccountID  string           `json:"account_id,omitempty"`
	Regions    []string         `json:"regions"`
	Records    []ResourceRecord `json:"records"`
	Failures   []ScanFailure    `json:"failures,omitempty"`
	StartedAt  time.Time        `json:"started_at"`
	FinishedAt time.Time        `json:"finished_at"`
}

// CountByService returns the number of records per service.
func (r *ScanResult) CountByService() map[Service]int {
	counts := make(map[Service]int)
	for _, rec := range r.Records {
		counts[rec.Service]++
	}
	return counts
}

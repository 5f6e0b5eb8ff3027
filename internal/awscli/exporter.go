package awscli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/temirov/aws-login/internal/shell"
)

const (
	// ProfileEnvironmentVariable selects the AWS CLI and SDK profile.
	ProfileEnvironmentVariable = "AWS_PROFILE"
	// RegionEnvironmentVariable selects the AWS region.
	RegionEnvironmentVariable = "AWS_REGION"

	environmentMissingMessageConstant = "shell environment not configured"
	profileRequiredMessageConstant    = "profile name must be provided"
	exportFailureTemplateConstant     = "could not export %s: %w"
)

// ErrEnvironmentNotConfigured indicates the shell environment dependency was missing.
var ErrEnvironmentNotConfigured = errors.New(environmentMissingMessageConstant)

// ErrProfileRequired indicates an export was requested without a profile.
var ErrProfileRequired = errors.New(profileRequiredMessageConstant)

// ProfileExporter publishes the selected profile and region to the parent shell.
type ProfileExporter struct {
	environment shell.Environment
}

// NewProfileExporter constructs a ProfileExporter writing through environment.
func NewProfileExporter(environment shell.Environment) (*ProfileExporter, error) {
	if environment == nil {
		return nil, ErrEnvironmentNotConfigured
	}
	return &ProfileExporter{environment: environment}, nil
}

// Export sets AWS_PROFILE, and AWS_REGION when region is not empty.
func (exporter *ProfileExporter) Export(profile string, region string) error {
	trimmedProfile := strings.TrimSpace(profile)
	if len(trimmedProfile) == 0 {
		return ErrProfileRequired
	}
	if setError := exporter.environment.SetVar(ProfileEnvironmentVariable, trimmedProfile); setError != nil {
		return fmt.Errorf(exportFailureTemplateConstant, ProfileEnvironmentVariable, setError)
	}

	trimmedRegion := strings.TrimSpace(region)
	if len(trimmedRegion) == 0 {
		return nil
	}
	if setError := exporter.environment.SetVar(RegionEnvironmentVariable, trimmedRegion); setError != nil {
		return fmt.Errorf(exportFailureTemplateConstant, RegionEnvironmentVariable, setError)
	}
	return nil
}

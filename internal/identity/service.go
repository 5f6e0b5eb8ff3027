package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/aws/smithy-go"

	"github.com/temirov/aws-login/internal/execshell"
)

const (
	clientFactoryMissingMessageConstant    = "STS client factory not configured"
	loadConfigurationErrorTemplateConstant = "failed to load AWS configuration: %w"
	clientCreationErrorTemplateConstant    = "failed to create STS client: %w"
	apiErrorTemplateConstant               = "STS rejected the request (%s): %s: %w"
	expiredCredentialsTemplateConstant     = "credentials for the selected profile have expired; run `aws-login sso` (%s): %w"
	callerIdentityErrorTemplateConstant    = "failed to resolve caller identity: %w"
)

var expiredCredentialErrorCodes = map[string]struct{}{
	"ExpiredToken":          {},
	"ExpiredTokenException": {},
	"UnauthorizedException": {},
	"InvalidTokenException": {},
}

// ErrClientFactoryNotConfigured indicates the STS client factory dependency was missing.
var ErrClientFactoryNotConfigured = errors.New(clientFactoryMissingMessageConstant)

// CallerIdentityClient is the subset of the STS client used here.
type CallerIdentityClient interface {
	GetCallerIdentity(executionContext context.Context, input *sts.GetCallerIdentityInput, optionFunctions ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error)
}

// ClientFactory builds an STS client for a profile and region. Empty values defer to the SDK defaults.
type ClientFactory func(executionContext context.Context, profile string, region string) (CallerIdentityClient, error)

// Identity describes the principal behind the active credentials.
type Identity struct {
	Account string
	ARN     string
	UserID  string
}

// Service resolves caller identities.
type Service struct {
	clientFactory ClientFactory
}

// NewService constructs a Service. A nil factory selects the SDK-backed STS client.
func NewService(clientFactory ClientFactory) *Service {
	if clientFactory == nil {
		clientFactory = NewSTSClient
	}
	return &Service{clientFactory: clientFactory}
}

// NewSTSClient loads the shared AWS configuration for profile and region and returns an STS client.
func NewSTSClient(executionContext context.Context, profile string, region string) (CallerIdentityClient, error) {
	loadOptions := make([]func(*awsconfig.LoadOptions) error, 0, 2)
	if trimmedProfile := strings.TrimSpace(profile); len(trimmedProfile) > 0 {
		loadOptions = append(loadOptions, awsconfig.WithSharedConfigProfile(trimmedProfile))
	}
	if trimmedRegion := strings.TrimSpace(region); len(trimmedRegion) > 0 {
		loadOptions = append(loadOptions, awsconfig.WithRegion(trimmedRegion))
	}

	configuration, loadError := awsconfig.LoadDefaultConfig(executionContext, loadOptions...)
	if loadError != nil {
		return nil, fmt.Errorf(loadConfigurationErrorTemplateConstant, loadError)
	}
	return sts.NewFromConfig(configuration), nil
}

// WhoAmI returns the identity for the profile and region carried by options.
func (service *Service) WhoAmI(executionContext context.Context, options execshell.GlobalOptions) (Identity, error) {
	if service == nil || service.clientFactory == nil {
		return Identity{}, ErrClientFactoryNotConfigured
	}

	profile, region := "", ""
	if options != nil {
		profile, region = options.Profile(), options.Region()
	}

	client, clientError := service.clientFactory(executionContext, profile, region)
	if clientError != nil {
		return Identity{}, fmt.Errorf(clientCreationErrorTemplateConstant, clientError)
	}

	output, callError := client.GetCallerIdentity(executionContext, &sts.GetCallerIdentityInput{})
	if callError != nil {
		return Identity{}, fmt.Errorf(callerIdentityErrorTemplateConstant, classifyError(callError))
	}

	return Identity{
		Account: aws.ToString(output.Account),
		ARN:     aws.ToString(output.Arn),
		UserID:  aws.ToString(output.UserId),
	}, nil
}

func classifyError(callError error) error {
	var apiError smithy.APIError
	if !errors.As(callError, &apiError) {
		return callError
	}
	if _, expired := expiredCredentialErrorCodes[apiError.ErrorCode()]; expired {
		return fmt.Errorf(expiredCredentialsTemplateConstant, apiError.ErrorCode(), callError)
	}
	return fmt.Errorf(apiErrorTemplateConstant, apiError.ErrorCode(), apiError.ErrorMessage(), callError)
}

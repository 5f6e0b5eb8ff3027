// Package awsconfig reads profiles from the AWS CLI shared configuration file.
package awsconfig

package ciutil

import "os"

// Environment variables read by this package.
const (
	EnvCI            = "CI"
	EnvGitHubActions = "GITHUB_ACTIONS"
	EnvGitLabCI      = "GITLAB_CI"
	EnvJenkinsURL    = "JENKINS_URL"
	EnvTravisCI      = "TRAVIS"
	EnvCircleCI      = "CIRCLECI"

	EnvDatabaseURL     = "DATABASE_URL"
	EnvScryTestDBURL   = "SCRY_TEST_DB_URL" // preferred
	EnvScryDatabaseURL = "SCRY_DATABASE_URL"
)

// ciEnvVars are the variables CI providers set; any one of them marks a CI run.
var ciEnvVars = []string{EnvCI, EnvGitHubActions, EnvGitLabCI, EnvJenkinsURL, EnvTravisCI, EnvCircleCI}

// IsCI reports whether the process runs under a known CI provider.
func IsCI() bool {
	for _, name := range ciEnvVars {
		if os.Getenv(name) != "" {
			return true
		}
	}
	return false
}

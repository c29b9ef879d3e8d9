package cli_test

import (
	"bytes"
	"testing"

	"github.com/bpmops/flowadmin/internal/cli"
	"github.com/bpmops/flowadmin/internal/config"
)

const (
	baseQuery    = "c=20&p=0&f=state=failed&d=rootContainerId&d=assigned_id"
	defaultQuery = baseQuery + "&o=lastUpdateDate+DESC"

	generateRandomCasesID = "8617198282405797017"
	vacationRequestID     = "7623202965572839246"
)

// setupCLITest isolates the configuration directory and environment of a test.
func setupCLITest(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv(config.EnvHome, home)
	for _, env := range []string{
		config.EnvURL, config.EnvAppPath, config.EnvUsername, config.EnvPassword,
		config.EnvLogFormat, config.EnvOutput, config.EnvCache,
	} {
		t.Setenv(env, "")
	}
	t.Setenv(config.EnvLogLevel, "error")
	t.Setenv("NO_COLOR", "1")
	config.ResetGlobalConfigForTest()
	t.Cleanup(config.ResetGlobalConfigForTest)
	return home
}

// execute runs the root command with args and returns stdout and stderr.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := cli.NewRootCmd("test")
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

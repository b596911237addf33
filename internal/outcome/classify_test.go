// Copyright © 2026 ソニーレベル <C7kali3@gmail.com>
// Tests for failure classification

package outcome

import (
	"errors"
	"testing"
)

func TestClassifyExitZero(t *testing.T) {
	if kind := Classify(0, "Error: something scary on stderr"); kind != KindNone {
		t.Errorf("exit 0 must classify as none, got %s", kind)
	}
}

func TestClassifyPatterns(t *testing.T) {
	cases := []struct {
		stderr string
		want   Kind
	}{
		{"sh: terraform: command not found", KindToolNotInstalled},
		{`exec: "tflint": executable file not found in $PATH`, KindToolNotInstalled},
		{"Error building AzureRM Client: obtaining subscription", KindAuthenticationFailed},
		{"please run 'az login' to setup account", KindAuthenticationFailed},
		{"AADSTS7000215: invalid_client", KindAuthenticationFailed},
		{"Error: authorization failed when calling the API", KindAuthenticationFailed},
		{"Error: Argument or block definition required", KindConfigurationInvalid},
		{"Error: Unsupported argument on main.tf line 4", KindConfigurationInvalid},
		{"Error: Invalid resource type", KindConfigurationInvalid},
		{"failed to parse policy: rego_parse_error", KindConfigurationInvalid},
		{"Error: something nobody has seen before", KindToolExecutionFailed},
		{"", KindToolExecutionFailed},
	}
	for _, tc := range cases {
		if got := Classify(1, tc.stderr); got != tc.want {
			t.Errorf("Classify(1, %q) = %s, want %s", tc.stderr, got, tc.want)
		}
	}
}

func TestClassifySpawnError(t *testing.T) {
	if kind := ClassifySpawnError(nil); kind != KindNone {
		t.Errorf("nil error must classify as none, got %s", kind)
	}
	if kind := ClassifySpawnError(errors.New(`exec: "conftest": executable file not found in $PATH`)); kind != KindToolNotInstalled {
		t.Errorf("Expected tool_not_installed, got %s", kind)
	}
	if kind := ClassifySpawnError(errors.New("fork/exec: operation not permitted")); kind != KindToolExecutionFailed {
		t.Errorf("Expected tool_execution_failed, got %s", kind)
	}
}

func TestKindOf(t *testing.T) {
	err := Errorf(KindPathEscape, "folder %q escapes the workspace root", "../etc")
	if kind := KindOf(err); kind != KindPathEscape {
		t.Errorf("Expected path_escape, got %s", kind)
	}

	if kind := KindOf(errors.New("plain")); kind != KindToolExecutionFailed {
		t.Errorf("Untagged error must map to tool_execution_failed, got %s", kind)
	}
	if kind := KindOf(nil); kind != KindNone {
		t.Errorf("nil error must map to none, got %s", kind)
	}
}

func TestPreExecutionKinds(t *testing.T) {
	pre := []Kind{
		KindPathEscape, KindWorkspaceNotFound, KindUnsupportedCommand,
		KindMissingSubcommand, KindUnsupportedSubcommand,
		KindMissingArgument, KindMalformedArgument, KindConfirmationRequired,
	}
	for _, k := range pre {
		if !k.PreExecution() {
			t.Errorf("%s should be a pre-execution kind", k)
		}
	}

	post := []Kind{KindTimeout, KindToolNotInstalled, KindConfigurationInvalid, KindAuthenticationFailed, KindToolExecutionFailed, KindNone}
	for _, k := range post {
		if k.PreExecution() {
			t.Errorf("%s should not be a pre-execution kind", k)
		}
	}
}

// Copyright © 2026 ソニーレベル <C7kali3@gmail.com>
// Best-effort classification of raw tool failures

package outcome

import (
	"regexp"
	"strings"
)

// rule maps a stderr pattern to a taxonomy kind. Rules are evaluated in
// order and the first match wins; they are advisory only and never
// replace the raw output.
type rule struct {
	pattern *regexp.Regexp
	kind    Kind
}

var rules = []rule{
	// Missing binaries. Covers the shell/exec wording of Linux, macOS and
	// the Go runtime's own spawn error.
	{regexp.MustCompile(`(?i)executable file not found`), KindToolNotInstalled},
	{regexp.MustCompile(`(?i)command not found`), KindToolNotInstalled},
	{regexp.MustCompile(`(?i)no such file or directory`), KindToolNotInstalled},
	{regexp.MustCompile(`(?i)is not installed or not available in PATH`), KindToolNotInstalled},

	// Provider/CLI authentication failures (Azure wording first, then
	// generic).
	{regexp.MustCompile(`(?i)error building (azurerm |arm )?client`), KindAuthenticationFailed},
	{regexp.MustCompile(`(?i)obtain(ing)? a credential`), KindAuthenticationFailed},
	{regexp.MustCompile(`(?i)az login`), KindAuthenticationFailed},
	{regexp.MustCompile(`(?i)invalid_client`), KindAuthenticationFailed},
	{regexp.MustCompile(`(?i)authentication failed`), KindAuthenticationFailed},
	{regexp.MustCompile(`(?i)unauthorized|authorization failed`), KindAuthenticationFailed},

	// Syntax and configuration diagnostics from terraform, tflint and
	// conftest.
	{regexp.MustCompile(`(?i)syntax error`), KindConfigurationInvalid},
	{regexp.MustCompile(`(?i)argument or block definition required`), KindConfigurationInvalid},
	{regexp.MustCompile(`(?i)unsupported argument`), KindConfigurationInvalid},
	{regexp.MustCompile(`(?i)unsupported block type`), KindConfigurationInvalid},
	{regexp.MustCompile(`(?i)error: invalid `), KindConfigurationInvalid},
	{regexp.MustCompile(`(?i)error: missing `), KindConfigurationInvalid},
	{regexp.MustCompile(`(?i)failed to parse`), KindConfigurationInvalid},
	{regexp.MustCompile(`(?i)configuration is invalid`), KindConfigurationInvalid},
}

// Classify maps a finished process to a taxonomy kind. Exit code zero is
// always success (KindNone); anything else is matched against the rule
// table, falling back to the generic KindToolExecutionFailed.
func Classify(exitCode int, stderr string) Kind {
	if exitCode == 0 {
		return KindNone
	}
	for _, r := range rules {
		if r.pattern.MatchString(stderr) {
			return r.kind
		}
	}
	return KindToolExecutionFailed
}

// ClassifySpawnError maps an error from process startup (before any exit
// code exists) to a taxonomy kind.
func ClassifySpawnError(err error) Kind {
	if err == nil {
		return KindNone
	}
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "executable file not found") ||
		strings.Contains(msg, "no such file or directory") {
		return KindToolNotInstalled
	}
	return KindToolExecutionFailed
}

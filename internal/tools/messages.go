package tools

import (
	"fmt"
	"strings"

	"n8nmcp/internal/trigger"
)

// Fixed user-facing messages. Callers outside this package match on them.
const (
	MsgUserIDRequired = "Error: User ID is required. Please configure the n8n integration in your account settings."
	MsgAPIKeyNotFound = "Error: n8n API key not found. Please add your n8n API key in the integration settings."
)

const (
	defaultListLimit   = 100
	maxListLimit       = 250
	defaultSearchLimit = 10
	maxSearchLimit     = 50
)

// unsupportedTriggerMessage names the detected type and the supported set.
func unsupportedTriggerMessage(t trigger.Type) string {
	names := make([]string, len(trigger.SupportedTypes))
	for i, st := range trigger.SupportedTypes {
		names[i] = string(st)
	}
	return fmt.Sprintf("Error: Cannot execute workflow: unsupported trigger type (%s). Supported trigger types: %s.",
		t, strings.Join(names, ", "))
}

func incompleteTriggerMessage(t trigger.Type, missing string) string {
	return fmt.Sprintf("Error: Cannot execute workflow: incomplete %s trigger (no %s found).", t, missing)
}

func requiredArgMessage(name string) string {
	return fmt.Sprintf("Error: %s is required.", name)
}

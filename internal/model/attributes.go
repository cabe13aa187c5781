// internal/model/attributes.go
package model

import (
	"strings"

	"printer-service/internal/spooler"
	"printer-service/pkg/printertypes"
)

// PossibleValue is a current default together with its supported values
type PossibleValue struct {
	Default   string   `json:"default"`
	Supported []string `json:"supported"`
}

// AttributeSet is a printer attribute bag split into settable defaults,
// policies and access control
type AttributeSet struct {
	Defaults map[string]string        `json:"defaults"`
	Possible map[string]PossibleValue `json:"possible"`
	Other    map[string]any           `json:"other"`

	JobSheetStart        string   `json:"job_sheet_start"`
	JobSheetEnd          string   `json:"job_sheet_end"`
	JobSheetsSupported   []string `json:"job_sheets_supported"`
	ErrorPolicy          string   `json:"error_policy"`
	ErrorPolicySupported []string `json:"error_policy_supported"`
	OpPolicy             string   `json:"op_policy"`
	OpPolicySupported    []string `json:"op_policy_supported"`

	DefaultAllow      bool     `json:"default_allow"`
	ExceptUsers       []string `json:"except_users"`
	ExceptUsersString string   `json:"except_users_string"`
}

// defaults that are handled separately or cannot be set
var skippedDefaults = map[string]bool{
	"job-sheets":            true,
	"printer-error-policy":  true,
	"printer-op-policy":     true,
	"notify-events":         true,
	"document-format":       true,
	"notify-lease-duration": true,
}

const (
	defaultSuffix   = "-default"
	supportedSuffix = "-supported"
	userNamePrefix  = "requesting-user-name-"
)

// NormalizeAttributes classifies a printer's attribute bag
func NormalizeAttributes(attrs spooler.Attributes) *AttributeSet {
	set := &AttributeSet{
		Defaults: make(map[string]string),
		Possible: make(map[string]PossibleValue, len(printertypes.StaticSupported)),
		Other:    make(map[string]any),
	}
	for name, static := range printertypes.StaticSupported {
		set.Possible[name] = PossibleValue{
			Default:   static.Default,
			Supported: append([]string(nil), static.Supported...),
		}
	}

	for key, value := range attrs {
		switch {
		case strings.HasSuffix(key, defaultSuffix):
			name := strings.TrimSuffix(key, defaultSuffix)
			if skippedDefaults[name] {
				continue
			}

			supported, found := attrs.Strings(name + supportedSuffix)
			if !found {
				if static, ok := printertypes.StaticSupported[name]; ok {
					supported, found = append([]string(nil), static.Supported...), true
				}
			}

			def := CollapseDefault(value)
			set.Defaults[name] = def
			if found {
				set.Possible[name] = PossibleValue{Default: def, Supported: supported}
			}

		case strings.HasSuffix(key, supportedSuffix),
			key == "printer-error-policy",
			key == "printer-op-policy",
			strings.HasPrefix(key, userNamePrefix):
			// derived below

		default:
			set.Other[key] = value
		}
	}

	set.JobSheetStart, set.JobSheetEnd = "none", "none"
	if sheets, ok := attrs.Strings("job-sheets-default"); ok && len(sheets) >= 2 {
		set.JobSheetStart, set.JobSheetEnd = sheets[0], sheets[1]
	}
	set.JobSheetsSupported = stringsOr(attrs, "job-sheets-supported", []string{"none"})

	set.ErrorPolicy = attrs.StringOr("printer-error-policy", "none")
	set.ErrorPolicySupported = stringsOr(attrs, "printer-error-policy-supported", []string{"none"})

	set.OpPolicy = attrs.StringOr("printer-op-policy", "")
	if set.OpPolicy == "" {
		set.OpPolicy = "default"
	}
	set.OpPolicySupported = stringsOr(attrs, "printer-op-policy-supported", []string{"default"})

	set.DefaultAllow = true
	set.ExceptUsers = []string{}
	if users, ok := attrs.Strings("requesting-user-name-allowed"); ok {
		set.ExceptUsers = users
		set.DefaultAllow = false
	} else if users, ok := attrs.Strings("requesting-user-name-denied"); ok {
		set.ExceptUsers = users
	}
	set.ExceptUsersString = strings.Join(set.ExceptUsers, ", ")

	return set
}

// CollapseDefault renders a default value as a single string. Lists are
// joined with commas.
func CollapseDefault(value any) string {
	if spooler.IsList(value) {
		return strings.Join(spooler.ToStrings(value), ",")
	}
	return spooler.ToString(value)
}

func stringsOr(attrs spooler.Attributes, key string, def []string) []string {
	if values, ok := attrs.Strings(key); ok {
		return values
	}
	return def
}

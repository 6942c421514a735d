package domain

import "time"

// SignInAudience value for registrations serving multiple tenants.
const AudienceMultiTenant = "AzureADMultipleOrgs"

// AppRegConfig describes one application registration to create or reuse.
type AppRegConfig struct {
	DisplayName string
	// ExistingAppID short-circuits creation: when set, the caller-supplied
	// identity wins and no create call is issued against the directory.
	ExistingAppID  string
	RedirectURIs   []string
	SignInAudience string
	// RequireSecret requests a client secret for confidential-client flows.
	RequireSecret  bool
	SecretValidity time.Duration
}

// AppRegistration is the directory identity backing an application. The
// ClientSecret field is populated at most once, immediately after generation;
// the directory never returns it again, so the caller must persist it before
// dropping the value.
type AppRegistration struct {
	DisplayName        string
	ApplicationID      string
	ObjectID           string
	ServicePrincipalID string
	ClientSecret       string
	RedirectURIs       []string
	SignInAudience     string
	// Created reports whether this run created the registration, mirroring
	// ProvisioningResult.Created.
	Created bool
}

// SecretRecord identifies one stored secret version. The value itself is
// deliberately not retained here.
type SecretRecord struct {
	VaultName  string
	SecretName string
	Version    string
}

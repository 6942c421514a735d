package errors

type Code string

const (
	CodeUnknown          Code = "UNKNOWN"
	CodeInternal         Code = "INTERNAL_ERROR"
	CodeConfigValidation Code = "CONFIG_VALIDATION_ERROR"
	CodeConfigReadError  Code = "CONFIG_READ_ERROR"
	CodeConfigParseError Code = "CONFIG_PARSE_ERROR"

	CodePlatformAPIError  Code = "PLATFORM_API_ERROR"
	CodePlatformAuthError Code = "PLATFORM_AUTH_ERROR"
	CodeResourceNotFound  Code = "RESOURCE_NOT_FOUND"
	CodePropagationError  Code = "PROPAGATION_ERROR"
	CodeNameConflict      Code = "NAME_CONFLICT"

	CodeDirectoryAPIError Code = "DIRECTORY_API_ERROR"
	CodeSecretStoreError  Code = "SECRET_STORE_ERROR"

	CodePlanError          Code = "PLAN_ERROR"
	CodeManifestParseError Code = "MANIFEST_PARSE_ERROR"

	CodeDeployError    Code = "DEPLOY_ERROR"
	CodeMigrationError Code = "MIGRATION_ERROR"

	CodeNotImplemented Code = "NOT_IMPLEMENTED"
	CodeTimeout        Code = "TIMEOUT_ERROR"
)

func (c Code) String() string {
	return string(c)
}

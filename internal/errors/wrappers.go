package errors

import (
	stderrors "errors"
	"fmt"
)

// Common error wrapping patterns used throughout the codebase

// WrapParseError wraps an error with a "failed to parse" message
func WrapParseError(item string, cause error) *BaseError {
	message := fmt.Sprintf("failed to parse %s", item)
	return Wrap(SyntaxErrorCode, message, cause).
		WithContext("item", item)
}

// WrapFileSystemError wraps file system related errors
func WrapFileSystemError(operation, path string, cause error) *BaseError {
	message := fmt.Sprintf("failed to %s file '%s'", operation, path)
	return Wrap(FileSystemErrorCode, message, cause).
		WithContext("operation", operation).
		WithContext("path", path)
}

// WrapTemplateError wraps template processing errors
func WrapTemplateError(templateName, operation string, cause error) *BaseError {
	message := fmt.Sprintf("failed to %s template '%s'", operation, templateName)
	return Wrap(TemplateErrorCode, message, cause).
		WithContext("template", templateName).
		WithContext("operation", operation)
}

// WrapConfigurationError wraps configuration-related errors
func WrapConfigurationError(configType, operation string, cause error) *BaseError {
	message := fmt.Sprintf("failed to %s configuration '%s'", operation, configType)
	return Wrap(ConfigurationErrorCode, message, cause).
		WithContext("config_type", configType).
		WithContext("operation", operation)
}

// WrapGenerateError wraps an error with a "failed to generate" message
func WrapGenerateError(item string, cause error) *BaseError {
	message := fmt.Sprintf("failed to generate %s", item)
	return Wrap(GenerationErrorCode, message, cause).
		WithContext("target", item)
}

// TypeNotFound reports a source type the introspection provider cannot resolve
func TypeNotFound(identifier string) *BaseError {
	return Newf(NotFoundErrorCode, "source type '%s' not found", identifier).
		WithContext("type_name", identifier).
		WithSuggestions(
			"Check the fully qualified name, including the namespace",
			"Ensure the file declaring the type is under one of the source roots",
			"Descriptor files must list the type under 'types'",
		)
}

// ConfigurationError creates a configuration error
func ConfigurationError(configType, message string) *BaseError {
	fullMessage := fmt.Sprintf("configuration error in '%s': %s", configType, message)
	return New(ConfigurationErrorCode, fullMessage).
		WithContext("config_type", configType)
}

// ValidationError creates a validation error for a single field
func ValidationError(field, expected, actual string) *BaseError {
	return Newf(ValidationErrorCode, "invalid %s: expected %s, got %s", field, expected, actual).
		WithContext("field", field)
}

// CodeOf returns the code of the first CodedError in the chain
func CodeOf(err error) ErrorCode {
	var coded CodedError
	if stderrors.As(err, &coded) {
		return coded.ErrorCode()
	}
	return UnknownErrorCode
}

// IsNotFound reports whether err carries NotFoundErrorCode
func IsNotFound(err error) bool {
	return CodeOf(err) == NotFoundErrorCode
}

// AddToMultiple adds an error to a MultipleErrors, creating it if nil
func AddToMultiple(multiple **MultipleErrors, err CodedError) {
	if *multiple == nil {
		*multiple = NewMultipleErrors()
	}
	(*multiple).Add(err)
}

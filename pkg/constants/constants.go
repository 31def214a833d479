package constants

// CLIExtensionPrefix is the command name used in help text and user-facing output
const CLIExtensionPrefix = "formbind"

// ConfigFileName is the project-level config file looked up in the working directory
const ConfigFileName = "formbind.yaml"

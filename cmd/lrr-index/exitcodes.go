package main

// Exit codes
const (
	ExitSuccess     = 0 // Success
	ExitError       = 1 // General error (invalid arguments, runtime failure)
	ExitConfigError = 2 // Configuration error (unreadable or invalid config, missing input files)
	ExitDataError   = 3 // Data error (malformed feed, bad corrections file)
	ExitFetchError  = 4 // Feed could not be retrieved
)

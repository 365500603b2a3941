package utils

// Version of the tool, overridable at build time via
// -ldflags "-X .../src/utils.Version=...".
var Version = "1.0.0"

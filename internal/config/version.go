package config

// Version is the graph console binary version.
// Set at build time via: -ldflags "-X github.com/persistorai/graphconsole/internal/config.Version=<tag>"
// Defaults to "dev" when built without ldflags.
var Version = "dev"

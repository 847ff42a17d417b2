package types

// Version is overwritten at build time with -ldflags "-X".
var Version = "dev"

// UserAgent is sent with every outbound HTTP request.
func UserAgent() string {
	return "airgrab/" + Version
}

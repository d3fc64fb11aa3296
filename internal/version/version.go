// ABOUTME: Version constants for the game and tools
// ABOUTME: Product, manufacturer and version strings shown in banners and logs
package version

const (
	Version      = "0.1.0"
	Product      = "VoiceFlap"
	Manufacturer = "Resonate Protocol"
)

// Banner returns the product name and version for startup logs
func Banner() string {
	return Product + " " + Version
}

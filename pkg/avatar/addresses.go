package avatar

// Well-known consumer addresses.
const (
	// ParamPrefix roots every avatar parameter, inbound and outbound.
	ParamPrefix = "/avatar/parameters/"
	// AddrChange is reported by the consumer when the avatar switches.
	AddrChange = "/avatar/change"

	AddrInputVertical       = "/input/Vertical"
	AddrInputHorizontal     = "/input/Horizontal"
	AddrInputLookHorizontal = "/input/LookHorizontal"
	AddrInputJump           = "/input/Jump"
	AddrInputVoice          = "/input/Voice"

	AddrEyesClosed   = "/tracking/eye/EyesClosedAmount"
	AddrEyesPitchYaw = "/tracking/eye/LeftRightPitchYaw"
)

// Param renders a bare parameter name as a full outbound address.
func Param(name string) string { return ParamPrefix + name }

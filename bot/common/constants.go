package common

// Embed colors
const (
	ColorPrimary = 0x5865F2
	ColorSuccess = 0x00FF00
	ColorDanger  = 0xFF0000
	ColorWarning = 0xFFAA00
	ColorInfo    = 0x0099FF
	ColorGold    = 0xFFD700
	ColorKick    = 0xFF9900
	ColorMute    = 0xFFFF00
)

// CommandPrefix starts every text command
const CommandPrefix = "!"

// UI constants
const (
	MaxButtonsPerRow = 5
	MaxActionRows    = 5
	LeaderboardSize  = 10
)

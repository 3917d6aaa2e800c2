package entities

import "math"

// LevelUpRewardPerLevel is the currency granted per level reached
const LevelUpRewardPerLevel int64 = 10

// XPRequiredForLevel returns the width of level n's XP band: floor(100 * n^1.8)
func XPRequiredForLevel(n int) int64 {
	if n < 1 {
		n = 1
	}
	return int64(math.Floor(100 * math.Pow(float64(n), 1.8)))
}

// LevelProgress describes where an XP total sits inside the level bands
type LevelProgress struct {
	Level                     int
	XPIntoCurrentLevel        int64
	XPRequiredForCurrentLevel int64
}

// LevelOf finds the largest level whose cumulative lower bound is <= xp
func LevelOf(xp int64) LevelProgress {
	if xp < 0 {
		xp = 0
	}
	level := 1
	floor := int64(0)
	for {
		width := XPRequiredForLevel(level)
		if xp < floor+width {
			return LevelProgress{
				Level:                     level,
				XPIntoCurrentLevel:        xp - floor,
				XPRequiredForCurrentLevel: width,
			}
		}
		floor += width
		level++
	}
}

// CumulativeXPForLevel returns the total XP needed to reach the start of level n
func CumulativeXPForLevel(n int) int64 {
	var total int64
	for l := 1; l < n; l++ {
		total += XPRequiredForLevel(l)
	}
	return total
}

// ProgressPercent returns how far into the current level band the progress is, 0-100
func (p LevelProgress) ProgressPercent() int {
	if p.XPRequiredForCurrentLevel <= 0 {
		return 0
	}
	return int(p.XPIntoCurrentLevel * 100 / p.XPRequiredForCurrentLevel)
}

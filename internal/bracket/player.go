package bracket

import (
	"time"

	"github.com/google/uuid"
)

// Player is a competitor. Registered players share their id with a login
// account; guests are created inline by a tournament owner and have no
// account behind them.
type Player struct {
	ID         uuid.UUID `db:"id" json:"id"`
	Username   string    `db:"username" json:"username"`
	Gamertag   string    `db:"gamertag" json:"gamertag"`
	SkillLevel int       `db:"skill_level" json:"skill_level"`
	IsGuest    bool      `db:"is_guest" json:"is_guest"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

const (
	SkillLevelMin = 1
	SkillLevelMax = 8
)

var skillLevelNames = [...]string{
	"Bronze",
	"Silver",
	"Gold",
	"Platinum",
	"Diamond",
	"Champion",
	"Grand Champion",
	"Supersonic Legend",
}

// SkillLevelName maps an ordinal tier to its display name, "Unranked" for
// anything outside the range.
func SkillLevelName(level int) string {
	if level < SkillLevelMin || level > SkillLevelMax {
		return "Unranked"
	}
	return skillLevelNames[level-1]
}

// ClampSkillLevel pins a requested tier into the valid range, defaulting to
// the lowest tier for unset values.
func ClampSkillLevel(level int) int {
	if level < SkillLevelMin {
		return SkillLevelMin
	}
	if level > SkillLevelMax {
		return SkillLevelMax
	}
	return level
}

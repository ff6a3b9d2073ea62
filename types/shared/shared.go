package sharedtypes

// FighterID uniquely identifies a fighter in the roster.
type FighterID string

// FightID uniquely identifies a single bout record.
type FightID string

func (id FighterID) String() string { return string(id) }

func (id FightID) String() string { return string(id) }

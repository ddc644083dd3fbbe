package domain

import "time"

// ResolutionRun records one completed pipeline run for auditing: which group
// and policy were rendered, where the artifacts landed and their checksums.
type ResolutionRun struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"`

	GroupName string `gorm:"size:64;not null;index"`
	Policy    string `gorm:"size:16;not null"`

	Countries  int `gorm:"not null"`
	IPv4Blocks int `gorm:"not null"`
	IPv6Blocks int `gorm:"not null"`

	MapPath       string `gorm:"size:512;not null"`
	MapChecksum   string `gorm:"size:64;not null"`
	RulesPath     string `gorm:"size:512;not null"`
	RulesChecksum string `gorm:"size:64;not null"`

	StartedAt  time.Time `gorm:"not null"`
	FinishedAt time.Time `gorm:"not null"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`

	CountryStats []RunCountry `gorm:"constraint:OnDelete:CASCADE;foreignKey:RunID"`
}

// RunCountry stores the per-country block counts of a run.
type RunCountry struct {
	ID    uint64 `gorm:"primaryKey;autoIncrement"`
	RunID uint64 `gorm:"not null;index"`

	Code       string `gorm:"size:2;not null"`
	Name       string `gorm:"size:64;not null"`
	IPv4Blocks int    `gorm:"not null"`
	IPv6Blocks int    `gorm:"not null"`
}

package models

import (
	"gorm.io/gorm"
)

type Maintenance struct {
	gorm.Model
	AppMaintenance       bool `gorm:"default:false"`
	ForceUpdate          bool `gorm:"default:false"`
	IosLatestVersion     string
	AndroidLatestVersion string `gorm:"not null"`
	IsDeleted            bool   `gorm:"default:false"`
}
